package handlers

import (
	"net/http"
	"testing"

	"bqquote/models"
)

func versionRequest(t *testing.T, method, projectID, versionID string, body any) *http.Request {
	t.Helper()
	target := "/api/bq/projects/" + projectID + "/versions"
	if versionID != "" {
		target += "/" + versionID
	}
	req := jsonRequest(t, method, target, body)
	req.SetPathValue("projectId", projectID)
	req.SetPathValue("versionId", versionID)
	return req
}

func TestHandleVersionCreate_NamesAndClones(t *testing.T) {
	d := newTestDeps(t)
	p, _ := seedProject(t, d, 2)

	suggest := jsonRequest(t, http.MethodGet, "/api/bq/projects/"+p.ID+"/versions/suggest-name?source="+p.ActiveVersionID, nil)
	suggest.SetPathValue("projectId", p.ID)
	rec := serve(t, HandleVersionSuggestName(d), suggest)
	if got := decodeBody[map[string]string](t, rec)["name"]; got != "version-2" {
		t.Errorf("suggested = %q, want version-2", got)
	}

	rec = serve(t, HandleVersionCreate(d), versionRequest(t, http.MethodPost, p.ID, "", map[string]any{"sourceVersionId": p.ActiveVersionID}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	v2 := decodeBody[models.ProjectVersion](t, rec)
	if v2.Name != "version-2" {
		t.Errorf("name = %q, want version-2", v2.Name)
	}

	rec = serve(t, HandleBOQLines(d), versionRequest(t, http.MethodGet, p.ID, v2.ID, nil))
	lines := decodeBody[struct {
		Lines []models.BQItem `json:"lines"`
	}](t, rec).Lines
	if len(lines) != 2 {
		t.Fatalf("copied lines = %d, want 2", len(lines))
	}
	for _, l := range lines {
		if l.VersionID != v2.ID {
			t.Errorf("line %s belongs to %s, want %s", l.ID, l.VersionID, v2.ID)
		}
	}

	project, _ := d.Store.Project(p.ID)
	if project.ActiveVersionID != v2.ID {
		t.Error("the copy should become the active version")
	}

	rec = serve(t, HandleVersionCreate(d), versionRequest(t, http.MethodPost, p.ID, "", map[string]any{"sourceVersionId": v2.ID, "name": "version-1"}))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate name status = %d, want 409", rec.Code)
	}

	rec = serve(t, HandleVersionList(d), versionRequest(t, http.MethodGet, p.ID, "", nil))
	versions := decodeBody[map[string][]models.ProjectVersion](t, rec)["versions"]
	if len(versions) != 2 || versions[0].Name != "version-1" || versions[1].Name != "version-2" {
		t.Errorf("versions = %+v", versions)
	}
}

func TestHandleVersionCreate_Errors(t *testing.T) {
	d := newTestDeps(t)
	p, _ := seedProject(t, d, 1)

	tests := []struct {
		name      string
		projectID string
		body      map[string]any
		want      int
	}{
		{"missing source", p.ID, map[string]any{}, http.StatusBadRequest},
		{"unknown source", p.ID, map[string]any{"sourceVersionId": "nope"}, http.StatusNotFound},
		{"unknown project", "nope", map[string]any{"sourceVersionId": p.ActiveVersionID}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, HandleVersionCreate(d), versionRequest(t, http.MethodPost, tt.projectID, "", tt.body))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	noSource := jsonRequest(t, http.MethodGet, "/api/bq/projects/"+p.ID+"/versions/suggest-name", nil)
	noSource.SetPathValue("projectId", p.ID)
	if rec := serve(t, HandleVersionSuggestName(d), noSource); rec.Code != http.StatusBadRequest {
		t.Errorf("suggest without source status = %d, want 400", rec.Code)
	}
}

func TestHandleVersionRename(t *testing.T) {
	d := newTestDeps(t)
	p, _ := seedProject(t, d, 1)
	v2, _ := d.Store.CreateVersion(p.ID, p.ActiveVersionID, "")

	rec := serve(t, HandleVersionRename(d), versionRequest(t, http.MethodPatch, p.ID, v2.ID, map[string]any{"name": "Budget"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[models.ProjectVersion](t, rec).Name; got != "Budget" {
		t.Errorf("name = %q, want Budget", got)
	}

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"taken", map[string]any{"name": "version-1"}, http.StatusConflict},
		{"blank", map[string]any{"name": ""}, http.StatusBadRequest},
		{"whitespace", map[string]any{"name": "   "}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, HandleVersionRename(d), versionRequest(t, http.MethodPatch, p.ID, v2.ID, tt.body))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandleVersionDelete(t *testing.T) {
	d := newTestDeps(t)
	p, _ := seedProject(t, d, 1)
	v2, _ := d.Store.CreateVersion(p.ID, p.ActiveVersionID, "")

	rec := serve(t, HandleVersionDelete(d), versionRequest(t, http.MethodDelete, p.ID, v2.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	project, _ := d.Store.Project(p.ID)
	if project.ActiveVersionID != p.ActiveVersionID {
		t.Errorf("active = %q, want fallback to %q", project.ActiveVersionID, p.ActiveVersionID)
	}

	rec = serve(t, HandleVersionDelete(d), versionRequest(t, http.MethodDelete, p.ID, p.ActiveVersionID, nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("last version status = %d, want 409", rec.Code)
	}
}

func TestHandleVersionResync(t *testing.T) {
	d := newTestDeps(t)
	p, items := seedProject(t, d, 3)
	cableItem := items[1]

	// explicit batch against the snapshot
	body := map[string]any{"updates": []map[string]any{
		{"id": cableItem.ID, "cost": 300},
		{"id": "not-in-snapshot", "cost": 1},
	}}
	rec := serve(t, HandleVersionResync(d), versionRequest(t, http.MethodPost, p.ID, p.ActiveVersionID, body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[map[string]int](t, rec)["repriced"]; got != 1 {
		t.Errorf("repriced = %d, want 1", got)
	}
	totals, _ := d.Store.Totals(p.ID, p.ActiveVersionID)
	// 152743*3 + 600*3
	if totals.Subtotal != 460029 {
		t.Errorf("subtotal = %v, want 460029", totals.Subtotal)
	}

	// empty body pulls the live catalog back in
	rec = serve(t, HandleVersionResync(d), versionRequest(t, http.MethodPost, p.ID, p.ActiveVersionID, nil))
	if got := decodeBody[map[string]int](t, rec)["repriced"]; got != 2 {
		t.Errorf("repriced from catalog = %d, want 2", got)
	}
	totals, _ = d.Store.Totals(p.ID, p.ActiveVersionID)
	// 152743*3 + 400*3
	if totals.Subtotal != 459429 {
		t.Errorf("subtotal = %v, want 459429", totals.Subtotal)
	}

	bad := map[string]any{"updates": []map[string]any{{"id": cableItem.ID, "colour": "red"}}}
	rec = serve(t, HandleVersionResync(d), versionRequest(t, http.MethodPost, p.ID, p.ActiveVersionID, bad))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad batch status = %d, want 400", rec.Code)
	}
}
