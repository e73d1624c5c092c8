// Package handlers exposes the catalog, project, version and BQ line
// operations as a JSON API on the PocketBase router.
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog"

	"bqquote/models"
	"bqquote/store"
)

// Deps is shared by every handler.
type Deps struct {
	Store          *store.Store
	Log            zerolog.Logger
	CurrencySymbol string
}

// respondError maps store and validation errors to a status code. Anything
// unrecognised is logged and reported as a 500.
func respondError(e *core.RequestEvent, log zerolog.Logger, err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, store.ErrItemNotFound),
		errors.Is(err, store.ErrProjectNotFound),
		errors.Is(err, store.ErrVersionNotFound),
		errors.Is(err, store.ErrLineNotFound):
		return ErrorToast(e, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrVersionNameTaken),
		errors.Is(err, store.ErrLastVersion):
		return ErrorToast(e, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidField),
		errors.As(err, &verrs):
		return ErrorToast(e, http.StatusBadRequest, err.Error())
	}

	log.Error().
		Err(err).
		Str("method", e.Request.Method).
		Str("path", e.Request.URL.Path).
		Msg("request failed")
	return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// bindBody decodes the JSON body into dst and runs the struct validator.
func bindBody(e *core.RequestEvent, dst any) error {
	if err := e.BindBody(dst); err != nil {
		return err
	}
	return models.Validator().Struct(dst)
}
