package services

import (
	"fmt"
	"regexp"
	"strconv"
)

// FirstVersionName is the name given to the version seeded with a project.
const FirstVersionName = "version-1"

var versionPattern = regexp.MustCompile(`^version-(\d+)$`)

func formatVersionName(n int) string {
	return fmt.Sprintf("version-%d", n)
}

// SuggestVersionName proposes a name for a duplicate of source.
// "version-N" becomes "version-(N+1)", anything else becomes "<name>-copy".
// When the proposal is already taken the first unused "version-K" (K ≥ 2)
// is returned instead.
func SuggestVersionName(source string, existing []string) string {
	taken := make(map[string]bool, len(existing))
	for _, name := range existing {
		taken[name] = true
	}

	proposal := source + "-copy"
	if m := versionPattern.FindStringSubmatch(source); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			proposal = formatVersionName(n + 1)
		}
	}
	if !taken[proposal] {
		return proposal
	}

	for k := 2; ; k++ {
		candidate := formatVersionName(k)
		if !taken[candidate] {
			return candidate
		}
	}
}
