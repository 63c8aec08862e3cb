package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Tiliavir/work-journal/internal/timecalc"
)

var (
	ErrInvalidDate      = errors.New("invalid snapshot date")
	ErrInvalidProjectID = errors.New("invalid project id")
)

var slugInvalid = regexp.MustCompile(`[^a-z0-9._-]+`)

// ProjectIDFromPath derives a stable project id from a repository path.
func ProjectIDFromPath(repoPath string) string {
	base := strings.ToLower(filepath.Base(filepath.Clean(repoPath)))
	id := strings.Trim(slugInvalid.ReplaceAllString(base, "-"), "-.")
	if id == "" {
		return "unknown"
	}
	return id
}

func validateProjectID(id string) error {
	// Dot-prefixed names are skipped by enumeration, so they cannot be keys.
	if id == "" || strings.HasPrefix(id, ".") || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidProjectID, id)
	}
	return nil
}

func validateKey(date, projectID string) error {
	if _, err := timecalc.ParseDate(date); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	return validateProjectID(projectID)
}
