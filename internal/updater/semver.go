package updater

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// canonical turns "1.2.3" or "v1.2.3" into the "v1.2.3" form semver expects.
func canonical(v string) (string, error) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid semver: %q", v)
	}
	return semver.Canonical(v), nil
}

// IsNewer reports whether latest is a strictly higher version than current.
func IsNewer(latest, current string) (bool, error) {
	l, err := canonical(latest)
	if err != nil {
		return false, fmt.Errorf("parse latest version: %w", err)
	}
	c, err := canonical(current)
	if err != nil {
		return false, fmt.Errorf("parse current version: %w", err)
	}
	return semver.Compare(l, c) > 0, nil
}

// trimV drops the leading "v" for display.
func trimV(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}
