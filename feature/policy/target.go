package policy

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies a remote list family.
type Kind string

const (
	KindDenylist  Kind = "denylist"
	KindAllowlist Kind = "allowlist"
	KindCategory  Kind = "category"
)

var categoryID = regexp.MustCompile(`^[A-Za-z0-9_]{1,64}$`)

// ValidationError is caller input rejected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Target names one remote list.
type Target struct {
	Kind Kind
	// CategoryID is set for KindCategory only.
	CategoryID string
}

// ParseTarget accepts deny, denylist, allow, allowlist and category:<ID>.
func ParseTarget(s string) (Target, error) {
	raw := strings.TrimSpace(s)
	switch strings.ToLower(raw) {
	case "deny", "denylist":
		return Target{Kind: KindDenylist}, nil
	case "allow", "allowlist":
		return Target{Kind: KindAllowlist}, nil
	}

	if prefix, id, ok := strings.Cut(raw, ":"); ok && strings.EqualFold(prefix, string(KindCategory)) {
		if !categoryID.MatchString(id) {
			return Target{}, &ValidationError{Field: "target", Reason: fmt.Sprintf("category id %q must match %s", id, categoryID)}
		}
		return Target{Kind: KindCategory, CategoryID: id}, nil
	}

	return Target{}, &ValidationError{
		Field:  "target",
		Reason: fmt.Sprintf("unknown list %q (use deny, allow or category:<ID>)", s),
	}
}

// CanonicalTarget returns the canonical name of s, so "deny" and "denylist"
// select the same stored runs.
func CanonicalTarget(s string) (string, error) {
	t, err := ParseTarget(s)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// ParseTargets parses every name and rejects repeated targets.
func ParseTargets(names []string) ([]Target, error) {
	targets := make([]Target, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		t, err := ParseTarget(name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[t.String()]; dup {
			return nil, &ValidationError{Field: "target", Reason: fmt.Sprintf("%s listed twice", t)}
		}
		seen[t.String()] = struct{}{}
		targets = append(targets, t)
	}
	return targets, nil
}

// String returns the canonical name, e.g. "denylist" or "category:CUSTOM_01".
func (t Target) String() string {
	if t.Kind == KindCategory {
		return string(KindCategory) + ":" + t.CategoryID
	}
	return string(t.Kind)
}

// Slug returns a name usable in operation labels and object keys.
func (t Target) Slug() string {
	if t.Kind == KindCategory {
		return string(KindCategory) + "_" + t.CategoryID
	}
	return string(t.Kind)
}
