package reconcile

import "strings"

// NormalizedSet is an ordered sequence of URL entries that are unique under
// case-insensitive comparison. The zero value is an empty set.
type NormalizedSet struct {
	entries    []string
	keys       map[string]struct{}
	duplicates int
}

// Key returns the comparison key of a URL entry. It is never used for display.
func Key(u string) string {
	return strings.ToLower(u)
}

// Normalize cleans a raw sequence of URL strings.
//
// Entries are trimmed; blank entries and comment lines (starting with '#')
// are dropped; duplicates are detected case-insensitively and only the first
// occurrence is kept, with its original casing.
func Normalize(raw []string) NormalizedSet {
	set := NormalizedSet{
		entries: make([]string, 0, len(raw)),
		keys:    make(map[string]struct{}, len(raw)),
	}

	for _, u := range raw {
		u = strings.TrimSpace(u)
		if u == "" || strings.HasPrefix(u, "#") {
			continue
		}

		key := Key(u)
		if _, seen := set.keys[key]; seen {
			set.duplicates++
			continue
		}

		set.keys[key] = struct{}{}
		set.entries = append(set.entries, u)
	}

	return set
}

// Entries returns a copy of the entries in insertion order.
func (s NormalizedSet) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s NormalizedSet) Len() int {
	return len(s.entries)
}

// Duplicates returns how many input entries were dropped as duplicates.
func (s NormalizedSet) Duplicates() int {
	return s.duplicates
}

// Contains reports whether u is in the set, ignoring case.
func (s NormalizedSet) Contains(u string) bool {
	_, ok := s.keys[Key(strings.TrimSpace(u))]
	return ok
}

// Difference returns the entries of s that are not in other, in s order.
func (s NormalizedSet) Difference(other NormalizedSet) []string {
	out := make([]string, 0)
	for _, u := range s.entries {
		if !other.Contains(u) {
			out = append(out, u)
		}
	}
	return out
}
