package utils

import "unicode/utf8"

// DefaultExcerptLength is the number of characters kept when a remote body is
// attached to an error or a result.
const DefaultExcerptLength = 500

// Truncate returns at most max characters (runes) of s.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// Excerpt truncates a response body to DefaultExcerptLength characters.
func Excerpt(body []byte) string {
	return Truncate(string(body), DefaultExcerptLength)
}
