// Package sanitize scrubs untrusted text before it is persisted.
//
// It removes the characters used to build MongoDB query operators ($ { } ( ) [ ])
// and the script-like tokens "javascript", "exec", "eval" and "function"
// (case-insensitive, plain substrings). This is a denylist and does not
// protect against every injection vector.
package sanitize

import (
	"regexp"
	"strings"
)

const forbiddenChars = "${}()[]"

var forbiddenTokens = regexp.MustCompile(`(?i)javascript|exec|eval|function`)

// Sanitize returns a scrubbed copy of v. The input is not modified.
// Object values and Array elements are sanitized recursively, Object keys are kept as is.
func Sanitize(v Value) Value {
	switch x := v.(type) {
	case Object:
		out := make(Object, len(x))
		for k, item := range x {
			out[k] = Sanitize(item)
		}
		return out
	case Array:
		out := make(Array, len(x))
		for i, item := range x {
			out[i] = Sanitize(item)
		}
		return out
	case Text:
		return Text(String(string(x)))
	default:
		return v
	}
}

// String applies the text rules to a single string
func String(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbiddenChars, r) {
			return -1
		}
		return r
	}, s)

	// Removing one token can join its neighbours into another one ("evexecal"),
	// so repeat until nothing matches.
	for {
		next := forbiddenTokens.ReplaceAllString(s, "")
		if next == s {
			return s
		}
		s = next
	}
}
