// Package jsonutil extracts JSON payloads from loosely formatted text,
// typically LLM responses that wrap the object in markdown fences or
// commentary.
package jsonutil

import "strings"

// ExtractObject finds the first balanced {...} in s, skipping over
// string literals and escapes. Returns false when no complete object
// exists.
func ExtractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		if c == '{' {
			depth++
		} else if c == '}' {
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
