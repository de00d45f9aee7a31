package manifest

import "strings"

// NormalizeJSONC removes comments and trailing commas so tsconfig.json and jsconfig.json
// can be decoded with encoding/json. Comment-like sequences inside string literals survive.
func NormalizeJSONC(content []byte) []byte {
	return []byte(stripTrailingCommas(stripComments(string(content))))
}

// stringTracker follows whether a scanner is inside a JSON string literal.
type stringTracker struct {
	inString bool
	escape   bool
}

// step consumes ch and reports whether it belongs to a string literal.
func (s *stringTracker) step(ch byte) bool {
	if !s.inString {
		if ch == '"' {
			s.inString = true
			return true
		}
		return false
	}

	switch {
	case s.escape:
		s.escape = false
	case ch == '\\':
		s.escape = true
	case ch == '"':
		s.inString = false
	}
	return true
}

func stripComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	var strs stringTracker
	lineComment, blockComment := false, false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		switch {
		case lineComment:
			if ch == '\n' {
				lineComment = false
				b.WriteByte(ch)
			}
			continue
		case blockComment:
			if ch == '*' && i+1 < len(text) && text[i+1] == '/' {
				blockComment = false
				i++
			}
			continue
		}

		if strs.step(ch) {
			b.WriteByte(ch)
			continue
		}

		if ch == '/' && i+1 < len(text) {
			switch text[i+1] {
			case '/':
				lineComment = true
				i++
				continue
			case '*':
				blockComment = true
				i++
				continue
			}
		}

		b.WriteByte(ch)
	}

	return b.String()
}

func stripTrailingCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	var strs stringTracker

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if strs.step(ch) {
			b.WriteByte(ch)
			continue
		}

		if ch == ',' {
			next := strings.TrimLeft(text[i+1:], " \t\r\n")
			if next != "" && (next[0] == '}' || next[0] == ']') {
				continue
			}
		}

		b.WriteByte(ch)
	}

	return b.String()
}
