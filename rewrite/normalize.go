package rewrite

import "strings"

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// Normalize is the final text pass over a serialized document: runs of
// whitespace become a single space, whitespace between a closing '>'
// and the next '<' is removed, and the result is trimmed.
func Normalize(doc string) string {
	var b strings.Builder
	b.Grow(len(doc))
	for i := 0; i < len(doc); {
		if !isSpace(doc[i]) {
			b.WriteByte(doc[i])
			i++
			continue
		}
		j := i
		for j < len(doc) && isSpace(doc[j]) {
			j++
		}
		between := i > 0 && doc[i-1] == '>' && j < len(doc) && doc[j] == '<'
		if !between {
			b.WriteByte(' ')
		}
		i = j
	}
	return strings.TrimSpace(b.String())
}
