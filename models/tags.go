package models

import (
	"fmt"
	"strings"
)

// FormatTagList renders tags as a Python list literal, e.g. ['love', 'life'].
// The dashboard and the RAG loader read the tags cell back with a literal parser,
// so the encoding must stay stable.
func FormatTagList(tags []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, tag := range tags {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pyRepr(tag))
	}
	b.WriteByte(']')
	return b.String()
}

// pyRepr quotes s the way Python's repr does for str values
func pyRepr(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// ParseTagList parses a list literal produced by FormatTagList.
// An empty cell is read as no tags.
func ParseTagList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}, nil
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("invalid tag list %q: missing brackets", s)
	}

	body := []rune(s[1 : len(s)-1])
	tags := []string{}
	i := 0
	for {
		for i < len(body) && (body[i] == ' ' || body[i] == ',') {
			i++
		}
		if i >= len(body) {
			return tags, nil
		}

		quote := body[i]
		if quote != '\'' && quote != '"' {
			return nil, fmt.Errorf("invalid tag list %q: expected quote at offset %d", s, i+1)
		}
		i++

		var b strings.Builder
		closed := false
		for i < len(body) {
			r := body[i]
			i++
			if r == '\\' && i < len(body) {
				next := body[i]
				i++
				switch next {
				case 'n':
					b.WriteRune('\n')
				case 'r':
					b.WriteRune('\r')
				case 't':
					b.WriteRune('\t')
				default:
					b.WriteRune(next)
				}
				continue
			}
			if r == quote {
				closed = true
				break
			}
			b.WriteRune(r)
		}
		if !closed {
			return nil, fmt.Errorf("invalid tag list %q: unterminated string", s)
		}
		tags = append(tags, b.String())
	}
}
