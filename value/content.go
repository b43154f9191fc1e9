package value

import (
	"strconv"
	"strings"
)

// ParseContent compiles a CSS content: value into the compact token string
// described in §4.2: each output token is one of
//
//	'X'            none/normal (empty content)
//	's' len chars  literal string
//	'a' len chars  attribute name (from attr(name))
//	'Q' / 'q'      open-quote / close-quote
//	'N' / 'n'      no-open-quote / no-close-quote
//	'u'            unsupported url()
//	'z'            unsupported token
//
// len is encoded as a decimal ASCII length prefix terminated by ':' so the
// token stream stays byte-scannable. If any quote token is present, a
// leading '$' is prepended so callers know the result needs resolution
// against the current node's language before use.
func ParseContent(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "none" || raw == "normal" {
		return "X"
	}

	parts := splitContentComponents(raw)
	var body strings.Builder
	hasQuote := false

	for _, p := range parts {
		switch {
		case len(p) >= 2 && (p[0] == '"' && p[len(p)-1] == '"' || p[0] == '\'' && p[len(p)-1] == '\''):
			s := unescapeContentString(p[1 : len(p)-1])
			body.WriteByte('s')
			body.WriteString(strconv.Itoa(len(s)))
			body.WriteByte(':')
			body.WriteString(s)
		case strings.HasPrefix(p, "attr(") && strings.HasSuffix(p, ")"):
			name := strings.TrimSpace(p[len("attr(") : len(p)-1])
			body.WriteByte('a')
			body.WriteString(strconv.Itoa(len(name)))
			body.WriteByte(':')
			body.WriteString(name)
		case strings.EqualFold(p, "open-quote"):
			body.WriteByte('Q')
			hasQuote = true
		case strings.EqualFold(p, "close-quote"):
			body.WriteByte('q')
			hasQuote = true
		case strings.EqualFold(p, "no-open-quote"):
			body.WriteByte('N')
			hasQuote = true
		case strings.EqualFold(p, "no-close-quote"):
			body.WriteByte('n')
			hasQuote = true
		case strings.HasPrefix(strings.ToLower(p), "url("):
			body.WriteByte('u')
		default:
			body.WriteByte('z')
		}
	}

	if hasQuote {
		return "$" + body.String()
	}
	return body.String()
}

// splitContentComponents splits a content: value into its space-separated
// top-level components, keeping quoted strings and function calls intact.
func splitContentComponents(raw string) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	var quote byte
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if quote != 0 {
			cur.WriteByte(c)
			if c == '\\' && i+1 < len(raw) {
				i++
				cur.WriteByte(raw[i])
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == '(':
			depth++
			cur.WriteByte(c)
		case c == ')':
			if depth > 0 {
				depth--
			}
			cur.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\n':
			if depth == 0 {
				flush()
			} else {
				cur.WriteByte(c)
			}
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return parts
}

func unescapeContentString(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			b.WriteByte(s[i])
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
