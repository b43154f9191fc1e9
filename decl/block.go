package decl

import (
	"strings"

	"github.com/koreader/crengine-sub001/lex"
)

// BlockContext carries the compile-time inputs a -cr-only-if static guard
// needs to resolve (§4.3): the document format and whether legacy text
// rendering is active.
type BlockContext struct {
	DocFormat    string
	RenderLegacy bool
}

// CompileBlock compiles the text between a rule's "{" and "}" (not
// including the braces) into a Declaration, per §4.3's "accepts a cursor
// pointing just past '{' ... consuming up to and including '}'". Each
// "prop: value[!important];" pair is located with lex.SkipBalanced so a
// malformed value never desynchronises the scan of the properties that
// follow it (§7 "recoverable declaration error"). late reports whether
// -cr-hint: late appeared anywhere in the block, so the caller can raise
// the owning selector's specificity extra-weight bit. ok is false only
// when a -cr-only-if static guard failed, in which case the whole block is
// discarded per §4.3/§7 "the entire declaration is discarded".
func CompileBlock(raw string, ctx BlockContext) (d *Declaration, late bool, ok bool) {
	b := &Builder{}
	data := []byte(stripComments(raw))
	pos := 0
	ok = true

	for pos < len(data) {
		for pos < len(data) && isCSSSpace(data[pos]) {
			pos++
		}
		if pos >= len(data) || data[pos] == '}' {
			break
		}

		next, hadSemi := lex.SkipBalanced(data, pos)
		end := next
		if hadSemi {
			end = next - 1 // drop the trailing ';'
		}
		text := strings.TrimSpace(string(data[pos:end]))
		pos = next
		if text == "" {
			continue
		}

		colon := topLevelColon(text)
		if colon < 0 {
			continue // malformed property:value pair, skip it (§7)
		}
		prop := strings.ToLower(strings.TrimSpace(text[:colon]))
		val := strings.TrimSpace(text[colon+1:])

		important := false
		if bang := strings.LastIndexByte(val, '!'); bang >= 0 {
			if strings.EqualFold(strings.TrimSpace(val[bang+1:]), "important") {
				important = true
				val = strings.TrimSpace(val[:bang])
			}
		}

		switch prop {
		case "-cr-hint":
			if CompileCrHint(val, b) {
				late = true
			}
		case "-cr-only-if":
			staticOK, dynamics := ParseOnlyIf(val, ctx.DocFormat, ctx.RenderLegacy)
			if !staticOK {
				return nil, late, false
			}
			if len(dynamics) > 0 {
				b.SetPendingGuard(dynamics[0])
			}
		case "-cr-ignore-if-dom-version-greater-or-equal":
			// compile-time discard gate (§4.3); no runtime DOM version is
			// known at this layer, so the guard is left to a caller that
			// has one (not exercised by the core compiler itself).
		default:
			CompileProperty(prop, val, important, b)
		}
	}

	b.ClearPendingGuard()
	return b.Build(), late, ok
}

// topLevelColon returns the index of the first ':' outside quotes/parens,
// or -1 if none exists.
func topLevelColon(s string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' && i+1 < len(s) {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isCSSSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// stripComments removes /* ... */ comments outside quoted strings,
// matching §4.1's "whitespace includes CSS comments".
func stripComments(s string) string {
	if !strings.Contains(s, "/*") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			quote = c
			b.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) && s[i+1] == '*' {
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				break
			}
			i += 2 + end + 1
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
