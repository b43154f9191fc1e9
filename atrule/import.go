package atrule

import (
	"strings"

	"github.com/koreader/crengine-sub001/lex"
)

// StylesheetLoader is the host-provided resource fetcher of §6.2: given a
// base path and an @import target, return the imported stylesheet's bytes.
// The core never opens files directly.
type StylesheetLoader interface {
	Load(basePath, target string) ([]byte, error)
}

// ImportRule is one resolved @import directive: the raw target, and the
// trailing media query list that gates whether it is actually pulled in.
type ImportRule struct {
	Target    string
	MediaList *MediaQueryList
}

// ParseImportTail splits "<url> [media-query-list]" as it appears after
// the "@import" token, per §4.6's "@import URL [media-query-list]?;".
func ParseImportTail(tail string) ImportRule {
	tail = strings.TrimSpace(tail)
	target, rest := extractURLToken(tail)
	r := ImportRule{Target: target}
	rest = strings.TrimSpace(rest)
	if rest != "" {
		r.MediaList = ParseMediaQueryList(rest)
	}
	return r
}

// extractURLToken pulls a leading quoted string or url(...) token off s and
// returns the unquoted target plus whatever text follows it.
func extractURLToken(s string) (target, rest string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	if s[0] == '"' || s[0] == '\'' {
		q := s[0]
		end := strings.IndexByte(s[1:], q)
		if end < 0 {
			return "", ""
		}
		return lex.Unquote(s[:1+end+1]), s[1+end+1:]
	}
	if strings.HasPrefix(strings.ToLower(s), "url(") {
		close := strings.IndexByte(s, ')')
		if close < 0 {
			return "", ""
		}
		inner := lex.Unquote(strings.TrimSpace(s[4:close]))
		return inner, s[close+1:]
	}
	// bare, unquoted token up to the next space
	if idx := strings.IndexAny(s, " \t"); idx >= 0 {
		return s[:idx], s[idx:]
	}
	return s, ""
}
