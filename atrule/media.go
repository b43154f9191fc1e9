// Package atrule implements the C5 at-rule evaluator: @import resolution,
// @media/@supports condition evaluation over a shared and/or/not boolean
// grammar, and brace-balanced preservation of every other at-rule, grounded
// on css/parser.go's BeginAtRuleGrammar/AtRuleGrammar handling and its
// parseMediaQueryFromTokens/skipAtRuleBlock pair.
package atrule

import (
	"strconv"
	"strings"

	"github.com/koreader/crengine-sub001/value"
)

// Viewport carries the static answers the feature evaluator needs (§4.5):
// the rendering viewport in CSS pixels and the configured DPI used for
// resolution queries.
type Viewport struct {
	WidthPx, HeightPx float64
	RenderDPI         int
}

// Cond is one node of a boolean condition tree shared by @media and
// @supports: either a leaf feature/declaration test, a negation, or an
// and/or combination of children.
type Cond struct {
	Op       Op
	Feature  string // leaf: feature or property name, lowercased
	Value    string // leaf: raw value text, if any
	Children []*Cond
}

type Op int

const (
	OpLeaf Op = iota
	OpNot
	OpAnd
	OpOr
)

// Evaluate walks the condition tree. When declOK is non-nil, leaves are
// interpreted as @supports declarations (checked via declOK); otherwise
// they are @media features (checked via mediaOK).
func (c *Cond) Evaluate(mediaOK func(feature, value string) bool, declOK func(prop, value string) bool) bool {
	if c == nil {
		return true
	}
	switch c.Op {
	case OpLeaf:
		if declOK != nil {
			return declOK(c.Feature, c.Value)
		}
		return mediaOK(c.Feature, c.Value)
	case OpNot:
		return !c.Children[0].Evaluate(mediaOK, declOK)
	case OpAnd:
		for _, ch := range c.Children {
			if !ch.Evaluate(mediaOK, declOK) {
				return false
			}
		}
		return true
	case OpOr:
		for _, ch := range c.Children {
			if ch.Evaluate(mediaOK, declOK) {
				return true
			}
		}
		return false
	}
	return false
}

// MediaQueryList is a comma-separated list of media query expressions; a
// comma means logical OR across full expressions (§4.5).
type MediaQueryList struct {
	Raw     string
	Queries []*Cond
}

// Matches reports whether any query in the list is satisfied.
func (l *MediaQueryList) Matches(vp Viewport) bool {
	for _, q := range l.Queries {
		if q.Evaluate(func(f, v string) bool { return evalFeature(f, v, vp) }, nil) {
			return true
		}
	}
	return len(l.Queries) == 0
}

// ParseMediaQueryList parses a top-level comma-separated query-list. Each
// comma-separated expression is itself a chain of "type" and "and
// (feature)"/"not (feature)" terms, the legacy flat grammar most embedded
// stylesheets use; parenthesised nested and/or/not groups are also
// accepted for forward compatibility with @supports-style conditions.
func ParseMediaQueryList(raw string) *MediaQueryList {
	l := &MediaQueryList{Raw: raw}
	for _, part := range splitTopLevel(raw, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		l.Queries = append(l.Queries, parseMediaExpression(part))
	}
	return l
}

// parseMediaExpression parses one comma-separated media query: an optional
// leading "not", an optional media type (treated as an always-true leaf
// since this engine has a single render medium), and "and (feature: value)"
// terms ANDed together.
func parseMediaExpression(expr string) *Cond {
	tokens := tokenizeWords(expr)
	and := &Cond{Op: OpAnd}
	i := 0
	negateNext := false
	for i < len(tokens) {
		tok := tokens[i]
		switch strings.ToLower(tok) {
		case "not":
			negateNext = true
			i++
			continue
		case "and":
			i++
			continue
		case "only":
			i++
			continue
		}
		var leaf *Cond
		if strings.HasPrefix(tok, "(") {
			inner := strings.TrimSuffix(strings.TrimPrefix(tok, "("), ")")
			leaf = parseFeatureAtom(inner)
		} else {
			// bare media type: "screen", "all", "amzn-kf8", etc. — always true.
			leaf = &Cond{Op: OpLeaf, Feature: "__type__", Value: strings.ToLower(tok)}
		}
		if negateNext {
			leaf = &Cond{Op: OpNot, Children: []*Cond{leaf}}
			negateNext = false
		}
		and.Children = append(and.Children, leaf)
		i++
	}
	if len(and.Children) == 1 {
		return and.Children[0]
	}
	return and
}

func parseFeatureAtom(inner string) *Cond {
	name, val, found := strings.Cut(inner, ":")
	name = strings.ToLower(strings.TrimSpace(name))
	if !found {
		return &Cond{Op: OpLeaf, Feature: name}
	}
	return &Cond{Op: OpLeaf, Feature: name, Value: strings.TrimSpace(val)}
}

// statically-answered media features (§4.5): this engine never scripts, has
// a single overflow/update model, and models grid support as unavailable
// per the CSS-grid Non-goal.
var staticFeatureAnswers = map[string]bool{
	"color":           true,
	"monochrome":      false,
	"grid":            false,
	"scripting":       false,
	"update":          false,
	"overflow-inline": false,
	"overflow-block":  true,
}

func evalFeature(feature, val string, vp Viewport) bool {
	if feature == "__type__" {
		return true // every named medium is accepted; "not <type>" is the only rejecting form
	}
	if ans, ok := staticFeatureAnswers[feature]; ok {
		return ans
	}

	switch {
	case feature == "orientation":
		landscape := vp.WidthPx >= vp.HeightPx
		if val == "landscape" {
			return landscape
		}
		if val == "portrait" {
			return !landscape
		}
		return false
	case feature == "width" || feature == "device-width":
		return lengthEquals(val, vp.WidthPx, vp)
	case feature == "min-width" || feature == "min-device-width":
		return lengthAtLeast(val, vp.WidthPx, vp)
	case feature == "max-width" || feature == "max-device-width":
		return lengthAtMost(val, vp.WidthPx, vp)
	case feature == "height" || feature == "device-height":
		return lengthEquals(val, vp.HeightPx, vp)
	case feature == "min-height" || feature == "min-device-height":
		return lengthAtLeast(val, vp.HeightPx, vp)
	case feature == "max-height" || feature == "max-device-height":
		return lengthAtMost(val, vp.HeightPx, vp)
	case feature == "aspect-ratio" || feature == "device-aspect-ratio":
		return ratioEquals(val, vp.WidthPx/vp.HeightPx)
	case feature == "min-aspect-ratio":
		return ratioAtLeast(val, vp.WidthPx/vp.HeightPx)
	case feature == "max-aspect-ratio":
		return ratioAtMost(val, vp.WidthPx/vp.HeightPx)
	case feature == "resolution" || feature == "min-resolution" || feature == "max-resolution":
		return evalResolution(feature, val, vp)
	// bare boolean-valued feature queries with no colon, e.g. "(color)"
	case val == "" && feature == "color":
		return true
	}
	return false
}

func lengthPx(raw string, vp Viewport) (float64, bool) {
	opts := value.LengthOpts{}
	l, ok := value.ParseLength(raw, opts)
	if !ok {
		return 0, false
	}
	ctx := value.ResolveCtx{RenderDPI: vp.RenderDPI, ViewportWidthPx: vp.WidthPx, ViewportHeightPx: vp.HeightPx}
	px, ok := l.Resolve(ctx)
	return px, ok
}

func lengthEquals(raw string, actual float64, vp Viewport) bool {
	px, ok := lengthPx(raw, vp)
	return ok && px == actual
}

func lengthAtLeast(raw string, actual float64, vp Viewport) bool {
	px, ok := lengthPx(raw, vp)
	return ok && actual >= px
}

func lengthAtMost(raw string, actual float64, vp Viewport) bool {
	px, ok := lengthPx(raw, vp)
	return ok && actual <= px
}

func parseRatio(raw string) (float64, bool) {
	a, b, found := strings.Cut(raw, "/")
	if !found {
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		return n, err == nil
	}
	na, erra := strconv.ParseFloat(strings.TrimSpace(a), 64)
	nb, errb := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if erra != nil || errb != nil || nb == 0 {
		return 0, false
	}
	return na / nb, true
}

func ratioEquals(raw string, actual float64) bool {
	r, ok := parseRatio(raw)
	return ok && r == actual
}

func ratioAtLeast(raw string, actual float64) bool {
	r, ok := parseRatio(raw)
	return ok && actual >= r
}

func ratioAtMost(raw string, actual float64) bool {
	r, ok := parseRatio(raw)
	return ok && actual <= r
}

func evalResolution(feature, raw string, vp Viewport) bool {
	raw = strings.TrimSpace(strings.ToLower(raw))
	var dpi float64
	switch {
	case strings.HasSuffix(raw, "dpi"):
		dpi, _ = strconv.ParseFloat(strings.TrimSuffix(raw, "dpi"), 64)
	case strings.HasSuffix(raw, "dpcm"):
		v, _ := strconv.ParseFloat(strings.TrimSuffix(raw, "dpcm"), 64)
		dpi = v * 2.54
	case strings.HasSuffix(raw, "dppx"):
		v, _ := strconv.ParseFloat(strings.TrimSuffix(raw, "dppx"), 64)
		dpi = v * 96
	case strings.HasSuffix(raw, "x"):
		v, _ := strconv.ParseFloat(strings.TrimSuffix(raw, "x"), 64)
		dpi = v * 96
	default:
		return false
	}
	switch feature {
	case "resolution":
		return dpi == float64(vp.RenderDPI)
	case "min-resolution":
		return float64(vp.RenderDPI) >= dpi
	case "max-resolution":
		return float64(vp.RenderDPI) <= dpi
	}
	return false
}

func tokenizeWords(s string) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			depth--
			cur.WriteRune(r)
			if depth == 0 {
				flush()
			}
		case (r == ' ' || r == '\t' || r == '\n') && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func splitTopLevel(s string, sep rune) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
			cur.WriteRune(r)
		case ')':
			depth--
			cur.WriteRune(r)
		case sep:
			if depth == 0 {
				out = append(out, cur.String())
				cur.Reset()
				continue
			}
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, cur.String())
	return out
}
