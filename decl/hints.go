package decl

import (
	"strings"

	"github.com/koreader/crengine-sub001/value"
)

// CrHint is the bitmap of -cr-hint keywords, accumulated via bitwise OR
// across repeated -cr-hint declarations.
type CrHint uint32

const (
	HintFootnoteInpage CrHint = 1 << iota
	HintNonLinear
	HintToc1
	HintToc2
	HintToc3
	HintToc4
	HintToc5
	HintToc6
	HintNoteref
	HintStrutConfined
	HintFitGlyphs
	HintLate // raises the selector's specificity "extra weight" bit instead of setting a style flag
)

var hintKeywords = map[string]CrHint{
	"footnote-inpage": HintFootnoteInpage,
	"non-linear":      HintNonLinear,
	"toc-level1":      HintToc1,
	"toc-level2":      HintToc2,
	"toc-level3":      HintToc3,
	"toc-level4":      HintToc4,
	"toc-level5":      HintToc5,
	"toc-level6":      HintToc6,
	"noteref":         HintNoteref,
	"strut-confined":  HintStrutConfined,
	"fit-glyphs":      HintFitGlyphs,
	"late":            HintLate,
}

// ParseCrHint parses a space-separated -cr-hint value. "none" resets and
// suppresses inheritance, signalled by reset=true with bits=0. "late"
// contributes to late (the specificity extra-weight bit) but not to bits,
// since it is a selector-level effect rather than a style flag.
func ParseCrHint(raw string) (bits CrHint, late bool, reset bool) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "none") {
		return 0, false, true
	}
	for _, kw := range strings.Fields(raw) {
		kw = strings.ToLower(kw)
		if kw == "late" {
			late = true
			continue
		}
		if b, ok := hintKeywords[kw]; ok {
			bits |= b
		}
	}
	return bits, late, false
}

// CompileCrHint emits the -cr-hint bitmap as an engine-important
// instruction (bitmap-ORed at apply time per §4.3, never overridden by a
// later non-important declaration), and reports whether "late" was present
// so the caller can raise the owning selector's extra-weight bit.
func CompileCrHint(raw string, b *Builder) (late bool) {
	bits, late, reset := ParseCrHint(raw)
	if reset {
		b.emitEngineImportant(PropCrHint, value.FromFloat(0, value.UnitDevicePx))
		return late
	}
	b.emitEngineImportant(PropCrHint, value.FromFloat(float64(bits), value.UnitDevicePx))
	return late
}

// StaticGuardKind is a -cr-only-if guard resolvable entirely at compile
// time (document format, rendering mode): the guard never reaches the
// instruction stream.
type StaticGuardKind int

const (
	StaticGuardNone StaticGuardKind = iota
	StaticGuardEPUB
	StaticGuardFB2
	StaticGuardCHM
	StaticGuardHTML
	StaticGuardTextAuto
	StaticGuardTextLegacy
)

var staticGuardKeywords = map[string]StaticGuardKind{
	"epub": StaticGuardEPUB,
	"fb2":  StaticGuardFB2,
	"chm":  StaticGuardCHM,
	"html": StaticGuardHTML,
	"legacy-render": StaticGuardTextLegacy,
	"auto-render":   StaticGuardTextAuto,
}

// dynamicGuardKeywords are -cr-only-if guards that must be re-checked
// against the node's style-so-far during application (§4.3).
var dynamicGuardKeywords = map[string]bool{
	"inline": true, "inpage-footnote": true, "inside-inpage-footnote": true,
}

// ParseOnlyIf splits a -cr-only-if value into static guards (evaluated here,
// the caller discards the whole declaration if any fails) and dynamic
// guards (returned for the caller to attach to every instruction emitted
// for this declaration).
func ParseOnlyIf(raw string, docFormat string, renderLegacy bool) (staticOK bool, dynamics []DynamicGuard) {
	staticOK = true
	for _, kw := range strings.Fields(raw) {
		kw = strings.ToLower(kw)
		negated := false
		if strings.HasPrefix(kw, "not-") {
			negated = true
			kw = strings.TrimPrefix(kw, "not-")
		}
		if dynamicGuardKeywords[kw] {
			dynamics = append(dynamics, DynamicGuard{Keyword: kw, Negated: negated})
			continue
		}
		if sg, ok := staticGuardKeywords[kw]; ok {
			matched := evaluateStaticGuard(sg, docFormat, renderLegacy)
			if negated {
				matched = !matched
			}
			if !matched {
				staticOK = false
			}
		}
	}
	return staticOK, dynamics
}

func evaluateStaticGuard(kind StaticGuardKind, docFormat string, renderLegacy bool) bool {
	switch kind {
	case StaticGuardEPUB:
		return strings.EqualFold(docFormat, "epub")
	case StaticGuardFB2:
		return strings.EqualFold(docFormat, "fb2")
	case StaticGuardCHM:
		return strings.EqualFold(docFormat, "chm")
	case StaticGuardHTML:
		return strings.EqualFold(docFormat, "html")
	case StaticGuardTextLegacy:
		return renderLegacy
	case StaticGuardTextAuto:
		return !renderLegacy
	default:
		return true
	}
}
