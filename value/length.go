// Package value implements the C2 value parser: typed length values, colour
// values, and the content: micro-language, built on top of the lex package's
// primitives exactly as the teacher's css/parser.go hand-interprets dimension
// and string tokens after github.com/tdewolff/parse/v2/css has tokenized them.
package value

import (
	"strings"

	"github.com/koreader/crengine-sub001/lex"
)

// Unit identifies the kind of a Length. Percentage and the relative font
// units require a resolution context; the rest resolve to device pixels
// given only the engine's DPI/root-font configuration.
type Unit int

const (
	UnitUnspecified Unit = iota // sentinel-carrying: Sentinel holds the keyword
	UnitPx                      // CSS pixel, pre-DPI-scaling
	UnitDevicePx                // already DPI-scaled device pixel
	UnitPt
	UnitPc
	UnitIn
	UnitCm
	UnitMm
	UnitEm
	UnitEx
	UnitCh
	UnitRem
	UnitPercent
	UnitVw
	UnitVh
	UnitVmin
	UnitVmax
	UnitUnitless // bare number with no suffix, e.g. line-height: 1.2 (§4.1)
	UnitColor    // value is not a scalar; see Length.Color
)

// Sentinel enumerates the keyword-carrying values a length can hold instead
// of a scalar: auto, none, normal, inherit, currentcolor, contain/cover, or
// an engine-specific marker used by -cr-* directives.
type Sentinel int

const (
	SentinelNone Sentinel = iota
	SentinelAuto
	SentinelNormal
	SentinelInherit
	SentinelCurrentColor
	SentinelContain
	SentinelCover
	SentinelEngine
)

// scale is the fixed-point multiplier applied to all scalar lengths so
// fractional precision survives integer storage, per §3 of the spec this
// module implements.
const scale = 256

// Length is the tagged pair (unit, fixed-point value) of §3: Scaled holds
// the value multiplied by 256. For UnitUnspecified the Sentinel field names
// which keyword was parsed; for UnitColor, Color holds the packed ARGB.
type Length struct {
	Unit     Unit
	Scaled   int64 // value * 256, meaningless for UnitUnspecified/UnitColor
	Sentinel Sentinel
	Color    Color
}

// Float returns the unscaled float64 value.
func (l Length) Float() float64 {
	return float64(l.Scaled) / scale
}

// FromFloat builds a scalar Length of the given unit.
func FromFloat(v float64, u Unit) Length {
	return Length{Unit: u, Scaled: int64(v * scale)}
}

// FromSentinel builds a keyword-carrying Length.
func FromSentinel(s Sentinel) Length {
	return Length{Unit: UnitUnspecified, Sentinel: s}
}

// IsSentinel reports whether l carries a keyword rather than a scalar.
func (l Length) IsSentinel() bool {
	return l.Unit == UnitUnspecified
}

// ResolveCtx carries everything a relative unit needs to resolve to device
// pixels, threaded explicitly per the "no process globals" design note.
type ResolveCtx struct {
	RenderDPI        int     // 0 disables absolute-unit DPI conversion
	ScaleFontWithDPI  bool
	RootFontSizePx   float64
	FontSizePx       float64 // owning node's resolved font size, for em/ex/ch
	PercentBasePx    float64 // base for % resolution
	ViewportWidthPx  float64
	ViewportHeightPx float64
}

const cssPxPerInch = 96.0

// Resolve converts l to device pixels given ctx. Sentinels and colors return
// 0, false — callers must special-case those before calling Resolve.
func (l Length) Resolve(ctx ResolveCtx) (px float64, ok bool) {
	v := l.Float()
	dpiScale := 1.0
	if ctx.RenderDPI > 0 {
		dpiScale = float64(ctx.RenderDPI) / cssPxPerInch
	}
	switch l.Unit {
	case UnitPx:
		if ctx.RenderDPI > 0 {
			return v * dpiScale, true
		}
		return v, true
	case UnitDevicePx:
		return v, true
	case UnitPt:
		return scaleAbsolute(v/72.0*cssPxPerInch, ctx), true
	case UnitPc:
		return scaleAbsolute(v/6.0*cssPxPerInch, ctx), true
	case UnitIn:
		return scaleAbsolute(v*cssPxPerInch, ctx), true
	case UnitCm:
		return scaleAbsolute(v/2.54*cssPxPerInch, ctx), true
	case UnitMm:
		return scaleAbsolute(v/25.4*cssPxPerInch, ctx), true
	case UnitEm:
		return v * ctx.FontSizePx, true
	case UnitEx:
		return v * ctx.FontSizePx * 0.5, true
	case UnitCh:
		return v * ctx.FontSizePx * 0.5, true
	case UnitRem:
		return v * ctx.RootFontSizePx, true
	case UnitPercent:
		return v / 100.0 * ctx.PercentBasePx, true
	case UnitVw:
		return v / 100.0 * ctx.ViewportWidthPx, true
	case UnitVh:
		return v / 100.0 * ctx.ViewportHeightPx, true
	case UnitVmin:
		return v / 100.0 * min(ctx.ViewportWidthPx, ctx.ViewportHeightPx), true
	case UnitVmax:
		return v / 100.0 * max(ctx.ViewportWidthPx, ctx.ViewportHeightPx), true
	case UnitUnitless:
		// A bare multiplier (e.g. line-height: 1.2) carries no px resolution
		// of its own; callers that accept it read Length.Float() directly.
		return v, true
	default:
		return 0, false
	}
}

func scaleAbsolute(px float64, ctx ResolveCtx) float64 {
	if ctx.RenderDPI <= 0 {
		return px
	}
	return px * (float64(ctx.RenderDPI) / cssPxPerInch)
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// LengthOpts controls which sentinels and signs ParseLength accepts,
// mirroring parse_length's boolean parameter list in §4.2.
type LengthOpts struct {
	AcceptPercent     bool
	AcceptNegative    bool
	AcceptAuto        bool
	AcceptNone        bool
	AcceptNormal      bool
	AcceptUnspecified bool // bare numbers with no unit, e.g. line-height: 1.2
	AcceptContainCover bool
	IsFontSize        bool
}

var unitTable = map[string]Unit{
	"px": UnitPx, "pt": UnitPt, "pc": UnitPc, "in": UnitIn,
	"cm": UnitCm, "mm": UnitMm, "em": UnitEm, "ex": UnitEx,
	"ch": UnitCh, "rem": UnitRem, "vw": UnitVw, "vh": UnitVh,
	"vmin": UnitVmin, "vmax": UnitVmax,
}

// fontSizeKeywords maps absolute font-size keywords to a fraction of the
// root font size, per §4.2.
var fontSizeKeywords = map[string]float64{
	"xx-small": 3.0 / 5, "x-small": 3.0 / 4, "small": 8.0 / 9,
	"medium": 1, "large": 6.0 / 5, "x-large": 3.0 / 2, "xx-large": 2,
}

// ParseLength parses a single CSS value token's text into a Length.
// raw is the already-joined token text (e.g. "1.2em", "50%", "auto").
func ParseLength(raw string, opts LengthOpts) (Length, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Length{}, false
	}
	lower := strings.ToLower(raw)

	switch lower {
	case "auto":
		if opts.AcceptAuto {
			return FromSentinel(SentinelAuto), true
		}
	case "none":
		if opts.AcceptNone {
			return FromSentinel(SentinelNone), true
		}
	case "normal":
		if opts.AcceptNormal {
			return FromSentinel(SentinelNormal), true
		}
	case "inherit":
		return FromSentinel(SentinelInherit), true
	case "currentcolor":
		return FromSentinel(SentinelCurrentColor), true
	case "contain":
		if opts.AcceptContainCover {
			return FromSentinel(SentinelContain), true
		}
	case "cover":
		if opts.AcceptContainCover {
			return FromSentinel(SentinelCover), true
		}
	case "smaller":
		if opts.IsFontSize {
			return FromFloat(80, UnitPercent), true
		}
	case "larger":
		if opts.IsFontSize {
			return FromFloat(125, UnitPercent), true
		}
	}

	if opts.IsFontSize {
		if frac, ok := fontSizeKeywords[lower]; ok {
			// Fixed rem fractions per §4.2: these resolve against the root
			// font size, not the parent's (a percentage would), so that
			// medium/large/etc. stay stable across nesting depth.
			return FromFloat(frac, UnitRem), true
		}
	}

	if strings.HasSuffix(lower, "%") {
		if !opts.AcceptPercent {
			return Length{}, false
		}
		n, ok := lex.ParseNumber(strings.TrimSuffix(raw, "%"))
		if !ok || (!opts.AcceptNegative && n < 0) {
			return Length{}, false
		}
		return FromFloat(n, UnitPercent), true
	}

	n, unitStr := lex.ParseDimension(raw)
	if unitStr == "" {
		// Bare number, no unit: tagged unitless (§4.1) rather than a px
		// length, so e.g. line-height: 1.2 survives as a multiplier a
		// downstream consumer can tell apart from an actual pixel length.
		if num, ok := lex.ParseNumber(raw); ok {
			if !opts.AcceptUnspecified {
				return Length{}, false
			}
			if !opts.AcceptNegative && num < 0 {
				return Length{}, false
			}
			return FromFloat(num, UnitUnitless), true
		}
		return Length{}, false
	}
	u, ok := unitTable[unitStr]
	if !ok {
		return Length{}, false
	}
	if !opts.AcceptNegative && n < 0 {
		return Length{}, false
	}
	return FromFloat(n, u), true
}
