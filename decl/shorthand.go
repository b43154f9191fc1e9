package decl

import (
	"strings"

	"github.com/koreader/crengine-sub001/value"
)

// lengthOpts used while expanding box-model shorthands.
var marginOpts = value.LengthOpts{AcceptPercent: true, AcceptNegative: true, AcceptAuto: true}
var paddingOpts = value.LengthOpts{AcceptPercent: true}
var borderWidthOpts = value.LengthOpts{}

var borderWidthKeywords = map[string]float64{"thin": 1, "medium": 3, "thick": 5}

// expandFour splits a 1-4 value shorthand into top/right/bottom/left per the
// standard CSS derivation (1->all; 2->TB/RL; 3->T/RL/B; 4->TRBL).
func expandFour(raw string, opts value.LengthOpts) (top, right, bottom, left value.Length, ok bool) {
	fields := strings.Fields(raw)
	vals := make([]value.Length, 0, len(fields))
	for _, f := range fields {
		l, ok := value.ParseLength(f, opts)
		if !ok {
			return value.Length{}, value.Length{}, value.Length{}, value.Length{}, false
		}
		vals = append(vals, l)
	}
	switch len(vals) {
	case 1:
		return vals[0], vals[0], vals[0], vals[0], true
	case 2:
		return vals[0], vals[1], vals[0], vals[1], true
	case 3:
		return vals[0], vals[1], vals[2], vals[1], true
	case 4:
		return vals[0], vals[1], vals[2], vals[3], true
	default:
		return value.Length{}, value.Length{}, value.Length{}, value.Length{}, false
	}
}

// ExpandMargin expands a margin: shorthand into the four longhand
// instructions, per S4 of the test scenarios.
func (b *Builder) ExpandMargin(raw string, important bool) bool {
	t, r, bo, l, ok := expandFour(raw, marginOpts)
	if !ok {
		return false
	}
	b.emit(PropMarginTop, important, t)
	b.emit(PropMarginRight, important, r)
	b.emit(PropMarginBottom, important, bo)
	b.emit(PropMarginLeft, important, l)
	return true
}

// ExpandPadding expands a padding: shorthand.
func (b *Builder) ExpandPadding(raw string, important bool) bool {
	t, r, bo, l, ok := expandFour(raw, paddingOpts)
	if !ok {
		return false
	}
	b.emit(PropPaddingTop, important, t)
	b.emit(PropPaddingRight, important, r)
	b.emit(PropPaddingBottom, important, bo)
	b.emit(PropPaddingLeft, important, l)
	return true
}

func parseBorderWidth(tok string) (value.Length, bool) {
	if f, ok := borderWidthKeywords[strings.ToLower(tok)]; ok {
		return value.FromFloat(f, value.UnitPx), true
	}
	return value.ParseLength(tok, borderWidthOpts)
}

var borderStyleKeywords = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// ExpandBorderWidth expands border-width: (1-4 values, TRBL derivation).
func (b *Builder) ExpandBorderWidth(raw string, important bool) bool {
	fields := strings.Fields(raw)
	vals := make([]value.Length, 0, len(fields))
	for _, f := range fields {
		l, ok := parseBorderWidth(f)
		if !ok {
			return false
		}
		vals = append(vals, l)
	}
	t, r, bo, l, ok := fourFromSlice(vals)
	if !ok {
		return false
	}
	b.emit(PropBorderTopWidth, important, t)
	b.emit(PropBorderRightWidth, important, r)
	b.emit(PropBorderBottomWidth, important, bo)
	b.emit(PropBorderLeftWidth, important, l)
	return true
}

func fourFromSlice(vals []value.Length) (top, right, bottom, left value.Length, ok bool) {
	switch len(vals) {
	case 1:
		return vals[0], vals[0], vals[0], vals[0], true
	case 2:
		return vals[0], vals[1], vals[0], vals[1], true
	case 3:
		return vals[0], vals[1], vals[2], vals[1], true
	case 4:
		return vals[0], vals[1], vals[2], vals[3], true
	default:
		return value.Length{}, value.Length{}, value.Length{}, value.Length{}, false
	}
}

// ExpandBorder expands the border[-side]: shorthand, which accepts a
// width/style/color triplet in any order, defaulting to "medium none
// currentcolor" for parts not supplied. side selects which of the four
// sides to set, or all four when side is empty (plain "border").
func (b *Builder) ExpandBorder(side, raw string, important bool) bool {
	width := value.FromFloat(3, value.UnitPx) // "medium"
	style := "none"
	color, _ := value.ParseColor("currentcolor")

	for _, tok := range strings.Fields(raw) {
		low := strings.ToLower(tok)
		switch {
		case borderStyleKeywords[low]:
			style = low
		default:
			if w, ok := parseBorderWidth(tok); ok {
				width = w
				continue
			}
			if c, ok := value.ParseColor(tok); ok {
				color = c
				continue
			}
			return false
		}
	}

	emitSide := func(w, s, c PropCode) {
		b.emit(w, important, width)
		b.emitStr(s, important, style)
		b.emit(c, important, color)
	}

	switch side {
	case "", "all":
		emitSide(PropBorderTopWidth, PropBorderTopStyle, PropBorderTopColor)
		emitSide(PropBorderRightWidth, PropBorderRightStyle, PropBorderRightColor)
		emitSide(PropBorderBottomWidth, PropBorderBottomStyle, PropBorderBottomColor)
		emitSide(PropBorderLeftWidth, PropBorderLeftStyle, PropBorderLeftColor)
	case "top":
		emitSide(PropBorderTopWidth, PropBorderTopStyle, PropBorderTopColor)
	case "right":
		emitSide(PropBorderRightWidth, PropBorderRightStyle, PropBorderRightColor)
	case "bottom":
		emitSide(PropBorderBottomWidth, PropBorderBottomStyle, PropBorderBottomColor)
	case "left":
		emitSide(PropBorderLeftWidth, PropBorderLeftStyle, PropBorderLeftColor)
	}
	return true
}

// expandBorderStyleShorthand expands border-style: (1-4 values, TRBL
// derivation), the style-only sibling of ExpandBorderWidth.
func (b *Builder) expandBorderStyleShorthand(raw string, important bool) bool {
	fields := strings.Fields(raw)
	vals := make([]string, 0, len(fields))
	for _, f := range fields {
		low := strings.ToLower(f)
		if !borderStyleKeywords[low] {
			return false
		}
		vals = append(vals, low)
	}
	var t, r, bo, l string
	switch len(vals) {
	case 1:
		t, r, bo, l = vals[0], vals[0], vals[0], vals[0]
	case 2:
		t, r, bo, l = vals[0], vals[1], vals[0], vals[1]
	case 3:
		t, r, bo, l = vals[0], vals[1], vals[2], vals[1]
	case 4:
		t, r, bo, l = vals[0], vals[1], vals[2], vals[3]
	default:
		return false
	}
	b.emitStr(PropBorderTopStyle, important, t)
	b.emitStr(PropBorderRightStyle, important, r)
	b.emitStr(PropBorderBottomStyle, important, bo)
	b.emitStr(PropBorderLeftStyle, important, l)
	return true
}

// expandBorderColorShorthand expands border-color: (1-4 values, TRBL
// derivation), the color-only sibling of ExpandBorderWidth.
func (b *Builder) expandBorderColorShorthand(raw string, important bool) bool {
	fields := strings.Fields(raw)
	vals := make([]value.Length, 0, len(fields))
	for _, f := range fields {
		c, ok := value.ParseColor(f)
		if !ok {
			return false
		}
		vals = append(vals, c)
	}
	t, r, bo, l, ok := fourFromSlice(vals)
	if !ok {
		return false
	}
	b.emit(PropBorderTopColor, important, t)
	b.emit(PropBorderRightColor, important, r)
	b.emit(PropBorderBottomColor, important, bo)
	b.emit(PropBorderLeftColor, important, l)
	return true
}

// ExpandBackground expands background: into background-color,
// background-image, background-repeat and background-position.
func (b *Builder) ExpandBackground(raw string, important bool) bool {
	var repeatTokens, positionTokens []string
	for _, tok := range strings.Fields(raw) {
		low := strings.ToLower(tok)
		switch {
		case strings.HasPrefix(low, "url("):
			b.emitStr(PropBackgroundImage, important, tok)
		case low == "repeat" || low == "repeat-x" || low == "repeat-y" || low == "no-repeat":
			repeatTokens = append(repeatTokens, low)
		case low == "left" || low == "right" || low == "top" || low == "bottom" || low == "center":
			positionTokens = append(positionTokens, low)
		default:
			if c, ok := value.ParseColor(tok); ok {
				b.emit(PropBackgroundColor, important, c)
			} else if _, ok := value.ParseLength(tok, value.LengthOpts{AcceptPercent: true}); ok {
				positionTokens = append(positionTokens, tok)
			}
		}
	}
	if len(repeatTokens) > 0 {
		b.emitStr(PropBackgroundRepeat, important, strings.Join(repeatTokens, " "))
	}
	if len(positionTokens) > 0 {
		b.emitStr(PropBackgroundPosition, important, strings.Join(positionTokens, " "))
	}
	return true
}

var listStyleTypeKeywords = map[string]bool{
	"disc": true, "circle": true, "square": true, "decimal": true,
	"decimal-leading-zero": true, "lower-roman": true, "upper-roman": true,
	"lower-alpha": true, "upper-alpha": true, "none": true,
}
var listStylePositionKeywords = map[string]bool{"inside": true, "outside": true}

// ExpandListStyle expands list-style: (type and position, in any order,
// plus an optional image).
func (b *Builder) ExpandListStyle(raw string, important bool) bool {
	for _, tok := range strings.Fields(raw) {
		low := strings.ToLower(tok)
		switch {
		case listStyleTypeKeywords[low]:
			b.emitStr(PropListStyleType, important, low)
		case listStylePositionKeywords[low]:
			b.emitStr(PropListStylePosition, important, low)
		case strings.HasPrefix(low, "url("):
			b.emitStr(PropListStyleImage, important, tok)
		default:
			return false
		}
	}
	return true
}

// FontVariantBits is the 32-bit feature bitmap font-variant and its
// subgrammars compile into.
type FontVariantBits uint32

const (
	FVSmallCaps FontVariantBits = 1 << iota
	FVCommonLigatures
	FVNoCommonLigatures
	FVOldstyleNums
	FVLiningNums
)

var fontVariantKeywords = map[string]FontVariantBits{
	"small-caps":          FVSmallCaps,
	"common-ligatures":    FVCommonLigatures,
	"no-common-ligatures": FVNoCommonLigatures,
	"oldstyle-nums":       FVOldstyleNums,
	"lining-nums":         FVLiningNums,
}

// ExpandFontVariant maps font-variant keywords into a single bitmap,
// resetting to 0 on "normal"/"none". font-feature-settings has no entry in
// the property tables, so a declaration of it is rejected like any other
// unknown property rather than accepted.
func (b *Builder) ExpandFontVariant(raw string, important bool) {
	low := strings.ToLower(strings.TrimSpace(raw))
	if low == "normal" || low == "none" {
		b.emit(PropFontVariant, important, value.FromFloat(0, value.UnitDevicePx))
		return
	}
	var bits FontVariantBits
	for _, tok := range strings.Fields(low) {
		bits |= fontVariantKeywords[tok]
	}
	b.emit(PropFontVariant, important, value.FromFloat(float64(bits), value.UnitDevicePx))
}
