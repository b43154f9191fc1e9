package decl

import (
	"strconv"
	"strings"

	"github.com/koreader/crengine-sub001/value"
)

var keywordProps = map[PropCode]map[string]bool{
	PropDisplay: {
		"inline": true, "block": true, "inline-block": true, "list-item": true,
		"table": true, "table-row": true, "table-cell": true, "table-row-group": true,
		"none": true, "run-in": true,
	},
	PropVisibility:      {"visible": true, "hidden": true, "collapse": true},
	PropTextAlign:       {"left": true, "right": true, "center": true, "justify": true, "start": true, "end": true},
	PropTextDecoration:  {"none": true, "underline": true, "overline": true, "line-through": true, "blink": true},
	PropTextTransform:   {"none": true, "capitalize": true, "uppercase": true, "lowercase": true},
	PropVerticalAlign:   {"baseline": true, "sub": true, "super": true, "top": true, "text-top": true, "middle": true, "bottom": true, "text-bottom": true},
	PropWhiteSpace:      {"normal": true, "pre": true, "nowrap": true, "pre-wrap": true, "pre-line": true},
	PropDirection:       {"ltr": true, "rtl": true},
	PropFontStyle:       {"normal": true, "italic": true, "oblique": true},
	PropBackgroundRepeat: {
		"repeat": true, "repeat-x": true, "repeat-y": true, "no-repeat": true, "space": true, "round": true,
	},
}

// lengthPropOpts gives the LengthOpts each length-valued longhand accepts.
var lengthPropOpts = map[PropCode]value.LengthOpts{
	PropWidth:       {AcceptPercent: true, AcceptAuto: true},
	PropHeight:      {AcceptPercent: true, AcceptAuto: true},
	PropMinWidth:    {AcceptPercent: true},
	PropMinHeight:   {AcceptPercent: true},
	PropMaxWidth:    {AcceptPercent: true, AcceptNone: true},
	PropMaxHeight:   {AcceptPercent: true, AcceptNone: true},
	PropMarginTop:    marginOpts,
	PropMarginRight:  marginOpts,
	PropMarginBottom: marginOpts,
	PropMarginLeft:   marginOpts,
	PropPaddingTop:    paddingOpts,
	PropPaddingRight:  paddingOpts,
	PropPaddingBottom: paddingOpts,
	PropPaddingLeft:   paddingOpts,
	PropTextIndent:     {AcceptPercent: true, AcceptNegative: true},
	PropLetterSpacing:  {AcceptNegative: true, AcceptNormal: true},
	PropWordSpacing:    {AcceptNegative: true, AcceptNormal: true},
	PropLineHeight:     {AcceptPercent: true, AcceptUnspecified: true, AcceptNormal: true},
	PropFontSize:       {AcceptPercent: true, IsFontSize: true},
}

var colorProps = map[PropCode]bool{
	PropColor: true, PropBackgroundColor: true,
	PropBorderTopColor: true, PropBorderRightColor: true, PropBorderBottomColor: true, PropBorderLeftColor: true,
}

var borderWidthProp2Side = map[PropCode]bool{
	PropBorderTopWidth: true, PropBorderRightWidth: true, PropBorderBottomWidth: true, PropBorderLeftWidth: true,
}

var borderStyleProp2Side = map[PropCode]bool{
	PropBorderTopStyle: true, PropBorderRightStyle: true, PropBorderBottomStyle: true, PropBorderLeftStyle: true,
}

// shorthandNames lists the shorthand property names dispatched to
// shorthand.go's expanders rather than the propertyNames table.
var shorthandNames = map[string]bool{
	"margin": true, "padding": true, "border-width": true, "border-style": true, "border-color": true,
	"border": true, "border-top": true, "border-right": true, "border-bottom": true, "border-left": true,
	"background": true, "list-style": true, "font-variant": true,
}

// CompileProperty compiles one "prop: value" pair into b, returning true if
// the property and its value were fully recognised. Shorthands are expanded
// inline; unrecognised properties or malformed values return false and emit
// nothing, the recoverable-declaration-error policy of §7.
func CompileProperty(prop, raw string, important bool, b *Builder) bool {
	prop = strings.ToLower(strings.TrimSpace(prop))
	raw = strings.TrimSpace(raw)

	if shorthandNames[prop] {
		return compileShorthand(prop, raw, important, b)
	}

	code, ok := propertyNames[prop]
	if !ok {
		return false
	}

	switch {
	case code == PropContent:
		b.emitStr(PropContent, important, value.ParseContent(raw))
		return true
	case code == PropFontFamily:
		b.emitStr(PropFontFamily, important, raw)
		return true
	case code == PropFontWeight:
		return compileFontWeight(raw, important, b)
	case code == PropOrphans || code == PropWidows:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return false
		}
		b.emit(code, important, value.FromFloat(float64(n), value.UnitUnitless))
		return true
	case colorProps[code]:
		l, ok := value.ParseColor(raw)
		if !ok {
			return false
		}
		b.emit(code, important, l)
		return true
	case borderWidthProp2Side[code]:
		l, ok := parseBorderWidth(raw)
		if !ok {
			return false
		}
		b.emit(code, important, l)
		return true
	case borderStyleProp2Side[code]:
		low := strings.ToLower(raw)
		if !borderStyleKeywords[low] {
			return false
		}
		b.emitStr(code, important, low)
		return true
	case code == PropBackgroundImage || code == PropListStyleImage:
		b.emitStr(code, important, raw)
		return true
	case code == PropBackgroundPosition:
		b.emitStr(code, important, strings.ToLower(raw))
		return true
	case code == PropListStyleType:
		low := strings.ToLower(raw)
		if !listStyleTypeKeywords[low] {
			return false
		}
		b.emitStr(code, important, low)
		return true
	case code == PropListStylePosition:
		low := strings.ToLower(raw)
		if !listStylePositionKeywords[low] {
			return false
		}
		b.emitStr(code, important, low)
		return true
	}

	if set, ok := keywordProps[code]; ok {
		low := strings.ToLower(raw)
		if !set[low] {
			return false
		}
		b.emitStr(code, important, low)
		return true
	}

	if opts, ok := lengthPropOpts[code]; ok {
		l, ok := value.ParseLength(raw, opts)
		if !ok {
			return false
		}
		b.emit(code, important, l)
		return true
	}

	return false
}

func compileShorthand(prop, raw string, important bool, b *Builder) bool {
	switch prop {
	case "margin":
		return b.ExpandMargin(raw, important)
	case "padding":
		return b.ExpandPadding(raw, important)
	case "border-width":
		return b.ExpandBorderWidth(raw, important)
	case "border-style":
		return b.expandBorderStyleShorthand(raw, important)
	case "border-color":
		return b.expandBorderColorShorthand(raw, important)
	case "border":
		return b.ExpandBorder("", raw, important)
	case "border-top":
		return b.ExpandBorder("top", raw, important)
	case "border-right":
		return b.ExpandBorder("right", raw, important)
	case "border-bottom":
		return b.ExpandBorder("bottom", raw, important)
	case "border-left":
		return b.ExpandBorder("left", raw, important)
	case "background":
		return b.ExpandBackground(raw, important)
	case "list-style":
		return b.ExpandListStyle(raw, important)
	case "font-variant":
		b.ExpandFontVariant(raw, important)
		return true
	}
	return false
}

func compileFontWeight(raw string, important bool, b *Builder) bool {
	low := strings.ToLower(raw)
	switch low {
	case "normal", "bold", "bolder", "lighter":
		b.emitStr(PropFontWeight, important, low)
		return true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 100 || n > 900 || n%100 != 0 {
		return false
	}
	b.emitStr(PropFontWeight, important, low)
	return true
}
