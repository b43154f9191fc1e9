package style

import (
	"github.com/koreader/crengine-sub001/decl"
	"github.com/koreader/crengine-sub001/value"
)

// ComputedStyle is the fixed-shape computed-style record of §4.7: one
// field per supported longhand, plus the importance map needed to
// resolve re-application order (§4.7 "Declaration application"). Keyword
// longhands (display, text-align, border-*-style, ...) are compiled by
// decl.CompileProperty into the instruction's Str field, so they are
// stored here as plain strings rather than value.Length; length-and-color
// longhands keep the typed value.Length payload. Two pending-pseudo-element
// slots hold declarations collected for ::before/::after before the
// pseudo-element node itself exists (§4.7 "Pseudo-elements").
type ComputedStyle struct {
	Color              value.Length
	BackgroundColor    value.Length
	BackgroundImage    string
	BackgroundRepeat   string
	BackgroundPosition string
	Display            string
	Visibility          string
	FontSize            value.Length
	FontWeight          string
	FontStyle           string
	FontFamily          string
	FontVariant         uint32
	LineHeight          value.Length
	TextAlign           string
	TextIndent          value.Length
	TextDecoration      string
	TextTransform       string
	VerticalAlign       string
	WhiteSpace          string
	Direction           string
	LetterSpacing       value.Length
	WordSpacing         value.Length
	Orphans             value.Length
	Widows              value.Length

	Width, Height       value.Length
	MinWidth, MinHeight value.Length
	MaxWidth, MaxHeight value.Length

	MarginTop, MarginRight, MarginBottom, MarginLeft     value.Length
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft value.Length

	BorderTopWidth, BorderRightWidth, BorderBottomWidth, BorderLeftWidth value.Length
	BorderTopStyle, BorderRightStyle, BorderBottomStyle, BorderLeftStyle string
	BorderTopColor, BorderRightColor, BorderBottomColor, BorderLeftColor value.Length

	ListStyleType     string
	ListStylePosition string
	ListStyleImage    string

	Content string

	CrHint decl.CrHint

	// importance records, per property code, the highest importance level
	// applied so far (decl.ImportanceNone/Author/Engine), so a later
	// non-important declaration cannot clobber an already-!important one
	// (§4.7 "Declaration application").
	importance map[decl.PropCode]int

	// directlySet marks which properties were set by a declaration applied
	// to this node, as opposed to only ever being inherited, consulted by
	// InheritFrom below.
	directlySet map[decl.PropCode]bool

	// PendingBefore/PendingAfter collect ::before/::after declarations
	// matched against this node before it has real pseudo-element
	// children. Materialise decides whether to realise them.
	PendingBefore *PendingPseudoElement
	PendingAfter  *PendingPseudoElement
}

// PendingPseudoElement accumulates every declaration matched to a
// ::before/::after selector for one node, per §4.7: materialised only if
// more than a bare "display: none" was set.
type PendingPseudoElement struct {
	decls []*decl.Declaration
}

// NewComputedStyle returns a zero-valued style record ready for
// ApplyDeclaration.
func NewComputedStyle() *ComputedStyle {
	return &ComputedStyle{
		importance:  make(map[decl.PropCode]int),
		directlySet: make(map[decl.PropCode]bool),
	}
}

// IsSetImportant reports whether code currently carries an author
// !important value, used by callers that need to reason about cascade
// precedence outside ApplyDeclaration itself (e.g. a fragment-stylesheet
// merge).
func (cs *ComputedStyle) IsSetImportant(code decl.PropCode) bool {
	return cs.importance[code] >= decl.ImportanceAuthor
}

// WasSetDirectly reports whether code was set by a declaration applied
// directly to this node, consulted by InheritFrom so it never overwrites
// an explicit value with an inherited one.
func (cs *ComputedStyle) WasSetDirectly(code decl.PropCode) bool {
	return cs.directlySet[code]
}

// InheritFrom copies every inheritable property (decl.InheritableProps)
// that parent had set, directly or by inheritance, into cs, skipping any
// property cs already has set directly on itself. Called top-down while
// walking the DOM, before matching cs's own selectors.
func InheritFrom(cs, parent *ComputedStyle) {
	for code := range decl.InheritableProps {
		if cs.WasSetDirectly(code) {
			continue
		}
		inheritProperty(cs, parent, code)
	}
}

func inheritProperty(cs, parent *ComputedStyle, code decl.PropCode) {
	switch code {
	case decl.PropColor:
		cs.Color = parent.Color
	case decl.PropFontSize:
		cs.FontSize = parent.FontSize
	case decl.PropFontWeight:
		cs.FontWeight = parent.FontWeight
	case decl.PropFontStyle:
		cs.FontStyle = parent.FontStyle
	case decl.PropFontFamily:
		cs.FontFamily = parent.FontFamily
	case decl.PropFontVariant:
		cs.FontVariant = parent.FontVariant
	case decl.PropLineHeight:
		cs.LineHeight = parent.LineHeight
	case decl.PropTextAlign:
		cs.TextAlign = parent.TextAlign
	case decl.PropTextIndent:
		cs.TextIndent = parent.TextIndent
	case decl.PropTextTransform:
		cs.TextTransform = parent.TextTransform
	case decl.PropWhiteSpace:
		cs.WhiteSpace = parent.WhiteSpace
	case decl.PropDirection:
		cs.Direction = parent.Direction
	case decl.PropLetterSpacing:
		cs.LetterSpacing = parent.LetterSpacing
	case decl.PropWordSpacing:
		cs.WordSpacing = parent.WordSpacing
	case decl.PropOrphans:
		cs.Orphans = parent.Orphans
	case decl.PropWidows:
		cs.Widows = parent.Widows
	case decl.PropListStyleType:
		cs.ListStyleType = parent.ListStyleType
	case decl.PropListStylePosition:
		cs.ListStylePosition = parent.ListStylePosition
	case decl.PropListStyleImage:
		cs.ListStyleImage = parent.ListStyleImage
	case decl.PropVisibility:
		cs.Visibility = parent.Visibility
	}
}

// Materialise reports whether enough was recorded in p to justify
// realising a real pseudo-element node, per §4.7: "only if any matched
// selector set more than just display:none".
func (p *PendingPseudoElement) Materialise() bool {
	if p == nil {
		return false
	}
	for _, d := range p.decls {
		for _, ins := range d.Instructions {
			if ins.Code() != decl.PropDisplay || ins.Str != "none" {
				return true
			}
		}
	}
	return false
}

// Declarations returns the declarations collected for this pseudo-element,
// in match order, for a caller building the synthetic node's own style.
func (p *PendingPseudoElement) Declarations() []*decl.Declaration {
	if p == nil {
		return nil
	}
	return p.decls
}
