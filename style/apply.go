package style

import (
	"github.com/koreader/crengine-sub001/decl"
)

// ApplyContext carries the pieces of node state a dynamic -cr-only-if
// guard needs to check itself against, beyond the style record being
// built (§4.3): whether the node sits inside an in-page footnote is a
// question about ancestors, not about this node's own declarations, so
// only the caller walking the DOM top-down can answer it.
type ApplyContext struct {
	InsideInpageFootnote bool
}

// PseudoElementKind mirrors selector.PseudoElement without importing the
// selector package, so style stays usable by a caller holding only a
// compiled declaration and the pseudo-element slot it targets.
type PseudoElementKind int

const (
	PseudoElemNone PseudoElementKind = iota
	PseudoElemBefore
	PseudoElemAfter
)

// ApplyDeclaration iterates d's instruction stream and applies each
// instruction to cs, honouring !important precedence, bitmap-OR
// properties, dynamic guards, and pseudo-element routing (§4.7
// "Declaration application" and "Pseudo-elements"). A ::before/::after
// match is never applied to the node's own style; it is queued on the
// matching pending slot instead.
func ApplyDeclaration(cs *ComputedStyle, d *decl.Declaration, pe PseudoElementKind, ctx ApplyContext) {
	if pe != PseudoElemNone {
		target := &cs.PendingBefore
		if pe == PseudoElemAfter {
			target = &cs.PendingAfter
		}
		if *target == nil {
			*target = &PendingPseudoElement{}
		}
		(*target).decls = append((*target).decls, d)
		return
	}
	for _, ins := range d.Instructions {
		if ins.DynamicGuard.Keyword != "" && !checkDynamicGuard(cs, ctx, ins.DynamicGuard) {
			return // rest of this declaration aborts for this node (§4.3)
		}
		applyInstruction(cs, ins)
	}
}

func checkDynamicGuard(cs *ComputedStyle, ctx ApplyContext, g decl.DynamicGuard) bool {
	var ok bool
	switch g.Keyword {
	case "inline":
		ok = cs.Display == "inline" || cs.Display == "inline-block"
	case "inpage-footnote":
		ok = cs.CrHint&decl.HintFootnoteInpage != 0
	case "inside-inpage-footnote":
		ok = ctx.InsideInpageFootnote
	default:
		ok = true
	}
	if g.Negated {
		return !ok
	}
	return ok
}

func applyInstruction(cs *ComputedStyle, ins decl.Instruction) {
	code := ins.Code()
	imp := decl.ImportanceNone
	switch {
	case ins.EngineImportant():
		imp = decl.ImportanceEngine
	case ins.Important():
		imp = decl.ImportanceAuthor
	}

	if decl.BitmapOred[code] {
		applyBitmapOred(cs, code, ins)
		cs.directlySet[code] = true
		if imp > cs.importance[code] {
			cs.importance[code] = imp
		}
		return
	}

	if imp < cs.importance[code] {
		return // already-set !important value wins (§4.7)
	}
	cs.importance[code] = imp
	cs.directlySet[code] = true
	setField(cs, code, ins)
}

// applyBitmapOred ORs a bitmap property's bits in, unless the instruction
// carries the reset sentinel (normal/none, encoded as a zero scalar with
// no sentinel keyword), which zeroes it instead.
func applyBitmapOred(cs *ComputedStyle, code decl.PropCode, ins decl.Instruction) {
	switch code {
	case decl.PropFontVariant:
		if ins.Length.Scaled == 0 {
			cs.FontVariant = 0
			return
		}
		cs.FontVariant |= uint32(ins.Length.Scaled)
	case decl.PropCrHint:
		if ins.Length.Scaled == 0 {
			cs.CrHint = 0
			return
		}
		cs.CrHint |= decl.CrHint(ins.Length.Scaled)
	}
}

func setField(cs *ComputedStyle, code decl.PropCode, ins decl.Instruction) {
	switch code {
	case decl.PropColor:
		cs.Color = ins.Length
	case decl.PropBackgroundColor:
		cs.BackgroundColor = ins.Length
	case decl.PropBackgroundImage:
		cs.BackgroundImage = ins.Str
	case decl.PropBackgroundRepeat:
		cs.BackgroundRepeat = ins.Str
	case decl.PropBackgroundPosition:
		cs.BackgroundPosition = ins.Str
	case decl.PropDisplay:
		cs.Display = ins.Str
	case decl.PropVisibility:
		cs.Visibility = ins.Str
	case decl.PropFontSize:
		cs.FontSize = ins.Length
	case decl.PropFontWeight:
		cs.FontWeight = ins.Str
	case decl.PropFontStyle:
		cs.FontStyle = ins.Str
	case decl.PropFontFamily:
		cs.FontFamily = ins.Str
	case decl.PropLineHeight:
		cs.LineHeight = ins.Length
	case decl.PropTextAlign:
		cs.TextAlign = ins.Str
	case decl.PropTextIndent:
		cs.TextIndent = ins.Length
	case decl.PropTextDecoration:
		cs.TextDecoration = ins.Str
	case decl.PropTextTransform:
		cs.TextTransform = ins.Str
	case decl.PropVerticalAlign:
		cs.VerticalAlign = ins.Str
	case decl.PropWhiteSpace:
		cs.WhiteSpace = ins.Str
	case decl.PropDirection:
		cs.Direction = ins.Str
	case decl.PropLetterSpacing:
		cs.LetterSpacing = ins.Length
	case decl.PropWordSpacing:
		cs.WordSpacing = ins.Length
	case decl.PropOrphans:
		cs.Orphans = ins.Length
	case decl.PropWidows:
		cs.Widows = ins.Length
	case decl.PropWidth:
		cs.Width = ins.Length
	case decl.PropHeight:
		cs.Height = ins.Length
	case decl.PropMinWidth:
		cs.MinWidth = ins.Length
	case decl.PropMinHeight:
		cs.MinHeight = ins.Length
	case decl.PropMaxWidth:
		cs.MaxWidth = ins.Length
	case decl.PropMaxHeight:
		cs.MaxHeight = ins.Length
	case decl.PropMarginTop:
		cs.MarginTop = ins.Length
	case decl.PropMarginRight:
		cs.MarginRight = ins.Length
	case decl.PropMarginBottom:
		cs.MarginBottom = ins.Length
	case decl.PropMarginLeft:
		cs.MarginLeft = ins.Length
	case decl.PropPaddingTop:
		cs.PaddingTop = ins.Length
	case decl.PropPaddingRight:
		cs.PaddingRight = ins.Length
	case decl.PropPaddingBottom:
		cs.PaddingBottom = ins.Length
	case decl.PropPaddingLeft:
		cs.PaddingLeft = ins.Length
	case decl.PropBorderTopWidth:
		cs.BorderTopWidth = ins.Length
	case decl.PropBorderRightWidth:
		cs.BorderRightWidth = ins.Length
	case decl.PropBorderBottomWidth:
		cs.BorderBottomWidth = ins.Length
	case decl.PropBorderLeftWidth:
		cs.BorderLeftWidth = ins.Length
	case decl.PropBorderTopStyle:
		cs.BorderTopStyle = ins.Str
	case decl.PropBorderRightStyle:
		cs.BorderRightStyle = ins.Str
	case decl.PropBorderBottomStyle:
		cs.BorderBottomStyle = ins.Str
	case decl.PropBorderLeftStyle:
		cs.BorderLeftStyle = ins.Str
	case decl.PropBorderTopColor:
		cs.BorderTopColor = ins.Length
	case decl.PropBorderRightColor:
		cs.BorderRightColor = ins.Length
	case decl.PropBorderBottomColor:
		cs.BorderBottomColor = ins.Length
	case decl.PropBorderLeftColor:
		cs.BorderLeftColor = ins.Length
	case decl.PropListStyleType:
		cs.ListStyleType = ins.Str
	case decl.PropListStylePosition:
		cs.ListStylePosition = ins.Str
	case decl.PropListStyleImage:
		cs.ListStyleImage = ins.Str
	case decl.PropContent:
		cs.Content = ins.Str
	}
}
