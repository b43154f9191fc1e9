package style

import "github.com/koreader/crengine-sub001/decl"

// StyleNode computes n's full style record: inherit from parent (nil for
// the document root), then match and apply every selector in store that
// matches n, in cascade order. This is the single call a render-prep pass
// makes per node while walking the tree top-down (§4.7).
func StyleNode(store Bucketed, n Node, parent *ComputedStyle, ctx ApplyContext) *ComputedStyle {
	cs := NewComputedStyle()
	if parent != nil {
		InheritFrom(cs, parent)
	}
	MatchNode(store, n, cs, ctx)
	return cs
}

// ChildContext derives the ApplyContext a node's children should be
// styled with: once a node is inside an in-page footnote (by -cr-hint or
// by already being inside one), every descendant is too.
func ChildContext(cs *ComputedStyle, ctx ApplyContext) ApplyContext {
	if ctx.InsideInpageFootnote || cs.CrHint&decl.HintFootnoteInpage != 0 {
		return ApplyContext{InsideInpageFootnote: true}
	}
	return ctx
}
