package style

import "github.com/koreader/crengine-sub001/selector"

// elementPrevSibling/elementNextSibling walk siblings skipping text nodes, the unit the
// structural pseudo-classes (:first-child, :nth-child, ...) count over.
func elementPrevSibling(n Node) Node {
	for s := n.PrevSibling(); s != nil; s = s.PrevSibling() {
		if !s.IsText() {
			return s
		}
	}
	return nil
}

func elementNextSibling(n Node) Node {
	for s := n.NextSibling(); s != nil; s = s.NextSibling() {
		if !s.IsText() {
			return s
		}
	}
	return nil
}

// siblingIndex returns n's 1-based position among its parent's element
// children, counted from the front (fromEnd=false) or back (fromEnd=true),
// optionally restricted to siblings sharing n's element name (sameType).
func siblingIndex(n Node, fromEnd, sameType bool) int {
	idx := 1
	name := n.ElementNameID()
	step := elementPrevSibling
	if fromEnd {
		step = elementNextSibling
	}
	for s := step(n); s != nil; s = step(s) {
		if sameType && s.ElementNameID() != name {
			continue
		}
		idx++
	}
	return idx
}

// evalPseudoClass evaluates one simple pseudo-class rule against n,
// consulting and populating n's cache for the full-DOM kinds (§4.4, §6).
func evalPseudoClass(n Node, r selector.Rule) bool {
	switch r.Pseudo {
	case selector.PCRoot:
		return n.IsRoot()
	case selector.PCDir:
		return evalDir(n) == r.Str
	case selector.PCEmpty:
		return evalCached(&n.Cache().empty, func() bool {
			return n.FirstChild() == nil
		})
	case selector.PCFirstChild:
		return evalCached(&n.Cache().firstChild, func() bool {
			return elementPrevSibling(n) == nil
		})
	case selector.PCLastChild:
		return evalCached(&n.Cache().lastChild, func() bool {
			return elementNextSibling(n) == nil
		})
	case selector.PCFirstOfType:
		return evalCached(&n.Cache().firstOfType, func() bool {
			return siblingIndex(n, false, true) == 1
		})
	case selector.PCLastOfType:
		return evalCached(&n.Cache().lastOfType, func() bool {
			return siblingIndex(n, true, true) == 1
		})
	case selector.PCOnlyChild:
		return evalCached(&n.Cache().onlyChild, func() bool {
			return elementPrevSibling(n) == nil && elementNextSibling(n) == nil
		})
	case selector.PCOnlyOfType:
		return evalCached(&n.Cache().onlyOfType, func() bool {
			return siblingIndex(n, false, true) == 1 && siblingIndex(n, true, true) == 1
		})
	case selector.PCNthChild:
		return r.Nth.Matches(siblingIndex(n, false, false))
	case selector.PCNthLastChild:
		return r.Nth.Matches(siblingIndex(n, true, false))
	case selector.PCNthOfType:
		return r.Nth.Matches(siblingIndex(n, false, true))
	case selector.PCNthLastOfType:
		return r.Nth.Matches(siblingIndex(n, true, true))
	default:
		return false
	}
}

func evalCached(slot *cacheState, compute func() bool) bool {
	if v, ok := boolFromCache(*slot); ok {
		return v
	}
	v := compute()
	*slot = cacheFromBool(v)
	return v
}

// evalDir resolves :dir()'s effective direction by walking up to the
// nearest ancestor carrying an explicit "dir" attribute, defaulting to
// ltr, since full bidi paragraph-level detection belongs to the text
// layout collaborator, not this engine.
func evalDir(n Node) string {
	for cur := n; cur != nil; cur = cur.Parent() {
		// The caller's DOM is expected to intern "dir" consistently; style
		// has no attribute-name interner of its own, so it asks the node
		// for its dir attribute via an optional DirAttr() (string, bool)
		// method when the embedding DOM implements it.
		if dn, ok := cur.(interface{ DirAttr() (string, bool) }); ok {
			if v, ok := dn.DirAttr(); ok {
				if v == "rtl" {
					return "rtl"
				}
				return "ltr"
			}
		}
	}
	return "ltr"
}
