// Package style's match.go implements the dual-cursor matching walk of
// §4.7: at each node, advance simultaneously through the universal bucket
// and the node's element-name bucket, always stepping whichever cursor
// currently points at the lower-specificity selector, applying on match.
// Grounded on stylesheet/store.go's bucket layout (the cursors walk the
// same ascending-specificity slices Store.Bucket/Universal return) and
// the teacher's css/parser.go selector-matching ordering note.
package style

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/koreader/crengine-sub001/domid"
	"github.com/koreader/crengine-sub001/selector"
	"github.com/koreader/crengine-sub001/stylesheet"
)

// foldCaser performs Unicode case folding for the "i" (case-insensitive)
// attribute-selector flag, per §4.7's "case-insensitive variants lower-case
// the attribute value" — ASCII strings.ToLower/EqualFold would mishandle
// non-ASCII attribute values (e.g. Turkish "İ", German "ß"); x/text/cases
// is already a pack dependency (lang uses x/text/language for its tags).
var foldCaser = cases.Fold()

// Bucketed is the subset of stylesheet.Store the matcher needs, so tests
// can supply a fake without building a full Store.
type Bucketed interface {
	Bucket(id domid.ElementNameID) []*selector.Selector
	Universal() []*selector.Selector
}

var _ Bucketed = (*stylesheet.Store)(nil)

// MatchNode walks store's universal and element-name buckets for n in
// ascending-specificity order and applies every matching selector's
// declaration to cs, via ApplyDeclaration. This is the single entry point
// C7 exposes to a render-prep pass visiting the document tree.
func MatchNode(store Bucketed, n Node, cs *ComputedStyle, ctx ApplyContext) {
	uni := store.Universal()
	named := store.Bucket(n.ElementNameID())
	i, j := 0, 0
	for i < len(uni) || j < len(named) {
		var sel *selector.Selector
		switch {
		case j >= len(named):
			sel = uni[i]
			i++
		case i >= len(uni):
			sel = named[j]
			j++
		case uni[i].Specificity <= named[j].Specificity:
			sel = uni[i]
			i++
		default:
			sel = named[j]
			j++
		}
		if !MatchesSelector(n, sel) {
			continue
		}
		pe := PseudoElemNone
		switch sel.PseudoElement {
		case selector.PseudoElemBefore:
			pe = PseudoElemBefore
		case selector.PseudoElemAfter:
			pe = PseudoElemAfter
		}
		ApplyDeclaration(cs, sel.Decl, pe, ctx)
	}
}

// MatchesSelector reports whether n matches sel's full compound chain,
// honouring combinators (§3's "right-to-left linked chain").
func MatchesSelector(n Node, sel *selector.Selector) bool {
	if sel.Chain == nil {
		return true
	}
	return matchChain(n, sel.Chain)
}

func matchChain(n Node, c *selector.Compound) bool {
	if n == nil {
		return false
	}
	if !matchCompound(n, c) {
		return false
	}
	if c.Left == nil {
		return true
	}
	switch c.Combinator {
	case selector.CombinatorChild:
		p := effectiveParent(n, c.Left)
		return p != nil && matchChain(p, c.Left)
	case selector.CombinatorDescendant:
		for p := effectiveParent(n, c.Left); p != nil; p = effectiveParent(p, c.Left) {
			if matchChain(p, c.Left) {
				return true
			}
		}
		return false
	case selector.CombinatorAdjacent:
		s := effectivePrevSibling(n, c.Left)
		return s != nil && matchChain(s, c.Left)
	case selector.CombinatorSibling:
		for s := effectivePrevSibling(n, c.Left); s != nil; s = effectivePrevSibling(s, c.Left) {
			if matchChain(s, c.Left) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// effectiveParent/effectivePrevSibling skip synthetic boxing-wrapper
// elements transparently, unless target explicitly names the element
// name the wrapper carries (§4.7's boxing-wrapper transparency note).
func effectiveParent(n Node, target *selector.Compound) Node {
	p := n.Parent()
	for p != nil && p.IsBoxingWrapper() && !explicitlyTargets(target, p) {
		p = p.Parent()
	}
	return p
}

func effectivePrevSibling(n Node, target *selector.Compound) Node {
	s := n.PrevSibling()
	for s != nil && s.IsText() {
		s = s.PrevSibling()
	}
	for s != nil && s.IsBoxingWrapper() && !explicitlyTargets(target, s) {
		s = s.PrevSibling()
		for s != nil && s.IsText() {
			s = s.PrevSibling()
		}
	}
	return s
}

func explicitlyTargets(target *selector.Compound, n Node) bool {
	return target.ElementName != domid.UniversalID && target.ElementName == n.ElementNameID()
}

func matchCompound(n Node, c *selector.Compound) bool {
	if n.IsText() {
		return false
	}
	if c.ElementName != domid.UniversalID && c.ElementName != n.ElementNameID() {
		return false
	}
	for _, r := range c.Rules {
		if !matchRule(n, r) {
			return false
		}
	}
	return true
}

func matchRule(n Node, r selector.Rule) bool {
	switch r.Kind {
	case selector.KindElementName:
		return true // folded into Compound.ElementName already
	case selector.KindClassContains:
		return n.HasClass(r.Str)
	case selector.KindIDEquals:
		return matchID(n.ID(), r.Str)
	case selector.KindAttrExists:
		return n.HasAttribute(r.AttrName)
	case selector.KindAttrEq:
		v, ok := n.Attribute(r.AttrName)
		return ok && v == r.Str
	case selector.KindAttrEqCI:
		v, ok := n.Attribute(r.AttrName)
		return ok && foldCaser.String(v) == foldCaser.String(r.Str)
	case selector.KindAttrHas:
		return attrWordMatch(n, r, false)
	case selector.KindAttrHasCI:
		return attrWordMatch(n, r, true)
	case selector.KindAttrDashPrefix:
		return attrDashMatch(n, r, false)
	case selector.KindAttrDashPrefixCI:
		return attrDashMatch(n, r, true)
	case selector.KindAttrPrefix:
		v, ok := n.Attribute(r.AttrName)
		return ok && strings.HasPrefix(v, r.Str)
	case selector.KindAttrPrefixCI:
		v, ok := n.Attribute(r.AttrName)
		return ok && strings.HasPrefix(foldCaser.String(v), foldCaser.String(r.Str))
	case selector.KindAttrSuffix:
		v, ok := n.Attribute(r.AttrName)
		return ok && strings.HasSuffix(v, r.Str)
	case selector.KindAttrSuffixCI:
		v, ok := n.Attribute(r.AttrName)
		return ok && strings.HasSuffix(foldCaser.String(v), foldCaser.String(r.Str))
	case selector.KindAttrSubstring:
		v, ok := n.Attribute(r.AttrName)
		return ok && strings.Contains(v, r.Str)
	case selector.KindAttrSubstringCI:
		v, ok := n.Attribute(r.AttrName)
		return ok && strings.Contains(foldCaser.String(v), foldCaser.String(r.Str))
	case selector.KindPseudoClass:
		return evalPseudoClass(n, r)
	case selector.KindNot:
		for _, alt := range r.Not {
			if matchChain(n, alt) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// matchID reports an exact id match or, failing that, a match against the
// authored id once a leading document-fragment scoping prefix (the
// "_doc_fragment_N_" label stylesheet.Store.NextFragment hands out, §4.7)
// is stripped off.
func matchID(nodeID, want string) bool {
	if nodeID == want {
		return true
	}
	rest, ok := stripFragmentPrefix(nodeID)
	return ok && rest == want
}

func stripFragmentPrefix(id string) (rest string, ok bool) {
	const prefix = "_doc_fragment_"
	if !strings.HasPrefix(id, prefix) {
		return "", false
	}
	i := len(prefix)
	start := i
	for i < len(id) && id[i] >= '0' && id[i] <= '9' {
		i++
	}
	if i == start || i >= len(id) || id[i] != '_' {
		return "", false
	}
	return id[i+1:], true
}

func attrWordMatch(n Node, r selector.Rule, ci bool) bool {
	v, ok := n.Attribute(r.AttrName)
	if !ok {
		return false
	}
	want := r.Str
	if ci {
		v = foldCaser.String(v)
		want = foldCaser.String(want)
	}
	for _, word := range strings.Fields(v) {
		if word == want {
			return true
		}
	}
	return false
}

func attrDashMatch(n Node, r selector.Rule, ci bool) bool {
	v, ok := n.Attribute(r.AttrName)
	if !ok {
		return false
	}
	want := r.Str
	if ci {
		v = foldCaser.String(v)
		want = foldCaser.String(want)
	}
	return v == want || strings.HasPrefix(v, want+"-")
}
