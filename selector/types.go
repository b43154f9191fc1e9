// Package selector implements the C4 selector compiler: selector lists
// compiled into right-to-left rule chains with packed specificity, grounded
// on css/parser.go's parseSelector/parseSimpleSelector (which this package
// generalizes to the combinators and attribute/pseudo-class forms the
// teacher explicitly rejected) and original_source/crengine/include/
// lvstsheet.h's LVCssSelectorRule chain shape.
package selector

import (
	"github.com/koreader/crengine-sub001/decl"
	"github.com/koreader/crengine-sub001/domid"
)

// Kind enumerates the simple-selector rule variants of §3.
type Kind int

const (
	KindUniversal Kind = iota
	KindElementName
	KindIDEquals
	KindClassContains
	KindAttrExists
	KindAttrEq
	KindAttrEqCI
	KindAttrHas
	KindAttrHasCI
	KindAttrDashPrefix
	KindAttrDashPrefixCI
	KindAttrPrefix
	KindAttrPrefixCI
	KindAttrSuffix
	KindAttrSuffixCI
	KindAttrSubstring
	KindAttrSubstringCI
	KindPseudoClass
	KindNot // :not(<selector-list>), supplemented from lvstsheet.h's _subSelectors
)

// Combinator identifies how a Compound links to the compound to its left.
type Combinator int

const (
	CombinatorNone Combinator = iota // this compound is the whole selector (no left neighbour)
	CombinatorDescendant
	CombinatorChild
	CombinatorAdjacent
	CombinatorSibling
)

// PseudoClass enumerates the recognised pseudo-classes of §4.4.
type PseudoClass int

const (
	PCNone PseudoClass = iota
	PCRoot
	PCDir
	PCFirstChild
	PCFirstOfType
	PCNthChild
	PCNthOfType
	PCLastChild
	PCLastOfType
	PCNthLastChild
	PCNthLastOfType
	PCOnlyChild
	PCOnlyOfType
	PCEmpty
)

// RequiresFullDOM reports whether a pseudo-class's result can only be
// computed once the whole document tree exists (everything from
// :last-child onward in §4.4's list).
func (p PseudoClass) RequiresFullDOM() bool {
	switch p {
	case PCLastChild, PCLastOfType, PCNthLastChild, PCNthLastOfType,
		PCOnlyChild, PCOnlyOfType, PCEmpty:
		return true
	default:
		return false
	}
}

// NthArgs is the pre-parsed (negative, step, offset) triple for
// :nth-child(an+b) and friends. "even" -> (false,2,0); "odd" -> (false,2,1).
type NthArgs struct {
	Negative bool
	Step     int
	Offset   int
}

// Matches reports whether 1-based position p satisfies An+B: p = A*k+B for
// some integer k >= 0, where A is n.Step (negated if n.Negative) and B is
// n.Offset.
func (n NthArgs) Matches(p int) bool {
	a := n.Step
	if n.Negative {
		a = -a
	}
	if a == 0 {
		return p == n.Offset
	}
	diff := p - n.Offset
	if diff%a != 0 {
		return false
	}
	k := diff / a
	return k >= 0
}

// Rule is one simple-selector test within a Compound.
type Rule struct {
	Kind     Kind
	AttrName domid.AttrNameID
	Str      string // class name, #id, attr value, :dir() arg
	Nth      NthArgs
	Pseudo   PseudoClass
	Not      []*Compound // :not(<selector-list>) alternatives, each matched with OR semantics negated
}

// Compound is one compound selector (element name plus simple-selector
// suffixes) linked to the compound on its left by a Combinator. The whole
// selector chain is rooted at the rightmost compound, matching §3's "rules
// form a right-to-left linked chain rooted at the rightmost simple
// selector".
type Compound struct {
	ElementName domid.ElementNameID // domid.UniversalID for no element name
	Rules       []Rule
	Combinator  Combinator
	Left        *Compound
}

// PseudoElement identifies a ::before/::after target.
type PseudoElement int

const (
	PseudoElemNone PseudoElement = iota
	PseudoElemBefore
	PseudoElemAfter
)

// Selector is one fully compiled selector (one side of a comma list).
type Selector struct {
	Chain         *Compound
	PseudoElement PseudoElement
	Specificity   uint32
	Decl          *decl.Declaration
	Provisional   bool // true if a full-DOM pseudo-class was used (§4.4)
	Source        string
}

// ElementName returns the rightmost compound's element-name id, the key
// the stylesheet store buckets selectors by.
func (s *Selector) ElementName() domid.ElementNameID {
	if s.Chain == nil {
		return domid.UniversalID
	}
	return s.Chain.ElementName
}
