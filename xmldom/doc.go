// Package xmldom adapts a github.com/beevik/etree document tree to the
// style.Node interface the match & apply engine (C7) consumes. It is the
// thin "real document" counterpart to the interfaces style/node.go
// declares, grounded on fb2/parse.go's *etree.Element/*etree.CharData type
// switches (extractAllText, parseFlow's "for _, node := range el.Child")
// for how the teacher walks an etree tree node-by-node, including text
// content interleaved with elements.
package xmldom

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/koreader/crengine-sub001/domid"
	"github.com/koreader/crengine-sub001/style"
)

// Doc wraps one parsed etree.Document plus the name interner and
// per-element pseudo-class cache the style engine needs (§6.1). Caches are
// keyed by the underlying etree node's pointer identity so repeated
// traversals (Parent/FirstChild/etc. each return a fresh wrapper value)
// still share one cache per node.
type Doc struct {
	Root     *etree.Element
	Interner domid.Interner

	elemCache map[*etree.Element]*style.PseudoCache
	textCache map[*etree.CharData]*style.PseudoCache
}

// NewDoc wraps root (typically doc.Root().ChildElements()[0] of a parsed
// etree.Document) for style matching, using interner for element/attribute
// name ids. A fresh domid.MapInterner is used if interner is nil.
func NewDoc(root *etree.Element, interner domid.Interner) *Doc {
	if interner == nil {
		interner = domid.NewMapInterner()
	}
	return &Doc{
		Root:      root,
		Interner:  interner,
		elemCache: make(map[*etree.Element]*style.PseudoCache),
		textCache: make(map[*etree.CharData]*style.PseudoCache),
	}
}

// RootNode returns the style.Node view of the document's root element.
func (d *Doc) RootNode() style.Node {
	return &elemNode{doc: d, el: d.Root}
}

func (d *Doc) elemCacheFor(el *etree.Element) *style.PseudoCache {
	c, ok := d.elemCache[el]
	if !ok {
		c = &style.PseudoCache{}
		d.elemCache[el] = c
	}
	return c
}

func (d *Doc) textCacheFor(cd *etree.CharData) *style.PseudoCache {
	c, ok := d.textCache[cd]
	if !ok {
		c = &style.PseudoCache{}
		d.textCache[cd] = c
	}
	return c
}

var (
	_ style.Node = (*elemNode)(nil)
	_ style.Node = (*textNode)(nil)
)

// elemNode is the style.Node view of one *etree.Element.
type elemNode struct {
	doc *Doc
	el  *etree.Element
}

// textNode is the style.Node view of one *etree.CharData run.
type textNode struct {
	doc    *Doc
	cd     *etree.CharData
	parent *etree.Element
}

func (n *elemNode) ElementNameID() domid.ElementNameID {
	return n.doc.Interner.InternElementName(n.el.Tag)
}

func (n *elemNode) IsText() bool { return false }

// IsRoot reports whether el is the document's root element; the
// etree.Document itself is an unnamed element above the root.
func (n *elemNode) IsRoot() bool {
	p := n.el.Parent()
	return p == nil || (p.Parent() == nil && p.Tag == "")
}

// IsBoxingWrapper reports whether el is one of the synthetic box elements
// the rendering tree inserts around anonymous runs (§6.1's boxing-wrapper
// note); the tag name alone decides.
func (n *elemNode) IsBoxingWrapper() bool {
	switch n.el.Tag {
	case "autoBoxing", "tabularBox", "rubyBox", "floatBox", "inlineBox", "mathBox":
		return true
	default:
		return false
	}
}

// DirAttr lets style.evalDir resolve :dir() without its own attribute-name
// interner, per style/pseudo.go's optional "DirAttr() (string, bool)" probe.
func (n *elemNode) DirAttr() (string, bool) {
	if a := n.el.SelectAttr("dir"); a != nil {
		return strings.ToLower(a.Value), true
	}
	return "", false
}

func (n *elemNode) Attribute(id domid.AttrNameID) (string, bool) {
	name := n.doc.Interner.AttrName(id)
	if name == "" {
		return "", false
	}
	if a := n.el.SelectAttr(name); a != nil {
		return a.Value, true
	}
	return "", false
}

func (n *elemNode) HasAttribute(id domid.AttrNameID) bool {
	_, ok := n.Attribute(id)
	return ok
}

func (n *elemNode) HasClass(name string) bool {
	classes := n.el.SelectAttrValue("class", "")
	for _, c := range strings.Fields(classes) {
		if c == name {
			return true
		}
	}
	return false
}

func (n *elemNode) ID() string { return n.el.SelectAttrValue("id", "") }

func (n *elemNode) Parent() style.Node {
	p := n.el.Parent()
	if p == nil {
		return nil
	}
	return &elemNode{doc: n.doc, el: p}
}

func (n *elemNode) PrevSibling() style.Node { return siblingOf(n.doc, n.el.Parent(), n.el, -1) }
func (n *elemNode) NextSibling() style.Node { return siblingOf(n.doc, n.el.Parent(), n.el, 1) }

func (n *elemNode) FirstChild() style.Node {
	for _, tok := range n.el.Child {
		if node := wrap(n.doc, tok, n.el); node != nil {
			return node
		}
	}
	return nil
}

func (n *elemNode) Cache() *style.PseudoCache { return n.doc.elemCacheFor(n.el) }

func (n *textNode) ElementNameID() domid.ElementNameID { return domid.UniversalID }
func (n *textNode) IsText() bool                       { return true }
func (n *textNode) IsRoot() bool                        { return false }
func (n *textNode) IsBoxingWrapper() bool                { return false }
func (n *textNode) Attribute(domid.AttrNameID) (string, bool) { return "", false }
func (n *textNode) HasAttribute(domid.AttrNameID) bool        { return false }
func (n *textNode) HasClass(string) bool                      { return false }
func (n *textNode) ID() string                                { return "" }

func (n *textNode) Parent() style.Node {
	if n.parent == nil {
		return nil
	}
	return &elemNode{doc: n.doc, el: n.parent}
}

func (n *textNode) PrevSibling() style.Node { return siblingOf(n.doc, n.parent, n.cd, -1) }
func (n *textNode) NextSibling() style.Node { return siblingOf(n.doc, n.parent, n.cd, 1) }
func (n *textNode) FirstChild() style.Node  { return nil }

func (n *textNode) Cache() *style.PseudoCache { return n.doc.textCacheFor(n.cd) }

// Text returns the character data this text node carries, for callers that
// need the underlying run content rather than a style view of it.
func (n *textNode) Text() string { return n.cd.Data }

// wrap converts one etree.Token into its style.Node view. Comments,
// processing instructions and directives are not addressable DOM nodes and
// wrap returns nil for them, matching extractAllText's type-switch that
// only recognises *etree.CharData and *etree.Element.
func wrap(doc *Doc, tok etree.Token, parent *etree.Element) style.Node {
	switch t := tok.(type) {
	case *etree.Element:
		return &elemNode{doc: doc, el: t}
	case *etree.CharData:
		return &textNode{doc: doc, cd: t, parent: parent}
	default:
		return nil
	}
}

// siblingOf finds self among parent's children (filtering out
// non-addressable tokens the same way wrap does) and returns the style.Node
// dir positions away (-1 previous, +1 next), or nil past either end.
func siblingOf(doc *Doc, parent *etree.Element, self etree.Token, dir int) style.Node {
	if parent == nil {
		return nil
	}
	var addressable []etree.Token
	selfIdx := -1
	for _, tok := range parent.Child {
		switch tok.(type) {
		case *etree.Element, *etree.CharData:
			if tok == self {
				selfIdx = len(addressable)
			}
			addressable = append(addressable, tok)
		}
	}
	if selfIdx < 0 {
		return nil
	}
	want := selfIdx + dir
	if want < 0 || want >= len(addressable) {
		return nil
	}
	return wrap(doc, addressable[want], parent)
}
