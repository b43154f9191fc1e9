package style_test

import (
	"testing"

	"github.com/beevik/etree"

	"github.com/koreader/crengine-sub001/cssdoc"
	"github.com/koreader/crengine-sub001/decl"
	"github.com/koreader/crengine-sub001/domid"
	"github.com/koreader/crengine-sub001/style"
	"github.com/koreader/crengine-sub001/stylesheet"
	"github.com/koreader/crengine-sub001/xmldom"
)

func compile(t *testing.T, interner domid.Interner, css string) *stylesheet.Store {
	t.Helper()
	store := stylesheet.NewStore(nil)
	c := cssdoc.NewCompiler(nil, interner, cssdoc.Options{})
	c.Compile([]byte(css), store)
	return store
}

// TestMatch_DescendantCombinator covers S2-style ancestor matching: "ul li"
// must match an <li> nested anywhere under a <ul>, not just a direct child.
func TestMatch_DescendantCombinator(t *testing.T) {
	interner := domid.NewMapInterner()
	doc := etree.NewDocument()
	ul := doc.CreateElement("ul")
	section := ul.CreateElement("section")
	li := section.CreateElement("li")

	store := compile(t, interner, "ul li { color: red; }")
	liNode := xmldom.NewDoc(li, interner).RootNode()
	cs := style.NewComputedStyle()
	style.MatchNode(store, liNode, cs, style.ApplyContext{})

	if cs.Color.IsSentinel() {
		t.Error("expected 'ul li' to match an li nested two levels under ul")
	}
}

func TestMatch_ChildCombinatorRejectsGrandchild(t *testing.T) {
	interner := domid.NewMapInterner()
	doc := etree.NewDocument()
	ul := doc.CreateElement("ul")
	section := ul.CreateElement("section")
	li := section.CreateElement("li")

	store := compile(t, interner, "ul > li { color: red; }")
	liNode := xmldom.NewDoc(li, interner).RootNode()
	cs := style.NewComputedStyle()
	style.MatchNode(store, liNode, cs, style.ApplyContext{})

	if !cs.Color.IsSentinel() {
		t.Error("'ul > li' must not match an li two levels under ul")
	}
}

func TestMatch_AdjacentSibling(t *testing.T) {
	interner := domid.NewMapInterner()
	doc := etree.NewDocument()
	body := doc.CreateElement("body")
	body.CreateElement("h1")
	p := body.CreateElement("p")

	store := compile(t, interner, "h1 + p { color: red; }")
	pNode := xmldom.NewDoc(p, interner).RootNode()
	cs := style.NewComputedStyle()
	style.MatchNode(store, pNode, cs, style.ApplyContext{})

	if cs.Color.IsSentinel() {
		t.Error("expected 'h1 + p' to match a p immediately following an h1")
	}
}

func TestMatch_FirstChildPseudoClass(t *testing.T) {
	interner := domid.NewMapInterner()
	doc := etree.NewDocument()
	ul := doc.CreateElement("ul")
	first := ul.CreateElement("li")
	second := ul.CreateElement("li")

	store := compile(t, interner, "li:first-child { color: red; }")

	firstCS := style.NewComputedStyle()
	style.MatchNode(store, xmldom.NewDoc(first, interner).RootNode(), firstCS, style.ApplyContext{})
	if firstCS.Color.IsSentinel() {
		t.Error("expected the first li to match :first-child")
	}

	secondCS := style.NewComputedStyle()
	style.MatchNode(store, xmldom.NewDoc(second, interner).RootNode(), secondCS, style.ApplyContext{})
	if !secondCS.Color.IsSentinel() {
		t.Error("the second li must not match :first-child")
	}
}

func TestMatch_NthChild(t *testing.T) {
	interner := domid.NewMapInterner()
	doc := etree.NewDocument()
	ul := doc.CreateElement("ul")
	var items []*etree.Element
	for i := 0; i < 4; i++ {
		items = append(items, ul.CreateElement("li"))
	}

	store := compile(t, interner, "li:nth-child(2n+1) { color: red; }")
	for i, li := range items {
		cs := style.NewComputedStyle()
		style.MatchNode(store, xmldom.NewDoc(li, interner).RootNode(), cs, style.ApplyContext{})
		want := i%2 == 0 // 1-based odd positions: index 0, 2 (positions 1,3)
		got := !cs.Color.IsSentinel()
		if got != want {
			t.Errorf("li[%d]: matched=%v, want %v", i, got, want)
		}
	}
}

// TestMatch_AttributeSelectors exercises several attribute-selector kinds
// against a real xmldom element.
func TestMatch_AttributeSelectors(t *testing.T) {
	interner := domid.NewMapInterner()
	doc := etree.NewDocument()
	p := doc.CreateElement("p")
	p.CreateAttr("class", "note warning")
	p.CreateAttr("lang", "en-US")
	p.CreateAttr("href", "https://example.com/x.html")

	node := xmldom.NewDoc(p, interner).RootNode()

	cases := []struct {
		css      string
		expected bool
	}{
		{`[class~="warning"] { color: red; }`, true},
		{`[class~="missing"] { color: red; }`, false},
		{`[lang|="en"] { color: red; }`, true},
		{`[href^="https"] { color: red; }`, true},
		{`[href$=".html"] { color: red; }`, true},
		{`[href*="example"] { color: red; }`, true},
		{`.note.warning { color: red; }`, true},
	}
	for _, c := range cases {
		store := compile(t, interner, c.css)
		cs := style.NewComputedStyle()
		style.MatchNode(store, node, cs, style.ApplyContext{})
		got := !cs.Color.IsSentinel()
		if got != c.expected {
			t.Errorf("%q: matched=%v, want %v", c.css, got, c.expected)
		}
	}
}

func TestMatch_Not(t *testing.T) {
	interner := domid.NewMapInterner()
	doc := etree.NewDocument()
	p := doc.CreateElement("p")
	p.CreateAttr("class", "skip")
	q := doc.CreateElement("p")

	store := compile(t, interner, "p:not(.skip) { color: red; }")

	csP := style.NewComputedStyle()
	style.MatchNode(store, xmldom.NewDoc(p, interner).RootNode(), csP, style.ApplyContext{})
	if !csP.Color.IsSentinel() {
		t.Error("p.skip must not match p:not(.skip)")
	}

	csQ := style.NewComputedStyle()
	style.MatchNode(store, xmldom.NewDoc(q, interner).RootNode(), csQ, style.ApplyContext{})
	if csQ.Color.IsSentinel() {
		t.Error("plain p must match p:not(.skip)")
	}
}

// TestCascade_ImportantBeatsLaterNonImportant covers Testable Property 5:
// once a property carries an author !important value, a later
// lower-specificity or later-source non-important declaration must not
// overwrite it.
func TestCascade_ImportantBeatsLaterNonImportant(t *testing.T) {
	interner := domid.NewMapInterner()
	doc := etree.NewDocument()
	p := doc.CreateElement("p")
	p.CreateAttr("id", "x")

	store := compile(t, interner, `
		#x { color: red !important; }
		p { color: blue; }
	`)
	node := xmldom.NewDoc(p, interner).RootNode()
	cs := style.NewComputedStyle()
	style.MatchNode(store, node, cs, style.ApplyContext{})

	r, _, _, _ := cs.Color.Color.RGBA()
	if r != 0xff {
		t.Errorf("expected the !important red to win, got RGBA r=%#x", r)
	}
}

// TestMatch_IDToleratesFragmentPrefix covers §4.7's fragment-id scoping:
// an engine-injected "_doc_fragment_N_" prefix on the node's id must not
// stop an authored "#x" selector from matching.
func TestMatch_IDToleratesFragmentPrefix(t *testing.T) {
	interner := domid.NewMapInterner()
	doc := etree.NewDocument()
	p := doc.CreateElement("p")
	p.CreateAttr("id", "_doc_fragment_3_x")

	store := compile(t, interner, "#x { color: red; }")
	node := xmldom.NewDoc(p, interner).RootNode()
	cs := style.NewComputedStyle()
	style.MatchNode(store, node, cs, style.ApplyContext{})

	if cs.Color.IsSentinel() {
		t.Error("expected '#x' to match an id scoped with a _doc_fragment_N_ prefix")
	}
}

func TestInheritFrom_SkipsDirectlySetProperties(t *testing.T) {
	parent := style.NewComputedStyle()
	applyDecl(t, parent, "color: red;")

	child := style.NewComputedStyle()
	applyDecl(t, child, "color: blue;")
	style.InheritFrom(child, parent)

	r, _, _, _ := child.Color.Color.RGBA()
	if r != 0 {
		t.Error("a directly-set color must survive InheritFrom unchanged")
	}
}

func TestInheritFrom_InheritsUnsetProperty(t *testing.T) {
	parent := style.NewComputedStyle()
	applyDecl(t, parent, "font-style: italic;")

	child := style.NewComputedStyle()
	style.InheritFrom(child, parent)

	if child.FontStyle != "italic" {
		t.Errorf("FontStyle = %q, want italic (inherited)", child.FontStyle)
	}
}

func applyDecl(t *testing.T, cs *style.ComputedStyle, raw string) {
	t.Helper()
	d, _, ok := decl.CompileBlock(raw, decl.BlockContext{})
	if !ok {
		t.Fatalf("CompileBlock(%q) failed", raw)
	}
	style.ApplyDeclaration(cs, d, style.PseudoElemNone, style.ApplyContext{})
}
