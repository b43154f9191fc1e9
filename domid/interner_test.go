package domid_test

import (
	"testing"

	"github.com/koreader/crengine-sub001/domid"
)

func TestMapInterner_RoundTrip(t *testing.T) {
	m := domid.NewMapInterner()
	p := m.InternElementName("p")
	div := m.InternElementName("div")
	if p == div {
		t.Fatal("distinct names must get distinct ids")
	}
	if again := m.InternElementName("p"); again != p {
		t.Errorf("re-interning %q = %d, want %d", "p", again, p)
	}
	if m.ElementName(p) != "p" {
		t.Errorf("ElementName(%d) = %q, want p", p, m.ElementName(p))
	}
}

func TestMapInterner_UniversalReserved(t *testing.T) {
	m := domid.NewMapInterner()
	if id := m.InternElementName("*"); id != domid.UniversalID {
		t.Errorf("InternElementName(*) = %d, want %d", id, domid.UniversalID)
	}
	if id := m.InternElementName(""); id != domid.UniversalID {
		t.Errorf("InternElementName(\"\") = %d, want %d", id, domid.UniversalID)
	}
}

func TestMapInterner_Attrs(t *testing.T) {
	m := domid.NewMapInterner()
	a := m.InternAttrName("class")
	b := m.InternAttrName("id")
	if a == b {
		t.Fatal("distinct attr names must get distinct ids")
	}
	if m.AttrName(a) != "class" {
		t.Errorf("AttrName(%d) = %q, want class", a, m.AttrName(a))
	}
}

func TestMapInterner_UnknownIDReturnsEmpty(t *testing.T) {
	m := domid.NewMapInterner()
	if got := m.ElementName(domid.ElementNameID(99)); got != "" {
		t.Errorf("ElementName(99) = %q, want empty", got)
	}
	if got := m.AttrName(domid.AttrNameID(99)); got != "" {
		t.Errorf("AttrName(99) = %q, want empty", got)
	}
}
