// Package domid defines the small set of identifier types and the name
// interning interface shared by the selector compiler (C4) and the DOM node
// interface the match engine (C7) consumes (§6.1): "intern an element or
// attribute name to an id". Keeping these in their own package lets
// selector and style share the ids without either importing the other.
package domid

// ElementNameID identifies an interned element name. 0 is reserved for the
// universal selector / "no specific element name" per §3.
type ElementNameID int32

// UniversalID is the reserved element-name id for the universal selector.
const UniversalID ElementNameID = 0

// AttrNameID identifies an interned attribute name.
type AttrNameID int32

// Interner is the document-level name-interning service required by §6.1.
type Interner interface {
	InternElementName(name string) ElementNameID
	InternAttrName(name string) AttrNameID
	ElementName(id ElementNameID) string
	AttrName(id AttrNameID) string
}
