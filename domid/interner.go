package domid

// MapInterner is a straightforward bidirectional string<->id interner. A
// document owns exactly one of these for its lifetime (§6.1); it is not
// safe for concurrent use, matching the rest of the style/match machinery
// which assumes single-threaded document processing.
//
// No third-party library fits this concern any better than a plain map: it
// is a closed, two-field bidirectional lookup with no parsing, encoding, or
// concurrency surface for an ecosystem package to add value to.
type MapInterner struct {
	elemByName map[string]ElementNameID
	elemByID   []string
	attrByName map[string]AttrNameID
	attrByID   []string
}

// NewMapInterner returns an empty interner with id 0 reserved for the
// universal element name (§3).
func NewMapInterner() *MapInterner {
	return &MapInterner{
		elemByName: map[string]ElementNameID{"*": UniversalID},
		elemByID:   []string{"*"},
		attrByName: make(map[string]AttrNameID),
	}
}

func (m *MapInterner) InternElementName(name string) ElementNameID {
	if name == "" {
		name = "*"
	}
	if id, ok := m.elemByName[name]; ok {
		return id
	}
	id := ElementNameID(len(m.elemByID))
	m.elemByID = append(m.elemByID, name)
	m.elemByName[name] = id
	return id
}

func (m *MapInterner) InternAttrName(name string) AttrNameID {
	if id, ok := m.attrByName[name]; ok {
		return id
	}
	id := AttrNameID(len(m.attrByID))
	m.attrByID = append(m.attrByID, name)
	m.attrByName[name] = id
	return id
}

func (m *MapInterner) ElementName(id ElementNameID) string {
	if int(id) < 0 || int(id) >= len(m.elemByID) {
		return ""
	}
	return m.elemByID[id]
}

func (m *MapInterner) AttrName(id AttrNameID) string {
	if int(id) < 0 || int(id) >= len(m.attrByID) {
		return ""
	}
	return m.attrByID[id]
}
