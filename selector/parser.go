package selector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/koreader/crengine-sub001/domid"
	"github.com/koreader/crengine-sub001/lex"
)

// AliasFn rewrites an element name at parse time, used to send "html" to
// the engine's fragment-root element name for EPUB/CHM documents (§4.4).
type AliasFn func(name string) string

// ParseList splits a comma-separated selector list (the text up to but not
// including '{') and compiles each member with Parse. A member that fails
// to parse is dropped and its error appended to errs, matching the
// "recoverable selector error" policy of §7: one bad selector in a list
// never aborts the rest of the list.
func ParseList(raw string, interner domid.Interner, alias AliasFn) (sels []*Selector, errs []error) {
	for _, part := range splitTopLevelCommas(raw) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sel, err := Parse(part, interner, alias)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sels = append(sels, sel)
	}
	return sels, errs
}

func splitTopLevelCommas(raw string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if quote != 0 {
			if c == '\\' && i+1 < len(raw) {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, raw[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, raw[start:])
	return parts
}

// Parse compiles a single selector (no top-level commas) into a Selector.
func Parse(raw string, interner domid.Interner, alias AliasFn) (*Selector, error) {
	p := &parser{src: raw, interner: interner, alias: alias}
	chain, pseudoElem, err := p.parseChain()
	if err != nil {
		return nil, err
	}
	// Extra-weight (-cr-hint: late) is applied after parsing via
	// Selector.SetExtraWeight, once the declaration block is known.
	spec := computeSpecificity(chain, pseudoElem, false)
	return &Selector{
		Chain:         chain,
		PseudoElement: pseudoElem,
		Specificity:   spec,
		Provisional:   p.provisional,
		Source:        raw,
	}, nil
}

type parser struct {
	src         string
	pos         int
	interner    domid.Interner
	alias       AliasFn
	provisional bool
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() (skipped bool) {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
		skipped = true
	}
	return skipped
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

// parseChain parses the whole selector text into a right-to-left linked
// Compound chain rooted at the rightmost compound, and returns any
// pseudo-element trailing the last compound.
func (p *parser) parseChain() (*Compound, PseudoElement, error) {
	var compounds []*Compound
	var combinatorsBefore []Combinator // combinatorsBefore[i] connects compounds[i-1] to compounds[i]

	for {
		hadSpace := p.skipSpace()
		if p.pos >= len(p.src) {
			break
		}
		c := p.peek()
		var comb Combinator
		switch c {
		case '>':
			p.pos++
			p.skipSpace()
			comb = CombinatorChild
		case '+':
			p.pos++
			p.skipSpace()
			comb = CombinatorAdjacent
		case '~':
			p.pos++
			p.skipSpace()
			comb = CombinatorSibling
		default:
			if len(compounds) > 0 && hadSpace {
				comb = CombinatorDescendant
			} else {
				comb = CombinatorNone
			}
		}

		compound, pe, err := p.parseCompound()
		if err != nil {
			return nil, PseudoElemNone, err
		}
		compounds = append(compounds, compound)
		combinatorsBefore = append(combinatorsBefore, comb)

		if pe != PseudoElemNone {
			if p.pos < len(p.src) {
				return nil, PseudoElemNone, fmt.Errorf("selector: pseudo-element must be last: %q", p.src)
			}
			// Link and return with this pseudo-element.
			root := p.link(compounds, combinatorsBefore)
			return root, pe, nil
		}
		if p.pos >= len(p.src) {
			break
		}
	}

	if len(compounds) == 0 {
		return nil, PseudoElemNone, fmt.Errorf("selector: empty selector")
	}
	return p.link(compounds, combinatorsBefore), PseudoElemNone, nil
}

// link assembles parsed compounds (in left-to-right text order) into the
// right-to-left chain: the last compound becomes the root, its Combinator
// is the one that introduced it, and its Left points at the previous
// compound.
func (p *parser) link(compounds []*Compound, combBefore []Combinator) *Compound {
	for i := 1; i < len(compounds); i++ {
		compounds[i].Combinator = combBefore[i]
		compounds[i].Left = compounds[i-1]
	}
	return compounds[len(compounds)-1]
}

// parseCompound parses one compound selector: optional element name
// followed by class/id/attr/pseudo-class suffixes, and an optional trailing
// pseudo-element.
func (p *parser) parseCompound() (*Compound, PseudoElement, error) {
	comp := &Compound{ElementName: domid.UniversalID}

	if p.peek() == '*' {
		p.pos++
	} else if isIdentStartByte(p.peek()) {
		name := p.readIdent()
		if p.alias != nil {
			name = p.alias(name)
		}
		comp.ElementName = p.interner.InternElementName(strings.ToLower(name))
	}

	for {
		switch p.peek() {
		case '.':
			p.pos++
			name := p.readIdent()
			if name == "" {
				return nil, PseudoElemNone, fmt.Errorf("selector: empty class name")
			}
			comp.Rules = append(comp.Rules, Rule{Kind: KindClassContains, Str: name})
		case '#':
			p.pos++
			name := p.readIdent()
			if name == "" {
				return nil, PseudoElemNone, fmt.Errorf("selector: empty id")
			}
			comp.Rules = append(comp.Rules, Rule{Kind: KindIDEquals, Str: name})
		case '[':
			r, err := p.parseAttr()
			if err != nil {
				return nil, PseudoElemNone, err
			}
			comp.Rules = append(comp.Rules, r)
		case ':':
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == ':' {
				p.pos += 2
				name := strings.ToLower(p.readIdent())
				switch name {
				case "before":
					return comp, PseudoElemBefore, nil
				case "after":
					return comp, PseudoElemAfter, nil
				default:
					return nil, PseudoElemNone, fmt.Errorf("selector: unsupported pseudo-element %q", name)
				}
			}
			p.pos++
			name := strings.ToLower(p.readIdent())
			// Legacy single-colon before/after.
			if name == "before" {
				return comp, PseudoElemBefore, nil
			}
			if name == "after" {
				return comp, PseudoElemAfter, nil
			}
			if name == "not" && p.peek() == '(' {
				sub, err := p.parseNotArg()
				if err != nil {
					return nil, PseudoElemNone, err
				}
				comp.Rules = append(comp.Rules, Rule{Kind: KindNot, Not: sub})
				continue
			}
			rule, err := p.parsePseudoClass(name)
			if err != nil {
				return nil, PseudoElemNone, err
			}
			if rule.Pseudo.RequiresFullDOM() {
				p.provisional = true
			}
			comp.Rules = append(comp.Rules, rule)
		default:
			return comp, PseudoElemNone, nil
		}
	}
}

func (p *parser) parseNotArg() ([]*Compound, error) {
	// p.peek() == '('
	p.pos++
	start := p.pos
	depth := 1
	for p.pos < len(p.src) && depth > 0 {
		switch p.src[p.pos] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth > 0 {
			p.pos++
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("selector: unterminated :not()")
	}
	inner := p.src[start:p.pos]
	p.pos++ // consume ')'
	var alts []*Compound
	for _, part := range splitTopLevelCommas(inner) {
		sub := &parser{src: strings.TrimSpace(part), interner: p.interner, alias: p.alias}
		chain, _, err := sub.parseChain()
		if err != nil {
			return nil, fmt.Errorf("selector: bad :not() argument: %w", err)
		}
		if sub.provisional {
			p.provisional = true
		}
		alts = append(alts, chain)
	}
	return alts, nil
}

var pseudoClassNames = map[string]PseudoClass{
	"root": PCRoot, "first-child": PCFirstChild, "first-of-type": PCFirstOfType,
	"last-child": PCLastChild, "last-of-type": PCLastOfType,
	"only-child": PCOnlyChild, "only-of-type": PCOnlyOfType, "empty": PCEmpty,
}

func (p *parser) parsePseudoClass(name string) (Rule, error) {
	switch name {
	case "dir":
		arg, err := p.readParenArg()
		if err != nil {
			return Rule{}, err
		}
		arg = strings.ToLower(strings.TrimSpace(arg))
		if arg != "ltr" && arg != "rtl" {
			return Rule{}, fmt.Errorf("selector: :dir() expects ltr|rtl, got %q", arg)
		}
		return Rule{Kind: KindPseudoClass, Pseudo: PCDir, Str: arg}, nil
	case "nth-child", "nth-of-type", "nth-last-child", "nth-last-of-type":
		arg, err := p.readParenArg()
		if err != nil {
			return Rule{}, err
		}
		nth, err := parseNth(arg)
		if err != nil {
			return Rule{}, err
		}
		var pc PseudoClass
		switch name {
		case "nth-child":
			pc = PCNthChild
		case "nth-of-type":
			pc = PCNthOfType
		case "nth-last-child":
			pc = PCNthLastChild
		case "nth-last-of-type":
			pc = PCNthLastOfType
		}
		return Rule{Kind: KindPseudoClass, Pseudo: pc, Nth: nth}, nil
	}
	if pc, ok := pseudoClassNames[name]; ok {
		return Rule{Kind: KindPseudoClass, Pseudo: pc}, nil
	}
	return Rule{}, fmt.Errorf("selector: unsupported pseudo-class %q", name)
}

func (p *parser) readParenArg() (string, error) {
	if p.peek() != '(' {
		return "", fmt.Errorf("selector: expected '(' after pseudo-class name")
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ')' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return "", fmt.Errorf("selector: unterminated pseudo-class argument")
	}
	arg := p.src[start:p.pos]
	p.pos++ // consume ')'
	return arg, nil
}

// parseNth parses an An+B expression, "even", or "odd" into NthArgs.
func parseNth(arg string) (NthArgs, error) {
	arg = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(arg), " ", ""))
	switch arg {
	case "even":
		return NthArgs{Negative: false, Step: 2, Offset: 0}, nil
	case "odd":
		return NthArgs{Negative: false, Step: 2, Offset: 1}, nil
	}
	nIdx := strings.IndexByte(arg, 'n')
	if nIdx < 0 {
		// Plain integer B.
		b, err := strconv.Atoi(arg)
		if err != nil {
			return NthArgs{}, fmt.Errorf("selector: bad nth argument %q", arg)
		}
		return NthArgs{Step: 0, Offset: b}, nil
	}
	aPart := arg[:nIdx]
	bPart := strings.TrimPrefix(arg[nIdx+1:], "+")
	neg := false
	a := 1
	switch aPart {
	case "", "+":
	case "-":
		neg = true
	default:
		v, err := strconv.Atoi(aPart)
		if err != nil {
			return NthArgs{}, fmt.Errorf("selector: bad nth coefficient %q", aPart)
		}
		if v < 0 {
			neg = true
			v = -v
		}
		a = v
	}
	b := 0
	if bPart != "" {
		negB := strings.HasPrefix(bPart, "-")
		v, err := strconv.Atoi(strings.TrimPrefix(bPart, "-"))
		if err != nil {
			return NthArgs{}, fmt.Errorf("selector: bad nth offset %q", bPart)
		}
		if negB {
			v = -v
		}
		b = v
	}
	return NthArgs{Negative: neg, Step: a, Offset: b}, nil
}

var attrOps = []string{"~=", "|=", "^=", "$=", "*=", "="}

func (p *parser) parseAttr() (Rule, error) {
	// p.peek() == '['
	p.pos++
	p.skipSpace()
	name := p.readIdent()
	if name == "" {
		return Rule{}, fmt.Errorf("selector: empty attribute name")
	}
	p.skipSpace()

	if p.peek() == ']' {
		p.pos++
		return Rule{Kind: KindAttrExists, AttrName: p.interner.InternAttrName(strings.ToLower(name))}, nil
	}

	var op string
	for _, cand := range attrOps {
		if strings.HasPrefix(p.src[p.pos:], cand) {
			op = cand
			break
		}
	}
	if op == "" {
		return Rule{}, fmt.Errorf("selector: bad attribute selector near %q", p.src[p.pos:])
	}
	p.pos += len(op)
	p.skipSpace()

	var val string
	if p.peek() == '"' || p.peek() == '\'' {
		q := p.peek()
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != q {
			if p.src[p.pos] == '\\' && p.pos+1 < len(p.src) {
				p.pos++
			}
			p.pos++
		}
		val = p.src[start:p.pos]
		if p.pos < len(p.src) {
			p.pos++ // consume closing quote
		}
	} else {
		val = p.readIdent()
	}
	p.skipSpace()

	ci := false
	if p.peek() == 'i' || p.peek() == 'I' {
		ci = true
		p.pos++
		p.skipSpace()
	}
	if p.peek() != ']' {
		return Rule{}, fmt.Errorf("selector: unterminated attribute selector")
	}
	p.pos++

	if ci {
		val = strings.ToLower(val)
	}
	attrID := p.interner.InternAttrName(strings.ToLower(name))
	kind := attrOpKind(op, ci)
	return Rule{Kind: kind, AttrName: attrID, Str: val}, nil
}

func attrOpKind(op string, ci bool) Kind {
	switch op {
	case "=":
		if ci {
			return KindAttrEqCI
		}
		return KindAttrEq
	case "~=":
		if ci {
			return KindAttrHasCI
		}
		return KindAttrHas
	case "|=":
		if ci {
			return KindAttrDashPrefixCI
		}
		return KindAttrDashPrefix
	case "^=":
		if ci {
			return KindAttrPrefixCI
		}
		return KindAttrPrefix
	case "$=":
		if ci {
			return KindAttrSuffixCI
		}
		return KindAttrSuffix
	case "*=":
		if ci {
			return KindAttrSubstringCI
		}
		return KindAttrSubstring
	}
	return KindAttrEq
}

func isIdentStartByte(c byte) bool {
	return lex.IsIdentStart(rune(c))
}

func (p *parser) readIdent() string {
	start := p.pos
	for p.pos < len(p.src) && lex.IsIdentPart(rune(p.src[p.pos])) {
		p.pos++
	}
	return p.src[start:p.pos]
}
