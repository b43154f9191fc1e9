package atrule

import (
	"strings"

	"github.com/koreader/crengine-sub001/decl"
)

// ParseSupportsCondition parses an @supports condition with arbitrary
// and/or/not nesting over parenthesised groups (§4.5), via plain
// recursive descent: parseOr -> parseAnd -> parseUnary -> parseAtom.
func ParseSupportsCondition(raw string) *Cond {
	p := &condParser{src: raw}
	p.skipSpace()
	c := p.parseOr()
	return c
}

type condParser struct {
	src string
	pos int
}

func (p *condParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *condParser) peekWord(w string) bool {
	p.skipSpace()
	rest := p.src[p.pos:]
	if len(rest) < len(w) {
		return false
	}
	if !strings.EqualFold(rest[:len(w)], w) {
		return false
	}
	after := p.pos + len(w)
	if after < len(p.src) {
		c := p.src[after]
		if c != ' ' && c != '\t' && c != '(' {
			return false
		}
	}
	return true
}

func (p *condParser) parseOr() *Cond {
	left := p.parseAnd()
	for {
		p.skipSpace()
		if !p.peekWord("or") {
			return left
		}
		p.pos += 2
		right := p.parseAnd()
		left = &Cond{Op: OpOr, Children: []*Cond{left, right}}
	}
}

func (p *condParser) parseAnd() *Cond {
	left := p.parseUnary()
	for {
		p.skipSpace()
		if !p.peekWord("and") {
			return left
		}
		p.pos += 3
		right := p.parseUnary()
		left = &Cond{Op: OpAnd, Children: []*Cond{left, right}}
	}
}

func (p *condParser) parseUnary() *Cond {
	p.skipSpace()
	if p.peekWord("not") {
		p.pos += 3
		inner := p.parseUnary()
		return &Cond{Op: OpNot, Children: []*Cond{inner}}
	}
	return p.parseAtom()
}

func (p *condParser) parseAtom() *Cond {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return &Cond{Op: OpLeaf}
	}
	start := p.pos + 1
	depth := 1
	i := start
	for i < len(p.src) && depth > 0 {
		switch p.src[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 {
			break
		}
		i++
	}
	inner := p.src[start:i]
	p.pos = i + 1

	// A group whose inner text itself starts a nested boolean expression
	// (contains a top-level and/or/not or another parenthesis) recurses;
	// otherwise it is a leaf feature or declaration test.
	trimmed := strings.TrimSpace(inner)
	if strings.HasPrefix(trimmed, "(") || containsTopLevelKeyword(trimmed) {
		sub := &condParser{src: trimmed}
		return sub.parseOr()
	}
	return parseSupportsLeaf(trimmed)
}

func containsTopLevelKeyword(s string) bool {
	sub := &condParser{src: s}
	sub.skipSpace()
	return sub.peekWord("not")
}

// parseSupportsLeaf turns "display: flex" into a declaration leaf and a
// bare "(feature)" into a media-style leaf.
func parseSupportsLeaf(inner string) *Cond {
	name, val, found := strings.Cut(inner, ":")
	name = strings.ToLower(strings.TrimSpace(name))
	if !found {
		return &Cond{Op: OpLeaf, Feature: name}
	}
	return &Cond{Op: OpLeaf, Feature: name, Value: strings.TrimSpace(val)}
}

// SupportsOK evaluates an @supports leaf by feeding it into the
// declaration compiler's check mode: true iff the property is recognised
// and the value is fully consumed with nothing unsupported (§4.5).
func SupportsOK(prop, val string) bool {
	if val == "" {
		return false
	}
	var b decl.Builder
	return decl.CompileProperty(prop, val, false, &b)
}

// MatchesSupports evaluates a full @supports condition tree.
func (c *Cond) MatchesSupports() bool {
	return c.Evaluate(nil, SupportsOK)
}
