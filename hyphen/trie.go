package hyphen

import (
	"io"
	"strings"
	"unicode/utf8"
)

// trie is a rune-indexed prefix tree storing an arbitrary value at each
// member string's leaf node, adapted from content/text/trie.go so the
// pattern/exception lookups below share its anchored-substring scan.
type trie struct {
	leaf     bool
	value    any
	children map[rune]*trie
}

func newTrie() *trie {
	return &trie{children: make(map[rune]*trie)}
}

func (p *trie) addRunes(r io.RuneReader) *trie {
	sym, _, err := r.ReadRune()
	if err != nil {
		p.leaf = true
		return p
	}
	n := p.children[sym]
	if n == nil {
		n = newTrie()
		p.children[sym] = n
	}
	return n.addRunes(r)
}

// allSubstringsAndValues returns every anchored prefix of s that is a
// member of the trie, paired with its stored value, walking rune by rune
// from the start of s.
func (p *trie) allSubstringsAndValues(s string) ([]string, []any) {
	var sv []string
	var vv []any
	for pos, r := range s {
		child, ok := p.children[r]
		if !ok {
			break
		}
		if child.leaf {
			sv = append(sv, s[0:pos+utf8.RuneLen(r)])
			vv = append(vv, child.value)
		}
		p = child
	}
	return sv, vv
}
