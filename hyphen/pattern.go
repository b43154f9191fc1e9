package hyphen

import (
	"strings"
	"unicode"
)

// addPatternString stores one Liang pattern (e.g. "hy3phe2n5a4t2io2n") in
// the trie: the digits between letters are hyphenation-preference scores,
// an implied zero fills any gap, and the value recorded at the leaf is the
// []int score vector for the pure (digit-stripped) substring. Adapted from
// content/text/hyphen_trie.go's addPatternString.
func (p *trie) addPatternString(s string) {
	var v []int
	const zero = '0'

	runes := []rune(s)
	for i, sym := range runes {
		if unicode.IsDigit(sym) {
			if i == 0 {
				v = append(v, int(sym-zero))
			}
			continue
		}
		if i < len(runes)-1 && unicode.IsDigit(runes[i+1]) {
			v = append(v, int(runes[i+1]-zero))
		} else {
			v = append(v, 0)
		}
	}

	pure := strings.Map(func(sym rune) rune {
		if unicode.IsDigit(sym) {
			return -1
		}
		return sym
	}, s)

	leaf := p.addRunes(strings.NewReader(pure))
	if leaf == nil {
		return
	}
	leaf.value = v
}
