// Package lang implements the C8 language registry: per-tag TextLangCfg
// objects covering hyphenation method selection, quote pairs, line-break
// overrides and CJK width classification, grounded on
// convert/text/hyphenator.go's langMap tag-resolution chain (exact tag,
// mapped tag, base tag, mapped base tag, default) and
// original_source/crengine/include/textlang.h's TextLangCfg/cjk_type_t
// shapes.
package lang

import (
	"golang.org/x/text/language"
)

// LineBreakClass mirrors the small set of libunibreak line-break
// categories the engine actually overrides per-language (§4.8): most code
// points use the Unicode default and never appear here.
type LineBreakClass int

const (
	LBDefault LineBreakClass = iota
	LBOpening                // acts like an opening punctuation/quote
	LBClosing                // acts like a closing punctuation/quote
	LBGlue                   // never breaks before or after (non-breaking)
	LBAmbiguous              // resolved in context by a CharSubstitution function
)

// CJKType enumerates the ten CJK character categories used by the width
// adjustment table (§4.8, supplemented from textlang.h's cjk_type_t).
type CJKType int

const (
	CJKOther CJKType = iota
	CJKHanzi
	CJKHangul
	CJKHiragana
	CJKKatakana
	CJKFullwidthLatin
	CJKHalfwidthKana
	CJKPunctOpen
	CJKPunctClose
	CJKFullwidthSpace
	cjkTypeCount
)

// WidthTable is the 10x10 pairwise width-adjustment factor table: entry
// [a][b] is the spacing multiplier applied when a character of type a is
// immediately followed by one of type b.
type WidthTable [cjkTypeCount][cjkTypeCount]float64

// defaultWidthTable returns a table of all 1.0 (no adjustment) except: a
// half-space (0.5) for close->open, open->open and close->close
// punctuation pairs, and 0.0 between two fullwidth spaces. Pairs of a
// punctuation mark and an ideograph are not adjusted.
func defaultWidthTable() WidthTable {
	var t WidthTable
	for a := range t {
		for b := range t {
			t[a][b] = 1.0
		}
	}
	t[CJKPunctClose][CJKPunctOpen] = 0.5
	t[CJKPunctOpen][CJKPunctOpen] = 0.5
	t[CJKPunctClose][CJKPunctClose] = 0.5
	t[CJKFullwidthSpace][CJKFullwidthSpace] = 0.0
	return t
}

// CharSubstitutionFn remaps an ambiguous character's line-break class based
// on its surrounding context, consulted during line breaking (§4.8 point 4).
type CharSubstitutionFn func(r rune, prevIsSpace, nextIsSpace bool) LineBreakClass

// QuotePair is one level of opening/closing quotation marks.
type QuotePair struct {
	Open, Close rune
}

// TextLangCfg is the per-language-tag configuration object of §3: created
// once per tag and cached for the document's lifetime.
type TextLangCfg struct {
	Tag         language.Tag
	HyphMethodRef string // dictionary id consumed by the hyphen package

	quotes      []QuotePair // quotes[0] = level 1, quotes[1] = level 2, ...
	nestLevel   int         // 0 = no open quote emitted yet

	LineBreakOverrides map[rune]LineBreakClass
	CharSubstitution   CharSubstitutionFn
	CJKWidthTable      WidthTable

	IsJapanese  bool
	IsZhSC      bool
	IsZhTC      bool
	IsJaOrZh    bool

	DuplicateHyphenOnNextLine bool
}

// NextOpenQuote returns the opening mark for the current nesting level and
// advances the nesting counter, per §4.8's "Quote accessors mutate a
// nesting counter so alternating level-1/level-2 quotes are returned."
func (c *TextLangCfg) NextOpenQuote() rune {
	pair := c.quotePairAt(c.nestLevel)
	c.nestLevel++
	return pair.Open
}

// NextCloseQuote returns the closing mark for the most recently opened
// level and retreats the nesting counter.
func (c *TextLangCfg) NextCloseQuote() rune {
	if c.nestLevel > 0 {
		c.nestLevel--
	}
	pair := c.quotePairAt(c.nestLevel)
	return pair.Close
}

// ResetQuoteNesting restores the counter to the top level, called between
// unrelated paragraphs (S6).
func (c *TextLangCfg) ResetQuoteNesting() {
	c.nestLevel = 0
}

// WidthAdjustment returns the spacing multiplier this language's CJK
// width-adjustment table assigns when a character classified as prev is
// immediately followed by one classified as next (§4.8 point 5), for the
// text-shaping collaborator to apply between glyphs.
func (c *TextLangCfg) WidthAdjustment(prev, next rune) float64 {
	return c.CJKWidthTable[CJKTypeOf(prev)][CJKTypeOf(next)]
}

func (c *TextLangCfg) quotePairAt(level int) QuotePair {
	if len(c.quotes) == 0 {
		return QuotePair{Open: '"', Close: '"'}
	}
	if level >= len(c.quotes) {
		level = len(c.quotes) - 1
	}
	return c.quotes[level]
}
