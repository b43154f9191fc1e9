// Package hyphen implements the C9 hyphenation engine: TeX/Liang pattern
// dictionaries loaded through a host-supplied byte-stream loader, an
// algorithmic fallback, a soft-hyphen-only mode, and a user word list that
// short-circuits pattern matching, grounded on
// convert/text/hyphenator.go's trie-based hyph_string algorithm.
package hyphen

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
)

const softHyphen = '­'

// Mode selects how a word's break opportunities are produced (§4.9).
type Mode int

const (
	ModeOff Mode = iota
	ModeSoftHyphenOnly
	ModeAlgorithmic
	ModePattern
)

// Config carries the engine-wide knobs of §6.5, grouped into an explicit
// value per the "no process globals" design decision instead of living as
// package state.
type Config struct {
	Enabled           bool
	SoftHyphensOnly   bool
	ForceAlgorithmic  bool
	TrustSoftHyphens  bool
	LeftHyphenMin     int // 0 = use dictionary default
	RightHyphenMin    int
	DefaultDictionary string // e.g. "en-us", used when dictionary load fails
}

const (
	defaultLeftMin  = 2
	defaultRightMin = 2
)

// Dictionary is one loaded and compiled pattern set plus its exceptions,
// equivalent to the teacher's *hyph.
type Dictionary struct {
	ID         string
	Mode       Mode
	patterns   *trie
	exceptions map[string]string
	leftMin    int
	rightMin   int
}

// Engine owns the dictionary cache and the host loader.
type Engine struct {
	log    *zap.Logger
	loader Loader
	cfg    Config
	dicts  map[string]*Dictionary
	words  *UserWordList
}

// NewEngine creates a hyphenation engine. loader may be nil if only the
// reserved pseudo-dictionaries (@none, @softhyphens, @algorithm) and the
// algorithmic fallback are ever used.
func NewEngine(log *zap.Logger, loader Loader, cfg Config) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		log:    log.Named("hyphen"),
		loader: loader,
		cfg:    cfg,
		dicts:  make(map[string]*Dictionary),
	}
}

// SetUserWordList installs the reader-supplied exception list (§4.9); pass
// nil to clear it.
func (e *Engine) SetUserWordList(w *UserWordList) {
	e.words = w
}

// Dictionary returns the cached dictionary for id, loading and compiling it
// on first use. Load failures fall back to the configured default
// dictionary, logging a warning once (§7).
func (e *Engine) Dictionary(id string) *Dictionary {
	if d, ok := e.dicts[id]; ok {
		return d
	}
	d := e.load(id)
	e.dicts[id] = d
	return d
}

func (e *Engine) load(id string) *Dictionary {
	switch id {
	case ReservedNone:
		return &Dictionary{ID: id, Mode: ModeOff}
	case ReservedSoftHyphens:
		return &Dictionary{ID: id, Mode: ModeSoftHyphenOnly}
	case ReservedAlgorithm:
		return &Dictionary{ID: id, Mode: ModeAlgorithmic, leftMin: defaultLeftMin, rightMin: defaultRightMin}
	}

	if e.loader == nil {
		e.log.Warn("no dictionary loader configured, falling back to algorithmic hyphenation", zap.String("id", id))
		return &Dictionary{ID: id, Mode: ModeAlgorithmic, leftMin: defaultLeftMin, rightMin: defaultRightMin}
	}

	data, err := e.loader.Load(id)
	if err != nil {
		return e.loadDefault(id, err)
	}
	patternStrs, err := parseDictionary(data)
	if err != nil {
		return e.loadDefault(id, err)
	}

	t := newTrie()
	for _, ps := range patternStrs {
		t.addPatternString(ps)
	}

	exc := map[string]string{}
	if excData, err := e.loader.Load(id + ".exceptions"); err == nil {
		exc = parseExceptions(strings.Split(string(excData), "\n"))
	}

	return &Dictionary{
		ID: id, Mode: ModePattern, patterns: t, exceptions: exc,
		leftMin: defaultLeftMin, rightMin: defaultRightMin,
	}
}

func (e *Engine) loadDefault(id string, cause error) *Dictionary {
	if e.cfg.DefaultDictionary == "" || e.cfg.DefaultDictionary == id {
		e.log.Warn("dictionary load failed, disabling pattern hyphenation for this language",
			zap.String("id", id), zap.Error(cause))
		return &Dictionary{ID: id, Mode: ModeAlgorithmic, leftMin: defaultLeftMin, rightMin: defaultRightMin}
	}
	e.log.Warn("dictionary load failed, falling back to default dictionary",
		zap.String("id", id), zap.String("fallback", e.cfg.DefaultDictionary), zap.Error(cause))
	return e.load(e.cfg.DefaultDictionary)
}

// effectiveMode resolves the runtime-selectable mode of §4.9 from the
// engine configuration and the word's dictionary.
func (e *Engine) effectiveMode(d *Dictionary) Mode {
	if !e.cfg.Enabled {
		return ModeOff
	}
	if e.cfg.SoftHyphensOnly {
		return ModeSoftHyphenOnly
	}
	if e.cfg.ForceAlgorithmic {
		return ModeAlgorithmic
	}
	if d == nil {
		return ModeOff
	}
	return d.Mode
}

// BreakMask returns, for each rune of word, whether a hyphenation break is
// permitted immediately before it. word is used exactly as given: the
// caller is responsible for isolating a single hyphenatable token.
func (e *Engine) BreakMask(word string, dictID string) []bool {
	d := e.Dictionary(dictID)
	runes := []rune(word)
	mode := e.effectiveMode(d)

	switch mode {
	case ModeOff:
		return make([]bool, len(runes))
	case ModeSoftHyphenOnly:
		return softHyphenMask(runes)
	case ModeAlgorithmic:
		mask := algorithmicMask(runes)
		applyHyphenMins(mask, e.hyphenMin(d, true), e.hyphenMin(d, false))
		return mergeSoftHyphens(mask, runes, e.cfg.TrustSoftHyphens)
	}

	if e.words != nil {
		if mask, ok := e.words.Lookup(word); ok {
			return mergeSoftHyphens(mask, runes, e.cfg.TrustSoftHyphens)
		}
	}
	if d.exceptions != nil {
		if exc, ok := d.exceptions[strings.ToLower(word)]; ok {
			return mergeSoftHyphens(breakMaskFromSpelling(exc), runes, e.cfg.TrustSoftHyphens)
		}
	}

	mask := patternMask(d.patterns, runes)
	applyHyphenMins(mask, e.hyphenMin(d, true), e.hyphenMin(d, false))
	return mergeSoftHyphens(mask, runes, e.cfg.TrustSoftHyphens)
}

func (e *Engine) hyphenMin(d *Dictionary, left bool) int {
	if left {
		if e.cfg.LeftHyphenMin > 0 {
			return e.cfg.LeftHyphenMin
		}
		if d != nil && d.leftMin > 0 {
			return d.leftMin
		}
		return defaultLeftMin
	}
	if e.cfg.RightHyphenMin > 0 {
		return e.cfg.RightHyphenMin
	}
	if d != nil && d.rightMin > 0 {
		return d.rightMin
	}
	return defaultRightMin
}

// HyphenateString inserts hyphen (typically a soft hyphen) at every
// permitted break in every whitespace-delimited word of s, skipping
// combining diacritics and any pre-existing soft hyphen exactly as the
// scan did when building the break mask.
func (e *Engine) HyphenateString(s, dictID, hyphenMark string) string {
	var out strings.Builder
	var word []rune
	flush := func() {
		if len(word) == 0 {
			return
		}
		mask := e.BreakMask(string(word), dictID)
		for i, r := range word {
			if i > 0 && i < len(mask) && mask[i] {
				out.WriteString(hyphenMark)
			}
			out.WriteRune(r)
		}
		word = word[:0]
	}
	for _, r := range s {
		if unicode.IsLetter(r) || r == softHyphen || unicode.Is(unicode.Mn, r) {
			word = append(word, r)
			continue
		}
		flush()
		out.WriteRune(r)
	}
	flush()
	return out.String()
}

// patternMask runs the pattern-dictionary scan of §4.9, following
// convert/text/hyphenator.go's hyphenateWord exactly: the word is
// bracketed with sentinel dots, every anchored prefix starting at each
// position contributes its Liang score vector (which may reach back past
// its own start when the matched pattern carried a leading digit), the
// per-position maximum becomes the score buffer, and odd scores strictly
// between the first and last two characters mark legal breaks.
func patternMask(patterns *trie, word []rune) []bool {
	clean, origIndex := stripForHyphenation(word)
	if len(clean) == 0 {
		return make([]bool, len(word))
	}

	buf := make([]rune, 0, len(clean)+2)
	buf = append(buf, '.')
	buf = append(buf, clean...)
	buf = append(buf, '.')

	v := make([]int, len(buf))
	for start := 0; start < len(buf); start++ {
		substrs, values := patterns.allSubstringsAndValues(string(buf[start:]))
		for i, val := range values {
			score := val.([]int)
			matched := []rune(substrs[i])
			diff := len(score) - len(matched)
			base := start - diff
			if base < 0 {
				continue
			}
			for j, s := range score {
				pos := base + j
				if pos >= len(v) {
					continue
				}
				if s > v[pos] {
					v[pos] = s
				}
			}
		}
	}

	markers := v[1 : len(v)-1]
	cleanMask := make([]bool, len(clean))
	for i := range clean {
		if i < 2 || i > len(clean)-2 {
			continue // never break within the first/last two characters
		}
		// markers[i-1] is the score between clean[i-1] and clean[i].
		if markers[i-1]%2 != 0 {
			cleanMask[i] = true
		}
	}

	mask := make([]bool, len(word))
	for cleanPos, origPos := range origIndex {
		if cleanPos < len(cleanMask) && cleanMask[cleanPos] {
			mask[origPos] = true
		}
	}
	return mask
}

// stripForHyphenation removes soft hyphens and combining marks before
// pattern matching, returning the clean rune slice and a mapping back from
// each clean-rune index to its index in the original word.
func stripForHyphenation(word []rune) (clean []rune, origIndex []int) {
	clean = make([]rune, 0, len(word))
	origIndex = make([]int, 0, len(word))
	for i, r := range word {
		if r == softHyphen || unicode.Is(unicode.Mn, r) {
			continue
		}
		clean = append(clean, r)
		origIndex = append(origIndex, i)
	}
	return
}

// algorithmicMask is the vowel-based heuristic fallback (§4.9): a break is
// offered after a vowel that is followed by at least one consonant and
// then another vowel, approximating syllable boundaries without a
// dictionary.
func algorithmicMask(word []rune) []bool {
	mask := make([]bool, len(word))
	for i := 1; i < len(word)-1; i++ {
		if !isVowel(word[i-1]) || isVowel(word[i]) {
			continue
		}
		// find the next vowel
		j := i + 1
		for j < len(word) && !isVowel(word[j]) {
			j++
		}
		if j < len(word) {
			mask[i] = true
		}
	}
	return mask
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// softHyphenMask allows a break only where the original text already
// encodes a soft hyphen.
func softHyphenMask(word []rune) []bool {
	mask := make([]bool, len(word))
	for i, r := range word {
		if r == softHyphen && i > 0 {
			mask[i] = true
		}
	}
	return mask
}

// mergeSoftHyphens implements §4.9's "trust any embedded U+00AD as
// authoritative" rule: when trust_soft_hyphens is set and word contains at
// least one soft hyphen, those positions become the *only* legal breaks,
// discarding whatever the pattern/algorithmic scan computed. Without any
// soft hyphen present, or with trust disabled, the computed mask is
// returned unchanged.
func mergeSoftHyphens(mask []bool, word []rune, trust bool) []bool {
	if !trust {
		return mask
	}
	for _, r := range word {
		if r == softHyphen {
			return softHyphenMask(word)
		}
	}
	return mask
}

// applyHyphenMins clears any break opportunity closer to either edge of
// the word than the configured minimums.
func applyHyphenMins(mask []bool, left, right int) {
	for i := 0; i < len(mask) && i < left; i++ {
		mask[i] = false
	}
	for i := len(mask) - right + 1; i < len(mask); i++ {
		if i >= 0 {
			mask[i] = false
		}
	}
}
