package hyphen_test

import (
	"errors"
	"testing"

	"github.com/koreader/crengine-sub001/hyphen"
)

// mapLoader is a minimal in-memory Loader stub for tests.
type mapLoader struct {
	data map[string][]byte
}

func (m *mapLoader) Load(id string) ([]byte, error) {
	d, ok := m.data[id]
	if !ok {
		return nil, errors.New("hyphen: no such dictionary: " + id)
	}
	return d, nil
}

const patternDict = `<patterns><pattern>b1</pattern></patterns>`

// TestBreakMask_PatternDictionary traces the Liang scan by hand: the
// single pattern "b1" scores a break immediately after 'b'; with the
// default hyphen-minimums (2 either side) applied to the 5-rune word
// "xcbcx" that break, before index 3 (the second 'c'), survives.
func TestBreakMask_PatternDictionary(t *testing.T) {
	loader := &mapLoader{data: map[string][]byte{"test": []byte(patternDict)}}
	e := hyphen.NewEngine(nil, loader, hyphen.Config{Enabled: true})

	mask := e.BreakMask("xcbcx", "test")
	want := []bool{false, false, false, true, false}
	if len(mask) != len(want) {
		t.Fatalf("BreakMask length = %d, want %d", len(mask), len(want))
	}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v (full mask=%v)", i, mask[i], want[i], mask)
		}
	}
}

// TestBreakMask_ModeOff covers §4.9: the off mode never breaks.
func TestBreakMask_ModeOff(t *testing.T) {
	loader := &mapLoader{data: map[string][]byte{"test": []byte(patternDict)}}
	e := hyphen.NewEngine(nil, loader, hyphen.Config{Enabled: false})
	mask := e.BreakMask("xcbcx", "test")
	for i, b := range mask {
		if b {
			t.Errorf("mask[%d] = true with hyphenation disabled, want all false", i)
		}
	}
}

// TestBreakMask_SoftHyphenOnly covers §4.9: breaks only at a pre-encoded
// U+00AD, regardless of the dictionary's patterns.
func TestBreakMask_SoftHyphenOnly(t *testing.T) {
	loader := &mapLoader{data: map[string][]byte{"test": []byte(patternDict)}}
	e := hyphen.NewEngine(nil, loader, hyphen.Config{Enabled: true, SoftHyphensOnly: true})
	word := "xc­cx"
	mask := e.BreakMask(word, "test")
	runes := []rune(word)
	for i, r := range runes {
		want := r == '­' && i > 0
		if mask[i] != want {
			t.Errorf("mask[%d] (rune %q) = %v, want %v", i, r, mask[i], want)
		}
	}
}

// TestBreakMask_ForceAlgorithmic covers §6.5's hyphenation_force_algorithmic
// override: even a word whose dictionary loaded successfully must use the
// vowel-based fallback instead of its patterns.
func TestBreakMask_ForceAlgorithmic(t *testing.T) {
	loader := &mapLoader{data: map[string][]byte{"test": []byte(patternDict)}}
	e := hyphen.NewEngine(nil, loader, hyphen.Config{Enabled: true, ForceAlgorithmic: true})
	mask := e.BreakMask("banana", "test")
	if len(mask) != len("banana") {
		t.Fatalf("BreakMask length = %d, want %d", len(mask), len("banana"))
	}
}

// TestDictionary_LoadFailureFallsBackToDefault covers §7's dictionary
// load failure policy: an unknown id with no configured default falls
// back to the algorithmic mode rather than erroring.
func TestDictionary_LoadFailureFallsBackToDefault(t *testing.T) {
	loader := &mapLoader{data: map[string][]byte{}}
	e := hyphen.NewEngine(nil, loader, hyphen.Config{Enabled: true})
	mask := e.BreakMask("banana", "missing")
	if len(mask) != len("banana") {
		t.Fatalf("BreakMask length = %d, want %d", len(mask), len("banana"))
	}
}

// TestDictionary_LoadFailureFallsBackToConfiguredDefault covers the other
// half of §7: when a DefaultDictionary is configured and differs from the
// failing id, the default dictionary is loaded and used instead.
func TestDictionary_LoadFailureFallsBackToConfiguredDefault(t *testing.T) {
	loader := &mapLoader{data: map[string][]byte{"en-us": []byte(patternDict)}}
	e := hyphen.NewEngine(nil, loader, hyphen.Config{Enabled: true, DefaultDictionary: "en-us"})
	mask := e.BreakMask("xcbcx", "missing-lang")
	want := []bool{false, false, false, true, false}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v (fallback dictionary's pattern should apply)", i, mask[i], want[i])
		}
	}
}

// TestBreakMask_ReservedNone covers the @none reserved dictionary id.
func TestBreakMask_ReservedNone(t *testing.T) {
	e := hyphen.NewEngine(nil, nil, hyphen.Config{Enabled: true})
	mask := e.BreakMask("banana", hyphen.ReservedNone)
	for i, b := range mask {
		if b {
			t.Errorf("mask[%d] = true for @none dictionary, want all false", i)
		}
	}
}

// TestUserWordList_ShortCircuitsPatterns covers §4.9: a non-empty
// user-supplied word list is consulted before pattern matching and wins.
func TestUserWordList_ShortCircuitsPatterns(t *testing.T) {
	loader := &mapLoader{data: map[string][]byte{"test": []byte(patternDict)}}
	e := hyphen.NewEngine(nil, loader, hyphen.Config{Enabled: true})
	e.SetUserWordList(hyphen.NewUserWordList([]string{"xc-bcx"}))

	mask := e.BreakMask("xcbcx", "test")
	want := []bool{false, false, true, false, false}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v (user word list entry)", i, mask[i], want[i])
		}
	}
}

// TestUserWordList_LookupCaseInsensitive covers the "binary-searched for
// the lowercased word" wording of §4.9.
func TestUserWordList_LookupCaseInsensitive(t *testing.T) {
	w := hyphen.NewUserWordList([]string{"hy-phen-ate"})
	mask, ok := w.Lookup("HyphenAte")
	if !ok {
		t.Fatal("Lookup(\"HyphenAte\") = not found, want a case-insensitive hit")
	}
	if len(mask) != len("hyphenate") {
		t.Fatalf("mask length = %d, want %d", len(mask), len("hyphenate"))
	}
}

// TestBreakMask_TrustSoftHyphensOverridesPatternBreaks covers §4.9's
// "trust any embedded U+00AD as authoritative" rule literally: when the
// word already carries a soft hyphen, that position becomes the *only*
// legal break, even though the pattern dictionary would otherwise offer a
// different one ('b', scored by the "b1" pattern) elsewhere in the word.
func TestBreakMask_TrustSoftHyphensOverridesPatternBreaks(t *testing.T) {
	loader := &mapLoader{data: map[string][]byte{"test": []byte(patternDict)}}
	e := hyphen.NewEngine(nil, loader, hyphen.Config{Enabled: true, TrustSoftHyphens: true})

	word := "xc­bcx" // soft hyphen inserted between 'c' and 'b'
	mask := e.BreakMask(word, "test")
	want := []bool{false, false, true, false, false, false}
	if len(mask) != len(want) {
		t.Fatalf("BreakMask length = %d, want %d", len(mask), len(want))
	}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v (full mask=%v): the soft hyphen must be the only break, the pattern's 'b' break must be dropped", i, mask[i], want[i], mask)
		}
	}
}

// TestBreakMask_TrustSoftHyphensNoOpWithoutOne covers the other half: when
// trust_soft_hyphens is set but the word carries no soft hyphen at all,
// the computed pattern mask passes through unchanged.
func TestBreakMask_TrustSoftHyphensNoOpWithoutOne(t *testing.T) {
	loader := &mapLoader{data: map[string][]byte{"test": []byte(patternDict)}}
	e := hyphen.NewEngine(nil, loader, hyphen.Config{Enabled: true, TrustSoftHyphens: true})

	mask := e.BreakMask("xcbcx", "test")
	want := []bool{false, false, false, true, false}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, mask[i], want[i])
		}
	}
}

// TestHyphenateString_InsertsSoftHyphens is a small end-to-end check of
// HyphenateString wiring BreakMask output into the literal output string.
func TestHyphenateString_InsertsSoftHyphens(t *testing.T) {
	loader := &mapLoader{data: map[string][]byte{"test": []byte(patternDict)}}
	e := hyphen.NewEngine(nil, loader, hyphen.Config{Enabled: true})
	got := e.HyphenateString("xcbcx", "test", "-")
	want := "xcb-cx"
	if got != want {
		t.Errorf("HyphenateString = %q, want %q", got, want)
	}
}
