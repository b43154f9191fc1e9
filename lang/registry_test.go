package lang_test

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/koreader/crengine-sub001/lang"
)

// TestRegistry_CachesPerTag covers §4.8's "cached per tag seen in
// document": the same tag must yield the identical *TextLangCfg pointer.
func TestRegistry_CachesPerTag(t *testing.T) {
	r := lang.NewRegistry(nil, lang.RegistryConfig{EmbeddedLangsEnabled: true, DefaultTag: language.English})
	a := r.GetLangCfg(language.MustParse("fr"))
	b := r.GetLangCfg(language.MustParse("fr"))
	if a != b {
		t.Fatal("GetLangCfg(fr) returned distinct configs on the second call, want cached identity")
	}
}

// TestRegistry_EmbeddedLangsDisabled covers §6.5's
// embedded_langs_enabled=false override: every tag must resolve to the
// configured default tag's config.
func TestRegistry_EmbeddedLangsDisabled(t *testing.T) {
	r := lang.NewRegistry(nil, lang.RegistryConfig{EmbeddedLangsEnabled: false, DefaultTag: language.German})
	cfg := r.GetLangCfg(language.MustParse("ja"))
	if cfg.Tag.String() != "de" {
		t.Errorf("got tag %q, want de (the configured default, regardless of requested ja)", cfg.Tag.String())
	}
}

// TestRegistry_LRUOrdering covers §3's "recent tags moved toward front".
func TestRegistry_LRUOrdering(t *testing.T) {
	r := lang.NewRegistry(nil, lang.RegistryConfig{EmbeddedLangsEnabled: true, DefaultTag: language.English})
	en := r.GetLangCfg(language.English)
	fr := r.GetLangCfg(language.French)
	recent := r.Recent()
	if len(recent) != 2 || recent[0] != fr || recent[1] != en {
		t.Fatalf("Recent() = %v, want [fr, en] (most recently built first)", recent)
	}
	r.GetLangCfg(language.English) // touch en again
	recent = r.Recent()
	if recent[0] != en {
		t.Errorf("Recent()[0] = %p, want en moved to front after re-access", recent[0])
	}
}

// TestResolveHyphMethod_AliasChain covers the mapped full tag -> mapped
// base -> bare base steps of the chain documented on resolveHyphMethod.
func TestResolveHyphMethod_AliasChain(t *testing.T) {
	r := lang.NewRegistry(nil, lang.RegistryConfig{EmbeddedLangsEnabled: true, DefaultTag: language.English})

	cases := []struct {
		tag  string
		want string
	}{
		{"de-AT", "de-1996"}, // exact mapped tag
		{"de-CH", "de-ch-1901"},
		{"en-US", "en-us"}, // mapped base (from "en")
		{"pl", "pl"},       // no alias: falls through to bare base subtag
	}
	for _, c := range cases {
		cfg := r.GetLangCfg(language.MustParse(c.tag))
		if cfg.HyphMethodRef != c.want {
			t.Errorf("GetLangCfg(%q).HyphMethodRef = %q, want %q", c.tag, cfg.HyphMethodRef, c.want)
		}
	}
}

// TestClassifyCJK covers §4.8 point 5's is_japanese/is_zh_SC/is_zh_TC
// flags, keyed off script and region disambiguation for Chinese.
func TestClassifyCJK(t *testing.T) {
	r := lang.NewRegistry(nil, lang.RegistryConfig{EmbeddedLangsEnabled: true, DefaultTag: language.English})

	ja := r.GetLangCfg(language.Japanese)
	if !ja.IsJapanese || !ja.IsJaOrZh || ja.IsZhSC || ja.IsZhTC {
		t.Errorf("ja flags = %+v, want IsJapanese+IsJaOrZh only", ja)
	}

	zhHant := r.GetLangCfg(language.MustParse("zh-Hant"))
	if !zhHant.IsZhTC || zhHant.IsZhSC || !zhHant.IsJaOrZh {
		t.Errorf("zh-Hant flags = %+v, want IsZhTC+IsJaOrZh only", zhHant)
	}

	zhTW := r.GetLangCfg(language.MustParse("zh-TW"))
	if !zhTW.IsZhTC {
		t.Errorf("zh-TW flags = %+v, want IsZhTC via region fallback", zhTW)
	}

	zhHans := r.GetLangCfg(language.MustParse("zh-Hans"))
	if !zhHans.IsZhSC || zhHans.IsZhTC {
		t.Errorf("zh-Hans flags = %+v, want IsZhSC only", zhHans)
	}

	en := r.GetLangCfg(language.English)
	if en.IsJaOrZh {
		t.Errorf("en flags = %+v, want IsJaOrZh=false", en)
	}
}

// TestQuoteNesting_S6 is Scenario S6: French nested <q> quoting and reset.
func TestQuoteNesting_S6(t *testing.T) {
	r := lang.NewRegistry(nil, lang.RegistryConfig{EmbeddedLangsEnabled: true, DefaultTag: language.English})
	fr := r.GetLangCfg(language.French)

	open1 := fr.NextOpenQuote()
	open2 := fr.NextOpenQuote()
	close2 := fr.NextCloseQuote()
	close1 := fr.NextCloseQuote()

	want := []rune{'«', '“', '”', '»'}
	got := []rune{open1, open2, close2, close1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("quote sequence[%d] = %q, want %q (full sequence got=%q want=%q)", i, got[i], want[i], got, want)
		}
	}

	fr.ResetQuoteNesting()
	if reopened := fr.NextOpenQuote(); reopened != '«' {
		t.Errorf("after ResetQuoteNesting, NextOpenQuote() = %q, want level-1 « again", reopened)
	}
}

// TestLineBreakOverrides_German covers §4.8 point 3: German uses low-9
// opening quotes with an opening line-break class.
func TestLineBreakOverrides_German(t *testing.T) {
	r := lang.NewRegistry(nil, lang.RegistryConfig{EmbeddedLangsEnabled: true, DefaultTag: language.English})
	de := r.GetLangCfg(language.German)
	if got := de.LineBreakOverrides['„']; got != lang.LBOpening {
		t.Errorf("German „ line-break class = %v, want LBOpening", got)
	}
	if got := de.LineBreakOverrides['“']; got != lang.LBClosing {
		t.Errorf("German “ line-break class = %v, want LBClosing", got)
	}
}

// TestCharSubstitution_EnglishEmDash covers §4.8 point 4's example: an
// English em dash resolves to opening/closing/ambiguous by adjacent
// spacing.
func TestCharSubstitution_EnglishEmDash(t *testing.T) {
	r := lang.NewRegistry(nil, lang.RegistryConfig{EmbeddedLangsEnabled: true, DefaultTag: language.English})
	en := r.GetLangCfg(language.English)
	if en.CharSubstitution == nil {
		t.Fatal("English config has no CharSubstitution function")
	}
	if got := en.CharSubstitution('—', true, false); got != lang.LBOpening {
		t.Errorf("em dash after space, before text = %v, want LBOpening", got)
	}
	if got := en.CharSubstitution('—', false, true); got != lang.LBClosing {
		t.Errorf("em dash after text, before space = %v, want LBClosing", got)
	}
	if got := en.CharSubstitution('—', false, false); got != lang.LBAmbiguous {
		t.Errorf("em dash flanked by text on both sides = %v, want LBAmbiguous", got)
	}
}
