package lang

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// RegistryConfig carries the process-wide knobs the registry needs, kept as
// an explicit value per the "no process globals" design note (§9) instead
// of package-level state.
type RegistryConfig struct {
	EmbeddedLangsEnabled bool
	DefaultTag           language.Tag // used when embedded langs are disabled, or as the ultimate hyphenation fallback
	DefaultHyphDict      string       // e.g. "English_US.pattern"
}

// Registry maintains a cached TextLangCfg per tag seen in the document
// (§4.8), with recently used entries kept toward the front of an
// LRU-ordered list.
type Registry struct {
	log    *zap.Logger
	cfg    RegistryConfig
	byTag  map[string]*TextLangCfg
	lru    []*TextLangCfg // front = most recently used
}

// NewRegistry creates a language registry.
func NewRegistry(log *zap.Logger, cfg RegistryConfig) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.DefaultHyphDict == "" {
		cfg.DefaultHyphDict = "English_US.pattern"
	}
	return &Registry{
		log:   log.Named("lang-registry"),
		cfg:   cfg,
		byTag: make(map[string]*TextLangCfg),
	}
}

// GetLangCfg returns the cached TextLangCfg for tag, building and caching
// one if this is the first time tag has been seen. When embedded-language
// support is disabled, tag is overridden by the registry's default tag.
func (r *Registry) GetLangCfg(tag language.Tag) *TextLangCfg {
	if !r.cfg.EmbeddedLangsEnabled {
		tag = r.cfg.DefaultTag
	}
	key := tag.String()
	if cfg, ok := r.byTag[key]; ok {
		r.touch(cfg)
		return cfg
	}
	cfg := r.build(tag)
	r.byTag[key] = cfg
	r.lru = append([]*TextLangCfg{cfg}, r.lru...)
	return cfg
}

func (r *Registry) touch(cfg *TextLangCfg) {
	for i, c := range r.lru {
		if c == cfg {
			if i == 0 {
				return
			}
			r.lru = append(r.lru[:i], r.lru[i+1:]...)
			r.lru = append([]*TextLangCfg{cfg}, r.lru...)
			return
		}
	}
}

// Recent returns the LRU list, most recently used first, for debug dumps
// and tests.
func (r *Registry) Recent() []*TextLangCfg {
	return r.lru
}

func (r *Registry) build(tag language.Tag) *TextLangCfg {
	base, _ := tag.Base()
	baseStr := base.String()

	hyphRef := r.resolveHyphMethod(tag.String(), baseStr)

	cfg := &TextLangCfg{
		Tag:           tag,
		HyphMethodRef: hyphRef,
		quotes:        quotesForBase(baseStr),
		CJKWidthTable: defaultWidthTable(),
	}
	cfg.IsJapanese, cfg.IsZhSC, cfg.IsZhTC, cfg.IsJaOrZh = classifyCJK(tag)
	cfg.LineBreakOverrides = buildLineBreakOverrides(baseStr)
	cfg.CharSubstitution = buildCharSubstitution(baseStr)

	r.log.Debug("built language config",
		zap.String("tag", tag.String()), zap.String("hyph", hyphRef),
		zap.Bool("is_ja_or_zh", cfg.IsJaOrZh))
	return cfg
}

// hyphDictAliases maps a tag or base subtag to the dictionary id actually
// shipped, when it differs from "<tag>.pattern" — mirrors
// convert/text/hyphenator.go's langMap table.
var hyphDictAliases = map[string]string{
	"de":    "de-1901",
	"de-de": "de-1901",
	"de-at": "de-1996",
	"de-ch": "de-ch-1901",
	"el":    "el-monoton",
	"el-gr": "el-monoton",
	"en":    "en-us",
	"mn":    "mn-cyrl",
	"sh":    "sh-latn",
	"sr":    "sr-cyrl",
	"zh":    "zh-latn-pinyin",
}

// resolveHyphMethod picks a dictionary id: the alias mapped to the full
// tag, then the alias mapped to the base subtag, then the base subtag
// itself; the configured default is used only when the base subtag is
// empty. The unmapped full tag is never returned as it is.
func (r *Registry) resolveHyphMethod(fullTag, baseTag string) string {
	lowFull := strings.ToLower(fullTag)
	if alias, ok := hyphDictAliases[lowFull]; ok {
		return alias
	}
	if alias, ok := hyphDictAliases[baseTag]; ok {
		return alias
	}
	if baseTag != "" {
		return baseTag
	}
	return r.cfg.DefaultHyphDict
}

func buildLineBreakOverrides(base string) map[rune]LineBreakClass {
	m := map[rune]LineBreakClass{
		'­': LBGlue, // soft hyphen: never a mandatory break point itself
		'—': LBAmbiguous, // em dash
	}
	switch base {
	case "de":
		m['„'] = LBOpening
		m['“'] = LBClosing
		m['‚'] = LBOpening
		m['‘'] = LBClosing
	case "fr":
		// Guillemets only break around surrounding spaces; modelled as
		// ambiguous so the substitution function can consult context.
		m['«'] = LBAmbiguous
		m['»'] = LBAmbiguous
	}
	return m
}

// buildCharSubstitution returns the per-language remapping function of
// §4.8 point 4. English resolves an em dash by adjacent spacing; Polish/
// Czech/Slovak make single-letter prepositions non-breaking at line end —
// that word-level rule lives in the text-layout collaborator and is out of
// this engine's scope, so only the em-dash rule is implemented here.
func buildCharSubstitution(base string) CharSubstitutionFn {
	switch base {
	case "en":
		return func(r rune, prevIsSpace, nextIsSpace bool) LineBreakClass {
			if r != '—' {
				return LBDefault
			}
			switch {
			case prevIsSpace && !nextIsSpace:
				return LBOpening
			case !prevIsSpace && nextIsSpace:
				return LBClosing
			default:
				return LBAmbiguous
			}
		}
	default:
		return nil
	}
}
