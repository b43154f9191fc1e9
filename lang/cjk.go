package lang

import "golang.org/x/text/language"

// classifyCJK derives the is_japanese/is_zh_SC/is_zh_TC/is_ja_or_zh flags
// from a resolved language tag's base and script/region subtags (§4.8
// point 5).
func classifyCJK(tag language.Tag) (isJapanese, isZhSC, isZhTC, isJaOrZh bool) {
	base, _ := tag.Base()
	script, _ := tag.Script()
	region, _ := tag.Region()

	switch base.String() {
	case "ja":
		isJapanese = true
	case "zh":
		switch {
		case script.String() == "Hant":
			isZhTC = true
		case script.String() == "Hans":
			isZhSC = true
		case region.String() == "TW" || region.String() == "HK" || region.String() == "MO":
			isZhTC = true
		default:
			isZhSC = true
		}
	}
	isJaOrZh = isJapanese || isZhSC || isZhTC
	return
}

// CJKTypeOf classifies a single code point into one of the ten CJK
// categories, matching the exact ranges the design notes (§9) demand:
// CJK Unified Ideographs + extensions, compatibility ideographs,
// halfwidth/fullwidth forms, and Hangul syllables. Exported for the text
// layout collaborator (§2) that consumes a TextLangCfg's width table.
func CJKTypeOf(r rune) CJKType {
	switch {
	case r == '　':
		return CJKFullwidthSpace
	case isCJKPunctOpen(r):
		return CJKPunctOpen
	case isCJKPunctClose(r):
		return CJKPunctClose
	case r >= 0x3040 && r <= 0x309f:
		return CJKHiragana
	case r >= 0x30a0 && r <= 0x30ff:
		return CJKKatakana
	case r >= 0xff66 && r <= 0xff9f:
		return CJKHalfwidthKana
	case r >= 0xac00 && r <= 0xd7a3:
		return CJKHangul
	case r >= 0xff01 && r <= 0xff60:
		return CJKFullwidthLatin
	case isIdeograph(r):
		return CJKHanzi
	default:
		return CJKOther
	}
}

// isIdeograph covers CJK Unified Ideographs and its supplementary
// extension blocks plus the compatibility ideographs block.
func isIdeograph(r rune) bool {
	switch {
	case r >= 0x4e00 && r <= 0x9fff: // CJK Unified Ideographs
		return true
	case r >= 0x3400 && r <= 0x4dbf: // Extension A
		return true
	case r >= 0x20000 && r <= 0x2a6df: // Extension B
		return true
	case r >= 0x2a700 && r <= 0x2ebef: // Extensions C-F
		return true
	case r >= 0xf900 && r <= 0xfaff: // Compatibility Ideographs
		return true
	default:
		return false
	}
}

func isCJKPunctOpen(r rune) bool {
	switch r {
	case '「', '『', '（', '〈', '《', '【', '〔':
		return true
	}
	return false
}

func isCJKPunctClose(r rune) bool {
	switch r {
	case '」', '』', '）', '〉', '》', '】', '〕':
		return true
	}
	return false
}
