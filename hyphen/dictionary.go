package hyphen

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/beevik/etree"
)

// Reserved dictionary ids that bypass the loader entirely.
const (
	ReservedNone        = "@none"
	ReservedSoftHyphens = "@softhyphens"
	ReservedAlgorithm   = "@algorithm"
)

// Loader is the host-provided dictionary byte-stream source (§6.3). The
// engine never touches a filesystem directly.
type Loader interface {
	Load(id string) ([]byte, error)
}

var legacyMagic = []byte("HypHAlR4")

// parseDictionary sniffs the format of data and extracts its Liang
// patterns; exceptions are not read here (the engine loads them from a
// separate id+".exceptions" resource). XML dictionaries wrap one pattern per
// <pattern> element; legacy dictionaries start with the fixed HypHAlR4
// magic.
func parseDictionary(data []byte) (patterns []string, err error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	switch {
	case bytes.HasPrefix(trimmed, legacyMagic):
		return parseLegacyBinary(data)
	case bytes.HasPrefix(trimmed, []byte("<")):
		return parseXMLPatterns(data)
	default:
		return nil, fmt.Errorf("hyphen: unrecognized dictionary format (%d bytes)", len(data))
	}
}

// parseXMLPatterns reads one Liang pattern string per <pattern> element,
// using etree the way the stylesheet loader's fixtures parse markup
// elsewhere in this module.
func parseXMLPatterns(data []byte) ([]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("hyphen: parsing XML pattern dictionary: %w", err)
	}
	var out []string
	for _, el := range doc.FindElements("//pattern") {
		text := el.Text()
		if text != "" {
			out = append(out, text)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("hyphen: XML pattern dictionary contained no <pattern> elements")
	}
	return out, nil
}

// parseLegacyBinary reads the legacy HypHAlR4 pattern dictionary: an
// 8-byte magic, a 4-byte little-endian entry count, then that many
// length-prefixed (uint16 LE) pattern strings holding the same textual
// Liang syntax as the XML form. The exact historical layout of this format
// is not available in the retrieved corpus; this reader targets the
// structure described in the loader interface (magic + directory + packed
// entries) and returns an error for anything it cannot account for, which
// lets the caller fall back to the default dictionary per the documented
// load-failure policy.
func parseLegacyBinary(data []byte) ([]string, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("hyphen: legacy dictionary too short")
	}
	if !bytes.Equal(data[:8], legacyMagic) {
		return nil, fmt.Errorf("hyphen: bad legacy dictionary magic")
	}
	count := binary.LittleEndian.Uint32(data[8:12])
	pos := 12
	out := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		if pos+2 > len(data) {
			return nil, fmt.Errorf("hyphen: legacy dictionary truncated at entry %d", i)
		}
		ln := int(binary.LittleEndian.Uint16(data[pos : pos+2]))
		pos += 2
		if pos+ln > len(data) {
			return nil, fmt.Errorf("hyphen: legacy dictionary truncated reading entry %d", i)
		}
		out = append(out, string(data[pos:pos+ln]))
		pos += ln
	}
	return out, nil
}

// parseExceptions reads one "hy-phen-a-ted-word" per line, stripping
// hyphens to build the lookup key while keeping the original as the
// rendering form, mirroring content/text/hyphenator.go's loadExceptions.
func parseExceptions(lines []string) map[string]string {
	m := make(map[string]string, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		key := removeHyphens(line)
		m[key] = line
	}
	return m
}

func removeHyphens(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r != '-' {
			out = append(out, r)
		}
	}
	return string(out)
}
