package value_test

import (
	"testing"

	"github.com/koreader/crengine-sub001/value"
)

// TestParseColor_FullyTransparentBlack covers Testable Property 8: the
// engine's inverted-alpha packing must treat 0x00 high byte as opaque and
// 0xFF as fully transparent, regardless of how the color was spelled.
func TestParseColor_FullyTransparentBlack(t *testing.T) {
	cases := []string{"#00000000", "transparent", "rgba(0,0,0,0)"}
	for _, raw := range cases {
		l, ok := value.ParseColor(raw)
		if !ok {
			t.Fatalf("ParseColor(%q) failed", raw)
		}
		if !l.Color.IsFullyTransparent() {
			t.Errorf("ParseColor(%q) = %#x, want fully transparent", raw, uint32(l.Color))
		}
	}
}

func TestParseColor_OpaqueBlack(t *testing.T) {
	cases := []string{"#000000", "rgba(0,0,0,1)", "rgb(0,0,0)", "black"}
	for _, raw := range cases {
		l, ok := value.ParseColor(raw)
		if !ok {
			t.Fatalf("ParseColor(%q) failed", raw)
		}
		if l.Color.IsFullyTransparent() {
			t.Errorf("ParseColor(%q) = %#x, want opaque", raw, uint32(l.Color))
		}
		r, g, b, a := l.Color.RGBA()
		if r != 0 || g != 0 || b != 0 || a != 255 {
			t.Errorf("ParseColor(%q) RGBA = %d,%d,%d,%d, want 0,0,0,255", raw, r, g, b, a)
		}
	}
}

func TestParseColor_HexShorthand(t *testing.T) {
	l, ok := value.ParseColor("#fff")
	if !ok {
		t.Fatal("ParseColor(#fff) failed")
	}
	r, g, b, _ := l.Color.RGBA()
	if r != 255 || g != 255 || b != 255 {
		t.Errorf("#fff = %d,%d,%d, want 255,255,255", r, g, b)
	}
}

func TestParseColor_HexLong(t *testing.T) {
	l, ok := value.ParseColor("#336699")
	if !ok {
		t.Fatal("ParseColor(#336699) failed")
	}
	r, g, b, _ := l.Color.RGBA()
	if r != 0x33 || g != 0x66 || b != 0x99 {
		t.Errorf("#336699 = %#x,%#x,%#x, want 0x33,0x66,0x99", r, g, b)
	}
}

func TestParseColor_RGBPercent(t *testing.T) {
	l, ok := value.ParseColor("rgb(100%, 0%, 0%)")
	if !ok {
		t.Fatal("ParseColor(rgb(100%,0%,0%)) failed")
	}
	r, g, b, _ := l.Color.RGBA()
	if r != 255 || g != 0 || b != 0 {
		t.Errorf("rgb(100%%,0%%,0%%) = %d,%d,%d, want 255,0,0", r, g, b)
	}
}

func TestParseColor_RGBSpaceSeparated(t *testing.T) {
	l, ok := value.ParseColor("rgb(10 20 30 / 0.5)")
	if !ok {
		t.Fatal("ParseColor(rgb(10 20 30 / 0.5)) failed")
	}
	r, g, b, _ := l.Color.RGBA()
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("rgb(10 20 30 / 0.5) = %d,%d,%d, want 10,20,30", r, g, b)
	}
}

func TestParseColor_NamedColor(t *testing.T) {
	l, ok := value.ParseColor("royalblue")
	if !ok {
		t.Fatal("ParseColor(royalblue) failed")
	}
	if l.Color.IsFullyTransparent() {
		t.Error("royalblue should not be transparent")
	}
}

func TestParseColor_InvalidRejected(t *testing.T) {
	cases := []string{"#zzz", "notacolor", "rgb(1,2)"}
	for _, raw := range cases {
		if _, ok := value.ParseColor(raw); ok {
			t.Errorf("ParseColor(%q) unexpectedly succeeded", raw)
		}
	}
}
