package value_test

import (
	"testing"

	"github.com/koreader/crengine-sub001/value"
)

func TestParseLength_Units(t *testing.T) {
	cases := []struct {
		raw      string
		wantUnit value.Unit
		wantVal  float64
	}{
		{"12px", value.UnitPx, 12},
		{"1.5em", value.UnitEm, 1.5},
		{"2rem", value.UnitRem, 2},
		{"-3pt", value.UnitPt, -3},
		{"50%", value.UnitPercent, 50},
		{"10vw", value.UnitVw, 10},
	}
	for _, c := range cases {
		l, ok := value.ParseLength(c.raw, value.LengthOpts{AcceptPercent: true, AcceptNegative: true})
		if !ok {
			t.Fatalf("ParseLength(%q) failed", c.raw)
		}
		if l.Unit != c.wantUnit {
			t.Errorf("ParseLength(%q).Unit = %v, want %v", c.raw, l.Unit, c.wantUnit)
		}
		if l.Float() != c.wantVal {
			t.Errorf("ParseLength(%q).Float() = %v, want %v", c.raw, l.Float(), c.wantVal)
		}
	}
}

func TestParseLength_NegativeRejected(t *testing.T) {
	if _, ok := value.ParseLength("-3px", value.LengthOpts{}); ok {
		t.Error("expected negative length to be rejected without AcceptNegative")
	}
}

func TestParseLength_PercentRequiresOptIn(t *testing.T) {
	if _, ok := value.ParseLength("50%", value.LengthOpts{}); ok {
		t.Error("expected percent to be rejected without AcceptPercent")
	}
}

func TestParseLength_Sentinels(t *testing.T) {
	l, ok := value.ParseLength("auto", value.LengthOpts{AcceptAuto: true})
	if !ok || !l.IsSentinel() || l.Sentinel != value.SentinelAuto {
		t.Fatalf("expected auto sentinel, got %+v ok=%v", l, ok)
	}
	if _, ok := value.ParseLength("auto", value.LengthOpts{}); ok {
		t.Error("expected auto to be rejected without AcceptAuto")
	}
}

// TestParseLength_AbsoluteFontSizeKeywords covers §4.2's fixed rem
// fractions: medium=1, large=6/5, etc. must resolve against the root font
// size (UnitRem), not the parent's (UnitPercent would), so nesting depth
// doesn't change their computed size.
func TestParseLength_AbsoluteFontSizeKeywords(t *testing.T) {
	cases := map[string]float64{
		"xx-small": 3.0 / 5, "x-small": 3.0 / 4, "small": 8.0 / 9,
		"medium": 1, "large": 6.0 / 5, "x-large": 3.0 / 2, "xx-large": 2,
	}
	for kw, want := range cases {
		l, ok := value.ParseLength(kw, value.LengthOpts{IsFontSize: true})
		if !ok {
			t.Fatalf("ParseLength(%q) with IsFontSize failed", kw)
		}
		if l.Unit != value.UnitRem {
			t.Fatalf("ParseLength(%q) unit = %v, want rem", kw, l.Unit)
		}
		if diff := l.Float() - want; diff > 0.01 || diff < -0.01 {
			t.Errorf("ParseLength(%q) = %v, want %v", kw, l.Float(), want)
		}
	}
}

// TestParseLength_RelativeFontSizeKeywords covers smaller/larger, which
// stay percentages of the parent's font size per §4.2.
func TestParseLength_RelativeFontSizeKeywords(t *testing.T) {
	cases := map[string]float64{"smaller": 80, "larger": 125}
	for kw, want := range cases {
		l, ok := value.ParseLength(kw, value.LengthOpts{IsFontSize: true})
		if !ok {
			t.Fatalf("ParseLength(%q) with IsFontSize failed", kw)
		}
		if l.Unit != value.UnitPercent {
			t.Fatalf("ParseLength(%q) unit = %v, want percent", kw, l.Unit)
		}
		if diff := l.Float() - want; diff > 0.01 || diff < -0.01 {
			t.Errorf("ParseLength(%q) = %v, want %v", kw, l.Float(), want)
		}
	}
}

// TestParseLength_UnspecifiedBareNumber covers §4.1's example, line-height:
// 1.2: a unitless number must be tagged UnitUnitless, distinguishable from
// an actual pixel length, not silently treated as device pixels.
func TestParseLength_UnspecifiedBareNumber(t *testing.T) {
	l, ok := value.ParseLength("1.2", value.LengthOpts{AcceptUnspecified: true})
	if !ok {
		t.Fatal("expected bare number to parse with AcceptUnspecified")
	}
	if l.Unit != value.UnitUnitless {
		t.Errorf("ParseLength(\"1.2\").Unit = %v, want UnitUnitless", l.Unit)
	}
	// Lengths are stored as fixed-point x256, so 1.2 comes back as 307/256.
	if diff := l.Float() - 1.2; diff > 1.0/256 || diff < -1.0/256 {
		t.Errorf("got %v, want 1.2 within 1/256", l.Float())
	}
	if _, ok := value.ParseLength("1.2", value.LengthOpts{}); ok {
		t.Error("expected bare number to be rejected without AcceptUnspecified")
	}
}

func TestParseLength_UnknownUnitRejected(t *testing.T) {
	if _, ok := value.ParseLength("12xyz", value.LengthOpts{}); ok {
		t.Error("expected unknown unit to be rejected")
	}
}

func TestLength_ResolveEm(t *testing.T) {
	l := value.FromFloat(2, value.UnitEm)
	px, ok := l.Resolve(value.ResolveCtx{FontSizePx: 16})
	if !ok || px != 32 {
		t.Fatalf("2em at 16px font = %v (ok=%v), want 32", px, ok)
	}
}

func TestLength_ResolveRem(t *testing.T) {
	l := value.FromFloat(1.5, value.UnitRem)
	px, ok := l.Resolve(value.ResolveCtx{RootFontSizePx: 20})
	if !ok || px != 30 {
		t.Fatalf("1.5rem at root 20px = %v (ok=%v), want 30", px, ok)
	}
}

func TestLength_ResolvePercent(t *testing.T) {
	l := value.FromFloat(50, value.UnitPercent)
	px, ok := l.Resolve(value.ResolveCtx{PercentBasePx: 200})
	if !ok || px != 100 {
		t.Fatalf("50%% of 200px = %v (ok=%v), want 100", px, ok)
	}
}

func TestLength_ResolveSentinelFails(t *testing.T) {
	l := value.FromSentinel(value.SentinelAuto)
	if _, ok := l.Resolve(value.ResolveCtx{}); ok {
		t.Error("expected sentinel length to fail Resolve")
	}
}

func TestLength_ResolveDPIScaling(t *testing.T) {
	l := value.FromFloat(1, value.UnitIn)
	px, ok := l.Resolve(value.ResolveCtx{RenderDPI: 192})
	if !ok || px != 192 {
		t.Fatalf("1in at 192 DPI = %v (ok=%v), want 192", px, ok)
	}
}
