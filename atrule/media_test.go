package atrule_test

import (
	"testing"

	"github.com/koreader/crengine-sub001/atrule"
)

func TestMediaQueryList_MinMaxWidth(t *testing.T) {
	vp := atrule.Viewport{WidthPx: 500, HeightPx: 800}

	ml := atrule.ParseMediaQueryList("(min-width: 400px)")
	if !ml.Matches(vp) {
		t.Error("500px viewport should satisfy min-width: 400px")
	}

	ml = atrule.ParseMediaQueryList("(min-width: 600px)")
	if ml.Matches(vp) {
		t.Error("500px viewport should not satisfy min-width: 600px")
	}

	ml = atrule.ParseMediaQueryList("(max-width: 600px)")
	if !ml.Matches(vp) {
		t.Error("500px viewport should satisfy max-width: 600px")
	}
}

func TestMediaQueryList_CommaIsOr(t *testing.T) {
	vp := atrule.Viewport{WidthPx: 500, HeightPx: 800}
	ml := atrule.ParseMediaQueryList("(min-width: 900px), (max-width: 600px)")
	if !ml.Matches(vp) {
		t.Error("second alternative should match, satisfying the OR'd list")
	}
}

func TestMediaQueryList_NotNegates(t *testing.T) {
	vp := atrule.Viewport{WidthPx: 500, HeightPx: 800}
	ml := atrule.ParseMediaQueryList("not screen and (max-width: 600px)")
	if ml.Matches(vp) {
		t.Error("'not screen and (max-width: 600px)' should be false when the feature matches")
	}
}

func TestMediaQueryList_Orientation(t *testing.T) {
	landscape := atrule.Viewport{WidthPx: 800, HeightPx: 600}
	portrait := atrule.Viewport{WidthPx: 600, HeightPx: 800}

	ml := atrule.ParseMediaQueryList("(orientation: landscape)")
	if !ml.Matches(landscape) {
		t.Error("800x600 should be landscape")
	}
	if ml.Matches(portrait) {
		t.Error("600x800 should not be landscape")
	}
}

func TestMediaQueryList_EmptyMatchesEverything(t *testing.T) {
	ml := atrule.ParseMediaQueryList("")
	if !ml.Matches(atrule.Viewport{}) {
		t.Error("an empty media query list should match unconditionally")
	}
}

func TestMediaQueryList_StaticFeatures(t *testing.T) {
	vp := atrule.Viewport{}
	if !atrule.ParseMediaQueryList("(color)").Matches(vp) {
		t.Error("(color) should be statically true")
	}
	if atrule.ParseMediaQueryList("(grid)").Matches(vp) {
		t.Error("(grid) should be statically false")
	}
}
