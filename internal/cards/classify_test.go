package cards

import "testing"

func TestClassifyBand_BoundariesInclusiveBelow(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{39.999, "weak"},
		{40, "neutral"}, // boundary belongs to the upper band
		{59.999, "neutral"},
		{60, "healthy"},
		{0, "weak"},
		{100, "healthy"},
	}

	for _, c := range cases {
		if got := ClassifyBand(c.value, breadthHealthBands); got != c.want {
			t.Errorf("ClassifyBand(%v) = %q, want %q", c.value, got, c.want)
		}
	}
}

func TestClassifyBand_DayChange(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{-2.5, "strong loss"},
		{-1, "slight loss"},
		{-0.3, "slight loss"},
		{0, "flat"},
		{0.3, "slight gain"},
		{1, "strong gain"},
	}

	for _, c := range cases {
		if got := ClassifyBand(c.value, dayChangeBands); got != c.want {
			t.Errorf("ClassifyBand(%v) = %q, want %q", c.value, got, c.want)
		}
	}
}

func TestConfluence(t *testing.T) {
	cases := []struct {
		bullish, bearish int
		want             string
	}{
		{3, 0, "Strong Bullish"},
		{2, 0, "Strong Bullish"},
		{2, 1, "Moderate Bullish"},
		{1, 0, "Moderate Bullish"},
		{0, 2, "Bearish"},
		{1, 2, "Weak"},
		{0, 1, "Weak"},
		{0, 0, "Neutral"},
		{1, 1, "Neutral"}, // even split never picks a side
		{2, 2, "Neutral"},
	}

	for _, c := range cases {
		if got := Confluence(c.bullish, c.bearish); got != c.want {
			t.Errorf("Confluence(%d, %d) = %q, want %q", c.bullish, c.bearish, got, c.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(120, 0, 100); got != 100 {
		t.Errorf("clamp(120) = %v", got)
	}
	if got := clamp(-5, 0, 100); got != 0 {
		t.Errorf("clamp(-5) = %v", got)
	}
	if got := clamp(42, 0, 100); got != 42 {
		t.Errorf("clamp(42) = %v", got)
	}
}
