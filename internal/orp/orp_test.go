package orp

import "testing"

func TestLayoutRoundTrip(t *testing.T) {
	for _, word := range []string{"a", "to", "the", "rod.", "Nephi", "commandments", "naïve", "Zarahemla,"} {
		parts := Layout(word)
		if parts.String() != word {
			t.Fatalf("layout of %q does not rejoin: %+v", word, parts)
		}
		if parts.Pivot == "" {
			t.Fatalf("expected pivot for %q", word)
		}
	}
}

func TestLayoutPivotPosition(t *testing.T) {
	cases := []struct {
		word string
		want Parts
	}{
		{"a", Parts{"", "a", ""}},
		{"to", Parts{"t", "o", ""}},
		{"the", Parts{"t", "h", "e"}},
		{"Hold", Parts{"Ho", "l", "d"}},
		{"commandments", Parts{"comm", "a", "ndments"}},
	}
	for _, tc := range cases {
		if got := Layout(tc.word); got != tc.want {
			t.Fatalf("Layout(%q) = %+v, want %+v", tc.word, got, tc.want)
		}
	}
}

func TestLayoutEmpty(t *testing.T) {
	if got := Layout(""); got != (Parts{}) {
		t.Fatalf("expected empty parts, got %+v", got)
	}
}
