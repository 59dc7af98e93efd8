// Package orp computes the optimal recognition point of a word.
package orp

import "math"

// Parts is a word split around its pivot character.
type Parts struct {
	Left  string
	Pivot string
	Right string
}

// String joins the parts back into the original word.
func (p Parts) String() string {
	return p.Left + p.Pivot + p.Right
}

// PivotIndex returns the rune index of the pivot for a word of n runes.
func PivotIndex(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(float64(n-1) * 0.35))
}

// Layout splits word around the rune at roughly 35% of its length.
func Layout(word string) Parts {
	runes := []rune(word)
	if len(runes) == 0 {
		return Parts{}
	}
	idx := PivotIndex(len(runes))
	return Parts{
		Left:  string(runes[:idx]),
		Pivot: string(runes[idx]),
		Right: string(runes[idx+1:]),
	}
}
