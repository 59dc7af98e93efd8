// Package segment splits chapter sources into display words.
package segment

import (
	"strings"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
)

// Source is a chapter's raw text in one of the supported shapes.
type Source interface {
	verses() []model.VerseRef
}

// VerseList is a chapter made of individual verses.
type VerseList []model.VerseRef

func (v VerseList) verses() []model.VerseRef { return v }

// FlatText is a chapter stored as a single text block.
type FlatText model.VerseRef

func (f FlatText) verses() []model.VerseRef { return []model.VerseRef{model.VerseRef(f)} }

// Segment splits every verse on whitespace runs. A verse without text falls
// back to its reference as the literal text.
func Segment(src Source) []model.Word {
	if src == nil {
		return nil
	}
	var words []model.Word
	for _, verse := range src.verses() {
		if verse.Text == "" {
			verse.Text = verse.Reference
		}
		for _, token := range strings.Fields(verse.Text) {
			words = append(words, model.Word{Text: token, Verse: verse})
		}
	}
	return words
}

// Chapter builds a chapter from its source.
func Chapter(title, book string, number int, src Source) model.Chapter {
	return model.Chapter{
		Title:  title,
		Book:   book,
		Number: number,
		Words:  Segment(src),
	}
}
