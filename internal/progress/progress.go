// Package progress computes reading completion and throttles cursor saves.
package progress

import (
	"context"
	"fmt"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
)

// SaveEvery bounds how many words may be advanced between cursor saves.
const SaveEvery = 50

// Report is a progress snapshot for presentation.
type Report struct {
	Percent  float64
	Label    string
	Training bool
}

// Percent returns completion for the cursor. Training progress is local to
// the training chapter. Real chapters are weighted equally across the book;
// forced marks the chapter as fully read regardless of the word index.
func Percent(c model.Cursor, corpus *model.Corpus, forced bool) float64 {
	ch, ok := corpus.Chapter(c.Chapter)
	if !ok {
		return 0
	}
	local := 0.0
	if forced {
		local = 1
	} else if n := len(ch.Words); n > 0 {
		local = clamp01(float64(c.Word) / float64(n))
	}
	if c.IsTraining() {
		return local * 100
	}
	total := float64(corpus.Len())
	return float64(c.Chapter)/total*100 + local*(100/total)
}

// Build returns the percentage and a display label for the cursor.
func Build(c model.Cursor, corpus *model.Corpus, forced bool) Report {
	pct := Percent(c, corpus, forced)
	if c.IsTraining() {
		return Report{Percent: pct, Label: fmt.Sprintf("Training %d%%", int(pct)), Training: true}
	}
	title := ""
	if ch, ok := corpus.Chapter(c.Chapter); ok {
		title = ch.Title
	}
	return Report{Percent: pct, Label: fmt.Sprintf("%s · %.1f%%", title, pct)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Saver persists the cursor.
type Saver interface {
	SaveCursor(ctx context.Context, c model.Cursor) error
}

// Tracker decides when the cursor must be written to durable storage.
type Tracker struct {
	saver Saver
	every int
	last  model.Cursor
	valid bool
}

// NewTracker returns a tracker saving at least every SaveEvery words.
func NewTracker(saver Saver) *Tracker {
	return &Tracker{saver: saver, every: SaveEvery}
}

// Mark records c as already persisted.
func (t *Tracker) Mark(c model.Cursor) {
	t.last = c
	t.valid = true
}

// Advance saves c when it has moved far enough from the last save.
func (t *Tracker) Advance(ctx context.Context, c model.Cursor) (bool, error) {
	if c.IsTraining() {
		return false, nil
	}
	if t.valid && c.Chapter == t.last.Chapter && abs(c.Word-t.last.Word) < t.every {
		return false, nil
	}
	return true, t.save(ctx, c)
}

// Flush saves c unconditionally, skipping the training chapter.
func (t *Tracker) Flush(ctx context.Context, c model.Cursor) error {
	if c.IsTraining() {
		return nil
	}
	return t.save(ctx, c)
}

func (t *Tracker) save(ctx context.Context, c model.Cursor) error {
	if t.saver == nil {
		return nil
	}
	if err := t.saver.SaveCursor(ctx, c); err != nil {
		return err
	}
	t.Mark(c)
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
