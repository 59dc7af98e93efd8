package progress

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
)

func testCorpus(chapters, words int) *model.Corpus {
	c := &model.Corpus{}
	for i := 0; i < chapters; i++ {
		ch := model.Chapter{Title: "Ch"}
		for j := 0; j < words; j++ {
			ch.Words = append(ch.Words, model.Word{Text: "w"})
		}
		c.Chapters = append(c.Chapters, ch)
	}
	c.Training = model.Chapter{Title: "Training", Words: make([]model.Word, 20)}
	return c
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPercentRealChapters(t *testing.T) {
	corpus := testCorpus(4, 10)
	cases := []struct {
		cursor model.Cursor
		forced bool
		want   float64
	}{
		{model.Cursor{Chapter: 0, Word: 0}, false, 0},
		{model.Cursor{Chapter: 0, Word: 5}, false, 12.5},
		{model.Cursor{Chapter: 2, Word: 0}, false, 50},
		{model.Cursor{Chapter: 3, Word: 10}, false, 100},
		{model.Cursor{Chapter: 1, Word: 2}, true, 50},
	}
	for _, tc := range cases {
		if got := Percent(tc.cursor, corpus, tc.forced); !near(got, tc.want) {
			t.Fatalf("Percent(%+v, forced=%v) = %v, want %v", tc.cursor, tc.forced, got, tc.want)
		}
	}
}

func TestPercentTrainingIsLocal(t *testing.T) {
	corpus := testCorpus(4, 10)
	report := Build(model.Cursor{Chapter: model.TrainingChapter, Word: 5}, corpus, false)
	if !report.Training || !near(report.Percent, 25) {
		t.Fatalf("unexpected training report: %+v", report)
	}
	if report.Label != "Training 25%" {
		t.Fatalf("unexpected training label %q", report.Label)
	}
}

func TestPercentOutOfRange(t *testing.T) {
	if got := Percent(model.Cursor{Chapter: 9}, testCorpus(1, 1), false); got != 0 {
		t.Fatalf("expected 0 for unknown chapter, got %v", got)
	}
	if got := Percent(model.Cursor{}, &model.Corpus{}, false); got != 0 {
		t.Fatalf("expected 0 for empty corpus, got %v", got)
	}
}

func TestBuildLabel(t *testing.T) {
	report := Build(model.Cursor{Chapter: 1, Word: 0}, testCorpus(2, 4), false)
	if !strings.Contains(report.Label, "50.0%") {
		t.Fatalf("unexpected label %q", report.Label)
	}
}

type memorySaver struct {
	saved []model.Cursor
	err   error
}

func (m *memorySaver) SaveCursor(_ context.Context, c model.Cursor) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, c)
	return nil
}

func TestTrackerSavesEveryFiftyWords(t *testing.T) {
	saver := &memorySaver{}
	tr := NewTracker(saver)
	tr.Mark(model.Cursor{Chapter: 0, Word: 0})
	ctx := context.Background()
	for w := 1; w <= 120; w++ {
		if _, err := tr.Advance(ctx, model.Cursor{Chapter: 0, Word: w}); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if len(saver.saved) != 2 {
		t.Fatalf("expected 2 saves, got %d: %v", len(saver.saved), saver.saved)
	}
	if saver.saved[0].Word != 50 || saver.saved[1].Word != 100 {
		t.Fatalf("unexpected save points: %v", saver.saved)
	}
}

func TestTrackerSavesOnChapterChange(t *testing.T) {
	saver := &memorySaver{}
	tr := NewTracker(saver)
	tr.Mark(model.Cursor{Chapter: 0, Word: 40})
	saved, err := tr.Advance(context.Background(), model.Cursor{Chapter: 1, Word: 0})
	if err != nil || !saved {
		t.Fatalf("expected save on chapter change, saved=%v err=%v", saved, err)
	}
}

func TestTrackerSkipsTraining(t *testing.T) {
	saver := &memorySaver{}
	tr := NewTracker(saver)
	ctx := context.Background()
	if _, err := tr.Advance(ctx, model.Cursor{Chapter: model.TrainingChapter, Word: 99}); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := tr.Flush(ctx, model.Cursor{Chapter: model.TrainingChapter, Word: 3}); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(saver.saved) != 0 {
		t.Fatalf("training cursor must not be saved: %v", saver.saved)
	}
}

func TestTrackerFlushError(t *testing.T) {
	saver := &memorySaver{err: errors.New("disk full")}
	tr := NewTracker(saver)
	if err := tr.Flush(context.Background(), model.Cursor{Chapter: 0, Word: 1}); err == nil {
		t.Fatalf("expected flush error")
	}
}
