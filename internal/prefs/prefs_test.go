package prefs

import (
	"context"
	"errors"
	"testing"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
)

func corpusWith(chapterWords ...int) *model.Corpus {
	c := &model.Corpus{Training: model.Chapter{Title: "Training", Words: make([]model.Word, 30)}}
	for _, n := range chapterWords {
		c.Chapters = append(c.Chapters, model.Chapter{Words: make([]model.Word, n)})
	}
	return c
}

func TestCursorNaNWordIndex(t *testing.T) {
	g := New(NewMemory(map[string]string{
		KeyChapter: "1",
		KeyWord:    "NaN",
	}), nil)
	c := g.Cursor(context.Background(), corpusWith(10, 10))
	if c.Chapter != 1 || c.Word != 0 {
		t.Fatalf("expected {1 0}, got %+v", c)
	}
}

func TestCursorCorruptValues(t *testing.T) {
	corpus := corpusWith(10, 10)
	cases := []struct {
		name   string
		values map[string]string
		want   model.Cursor
	}{
		{"missing", nil, model.Cursor{}},
		{"garbage chapter", map[string]string{KeyChapter: "abc", KeyWord: "3"}, model.Cursor{}},
		{"chapter out of range", map[string]string{KeyChapter: "7", KeyWord: "3"}, model.Cursor{}},
		{"negative word", map[string]string{KeyChapter: "1", KeyWord: "-4"}, model.Cursor{Chapter: 1}},
		{"word past end", map[string]string{KeyChapter: "0", KeyWord: "11"}, model.Cursor{}},
		{"fractional word", map[string]string{KeyChapter: "0", KeyWord: "2.5"}, model.Cursor{}},
		{"exponent word", map[string]string{KeyChapter: "0", KeyWord: "1e1"}, model.Cursor{}},
		{"integral float word", map[string]string{KeyChapter: "0", KeyWord: "4.0"}, model.Cursor{}},
		{"overflowing word", map[string]string{KeyChapter: "0", KeyWord: "99999999999999999999"}, model.Cursor{}},
		{"word at end", map[string]string{KeyChapter: "0", KeyWord: "10"}, model.Cursor{Word: 10}},
		{"training", map[string]string{KeyChapter: "training", KeyWord: "12"}, model.Cursor{Chapter: model.TrainingChapter, Word: 12}},
		{"valid", map[string]string{KeyChapter: "1", KeyWord: " 7 "}, model.Cursor{Chapter: 1, Word: 7}},
	}
	for _, tc := range cases {
		g := New(NewMemory(tc.values), nil)
		if got := g.Cursor(context.Background(), corpus); got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestCursorRoundTrip(t *testing.T) {
	ctx := context.Background()
	g := New(NewMemory(nil), nil)
	corpus := corpusWith(5, 5, 5)
	for _, c := range []model.Cursor{{Chapter: 2, Word: 4}, {Chapter: model.TrainingChapter, Word: 9}} {
		if err := g.SaveCursor(ctx, c); err != nil {
			t.Fatalf("save: %v", err)
		}
		if got := g.Cursor(ctx, corpus); got != c {
			t.Fatalf("got %+v, want %+v", got, c)
		}
	}
}

func TestTargetWPM(t *testing.T) {
	ctx := context.Background()
	cases := map[string]int{
		"":       DefaultTargetWPM,
		"NaN":    DefaultTargetWPM,
		"Inf":    DefaultTargetWPM,
		"20":     DefaultTargetWPM,
		"999999": DefaultTargetWPM,
		"1e2":    DefaultTargetWPM,
		"300.0":  DefaultTargetWPM,
		" 350 ":  350,
		"350":    350,
	}
	for raw, want := range cases {
		values := map[string]string{}
		if raw != "" {
			values[KeyTargetWPM] = raw
		}
		g := New(NewMemory(values), nil)
		if got := g.TargetWPM(ctx); got != want {
			t.Fatalf("TargetWPM(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	g := New(NewMemory(map[string]string{KeyTheme: "purple"}), nil)
	if g.Theme(ctx) != model.ThemeDark {
		t.Fatalf("unknown theme should fall back to dark")
	}
	if err := g.SaveTheme(ctx, model.ThemeLight); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	if g.Theme(ctx) != model.ThemeLight {
		t.Fatalf("expected light theme")
	}
}

func TestSyncFingerprint(t *testing.T) {
	ctx := context.Background()
	g := New(NewMemory(nil), nil)
	changed, err := g.SyncFingerprint(ctx, "abc")
	if err != nil || changed {
		t.Fatalf("first sync should not report change: changed=%v err=%v", changed, err)
	}
	changed, _ = g.SyncFingerprint(ctx, "abc")
	if changed {
		t.Fatalf("same fingerprint should not report change")
	}
	changed, _ = g.SyncFingerprint(ctx, "def")
	if !changed {
		t.Fatalf("new fingerprint should report change")
	}
}

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("locked")
}

func (failingBackend) Set(context.Context, string, string) error {
	return errors.New("locked")
}

func TestBackendErrors(t *testing.T) {
	ctx := context.Background()
	g := New(failingBackend{}, nil)
	if got := g.TargetWPM(ctx); got != DefaultTargetWPM {
		t.Fatalf("read error should fall back to default, got %d", got)
	}
	if err := g.SaveCursor(ctx, model.Cursor{}); err == nil {
		t.Fatalf("expected save error")
	}
}
