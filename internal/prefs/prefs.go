// Package prefs reads and writes the reader's persisted preferences.
package prefs

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
)

// Keys used in the backing key-value store.
const (
	KeyTargetWPM   = "bom_target_wpm"
	KeyChapter     = "bom_chapter_index"
	KeyWord        = "bom_word_index"
	KeyTheme       = "bom_theme"
	KeyFingerprint = "bom_corpus_fingerprint"

	trainingValue = "training"
)

// Defaults applied when a value is missing or corrupt.
const (
	DefaultTargetWPM = 400
	MinTargetWPM     = 50
	MaxTargetWPM     = 1500
)

// Backend is a durable string key-value store.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Gateway validates values on the way in and out of a Backend.
type Gateway struct {
	backend Backend
	logger  *slog.Logger
}

// New wraps backend. A nil logger discards validation warnings.
func New(backend Backend, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gateway{backend: backend, logger: logger}
}

// TargetWPM returns the saved target speed or DefaultTargetWPM.
func (g *Gateway) TargetWPM(ctx context.Context) int {
	n, ok := g.readInt(ctx, KeyTargetWPM)
	if !ok {
		return DefaultTargetWPM
	}
	if n < MinTargetWPM || n > MaxTargetWPM {
		g.logger.Warn("discarding out of range target wpm", "value", n)
		return DefaultTargetWPM
	}
	return n
}

// SaveTargetWPM persists the target speed.
func (g *Gateway) SaveTargetWPM(ctx context.Context, wpm int) error {
	return g.set(ctx, KeyTargetWPM, strconv.Itoa(wpm))
}

// Cursor returns the saved cursor validated against corpus. Any part that
// fails to parse or falls outside the corpus resets to the start.
func (g *Gateway) Cursor(ctx context.Context, corpus *model.Corpus) model.Cursor {
	raw, ok := g.get(ctx, KeyChapter)
	if !ok {
		return model.Cursor{}
	}
	var c model.Cursor
	if strings.TrimSpace(raw) == trainingValue {
		c.Chapter = model.TrainingChapter
	} else {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 || n >= corpus.Len() {
			g.logger.Warn("discarding corrupt chapter index", "value", raw)
			return model.Cursor{}
		}
		c.Chapter = n
	}
	ch, _ := corpus.Chapter(c.Chapter)
	w, ok := g.readInt(ctx, KeyWord)
	if !ok {
		return c
	}
	if w < 0 || w > len(ch.Words) {
		g.logger.Warn("discarding out of range word index", "value", w, "chapter", c.Chapter)
		return c
	}
	c.Word = w
	return c
}

// SaveCursor persists the chapter and word index.
func (g *Gateway) SaveCursor(ctx context.Context, c model.Cursor) error {
	chapter := strconv.Itoa(c.Chapter)
	if c.IsTraining() {
		chapter = trainingValue
	}
	if err := g.set(ctx, KeyChapter, chapter); err != nil {
		return err
	}
	return g.set(ctx, KeyWord, strconv.Itoa(c.Word))
}

// Theme returns the saved theme or ThemeDark.
func (g *Gateway) Theme(ctx context.Context) model.Theme {
	raw, _ := g.get(ctx, KeyTheme)
	return ParseTheme(raw)
}

// SaveTheme persists the theme.
func (g *Gateway) SaveTheme(ctx context.Context, theme model.Theme) error {
	return g.set(ctx, KeyTheme, string(ParseTheme(string(theme))))
}

// SyncFingerprint stores fingerprint and reports whether it differs from the
// previously stored one. A changed corpus invalidates the saved cursor.
func (g *Gateway) SyncFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	if fingerprint == "" {
		return false, nil
	}
	prev, ok := g.get(ctx, KeyFingerprint)
	if ok && prev == fingerprint {
		return false, nil
	}
	if err := g.set(ctx, KeyFingerprint, fingerprint); err != nil {
		return false, err
	}
	return ok, nil
}

// ResetCursor clears the saved position.
func (g *Gateway) ResetCursor(ctx context.Context) error {
	return g.SaveCursor(ctx, model.Cursor{})
}

// ParseTheme maps a stored value onto a known theme.
func ParseTheme(raw string) model.Theme {
	switch model.Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case model.ThemeLight:
		return model.ThemeLight
	default:
		return model.ThemeDark
	}
}

func (g *Gateway) readInt(ctx context.Context, key string) (int, bool) {
	raw, ok := g.get(ctx, key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		g.logger.Warn("discarding corrupt value", "key", key, "value", raw)
		return 0, false
	}
	return n, true
}

func (g *Gateway) get(ctx context.Context, key string) (string, bool) {
	if g.backend == nil {
		return "", false
	}
	v, ok, err := g.backend.Get(ctx, key)
	if err != nil {
		g.logger.Warn("failed to read preference", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

func (g *Gateway) set(ctx context.Context, key, value string) error {
	if g.backend == nil {
		return nil
	}
	if err := g.backend.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Memory is an in-process Backend.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty Memory backend seeded with values.
func NewMemory(values map[string]string) *Memory {
	m := &Memory{values: map[string]string{}}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Get implements Backend.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Backend.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
