package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	start := time.Unix(0, 0)
	minutes, wpm := SessionMetrics(model.ReadingSession{
		StartedAt:  start,
		EndedAt:    start.Add(90 * time.Second),
		WordsShown: 450,
	})
	if minutes != 1.5 || wpm != 300 {
		t.Fatalf("unexpected metrics %v %v", minutes, wpm)
	}
	if m, w := SessionMetrics(model.ReadingSession{StartedAt: start, EndedAt: start}); m != 0 || w != 0 {
		t.Fatalf("zero-length session should report zeros")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "+++" {
		t.Fatalf("flat series: %q", got)
	}
	got := Sparkline([]float64{0, 10})
	if got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestRenderCurveFitsWidth(t *testing.T) {
	sessions := make([]model.ReadingSession, 50)
	for i := range sessions {
		sessions[i].FinalWPM = float64(200 + i)
	}
	var buf bytes.Buffer
	if err := RenderCurve(&buf, sessions, 1, 24); err != nil {
		t.Fatalf("render: %v", err)
	}
	line := strings.TrimRight(buf.String(), "\n")
	if len(line) != 24 {
		t.Fatalf("expected 24 columns, got %d: %q", len(line), line)
	}
}

func TestTerminalWidthFallback(t *testing.T) {
	var buf bytes.Buffer
	if got := TerminalWidth(&buf); got != 80 {
		t.Fatalf("expected fallback width, got %d", got)
	}
}
