package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
	"github.com/benjcrowley/bom-speed-reader/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "speedreader.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Hour)
		rs := model.ReadingSession{
			ID:          uuid.NewString(),
			StartedAt:   start,
			EndedAt:     start.Add(2 * time.Minute),
			StartCursor: model.Cursor{Chapter: i},
			EndCursor:   model.Cursor{Chapter: i, Word: 600},
			WordsShown:  600,
			FinalWPM:    float64(300 + i*50),
			Goal:        "none",
			Reason:      model.StopPaused,
		}
		if err := st.RecordSession(ctx, rs); err != nil {
			t.Fatalf("record session: %v", err)
		}
		ids = append(ids, rs.ID)
	}

	report, err := BuildReport(ctx, st, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].ID != ids[1] || report.Sessions[1].ID != ids[2] {
		t.Fatalf("unexpected session order: %+v", report.Sessions)
	}

	var buf bytes.Buffer
	titles := []string{"1 Nephi 1", "1 Nephi 2", "1 Nephi 3"}
	if err := report.Render(&buf, 80, func(ch int) string { return titles[ch] }); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Words read: 1200", "Best effective WPM: 300", "1 Nephi 3", "WPM "} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No reading sessions") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
