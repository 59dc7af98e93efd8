package stats

import (
	"context"
	"io"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
)

// Lister reads the reading history.
type Lister interface {
	ListSessions(ctx context.Context, cfg model.HistoryConfig) ([]model.ReadingSession, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Sessions []model.ReadingSession
	Window   int
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st Lister, cfg model.HistoryConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	window := len(sessions) / 5
	if window < 1 {
		window = 1
	}
	return Report{Sessions: sessions, Window: window}, nil
}

// Render writes the summary, session table and WPM curve sized to width.
func (r Report) Render(w io.Writer, width int, title func(chapter int) string) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if err := RenderSessions(w, r.Sessions, width, title); err != nil {
		return err
	}
	return RenderCurve(w, r.Sessions, r.Window, width)
}
