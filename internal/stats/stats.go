// Package stats contains reading history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics returns the reading time and the effective words per
// minute of a session, pauses excluded.
func SessionMetrics(s model.ReadingSession) (minutes, wpm float64) {
	d := s.EndedAt.Sub(s.StartedAt)
	if d <= 0 {
		return 0, 0
	}
	minutes = d.Minutes()
	return minutes, float64(s.WordsShown) / minutes
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints totals for the sessions.
func RenderSummary(w io.Writer, sessions []model.ReadingSession) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No reading sessions found.")
		return err
	}
	var (
		totalMinutes, totalWPM, bestWPM float64
		words, chapters                 int
	)
	for _, s := range sessions {
		minutes, wpm := SessionMetrics(s)
		totalMinutes += minutes
		totalWPM += s.FinalWPM
		if wpm > bestWPM {
			bestWPM = wpm
		}
		words += s.WordsShown
		chapters += s.ChaptersCompleted
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Reading time: %s", formatMinutes(totalMinutes)),
		fmt.Sprintf("Words read: %d", words),
		fmt.Sprintf("Chapters completed: %d", chapters),
		fmt.Sprintf("Avg final WPM: %.0f", totalWPM/count),
		fmt.Sprintf("Best effective WPM: %.0f", bestWPM),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSessions prints one row per session. title maps a chapter index to
// its display name; long titles are cut to keep rows within width.
func RenderSessions(w io.Writer, sessions []model.ReadingSession, width int, title func(chapter int) string) error {
	if len(sessions) == 0 {
		return nil
	}
	if title == nil {
		title = func(chapter int) string { return fmt.Sprintf("#%d", chapter+1) }
	}
	if _, err := fmt.Fprintln(w, "Recent Sessions"); err != nil {
		return err
	}
	headers := []string{"Ended", "From", "To", "Words", "Minutes", "WPM", "Goal", "Stop"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		minutes, _ := SessionMetrics(s)
		rows = append(rows, []string{
			s.EndedAt.Local().Format(time.DateTime),
			title(s.StartCursor.Chapter),
			title(s.EndCursor.Chapter),
			fmt.Sprintf("%d", s.WordsShown),
			fmt.Sprintf("%.1f", minutes),
			fmt.Sprintf("%.0f", s.FinalWPM),
			s.Goal,
			string(s.Reason),
		})
	}
	tbl := table{
		headers: headers,
		rows:    rows,
		right:   map[int]bool{3: true, 4: true, 5: true},
		flex:    map[int]bool{1: true, 2: true},
	}
	for _, line := range tbl.lines(width) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurve prints a smoothed sparkline of final WPM per session, keeping
// the most recent sessions that fit in width.
func RenderCurve(w io.Writer, sessions []model.ReadingSession, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		values[i] = s.FinalWPM
	}
	values = MovingAverage(values, window)
	const label = "WPM "
	if avail := width - len(label); avail > 0 && len(values) > avail {
		values = values[len(values)-avail:]
	}
	_, err := fmt.Fprintf(w, "%s%s\n", label, Sparkline(values))
	return err
}

func formatMinutes(m float64) string {
	d := time.Duration(m * float64(time.Minute)).Round(time.Second)
	return d.String()
}
