// Package goal parses and evaluates session goals.
package goal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
)

// None returns the goal that never stops playback.
func None() model.Goal {
	return model.Goal{Kind: model.GoalNone}
}

// TimeLimit stops playback after minutes of reading.
func TimeLimit(minutes int) model.Goal {
	return model.Goal{Kind: model.GoalTime, Minutes: minutes}
}

// ChapterLimit stops playback after count chapters are finished.
func ChapterLimit(count int) model.Goal {
	return model.Goal{Kind: model.GoalChapters, Chapters: count}
}

// Parse accepts "none", "<n>m", "time:<n>", "<n>ch" and "chapters:<n>".
func Parse(value string) (model.Goal, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	switch {
	case v == "" || v == "none" || v == "off":
		return None(), nil
	case strings.HasPrefix(v, "time:"):
		return parseCount(v, strings.TrimPrefix(v, "time:"), TimeLimit)
	case strings.HasPrefix(v, "chapters:"):
		return parseCount(v, strings.TrimPrefix(v, "chapters:"), ChapterLimit)
	case strings.HasSuffix(v, "ch"):
		return parseCount(v, strings.TrimSuffix(v, "ch"), ChapterLimit)
	case strings.HasSuffix(v, "m"):
		return parseCount(v, strings.TrimSuffix(v, "m"), TimeLimit)
	}
	return model.Goal{}, fmt.Errorf("unknown goal %q (use none, 10m or 2ch)", value)
}

func parseCount(raw, num string, build func(int) model.Goal) (model.Goal, error) {
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n <= 0 {
		return model.Goal{}, fmt.Errorf("invalid goal %q: count must be a positive integer", raw)
	}
	return build(n), nil
}

// String renders a goal in the form Parse accepts.
func String(g model.Goal) string {
	switch g.Kind {
	case model.GoalTime:
		return fmt.Sprintf("%dm", g.Minutes)
	case model.GoalChapters:
		return fmt.Sprintf("%dch", g.Chapters)
	default:
		return "none"
	}
}

// Label is a human-readable description.
func Label(g model.Goal) string {
	switch g.Kind {
	case model.GoalTime:
		return fmt.Sprintf("%d min", g.Minutes)
	case model.GoalChapters:
		if g.Chapters == 1 {
			return "1 chapter"
		}
		return fmt.Sprintf("%d chapters", g.Chapters)
	default:
		return "no goal"
	}
}

// TimeReached reports whether a time goal is satisfied.
func TimeReached(g model.Goal, startedAt, now time.Time) bool {
	if g.Kind != model.GoalTime || g.Minutes <= 0 {
		return false
	}
	return now.Sub(startedAt) >= time.Duration(g.Minutes)*time.Minute
}

// ChaptersReached reports whether a chapter goal is satisfied.
func ChaptersReached(g model.Goal, completed int) bool {
	if g.Kind != model.GoalChapters || g.Chapters <= 0 {
		return false
	}
	return completed >= g.Chapters
}

var presets = []model.Goal{
	None(),
	TimeLimit(10),
	TimeLimit(20),
	ChapterLimit(1),
	ChapterLimit(3),
}

// Next cycles through the preset goals offered in the reader.
func Next(g model.Goal) model.Goal {
	for i, p := range presets {
		if p == g {
			return presets[(i+1)%len(presets)]
		}
	}
	return presets[0]
}
