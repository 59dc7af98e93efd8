package goal

import (
	"testing"
	"time"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
)

func TestParse(t *testing.T) {
	cases := map[string]model.Goal{
		"":            None(),
		"none":        None(),
		"10m":         TimeLimit(10),
		"time:25":     TimeLimit(25),
		"2ch":         ChapterLimit(2),
		"chapters:1":  ChapterLimit(1),
		" Chapters:3": ChapterLimit(3),
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %+v, want %+v", in, got, want)
		}
		if again, err := Parse(String(got)); err != nil || again != got {
			t.Fatalf("String(%+v) = %q does not parse back", got, String(got))
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"0m", "-2ch", "soon", "time:x", "chapters:"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestTimeReached(t *testing.T) {
	start := time.Unix(0, 0)
	g := TimeLimit(10)
	if TimeReached(g, start, start.Add(9*time.Minute+59*time.Second)) {
		t.Fatalf("goal should not be reached before 10 minutes")
	}
	if !TimeReached(g, start, start.Add(10*time.Minute)) {
		t.Fatalf("goal should be reached at 10 minutes")
	}
	if TimeReached(None(), start, start.Add(time.Hour)) {
		t.Fatalf("none goal is never reached")
	}
	if TimeReached(ChapterLimit(1), start, start.Add(time.Hour)) {
		t.Fatalf("chapter goal is not a time goal")
	}
}

func TestChaptersReached(t *testing.T) {
	if ChaptersReached(ChapterLimit(2), 1) {
		t.Fatalf("goal should not be reached after 1 chapter")
	}
	if !ChaptersReached(ChapterLimit(2), 2) {
		t.Fatalf("goal should be reached after 2 chapters")
	}
	if ChaptersReached(TimeLimit(1), 100) {
		t.Fatalf("time goal is not a chapter goal")
	}
}

func TestNextCycles(t *testing.T) {
	g := None()
	seen := map[model.Goal]bool{}
	for i := 0; i < len(presets); i++ {
		seen[g] = true
		g = Next(g)
	}
	if g != None() {
		t.Fatalf("expected cycle back to none, got %+v", g)
	}
	if len(seen) != len(presets) {
		t.Fatalf("expected %d distinct presets, got %d", len(presets), len(seen))
	}
	if Next(TimeLimit(7)) != None() {
		t.Fatalf("unknown goal should restart the cycle")
	}
}
