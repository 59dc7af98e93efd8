package tui

import (
	"testing"

	"github.com/benjcrowley/bom-speed-reader/internal/scheduler"
)

func TestBridgeDrainsInOrder(t *testing.T) {
	b := NewBridge()
	b.ChapterChanged(2, "Alma 32")
	b.PlayStateChanged(true)
	b.Notify(scheduler.Notice{Kind: scheduler.NoticeGoalReached, Message: "Goal reached"})

	msg, ok := b.Wait()().(eventsMsg)
	if !ok || len(msg) != 3 {
		t.Fatalf("expected three queued events, got %#v", msg)
	}
	if ch, ok := msg[0].(ChapterMsg); !ok || ch.Index != 2 {
		t.Fatalf("unexpected first event %#v", msg[0])
	}
	if _, ok := msg[1].(PlayStateMsg); !ok {
		t.Fatalf("unexpected second event %#v", msg[1])
	}
	if n, ok := msg[2].(NoticeMsg); !ok || n.Notice.Message != "Goal reached" {
		t.Fatalf("unexpected third event %#v", msg[2])
	}
}

func TestBridgeCopiesTitles(t *testing.T) {
	b := NewBridge()
	titles := []string{"1 Nephi 1"}
	b.ChapterListChanged(titles)
	titles[0] = "changed"
	msg := b.Wait()().(eventsMsg)
	if got := msg[0].(ChapterListMsg).Titles[0]; got != "1 Nephi 1" {
		t.Fatalf("expected copied titles, got %q", got)
	}
}

func TestBridgeCloseReleasesWait(t *testing.T) {
	b := NewBridge()
	b.Close()
	b.Close()
	if msg := b.Wait()(); msg != nil {
		t.Fatalf("expected nil after close, got %#v", msg)
	}
}
