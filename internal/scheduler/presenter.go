package scheduler

import (
	"github.com/benjcrowley/bom-speed-reader/internal/orp"
	"github.com/benjcrowley/bom-speed-reader/internal/progress"
)

// WordView is everything needed to render one RSVP frame.
type WordView struct {
	Parts     orp.Parts
	Prev      string
	Next      string
	WPM       float64
	Reference string
}

// ContextView is the verse around the cursor, shown while paused. Word is
// the index of the current word within Text's whitespace-separated words.
type ContextView struct {
	Reference string
	Text      string
	Word      int
}

// NoticeKind enumerates terminal playback notifications.
type NoticeKind int

const (
	NoticeGoalReached NoticeKind = iota + 1
	NoticeTrainingComplete
	NoticeBookCompleted
)

// Notice is a one-time notification emitted after playback stops.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Presenter receives display events. Calls happen while the scheduler holds
// its lock, so implementations must not call back into the scheduler.
type Presenter interface {
	ShowWord(WordView)
	ShowContext(ContextView)
	ShowProgress(progress.Report)
	ChapterListChanged(titles []string)
	ChapterChanged(index int, title string)
	PlayStateChanged(playing bool)
	Notify(Notice)
}

type nopPresenter struct{}

func (nopPresenter) ShowWord(WordView) {}
func (nopPresenter) ShowContext(ContextView) {}
func (nopPresenter) ShowProgress(progress.Report) {}
func (nopPresenter) ChapterListChanged([]string) {}
func (nopPresenter) ChapterChanged(int, string) {}
func (nopPresenter) PlayStateChanged(bool) {}
func (nopPresenter) Notify(Notice) {}
