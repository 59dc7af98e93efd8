package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/benjcrowley/bom-speed-reader/internal/progress"
	"github.com/benjcrowley/bom-speed-reader/internal/scheduler"
)

// WordMsg carries the word to flash.
type WordMsg struct {
	View scheduler.WordView
}

// ContextMsg carries the verse shown while paused.
type ContextMsg struct {
	View scheduler.ContextView
}

// ProgressMsg carries reading progress.
type ProgressMsg struct {
	Report progress.Report
}

// ChapterListMsg carries the chapter titles for the picker.
type ChapterListMsg struct {
	Titles []string
}

// ChapterMsg reports the loaded chapter.
type ChapterMsg struct {
	Index int
	Title string
}

// PlayStateMsg reports play or pause.
type PlayStateMsg struct {
	Playing bool
}

// NoticeMsg carries a one-time notification.
type NoticeMsg struct {
	Notice scheduler.Notice
}

// eventsMsg is a batch of queued presenter events in emission order.
type eventsMsg []tea.Msg

// Bridge adapts scheduler events to Bubble Tea messages. The scheduler calls
// it while holding its own lock, so events are queued and drained by Wait
// instead of being sent to the program directly.
type Bridge struct {
	mu     sync.Mutex
	queue  []tea.Msg
	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewBridge returns an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Wait blocks until events are queued and returns them as one message. It
// must be re-issued after every batch. After Close it returns nil.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.notify:
		case <-b.done:
			return nil
		}
		b.mu.Lock()
		events := b.queue
		b.queue = nil
		b.mu.Unlock()
		return eventsMsg(events)
	}
}

// Close releases any pending Wait.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

func (b *Bridge) push(msg tea.Msg) {
	b.mu.Lock()
	b.queue = append(b.queue, msg)
	b.mu.Unlock()
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// ShowWord implements scheduler.Presenter.
func (b *Bridge) ShowWord(v scheduler.WordView) { b.push(WordMsg{View: v}) }

// ShowContext implements scheduler.Presenter.
func (b *Bridge) ShowContext(v scheduler.ContextView) { b.push(ContextMsg{View: v}) }

// ShowProgress implements scheduler.Presenter.
func (b *Bridge) ShowProgress(r progress.Report) { b.push(ProgressMsg{Report: r}) }

// ChapterListChanged implements scheduler.Presenter.
func (b *Bridge) ChapterListChanged(titles []string) {
	b.push(ChapterListMsg{Titles: append([]string(nil), titles...)})
}

// ChapterChanged implements scheduler.Presenter.
func (b *Bridge) ChapterChanged(index int, title string) {
	b.push(ChapterMsg{Index: index, Title: title})
}

// PlayStateChanged implements scheduler.Presenter.
func (b *Bridge) PlayStateChanged(playing bool) { b.push(PlayStateMsg{Playing: playing}) }

// Notify implements scheduler.Presenter.
func (b *Bridge) Notify(n scheduler.Notice) { b.push(NoticeMsg{Notice: n}) }
