// Package scheduler drives word-by-word RSVP playback.
//
// A Scheduler owns the cursor, speed, session and goal. Playback advances by
// a single cancellable timer slot: every transition cancels the slot before
// optionally re-arming it, and a timer that fires after being superseded is
// ignored by generation check.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benjcrowley/bom-speed-reader/internal/goal"
	"github.com/benjcrowley/bom-speed-reader/internal/model"
	"github.com/benjcrowley/bom-speed-reader/internal/orp"
	"github.com/benjcrowley/bom-speed-reader/internal/pacing"
	"github.com/benjcrowley/bom-speed-reader/internal/progress"
	"github.com/benjcrowley/bom-speed-reader/internal/wakelock"
)

// ErrChapterOutOfRange is returned when selecting a chapter that does not exist.
var ErrChapterOutOfRange = errors.New("chapter out of range")

// State is the playback state.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// Positions persists cursor and speed preferences.
type Positions interface {
	SaveCursor(ctx context.Context, c model.Cursor) error
	SaveTargetWPM(ctx context.Context, wpm int) error
}

// SessionRecorder stores finished sessions in the reading history.
type SessionRecorder interface {
	RecordSession(ctx context.Context, s model.ReadingSession) error
}

// Options configures a Scheduler. Zero values fall back to no-op collaborators.
type Options struct {
	Presenter Presenter
	Positions Positions
	Recorder  SessionRecorder
	Clock     Clock
	WakeLock  wakelock.Lock
	Logger    *slog.Logger
	Goal      model.Goal
	TargetWPM float64
}

// Snapshot is a read-only copy of scheduler state.
type Snapshot struct {
	State             State
	Cursor            model.Cursor
	ChapterTitle      string
	ChapterWords      int
	CurrentWPM        float64
	TargetWPM         float64
	Goal              model.Goal
	ActiveGoal        model.Goal
	ChaptersCompleted int
	WordsShown        int
}

// Scheduler is the playback state machine.
type Scheduler struct {
	mu sync.Mutex

	corpus    *model.Corpus
	out       Presenter
	positions Positions
	recorder  SessionRecorder
	clock     Clock
	wake      wakelock.Lock
	logger    *slog.Logger
	tracker   *progress.Tracker

	state   State
	cursor  model.Cursor
	words   []model.Word
	speed   speed
	goal    model.Goal
	active  model.Goal
	session model.Session

	timer Timer
	gen   uint64
}

// New builds a stopped scheduler positioned at the first chapter. A nil
// corpus is treated as empty.
func New(corpus *model.Corpus, opts Options) *Scheduler {
	if corpus == nil {
		corpus = &model.Corpus{}
	}
	s := &Scheduler{
		corpus:    corpus,
		out:       opts.Presenter,
		positions: opts.Positions,
		recorder:  opts.Recorder,
		clock:     opts.Clock,
		wake:      opts.WakeLock,
		logger:    opts.Logger,
		goal:      opts.Goal,
	}
	if s.out == nil {
		s.out = nopPresenter{}
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.wake == nil {
		s.wake = wakelock.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	var saver progress.Saver
	if s.positions != nil {
		saver = s.positions
	}
	s.tracker = progress.NewTracker(saver)
	s.speed.target = clampTarget(opts.TargetWPM, defaultTarget)
	s.speed.reset()
	if ch, ok := corpus.Chapter(0); ok {
		s.words = ch.Words
	}
	return s
}

const defaultTarget = 400

// Restore positions the scheduler at c and announces the chapter list and
// current chapter. Invalid cursors fall back to the first chapter.
func (s *Scheduler) Restore(c model.Cursor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validCursor(c) {
		s.logger.Warn("restored cursor out of range, starting from the beginning", "chapter", c.Chapter, "word", c.Word)
		c = model.Cursor{}
	}
	s.out.ChapterListChanged(s.corpus.Titles())
	s.loadLocked(c)
	s.tracker.Mark(c)
}

// Play starts playback from a stopped state with a fresh session.
func (s *Scheduler) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Playing {
		return
	}
	s.startLocked(false)
}

// Stop pauses playback. Calling Stop while stopped has no effect.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(model.StopPaused)
}

// Toggle switches between playing and stopped.
func (s *Scheduler) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Playing {
		s.stopLocked(model.StopPaused)
		return
	}
	s.startLocked(false)
}

// Rewind moves the cursor back by the number of words readable in seconds
// at the current speed, clamped at the chapter start. Play state is kept.
func (s *Scheduler) Rewind(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return
	}
	if !validWPM(s.speed.current) {
		s.logger.Warn("invalid current wpm, resetting", "wpm", s.speed.current)
		s.speed.current = RampStartWPM
	}
	back := int(math.Floor(s.speed.current / 60 * seconds))
	s.cursor.Word -= back
	if s.cursor.Word < 0 {
		s.cursor.Word = 0
	}
	s.reportProgressLocked(false)
	if s.state == Playing {
		if len(s.words) > 0 {
			s.out.ShowWord(s.viewLocked(s.currentIndexLocked()))
		}
		return
	}
	s.showContextLocked()
	s.flushLocked()
}

// SelectChapter stops playback and loads chapter index from its start.
func (s *Scheduler) SelectChapter(index int) error {
	return s.Seek(model.Cursor{Chapter: index})
}

// SelectTraining stops playback and loads the training pseudo-chapter.
func (s *Scheduler) SelectTraining() {
	_ = s.Seek(model.Cursor{Chapter: model.TrainingChapter})
}

// Seek stops playback and moves the cursor to c.
func (s *Scheduler) Seek(c model.Cursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validCursor(c) {
		return fmt.Errorf("%w: chapter %d word %d", ErrChapterOutOfRange, c.Chapter, c.Word)
	}
	s.stopLocked(model.StopChapterChange)
	s.loadLocked(c)
	s.flushLocked()
	return nil
}

// SetTargetWPM changes the target speed. The new target is applied by the
// next tick's ramp step and never interrupts the pending delay.
func (s *Scheduler) SetTargetWPM(wpm float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed.target = clampTarget(wpm, s.speed.target)
	if s.positions != nil {
		if err := s.positions.SaveTargetWPM(context.Background(), int(s.speed.target)); err != nil {
			s.logger.Warn("failed to save target wpm", "error", err)
		}
	}
	return s.speed.target
}

// AdjustTargetWPM shifts the target speed by delta.
func (s *Scheduler) AdjustTargetWPM(delta float64) float64 {
	s.mu.Lock()
	target := s.speed.target + delta
	s.mu.Unlock()
	return s.SetTargetWPM(target)
}

// SelectGoal configures the goal armed by the next fresh play start.
func (s *Scheduler) SelectGoal(g model.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goal = g
}

// Snapshot returns a copy of the current state.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, _ := s.corpus.Chapter(s.cursor.Chapter)
	return Snapshot{
		State:             s.state,
		Cursor:            s.cursor,
		ChapterTitle:      ch.Title,
		ChapterWords:      len(s.words),
		CurrentWPM:        s.speed.current,
		TargetWPM:         s.speed.target,
		Goal:              s.goal,
		ActiveGoal:        s.active,
		ChaptersCompleted: s.session.ChaptersCompleted,
		WordsShown:        s.session.WordsShown,
	}
}

func (s *Scheduler) startLocked(preserveSpeed bool) {
	if len(s.words) == 0 {
		return
	}
	s.cancelLocked()
	if !preserveSpeed {
		s.speed.reset()
		s.active = s.goal
		s.session = model.Session{
			ID:          uuid.NewString(),
			StartedAt:   s.clock.Now(),
			StartCursor: s.cursor,
		}
	}
	if s.state != Playing {
		s.state = Playing
		if err := s.wake.Acquire(); err != nil {
			s.logger.Debug("wake lock unavailable", "error", err)
		}
		s.out.PlayStateChanged(true)
	}
	s.tickLocked()
}

func (s *Scheduler) stopLocked(reason model.StopReason) bool {
	if s.state != Playing {
		return false
	}
	s.cancelLocked()
	s.state = Stopped
	if err := s.wake.Release(); err != nil {
		s.logger.Debug("wake lock release failed", "error", err)
	}
	s.flushLocked()
	s.recordSessionLocked(reason)
	s.showContextLocked()
	s.out.PlayStateChanged(false)
	return true
}

// fire runs a scheduled tick unless it was superseded.
func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != Playing {
		return
	}
	s.timer = nil
	s.tickLocked()
}

func (s *Scheduler) tickLocked() {
	for s.state == Playing {
		if goal.TimeReached(s.active, s.session.StartedAt, s.clock.Now()) {
			s.finishLocked(model.StopGoalReached, Notice{
				Kind:    NoticeGoalReached,
				Message: "Goal reached: " + goal.Label(s.active),
			})
			return
		}
		if s.cursor.Word >= len(s.words) {
			if s.chapterExhaustedLocked() {
				continue
			}
			return
		}

		shown := s.words[s.cursor.Word]
		s.out.ShowWord(s.viewLocked(s.cursor.Word))
		s.cursor.Word++
		s.session.WordsShown++
		s.reportProgressLocked(false)
		if _, err := s.tracker.Advance(context.Background(), s.cursor); err != nil {
			s.logger.Warn("failed to save position", "error", err)
		}

		if was := s.speed.current; s.speed.step() {
			s.logger.Warn("invalid current wpm, reset to ramp start", "wpm", was)
		}
		s.scheduleLocked(pacing.Delay(s.speed.current, shown.Text))
		return
	}
}

// chapterExhaustedLocked handles the end of a chapter and reports whether
// playback continues in the next chapter.
func (s *Scheduler) chapterExhaustedLocked() bool {
	s.session.ChaptersCompleted++
	s.reportProgressLocked(true)

	if s.cursor.IsTraining() {
		s.stopLocked(model.StopTrainingDone)
		if s.corpus.Len() > 0 {
			s.loadLocked(model.Cursor{Chapter: 0})
			s.flushLocked()
		}
		s.out.Notify(Notice{Kind: NoticeTrainingComplete, Message: "Training complete"})
		return false
	}

	next := s.cursor.Chapter + 1
	hasNext := next < s.corpus.Len()

	if goal.ChaptersReached(s.active, s.session.ChaptersCompleted) {
		s.stopLocked(model.StopGoalReached)
		if hasNext {
			s.loadLocked(model.Cursor{Chapter: next})
			s.flushLocked()
		}
		s.out.Notify(Notice{Kind: NoticeGoalReached, Message: "Goal reached: " + goal.Label(s.active)})
		return false
	}

	if hasNext {
		// Continuation keeps speed and session across the chapter boundary.
		s.loadLocked(model.Cursor{Chapter: next})
		if _, err := s.tracker.Advance(context.Background(), s.cursor); err != nil {
			s.logger.Warn("failed to save position", "error", err)
		}
		return true
	}

	s.finishLocked(model.StopBookCompleted, Notice{Kind: NoticeBookCompleted, Message: "Book completed"})
	return false
}

func (s *Scheduler) finishLocked(reason model.StopReason, n Notice) {
	if s.stopLocked(reason) {
		s.out.Notify(n)
	}
}

func (s *Scheduler) scheduleLocked(d time.Duration) {
	s.cancelLocked()
	gen := s.gen
	s.timer = s.clock.AfterFunc(d, func() { s.fire(gen) })
}

func (s *Scheduler) cancelLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) loadLocked(c model.Cursor) {
	ch, _ := s.corpus.Chapter(c.Chapter)
	s.words = ch.Words
	s.cursor = c
	s.out.ChapterChanged(c.Chapter, ch.Title)
	s.reportProgressLocked(false)
	s.showContextLocked()
}

func (s *Scheduler) reportProgressLocked(forced bool) {
	s.out.ShowProgress(progress.Build(s.cursor, s.corpus, forced))
}

func (s *Scheduler) flushLocked() {
	if err := s.tracker.Flush(context.Background(), s.cursor); err != nil {
		s.logger.Warn("failed to save position", "error", err)
	}
}

func (s *Scheduler) showContextLocked() {
	if len(s.words) == 0 {
		s.out.ShowContext(ContextView{})
		return
	}
	idx := s.currentIndexLocked()
	verse := s.words[idx].Verse
	first := idx
	for first > 0 && s.words[first-1].Verse == verse {
		first--
	}
	s.out.ShowContext(ContextView{Reference: verse.Reference, Text: verse.Text, Word: idx - first})
}

// currentIndexLocked is the index of the most recently shown word.
func (s *Scheduler) currentIndexLocked() int {
	idx := s.cursor.Word - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.words) {
		idx = len(s.words) - 1
	}
	return idx
}

func (s *Scheduler) viewLocked(i int) WordView {
	w := s.words[i]
	v := WordView{
		Parts:     orp.Layout(w.Text),
		WPM:       s.speed.current,
		Reference: w.Verse.Reference,
	}
	if i > 0 {
		v.Prev = s.words[i-1].Text
	}
	if i+1 < len(s.words) {
		v.Next = s.words[i+1].Text
	}
	return v
}

func (s *Scheduler) recordSessionLocked(reason model.StopReason) {
	sess := s.session
	s.session = model.Session{}
	if s.recorder == nil || sess.ID == "" {
		return
	}
	rec := model.ReadingSession{
		ID:                sess.ID,
		StartedAt:         sess.StartedAt,
		EndedAt:           s.clock.Now(),
		StartCursor:       sess.StartCursor,
		EndCursor:         s.cursor,
		WordsShown:        sess.WordsShown,
		ChaptersCompleted: sess.ChaptersCompleted,
		FinalWPM:          s.speed.current,
		Goal:              goal.String(s.active),
		Reason:            reason,
	}
	if err := s.recorder.RecordSession(context.Background(), rec); err != nil {
		s.logger.Warn("failed to record session", "error", err)
	}
}

func (s *Scheduler) validCursor(c model.Cursor) bool {
	ch, ok := s.corpus.Chapter(c.Chapter)
	if !ok {
		return false
	}
	return c.Word >= 0 && c.Word <= len(ch.Words)
}
