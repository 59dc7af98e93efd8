// Package model defines shared data structures.
package model

import "time"

// TrainingChapter is the chapter index sentinel for the training pseudo-chapter.
const TrainingChapter = -1

// VerseRef identifies the verse a word was segmented from.
type VerseRef struct {
	Reference string
	Text      string
}

// Word is a single displayable token.
type Word struct {
	Text  string
	Verse VerseRef
}

// Chapter is a titled, ordered run of words.
type Chapter struct {
	Title  string
	Book   string
	Number int
	Words  []Word
}

// Corpus holds the readable chapters plus the training pseudo-chapter.
type Corpus struct {
	Chapters []Chapter
	Training Chapter
}

// Len returns the number of real chapters.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Chapters)
}

// Chapter returns the chapter for index, including the training sentinel.
func (c *Corpus) Chapter(index int) (Chapter, bool) {
	if c == nil {
		return Chapter{}, false
	}
	if index == TrainingChapter {
		return c.Training, true
	}
	if index < 0 || index >= len(c.Chapters) {
		return Chapter{}, false
	}
	return c.Chapters[index], true
}

// Titles lists the real chapter titles in order.
func (c *Corpus) Titles() []string {
	if c == nil {
		return nil
	}
	titles := make([]string, len(c.Chapters))
	for i, ch := range c.Chapters {
		titles[i] = ch.Title
	}
	return titles
}

// Cursor is a position in the corpus. Word == len(chapter.Words) means the
// chapter has been read to the end.
type Cursor struct {
	Chapter int
	Word    int
}

// IsTraining reports whether the cursor points into the training pseudo-chapter.
func (c Cursor) IsTraining() bool {
	return c.Chapter == TrainingChapter
}

// GoalKind enumerates session goal variants.
type GoalKind int

const (
	GoalNone GoalKind = iota
	GoalTime
	GoalChapters
)

// Goal is a session-level stopping condition.
type Goal struct {
	Kind     GoalKind
	Minutes  int
	Chapters int
}

// Session tracks one continuous playback run.
type Session struct {
	ID                string
	StartedAt         time.Time
	StartCursor       Cursor
	ChaptersCompleted int
	WordsShown        int
}

// Theme is the persisted color preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// StopReason explains why a session ended.
type StopReason string

const (
	StopPaused        StopReason = "paused"
	StopGoalReached   StopReason = "goal"
	StopChapterChange StopReason = "chapter"
	StopTrainingDone  StopReason = "training"
	StopBookCompleted StopReason = "book"
)

// ReadingSession is a finished session as stored in the reading history.
type ReadingSession struct {
	ID                string
	StartedAt         time.Time
	EndedAt           time.Time
	StartCursor       Cursor
	EndCursor         Cursor
	WordsShown        int
	ChaptersCompleted int
	FinalWPM          float64
	Goal              string
	Reason            StopReason
}

// Config defines reader settings resolved from flags and the config file.
type Config struct {
	CorpusPath    string
	TrainingFile  string
	TargetWPM     int
	Goal          string
	RewindSeconds float64
	Theme         string
	WakeLock      bool
}

// HistoryConfig defines filters for the history report.
type HistoryConfig struct {
	Since *time.Time
	Last  int
}
