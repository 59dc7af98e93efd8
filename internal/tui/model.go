// Package tui provides the Bubble Tea speed reading interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/benjcrowley/bom-speed-reader/internal/goal"
	"github.com/benjcrowley/bom-speed-reader/internal/model"
	"github.com/benjcrowley/bom-speed-reader/internal/progress"
	"github.com/benjcrowley/bom-speed-reader/internal/ref"
	"github.com/benjcrowley/bom-speed-reader/internal/scheduler"
)

// WPMStep is the target speed change per key press.
const WPMStep = 25

const noticeTTL = 4 * time.Second

// Reader is the playback engine driven by the keyboard.
type Reader interface {
	Toggle()
	Stop()
	Rewind(seconds float64)
	SelectChapter(index int) error
	SelectTraining()
	Seek(c model.Cursor) error
	AdjustTargetWPM(delta float64) float64
	SelectGoal(g model.Goal)
	Snapshot() scheduler.Snapshot
}

// ThemeStore persists the theme preference.
type ThemeStore interface {
	SaveTheme(ctx context.Context, theme model.Theme) error
}

// Options configures a Model.
type Options struct {
	Reader        Reader
	Bridge        *Bridge
	Corpus        *model.Corpus
	Themes        ThemeStore
	Theme         model.Theme
	Goal          model.Goal
	RewindSeconds float64
	// LoadError is shown in place of the reader when the corpus failed to load.
	LoadError error
	Logger    *slog.Logger
}

type mode int

const (
	modeRead mode = iota
	modePicker
	modeJump
)

type clearNoticeMsg struct {
	seq int
}

// Model implements the Bubble Tea reading UI.
type Model struct {
	reader Reader
	bridge *Bridge
	corpus *model.Corpus
	themes ThemeStore
	logger *slog.Logger
	rewind float64

	width  int
	height int

	word     scheduler.WordView
	hasWord  bool
	verse    scheduler.ContextView
	progress progress.Report
	titles   []string
	chapter  int
	title    string
	playing  bool
	goal     model.Goal
	theme    model.Theme

	notice    string
	noticeSeq int
	loadErr   string
	errMsg    string

	mode     mode
	picker   table.Model
	jump     textinput.Model
	viewport viewport.Model
}

// NewModel constructs the reading UI.
func NewModel(opts Options) *Model {
	m := &Model{
		reader: opts.Reader,
		bridge: opts.Bridge,
		corpus: opts.Corpus,
		themes: opts.Themes,
		logger: opts.Logger,
		rewind: opts.RewindSeconds,
		goal:   opts.Goal,
		theme:  opts.Theme,
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	if m.rewind <= 0 {
		m.rewind = 5
	}
	if opts.LoadError != nil {
		m.loadErr = opts.LoadError.Error()
	}
	m.jump = textinput.New()
	m.jump.Prompt = "Go to: "
	m.jump.Placeholder = "1 Nephi 3:7"
	m.jump.CharLimit = 64
	m.viewport = viewport.New(0, 0)
	m.picker = table.New(
		table.WithColumns(pickerColumns(0)),
		table.WithHeight(10),
		table.WithFocused(true),
	)
	m.picker.SetStyles(pickerStyles(paletteFor(m.theme)))
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.bridge == nil {
		return nil
	}
	return m.bridge.Wait()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case eventsMsg:
		cmds := make([]tea.Cmd, 0, 2)
		for _, ev := range msg {
			if cmd := m.apply(ev); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		if m.bridge != nil {
			cmds = append(cmds, m.bridge.Wait())
		}
		return m, tea.Batch(cmds...)
	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, m.quit()
		}
		switch m.mode {
		case modePicker:
			return m.updatePicker(msg)
		case modeJump:
			return m.updateJump(msg)
		}
		return m.handleKey(msg)
	default:
		return m, m.apply(msg)
	}
}

// apply folds one presenter event into the model.
func (m *Model) apply(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case WordMsg:
		m.word = msg.View
		m.hasWord = true
	case ContextMsg:
		m.verse = msg.View
		m.refreshContext()
	case ProgressMsg:
		m.progress = msg.Report
	case ChapterListMsg:
		m.titles = msg.Titles
		m.picker.SetRows(pickerRows(m.titles))
	case ChapterMsg:
		m.chapter = msg.Index
		m.title = msg.Title
		m.hasWord = false
	case PlayStateMsg:
		m.playing = msg.Playing
		m.refreshContext()
	case NoticeMsg:
		return m.setNotice(msg.Notice.Message)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loadErr != "" {
		if msg.String() == "q" {
			return m, m.quit()
		}
		return m, nil
	}
	m.errMsg = ""
	if msg.Type == tea.KeySpace {
		m.reader.Toggle()
		return m, nil
	}
	switch msg.String() {
	case "left", "h":
		m.reader.Rewind(m.rewind)
		return m, nil
	case "-":
		target := m.reader.AdjustTargetWPM(-WPMStep)
		return m, m.setNotice(fmt.Sprintf("Target %d WPM", int(target)))
	case "=", "+":
		target := m.reader.AdjustTargetWPM(WPMStep)
		return m, m.setNotice(fmt.Sprintf("Target %d WPM", int(target)))
	case "c":
		if len(m.titles) == 0 {
			return m, nil
		}
		m.mode = modePicker
		if m.chapter >= 0 && m.chapter < len(m.titles) {
			m.picker.SetCursor(m.chapter)
		}
		m.picker.Focus()
		return m, nil
	case ":":
		if len(m.titles) == 0 {
			return m, nil
		}
		m.mode = modeJump
		m.jump.SetValue("")
		return m, m.jump.Focus()
	case "T":
		m.reader.SelectTraining()
		return m, nil
	case "g":
		m.goal = goal.Next(m.goal)
		m.reader.SelectGoal(m.goal)
		return m, m.setNotice("Goal: " + goal.Label(m.goal))
	case "t":
		m.toggleTheme()
		return m, nil
	case "q":
		return m, m.quit()
	}
	if !m.playing {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeRead
		m.picker.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeRead
		m.picker.Blur()
		if err := m.reader.SelectChapter(m.picker.Cursor()); err != nil {
			m.errMsg = err.Error()
		}
		return m, nil
	}
	if msg.String() == "q" {
		m.mode = modeRead
		m.picker.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeRead
		m.jump.Blur()
		m.errMsg = ""
		return m, nil
	case tea.KeyEnter:
		cursor, err := ref.Lookup(m.corpus, m.jump.Value())
		if err == nil {
			err = m.reader.Seek(cursor)
		}
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.mode = modeRead
		m.jump.Blur()
		m.errMsg = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m *Model) toggleTheme() {
	if m.theme == model.ThemeLight {
		m.theme = model.ThemeDark
	} else {
		m.theme = model.ThemeLight
	}
	m.picker.SetStyles(pickerStyles(paletteFor(m.theme)))
	m.refreshContext()
	if m.themes == nil {
		return
	}
	if err := m.themes.SaveTheme(context.Background(), m.theme); err != nil {
		m.logger.Warn("failed to save theme", "error", err)
	}
}

func (m *Model) setNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	seq := m.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func (m *Model) quit() tea.Cmd {
	if m.reader != nil {
		m.reader.Stop()
	}
	if m.bridge != nil {
		m.bridge.Close()
	}
	return tea.Quit
}

func (m *Model) updateLayout() {
	width := contentWidth(m.width)
	m.picker.SetColumns(pickerColumns(width))
	m.picker.SetWidth(width)
	m.picker.SetHeight(maxInt(3, m.height-8))
	m.viewport.Width = width
	m.viewport.Height = maxInt(1, m.height/3)
	m.refreshContext()
}

func (m *Model) refreshContext() {
	if m.verse.Text == "" {
		m.viewport.SetContent("")
		return
	}
	runes := buildContextRunes(m.verse.Text, m.verse.Word, paletteFor(m.theme))
	m.viewport.SetContent(wrapStyledRunes(runes, m.viewport.Width))
	m.viewport.GotoTop()
}

func pickerColumns(width int) []table.Column {
	titleWidth := width - 6
	if titleWidth < 20 {
		titleWidth = 20
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Chapter", Width: titleWidth},
	}
}

func pickerRows(titles []string) []table.Row {
	rows := make([]table.Row, len(titles))
	for i, title := range titles {
		rows[i] = table.Row{strconv.Itoa(i + 1), title}
	}
	return rows
}

func contentWidth(width int) int {
	w := int(float64(width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
