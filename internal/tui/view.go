package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/benjcrowley/bom-speed-reader/internal/goal"
	"github.com/benjcrowley/bom-speed-reader/internal/orp"
)

const appTitle = "Book of Mormon Speed Reader"

// View implements tea.Model.
func (m *Model) View() string {
	p := paletteFor(m.theme)
	if m.loadErr != "" {
		return m.errorView(p)
	}
	switch m.mode {
	case modePicker:
		return m.center(p.modal.Render(p.header.Render("Chapters") + "\n\n" + m.picker.View() + "\n\n" +
			p.footer.Render("enter select · esc cancel")))
	case modeJump:
		body := p.header.Render("Jump to reference") + "\n\n" + m.jump.View()
		if m.errMsg != "" {
			body += "\n" + p.errText.Render(m.errMsg)
		}
		return m.center(p.modal.Render(body + "\n\n" + p.footer.Render("enter go · esc cancel")))
	}

	width := contentWidth(m.width)
	lines := []string{m.headerLine(p, width), ""}
	lines = append(lines, m.wordLine(p, width), "")
	if !m.playing && m.verse.Text != "" {
		lines = append(lines, p.footer.Render(m.verse.Reference), m.viewport.View(), "")
	}
	if m.errMsg != "" {
		lines = append(lines, p.errText.Render(m.errMsg))
	}
	lines = append(lines, m.footerLine(p), p.footer.Render(helpLine))
	return m.center(strings.Join(lines, "\n"))
}

const helpLine = "space play/pause · ← rewind · -/+ speed · c chapters · : jump · g goal · T training · t theme · q quit"

func (m *Model) errorView(p palette) string {
	body := p.errText.Render("Could not load the text") + "\n\n" + m.loadErr + "\n\n" + p.footer.Render("q quit")
	return m.center(p.modal.Render(body))
}

func (m *Model) headerLine(p palette, width int) string {
	target := 0.0
	if m.reader != nil {
		target = m.reader.Snapshot().TargetWPM
	}
	right := fmt.Sprintf("Goal: %s · Target %d WPM", goal.Label(m.goal), int(target))
	left := appTitle
	gap := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		return p.header.Render(left) + "\n" + p.footer.Render(right)
	}
	return p.header.Render(left) + strings.Repeat(" ", gap) + p.footer.Render(right)
}

func (m *Model) wordLine(p palette, width int) string {
	if !m.hasWord {
		hint := "press space to start"
		if m.title != "" {
			hint = m.title + " · " + hint
		}
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, p.ghost.Render(hint))
	}
	layout := alignWord(m.word.Parts, m.word.Prev, m.word.Next, width)
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", layout.lead))
	if layout.prev != "" {
		b.WriteString(p.ghost.Render(layout.prev))
		b.WriteString(" ")
	}
	b.WriteString(p.word.Render(m.word.Parts.Left))
	b.WriteString(p.pivot.Render(m.word.Parts.Pivot))
	b.WriteString(p.word.Render(m.word.Parts.Right))
	if layout.next != "" {
		b.WriteString(" ")
		b.WriteString(p.ghost.Render(layout.next))
	}
	return b.String()
}

func (m *Model) footerLine(p palette) string {
	parts := []string{}
	if m.progress.Label != "" {
		parts = append(parts, m.progress.Label)
	}
	if m.hasWord {
		parts = append(parts, fmt.Sprintf("%d WPM", int(m.word.WPM)))
	}
	if m.playing {
		parts = append(parts, "playing")
	} else {
		parts = append(parts, "paused")
	}
	line := p.footer.Render(strings.Join(parts, " · "))
	if m.notice != "" {
		line += "  " + p.current.Render(m.notice)
	}
	return line
}

func (m *Model) center(content string) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

type wordLayout struct {
	lead int
	prev string
	next string
}

// alignWord keeps the pivot in a fixed column at the middle of the line.
// Neighbouring words are only shown when they fit without moving it.
func alignWord(parts orp.Parts, prev, next string, width int) wordLayout {
	column := width / 2
	leftWidth := runewidth.StringWidth(parts.Left)
	pad := column - leftWidth
	if pad < 0 {
		pad = 0
	}
	out := wordLayout{lead: pad}
	if prev != "" {
		if w := runewidth.StringWidth(prev); w+1 <= pad {
			out.lead = pad - w - 1
			out.prev = prev
		}
	}
	if next != "" {
		used := pad + leftWidth + runewidth.StringWidth(parts.Pivot) + runewidth.StringWidth(parts.Right)
		if used+1+runewidth.StringWidth(next) <= width {
			out.next = next
		}
	}
	return out
}
