package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
	"github.com/benjcrowley/bom-speed-reader/internal/segment"
)

type jsonCorpus struct {
	Books []jsonBook `json:"books"`
}

type jsonBook struct {
	Book     string        `json:"book"`
	Chapters []jsonChapter `json:"chapters"`
}

type jsonChapter struct {
	Chapter   json.RawMessage `json:"chapter"`
	Reference string          `json:"reference"`
	Text      string          `json:"text"`
	Verses    []jsonVerse     `json:"verses"`
}

type jsonVerse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

func parseJSON(data []byte) ([]model.Chapter, error) {
	var doc jsonCorpus
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	var chapters []model.Chapter
	for _, book := range doc.Books {
		name := strings.TrimSpace(book.Book)
		for i, ch := range book.Chapters {
			label := chapterLabel(ch.Chapter, i+1)
			title := strings.TrimSpace(name + " " + label)
			chapters = append(chapters, segment.Chapter(title, name, chapterNumber(label, i+1), jsonSource(title, ch)))
		}
	}
	return chapters, nil
}

func jsonSource(title string, ch jsonChapter) segment.Source {
	if len(ch.Verses) > 0 {
		verses := make(segment.VerseList, 0, len(ch.Verses))
		for _, v := range ch.Verses {
			verses = append(verses, model.VerseRef{Reference: v.Reference, Text: v.Text})
		}
		return verses
	}
	text := ch.Reference
	if text == "" {
		text = ch.Text
	}
	return segment.FlatText{Reference: title, Text: text}
}

// chapterLabel renders the "chapter" field, which may be a number or a string.
func chapterLabel(raw json.RawMessage, fallback int) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return strconv.Itoa(fallback)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}

func chapterNumber(label string, fallback int) int {
	if n, err := strconv.Atoi(label); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(label, 64); err == nil && f == float64(int(f)) {
		return int(f)
	}
	return fallback
}
