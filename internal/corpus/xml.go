package corpus

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
	"github.com/benjcrowley/bom-speed-reader/internal/segment"
)

// Plain documents use <book name>/<chapter number>/<verse reference>; OSIS
// documents use div[@type='book'] with osisID attributes throughout.
var (
	bookExpr    = xpath.MustCompile("//book | //div[@type='book']")
	chapterExpr = xpath.MustCompile("./chapter | ./div[@type='chapter']")
	verseExpr   = xpath.MustCompile(".//verse")
)

func parseXML(data []byte) ([]model.Chapter, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	var chapters []model.Chapter
	for _, book := range xmlquery.QuerySelectorAll(doc, bookExpr) {
		name := firstAttr(book, "name", "osisID")
		for i, ch := range xmlquery.QuerySelectorAll(book, chapterExpr) {
			label := firstAttr(ch, "number", "n")
			if label == "" {
				label = lastSegment(ch.SelectAttr("osisID"))
			}
			if label == "" {
				label = strconv.Itoa(i + 1)
			}
			title := strings.TrimSpace(name + " " + label)
			chapters = append(chapters, segment.Chapter(title, name, chapterNumber(label, i+1), xmlSource(title, ch)))
		}
	}
	return chapters, nil
}

func xmlSource(title string, ch *xmlquery.Node) segment.Source {
	nodes := xmlquery.QuerySelectorAll(ch, verseExpr)
	if len(nodes) == 0 {
		return segment.FlatText{Reference: title, Text: strings.TrimSpace(ch.InnerText())}
	}
	verses := make(segment.VerseList, 0, len(nodes))
	for _, v := range nodes {
		verses = append(verses, model.VerseRef{
			Reference: firstAttr(v, "reference", "osisID"),
			Text:      strings.TrimSpace(v.InnerText()),
		})
	}
	return verses
}

func firstAttr(n *xmlquery.Node, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(n.SelectAttr(name)); v != "" {
			return v
		}
	}
	return ""
}

// lastSegment returns "3" for an OSIS id like "1Ne.3".
func lastSegment(id string) string {
	if id == "" {
		return ""
	}
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[i+1:]
	}
	return ""
}
