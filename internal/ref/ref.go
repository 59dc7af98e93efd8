// Package ref parses scripture references and resolves them to cursors.
package ref

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
)

// ErrNotFound is returned when a reference names no chapter or verse in the corpus.
var ErrNotFound = errors.New("reference not found")

// Ref is a parsed reference. Chapter and Verse are zero when omitted.
type Ref struct {
	Book     string
	Chapter  int
	Verse    int
	VerseEnd int
}

// Examples: "1 Nephi 3:7", "Alma 32", "Moroni 10:4-5", "1Ne.3.7",
// "Words of Mormon 1:5".
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Prefix   int           `@Int?`
	Name     []string      `@Ident+`
	Location *locationPart `( "."? @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type locationPart struct {
	Chapter int        `@Int`
	Verse   *versePart `( ( ":" | "." ) @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versePart struct {
	Verse int  `@Int`
	End   *int `( "-" @Int )?`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z']*`},
	{Name: "Punct", Pattern: `[.:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a human or OSIS style reference.
func Parse(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, fmt.Errorf("empty reference")
	}
	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return Ref{}, fmt.Errorf("invalid reference %q: %w", s, err)
	}
	r := Ref{Book: strings.Join(parsed.Name, " ")}
	if parsed.Prefix > 0 {
		r.Book = strconv.Itoa(parsed.Prefix) + " " + r.Book
	}
	if loc := parsed.Location; loc != nil {
		r.Chapter = loc.Chapter
		if loc.Verse != nil {
			r.Verse = loc.Verse.Verse
			if loc.Verse.End != nil {
				r.VerseEnd = *loc.Verse.End
			}
		}
	}
	return r, nil
}

// String renders r as "Book C:V-E".
func (r Ref) String() string {
	var sb strings.Builder
	sb.WriteString(r.Book)
	if r.Chapter > 0 {
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(r.Chapter))
		if r.Verse > 0 {
			sb.WriteString(":")
			sb.WriteString(strconv.Itoa(r.Verse))
			if r.VerseEnd > r.Verse {
				sb.WriteString("-")
				sb.WriteString(strconv.Itoa(r.VerseEnd))
			}
		}
	}
	return sb.String()
}

// Resolve finds the cursor for r: the start of the chapter, or the first
// word of the verse when one is given. A book with no chapter resolves to
// its first chapter. Book names match exactly or by abbreviation.
func Resolve(corpus *model.Corpus, r Ref) (model.Cursor, error) {
	book := bookFor(corpus, r.Book)
	if book == "" {
		return model.Cursor{}, fmt.Errorf("%w: book %q", ErrNotFound, r.Book)
	}
	for i, ch := range corpus.Chapters {
		if ch.Book != book || (r.Chapter > 0 && ch.Number != r.Chapter) {
			continue
		}
		if r.Verse == 0 {
			return model.Cursor{Chapter: i}, nil
		}
		for w, word := range ch.Words {
			if verseNumber(word.Verse.Reference) == r.Verse {
				return model.Cursor{Chapter: i, Word: w}, nil
			}
		}
		return model.Cursor{}, fmt.Errorf("%w: %s", ErrNotFound, r)
	}
	return model.Cursor{}, fmt.Errorf("%w: %s", ErrNotFound, r)
}

// Lookup parses s and resolves it against corpus.
func Lookup(corpus *model.Corpus, s string) (model.Cursor, error) {
	r, err := Parse(s)
	if err != nil {
		return model.Cursor{}, err
	}
	return Resolve(corpus, r)
}

// bookFor returns the corpus book name matching query, preferring an exact
// match over an abbreviation.
func bookFor(corpus *model.Corpus, query string) string {
	q := normalize(query)
	if q == "" || corpus == nil {
		return ""
	}
	prefixed := ""
	for _, ch := range corpus.Chapters {
		n := normalize(ch.Book)
		if n == q {
			return ch.Book
		}
		if prefixed == "" && strings.HasPrefix(n, q) {
			prefixed = ch.Book
		}
	}
	return prefixed
}

func normalize(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}

// verseNumber extracts 7 from "1 Nephi 3:7" or "1Ne.3.7".
func verseNumber(reference string) int {
	i := strings.LastIndexAny(reference, ":.")
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(reference[i+1:])
	if err != nil {
		return 0
	}
	return n
}
