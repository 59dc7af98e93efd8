package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
)

const sampleJSON = `{
  "books": [
    {
      "book": "1 Nephi",
      "chapters": [
        {"chapter": 1, "verses": [
          {"reference": "1 Nephi 1:1", "text": "I, Nephi, having been born"},
          {"reference": "1 Nephi 1:2", "text": ""}
        ]},
        {"chapter": "2", "text": "For behold, it came to pass"}
      ]
    },
    {
      "book": "Moroni",
      "chapters": [
        {"chapter": 10, "reference": "And I seal up these records", "text": "ignored"}
      ]
    }
  ]
}`

func TestParseJSON(t *testing.T) {
	chapters, err := Parse([]byte(sampleJSON), FormatAuto)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chapters))
	}
	first := chapters[0]
	if first.Title != "1 Nephi 1" || first.Book != "1 Nephi" || first.Number != 1 {
		t.Fatalf("unexpected first chapter %+v", first)
	}
	// Five words from verse one plus the reference fallback for the empty verse.
	if len(first.Words) != 8 {
		t.Fatalf("expected 8 words, got %d", len(first.Words))
	}
	if first.Words[0].Text != "I," || first.Words[0].Verse.Reference != "1 Nephi 1:1" {
		t.Fatalf("unexpected first word %+v", first.Words[0])
	}
	if got := first.Words[5].Text; got != "1" {
		t.Fatalf("expected reference fallback word, got %q", got)
	}
	if chapters[1].Title != "1 Nephi 2" || chapters[1].Number != 2 {
		t.Fatalf("string chapter label not handled: %+v", chapters[1])
	}
	if chapters[2].Words[0].Text != "And" {
		t.Fatalf("reference should win over text, got %q", chapters[2].Words[0].Text)
	}
	if chapters[2].Words[0].Verse.Reference != "Moroni 10" {
		t.Fatalf("flat text should use the chapter title, got %q", chapters[2].Words[0].Verse.Reference)
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse([]byte(`{"books": []}`), FormatJSON); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := Parse([]byte(`{"books": [`), FormatJSON); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestParseXML(t *testing.T) {
	doc := `<?xml version="1.0"?>
<scripture>
  <book name="Alma">
    <chapter number="32">
      <verse reference="Alma 32:21">And now as I said concerning faith</verse>
      <verse reference="Alma 32:28">Now, we will compare the word unto a seed.</verse>
    </chapter>
  </book>
</scripture>`
	chapters, err := Parse([]byte(doc), FormatAuto)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(chapters) != 1 || chapters[0].Title != "Alma 32" || chapters[0].Number != 32 {
		t.Fatalf("unexpected chapters %+v", chapters)
	}
	words := chapters[0].Words
	if len(words) != 16 {
		t.Fatalf("expected 16 words, got %d", len(words))
	}
	if words[7].Verse.Reference != "Alma 32:28" {
		t.Fatalf("unexpected verse for word 7: %+v", words[7])
	}
}

func TestParseOSIS(t *testing.T) {
	doc := `<osis><osisText>
  <div type="book" osisID="Moro">
    <chapter osisID="Moro.10">
      <verse osisID="Moro.10.4">And when ye shall receive these things</verse>
    </chapter>
  </div>
</osisText></osis>`
	chapters, err := Parse([]byte(doc), FormatXML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(chapters) != 1 || chapters[0].Title != "Moro 10" {
		t.Fatalf("unexpected chapters %+v", chapters)
	}
	if chapters[0].Words[0].Verse.Reference != "Moro.10.4" {
		t.Fatalf("unexpected reference %q", chapters[0].Words[0].Verse.Reference)
	}
}

func TestLoadXZAndFingerprint(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "book.json")
	if err := os.WriteFile(plain, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	compressed := filepath.Join(dir, "book.json.xz")
	f, err := os.Create(compressed)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w, err := xz.NewWriter(f)
	if err != nil {
		t.Fatalf("xz writer: %v", err)
	}
	if _, err := w.Write([]byte(sampleJSON)); err != nil {
		t.Fatalf("xz write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("xz close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	a, err := Load(plain)
	if err != nil {
		t.Fatalf("load plain: %v", err)
	}
	b, err := Load(compressed)
	if err != nil {
		t.Fatalf("load xz: %v", err)
	}
	if a.Corpus.Len() != 3 || b.Corpus.Len() != 3 {
		t.Fatalf("unexpected chapter counts %d %d", a.Corpus.Len(), b.Corpus.Len())
	}
	if a.Fingerprint != b.Fingerprint {
		t.Fatalf("fingerprint should cover decompressed bytes")
	}
	if len(a.Fingerprint) != 64 {
		t.Fatalf("unexpected fingerprint %q", a.Fingerprint)
	}
	if Fingerprint([]byte("other")) == a.Fingerprint {
		t.Fatalf("different content produced the same fingerprint")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTraining(t *testing.T) {
	builtin, err := Training("")
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	if builtin.Title != TrainingTitle || len(builtin.Words) == 0 {
		t.Fatalf("unexpected builtin training %+v", builtin.Title)
	}

	path := filepath.Join(t.TempDir(), "training.txt")
	if err := os.WriteFile(path, []byte("one two\n\n three\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	custom, err := Training(path)
	if err != nil {
		t.Fatalf("custom: %v", err)
	}
	if len(custom.Words) != 3 || custom.Words[2].Text != "three" {
		t.Fatalf("unexpected custom training %+v", custom.Words)
	}

	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Training(empty); err == nil {
		t.Fatalf("expected error for empty training file")
	}
}
