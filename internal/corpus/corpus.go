// Package corpus loads the scripture text into chapters of displayable words.
package corpus

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
)

// ErrEmpty is returned when a source parses but holds no chapters.
var ErrEmpty = errors.New("corpus has no chapters")

// Format is the encoding of a corpus source.
type Format int

const (
	FormatAuto Format = iota
	FormatJSON
	FormatXML
)

// Loaded is a parsed corpus plus the fingerprint of its source bytes.
type Loaded struct {
	Corpus      *model.Corpus
	Fingerprint string
}

// Load reads path, transparently decompressing .xz files, and parses it as
// JSON or XML depending on its content. The training chapter is left empty.
func Load(path string) (Loaded, error) {
	data, err := readSource(path)
	if err != nil {
		return Loaded{}, err
	}
	chapters, err := Parse(data, FormatAuto)
	if err != nil {
		return Loaded{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return Loaded{
		Corpus:      &model.Corpus{Chapters: chapters},
		Fingerprint: Fingerprint(data),
	}, nil
}

// Parse decodes data into chapters.
func Parse(data []byte, format Format) ([]model.Chapter, error) {
	if format == FormatAuto {
		format = sniff(data)
	}
	var (
		chapters []model.Chapter
		err      error
	)
	switch format {
	case FormatXML:
		chapters, err = parseXML(data)
	default:
		chapters, err = parseJSON(data)
	}
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		return nil, ErrEmpty
	}
	return chapters, nil
}

// Fingerprint identifies a corpus by the BLAKE3 hash of its bytes.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return FormatXML
	}
	return FormatJSON
}

func readSource(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only corpus.
			_ = cerr
		}
	}()

	var reader io.Reader = file
	if strings.HasSuffix(strings.ToLower(path), ".xz") {
		xzr, err := xz.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		reader = xzr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return data, nil
}
