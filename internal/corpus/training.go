package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
	"github.com/benjcrowley/bom-speed-reader/internal/segment"
)

// TrainingTitle names the training pseudo-chapter.
const TrainingTitle = "Training"

const builtinTraining = `Welcome to speed reading. Keep your eyes fixed on the highlighted letter
in the middle of each word. Do not move your eyes across the line; let the
words come to you. The reader starts slowly and gently speeds up as you
settle in. Commas give you a short breath, and the end of each sentence
gives you a longer one. If you lose your place, rewind a few seconds and
carry on. Relax your shoulders, breathe evenly, and resist the urge to
say each word in your head. When this passage ends you will begin the
first chapter.`

// Training returns the training chapter, read from path when it is set.
// The file is read one line at a time; blank lines are ignored.
func Training(path string) (model.Chapter, error) {
	text := builtinTraining
	if path != "" {
		lines, err := loadLines(path)
		if err != nil {
			return model.Chapter{}, err
		}
		text = strings.Join(lines, " ")
	}
	return segment.Chapter(TrainingTitle, "", 0, segment.FlatText{Reference: TrainingTitle, Text: text}), nil
}

func loadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only training text.
			_ = cerr
		}
	}()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("training file is empty")
	}
	return lines, nil
}
