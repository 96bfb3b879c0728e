package ingest

import (
	"fmt"
	"strings"
)

// DefaultSeparators split on paragraph, line, sentence and word boundaries
// before falling back to a hard character split.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveSplitter splits text hierarchically: it tries the coarsest
// separator first and only descends to finer splits for pieces that still
// exceed the chunk size. Consecutive chunks share up to overlap characters
// so statements spanning a boundary stay retrievable.
type RecursiveSplitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

func NewRecursiveSplitter(chunkSize, overlap int, separators []string) (*RecursiveSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, chunk size), got %d", overlap)
	}
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return &RecursiveSplitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: separators,
	}, nil
}

// Split breaks text into chunks of at most the configured size. Whitespace
// only chunks are dropped.
func (s *RecursiveSplitter) Split(text string) []string {
	pieces := s.split(text, s.separators)

	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *RecursiveSplitter) split(text string, separators []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	separator, remaining := s.pickSeparator(text, separators)
	if separator == "" {
		return s.hardSplit(text)
	}

	parts := strings.Split(text, separator)

	// Pieces still over the limit are split again with finer separators.
	var pieces []string
	for _, part := range parts {
		if len(part) > s.chunkSize {
			pieces = append(pieces, s.split(part, remaining)...)
		} else {
			pieces = append(pieces, part)
		}
	}

	return s.merge(pieces, separator)
}

// pickSeparator returns the first separator present in the text and the
// finer ones after it.
func (s *RecursiveSplitter) pickSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

// hardSplit is the last resort: fixed-size windows with overlap, on rune
// boundaries.
func (s *RecursiveSplitter) hardSplit(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.overlap

	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

// merge greedily packs pieces into chunks up to the size limit. When a chunk
// closes, trailing pieces totaling at most overlap characters are carried
// into the next chunk.
func (s *RecursiveSplitter) merge(pieces []string, separator string) []string {
	var chunks []string
	var window []string

	windowLen := func(extra string) int {
		total := len(extra)
		for _, w := range window {
			total += len(w)
		}
		joins := len(window)
		if extra == "" {
			joins--
		}
		if joins > 0 {
			total += joins * len(separator)
		}
		return total
	}

	emit := func() {
		chunk := strings.Join(window, separator)
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, piece := range pieces {
		if len(window) > 0 && windowLen(piece) > s.chunkSize {
			emit()
			// Keep a tail of pieces within the overlap budget, and leave
			// room for the incoming piece.
			for len(window) > 0 && (windowLen("") > s.overlap || windowLen(piece) > s.chunkSize) {
				window = window[1:]
			}
		}
		window = append(window, piece)
	}
	if len(window) > 0 {
		emit()
	}
	return chunks
}
