package documents

import "strings"

// Splitter splits text recursively by a priority-ordered separator list,
// recombining runs to stay near chunkSize with overlap characters carried
// across chunk boundaries. Deterministic for identical input and settings.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewSplitter creates a splitter. The final separator should be "" so that
// any text, however unstructured, can still be cut to size.
func NewSplitter(chunkSize, overlap int, separators []string) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 {
		overlap = 0
	}
	if len(separators) == 0 {
		separators = []string{"\n\n", "\n", " ", ""}
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: separators,
	}
}

// Split returns the ordered chunks of text.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	// Pick the first separator that occurs in the text; the remaining ones
	// handle pieces that are still too large.
	separator := ""
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			rest = nil
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	splits := cut(text, separator)

	var final []string
	var good []string
	for _, piece := range splits {
		if len(piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good, separator)...)
			good = nil
		}
		if len(rest) == 0 {
			// Unsplittable run; emit oversized rather than lose text.
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good, separator)...)
	}
	return final
}

// merge recombines small splits into chunks close to chunkSize, keeping a
// tail of at most overlap characters as the head of the next chunk.
func (s *Splitter) merge(splits []string, separator string) []string {
	sepLen := len(separator)

	var chunks []string
	var window []string
	total := 0

	for _, piece := range splits {
		pieceLen := len(piece)
		extra := pieceLen
		if len(window) > 0 {
			extra += sepLen
		}

		if total+extra > s.chunkSize && len(window) > 0 {
			if chunk := joinTrim(window, separator); chunk != "" {
				chunks = append(chunks, chunk)
			}
			// Shrink the window until the overlap budget holds and the new
			// piece fits.
			for total > s.overlap || (total+extra > s.chunkSize && total > 0) {
				drop := len(window[0])
				if len(window) > 1 {
					drop += sepLen
				}
				total -= drop
				window = window[1:]
				if len(window) == 0 {
					break
				}
				extra = pieceLen + sepLen
			}
		}

		window = append(window, piece)
		total += pieceLen
		if len(window) > 1 {
			total += sepLen
		}
	}

	if chunk := joinTrim(window, separator); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// cut splits text on separator; an empty separator cuts into single runes.
func cut(text, separator string) []string {
	var raw []string
	if separator == "" {
		raw = strings.Split(text, "")
	} else {
		raw = strings.Split(text, separator)
	}

	splits := raw[:0]
	for _, piece := range raw {
		if piece != "" {
			splits = append(splits, piece)
		}
	}
	return splits
}

func joinTrim(parts []string, separator string) string {
	return strings.TrimSpace(strings.Join(parts, separator))
}
