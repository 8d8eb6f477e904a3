package chunker

import (
	"regexp"
	"strings"
)

const (
	DefaultMaxChars = 1200
	DefaultOverlap  = 0

	// Chunks shorter than this are dropped so headers, footers and page
	// numbers never reach the index.
	DefaultMinChunkChars = 80
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Chunker splits normalized text into fixed-size windows.
type Chunker struct {
	MaxChars      int
	Overlap       int
	MinChunkChars int
}

func New(maxChars, overlap, minChunkChars int) *Chunker {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if overlap < 0 || overlap >= maxChars {
		overlap = DefaultOverlap
	}
	if minChunkChars < 0 {
		minChunkChars = DefaultMinChunkChars
	}
	return &Chunker{
		MaxChars:      maxChars,
		Overlap:       overlap,
		MinChunkChars: minChunkChars,
	}
}

// Normalize collapses whitespace runs to single spaces and trims the ends, so
// chunk boundaries do not depend on how the source PDF wrapped its lines.
func Normalize(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// Split cuts text into windows of at most MaxChars characters. With a positive
// overlap, each window after the first starts MaxChars-Overlap after the
// previous window's start. Same input always yields the same sequence.
// Windows are measured in runes, never bytes, so multi-byte text is not cut
// mid-character.
func (c *Chunker) Split(text string) []string {
	runes := []rune(Normalize(text))
	if len(runes) == 0 {
		return nil
	}

	step := c.MaxChars - c.Overlap
	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + c.MaxChars
		if end > len(runes) {
			end = len(runes)
		}
		if chunk := runes[start:end]; len(chunk) >= c.MinChunkChars {
			out = append(out, string(chunk))
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

// Chunk is the package-level convenience with the default minimum length.
func Chunk(text string, maxChars, overlap int) []string {
	return New(maxChars, overlap, DefaultMinChunkChars).Split(text)
}
