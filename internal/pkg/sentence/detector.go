// Package sentence segments plain text into sentences with character
// offsets. The reading pipeline navigates by (block, sentence) positions, so
// block indices are stable: empty blocks keep their index and contribute an
// empty sentence list.
package sentence

import (
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Span is one sentence within a block. Offsets are relative to the block,
// End is inclusive.
type Span struct {
	Start int
	End   int
	Text  string
}

// Detector splits text into sentence spans using the Punkt algorithm.
type Detector struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewDetector builds a detector with the English Punkt training data.
func NewDetector() (*Detector, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &Detector{tokenizer: tokenizer}, nil
}

// SegmentBlocks splits text into newline-separated blocks and segments each
// one. The result has one entry per block, empty blocks included.
func (d *Detector) SegmentBlocks(text string) [][]Span {
	blocks := strings.Split(text, "\n")
	result := make([][]Span, len(blocks))
	for i, block := range blocks {
		result[i] = d.SegmentBlock(block)
	}
	return result
}

// SegmentBlock segments a single block. When the tokenizer yields nothing
// for non-blank input, the whole block degrades to one span.
func (d *Detector) SegmentBlock(block string) []Span {
	if strings.TrimSpace(block) == "" {
		return nil
	}

	tokens := d.tokenize(block)
	if len(tokens) == 0 {
		return []Span{wholeBlockSpan(block)}
	}

	spans := make([]Span, 0, len(tokens))
	offset := 0
	for _, tok := range tokens {
		span, ok := trimmedSpan(tok.Text, offset)
		offset += len(tok.Text)
		if ok {
			spans = append(spans, span)
		}
	}
	if len(spans) == 0 {
		return []Span{wholeBlockSpan(block)}
	}
	return spans
}

func (d *Detector) tokenize(block string) []*sentences.Sentence {
	if d == nil || d.tokenizer == nil {
		return nil
	}
	return d.tokenizer.Tokenize(block)
}

// trimmedSpan locates the non-whitespace region of a raw sentence token
// positioned at offset within its block.
func trimmedSpan(raw string, offset int) (Span, bool) {
	leading := len(raw) - len(strings.TrimLeft(raw, " \t"))
	trimmed := strings.TrimRight(strings.TrimLeft(raw, " \t"), " \t")
	if trimmed == "" {
		return Span{}, false
	}
	start := offset + leading
	return Span{
		Start: start,
		End:   start + len(trimmed) - 1,
		Text:  trimmed,
	}, true
}

func wholeBlockSpan(block string) Span {
	span, _ := trimmedSpan(block, 0)
	return span
}
