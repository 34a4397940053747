package ragmark

import "strings"

// Block is the minimal unit of document content flowing through the
// enrichment pipeline: a paragraph, heading, list, or code fence with a
// word count. Blocks are created by the segmenter and read-only afterwards.
type Block struct {
	// Key identifies the block in enrichment calls (e.g. "BLOCK_001").
	// Empty for pass-through blocks that are never sent to the model.
	Key string

	// Text is the original markdown text of the block.
	Text string

	// Index is the block's position in the source document.
	Index int

	// Words is the number of whitespace-separated words in Text.
	Words int
}

// PassThrough reports whether the block skips enrichment and is re-emitted
// unchanged during reassembly.
func (b Block) PassThrough() bool {
	return b.Key == ""
}

// BlockPair couples a block's original text with its enriched form.
// Enhanced equals Original when enrichment fell back or was skipped.
type BlockPair struct {
	Original string `json:"original"`
	Enhanced string `json:"enhanced"`
}

// DocumentMetadata describes the document being enriched. It is part of the
// static context set once per enrichment session.
type DocumentMetadata struct {
	Title       string
	URL         string
	Description string
}

// CountWords returns the number of whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
