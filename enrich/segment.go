package enrich

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fwojciec/ragmark"
)

// Segment filters raw block texts for enrichment eligibility. Blocks whose
// real-text length (after stripping markdown structural punctuation) falls
// below minChars are marked pass-through; they keep their position for
// reassembly but are never sent to the model. Eligible blocks receive
// sequential zero-padded keys in original order.
func Segment(texts []string, minChars int) []ragmark.Block {
	blocks := make([]ragmark.Block, 0, len(texts))
	keyed := 0
	for i, text := range texts {
		b := ragmark.Block{
			Text:  text,
			Index: i,
			Words: ragmark.CountWords(text),
		}
		if realTextLen(text) >= minChars {
			keyed++
			b.Key = fmt.Sprintf("BLOCK_%03d", keyed)
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// Eligible returns the keyed subset of blocks in original order.
func Eligible(blocks []ragmark.Block) []ragmark.Block {
	var out []ragmark.Block
	for _, b := range blocks {
		if !b.PassThrough() {
			out = append(out, b)
		}
	}
	return out
}

// realTextLen counts content characters after removing markdown structure:
// heading and list markers, emphasis, brackets, code fences, table pipes and
// whitespace.
func realTextLen(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case '#', '*', '_', '`', '~', '>', '[', ']', '(', ')', '{', '}', '|', '-', '+', '=', '!', '.', ':':
			continue
		}
		if unicode.IsSpace(r) {
			continue
		}
		n++
	}
	return n
}

// SplitBlocks splits markdown into blocks on blank lines, keeping fenced
// code blocks intact. It is a deliberately simple splitter for content that
// arrives as whole markdown documents rather than pre-parsed blocks.
func SplitBlocks(markdown string) []string {
	var blocks []string
	var cur []string
	inFence := false

	flush := func() {
		if len(cur) == 0 {
			return
		}
		b := strings.Join(cur, "\n")
		if strings.TrimSpace(b) != "" {
			blocks = append(blocks, b)
		}
		cur = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			cur = append(cur, line)
			continue
		}
		if trimmed == "" && !inFence {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()

	return blocks
}
