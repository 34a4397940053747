package enrich

import (
	"strings"

	"github.com/fwojciec/ragmark"
)

// Window is a contiguous run of keyed blocks sized to fit the model's usable
// context capacity. Adjacent windows share roughly OverlapFraction of the
// capacity in words, snapped to block boundaries; a block is never split
// between windows.
type Window struct {
	Blocks []ragmark.Block
	Words  int
}

// Text joins the window's block texts. This is the window-scoped cached
// context shared by every batch call within the window.
func (w Window) Text() string {
	parts := make([]string, 0, len(w.Blocks))
	for _, b := range w.Blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n\n")
}

// WindowCapacity computes the usable word budget for one window:
// usable tokens (context size times utilization, minus fixed reserves)
// converted to words, clamped to [MinWindowWords, MaxWindowWords].
func (c Config) WindowCapacity() int {
	cfg := c.withDefaults()
	tokens := float64(cfg.ContextTokens)*cfg.Utilization - float64(cfg.ReserveTokens)
	words := int(tokens * cfg.TokenWordRatio)
	if words < cfg.MinWindowWords {
		return cfg.MinWindowWords
	}
	if words > cfg.MaxWindowWords {
		return cfg.MaxWindowWords
	}
	return words
}

// PlanWindows splits keyed blocks into overlapping windows. When the whole
// corpus fits within capacity a single window is emitted, giving every call
// full-document context. Otherwise blocks accumulate until adding the next
// one would exceed capacity; the following window steps back by
// overlap*capacity words' worth of whole blocks.
//
// Window boundaries are a deterministic function of cumulative word counts,
// so planning the same blocks twice yields identical windows.
func PlanWindows(blocks []ragmark.Block, capacity int, overlap float64) []Window {
	if len(blocks) == 0 {
		return nil
	}

	total := 0
	for _, b := range blocks {
		total += b.Words
	}
	if capacity <= 0 || total <= capacity {
		return []Window{{Blocks: blocks, Words: total}}
	}

	var windows []Window
	start := 0
	for start < len(blocks) {
		words := 0
		end := start
		for end < len(blocks) {
			// Always take at least one block, even one over capacity.
			if words > 0 && words+blocks[end].Words > capacity {
				break
			}
			words += blocks[end].Words
			end++
		}

		windows = append(windows, Window{Blocks: blocks[start:end], Words: words})
		if end >= len(blocks) {
			break
		}

		// Step back from the window's end by whole blocks until the overlap
		// budget is spent.
		budget := int(overlap * float64(capacity))
		next := end
		sum := 0
		for next > start && sum+blocks[next-1].Words <= budget {
			sum += blocks[next-1].Words
			next--
		}
		if next <= start {
			next = start + 1 // guarantee forward progress
		}
		start = next
	}

	return windows
}
