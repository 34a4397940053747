package enrich

import "github.com/fwojciec/ragmark"

// Batch is a contiguous subset of a window's blocks sent in one enrichment
// call. Keys preserves block order; Texts maps key to original block text.
type Batch struct {
	Keys  []string
	Texts map[string]string
	Words int
}

// subset returns a new batch containing only the given keys, preserving the
// receiver's key order. The receiver is not modified; retry attempts always
// operate on fresh batch values.
func (b Batch) subset(keys []string) Batch {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}

	out := Batch{Texts: make(map[string]string, len(keys))}
	for _, k := range b.Keys {
		if !want[k] {
			continue
		}
		out.Keys = append(out.Keys, k)
		out.Texts[k] = b.Texts[k]
		out.Words += ragmark.CountWords(b.Texts[k])
	}
	return out
}

// BuildBatches groups blocks into batches near the target word count.
// A block is never split across batches; a single block larger than the
// target gets a batch of its own.
func BuildBatches(blocks []ragmark.Block, targetWords int) []Batch {
	if len(blocks) == 0 {
		return nil
	}
	if targetWords <= 0 {
		targetWords = DefaultTargetBatchWords
	}

	var batches []Batch
	cur := Batch{Texts: make(map[string]string)}

	for _, b := range blocks {
		if len(cur.Keys) > 0 && cur.Words+b.Words > targetWords {
			batches = append(batches, cur)
			cur = Batch{Texts: make(map[string]string)}
		}
		cur.Keys = append(cur.Keys, b.Key)
		cur.Texts[b.Key] = b.Text
		cur.Words += b.Words
	}
	if len(cur.Keys) > 0 {
		batches = append(batches, cur)
	}

	return batches
}
