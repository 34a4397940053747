package enrich

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Outcome is the result of validating one enhanced block.
type Outcome struct {
	Valid  bool
	Reason string
}

// annotationRe matches bracketed annotation spans of the form [[...]].
var annotationRe = regexp.MustCompile(`\[\[[^\[\]]*\]\]`)

// StripAnnotations removes all bracketed annotation spans from s.
func StripAnnotations(s string) string {
	return annotationRe.ReplaceAllString(s, " ")
}

// Validate checks the word-preservation invariant: removing every bracketed
// annotation from enhanced must yield exactly the original's word sequence.
// Enrichment may only add [[...]] spans, never remove, change or reorder
// original words.
//
// Comparison splits both texts on Unicode whitespace and trims punctuation
// from token edges, so an annotation inserted next to a comma or period does
// not flip the result. It is a pure function of its inputs.
func Validate(original, enhanced string) Outcome {
	want := normalizeWords(original)
	got := normalizeWords(StripAnnotations(enhanced))

	if len(got) != len(want) {
		return Outcome{Reason: fmt.Sprintf("word count changed from %d to %d", len(want), len(got))}
	}
	for i := range want {
		if want[i] != got[i] {
			return Outcome{Reason: fmt.Sprintf("word %d changed from %q to %q", i+1, want[i], got[i])}
		}
	}
	return Outcome{Valid: true}
}

// normalizeWords splits s on whitespace and trims punctuation and symbols
// from each token's edges. Tokens that were pure punctuation are dropped.
func normalizeWords(s string) []string {
	fields := strings.Fields(s)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// ValidationCache memoizes Validate results by a content-derived key, so
// retries of identical (original, enhanced) pairs skip recomputation.
// Safe for concurrent use.
type ValidationCache struct {
	entries *lru.Cache[uint64, Outcome]
}

// DefaultValidationCacheSize bounds the memoization cache.
const DefaultValidationCacheSize = 4096

// NewValidationCache creates a bounded validation cache. Sizes <= 0 use
// DefaultValidationCacheSize.
func NewValidationCache(size int) (*ValidationCache, error) {
	if size <= 0 {
		size = DefaultValidationCacheSize
	}
	entries, err := lru.New[uint64, Outcome](size)
	if err != nil {
		return nil, err
	}
	return &ValidationCache{entries: entries}, nil
}

// Validate returns the memoized outcome for the pair, computing and storing
// it on first sight.
func (c *ValidationCache) Validate(original, enhanced string) Outcome {
	key := pairKey(original, enhanced)
	if out, ok := c.entries.Get(key); ok {
		return out
	}
	out := Validate(original, enhanced)
	c.entries.Add(key, out)
	return out
}

// pairKey derives a cache key from both texts.
func pairKey(original, enhanced string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(original)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(enhanced)
	return d.Sum64()
}
