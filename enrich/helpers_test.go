package enrich_test

import (
	"fmt"
	"strings"
)

// blockKey formats a key the way the segmenter does.
func blockKey(n int) string {
	return fmt.Sprintf("BLOCK_%03d", n)
}

// wordText builds a text with exactly n distinct words.
func wordText(n int) string {
	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, fmt.Sprintf("word%d", i))
	}
	return strings.Join(words, " ")
}
