package enrich_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/ragmark/enrich"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	t.Parallel()

	t.Run("assigns sequential zero-padded keys to eligible blocks", func(t *testing.T) {
		t.Parallel()

		texts := []string{
			"This is a long enough paragraph with plenty of real text content.",
			"Another long enough paragraph with plenty of real text content too.",
		}

		blocks := enrich.Segment(texts, 30)

		require.Len(t, blocks, 2)
		assert.Equal(t, "BLOCK_001", blocks[0].Key)
		assert.Equal(t, "BLOCK_002", blocks[1].Key)
		assert.Equal(t, 0, blocks[0].Index)
		assert.Equal(t, 1, blocks[1].Index)
	})

	t.Run("marks short blocks pass-through but keeps their position", func(t *testing.T) {
		t.Parallel()

		texts := []string{
			"## API",
			"A sufficiently long paragraph describing the API in real words.",
			"---",
		}

		blocks := enrich.Segment(texts, 30)

		require.Len(t, blocks, 3)
		assert.True(t, blocks[0].PassThrough())
		assert.Equal(t, "BLOCK_001", blocks[1].Key)
		assert.True(t, blocks[2].PassThrough())
		assert.Equal(t, 2, blocks[2].Index)
	})

	t.Run("ignores structural punctuation when measuring length", func(t *testing.T) {
		t.Parallel()

		// Lots of markup characters but little real text.
		texts := []string{"### **[...](#)** `---` ||| === !!! +++ >>>"}

		blocks := enrich.Segment(texts, 5)

		assert.True(t, blocks[0].PassThrough())
	})

	t.Run("counts words per block", func(t *testing.T) {
		t.Parallel()

		blocks := enrich.Segment([]string{"one two three four five six seven eight nine ten eleven"}, 30)

		assert.Equal(t, 11, blocks[0].Words)
	})
}

func TestSplitBlocks(t *testing.T) {
	t.Parallel()

	t.Run("splits on blank lines", func(t *testing.T) {
		t.Parallel()

		md := "First paragraph.\n\nSecond paragraph.\n\n\nThird."

		blocks := enrich.SplitBlocks(md)

		assert.Equal(t, []string{"First paragraph.", "Second paragraph.", "Third."}, blocks)
	})

	t.Run("keeps fenced code blocks intact", func(t *testing.T) {
		t.Parallel()

		md := "Intro.\n\n```go\nfunc main() {\n\n}\n```\n\nOutro."

		blocks := enrich.SplitBlocks(md)

		require.Len(t, blocks, 3)
		assert.True(t, strings.Contains(blocks[1], "func main()"))
		assert.True(t, strings.Contains(blocks[1], "```"))
	})

	t.Run("returns nil for whitespace-only input", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, enrich.SplitBlocks("\n\n  \n"))
	})
}
