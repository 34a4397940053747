package ragmark_test

import (
	"testing"

	"github.com/fwojciec/ragmark"
	"github.com/stretchr/testify/assert"
)

func TestExtractSections(t *testing.T) {
	t.Parallel()

	t.Run("extracts H1 heading", func(t *testing.T) {
		t.Parallel()

		markdown := "# Introduction\n\nSome content here."

		sections := ragmark.ExtractSections(markdown)

		assert.Len(t, sections, 1)
		assert.Equal(t, 1, sections[0].Level)
		assert.Equal(t, "Introduction", sections[0].Title)
	})

	t.Run("extracts H2 through H6 headings", func(t *testing.T) {
		t.Parallel()

		markdown := `# H1 Title
## H2 Title
### H3 Title
#### H4 Title
##### H5 Title
###### H6 Title`

		sections := ragmark.ExtractSections(markdown)

		assert.Len(t, sections, 6)
		for i, s := range sections {
			assert.Equal(t, i+1, s.Level)
		}
	})

	t.Run("ignores headings inside code blocks", func(t *testing.T) {
		t.Parallel()

		markdown := "# Real Heading\n\n```\n# not a heading\n```\n"

		sections := ragmark.ExtractSections(markdown)

		assert.Len(t, sections, 1)
		assert.Equal(t, "Real Heading", sections[0].Title)
	})

	t.Run("returns nil for empty input", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, ragmark.ExtractSections(""))
	})
}
