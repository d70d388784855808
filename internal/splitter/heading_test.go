package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadingSplitter_Split(t *testing.T) {
	s := &HeadingSplitter{SourceTag: "docs---guide.md"}

	chunks := s.Split("## Intro\nHello\n## Usage\nWorld\n")

	assert.Len(t, chunks, 2)
	assert.Equal(t, "docs---guide.md---## Intro\nHello\n", chunks[0])
	assert.Equal(t, "docs---guide.md---## Usage\nWorld\n", chunks[1])
}

func TestHeadingSplitter_DiscardsPreamble(t *testing.T) {
	s := &HeadingSplitter{SourceTag: "tag"}

	chunks := s.Split("some preamble text\n## A\nbody")

	assert.Len(t, chunks, 1)
	assert.Equal(t, "tag---## A\nbody", chunks[0])
}

func TestHeadingSplitter_NoHeadings(t *testing.T) {
	s := &HeadingSplitter{SourceTag: "tag"}

	assert.Empty(t, s.Split("just plain text\nwith no headings\n"))
	assert.Empty(t, s.Split(""))
}

func TestHeadingSplitter_IndentedHeading(t *testing.T) {
	s := &HeadingSplitter{SourceTag: "tag"}

	chunks := s.Split("  ## Indented\nbody\n")

	assert.Len(t, chunks, 1)
	assert.Equal(t, "tag---## Indented\nbody\n", chunks[0])
}
