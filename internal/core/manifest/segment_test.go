package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tag1 = "1A4FF0100000022000000001"
	tag2 = "1A4FF0100000022000000002"
)

func TestSegment(t *testing.T) {
	lines := []string{
		"Manifest Number: 0001234",
		"From: Acme Farms",
		tag1,
		"Blue Dream 3.5g",
		"2",
		"Package " + tag2 + " Gelato",
		"Batch: B2",
	}
	blocks := Segment(lines)
	require.Len(t, blocks, 2)
	assert.Equal(t, []string{tag1, "Blue Dream 3.5g", "2"}, blocks[0].Lines)
	assert.Equal(t, []string{"Package " + tag2 + " Gelato", "Batch: B2"}, blocks[1].Lines)
}

func TestSegment_NoTags(t *testing.T) {
	assert.Empty(t, Segment([]string{"Manifest Number: 1", "Blue Dream"}))
	assert.Empty(t, Segment(nil))
}

func TestSegment_RejoinsSplitTag(t *testing.T) {
	blocks := Segment([]string{"1A4FF01000000", "22000000001", "Blue Dream"})
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{tag1, "Blue Dream"}, blocks[0].Lines)

	blocks = Segment([]string{"1A4FF01", "0000002200", "0000001 Gelato"})
	require.Len(t, blocks, 1)
	assert.Equal(t, tag1+" Gelato", blocks[0].Lines[0])
}

func TestSegment_PartialTagWithoutCompletion(t *testing.T) {
	assert.Empty(t, Segment([]string{"1A4FF01", "Blue Dream"}))
}

func TestSegment_TagMustStandAlone(t *testing.T) {
	assert.Empty(t, Segment([]string{"X1A4FF0100000022000000001"}))
	assert.Empty(t, Segment([]string{"1A4FF0100000022000000001999"}))
}

func TestSegment_PartitionsEveryLineAfterFirstTag(t *testing.T) {
	lines := []string{"header", tag1, "a", "b", tag2, "c"}
	blocks := Segment(lines)
	var total int
	for _, b := range blocks {
		require.NotEmpty(t, b.Lines)
		assert.True(t, isTagLine(b.Lines[0]))
		total += len(b.Lines)
	}
	assert.Equal(t, len(lines)-1, total)
}
