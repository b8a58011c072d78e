package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/dc-receiving/internal/entity"
)

func TestNormalizeLines(t *testing.T) {
	raw := entity.RawDocumentText{
		"  Manifest\u00a0Number:   0001234 ",
		"",
		"\u200bFrom:\tAcme Farms\ufeff",
		"-----",
		"   ",
		"Blue\u00adDream",
	}
	got := NormalizeLines(raw)
	assert.Equal(t, []string{"Manifest Number: 0001234", "From: Acme Farms", "BlueDream"}, got)
}

func TestNormalizeLines_SplitsEmbeddedBreaks(t *testing.T) {
	got := NormalizeLines(entity.RawDocumentText{"a\nb\r\nc\fd\re"})
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestNormalizeLines_Empty(t *testing.T) {
	got := NormalizeLines(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = NormalizeLines(entity.RawDocumentText{"", " \t ", "____"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNormalizeLine_CompatibilityForms(t *testing.T) {
	assert.Equal(t, "123", NormalizeLine("\uff11\uff12\uff13"))
	assert.Equal(t, "fine", NormalizeLine("\ufb01ne"))
	assert.Equal(t, "a b", NormalizeLine("a\u2003\u2003b"))
}

func TestNormalizeLines_Deterministic(t *testing.T) {
	raw := entity.RawDocumentText{" x\u00a0 y ", "z"}
	first := NormalizeLines(raw)
	assert.Equal(t, first, NormalizeLines(raw))
	assert.Equal(t, first, NormalizeLines(entity.RawDocumentText(first)))
	assert.Equal(t, " x\u00a0 y ", raw[0], "input must not be modified")
}
