package manifest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/dc-receiving/constants"
	"github.com/joseph-ayodele/dc-receiving/internal/entity"
)

func parse(t *testing.T, lines ...string) (entity.PackageRecord, []entity.Diagnostic) {
	t.Helper()
	return ParseBlock(Block{Lines: append([]string{tag1}, lines...)}, 1)
}

func TestParseBlock_Complete(t *testing.T) {
	rec, diags := parse(t, "Blue Dream 3.5g", "2", "g", "Source Production Batch: BATCH-99")
	assert.Empty(t, diags)
	assert.Equal(t, 1, rec.SequenceNumber)
	assert.Equal(t, tag1, rec.PackageID)
	assert.Equal(t, "Blue Dream 3.5g", rec.ItemName)
	assert.Equal(t, json.Number("2"), rec.QuantityShipped)
	assert.True(t, rec.QuantityVerified)
	assert.Equal(t, "g", entity.StrOrEmpty(rec.UnitOfMeasure))
	assert.Equal(t, "BATCH-99", entity.StrOrEmpty(rec.BatchNumber))
	assert.Nil(t, rec.ItemDetails)
}

func TestParseBlock_MissingBatch(t *testing.T) {
	rec, diags := parse(t, "Blue Dream 3.5g", "2", "g")
	assert.Nil(t, rec.BatchNumber)
	require.Len(t, diags, 1)
	assert.Equal(t, constants.SeverityWarning, diags[0].Severity)
	assert.Equal(t, entity.Scope{Kind: constants.ScopePackage, Sequence: 1}, diags[0].Scope)
	assert.Contains(t, diags[0].Message, "batch")
}

func TestParseBlock_UnitBeforeNumber(t *testing.T) {
	rec, diags := parse(t, "Gelato Cart", "ea", "10", "Batch: B1")
	assert.Empty(t, diags)
	assert.Equal(t, json.Number("10"), rec.QuantityShipped)
	assert.Equal(t, "ea", entity.StrOrEmpty(rec.UnitOfMeasure))
	assert.Equal(t, "B1", entity.StrOrEmpty(rec.BatchNumber))
}

func TestParseBlock_DetailsBeforeName(t *testing.T) {
	rec, diags := parse(t,
		"Wgt: 3.5 g",
		"Strain: Blue Dream",
		"Blue Dream Flower",
		"Shp: 1 ea",
		"Batch No. B-7",
	)
	assert.Empty(t, diags)
	assert.Equal(t, "Blue Dream Flower", rec.ItemName)
	assert.Equal(t, "Wgt: 3.5 g; Strain: Blue Dream", entity.StrOrEmpty(rec.ItemDetails))
	assert.Equal(t, json.Number("1"), rec.QuantityShipped)
	assert.Equal(t, "ea", entity.StrOrEmpty(rec.UnitOfMeasure))
	assert.Equal(t, "B-7", entity.StrOrEmpty(rec.BatchNumber))
}

func TestParseBlock_DetailsOnNameLine(t *testing.T) {
	rec, _ := parse(t, "3.5 g | Blue Dream", "2 ea", "Batch: X")
	assert.Equal(t, "Blue Dream", rec.ItemName)
	assert.Equal(t, "3.5 g", entity.StrOrEmpty(rec.ItemDetails))
	assert.Equal(t, json.Number("2"), rec.QuantityShipped)
}

func TestParseBlock_MissingQuantity(t *testing.T) {
	rec, diags := parse(t, "Blue Dream", "Batch: X")
	assert.Equal(t, json.Number("0"), rec.QuantityShipped)
	assert.False(t, rec.QuantityVerified)
	assert.Nil(t, rec.UnitOfMeasure)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "unverified")
}

func TestParseBlock_ExtraQuantity(t *testing.T) {
	rec, diags := parse(t, "Blue Dream", "2 g", "5 g", "Batch: X")
	assert.Equal(t, json.Number("2"), rec.QuantityShipped)
	assert.Equal(t, "g", entity.StrOrEmpty(rec.UnitOfMeasure))
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "5 g")
}

func TestParseBlock_MergeOnlyAdjacent(t *testing.T) {
	rec, diags := parse(t, "Blue Dream", "2", "Batch: X", "g")
	assert.Empty(t, diags)
	assert.Equal(t, json.Number("2"), rec.QuantityShipped)
	assert.Nil(t, rec.UnitOfMeasure)
	assert.Equal(t, "Blue Dream", rec.ItemName)
}

func TestParseBlock_ReceivedQuantityIgnored(t *testing.T) {
	rec, diags := parse(t, "Blue Dream", "Shp: 10 ea", "Rec:", "9", "ea", "Batch: X")
	assert.Empty(t, diags)
	assert.Equal(t, json.Number("10"), rec.QuantityShipped)
	assert.Equal(t, "ea", entity.StrOrEmpty(rec.UnitOfMeasure))

	rec, diags = parse(t, "Blue Dream", "Shp: 10 ea Rec: 9 ea", "Batch: X")
	assert.Empty(t, diags)
	assert.Equal(t, json.Number("10"), rec.QuantityShipped)
}

func TestParseBlock_IgnoresBoilerplate(t *testing.T) {
	rec, diags := parse(t,
		"1. Package | Shipped",
		"Blue Dream",
		"Accepted",
		"Lab Test Passed",
		"Contains Retail IDs",
		"Item Details",
		"Page 1 of 2",
		"2 ea",
		"Batch: X",
	)
	assert.Empty(t, diags)
	assert.Equal(t, "Blue Dream", rec.ItemName)
}

func TestParseBlock_InterleavedPageHeader(t *testing.T) {
	rec, diags := parse(t, "Blue Dream", "Manifest No.", "0001234", "2 ea", "Batch: X")
	assert.Empty(t, diags)
	assert.Equal(t, "Blue Dream", rec.ItemName)
	assert.Equal(t, json.Number("2"), rec.QuantityShipped)
}

func TestParseBlock_BatchOnNextLine(t *testing.T) {
	rec, diags := parse(t, "Blue Dream", "2 ea", "Source Production Batch", "BATCH-99")
	assert.Empty(t, diags)
	assert.Equal(t, "BATCH-99", entity.StrOrEmpty(rec.BatchNumber))
	assert.Equal(t, "Blue Dream", rec.ItemName)
}

func TestParseBlock_NameOnTagLine(t *testing.T) {
	rec, diags := ParseBlock(Block{Lines: []string{tag1 + " Blue Dream 3.5g", "2 g", "Batch: X"}}, 4)
	assert.Empty(t, diags)
	assert.Equal(t, 4, rec.SequenceNumber)
	assert.Equal(t, tag1, rec.PackageID)
	assert.Equal(t, "Blue Dream 3.5g", rec.ItemName)
}

func TestParseBlock_NumberFormats(t *testing.T) {
	rec, _ := parse(t, "Gummies", "1,250 ea", "Batch: X")
	assert.Equal(t, json.Number("1250"), rec.QuantityShipped)

	rec, _ = parse(t, "Rosin", ".5 g", "Batch: X")
	assert.Equal(t, json.Number("0.5"), rec.QuantityShipped)

	rec, _ = parse(t, "Shake", "Qty: 28.350 g", "Batch: X")
	assert.Equal(t, json.Number("28.350"), rec.QuantityShipped)
}

func TestParseBlock_LabelledName(t *testing.T) {
	rec, _ := parse(t, "Item Name: Gelato", "1 ea", "Batch: X")
	assert.Equal(t, "Gelato", rec.ItemName)
}

func TestParseBlock_EmptyBlock(t *testing.T) {
	rec, diags := parse(t)
	assert.Equal(t, tag1, rec.PackageID)
	assert.Empty(t, rec.ItemName)
	assert.False(t, rec.Valid())
	require.Len(t, diags, 3)
	for _, d := range diags {
		assert.Equal(t, 1, d.Scope.Sequence)
	}
	assert.Contains(t, diags[0].Message, "item name")
}

func TestClassify_NumberWithUnknownWordIsName(t *testing.T) {
	assert.Equal(t, kindName, classify("10 Blue Dream").kind)
	assert.Equal(t, kindQuantity, classify("3.5 fl oz").kind)
	assert.Equal(t, kindUnit, classify("Grams").kind)
}

func TestParseBlock_QuantityAndDetailLayouts(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		item    string
		qty     json.Number
		unit    string
		details string
	}{
		{
			name:    "weight before name with labelled quantity",
			lines:   []string{"3.5 g", "Blue Dream", "Shp: 2 ea", "Batch: X"},
			item:    "Blue Dream",
			qty:     "2",
			unit:    "ea",
			details: "3.5 g",
		},
		{
			name:    "weight before name with split count",
			lines:   []string{"3.5g", "Blue Dream Flower", "2", "ea", "Batch: X"},
			item:    "Blue Dream Flower",
			qty:     "2",
			unit:    "ea",
			details: "3.5g",
		},
		{
			name:  "pack size returns to the name",
			lines: []string{"5 Pack", "Gummies", "Shp: 3 ea", "Batch: X"},
			item:  "5 Pack Gummies",
			qty:   "3",
			unit:  "ea",
		},
		{
			name:  "item name starting with a header word",
			lines: []string{"Origin Kush 3.5g", "Shp: 1 ea", "Batch: X"},
			item:  "Origin Kush 3.5g",
			qty:   "1",
			unit:  "ea",
		},
		{
			name:  "item name starting with receiver",
			lines: []string{"Receiver Blend Cart", "4 ea", "Batch: X"},
			item:  "Receiver Blend Cart",
			qty:   "4",
			unit:  "ea",
		},
		{
			name:    "detail and name on one line",
			lines:   []string{"Wgt: 3.5 g Blue Dream", "Shp: 2 ea", "Batch: X"},
			item:    "Blue Dream",
			qty:     "2",
			unit:    "ea",
			details: "Wgt: 3.5 g",
		},
		{
			name:  "weight alone is the quantity",
			lines: []string{"Blue Dream", "28 g", "Batch: X"},
			item:  "Blue Dream",
			qty:   "28",
			unit:  "g",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, diags := parse(t, tc.lines...)
			assert.Empty(t, diags)
			assert.Equal(t, tc.item, rec.ItemName)
			assert.Equal(t, tc.qty, rec.QuantityShipped)
			assert.Equal(t, tc.unit, entity.StrOrEmpty(rec.UnitOfMeasure))
			assert.Equal(t, tc.details, entity.StrOrEmpty(rec.ItemDetails))
		})
	}
}

func TestParseBlock_LabelledQuantityWinsOverBareCount(t *testing.T) {
	rec, diags := parse(t, "Blue Dream", "7", "Shp: 2 ea", "Batch: X")
	assert.Equal(t, json.Number("2"), rec.QuantityShipped)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "additional quantity 7")
}

func TestClassify_AnchorsNeedLabelPunctuation(t *testing.T) {
	assert.Equal(t, kindName, classify("Origin Kush 3.5g").kind)
	assert.Equal(t, kindName, classify("Destination Gummies").kind)
	assert.Equal(t, kindAnchor, classify("Origin: Acme").kind)
	assert.Equal(t, kindAnchor, classify("Origin").kind)
	assert.Equal(t, kindAnchor, classify("Manifest No.").kind)
	assert.Equal(t, kindAnchor, classify("Manifest Number 0001234").kind)
}
