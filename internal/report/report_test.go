package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/dc-receiving/internal/core/pipeline"
	"github.com/joseph-ayodele/dc-receiving/internal/entity"
)

func sample() entity.ExtractionResult {
	return pipeline.New(pipeline.Options{}).Extract(entity.RawDocumentText{
		"Manifest Number: 0001234",
		"From: Acme Farms",
		"1A4FF0100000022000000001",
		"Wgt: 3.5 g",
		"Blue Dream 3.5g",
		"2",
		"g",
		"1A4FF0100000022000000002",
		"Gelato",
	})
}

func TestMarshal_ValidatesAgainstSchema(t *testing.T) {
	b, err := Marshal(sample(), EncodeOptions{})
	require.NoError(t, err)
	require.NoError(t, Validate(b))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.NotContains(t, doc, "raw_text")
	assert.Len(t, doc["packages"], 2)
}

func TestMarshal_FailedResultValidates(t *testing.T) {
	res := pipeline.New(pipeline.Options{RequireDestination: true}).Extract(nil)
	b, err := Marshal(res, EncodeOptions{Indent: true})
	require.NoError(t, err)
	require.NoError(t, Validate(b))
	assert.Contains(t, string(b), "\n  \"status\": \"failed\"")
}

func TestEncode_IncludeRawText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample(), EncodeOptions{IncludeRawText: true}))
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
	require.NoError(t, Validate(buf.Bytes()))

	var doc struct {
		RawText []string `json:"raw_text"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Manifest Number: 0001234", doc.RawText[0])
}

func TestValidate_RejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"bad status":      `{"status":"done","header":{},"packages":[],"diagnostics":[]}`,
		"missing header":  `{"status":"failed","packages":[],"diagnostics":[]}`,
		"bad package tag": `{"status":"succeeded","header":{},"packages":[{"sequence_number":1,"package_id":"XYZ","item_name":"a","quantity_shipped":1,"quantity_verified":true}],"diagnostics":[]}`,
		"negative qty":    `{"status":"succeeded","header":{},"packages":[{"sequence_number":1,"package_id":"1A4FF0100000022000000001","item_name":"a","quantity_shipped":-1,"quantity_verified":true}],"diagnostics":[]}`,
		"empty message":   `{"status":"failed","header":{},"packages":[],"diagnostics":[{"severity":"error","scope":{"kind":"document"},"message":""}]}`,
		"not json":        `{`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, Validate([]byte(doc)))
		})
	}
}
