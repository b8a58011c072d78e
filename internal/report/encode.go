// Package report renders extraction results as JSON documents and checks
// them against the published result schema.
package report

import (
	"encoding/json"
	"io"

	"github.com/joseph-ayodele/dc-receiving/internal/entity"
)

type EncodeOptions struct {
	Indent         bool
	IncludeRawText bool
}

// Marshal encodes res. Raw text is dropped unless requested.
func Marshal(res entity.ExtractionResult, opts EncodeOptions) ([]byte, error) {
	if !opts.IncludeRawText {
		res.RawText = nil
	}
	if opts.Indent {
		return json.MarshalIndent(res, "", "  ")
	}
	return json.Marshal(res)
}

// Encode writes res to w followed by a newline.
func Encode(w io.Writer, res entity.ExtractionResult, opts EncodeOptions) error {
	b, err := Marshal(res, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
