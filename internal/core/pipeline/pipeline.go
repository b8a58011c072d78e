package pipeline

import (
	"context"

	"github.com/joseph-ayodele/dc-receiving/constants"
	"github.com/joseph-ayodele/dc-receiving/internal/core/manifest"
	"github.com/joseph-ayodele/dc-receiving/internal/entity"
)

// Options tunes extraction. The zero value is the default policy.
type Options struct {
	// RequireDestination reports a missing destination as a header warning.
	RequireDestination bool
}

// Pipeline runs normalize → header → segment → parse → clean over one
// document. It holds no per-call state and is safe for concurrent use.
type Pipeline struct {
	opts Options
}

func New(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// Extract never fails: problems are reported as diagnostics and a document
// with no usable package records comes back with status failed. A failed
// result may still carry Packages: when blocks were found but none has both a
// package id and an item name, every block is returned for inspection.
func (p *Pipeline) Extract(raw entity.RawDocumentText) entity.ExtractionResult {
	if raw == nil {
		raw = entity.RawDocumentText{}
	}
	lines := manifest.NormalizeLines(raw)

	header, diags := manifest.ExtractHeader(lines, manifest.HeaderOptions{
		RequireDestination: p.opts.RequireDestination,
	})
	if diags == nil {
		diags = []entity.Diagnostic{}
	}

	blocks := manifest.Segment(lines)
	packages := make([]entity.PackageRecord, 0, len(blocks))
	firstSeen := map[string]int{}
	valid := 0
	for i, b := range blocks {
		seq := i + 1
		rec, pd := manifest.ParseBlock(b, seq)
		rec.ItemName = manifest.CleanItemName(rec.ItemName)
		diags = append(diags, pd...)
		if prev, ok := firstSeen[rec.PackageID]; ok {
			diags = append(diags, entity.PackageWarning(seq, "package id %s repeats package %d", rec.PackageID, prev))
		} else {
			firstSeen[rec.PackageID] = seq
		}
		if rec.Valid() {
			valid++
		}
		packages = append(packages, rec)
	}

	status := constants.StatusSucceeded
	switch {
	case len(packages) == 0:
		status = constants.StatusFailed
		diags = append(diags, entity.DocumentError("no packages found"))
	case valid == 0:
		status = constants.StatusFailed
		diags = append(diags, entity.DocumentError("no valid package records: %d package(s) missing package id or item name", len(packages)))
	}

	return entity.ExtractionResult{
		Status:      status,
		Header:      header,
		Packages:    packages,
		Diagnostics: diags,
		RawText:     raw,
	}
}

// ExtractText splits a text blob into lines and extracts it.
func (p *Pipeline) ExtractText(blob string) entity.ExtractionResult {
	return p.Extract(entity.SplitLines(blob))
}

// ExtractContext is Extract for callers that may already have given up.
func (p *Pipeline) ExtractContext(ctx context.Context, raw entity.RawDocumentText) (entity.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return entity.ExtractionResult{}, err
	}
	return p.Extract(raw), nil
}
