package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/dc-receiving/internal/common"
	"github.com/joseph-ayodele/dc-receiving/internal/core/pipeline"
	"github.com/joseph-ayodele/dc-receiving/internal/core/textsource"
	"github.com/joseph-ayodele/dc-receiving/internal/entity"
)

// TextSource reads a manifest file into raw lines.
type TextSource interface {
	Read(ctx context.Context, path string) (textsource.Document, error)
}

// Outcome is one processed manifest.
type Outcome struct {
	RunID    uuid.UUID
	Path     string
	Method   string
	Pages    int
	Duration time.Duration
	Result   entity.ExtractionResult
}

// Processor coordinates text acquisition then extraction.
type Processor struct {
	logger   *zap.Logger
	source   TextSource
	pipeline *pipeline.Pipeline
	timeout  time.Duration
}

func NewProcessor(logger *zap.Logger, source TextSource, p *pipeline.Pipeline, timeout time.Duration) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if p == nil {
		p = pipeline.New(pipeline.Options{})
	}
	return &Processor{logger: logger, source: source, pipeline: p, timeout: timeout}
}

// ProcessFile reads path and extracts it. A document without usable packages
// is not an error here: the outcome carries a failed result and its
// diagnostics. Errors are reserved for unreadable files and cancellation.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Outcome, error) {
	start := time.Now()
	runID := uuid.New()
	ctx = common.WithRequestID(ctx, runID.String())
	ctx = common.WithSourcePath(ctx, path)
	ctx, cancel := common.WithTimeout(ctx, p.timeout)
	defer cancel()

	out := Outcome{RunID: runID, Path: path}
	doc, err := p.source.Read(ctx, path)
	if err != nil {
		p.logger.Error("processor.read.failed", zap.String("run_id", runID.String()), zap.String("path", path), zap.Error(err))
		return out, err
	}
	out.Method = doc.Method
	out.Pages = doc.Pages
	for _, w := range doc.Warnings {
		p.logger.Warn("processor.read.warning", zap.String("run_id", runID.String()), zap.String("path", path), zap.String("warning", w))
	}

	res, err := p.pipeline.ExtractContext(ctx, doc.Lines)
	if err != nil {
		p.logger.Error("processor.extract.failed", zap.String("run_id", runID.String()), zap.String("path", path), zap.Error(err))
		return out, err
	}
	out.Result = res
	out.Duration = time.Since(start)
	p.logResult(out)
	return out, nil
}

// ProcessText extracts already-acquired text. name only labels logs.
func (p *Processor) ProcessText(ctx context.Context, name string, raw entity.RawDocumentText) (Outcome, error) {
	start := time.Now()
	out := Outcome{RunID: uuid.New(), Path: name, Method: textsource.MethodText, Pages: 1}
	res, err := p.pipeline.ExtractContext(ctx, raw)
	if err != nil {
		return out, err
	}
	out.Result = res
	out.Duration = time.Since(start)
	p.logResult(out)
	return out, nil
}

func (p *Processor) logResult(out Outcome) {
	res := out.Result
	fields := []zap.Field{
		zap.String("run_id", out.RunID.String()),
		zap.String("path", out.Path),
		zap.String("method", out.Method),
		zap.String("status", string(res.Status)),
		zap.String("manifest_number", entity.StrOrEmpty(res.Header.ManifestNumber)),
		zap.Int("packages", len(res.Packages)),
		zap.Int("warnings", res.Warnings()),
		zap.Duration("duration", out.Duration),
	}
	if !res.Succeeded() {
		p.logger.Warn("processor.extract.no_packages", append(fields, zap.Error(res.Err()))...)
		return
	}
	p.logger.Info("processor.extract.done", fields...)
	for _, d := range res.Diagnostics {
		p.logger.Debug("processor.extract.diagnostic", zap.String("run_id", out.RunID.String()), zap.Stringer("diagnostic", d))
	}
}
