// Package textsource turns manifest files into raw document lines: PDFs via
// pdftotext with a pure-Go pdfcpu fallback, plain text as-is.
package textsource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/dc-receiving/constants"
	"github.com/joseph-ayodele/dc-receiving/internal/common"
	"github.com/joseph-ayodele/dc-receiving/internal/entity"
)

const (
	MethodPdftotext = "pdftotext"
	MethodPdfcpu    = "pdfcpu"
	MethodText      = "text"
)

const defaultMaxFileSize = 32 << 20

type Config struct {
	Pdftotext   string // binary name or absolute path; if empty -> "pdftotext"
	MaxFileSize int64  // bytes; 0 -> 32 MiB
}

// Document is the text read from one manifest file.
type Document struct {
	Path     string
	Format   string // constants.PDF | constants.TEXT
	Method   string
	Pages    int
	Lines    entity.RawDocumentText
	Duration time.Duration
	Warnings []string
}

type Source struct {
	cfg    Config
	runner Runner
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxFileSize
	}
	return &Source{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Read picks a strategy based on file extension.
func (s *Source) Read(ctx context.Context, path string) (Document, error) {
	start := time.Now()
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, fmt.Errorf("%w: %w", common.ErrNotFound, err)
	}
	if err != nil {
		return Document{}, common.WrapError(err, "stat manifest")
	}
	if info.Size() > s.cfg.MaxFileSize {
		return Document{}, common.NewAppError("FILE_TOO_LARGE",
			fmt.Sprintf("%s is %d bytes (max %d)", path, info.Size(), s.cfg.MaxFileSize), common.ErrInvalidInput)
	}

	format := constants.MapExtToFormat(filepath.Ext(path))
	doc := Document{Path: path, Format: format}
	switch format {
	case constants.PDF:
		err = s.readPDF(ctx, &doc)
	case constants.TEXT:
		err = s.readText(&doc)
	default:
		s.logger.Warn("textsource.unsupported", zap.String("path", path))
		return doc, common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("unsupported extension %q", filepath.Ext(path)), common.ErrUnsupportedFormat)
	}
	doc.Duration = time.Since(start)
	if err != nil {
		return doc, err
	}

	s.logger.Debug("textsource.read.ok",
		zap.String("path", path),
		zap.String("method", doc.Method),
		zap.Int("pages", doc.Pages),
		zap.Int("lines", len(doc.Lines)),
		zap.Duration("duration", doc.Duration),
	)
	return doc, nil
}

func (s *Source) readText(doc *Document) error {
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return common.WrapError(err, "read text manifest")
	}
	doc.Method = MethodText
	doc.Pages = 1 + strings.Count(string(data), "\f")
	doc.Lines = splitColumns(entity.SplitLines(string(data)))
	return nil
}

// readPDF prefers pdftotext and falls back to pdfcpu when the tool is
// missing, fails, or returns no text.
func (s *Source) readPDF(ctx context.Context, doc *Document) error {
	// pdftotext -enc UTF-8 -eol unix <path> -
	out, errb, err := s.runner.Run(ctx, s.cfg.Pdftotext, "-enc", "UTF-8", "-eol", "unix", doc.Path, "-")
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("pdftotext failed: %v %s", err, strings.TrimSpace(string(errb))))
	case strings.TrimSpace(string(out)) == "":
		doc.Warnings = append(doc.Warnings, "pdftotext returned no text")
	default:
		text := string(out)
		doc.Method = MethodPdftotext
		// a form-feed \f separates pages
		doc.Pages = 1 + strings.Count(strings.TrimRight(text, "\f\n"), "\f")
		doc.Lines = splitColumns(entity.SplitLines(text))
		return nil
	}

	s.logger.Info("textsource.pdf.fallback", zap.String("path", doc.Path), zap.Strings("warnings", doc.Warnings))
	lines, pages, err := readPDFContent(doc.Path)
	if err != nil {
		return common.NewAppError("PDF_READ_FAILED", doc.Path, err)
	}
	doc.Method = MethodPdfcpu
	doc.Pages = pages
	doc.Lines = lines
	return nil
}

var reColumnGap = regexp.MustCompile(` {3,}|\t+`)

// splitColumns puts the cells of a laid-out table row on their own lines.
func splitColumns(lines entity.RawDocumentText) entity.RawDocumentText {
	out := make(entity.RawDocumentText, 0, len(lines))
	for _, line := range lines {
		for _, cell := range reColumnGap.Split(strings.TrimSpace(line), -1) {
			out = append(out, cell)
		}
	}
	return out
}
