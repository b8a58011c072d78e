package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/dc-receiving/internal/entity"
	"github.com/joseph-ayodele/dc-receiving/internal/report"
)

// Service writes export artifacts to disk.
type Service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// WriteAll writes res into dir in each requested format (csv, xlsx, json)
// and returns the written paths. The JSON report is written even for failed
// results so the diagnostics survive; csv and xlsx are not.
func (s *Service) WriteAll(dir string, res entity.ExtractionResult, formats []string) ([]string, error) {
	start := time.Now()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	for _, format := range formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case "csv":
			var buf bytes.Buffer
			err = WriteCSV(&buf, res)
			data = buf.Bytes()
		case "xlsx":
			data, err = s.XLSX(res)
		case "json":
			if data, err = report.Marshal(res, report.EncodeOptions{Indent: true}); err == nil {
				err = report.Validate(data)
			}
		default:
			err = fmt.Errorf("unknown export format %q", format)
		}
		if err != nil {
			s.logger.Warn("export.skipped", zap.String("format", format), zap.Error(err))
			if !res.Succeeded() {
				continue
			}
			return written, err
		}

		path := filepath.Join(dir, FileName(res, format))
		if format == "json" {
			path = filepath.Join(dir, jsonName(res))
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", format, err)
		}
		written = append(written, path)
	}

	s.logger.Info("export.write.ok",
		zap.String("dir", dir),
		zap.Strings("files", written),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return written, nil
}

func jsonName(res entity.ExtractionResult) string {
	name := FileName(res, "json")
	return name[:len(name)-len("_packages.json")] + "_extraction.json"
}
