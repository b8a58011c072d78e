package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ListManifests walks root, skips hidden entries if requested, and returns
// every pdf/txt file in lexical order. Files whose content repeats an earlier
// one are counted as duplicates and left out.
func ListManifests(ctx context.Context, root string, skipHidden bool) ([]ManifestFile, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []ManifestFile
	var stats DirStats
	dedup := NewDeduper()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			results = append(results, ManifestFile{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		mf, err := HashFile(path)
		if err != nil {
			mf.Err = err.Error()
			results = append(results, mf)
			stats.Failed++
			return nil
		}
		if _, fresh := dedup.Mark(mf.HashHex, path); !fresh {
			stats.Duplicates++
			return nil
		}
		results = append(results, mf)
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}

// Paths returns the paths of files that were read without error.
func Paths(files []ManifestFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f.Err == "" {
			out = append(out, f.Path)
		}
	}
	return out
}
