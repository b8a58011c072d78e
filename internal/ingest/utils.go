package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joseph-ayodele/dc-receiving/constants"
)

// AllowedExt checks if a file extension is in the allowed set (pdf/txt).
func AllowedExt(ext string) bool {
	return constants.IsAllowedExt(ext)
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// HashFile stats and hashes path.
func HashFile(path string) (ManifestFile, error) {
	out := ManifestFile{Path: path, Ext: constants.NormalizeExt(filepath.Ext(path))}
	f, err := os.Open(path)
	if err != nil {
		return out, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return out, fmt.Errorf("stat: %w", err)
	}
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return out, fmt.Errorf("hash: %w", err)
	}
	out.HashHex = hex.EncodeToString(h.Sum(nil))
	out.Size = info.Size()
	out.ModTime = info.ModTime().UTC()
	return out, nil
}

// Deduper remembers content hashes so the same manifest is processed once
// even when it is saved repeatedly or copied under another name.
type Deduper struct {
	mu   sync.Mutex
	seen map[string]string
}

func NewDeduper() *Deduper {
	return &Deduper{seen: map[string]string{}}
}

// Mark records hash for path. It returns the path first seen with the same
// content and false when hash was already known.
func (d *Deduper) Mark(hash, path string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if first, ok := d.seen[hash]; ok {
		return first, false
	}
	d.seen[hash] = path
	return path, true
}
