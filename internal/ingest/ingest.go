package ingest

import (
	"time"
)

// ManifestFile is one discovered manifest on disk.
type ManifestFile struct {
	Path    string
	Ext     string
	HashHex string
	Size    int64
	ModTime time.Time
	Err     string
}

// DirStats summarizes a directory listing.
type DirStats struct {
	Scanned    uint32
	Matched    uint32
	Duplicates uint32
	Failed     uint32
}
