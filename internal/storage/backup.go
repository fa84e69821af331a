package storage

import (
	"path"
	"strings"
	"time"
)

// TimestampLayout formats the time suffix of backup file names (YYYYMMDD-HHMMSS).
const TimestampLayout = "20060102-150405"

// BackupName returns the backup file name for a page path, relative to the
// backup root: the directory components of pagePath are mirrored and the
// file is named <lastSegment>-<timestamp>.md.
func BackupName(pagePath string, at time.Time) string {
	clean := strings.Trim(path.Clean("/"+pagePath), "/")
	dir, slug := path.Split(clean)
	if slug == "" {
		slug = "index"
	}
	return path.Join(dir, slug+"-"+at.Format(TimestampLayout)+".md")
}

// LastSegment returns the final component of a page path.
func LastSegment(pagePath string) string {
	trimmed := strings.TrimRight(pagePath, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
