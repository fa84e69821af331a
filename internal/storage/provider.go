// Package storage writes local page documents and page backups.
package storage

// Provider is the interface for files kept under a root directory.
type Provider interface {
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root),
	// creating intermediate directories.
	Write(path string, content []byte) error
	// Abs resolves path (relative to root) to an absolute path.
	Abs(path string) (string, error)
}
