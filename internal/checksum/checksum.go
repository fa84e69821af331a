// Package checksum fingerprints page snapshots so backups can be verified
// before the remote copy is removed.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Sum returns the hex-encoded SHA-256 digest of a rendered page.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Verify reports an error unless data has the digest want.
func Verify(data []byte, want string) error {
	if got := Sum(data); got != want {
		return fmt.Errorf("checksum: mismatch: got %s, want %s", got, want)
	}
	return nil
}
