package executor

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

// maxFingerprintBytes caps how much of each file feeds the fingerprint.
// This is change detection, not integrity verification; the cap avoids
// stalling on massive files.
const maxFingerprintBytes = 10 * 1024 * 1024

// fingerprintFiles hashes the filtered file set under root. Missing or
// unreadable files record an empty digest rather than aborting; a hook that
// deletes a file still shows up as a modification.
func fingerprintFiles(root string, files []string) map[string]string {
	prints := make(map[string]string, len(files))
	for _, rel := range files {
		hash, err := hashFile(filepath.Join(root, rel))
		if err != nil {
			prints[rel] = ""
			continue
		}
		prints[rel] = hash
	}
	return prints
}

// fingerprintsEqual reports whether two fingerprint maps are identical.
func fingerprintsEqual(before, after map[string]string) bool {
	if len(before) != len(after) {
		return false
	}
	for path, hash := range before {
		if after[path] != hash {
			return false
		}
	}
	return true
}

// hashFile computes a capped SHA-256 hash of the file at path.
func hashFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is a tracked file in the user's own repository
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	b := make([]byte, 4096)
	var total int64
	for {
		n, readErr := f.Read(b)
		if n > 0 {
			h.Write(b[:n])
			total += int64(n)
		}
		if readErr != nil {
			break
		}
		if total >= maxFingerprintBytes {
			break
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
