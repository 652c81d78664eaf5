package build

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sort"
)

// Fingerprint summarizes everything a site build reads. Equal RenderHash
// values mean the outputs are the same.
type Fingerprint struct {
	ContentHash string
	ThemeHash   string
	ConfigHash  string
	RenderHash  string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte(f.ThemeHash))
	h.Write([]byte(f.ConfigHash))
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// HashFiles hashes names and contents of the given files, independent of
// their order. Files that vanish between listing and reading are skipped.
func HashFiles(paths []string) (string, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	h := sha256.New()
	for _, p := range sorted {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", err
		}
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write([]byte(HashBytes(data)))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SameContent reports whether path already holds data.
func SameContent(path string, data []byte) bool {
	old, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return HashBytes(old) == HashBytes(data)
}
