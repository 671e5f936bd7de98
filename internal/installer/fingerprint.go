package installer

import (
	"encoding/binary"
	"fmt"
	"io/fs"
	"path"

	"github.com/cespare/xxhash/v2"
)

// FingerprintPrefix tags the hash algorithm in lock entries.
const FingerprintPrefix = "xxh64:"

// Fingerprint hashes every file under dir in fsys: relative path, length
// and bytes, in path order. It detects any content change, rename or
// added file. It is not a security primitive.
func Fingerprint(fsys fs.FS, dir string) (string, error) {
	h := xxhash.New()
	var size [8]byte

	err := walkFiles(fsys, dir, func(rel string, info fs.FileInfo) error {
		if info.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, rel))
		if err != nil {
			return err
		}
		_, _ = h.WriteString(rel)
		_, _ = h.Write([]byte{0})
		binary.BigEndian.PutUint64(size[:], uint64(len(data)))
		_, _ = h.Write(size[:])
		_, _ = h.Write(data)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fingerprinting %s: %w", dir, err)
	}
	return fmt.Sprintf("%s%016x", FingerprintPrefix, h.Sum64()), nil
}
