package site

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
)

// ChecksumManifestName is the output manifest listing a BLAKE3-256 hash for
// every emitted file, one "hash  relpath" line each. verse-verify re-checks
// it after deployment copies.
const ChecksumManifestName = "BLAKE3MANIFEST"

// writeChecksumManifest hashes every written artifact and emits the manifest
// at the output root. The manifest itself is not listed.
func (b *Builder) writeChecksumManifest() error {
	paths := append([]string(nil), b.written...)
	sort.Strings(paths)

	var lines strings.Builder
	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(b.cfg.OutDir, rel)) // nolint: gosec
		if err != nil {
			return fmt.Errorf("hashing %s: %w", rel, err)
		}
		sum := blake3.Sum256(data)
		fmt.Fprintf(&lines, "%s  %s\n", hex.EncodeToString(sum[:]), rel)
	}

	path := filepath.Join(b.cfg.OutDir, ChecksumManifestName)
	if err := os.WriteFile(path, []byte(lines.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", ChecksumManifestName, err)
	}
	return nil
}
