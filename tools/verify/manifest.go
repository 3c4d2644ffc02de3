package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/julianstephens/verse-pages/internal/site"
)

// Run re-hashes every file listed in the BLAKE3 manifest the builder emitted
// and reports mismatches. Paths in the manifest are relative to the site
// root.
func (c *ManifestCmd) Run(stop chan bool) error {
	manifestPath := filepath.Join(c.Site, site.ChecksumManifestName)
	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		close(stop)
		return fmt.Errorf("manifest file not found in site directory: %s", manifestPath)
	}

	file, err := os.Open(manifestPath) // nolint: gosec
	if err != nil {
		close(stop)
		return fmt.Errorf("failed to open manifest file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Printf("Error closing manifest file: %v\n", err)
		}
	}()

	var totalFiles int
	var mismatches int
	var errors int

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Manifest line: "hash  relpath"
		parts := strings.Fields(line)
		if len(parts) < 2 {
			fmt.Printf("Manifest error: invalid line format - %s\n", line)
			errors++
			continue
		}

		expectedHash := parts[0]
		relPath := strings.Join(parts[1:], " ") // Handle paths with spaces

		totalFiles++

		fileContent, err := os.ReadFile(filepath.Join(c.Site, filepath.FromSlash(relPath))) // nolint: gosec
		if err != nil {
			fmt.Printf("Manifest error: cannot read file %s - %v\n", relPath, err)
			errors++
			continue
		}

		sum := blake3.Sum256(fileContent)
		actualHash := hex.EncodeToString(sum[:])

		if actualHash != expectedHash {
			fmt.Printf("Hash mismatch for %s: expected %s, got %s\n", relPath, expectedHash, actualHash)
			mismatches++
		}
	}

	if err := scanner.Err(); err != nil {
		close(stop)
		return fmt.Errorf("error reading manifest file: %w", err)
	}

	close(stop)

	fmt.Println("========================================")
	fmt.Printf("Total Files Verified: %d\n", totalFiles)
	fmt.Printf("Hash Mismatches: %d\n", mismatches)
	fmt.Printf("Read Errors: %d\n", errors)
	fmt.Println("========================================")

	if mismatches > 0 || errors > 0 {
		return fmt.Errorf("manifest validation failed: %d mismatches, %d errors", mismatches, errors)
	}

	fmt.Println("Manifest validation completed successfully")
	return nil
}
