package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo describes a bank export in the import directory.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Source string // format name derived from the file name
}

// importDir is the subdirectory for bank exports.
const importDir = "import"

// processedDir is the subdirectory for processed exports.
const processedDir = "import/processed"

func supportedExt(ext string) bool {
	return ext == ".csv" || ext == ".xlsx"
}

// SourceName returns the format name for a file: its name without extension.
// "chase.csv" -> "chase"
func SourceName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// Scan returns .csv and .xlsx files in <repoRoot>/import/, sorted by name.
func Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !supportedExt(strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Size:   info.Size(),
			Source: SourceName(e.Name()),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// ImportDir returns <repoRoot>/import.
func ImportDir(repoRoot string) string {
	return filepath.Join(repoRoot, importDir)
}

// ProcessedDir returns <repoRoot>/import/processed.
func ProcessedDir(repoRoot string) string {
	return filepath.Join(repoRoot, processedDir)
}
