package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceExt is the conventional extension of QuasiScript files.
const SourceExt = ".qs"

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	parentDir = filepath.Dir(fullPath)
	return fullPath, parentDir, nil
}

// TargetPath replaces the extension of inPath with ext, or appends ext when
// inPath has none.
func TargetPath(inPath, ext string) string {
	cur := filepath.Ext(inPath)
	if cur == "" {
		return inPath + ext
	}
	return strings.TrimSuffix(inPath, cur) + ext
}

// ReadSource reads a source file, reporting its absolute path on failure.
func ReadSource(path string) (string, error) {
	full, _, err := GetPathInfo(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", full, err)
	}
	return string(data), nil
}
