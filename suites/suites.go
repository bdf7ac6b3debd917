// Package suites locates Robot Framework suite files inside a tests directory.
package suites

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the file extension of a suite
const Extension = ".robot"

// ErrSuiteNotFound is returned by Resolve when the suite file does not exist
var ErrSuiteNotFound = errors.New("suite not found")

// FileName returns the file name of the named suite
func FileName(name string) string {
	return name + Extension
}

// Resolve returns the path of the named suite inside testsDir. The file must
// exist and must not be a directory.
func Resolve(testsDir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("suite name cannot be empty")
	}
	path := filepath.Join(testsDir, FileName(name))
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSuiteNotFound, path)
		}
		return "", fmt.Errorf("failed to stat suite %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrSuiteNotFound, path)
	}
	return path, nil
}

// List returns the names (file stems) of the suites directly inside testsDir,
// sorted. A missing directory yields no suites.
func List(testsDir string) ([]string, error) {
	entries, err := os.ReadDir(testsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tests directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Extension {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), Extension))
	}
	sort.Strings(names)
	return names, nil
}
