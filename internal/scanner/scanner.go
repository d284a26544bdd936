// Package scanner expands command line paths into the list of statement
// files to read.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"fjacquet/conciliation/internal/fileutils"
	"fjacquet/conciliation/internal/logging"
)

// StatementScanner finds files with one of a set of extensions.
type StatementScanner struct {
	logger     logging.Logger
	extensions []string
}

// NewStatementScanner creates a scanner accepting the given lower-case
// extensions, dot included.
func NewStatementScanner(logger logging.Logger, extensions ...string) *StatementScanner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &StatementScanner{logger: logger, extensions: extensions}
}

// ScanPaths returns the files named by paths. A directory is walked
// recursively and contributes its files with an accepted extension, sorted
// by path; hidden files are skipped. Files named explicitly are kept in the
// given order whatever their extension, so the reader can reject them with
// a precise error.
func (s *StatementScanner) ScanPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := s.scanDirectory(p)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no statement files found in %s", p)
		}
		files = append(files, found...)
	}
	return files, nil
}

func (s *StatementScanner) scanDirectory(dirPath string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.WithError(err).Warn("Error walking path", logging.F(logging.FieldFile, path))
			return nil
		}
		if path != dirPath && d.Name()[0] == '.' {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !slices.Contains(s.extensions, fileutils.Ext(path)) {
			s.logger.Debug("Skipping file", logging.F(logging.FieldFile, path))
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}
	sort.Strings(files)
	s.logger.Debug("Directory scanned",
		logging.F(logging.FieldDirectory, dirPath),
		logging.F(logging.FieldCount, len(files)))
	return files, nil
}
