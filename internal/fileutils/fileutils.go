// Package fileutils provides common file operations used throughout the application.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// ReadFile reads the entire contents of a file and returns it as a byte slice
func ReadFile(filePath string) ([]byte, error) {
	if !FileExists(filePath) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

// WriteFile writes data to a file, creating the file if it doesn't exist
// and creating any parent directories if needed
func WriteFile(filePath string, data []byte, perm os.FileMode) error {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return err
	}

	if err := os.WriteFile(filePath, data, perm); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Ext returns the lower-cased extension of a path, including the dot.
func Ext(filePath string) string {
	return strings.ToLower(filepath.Ext(filePath))
}

// StagingDir creates a temporary directory next to dstDir, on the same
// filesystem so that MoveFiles can rename out of it.
func StagingDir(dstDir string) (string, error) {
	if err := EnsureDirectoryExists(dstDir); err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp(dstDir, ".staging-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	return dir, nil
}

// MoveFiles renames the named files from srcDir into dstDir, replacing any
// existing file. Every source must exist before anything is moved.
func MoveFiles(srcDir, dstDir string, names []string) error {
	for _, name := range names {
		if !FileExists(filepath.Join(srcDir, name)) {
			return fmt.Errorf("file does not exist: %s", filepath.Join(srcDir, name))
		}
	}
	if err := EnsureDirectoryExists(dstDir); err != nil {
		return err
	}
	for _, name := range names {
		if err := os.Rename(filepath.Join(srcDir, name), filepath.Join(dstDir, name)); err != nil {
			return fmt.Errorf("failed to move %s: %w", name, err)
		}
	}
	return nil
}
