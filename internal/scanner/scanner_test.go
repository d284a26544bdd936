package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/conciliation/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
}

func newScanner() *StatementScanner {
	return NewStatementScanner(logging.NewMockLogger(), ".csv", ".xlsx", ".xls", ".xml")
}

func TestScanPaths_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enero.pdf")
	touch(t, path)

	files, err := newScanner().ScanPaths([]string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestScanPaths_Directory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "2024-02.csv"))
	touch(t, filepath.Join(dir, "2024-01.XLS"))
	touch(t, filepath.Join(dir, "nested", "2024-03.xml"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, ".hidden.csv"))
	touch(t, filepath.Join(dir, ".cache", "old.csv"))

	files, err := newScanner().ScanPaths([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "2024-01.XLS"),
		filepath.Join(dir, "2024-02.csv"),
		filepath.Join(dir, "nested", "2024-03.xml"),
	}, files)
}

func TestScanPaths_KeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "b.csv")
	b := filepath.Join(dir, "sub", "a.csv")
	touch(t, a)
	touch(t, b)

	files, err := newScanner().ScanPaths([]string{a, filepath.Join(dir, "sub")})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestScanPaths_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := newScanner().ScanPaths([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)

	touch(t, filepath.Join(dir, "empty", "readme.md"))
	_, err = newScanner().ScanPaths([]string{filepath.Join(dir, "empty")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no statement files found")
}
