package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/conciliation/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir), "directories are not files")
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	newDir := filepath.Join(tmpDir, "new", "nested", "dir")
	require.NoError(t, fileutils.EnsureDirectoryExists(newDir))
	assert.True(t, fileutils.DirectoryExists(newDir))

	assert.NoError(t, fileutils.EnsureDirectoryExists(tmpDir))
}

func TestReadWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "a", "b.yaml")

	require.NoError(t, fileutils.WriteFile(path, []byte("version: 1\n"), 0600))
	data, err := fileutils.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", string(data))

	_, err = fileutils.ReadFile(filepath.Join(tmpDir, "missing"))
	assert.Error(t, err)
}

func TestExt(t *testing.T) {
	assert.Equal(t, ".xls", fileutils.Ext("/tmp/Extracto.XLS"))
	assert.Equal(t, ".xml", fileutils.Ext("camt.053.xml"))
	assert.Equal(t, "", fileutils.Ext("README"))
}

func TestMoveFiles(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "workbook")
	require.NoError(t, fileutils.WriteFile(filepath.Join(dst, "banco.csv"), []byte("old"), 0600))

	staging, err := fileutils.StagingDir(dst)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(staging, "banco.csv"), []byte("new"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(staging, "gastos.csv"), []byte("g"), 0600))

	require.NoError(t, fileutils.MoveFiles(staging, dst, []string{"banco.csv", "gastos.csv"}))

	data, err := os.ReadFile(filepath.Join(dst, "banco.csv"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.True(t, fileutils.FileExists(filepath.Join(dst, "gastos.csv")))
	assert.False(t, fileutils.FileExists(filepath.Join(staging, "banco.csv")))
}

func TestMoveFilesChecksSourcesFirst(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.csv"), []byte("a"), 0600))

	err := fileutils.MoveFiles(src, dst, []string{"a.csv", "b.csv"})
	assert.Error(t, err)
	assert.True(t, fileutils.FileExists(filepath.Join(src, "a.csv")), "nothing moved on failure")
	assert.False(t, fileutils.FileExists(filepath.Join(dst, "a.csv")))
}
