package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineFileFullPath(t *testing.T) {
	tmpDir := t.TempDir()
	existing := filepath.Join(tmpDir, "data.sarif")
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0o644))

	tests := []struct {
		name         string
		inputPath    string
		nameTemplate string
		expectFile   string
		expectFolder string
	}{
		{
			name:         "Directory path with name template",
			inputPath:    tmpDir,
			nameTemplate: "report.sarif",
			expectFile:   filepath.Join(tmpDir, "report.sarif"),
			expectFolder: tmpDir,
		},
		{
			name:         "Existing file",
			inputPath:    existing,
			nameTemplate: "ignored.sarif",
			expectFile:   existing,
			expectFolder: tmpDir,
		},
		{
			name:         "Path with no extension, treat as folder",
			inputPath:    filepath.Join(tmpDir, "out"),
			nameTemplate: "report.sarif",
			expectFile:   filepath.Join(tmpDir, "out", "report.sarif"),
			expectFolder: filepath.Join(tmpDir, "out"),
		},
		{
			name:         "Non-existent file with extension",
			inputPath:    filepath.Join(tmpDir, "missing.sarif"),
			nameTemplate: "ignored.sarif",
			expectFile:   filepath.Join(tmpDir, "missing.sarif"),
			expectFolder: tmpDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filePath, folderPath, err := DetermineFileFullPath(tt.inputPath, tt.nameTemplate)
			require.NoError(t, err)
			assert.Equal(t, tt.expectFile, filePath)
			assert.Equal(t, tt.expectFolder, folderPath)
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "out.sarif")

	require.NoError(t, WriteFileAtomic(target, []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(target, []byte("second"), 0o644))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2.1.0"}`), 0o644))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"2.1.0"}`, string(data))

	_, err = ReadFile(filepath.Join(dir, "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "report.sarif")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))

	assert.NoError(t, ValidatePath(file))
	assert.Error(t, ValidatePath(dir))
	assert.Error(t, ValidatePath(filepath.Join(dir, "absent.sarif")))
}

func TestOutputPathFor(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "build.enriched.sarif"), OutputPathFor("/tmp/reports/build.sarif", "out", ".enriched"))
	assert.Equal(t, filepath.Join("out", "scan"), OutputPathFor("scan", "out", ""))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandPath("~/reports/a.sarif")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "reports", "a.sarif"), expanded)

	unchanged, err := ExpandPath("/abs/a.sarif")
	require.NoError(t, err)
	assert.Equal(t, "/abs/a.sarif", unchanged)
}
