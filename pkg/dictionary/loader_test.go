package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectFileFormat(t *testing.T) {
	tests := []struct {
		name string
		want FileFormat
	}{
		{"words.toml", FormatTOML},
		{"words.TXT", FormatText},
		{"words.tsv", FormatText},
		{"words.msgpack", FormatMsgpack},
	}
	for _, tt := range tests {
		got, err := DetectFileFormat(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := DetectFileFormat("words.bin")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "extra.toml", "[words]\nKaalai = \"காலை\"\n\"bad key\" = \"x\"\n")

	words, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"kaalai": "காலை"}, words)
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "extra.txt", "# greetings\nmaalai மாலை\n\nbroken line here\nirau இரவு\n")

	words, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"maalai": "மாலை", "irau": "இரவு"}, words)
}

func TestLoadMsgpackRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.msgpack")
	require.NoError(t, SaveMsgpack(path, map[string]string{"pazham": "பழம்"}))

	words, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "பழம்", words["pazham"])
}

func TestLoadDirLaterFilesWin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "kaalai காலை\npazham பழம்\n")
	writeFile(t, dir, "b.toml", "[words]\npazham = \"பழங்கள்\"\n")
	writeFile(t, dir, "notes.md", "ignored")

	words, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "காலை", words["kaalai"])
	assert.Equal(t, "பழங்கள்", words["pazham"])
}

func TestLoadRejectsTinyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.toml", "")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".mpk", ".msgpack", ".toml", ".tsv", ".txt"}, SupportedExtensions())
}
