package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailingToken(t *testing.T) {
	tests := []struct {
		name       string
		buf        string
		caret      int
		token      string
		start, end int
		ok         bool
	}{
		{"end of buffer", "hello kadal", 11, "kadal", 6, 11, true},
		{"mid word", "kadalai", 5, "kadal", 0, 5, true},
		{"after space", "kadal ", 6, "", 0, 0, false},
		{"native prefix", "நான்kadal", 9, "kadal", 4, 9, true},
		{"digit stops", "a1bc", 4, "bc", 2, 4, true},
		{"caret zero", "abc", 0, "", 0, 0, false},
		{"caret past end", "abc", 4, "", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, start, end, ok := TrailingToken([]rune(tt.buf), tt.caret)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
			if tt.ok {
				assert.Equal(t, tt.start, start)
				assert.Equal(t, tt.end, end)
			}
		})
	}
}

func TestIsValidToken(t *testing.T) {
	assert.True(t, IsValidToken("kadal", 2, 60))
	assert.True(t, IsValidToken("KaDaL", 2, 60))
	assert.False(t, IsValidToken("k", 2, 60))
	assert.False(t, IsValidToken("", 0, 0))
	assert.False(t, IsValidToken("kadal1", 2, 60))
	assert.False(t, IsValidToken("தமிழ்", 1, 60))
	assert.False(t, IsValidToken("abcdef", 2, 5))
	assert.True(t, IsValidToken("abcdef", 2, 0))
}

func TestDedupeNormalizes(t *testing.T) {
	got := Dedupe([]string{"\u0b95\u0bca", "", "\u0b95\u0bc6\u0bbe", "கா"})
	assert.Equal(t, []string{"\u0b95\u0bca", "கா"}, got)
}

func TestSuggestionFilterExclude(t *testing.T) {
	f := NewSuggestionFilter("கடல்")
	assert.False(t, f.ShouldInclude("கடல்"))
	assert.True(t, f.ShouldInclude("கடள்"))
	assert.False(t, f.ShouldInclude("கடள்"))
}

func TestFoldToken(t *testing.T) {
	assert.Equal(t, "vanakkam", FoldToken("  VanaKKam\n"))
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
	assert.Empty(t, CreateRankList(0))
}

func TestParseTOMLWithRecovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[engine]\nmax_suggestions = 4\nrate = 2.5\nname = \"x\"\nok = true\n"), 0o644))

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	section, ok := ExtractSection(raw, "engine")
	require.True(t, ok)

	n, ok := ExtractInt(section, "max_suggestions")
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	r, ok := ExtractFloat(section, "rate")
	assert.True(t, ok)
	assert.InDelta(t, 2.5, r, 1e-9)
	_, ok = ExtractInt(section, "rate")
	assert.False(t, ok)
	s, _ := ExtractString(section, "name")
	assert.Equal(t, "x", s)
	b, _ := ExtractBool(section, "ok")
	assert.True(t, b)
}

func TestSaveTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, SaveTOMLFile(map[string]any{"cli": map[string]any{"limit": 3}}, path))
	assert.True(t, FileExists(path))

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	cli, ok := ExtractSection(raw, "cli")
	require.True(t, ok)
	n, _ := ExtractInt(cli, "limit")
	assert.Equal(t, 3, n)
}

func TestResolveOverridesDir(t *testing.T) {
	configDir := t.TempDir()
	_, ok := ResolveOverridesDir("", configDir, ".toml")
	assert.False(t, ok)

	dir := filepath.Join(configDir, OverridesDirName)
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))
	_, ok = ResolveOverridesDir("", configDir, ".toml")
	assert.False(t, ok, "only listed extensions count")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "words.toml"), []byte("[words]\n"), 0o644))
	got, ok := ResolveOverridesDir("", configDir, ".toml")
	assert.True(t, ok)
	assert.Equal(t, dir, got)

	abs := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(abs, "w.txt"), []byte("a\tb\n"), 0o644))
	got, ok = ResolveOverridesDir(abs, configDir, ".txt", ".toml")
	assert.True(t, ok)
	assert.Equal(t, abs, got)
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cfg")
	res := CheckDirStatus(dir)
	assert.True(t, res.Exists)
	assert.True(t, res.Writable)
	assert.NoError(t, res.Error)
}
