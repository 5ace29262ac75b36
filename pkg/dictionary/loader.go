package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/tamilserve/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// tomlOverrides is the on-disk shape of a TOML override file.
type tomlOverrides struct {
	Words map[string]string `toml:"words"`
}

// Load reads one override file. Keys are folded to lowercase; entries whose
// key is not a Latin token are dropped with a warning.
func Load(path string) (map[string]string, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	if err := ValidateFileFormat(path, format); err != nil {
		return nil, err
	}

	var raw map[string]string
	switch format {
	case FormatTOML:
		raw, err = loadTOML(path)
	case FormatText:
		raw, err = loadText(path)
	case FormatMsgpack:
		raw, err = loadMsgpack(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	words := make(map[string]string, len(raw))
	for latin, native := range raw {
		key := utils.FoldToken(latin)
		if !utils.IsLatinToken(key) || strings.TrimSpace(native) == "" {
			log.Warnf("Skipping override entry %q in %s", latin, path)
			continue
		}
		words[key] = utils.Normalize(strings.TrimSpace(native))
	}
	log.Debugf("Loaded %d override words from %s", len(words), path)
	return words, nil
}

// LoadDir merges every override file in dir, in lexical file order; later
// files win on conflicting keys. Files in unknown formats are ignored.
func LoadDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read override dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := DetectFileFormat(e.Name()); err != nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	merged := make(map[string]string)
	for _, name := range names {
		words, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		for k, v := range words {
			merged[k] = v
		}
	}
	return merged, nil
}

func loadTOML(path string) (map[string]string, error) {
	var doc tomlOverrides
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, err
	}
	return doc.Words, nil
}

func loadText(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	words := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			log.Warnf("%s:%d: expected 'latin native', got %d fields", path, lineNo, len(fields))
			continue
		}
		words[fields[0]] = fields[1]
	}
	return words, scanner.Err()
}

func loadMsgpack(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var words map[string]string
	if err := msgpack.Unmarshal(data, &words); err != nil {
		return nil, err
	}
	return words, nil
}

// SaveMsgpack writes words as a msgpack override file.
func SaveMsgpack(path string, words map[string]string) error {
	data, err := msgpack.Marshal(words)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
