package utils

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// OverridesDirName is the override dictionary folder under the config dir.
const OverridesDirName = "overrides"

// ResolveOverridesDir finds the directory holding user override files.
// Candidates, in order:
// 1. userPath, if absolute
// 2. userPath relative to the executable
// 3. userPath relative to the working dir
// 4. <configDir>/overrides
//
// A candidate qualifies when it holds at least one file with one of exts.
// ok is false when none does.
func ResolveOverridesDir(userPath, configDir string, exts ...string) (dir string, ok bool) {
	var candidates []string
	if userPath != "" {
		if filepath.IsAbs(userPath) {
			candidates = append(candidates, userPath)
		} else {
			if execDir, err := GetExecutableDir(); err == nil {
				candidates = append(candidates, filepath.Join(execDir, userPath))
			}
			if cwd, err := os.Getwd(); err == nil {
				candidates = append(candidates, filepath.Join(cwd, userPath))
			}
		}
	}
	if configDir != "" {
		candidates = append(candidates, filepath.Join(configDir, OverridesDirName))
	}

	for _, path := range candidates {
		if hasFileWithExt(path, exts) {
			log.Debugf("Found overrides directory: %s", path)
			return path, true
		}
		log.Debugf("Overrides directory candidate not valid: %s", path)
	}
	return "", false
}

func hasFileWithExt(dir string, exts []string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if len(exts) == 0 || slices.Contains(exts, ext) {
			return true
		}
	}
	return false
}
