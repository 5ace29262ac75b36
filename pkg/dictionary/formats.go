// Package dictionary loads user word-override files.
//
// Override files extend the built-in common-word dictionary with exact
// Latin -> native mappings. Three formats are accepted, chosen by extension:
//
//	.toml     a [words] table:           vanakkam = "வணக்கம்"
//	.txt      one pair per line:         vanakkam வணக்கம்
//	.msgpack  a msgpack map[string]string
//
// Lines starting with '#' in text files are comments.
package dictionary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrUnknownFormat is returned for files whose extension maps to no format.
var ErrUnknownFormat = errors.New("unknown dictionary format")

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatTOML               // [words] table
	FormatText               // whitespace separated pairs
	FormatMsgpack            // msgpack map
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML Override Table",
		Extensions:  []string{".toml"},
		MinSize:     7, // "[words]"
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Override List",
		Extensions:  []string{".txt", ".tsv"},
		MinSize:     3, // "a b"
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Description: "Msgpack Override Map",
		Extensions:  []string{".msgpack", ".mpk"},
		MinSize:     1, // empty fixmap
	},
}

// DetectFileFormat maps a file name to its format by extension.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e == ext {
				return format, nil
			}
		}
	}
	return FormatUnknown, fmt.Errorf("%s: %w", filename, ErrUnknownFormat)
}

// ValidateFileFormat checks that a file exists and is large enough to hold
// one entry of the expected format.
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("format %v: %w", expectedFormat, ErrUnknownFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	log.Debugf("Dictionary file %s validated as %s", filename, formatInfo.Description)
	return nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// SupportedExtensions lists every recognized file extension, sorted.
func SupportedExtensions() []string {
	var exts []string
	for _, info := range supportedFormats {
		exts = append(exts, info.Extensions...)
	}
	sort.Strings(exts)
	return exts
}
