// Package fileutil writes export files.
package fileutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything that
// isn't .yaml or .yml is written as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// SanitizeFilename cleans a filename by replacing problematic characters
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, ":", " -")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	return strings.TrimSpace(name)
}

// FileExists checks if a file exists at the given path
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// WriteFileWithOverwrite writes data to a file, respecting the overwrite flag
// Returns true if the file was written, false if it was skipped
func WriteFileWithOverwrite(filePath string, data []byte, perm os.FileMode, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, perm); err != nil {
		return false, err
	}

	return true, nil
}

// WriteJSONFile writes data as indented JSON, respecting the overwrite flag.
// Returns true if the file was written, false if it was skipped
func WriteJSONFile(data any, filePath string, overwrite bool) (bool, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return writeExport(filePath, append(jsonData, '\n'), overwrite)
}

// WriteYAMLFile writes data as YAML, respecting the overwrite flag.
// Returns true if the file was written, false if it was skipped
func WriteYAMLFile(data any, filePath string, overwrite bool) (bool, error) {
	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return false, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return writeExport(filePath, yamlData, overwrite)
}

// WriteExport writes data in the format implied by the file extension.
func WriteExport(data any, filePath string, overwrite bool) (bool, error) {
	if FormatFromPath(filePath) == FormatYAML {
		return WriteYAMLFile(data, filePath, overwrite)
	}
	return WriteJSONFile(data, filePath, overwrite)
}

func writeExport(filePath string, data []byte, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		slog.Info("Export file already exists, skipping", "filename", filePath, "overwrite", overwrite)
		return false, nil
	}

	slog.Info("Writing export file", "filename", filePath, "overwrite", overwrite)
	written, err := WriteFileWithOverwrite(filePath, data, 0644, overwrite)
	if err != nil {
		return false, fmt.Errorf("failed to write export file: %w", err)
	}
	return written, nil
}
