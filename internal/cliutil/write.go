// Package cliutil provides output helpers shared by the CLI commands:
// best-effort writes to command streams and structured report output to
// stdout or a file.
package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasresolve/internal/fileutil"
)

// Structured output formats understood by MarshalStructured.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// MarshalStructured marshals data as indented JSON or YAML.
func MarshalStructured(data any, format string) ([]byte, error) {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return nil, fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return nil, fmt.Errorf("marshaling to %s: %w", format, err)
	}
	return bytes, nil
}

// OutputStructured writes data to w in the specified format (json or yaml).
func OutputStructured(w io.Writer, data any, format string) error {
	bytes, err := MarshalStructured(data, format)
	if err != nil {
		return err
	}
	Writef(w, "%s\n", bytes)
	return nil
}

// OutputReport writes a structured report to stdout, or to outputPath when
// set. Files are written with restrictive permissions (0600).
func OutputReport(stdout, stderr io.Writer, outputPath string, report any, format string) error {
	if outputPath == "" {
		return OutputStructured(stdout, report, format)
	}

	cleaned := filepath.Clean(outputPath)
	if err := ValidateOutputPath(cleaned, stderr); err != nil {
		return err
	}
	data, err := MarshalStructured(report, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cleaned, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	Writef(stderr, "Output written to: %s\n", cleaned)
	return nil
}

// ValidateOutputPath checks if the output path is safe to write to.
func ValidateOutputPath(outputPath string, stderr io.Writer) error {
	if err := RejectSymlinkOutput(outputPath); err != nil {
		return err
	}

	// Check if output file already exists and warn (but don't error)
	if info, err := os.Stat(outputPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("cliutil: output path is a directory: %s", outputPath)
		}
		Writef(stderr, "Warning: output file %s already exists and will be overwritten\n", outputPath)
	}

	return nil
}

// RejectSymlinkOutput checks if the output path is a symlink and returns an error if so.
// This prevents symlink attacks where a symlink could redirect output to an unintended location.
func RejectSymlinkOutput(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		// File doesn't exist yet, safe to write.
		return nil
	}
	if err != nil {
		return fmt.Errorf("cliutil: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("cliutil: refusing to write to symlink: %s", cleanedPath)
	}
	return nil
}
