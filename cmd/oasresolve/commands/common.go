// Package commands provides CLI command handlers for oasresolve.
package commands

import (
	"fmt"

	"github.com/erraggy/oasresolve/internal/cliutil"
)

// Output format constants, re-exported for flag defaults.
const (
	FormatText = cliutil.FormatText
	FormatJSON = cliutil.FormatJSON
	FormatYAML = cliutil.FormatYAML
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}
