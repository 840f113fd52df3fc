package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/erraggy/oasresolve/internal/cliutil"
)

// InitialFlags contains flags for the initial command
type InitialFlags struct {
	MappingFlags
	Format string
	Output string
}

// SetupInitialFlags creates and configures a FlagSet for the initial command.
// Returns the FlagSet and an InitialFlags struct with bound flag variables.
func SetupInitialFlags() (*flag.FlagSet, *InitialFlags) {
	fs := flag.NewFlagSet("initial", flag.ContinueOnError)
	flags := &InitialFlags{}

	AddMappingFlags(fs, &flags.MappingFlags)
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Output, "o", "", "output file path for structured formats (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path for structured formats (default: stdout)")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: oasresolve initial [flags]\n\n")
		cliutil.Writef(output, "Select the initial document of a multi-document API description.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		WriteMappingHelp(output)
		cliutil.Writef(output, "\nSelection Order:\n")
		cliutil.Writef(output, "  1. The document designated with -i (must contain \"openapi\")\n")
		cliutil.Writef(output, "  2. The first file entry whose content contains \"openapi\"\n")
		cliutil.Writef(output, "  3. The first URL entry whose content contains \"openapi\"\n")
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  oasresolve initial -f openapi.yaml -d \"./schemas https://example.com/api/schemas/\"\n")
		cliutil.Writef(output, "  oasresolve initial -i \"openapi.yaml https://example.com/api/openapi\" -f schema.yaml\n")
		cliutil.Writef(output, "\nExit Codes:\n")
		cliutil.Writef(output, "  0    An initial document was selected\n")
		cliutil.Writef(output, "  1    No entry document contains an \"openapi\" field, or a load failed\n")
	}

	return fs, flags
}

// HandleInitial executes the initial command
func HandleInitial(args []string, stdout, stderr io.Writer) error {
	fs, flags := SetupInitialFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if flags.Output != "" && flags.Format == FormatText {
		return fmt.Errorf("output file requires --format json or yaml")
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("initial command takes no positional arguments")
	}

	c, err := BuildCatalog(&flags.MappingFlags, stderr)
	if err != nil {
		return err
	}

	doc, err := c.Initial()
	if err != nil {
		return fmt.Errorf("selecting initial document: %w", err)
	}

	if flags.Format == FormatText {
		writeLoadReportText(stdout, newLoadReport(doc))
		return nil
	}
	return cliutil.OutputReport(stdout, stderr, flags.Output, newLoadReport(doc), flags.Format)
}
