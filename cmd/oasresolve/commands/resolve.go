package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/erraggy/oasresolve/internal/cliutil"
)

// ResolveFlags contains flags for the resolve command
type ResolveFlags struct {
	MappingFlags
	Format string
	Output string
}

// SetupResolveFlags creates and configures a FlagSet for the resolve command.
// Returns the FlagSet and a ResolveFlags struct with bound flag variables.
func SetupResolveFlags() (*flag.FlagSet, *ResolveFlags) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	flags := &ResolveFlags{}

	AddMappingFlags(fs, &flags.MappingFlags)
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Output, "o", "", "output file path for structured formats (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path for structured formats (default: stdout)")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: oasresolve resolve [flags] <uri> [uri...]\n\n")
		cliutil.Writef(output, "Resolve reference URIs to the locations they are mapped to.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		WriteMappingHelp(output)
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  oasresolve resolve -d \"./schemas https://example.com/api/\" https://example.com/api/pet\n")
		cliutil.Writef(output, "  oasresolve resolve -p \"https://cdn.example.com/ https://example.com/api/\" --format json https://example.com/api/pet\n")
		cliutil.Writef(output, "  oasresolve resolve -f \"openapi.yaml https://example.com/api/openapi\" https://example.com/api/openapi\n")
		cliutil.Writef(output, "\nExit Codes:\n")
		cliutil.Writef(output, "  0    All URIs resolved\n")
		cliutil.Writef(output, "  1    At least one URI failed to resolve\n")
	}

	return fs, flags
}

// resolveReport is the outcome of resolving one URI.
type resolveReport struct {
	URI       string `json:"uri" yaml:"uri"`
	Location  string `json:"location,omitempty" yaml:"location,omitempty"`
	MediaType string `json:"mediaType,omitempty" yaml:"mediaType,omitempty"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// HandleResolve executes the resolve command
func HandleResolve(args []string, stdout, stderr io.Writer) error {
	fs, flags := SetupResolveFlags()
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
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("resolve command requires at least one URI")
	}

	c, err := BuildCatalog(&flags.MappingFlags, stderr)
	if err != nil {
		return err
	}

	reports := make([]resolveReport, 0, fs.NArg())
	failed := 0
	for _, target := range fs.Args() {
		rd, err := c.Resolver().Resolve(target)
		if err != nil {
			failed++
			reports = append(reports, resolveReport{URI: target, Error: err.Error()})
			continue
		}
		reports = append(reports, resolveReport{
			URI:       target,
			Location:  rd.Location.String(),
			MediaType: rd.MediaType,
			Source:    string(rd.Source),
		})
	}

	if flags.Format == FormatText {
		for _, r := range reports {
			switch {
			case r.Error != "":
				cliutil.Writef(stdout, "%s => ERROR: %s\n", r.URI, r.Error)
			case r.MediaType != "":
				cliutil.Writef(stdout, "%s => %s (%s, %s)\n", r.URI, r.Location, r.Source, r.MediaType)
			default:
				cliutil.Writef(stdout, "%s => %s (%s)\n", r.URI, r.Location, r.Source)
			}
		}
	} else if err := cliutil.OutputReport(stdout, stderr, flags.Output, reports, flags.Format); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d URIs failed to resolve", failed, len(reports))
	}
	return nil
}
