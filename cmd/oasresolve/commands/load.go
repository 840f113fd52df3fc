package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/erraggy/oasresolve/internal/cliutil"
	"github.com/erraggy/oasresolve/resolver"
)

// LoadFlags contains flags for the load command
type LoadFlags struct {
	MappingFlags
	Format      string
	Output      string
	ShowContent bool
}

// SetupLoadFlags creates and configures a FlagSet for the load command.
// Returns the FlagSet and a LoadFlags struct with bound flag variables.
func SetupLoadFlags() (*flag.FlagSet, *LoadFlags) {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	flags := &LoadFlags{}

	AddMappingFlags(fs, &flags.MappingFlags)
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Output, "o", "", "output file path for structured formats (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path for structured formats (default: stdout)")
	fs.BoolVar(&flags.ShowContent, "show-content", false, "include the parsed document in the output")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: oasresolve load [flags] <uri>\n\n")
		cliutil.Writef(output, "Resolve a reference URI, fetch the mapped location, and parse the content.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		WriteMappingHelp(output)
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  oasresolve load -f \"openapi.yaml https://example.com/api/openapi\" https://example.com/api/openapi\n")
		cliutil.Writef(output, "  oasresolve load -d \"./schemas https://example.com/api/\" --show-content https://example.com/api/pet\n")
		cliutil.Writef(output, "  oasresolve load -p \"https://cdn.example.com/ https://example.com/api/\" --format json https://example.com/api/pet\n")
		cliutil.Writef(output, "\nURL prefix rules fetch each suffix candidate in order until one succeeds.\n")
		cliutil.Writef(output, "\nExit Codes:\n")
		cliutil.Writef(output, "  0    Document loaded and parsed\n")
		cliutil.Writef(output, "  1    Resolution, fetch, or parse failed\n")
	}

	return fs, flags
}

// loadReport summarizes one loaded document.
type loadReport struct {
	URI        string `json:"uri" yaml:"uri"`
	Location   string `json:"location" yaml:"location"`
	Source     string `json:"source" yaml:"source"`
	MediaType  string `json:"mediaType,omitempty" yaml:"mediaType,omitempty"`
	Format     string `json:"format" yaml:"format"`
	SizeBytes  int64  `json:"sizeBytes" yaml:"sizeBytes"`
	HasOpenAPI bool   `json:"hasOpenAPIMarker" yaml:"hasOpenAPIMarker"`
	Content    any    `json:"content,omitempty" yaml:"content,omitempty"`
}

// newLoadReport converts a loaded document into its report form.
func newLoadReport(doc *resolver.Document) loadReport {
	return loadReport{
		URI:        doc.Identity.String(),
		Location:   doc.Location.String(),
		Source:     string(doc.Source),
		MediaType:  doc.MediaType,
		Format:     string(doc.Format),
		SizeBytes:  int64(len(doc.Raw)),
		HasOpenAPI: doc.HasOpenAPIMarker(),
	}
}

// writeLoadReportText renders a load report in text form.
func writeLoadReportText(w io.Writer, r loadReport) {
	cliutil.Writef(w, "URI:        %s\n", r.URI)
	cliutil.Writef(w, "Location:   %s\n", r.Location)
	cliutil.Writef(w, "Source:     %s\n", r.Source)
	cliutil.Writef(w, "Media Type: %s\n", r.MediaType)
	cliutil.Writef(w, "Format:     %s\n", r.Format)
	cliutil.Writef(w, "Size:       %s\n", resolver.FormatBytes(r.SizeBytes))
	cliutil.Writef(w, "OpenAPI:    %t\n", r.HasOpenAPI)
}

// HandleLoad executes the load command
func HandleLoad(args []string, stdout, stderr io.Writer) error {
	fs, flags := SetupLoadFlags()
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
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("load command requires exactly one URI")
	}

	c, err := BuildCatalog(&flags.MappingFlags, stderr)
	if err != nil {
		return err
	}

	doc, err := c.Load(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	report := newLoadReport(doc)
	if flags.ShowContent {
		report.Content = doc.Data
	}

	if flags.Format == FormatText {
		writeLoadReportText(stdout, report)
		if flags.ShowContent {
			jsonData, err := json.MarshalIndent(doc.Data, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling content to JSON: %w", err)
			}
			cliutil.Writef(stdout, "\nContent (JSON):\n%s\n", jsonData)
		}
		return nil
	}
	return cliutil.OutputReport(stdout, stderr, flags.Output, report, flags.Format)
}
