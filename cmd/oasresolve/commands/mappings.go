package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/erraggy/oasresolve/catalog"
	"github.com/erraggy/oasresolve/internal/cliutil"
	"github.com/erraggy/oasresolve/urimap"
)

// MappingsFlags contains flags for the mappings command
type MappingsFlags struct {
	MappingFlags
	Format string
	Output string
}

// SetupMappingsFlags creates and configures a FlagSet for the mappings command.
// Returns the FlagSet and a MappingsFlags struct with bound flag variables.
func SetupMappingsFlags() (*flag.FlagSet, *MappingsFlags) {
	fs := flag.NewFlagSet("mappings", flag.ContinueOnError)
	flags := &MappingsFlags{}

	AddMappingFlags(fs, &flags.MappingFlags)
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Output, "o", "", "output file path for structured formats (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path for structured formats (default: stdout)")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: oasresolve mappings [flags]\n\n")
		cliutil.Writef(output, "Print the effective URI mapping configuration without loading anything.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		WriteMappingHelp(output)
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  oasresolve mappings -f openapi.yaml -d \"./schemas https://example.com/api/schemas/\"\n")
		cliutil.Writef(output, "  oasresolve mappings -p \"https://cdn.example.com/specs/ https://example.com/api/\" --format yaml\n")
	}

	return fs, flags
}

// mappingEntryReport is one mapping entry in structured output.
type mappingEntryReport struct {
	URI       string   `json:"uri" yaml:"uri"`
	Location  string   `json:"location" yaml:"location"`
	MediaType string   `json:"mediaType,omitempty" yaml:"mediaType,omitempty"`
	Aliases   []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Initial   bool     `json:"initial,omitempty" yaml:"initial,omitempty"`
}

// prefixRuleReport is one prefix rule in structured output.
type prefixRuleReport struct {
	URIPrefix   string `json:"uriPrefix" yaml:"uriPrefix"`
	Replacement string `json:"replacement" yaml:"replacement"`
	Kind        string `json:"kind" yaml:"kind"`
}

// mappingsReport is the effective configuration in structured output.
// Prefix rules appear in precedence order, longest URI prefix first.
type mappingsReport struct {
	Entries        []mappingEntryReport `json:"entries" yaml:"entries"`
	Prefixes       []prefixRuleReport   `json:"prefixes" yaml:"prefixes"`
	StripSuffixes  []string             `json:"stripSuffixes" yaml:"stripSuffixes"`
	FileSuffixes   []string             `json:"fileSuffixes" yaml:"fileSuffixes"`
	URLSuffixes    []string             `json:"urlSuffixes" yaml:"urlSuffixes"`
	StrictPrefixes bool                 `json:"strictPrefixes" yaml:"strictPrefixes"`
}

// newMappingsReport assembles the effective configuration of a catalog.
// The strip policy is reconstructed from the flags because entries carry
// only its result.
func newMappingsReport(c *catalog.Catalog, flags *MappingsFlags) mappingsReport {
	report := mappingsReport{
		StripSuffixes:  stripPolicy(flags.StripSuffixes),
		FileSuffixes:   c.Resolver().FileSuffixes(),
		URLSuffixes:    c.Resolver().URLSuffixes(),
		StrictPrefixes: flags.StrictPrefixes,
	}

	initial, hasInitial := c.InitialIdentity()
	for _, e := range c.Entries() {
		er := mappingEntryReport{
			URI:       e.Identity.String(),
			Location:  e.Location.String(),
			MediaType: e.MediaType,
			Initial:   hasInitial && e.Identity.String() == initial.String(),
		}
		for _, a := range e.Aliases {
			er.Aliases = append(er.Aliases, a.String())
		}
		report.Entries = append(report.Entries, er)
	}

	for _, p := range c.Prefixes() {
		report.Prefixes = append(report.Prefixes, prefixRuleReport{
			URIPrefix:   p.URIPrefix.String(),
			Replacement: p.Replacement.String(),
			Kind:        string(p.Kind),
		})
	}
	return report
}

// stripPolicy returns the configured strip suffixes, or the defaults.
func stripPolicy(configured []string) []string {
	if len(configured) > 0 {
		return configured
	}
	return urimap.DefaultStripSuffixes()
}

// formatSuffixes renders a suffix list for text output, making the empty
// suffix visible as "".
func formatSuffixes(suffixes []string) string {
	out := make([]string, len(suffixes))
	for i, s := range suffixes {
		if s == "" {
			s = `""`
		}
		out[i] = s
	}
	return strings.Join(out, " ")
}

// writeMappingsText renders the effective configuration in text form.
func writeMappingsText(w io.Writer, report mappingsReport) {
	cliutil.Writef(w, "Entries (%d):\n", len(report.Entries))
	for _, e := range report.Entries {
		line := fmt.Sprintf("  %s => %s", e.URI, e.Location)
		if e.MediaType != "" {
			line += fmt.Sprintf(" (%s)", e.MediaType)
		}
		if e.Initial {
			line += " [initial]"
		}
		cliutil.Writef(w, "%s\n", line)
		if len(e.Aliases) > 0 {
			cliutil.Writef(w, "    aliases: %s\n", strings.Join(e.Aliases, ", "))
		}
	}

	cliutil.Writef(w, "\nPrefix Rules (%d, longest first):\n", len(report.Prefixes))
	for _, p := range report.Prefixes {
		cliutil.Writef(w, "  %s => %s (%s)\n", p.URIPrefix, p.Replacement, p.Kind)
	}

	cliutil.Writef(w, "\nSuffix Policies:\n")
	cliutil.Writef(w, "  strip: %s\n", formatSuffixes(report.StripSuffixes))
	cliutil.Writef(w, "  file:  %s\n", formatSuffixes(report.FileSuffixes))
	cliutil.Writef(w, "  url:   %s\n", formatSuffixes(report.URLSuffixes))

	cliutil.Writef(w, "\nStrict prefixes: %t\n", report.StrictPrefixes)
}

// HandleMappings executes the mappings command
func HandleMappings(args []string, stdout, stderr io.Writer) error {
	fs, flags := SetupMappingsFlags()
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
		return fmt.Errorf("mappings command takes no positional arguments")
	}

	c, err := BuildCatalog(&flags.MappingFlags, stderr)
	if err != nil {
		return err
	}

	report := newMappingsReport(c, flags)
	if flags.Format == FormatText {
		writeMappingsText(stdout, report)
		return nil
	}
	return cliutil.OutputReport(stdout, stderr, flags.Output, report, flags.Format)
}
