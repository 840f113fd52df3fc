package commands

import (
	"flag"
	"io"
	"log/slog"
	"strings"

	"github.com/erraggy/oasresolve/catalog"
	"github.com/erraggy/oasresolve/internal/cliutil"
	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/resolver"
	"github.com/erraggy/oasresolve/urimap"
)

// repeatableFlag is a custom flag type collecting every occurrence of a
// repeatable flag in command-line order. An empty value is a valid
// occurrence (the URL suffix flag uses it for the empty suffix).
type repeatableFlag []string

// String returns the string representation of the flag value
func (r *repeatableFlag) String() string {
	return strings.Join(*r, ", ")
}

// Set records one occurrence of the flag.
func (r *repeatableFlag) Set(value string) error {
	*r = append(*r, value)
	return nil
}

// MappingFlags contains the document-set flags shared by every subcommand
// that builds a catalog. Multi-field values are whitespace-separated inside
// a single flag argument, e.g. -f "openapi.yaml https://example.com/api".
type MappingFlags struct {
	Initial        string
	Files          repeatableFlag
	URLs           repeatableFlag
	Directories    repeatableFlag
	URLPrefixes    repeatableFlag
	StripSuffixes  repeatableFlag
	FileSuffixes   repeatableFlag
	URLSuffixes    repeatableFlag
	StrictPrefixes bool
	Verbose        bool
}

// AddMappingFlags registers the shared mapping flags on fs.
func AddMappingFlags(fs *flag.FlagSet, flags *MappingFlags) {
	fs.StringVar(&flags.Initial, "i", "", `initial document: "LOCATION [URI]" (single use)`)
	fs.StringVar(&flags.Initial, "initial-document", "", `initial document: "LOCATION [URI]" (single use)`)
	fs.Var(&flags.Files, "f", `file entry: "FILE [URI] [TYPE]" (repeatable)`)
	fs.Var(&flags.Files, "file", `file entry: "FILE [URI] [TYPE]" (repeatable)`)
	fs.Var(&flags.URLs, "u", `URL entry: "URL [URI] [TYPE]" (repeatable)`)
	fs.Var(&flags.URLs, "url", `URL entry: "URL [URI] [TYPE]" (repeatable)`)
	fs.Var(&flags.Directories, "d", `directory prefix rule: "DIR [URI_PREFIX]" (repeatable)`)
	fs.Var(&flags.Directories, "directory", `directory prefix rule: "DIR [URI_PREFIX]" (repeatable)`)
	fs.Var(&flags.URLPrefixes, "p", `URL prefix rule: "URL_PREFIX [URI_PREFIX]" (repeatable)`)
	fs.Var(&flags.URLPrefixes, "url-prefix", `URL prefix rule: "URL_PREFIX [URI_PREFIX]" (repeatable)`)
	fs.Var(&flags.StripSuffixes, "x", "identity strip suffix (repeatable; default .json .yaml .yml)")
	fs.Var(&flags.StripSuffixes, "strip-suffix", "identity strip suffix (repeatable; default .json .yaml .yml)")
	fs.Var(&flags.FileSuffixes, "F", "directory-rule trial suffix (repeatable; default .json .yaml .yml)")
	fs.Var(&flags.FileSuffixes, "file-suffix", "directory-rule trial suffix (repeatable; default .json .yaml .yml)")
	fs.Var(&flags.URLSuffixes, "U", `URL-rule trial suffix (repeatable; default "" .json .yaml .yml)`)
	fs.Var(&flags.URLSuffixes, "url-suffix", `URL-rule trial suffix (repeatable; default "" .json .yaml .yml)`)
	fs.BoolVar(&flags.StrictPrefixes, "strict-prefixes", false, "treat ambiguous prefix matches as errors")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: debug logging to stderr")
	fs.BoolVar(&flags.Verbose, "verbose", false, "verbose mode: debug logging to stderr")
}

// WriteMappingHelp writes the shared usage notes for mapping flag values.
func WriteMappingHelp(w io.Writer) {
	cliutil.Writef(w, "\nMapping Values:\n")
	cliutil.Writef(w, "  Multi-field flag values are whitespace-separated inside one argument:\n")
	cliutil.Writef(w, "    -f \"openapi.yaml https://example.com/api/openapi\"\n")
	cliutil.Writef(w, "    -u \"https://cdn.example.com/pet.json https://example.com/api/pet application/openapi+json\"\n")
	cliutil.Writef(w, "    -d \"./schemas https://example.com/api/schemas/\"\n")
	cliutil.Writef(w, "    -p \"https://cdn.example.com/specs/ https://example.com/api/\"\n")
	cliutil.Writef(w, "  When the URI is omitted it is derived from the location by stripping\n")
	cliutil.Writef(w, "  one suffix (-x). URL and URL_PREFIX locations must be http or https;\n")
	cliutil.Writef(w, "  prefixes must end in '/'.\n")
}

// BuildCatalog constructs a catalog from parsed mapping flags. Verbose mode
// installs a debug-level slog text handler writing to stderr.
func BuildCatalog(flags *MappingFlags, stderr io.Writer) (*catalog.Catalog, error) {
	var opts []catalog.Option

	for _, value := range flags.Files {
		spec, err := urimap.ParseEntrySpec("file", value)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithFileEntry(spec.Location, spec.URI, spec.MediaType))
	}
	for _, value := range flags.URLs {
		spec, err := urimap.ParseEntrySpec("url", value)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithURLEntry(spec.Location, spec.URI, spec.MediaType))
	}
	if flags.Initial != "" {
		spec, err := urimap.ParseEntrySpec("initial-document", flags.Initial)
		if err != nil {
			return nil, err
		}
		if spec.MediaType != "" {
			return nil, &oaserrors.MappingError{
				Argument: "initial-document",
				Value:    flags.Initial,
				Message:  "takes at most a location and a URI",
			}
		}
		opts = append(opts, catalog.WithInitialDocument(spec.Location, spec.URI))
	}
	for _, value := range flags.Directories {
		spec, err := urimap.ParsePrefixSpec("directory", value)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithDirectoryPrefix(spec.Location, spec.URIPrefix))
	}
	for _, value := range flags.URLPrefixes {
		spec, err := urimap.ParsePrefixSpec("url-prefix", value)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithURLPrefix(spec.Location, spec.URIPrefix))
	}

	if len(flags.StripSuffixes) > 0 {
		opts = append(opts, catalog.WithStripSuffixes(flags.StripSuffixes...))
	}
	if len(flags.FileSuffixes) > 0 {
		opts = append(opts, catalog.WithFileSuffixes(flags.FileSuffixes...))
	}
	if len(flags.URLSuffixes) > 0 {
		opts = append(opts, catalog.WithURLSuffixes(flags.URLSuffixes...))
	}
	if flags.StrictPrefixes {
		opts = append(opts, catalog.WithStrictPrefixes(true))
	}
	if flags.Verbose {
		handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, catalog.WithLogger(resolver.NewSlogAdapter(slog.New(handler))))
	}

	return catalog.New(opts...)
}
