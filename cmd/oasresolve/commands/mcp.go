package commands

import (
	"context"
	"errors"
	"flag"
	"io"

	"github.com/erraggy/oasresolve/internal/cliutil"
	"github.com/erraggy/oasresolve/internal/mcpserver"
)

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: oasresolve mcp\n\n")
		cliutil.Writef(output, "Run the MCP (Model Context Protocol) server on stdio.\n\n")
		cliutil.Writef(output, "The server exposes resolve, load_document, and initial_document tools.\n")
		cliutil.Writef(output, "Each tool takes a mapping object describing the document set, shaped\n")
		cliutil.Writef(output, "like the CLI mapping flags.\n")
		cliutil.Writef(output, "\nConfiguration (environment variables):\n")
		cliutil.Writef(output, "  OASRESOLVE_CACHE_ENABLED       cache loaded documents across calls (default true)\n")
		cliutil.Writef(output, "  OASRESOLVE_CACHE_TTL           cache TTL for loaded documents (default 5m)\n")
		cliutil.Writef(output, "  OASRESOLVE_CACHE_MAX_ENTRIES   cache capacity before LRU eviction (default 10)\n")
		cliutil.Writef(output, "  OASRESOLVE_CACHE_SWEEP_INTERVAL  expired-entry sweep interval (default 60s)\n")
		cliutil.Writef(output, "  OASRESOLVE_LOAD_TIMEOUT        HTTP timeout for document fetches (default 30s)\n")
		cliutil.Writef(output, "  OASRESOLVE_ALLOW_PRIVATE_IPS   allow fetching private/loopback hosts (default false)\n")
		cliutil.Writef(output, "  OASRESOLVE_MAX_CONTENT_BYTES   largest document the server will return (default 10485760)\n")
		cliutil.Writef(output, "\nExample MCP client config:\n")
		cliutil.Writef(output, "  {\"mcpServers\": {\"oasresolve\": {\"command\": \"oasresolve\", \"args\": [\"mcp\"]}}}\n")
	}

	return fs
}

// HandleMCP executes the mcp command. The MCP SDK owns stdin/stdout for
// the protocol; the stdout writer is unused.
func HandleMCP(args []string, _, stderr io.Writer) error {
	fs := SetupMCPFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return errors.New("mcp command takes no positional arguments")
	}

	return mcpserver.Run(context.Background())
}
