// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes document resolution for multi-document OpenAPI
// descriptions as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasresolve"
)

const serverInstructions = `oasresolve MCP server: maps reference URIs for multi-document OpenAPI descriptions to locations and loads the mapped content.

Every tool takes a mapping object describing the document set, shaped like the CLI mapping flags: files ("FILE [URI] [TYPE]"), urls ("URL [URI] [TYPE]"), directories ("DIR [URI_PREFIX]"), url_prefixes ("URL_PREFIX [URI_PREFIX]"), initial ("LOCATION [URI]"), the strip_suffixes/file_suffixes/url_suffixes arrays, and strict_prefixes.

Configuration: all defaults are configurable via OASRESOLVE_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- OASRESOLVE_CACHE_ENABLED (default: true): cache loaded documents across calls
- OASRESOLVE_CACHE_TTL (default: 5m): cache TTL for loaded documents
- OASRESOLVE_CACHE_MAX_ENTRIES (default: 10): cache capacity before LRU eviction
- OASRESOLVE_LOAD_TIMEOUT (default: 30s): HTTP timeout for document fetches
- OASRESOLVE_ALLOW_PRIVATE_IPS (default: false): allow fetching private/loopback hosts
- OASRESOLVE_MAX_CONTENT_BYTES (default: 10485760): largest content slice returned per call

Caching: loaded documents are cached per session, keyed by resolved location. File locations use path+mtime as key (auto-invalidated on change). A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		docCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasresolve", Version: oasresolve.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve",
		Description: "Resolve reference URIs against a document mapping without fetching anything. Returns the mapped location, media type, and matching rule kind (entry, directory, url) per URI. Exact entries beat prefix rules; among prefix rules the longest match wins. Use candidates=true to also list every suffix candidate a URL rule would try.",
	}, handleResolve)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "load_document",
		Description: "Resolve one reference URI, fetch the mapped location, and parse the content as JSON or YAML. Returns identity, location, source kind, format, byte size, and whether the root carries an \"openapi\" field. Set include_content=true for the document rendered as JSON; page large documents with content_offset/content_limit (capped at OASRESOLVE_MAX_CONTENT_BYTES per call).",
	}, handleLoadDocument)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "initial_document",
		Description: "Select the entry-point document of a mapping. A designated initial document is loaded and must carry a top-level \"openapi\" field; without a designation, file entries and then URL entries are scanned in configuration order and the first document carrying the marker is selected. Returns the same summary fields as load_document.",
	}, handleInitialDocument)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to the configured
// content cap, which is also the ceiling for explicit limits.
func paginate[T any](items []T, offset, limit int) []T {
	maxItems := int(cfg.MaxContentBytes)
	if limit <= 0 || limit > maxItems {
		limit = maxItems
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
