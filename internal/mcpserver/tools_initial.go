package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type initialDocumentInput struct {
	Mapping mappingInput `json:"mapping" jsonschema:"The document set mapping configuration"`
}

func handleInitialDocument(_ context.Context, _ *mcp.CallToolRequest, input initialDocumentInput) (*mcp.CallToolResult, loadDocumentOutput, error) {
	c, err := input.Mapping.buildCatalog()
	if err != nil {
		return errResult(err), loadDocumentOutput{}, nil
	}

	doc, err := c.Initial()
	if err != nil {
		return errResult(err), loadDocumentOutput{}, nil
	}

	// A follow-up load_document for the same location hits the cache.
	if cfg.CacheEnabled {
		if key := makeCacheKey(doc.Location); key != "" {
			docCache.putWithTTL(key, doc, cfg.CacheTTL)
		}
	}

	return nil, newDocumentSummary(doc), nil
}
