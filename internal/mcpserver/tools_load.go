package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasresolve/resolver"
)

type loadDocumentInput struct {
	Mapping        mappingInput `json:"mapping"                   jsonschema:"The document set mapping configuration"`
	URI            string       `json:"uri"                       jsonschema:"The reference URI to load"`
	IncludeContent bool         `json:"include_content,omitempty" jsonschema:"Return the parsed document rendered as JSON"`
	ContentOffset  int          `json:"content_offset,omitempty"  jsonschema:"Byte offset into the rendered content"`
	ContentLimit   int          `json:"content_limit,omitempty"   jsonschema:"Content bytes to return per call, capped at OASRESOLVE_MAX_CONTENT_BYTES"`
}

type loadDocumentOutput struct {
	URI              string `json:"uri"`
	Location         string `json:"location"`
	Source           string `json:"source"`
	MediaType        string `json:"media_type,omitempty"`
	Format           string `json:"format"`
	SizeBytes        int64  `json:"size_bytes"`
	HasOpenAPIMarker bool   `json:"has_openapi_marker"`

	ContentTotalBytes    int    `json:"content_total_bytes,omitempty"`
	ContentOffset        int    `json:"content_offset,omitempty"`
	ContentReturnedBytes int    `json:"content_returned_bytes,omitempty"`
	Content              string `json:"content,omitempty"`
}

// newDocumentSummary fills the summary fields shared by load_document
// and initial_document.
func newDocumentSummary(doc *resolver.Document) loadDocumentOutput {
	return loadDocumentOutput{
		URI:              doc.Identity.String(),
		Location:         doc.Location.String(),
		Source:           string(doc.Source),
		MediaType:        doc.MediaType,
		Format:           string(doc.Format),
		SizeBytes:        int64(len(doc.Raw)),
		HasOpenAPIMarker: doc.HasOpenAPIMarker(),
	}
}

func handleLoadDocument(_ context.Context, _ *mcp.CallToolRequest, input loadDocumentInput) (*mcp.CallToolResult, loadDocumentOutput, error) {
	if input.URI == "" {
		return errResult(fmt.Errorf("uri must be provided")), loadDocumentOutput{}, nil
	}

	c, err := input.Mapping.buildCatalog()
	if err != nil {
		return errResult(err), loadDocumentOutput{}, nil
	}

	doc, err := loadDocument(c, input.URI)
	if err != nil {
		return errResult(err), loadDocumentOutput{}, nil
	}

	output := newDocumentSummary(doc)
	if input.IncludeContent {
		rendered, err := json.Marshal(doc.Data)
		if err != nil {
			return errResult(fmt.Errorf("rendering document content: %w", err)), loadDocumentOutput{}, nil
		}
		page := paginate(rendered, input.ContentOffset, input.ContentLimit)
		output.ContentTotalBytes = len(rendered)
		output.ContentOffset = input.ContentOffset
		output.ContentReturnedBytes = len(page)
		output.Content = string(page)
	}

	return nil, output, nil
}
