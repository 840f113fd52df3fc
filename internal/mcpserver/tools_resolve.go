package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type resolveInput struct {
	Mapping    mappingInput `json:"mapping"              jsonschema:"The document set mapping configuration"`
	URIs       []string     `json:"uris"                 jsonschema:"Reference URIs to resolve"`
	Candidates bool         `json:"candidates,omitempty" jsonschema:"List every suffix candidate for URL rule matches"`
}

type resolvedLocation struct {
	URI        string   `json:"uri"`
	Location   string   `json:"location,omitempty"`
	MediaType  string   `json:"media_type,omitempty"`
	Source     string   `json:"source,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type resolveOutput struct {
	Results  []resolvedLocation `json:"results"`
	Resolved int                `json:"resolved"`
	Failed   int                `json:"failed"`
}

func handleResolve(_ context.Context, _ *mcp.CallToolRequest, input resolveInput) (*mcp.CallToolResult, resolveOutput, error) {
	if len(input.URIs) == 0 {
		return errResult(fmt.Errorf("at least one uri must be provided")), resolveOutput{}, nil
	}

	c, err := input.Mapping.buildCatalog()
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	output := resolveOutput{Results: make([]resolvedLocation, 0, len(input.URIs))}
	for _, uri := range input.URIs {
		rd, err := c.Resolver().Resolve(uri)
		if err != nil {
			output.Failed++
			output.Results = append(output.Results, resolvedLocation{URI: uri, Error: sanitizeError(err)})
			continue
		}

		output.Resolved++
		result := resolvedLocation{
			URI:       uri,
			Location:  rd.Location.String(),
			MediaType: rd.MediaType,
			Source:    string(rd.Source),
		}
		if input.Candidates {
			if docs, err := c.Resolver().Candidates(uri); err == nil {
				for _, d := range docs {
					result.Candidates = append(result.Candidates, d.Location.String())
				}
			}
		}
		output.Results = append(output.Results, result)
	}

	return nil, output, nil
}
