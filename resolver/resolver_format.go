package resolver

import (
	"bytes"
	"fmt"
	"mime"
	"strings"

	"github.com/erraggy/oasresolve/urimap"
)

// Format identifies the serialization format of a document's content.
type Format string

const (
	// FormatJSON indicates JSON content
	FormatJSON Format = "json"
	// FormatYAML indicates YAML content
	FormatYAML Format = "yaml"
	// FormatUnknown indicates the format could not be determined
	FormatUnknown Format = "unknown"
)

// FormatForMediaType maps a media type to a Format.
// The subtype and its structured-syntax suffix are both consulted, so
// "application/json", "application/openapi+json", and "text/yaml" all
// map correctly. Returns FormatUnknown for unrecognized or empty types.
func FormatForMediaType(mediaType string) Format {
	if mediaType == "" {
		return FormatUnknown
	}
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return FormatUnknown
	}
	_, subtype, ok := strings.Cut(mt, "/")
	if !ok {
		return FormatUnknown
	}
	// "openapi+json" carries its format in the structured-syntax suffix
	if _, suffix, found := strings.Cut(subtype, "+"); found {
		subtype = suffix
	}
	switch subtype {
	case "json":
		return FormatJSON
	case "yaml", "x-yaml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// formatForLocation determines format from a location's path suffix.
func formatForLocation(location urimap.URI) Format {
	path := location.String()
	// Ignore query and fragment when looking at the extension
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	switch {
	case strings.HasSuffix(path, ".json"):
		return FormatJSON
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// detectFormatFromContent attempts to detect the format from the content bytes
// JSON typically starts with '{' or '[', while YAML does not
func detectFormatFromContent(data []byte) Format {
	// Trim leading whitespace
	trimmed := bytes.TrimLeft(data, " \t\n\r")

	if len(trimmed) == 0 {
		return FormatUnknown
	}

	// JSON objects/arrays start with { or [
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}

	// Otherwise assume YAML
	return FormatYAML
}

// mediaTypeForFormat returns the canonical media type for a format,
// or "" when the format is unknown.
func mediaTypeForFormat(f Format) string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return ""
	}
}

// detectFormat picks the document format from the strongest available
// signal: an explicit media type, then the location's path suffix, then
// the HTTP Content-Type header, then the content itself.
func detectFormat(mediaType string, location urimap.URI, contentType string, data []byte) Format {
	if f := FormatForMediaType(mediaType); f != FormatUnknown {
		return f
	}
	if f := formatForLocation(location); f != FormatUnknown {
		return f
	}
	if f := FormatForMediaType(contentType); f != FormatUnknown {
		return f
	}
	return detectFormatFromContent(data)
}

// FormatBytes formats a byte count into a human-readable string using binary units (KiB, MiB, etc.)
func FormatBytes(size int64) string {
	// Handle negative values
	if size < 0 {
		return fmt.Sprintf("%d B", size)
	}

	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit && exp < 5; n /= unit {
		div *= unit
		exp++
	}

	// Use proper binary unit notation (KiB, MiB, GiB, etc.)
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
