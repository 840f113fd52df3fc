package resolver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasresolve"
	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/urimap"
)

// Document is a resolved document together with its fetched and parsed
// content.
type Document struct {
	ResolvedDocument

	// Format is the serialization format the content was parsed as
	Format Format
	// Raw holds the content exactly as fetched
	Raw []byte
	// Data holds the parsed document root
	Data any
}

// HasOpenAPIMarker reports whether the parsed root is a mapping with a
// top-level "openapi" field. Initial-document selection keys on this.
func (d *Document) HasOpenAPIMarker() bool {
	root, ok := d.Data.(map[string]any)
	if !ok {
		return false
	}
	_, ok = root["openapi"]
	return ok
}

// Load resolves uri and fetches and parses the content at the mapped
// location.
//
// For URL prefix rules every suffix candidate is fetched in turn until
// one succeeds; when all fail the error matches
// oaserrors.ErrUnresolvedURI and wraps the last fetch failure. For
// exact entries and directory rules a fetch failure is returned
// directly and matches oaserrors.ErrLoad.
func (r *Resolver) Load(uri string) (*Document, error) {
	candidates, err := r.Candidates(uri)
	if err != nil {
		return nil, err
	}

	var lastErr error
	tried := make([]string, 0, len(candidates))
	for _, rd := range candidates {
		tried = append(tried, rd.Location.String())
		raw, contentType, err := r.fetch(rd.Location)
		if err != nil {
			if len(candidates) == 1 {
				return nil, err
			}
			r.log().Debug("candidate fetch failed", "location", rd.Location.String(), "error", err.Error())
			lastErr = err
			continue
		}
		return r.parseDocument(rd, raw, contentType)
	}

	return nil, &oaserrors.ResolutionError{
		URI:     uri,
		Tried:   tried,
		Message: "no candidate location could be fetched",
		Cause:   lastErr,
	}
}

// LoadWithOptions is Load with per-call overrides for the fetch
// settings: WithHTTPClient, WithUserAgent, and WithLogger. The mapping
// itself is fixed when the Resolver is constructed, so mapping options
// return a configuration error here.
func (r *Resolver) LoadWithOptions(uri string, opts ...Option) (*Document, error) {
	if len(opts) == 0 {
		return r.Load(uri)
	}

	cfg := &resolverConfig{
		logger:     r.logger,
		httpClient: r.httpClient,
		userAgent:  r.userAgent,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if len(cfg.pending) > 0 || len(cfg.prefixes) > 0 || cfg.strict ||
		cfg.stripSuffixes != nil || cfg.fileSuffixes != nil || cfg.urlSuffixes != nil {
		return nil, &oaserrors.ConfigError{
			Option:  "LoadWithOptions",
			Message: "mapping options cannot be changed per load",
		}
	}

	lr := *r
	lr.logger = cfg.logger
	lr.httpClient = cfg.httpClient
	lr.userAgent = cfg.userAgent
	return lr.Load(uri)
}

// fetch reads the raw bytes at a location. The second return value is
// the HTTP Content-Type header, when the location was fetched over the
// network.
func (r *Resolver) fetch(location urimap.URI) ([]byte, string, error) {
	switch {
	case location.IsFileURL():
		path, err := location.FilePath()
		if err != nil {
			return nil, "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", &oaserrors.LoadError{
				Location: location.String(),
				Message:  "failed to read file",
				Cause:    err,
			}
		}
		return data, "", nil
	case location.IsHTTPURL():
		return r.fetchURL(location.String())
	default:
		return nil, "", &oaserrors.LoadError{
			Location: location.String(),
			Message:  fmt.Sprintf("unsupported location scheme %q", location.Scheme()),
		}
	}
}

// fetchURL fetches content from an HTTP/HTTPS URL.
// Returns the content bytes and the Content-Type header.
func (r *Resolver) fetchURL(urlStr string) ([]byte, string, error) {
	// Use custom client if provided, otherwise create default with timeout
	client := r.httpClient
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	req, err := http.NewRequest(http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, "", &oaserrors.LoadError{
			Location: urlStr,
			Message:  "failed to create request",
			Cause:    err,
		}
	}

	// Set user agent (use default if not set)
	userAgent := r.userAgent
	if userAgent == "" {
		userAgent = oasresolve.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", &oaserrors.LoadError{
			Location: urlStr,
			Message:  "failed to fetch URL",
			Cause:    err,
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &oaserrors.LoadError{
			Location:   urlStr,
			StatusCode: resp.StatusCode,
			Message:    "unexpected status",
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &oaserrors.LoadError{
			Location: urlStr,
			Message:  "failed to read response body",
			Cause:    err,
		}
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// parseDocument parses fetched content into a Document, detecting the
// format from the resolved media type, the location suffix, the HTTP
// Content-Type, and finally the content itself.
func (r *Resolver) parseDocument(rd ResolvedDocument, raw []byte, contentType string) (*Document, error) {
	format := detectFormat(rd.MediaType, rd.Location, contentType, raw)
	data, format, err := parseContent(rd.Location.String(), raw, format)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ResolvedDocument: rd,
		Format:           format,
		Raw:              raw,
		Data:             data,
	}
	if doc.MediaType == "" {
		doc.MediaType = mediaTypeForFormat(format)
	}
	r.log().Debug("loaded document",
		"uri", rd.Identity.String(),
		"location", rd.Location.String(),
		"format", string(format),
		"size", len(raw))
	return doc, nil
}

// parseContent deserializes raw content. An unknown format is tried as
// JSON first and as YAML second; the format actually used is returned.
func parseContent(location string, raw []byte, format Format) (any, Format, error) {
	switch format {
	case FormatJSON:
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, format, &oaserrors.ParseError{
				Location: location,
				Format:   string(FormatJSON),
				Message:  "invalid JSON",
				Cause:    err,
			}
		}
		return data, FormatJSON, nil
	case FormatYAML:
		var data any
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, format, &oaserrors.ParseError{
				Location: location,
				Format:   string(FormatYAML),
				Message:  "invalid YAML",
				Cause:    err,
			}
		}
		return data, FormatYAML, nil
	default:
		var data any
		if err := json.Unmarshal(raw, &data); err == nil {
			return data, FormatJSON, nil
		}
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, FormatUnknown, &oaserrors.ParseError{
				Location: location,
				Message:  "content is neither valid JSON nor valid YAML",
				Cause:    err,
			}
		}
		return data, FormatYAML, nil
	}
}
