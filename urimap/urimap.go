// Package urimap defines the configuration vocabulary for mapping document
// identities to document locations.
//
// A document's identity is the absolute URI it is referenced by; its location
// is the file path or network URL its bytes are fetched from. The two are
// distinct, and every type in this package exists to keep them separate:
//
//   - [URI]: an absolute RFC 3986 identifier in normalized form
//   - [SuffixPolicy]: an ordered suffix list, used to strip a suffix from a
//     location when deriving its identity, or to generate location candidates
//     from an identity
//   - [Entry]: an explicit identity-to-location mapping with an optional
//     media type and optional alias identities
//   - [Prefix]: a rule substituting a directory or URL prefix for a URI
//     prefix, covering documents not explicitly listed
//
// The package performs syntactic validation only: URIs must be absolute,
// location URLs must use http or https, prefixes must end in '/' and carry
// no query or fragment, suffixes must be empty or start with '.'. It never
// touches the filesystem or the network; existence checks belong to the
// resolver.
package urimap

import (
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/erraggy/oasresolve/oaserrors"
)

// EncodeIRIs controls how internationalized identifiers are handled by
// [Parse]. When true (the default), input is NFC-normalized and non-ASCII
// characters are percent-encoded, yielding a plain URI. When false, the IRI
// string is kept exactly as given. Whether IRIs should be decoded for output
// is unsettled in the OpenAPI ecosystem, so the default is the conservative
// encode-as-URI behavior.
var EncodeIRIs = true

// A URI is an absolute identifier in normalized string form.
// The zero value is empty and invalid; obtain values via [Parse] or
// [FromPath].
type URI struct {
	raw string
	url *url.URL
}

// Parse validates s as an absolute URI and returns it in normalized form.
// Relative references are rejected. Any scheme is accepted; callers that
// need http/https enforce it separately.
func Parse(s string) (URI, error) {
	if s == "" {
		return URI{}, &oaserrors.MappingError{
			Kind:    oaserrors.ErrInvalidURI,
			Value:   s,
			Message: "cannot be empty",
		}
	}
	raw := s
	if EncodeIRIs {
		raw = norm.NFC.String(raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return URI{}, &oaserrors.MappingError{
			Kind:    oaserrors.ErrInvalidURI,
			Value:   s,
			Message: "cannot be parsed",
			Cause:   err,
		}
	}
	if !u.IsAbs() {
		return URI{}, &oaserrors.MappingError{
			Kind:    oaserrors.ErrInvalidURI,
			Value:   s,
			Message: "cannot be relative",
		}
	}
	canonical := raw
	if EncodeIRIs {
		// url.URL.String percent-encodes non-ASCII path bytes, completing
		// the IRI-to-URI conversion started by NFC normalization.
		canonical = u.String()
	}
	return URI{raw: canonical, url: u}, nil
}

// FromPath converts a local filesystem path to an absolute file: URL.
// Relative paths are resolved against the current working directory.
func FromPath(p string) (URI, error) {
	if p == "" {
		return URI{}, &oaserrors.MappingError{
			Kind:    oaserrors.ErrInvalidURI,
			Value:   p,
			Message: "path cannot be empty",
		}
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return URI{}, &oaserrors.MappingError{
			Kind:    oaserrors.ErrInvalidURI,
			Value:   p,
			Message: "cannot determine absolute path",
			Cause:   err,
		}
	}
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		// Windows drive paths become /C:/... in file URLs.
		slashed = "/" + slashed
	}
	u := &url.URL{Scheme: "file", Path: slashed}
	return Parse(u.String())
}

// String returns the normalized string form.
func (u URI) String() string {
	return u.raw
}

// IsZero reports whether u is the zero (empty) URI.
func (u URI) IsZero() bool {
	return u.raw == ""
}

// Scheme returns the URI scheme, or "" for the zero URI.
func (u URI) Scheme() string {
	if u.url == nil {
		return ""
	}
	return u.url.Scheme
}

// IsFileURL reports whether u is a file: URL.
func (u URI) IsFileURL() bool {
	return u.Scheme() == "file"
}

// IsHTTPURL reports whether u is an http: or https: URL.
func (u URI) IsHTTPURL() bool {
	s := u.Scheme()
	return s == "http" || s == "https"
}

// FilePath returns the local filesystem path for a file: URL.
func (u URI) FilePath() (string, error) {
	if !u.IsFileURL() {
		return "", &oaserrors.MappingError{
			Kind:    oaserrors.ErrInvalidURI,
			Value:   u.raw,
			Message: "not a file: URL",
		}
	}
	if h := u.url.Host; h != "" && h != "localhost" {
		return "", &oaserrors.MappingError{
			Kind:    oaserrors.ErrInvalidURI,
			Value:   u.raw,
			Message: "file: URL with a remote host",
		}
	}
	return filepath.FromSlash(u.url.Path), nil
}

// PathEndsInSlash reports whether the URI path ends in '/'. For opaque
// URIs (urn:, tag:) the opaque part plays the role of the path.
func (u URI) PathEndsInSlash() bool {
	if u.url == nil {
		return false
	}
	if u.url.Opaque != "" {
		return strings.HasSuffix(u.url.Opaque, "/")
	}
	return strings.HasSuffix(u.url.Path, "/")
}

// HasQueryOrFragment reports whether the URI carries a query or fragment.
func (u URI) HasQueryOrFragment() bool {
	return u.url != nil && (u.url.RawQuery != "" || u.url.Fragment != "" || u.url.ForceQuery)
}

// requireHTTP rejects location URLs that are not http or https.
func requireHTTP(u URI, argument string) error {
	if u.IsHTTPURL() {
		return nil
	}
	return &oaserrors.MappingError{
		Argument: argument,
		Value:    u.String(),
		Kind:     oaserrors.ErrInvalidURI,
		Message:  "must use the http or https scheme",
	}
}

// NormalizeMediaType validates and canonicalizes a media type value.
// The short forms "json" and "yaml" expand to their application/* types;
// anything else must parse as a type/subtype media type. Empty input stays
// empty, meaning the media type is inferred at load time.
func NormalizeMediaType(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "":
		return "", nil
	case "json":
		return "application/json", nil
	case "yaml", "yml":
		return "application/yaml", nil
	}
	mt, _, err := mime.ParseMediaType(trimmed)
	if err != nil {
		return "", &oaserrors.MappingError{
			Kind:    oaserrors.ErrInvalidMediaType,
			Value:   value,
			Message: "cannot be parsed",
			Cause:   err,
		}
	}
	if !strings.Contains(mt, "/") {
		return "", &oaserrors.MappingError{
			Kind:    oaserrors.ErrInvalidMediaType,
			Value:   value,
			Message: "must be a type/subtype media type",
		}
	}
	return mt, nil
}
