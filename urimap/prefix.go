package urimap

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasresolve/oaserrors"
)

// PrefixKind distinguishes the two replacement targets a prefix rule can have.
type PrefixKind string

const (
	// KindDirectory replaces the URI prefix with a local directory.
	KindDirectory PrefixKind = "directory"
	// KindURL replaces the URI prefix with a network URL prefix.
	KindURL PrefixKind = "url"
)

// Prefix is a rule deriving locations for documents not explicitly listed:
// every identity starting with URIPrefix maps to Replacement plus the
// remainder of the identity. Both prefixes end in '/'. Prefix rules are
// consulted only when no entry matches exactly, and they never carry alias
// identities.
type Prefix struct {
	// URIPrefix is the identity-space prefix, any scheme, ending in '/'
	URIPrefix URI
	// Replacement is the location-space prefix (file: directory URL or
	// http(s): URL), ending in '/'
	Replacement URI
	// Kind selects directory or URL trial semantics during resolution
	Kind PrefixKind
}

// NewDirectoryPrefix builds a directory-kind rule. The directory path is
// normalized to an absolute file: URL ending in '/'. When uriPrefix is
// empty the rule maps the directory's own file: URL space to itself.
// Whether the directory exists is checked by the resolver, not here.
func NewDirectoryPrefix(dir, uriPrefix string) (Prefix, error) {
	loc, err := FromPath(dir)
	if err != nil {
		return Prefix{}, withArgument(err, "directory")
	}
	if !strings.HasSuffix(loc.String(), "/") {
		loc, err = Parse(loc.String() + "/")
		if err != nil {
			return Prefix{}, withArgument(err, "directory")
		}
	}
	up, err := prefixURI(loc, uriPrefix, "directory")
	if err != nil {
		return Prefix{}, err
	}
	return Prefix{URIPrefix: up, Replacement: loc, Kind: KindDirectory}, nil
}

// NewURLPrefix builds a URL-kind rule. The URL prefix must use the http or
// https scheme, end in '/', and carry no query or fragment. When uriPrefix
// is empty the rule maps the URL's own space to itself.
func NewURLPrefix(urlPrefix, uriPrefix string) (Prefix, error) {
	loc, err := Parse(urlPrefix)
	if err != nil {
		return Prefix{}, withArgument(err, "url-prefix")
	}
	if err := requireHTTP(loc, "url-prefix"); err != nil {
		return Prefix{}, err
	}
	if err := validatePrefix(loc, "url-prefix"); err != nil {
		return Prefix{}, err
	}
	up, err := prefixURI(loc, uriPrefix, "url-prefix")
	if err != nil {
		return Prefix{}, err
	}
	return Prefix{URIPrefix: up, Replacement: loc, Kind: KindURL}, nil
}

// prefixURI resolves the identity-space prefix for a rule: the explicit
// uriPrefix when given, otherwise the location prefix itself.
func prefixURI(loc URI, uriPrefix, argument string) (URI, error) {
	if uriPrefix == "" {
		return loc, nil
	}
	up, err := Parse(uriPrefix)
	if err != nil {
		return URI{}, withArgument(err, argument)
	}
	if err := validatePrefix(up, argument); err != nil {
		return URI{}, err
	}
	return up, nil
}

func validatePrefix(u URI, argument string) error {
	if u.HasQueryOrFragment() {
		return &oaserrors.MappingError{
			Argument: argument,
			Value:    u.String(),
			Kind:     oaserrors.ErrInvalidPrefix,
			Message:  "must not include a query or fragment",
		}
	}
	if !u.PathEndsInSlash() {
		return &oaserrors.MappingError{
			Argument: argument,
			Value:    u.String(),
			Kind:     oaserrors.ErrInvalidPrefix,
			Message:  "must have a path ending in '/'",
		}
	}
	return nil
}

// Matches reports whether the identity falls under this rule's URI prefix.
func (p Prefix) Matches(u URI) bool {
	return strings.HasPrefix(u.String(), p.URIPrefix.String())
}

// Apply substitutes the replacement prefix for the matched URI prefix,
// returning the derived location base and whether the rule matched.
func (p Prefix) Apply(u URI) (string, bool) {
	if !p.Matches(u) {
		return "", false
	}
	remainder := strings.TrimPrefix(u.String(), p.URIPrefix.String())
	return p.Replacement.String() + remainder, true
}

// Len returns the URI prefix length, the primary precedence key: the
// longest matching prefix wins.
func (p Prefix) Len() int {
	return len(p.URIPrefix.String())
}

// String renders the rule as "uri-prefix => replacement (kind)".
func (p Prefix) String() string {
	return fmt.Sprintf("%s => %s (%s)", p.URIPrefix, p.Replacement, p.Kind)
}

// PrefixSpec is the split form of a "LOCATION [URI_PREFIX]" argument as
// accepted by the command line and the MCP server.
type PrefixSpec struct {
	Location  string
	URIPrefix string
}

// ParsePrefixSpec splits a whitespace-separated "LOCATION [URI_PREFIX]"
// value. The argument name is used in error reporting only.
func ParsePrefixSpec(argument, value string) (PrefixSpec, error) {
	fields := strings.Fields(value)
	switch len(fields) {
	case 0:
		return PrefixSpec{}, &oaserrors.MappingError{
			Argument: argument,
			Value:    value,
			Message:  "requires at least a location prefix",
		}
	case 1:
		return PrefixSpec{Location: fields[0]}, nil
	case 2:
		return PrefixSpec{Location: fields[0], URIPrefix: fields[1]}, nil
	default:
		return PrefixSpec{}, &oaserrors.MappingError{
			Argument: argument,
			Value:    value,
			Message:  "takes at most a location prefix and a URI prefix",
		}
	}
}
