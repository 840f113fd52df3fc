package urimap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erraggy/oasresolve/oaserrors"
)

// Entry is an explicit mapping from a document identity to the location its
// bytes are fetched from. Entries are immutable after creation.
type Entry struct {
	// Identity is the URI the document is referenced by
	Identity URI
	// Location is the file: or http(s): URL the bytes are fetched from
	Location URI
	// MediaType is the normalized media type, or "" to infer at load time
	MediaType string
	// Aliases are additional identities resolving to the same location
	Aliases []URI
	// AutoIdentity is true when the identity was derived from the location
	// by suffix stripping rather than given explicitly
	AutoIdentity bool
	// StrippedSuffix is the suffix removed while deriving the identity
	// ("" when none was removed or the identity was explicit)
	StrippedSuffix string
}

// NewFileEntry builds an entry for a local file. The path is normalized to
// an absolute file: URL. When uri is empty the identity is derived by
// stripping one suffix per the strip policy; an explicit uri disables
// stripping entirely.
func NewFileEntry(path, uri, mediaType string, strip SuffixPolicy) (Entry, error) {
	loc, err := FromPath(path)
	if err != nil {
		return Entry{}, withArgument(err, "file")
	}
	return newEntry("file", loc, uri, mediaType, strip)
}

// NewURLEntry builds an entry for a network URL, which must use the http or
// https scheme. Identity derivation follows the same rules as NewFileEntry.
func NewURLEntry(rawURL, uri, mediaType string, strip SuffixPolicy) (Entry, error) {
	loc, err := Parse(rawURL)
	if err != nil {
		return Entry{}, withArgument(err, "url")
	}
	if err := requireHTTP(loc, "url"); err != nil {
		return Entry{}, err
	}
	return newEntry("url", loc, uri, mediaType, strip)
}

func newEntry(argument string, loc URI, uri, mediaType string, strip SuffixPolicy) (Entry, error) {
	mt, err := NormalizeMediaType(mediaType)
	if err != nil {
		return Entry{}, withArgument(err, argument)
	}
	e := Entry{Location: loc, MediaType: mt}
	if uri != "" {
		// An explicit identity wins; the strip policy is ignored.
		id, err := Parse(uri)
		if err != nil {
			return Entry{}, withArgument(err, argument)
		}
		e.Identity = id
		return e, nil
	}
	stripped, suffix := strip.Strip(loc.String())
	id, err := Parse(stripped)
	if err != nil {
		return Entry{}, withArgument(err, argument)
	}
	e.Identity = id
	e.AutoIdentity = true
	e.StrippedSuffix = suffix
	return e, nil
}

// WithAliases returns a copy of the entry carrying additional identities.
// Aliases resolve exactly like the primary identity and participate in
// duplicate-identity checks.
func (e Entry) WithAliases(uris ...string) (Entry, error) {
	seen := map[string]bool{e.Identity.String(): true}
	for _, a := range e.Aliases {
		seen[a.String()] = true
	}
	aliases := append([]URI(nil), e.Aliases...)
	for _, raw := range uris {
		u, err := Parse(raw)
		if err != nil {
			return Entry{}, withArgument(err, "alias")
		}
		if seen[u.String()] {
			return Entry{}, &oaserrors.MappingError{
				Argument: "alias",
				Value:    u.String(),
				Kind:     oaserrors.ErrDuplicateIdentity,
				Message:  "already names this entry",
			}
		}
		seen[u.String()] = true
		aliases = append(aliases, u)
	}
	e.Aliases = aliases
	return e, nil
}

// Identities returns the primary identity followed by any aliases.
func (e Entry) Identities() []URI {
	out := make([]URI, 0, 1+len(e.Aliases))
	out = append(out, e.Identity)
	out = append(out, e.Aliases...)
	return out
}

// String renders the mapping as "identity => location".
func (e Entry) String() string {
	return fmt.Sprintf("%s => %s", e.Identity, e.Location)
}

// EntrySpec is the split form of a "LOCATION [URI] [TYPE]" argument as
// accepted by the command line and the MCP server.
type EntrySpec struct {
	Location  string
	URI       string
	MediaType string
}

// ParseEntrySpec splits a whitespace-separated "LOCATION [URI] [TYPE]"
// value. The argument name is used in error reporting only.
func ParseEntrySpec(argument, value string) (EntrySpec, error) {
	fields := strings.Fields(value)
	switch len(fields) {
	case 0:
		return EntrySpec{}, &oaserrors.MappingError{
			Argument: argument,
			Value:    value,
			Message:  "requires at least a location",
		}
	case 1:
		return EntrySpec{Location: fields[0]}, nil
	case 2:
		return EntrySpec{Location: fields[0], URI: fields[1]}, nil
	case 3:
		return EntrySpec{Location: fields[0], URI: fields[1], MediaType: fields[2]}, nil
	default:
		return EntrySpec{}, &oaserrors.MappingError{
			Argument: argument,
			Value:    value,
			Message:  "takes at most a location, a URI, and a media type",
		}
	}
}

// withArgument fills the Argument field of a MappingError created by a
// lower layer that did not know which input it was validating.
func withArgument(err error, argument string) error {
	var me *oaserrors.MappingError
	if errors.As(err, &me) && me.Argument == "" {
		me.Argument = argument
	}
	return err
}
