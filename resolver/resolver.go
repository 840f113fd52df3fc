// Package resolver maps reference URIs to concrete document locations
// and loads the documents they identify.
//
// A Resolver is configured with mapping entries (single documents known
// by URI) and prefix rules (whole URI subtrees redirected to a local
// directory or an alternate URL prefix). Resolution consults exact
// entries first, then the longest matching prefix rule, trying the
// configured suffixes until a candidate is found.
//
// Example:
//
//	r, err := resolver.New(
//	    resolver.WithFileEntry("./openapi.yaml", "https://example.com/api", ""),
//	    resolver.WithDirectoryPrefix("./schemas", "https://example.com/schemas/"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := r.Load("https://example.com/schemas/pet")
package resolver

import (
	"fmt"
	"net/http"
	"os"
	"sort"

	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/urimap"
)

// SourceKind identifies which mapping mechanism produced a resolved
// location.
type SourceKind string

const (
	// SourceEntry means an exact mapping entry matched the URI
	SourceEntry SourceKind = "entry"
	// SourceDirectory means a directory prefix rule produced the location
	SourceDirectory SourceKind = "directory"
	// SourceURL means a URL prefix rule produced the location
	SourceURL SourceKind = "url"
)

// ResolvedDocument describes where the content for an identity URI
// lives and how it is typed. It is the product of Resolve; no content
// has been fetched yet.
type ResolvedDocument struct {
	// Identity is the URI the document is known by
	Identity urimap.URI
	// Location is the file or network URL holding the content
	Location urimap.URI
	// MediaType is the document's media type; taken from the mapping
	// entry when one was given, otherwise inferred from the location
	// suffix. Empty when neither source determines it.
	MediaType string
	// Source records which mapping mechanism matched
	Source SourceKind
}

// Resolver maps reference URIs to concrete document locations.
// It is immutable after New and safe for concurrent use.
type Resolver struct {
	entries      map[string]urimap.Entry
	ordered      []urimap.Entry
	prefixes     []urimap.Prefix
	fileSuffixes urimap.SuffixPolicy
	urlSuffixes  urimap.SuffixPolicy
	strict       bool
	logger       Logger
	httpClient   *http.Client
	userAgent    string
}

// New creates a Resolver from the given options.
//
// Construction validates the whole mapping configuration: duplicate
// identities (including aliases) are rejected, and every directory
// prefix rule must point at an existing directory. Network locations
// are not probed.
func New(opts ...Option) (*Resolver, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		entries:      make(map[string]urimap.Entry, len(cfg.entries)),
		ordered:      cfg.entries,
		prefixes:     cfg.prefixes,
		fileSuffixes: cfg.fileSuffixes,
		urlSuffixes:  cfg.urlSuffixes,
		strict:       cfg.strict,
		logger:       cfg.logger,
		httpClient:   cfg.httpClient,
		userAgent:    cfg.userAgent,
	}

	for _, e := range cfg.entries {
		for _, id := range e.Identities() {
			key := id.String()
			if prev, ok := r.entries[key]; ok {
				return nil, &oaserrors.MappingError{
					Value:   key,
					Kind:    oaserrors.ErrDuplicateIdentity,
					Message: fmt.Sprintf("already mapped to %s", prev.Location),
				}
			}
			r.entries[key] = e
		}
	}

	for _, p := range cfg.prefixes {
		if p.Kind != urimap.KindDirectory {
			continue
		}
		path, err := p.Replacement.FilePath()
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, &oaserrors.MappingError{
				Argument: "directory",
				Value:    path,
				Kind:     oaserrors.ErrInvalidPrefix,
				Message:  "directory does not exist",
				Cause:    err,
			}
		}
		if !info.IsDir() {
			return nil, &oaserrors.MappingError{
				Argument: "directory",
				Value:    path,
				Kind:     oaserrors.ErrInvalidPrefix,
				Message:  "not a directory",
			}
		}
	}

	// Longest prefix wins; equal lengths keep configuration order.
	sort.SliceStable(r.prefixes, func(i, j int) bool {
		return r.prefixes[i].Len() > r.prefixes[j].Len()
	})

	r.log().Debug("resolver configured",
		"entries", len(r.ordered),
		"prefixes", len(r.prefixes),
		"strict", r.strict)

	return r, nil
}

// log returns the configured logger, or a no-op logger if none is set.
func (r *Resolver) log() Logger {
	if r.logger != nil {
		return r.logger
	}
	return NopLogger{}
}

// Resolve maps an identity URI to the location of its content.
//
// Lookup order:
//  1. An exact mapping entry for the URI (including aliases).
//  2. The longest matching prefix rule. Directory rules try each
//     configured file suffix and return the first candidate that exists
//     as a regular file. URL rules return the first suffix candidate
//     without probing the network.
//
// When nothing matches, the error matches oaserrors.ErrUnresolvedURI.
// In strict mode, equal-length prefix matches that disagree on kind
// produce an error matching oaserrors.ErrAmbiguousPrefix.
func (r *Resolver) Resolve(uri string) (ResolvedDocument, error) {
	docs, err := r.resolve(uri, false)
	if err != nil {
		return ResolvedDocument{}, err
	}
	return docs[0], nil
}

// Candidates maps an identity URI to every location its content may
// live at, in trial order. Exact entries and directory rules yield a
// single location; URL rules yield one location per configured suffix,
// none of them probed. Load works through this list until a fetch
// succeeds.
func (r *Resolver) Candidates(uri string) ([]ResolvedDocument, error) {
	return r.resolve(uri, true)
}

func (r *Resolver) resolve(uri string, all bool) ([]ResolvedDocument, error) {
	target, err := urimap.Parse(uri)
	if err != nil {
		return nil, err
	}
	key := target.String()

	if e, ok := r.entries[key]; ok {
		r.log().Debug("resolved by entry", "uri", key, "location", e.Location.String())
		return []ResolvedDocument{entryDocument(target, e)}, nil
	}

	best, conflict := r.bestPrefix(target)
	if conflict != nil {
		return nil, conflict
	}
	if best == nil {
		return nil, &oaserrors.ResolutionError{
			URI:     key,
			Message: "no mapping entry or prefix rule matches",
		}
	}

	base, _ := best.Apply(target)
	if best.Kind == urimap.KindDirectory {
		doc, err := r.resolveDirectory(target, base)
		if err != nil {
			return nil, err
		}
		return []ResolvedDocument{doc}, nil
	}
	return r.resolveURL(target, base, all)
}

// bestPrefix returns the winning prefix rule for the target, or nil
// when none matches. In strict mode an equal-length match of the other
// kind is reported as ambiguous.
func (r *Resolver) bestPrefix(target urimap.URI) (*urimap.Prefix, error) {
	var best *urimap.Prefix
	for i := range r.prefixes {
		p := &r.prefixes[i]
		if !p.Matches(target) {
			continue
		}
		if best == nil {
			best = p
			if !r.strict {
				break
			}
			continue
		}
		if p.Len() < best.Len() {
			break
		}
		if p.Kind != best.Kind {
			return nil, &oaserrors.ResolutionError{
				URI:         target.String(),
				IsAmbiguous: true,
				Message:     fmt.Sprintf("%s conflicts with %s", best, p),
			}
		}
	}
	return best, nil
}

// resolveDirectory tries each file suffix under the mapped directory
// and returns the first candidate that exists as a regular file.
func (r *Resolver) resolveDirectory(target urimap.URI, base string) (ResolvedDocument, error) {
	candidates := r.fileSuffixes.Candidates(base)
	if len(candidates) == 0 {
		return ResolvedDocument{}, &oaserrors.ResolutionError{
			URI:     target.String(),
			Message: "file suffix trial policy is empty",
		}
	}
	tried := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		loc, err := urimap.Parse(cand)
		if err != nil {
			return ResolvedDocument{}, err
		}
		tried = append(tried, loc.String())
		path, err := loc.FilePath()
		if err != nil {
			return ResolvedDocument{}, err
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		r.log().Debug("resolved by directory rule", "uri", target.String(), "location", loc.String())
		return locationDocument(target, loc, SourceDirectory), nil
	}
	return ResolvedDocument{}, &oaserrors.ResolutionError{
		URI:     target.String(),
		Tried:   tried,
		Message: "no candidate file exists",
	}
}

// resolveURL derives suffix candidates under the mapped URL prefix.
// Candidates are not probed; the first is returned unless the caller
// asked for all of them.
func (r *Resolver) resolveURL(target urimap.URI, base string, all bool) ([]ResolvedDocument, error) {
	candidates := r.urlSuffixes.Candidates(base)
	if len(candidates) == 0 {
		return nil, &oaserrors.ResolutionError{
			URI:     target.String(),
			Message: "URL suffix trial policy is empty",
		}
	}
	if !all {
		candidates = candidates[:1]
	}
	docs := make([]ResolvedDocument, 0, len(candidates))
	for _, cand := range candidates {
		loc, err := urimap.Parse(cand)
		if err != nil {
			return nil, err
		}
		docs = append(docs, locationDocument(target, loc, SourceURL))
	}
	r.log().Debug("resolved by URL rule", "uri", target.String(), "location", docs[0].Location.String(), "candidates", len(docs))
	return docs, nil
}

func entryDocument(target urimap.URI, e urimap.Entry) ResolvedDocument {
	doc := locationDocument(target, e.Location, SourceEntry)
	if e.MediaType != "" {
		doc.MediaType = e.MediaType
	}
	return doc
}

func locationDocument(target, location urimap.URI, source SourceKind) ResolvedDocument {
	return ResolvedDocument{
		Identity:  target,
		Location:  location,
		MediaType: mediaTypeForFormat(formatForLocation(location)),
		Source:    source,
	}
}

// Entries returns the mapping entries in configuration order.
func (r *Resolver) Entries() []urimap.Entry {
	out := make([]urimap.Entry, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Prefixes returns the prefix rules in precedence order, longest URI
// prefix first.
func (r *Resolver) Prefixes() []urimap.Prefix {
	out := make([]urimap.Prefix, len(r.prefixes))
	copy(out, r.prefixes)
	return out
}

// FileSuffixes returns the suffix trial policy for directory rules.
func (r *Resolver) FileSuffixes() urimap.SuffixPolicy {
	return r.fileSuffixes.Clone()
}

// URLSuffixes returns the suffix trial policy for URL rules.
func (r *Resolver) URLSuffixes() urimap.SuffixPolicy {
	return r.urlSuffixes.Clone()
}
