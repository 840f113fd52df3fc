package catalog

import (
	"net/http"
	"strings"

	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/resolver"
	"github.com/erraggy/oasresolve/urimap"
)

// Option is a function that configures a Catalog
type Option func(*catalogConfig) error

// catalogConfig accumulates resolver options in application order and
// tracks which entry-creating option designated the initial document.
type catalogConfig struct {
	resolverOpts []resolver.Option
	entryCount   int
	initialIndex int
	logger       resolver.Logger
}

// addEntry records an entry-creating resolver option.
func (cfg *catalogConfig) addEntry(opt resolver.Option) {
	cfg.resolverOpts = append(cfg.resolverOpts, opt)
	cfg.entryCount++
}

// isURL determines if the given location is a URL (http:// or https://)
func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// WithInitialDocument adds a mapping entry for location and designates
// it as the catalog's entry-point document. The location is treated as a
// URL when it starts with http:// or https://, and as a local file path
// otherwise. The document is identified by uri, or by its location with
// the strip suffixes removed when uri is empty.
//
// At most one initial document may be designated.
func WithInitialDocument(location, uri string) Option {
	return func(cfg *catalogConfig) error {
		if cfg.initialIndex >= 0 {
			return &oaserrors.ConfigError{
				Option:  "WithInitialDocument",
				Value:   location,
				Message: "an initial document is already designated",
			}
		}
		cfg.initialIndex = cfg.entryCount
		if isURL(location) {
			cfg.addEntry(resolver.WithURLEntry(location, uri, ""))
		} else {
			cfg.addEntry(resolver.WithFileEntry(location, uri, ""))
		}
		return nil
	}
}

// WithFileEntry maps a local file as a document. See resolver.WithFileEntry.
func WithFileEntry(path, uri, mediaType string) Option {
	return func(cfg *catalogConfig) error {
		cfg.addEntry(resolver.WithFileEntry(path, uri, mediaType))
		return nil
	}
}

// WithURLEntry maps a network document. See resolver.WithURLEntry.
func WithURLEntry(rawURL, uri, mediaType string) Option {
	return func(cfg *catalogConfig) error {
		cfg.addEntry(resolver.WithURLEntry(rawURL, uri, mediaType))
		return nil
	}
}

// WithEntry adds a pre-built mapping entry. See resolver.WithEntry.
func WithEntry(e urimap.Entry) Option {
	return func(cfg *catalogConfig) error {
		cfg.addEntry(resolver.WithEntry(e))
		return nil
	}
}

// WithDirectoryPrefix maps a URI subtree to files in a local directory.
// See resolver.WithDirectoryPrefix.
func WithDirectoryPrefix(dir, uriPrefix string) Option {
	return func(cfg *catalogConfig) error {
		cfg.resolverOpts = append(cfg.resolverOpts, resolver.WithDirectoryPrefix(dir, uriPrefix))
		return nil
	}
}

// WithURLPrefix maps a URI subtree to URLs under an alternate prefix.
// See resolver.WithURLPrefix.
func WithURLPrefix(urlPrefix, uriPrefix string) Option {
	return func(cfg *catalogConfig) error {
		cfg.resolverOpts = append(cfg.resolverOpts, resolver.WithURLPrefix(urlPrefix, uriPrefix))
		return nil
	}
}

// WithPrefix adds a pre-built prefix rule. See resolver.WithPrefix.
func WithPrefix(p urimap.Prefix) Option {
	return func(cfg *catalogConfig) error {
		cfg.resolverOpts = append(cfg.resolverOpts, resolver.WithPrefix(p))
		return nil
	}
}

// WithStripSuffixes sets the identity derivation strip policy.
// See resolver.WithStripSuffixes.
func WithStripSuffixes(suffixes ...string) Option {
	return func(cfg *catalogConfig) error {
		cfg.resolverOpts = append(cfg.resolverOpts, resolver.WithStripSuffixes(suffixes...))
		return nil
	}
}

// WithFileSuffixes sets the directory-rule trial policy.
// See resolver.WithFileSuffixes.
func WithFileSuffixes(suffixes ...string) Option {
	return func(cfg *catalogConfig) error {
		cfg.resolverOpts = append(cfg.resolverOpts, resolver.WithFileSuffixes(suffixes...))
		return nil
	}
}

// WithURLSuffixes sets the URL-rule trial policy.
// See resolver.WithURLSuffixes.
func WithURLSuffixes(suffixes ...string) Option {
	return func(cfg *catalogConfig) error {
		cfg.resolverOpts = append(cfg.resolverOpts, resolver.WithURLSuffixes(suffixes...))
		return nil
	}
}

// WithStrictPrefixes enables strict prefix matching.
// See resolver.WithStrictPrefixes.
func WithStrictPrefixes(enabled bool) Option {
	return func(cfg *catalogConfig) error {
		cfg.resolverOpts = append(cfg.resolverOpts, resolver.WithStrictPrefixes(enabled))
		return nil
	}
}

// WithLogger sets a structured logger for both the catalog and its
// resolver. See resolver.WithLogger.
func WithLogger(l resolver.Logger) Option {
	return func(cfg *catalogConfig) error {
		cfg.logger = l
		cfg.resolverOpts = append(cfg.resolverOpts, resolver.WithLogger(l))
		return nil
	}
}

// WithHTTPClient sets the HTTP client used to fetch URL locations.
// See resolver.WithHTTPClient.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *catalogConfig) error {
		cfg.resolverOpts = append(cfg.resolverOpts, resolver.WithHTTPClient(client))
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests.
// See resolver.WithUserAgent.
func WithUserAgent(ua string) Option {
	return func(cfg *catalogConfig) error {
		cfg.resolverOpts = append(cfg.resolverOpts, resolver.WithUserAgent(ua))
		return nil
	}
}
