package resolver

import (
	"net/http"

	"github.com/erraggy/oasresolve"
	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/urimap"
)

// Option is a function that configures a Resolver
type Option func(*resolverConfig) error

// pendingEntry defers mapping-entry construction until every option has
// been applied, so WithStripSuffixes affects entries regardless of the
// order the options are given in.
type pendingEntry struct {
	built     *urimap.Entry
	isURL     bool
	location  string
	uri       string
	mediaType string
}

// resolverConfig holds configuration collected from options
type resolverConfig struct {
	pending  []pendingEntry
	entries  []urimap.Entry
	prefixes []urimap.Prefix

	stripSuffixes urimap.SuffixPolicy
	fileSuffixes  urimap.SuffixPolicy
	urlSuffixes   urimap.SuffixPolicy

	strict     bool
	logger     Logger
	httpClient *http.Client
	userAgent  string
}

// applyOptions applies option functions and builds the deferred
// mapping entries with the final strip suffix policy.
func applyOptions(opts ...Option) (*resolverConfig, error) {
	cfg := &resolverConfig{
		stripSuffixes: urimap.DefaultStripSuffixes(),
		fileSuffixes:  urimap.DefaultFileSuffixes(),
		urlSuffixes:   urimap.DefaultURLSuffixes(),
		userAgent:     oasresolve.UserAgent(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	cfg.entries = make([]urimap.Entry, 0, len(cfg.pending))
	for _, p := range cfg.pending {
		var (
			e   urimap.Entry
			err error
		)
		switch {
		case p.built != nil:
			e = *p.built
		case p.isURL:
			e, err = urimap.NewURLEntry(p.location, p.uri, p.mediaType, cfg.stripSuffixes)
		default:
			e, err = urimap.NewFileEntry(p.location, p.uri, p.mediaType, cfg.stripSuffixes)
		}
		if err != nil {
			return nil, err
		}
		cfg.entries = append(cfg.entries, e)
	}

	return cfg, nil
}

// WithFileEntry maps a local file as a document. The file is identified
// by uri, or by its own file URL with the strip suffixes removed when
// uri is empty. mediaType may be empty.
func WithFileEntry(path, uri, mediaType string) Option {
	return func(cfg *resolverConfig) error {
		cfg.pending = append(cfg.pending, pendingEntry{
			location:  path,
			uri:       uri,
			mediaType: mediaType,
		})
		return nil
	}
}

// WithURLEntry maps a network document. The document is identified by
// uri, or by the URL itself with the strip suffixes removed when uri is
// empty. mediaType may be empty.
func WithURLEntry(rawURL, uri, mediaType string) Option {
	return func(cfg *resolverConfig) error {
		cfg.pending = append(cfg.pending, pendingEntry{
			isURL:     true,
			location:  rawURL,
			uri:       uri,
			mediaType: mediaType,
		})
		return nil
	}
}

// WithEntry adds a pre-built mapping entry. Use this for entries with
// aliases or other properties the simpler options do not cover.
func WithEntry(e urimap.Entry) Option {
	return func(cfg *resolverConfig) error {
		if e.Identity.IsZero() || e.Location.IsZero() {
			return &oaserrors.ConfigError{
				Option:  "WithEntry",
				Message: "entry must have an identity and a location",
			}
		}
		cfg.pending = append(cfg.pending, pendingEntry{built: &e})
		return nil
	}
}

// WithDirectoryPrefix maps the URI subtree under uriPrefix to files in
// dir. When uriPrefix is empty, the directory's own file URL is used.
// The directory must exist when the Resolver is constructed.
func WithDirectoryPrefix(dir, uriPrefix string) Option {
	return func(cfg *resolverConfig) error {
		p, err := urimap.NewDirectoryPrefix(dir, uriPrefix)
		if err != nil {
			return err
		}
		cfg.prefixes = append(cfg.prefixes, p)
		return nil
	}
}

// WithURLPrefix maps the URI subtree under uriPrefix to URLs under
// urlPrefix. When uriPrefix is empty, urlPrefix maps to itself. Both
// must have paths ending in "/".
func WithURLPrefix(urlPrefix, uriPrefix string) Option {
	return func(cfg *resolverConfig) error {
		p, err := urimap.NewURLPrefix(urlPrefix, uriPrefix)
		if err != nil {
			return err
		}
		cfg.prefixes = append(cfg.prefixes, p)
		return nil
	}
}

// WithPrefix adds a pre-built prefix rule.
func WithPrefix(p urimap.Prefix) Option {
	return func(cfg *resolverConfig) error {
		if p.URIPrefix.IsZero() || p.Replacement.IsZero() {
			return &oaserrors.ConfigError{
				Option:  "WithPrefix",
				Message: "prefix rule must have a URI prefix and a replacement",
			}
		}
		cfg.prefixes = append(cfg.prefixes, p)
		return nil
	}
}

// WithStripSuffixes sets the suffixes removed from a file path or URL
// when deriving an entry's identity URI. Stripping applies only to
// entries without an explicit URI, and removes at most one suffix.
// Default: ".json", ".yaml", ".yml"
func WithStripSuffixes(suffixes ...string) Option {
	return func(cfg *resolverConfig) error {
		p, err := urimap.NewSuffixPolicy(suffixes...)
		if err != nil {
			return err
		}
		cfg.stripSuffixes = p
		return nil
	}
}

// WithFileSuffixes sets the suffixes tried, in order, when a directory
// prefix rule resolves a URI to a file.
// Default: ".json", ".yaml", ".yml"
func WithFileSuffixes(suffixes ...string) Option {
	return func(cfg *resolverConfig) error {
		p, err := urimap.NewSuffixPolicy(suffixes...)
		if err != nil {
			return err
		}
		cfg.fileSuffixes = p
		return nil
	}
}

// WithURLSuffixes sets the suffixes tried, in order, when a URL prefix
// rule resolves a URI to a URL. The empty suffix means the URL is tried
// as-is.
// Default: "", ".json", ".yaml", ".yml"
func WithURLSuffixes(suffixes ...string) Option {
	return func(cfg *resolverConfig) error {
		p, err := urimap.NewSuffixPolicy(suffixes...)
		if err != nil {
			return err
		}
		cfg.urlSuffixes = p
		return nil
	}
}

// WithStrictPrefixes enables strict prefix matching: when two
// equal-length prefix rules match a URI but disagree on whether it maps
// to a directory or a URL, resolution fails instead of silently picking
// the rule configured first.
// Default: false
func WithStrictPrefixes(enabled bool) Option {
	return func(cfg *resolverConfig) error {
		cfg.strict = enabled
		return nil
	}
}

// WithLogger sets a structured logger for debug output during
// resolution and loading. By default, no logging is performed.
//
// The logger interface is compatible with log/slog, zap, and zerolog.
// Use NewSlogAdapter to wrap a *slog.Logger.
func WithLogger(l Logger) Option {
	return func(cfg *resolverConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client for fetching URLs.
// If nil, a default client with a 30-second timeout is used.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *resolverConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
// Default: "oasresolve/vX.Y.Z"
func WithUserAgent(ua string) Option {
	return func(cfg *resolverConfig) error {
		cfg.userAgent = ua
		return nil
	}
}
