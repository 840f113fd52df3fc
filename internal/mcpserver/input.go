package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/oasresolve/catalog"
	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/resolver"
	"github.com/erraggy/oasresolve/urimap"
)

// mappingInput describes a document set the way the CLI mapping flags
// do. Each string carries the whitespace-separated fields of the
// corresponding flag value.
type mappingInput struct {
	Initial       string   `json:"initial,omitempty"         jsonschema:"Initial document as 'LOCATION [URI]'"`
	Files         []string `json:"files,omitempty"           jsonschema:"File entries as 'FILE [URI] [TYPE]'"`
	URLs          []string `json:"urls,omitempty"            jsonschema:"URL entries as 'URL [URI] [TYPE]'"`
	Directories   []string `json:"directories,omitempty"     jsonschema:"Directory rules as 'DIR [URI_PREFIX]'"`
	URLPrefixes   []string `json:"url_prefixes,omitempty"    jsonschema:"URL prefix rules as 'URL_PREFIX [URI_PREFIX]'"`
	StripSuffixes []string `json:"strip_suffixes,omitempty"  jsonschema:"Suffixes stripped when deriving identities from locations"`
	FileSuffixes  []string `json:"file_suffixes,omitempty"   jsonschema:"Suffix candidates tried by directory rules"`
	URLSuffixes   []string `json:"url_suffixes,omitempty"    jsonschema:"Suffix candidates tried by URL rules"`
	Strict        bool     `json:"strict_prefixes,omitempty" jsonschema:"Fail resolution when equal-length prefix rules disagree"`
}

// buildCatalog turns the mapping into a catalog. The HTTP client always
// carries the configured fetch timeout; unless private IPs are allowed
// it also refuses to dial them.
func (m mappingInput) buildCatalog() (*catalog.Catalog, error) {
	var opts []catalog.Option

	for _, v := range m.Files {
		spec, err := urimap.ParseEntrySpec("files", v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithFileEntry(spec.Location, spec.URI, spec.MediaType))
	}
	for _, v := range m.URLs {
		spec, err := urimap.ParseEntrySpec("urls", v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithURLEntry(spec.Location, spec.URI, spec.MediaType))
	}
	if m.Initial != "" {
		spec, err := urimap.ParseEntrySpec("initial", m.Initial)
		if err != nil {
			return nil, err
		}
		if spec.MediaType != "" {
			return nil, &oaserrors.MappingError{
				Argument: "initial",
				Value:    m.Initial,
				Message:  "takes at most a location and a URI",
			}
		}
		opts = append(opts, catalog.WithInitialDocument(spec.Location, spec.URI))
	}
	for _, v := range m.Directories {
		spec, err := urimap.ParsePrefixSpec("directories", v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithDirectoryPrefix(spec.Location, spec.URIPrefix))
	}
	for _, v := range m.URLPrefixes {
		spec, err := urimap.ParsePrefixSpec("url_prefixes", v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithURLPrefix(spec.Location, spec.URIPrefix))
	}

	if len(m.StripSuffixes) > 0 {
		opts = append(opts, catalog.WithStripSuffixes(m.StripSuffixes...))
	}
	if len(m.FileSuffixes) > 0 {
		opts = append(opts, catalog.WithFileSuffixes(m.FileSuffixes...))
	}
	if len(m.URLSuffixes) > 0 {
		opts = append(opts, catalog.WithURLSuffixes(m.URLSuffixes...))
	}
	if m.Strict {
		opts = append(opts, catalog.WithStrictPrefixes(true))
	}

	httpClient := &http.Client{Timeout: cfg.LoadTimeout}
	if !cfg.AllowPrivateIPs {
		httpClient = newSafeHTTPClient()
	}
	opts = append(opts, catalog.WithHTTPClient(httpClient))

	return catalog.New(opts...)
}

// cacheEntry holds a cached loaded document with LRU ordering and TTL expiry.
type cacheEntry struct {
	doc       *resolver.Document
	insertAt  time.Time
	expiresAt time.Time
}

// docCacheStore provides a session-scoped cache for loaded documents.
// Entries are keyed by resolved location: file locations by
// (absolutePath, modTime) so edits invalidate their entries, URL
// locations by URL string. A background sweeper removes expired entries.
type docCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxEntries     int
	sweeperStarted atomic.Bool
}

var docCache = &docCacheStore{
	entries:    make(map[string]*cacheEntry),
	maxEntries: cfg.CacheMaxEntries,
}

// get returns a cached document or nil. Expired entries are lazily removed.
func (c *docCacheStore) get(key string) *resolver.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.doc
	}
	return nil
}

// putWithTTL stores a document with a TTL, evicting the oldest entry if
// at capacity.
func (c *docCacheStore) putWithTTL(key string, doc *resolver.Document, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{doc: doc, insertAt: now, expiresAt: now.Add(ttl)}

	// If already cached, just update.
	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	// Evict oldest if at capacity.
	if len(c.entries) >= c.maxEntries {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *docCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes expired entries.
// It is safe to call multiple times; only the first call spawns a sweeper.
// It stops when ctx is cancelled.
func (c *docCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	var sweeping atomic.Bool
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !sweeping.CompareAndSwap(false, true) {
					continue
				}
				c.sweep()
				sweeping.Store(false)
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *docCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *docCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeCacheKey derives the cache key for a resolved location. An empty
// key disables caching for the call.
func makeCacheKey(location urimap.URI) string {
	switch {
	case location.IsFileURL():
		path, err := location.FilePath()
		if err != nil {
			return ""
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case location.IsHTTPURL():
		return fmt.Sprintf("url:%s", location.String())
	default:
		return ""
	}
}

// loadDocument loads uri through the catalog, consulting the document
// cache under the key of the resolved primary location. Resolution
// failures here are ignored; c.Load reports them properly.
func loadDocument(c *catalog.Catalog, uri string) (*resolver.Document, error) {
	var key string
	if cfg.CacheEnabled {
		if rd, err := c.Resolver().Resolve(uri); err == nil {
			key = makeCacheKey(rd.Location)
		}
	}

	if key != "" {
		if doc := docCache.get(key); doc != nil {
			return doc, nil
		}
	}

	doc, err := c.Load(uri)
	if err != nil {
		return nil, err
	}

	if key != "" {
		docCache.putWithTTL(key, doc, cfg.CacheTTL)
	}
	return doc, nil
}
