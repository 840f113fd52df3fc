package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasresolve/internal/sharedtest"
	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/resolver"
	"github.com/erraggy/oasresolve/urimap"
)

func TestMappingInput_BuildCatalog(t *testing.T) {
	dir := t.TempDir()
	spec := sharedtest.WriteFile(t, dir, "openapi.yaml", sharedtest.MinimalOASYAML)

	t.Run("entries and rules", func(t *testing.T) {
		m := mappingInput{
			Files:       []string{spec + " https://example.com/api/openapi"},
			Directories: []string{dir + " https://example.com/api/schemas/"},
			URLPrefixes: []string{"https://cdn.example.com/ https://example.com/api/"},
			Strict:      true,
		}
		c, err := m.buildCatalog()
		require.NoError(t, err)
		assert.Len(t, c.Entries(), 1)
		assert.Len(t, c.Prefixes(), 2)
	})

	t.Run("initial designation", func(t *testing.T) {
		m := mappingInput{Initial: spec + " https://example.com/api/openapi"}
		c, err := m.buildCatalog()
		require.NoError(t, err)

		id, ok := c.InitialIdentity()
		require.True(t, ok)
		assert.Equal(t, "https://example.com/api/openapi", id.String())
	})

	t.Run("suffix policies", func(t *testing.T) {
		m := mappingInput{
			Directories:  []string{dir},
			FileSuffixes: []string{".yaml"},
			URLSuffixes:  []string{"", ".json"},
		}
		c, err := m.buildCatalog()
		require.NoError(t, err)
		assert.Equal(t, urimap.SuffixPolicy{".yaml"}, c.Resolver().FileSuffixes())
		assert.Equal(t, urimap.SuffixPolicy{"", ".json"}, c.Resolver().URLSuffixes())
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		tests := []struct {
			name string
			m    mappingInput
		}{
			{"file entry with too many fields", mappingInput{Files: []string{"a b c d"}}},
			{"initial with media type", mappingInput{Initial: spec + " https://example.com/x application/yaml"}},
			{"non-http url entry", mappingInput{URLs: []string{"ftp://example.com/doc.yaml"}}},
			{"bare-word strip suffix", mappingInput{Directories: []string{dir}, StripSuffixes: []string{"json"}}},
			{"url prefix without trailing slash", mappingInput{URLPrefixes: []string{"https://cdn.example.com/specs"}}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := tt.m.buildCatalog()
				require.Error(t, err)
				assert.ErrorIs(t, err, oaserrors.ErrMapping)
			})
		}
	})
}

func TestDocCache_HitOnSameLocation(t *testing.T) {
	docCache.reset()
	dir := t.TempDir()
	spec := sharedtest.WriteFile(t, dir, "openapi.json", sharedtest.MinimalOASJSON)
	m := mappingInput{Files: []string{spec + " https://example.com/api/openapi"}}

	c1, err := m.buildCatalog()
	require.NoError(t, err)
	doc1, err := loadDocument(c1, "https://example.com/api/openapi")
	require.NoError(t, err)
	assert.Equal(t, 1, docCache.size())

	// A fresh catalog with the same mapping resolves to the same location,
	// so the session cache serves the same document.
	c2, err := m.buildCatalog()
	require.NoError(t, err)
	doc2, err := loadDocument(c2, "https://example.com/api/openapi")
	require.NoError(t, err)
	assert.Same(t, doc1, doc2, "expected same pointer from cache hit")
}

func TestDocCache_MissOnModifiedFile(t *testing.T) {
	docCache.reset()
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openapi: 3.1.0\ninfo:\n  title: V1\n"), 0o600))

	m := mappingInput{Files: []string{path + " https://example.com/api/openapi"}}

	c1, err := m.buildCatalog()
	require.NoError(t, err)
	doc1, err := loadDocument(c1, "https://example.com/api/openapi")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("openapi: 3.1.0\ninfo:\n  title: V2\n"), 0o600))
	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	c2, err := m.buildCatalog()
	require.NoError(t, err)
	doc2, err := loadDocument(c2, "https://example.com/api/openapi")
	require.NoError(t, err)

	// The mtime change makes a different key, so this is a fresh load.
	assert.NotSame(t, doc1, doc2)
	root, ok := doc2.Data.(map[string]any)
	require.True(t, ok)
	info, ok := root["info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "V2", info["title"])
}

func TestDocCache_LRUEviction(t *testing.T) {
	docCache.reset()
	dir := t.TempDir()

	// Build one catalog mapping 11 files into a cache of size 10.
	var m mappingInput
	for i := range 11 {
		path := sharedtest.WriteFile(t, dir, fmt.Sprintf("doc-%c.json", 'a'+i), sharedtest.MinimalOASJSON)
		m.Files = append(m.Files, path)
	}
	c, err := m.buildCatalog()
	require.NoError(t, err)

	entries := c.Entries()
	require.Len(t, entries, 11)
	firstKey := makeCacheKey(entries[0].Location)
	require.NotEmpty(t, firstKey)

	for _, e := range entries {
		_, err := loadDocument(c, e.Identity.String())
		require.NoError(t, err)
	}

	// Cache should not exceed max size.
	assert.Equal(t, 10, docCache.size())

	// The first entry (oldest) should have been evicted.
	assert.Nil(t, docCache.get(firstKey), "expected oldest entry to be evicted")
}

func TestDocCache_SweepRemovesExpired(t *testing.T) {
	docCache.reset()
	doc := &resolver.Document{}
	docCache.putWithTTL("url:https://example.com/a", doc, time.Nanosecond)
	docCache.putWithTTL("url:https://example.com/b", doc, time.Hour)
	time.Sleep(5 * time.Millisecond)

	docCache.sweep()
	assert.Equal(t, 1, docCache.size())
	assert.Nil(t, docCache.get("url:https://example.com/a"))
	assert.NotNil(t, docCache.get("url:https://example.com/b"))
}

func TestLoadDocument_CacheDisabled(t *testing.T) {
	docCache.reset()
	orig := cfg.CacheEnabled
	cfg.CacheEnabled = false
	t.Cleanup(func() { cfg.CacheEnabled = orig })

	dir := t.TempDir()
	spec := sharedtest.WriteFile(t, dir, "openapi.json", sharedtest.MinimalOASJSON)
	m := mappingInput{Files: []string{spec + " https://example.com/api/openapi"}}

	c1, err := m.buildCatalog()
	require.NoError(t, err)
	doc1, err := loadDocument(c1, "https://example.com/api/openapi")
	require.NoError(t, err)

	c2, err := m.buildCatalog()
	require.NoError(t, err)
	doc2, err := loadDocument(c2, "https://example.com/api/openapi")
	require.NoError(t, err)

	assert.NotSame(t, doc1, doc2)
	assert.Zero(t, docCache.size())
}

func TestMakeCacheKey(t *testing.T) {
	t.Run("file location keys on path and mtime", func(t *testing.T) {
		dir := t.TempDir()
		path := sharedtest.WriteFile(t, dir, "spec.json", sharedtest.MinimalOASJSON)
		loc, err := urimap.FromPath(path)
		require.NoError(t, err)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("file:%s:%d", path, info.ModTime().UnixNano()), makeCacheKey(loc))
	})

	t.Run("missing file is not cacheable", func(t *testing.T) {
		loc, err := urimap.FromPath(filepath.Join(t.TempDir(), "gone.json"))
		require.NoError(t, err)
		assert.Empty(t, makeCacheKey(loc))
	})

	t.Run("url location keys on the url", func(t *testing.T) {
		loc, err := urimap.Parse("https://example.com/api/openapi.json")
		require.NoError(t, err)
		assert.Equal(t, "url:https://example.com/api/openapi.json", makeCacheKey(loc))
	})

	t.Run("zero location is not cacheable", func(t *testing.T) {
		assert.Empty(t, makeCacheKey(urimap.URI{}))
	})
}
