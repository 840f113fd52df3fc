package catalog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasresolve/internal/sharedtest"
	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/urimap"
)

func TestInitialDesignated(t *testing.T) {
	dir := t.TempDir()
	root := sharedtest.WriteFile(t, dir, "openapi.yaml", sharedtest.MinimalOASYAML)
	schema := sharedtest.WriteFile(t, dir, "schema.yaml", sharedtest.SchemaYAML)

	t.Run("designated file entry is loaded and returned", func(t *testing.T) {
		c, err := New(
			WithFileEntry(schema, "https://example.com/schema", ""),
			WithInitialDocument(root, "https://example.com/api"),
		)
		require.NoError(t, err)

		id, ok := c.InitialIdentity()
		require.True(t, ok)
		assert.Equal(t, "https://example.com/api", id.String())

		doc, err := c.Initial()
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/api", doc.Identity.String())
	})

	t.Run("identity derived by suffix stripping when no uri given", func(t *testing.T) {
		c, err := New(WithInitialDocument(root, ""))
		require.NoError(t, err)

		id, ok := c.InitialIdentity()
		require.True(t, ok)
		u, err := urimap.FromPath(filepath.Join(dir, "openapi"))
		require.NoError(t, err)
		assert.Equal(t, u.String(), id.String())

		_, err = c.Initial()
		require.NoError(t, err)
	})

	t.Run("designated url entry", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(sharedtest.MinimalOASJSON))
		}))
		defer srv.Close()

		c, err := New(WithInitialDocument(srv.URL+"/openapi.json", "https://example.com/api"))
		require.NoError(t, err)

		doc, err := c.Initial()
		require.NoError(t, err)
		require.Len(t, c.Entries(), 1)
		assert.True(t, c.Entries()[0].Location.IsHTTPURL())
		assert.Equal(t, "https://example.com/api", doc.Identity.String())
	})

	t.Run("missing marker field fails", func(t *testing.T) {
		c, err := New(WithInitialDocument(schema, "https://example.com/api"))
		require.NoError(t, err)

		_, err = c.Initial()
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrSelection))
		assert.False(t, errors.Is(err, oaserrors.ErrNoInitialDocument))
		assert.Contains(t, err.Error(), `must contain "openapi"`)
	})

	t.Run("unloadable designation fails with the load error", func(t *testing.T) {
		c, err := New(WithInitialDocument(filepath.Join(dir, "gone.yaml"), "https://example.com/api"))
		require.NoError(t, err)

		_, err = c.Initial()
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrSelection))
		assert.True(t, errors.Is(err, oaserrors.ErrLoad))
	})

	t.Run("second designation rejected", func(t *testing.T) {
		_, err := New(
			WithInitialDocument(root, "https://example.com/api"),
			WithInitialDocument(schema, "https://example.com/schema"),
		)
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrConfig))
	})
}

func TestInitialScan(t *testing.T) {
	newServer := func(t *testing.T, body string) *httptest.Server {
		t.Helper()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		t.Cleanup(srv.Close)
		return srv
	}

	t.Run("first file entry with the marker wins", func(t *testing.T) {
		dir := t.TempDir()
		schema := sharedtest.WriteFile(t, dir, "schema.yaml", sharedtest.SchemaYAML)
		root := sharedtest.WriteFile(t, dir, "openapi.yaml", sharedtest.MinimalOASYAML)
		other := sharedtest.WriteFile(t, dir, "other.json", sharedtest.MinimalOASJSON)

		c, err := New(
			WithFileEntry(schema, "https://example.com/schema", ""),
			WithFileEntry(root, "https://example.com/api", ""),
			WithFileEntry(other, "https://example.com/other", ""),
		)
		require.NoError(t, err)

		doc, err := c.Initial()
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/api", doc.Identity.String())
	})

	t.Run("file entries scanned before url entries", func(t *testing.T) {
		srv := newServer(t, sharedtest.MinimalOASJSON)
		dir := t.TempDir()
		root := sharedtest.WriteFile(t, dir, "openapi.yaml", sharedtest.MinimalOASYAML)

		// The URL entry comes first in configuration order; the file
		// entry must still win the scan.
		c, err := New(
			WithURLEntry(srv.URL+"/api.json", "https://example.com/remote", ""),
			WithFileEntry(root, "https://example.com/local", ""),
		)
		require.NoError(t, err)

		doc, err := c.Initial()
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/local", doc.Identity.String())
	})

	t.Run("url entries scanned when no file carries the marker", func(t *testing.T) {
		srv := newServer(t, sharedtest.MinimalOASJSON)
		dir := t.TempDir()
		schema := sharedtest.WriteFile(t, dir, "schema.yaml", sharedtest.SchemaYAML)

		c, err := New(
			WithFileEntry(schema, "https://example.com/schema", ""),
			WithURLEntry(srv.URL+"/api.json", "https://example.com/remote", ""),
		)
		require.NoError(t, err)

		doc, err := c.Initial()
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/remote", doc.Identity.String())
	})

	t.Run("warn logged when the scan begins", func(t *testing.T) {
		dir := t.TempDir()
		root := sharedtest.WriteFile(t, dir, "openapi.yaml", sharedtest.MinimalOASYAML)
		logger := &captureLogger{}

		c, err := New(
			WithFileEntry(root, "https://example.com/api", ""),
			WithLogger(logger),
		)
		require.NoError(t, err)

		_, err = c.Initial()
		require.NoError(t, err)
		assert.True(t, logger.contains("WARN no initial document designated"),
			"records: %v", logger.records)
	})

	t.Run("exhausted scan fails with the scanned count", func(t *testing.T) {
		dir := t.TempDir()
		a := sharedtest.WriteFile(t, dir, "a.yaml", sharedtest.SchemaYAML)
		b := sharedtest.WriteFile(t, dir, "b.json", sharedtest.SchemaJSON)

		c, err := New(
			WithFileEntry(a, "https://example.com/a", ""),
			WithFileEntry(b, "https://example.com/b", ""),
		)
		require.NoError(t, err)

		_, err = c.Initial()
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrNoInitialDocument))
		assert.True(t, errors.Is(err, oaserrors.ErrSelection))

		var selErr *oaserrors.SelectionError
		require.True(t, errors.As(err, &selErr))
		assert.Equal(t, 2, selErr.Scanned)
		assert.True(t, selErr.IsExhausted)
	})

	t.Run("no entries at all", func(t *testing.T) {
		c, err := New()
		require.NoError(t, err)

		_, err = c.Initial()
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrNoInitialDocument))
	})

	t.Run("candidate load failure aborts the scan", func(t *testing.T) {
		dir := t.TempDir()
		missing := filepath.Join(dir, "missing.yaml")
		root := sharedtest.WriteFile(t, dir, "openapi.yaml", sharedtest.MinimalOASYAML)

		c, err := New(
			WithFileEntry(missing, "https://example.com/missing", ""),
			WithFileEntry(root, "https://example.com/api", ""),
		)
		require.NoError(t, err)

		_, err = c.Initial()
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrSelection))
		assert.True(t, errors.Is(err, oaserrors.ErrLoad))
		assert.False(t, errors.Is(err, oaserrors.ErrNoInitialDocument))
	})

	t.Run("scalar roots do not carry the marker", func(t *testing.T) {
		dir := t.TempDir()
		scalar := sharedtest.WriteFile(t, dir, "scalar.yaml", "just a string\n")

		c, err := New(WithFileEntry(scalar, "https://example.com/scalar", ""))
		require.NoError(t, err)

		_, err = c.Initial()
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrNoInitialDocument))
	})
}
