package resolver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasresolve/internal/sharedtest"
	"github.com/erraggy/oasresolve/oaserrors"
)

func TestLoadFileEntry(t *testing.T) {
	dir := t.TempDir()

	t.Run("json document", func(t *testing.T) {
		spec := sharedtest.WriteFile(t, dir, "openapi.json", sharedtest.MinimalOASJSON)
		r, err := New(WithFileEntry(spec, "https://example.com/api", ""))
		require.NoError(t, err)

		doc, err := r.Load("https://example.com/api")
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, doc.Format)
		assert.Equal(t, "application/json", doc.MediaType)
		assert.Equal(t, []byte(sharedtest.MinimalOASJSON), doc.Raw)

		root, ok := doc.Data.(map[string]any)
		require.True(t, ok, "parsed root should be a map, got %T", doc.Data)
		assert.Contains(t, root, "openapi")
	})

	t.Run("yaml document", func(t *testing.T) {
		spec := sharedtest.WriteFile(t, dir, "openapi.yaml", sharedtest.MinimalOASYAML)
		r, err := New(WithFileEntry(spec, "https://example.com/api-yaml", ""))
		require.NoError(t, err)

		doc, err := r.Load("https://example.com/api-yaml")
		require.NoError(t, err)
		assert.Equal(t, FormatYAML, doc.Format)
		assert.Equal(t, "application/yaml", doc.MediaType)

		root, ok := doc.Data.(map[string]any)
		require.True(t, ok, "parsed root should be a map, got %T", doc.Data)
		assert.Contains(t, root, "openapi")
	})

	t.Run("missing file fails directly", func(t *testing.T) {
		r, err := New(WithFileEntry(dir+"/gone.yaml", "https://example.com/gone", ""))
		require.NoError(t, err)

		_, err = r.Load("https://example.com/gone")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrLoad))

		var loadErr *oaserrors.LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Zero(t, loadErr.StatusCode)
	})

	t.Run("malformed json fails with a parse error", func(t *testing.T) {
		bad := sharedtest.WriteFile(t, dir, "bad.json", `{"openapi": `)
		r, err := New(WithFileEntry(bad, "https://example.com/bad", ""))
		require.NoError(t, err)

		_, err = r.Load("https://example.com/bad")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrParse))
	})
}

func TestLoadDirectoryRule(t *testing.T) {
	dir := sharedtest.ExtractTxtar(t, `
-- schemas/pet.yaml --
type: object
properties:
  name:
    type: string
-- plain/noext --
{"type": "string"}
`)

	r, err := New(WithDirectoryPrefix(dir, "https://example.com/"))
	require.NoError(t, err)

	t.Run("yaml candidate found and parsed", func(t *testing.T) {
		doc, err := r.Load("https://example.com/schemas/pet")
		require.NoError(t, err)
		assert.Equal(t, FormatYAML, doc.Format)
		assert.Equal(t, SourceDirectory, doc.Source)

		root, ok := doc.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "object", root["type"])
	})

	t.Run("suffix-less file sniffed as json", func(t *testing.T) {
		r2, err := New(
			WithDirectoryPrefix(dir, "https://example.com/"),
			WithFileSuffixes(""),
		)
		require.NoError(t, err)

		doc, err := r2.Load("https://example.com/plain/noext")
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, doc.Format)
		assert.Equal(t, "application/json", doc.MediaType)
	})
}

func TestLoadURLRule(t *testing.T) {
	// Serve pet.json only; the bare candidate and the yaml variants 404.
	mux := http.NewServeMux()
	mux.HandleFunc("/schemas/pet.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sharedtest.SchemaJSON))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Run("fetches candidates until one succeeds", func(t *testing.T) {
		r, err := New(WithURLPrefix(srv.URL+"/schemas/", "https://example.com/api/"))
		require.NoError(t, err)

		doc, err := r.Load("https://example.com/api/pet")
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/schemas/pet.json", doc.Location.String())
		assert.Equal(t, FormatJSON, doc.Format)
		assert.Equal(t, SourceURL, doc.Source)
	})

	t.Run("exhausting every candidate reports the tried list", func(t *testing.T) {
		r, err := New(WithURLPrefix(srv.URL+"/schemas/", "https://example.com/api/"))
		require.NoError(t, err)

		_, err = r.Load("https://example.com/api/missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrUnresolvedURI))
		assert.True(t, errors.Is(err, oaserrors.ErrLoad), "should wrap the last fetch failure")

		var resErr *oaserrors.ResolutionError
		require.True(t, errors.As(err, &resErr))
		assert.Len(t, resErr.Tried, 4)
	})
}

func TestLoadURLEntry(t *testing.T) {
	var gotUserAgent string
	mux := http.NewServeMux()
	mux.HandleFunc("/api.yaml", func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(sharedtest.MinimalOASYAML))
	})
	mux.HandleFunc("/untyped", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(sharedtest.SchemaYAML))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Run("fetch and parse", func(t *testing.T) {
		r, err := New(WithURLEntry(srv.URL+"/api.yaml", "https://example.com/api", ""))
		require.NoError(t, err)

		doc, err := r.Load("https://example.com/api")
		require.NoError(t, err)
		assert.Equal(t, FormatYAML, doc.Format)
		assert.True(t, strings.HasPrefix(gotUserAgent, "oasresolve/"), "got User-Agent %q", gotUserAgent)
	})

	t.Run("custom user agent", func(t *testing.T) {
		r, err := New(
			WithURLEntry(srv.URL+"/api.yaml", "https://example.com/api", ""),
			WithUserAgent("mytool/1.0"),
		)
		require.NoError(t, err)

		_, err = r.Load("https://example.com/api")
		require.NoError(t, err)
		assert.Equal(t, "mytool/1.0", gotUserAgent)
	})

	t.Run("content type drives format for suffix-less locations", func(t *testing.T) {
		r, err := New(WithURLEntry(srv.URL+"/untyped", "https://example.com/untyped", ""))
		require.NoError(t, err)

		doc, err := r.Load("https://example.com/untyped")
		require.NoError(t, err)
		assert.Equal(t, FormatYAML, doc.Format)
		assert.Equal(t, "application/yaml", doc.MediaType)
	})

	t.Run("non-200 status fails directly with the status code", func(t *testing.T) {
		r, err := New(WithURLEntry(srv.URL+"/nope.yaml", "https://example.com/nope", ""))
		require.NoError(t, err)

		_, err = r.Load("https://example.com/nope")
		require.Error(t, err)

		var loadErr *oaserrors.LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, http.StatusNotFound, loadErr.StatusCode)
	})
}

func TestLoadWithCustomHTTPClient(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(sharedtest.SchemaJSON))
	}))
	defer srv.Close()

	transportUsed := false
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			transportUsed = true
			return http.DefaultTransport.RoundTrip(req)
		}),
	}

	r, err := New(
		WithURLEntry(srv.URL+"/doc.json", "https://example.com/doc", ""),
		WithHTTPClient(client),
	)
	require.NoError(t, err)

	_, err = r.Load("https://example.com/doc")
	require.NoError(t, err)
	assert.True(t, transportUsed)
	assert.Equal(t, 1, requests)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestLoadWithPerCallOptions(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(sharedtest.SchemaJSON))
	}))
	defer srv.Close()

	r, err := New(WithURLEntry(srv.URL+"/doc.json", "https://example.com/doc", ""))
	require.NoError(t, err)

	t.Run("fetch settings override a single load", func(t *testing.T) {
		_, err := r.LoadWithOptions("https://example.com/doc", WithUserAgent("onecall/2.0"))
		require.NoError(t, err)
		assert.Equal(t, "onecall/2.0", gotUserAgent)

		// The resolver's own settings survive the call.
		_, err = r.Load("https://example.com/doc")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(gotUserAgent, "oasresolve/"), "got User-Agent %q", gotUserAgent)
	})

	t.Run("no options behaves as Load", func(t *testing.T) {
		doc, err := r.LoadWithOptions("https://example.com/doc")
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, doc.Format)
	})

	t.Run("mapping options rejected per load", func(t *testing.T) {
		_, err := r.LoadWithOptions("https://example.com/doc",
			WithURLPrefix("https://cdn.example.com/", "https://example.com/api/"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrConfig))
	})
}

func TestDocumentHasOpenAPIMarker(t *testing.T) {
	tests := []struct {
		name string
		data any
		want bool
	}{
		{"mapping with openapi", map[string]any{"openapi": "3.1.0"}, true},
		{"mapping without openapi", map[string]any{"swagger": "2.0"}, false},
		{"sequence root", []any{"openapi"}, false},
		{"scalar root", "openapi", false},
		{"nil root", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Data: tt.data}
			assert.Equal(t, tt.want, doc.HasOpenAPIMarker())
		})
	}
}
