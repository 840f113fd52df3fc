// Package sharedtest provides test fixtures shared across oasresolve packages.
//
// Directory-rule tests need small filesystem trees (a handful of schema
// files under nested directories). Those trees are described inline as
// txtar archives and extracted into per-test temporary directories, which
// keeps the fixture next to the test that reads it.
package sharedtest

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

// ExtractTxtar parses archive as a txtar document and writes its files
// under a fresh temporary directory, creating intermediate directories as
// needed. Returns the directory root. The directory is cleaned up when
// the test completes (via t.TempDir).
func ExtractTxtar(t *testing.T, archive string) string {
	t.Helper()

	dir := t.TempDir()
	ar := txtar.Parse([]byte(archive))
	if len(ar.Files) == 0 {
		t.Fatal("txtar archive contains no files")
	}
	for _, f := range ar.Files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create fixture directory for %s: %v", f.Name, err)
		}
		if err := os.WriteFile(path, f.Data, 0o600); err != nil {
			t.Fatalf("Failed to write fixture %s: %v", f.Name, err)
		}
	}
	return dir
}

// WriteFile writes content to name under dir and returns the full path.
// Intermediate directories are created as needed.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// Minimal document fixtures used by selection and loading tests. The root
// document carries the top-level "openapi" marker field; the schema
// document deliberately does not.

// MinimalOASJSON is a minimal OpenAPI root document in JSON.
const MinimalOASJSON = `{
  "openapi": "3.1.0",
  "info": {"title": "Test API", "version": "1.0.0"},
  "paths": {}
}`

// MinimalOASYAML is a minimal OpenAPI root document in YAML.
const MinimalOASYAML = `openapi: "3.1.0"
info:
  title: Test API
  version: 1.0.0
paths: {}
`

// SchemaJSON is a standalone JSON Schema document without the OpenAPI
// root marker.
const SchemaJSON = `{
  "type": "object",
  "properties": {
    "id": {"type": "integer"},
    "name": {"type": "string"}
  }
}`

// SchemaYAML is a standalone YAML schema document without the OpenAPI
// root marker.
const SchemaYAML = `type: object
properties:
  id:
    type: integer
  name:
    type: string
`
