// Package oasresolve maps URIs to document locations for multi-document
// OpenAPI descriptions.
//
// An API description (APID) frequently spans several documents that refer to
// each other by URI. The URI a document is referenced by (its identity) and
// the URL its bytes are fetched from (its location) are distinct concepts,
// and conflating them breaks as soon as a description is validated somewhere
// other than where it is deployed. oasresolve keeps the two separate: you
// configure how identities map to locations once, then resolve each
// referenced URI to a concrete file path or network URL.
//
// # Overview
//
// The library consists of three primary packages:
//
//   - urimap: mapping configuration values (entries, prefix rules, suffix policies)
//   - resolver: URI-to-location resolution plus document loading and parsing
//   - catalog: an identity-keyed document set with initial-document selection
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/erraggy/oasresolve
//
// # Quick Start
//
// Resolve references against a local directory that mirrors a published URL
// space:
//
//	import "github.com/erraggy/oasresolve/resolver"
//
//	r, err := resolver.New(
//		resolver.WithDirectoryPrefix("./schemas", "https://example.com/api/"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	doc, err := r.Resolve("https://example.com/api/pets")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("load %s from %s\n", doc.Identity, doc.Location)
//
// Load a full document set and pick the entry point:
//
//	import "github.com/erraggy/oasresolve/catalog"
//
//	cat, err := catalog.New(
//		catalog.WithFileEntry("openapi.yaml", "", ""),
//		catalog.WithFileEntry("components.yaml", "", ""),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	initial, err := cat.Initial()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("entry point: %s\n", initial.Identity)
//
// # Urimap Package
//
// The urimap package holds the configuration vocabulary: location entries
// (identity URI, location URL, optional media type), prefix rules (URI prefix
// replaced by a directory or URL prefix), and suffix policies (ordered suffix
// lists used either to strip a suffix from a location when deriving its
// identity, or to try suffixes when deriving a location from an identity).
// It performs all syntactic validation: URIs must be absolute, URLs must be
// http or https, prefixes must end in a slash and carry no query or fragment,
// suffixes must be empty or start with a dot.
//
// # Resolver Package
//
// The resolver package answers "where do the bytes for this URI live?".
// Exact entries win over prefix rules; among prefix rules the longest
// matching prefix wins; directory rules test file existence for each suffix
// candidate while URL rules return the first candidate optimistically.
// Resolution itself never touches the network. The package also loads and
// parses resolved documents (JSON and YAML, with content sniffing for
// untyped sources) so callers get parsed content in one call when they
// want it.
//
// Example:
//
//	r, err := resolver.New(
//		resolver.WithFileEntry("./pets.json", "https://example.com/api/pets", ""),
//		resolver.WithURLPrefix("https://schemas.example.com/", "https://example.com/api/"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	doc, err := r.Load("https://example.com/api/pets")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%s (%s): %d bytes\n", doc.Identity, doc.Format, len(doc.Raw))
//
// # Catalog Package
//
// The catalog package composes a resolver with loaded-document bookkeeping.
// It memoizes loads by identity, rejects duplicate identities at
// construction, and selects the initial (entry-point) document: either the
// one explicitly designated, or the first configured file entry, then URL
// entry, whose parsed root carries a top-level "openapi" field. The fallback
// scan loads every candidate in the worst case, so explicit designation is
// preferred for large sets.
//
// # Command-Line Interface
//
// In addition to the library packages, oasresolve provides a command-line
// interface:
//
//	# Resolve URIs against a mapping configuration
//	oasresolve resolve -d "./schemas https://example.com/api/" https://example.com/api/pets
//
//	# Load one document and report what was found
//	oasresolve load -f "openapi.yaml https://example.com/api" https://example.com/api
//
//	# Determine the entry-point document
//	oasresolve initial -f openapi.yaml -f components.yaml
//
//	# Print the effective mapping configuration
//	oasresolve mappings -d ./schemas -p "https://cdn.example.com/s/ https://example.com/api/"
//
//	# Run the MCP server (for AI agent integration)
//	oasresolve mcp
//
// Install the CLI:
//
//	go install github.com/erraggy/oasresolve/cmd/oasresolve@latest
//
// # Error Handling
//
// All packages report failures through the oaserrors package: category
// sentinels (oaserrors.ErrUnresolvedURI, oaserrors.ErrDuplicateIdentity, ...)
// wrapped by typed errors carrying the offending URI, argument, or location.
// Use errors.Is to test for a category and errors.As to recover the detail:
//
//	doc, err := r.Resolve(target)
//	if errors.Is(err, oaserrors.ErrUnresolvedURI) {
//		// no entry or prefix rule covers target
//	}
//
// # Concurrency
//
// Resolver and Catalog are immutable after construction and safe for
// concurrent use. Configuration cannot be changed once built; create a new
// instance instead.
package oasresolve
