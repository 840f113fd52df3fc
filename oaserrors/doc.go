// Package oaserrors provides structured error types for the oasresolve library.
//
// Import path: github.com/erraggy/oasresolve/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// # Error Types
//
// The package provides six core error types:
//
//   - [MappingError]: invalid mapping configuration (URIs, prefixes, suffixes,
//     media types, duplicate identities)
//   - [ResolutionError]: URI resolution failures (no matching entry or rule,
//     ambiguous prefixes)
//   - [SelectionError]: initial-document selection failures
//   - [LoadError]: file read and HTTP fetch failures
//   - [ParseError]: JSON/YAML parsing failures
//   - [ConfigError]: invalid options or conflicting settings
//
// # Sentinel Errors
//
// Each error type has one or more corresponding sentinel errors for use with
// errors.Is():
//
//   - [ErrMapping]: Matches any [MappingError]
//   - [ErrInvalidURI]: Matches [MappingError] with Kind=ErrInvalidURI
//   - [ErrInvalidPrefix]: Matches [MappingError] with Kind=ErrInvalidPrefix
//   - [ErrInvalidSuffix]: Matches [MappingError] with Kind=ErrInvalidSuffix
//   - [ErrInvalidMediaType]: Matches [MappingError] with Kind=ErrInvalidMediaType
//   - [ErrDuplicateIdentity]: Matches [MappingError] with Kind=ErrDuplicateIdentity
//   - [ErrResolution]: Matches any [ResolutionError]
//   - [ErrUnresolvedURI]: Matches [ResolutionError] with IsAmbiguous=false
//   - [ErrAmbiguousPrefix]: Matches [ResolutionError] with IsAmbiguous=true
//   - [ErrSelection]: Matches any [SelectionError]
//   - [ErrNoInitialDocument]: Matches [SelectionError] with IsExhausted=true
//   - [ErrLoad]: Matches any [LoadError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
// Check error category with errors.Is():
//
//	doc, err := r.Resolve("https://example.com/api/pets")
//	if errors.Is(err, oaserrors.ErrUnresolvedURI) {
//	    // No entry or prefix rule covers the URI
//	}
//
// Extract error details with errors.As():
//
//	var mapErr *oaserrors.MappingError
//	if errors.As(err, &mapErr) {
//	    fmt.Printf("bad %s value %q: %s\n", mapErr.Argument, mapErr.Value, mapErr.Message)
//	}
//
// Check for specific conditions:
//
//	if errors.Is(err, oaserrors.ErrDuplicateIdentity) {
//	    // Two entries claim the same URI - fix the configuration
//	}
//	if errors.Is(err, oaserrors.ErrNoInitialDocument) {
//	    // The fallback scan found no document with an "openapi" field
//	}
//
// # Error Chaining
//
// All error types support error chaining via the Cause field and Unwrap() method.
// This allows finding root causes through the standard error chain:
//
//	var loadErr *oaserrors.LoadError
//	if errors.As(err, &loadErr) {
//	    if errors.Is(loadErr.Cause, os.ErrNotExist) {
//	        // The resolved file doesn't exist
//	    }
//	}
package oaserrors
