// Package oaserrors provides structured error types for oasresolve.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - MappingError: invalid mapping configuration (URIs, prefixes, suffixes, duplicates)
//   - ResolutionError: URI resolution failures (unresolved, ambiguous)
//   - SelectionError: initial-document selection failures
//   - LoadError: file read and HTTP fetch failures
//   - ParseError: JSON/YAML parsing failures
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.Is
//
//	doc, err := r.Resolve(target)
//	if err != nil {
//	    var resErr *oaserrors.ResolutionError
//	    if errors.As(err, &resErr) {
//	        if resErr.IsAmbiguous {
//	            // Handle conflicting prefix rules specifically
//	        }
//	    }
//	}
package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrMapping indicates an invalid mapping configuration value.
	ErrMapping = errors.New("mapping error")

	// ErrInvalidURI indicates a malformed or relative URI.
	ErrInvalidURI = errors.New("invalid URI")

	// ErrInvalidPrefix indicates a malformed URI or location prefix.
	ErrInvalidPrefix = errors.New("invalid prefix")

	// ErrInvalidSuffix indicates a malformed suffix policy value.
	ErrInvalidSuffix = errors.New("invalid suffix")

	// ErrInvalidMediaType indicates an unrecognized media type value.
	ErrInvalidMediaType = errors.New("invalid media type")

	// ErrDuplicateIdentity indicates two entries claim the same URI.
	ErrDuplicateIdentity = errors.New("duplicate identity")

	// ErrResolution indicates a URI resolution failure.
	ErrResolution = errors.New("resolution error")

	// ErrUnresolvedURI indicates no entry or prefix rule covers a URI.
	ErrUnresolvedURI = errors.New("unresolved URI")

	// ErrAmbiguousPrefix indicates conflicting prefix rules for a URI.
	ErrAmbiguousPrefix = errors.New("ambiguous prefix")

	// ErrSelection indicates an initial-document selection failure.
	ErrSelection = errors.New("selection error")

	// ErrNoInitialDocument indicates the candidate scan found no entry point.
	ErrNoInitialDocument = errors.New("no initial document")

	// ErrLoad indicates a document load failure.
	ErrLoad = errors.New("load error")

	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// MappingError represents an invalid mapping configuration value.
// This covers malformed URIs, prefixes without trailing slashes, bad suffix
// strings, unrecognized media types, and duplicate identities.
type MappingError struct {
	// Argument names the configuration input at fault (e.g. "file", "directory")
	Argument string
	// Value is the offending input value
	Value string
	// Kind is the specific sentinel this error matches in addition to
	// ErrMapping: ErrInvalidURI, ErrInvalidPrefix, ErrInvalidSuffix,
	// ErrInvalidMediaType, or ErrDuplicateIdentity
	Kind error
	// Message describes the violation
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *MappingError) Error() string {
	msg := "mapping error"
	if e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Argument != "" {
		msg += " for " + e.Argument
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" (value: %q)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *MappingError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrMapping, and also the specific Kind sentinel when set.
func (e *MappingError) Is(target error) bool {
	if target == ErrMapping {
		return true
	}
	return e.Kind != nil && target == e.Kind
}

// ResolutionError represents a failure to resolve a URI to a location.
type ResolutionError struct {
	// URI is the target URI that failed to resolve
	URI string
	// Tried lists the candidate locations that were tested, if any
	Tried []string
	// IsAmbiguous is true if conflicting prefix rules matched the URI
	IsAmbiguous bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ResolutionError) Error() string {
	msg := "unresolved URI"
	if e.IsAmbiguous {
		msg = "ambiguous prefix"
	}
	if e.URI != "" {
		msg += ": " + e.URI
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if len(e.Tried) > 0 {
		msg += fmt.Sprintf(" (tried %v)", e.Tried)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrResolution, and either ErrUnresolvedURI or ErrAmbiguousPrefix
// depending on IsAmbiguous.
func (e *ResolutionError) Is(target error) bool {
	if target == ErrResolution {
		return true
	}
	if target == ErrAmbiguousPrefix && e.IsAmbiguous {
		return true
	}
	if target == ErrUnresolvedURI && !e.IsAmbiguous {
		return true
	}
	return false
}

// SelectionError represents a failure to determine the initial document.
type SelectionError struct {
	// URI identifies the explicitly designated document, if one was given
	URI string
	// Scanned is the number of candidates inspected before giving up
	Scanned int
	// IsExhausted is true if the fallback scan ran out of candidates
	IsExhausted bool
	// Message describes the selection failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SelectionError) Error() string {
	msg := "selection error"
	if e.IsExhausted {
		msg = "no initial document"
	}
	if e.URI != "" {
		msg += ": " + e.URI
	}
	if e.Scanned > 0 {
		msg += fmt.Sprintf(" (scanned %d candidates)", e.Scanned)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SelectionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrSelection, and also ErrNoInitialDocument when the candidate
// scan was exhausted.
func (e *SelectionError) Is(target error) bool {
	if target == ErrSelection {
		return true
	}
	return target == ErrNoInitialDocument && e.IsExhausted
}

// LoadError represents a failure to load document bytes from a location.
// This includes file read errors and HTTP fetch failures.
type LoadError struct {
	// Location is the file path or URL that failed to load
	Location string
	// StatusCode is the HTTP status code, if the load was an HTTP fetch (0 otherwise)
	StatusCode int
	// Message describes the load failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *LoadError) Error() string {
	msg := "load error"
	if e.Location != "" {
		msg += " from " + e.Location
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// ParseError represents a failure to parse loaded document content.
// This includes JSON/YAML deserialization errors.
type ParseError struct {
	// Location is the file path, URL, or source identifier
	Location string
	// Format is the format the content was parsed as ("json", "yaml", or "" if unknown)
	Format string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Location != "" {
		msg += " in " + e.Location
	}
	if e.Format != "" {
		msg += " as " + e.Format
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
