package urimap

import (
	"strings"

	"github.com/erraggy/oasresolve/oaserrors"
)

// SuffixPolicy is an ordered list of filename/URL suffixes. The same type
// serves two distinct purposes that must not be conflated:
//
//   - stripping ([SuffixPolicy.Strip]): applied once to a location string to
//     derive an identity, removing at most one suffix;
//   - trial ([SuffixPolicy.Candidates]): applied when deriving a location
//     from an identity through a prefix rule, producing one candidate per
//     suffix in order.
//
// Each suffix must be empty or start with '.'. The empty suffix means "use
// the string as-is": during stripping it short-circuits with the input
// unchanged, and as a trial candidate it appends nothing.
type SuffixPolicy []string

// Default policies. Each call returns a fresh copy so callers can append
// without aliasing.

// DefaultStripSuffixes returns the default stripping policy used to derive
// identities from locations lacking an explicit URI.
func DefaultStripSuffixes() SuffixPolicy {
	return SuffixPolicy{".json", ".yaml", ".yml"}
}

// DefaultFileSuffixes returns the default trial policy for directory prefix
// rules.
func DefaultFileSuffixes() SuffixPolicy {
	return SuffixPolicy{".json", ".yaml", ".yml"}
}

// DefaultURLSuffixes returns the default trial policy for URL prefix rules.
// The leading empty suffix tries the URL exactly as derived before any
// suffixed variants.
func DefaultURLSuffixes() SuffixPolicy {
	return SuffixPolicy{"", ".json", ".yaml", ".yml"}
}

// NewSuffixPolicy validates each suffix and returns the policy.
func NewSuffixPolicy(suffixes ...string) (SuffixPolicy, error) {
	p := make(SuffixPolicy, 0, len(suffixes))
	for _, s := range suffixes {
		if err := validateSuffix(s); err != nil {
			return nil, err
		}
		p = append(p, s)
	}
	return p, nil
}

func validateSuffix(s string) error {
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, ".") || len(s) == 1 {
		return &oaserrors.MappingError{
			Kind:    oaserrors.ErrInvalidSuffix,
			Value:   s,
			Message: "must be empty or start with '.' followed by at least one character",
		}
	}
	if strings.ContainsAny(s, "/ \t") {
		return &oaserrors.MappingError{
			Kind:    oaserrors.ErrInvalidSuffix,
			Value:   s,
			Message: "must not contain path separators or whitespace",
		}
	}
	return nil
}

// Strip removes at most one suffix from s, trying each policy entry in
// order. The first matching suffix is removed; an empty suffix in the
// policy short-circuits, leaving s unchanged. The removed suffix is
// returned alongside the result so that appending it reconstructs s.
func (p SuffixPolicy) Strip(s string) (stripped, suffix string) {
	for _, suf := range p {
		if suf == "" {
			return s, ""
		}
		if strings.HasSuffix(s, suf) {
			return s[:len(s)-len(suf)], suf
		}
	}
	return s, ""
}

// Candidates returns base with each policy suffix appended, in order.
func (p SuffixPolicy) Candidates(base string) []string {
	out := make([]string, 0, len(p))
	for _, suf := range p {
		out = append(out, base+suf)
	}
	return out
}

// Clone returns an independent copy of the policy.
func (p SuffixPolicy) Clone() SuffixPolicy {
	if p == nil {
		return nil
	}
	out := make(SuffixPolicy, len(p))
	copy(out, p)
	return out
}
