package urimap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasresolve/oaserrors"
)

func TestNewSuffixPolicy(t *testing.T) {
	tests := []struct {
		name     string
		suffixes []string
		wantErr  bool
	}{
		{name: "defaults", suffixes: []string{".json", ".yaml", ".yml"}},
		{name: "empty suffix allowed", suffixes: []string{"", ".json"}},
		{name: "no suffixes", suffixes: nil},
		{name: "missing leading dot", suffixes: []string{"json"}, wantErr: true},
		{name: "lone dot", suffixes: []string{"."}, wantErr: true},
		{name: "path separator", suffixes: []string{".a/b"}, wantErr: true},
		{name: "whitespace", suffixes: []string{". json"}, wantErr: true},
		{name: "invalid among valid", suffixes: []string{".json", "yaml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewSuffixPolicy(tt.suffixes...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, oaserrors.ErrInvalidSuffix))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.suffixes), len(p))
		})
	}
}

func TestSuffixPolicyStrip(t *testing.T) {
	tests := []struct {
		name       string
		policy     SuffixPolicy
		input      string
		want       string
		wantSuffix string
	}{
		{
			name:       "first matching suffix removed",
			policy:     SuffixPolicy{".json", ".yaml", ".yml"},
			input:      "file:///src/openapi.yaml",
			want:       "file:///src/openapi",
			wantSuffix: ".yaml",
		},
		{
			name:       "single application only",
			policy:     SuffixPolicy{".json"},
			input:      "file:///src/foo.json.json",
			want:       "file:///src/foo.json",
			wantSuffix: ".json",
		},
		{
			name:   "no suffix matches",
			policy: SuffixPolicy{".json", ".yaml"},
			input:  "file:///src/openapi.txt",
			want:   "file:///src/openapi.txt",
		},
		{
			name:   "empty suffix short-circuits",
			policy: SuffixPolicy{"", ".json"},
			input:  "file:///src/openapi.json",
			want:   "file:///src/openapi.json",
		},
		{
			name:       "empty suffix after match is unreachable",
			policy:     SuffixPolicy{".json", ""},
			input:      "file:///src/openapi.json",
			want:       "file:///src/openapi",
			wantSuffix: ".json",
		},
		{
			name:   "nil policy strips nothing",
			policy: nil,
			input:  "file:///src/openapi.json",
			want:   "file:///src/openapi.json",
		},
		{
			name:       "policy order wins over length",
			policy:     SuffixPolicy{".yml", ".yaml"},
			input:      "file:///src/a.yaml",
			want:       "file:///src/a",
			wantSuffix: ".yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, suffix := tt.policy.Strip(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSuffix, suffix)

			// Re-appending the removed suffix reconstructs the input.
			assert.Equal(t, tt.input, got+suffix)
		})
	}
}

func TestSuffixPolicyCandidates(t *testing.T) {
	t.Run("candidates in policy order", func(t *testing.T) {
		p := SuffixPolicy{"", ".json", ".yaml"}
		got := p.Candidates("https://example.com/api/pets")
		assert.Equal(t, []string{
			"https://example.com/api/pets",
			"https://example.com/api/pets.json",
			"https://example.com/api/pets.yaml",
		}, got)
	})

	t.Run("empty policy yields no candidates", func(t *testing.T) {
		var p SuffixPolicy
		assert.Empty(t, p.Candidates("https://example.com/x"))
	})
}

func TestSuffixPolicyClone(t *testing.T) {
	t.Run("clone is independent", func(t *testing.T) {
		p := SuffixPolicy{".json", ".yaml"}
		c := p.Clone()
		c[0] = ".yml"
		assert.Equal(t, ".json", p[0])
	})

	t.Run("nil clones to nil", func(t *testing.T) {
		var p SuffixPolicy
		assert.Nil(t, p.Clone())
	})
}

func TestDefaultPolicies(t *testing.T) {
	assert.Equal(t, SuffixPolicy{".json", ".yaml", ".yml"}, DefaultStripSuffixes())
	assert.Equal(t, SuffixPolicy{".json", ".yaml", ".yml"}, DefaultFileSuffixes())
	assert.Equal(t, SuffixPolicy{"", ".json", ".yaml", ".yml"}, DefaultURLSuffixes())

	t.Run("each call returns a fresh copy", func(t *testing.T) {
		a := DefaultStripSuffixes()
		a[0] = ".changed"
		assert.Equal(t, ".json", DefaultStripSuffixes()[0])
	})
}
