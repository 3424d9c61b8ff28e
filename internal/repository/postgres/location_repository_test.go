package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/place-directory/internal/domain"
)

func TestPrefixTSQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single term",
			input:    "coffee",
			expected: "coffee:*",
		},
		{
			name:     "multiple terms combine with AND",
			input:    "coffee evanston",
			expected: "coffee:* & evanston:*",
		},
		{
			name:     "tsquery operators are stripped",
			input:    "coffee & (tea|juice)",
			expected: "coffee:* & tea:* & juice:*",
		},
		{
			name:     "commas treated as separators",
			input:    "davis st, evanston",
			expected: "davis:* & st:* & evanston:*",
		},
		{
			name:     "zip prefix stays searchable",
			input:    "60201",
			expected: "60201:*",
		},
		{
			name:     "operators only reduce to empty",
			input:    "&&&",
			expected: "",
		},
		{
			name:     "mixed punctuation reduces to empty",
			input:    "(!!)",
			expected: "",
		},
		{
			name:     "whitespace only reduces to empty",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, prefixTSQuery(tt.input))
		})
	}
}

func TestBuildFilterQuery(t *testing.T) {
	t.Run("operator-only query binds no tsquery predicate", func(t *testing.T) {
		query, args := buildFilterQuery(domain.LocationFilter{Query: "&&&"})

		assert.NotContains(t, query, "to_tsquery")
		assert.Empty(t, args)
	})

	t.Run("searchable query binds the tsquery predicate", func(t *testing.T) {
		query, args := buildFilterQuery(domain.LocationFilter{Query: "coffee"})

		assert.Contains(t, query, "to_tsquery('simple', $1)")
		assert.Equal(t, []interface{}{"coffee:*"}, args)
	})

	t.Run("feature filter deduplicates joined rows", func(t *testing.T) {
		query, _ := buildFilterQuery(domain.LocationFilter{
			FeatureIDs: []uuid.UUID{uuid.New()},
		})

		assert.Contains(t, query, "SELECT DISTINCT")
		assert.Contains(t, query, "JOIN location_features")
	})

	t.Run("favorites without a user binds nothing", func(t *testing.T) {
		query, args := buildFilterQuery(domain.LocationFilter{Favorites: true})

		assert.NotContains(t, query, "JOIN favorites")
		assert.Empty(t, args)
	})
}
