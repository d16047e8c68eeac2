package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrendQuery(t *testing.T) {
	tests := []struct {
		name        string
		source      Source
		keyword     string
		country     string
		timeframe   Timeframe
		isError     bool
		expectedErr string
	}{
		{
			name:      "valid query",
			source:    SourceAmazon,
			keyword:   "wireless headphones",
			country:   "United States",
			timeframe: TimeframeLast3Months,
		},
		{
			name:    "etsy is a valid source value",
			source:  SourceEtsy,
			keyword: "handmade jewelry",
			country: "Canada",
		},
		{
			name:      "multibyte keyword within the character bound",
			source:    SourceAmazon,
			keyword:   strings.Repeat("ヘ", 50),
			country:   "Japan",
			timeframe: TimeframeLast3Months,
		},
		{
			name:    "accented country name near the bound",
			source:  SourceEbay,
			keyword: "café table",
			country: "Côte d'Ivoire",
		},
		{
			name:        "multibyte keyword over the character bound",
			source:      SourceAmazon,
			keyword:     strings.Repeat("ヘ", 101),
			country:     "Japan",
			isError:     true,
			expectedErr: "keyword must be between 1 and 100 characters, got 101",
		},
		{
			name:        "unknown source",
			source:      Source("walmart"),
			keyword:     "tv",
			country:     "United States",
			isError:     true,
			expectedErr: "invalid source",
		},
		{
			name:        "empty keyword",
			source:      SourceEbay,
			keyword:     "",
			country:     "United Kingdom",
			isError:     true,
			expectedErr: "keyword must be between 1 and 100",
		},
		{
			name:        "keyword too long",
			source:      SourceEbay,
			keyword:     strings.Repeat("x", 101),
			country:     "United Kingdom",
			isError:     true,
			expectedErr: "keyword must be between 1 and 100",
		},
		{
			name:        "country too short",
			source:      SourceGoogle,
			keyword:     "smart watch",
			country:     "U",
			isError:     true,
			expectedErr: "country must be between 2 and 56",
		},
		{
			name:        "country too long",
			source:      SourceGoogle,
			keyword:     "smart watch",
			country:     strings.Repeat("a", 57),
			isError:     true,
			expectedErr: "country must be between 2 and 56",
		},
		{
			name:        "invalid timeframe",
			source:      SourceGoogle,
			keyword:     "smart watch",
			country:     "Germany",
			timeframe:   Timeframe("yesterday"),
			isError:     true,
			expectedErr: "invalid timeframe",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			query, err := NewTrendQuery(tc.source, tc.keyword, tc.country, tc.timeframe)

			if tc.isError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.source, query.Source)
			assert.Equal(t, tc.keyword, query.Keyword)
			assert.Equal(t, tc.country, query.Country)
		})
	}
}

func TestNewTrendQuery_DefaultTimeframe(t *testing.T) {
	query, err := NewTrendQuery(SourceGoogle, "smart watch", "United States", "")

	require.NoError(t, err)
	assert.Equal(t, TimeframeLast3Months, query.Timeframe)
}
