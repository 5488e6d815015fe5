package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryNormalizer_FileNotFound(t *testing.T) {
	normalizer, err := NewQueryNormalizer("/nonexistent/path/dictionary.json")
	assert.Error(t, err)
	assert.Nil(t, normalizer)
}

func TestNewQueryNormalizer_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dictionary.json")
	dict := `{"typos":{"hydrualik":"hydraulik"},"abbreviations":{},"cityAliases":{"wwa":"warszawa"}}`
	require.NoError(t, os.WriteFile(path, []byte(dict), 0o644))

	normalizer, err := NewQueryNormalizer(path)
	require.NoError(t, err)

	assert.Equal(t, "hydraulik warszawa", normalizer.Normalize("hydrualik wwa"))
}

func TestNormalize_TypoCorrection(t *testing.T) {
	normalizer := NewDefaultQueryNormalizer()

	testCases := []struct {
		input    string
		expected string
	}{
		{"hydrualik warszwa", "hydraulik warszawa"},
		{"elektyk krakow", "elektryk kraków"},
		{"sprzatanie mieszkań", "sprzątanie mieszkań"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, normalizer.Normalize(tc.input))
		})
	}
}

func TestNormalize_UnknownWordsPassThrough(t *testing.T) {
	normalizer := NewDefaultQueryNormalizer()

	assert.Equal(t, "montaż paneli fotowoltaicznych", normalizer.Normalize("montaż paneli fotowoltaicznych"))
}

func TestNormalize_CityAliasExpansion(t *testing.T) {
	normalizer := NewDefaultQueryNormalizer()

	assert.Equal(t, "malowanie warszawa", normalizer.Normalize("malowanie wwa"))
}

func TestNormalize_EmptyQuery(t *testing.T) {
	normalizer := NewDefaultQueryNormalizer()

	assert.Equal(t, "", normalizer.Normalize("   "))
}
