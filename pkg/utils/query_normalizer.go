package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// QueryDictionary holds typo corrections and expansions for search queries.
// All keys are matched case-insensitively against whole words.
type QueryDictionary struct {
	Typos         map[string]string `json:"typos"`
	Abbreviations map[string]string `json:"abbreviations"`
	CityAliases   map[string]string `json:"cityAliases"`
}

// QueryNormalizer corrects common misspellings and expands shorthand in raw
// search queries using a static dictionary. Unlike an LLM rewriter it is
// deterministic, free and works offline, at the cost of only catching the
// mistakes someone put in the dictionary.
type QueryNormalizer struct {
	dict *QueryDictionary
}

// NewQueryNormalizer loads a dictionary from a JSON file.
func NewQueryNormalizer(configPath string) (*QueryNormalizer, error) {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file: %w", err)
	}

	var dict QueryDictionary
	if err := json.Unmarshal(configFile, &dict); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}

	return &QueryNormalizer{dict: &dict}, nil
}

// NewDefaultQueryNormalizer returns a normalizer with the built-in dictionary
// of misspellings and shorthand seen in real query logs.
func NewDefaultQueryNormalizer() *QueryNormalizer {
	return &QueryNormalizer{dict: defaultQueryDictionary()}
}

// Normalize rewrites query word by word. Typo corrections are applied first,
// then abbreviation expansions, then city aliases. Words with no dictionary
// entry pass through unchanged, so a query the dictionary knows nothing
// about comes back as-is.
func (n *QueryNormalizer) Normalize(query string) string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return trimmed
	}

	words := strings.Fields(trimmed)
	for i, word := range words {
		lower := strings.ToLower(word)
		if corrected, ok := n.dict.Typos[lower]; ok {
			words[i] = corrected
			continue
		}
		if expanded, ok := n.dict.Abbreviations[lower]; ok {
			words[i] = expanded
			continue
		}
		if city, ok := n.dict.CityAliases[lower]; ok {
			words[i] = city
		}
	}

	return strings.Join(words, " ")
}

func defaultQueryDictionary() *QueryDictionary {
	return &QueryDictionary{
		Typos: map[string]string{
			"hydrualik":  "hydraulik",
			"hydralik":   "hydraulik",
			"elektyk":    "elektryk",
			"elekrtyk":   "elektryk",
			"sprzatanie": "sprzątanie",
			"warszwa":    "warszawa",
			"wroclaw":    "wrocław",
			"krakow":     "kraków",
			"gdansk":     "gdańsk",
			"poznan":     "poznań",
			"lodz":       "łódź",
		},
		Abbreviations: map[string]string{
			"agd": "naprawa agd",
			"rtv": "naprawa rtv",
		},
		CityAliases: map[string]string{
			"wwa": "warszawa",
			"krk": "kraków",
			"gda": "gdańsk",
			"wro": "wrocław",
		},
	}
}
