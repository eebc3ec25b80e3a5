package parse

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Keywords carries the regional word lists the extractor keys on.
type Keywords struct {
	// Surnames anchor the receipt-name and form-field name fallbacks.
	Surnames []string `yaml:"surnames"`
	// InstitutionWords mark a token as part of an institution name.
	InstitutionWords []string `yaml:"institution_words"`
	// InstitutionNames are literal local institution tokens, treated like InstitutionWords.
	InstitutionNames []string `yaml:"institution_names"`
}

// DefaultKeywords returns the built-in lists.
func DefaultKeywords() Keywords {
	return Keywords{
		Surnames: []string{
			"patil", "sharma", "kumar", "singh", "gupta", "verma", "shah", "desai",
			"joshi", "kulkarni", "deshmukh", "jadhav", "pawar", "shinde", "chavan",
			"yadav", "reddy", "naidu", "iyer", "nair", "mehta", "agarwal", "mishra",
			"pandey", "rao", "khan", "das", "bose", "gaikwad", "thakur",
		},
		InstitutionWords: []string{
			"institute", "college", "university", "technology", "school", "academy", "engineering",
		},
		InstitutionNames: []string{"vidyalankar"},
	}
}

// LoadKeywords reads a YAML keyword file. Lists missing from the file keep
// their defaults.
func LoadKeywords(path string) (Keywords, error) {
	kw := DefaultKeywords()
	if path == "" {
		return kw, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return kw, fmt.Errorf("read keywords: %w", err)
	}
	var in Keywords
	if err := yaml.Unmarshal(b, &in); err != nil {
		return kw, fmt.Errorf("parse keywords %s: %w", path, err)
	}
	if len(in.Surnames) > 0 {
		kw.Surnames = in.Surnames
	}
	if len(in.InstitutionWords) > 0 {
		kw.InstitutionWords = in.InstitutionWords
	}
	if len(in.InstitutionNames) > 0 {
		kw.InstitutionNames = in.InstitutionNames
	}
	return kw.normalized(), nil
}

func (k Keywords) normalized() Keywords {
	return Keywords{
		Surnames:         lowerAll(k.Surnames),
		InstitutionWords: lowerAll(k.InstitutionWords),
		InstitutionNames: lowerAll(k.InstitutionNames),
	}
}

// institutionIndicators is InstitutionWords plus InstitutionNames.
func (k Keywords) institutionIndicators() []string {
	out := make([]string, 0, len(k.InstitutionWords)+len(k.InstitutionNames))
	out = append(out, k.InstitutionWords...)
	return append(out, k.InstitutionNames...)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
