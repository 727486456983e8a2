// Package i18n resolves user-facing text for the supported interface languages.
//
// The table is embedded at build time and parsed once. It is never mutated after
// initialization, so lookups are safe from any goroutine.
package i18n

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultLanguage is used when a requested language has no table.
	DefaultLanguage = "en"

	// Czech is the only non-default language shipped with the table.
	Czech = "cs"
)

//go:embed translations.yaml
var translationsYAML []byte

var translations = mustParse(translationsYAML)

func mustParse(data []byte) map[string]map[string]string {
	table, err := parse(data)
	if err != nil {
		panic(fmt.Sprintf("i18n: %v", err))
	}
	return table
}

func parse(data []byte) (map[string]map[string]string, error) {
	var table map[string]map[string]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing translations: %w", err)
	}
	if _, ok := table[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("translations missing default language %q", DefaultLanguage)
	}
	return table, nil
}

func resolve(lang string) map[string]string {
	if t, ok := translations[lang]; ok {
		return t
	}
	return translations[DefaultLanguage]
}

// Text returns the text for key in lang. Unknown languages fall back to English;
// a key missing from the resolved table is returned unchanged.
func Text(key, lang string) string {
	if s, ok := resolve(lang)[key]; ok {
		return s
	}
	return key
}

// LanguageName returns the English name of lang as used in model prompts.
func LanguageName(lang string) string {
	if lang == Czech {
		return "Czech"
	}
	return "English"
}

// Table returns a copy of the resolved table for lang.
func Table(lang string) map[string]string {
	return maps.Clone(resolve(lang))
}

// Supported lists the language codes present in the table.
func Supported() []string {
	return slices.Sorted(maps.Keys(translations))
}
