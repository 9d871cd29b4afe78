// Package i18n loads the embedded UI catalogues and resolves the active locale.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
)

//go:embed translations/*.json
var catalogFS embed.FS

const (
	// English is the fallback catalogue for missing keys.
	English = "en"
	// Tamil is the second supported locale.
	Tamil = "ta"
)

// supportedTags is ordered; the first entry is the matcher's default.
var supportedTags = []language.Tag{language.English, language.Tamil}

// Bundle holds every loaded catalogue.
type Bundle struct {
	catalogs      map[string]map[string]string
	defaultLocale string
	matcher       language.Matcher
}

// Load reads the embedded catalogues. defaultLocale must be supported.
func Load(defaultLocale string) (*Bundle, error) {
	return LoadFS(catalogFS, defaultLocale)
}

// LoadFS reads translations/<locale>.json for each supported locale from fsys.
func LoadFS(fsys fs.FS, defaultLocale string) (*Bundle, error) {
	b := &Bundle{
		catalogs:      make(map[string]map[string]string, len(supportedTags)),
		defaultLocale: English,
		matcher:       language.NewMatcher(supportedTags),
	}
	for _, tag := range supportedTags {
		locale := tag.String()
		raw, err := fs.ReadFile(fsys, path.Join("translations", locale+".json"))
		if err != nil {
			return nil, fmt.Errorf("read %s catalogue: %w", locale, err)
		}
		var cat map[string]string
		if err = json.Unmarshal(raw, &cat); err != nil {
			return nil, fmt.Errorf("parse %s catalogue: %w", locale, err)
		}
		b.catalogs[locale] = cat
	}
	if defaultLocale != "" {
		if !b.Supported(defaultLocale) {
			return nil, fmt.Errorf("unsupported default locale %q", defaultLocale)
		}
		b.defaultLocale = defaultLocale
	}
	return b, nil
}

// DefaultLocale returns the configured fallback locale.
func (b *Bundle) DefaultLocale() string {
	return b.defaultLocale
}

// Supported reports whether locale has a catalogue.
func (b *Bundle) Supported(locale string) bool {
	_, ok := b.catalogs[locale]
	return ok
}

// Locales returns the supported locale codes in display order.
func (b *Bundle) Locales() []string {
	out := make([]string, len(supportedTags))
	for i, tag := range supportedTags {
		out[i] = tag.String()
	}
	return out
}

// T returns key in locale, then in English, then def.
func (b *Bundle) T(locale, key, def string) string {
	if v, ok := b.catalogs[locale][key]; ok && v != "" {
		return v
	}
	if v, ok := b.catalogs[English][key]; ok && v != "" {
		return v
	}
	if def != "" {
		return def
	}
	return key
}

// Resolve picks the locale for a request: the session value when supported,
// otherwise the best Accept-Language match, otherwise the default.
func (b *Bundle) Resolve(sessionLocale, acceptLanguage string) string {
	if b.Supported(sessionLocale) {
		return sessionLocale
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return b.defaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.defaultLocale
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return b.defaultLocale
	}
	return supportedTags[idx].String()
}

// Translator binds a Bundle to one locale.
type Translator struct {
	bundle *Bundle
	locale string
}

// For returns a Translator for locale. Unsupported locales fall back to the default.
func (b *Bundle) For(locale string) Translator {
	if !b.Supported(locale) {
		locale = b.defaultLocale
	}
	return Translator{bundle: b, locale: locale}
}

// Locale returns the bound locale.
func (t Translator) Locale() string { return t.locale }

// T looks up key in the bound locale.
func (t Translator) T(key, def string) string {
	if t.bundle == nil {
		if def != "" {
			return def
		}
		return key
	}
	return t.bundle.T(t.locale, key, def)
}
