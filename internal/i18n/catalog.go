// Package i18n loads the per-locale translation tables and resolves
// dot-path keys with named-placeholder interpolation. A missing key renders
// as the key itself, which is the explicit "untranslated" signal the site
// relies on.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Supported locales, in switcher order.
var Languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "ta", Name: "தமிழ்"},
	{Code: "si", Name: "සිංහල"},
	{Code: "ar", Name: "العربية"},
}

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// fixed right-to-left language set
var rtl = map[string]bool{"ar": true, "fa": true, "he": true, "ur": true}

func IsRTL(locale string) bool { return rtl[strings.ToLower(locale)] }

// Dir returns the document text direction for a locale.
func Dir(locale string) string {
	if IsRTL(locale) {
		return "rtl"
	}
	return "ltr"
}

func Supported(locale string) bool {
	for _, l := range Languages {
		if l.Code == locale {
			return true
		}
	}
	return false
}

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Catalog holds loaded bundles; tables are static files, loaded once per
// locale and shared.
type Catalog struct {
	dir string
	def string

	mu      sync.RWMutex
	bundles map[string]*Bundle
}

func NewCatalog(dir, defaultLocale string) *Catalog {
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	return &Catalog{dir: dir, def: defaultLocale, bundles: map[string]*Bundle{}}
}

func (c *Catalog) DefaultLocale() string { return c.def }

// Bundle returns the table for locale, falling back to the default locale
// when the requested one cannot be loaded.
func (c *Catalog) Bundle(locale string) (*Bundle, error) {
	if b := c.cached(locale); b != nil {
		return b, nil
	}
	b, err := c.load(locale)
	if err != nil {
		if locale == c.def {
			return nil, err
		}
		return c.Bundle(c.def)
	}
	return b, nil
}

func (c *Catalog) cached(locale string) *Bundle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bundles[locale]
}

func (c *Catalog) load(locale string) (*Bundle, error) {
	raw, err := os.ReadFile(filepath.Join(c.dir, locale+".json"))
	if err != nil {
		return nil, fmt.Errorf("load locale %q: %w", locale, err)
	}
	var table map[string]any
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	b := &Bundle{locale: locale, table: table}
	c.mu.Lock()
	c.bundles[locale] = b
	c.mu.Unlock()
	return b, nil
}

// Bundle is one locale's key->string table.
type Bundle struct {
	locale string
	table  map[string]any
}

func (b *Bundle) Locale() string        { return b.locale }
func (b *Bundle) Dir() string           { return Dir(b.locale) }
func (b *Bundle) Table() map[string]any { return b.table }

// T resolves a dot-notation key and interpolates {name} placeholders from
// params. Missing keys and non-string values return the key unchanged;
// placeholders without a param stay literal.
func (b *Bundle) T(key string, params map[string]string) string {
	var cur any = b.table
	for _, part := range strings.Split(key, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return key
		}
		cur, ok = obj[part]
		if !ok {
			return key
		}
	}
	s, ok := cur.(string)
	if !ok {
		return key
	}
	if len(params) == 0 {
		return s
	}
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := params[name]; ok {
			return v
		}
		return m
	})
}
