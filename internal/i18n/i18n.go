// Package i18n is the message catalog backing localized SSE stage messages
// and error messages: a small {message_key, locale} -> text lookup loaded
// once from embedded JSON, with fallback to zh-TW for an unknown locale or
// a key missing from the requested one.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed locales/*.json
var localeFiles embed.FS

// FallbackLocale is used whenever a request's locale is unset, unknown, or
// missing the requested key.
const FallbackLocale = "zh-TW"

// Catalog is an immutable, process-lifetime {locale: {key: text}} table.
type Catalog struct {
	messages map[string]map[string]string
}

// Load reads every locales/*.json file embedded in the binary and builds a
// Catalog. It panics on a malformed embedded file since that can only
// happen from a build-time packaging mistake, never from request input.
func Load() *Catalog {
	entries, err := localeFiles.ReadDir("locales")
	if err != nil {
		panic(fmt.Sprintf("i18n: reading embedded locales: %v", err))
	}

	messages := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		locale := name[:len(name)-len(".json")]

		raw, err := localeFiles.ReadFile("locales/" + name)
		if err != nil {
			panic(fmt.Sprintf("i18n: reading %s: %v", name, err))
		}
		var table map[string]string
		if err := json.Unmarshal(raw, &table); err != nil {
			panic(fmt.Sprintf("i18n: parsing %s: %v", name, err))
		}
		messages[locale] = table
	}

	if _, ok := messages[FallbackLocale]; !ok {
		panic(fmt.Sprintf("i18n: no %s catalog embedded", FallbackLocale))
	}
	return &Catalog{messages: messages}
}

// Message returns the localized text for key under locale, falling back to
// FallbackLocale if locale is unknown or lacks key, and finally to the bare
// key itself if even the fallback locale lacks it (so a caller always gets
// a non-empty string, never a silent lookup failure).
func (c *Catalog) Message(locale, key string) string {
	if table, ok := c.messages[locale]; ok {
		if text, ok := table[key]; ok {
			return text
		}
	}
	if table, ok := c.messages[FallbackLocale]; ok {
		if text, ok := table[key]; ok {
			return text
		}
	}
	return key
}

// Locales returns every locale code the Catalog has a table for.
func (c *Catalog) Locales() []string {
	locales := make([]string, 0, len(c.messages))
	for l := range c.messages {
		locales = append(locales, l)
	}
	return locales
}
