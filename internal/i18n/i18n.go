// Package i18n holds the embedded fr/en message catalogs.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"diezagency/internal/locale"
)

//go:embed locales/*.yaml
var files embed.FS

// Catalog maps dotted keys ("contact.need.website") to messages per locale.
type Catalog struct {
	messages map[locale.Locale]map[string]string
}

// Load parses one catalog file per supported locale.
func Load() (*Catalog, error) {
	c := &Catalog{messages: make(map[locale.Locale]map[string]string)}
	for _, l := range locale.Supported() {
		raw, err := files.ReadFile(path.Join("locales", string(l)+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("read %s catalog: %w", l, err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("parse %s catalog: %w", l, err)
		}
		flat := make(map[string]string)
		if err := flatten("", tree, flat); err != nil {
			return nil, fmt.Errorf("%s catalog: %w", l, err)
		}
		c.messages[l] = flat
	}
	return c, nil
}

// MustLoad is Load for program start-up.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func flatten(prefix string, node map[string]any, out map[string]string) error {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case string:
			out[key] = val
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return nil
}

// T returns the message for key in l, falling back to the secondary locale
// and finally to the key itself. Args are applied with fmt.Sprintf.
func (c *Catalog) T(l locale.Locale, key string, args ...any) string {
	msg, ok := c.messages[l][key]
	if !ok {
		msg, ok = c.messages[locale.Secondary][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Has reports whether l defines key itself.
func (c *Catalog) Has(l locale.Locale, key string) bool {
	_, ok := c.messages[l][key]
	return ok
}

// Keys lists the keys defined for l, sorted.
func (c *Catalog) Keys(l locale.Locale) []string {
	keys := make([]string, 0, len(c.messages[l]))
	for k := range c.messages[l] {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Section returns every key under prefix with the prefix removed.
func (c *Catalog) Section(l locale.Locale, prefix string) map[string]string {
	prefix = strings.TrimSuffix(prefix, ".") + "."
	out := make(map[string]string)
	for k, v := range c.messages[l] {
		if rest, ok := strings.CutPrefix(k, prefix); ok {
			out[rest] = v
		}
	}
	return out
}
