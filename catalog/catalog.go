// Package catalog holds the curated list of wordpress.org packages the panel
// offers for installation.
package catalog

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/wopanel/wopanel/domain"
	"gopkg.in/yaml.v3"
)

// Entry describes one installable package from the public repository
type Entry struct {
	Name string           `yaml:"name"`
	Slug string           `yaml:"slug"`
	Kind domain.AssetKind `yaml:"kind"`
}

// Catalog is a read-only lookup of known repository packages. Slugs absent
// from the catalog are still installable; the catalog is a convenience list
// for the UI and a cheap pre-check, not an allowlist.
type Catalog struct {
	entries []Entry
	bySlug  map[string]Entry
}

// defaultEntries mirrors the packages the panel has always offered
var defaultEntries = []Entry{
	{Name: "Elementor", Slug: "elementor", Kind: domain.AssetKindPlugin},
	{Name: "Yoast SEO", Slug: "wordpress-seo", Kind: domain.AssetKindPlugin},
	{Name: "WooCommerce", Slug: "woocommerce", Kind: domain.AssetKindPlugin},
	{Name: "Wordfence", Slug: "wordfence", Kind: domain.AssetKindPlugin},
	{Name: "Classic Editor", Slug: "classic-editor", Kind: domain.AssetKindPlugin},
	{Name: "Astra", Slug: "astra", Kind: domain.AssetKindTheme},
	{Name: "Hello Elementor", Slug: "hello-elementor", Kind: domain.AssetKindTheme},
}

// Load reads the catalog from a YAML file. A missing file is not an error:
// the built-in default catalog is used instead.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("Catalog file not found, using built-in catalog", "path", path)
			return New(defaultEntries), nil
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	for _, e := range entries {
		if e.Slug == "" {
			return nil, fmt.Errorf("catalog entry %q has no slug", e.Name)
		}
		if !e.Kind.IsValid() {
			return nil, fmt.Errorf("catalog entry %q has invalid kind %q", e.Name, e.Kind)
		}
	}

	slog.Debug("Loaded catalog", "path", path, "entry_count", len(entries))
	return New(entries), nil
}

// New builds a Catalog from a fixed set of entries
func New(entries []Entry) *Catalog {
	bySlug := make(map[string]Entry, len(entries))
	for _, e := range entries {
		bySlug[e.Slug] = e
	}
	return &Catalog{entries: entries, bySlug: bySlug}
}

// Default returns the built-in catalog
func Default() *Catalog {
	return New(defaultEntries)
}

// Entries returns all catalog entries in their declared order
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Lookup returns the entry for a repository slug, if known
func (c *Catalog) Lookup(slug string) (Entry, bool) {
	e, ok := c.bySlug[slug]
	return e, ok
}
