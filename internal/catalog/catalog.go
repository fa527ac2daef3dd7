// Package catalog holds the read-only robotics knowledge base used by the
// consultant engine: products, the industries they serve, and the aliases
// used to recognise product mentions in generated text.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// DefaultLanguage is the language every localized entry must provide.
const DefaultLanguage = "en"

// Product is a single robot in the catalog.
type Product struct {
	ID           string              `yaml:"id" validate:"required"`
	DisplayName  string              `yaml:"display_name" validate:"required"`
	Category     string              `yaml:"category" validate:"required"`
	Description  string              `yaml:"description"`
	Features     []string            `yaml:"features"`
	Applications []string            `yaml:"applications"`
	ROIRange     string              `yaml:"roi_range"`
	PaybackRange string              `yaml:"payback_range"`
	Aliases      map[string][]string `yaml:"aliases"`
}

// Names returns the canonical display name followed by every alias in every
// language. Order is stable: display name, then aliases by language key.
func (p Product) Names() []string {
	names := []string{p.DisplayName}
	for _, lang := range sortedKeys(p.Aliases) {
		for _, alias := range p.Aliases[lang] {
			if alias = strings.TrimSpace(alias); alias != "" {
				names = append(names, alias)
			}
		}
	}
	return names
}

// IndustryText is the localized content of an industry entry.
type IndustryText struct {
	DisplayName  string   `yaml:"display_name" validate:"required"`
	Benefits     []string `yaml:"benefits" validate:"required,min=1"`
	UseCases     []string `yaml:"use_cases" validate:"required,min=1"`
	ROIRange     string   `yaml:"roi_range" validate:"required"`
	PaybackRange string   `yaml:"payback_range" validate:"required"`
}

// Industry maps a vertical onto its ordered product recommendations.
type Industry struct {
	ID                    string                  `yaml:"id" validate:"required"`
	RecommendedProductIDs []string                `yaml:"recommended_products" validate:"required,min=1"`
	ReferenceClients      []string                `yaml:"reference_clients"`
	Text                  map[string]IndustryText `yaml:"text" validate:"required,dive"`
}

// Localized returns the text for lang, falling back to English.
func (i Industry) Localized(lang string) IndustryText {
	if text, ok := i.Text[lang]; ok {
		return text
	}
	return i.Text[DefaultLanguage]
}

// Catalog is the process-wide knowledge base. It is immutable after Load.
type Catalog struct {
	Products          []Product  `yaml:"products" validate:"required,min=1,dive"`
	Industries        []Industry `yaml:"industries" validate:"required,min=1,dive"`
	DefaultProductIDs []string   `yaml:"default_products" validate:"required,min=1"`

	products   map[string]int
	industries map[string]int
}

var (
	validate     = validator.New()
	defaultOnce  sync.Once
	defaultValue *Catalog
	defaultErr   error
)

// Load parses and validates a YAML catalog.
func Load(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile loads a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Load(data)
}

// Default returns the embedded catalog. It is parsed once per process.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultValue, defaultErr = Load(defaultCatalogYAML)
	})
	return defaultValue, defaultErr
}

// MustDefault is Default for wiring code and tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks struct constraints and that every product reference
// resolves. It also builds the lookup indexes.
func (c *Catalog) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("catalog: invalid: %w", err)
	}

	var errs []error
	c.products = make(map[string]int, len(c.Products))
	for i, p := range c.Products {
		if _, dup := c.products[p.ID]; dup {
			errs = append(errs, fmt.Errorf("catalog: duplicate product %q", p.ID))
			continue
		}
		c.products[p.ID] = i
	}

	c.industries = make(map[string]int, len(c.Industries))
	for i, ind := range c.Industries {
		if _, dup := c.industries[ind.ID]; dup {
			errs = append(errs, fmt.Errorf("catalog: duplicate industry %q", ind.ID))
			continue
		}
		c.industries[ind.ID] = i
		if _, ok := ind.Text[DefaultLanguage]; !ok {
			errs = append(errs, fmt.Errorf("catalog: industry %q has no %q text", ind.ID, DefaultLanguage))
		}
		for _, pid := range ind.RecommendedProductIDs {
			if _, ok := c.products[pid]; !ok {
				errs = append(errs, fmt.Errorf("catalog: industry %q references unknown product %q", ind.ID, pid))
			}
		}
	}

	for _, pid := range c.DefaultProductIDs {
		if _, ok := c.products[pid]; !ok {
			errs = append(errs, fmt.Errorf("catalog: default products reference unknown product %q", pid))
		}
	}
	return errors.Join(errs...)
}

// Product looks up a product by id.
func (c *Catalog) Product(id string) (Product, bool) {
	i, ok := c.products[id]
	if !ok {
		return Product{}, false
	}
	return c.Products[i], true
}

// Industry looks up an industry by id.
func (c *Catalog) Industry(id string) (Industry, bool) {
	i, ok := c.industries[id]
	if !ok {
		return Industry{}, false
	}
	return c.Industries[i], true
}

// ProductsFor returns the recommended products of an industry in catalog
// recommendation order.
func (c *Catalog) ProductsFor(industryID string) []Product {
	ind, ok := c.Industry(industryID)
	if !ok {
		return nil
	}
	return c.resolve(ind.RecommendedProductIDs)
}

// DefaultProducts returns the products recommended when nothing else is known.
func (c *Catalog) DefaultProducts() []Product {
	return c.resolve(c.DefaultProductIDs)
}

// Categories returns the distinct product categories in catalog order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.Products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

func (c *Catalog) resolve(ids []string) []Product {
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.Product(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// DisplayNames maps products onto their display names.
func DisplayNames(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.DisplayName)
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

// keyLess orders English first, then the rest alphabetically.
func keyLess(a, b string) bool {
	if a == DefaultLanguage {
		return b != DefaultLanguage
	}
	if b == DefaultLanguage {
		return false
	}
	return a < b
}
