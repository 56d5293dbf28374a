// Package catalog models the static product list the site is rendered from.
// The catalog is read-only input: it is loaded once from a JSON fixture and
// consumed by the presentation layer and the spec-download gate.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Product is one catalog entry.
type Product struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	ShortDescription string   `json:"shortDescription"`
	Description      string   `json:"description"`
	Features         []string `json:"features,omitempty"`
	Applications     []string `json:"applications,omitempty"`
	Certifications   []string `json:"certifications,omitempty"`
	Images           []string `json:"images,omitempty"`
	Price            string   `json:"price,omitempty"`
	SpecPath         string   `json:"specPath,omitempty"`
}

// Catalog is an ordered, immutable product list with ID lookup.
type Catalog struct {
	products []Product
	byID     map[string]Product
}

// New builds a catalog from an ordered product slice.
func New(products []Product) *Catalog {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}
}

// Load reads the catalog fixture from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return New(products), nil
}

// Products returns the catalog in fixture order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks a product up by ID.
func (c *Catalog) Get(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

var unsafeRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SpecFilename derives the suggested download filename for a product's
// specification PDF, e.g. "MARV2X Pro" -> "marv2x_pro_specifications.pdf".
func SpecFilename(productName string) string {
	safe := strings.ToLower(unsafeRe.ReplaceAllString(productName, "_"))
	return safe + "_specifications.pdf"
}
