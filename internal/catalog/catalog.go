// Package catalog holds the fixed set of loan products on offer. The
// catalog is read-only at runtime; rate changes never touch records that
// were already submitted.
package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Product is one offered loan type.
type Product struct {
	Name              string
	AnnualRatePercent decimal.Decimal
	MaxTermYears      int
}

// Catalog provides lookup over the offered products.
type Catalog struct {
	products []Product
	byName   map[string]Product
}

// New creates a Catalog from a slice of products.
func New(products []Product) *Catalog {
	byName := make(map[string]Product, len(products))
	for _, p := range products {
		byName[p.Name] = p
	}
	return &Catalog{products: products, byName: byName}
}

// Default returns the standard product lineup.
func Default() *Catalog {
	return New([]Product{
		{Name: "Housing Loan", AnnualRatePercent: decimal.NewFromFloat(5.2), MaxTermYears: 25},
		{Name: "Auto Loan", AnnualRatePercent: decimal.NewFromFloat(7.5), MaxTermYears: 6},
		{Name: "Personal Loan", AnnualRatePercent: decimal.NewFromFloat(9.6), MaxTermYears: 10},
	})
}

// Get returns the product with the given name.
func (c *Catalog) Get(name string) (Product, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Exists reports whether a product name is offered.
func (c *Catalog) Exists(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// All returns every product in insertion order.
func (c *Catalog) All() []Product {
	return c.products
}

// Names returns the product names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithinTerm reports whether termYears fits the product's maximum.
func (p Product) WithinTerm(termYears decimal.Decimal) bool {
	if termYears.Sign() <= 0 {
		return false
	}
	return termYears.Cmp(decimal.NewFromInt(int64(p.MaxTermYears))) <= 0
}
