// Package catalog loads the product catalog that rankings are computed from.
//
// A Catalog is immutable once built: accessors hand out copies, so the same
// catalog can back any number of concurrent queries.
package catalog

import (
	"slices"
)

// Column names required in every catalog source.
const (
	ColumnIndustry       = "Industry"
	ColumnMaterialType   = "Material Type"
	ColumnWeight         = "Weight (kg)"
	ColumnEmissionFactor = "Emission Factor per kg (CO2e)"
	ColumnTransportMode  = "Transport Mode"
)

// RequiredColumns lists the header names a source must provide, in the
// order written by WriteCSV.
func RequiredColumns() []string {
	return []string{
		ColumnIndustry,
		ColumnMaterialType,
		ColumnWeight,
		ColumnEmissionFactor,
		ColumnTransportMode,
	}
}

// Product is one catalog row.
type Product struct {
	Industry            string  `csv:"Industry"                      json:"industry"`
	MaterialType        string  `csv:"Material Type"                 json:"material_type"`
	WeightKg            float64 `csv:"Weight (kg)"                   json:"weight_kg"`
	EmissionFactorPerKg float64 `csv:"Emission Factor per kg (CO2e)" json:"emission_factor_per_kg"`
	TransportMode       string  `csv:"Transport Mode"                json:"transport_mode"`

	// Row is the zero-based position in the source. It orders ties and keys
	// deterministic distance draws.
	Row int `csv:"-" json:"row"`
}

// Mode resolves the product's transport mode, reporting whether the source
// value was recognized.
func (p Product) Mode() (TransportMode, bool) {
	return ParseTransportMode(p.TransportMode)
}

// Catalog is an ordered, read-only collection of products.
type Catalog struct {
	source     string
	products   []Product
	materials  []string
	byMaterial map[string][]int
}

// New builds a catalog from products, preserving their order. Row is
// reassigned to each product's position.
func New(source string, products []Product) *Catalog {
	c := &Catalog{
		source:     source,
		products:   make([]Product, len(products)),
		byMaterial: make(map[string][]int),
	}

	for i, p := range products {
		p.Row = i
		c.products[i] = p
		if _, seen := c.byMaterial[p.MaterialType]; !seen {
			c.materials = append(c.materials, p.MaterialType)
		}
		c.byMaterial[p.MaterialType] = append(c.byMaterial[p.MaterialType], i)
	}

	return c
}

// Source returns the path or name the catalog was read from.
func (c *Catalog) Source() string { return c.source }

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// Products returns a copy of every product in source order.
func (c *Catalog) Products() []Product {
	return slices.Clone(c.products)
}

// MaterialTypes returns the distinct material types in first-seen order.
func (c *Catalog) MaterialTypes() []string {
	return slices.Clone(c.materials)
}

// HasMaterialType reports whether any product has material type m.
func (c *Catalog) HasMaterialType(m string) bool {
	_, ok := c.byMaterial[m]
	return ok
}

// Count returns how many products have material type m.
func (c *Catalog) Count(m string) int {
	return len(c.byMaterial[m])
}

// ByMaterial returns copies of the products with material type m, in
// source order.
func (c *Catalog) ByMaterial(m string) []Product {
	idx := c.byMaterial[m]
	out := make([]Product, len(idx))
	for i, j := range idx {
		out[i] = c.products[j]
	}
	return out
}

// Weights returns the distinct weights, ascending, for material m. An empty
// m returns the weights across the whole catalog.
func (c *Catalog) Weights(m string) []float64 {
	var candidates []Product
	if m == "" {
		candidates = c.products
	} else {
		candidates = c.ByMaterial(m)
	}

	weights := make([]float64, 0, len(candidates))
	for _, p := range candidates {
		weights = append(weights, p.WeightKg)
	}
	slices.Sort(weights)
	return slices.Compact(weights)
}
