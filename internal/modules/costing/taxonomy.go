package costing

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Family selects the physical model used to price and measure a component
// category.
type Family string

const (
	// FamilyFabric is priced by cut-piece area against a per-square-inch rate.
	FamilyFabric Family = "fabric"
	// FamilyAccessory is priced by piece count against a base pack size.
	FamilyAccessory Family = "accessory"
	// FamilyBulk is priced by weight in grams against a base weight in kilograms.
	FamilyBulk Family = "bulk"
	// FamilyLinear is priced by length in inches against a base length in meters.
	FamilyLinear Family = "linear"
	// FamilyUnknown means the category is outside the taxonomy; pricing falls
	// back to a formula override or the line's stored rate.
	FamilyUnknown Family = "unknown"
)

// Taxonomy maps free-text category labels to families. It is immutable after
// construction: build one with NewTaxonomy, LoadTaxonomy, or DefaultTaxonomy
// and hand it to the engine.
type Taxonomy struct {
	families map[string]Family
}

// NewTaxonomy builds a taxonomy from four category lists. Labels are matched
// case-insensitively with surrounding whitespace ignored.
func NewTaxonomy(fabric, accessory, bulk, linear []string) *Taxonomy {
	t := &Taxonomy{families: make(map[string]Family)}
	add := func(labels []string, f Family) {
		for _, l := range labels {
			t.families[normalizeCategory(l)] = f
		}
	}
	add(fabric, FamilyFabric)
	add(accessory, FamilyAccessory)
	add(bulk, FamilyBulk)
	add(linear, FamilyLinear)
	return t
}

// DefaultTaxonomy returns the built-in garment/bag category classification.
func DefaultTaxonomy() *Taxonomy {
	return NewTaxonomy(
		[]string{"fabric", "canvas", "cotton", "foam"},
		[]string{"runner", "slider", "bidding", "adjuster", "buckel", "dkadi", "accessories"},
		[]string{"plastic", "non woven", "ld cord"},
		[]string{"zipper", "webbing", "inner dori"},
	)
}

// taxonomyFile is the on-disk layout accepted by LoadTaxonomy.
type taxonomyFile struct {
	Fabric    []string `json:"fabric"`
	Accessory []string `json:"accessory"`
	Bulk      []string `json:"bulk"`
	Linear    []string `json:"linear"`
}

// LoadTaxonomy reads a taxonomy override from a JSON file with one array per
// family. Categories absent from the file simply fall through to the unknown
// family.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}
	var tf taxonomyFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file %s: %w", path, err)
	}
	return NewTaxonomy(tf.Fabric, tf.Accessory, tf.Bulk, tf.Linear), nil
}

// FamilyOf classifies a category label. Unmapped labels return FamilyUnknown.
func (t *Taxonomy) FamilyOf(category string) Family {
	if f, ok := t.families[normalizeCategory(category)]; ok {
		return f
	}
	return FamilyUnknown
}

// Categories returns the configured labels grouped by family, for the
// taxonomy API endpoint.
func (t *Taxonomy) Categories() map[Family][]string {
	out := make(map[Family][]string)
	for label, f := range t.families {
		out[f] = append(out[f], label)
	}
	return out
}

func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
