package costing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomy_Families(t *testing.T) {
	taxonomy := DefaultTaxonomy()

	testCases := []struct {
		category string
		expected Family
	}{
		{"fabric", FamilyFabric},
		{"canvas", FamilyFabric},
		{"cotton", FamilyFabric},
		{"foam", FamilyFabric},
		{"runner", FamilyAccessory},
		{"slider", FamilyAccessory},
		{"buckel", FamilyAccessory},
		{"accessories", FamilyAccessory},
		{"plastic", FamilyBulk},
		{"non woven", FamilyBulk},
		{"ld cord", FamilyBulk},
		{"zipper", FamilyLinear},
		{"webbing", FamilyLinear},
		{"inner dori", FamilyLinear},
		{"velcro", FamilyUnknown},
		{"", FamilyUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.category, func(t *testing.T) {
			assert.Equal(t, tc.expected, taxonomy.FamilyOf(tc.category))
		})
	}
}

func TestTaxonomy_FamilyOf_CaseAndWhitespace(t *testing.T) {
	taxonomy := DefaultTaxonomy()

	assert.Equal(t, FamilyFabric, taxonomy.FamilyOf("Canvas"))
	assert.Equal(t, FamilyLinear, taxonomy.FamilyOf("  ZIPPER "))
	assert.Equal(t, FamilyBulk, taxonomy.FamilyOf("Non Woven"))
}

func TestLoadTaxonomy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.json")
	content := `{
		"fabric": ["denim"],
		"accessory": ["rivet"],
		"bulk": ["resin"],
		"linear": ["piping"]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	taxonomy, err := LoadTaxonomy(path)
	require.NoError(t, err)

	assert.Equal(t, FamilyFabric, taxonomy.FamilyOf("denim"))
	assert.Equal(t, FamilyAccessory, taxonomy.FamilyOf("Rivet"))
	assert.Equal(t, FamilyBulk, taxonomy.FamilyOf("resin"))
	assert.Equal(t, FamilyLinear, taxonomy.FamilyOf("piping"))
	// Built-in labels are not implied by an override file.
	assert.Equal(t, FamilyUnknown, taxonomy.FamilyOf("canvas"))
}

func TestLoadTaxonomy_MissingFile(t *testing.T) {
	_, err := LoadTaxonomy(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestTaxonomy_Categories(t *testing.T) {
	taxonomy := NewTaxonomy([]string{"fabric"}, []string{"runner"}, nil, []string{"zipper", "webbing"})

	groups := taxonomy.Categories()
	assert.ElementsMatch(t, []string{"fabric"}, groups[FamilyFabric])
	assert.ElementsMatch(t, []string{"runner"}, groups[FamilyAccessory])
	assert.ElementsMatch(t, []string{"zipper", "webbing"}, groups[FamilyLinear])
	assert.Empty(t, groups[FamilyBulk])
}
