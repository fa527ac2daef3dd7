package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	for _, id := range []string{"mining", "education", "healthcare", "hospitality", "logistics", "manufacturing"} {
		ind, ok := c.Industry(id)
		require.True(t, ok, "industry %s", id)
		assert.NotEmpty(t, ind.Localized("en").DisplayName)
		assert.NotEmpty(t, ind.Localized("ar").DisplayName)
		assert.Len(t, c.ProductsFor(id), len(ind.RecommendedProductIDs))
	}

	defaults := DisplayNames(c.DefaultProducts())
	assert.Equal(t, []string{"CleanBot Pro", "ScrubMax 50"}, defaults)
}

func TestProductsForKeepsRecommendationOrder(t *testing.T) {
	c := MustDefault()
	got := DisplayNames(c.ProductsFor("logistics"))
	assert.Equal(t, []string{"CargoMover AMR", "ShelfScanner S1", "ScrubMax 50"}, got)
	assert.Nil(t, c.ProductsFor("aerospace"))
}

func TestLocalizedFallsBackToEnglish(t *testing.T) {
	ind := Industry{Text: map[string]IndustryText{"en": {DisplayName: "retail"}}}
	assert.Equal(t, "retail", ind.Localized("ar").DisplayName)
}

func TestProductNamesIncludeAliases(t *testing.T) {
	p, ok := MustDefault().Product("greeter_x1")
	require.True(t, ok)
	assert.Equal(t, []string{"GreeterBot X1", "Greeter Bot X1", "جريتر بوت"}, p.Names())
}

func TestLoadRejectsDanglingProductReference(t *testing.T) {
	data := []byte(`
default_products: [a]
products:
  - {id: a, display_name: A, category: cleaning}
industries:
  - id: mining
    recommended_products: [a, ghost]
    text:
      en: {display_name: mining, benefits: [x], use_cases: [y], roi_range: "10% savings", payback_range: "1-2 months"}
`)
	_, err := Load(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown product "ghost"`)
}

func TestLoadRejectsMissingEnglishText(t *testing.T) {
	data := []byte(`
default_products: [a]
products:
  - {id: a, display_name: A, category: cleaning}
industries:
  - id: mining
    recommended_products: [a]
    text:
      ar: {display_name: تعدين, benefits: [x], use_cases: [y], roi_range: "10%", payback_range: "1-2"}
`)
	_, err := Load(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no \"en\" text")
}

func TestLoadRejectsStructErrors(t *testing.T) {
	_, err := Load([]byte(`products: []`))
	assert.Error(t, err)

	_, err = Load([]byte(`products: [unclosed`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, defaultCatalogYAML, 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, c.Products, len(MustDefault().Products))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	cats := MustDefault().Categories()
	assert.Equal(t, "cleaning", cats[0])
	assert.Contains(t, cats, "logistics")
}
