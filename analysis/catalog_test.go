package analysis

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogOrder(t *testing.T) {
	t.Parallel()

	catalog := DefaultCatalog()
	cats := catalog.Categories()
	require.Len(t, cats, 3)
	assert.Equal(t, CategoryCrimes, cats[0].Category)
	assert.Equal(t, CategoryReasons, cats[1].Category)
	assert.Equal(t, CategorySentences, cats[2].Category)

	labels := make([]string, 0)
	for _, r := range catalog.Rules(CategorySentences) {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, []string{"死刑", "無期徒刑", "有期徒刑", "感化/感訓", "沒收財產"}, labels)
}

func TestCatalogRulesReturnsCopy(t *testing.T) {
	t.Parallel()

	catalog := DefaultCatalog()
	rules := catalog.Rules(CategoryCrimes)
	rules[0].Label = "changed"

	assert.Equal(t, "叛亂", catalog.Rules(CategoryCrimes)[0].Label)
}

func TestNewCatalogRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	_, err := NewCatalog(CategoryRules{Category: "verdicts"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestNewCatalogRejectsDuplicateCategory(t *testing.T) {
	t.Parallel()

	_, err := NewCatalog(
		CategoryRules{Category: CategoryCrimes},
		CategoryRules{Category: CategoryCrimes},
	)
	require.Error(t, err)
}

func TestNewCatalogRejectsNilPattern(t *testing.T) {
	t.Parallel()

	_, err := NewCatalog(CategoryRules{
		Category: CategoryCrimes,
		Rules:    []Rule{{Label: "叛亂"}},
	})
	require.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	raw := `
crimes:
  - label: 叛亂
    pattern: "(叛亂|懲治叛亂條例)"
sentences:
  - label: 死刑
    pattern: "處死刑"
  - label: 感化
    pattern: "感化"
`
	catalog, err := LoadCatalog(strings.NewReader(raw))
	require.NoError(t, err)

	result := NewTagger(catalog).Tag("依懲治叛亂條例處死刑")
	assert.Equal(t, []string{"叛亂"}, result.Crimes)
	assert.Equal(t, []string{"死刑"}, result.Sentences)
	assert.Empty(t, result.Reasons)
}

func TestLoadCatalogInvalidPattern(t *testing.T) {
	t.Parallel()

	raw := `
reasons:
  - label: broken
    pattern: "(unclosed"
`
	_, err := LoadCatalog(strings.NewReader(raw))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestLoadCatalogUnknownKey(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog(strings.NewReader("verdicts: []\n"))
	require.Error(t, err)
}

func TestNewCatalogCopiesRules(t *testing.T) {
	t.Parallel()

	rules := []Rule{{Label: "叛亂", Pattern: regexp.MustCompile("叛亂")}}
	catalog, err := NewCatalog(CategoryRules{Category: CategoryCrimes, Rules: rules})
	require.NoError(t, err)

	rules[0].Label = "changed"
	assert.Equal(t, "叛亂", catalog.Rules(CategoryCrimes)[0].Label)
}
