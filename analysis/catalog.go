package analysis

import (
	"fmt"
	"io"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Category names a group of tagging rules
type Category string

const (
	CategoryCrimes    Category = "crimes"
	CategoryReasons   Category = "reasons"
	CategorySentences Category = "sentences"
)

// Rule maps a text pattern to the label it produces
type Rule struct {
	Label   string
	Pattern *regexp.Regexp
}

// CategoryRules is the ordered rule list of one category
type CategoryRules struct {
	Category Category
	Rules    []Rule
}

// Catalog is an ordered, immutable set of tagging rules.
// Labels are reported in catalog order, not match order.
type Catalog struct {
	categories []CategoryRules
}

// NewCatalog builds a catalog from rule lists; categories outside
// crimes/reasons/sentences are rejected.
func NewCatalog(categories ...CategoryRules) (Catalog, error) {
	seen := map[Category]bool{}
	copied := make([]CategoryRules, 0, len(categories))
	for _, c := range categories {
		switch c.Category {
		case CategoryCrimes, CategoryReasons, CategorySentences:
		default:
			return Catalog{}, fmt.Errorf("unknown category %q", c.Category)
		}
		if seen[c.Category] {
			return Catalog{}, fmt.Errorf("duplicate category %q", c.Category)
		}
		seen[c.Category] = true

		for i, r := range c.Rules {
			if r.Label == "" {
				return Catalog{}, fmt.Errorf("category %s rule %d: empty label", c.Category, i)
			}
			if r.Pattern == nil {
				return Catalog{}, fmt.Errorf("category %s rule %q: nil pattern", c.Category, r.Label)
			}
		}
		copied = append(copied, CategoryRules{
			Category: c.Category,
			Rules:    append([]Rule(nil), c.Rules...),
		})
	}
	return Catalog{categories: copied}, nil
}

// Categories returns a copy of the rule lists
func (c Catalog) Categories() []CategoryRules {
	out := make([]CategoryRules, len(c.categories))
	for i, cat := range c.categories {
		out[i] = CategoryRules{Category: cat.Category, Rules: append([]Rule(nil), cat.Rules...)}
	}
	return out
}

// Rules returns the rules of one category, or nil if absent
func (c Catalog) Rules(category Category) []Rule {
	for _, cat := range c.categories {
		if cat.Category == category {
			return append([]Rule(nil), cat.Rules...)
		}
	}
	return nil
}

// DefaultCatalog returns the built-in rule set
func DefaultCatalog() Catalog {
	return Catalog{categories: []CategoryRules{
		{
			Category: CategoryCrimes,
			Rules: []Rule{
				{Label: "叛亂", Pattern: regexp.MustCompile(`(叛亂|懲治叛亂條例)`)},
				{Label: "匪諜/通匪", Pattern: regexp.MustCompile(`(匪諜|通匪|知匪不報|為匪宣傳)`)},
				{Label: "參加叛亂組織", Pattern: regexp.MustCompile(`(參加叛亂組織|加入叛亂組織)`)},
				{Label: "閱讀禁書/思想", Pattern: regexp.MustCompile(`(反動書刊|思想偏狹|閱讀左傾)`)},
				{Label: "槍砲彈藥", Pattern: regexp.MustCompile(`(槍砲|彈藥|刀械)`)},
			},
		},
		{
			Category: CategoryReasons,
			Rules: []Rule{
				{Label: "疑遭刑求", Pattern: regexp.MustCompile(`(刑求|不正訊問|非任意性|自白|逼供)`)},
				{Label: "證據不足", Pattern: regexp.MustCompile(`(證據不足|無其他證據|唯一證據|推測之詞)`)},
				{Label: "違反憲政秩序", Pattern: regexp.MustCompile(`(違反自由民主憲政秩序|違憲|大法官解釋)`)},
				{Label: "審判瑕疵", Pattern: regexp.MustCompile(`(未經審判|管轄錯誤|審判程序違法)`)},
				{Label: "追訴權消滅", Pattern: regexp.MustCompile(`(追訴權|時效完成)`)},
			},
		},
		{
			Category: CategorySentences,
			Rules: []Rule{
				{Label: "死刑", Pattern: regexp.MustCompile(`(主文[\s\S]{0,100}死刑|執行死刑|處死刑)`)},
				{Label: "無期徒刑", Pattern: regexp.MustCompile(`(主文[\s\S]{0,100}無期徒刑|處無期徒刑)`)},
				{Label: "有期徒刑", Pattern: regexp.MustCompile(`(主文[\s\S]{0,100}有期徒刑|處有期徒刑)`)},
				{Label: "感化/感訓", Pattern: regexp.MustCompile(`(感化教育|感訓|交付感化)`)},
				{Label: "沒收財產", Pattern: regexp.MustCompile(`(沒收財產|沒收其財產)`)},
			},
		},
	}}
}

type catalogFile struct {
	Crimes    []ruleFile `yaml:"crimes"`
	Reasons   []ruleFile `yaml:"reasons"`
	Sentences []ruleFile `yaml:"sentences"`
}

type ruleFile struct {
	Label   string `yaml:"label"`
	Pattern string `yaml:"pattern"`
}

// LoadCatalog decodes a YAML catalog of the form
//
//	crimes:
//	  - label: 叛亂
//	    pattern: "(叛亂|懲治叛亂條例)"
//	reasons: [...]
//	sentences: [...]
//
// Unknown top-level keys and invalid patterns are rejected.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}

	sections := []struct {
		category Category
		rules    []ruleFile
	}{
		{CategoryCrimes, file.Crimes},
		{CategoryReasons, file.Reasons},
		{CategorySentences, file.Sentences},
	}

	categories := make([]CategoryRules, 0, len(sections))
	for _, s := range sections {
		rules := make([]Rule, 0, len(s.rules))
		for _, rf := range s.rules {
			re, err := regexp.Compile(rf.Pattern)
			if err != nil {
				return Catalog{}, fmt.Errorf("category %s rule %q: %w", s.category, rf.Label, err)
			}
			rules = append(rules, Rule{Label: rf.Label, Pattern: re})
		}
		categories = append(categories, CategoryRules{Category: s.category, Rules: rules})
	}

	return NewCatalog(categories...)
}
