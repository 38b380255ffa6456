package analysis

import (
	"strings"

	"tjarchive-backend/models"
)

// Tagger assigns catalog labels to free text
type Tagger struct {
	catalog Catalog
}

// NewTagger creates a tagger bound to a catalog
func NewTagger(catalog Catalog) *Tagger {
	return &Tagger{catalog: catalog}
}

// Tag evaluates every rule against text. A label is reported once per
// category no matter how often its pattern matches.
func (t *Tagger) Tag(text string) models.TagResult {
	result := models.NewTagResult()
	if text == "" {
		return result
	}

	for _, cat := range t.catalog.categories {
		for _, rule := range cat.Rules {
			if !rule.Pattern.MatchString(text) {
				continue
			}
			switch cat.Category {
			case CategoryCrimes:
				result.Crimes = appendUnique(result.Crimes, rule.Label)
			case CategoryReasons:
				result.Reasons = appendUnique(result.Reasons, rule.Label)
			case CategorySentences:
				result.Sentences = appendUnique(result.Sentences, rule.Label)
			}
		}
	}

	return result
}

// TagDecision tags the concatenated prose of a decision
func (t *Tagger) TagDecision(d *models.Decision) models.TagResult {
	return t.Tag(DecisionText(d))
}

// DecisionText joins full text, main text and reasoning in that order
func DecisionText(d *models.Decision) string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(d.Content.FullText)
	b.WriteString(d.Content.MainText)
	b.WriteString(d.Content.Reasoning)
	return b.String()
}

func appendUnique(labels []string, label string) []string {
	for _, l := range labels {
		if l == label {
			return labels
		}
	}
	return append(labels, label)
}
