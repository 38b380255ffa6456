package analysis

import (
	"sort"
	"strings"

	"tjarchive-backend/models"
)

// CrimeBucket maps crime descriptions containing any of Markers to Name
type CrimeBucket struct {
	Name    string
	Markers []string
}

// SeverityBucket counts records whose sentence contains any of Markers
type SeverityBucket struct {
	Name    string
	Markers []string
}

// AggregateRules configures the statistics computed over the revocation feed
type AggregateRules struct {
	// CourtPrefixes are administrative qualifiers removed from court names
	CourtPrefixes []string
	CourtLimit    int

	// CrimeBuckets are evaluated in order; the first match wins
	CrimeBuckets []CrimeBucket
	// Unmatched crimes are keyed by the text before CrimeSeparator,
	// truncated to CrimeKeyLength runes
	CrimeSeparator string
	CrimeKeyLength int
	CrimeLimit     int

	SeverityBuckets []SeverityBucket
}

// DefaultAggregateRules returns the rules used by the archive statistics page
func DefaultAggregateRules() AggregateRules {
	return AggregateRules{
		CourtPrefixes: []string{"台灣省", "臺灣省", "國防部"},
		CourtLimit:    10,
		CrimeBuckets: []CrimeBucket{
			{Name: "叛亂罪", Markers: []string{"叛亂"}},
			{Name: "匪諜案件", Markers: []string{"匪諜"}},
			{Name: "參加叛亂組織", Markers: []string{"參加叛亂", "加入叛亂"}},
			{Name: "感化教育", Markers: []string{"感化", "感訓"}},
			{Name: "為匪宣傳", Markers: []string{"宣傳"}},
			{Name: "知匪不報", Markers: []string{"不報"}},
		},
		CrimeSeparator: "、",
		CrimeKeyLength: 8,
		CrimeLimit:     8,
		SeverityBuckets: []SeverityBucket{
			{Name: "死刑", Markers: []string{"死刑"}},
			{Name: "無期徒刑", Markers: []string{"無期"}},
			{Name: "有期徒刑", Markers: []string{"有期"}},
			{Name: "感化/感訓", Markers: []string{"感化", "感訓"}},
		},
	}
}

// Aggregator computes frequency distributions over revocation records
type Aggregator struct {
	rules AggregateRules
}

// NewAggregator creates an aggregator bound to rules
func NewAggregator(rules AggregateRules) *Aggregator {
	return &Aggregator{rules: rules}
}

// Aggregate computes the court, crime and severity distributions
func (a *Aggregator) Aggregate(records []models.Revocation) models.Statistics {
	return models.Statistics{
		ByCourt:    a.ByCourt(records),
		ByCrime:    a.ByCrime(records),
		BySeverity: a.BySeverity(records),
	}
}

// ByCourt counts court-name occurrences after normalization
func (a *Aggregator) ByCourt(records []models.Revocation) []models.FrequencyBucket {
	counter := newCounter()
	for _, r := range records {
		for _, court := range r.Court.Values() {
			if court == "" {
				continue
			}
			counter.add(a.NormalizeCourt(court))
		}
	}
	return counter.ranked(a.rules.CourtLimit)
}

// NormalizeCourt strips the administrative prefixes and surrounding whitespace
func (a *Aggregator) NormalizeCourt(court string) string {
	for _, prefix := range a.rules.CourtPrefixes {
		if prefix == "" {
			continue
		}
		court = strings.ReplaceAll(court, prefix, "")
	}
	return strings.TrimSpace(court)
}

// ByCrime counts individual crime descriptions by coarse bucket
func (a *Aggregator) ByCrime(records []models.Revocation) []models.FrequencyBucket {
	counter := newCounter()
	for _, r := range records {
		for _, crime := range r.Crime.Values() {
			if crime == "" {
				continue
			}
			counter.add(a.ClassifyCrime(crime))
		}
	}
	return counter.ranked(a.rules.CrimeLimit)
}

// ClassifyCrime returns the bucket name for one crime description
func (a *Aggregator) ClassifyCrime(crime string) string {
	for _, bucket := range a.rules.CrimeBuckets {
		if containsAny(crime, bucket.Markers) {
			return bucket.Name
		}
	}

	key := crime
	if a.rules.CrimeSeparator != "" {
		key, _, _ = strings.Cut(crime, a.rules.CrimeSeparator)
	}
	if a.rules.CrimeKeyLength > 0 {
		if runes := []rune(key); len(runes) > a.rules.CrimeKeyLength {
			key = string(runes[:a.rules.CrimeKeyLength])
		}
	}
	return key
}

// BySeverity counts records per severity bucket. A record whose sentence
// carries several markers is counted in each matching bucket.
func (a *Aggregator) BySeverity(records []models.Revocation) []models.FrequencyBucket {
	buckets := make([]models.FrequencyBucket, len(a.rules.SeverityBuckets))
	for i, b := range a.rules.SeverityBuckets {
		buckets[i] = models.FrequencyBucket{Name: b.Name}
	}

	for _, r := range records {
		sentence := r.Sentence.Joined(" ")
		if sentence == "" {
			continue
		}
		for i, b := range a.rules.SeverityBuckets {
			if containsAny(sentence, b.Markers) {
				buckets[i].Count++
			}
		}
	}

	return buckets
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// counter tallies names while remembering first-seen order for ties
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

func (c *counter) ranked(limit int) []models.FrequencyBucket {
	buckets := make([]models.FrequencyBucket, 0, len(c.order))
	for _, name := range c.order {
		buckets = append(buckets, models.FrequencyBucket{Name: name, Count: c.counts[name]})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})

	if limit > 0 && len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets
}

// Summarize computes the headline counts shown above the statistics
func Summarize(records []models.Revocation, decisions int) models.ArchiveSummary {
	counts := CountByCategory(records)
	summary := models.ArchiveSummary{
		TotalRevocations:   len(records),
		CompensationCount:  counts[models.CategoryCompensation],
		CommissionCount:    counts[models.CategoryCommission],
		DigitizedDecisions: decisions,
	}
	for _, r := range records {
		if r.HasDecision() {
			summary.LinkedRevocations++
		}
	}
	return summary
}
