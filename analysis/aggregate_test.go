package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tjarchive-backend/models"
)

func severityCount(buckets []models.FrequencyBucket, name string) int {
	for _, b := range buckets {
		if b.Name == name {
			return b.Count
		}
	}
	return -1
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	stats := NewAggregator(DefaultAggregateRules()).Aggregate(nil)

	assert.Empty(t, stats.ByCourt)
	assert.Empty(t, stats.ByCrime)
	require.Len(t, stats.BySeverity, 4)
	for _, b := range stats.BySeverity {
		assert.Zero(t, b.Count)
	}
}

func TestAggregateExampleScenario(t *testing.T) {
	t.Parallel()

	records := []models.Revocation{
		{
			Category: 1,
			Court:    models.Scalar("台灣省台北地方法院"),
			CaseID:   models.Scalar("A1"),
			Crime:    models.Scalar("叛亂"),
			Sentence: models.Scalar("處death-free-text 死刑"),
			Name:     "甲",
		},
		{
			Category: 2,
			Court:    models.Scalar("台北地方法院"),
			CaseID:   models.Scalar("A2"),
			Crime:    models.Scalar("參加叛亂組織"),
			Sentence: models.Scalar("有期徒刑十年"),
			Name:     "乙",
		},
	}

	stats := NewAggregator(DefaultAggregateRules()).Aggregate(records)

	assert.Equal(t, []models.FrequencyBucket{{Name: "台北地方法院", Count: 2}}, stats.ByCourt)
	assert.Equal(t, 1, severityCount(stats.BySeverity, "死刑"))
	assert.Equal(t, 1, severityCount(stats.BySeverity, "有期徒刑"))
	assert.Equal(t, 0, severityCount(stats.BySeverity, "無期徒刑"))
	assert.Equal(t, 0, severityCount(stats.BySeverity, "感化/感訓"))

	page := FilterAndPage(records, RevocationQuery{Search: "甲", Page: 1, PageSize: 15})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "甲", page.Items[0].Name)
}

func TestByCourtFlattensListsAndNormalizes(t *testing.T) {
	t.Parallel()

	records := []models.Revocation{
		{Court: models.List("國防部高等軍法庭", " 臺灣省保安司令部 ")},
		{Court: models.Scalar("台灣省保安司令部")},
		{Court: models.Scalar("")},
		{Court: models.List()},
	}

	buckets := NewAggregator(DefaultAggregateRules()).ByCourt(records)
	assert.Equal(t, []models.FrequencyBucket{
		{Name: "保安司令部", Count: 2},
		{Name: "高等軍法庭", Count: 1},
	}, buckets)
}

func TestByCourtTopTenStableTies(t *testing.T) {
	t.Parallel()

	var records []models.Revocation
	for i := 0; i < 12; i++ {
		records = append(records, models.Revocation{Court: models.Scalar(fmt.Sprintf("法院%02d", i))})
	}
	records = append(records, models.Revocation{Court: models.Scalar("法院11")})

	buckets := NewAggregator(DefaultAggregateRules()).ByCourt(records)
	require.Len(t, buckets, 10)
	assert.Equal(t, models.FrequencyBucket{Name: "法院11", Count: 2}, buckets[0])
	// remaining ties keep first-seen order
	for i := 1; i < 10; i++ {
		assert.Equal(t, fmt.Sprintf("法院%02d", i-1), buckets[i].Name)
	}
}

func TestClassifyCrimePriority(t *testing.T) {
	t.Parallel()

	agg := NewAggregator(DefaultAggregateRules())

	cases := []struct {
		input string
		want  string
	}{
		{"懲治叛亂條例第二條第一項", "叛亂罪"},
		{"參加叛亂之組織", "叛亂罪"},
		{"匪諜", "匪諜案件"},
		{"交付感訓", "感化教育"},
		{"為匪宣傳", "為匪宣傳"},
		{"散布反動宣傳", "為匪宣傳"},
		{"知情不報", "知匪不報"},
		{"竊盜、妨害公務", "竊盜"},
		{"戡亂時期檢肅流氓條例違反者", "戡亂時期檢肅流氓"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, agg.ClassifyCrime(tc.input), tc.input)
	}
}

func TestByCrimeTopEight(t *testing.T) {
	t.Parallel()

	var records []models.Revocation
	for i := 0; i < 10; i++ {
		records = append(records, models.Revocation{Crime: models.Scalar(fmt.Sprintf("罪名%d", i))})
	}
	records = append(records, models.Revocation{Crime: models.List("叛亂", "匪諜", "叛亂")})

	buckets := NewAggregator(DefaultAggregateRules()).ByCrime(records)
	require.Len(t, buckets, 8)
	assert.Equal(t, models.FrequencyBucket{Name: "叛亂罪", Count: 2}, buckets[0])
	assert.Equal(t, "罪名0", buckets[1].Name)
	assert.Equal(t, "罪名1", buckets[2].Name)
}

func TestBySeverityCountsIndependentBuckets(t *testing.T) {
	t.Parallel()

	records := []models.Revocation{
		{Sentence: models.List("死刑", "無期徒刑")},
		{Sentence: models.Scalar("有期徒刑十二年，交付感化教育")},
		{Sentence: models.Scalar("感訓處分三年")},
		{Sentence: models.Scalar("")},
	}

	buckets := NewAggregator(DefaultAggregateRules()).BySeverity(records)
	assert.Equal(t, []models.FrequencyBucket{
		{Name: "死刑", Count: 1},
		{Name: "無期徒刑", Count: 1},
		{Name: "有期徒刑", Count: 1},
		{Name: "感化/感訓", Count: 2},
	}, buckets)
}

func TestBySeverityMatchesWithinOneEntry(t *testing.T) {
	t.Parallel()

	records := []models.Revocation{
		{Sentence: models.List("死", "刑")},
		{Sentence: models.List("無期", "徒刑")},
	}

	buckets := NewAggregator(DefaultAggregateRules()).BySeverity(records)
	assert.Equal(t, 0, severityCount(buckets, "死刑"))
	assert.Equal(t, 1, severityCount(buckets, "無期徒刑"))
}

func TestAggregatorCustomRules(t *testing.T) {
	t.Parallel()

	rules := AggregateRules{
		CourtPrefixes: []string{"臺灣"},
		CourtLimit:    1,
		SeverityBuckets: []SeverityBucket{
			{Name: "罰金", Markers: []string{"罰金"}},
		},
	}
	records := []models.Revocation{
		{Court: models.Scalar("臺灣高等法院"), Sentence: models.Scalar("罰金")},
		{Court: models.Scalar("高等法院")},
		{Court: models.Scalar("地方法院")},
	}

	stats := NewAggregator(rules).Aggregate(records)
	assert.Equal(t, []models.FrequencyBucket{{Name: "高等法院", Count: 2}}, stats.ByCourt)
	assert.Equal(t, []models.FrequencyBucket{{Name: "罰金", Count: 1}}, stats.BySeverity)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	linked := "促轉司字第1號_json"
	records := []models.Revocation{
		{Category: 1, LinkedDecisionID: &linked},
		{Category: 1},
		{Category: 2},
	}

	summary := Summarize(records, 7)
	assert.Equal(t, models.ArchiveSummary{
		TotalRevocations:   3,
		CompensationCount:  2,
		CommissionCount:    1,
		DigitizedDecisions: 7,
		LinkedRevocations:  1,
	}, summary)
}
