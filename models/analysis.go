package models

// TagResult holds the labels matched per category, in catalog order
type TagResult struct {
	Crimes    []string `json:"crimes"`
	Reasons   []string `json:"reasons"`
	Sentences []string `json:"sentences"`
}

// NewTagResult returns a result with all categories empty
func NewTagResult() TagResult {
	return TagResult{
		Crimes:    []string{},
		Reasons:   []string{},
		Sentences: []string{},
	}
}

// IsEmpty reports whether no label matched
func (t TagResult) IsEmpty() bool {
	return len(t.Crimes) == 0 && len(t.Reasons) == 0 && len(t.Sentences) == 0
}

// FrequencyBucket is one entry of a ranked distribution
type FrequencyBucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RevocationPage is one page of filtered revocation records
type RevocationPage struct {
	Items        []Revocation `json:"items"`
	Page         int          `json:"page"`
	PageSize     int          `json:"page_size"`
	TotalMatched int          `json:"total_matched"`
	TotalPages   int          `json:"total_pages"`
}

// Statistics holds the aggregate distributions of the revocation feed
type Statistics struct {
	ByCourt    []FrequencyBucket `json:"by_court"`
	ByCrime    []FrequencyBucket `json:"by_crime"`
	BySeverity []FrequencyBucket `json:"by_severity"`
}

// ArchiveSummary holds the headline counts of the archive
type ArchiveSummary struct {
	TotalRevocations   int `json:"total_revocations"`
	CompensationCount  int `json:"compensation_count"`
	CommissionCount    int `json:"commission_count"`
	DigitizedDecisions int `json:"digitized_decisions"`
	LinkedRevocations  int `json:"linked_revocations"`
}
