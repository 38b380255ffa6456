package analysis

import (
	"strings"

	"tjarchive-backend/models"
)

// DefaultPageSize is the revocation table page size
const DefaultPageSize = 15

// RevocationQuery describes a search over the revocation list
type RevocationQuery struct {
	Search   string
	Category *models.RevocationCategory
	Page     int
	PageSize int
}

// Matches reports whether a record satisfies the search term and category
func (q RevocationQuery) Matches(r models.Revocation) bool {
	if q.Category != nil && r.Category != *q.Category {
		return false
	}
	if q.Search == "" {
		return true
	}
	return strings.Contains(r.Name, q.Search) || strings.Contains(r.CaseID.Joined(""), q.Search)
}

// FilterAndPage selects the records matching query and slices out the
// requested page. The input slice is never modified.
func FilterAndPage(records []models.Revocation, query RevocationQuery) models.RevocationPage {
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	matched := make([]models.Revocation, 0, len(records))
	for _, r := range records {
		if query.Matches(r) {
			matched = append(matched, r)
		}
	}

	totalPages := (len(matched) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	items := []models.Revocation{}
	if query.Page >= 1 {
		start := (query.Page - 1) * pageSize
		if start < len(matched) {
			end := start + pageSize
			if end > len(matched) {
				end = len(matched)
			}
			items = append(items, matched[start:end]...)
		}
	}

	return models.RevocationPage{
		Items:        items,
		Page:         query.Page,
		PageSize:     pageSize,
		TotalMatched: len(matched),
		TotalPages:   totalPages,
	}
}

// CountByCategory counts records per category
func CountByCategory(records []models.Revocation) map[models.RevocationCategory]int {
	counts := make(map[models.RevocationCategory]int)
	for _, r := range records {
		counts[r.Category]++
	}
	return counts
}
