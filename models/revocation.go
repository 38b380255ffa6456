package models

import (
	"encoding/json"
	"fmt"
)

// RevocationCategory represents the statutory remedy track of an announcement
type RevocationCategory int

const (
	CategoryCompensation RevocationCategory = 1
	CategoryCommission   RevocationCategory = 2
)

// Label returns the display name used by the archive
func (c RevocationCategory) Label() string {
	switch c {
	case CategoryCompensation:
		return "第一類：賠補償"
	case CategoryCommission:
		return "第二類：促轉會"
	default:
		return fmt.Sprintf("第%d類", int(c))
	}
}

// Revocation represents one announcement voiding a historical criminal judgment.
// When several of Court, CaseID, Crime and Sentence are lists, entries at the
// same position refer to the same judgment.
type Revocation struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Category         RevocationCategory `json:"category"`
	Court            MultiValue         `json:"court"`
	CaseID           MultiValue         `json:"case_id"`
	Crime            MultiValue         `json:"crime"`
	Sentence         MultiValue         `json:"sentence"`
	LinkedDecisionID *string            `json:"linked_decision_id,omitempty"`
}

// HasDecision reports whether a digitized decision is linked to the record
func (r Revocation) HasDecision() bool {
	return r.LinkedDecisionID != nil && *r.LinkedDecisionID != ""
}

// UnmarshalJSON decodes a record and rejects values whose id is not a string
// or number (feeds use both).
func (r *Revocation) UnmarshalJSON(data []byte) error {
	type alias Revocation
	aux := struct {
		ID json.RawMessage `json:"id"`
		*alias
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := decodeID(aux.ID)
	if err != nil {
		return fmt.Errorf("revocation id: %w", err)
	}
	r.ID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("unsupported value %s", truncate(string(raw), 32))
}
