package models

import "strings"

const (
	decisionIDSuffix   = "_json"
	decisionFileSuffix = ".json"
	caseSerialPrefix   = "促轉司字第"
)

// DecisionMetadata represents the header fields of a decision document
type DecisionMetadata struct {
	CaseNo    *string `json:"case_no"`
	Applicant *string `json:"applicant"`
	Subject   *string `json:"subject"`
	Date      *string `json:"date"`
}

// DecisionContent represents the prose sections of a decision
type DecisionContent struct {
	FullText  string `json:"full_text,omitempty"`
	MainText  string `json:"main_text,omitempty"`
	Facts     string `json:"facts,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
}

// ReasoningNode represents a heading in the structured reasoning tree
type ReasoningNode struct {
	Text     string          `json:"text"`
	Level    int             `json:"level"`
	Content  []string        `json:"content"`
	Children []ReasoningNode `json:"children"`
}

// Walk visits the node and its descendants depth-first in document order.
// Returning false from fn skips the node's children.
func (n ReasoningNode) Walk(fn func(node ReasoningNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n ReasoningNode) walk(fn func(node ReasoningNode, depth int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// Decision represents a committee ruling document
type Decision struct {
	ID                  string           `json:"id"`
	Filename            string           `json:"filename,omitempty"`
	Metadata            DecisionMetadata `json:"metadata"`
	Content             DecisionContent  `json:"content"`
	StructuredReasoning []ReasoningNode  `json:"structured_reasoning,omitempty"`
	Tables              []any            `json:"tables,omitempty"`
}

// DecisionIndexItem represents one entry of the decision index
type DecisionIndexItem struct {
	ID       string           `json:"id"`
	Filename string           `json:"filename"`
	Metadata DecisionMetadata `json:"metadata"`
}

// DecisionFileKey translates an index id into the detail file name
func DecisionFileKey(id string) string {
	if strings.HasSuffix(id, decisionIDSuffix) {
		return strings.TrimSuffix(id, decisionIDSuffix) + decisionFileSuffix
	}
	return id
}

// DecisionIDFromFilename derives the index id of a detail file
func DecisionIDFromFilename(filename string) string {
	return strings.ReplaceAll(filename, ".", "_")
}

// CaseSerial extracts the short case serial shown on the document header
func CaseSerial(id string) string {
	head, _, _ := strings.Cut(id, "_")
	return strings.Replace(head, caseSerialPrefix, "", 1)
}

// StringValue dereferences a nullable metadata field
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
