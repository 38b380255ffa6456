package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionFileKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "促轉司字第5號_王某.json", DecisionFileKey("促轉司字第5號_王某_json"))
	assert.Equal(t, "already.json", DecisionFileKey("already.json"))
	assert.Equal(t, "x_json_suffix", DecisionFileKey("x_json_suffix"))
}

func TestDecisionIDFromFilename(t *testing.T) {
	t.Parallel()

	id := DecisionIDFromFilename("促轉司字第5號.json")
	assert.Equal(t, "促轉司字第5號_json", id)
	assert.Equal(t, "促轉司字第5號.json", DecisionFileKey(id))
}

func TestCaseSerial(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5號", CaseSerial("促轉司字第5號_json"))
	assert.Equal(t, "復查字第2號", CaseSerial("復查字第2號_json"))
	assert.Equal(t, "plain", CaseSerial("plain"))
}

func TestReasoningNodeWalk(t *testing.T) {
	t.Parallel()

	tree := ReasoningNode{
		Text: "一、",
		Children: []ReasoningNode{
			{Text: "(一)", Children: []ReasoningNode{{Text: "1."}}},
			{Text: "(二)"},
		},
	}

	var visited []string
	var depths []int
	tree.Walk(func(node ReasoningNode, depth int) bool {
		visited = append(visited, node.Text)
		depths = append(depths, depth)
		return true
	})

	assert.Equal(t, []string{"一、", "(一)", "1.", "(二)"}, visited)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
}

func TestReasoningNodeWalkSkipsChildren(t *testing.T) {
	t.Parallel()

	tree := ReasoningNode{
		Text: "root",
		Children: []ReasoningNode{
			{Text: "skip", Children: []ReasoningNode{{Text: "hidden"}}},
			{Text: "keep"},
		},
	}

	var visited []string
	tree.Walk(func(node ReasoningNode, depth int) bool {
		visited = append(visited, node.Text)
		return node.Text != "skip"
	})

	assert.Equal(t, []string{"root", "skip", "keep"}, visited)
}

func TestDecisionUnmarshalNullableMetadata(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": "促轉司字第5號_json",
		"metadata": {"case_no": "促轉司字第5號", "applicant": null, "subject": "王某", "date": null},
		"content": {"main_text": "視為撤銷"},
		"structured_reasoning": [{"text": "一、", "level": 1, "content": ["段落"], "children": []}]
	}`

	var d Decision
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	assert.Equal(t, "促轉司字第5號", StringValue(d.Metadata.CaseNo))
	assert.Nil(t, d.Metadata.Applicant)
	assert.Equal(t, "", StringValue(d.Metadata.Date))
	assert.Equal(t, "視為撤銷", d.Content.MainText)
	require.Len(t, d.StructuredReasoning, 1)
	assert.Equal(t, []string{"段落"}, d.StructuredReasoning[0].Content)
}
