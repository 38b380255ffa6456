package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tjarchive-backend/client"
	"tjarchive-backend/models"
)

func strPtr(s string) *string { return &s }

func sampleDetail() *client.DecisionDetail {
	return &client.DecisionDetail{
		Decision: models.Decision{
			ID: "促轉司字第5號_json",
			Metadata: models.DecisionMetadata{
				CaseNo:  strPtr("促轉司字第5號"),
				Subject: strPtr("林某"),
			},
			Content: models.DecisionContent{MainText: "原有罪判決撤銷。"},
			StructuredReasoning: []models.ReasoningNode{
				{
					Text:    "壹、程序部分",
					Content: []string{"申請人依法申請。"},
					Children: []models.ReasoningNode{
						{Text: "一、管轄", Content: []string{"本會有權處理。"}},
					},
				},
			},
		},
		Tags:       models.TagResult{Crimes: []string{"叛亂"}, Reasons: []string{}, Sentences: []string{"死刑"}},
		CaseSerial: "5號",
	}
}

func TestRenderDecision(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderDecision(&buf, sampleDetail(), "")
	out := buf.String()

	assert.Contains(t, out, "促轉司字第5號\n")
	assert.Contains(t, out, "serial:    5號")
	assert.Contains(t, out, "applicant: -")
	assert.Contains(t, out, "crimes:    叛亂")
	assert.Contains(t, out, "reasons:   -")
	assert.Contains(t, out, "\n  壹、程序部分\n    申請人依法申請。\n")
	assert.Contains(t, out, "\n    一、管轄\n      本會有權處理。\n")
	assert.NotContains(t, out, highlightStart)
}

func TestRenderDecisionHighlights(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderDecision(&buf, sampleDetail(), "撤銷")
	assert.Contains(t, buf.String(), "原有罪判決"+highlightStart+"撤銷"+highlightEnd+"。")
}

func TestRenderTagsEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderTags(&buf, models.NewTagResult())
	assert.Equal(t, "  tags:      -\n", buf.String())
}

func TestRenderRevocations(t *testing.T) {
	t.Parallel()

	var list client.RevocationList
	require.NoError(t, json.Unmarshal([]byte(`{
		"page": {"items": [{"id": 3, "name": "王某", "category": 2, "court": ["臺灣警備總司令部", "國防部"], "case_id": "A1", "linked_decision_id": "促轉司字第5號_json"}],
			"page": 1, "page_size": 15, "total_matched": 1, "total_pages": 1},
		"counts": {"1": 0, "2": 1},
		"total": 4
	}`), &list))

	var buf bytes.Buffer
	renderRevocations(&buf, &list)
	out := buf.String()

	assert.Contains(t, out, "臺灣警備總司令部、國防部")
	assert.Contains(t, out, "-> 促轉司字第5號_json")
	assert.Contains(t, out, "page 1/1, 1 matched of 4")
	assert.Contains(t, out, "第二類：促轉會 1")
}

func TestBrowseRendersEachSelection(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/missing_json") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"Decision not found"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": sampleDetail()})
	}))
	t.Cleanup(srv.Close)

	selector := client.NewSelector(client.NewClient(srv.URL))

	var out bytes.Buffer
	err := browse(context.Background(), strings.NewReader("missing_json\n"), &out, selector)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "missing_json: 無法載入檔案")

	out.Reset()
	err = browse(context.Background(), strings.NewReader("\n促轉司字第5號_json\n"), &out, selector)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "serial:    5號")

	id, detail, lastErr := selector.Current()
	assert.Equal(t, "促轉司字第5號_json", id)
	require.NoError(t, lastErr)
	assert.Equal(t, "5號", detail.CaseSerial)
}

type delayedFetcher struct{}

func (delayedFetcher) GetDecision(ctx context.Context, id string) (*client.DecisionDetail, error) {
	time.Sleep(time.Millisecond)
	return &client.DecisionDetail{
		Decision:   models.Decision{ID: id, Metadata: models.DecisionMetadata{CaseNo: strPtr(id)}},
		Tags:       models.NewTagResult(),
		CaseSerial: id,
	}, nil
}

func TestBrowseLastLineWins(t *testing.T) {
	t.Parallel()

	input := "a\nb\nc\nd\ne\nf\ng\nlast\n"
	for i := 0; i < 50; i++ {
		selector := client.NewSelector(delayedFetcher{})

		var out bytes.Buffer
		require.NoError(t, browse(context.Background(), strings.NewReader(input), &out, selector))

		id, detail, err := selector.Current()
		require.NoError(t, err)
		require.Equal(t, "last", id)
		require.NotNil(t, detail)
		require.Equal(t, "last", detail.CaseSerial)
		require.Contains(t, out.String(), "serial:    last")
	}
}
