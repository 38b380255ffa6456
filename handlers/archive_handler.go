package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tjarchive-backend/models"
	"tjarchive-backend/service"

	"github.com/gin-gonic/gin"
)

// ArchiveHandler handles HTTP requests for the archive views
type ArchiveHandler struct {
	archiveService *service.ArchiveService
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(archiveService *service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{
		archiveService: archiveService,
	}
}

// ListDecisions handles GET /api/decisions
func (h *ArchiveHandler) ListDecisions(c *gin.Context) {
	result, err := h.archiveService.ListDecisions(c.Request.Context(), service.ListDecisionsRequest{
		Query: c.Query("q"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":   result.Items,
			"matched": len(result.Items),
			"total":   result.Total,
		},
	})
}

// GetDecision handles GET /api/decisions/:id
func (h *ArchiveHandler) GetDecision(c *gin.Context) {
	result, err := h.archiveService.GetDecision(c.Request.Context(), service.GetDecisionRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDecisionNotFound):
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Decision not found")
		default:
			respondError(c, http.StatusBadGateway, "DECISION_UNAVAILABLE", "Decision could not be loaded")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"decision":    result.Decision,
			"tags":        result.Tags,
			"case_serial": result.CaseSerial,
		},
	})
}

// ListRevocations handles GET /api/revocations
func (h *ArchiveHandler) ListRevocations(c *gin.Context) {
	req := service.ListRevocationsRequest{
		Search: c.Query("q"),
	}

	if raw := c.Query("category"); raw != "" && raw != "all" {
		n, err := strconv.Atoi(raw)
		if err != nil || (n != int(models.CategoryCompensation) && n != int(models.CategoryCommission)) {
			respondError(c, http.StatusBadRequest, "INVALID_QUERY", "category must be 1, 2 or all")
			return
		}
		category := models.RevocationCategory(n)
		req.Category = &category
	}

	var ok bool
	if req.Page, ok = positiveQuery(c, "page"); !ok {
		return
	}
	if req.PageSize, ok = positiveQuery(c, "page_size"); !ok {
		return
	}

	result, err := h.archiveService.ListRevocations(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	counts := gin.H{}
	for category, n := range result.Counts {
		counts[strconv.Itoa(int(category))] = n
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"page":   result.Page,
			"counts": counts,
			"total":  result.Total,
		},
	})
}

// GetStatistics handles GET /api/stats
func (h *ArchiveHandler) GetStatistics(c *gin.Context) {
	result, err := h.archiveService.Statistics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"statistics": result.Statistics,
			"summary":    result.Summary,
		},
	})
}

// TagTextRequest represents the request body for tagging free text
type TagTextRequest struct {
	Text string `json:"text"`
}

// TagText handles POST /api/analysis/tag
func (h *ArchiveHandler) TagText(c *gin.Context) {
	var req TagTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	tags := h.archiveService.Tag(c.Request.Context(), service.TagRequest{Text: req.Text})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tags,
	})
}

// positiveQuery parses an optional positive integer query parameter.
// It writes the error response itself and reports false on bad input.
func positiveQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		respondError(c, http.StatusBadRequest, "INVALID_QUERY", name+" must be a positive integer")
		return 0, false
	}
	return n, true
}

func respondServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotLoaded) {
		respondError(c, http.StatusServiceUnavailable, "NOT_READY", "Archive is not loaded")
		return
	}
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
