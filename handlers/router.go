package handlers

import (
	"net/http"

	"tjarchive-backend/logging"
	"tjarchive-backend/metrics"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the archive routes
func NewRouter(archiveHandler *ArchiveHandler, logger *logging.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(logger))
	if m != nil {
		r.Use(Instrument(m))
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Decision endpoints
		api.GET("/decisions", archiveHandler.ListDecisions)
		api.GET("/decisions/:id", archiveHandler.GetDecision)

		// Revocation endpoints
		api.GET("/revocations", archiveHandler.ListRevocations)
		api.GET("/stats", archiveHandler.GetStatistics)

		// Analysis endpoints
		api.POST("/analysis/tag", archiveHandler.TagText)
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	return r
}
