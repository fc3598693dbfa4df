package stats

import (
	"errors"
	"net/http"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	httperr "github.com/aevon-lab/siteflow/internal/core/errors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the stats routes on the given router.
func (e *Engine) RegisterRoutes(r gin.IRouter) {
	r.GET("/stats", e.HandleStats)

	// Versioned alias.
	r.GET("/v1/stats", e.HandleStats)
}

// HandleStats handles GET /stats?site_id=&date=
func (e *Engine) HandleStats(c *gin.Context) {
	var query v1.StatsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpValidationError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	result, err := e.Compute(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, httperr.ErrValidation) {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpValidationError,
				Message:   "Invalid stats query",
				Details:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpAggregationError,
			Message:   "Failed to compute stats",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
