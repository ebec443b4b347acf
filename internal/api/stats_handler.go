package api

import (
	"alcyxob/fitplan/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats godoc
// @Summary Dashboard counters
// @Description Active workouts, total clients and PDFs exported since start.
// @Tags Stats
// @Produce json
// @Success 200 {object} service.Stats
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err, "Failed to read stats.")
		return
	}
	c.JSON(http.StatusOK, stats)
}
