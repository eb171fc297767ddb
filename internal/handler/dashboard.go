package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daybook/backend/internal/db"
)

type DashboardHandler struct {
	repo *db.Postgres
}

func NewDashboardHandler(repo *db.Postgres) *DashboardHandler {
	return &DashboardHandler{repo: repo}
}

// Stats godoc
// @Summary Get the user's dashboard stats
// @Tags dashboard
// @Produce json
// @Success 200 {object} model.DashboardResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.repo.GetDashboardStats(c.Request.Context(), GetAuthUser(c).ID)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
