package api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// initDashboardRoutes registers dashboard-related API endpoints
func (c *Controller) initDashboardRoutes() {
	c.Group.GET("/dashboard", c.GetDashboard)
}

// GetDashboard handles GET /api/v2/dashboard.
// It returns one full snapshot: horizon forecast, unit-wide verdict,
// per-equipment verdicts and recent mission feedback.
func (c *Controller) GetDashboard(ctx echo.Context) error {
	snapshot, err := c.Dashboard.BuildSnapshot()
	if err != nil {
		return c.HandleStoreError(ctx, err, "Failed to build dashboard snapshot")
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Dashboard snapshot served",
		"max_predicted_error", snapshot.MaxPredictedError,
		"overall_risk", snapshot.OverallRisk.String(),
		"equipment", len(snapshot.Equipment),
	)

	return ctx.JSON(http.StatusOK, snapshot)
}
