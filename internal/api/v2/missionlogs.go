package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
	"github.com/now-man/a4s-dshbrd-250831/internal/timeseries"
)

// initLogRoutes registers mission feedback API endpoints
func (c *Controller) initLogRoutes() {
	c.Group.GET("/logs", c.ListMissionLogs)
	c.Group.POST("/logs", c.CreateMissionLog)
	c.Group.GET("/logs/:id/series", c.ExportMissionLogSeries)
	c.Group.DELETE("/logs/:id", c.DeleteMissionLog)

	// destructive bulk wipe runs as a two-step confirmation flow
	c.Group.POST("/logs/clear/request", c.RequestClearLogs)
	c.Group.POST("/logs/clear/execute", c.ExecuteClearLogs)
}

// MissionLogRequest is one mission feedback submission. Samples may arrive
// either inline in the "series" field as CSV text, or as a multipart file
// upload under the "series" form key.
type MissionLogRequest struct {
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Equipment    string    `json:"equipment"`
	SuccessScore int       `json:"successScore"`
	Series       string    `json:"series"`
}

// ListMissionLogs handles GET /api/v2/logs. An optional equipment query
// parameter filters by equipment name.
func (c *Controller) ListMissionLogs(ctx echo.Context) error {
	var (
		logs []datastore.MissionLog
		err  error
	)
	if name := ctx.QueryParam("equipment"); name != "" {
		logs, err = c.DS.MissionLogsByEquipment(name)
	} else {
		logs, err = c.DS.GetAllMissionLogs()
	}
	if err != nil {
		return c.HandleStoreError(ctx, err, "Failed to list mission logs")
	}
	return ctx.JSON(http.StatusOK, logs)
}

// CreateMissionLog handles POST /api/v2/logs. The series, when present, is
// parsed before anything is stored; a malformed series rejects the entire
// submission.
func (c *Controller) CreateMissionLog(ctx echo.Context) error {
	var req MissionLogRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid mission log payload", http.StatusBadRequest)
	}

	series := req.Series
	if series == "" {
		uploaded, err := seriesFromUpload(ctx)
		if err != nil {
			return c.HandleError(ctx, err, "Failed to read uploaded series file", http.StatusBadRequest)
		}
		series = uploaded
	}

	log := &datastore.MissionLog{
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Equipment:    req.Equipment,
		SuccessScore: req.SuccessScore,
	}
	if err := c.Dashboard.SubmitFeedback(log, series); err != nil {
		return c.HandleStoreError(ctx, err, "Failed to record mission feedback")
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Mission feedback recorded",
		"id", log.ID, "equipment", log.Equipment, "score", log.SuccessScore)
	return ctx.JSON(http.StatusCreated, log)
}

// seriesFromUpload reads an optional multipart series file. Returns empty
// when the request carries no file.
func seriesFromUpload(ctx echo.Context) (string, error) {
	fileHeader, err := ctx.FormFile("series")
	if err != nil {
		return "", nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ExportMissionLogSeries handles GET /api/v2/logs/:id/series, rendering the
// stored samples back into the upload format.
func (c *Controller) ExportMissionLogSeries(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid mission log id", http.StatusBadRequest)
	}

	log, err := c.DS.GetMissionLog(uint(id))
	if err != nil {
		return c.HandleStoreError(ctx, err, "Mission log not found")
	}

	samples := make([]timeseries.ErrorSample, 0, len(log.Samples))
	for i := range log.Samples {
		samples = append(samples, timeseries.ErrorSample{
			Timestamp:   log.Samples[i].Timestamp,
			ErrorMeters: log.Samples[i].ErrorMeters,
			Lat:         log.Samples[i].Lat,
			Lon:         log.Samples[i].Lon,
		})
	}

	return ctx.Blob(http.StatusOK, "text/csv", []byte(timeseries.FormatErrorSeries(samples)))
}

// DeleteMissionLog handles DELETE /api/v2/logs/:id. Deleting an unknown id
// succeeds; the end state is the same either way.
func (c *Controller) DeleteMissionLog(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid mission log id", http.StatusBadRequest)
	}

	if err := c.Dashboard.DeleteFeedback(uint(id)); err != nil {
		return c.HandleStoreError(ctx, err, "Failed to delete mission log")
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Mission log deleted", "id", id)
	return ctx.NoContent(http.StatusNoContent)
}

// RequestClearLogs handles POST /api/v2/logs/clear/request. It returns a
// short-lived token the client must replay to execute the wipe.
func (c *Controller) RequestClearLogs(ctx echo.Context) error {
	token, count, err := c.Dashboard.RequestClearLogs()
	if err != nil {
		return c.HandleStoreError(ctx, err, "Failed to prepare log wipe")
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"confirmToken": token,
		"affected":     count,
	})
}

// ExecuteClearLogs handles POST /api/v2/logs/clear/execute
func (c *Controller) ExecuteClearLogs(ctx echo.Context) error {
	var req struct {
		ConfirmToken string `json:"confirmToken"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid payload", http.StatusBadRequest)
	}

	deleted, err := c.Dashboard.ExecuteClearLogs(req.ConfirmToken)
	if err != nil {
		return c.HandleStoreError(ctx, err, "Failed to clear mission logs")
	}

	c.logAPIRequest(ctx, slog.LevelWarn, "All mission logs cleared", "deleted", deleted)
	return ctx.JSON(http.StatusOK, map[string]any{"deleted": deleted})
}
