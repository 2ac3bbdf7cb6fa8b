package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
)

// initProfileRoutes registers unit profile and equipment API endpoints
func (c *Controller) initProfileRoutes() {
	c.Group.GET("/profile", c.GetProfile)
	c.Group.PUT("/profile", c.UpdateProfile)

	c.Group.POST("/equipment", c.CreateEquipment)
	c.Group.PUT("/equipment/:id", c.UpdateEquipment)
	c.Group.DELETE("/equipment/:id", c.DeleteEquipment)
	c.Group.POST("/equipment/:id/recompute", c.RecomputeEquipmentThreshold)
	c.Group.GET("/equipment/:id/explanation", c.GetEquipmentExplanation)
}

// ProfileUpdateRequest carries the editable unit profile fields. Equipment
// auto thresholds are never settable here; they belong to the estimator.
type ProfileUpdateRequest struct {
	UnitName         string  `json:"unitName"`
	DefaultThreshold float64 `json:"defaultThreshold"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Timezone         string  `json:"timezone"`
}

// EquipmentRequest carries the operator-editable equipment fields.
type EquipmentRequest struct {
	Name            string  `json:"name"`
	UsesGeoData     bool    `json:"usesGeoData"`
	ThresholdMode   string  `json:"thresholdMode"`
	ManualThreshold float64 `json:"manualThreshold"`
}

// GetProfile handles GET /api/v2/profile
func (c *Controller) GetProfile(ctx echo.Context) error {
	profile, err := c.DS.GetUnitProfile()
	if err != nil {
		return c.HandleStoreError(ctx, err, "Failed to load unit profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v2/profile
func (c *Controller) UpdateProfile(ctx echo.Context) error {
	var req ProfileUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid profile payload", http.StatusBadRequest)
	}

	profile, err := c.DS.GetUnitProfile()
	if err != nil {
		return c.HandleStoreError(ctx, err, "Failed to load unit profile")
	}

	profile.UnitName = req.UnitName
	profile.DefaultThreshold = req.DefaultThreshold
	profile.Latitude = req.Latitude
	profile.Longitude = req.Longitude
	profile.Timezone = req.Timezone

	if err := c.DS.SaveUnitProfile(profile); err != nil {
		return c.HandleStoreError(ctx, err, "Failed to save unit profile")
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Unit profile updated",
		"unit", profile.UnitName, "default_threshold", profile.DefaultThreshold)
	return ctx.JSON(http.StatusOK, profile)
}

// CreateEquipment handles POST /api/v2/equipment
func (c *Controller) CreateEquipment(ctx echo.Context) error {
	var req EquipmentRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid equipment payload", http.StatusBadRequest)
	}

	profile, err := c.DS.GetUnitProfile()
	if err != nil {
		return c.HandleStoreError(ctx, err, "Failed to load unit profile")
	}

	eq := &datastore.Equipment{
		ProfileID:       profile.ID,
		Name:            req.Name,
		UsesGeoData:     req.UsesGeoData,
		ThresholdMode:   req.ThresholdMode,
		ManualThreshold: req.ManualThreshold,
	}
	if err := c.DS.SaveEquipment(eq); err != nil {
		return c.HandleStoreError(ctx, err, "Failed to save equipment")
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Equipment created", "name", eq.Name, "id", eq.ID)
	return ctx.JSON(http.StatusCreated, eq)
}

// UpdateEquipment handles PUT /api/v2/equipment/:id.
// The auto threshold is deliberately not editable; switching ThresholdMode
// to auto keeps whatever estimate the last recompute produced.
func (c *Controller) UpdateEquipment(ctx echo.Context) error {
	id, err := equipmentID(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid equipment id", http.StatusBadRequest)
	}

	var req EquipmentRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid equipment payload", http.StatusBadRequest)
	}

	eq, err := c.DS.GetEquipment(id)
	if err != nil {
		return c.HandleStoreError(ctx, err, "Equipment not found")
	}

	eq.Name = req.Name
	eq.UsesGeoData = req.UsesGeoData
	eq.ThresholdMode = req.ThresholdMode
	eq.ManualThreshold = req.ManualThreshold

	if err := c.DS.SaveEquipment(eq); err != nil {
		return c.HandleStoreError(ctx, err, "Failed to save equipment")
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Equipment updated", "name", eq.Name, "id", eq.ID)
	return ctx.JSON(http.StatusOK, eq)
}

// DeleteEquipment handles DELETE /api/v2/equipment/:id.
// Historical mission logs referencing the equipment name are kept.
func (c *Controller) DeleteEquipment(ctx echo.Context) error {
	id, err := equipmentID(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid equipment id", http.StatusBadRequest)
	}

	if err := c.DS.DeleteEquipment(id); err != nil {
		return c.HandleStoreError(ctx, err, "Failed to delete equipment")
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Equipment deleted", "id", id)
	return ctx.NoContent(http.StatusNoContent)
}

// RecomputeEquipmentThreshold handles POST /api/v2/equipment/:id/recompute
func (c *Controller) RecomputeEquipmentThreshold(ctx echo.Context) error {
	id, err := equipmentID(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid equipment id", http.StatusBadRequest)
	}

	estimate, err := c.Dashboard.RecomputeThreshold(id)
	if err != nil {
		return c.HandleStoreError(ctx, err, "Failed to recompute threshold")
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"equipmentId":   id,
		"autoThreshold": estimate,
		"sufficient":    estimate != nil,
	})
}

// GetEquipmentExplanation handles GET /api/v2/equipment/:id/explanation
func (c *Controller) GetEquipmentExplanation(ctx echo.Context) error {
	id, err := equipmentID(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid equipment id", http.StatusBadRequest)
	}

	explanation, err := c.Dashboard.ExplainEquipment(id)
	if err != nil {
		return c.HandleStoreError(ctx, err, "Failed to build explanation")
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"explanation": explanation,
		"summary":     explanation.Summary(),
	})
}

func equipmentID(ctx echo.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
