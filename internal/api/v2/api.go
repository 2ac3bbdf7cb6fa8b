// internal/api/v2/api.go
package api

import (
	"crypto/rand"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/now-man/a4s-dshbrd-250831/internal/conf"
	"github.com/now-man/a4s-dshbrd-250831/internal/dashboard"
	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
	"github.com/now-man/a4s-dshbrd-250831/internal/errors"
	"github.com/now-man/a4s-dshbrd-250831/internal/forecast"
	"github.com/now-man/a4s-dshbrd-250831/internal/logging"
	"github.com/now-man/a4s-dshbrd-250831/internal/observability"
	"github.com/now-man/a4s-dshbrd-250831/internal/timeseries"
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo      *echo.Echo
	Group     *echo.Group
	DS        datastore.Interface
	Settings  *conf.Settings
	Dashboard *dashboard.Service
	Forecast  *forecast.Service

	logger         *log.Logger
	apiLogger      *slog.Logger
	apiLoggerClose func() error
	metrics        *observability.Metrics
	startTime      time.Time
}

// New creates the API controller and registers all routes under /api/v2.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	dash *dashboard.Service, fc *forecast.Service,
	logger *log.Logger, metrics *observability.Metrics) *Controller {

	if logger == nil {
		logger = log.Default()
	}

	c := &Controller{
		Echo:      e,
		DS:        ds,
		Settings:  settings,
		Dashboard: dash,
		Forecast:  fc,
		logger:    logger,
		metrics:   metrics,
		startTime: time.Now(),
	}

	apiLogger, closeFn, err := logging.NewFileLogger("logs/api.log", "api", slog.LevelInfo)
	if err != nil {
		logger.Printf("Failed to initialize API file logger: %v", err)
	} else {
		c.apiLogger = apiLogger
		c.apiLoggerClose = closeFn
	}

	c.Group = e.Group("/api/v2")
	if metrics != nil && metrics.HTTP != nil {
		c.Group.Use(c.metricsMiddleware())
	}
	c.initRoutes()

	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	return c
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	c.Group.GET("/health", c.HealthCheck)

	routeInitializers := []struct {
		name string
		fn   func()
	}{
		{"dashboard routes", c.initDashboardRoutes},
		{"forecast routes", c.initForecastRoutes},
		{"profile routes", c.initProfileRoutes},
		{"mission log routes", c.initLogRoutes},
		{"todo routes", c.initTodoRoutes},
	}

	for _, initializer := range routeInitializers {
		c.Debug("Initializing %s...", initializer.name)
		initializer.fn()
	}
}

// HealthCheck handles the API health check endpoint
func (c *Controller) HealthCheck(ctx echo.Context) error {
	response := map[string]any{
		"status":    "healthy",
		"name":      c.Settings.Main.Name,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	dbStatus := "connected"
	if _, err := c.DS.CountMissionLogs(); err != nil {
		dbStatus = "disconnected"
		response["database_error"] = err.Error()
	}
	response["database_status"] = dbStatus

	uptime := time.Since(c.startTime)
	response["uptime"] = uptime.String()
	response["uptime_seconds"] = uptime.Seconds()

	return ctx.JSON(http.StatusOK, response)
}

// Shutdown releases resources held by the controller.
func (c *Controller) Shutdown() {
	if c.apiLoggerClose != nil {
		if err := c.apiLoggerClose(); err != nil {
			c.logger.Printf("Error closing API log file: %v", err)
		}
	}
}

// Error response structure
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
	// Populated only for CSV ingest failures so the client can point at
	// the offending line.
	ParseKind  string `json:"parse_kind,omitempty"`
	ParseLine  int    `json:"parse_line,omitempty"`
	ParseField string `json:"parse_field,omitempty"`
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	correlationID := generateCorrelationID()

	var errorStr string
	if err != nil {
		errorStr = err.Error()
	} else {
		errorStr = message
	}

	resp := &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: correlationID,
	}

	var parseErr *timeseries.ParseError
	if errors.As(err, &parseErr) {
		resp.ParseKind = string(parseErr.Kind)
		resp.ParseLine = parseErr.Line
		resp.ParseField = parseErr.Field
	}

	return resp
}

// generateCorrelationID creates a unique identifier for error tracking using
// cryptographic randomness.
func generateCorrelationID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 8

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "ERR-RAND"
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// HandleError constructs and returns an appropriate error response
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)

	ip := ctx.RealIP()
	c.logger.Printf("API Error [%s] from %s: %s: %v", errorResp.CorrelationID, ip, message, err)

	if c.apiLogger != nil {
		c.apiLogger.Error("API Error",
			"correlation_id", errorResp.CorrelationID,
			"message", message,
			"error", errorResp.Error,
			"code", code,
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"ip", ip,
		)
	}

	return ctx.JSON(code, errorResp)
}

// HandleStoreError maps datastore and validation error categories to HTTP
// status codes and renders the response.
func (c *Controller) HandleStoreError(ctx echo.Context, err error, message string) error {
	return c.HandleError(ctx, err, message, statusFromError(err))
}

func statusFromError(err error) int {
	var parseErr *timeseries.ParseError
	if errors.As(err, &parseErr) {
		return http.StatusBadRequest
	}

	var enhanced *errors.EnhancedError
	if errors.As(err, &enhanced) {
		switch enhanced.Category {
		case errors.CategoryNotFound:
			return http.StatusNotFound
		case errors.CategoryValidation:
			return http.StatusBadRequest
		case errors.CategoryConflict:
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

// Debug logs debug messages when debug mode is enabled
func (c *Controller) Debug(format string, v ...any) {
	if c.Settings.WebServer.Debug {
		msg := fmt.Sprintf(format, v...)
		c.logger.Printf("[DEBUG] %s", msg)
		if c.apiLogger != nil {
			c.apiLogger.Debug(msg)
		}
	}
}

// logAPIRequest is a helper to log API requests with common context fields.
func (c *Controller) logAPIRequest(ctx echo.Context, level slog.Level, msg string, args ...any) {
	if c.apiLogger == nil {
		return
	}

	baseAttrs := []any{
		"path", ctx.Request().URL.Path,
		"ip", ctx.RealIP(),
	}
	baseAttrs = append(baseAttrs, args...)

	c.apiLogger.Log(ctx.Request().Context(), level, msg, baseAttrs...)
}

// metricsMiddleware records request counts and latency per route.
func (c *Controller) metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			status := ctx.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			c.metrics.HTTP.RecordRequest(ctx.Request().Method, ctx.Path(), status, time.Since(start).Seconds())
			return err
		}
	}
}
