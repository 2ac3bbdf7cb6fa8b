package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
)

// initTodoRoutes registers the daily task list endpoints
func (c *Controller) initTodoRoutes() {
	c.Group.GET("/todos", c.GetTodos)
	c.Group.PUT("/todos", c.SaveTodos)
}

// TodoListRequest replaces the task list for one date.
type TodoListRequest struct {
	Date  string              `json:"date"`
	Items []datastore.TodoItem `json:"items"`
}

// GetTodos handles GET /api/v2/todos?date=YYYY-MM-DD, defaulting to today.
func (c *Controller) GetTodos(ctx echo.Context) error {
	date := ctx.QueryParam("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	items, err := c.DS.GetTodos(date)
	if err != nil {
		return c.HandleStoreError(ctx, err, "Failed to load todos")
	}
	return ctx.JSON(http.StatusOK, map[string]any{"date": date, "items": items})
}

// SaveTodos handles PUT /api/v2/todos, replacing the list for the given date.
func (c *Controller) SaveTodos(ctx echo.Context) error {
	var req TodoListRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid todo payload", http.StatusBadRequest)
	}

	if err := c.DS.SaveTodos(req.Date, req.Items); err != nil {
		return c.HandleStoreError(ctx, err, "Failed to save todos")
	}

	items, err := c.DS.GetTodos(req.Date)
	if err != nil {
		return c.HandleStoreError(ctx, err, "Failed to reload todos")
	}
	return ctx.JSON(http.StatusOK, map[string]any{"date": req.Date, "items": items})
}
