package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/now-man/a4s-dshbrd-250831/internal/conf"
	"github.com/now-man/a4s-dshbrd-250831/internal/dashboard"
	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
	"github.com/now-man/a4s-dshbrd-250831/internal/forecast"
)

func testSettings() *conf.Settings {
	return &conf.Settings{
		Main: conf.MainSettings{Name: "A4S-Dashboard"},
		Unit: conf.UnitSettings{
			Name:             "17th Fighter Wing",
			DefaultThreshold: 10,
			Latitude:         36.64,
			Longitude:        127.49,
			Timezone:         "Asia/Seoul",
		},
		Forecast: conf.ForecastSettings{
			Provider:     "mock",
			PollInterval: 60,
			HorizonHours: 24,
			Seed:         42,
		},
		Weather: conf.WeatherSettings{Provider: "none", PollInterval: 30},
		Output: conf.OutputSettings{
			SQLite: conf.SQLiteSettings{Enabled: true, Path: ":memory:"},
		},
	}
}

func newTestController(t *testing.T) (*Controller, datastore.Interface) {
	t.Helper()

	settings := testSettings()

	store := datastore.New(settings)
	require.NotNil(t, store)
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })

	_, err := datastore.EnsureUnitProfile(store, &settings.Unit)
	require.NoError(t, err)

	fc, err := forecast.NewService(settings, nil)
	require.NoError(t, err)

	dash := dashboard.NewService(settings, store, fc, nil, nil)

	e := echo.New()
	controller := New(e, store, settings, dash, fc, nil, nil)
	t.Cleanup(controller.Shutdown)

	return controller, store
}

func doRequest(c *Controller, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	controller, _ := newTestController(t)

	rec := doRequest(controller, http.MethodGet, "/api/v2/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database_status"])
}

func TestGetDashboard(t *testing.T) {
	controller, _ := newTestController(t)

	rec := doRequest(controller, http.MethodGet, "/api/v2/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot struct {
		UnitName          string  `json:"unitName"`
		MaxPredictedError float64 `json:"maxPredictedError"`
		OverallRisk       string  `json:"overallRisk"`
		Equipment         []struct {
			Name string `json:"name"`
			Risk string `json:"risk"`
		} `json:"equipment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))

	assert.Equal(t, "17th Fighter Wing", snapshot.UnitName)
	assert.Greater(t, snapshot.MaxPredictedError, 0.0)
	assert.Contains(t, []string{"NORMAL", "CAUTION", "DANGER"}, snapshot.OverallRisk)
	assert.Len(t, snapshot.Equipment, 3)
}

func TestCreateMissionLog(t *testing.T) {
	controller, store := newTestController(t)

	payload := `{
		"startTime": "2025-06-01T10:00:00Z",
		"endTime": "2025-06-01T12:00:00Z",
		"equipment": "JDAM",
		"successScore": 3,
		"series": "date,error_rate\n2025-06-01 10:00,5.5\n2025-06-01 10:01,6.5\n"
	}`
	rec := doRequest(controller, http.MethodPost, "/api/v2/logs", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	logs, err := store.GetAllMissionLogs()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Len(t, logs[0].Samples, 2)
}

func TestCreateMissionLog_BadSeries(t *testing.T) {
	controller, store := newTestController(t)

	payload := `{
		"startTime": "2025-06-01T10:00:00Z",
		"endTime": "2025-06-01T12:00:00Z",
		"equipment": "JDAM",
		"successScore": 3,
		"series": "date,error_rate\n2025-06-01 10:00,garbage\n"
	}`
	rec := doRequest(controller, http.MethodPost, "/api/v2/logs", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid-number", resp.ParseKind)
	assert.Equal(t, 2, resp.ParseLine)
	assert.Equal(t, "error_rate", resp.ParseField)

	count, err := store.CountMissionLogs()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExportMissionLogSeries(t *testing.T) {
	controller, store := newTestController(t)

	payload := `{
		"startTime": "2025-06-01T10:00:00Z",
		"endTime": "2025-06-01T12:00:00Z",
		"equipment": "JDAM",
		"successScore": 3,
		"series": "date,error_rate\n2025-06-01 10:00,5.5\n2025-06-01 10:01,6.5\n"
	}`
	rec := doRequest(controller, http.MethodPost, "/api/v2/logs", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	logs, err := store.GetAllMissionLogs()
	require.NoError(t, err)
	require.Len(t, logs, 1)

	rec = doRequest(controller, http.MethodGet,
		"/api/v2/logs/"+uintString(logs[0].ID)+"/series", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "date,error_rate\n2025-06-01 10:00,5.5\n2025-06-01 10:01,6.5\n", rec.Body.String())

	rec = doRequest(controller, http.MethodGet, "/api/v2/logs/9999/series", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMissionLog_UnknownIDSucceeds(t *testing.T) {
	controller, _ := newTestController(t)

	rec := doRequest(controller, http.MethodDelete, "/api/v2/logs/12345", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEquipmentLifecycle(t *testing.T) {
	controller, _ := newTestController(t)

	rec := doRequest(controller, http.MethodPost, "/api/v2/equipment",
		`{"name": "SATCOM Terminal", "thresholdMode": "manual", "manualThreshold": 12}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created datastore.Equipment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	rec = doRequest(controller, http.MethodGet, "/api/v2/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var profile datastore.UnitProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Len(t, profile.Equipment, 4)

	rec = doRequest(controller, http.MethodDelete, "/api/v2/equipment/99999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecomputeEndpoint_InsufficientData(t *testing.T) {
	controller, store := newTestController(t)

	profile, err := store.GetUnitProfile()
	require.NoError(t, err)
	id := profile.Equipment[0].ID

	rec := doRequest(controller, http.MethodPost,
		"/api/v2/equipment/"+uintString(id)+"/recompute", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AutoThreshold *float64 `json:"autoThreshold"`
		Sufficient    bool     `json:"sufficient"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.AutoThreshold)
	assert.False(t, resp.Sufficient)
}

func TestClearLogsFlow(t *testing.T) {
	controller, store := newTestController(t)

	payload := `{
		"startTime": "2025-06-01T10:00:00Z",
		"endTime": "2025-06-01T12:00:00Z",
		"equipment": "JDAM",
		"successScore": 3
	}`
	rec := doRequest(controller, http.MethodPost, "/api/v2/logs", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(controller, http.MethodPost, "/api/v2/logs/clear/request", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var prepared struct {
		ConfirmToken string `json:"confirmToken"`
		Affected     int64  `json:"affected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prepared))
	assert.EqualValues(t, 1, prepared.Affected)

	// executing without a valid token changes nothing
	rec = doRequest(controller, http.MethodPost, "/api/v2/logs/clear/execute",
		`{"confirmToken": "bogus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(controller, http.MethodPost, "/api/v2/logs/clear/execute",
		`{"confirmToken": "`+prepared.ConfirmToken+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	count, err := store.CountMissionLogs()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTodosEndpoint(t *testing.T) {
	controller, _ := newTestController(t)

	rec := doRequest(controller, http.MethodPut, "/api/v2/todos",
		`{"date": "2025-06-01", "items": [{"text": "Check antenna alignment"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(controller, http.MethodGet, "/api/v2/todos?date=2025-06-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Date  string               `json:"date"`
		Items []datastore.TodoItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Check antenna alignment", resp.Items[0].Text)
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
