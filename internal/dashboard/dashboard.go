// Package dashboard orchestrates the view-render cycle: it ties the
// datastore, the forecast collaborator and the risk engine together into a
// snapshot the UI consumes, and hosts the operator-triggered threshold
// recompute.
package dashboard

import (
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/now-man/a4s-dshbrd-250831/internal/conf"
	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
	"github.com/now-man/a4s-dshbrd-250831/internal/forecast"
	"github.com/now-man/a4s-dshbrd-250831/internal/gnss"
	"github.com/now-man/a4s-dshbrd-250831/internal/logging"
	"github.com/now-man/a4s-dshbrd-250831/internal/observability/metrics"
	"github.com/now-man/a4s-dshbrd-250831/internal/timeseries"
	"github.com/now-man/a4s-dshbrd-250831/internal/weather"
	"github.com/patrickmn/go-cache"
)

const (
	weatherCacheKey = "current"
	recentFeedback  = 20 // entries shown on the dashboard
)

// Service builds dashboard snapshots and executes operator actions.
type Service struct {
	ds              datastore.Interface
	forecast        *forecast.Service
	weatherProvider weather.Provider
	weatherCache    *cache.Cache
	settings        *conf.Settings
	confirmations   *ConfirmationBroker
	metrics         *metrics.DatastoreMetrics
	logger          *slog.Logger
}

// NewService creates a dashboard service. weatherProvider and dsMetrics may
// be nil when the weather integration respectively metrics are disabled.
func NewService(settings *conf.Settings, ds datastore.Interface, fc *forecast.Service, weatherProvider weather.Provider, dsMetrics *metrics.DatastoreMetrics) *Service {
	weatherTTL := time.Duration(settings.Weather.PollInterval) * time.Minute
	if weatherTTL <= 0 {
		weatherTTL = 30 * time.Minute
	}

	logger, _, err := logging.NewFileLogger("logs/dashboard.log", "dashboard", slog.LevelInfo)
	if err != nil {
		logging.Error("Failed to initialize dashboard file logger", "error", err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{})
		logger = slog.New(fbHandler).With("service", "dashboard")
	}

	return &Service{
		ds:              ds,
		forecast:        fc,
		weatherProvider: weatherProvider,
		weatherCache:    cache.New(weatherTTL, 2*weatherTTL),
		settings:        settings,
		confirmations:   NewConfirmationBroker(),
		metrics:         dsMetrics,
		logger:          logger,
	}
}

// EquipmentStatus is the per-equipment risk verdict on the dashboard.
type EquipmentStatus struct {
	ID              uint           `json:"id"`
	Name            string         `json:"name"`
	ThresholdMode   string         `json:"thresholdMode"`
	ManualThreshold float64        `json:"manualThreshold"`
	AutoThreshold   *float64       `json:"autoThreshold"`
	ActiveThreshold float64        `json:"activeThreshold"`
	Risk            gnss.RiskLevel `json:"risk"`
}

// FeedbackEntry is one recent mission feedback record on the dashboard.
type FeedbackEntry struct {
	ID           uint      `json:"id"`
	Equipment    string    `json:"equipment"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	SuccessScore int       `json:"successScore"`
	Outcome      string    `json:"outcome"`
	SampleCount  int       `json:"sampleCount"`
}

// Snapshot is one full render of the dashboard state.
type Snapshot struct {
	GeneratedAt       time.Time               `json:"generatedAt"`
	UnitName          string                  `json:"unitName"`
	DefaultThreshold  float64                 `json:"defaultThreshold"`
	MaxPredictedError float64                 `json:"maxPredictedError"`
	OverallRisk       gnss.RiskLevel          `json:"overallRisk"`
	Forecast          []forecast.ForecastPoint `json:"forecast"`
	Equipment         []EquipmentStatus       `json:"equipment"`
	RecentFeedback    []FeedbackEntry         `json:"recentFeedback"`
	Weather           *weather.WeatherData    `json:"weather,omitempty"`
}

// BuildSnapshot assembles the current dashboard state. The unit-wide verdict
// compares the maximum predicted error over the horizon against the unit
// default threshold; each equipment is judged against its active threshold.
func (s *Service) BuildSnapshot() (*Snapshot, error) {
	profile, err := s.ds.GetUnitProfile()
	if err != nil {
		return nil, err
	}

	points, err := s.forecast.Get()
	if err != nil {
		return nil, err
	}
	maxErr := forecast.MaxPredictedError(points)

	snapshot := &Snapshot{
		GeneratedAt:       time.Now(),
		UnitName:          profile.UnitName,
		DefaultThreshold:  profile.DefaultThreshold,
		MaxPredictedError: maxErr,
		OverallRisk:       gnss.Classify(maxErr, profile.DefaultThreshold),
		Forecast:          points,
		Equipment:         make([]EquipmentStatus, 0, len(profile.Equipment)),
	}

	for i := range profile.Equipment {
		eq := &profile.Equipment[i]
		active := gnss.ActiveThreshold(eq)
		snapshot.Equipment = append(snapshot.Equipment, EquipmentStatus{
			ID:              eq.ID,
			Name:            eq.Name,
			ThresholdMode:   eq.ThresholdMode,
			ManualThreshold: eq.ManualThreshold,
			AutoThreshold:   eq.AutoThreshold,
			ActiveThreshold: active,
			Risk:            gnss.Classify(maxErr, active),
		})
	}

	logs, err := s.ds.GetAllMissionLogs()
	if err != nil {
		return nil, err
	}
	snapshot.RecentFeedback = recentEntries(logs)

	snapshot.Weather = s.currentWeather()

	return snapshot, nil
}

// recentEntries sorts mission logs by start time descending and takes the
// newest entries for display.
func recentEntries(logs []datastore.MissionLog) []FeedbackEntry {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].StartTime.After(logs[j].StartTime)
	})

	limit := len(logs)
	if limit > recentFeedback {
		limit = recentFeedback
	}

	entries := make([]FeedbackEntry, 0, limit)
	for i := 0; i < limit; i++ {
		log := &logs[i]
		entries = append(entries, FeedbackEntry{
			ID:           log.ID,
			Equipment:    log.Equipment,
			StartTime:    log.StartTime,
			EndTime:      log.EndTime,
			SuccessScore: log.SuccessScore,
			Outcome:      outcomeLabel(log),
			SampleCount:  len(log.Samples),
		})
	}
	return entries
}

func outcomeLabel(log *datastore.MissionLog) string {
	switch {
	case log.Failed():
		return "failure"
	case log.Mediocre():
		return "mediocre"
	default:
		return "success"
	}
}

// currentWeather returns cached current conditions, or nil when the weather
// integration is disabled or the fetch fails.
func (s *Service) currentWeather() *weather.WeatherData {
	if s.weatherProvider == nil {
		return nil
	}
	if cached, found := s.weatherCache.Get(weatherCacheKey); found {
		if data, ok := cached.(*weather.WeatherData); ok {
			return data
		}
	}
	data, err := s.weatherProvider.FetchWeather(s.settings)
	if err != nil {
		s.logger.Warn("Weather fetch failed, omitting weather block", "error", err)
		return nil
	}
	s.weatherCache.Set(weatherCacheKey, data, cache.DefaultExpiration)
	return data
}

// SubmitFeedback records one mission feedback submission. rawSeries may be
// empty; when present it is parsed atomically and a parse failure rejects the
// whole submission before anything is stored.
func (s *Service) SubmitFeedback(log *datastore.MissionLog, rawSeries string) error {
	if rawSeries != "" {
		samples, err := timeseries.ParseErrorSeries(rawSeries)
		if err != nil {
			return err
		}
		log.Samples = make([]datastore.MissionLogSample, 0, len(samples))
		for i := range samples {
			log.Samples = append(log.Samples, datastore.MissionLogSample{
				Timestamp:   samples[i].Timestamp,
				ErrorMeters: samples[i].ErrorMeters,
				Lat:         samples[i].Lat,
				Lon:         samples[i].Lon,
			})
		}
	}

	start := time.Now()
	if err := s.ds.SaveMissionLog(log); err != nil {
		s.recordStoreOp("save_mission_log", start, err)
		return err
	}
	s.recordStoreOp("save_mission_log", start, nil)

	s.logger.Info("Mission feedback recorded",
		"id", log.ID,
		"equipment", log.Equipment,
		"score", log.SuccessScore,
		"samples", len(log.Samples),
	)
	return nil
}

// DeleteFeedback removes one mission log. Unknown ids are a no-op.
func (s *Service) DeleteFeedback(id uint) error {
	start := time.Now()
	err := s.ds.DeleteMissionLog(id)
	s.recordStoreOp("delete_mission_log", start, err)
	return err
}

// recordStoreOp feeds the datastore metrics, refreshing the stored log gauge
// after mutations.
func (s *Service) recordStoreOp(operation string, start time.Time, opErr error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if opErr != nil {
		status = "error"
	}
	s.metrics.RecordOperation(operation, status)
	s.metrics.RecordOperationDuration(operation, time.Since(start).Seconds())
	if count, err := s.ds.CountMissionLogs(); err == nil {
		s.metrics.SetMissionLogCount(count)
	}
}

// RecomputeThreshold re-derives the automatic threshold for one equipment
// from the current mission feedback and persists the result, nil included.
// The read and write run in one store transaction so the estimate cannot
// interleave with a concurrent log mutation. Recompute happens only here,
// on explicit operator action; stale estimates between recomputes are
// expected and keep threshold changes auditable.
func (s *Service) RecomputeThreshold(equipmentID uint) (*float64, error) {
	var estimate *float64
	err := s.ds.Transaction(func(tx datastore.Interface) error {
		eq, err := tx.GetEquipment(equipmentID)
		if err != nil {
			return err
		}
		logs, err := tx.MissionLogsByEquipment(eq.Name)
		if err != nil {
			return err
		}
		estimate = gnss.EstimateAutoThreshold(logs, eq.Name)
		return tx.UpdateAutoThreshold(eq.ID, estimate)
	})
	if err != nil {
		return nil, err
	}

	if estimate == nil {
		s.logger.Info("Threshold recompute: insufficient data", "equipment_id", equipmentID)
	} else {
		s.logger.Info("Threshold recomputed", "equipment_id", equipmentID, "threshold_m", *estimate)
	}
	return estimate, nil
}

// RecomputeAll recomputes the automatic threshold for every equipment in the
// profile. Returns the estimate per equipment name.
func (s *Service) RecomputeAll() (map[string]*float64, error) {
	profile, err := s.ds.GetUnitProfile()
	if err != nil {
		return nil, err
	}

	results := make(map[string]*float64, len(profile.Equipment))
	for i := range profile.Equipment {
		eq := &profile.Equipment[i]
		estimate, err := s.RecomputeThreshold(eq.ID)
		if err != nil {
			return nil, err
		}
		results[eq.Name] = estimate
	}
	return results, nil
}

// ExplainEquipment reports the mission log population behind an equipment's
// automatic threshold.
func (s *Service) ExplainEquipment(equipmentID uint) (gnss.Explanation, error) {
	eq, err := s.ds.GetEquipment(equipmentID)
	if err != nil {
		return gnss.Explanation{}, err
	}
	logs, err := s.ds.MissionLogsByEquipment(eq.Name)
	if err != nil {
		return gnss.Explanation{}, err
	}
	return gnss.Explain(eq.Name, logs), nil
}
