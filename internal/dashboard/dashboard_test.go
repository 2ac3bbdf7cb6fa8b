package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/now-man/a4s-dshbrd-250831/internal/conf"
	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
	"github.com/now-man/a4s-dshbrd-250831/internal/forecast"
	"github.com/now-man/a4s-dshbrd-250831/internal/gnss"
	"github.com/now-man/a4s-dshbrd-250831/internal/timeseries"
)

func testSettings(t *testing.T) *conf.Settings {
	t.Helper()
	return &conf.Settings{
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

func newTestService(t *testing.T) (*Service, datastore.Interface) {
	t.Helper()

	settings := testSettings(t)

	store := datastore.New(settings)
	require.NotNil(t, store)
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })

	_, err := datastore.EnsureUnitProfile(store, &settings.Unit)
	require.NoError(t, err)

	fc, err := forecast.NewService(settings, nil)
	require.NoError(t, err)

	return NewService(settings, store, fc, nil, nil), store
}

func failureLog(equipment string, errorValues ...float64) *datastore.MissionLog {
	samples := make([]datastore.MissionLogSample, 0, len(errorValues))
	for _, v := range errorValues {
		samples = append(samples, datastore.MissionLogSample{ErrorMeters: v, Timestamp: "2025-06-01 10:00"})
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &datastore.MissionLog{
		StartTime:    now.Add(-time.Hour),
		EndTime:      now,
		Equipment:    equipment,
		SuccessScore: 2,
		Samples:      samples,
	}
}

func TestBuildSnapshot(t *testing.T) {
	svc, store := newTestService(t)

	require.NoError(t, store.SaveMissionLog(failureLog("JDAM", 5, 6)))

	snapshot, err := svc.BuildSnapshot()
	require.NoError(t, err)

	assert.Equal(t, "17th Fighter Wing", snapshot.UnitName)
	assert.Len(t, snapshot.Forecast, 24)
	assert.Len(t, snapshot.Equipment, 3)
	require.Len(t, snapshot.RecentFeedback, 1)
	assert.Equal(t, "failure", snapshot.RecentFeedback[0].Outcome)
	assert.Equal(t, 2, snapshot.RecentFeedback[0].SampleCount)
	assert.Nil(t, snapshot.Weather)

	// the unit verdict is the classification of the horizon maximum
	assert.Equal(t, gnss.Classify(snapshot.MaxPredictedError, snapshot.DefaultThreshold), snapshot.OverallRisk)

	// every equipment verdict uses its active threshold
	for _, eq := range snapshot.Equipment {
		assert.Equal(t, gnss.Classify(snapshot.MaxPredictedError, eq.ActiveThreshold), eq.Risk)
	}
}

func TestSnapshotAutoModeFallsBackToManual(t *testing.T) {
	svc, store := newTestService(t)

	profile, err := store.GetUnitProfile()
	require.NoError(t, err)

	// switch everything to auto with no estimate recorded
	for i := range profile.Equipment {
		profile.Equipment[i].ThresholdMode = datastore.ThresholdModeAuto
	}
	require.NoError(t, store.SaveUnitProfile(profile))

	snapshot, err := svc.BuildSnapshot()
	require.NoError(t, err)

	for _, eq := range snapshot.Equipment {
		assert.Nil(t, eq.AutoThreshold)
		assert.InDelta(t, eq.ManualThreshold, eq.ActiveThreshold, 1e-9,
			"auto mode without an estimate must fall back to the manual threshold")
	}
}

func TestSubmitFeedback_ParsesSeries(t *testing.T) {
	svc, store := newTestService(t)

	log := failureLog("JDAM")
	series := "date,error_rate\n2025-06-01 10:00,5.5\n2025-06-01 10:01,6.5\n"
	require.NoError(t, svc.SubmitFeedback(log, series))
	assert.NotZero(t, log.ID)

	logs, err := store.GetAllMissionLogs()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Len(t, logs[0].Samples, 2)
	assert.InDelta(t, 5.5, logs[0].Samples[0].ErrorMeters, 1e-9)
}

func TestSubmitFeedback_RejectsBadSeriesAtomically(t *testing.T) {
	svc, store := newTestService(t)

	log := failureLog("JDAM")
	err := svc.SubmitFeedback(log, "date,error_rate\n2025-06-01 10:00,not-a-number\n")
	require.Error(t, err)

	var parseErr *timeseries.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, timeseries.KindInvalidNumber, parseErr.Kind)

	count, err := store.CountMissionLogs()
	require.NoError(t, err)
	assert.Zero(t, count, "a rejected series must leave nothing behind")
}

func TestRecomputeThreshold(t *testing.T) {
	svc, store := newTestService(t)

	profile, err := store.GetUnitProfile()
	require.NoError(t, err)
	var jdamID uint
	for i := range profile.Equipment {
		if profile.Equipment[i].Name == "JDAM" {
			jdamID = profile.Equipment[i].ID
		}
	}
	require.NotZero(t, jdamID)

	// below the qualifying minimum the estimate stays nil
	require.NoError(t, store.SaveMissionLog(failureLog("JDAM", 1, 2)))
	require.NoError(t, store.SaveMissionLog(failureLog("JDAM", 3, 4)))

	estimate, err := svc.RecomputeThreshold(jdamID)
	require.NoError(t, err)
	assert.Nil(t, estimate)

	// third qualifying log completes the pool 1..10
	require.NoError(t, store.SaveMissionLog(failureLog("JDAM", 5, 6, 7, 8, 9, 10)))

	estimate, err = svc.RecomputeThreshold(jdamID)
	require.NoError(t, err)
	require.NotNil(t, estimate)
	assert.InDelta(t, 8.00, *estimate, 1e-9)

	eq, err := store.GetEquipment(jdamID)
	require.NoError(t, err)
	require.NotNil(t, eq.AutoThreshold)
	assert.InDelta(t, 8.00, *eq.AutoThreshold, 1e-9)

	// wiping the feedback and recomputing clears the estimate again
	_, err = store.DeleteAllMissionLogs()
	require.NoError(t, err)

	estimate, err = svc.RecomputeThreshold(jdamID)
	require.NoError(t, err)
	assert.Nil(t, estimate)

	eq, err = store.GetEquipment(jdamID)
	require.NoError(t, err)
	assert.Nil(t, eq.AutoThreshold)
}

func TestRecomputeAll(t *testing.T) {
	svc, store := newTestService(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveMissionLog(failureLog("Tactical Datalink", 4, 5)))
	}

	results, err := svc.RecomputeAll()
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NotNil(t, results["Tactical Datalink"])
	assert.Nil(t, results["JDAM"])
	assert.Nil(t, results["Recon Drone (Type A)"])
}

func TestClearLogsConfirmationFlow(t *testing.T) {
	svc, store := newTestService(t)

	require.NoError(t, store.SaveMissionLog(failureLog("JDAM", 5)))
	require.NoError(t, store.SaveMissionLog(failureLog("JDAM", 6)))

	token, count, err := svc.RequestClearLogs()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.NotEmpty(t, token)

	// a made-up token is rejected and nothing is deleted
	_, err = svc.ExecuteClearLogs("not-a-token")
	require.Error(t, err)
	remaining, err := store.CountMissionLogs()
	require.NoError(t, err)
	assert.EqualValues(t, 2, remaining)

	deleted, err := svc.ExecuteClearLogs(token)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	// tokens are single use
	_, err = svc.ExecuteClearLogs(token)
	require.Error(t, err)
}

func TestConfirmationBroker(t *testing.T) {
	t.Parallel()

	broker := NewConfirmationBroker()

	token := broker.Request("wipe")
	require.NoError(t, broker.Consume(token, "wipe"))
	require.Error(t, broker.Consume(token, "wipe"), "consumed tokens must not be reusable")

	other := broker.Request("wipe")
	require.Error(t, broker.Consume(other, "different-action"),
		"tokens are bound to the action they were issued for")
}
