package gnss

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
)

func missionLog(equipment string, score int, errorValues ...float64) datastore.MissionLog {
	samples := make([]datastore.MissionLogSample, 0, len(errorValues))
	for i, v := range errorValues {
		samples = append(samples, datastore.MissionLogSample{Position: i, ErrorMeters: v})
	}
	now := time.Now()
	return datastore.MissionLog{
		StartTime:    now.Add(-time.Hour),
		EndTime:      now,
		Equipment:    equipment,
		SuccessScore: score,
		Samples:      samples,
	}
}

func TestEstimateAutoThreshold_PooledPercentile(t *testing.T) {
	t.Parallel()

	// Pool across the three qualifying logs is 1..10 ascending. The
	// nearest-rank pick at floor(0.75*10)=7 is the 8th value.
	logs := []datastore.MissionLog{
		missionLog("JDAM", 2, 1, 2, 3),
		missionLog("JDAM", 5, 4, 5, 6, 7),
		missionLog("JDAM", 3, 8, 9, 10),
	}

	got := EstimateAutoThreshold(logs, "JDAM")
	require.NotNil(t, got)
	assert.InDelta(t, 8.00, *got, 1e-9)
}

func TestEstimateAutoThreshold_Rounding(t *testing.T) {
	t.Parallel()

	logs := []datastore.MissionLog{
		missionLog("JDAM", 1, 3.14159),
		missionLog("JDAM", 1, 2.71828),
		missionLog("JDAM", 1, 1.41421),
	}

	got := EstimateAutoThreshold(logs, "JDAM")
	require.NotNil(t, got)
	// pool sorted: 1.41421, 2.71828, 3.14159; floor(0.75*3)=2
	assert.InDelta(t, 3.14, *got, 1e-9)
}

func TestEstimateAutoThreshold_Qualification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		logs []datastore.MissionLog
	}{
		{
			name: "no logs at all",
			logs: nil,
		},
		{
			name: "only two qualifying logs",
			logs: []datastore.MissionLog{
				missionLog("JDAM", 2, 5, 6),
				missionLog("JDAM", 3, 7, 8),
			},
		},
		{
			name: "successful missions never qualify",
			logs: []datastore.MissionLog{
				missionLog("JDAM", 2, 5),
				missionLog("JDAM", 3, 6),
				missionLog("JDAM", 8, 7), // success boundary
				missionLog("JDAM", 10, 8),
			},
		},
		{
			name: "logs without samples never qualify",
			logs: []datastore.MissionLog{
				missionLog("JDAM", 2, 5),
				missionLog("JDAM", 3, 6),
				missionLog("JDAM", 1),
			},
		},
		{
			name: "other equipment never qualifies",
			logs: []datastore.MissionLog{
				missionLog("JDAM", 2, 5),
				missionLog("JDAM", 3, 6),
				missionLog("Recon Drone (Type A)", 2, 7),
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Nil(t, EstimateAutoThreshold(tt.logs, "JDAM"))
		})
	}
}

func TestEstimateAutoThreshold_MediocreMissionsQualify(t *testing.T) {
	t.Parallel()

	// Scores 4..7 are below the success boundary and pool like failures.
	logs := []datastore.MissionLog{
		missionLog("JDAM", 4, 5),
		missionLog("JDAM", 6, 5),
		missionLog("JDAM", 7, 5),
	}

	got := EstimateAutoThreshold(logs, "JDAM")
	require.NotNil(t, got)
	assert.InDelta(t, 5.00, *got, 1e-9)
}

func TestEstimateAutoThreshold_SingleValuePool(t *testing.T) {
	t.Parallel()

	logs := []datastore.MissionLog{
		missionLog("JDAM", 1, 12.345),
		missionLog("JDAM", 1, 12.345),
		missionLog("JDAM", 1, 12.345),
	}

	got := EstimateAutoThreshold(logs, "JDAM")
	require.NotNil(t, got)
	assert.InDelta(t, 12.35, *got, 1e-9)
}
