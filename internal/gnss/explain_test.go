package gnss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
)

func TestExplain_NoLogs(t *testing.T) {
	t.Parallel()

	exp := Explain("JDAM", nil)
	assert.Equal(t, "JDAM", exp.Equipment)
	assert.Zero(t, exp.TotalMissions)
	assert.Zero(t, exp.FailedCount)
	assert.Zero(t, exp.MediocreCount)
	assert.Nil(t, exp.AvgErrorOnFailure)
	assert.Equal(t, "No mission feedback recorded for JDAM yet.", exp.Summary())
}

func TestExplain_CountsAndAverage(t *testing.T) {
	t.Parallel()

	logs := []datastore.MissionLog{
		missionLog("JDAM", 2, 4, 6),                  // failed, pooled
		missionLog("JDAM", 5, 8),                     // mediocre, pooled
		missionLog("JDAM", 9, 100),                   // success, excluded from average
		missionLog("Recon Drone (Type A)", 1, 50),    // other equipment, ignored
	}

	exp := Explain("JDAM", logs)
	assert.Equal(t, 3, exp.TotalMissions)
	assert.Equal(t, 1, exp.FailedCount)
	assert.Equal(t, 1, exp.MediocreCount)
	require.NotNil(t, exp.AvgErrorOnFailure)
	assert.InDelta(t, 6.0, *exp.AvgErrorOnFailure, 1e-9) // (4+6+8)/3

	assert.Contains(t, exp.Summary(), "3 missions recorded for JDAM")
	assert.Contains(t, exp.Summary(), "6.00 m")
}

func TestExplain_FailuresWithoutSamples(t *testing.T) {
	t.Parallel()

	logs := []datastore.MissionLog{
		missionLog("JDAM", 1),
		missionLog("JDAM", 2),
	}

	exp := Explain("JDAM", logs)
	assert.Equal(t, 2, exp.TotalMissions)
	assert.Equal(t, 2, exp.FailedCount)
	assert.Nil(t, exp.AvgErrorOnFailure)
	assert.Contains(t, exp.Summary(), "no error samples")
}
