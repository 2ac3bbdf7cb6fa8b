// threshold.go automatic sensitivity threshold estimation
package gnss

import (
	"math"
	"sort"

	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
)

const (
	// autoThresholdPercentile is the rank used to pick the threshold from the
	// pooled error readings of failure-adjacent missions. A high percentile
	// keeps one catastrophic excursion from dominating while still tracking
	// the bulk of bad-mission error levels.
	autoThresholdPercentile = 0.75

	// minQualifyingLogs is the minimum number of qualifying mission logs
	// before an estimate is produced at all.
	minQualifyingLogs = 3
)

// EstimateAutoThreshold derives an automatic sensitivity threshold for one
// piece of equipment from mission feedback. A log qualifies when its
// equipment name matches, its success score is below the success boundary and
// it carries at least one error sample. With fewer than minQualifyingLogs
// qualifying logs the result is nil: insufficient data is a normal state,
// never an error.
//
// The estimate is the nearest-rank 75th percentile of all error readings
// pooled across the qualifying logs: the ascending-sorted pool indexed at
// floor(0.75*n), without interpolation, rounded to two decimals. Nearest-rank
// selection is kept deliberately so estimates stay comparable with the
// thresholds operators have already tuned against.
func EstimateAutoThreshold(logs []datastore.MissionLog, equipmentName string) *float64 {
	var pool []float64
	qualifying := 0

	for i := range logs {
		log := &logs[i]
		if log.Equipment != equipmentName || log.Successful() || len(log.Samples) == 0 {
			continue
		}
		qualifying++
		for j := range log.Samples {
			pool = append(pool, log.Samples[j].ErrorMeters)
		}
	}

	if qualifying < minQualifyingLogs {
		return nil
	}

	sort.Float64s(pool)
	idx := int(math.Floor(autoThresholdPercentile * float64(len(pool))))
	value := round2(pool[idx])
	return &value
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
