// explain.go human-readable justification for automatic thresholds
package gnss

import (
	"fmt"

	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
)

// Explanation summarizes the mission log population behind an equipment's
// automatic threshold. It is a pure read-side report.
type Explanation struct {
	Equipment         string   `json:"equipment"`
	TotalMissions     int      `json:"totalMissions"`
	FailedCount       int      `json:"failedCount"`
	MediocreCount     int      `json:"mediocreCount"`
	AvgErrorOnFailure *float64 `json:"avgErrorOnFailure"` // nil when no failure-adjacent log carries samples
}

// Explain derives the threshold justification for one piece of equipment.
// It tolerates zero logs: everything is zero and the average is nil.
func Explain(equipmentName string, logs []datastore.MissionLog) Explanation {
	exp := Explanation{Equipment: equipmentName}

	var errSum float64
	var errCount int

	for i := range logs {
		log := &logs[i]
		if log.Equipment != equipmentName {
			continue
		}
		exp.TotalMissions++
		switch {
		case log.Failed():
			exp.FailedCount++
		case log.Mediocre():
			exp.MediocreCount++
		}
		if !log.Successful() {
			for j := range log.Samples {
				errSum += log.Samples[j].ErrorMeters
				errCount++
			}
		}
	}

	if errCount > 0 {
		avg := errSum / float64(errCount)
		exp.AvgErrorOnFailure = &avg
	}

	return exp
}

// Summary renders the explanation as a short operator-facing sentence.
func (e *Explanation) Summary() string {
	if e.TotalMissions == 0 {
		return fmt.Sprintf("No mission feedback recorded for %s yet.", e.Equipment)
	}
	if e.AvgErrorOnFailure == nil {
		return fmt.Sprintf("%d missions recorded for %s (%d failed, %d mediocre); no error samples on failure-adjacent missions yet.",
			e.TotalMissions, e.Equipment, e.FailedCount, e.MediocreCount)
	}
	return fmt.Sprintf("%d missions recorded for %s (%d failed, %d mediocre); mean GNSS error across failure-adjacent missions was %.2f m.",
		e.TotalMissions, e.Equipment, e.FailedCount, e.MediocreCount, *e.AvgErrorOnFailure)
}
