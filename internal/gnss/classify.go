// Package gnss implements the risk classification and threshold tuning
// engine: deriving per-equipment sensitivity thresholds from mission
// feedback and turning a forecast error value into a risk verdict.
package gnss

import (
	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
)

// RiskLevel is the three-level verdict of comparing an error value against a
// threshold.
type RiskLevel int

const (
	RiskNormal RiskLevel = iota
	RiskCaution
	RiskDanger
)

// CautionFraction is the fraction of the threshold above which the verdict
// escalates from NORMAL to CAUTION.
const CautionFraction = 0.7

// String returns the operator-facing label for the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskDanger:
		return "DANGER"
	case RiskCaution:
		return "CAUTION"
	default:
		return "NORMAL"
	}
}

// MarshalText implements encoding.TextMarshaler so risk levels serialize as
// their labels in API responses.
func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Classify compares an error value in meters against a threshold.
// DANGER requires strictly exceeding the threshold; a value exactly at
// CautionFraction of the threshold is still NORMAL.
func Classify(value, threshold float64) RiskLevel {
	switch {
	case value > threshold:
		return RiskDanger
	case value > threshold*CautionFraction:
		return RiskCaution
	default:
		return RiskNormal
	}
}

// ActiveThreshold resolves the threshold currently governing an equipment's
// risk classification. Auto mode uses the estimator value when one exists;
// without an estimate the manual threshold applies even in auto mode.
func ActiveThreshold(eq *datastore.Equipment) float64 {
	if eq.ThresholdMode == datastore.ThresholdModeAuto && eq.AutoThreshold != nil {
		return *eq.AutoThreshold
	}
	return eq.ManualThreshold
}
