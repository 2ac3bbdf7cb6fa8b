package gnss

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     float64
		threshold float64
		want      RiskLevel
	}{
		{"well below threshold", 2.0, 10.0, RiskNormal},
		{"exactly at caution boundary stays normal", 7.0, 10.0, RiskNormal},
		{"just below caution boundary", 6.99, 10.0, RiskNormal},
		{"just above caution boundary", 7.01, 10.0, RiskCaution},
		{"inside caution band", 9.5, 10.0, RiskCaution},
		{"exactly at threshold stays caution", 10.0, 10.0, RiskCaution},
		{"just above threshold", 10.01, 10.0, RiskDanger},
		{"far above threshold", 50.0, 10.0, RiskDanger},
		{"zero value", 0.0, 10.0, RiskNormal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.value, tt.threshold))
		})
	}
}

func TestRiskLevelLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NORMAL", RiskNormal.String())
	assert.Equal(t, "CAUTION", RiskCaution.String())
	assert.Equal(t, "DANGER", RiskDanger.String())

	text, err := RiskDanger.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "DANGER", string(text))
}

func TestActiveThreshold(t *testing.T) {
	t.Parallel()

	auto := 6.5

	tests := []struct {
		name string
		eq   datastore.Equipment
		want float64
	}{
		{
			name: "manual mode uses manual threshold",
			eq:   datastore.Equipment{ThresholdMode: datastore.ThresholdModeManual, ManualThreshold: 10, AutoThreshold: &auto},
			want: 10,
		},
		{
			name: "auto mode with estimate uses estimate",
			eq:   datastore.Equipment{ThresholdMode: datastore.ThresholdModeAuto, ManualThreshold: 10, AutoThreshold: &auto},
			want: 6.5,
		},
		{
			name: "auto mode without estimate falls back to manual",
			eq:   datastore.Equipment{ThresholdMode: datastore.ThresholdModeAuto, ManualThreshold: 10},
			want: 10,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, ActiveThreshold(&tt.eq), 1e-9)
		})
	}
}
