// mock.go seedable stand-in for the external forecast provider
package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/now-man/a4s-dshbrd-250831/internal/conf"
)

// MockProvider generates a plausible GNSS error horizon: a low daytime
// baseline with elevated evening and pre-midnight activity, mirroring the
// diurnal shape of ionospheric disturbance. Seedable so test fixtures are
// deterministic.
type MockProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewMockProvider creates a mock provider. seed == 0 seeds from the clock.
func NewMockProvider(seed int64) *MockProvider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockProvider{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// FetchForecast generates an hourly horizon centered on the current time:
// the first point sits half the horizon in the past so the dashboard chart
// shows recent history alongside the prediction.
func (p *MockProvider) FetchForecast(settings *conf.Settings) ([]ForecastPoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	horizon := settings.Forecast.HorizonHours
	if horizon <= 0 {
		horizon = 24
	}

	cursor := p.now().Truncate(time.Hour).Add(-time.Duration(horizon/2) * time.Hour)

	points := make([]ForecastPoint, 0, horizon)
	for i := 0; i < horizon; i++ {
		cursor = cursor.Add(time.Hour)
		hour := cursor.Hour()

		errMeters := 2 + p.rng.Float64()*2
		if hour >= 18 || hour <= 3 {
			errMeters += 3 + p.rng.Float64()*5
		}
		if hour >= 21 && hour <= 23 {
			errMeters += 5 + p.rng.Float64()*5
		}

		points = append(points, ForecastPoint{
			HourLabel:            fmt.Sprintf("%02d:00", hour),
			PredictedErrorMeters: round2(errMeters),
			KpIndex:              round2(errMeters/3 + p.rng.Float64()),
		})
	}

	return points, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
