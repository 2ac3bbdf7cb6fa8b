package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorSeries_Plain(t *testing.T) {
	t.Parallel()

	raw := "date,error_rate\n2025-06-01 10:00,3.2\n2025-06-01 10:01,4.8\n"
	samples, err := ParseErrorSeries(raw)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, "2025-06-01 10:00", samples[0].Timestamp)
	assert.InDelta(t, 3.2, samples[0].ErrorMeters, 1e-9)
	assert.False(t, samples[0].HasGeo())

	// upload order is preserved
	assert.Equal(t, "2025-06-01 10:01", samples[1].Timestamp)
	assert.InDelta(t, 4.8, samples[1].ErrorMeters, 1e-9)
}

func TestParseErrorSeries_Geo(t *testing.T) {
	t.Parallel()

	raw := "date,error_rate,lat,lon\n2025-06-01 10:00,3.2,36.64,127.49\n"
	samples, err := ParseErrorSeries(raw)
	require.NoError(t, err)
	require.Len(t, samples, 1)

	require.True(t, samples[0].HasGeo())
	assert.InDelta(t, 36.64, *samples[0].Lat, 1e-9)
	assert.InDelta(t, 127.49, *samples[0].Lon, 1e-9)
}

func TestParseErrorSeries_ToleratesWhitespaceAndCRLF(t *testing.T) {
	t.Parallel()

	raw := "date, error_rate\r\n\r\n 2025-06-01 10:00 , 3.2 \r\n"
	samples, err := ParseErrorSeries(raw)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "2025-06-01 10:00", samples[0].Timestamp)
}

func TestParseErrorSeries_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		wantKind  ParseErrorKind
		wantLine  int
		wantField string
	}{
		{
			name:     "empty string",
			raw:      "",
			wantKind: KindEmptyInput,
		},
		{
			name:     "header only",
			raw:      "date,error_rate\n",
			wantKind: KindEmptyInput,
		},
		{
			name:     "blank lines only",
			raw:      "\n\n  \n",
			wantKind: KindEmptyInput,
		},
		{
			name:     "unknown header",
			raw:      "time,err\n2025-06-01,3.2\n",
			wantKind: KindMalformedHeader,
			wantLine: 1,
		},
		{
			name:     "geo header with wrong column names",
			raw:      "date,error_rate,x,y\n2025-06-01,3.2,1,2\n",
			wantKind: KindMalformedHeader,
			wantLine: 1,
		},
		{
			name:     "row with missing column",
			raw:      "date,error_rate\n2025-06-01 10:00\n",
			wantKind: KindMalformedRow,
			wantLine: 2,
		},
		{
			name:     "row with extra column under plain header",
			raw:      "date,error_rate\n2025-06-01 10:00,3.2,36.64\n",
			wantKind: KindMalformedRow,
			wantLine: 2,
		},
		{
			name:      "non-numeric error value",
			raw:       "date,error_rate\n2025-06-01 10:00,high\n",
			wantKind:  KindInvalidNumber,
			wantLine:  2,
			wantField: "error_rate",
		},
		{
			name:      "NaN is rejected",
			raw:       "date,error_rate\n2025-06-01 10:00,NaN\n",
			wantKind:  KindInvalidNumber,
			wantLine:  2,
			wantField: "error_rate",
		},
		{
			name:      "infinite lat is rejected",
			raw:       "date,error_rate,lat,lon\n2025-06-01 10:00,3.2,+Inf,127.49\n",
			wantKind:  KindInvalidNumber,
			wantLine:  2,
			wantField: "lat",
		},
		{
			name:     "bad row after blank lines keeps raw line number",
			raw:      "date,error_rate\n\n\n2025-06-01 10:00\n",
			wantKind: KindMalformedRow,
			wantLine: 4,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			samples, err := ParseErrorSeries(tt.raw)
			require.Error(t, err)
			assert.Nil(t, samples, "rejected uploads must not return partial series")

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.wantKind, parseErr.Kind)
			assert.Equal(t, tt.wantLine, parseErr.Line)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, parseErr.Field)
			}
		})
	}
}

func TestFormatErrorSeries_RoundTrip(t *testing.T) {
	t.Parallel()

	raw := "date,error_rate,lat,lon\n2025-06-01 10:00,3.2,36.64,127.49\n2025-06-01 10:01,4.8,36.65,127.5\n"
	samples, err := ParseErrorSeries(raw)
	require.NoError(t, err)

	out := FormatErrorSeries(samples)
	again, err := ParseErrorSeries(out)
	require.NoError(t, err)
	assert.Equal(t, samples, again)
}
