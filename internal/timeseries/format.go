// timeseries/format.go export of sample series back to upload format
package timeseries

import (
	"strconv"
	"strings"
)

// FormatErrorSeries renders samples back into the newline-delimited upload
// format. Geo columns are emitted when the first sample carries a position;
// samples without one in a geo series get empty lat/lon fields.
func FormatErrorSeries(samples []ErrorSample) string {
	geo := len(samples) > 0 && samples[0].HasGeo()

	var b strings.Builder
	if geo {
		b.WriteString("date,error_rate,lat,lon\n")
	} else {
		b.WriteString("date,error_rate\n")
	}

	for i := range samples {
		s := &samples[i]
		b.WriteString(s.Timestamp)
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(s.ErrorMeters, 'f', -1, 64))
		if geo {
			b.WriteByte(',')
			if s.Lat != nil {
				b.WriteString(strconv.FormatFloat(*s.Lat, 'f', -1, 64))
			}
			b.WriteByte(',')
			if s.Lon != nil {
				b.WriteString(strconv.FormatFloat(*s.Lon, 'f', -1, 64))
			}
		}
		b.WriteByte('\n')
	}

	return b.String()
}
