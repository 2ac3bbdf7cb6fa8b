// timeseries/parse.go parsing of newline-delimited error sample uploads
package timeseries

import (
	"math"
	"strconv"
	"strings"
)

const (
	columnsPlain = 2
	columnsGeo   = 4
)

// ParseErrorSeries parses newline-delimited tabular text into an ordered
// sample series. The first non-blank line must be the header
// 'date,error_rate' with an optional trailing 'lat,lon' pair that switches
// the series into geo mode. Parsing is atomic: any failure rejects the whole
// upload and returns a *ParseError carrying the offending line number.
// Row order is preserved as uploaded.
func ParseErrorSeries(raw string) ([]ErrorSample, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	type numberedLine struct {
		number int
		text   string
	}
	var content []numberedLine
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		content = append(content, numberedLine{number: i + 1, text: line})
	}

	if len(content) < 2 {
		return nil, &ParseError{Kind: KindEmptyInput}
	}

	columns, err := parseHeader(content[0].text)
	if err != nil {
		return nil, err
	}

	samples := make([]ErrorSample, 0, len(content)-1)
	for _, row := range content[1:] {
		sample, err := parseRow(row.text, row.number, columns)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

// parseHeader validates the header row and returns the expected column count.
func parseHeader(line string) (int, error) {
	fields := splitFields(line)
	switch len(fields) {
	case columnsPlain:
		if fields[0] != "date" || fields[1] != "error_rate" {
			return 0, &ParseError{Kind: KindMalformedHeader, Line: 1}
		}
		return columnsPlain, nil
	case columnsGeo:
		if fields[0] != "date" || fields[1] != "error_rate" || fields[2] != "lat" || fields[3] != "lon" {
			return 0, &ParseError{Kind: KindMalformedHeader, Line: 1}
		}
		return columnsGeo, nil
	default:
		return 0, &ParseError{Kind: KindMalformedHeader, Line: 1}
	}
}

func parseRow(line string, lineNumber, columns int) (ErrorSample, error) {
	fields := splitFields(line)
	if len(fields) != columns {
		return ErrorSample{}, &ParseError{Kind: KindMalformedRow, Line: lineNumber}
	}

	errorMeters, err := parseFinite(fields[1])
	if err != nil {
		return ErrorSample{}, &ParseError{Kind: KindInvalidNumber, Line: lineNumber, Field: "error_rate"}
	}

	sample := ErrorSample{
		Timestamp:   fields[0],
		ErrorMeters: errorMeters,
	}

	if columns == columnsGeo {
		lat, err := parseFinite(fields[2])
		if err != nil {
			return ErrorSample{}, &ParseError{Kind: KindInvalidNumber, Line: lineNumber, Field: "lat"}
		}
		lon, err := parseFinite(fields[3])
		if err != nil {
			return ErrorSample{}, &ParseError{Kind: KindInvalidNumber, Line: lineNumber, Field: "lon"}
		}
		sample.Lat = &lat
		sample.Lon = &lon
	}

	return sample, nil
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// parseFinite parses a float and rejects NaN and infinities, which
// strconv.ParseFloat would otherwise accept as spelled-out values.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
