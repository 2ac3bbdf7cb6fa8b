// Package timeseries parses uploaded GNSS error sample series.
package timeseries

import "fmt"

// ErrorSample is one measured GNSS error reading. The timestamp is kept as
// the raw uploaded text and only interpreted downstream by chart consumers.
// Lat/Lon are set only for series uploaded in geo mode.
type ErrorSample struct {
	Timestamp   string
	ErrorMeters float64
	Lat         *float64
	Lon         *float64
}

// HasGeo reports whether the sample carries a position fix.
func (s *ErrorSample) HasGeo() bool {
	return s.Lat != nil && s.Lon != nil
}

// ParseErrorKind identifies the reason a series upload was rejected.
type ParseErrorKind string

const (
	// KindEmptyInput means the upload held fewer than a header and one data row.
	KindEmptyInput ParseErrorKind = "empty-input"
	// KindMalformedHeader means the header row did not match the expected columns.
	KindMalformedHeader ParseErrorKind = "malformed-header"
	// KindMalformedRow means a data row's column count did not match the header.
	KindMalformedRow ParseErrorKind = "malformed-row"
	// KindInvalidNumber means a numeric field did not parse to a finite number.
	KindInvalidNumber ParseErrorKind = "invalid-number"
)

// ParseError describes why an uploaded series was rejected. The whole upload
// is rejected on the first failure; no partial series is ever returned.
type ParseError struct {
	Kind  ParseErrorKind
	Line  int    // 1-based line number in the uploaded text, 0 when not applicable
	Field string // offending field name for KindInvalidNumber
}

// Error implements the error interface with an operator-facing message.
func (e *ParseError) Error() string {
	switch e.Kind {
	case KindEmptyInput:
		return "error series is empty: need a header and at least one data row"
	case KindMalformedHeader:
		return "error series header must be 'date,error_rate' or 'date,error_rate,lat,lon'"
	case KindMalformedRow:
		return fmt.Sprintf("line %d: wrong number of columns", e.Line)
	case KindInvalidNumber:
		return fmt.Sprintf("line %d: field %q is not a finite number", e.Line, e.Field)
	default:
		return fmt.Sprintf("invalid error series (line %d)", e.Line)
	}
}
