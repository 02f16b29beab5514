package gpx

// ErrorCode classifies why a parse failed.
type ErrorCode string

const (
	// InvalidFormat means the input was not well-formed XML.
	InvalidFormat ErrorCode = "invalid_format"
	// NoTrackPoints means the XML parsed but no usable track point survived.
	NoTrackPoints ErrorCode = "no_track_points"
)

// ParseError is returned by Parse. Callers are expected to skip the GPX
// attachment and carry on; a failed parse never blocks the rest of an
// entry save.
type ParseError struct {
	Code ErrorCode
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Err.Error()
	}
	return string(e.Code)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
