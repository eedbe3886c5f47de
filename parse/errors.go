package parse

import "fmt"

// MissingFileError is returned when a mandatory GTFS file is absent
// from the bundle directory.
type MissingFileError struct {
	File string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("missing mandatory file: %s", e.File)
}

// MalformedFeedError is returned for missing mandatory columns or
// otherwise structurally invalid rows. Offenders lists at most the
// first 20 problems found.
type MalformedFeedError struct {
	File      string
	Offenders []string
}

func (e *MalformedFeedError) Error() string {
	n := len(e.Offenders)
	if n == 0 {
		return fmt.Sprintf("malformed feed: %s", e.File)
	}
	shown := e.Offenders
	if len(shown) > 20 {
		shown = shown[:20]
	}
	return fmt.Sprintf("malformed feed %s: %d offender(s), first %d: %v", e.File, n, len(shown), shown)
}

func newMalformed(file string, offenders []string) error {
	if len(offenders) > 20 {
		offenders = offenders[:20]
	}
	return &MalformedFeedError{File: file, Offenders: offenders}
}
