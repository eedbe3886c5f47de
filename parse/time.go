package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// parseClock parses a GTFS HH:MM:SS (or H:MM:SS) field into seconds
// from midnight. HH in [0,47] is legal and preserved, not normalised
// -- next-day wrap is resolved later, by the connection
// builder and planner, not here.
func parseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected HH:MM:SS, got %q", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	if h < 0 || h > 47 {
		return 0, fmt.Errorf("hour %d out of range [0,47] in %q", h, s)
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if m < 0 || m > 59 {
		return 0, fmt.Errorf("minute %d out of range in %q", m, s)
	}

	sec, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("invalid second in %q: %w", s, err)
	}
	if sec < 0 || sec > 59 {
		return 0, fmt.Errorf("second %d out of range in %q", sec, s)
	}

	return h*3600 + m*60 + sec, nil
}
