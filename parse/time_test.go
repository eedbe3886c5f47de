package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	for _, tc := range []struct {
		input string
		secs  int
		err   bool
	}{
		{"00:00:00", 0, false},
		{"08:10:30", 8*3600 + 10*60 + 30, false},
		{"8:10:30", 8*3600 + 10*60 + 30, false},
		{"23:59:59", 86399, false},
		// Next-day wrap is preserved, not normalised.
		{"24:00:00", 86400, false},
		{"25:15:00", 25*3600 + 15*60, false},
		{"47:59:59", 47*3600 + 59*60 + 59, false},
		{" 10:00:00 ", 10 * 3600, false},
		{"48:00:00", 0, true},
		{"-1:00:00", 0, true},
		{"10:60:00", 0, true},
		{"10:00:60", 0, true},
		{"10:00", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	} {
		secs, err := parseClock(tc.input)
		if tc.err {
			assert.Error(t, err, tc.input)
			continue
		}
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.secs, secs, tc.input)
	}
}
