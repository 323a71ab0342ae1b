package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrToDuration(t *testing.T) {
	testCases := []struct {
		input    string
		expected time.Duration
	}{
		{"0", 0},
		{"90s", 90 * time.Second},
		{"1h30m", 90 * time.Minute},
		{"2d", 48 * time.Hour},
		{"1.5d", 36 * time.Hour},
		{" 1w ", 7 * 24 * time.Hour},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			d, err := StrToDuration(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, d)
		})
	}

	for _, input := range []string{"", "15", "abc", "xd", "3y"} {
		_, err := StrToDuration(input)
		assert.Error(t, err, input)
	}
}

func TestHTTPTimeoutDefaults(t *testing.T) {
	var h HTTPConfig

	d, err := h.GetShutdownTimeout()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)

	d, err = h.GetIdleTimeout()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)

	h.ReadTimeout = "0"
	_, err = h.GetReadTimeout()
	assert.Error(t, err)
}
