package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want Rate
	}{
		{"2/min", Rate{2, time.Minute}},
		{"10/m", Rate{10, time.Minute}},
		{"5/s", Rate{5, time.Second}},
		{"100/hour", Rate{100, time.Hour}},
		{"1000/day", Rate{1000, 24 * time.Hour}},
		{" 3 / Minute ", Rate{3, time.Minute}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRate_Invalid(t *testing.T) {
	for _, in := range []string{"", "10", "x/min", "0/min", "-1/min", "5/", "5/week"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseRate(in)
			assert.ErrorIs(t, err, ErrInvalidRate)
		})
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	now := time.Unix(1000, 0)
	assert.Equal(t, 30, RetryAfterSeconds(now.Add(29500*time.Millisecond), now))
	assert.Equal(t, 1, RetryAfterSeconds(now.Add(-time.Second), now))
}
