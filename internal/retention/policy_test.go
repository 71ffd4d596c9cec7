package retention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeleteDate(t *testing.T) {
	forward := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	got := DeleteDate(forward, 60*24*time.Hour)
	assert.Equal(t, time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC), got)
}

func TestIsDue(t *testing.T) {
	deadline := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before deadline", deadline.Add(-time.Minute), false},
		{"exactly at deadline", deadline, true},
		{"after deadline", deadline.Add(time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDue(deadline, tt.now))
		})
	}
}

func TestIsStale(t *testing.T) {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	grace := 7 * 24 * time.Hour

	assert.False(t, IsStale(created, created.Add(grace-time.Second), grace))
	assert.True(t, IsStale(created, created.Add(grace), grace))
	assert.True(t, IsStale(created, created.Add(30*24*time.Hour), grace))

	// zero grace marks everything stale
	assert.True(t, IsStale(created, created, 0))
}

func TestStaleCutoff(t *testing.T) {
	now := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	cutoff := StaleCutoff(now, 7*24*time.Hour)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), cutoff)

	// records created before the cutoff are exactly the stale ones
	assert.True(t, IsStale(cutoff.Add(-time.Second), now, 7*24*time.Hour))
	assert.False(t, IsStale(cutoff.Add(time.Second), now, 7*24*time.Hour))
}
