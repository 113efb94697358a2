package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveGameTime(t *testing.T) {
	epoch := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// 720x: two real hours are sixty game days.
	got := DeriveGameTime(epoch, epoch.Add(2*time.Hour), 720)
	assert.Equal(t, epoch.Add(60*24*time.Hour), got)

	// 1x is the identity mapping.
	got = DeriveGameTime(epoch, epoch.Add(90*time.Minute), 1)
	assert.Equal(t, epoch.Add(90*time.Minute), got)

	// No elapsed real time, no elapsed game time.
	assert.Equal(t, epoch, DeriveGameTime(epoch, epoch, 720))
}

func TestStartOfDay(t *testing.T) {
	at := time.Date(2025, 3, 5, 17, 42, 9, 120, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), StartOfDay(at))

	// Non-UTC inputs normalize to the UTC calendar day.
	loc := time.FixedZone("plus5", 5*3600)
	local := time.Date(2025, 3, 6, 2, 0, 0, 0, loc) // 21:00 UTC on the 5th
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), StartOfDay(local))
}
