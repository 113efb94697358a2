package engine

import "time"

// DeriveGameTime maps a wall-clock instant to simulated time: elapsed real
// time since the epoch anchor is stretched by the speed multiplier. Pure;
// this is the only producer of the timestamps fed into AdvanceTo.
func DeriveGameTime(epochStart, wallNow time.Time, speedMultiplier float64) time.Time {
	elapsed := wallNow.Sub(epochStart)
	scaled := time.Duration(float64(elapsed) * speedMultiplier)
	return epochStart.Add(scaled)
}

// StartOfDay truncates to midnight UTC. Daily processing is keyed to these
// values.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
