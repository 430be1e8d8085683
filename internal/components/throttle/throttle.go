// Package throttle implements the randomized pause taken between downloads so that
// scraped government servers are not hammered.
package throttle

import (
	"context"
	"time"

	"github.com/mazen160/go-random"
)

// Delay pauses for a uniformly random duration in [Min, Max].
type Delay struct {
	Min time.Duration
	Max time.Duration
}

func FromSeconds(min, max float64) Delay {
	return Delay{
		Min: time.Duration(min * float64(time.Second)),
		Max: time.Duration(max * float64(time.Second)),
	}
}

// Next picks the next pause length.
func (d Delay) Next() (time.Duration, error) {
	if d.Max <= d.Min {
		return d.Min, nil
	}
	ms, err := random.IntRange(int(d.Min.Milliseconds()), int(d.Max.Milliseconds()))
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// Wait sleeps for the next pause length, returning early with the context's error
// if it is cancelled. It returns how long it decided to wait.
func (d Delay) Wait(ctx context.Context) (time.Duration, error) {
	pause, err := d.Next()
	if err != nil {
		return 0, err
	}
	if pause <= 0 {
		return 0, ctx.Err()
	}

	timer := time.NewTimer(pause)
	defer timer.Stop()
	select {
	case <-timer.C:
		return pause, nil
	case <-ctx.Done():
		return pause, ctx.Err()
	}
}
