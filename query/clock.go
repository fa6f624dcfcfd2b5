package query

import "time"

// Clock supplies timestamps for execution statistics. Injecting a fake
// clock makes recorded durations deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock used by default.
func SystemClock() Clock { return systemClock{} }
