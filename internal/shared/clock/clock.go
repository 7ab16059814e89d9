// Package clock provides an injectable time source. Proration and
// subscription transitions depend on "now"; tests substitute a fixed clock
// instead of reading the system time.
package clock

import "time"

// Clock supplies the current time in UTC.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns a Clock backed by the system time.
func System() Clock {
	return systemClock{}
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

// Fixed returns a Clock that always reports t (in UTC).
func Fixed(t time.Time) Clock {
	return fixedClock{t: t.UTC()}
}
