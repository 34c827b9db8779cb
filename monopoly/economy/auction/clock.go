package auction

import "time"

// Clock abstracts the time source and delayed-callback primitive so tests
// can drive countdowns deterministically.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Stopper
}

// Stopper cancels a pending delayed callback. Stop reports whether the
// callback had not yet fired.
type Stopper interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Stopper {
	return time.AfterFunc(d, fn)
}

// SystemClock is the wall-clock Clock used in production.
var SystemClock Clock = systemClock{}
