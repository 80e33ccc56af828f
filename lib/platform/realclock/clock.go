package realclock

import (
	"time"

	"example.com/swarmpolicy/lib/core/adapter/clock"
)

type RealClock struct{}

var _ clock.Clock = RealClock{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}
