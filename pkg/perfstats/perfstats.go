package perfstats

import (
	"time"

	"github.com/bmharper/ringbuffer"
	"github.com/cyclopcam/yolotools/pkg/stats"
)

// Accumulate samples of how long something took
type TimeAccumulator struct {
	Samples int64
	Total   time.Duration
}

func (a *TimeAccumulator) AddSample(v time.Duration) {
	a.Samples++
	a.Total += v
}

func (a *TimeAccumulator) Average() time.Duration {
	if a.Samples == 0 {
		return 0
	}
	return time.Duration(a.Total.Nanoseconds() / a.Samples)
}

// Number of frame rate samples that are averaged for the on-screen FPS
const DefaultRateWindow = 30

// RollingRate keeps the most recent N instantaneous rates (eg frames per second),
// evicting the oldest once full, and reports their arithmetic mean.
type RollingRate struct {
	samples ringbuffer.RingP[float64]
}

func NewRollingRate(size int) *RollingRate {
	if size <= 0 {
		size = DefaultRateWindow
	}
	return &RollingRate{
		samples: ringbuffer.NewRingP[float64](size),
	}
}

// Add the rate implied by one interval (eg the time taken to process one frame).
// Non-positive intervals are ignored, since they have no meaningful rate.
func (r *RollingRate) AddInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	r.AddSample(1 / d.Seconds())
}

func (r *RollingRate) AddSample(rate float64) {
	r.samples.Add(rate)
}

// Number of samples currently held (never more than the window size)
func (r *RollingRate) Len() int {
	return r.samples.Len()
}

// Arithmetic mean of the samples currently held, or zero when empty
func (r *RollingRate) Average() float64 {
	n := r.samples.Len()
	all := make([]float64, n)
	for i := 0; i < n; i++ {
		all[i] = r.samples.Peek(i)
	}
	return stats.Mean(all)
}
