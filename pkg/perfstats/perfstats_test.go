package perfstats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRollingRateWindow(t *testing.T) {
	r := NewRollingRate(DefaultRateWindow)
	require.Equal(t, 0.0, r.Average())

	for i := 1; i <= 100; i++ {
		r.AddSample(float64(i))
		require.LessOrEqual(t, r.Len(), 30)
	}
	require.Equal(t, 30, r.Len())
	// Samples 71..100 remain
	require.InDelta(t, 85.5, r.Average(), 1e-9)
}

func TestRollingRateIntervals(t *testing.T) {
	r := NewRollingRate(3)
	r.AddInterval(100 * time.Millisecond)
	r.AddInterval(50 * time.Millisecond)
	require.Equal(t, 2, r.Len())
	require.InDelta(t, 15.0, r.Average(), 1e-9)

	r.AddInterval(0)
	r.AddInterval(-time.Second)
	require.Equal(t, 2, r.Len())

	r.AddInterval(time.Second)
	r.AddInterval(time.Second)
	require.Equal(t, 3, r.Len())
	require.InDelta(t, (20.0+1+1)/3, r.Average(), 1e-9)
}

func TestRollingRateDefaultSize(t *testing.T) {
	r := NewRollingRate(0)
	for i := 0; i < 100; i++ {
		r.AddSample(1)
	}
	require.Equal(t, DefaultRateWindow, r.Len())
}

func TestTimeAccumulator(t *testing.T) {
	ta := TimeAccumulator{}
	require.Equal(t, time.Duration(0), ta.Average())
	ta.AddSample(10 * time.Millisecond)
	ta.AddSample(30 * time.Millisecond)
	require.Equal(t, 20*time.Millisecond, ta.Average())
}
