package audio

import (
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentTrack(t *testing.T, seconds float64) (beep.StreamSeeker, beep.Format) {
	t.Helper()
	format := beep.Format{SampleRate: beep.SampleRate(44100), NumChannels: 2, Precision: 2}
	buf := beep.NewBuffer(format)
	buf.Append(beep.Silence(int(seconds * float64(format.SampleRate))))
	require.Equal(t, int(seconds*44100), buf.Len())
	return buf.Streamer(0, buf.Len()), format
}

func TestTrackClockFollowsStreamPosition(t *testing.T) {
	track, format := silentTrack(t, 2)
	clock := NewTrackClock(track, format)

	assert.Equal(t, 0.0, clock.Elapsed())
	assert.InDelta(t, 2.0, clock.Length(), 1e-9)

	samples := make([][2]float64, 22050)
	n, ok := clock.Streamer().Stream(samples)
	require.True(t, ok)
	require.Equal(t, 22050, n)
	assert.InDelta(t, 0.5, clock.Elapsed(), 1e-9)
}

func TestTrackClockPauseFreezesTime(t *testing.T) {
	track, format := silentTrack(t, 1)
	clock := NewTrackClock(track, format)

	samples := make([][2]float64, 4410)
	clock.Streamer().Stream(samples)
	before := clock.Elapsed()

	clock.SetPaused(true)
	clock.Streamer().Stream(samples)
	assert.Equal(t, before, clock.Elapsed())

	clock.SetPaused(false)
	clock.Streamer().Stream(samples)
	assert.InDelta(t, before+0.1, clock.Elapsed(), 1e-9)
}

func TestTrackClockRewind(t *testing.T) {
	track, format := silentTrack(t, 1)
	clock := NewTrackClock(track, format)

	clock.Streamer().Stream(make([][2]float64, 1000))
	require.NoError(t, clock.Rewind())
	assert.Equal(t, 0.0, clock.Elapsed())
}
