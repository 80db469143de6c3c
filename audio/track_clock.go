package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// TrackClock reports how far a music track has played. The encounter
// director is driven by it so waves land on the beat of the track.
type TrackClock struct {
	format beep.Format
	track  beep.StreamSeeker
	ctrl   *beep.Ctrl

	lock   func()
	unlock func()
}

func NewTrackClock(track beep.StreamSeeker, format beep.Format) *TrackClock {
	return &TrackClock{
		format: format,
		track:  track,
		ctrl:   &beep.Ctrl{Streamer: track},
		lock:   func() {},
		unlock: func() {},
	}
}

// Elapsed is the track position in seconds.
func (c *TrackClock) Elapsed() float64 {
	c.lock()
	defer c.unlock()
	return c.format.SampleRate.D(c.track.Position()).Seconds()
}

// Length is the track length in seconds.
func (c *TrackClock) Length() float64 {
	return c.format.SampleRate.D(c.track.Len()).Seconds()
}

// Streamer is what the mixer plays. Pausing it freezes the clock.
func (c *TrackClock) Streamer() beep.Streamer {
	return c.ctrl
}

func (c *TrackClock) SetPaused(paused bool) {
	c.lock()
	defer c.unlock()
	c.ctrl.Paused = paused
}

// Rewind seeks back to the start of the track.
func (c *TrackClock) Rewind() error {
	c.lock()
	defer c.unlock()
	return c.track.Seek(0)
}

// Music is a decoded track playing through the speaker.
type Music struct {
	*TrackClock
	file beep.StreamSeekCloser
}

// PlayMusic decodes a wav file and starts it on the speaker. The speaker
// lock guards the clock from then on.
func PlayMusic(path string) (*Music, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open %s: %w", path, err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		_ = streamer.Close()
		return nil, fmt.Errorf("audio: init speaker: %w", err)
	}

	clock := NewTrackClock(streamer, format)
	clock.lock, clock.unlock = speaker.Lock, speaker.Unlock
	speaker.Play(clock.Streamer())
	return &Music{TrackClock: clock, file: streamer}, nil
}

func (m *Music) Close() error {
	speaker.Clear()
	return m.file.Close()
}
