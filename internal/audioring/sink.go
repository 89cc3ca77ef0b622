//go:build !headless

package audioring

import (
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Sink owns the oto playback context and pulls resampled frames from a
// Ring on oto's callback thread (spec §5 "platform audio driver owns
// exactly one consumer thread that invokes a callback requesting audio
// frames; that callback is the sole consumer of the audio ring"),
// grounded on the teacher's AudioPlayer (standalone/audio.go) which
// wires the same oto.Context/oto.Player pair around a ring buffer, here
// extended with the resampler the teacher's build (a single fixed
// console, no per-core rate negotiation) never needed.
type Sink struct {
	player *oto.Player
	ring   *Ring
	res    *Resampler

	mu      sync.Mutex
	scratch []int16
}

var (
	otoCtx     *oto.Context
	otoOnce    sync.Once
	otoInitErr error
)

func ensureOtoContext(deviceSampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   deviceSampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		})
		if err != nil {
			otoInitErr = err
			return
		}
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoInitErr
}

// NewSink creates a playback sink resampling from coreRate to
// deviceSampleRate, backed by a ring of ringCapacity stereo frames.
func NewSink(coreRate float64, deviceSampleRate, ringCapacity int, volume float64) (*Sink, error) {
	ctx, err := ensureOtoContext(deviceSampleRate)
	if err != nil {
		return nil, err
	}

	ring := NewRing(ringCapacity)
	s := &Sink{
		ring: ring,
		res:  NewResampler(coreRate, float64(deviceSampleRate)),
	}
	player := ctx.NewPlayer(s)
	player.SetBufferSize(19200)
	player.SetVolume(clampVolume(volume))
	player.Play()
	s.player = player
	return s, nil
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 2.0 {
		return 2.0
	}
	return v
}

// PushFrames feeds raw core-rate stereo frames into the ring, called
// from the libretro host's audio callback on the main thread.
func (s *Sink) PushFrames(frames []int16) {
	s.ring.Write(frames)
}

// Read implements io.Reader for oto.Player: on each call it resamples
// enough ring-buffered frames to device rate and serializes them as
// little-endian bytes. Never blocks (spec §5 "the audio callback never
// blocks").
func (s *Sink) Read(p []byte) (int, error) {
	wantFrames := len(p) / 4
	if wantFrames == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.scratch = s.scratch[:0]
	s.scratch = s.res.Process(s.scratch, wantFrames, s.pullFromRing)

	n := len(s.scratch)
	for i := 0; i < n; i++ {
		v := uint16(s.scratch[i])
		p[i*2] = byte(v)
		p[i*2+1] = byte(v >> 8)
	}
	for i := n * 2; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func (s *Sink) pullFromRing() (int16, int16, bool) {
	var frame [2]int16
	if s.ring.Read(frame[:]) == 0 {
		return 0, 0, false
	}
	return frame[0], frame[1], true
}

// AdjustRate applies the session's drift-control sample (spec §4.D
// "Drift control"), called once every N ticks with the ring's current
// occupancy.
func (s *Sink) AdjustRate() {
	s.res.AdjustForFill(s.ring.FillRatio())
}

// RateAdjust returns the resampler's current rate adjust factor.
func (s *Sink) RateAdjust() float64 { return s.res.RateAdjust() }

// Buffered returns the bytes of audio currently buffered (ring + oto's
// own internal player buffer), used for fast-forward drop pacing (spec
// §4.D fast-forward test case: "audio ring fill >= 0.8 triggers drops").
func (s *Sink) Buffered() int {
	return s.ring.Buffered()*4 + s.player.BufferedSize()
}

// Clear flushes the ring, used when entering rewind mode to avoid
// playing stale audio (mirrors the teacher's AudioPlayer.ClearQueue).
func (s *Sink) Clear() {
	s.ring.Clear()
	s.res.Reset()
}

// SetVolume sets playback volume, clamped to [0, 2.0].
func (s *Sink) SetVolume(v float64) {
	s.player.SetVolume(clampVolume(v))
}

// Close releases the oto player. The shared oto.Context is process-
// lifetime and is not closed here.
func (s *Sink) Close() error {
	return s.player.Close()
}
