package audioring

// fixedOne is 1.0 in 16.16 fixed point (spec §8 "Fixed-point fractional
// stepping (16.16)"). Keeping the resampler's hot path integer-only
// keeps it deterministic on devices without an FPU.
const fixedOne = 1 << 16

const (
	minRateAdjust = 0.97
	maxRateAdjust = 1.03
	driftGain     = 0.05
	targetFill    = 0.5
)

// Resampler converts a stream of stereo input frames at inRate to a
// stream at outRate via linear interpolation (spec §4.D "Resampler"),
// with a dynamic rate adjust that tracks ring occupancy (spec §4.D
// "Drift control") so small core-rate drift and vsync jitter don't
// accumulate into an audible glitch.
type Resampler struct {
	inRate, outRate float64
	rateAdjust      float64

	frac uint64 // 16.16 fixed point position between prev and curr
	step uint64

	prev, curr   [2]int16
	hasPrev      bool
}

// NewResampler creates a resampler for the given input (core) and
// output (device) sample rates.
func NewResampler(inRate, outRate float64) *Resampler {
	r := &Resampler{inRate: inRate, outRate: outRate, rateAdjust: 1.0}
	r.recomputeStep()
	return r
}

func (r *Resampler) recomputeStep() {
	r.step = uint64((r.inRate / r.outRate) * fixedOne * r.rateAdjust)
}

// AdjustForFill applies the session's drift-control law: rate_adjust <-
// clamp(1 + k*(fillRatio - 0.5), 0.97, 1.03) (spec §4.D "Drift control").
func (r *Resampler) AdjustForFill(fillRatio float64) {
	adj := 1 + driftGain*(fillRatio-targetFill)
	if adj < minRateAdjust {
		adj = minRateAdjust
	} else if adj > maxRateAdjust {
		adj = maxRateAdjust
	}
	r.rateAdjust = adj
	r.recomputeStep()
}

// RateAdjust returns the current rate adjust factor, for diagnostics.
func (r *Resampler) RateAdjust() float64 { return r.rateAdjust }

// Reset clears interpolation history, used when the input stream is
// discontinuous (core reset, rewind jump, fast-forward resync).
func (r *Resampler) Reset() {
	r.frac = 0
	r.hasPrev = false
	r.prev = [2]int16{}
	r.curr = [2]int16{}
}

// Process consumes input frames (interleaved stereo int16) and appends
// resampled output frames to out, returning the extended slice. next is
// called to pull one more input frame whenever the fractional position
// advances past a full input sample; it returns false when no more
// input is available, in which case Process stops early (the caller is
// expected to call Process again once more input has arrived).
func (r *Resampler) Process(out []int16, outFrames int, next func() (l, rt int16, ok bool)) []int16 {
	if !r.hasPrev {
		l, rt, ok := next()
		if !ok {
			return out
		}
		r.prev = [2]int16{l, rt}
		r.curr = r.prev
		if l2, rt2, ok2 := next(); ok2 {
			r.curr = [2]int16{l2, rt2}
		}
		r.hasPrev = true
	}

	for i := 0; i < outFrames; i++ {
		for r.frac >= fixedOne {
			l, rt, ok := next()
			if !ok {
				return out
			}
			r.frac -= fixedOne
			r.prev = r.curr
			r.curr = [2]int16{l, rt}
		}

		t := float64(r.frac) / fixedOne
		l := lerp(r.prev[0], r.curr[0], t)
		rt := lerp(r.prev[1], r.curr[1], t)
		out = append(out, l, rt)

		r.frac += r.step
	}
	return out
}

func lerp(a, b int16, t float64) int16 {
	return int16(float64(a)*(1-t) + float64(b)*t)
}
