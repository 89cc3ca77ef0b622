package audioring

import "testing"

// inputFeeder turns a flat interleaved slice into the pull closure
// Resampler.Process expects.
func inputFeeder(frames []int16) func() (int16, int16, bool) {
	i := 0
	return func() (int16, int16, bool) {
		if i*2+1 >= len(frames) {
			return 0, 0, false
		}
		l, r := frames[i*2], frames[i*2+1]
		i++
		return l, r, true
	}
}

func TestResamplerIdentityIsExact(t *testing.T) {
	r := NewResampler(48000, 48000)
	in := []int16{100, 200, 300, 400, 500, 600, 700, 800}
	feed := inputFeeder(in)

	out := r.Process(nil, 4, feed)
	// One input frame is held back as the interpolation lookahead, so 4
	// input frames yield 3 output frames.
	if len(out) != 6 {
		t.Fatalf("len(out) = %d, want 6", len(out))
	}
	for i := range out {
		diff := int(out[i]) - int(in[i])
		if diff < -1 || diff > 1 {
			t.Fatalf("out[%d] = %d, want within 1 LSB of %d", i, out[i], in[i])
		}
	}
}

func TestResamplerUpsampleProducesMoreFrames(t *testing.T) {
	// in=22050, out=48000: out/in ~ 2.18
	r := NewResampler(22050, 48000)
	in := make([]int16, 2*100) // 100 input frames
	for i := range in {
		in[i] = int16(i)
	}
	feed := inputFeeder(in)

	const wantOutFrames = 200
	out := r.Process(nil, wantOutFrames, feed)
	got := len(out) / 2
	// §9 invariant: output contains at least floor(N*out/in)-1 frames for
	// N consumed input frames; here we only know N<=100 were available.
	minExpected := 100*48000/22050 - 1
	if got < minExpected && got < wantOutFrames {
		// Either we produced the requested frames (input ran long enough)
		// or we produced close to the theoretical minimum before running dry.
		t.Fatalf("got %d output frames, want either %d or >= %d", got, wantOutFrames, minExpected)
	}
}

func TestResamplerDriftControlClampsToRange(t *testing.T) {
	r := NewResampler(48000, 48000)

	r.AdjustForFill(2.0) // far above target: 1 + 0.05*1.5 = 1.075, should clamp at 1.03
	if r.RateAdjust() != maxRateAdjust {
		t.Fatalf("RateAdjust() = %v, want %v", r.RateAdjust(), maxRateAdjust)
	}

	r.AdjustForFill(-1.0) // far below target: 1 - 0.05*1.5 = 0.925, should clamp at 0.97
	if r.RateAdjust() != minRateAdjust {
		t.Fatalf("RateAdjust() = %v, want %v", r.RateAdjust(), minRateAdjust)
	}

	r.AdjustForFill(0.5) // at target: rate_adjust should be exactly 1.0
	if r.RateAdjust() != 1.0 {
		t.Fatalf("RateAdjust() at target fill = %v, want 1.0", r.RateAdjust())
	}
}

func TestResamplerStopsEarlyWhenInputExhausted(t *testing.T) {
	r := NewResampler(48000, 48000)
	in := []int16{10, 20, 30, 40} // 2 frames only
	feed := inputFeeder(in)

	out := r.Process(nil, 100, feed)
	if len(out)/2 > 3 {
		t.Fatalf("got %d output frames from only 2 input frames, want <= 3", len(out)/2)
	}
}
