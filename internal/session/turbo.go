package session

// averageAudio downsamples concatenated int16 sample frames from
// multiplier ticks into one frame's worth by averaging corresponding
// sample positions (grounded on the teacher's turbo.go averageAudio,
// unchanged in spirit: turbo folds N emulated frames of audio into one
// real frame so fast-forward doesn't speed up the soundtrack's pitch).
func averageAudio(combined []int16, multiplier int) []int16 {
	if multiplier <= 1 || len(combined) == 0 {
		return combined
	}

	frameLen := len(combined) / multiplier
	frameLen &^= 1 // stereo pairs

	if frameLen == 0 {
		return nil
	}

	out := make([]int16, frameLen)
	for i := 0; i < frameLen; i++ {
		var acc int32
		for f := 0; f < multiplier; f++ {
			acc += int32(combined[f*frameLen+i])
		}
		out[i] = int16(acc / int32(multiplier))
	}
	return out
}
