// SPDX-License-Identifier: EPL-2.0

package audio

import "time"

// FramesFor converts d to a frame count at rate, truncating toward zero.
// Integer arithmetic keeps every boundary computed from the same duration
// on the same frame. Whole seconds and the remainder are scaled separately
// so that d*rate never has to fit in an int64.
func FramesFor(d time.Duration, rate int) int64 {
	if d <= 0 || rate <= 0 {
		return 0
	}
	secs := int64(d / time.Second)
	rem := int64(d % time.Second)
	return secs*int64(rate) + rem*int64(rate)/int64(time.Second)
}

// SamplesFor converts d to an absolute interleaved sample index in f.
// The result is always frame aligned.
func SamplesFor(d time.Duration, f Format) int64 {
	return FramesFor(d, f.SampleRate) * int64(f.Channels)
}

// DurationOf is the inverse of SamplesFor. It rounds up to the next
// nanosecond, so SamplesFor(DurationOf(n, f), f) == n for frame aligned n.
func DurationOf(samples int64, f Format) time.Duration {
	if samples <= 0 || !f.Valid() {
		return 0
	}
	frames := samples / int64(f.Channels)
	rate := int64(f.SampleRate)
	secs := frames / rate
	rem := frames % rate
	return time.Duration(secs)*time.Second + time.Duration((rem*int64(time.Second)+rate-1)/rate)
}
