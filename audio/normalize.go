// SPDX-License-Identifier: EPL-2.0

package audio

// Normalize converts src to the sample rate and channel count of f.
//
// Resampling runs before channel mapping so that downmixing never sees the
// source rate; stages that would not change anything are left out, making
// Normalize a pass-through for a source already in f.
func Normalize(src Source, f Format) Source {
	out := src
	if out.SampleRate() != f.SampleRate {
		out = NewResampler(out, f.SampleRate)
	}
	if out.Channels() != f.Channels {
		out = NewChannelMapper(out, f.Channels)
	}
	return out
}
