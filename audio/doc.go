// SPDX-License-Identifier: EPL-2.0

// Package audio provides the pull-based sample pipeline.
//
// Everything is built on the Source interface:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// A stage wraps one Source (the Mixer wraps several) and is itself a
// Source, so stages chain:
//
//	music, err := audio.NewLoop(src, 2*time.Second, 35*time.Second)
//	quiet := audio.NewVolume(music, 0.3)
//	faded, err := audio.NewFadeOut(quiet, 30*time.Second, 35*time.Second)
//	mix, err := audio.NewMixer(audio.NewVolume(voice, 1), faded)
//
// # Stages
//
//   - Volume scales every sample by a constant.
//   - Loop starts at an offset and repeats the rest of its source until an
//     exact length has been produced. Its source must implement Seeker.
//   - FadeOut applies a squared fade over a window and silences everything
//     after it.
//   - Mixer sums sources of one format sample for sample, without clipping.
//   - Resampler changes the sample rate by Catmull-Rom interpolation.
//   - ChannelMapper downmixes by averaging or duplicates mono.
//
// Normalize combines the last two to bring any source to a given Format.
//
// # Time and Sample Positions
//
// Positions are counted in interleaved samples. SamplesFor turns a duration
// into a frame aligned position with integer math, and every stage that
// compares time against a running counter goes through it, so boundaries
// computed from the same duration always land on the same frame.
//
// # End of Stream
//
// ReadSamples returns io.EOF when no more data is available, possibly with
// n > 0 on the same call. ReadFull keeps reading until a buffer is full or
// the source ends:
//
//	for {
//	    n, err := audio.ReadFull(source, buf)
//	    // use buf[:n]
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// Stages never swallow errors from their sources.
package audio
