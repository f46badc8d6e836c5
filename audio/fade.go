// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"time"
)

// FadeOut fades src to silence over the window [fadeStart, total) and forces
// every sample from total onwards to exact zero.
//
// Inside the window the gain is (1 - progress)^2, where progress runs from 0
// at fadeStart to 1 at total. Progress is taken at the first sample of each
// frame rather than at every sample, so all channels of a frame are scaled
// alike and a stereo image does not drift during the fade.
type FadeOut struct {
	src      Source
	start    int64 // first faded sample
	end      int64 // first silent sample
	position int64 // absolute index of the next sample to be read
}

func NewFadeOut(src Source, fadeStart, total time.Duration) (*FadeOut, error) {
	if fadeStart < 0 || total < 0 {
		return nil, ErrNegativeTime
	}
	f := FormatOf(src)
	if !f.Valid() {
		return nil, ErrInvalidFormat
	}

	return &FadeOut{
		src:   src,
		start: SamplesFor(fadeStart, f),
		end:   SamplesFor(total, f),
	}, nil
}

func (f *FadeOut) SampleRate() int { return f.src.SampleRate() }
func (f *FadeOut) Channels() int   { return f.src.Channels() }
func (f *FadeOut) BufSize() int    { return f.src.BufSize() }

// Window returns the fade window as absolute sample indexes.
func (f *FadeOut) Window() (start, end int64) { return f.start, f.end }

func (f *FadeOut) Close() error {
	if err := f.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// Gain returns the multiplier applied to the sample at absolute index pos.
// Every sample of a frame gets the gain of the frame's first sample.
func (f *FadeOut) Gain(pos int64) float64 {
	switch {
	case pos >= f.end:
		return 0
	case pos < f.start:
		return 1
	}
	channels := int64(f.src.Channels())
	frameStart := pos - pos%channels
	progress := float64(frameStart-f.start) / float64(f.end-f.start)
	g := 1 - progress
	return g * g
}

func (f *FadeOut) ReadSamples(dst []float32) (int, error) {
	n, err := f.src.ReadSamples(dst)
	if n <= 0 {
		return n, err
	}

	first := f.position
	last := f.position + int64(n) // exclusive
	f.position = last

	// Block entirely before the window.
	if last <= f.start && last <= f.end {
		return n, err
	}

	if f.end > f.start {
		lo := max(first, f.start)
		hi := min(last, f.end)
		for p := lo; p < hi; p++ {
			dst[p-first] = float32(float64(dst[p-first]) * f.Gain(p))
		}
	}

	if last > f.end {
		for p := max(first, f.end); p < last; p++ {
			dst[p-first] = 0
		}
	}

	return n, err
}
