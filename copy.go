// SPDX-License-Identifier: EPL-2.0

package voxmix

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/voxmix/audio"
)

// ErrEmptyBuffer is returned by Copy when buf cannot hold a single frame.
var ErrEmptyBuffer = errors.New("copy buffer holds no frame")

// SampleWriter consumes interleaved samples. *wav.Writer implements it.
type SampleWriter interface {
	WriteSamples(samples []float32) error
}

// StepFunc is called by Copy after every block with the total number of
// samples copied so far. Returning an error stops the copy.
type StepFunc func(copied int64) error

// Copy pulls src into dst until src ends and returns the number of samples
// copied. Blocks are read with audio.ReadFull, so every block but the last is
// exactly len(buf) samples long; buf is trimmed to whole frames.
//
// Errors from step are returned unwrapped so callers can match their own
// sentinels.
func Copy(dst SampleWriter, src audio.Source, buf []float32, step StepFunc) (int64, error) {
	channels := max(src.Channels(), 1)
	buf = buf[:len(buf)-len(buf)%channels]
	if len(buf) == 0 {
		return 0, ErrEmptyBuffer
	}

	var copied int64
	for {
		n, err := audio.ReadFull(src, buf)
		if n > 0 {
			if werr := dst.WriteSamples(buf[:n]); werr != nil {
				return copied, fmt.Errorf("%w", werr)
			}
			copied += int64(n)
		}

		if err != nil && err != io.EOF {
			return copied, fmt.Errorf("%w", err)
		}

		if step != nil && n > 0 {
			if serr := step(copied); serr != nil {
				return copied, serr
			}
		}

		if err == io.EOF {
			return copied, nil
		}
	}
}
