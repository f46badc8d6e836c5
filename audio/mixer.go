// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Mixer sums any number of equal-format sources sample for sample.
//
// Each input is read until the requested block is full or the input ends, so
// a short read from one input never shifts it against the others. Inputs that
// have ended contribute silence; the mixer ends once every input has ended.
// No clipping is applied.
type Mixer struct {
	inputs []Source
	ended  []bool
	format Format
	tmp    []float32
}

func NewMixer(srcs ...Source) (*Mixer, error) {
	if len(srcs) == 0 {
		return nil, ErrNoSources
	}

	f := FormatOf(srcs[0])
	if !f.Valid() {
		return nil, ErrInvalidFormat
	}
	for i, src := range srcs[1:] {
		if got := FormatOf(src); got != f {
			return nil, fmt.Errorf("%w: input %d is %d Hz/%d ch, want %d Hz/%d ch",
				ErrFormatMismatch, i+1, got.SampleRate, got.Channels, f.SampleRate, f.Channels)
		}
	}

	return &Mixer{
		inputs: srcs,
		ended:  make([]bool, len(srcs)),
		format: f,
		tmp:    make([]float32, 4096),
	}, nil
}

func (m *Mixer) SampleRate() int { return m.format.SampleRate }
func (m *Mixer) Channels() int   { return m.format.Channels }

func (m *Mixer) BufSize() int {
	size := 0
	for _, in := range m.inputs {
		size = max(size, in.BufSize())
	}
	return size
}

// Close closes every input and joins their errors.
func (m *Mixer) Close() error {
	var errs []error
	for _, in := range m.inputs {
		if err := in.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Mixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.format.Channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if cap(m.tmp) < len(dst) {
		m.tmp = make([]float32, len(dst))
	}
	tmp := m.tmp[:len(dst)]

	clear(dst)
	written := 0
	for i, in := range m.inputs {
		if m.ended[i] {
			continue
		}

		n, err := ReadFull(in, tmp)
		for j := range n {
			dst[j] += tmp[j]
		}
		written = max(written, n)

		if err == io.EOF {
			m.ended[i] = true
		} else if err != nil {
			return written, fmt.Errorf("mixer input %d: %w", i, err)
		}
	}

	for _, done := range m.ended {
		if !done {
			return written, nil
		}
	}
	return written, io.EOF
}
