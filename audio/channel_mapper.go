// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMapper converts src to a different channel count.
// Many-to-one averages the channels of each frame, one-to-many duplicates the
// single channel, and equal counts pass through. Any other conversion keeps
// the first min(in, out) channels and fills the rest with their average.
type ChannelMapper struct {
	src Source
	out int
	tmp []float32
}

func NewChannelMapper(src Source, channels int) *ChannelMapper {
	return &ChannelMapper{
		src: src,
		out: channels,
		tmp: make([]float32, 4096),
	}
}

// NewMonoMixer downmixes src to one channel.
func NewMonoMixer(src Source) *ChannelMapper {
	return NewChannelMapper(src, 1)
}

func (m *ChannelMapper) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMapper) Channels() int   { return m.out }
func (m *ChannelMapper) BufSize() int    { return m.src.BufSize() }
func (m *ChannelMapper) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *ChannelMapper) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	in := m.src.Channels()
	if in == m.out {
		return m.src.ReadSamples(dst)
	}
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}

	frames := len(dst) / m.out
	samplesNeeded := frames * in

	// Grow tmp buffer if needed (but don't shrink to avoid thrashing)
	if cap(m.tmp) < samplesNeeded {
		m.tmp = make([]float32, max(samplesNeeded, 8192))
	}
	tmp := m.tmp[:samplesNeeded]

	n, err := m.src.ReadSamples(tmp)
	if n == 0 {
		return 0, err
	}
	frames = n / in

	switch {
	case m.out == 1 && in == 2:
		for f := range frames {
			idx := f << 1
			dst[f] = (tmp[idx] + tmp[idx+1]) * 0.5
		}
	case in == 1:
		for f := range frames {
			v := tmp[f]
			base := f * m.out
			for c := range m.out {
				dst[base+c] = v
			}
		}
	default:
		invChannels := float32(1.0) / float32(in)
		for f := range frames {
			base := f * in
			sum := float32(0)
			for c := range in {
				sum += tmp[base+c]
			}
			avg := sum * invChannels
			outBase := f * m.out
			for c := range m.out {
				if c < in && m.out > 1 {
					dst[outBase+c] = tmp[base+c]
				} else {
					dst[outBase+c] = avg
				}
			}
		}
	}

	return frames * m.out, err
}
