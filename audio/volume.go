// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Volume scales every sample of src by a constant factor.
// The factor is not clamped.
type Volume struct {
	src    Source
	volume float32
}

func NewVolume(src Source, volume float32) *Volume {
	return &Volume{src: src, volume: volume}
}

func (v *Volume) SampleRate() int { return v.src.SampleRate() }
func (v *Volume) Channels() int   { return v.src.Channels() }
func (v *Volume) BufSize() int    { return v.src.BufSize() }
func (v *Volume) Level() float32  { return v.volume }

func (v *Volume) Close() error {
	if err := v.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (v *Volume) ReadSamples(dst []float32) (int, error) {
	n, err := v.src.ReadSamples(dst)
	if v.volume != 1 {
		for i := range n {
			dst[i] *= v.volume
		}
	}
	return n, err
}
