// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/voxmix/audio"
)

// go-mp3 always decodes to interleaved stereo 16-bit little-endian PCM.
const (
	channels       = 2
	bytesPerSample = 2
)

var ErrInvalidSeek = errors.New("mp3: seek position outside the stream or not frame aligned")

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// mp3Seeker is the part of gomp3.Decoder that works only on seekable input.
type mp3Seeker interface {
	mp3Reader
	Seek(offset int64, whence int) (int64, error)
	Length() int64
}

type source struct {
	dec        mp3Reader
	closer     io.Closer
	sampleRate int
	channels   int
	buf        []byte
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return cap(s.buf) / bytesPerSample } // return sample capacity, not bytes

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	bytesNeeded := len(dst) * bytesPerSample
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := s.dec.Read(s.buf)
	samples := n / bytesPerSample
	if samples == 0 {
		if err != nil {
			return 0, err
		}
		if len(dst) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}

	for i := range samples {
		// Read int16 little-endian
		val := int16(uint16(s.buf[2*i]) | uint16(s.buf[2*i+1])<<8)
		dst[i] = float32(val) / 32768.0
	}

	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("%w", err)
	}
	return samples, err
}

// seekableSource is used when the input is an io.ReadSeeker, which lets
// go-mp3 compute the stream length and seek.
type seekableSource struct {
	source
	seeker mp3Seeker
}

// Len is the total number of interleaved samples.
func (s *seekableSource) Len() int64 {
	return s.seeker.Length() / bytesPerSample
}

func (s *seekableSource) SeekSamples(pos int64) error {
	if pos < 0 || pos > s.Len() || pos%channels != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSeek, pos)
	}
	if _, err := s.seeker.Seek(pos*bytesPerSample, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newSource(dec, r), nil
}

func newSource(dec mp3Reader, r io.Reader) audio.Source {
	closer, _ := r.(io.Closer)
	src := source{
		dec:        dec,
		closer:     closer,
		sampleRate: dec.SampleRate(),
		channels:   channels,
		buf:        make([]byte, 8192),
	}

	if _, ok := r.(io.Seeker); ok {
		if sk, ok := dec.(mp3Seeker); ok && sk.Length() >= 0 {
			return &seekableSource{source: src, seeker: sk}
		}
	}
	return &src
}
