// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/voxmix/audio"
	"github.com/jfreymuth/oggvorbis"
)

var ErrInvalidSeek = errors.New("vorbis: seek position outside the stream or not frame aligned")

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// oggSeeker is the part of oggvorbis.Reader that needs seekable input.
// Length and SetPosition count frames, which vorbis calls samples.
type oggSeeker interface {
	oggReader
	Length() int64
	SetPosition(pos int64) error
}

type source struct {
	dec        oggReader
	closer     io.Closer
	sampleRate int
	channels   int
	bufSize    int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return s.bufSize }

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// ReadSamples decodes straight into dst. oggvorbis returns the number of
// interleaved values written, never a partial frame.
func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w", err)
	}
	return n, err
}

type seekableSource struct {
	source
	seeker oggSeeker
}

func (s *seekableSource) Len() int64 {
	return s.seeker.Length() * int64(s.channels)
}

func (s *seekableSource) SeekSamples(pos int64) error {
	if pos < 0 || pos > s.Len() || pos%int64(s.channels) != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSeek, pos)
	}
	if err := s.seeker.SetPosition(pos / int64(s.channels)); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newSource(dec, r), nil
}

func newSource(dec oggReader, r io.Reader) audio.Source {
	closer, _ := r.(io.Closer)
	src := source{
		dec:        dec,
		closer:     closer,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
		bufSize:    4096,
	}

	// A zero length means oggvorbis could not measure the stream.
	if sk, ok := dec.(oggSeeker); ok && sk.Length() > 0 {
		if _, ok := r.(io.Seeker); ok {
			return &seekableSource{source: src, seeker: sk}
		}
	}
	return &src
}
