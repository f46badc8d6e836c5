// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/voxmix/audio"
	"github.com/ik5/voxmix/utils"
)

// WAV format tags accepted by Decoder. Extensible files carry integer PCM
// in the same layout once the header is parsed.
const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// source wraps go-audio's wav.Decoder to implement audio.SeekableSource.
type source struct {
	rs         io.ReadSeeker
	dec        *wav.Decoder
	dataStart  int64 // byte offset of the first PCM sample
	sampleRate int
	channels   int
	bitDepth   int
	total      int64 // interleaved samples in the data chunk
	pos        int64
	intBuf     *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BitDepth() int   { return s.bitDepth }
func (s *source) Len() int64      { return s.total }
func (s *source) BufSize() int    { return cap(s.intBuf.Data) }

func (s *source) Close() error {
	if c, ok := s.rs.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.pos >= s.total {
		return 0, io.EOF
	}

	want := len(dst)
	if left := s.total - s.pos; int64(want) > left {
		want = int(left)
	}
	n, err := s.readInts(want)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// Data chunk is shorter than its header claims.
		s.total = s.pos
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = utils.PCMToFloat(s.intBuf.Data[i], s.bitDepth)
	}

	s.pos += int64(n)
	if s.pos >= s.total {
		return n, io.EOF
	}
	return n, nil
}

func (s *source) readInts(count int) (int, error) {
	if cap(s.intBuf.Data) < count {
		s.intBuf.Data = make([]int, count)
	}
	s.intBuf.Data = s.intBuf.Data[:count]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("reading wav pcm: %w", err)
	}
	return n, nil
}

// SeekSamples jumps straight to pos inside the PCM data. The decoder reads
// the data chunk from rs directly, so moving rs moves the decoder.
func (s *source) SeekSamples(pos int64) error {
	if pos < 0 || pos > s.total || pos%int64(s.channels) != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSeek, pos)
	}

	offset := s.dataStart + pos*int64(s.bitDepth/8)
	if _, err := s.rs.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seeking wav: %w", err)
	}
	s.pos = pos
	return nil
}

type Decoder struct{}

// Decode reads the WAV header from r. go-audio needs an io.ReadSeeker; any
// other reader is buffered in memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	switch dec.WavAudioFormat {
	case formatPCM, formatExtensible:
	default:
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bit", ErrUnsupportedBitDepth, bitDepth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("locating wav data chunk: %w", err)
	}
	dataStart, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating wav data chunk: %w", err)
	}

	format := dec.Format()
	channels := format.NumChannels
	if channels <= 0 || format.SampleRate <= 0 {
		return nil, ErrNotWavFile
	}

	total := dec.PCMLen() / int64(bitDepth/8)
	total -= total % int64(channels)

	return &source{
		rs:         rs,
		dec:        dec,
		dataStart:  dataStart,
		sampleRate: format.SampleRate,
		channels:   channels,
		bitDepth:   bitDepth,
		total:      total,
		intBuf: &goaudio.IntBuffer{
			Data:           make([]int, 4096),
			Format:         format,
			SourceBitDepth: bitDepth,
		},
	}, nil
}
