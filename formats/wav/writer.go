// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/voxmix/audio"
	"github.com/ik5/voxmix/utils"
)

// Writer streams float samples into a PCM WAV container. Samples are
// clamped to [-1, 1] when they are converted to the target bit depth.
type Writer struct {
	ws       io.WriteSeeker
	closer   io.Closer // set when the Writer owns the file
	enc      *wav.Encoder
	buf      *goaudio.IntBuffer
	format   audio.Format
	bitDepth int
	samples  int64
	size     int64
	closed   bool
}

// NewWriter writes a WAV stream in format f at bitDepth to ws. The header is
// finalized by Close; ws itself is not closed.
func NewWriter(ws io.WriteSeeker, f audio.Format, bitDepth int) (*Writer, error) {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bit", ErrUnsupportedBitDepth, bitDepth)
	}
	if !f.Valid() {
		return nil, audio.ErrInvalidFormat
	}

	gf := &goaudio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate}
	return &Writer{
		ws:       ws,
		enc:      wav.NewEncoder(ws, f.SampleRate, bitDepth, f.Channels, 1),
		buf:      &goaudio.IntBuffer{Format: gf, SourceBitDepth: bitDepth},
		format:   f,
		bitDepth: bitDepth,
	}, nil
}

// Create creates (or truncates) the file at path and returns a Writer that
// closes the file on Close.
func Create(path string, f audio.Format, bitDepth int) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	w, err := NewWriter(file, f, bitDepth)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return nil, err
	}
	w.closer = file
	return w, nil
}

func (w *Writer) Format() audio.Format { return w.format }
func (w *Writer) BitDepth() int        { return w.bitDepth }

// Samples is the number of interleaved samples written so far.
func (w *Writer) Samples() int64 { return w.samples }

// Size is the final container size in bytes, known after Close.
func (w *Writer) Size() int64 { return w.size }

// WriteSamples appends interleaved samples to the data chunk.
func (w *Writer) WriteSamples(samples []float32) error {
	if w.closed {
		return ErrWriterClosed
	}
	if len(samples) == 0 {
		return nil
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = utils.FloatToPCM(s, w.bitDepth)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("writing wav pcm: %w", err)
	}
	w.samples += int64(len(samples))
	return nil
}

// Close finalizes the header, records the container size and, for files
// opened by Create, closes the file. It is safe to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var err error
	if w.samples == 0 {
		// The encoder emits its header on the first write.
		w.buf.Data = w.buf.Data[:0]
		err = w.enc.Write(w.buf)
	}
	if err == nil {
		err = w.enc.Close()
	}
	if err == nil {
		w.size, err = w.ws.Seek(0, io.SeekEnd)
	}
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}
	return nil
}
