// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
)

// source mirrors audio.Source.
type source interface {
	SampleRate() int
	Channels() int
	ReadSamples(dst []float32) (int, error)
	BufSize() int
	Close() error
}

// Unseekable hides every capability of the wrapped source except the
// plain source methods.
type Unseekable struct {
	source
}

func NewUnseekable(src source) *Unseekable {
	return &Unseekable{source: src}
}

// FailingSource passes reads through until after samples have been read,
// then fails every read with err.
type FailingSource struct {
	source
	after int
	read  int
	err   error
}

func NewFailingSource(src source, after int, err error) *FailingSource {
	return &FailingSource{source: src, after: after, err: err}
}

func (f *FailingSource) ReadSamples(dst []float32) (int, error) {
	if f.read >= f.after {
		return 0, f.err
	}
	if left := f.after - f.read; len(dst) > left {
		dst = dst[:left]
	}
	n, err := f.source.ReadSamples(dst)
	f.read += n
	return n, err
}

// Collect reads src to the end using reads of bufSize samples.
func Collect(src source, bufSize int) ([]float32, error) {
	var out []float32
	buf := make([]float32, bufSize)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
	}
}
