// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"time"
)

// Loop plays src starting at an offset and repeats the material after the
// offset until exactly length worth of samples has been produced.
//
// The wrapped source must have the Seeker capability; looping is done by
// seeking back to the offset whenever the source runs out.
type Loop struct {
	src      SeekableSource
	offset   int64 // loop start, in interleaved samples
	target   int64 // total samples to emit
	produced int64
	atEnd    bool // the source ran out; rewind before the next read
	rewound  bool // true until the first sample after a rewind arrives
	loops    int
}

// NewLoop wraps src. It fails with ErrNotSeekable when src cannot seek and
// with ErrOffsetBeyondEnd when offset leaves no material to loop.
func NewLoop(src Source, offset, length time.Duration) (*Loop, error) {
	if offset < 0 || length < 0 {
		return nil, ErrNegativeTime
	}

	ss, ok := src.(SeekableSource)
	if !ok {
		return nil, ErrNotSeekable
	}

	f := FormatOf(src)
	if !f.Valid() {
		return nil, ErrInvalidFormat
	}

	start := SamplesFor(offset, f)
	if start >= ss.Len() {
		return nil, fmt.Errorf("%w: offset %s, source %s",
			ErrOffsetBeyondEnd, offset, DurationOf(ss.Len(), f))
	}

	if err := ss.SeekSamples(start); err != nil {
		return nil, fmt.Errorf("seek to loop offset: %w", err)
	}

	return &Loop{
		src:    ss,
		offset: start,
		target: SamplesFor(length, f),
	}, nil
}

func (l *Loop) SampleRate() int { return l.src.SampleRate() }
func (l *Loop) Channels() int   { return l.src.Channels() }
func (l *Loop) BufSize() int    { return l.src.BufSize() }

// Loops reports how many times the source was rewound to the offset.
func (l *Loop) Loops() int { return l.loops }

// Remaining is the number of samples still to be emitted.
func (l *Loop) Remaining() int64 { return l.target - l.produced }

func (l *Loop) Close() error {
	if err := l.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (l *Loop) ReadSamples(dst []float32) (int, error) {
	channels := l.src.Channels()
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if l.produced >= l.target {
		return 0, io.EOF
	}

	want := len(dst)
	if remaining := l.target - l.produced; int64(want) > remaining {
		want = int(remaining)
	}

	written := 0
	for written < want {
		if l.atEnd {
			// Start over from the offset.
			if l.rewound {
				l.produced += int64(written)
				return written, ErrNoLoopMaterial
			}
			if err := l.src.SeekSamples(l.offset); err != nil {
				l.produced += int64(written)
				return written, fmt.Errorf("rewind to loop offset: %w", err)
			}
			l.atEnd = false
			l.rewound = true
			l.loops++
		}

		n, err := l.src.ReadSamples(dst[written:want])
		written += n
		if n > 0 {
			l.rewound = false
		}

		if err != nil && err != io.EOF {
			l.produced += int64(written)
			return written, err
		}
		if err == io.EOF || n == 0 {
			l.atEnd = true
		}
	}

	l.produced += int64(written)
	if l.produced >= l.target {
		return written, io.EOF
	}
	return written, nil
}
