// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize  = errors.New("dst size must be multiple of channels")
	ErrFormatMismatch  = errors.New("sources do not share one sample format")
	ErrNoSources       = errors.New("at least one source is required")
	ErrNotSeekable     = errors.New("source does not support seeking")
	ErrOffsetBeyondEnd = errors.New("offset is at or beyond the end of the source")
	ErrNoLoopMaterial  = errors.New("source produced no samples after rewinding to the loop offset")
	ErrNegativeTime    = errors.New("time offsets must not be negative")
	ErrInvalidFormat   = errors.New("sample rate and channel count must be positive")
)

// UnsupportedFormatError is returned when no decoder is registered for a
// file format.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Format == "" {
		return "unsupported format: file has no extension"
	}
	return fmt.Sprintf("unsupported format: %q", e.Format)
}
