// SPDX-License-Identifier: EPL-2.0

package profile

import (
	"fmt"
	"math"
	"time"

	"github.com/ik5/voxmix/audio"
)

// wavHeaderSize is the size of the canonical RIFF/WAVE header written by
// the output container.
const wavHeaderSize = 44

const bytesPerMB = 1024 * 1024

// MaxWAVBytes is the largest file a RIFF container can describe. Its chunk
// sizes are 32-bit.
const MaxWAVBytes = math.MaxUint32

// Profile is an output format: the canonical sample format a mix is rendered
// in, the container bit depth and an optional size limit.
type Profile struct {
	Name       string `yaml:"name"`
	SampleRate int    `yaml:"sample_rate"`
	BitDepth   int    `yaml:"bit_depth"`
	Channels   int    `yaml:"channels"`

	// MaxFileSizeMB is the size above which the output is flagged as over
	// the limit. Zero means no limit.
	MaxFileSizeMB float64 `yaml:"max_file_size_mb"`
}

// Built-in profiles.
var (
	Voice = Profile{
		Name:          "voice",
		SampleRate:    16000,
		BitDepth:      16,
		Channels:      1,
		MaxFileSizeMB: 10,
	}

	Podcast = Profile{
		Name:          "podcast",
		SampleRate:    44100,
		BitDepth:      16,
		Channels:      2,
		MaxFileSizeMB: 100,
	}

	Studio = Profile{
		Name:       "studio",
		SampleRate: 48000,
		BitDepth:   24,
		Channels:   2,
	}
)

// Validate reports the first problem found with p.
func (p Profile) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidProfile)
	case p.SampleRate <= 0:
		return fmt.Errorf("%w %q: sample rate %d", ErrInvalidProfile, p.Name, p.SampleRate)
	case p.Channels != 1 && p.Channels != 2:
		return fmt.Errorf("%w %q: %d channels, want 1 or 2", ErrInvalidProfile, p.Name, p.Channels)
	case p.MaxFileSizeMB < 0:
		return fmt.Errorf("%w %q: negative size limit", ErrInvalidProfile, p.Name)
	}

	switch p.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w %q: %d bit, want 16, 24 or 32", ErrInvalidProfile, p.Name, p.BitDepth)
	}
	return nil
}

// Format is the canonical sample format for a mix rendered with p.
func (p Profile) Format() audio.Format {
	return audio.Format{SampleRate: p.SampleRate, Channels: p.Channels}
}

// EstimatedBytes is the size of a WAV file holding d of audio in p.
func (p Profile) EstimatedBytes(d time.Duration) int64 {
	samples := audio.SamplesFor(d, p.Format())
	return wavHeaderSize + samples*int64(p.BitDepth/8)
}

// MaxDuration is the longest audio a WAV file in p can hold, or 0 for an
// invalid p.
func (p Profile) MaxDuration() time.Duration {
	frameBytes := int64(p.BitDepth / 8 * p.Channels)
	if frameBytes <= 0 || p.SampleRate <= 0 {
		return 0
	}
	frames := (MaxWAVBytes - wavHeaderSize) / frameBytes
	return audio.DurationOf(frames*int64(p.Channels), p.Format())
}

// LimitBytes is the size limit in bytes, or 0 when p has no limit.
func (p Profile) LimitBytes() int64 {
	return int64(p.MaxFileSizeMB * bytesPerMB)
}

// Exceeds reports whether a file of size bytes is over the limit.
func (p Profile) Exceeds(size int64) bool {
	limit := p.LimitBytes()
	return limit > 0 && size > limit
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (%d Hz, %d bit, %d ch)", p.Name, p.SampleRate, p.BitDepth, p.Channels)
}
