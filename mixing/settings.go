// SPDX-License-Identifier: EPL-2.0

package mixing

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/ik5/voxmix/audio"
	"github.com/ik5/voxmix/profile"
)

// Settings describe one mix. They are read once at the start of Render.
type Settings struct {
	VoicePath  string
	MusicPath  string
	OutputPath string

	VoiceVolume float32
	MusicVolume float32

	// MusicOffset skips the start of the music. Looping restarts from here.
	MusicOffset time.Duration

	// Buffer is how long the music keeps playing after the voice ends,
	// fading to silence. Zero ends the mix with the voice and disables the
	// fade.
	Buffer time.Duration

	Profile profile.Profile
}

// Validate checks everything that can be checked without touching the
// files. Errors are *ConfigError.
func (s Settings) Validate() error {
	paths := []struct {
		field, path string
	}{
		{"voice file", s.VoicePath},
		{"music file", s.MusicPath},
		{"output file", s.OutputPath},
	}
	for _, p := range paths {
		if p.path == "" {
			return configError(p.field, ErrMissingPath)
		}
	}

	out := filepath.Clean(s.OutputPath)
	if out == filepath.Clean(s.VoicePath) || out == filepath.Clean(s.MusicPath) {
		return configError("output file", ErrOutputIsInput)
	}

	if !inUnitRange(s.VoiceVolume) {
		return configError("voice volume", ErrVolumeRange)
	}
	if !inUnitRange(s.MusicVolume) {
		return configError("music volume", ErrVolumeRange)
	}

	if s.MusicOffset < 0 {
		return configError("music offset", audio.ErrNegativeTime)
	}
	if s.Buffer < 0 {
		return configError("buffer", audio.ErrNegativeTime)
	}

	if err := s.Profile.Validate(); err != nil {
		return configError("profile", err)
	}
	if limit := s.Profile.MaxDuration(); s.Buffer > limit {
		return configError("buffer", fmt.Errorf("%w: %s, profile %s holds at most %s",
			ErrTooLong, s.Buffer, s.Profile.Name, limit))
	}
	return nil
}

func inUnitRange(v float32) bool {
	return !math.IsNaN(float64(v)) && v >= 0 && v <= 1
}
