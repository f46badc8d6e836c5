// SPDX-License-Identifier: EPL-2.0

package mixing

import (
	"time"

	"github.com/ik5/voxmix/profile"
)

// Result is the outcome of one Render call.
type Result struct {
	// ID identifies the operation in logs.
	ID    string
	State State

	// Err and ErrorMessage are set only when State is Failed.
	Err          error
	ErrorMessage string

	// Duration and FileSize describe the output file. They are zero unless
	// the mix reached the Writing state.
	Duration time.Duration
	FileSize int64
	Profile  profile.Profile

	// OverLimit is set when FileSize is above the profile's limit. The file
	// is still written.
	OverLimit bool

	// MusicLoops is how many times the music restarted from the offset.
	MusicLoops int
}

// Success reports whether the output file was completed.
func (r Result) Success() bool { return r.State == Completed }
