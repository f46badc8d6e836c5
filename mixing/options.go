// SPDX-License-Identifier: EPL-2.0

package mixing

import (
	"github.com/ik5/voxmix/audio"
	"github.com/sirupsen/logrus"
)

// TempDirEnv overrides where per-operation scratch directories are created.
const TempDirEnv = "VOXMIX_TMPDIR"

const defaultBlockFrames = 4096

// Option configures a Renderer.
type Option func(r *Renderer)

// WithRegistry sets the decoders used to open the inputs.
func WithRegistry(reg *audio.Registry) Option {
	return func(r *Renderer) {
		r.registry = reg
	}
}

// WithLogger sets the logger. If this option is not provided, a logger from
// internal/logging is used.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Renderer) {
		r.log = l
	}
}

// WithTempDir sets the parent of the scratch directories.
func WithTempDir(dir string) Option {
	return func(r *Renderer) {
		r.tempDir = dir
	}
}

// WithBlockFrames sets how many frames are pulled per block. Progress and
// cancellation are checked once per block.
func WithBlockFrames(frames int) Option {
	return func(r *Renderer) {
		if frames > 0 {
			r.blockFrames = frames
		}
	}
}

// WithConfirmOverLimit installs a pre-flight hook, called before mixing when
// the estimated output size is above the profile's limit. Returning false
// ends the operation as Cancelled before the output file is created.
func WithConfirmOverLimit(fn func(estimated, limit int64) bool) Option {
	return func(r *Renderer) {
		r.confirmOverLimit = fn
	}
}
