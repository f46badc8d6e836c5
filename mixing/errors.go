// SPDX-License-Identifier: EPL-2.0

package mixing

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned by Worker.Start while a mix is still running.
	ErrBusy = errors.New("a mix is already running")

	ErrMissingPath   = errors.New("path is empty")
	ErrOutputIsInput = errors.New("output would overwrite an input")
	ErrVolumeRange   = errors.New("volume outside 0..1")
	ErrTooLong       = errors.New("longer than a WAV file can hold")

	// errCancelled unwinds a render when the Canceller fires. It never
	// reaches a Result.
	errCancelled = errors.New("cancelled")
)

// ConfigError is a problem with the settings or the input files found
// before any audio is mixed. Field names the offending setting.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configError(field string, err error) error {
	return &ConfigError{Field: field, Err: err}
}
