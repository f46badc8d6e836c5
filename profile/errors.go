// SPDX-License-Identifier: EPL-2.0

package profile

import "errors"

var (
	// ErrInvalidProfile is wrapped by every Validate failure.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrUnknownProfile is returned by Set.Lookup for a name that is not in the set.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrDuplicateProfile is returned when a profile file names the same profile twice.
	ErrDuplicateProfile = errors.New("duplicate profile")
)
