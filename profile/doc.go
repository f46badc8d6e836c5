// SPDX-License-Identifier: EPL-2.0

// Package profile describes output profiles: the sample rate, bit depth and
// channel count a mix is rendered in, plus an optional file size limit.
//
// Besides the built-in Voice, Podcast and Studio profiles, profiles can be
// loaded from a YAML file:
//
//	set, err := profile.Load("profiles.yaml")
//	if err != nil {
//	    // Handle error
//	}
//	p, err := set.Lookup("broadcast")
//
// The size limit never stops a mix. Exceeds only reports whether a file is
// over it; callers decide what to do.
package profile
