// SPDX-License-Identifier: EPL-2.0

// Package mixing renders a voice recording over background music.
//
// A mix goes through these states:
//
//	Idle -> Validating -> Extracting -> Mixing -> Writing -> Completed
//
// and ends in Cancelled or Failed when it stops early. Configuration
// problems (missing files, an unknown format, a music offset past the end
// of the music, an invalid profile) are reported as *ConfigError before the
// output file is created. Read and write failures end the mix as Failed
// with the underlying error. Cancellation is not a failure: the Result has
// no error and the partial output file is left where it is.
//
// Progress runs from 0 to 100 in fixed bands:
//
//	 0 -  5  validation and preparation
//	 5 - 40  decoding and normalizing the inputs
//	40 - 95  mixing
//	95 - 100 finalizing the output
//
// Going over the profile's size limit never fails a mix. It is logged,
// offered to the WithConfirmOverLimit hook before mixing, and flagged in
// Result.OverLimit afterwards.
package mixing
