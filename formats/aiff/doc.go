// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files.
//
// # Decoding AIFF Files
//
//	file, _ := os.Open("voice.aiff")
//	src, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//	defer src.Close() // closes file
//
// Integer PCM at 8, 16, 24 and 32 bit is supported; other sample sizes fail
// with ErrUnsupportedBitDepth. Samples are float32 in range [-1.0, 1.0).
//
// AIFF sources are not seekable. They can be used as voice input but not as
// looped music.
package aiff
