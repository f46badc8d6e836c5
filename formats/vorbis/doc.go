// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis to decode Ogg Vorbis files.
//
// # Decoding Vorbis Files
//
//	file, _ := os.Open("music.ogg")
//	src, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//	defer src.Close()
//
// Samples are float32 in range [-1.0, 1.0], interleaved per frame, at the
// file's own rate and channel count.
//
// # Seeking
//
// Over an io.ReadSeeker whose length oggvorbis can determine, the returned
// source also implements audio.Seeker and can be looped.
package vorbis
