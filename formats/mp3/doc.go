// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files.
//
// # Decoding MP3 Files
//
//	file, _ := os.Open("music.mp3")
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//	defer src.Close() // closes file
//
// # Output Format
//
//   - Sample format: float32 in range [-1.0, 1.0)
//   - Channels: always 2, mono files are duplicated by go-mp3
//   - Sample rate: that of the file
//
// # Seeking
//
// When the reader passed to Decode is an io.ReadSeeker (an *os.File for
// example), go-mp3 can measure the stream and the returned source also
// implements audio.Seeker. Over a plain io.Reader it does not, and
// audio.NewLoop rejects it with audio.ErrNotSeekable.
package mp3
