// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Both directions are built on github.com/go-audio/wav.
//
// # Supported Formats
//
// Integer PCM at 16, 24 and 32 bit, any channel count and sample rate, with
// either the plain PCM or the extensible format tag.
//
// # Decoding WAV Files
//
//	file, _ := os.Open("voice.wav")
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//	defer src.Close() // closes file
//
// The returned audio.Source also implements audio.Seeker, so it can be
// looped:
//
//	music, _ := audio.NewLoop(src, 2*time.Second, 35*time.Second)
//
// Seeking moves the reader straight to the byte offset of the target sample
// inside the data chunk.
//
// # Writing WAV Files
//
// Writer streams float samples into a container and finalizes the header on
// Close:
//
//	w, _ := wav.Create("mix.wav", audio.Format{SampleRate: 44100, Channels: 2}, 16)
//	_ = w.WriteSamples(block)
//	_ = w.Close()
//	fmt.Println(w.Size()) // bytes on disk
//
// Samples outside [-1, 1] are clamped at write time.
package wav
