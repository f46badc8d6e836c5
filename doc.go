// SPDX-License-Identifier: EPL-2.0

// Package voxmix mixes a voice recording with background music into a single
// PCM WAV file.
//
// The work is split across a few packages:
//   - audio: the pull-based Source contract and the stages built on it
//     (volume, loop, fade-out, mixer, resampler, channel mapper)
//   - formats/wav, formats/mp3, formats/vorbis, formats/aiff: decoders,
//     plus the WAV writer used for all output
//   - profile: output formats and size limits
//   - mixing: the render driver and its background worker
//
// This package holds the glue shared by them: a registry with every decoder
// registered, Open to decode a file by extension, and Copy to stream a
// Source into a writer block by block.
//
// # Quick Start
//
//	r := mixing.NewRenderer()
//	res := r.Render(mixing.Settings{
//	    VoicePath:   "voice.wav",
//	    MusicPath:   "music.mp3",
//	    OutputPath:  "mix.wav",
//	    VoiceVolume: 1,
//	    MusicVolume: 0.3,
//	    MusicOffset: 2 * time.Second,
//	    Buffer:      5 * time.Second,
//	    Profile:     profile.Podcast,
//	}, nil, nil)
//	if !res.Success() {
//	    log.Fatal(res.ErrorMessage)
//	}
//
// # Converting a File
//
//	src, _ := voxmix.Open(voxmix.NewRegistry(), "in.ogg")
//	defer src.Close()
//
//	f := audio.Format{SampleRate: 8000, Channels: 1}
//	w, _ := wav.Create("out.wav", f, 16)
//	_, err := voxmix.Copy(w, audio.Normalize(src, f), make([]float32, 4096), nil)
//	_ = w.Close()
//
// # Sample Format
//
// Samples are float32, nominally in [-1, 1], interleaved per frame:
//
//	[L0, R0, L1, R1, L2, R2, ...]
//
// Stages do not clip. Values are clamped only when the WAV writer converts
// them to integers.
package voxmix
