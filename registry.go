// SPDX-License-Identifier: EPL-2.0

package voxmix

import (
	"fmt"
	"os"

	"github.com/ik5/voxmix/audio"
	"github.com/ik5/voxmix/formats/aiff"
	"github.com/ik5/voxmix/formats/mp3"
	"github.com/ik5/voxmix/formats/vorbis"
	"github.com/ik5/voxmix/formats/wav"
)

// NewRegistry returns a registry with every bundled decoder registered under
// its usual file extensions.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	return reg
}

// Open decodes the file at path with the decoder registered for its
// extension. Closing the returned Source closes the file.
func Open(reg *audio.Registry, path string) (audio.Source, error) {
	dec, err := reg.ForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	src, err := dec.Decode(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return src, nil
}
