// SPDX-License-Identifier: EPL-2.0

package mixing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/voxmix"
	"github.com/ik5/voxmix/audio"
	"github.com/ik5/voxmix/formats/wav"
	"github.com/sirupsen/logrus"
)

// counter counts the samples pulled from a decoder, before normalization,
// so extraction progress can be measured against the decoder's length.
type counter struct {
	audio.Source
	read int64
}

func (c *counter) ReadSamples(dst []float32) (int, error) {
	n, err := c.Source.ReadSamples(dst)
	c.read += int64(n)
	return n, err
}

// input is one of the two files being mixed.
type input struct {
	role  string // "voice" or "music"
	path  string
	field string // setting name used in errors
}

// extract decodes in, normalizes it to the profile's format and stores it
// as a 32-bit WAV in the work directory. The stored copy is reopened and
// returned; it is closed by release. Progress moves from lo to hi.
func (o *operation) extract(in input, lo, hi int) (audio.SeekableSource, error) {
	path := in.path
	name := filepath.Base(path)
	o.report(lo, "extracting "+name)

	// Failing to open or decode is a problem with the input, not an I/O
	// failure of the mix.
	src, err := voxmix.Open(o.registry, path)
	if err != nil {
		return nil, configError(in.field, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			o.log.WithError(err).Warn("closing input")
		}
	}()

	native := audio.FormatOf(src)
	if !native.Valid() {
		return nil, configError(in.field, fmt.Errorf("%s: %w", path, audio.ErrInvalidFormat))
	}

	var total int64
	if sk, ok := src.(audio.Seeker); ok {
		total = sk.Len()
	}

	f := o.settings.Profile.Format()
	tmpPath := filepath.Join(o.scratch, in.role+".wav")
	w, err := wav.Create(tmpPath, f, tempBitDepth)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", tmpPath, err)
	}

	counted := &counter{Source: src}
	buf := make([]float32, o.blockFrames*f.Channels)
	_, err = voxmix.Copy(w, audio.Normalize(counted, f), buf, func(int64) error {
		o.report(band(lo, hi, counted.read, total), "extracting "+name)
		return o.checkCancel()
	})
	if cerr := w.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		if errors.Is(err, errCancelled) {
			return nil, err
		}
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	o.log.WithFields(logrus.Fields{
		"input":       path,
		"native_rate": native.SampleRate,
		"native_ch":   native.Channels,
		"samples":     w.Samples(),
	}).Debug("input extracted")

	file, err := os.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	stored, err := wav.Decoder{}.Decode(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("reopening %s: %w", tmpPath, err)
	}
	o.closers = append(o.closers, stored)

	ss, ok := stored.(audio.SeekableSource)
	if !ok {
		return nil, fmt.Errorf("%s: %w", tmpPath, audio.ErrNotSeekable)
	}

	o.report(hi, "extracted "+name)
	return ss, nil
}
