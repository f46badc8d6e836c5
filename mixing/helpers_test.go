// SPDX-License-Identifier: EPL-2.0

package mixing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/voxmix"
	"github.com/ik5/voxmix/audio"
	"github.com/ik5/voxmix/formats/wav"
	"github.com/ik5/voxmix/internal/audiotest"
	"github.com/ik5/voxmix/internal/logging"
	"github.com/ik5/voxmix/profile"
	"github.com/stretchr/testify/require"
)

var testProfile = profile.Profile{
	Name:       "test",
	SampleRate: 8000,
	BitDepth:   16,
	Channels:   1,
}

func frames(d time.Duration, rate int) int {
	return int(audio.FramesFor(d, rate))
}

// writeWAV stores src as a 16-bit WAV file.
func writeWAV(t *testing.T, path string, src audio.Source) {
	t.Helper()

	w, err := wav.Create(path, audio.FormatOf(src), 16)
	require.NoError(t, err)
	_, err = voxmix.Copy(w, src, make([]float32, 4096), nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

// readWAV decodes the whole file at path.
func readWAV(t *testing.T, path string) ([]float32, audio.Format) {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	src, err := wav.Decoder{}.Decode(file)
	require.NoError(t, err)
	defer src.Close()

	samples, err := audiotest.Collect(src, 4096)
	require.NoError(t, err)
	return samples, audio.FormatOf(src)
}

type fixture struct {
	dir     string
	scratch string
	voice   string
	music   string
	output  string
}

// newFixture writes voice and music into a fresh directory.
func newFixture(t *testing.T, voice, music audio.Source) fixture {
	t.Helper()

	dir := t.TempDir()
	fx := fixture{
		dir:     dir,
		scratch: filepath.Join(dir, "scratch"),
		voice:   filepath.Join(dir, "voice.wav"),
		music:   filepath.Join(dir, "music.wav"),
		output:  filepath.Join(dir, "mix.wav"),
	}
	require.NoError(t, os.Mkdir(fx.scratch, 0o755))
	writeWAV(t, fx.voice, voice)
	writeWAV(t, fx.music, music)
	return fx
}

func (fx fixture) settings() Settings {
	return Settings{
		VoicePath:   fx.voice,
		MusicPath:   fx.music,
		OutputPath:  fx.output,
		VoiceVolume: 1,
		MusicVolume: 1,
		Profile:     testProfile,
	}
}

func (fx fixture) renderer(opts ...Option) *Renderer {
	base := []Option{
		WithLogger(logging.Discard()),
		WithTempDir(fx.scratch),
		WithBlockFrames(1024),
	}
	return NewRenderer(append(base, opts...)...)
}

// assertScratchEmpty checks that no work directory survived the render.
func (fx fixture) assertScratchEmpty(t *testing.T) {
	t.Helper()

	entries, err := os.ReadDir(fx.scratch)
	require.NoError(t, err)
	require.Empty(t, entries)
}
