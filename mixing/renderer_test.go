// SPDX-License-Identifier: EPL-2.0

package mixing

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/ik5/voxmix"
	"github.com/ik5/voxmix/audio"
	"github.com/ik5/voxmix/formats/wav"
	"github.com/ik5/voxmix/internal/audiotest"
	"github.com/ik5/voxmix/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Scenario(t *testing.T) {
	const rate = 44100

	fx := newFixture(t,
		audiotest.NewConstantSource(rate, 1, frames(30*time.Second, rate), 0.2),
		audiotest.NewConstantSource(rate, 1, frames(10*time.Second, rate), 0.5),
	)
	s := fx.settings()
	s.MusicVolume = 0.3
	s.MusicOffset = 2 * time.Second
	s.Buffer = 5 * time.Second
	s.Profile.SampleRate = rate

	res := fx.renderer().Render(s, nil, nil)
	require.True(t, res.Success(), res.ErrorMessage)
	assert.Equal(t, Completed, res.State)
	assert.Equal(t, 35*time.Second, res.Duration)
	assert.Equal(t, 4, res.MusicLoops, "8s of material covers 35s in 4 restarts")
	assert.NotEmpty(t, res.ID)
	fx.assertScratchEmpty(t)

	out, f := readWAV(t, fx.output)
	require.Len(t, out, frames(35*time.Second, rate))
	assert.Equal(t, audio.Format{SampleRate: rate, Channels: 1}, f)
	assert.Equal(t, int64(44+2*len(out)), res.FileSize)

	at := func(d time.Duration) float32 { return out[frames(d, rate)] }
	const delta = 1e-3

	assert.InDelta(t, 0.35, at(0), delta)
	assert.InDelta(t, 0.35, at(10*time.Second), delta)
	assert.InDelta(t, 0.35, at(30*time.Second-time.Second/rate), delta)

	// Voice has ended; the music fades over [30s, 35s).
	assert.InDelta(t, 0.15, at(30*time.Second), delta)
	assert.InDelta(t, 0.15*0.25, at(32500*time.Millisecond), delta)
	assert.InDelta(t, 0, out[len(out)-1], delta)
}

func TestRender_Deterministic(t *testing.T) {
	// Different native formats force resampling and downmixing.
	fx := newFixture(t,
		audiotest.NewSineSource(22050, 2, 22050*2, 300),
		audiotest.NewSineSource(11025, 1, 11025, 440),
	)
	s := fx.settings()
	s.VoiceVolume = 0.8
	s.MusicVolume = 0.4
	s.MusicOffset = 250 * time.Millisecond
	s.Buffer = time.Second

	r := fx.renderer()
	first := r.Render(s, nil, nil)
	require.True(t, first.Success(), first.ErrorMessage)

	s.OutputPath = filepath.Join(fx.dir, "again.wav")
	second := r.Render(s, nil, nil)
	require.True(t, second.Success(), second.ErrorMessage)

	a, err := os.ReadFile(fx.output)
	require.NoError(t, err)
	b, err := os.ReadFile(s.OutputPath)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "two renders of the same settings differ")
	assert.NotEqual(t, first.ID, second.ID)

	// 2s of voice plus 1s of buffer, within the resampler's edge.
	assert.InDelta(t, float64(3*time.Second), float64(first.Duration), float64(2*time.Millisecond))
}

func TestRender_DurationContract(t *testing.T) {
	tests := []struct {
		name  string
		music time.Duration
		loops int
	}{
		{"short music loops", 700 * time.Millisecond, 4},
		{"long music is truncated", 10 * time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t,
				audiotest.NewSineSource(8000, 1, 16000, 200),
				audiotest.NewRampSource(8000, 1, frames(tt.music, 8000), 1e-5),
			)
			s := fx.settings()
			s.Buffer = time.Second

			res := fx.renderer().Render(s, nil, nil)
			require.True(t, res.Success(), res.ErrorMessage)
			assert.Equal(t, 3*time.Second, res.Duration)
			assert.Equal(t, tt.loops, res.MusicLoops)

			out, _ := readWAV(t, fx.output)
			assert.Len(t, out, 24000)
		})
	}
}

func TestRender_LoopIsExactRepetition(t *testing.T) {
	const musicFrames = 1000

	// Silent voice, so the output is the looped music.
	fx := newFixture(t,
		audiotest.NewSilentSource(8000, 1, 5000),
		audiotest.NewRampSource(8000, 1, musicFrames, 1e-4),
	)

	res := fx.renderer().Render(fx.settings(), nil, nil)
	require.True(t, res.Success(), res.ErrorMessage)

	out, _ := readWAV(t, fx.output)
	require.Len(t, out, 5000)
	for i := musicFrames; i < len(out); i++ {
		require.Equal(t, out[i%musicFrames], out[i], "sample %d", i)
	}
}

func TestRender_NoBufferSkipsFade(t *testing.T) {
	fx := newFixture(t,
		audiotest.NewConstantSource(8000, 1, 8000, 0.25),
		audiotest.NewConstantSource(8000, 1, 4000, 0.5),
	)

	res := fx.renderer().Render(fx.settings(), nil, nil)
	require.True(t, res.Success(), res.ErrorMessage)
	assert.Equal(t, time.Second, res.Duration)

	out, _ := readWAV(t, fx.output)
	require.Len(t, out, 8000)
	assert.InDelta(t, 0.75, out[len(out)-1], 1e-3, "music must not fade without a buffer")
}

func TestRender_OffsetBeyondMusic(t *testing.T) {
	fx := newFixture(t,
		audiotest.NewSilentSource(8000, 1, 8000),
		audiotest.NewSilentSource(8000, 1, 8000),
	)
	s := fx.settings()
	s.MusicOffset = time.Second

	res := fx.renderer().Render(s, nil, nil)
	assert.Equal(t, Failed, res.State)

	var cerr *ConfigError
	require.ErrorAs(t, res.Err, &cerr)
	assert.Equal(t, "music offset", cerr.Field)
	assert.ErrorIs(t, res.Err, audio.ErrOffsetBeyondEnd)
	assert.Contains(t, res.ErrorMessage, "music offset")

	assert.NoFileExists(t, fx.output)
	fx.assertScratchEmpty(t)
}

func TestRender_CancelMidMix(t *testing.T) {
	fx := newFixture(t,
		audiotest.NewSineSource(8000, 1, 40000, 200),
		audiotest.NewSineSource(8000, 1, 8000, 300),
	)
	s := fx.settings()
	s.Buffer = time.Second

	flag := &CancelFlag{}
	progress := ProgressFunc(func(percent int, _ string) {
		if percent >= 60 {
			flag.Cancel()
		}
	})

	res := fx.renderer().Render(s, progress, flag)
	assert.Equal(t, Cancelled, res.State)
	assert.False(t, res.Success())
	assert.Empty(t, res.ErrorMessage)
	assert.NoError(t, res.Err)

	// Partial output stays, temporary files do not.
	assert.FileExists(t, fx.output)
	fx.assertScratchEmpty(t)
}

func TestRender_CancelBeforeStart(t *testing.T) {
	fx := newFixture(t,
		audiotest.NewSilentSource(8000, 1, 800),
		audiotest.NewSilentSource(8000, 1, 800),
	)
	flag := &CancelFlag{}
	flag.Cancel()

	res := fx.renderer().Render(fx.settings(), nil, flag)
	assert.Equal(t, Cancelled, res.State)
	assert.Empty(t, res.ErrorMessage)
	assert.NoFileExists(t, fx.output)
	fx.assertScratchEmpty(t)
}

func TestRender_OverLimit(t *testing.T) {
	fx := newFixture(t,
		audiotest.NewSilentSource(8000, 1, 16000),
		audiotest.NewSilentSource(8000, 1, 800),
	)
	s := fx.settings()
	s.Profile.MaxFileSizeMB = 0.01

	res := fx.renderer().Render(s, nil, nil)
	require.True(t, res.Success(), res.ErrorMessage)
	assert.True(t, res.OverLimit)
	assert.Equal(t, int64(44+2*16000), res.FileSize)

	t.Run("declined", func(t *testing.T) {
		var gotEstimated, gotLimit int64
		r := fx.renderer(WithConfirmOverLimit(func(estimated, limit int64) bool {
			gotEstimated, gotLimit = estimated, limit
			return false
		}))

		s.OutputPath = filepath.Join(fx.dir, "declined.wav")
		res := r.Render(s, nil, nil)
		assert.Equal(t, Cancelled, res.State)
		assert.Empty(t, res.ErrorMessage)
		assert.Equal(t, int64(44+2*16000), gotEstimated)
		assert.Equal(t, int64(10485), gotLimit)
		assert.NoFileExists(t, s.OutputPath)
		fx.assertScratchEmpty(t)
	})

	t.Run("accepted", func(t *testing.T) {
		calls := 0
		r := fx.renderer(WithConfirmOverLimit(func(int64, int64) bool {
			calls++
			return true
		}))

		s.OutputPath = filepath.Join(fx.dir, "accepted.wav")
		res := r.Render(s, nil, nil)
		assert.True(t, res.Success())
		assert.True(t, res.OverLimit)
		assert.Equal(t, 1, calls)
	})
}

func TestRender_TooLong(t *testing.T) {
	fx := newFixture(t,
		audiotest.NewSilentSource(8000, 1, 8000),
		audiotest.NewSilentSource(8000, 1, 800),
	)

	tests := []struct {
		name   string
		buffer time.Duration
	}{
		// Rejected before any file is touched.
		{"buffer alone", 100 * time.Hour},
		// Only the voice pushes it over, found after extraction.
		{"voice plus buffer", testProfile.MaxDuration()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fx.settings()
			s.Buffer = tt.buffer

			res := fx.renderer().Render(s, nil, nil)
			assert.Equal(t, Failed, res.State)

			var cerr *ConfigError
			require.ErrorAs(t, res.Err, &cerr)
			assert.Equal(t, "buffer", cerr.Field)
			assert.ErrorIs(t, res.Err, ErrTooLong)
			assert.NoFileExists(t, fx.output)
			fx.assertScratchEmpty(t)
		})
	}
}

// brokenDecoder decodes WAV data whose reads fail with err after the given
// number of samples. It counts the sources it opens and closes.
type brokenDecoder struct {
	after  int
	err    error
	opened *int
	closed *int
}

func (d brokenDecoder) Decode(r io.Reader) (audio.Source, error) {
	src, err := wav.Decoder{}.Decode(r)
	if err != nil {
		return nil, err
	}
	*d.opened++
	return closeCounted{Source: audiotest.NewFailingSource(src, d.after, d.err), closed: d.closed}, nil
}

type closeCounted struct {
	audio.Source
	closed *int
}

func (c closeCounted) Close() error {
	*c.closed++
	return c.Source.Close()
}

func TestRender_ReadFailure(t *testing.T) {
	fx := newFixture(t,
		audiotest.NewSineSource(8000, 1, 16000, 200),
		audiotest.NewSineSource(8000, 1, 8000, 300),
	)
	data, err := os.ReadFile(fx.voice)
	require.NoError(t, err)
	broken := filepath.Join(fx.dir, "voice.broken")
	require.NoError(t, os.WriteFile(broken, data, 0o600))

	cause := errors.New("disk on fire")
	var opened, closed int
	reg := voxmix.NewRegistry()
	reg.Register("broken", brokenDecoder{after: 4000, err: cause, opened: &opened, closed: &closed})

	s := fx.settings()
	s.VoicePath = broken
	s.Buffer = time.Second

	res := fx.renderer(WithRegistry(reg)).Render(s, nil, nil)
	assert.Equal(t, Failed, res.State)
	assert.False(t, res.Success())
	assert.ErrorIs(t, res.Err, cause)
	assert.Contains(t, res.ErrorMessage, "disk on fire")
	assert.Contains(t, res.ErrorMessage, broken)

	var cerr *ConfigError
	assert.False(t, errors.As(res.Err, &cerr), "a failing read is not a configuration error")

	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, closed)
	assert.NoFileExists(t, fx.output)
	fx.assertScratchEmpty(t)
}

func TestRender_WriteFailure(t *testing.T) {
	// Every write to /dev/full fails with ENOSPC.
	const full = "/dev/full"
	if _, err := os.Stat(full); err != nil {
		t.Skip("no /dev/full on this system")
	}

	fx := newFixture(t,
		audiotest.NewSineSource(8000, 1, 16000, 200),
		audiotest.NewSineSource(8000, 1, 8000, 300),
	)
	s := fx.settings()
	s.OutputPath = full
	s.Buffer = time.Second

	var phases []string
	res := fx.renderer().Render(s, ProgressFunc(func(_ int, m string) {
		phases = append(phases, m)
	}), nil)

	assert.Equal(t, Failed, res.State)
	assert.ErrorIs(t, res.Err, syscall.ENOSPC)
	assert.Contains(t, res.ErrorMessage, "mixing")
	assert.Contains(t, phases, "mixing")
	assert.NotContains(t, phases, "finalizing output")

	var cerr *ConfigError
	assert.False(t, errors.As(res.Err, &cerr))
	fx.assertScratchEmpty(t)
}

func TestRender_ConfigErrors(t *testing.T) {
	fx := newFixture(t,
		audiotest.NewSilentSource(8000, 1, 800),
		audiotest.NewSilentSource(8000, 1, 800),
	)
	garbage := filepath.Join(fx.dir, "garbage.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("not a riff file at all"), 0o600))

	tests := []struct {
		name   string
		mutate func(*Settings)
		field  string
		target error
	}{
		{"missing voice", func(s *Settings) { s.VoicePath = filepath.Join(fx.dir, "nope.wav") }, "voice file", os.ErrNotExist},
		{"empty music path", func(s *Settings) { s.MusicPath = "" }, "music file", ErrMissingPath},
		{"undecodable music", func(s *Settings) { s.MusicPath = garbage }, "music file", nil},
		{"output overwrites voice", func(s *Settings) { s.OutputPath = s.VoicePath }, "output file", ErrOutputIsInput},
		{"loud voice", func(s *Settings) { s.VoiceVolume = 1.5 }, "voice volume", ErrVolumeRange},
		{"negative buffer", func(s *Settings) { s.Buffer = -time.Second }, "buffer", audio.ErrNegativeTime},
		{"bad profile", func(s *Settings) { s.Profile.BitDepth = 12 }, "profile", profile.ErrInvalidProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fx.settings()
			tt.mutate(&s)

			res := fx.renderer().Render(s, nil, nil)
			assert.Equal(t, Failed, res.State)

			var cerr *ConfigError
			require.ErrorAs(t, res.Err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
			if tt.target != nil {
				assert.ErrorIs(t, res.Err, tt.target)
			}
			assert.Contains(t, res.ErrorMessage, tt.field)
			assert.NoFileExists(t, fx.output)
			fx.assertScratchEmpty(t)
		})
	}

	t.Run("unsupported format", func(t *testing.T) {
		s := fx.settings()
		s.MusicPath = filepath.Join(fx.dir, "music.flac")

		res := fx.renderer().Render(s, nil, nil)
		var unsupported *audio.UnsupportedFormatError
		require.ErrorAs(t, res.Err, &unsupported)
		assert.Equal(t, "flac", unsupported.Format)
	})
}

func TestRender_Progress(t *testing.T) {
	fx := newFixture(t,
		audiotest.NewSineSource(8000, 1, 20000, 200),
		audiotest.NewSineSource(8000, 1, 5000, 300),
	)
	s := fx.settings()
	s.Buffer = 500 * time.Millisecond

	var percents []int
	var messages []string
	res := fx.renderer().Render(s, ProgressFunc(func(p int, m string) {
		percents = append(percents, p)
		messages = append(messages, m)
	}), nil)
	require.True(t, res.Success(), res.ErrorMessage)

	require.NotEmpty(t, percents)
	assert.Equal(t, 0, percents[0])
	assert.Equal(t, 100, percents[len(percents)-1])
	assert.IsNonDecreasing(t, percents)
	assert.Contains(t, percents, progressMix)
	assert.Contains(t, percents, progressFinalize)
	assert.Contains(t, messages, "extracting voice.wav")
	assert.Contains(t, messages, "extracting music.wav")
}

func TestBand(t *testing.T) {
	assert.Equal(t, 40, band(40, 95, 0, 100))
	assert.Equal(t, 67, band(40, 95, 50, 100))
	assert.Equal(t, 95, band(40, 95, 100, 100))
	assert.Equal(t, 95, band(40, 95, 150, 100))
	assert.Equal(t, 5, band(5, 22, 10, 0), "unknown total stays at the start")
}
