// SPDX-License-Identifier: EPL-2.0

package mixing

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/ik5/voxmix"
	"github.com/ik5/voxmix/audio"
	"github.com/ik5/voxmix/formats/wav"
	"github.com/ik5/voxmix/internal/logging"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// Progress bands of the phases.
const (
	progressPrep      = 0
	progressExtract   = 5
	progressMusic     = 22 // voice extraction ends, music extraction starts
	progressMix       = 40
	progressFinalize  = 95
	progressCompleted = 100
)

// tempBitDepth keeps normalized intermediates free of requantization noise.
const tempBitDepth = 32

// Renderer mixes a voice file and a music file into one WAV file. A
// Renderer holds no per-mix state and may be reused; each Render call is
// independent.
type Renderer struct {
	registry         *audio.Registry
	log              logrus.FieldLogger
	tempDir          string
	blockFrames      int
	confirmOverLimit func(estimated, limit int64) bool
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		registry:    voxmix.NewRegistry(),
		log:         logging.New(),
		tempDir:     os.Getenv(TempDirEnv),
		blockFrames: defaultBlockFrames,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render runs one mix synchronously. p and c may be nil.
//
// Inputs are decoded, normalized to the profile's sample format and stored
// as temporary WAV files, which makes both of them seekable. The music is
// then looped from MusicOffset to cover the voice plus Buffer, scaled, and
// faded out over the buffer; the voice is scaled; both are summed and
// written at the profile's bit depth.
//
// On cancellation the output file is closed and left in place. Temporary
// files are removed on every path.
func (r *Renderer) Render(s Settings, p Progress, c Canceller) Result {
	if p == nil {
		p = nopProgress{}
	}
	if c == nil {
		c = never{}
	}

	id := xid.New().String()
	op := &operation{
		Renderer: r,
		id:       id,
		settings: s,
		progress: p,
		cancel:   c,
		log:      r.log.WithField("op", id),
		last:     -1,
	}
	return op.run()
}

// operation is the state of one Render call.
type operation struct {
	*Renderer

	id       string
	settings Settings
	progress Progress
	cancel   Canceller
	log      logrus.FieldLogger

	state   State
	last    int // last reported percent
	lastMsg string
	scratch string
	closers []io.Closer
}

func (o *operation) run() Result {
	res := Result{ID: o.id, Profile: o.settings.Profile}
	o.log.WithFields(logrus.Fields{
		"voice":   o.settings.VoicePath,
		"music":   o.settings.MusicPath,
		"output":  o.settings.OutputPath,
		"profile": o.settings.Profile.Name,
	}).Info("mix started")

	err := o.execute(&res)
	o.release()

	switch {
	case errors.Is(err, errCancelled):
		o.enter(Cancelled)
	case err != nil:
		o.enter(Failed)
		res.Err = err
		res.ErrorMessage = err.Error()
		o.log.WithError(err).Error("mix failed")
	default:
		o.enter(Completed)
		o.report(progressCompleted, "done")
		o.log.WithFields(logrus.Fields{
			"duration": res.Duration,
			"size":     res.FileSize,
		}).Info("mix completed")
	}

	res.State = o.state
	return res
}

func (o *operation) execute(res *Result) error {
	o.enter(Validating)
	o.report(progressPrep, "validating settings")
	if err := o.validate(); err != nil {
		return err
	}
	if err := o.checkCancel(); err != nil {
		return err
	}

	o.report(progressPrep, "preparing work directory")
	dir, err := os.MkdirTemp(o.tempDir, "voxmix-"+o.id+"-")
	if err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	o.scratch = dir

	o.enter(Extracting)
	voice, err := o.extract(input{role: "voice", path: o.settings.VoicePath, field: "voice file"},
		progressExtract, progressMusic)
	if err != nil {
		return err
	}
	music, err := o.extract(input{role: "music", path: o.settings.MusicPath, field: "music file"},
		progressMusic, progressMix)
	if err != nil {
		return err
	}

	f := o.settings.Profile.Format()
	voiceDuration := audio.DurationOf(voice.Len(), f)
	musicDuration := audio.DurationOf(music.Len(), f)
	target := voiceDuration + o.settings.Buffer
	if limit := o.settings.Profile.MaxDuration(); target > limit {
		return configError("buffer", fmt.Errorf("%w: %s of voice plus %s, profile %s holds at most %s",
			ErrTooLong, voiceDuration, o.settings.Buffer, o.settings.Profile.Name, limit))
	}

	if audio.SamplesFor(o.settings.MusicOffset, f) >= music.Len() {
		return configError("music offset", fmt.Errorf("%w: offset %s, music is %s long",
			audio.ErrOffsetBeyondEnd, o.settings.MusicOffset, musicDuration))
	}

	if err := o.preflight(target); err != nil {
		return err
	}

	graph, loop, err := o.build(voice, music, voiceDuration, target)
	if err != nil {
		return err
	}

	o.log.WithFields(logrus.Fields{
		"voice_duration": voiceDuration,
		"music_duration": musicDuration,
		"target":         target,
	}).Debug("graph built")

	out, err := o.mix(graph, target)
	res.MusicLoops = loop.Loops()
	if err != nil {
		return err
	}

	return o.finalize(out, res)
}

func (o *operation) validate() error {
	if err := o.settings.Validate(); err != nil {
		return err
	}

	inputs := []struct {
		field, path string
	}{
		{"voice file", o.settings.VoicePath},
		{"music file", o.settings.MusicPath},
	}
	for _, in := range inputs {
		if _, err := o.registry.ForPath(in.path); err != nil {
			return configError(in.field, err)
		}
		info, err := os.Stat(in.path)
		if err != nil {
			return configError(in.field, err)
		}
		if info.IsDir() {
			return configError(in.field, fmt.Errorf("%s is a directory", in.path))
		}
	}
	return nil
}

// preflight compares the estimated output size with the profile's limit.
func (o *operation) preflight(target time.Duration) error {
	p := o.settings.Profile
	estimated := p.EstimatedBytes(target)
	if !p.Exceeds(estimated) {
		return nil
	}

	o.log.WithFields(logrus.Fields{
		"estimated": estimated,
		"limit":     p.LimitBytes(),
	}).Warn("estimated output size is over the profile limit")

	if o.confirmOverLimit != nil && !o.confirmOverLimit(estimated, p.LimitBytes()) {
		o.log.Info("over-limit mix declined")
		return errCancelled
	}
	return nil
}

// build wires voice -> volume and music -> loop -> volume -> fade-out into a
// mixer.
func (o *operation) build(voice, music audio.SeekableSource, voiceDuration, target time.Duration) (audio.Source, *audio.Loop, error) {
	loop, err := audio.NewLoop(music, o.settings.MusicOffset, target)
	if err != nil {
		if errors.Is(err, audio.ErrOffsetBeyondEnd) {
			return nil, nil, configError("music offset", err)
		}
		return nil, nil, fmt.Errorf("music: %w", err)
	}

	var musicBranch audio.Source = audio.NewVolume(loop, o.settings.MusicVolume)
	if o.settings.Buffer > 0 {
		fade, err := audio.NewFadeOut(musicBranch, voiceDuration, target)
		if err != nil {
			return nil, nil, fmt.Errorf("music fade: %w", err)
		}
		musicBranch = fade
	}

	voiceBranch := audio.NewVolume(voice, o.settings.VoiceVolume)

	mixer, err := audio.NewMixer(voiceBranch, musicBranch)
	if err != nil {
		return nil, nil, fmt.Errorf("%w", err)
	}
	return mixer, loop, nil
}

func (o *operation) mix(graph audio.Source, target time.Duration) (*wav.Writer, error) {
	o.enter(Mixing)
	o.report(progressMix, "mixing")

	p := o.settings.Profile
	out, err := wav.Create(o.settings.OutputPath, p.Format(), p.BitDepth)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	o.closers = append(o.closers, out)

	total := audio.SamplesFor(target, p.Format())
	buf := make([]float32, o.blockFrames*p.Channels)
	_, err = voxmix.Copy(out, graph, buf, func(copied int64) error {
		o.report(band(progressMix, progressFinalize, copied, total), "mixing")
		return o.checkCancel()
	})
	if err != nil {
		if errors.Is(err, errCancelled) {
			return nil, err
		}
		return nil, fmt.Errorf("mixing: %w", err)
	}
	return out, nil
}

func (o *operation) finalize(out *wav.Writer, res *Result) error {
	o.enter(Writing)
	o.report(progressFinalize, "finalizing output")

	if err := out.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	p := o.settings.Profile
	res.FileSize = out.Size()
	res.Duration = audio.DurationOf(out.Samples(), p.Format())

	if p.Exceeds(res.FileSize) {
		res.OverLimit = true
		o.log.WithFields(logrus.Fields{
			"size":  res.FileSize,
			"limit": p.LimitBytes(),
		}).Warn("output is over the profile limit")
	}
	return nil
}

// release closes everything the operation opened, newest first, and removes
// the work directory.
func (o *operation) release() {
	for _, c := range slices.Backward(o.closers) {
		if err := c.Close(); err != nil {
			o.log.WithError(err).Warn("releasing resource")
		}
	}
	o.closers = nil

	if o.scratch != "" {
		if err := os.RemoveAll(o.scratch); err != nil {
			o.log.WithError(err).Warn("removing work directory")
		}
		o.scratch = ""
	}
}

func (o *operation) enter(s State) {
	o.state = s
	o.log.WithField("state", s).Debug("state change")
}

// report forwards progress, dropping repeats and never going backwards.
func (o *operation) report(percent int, message string) {
	percent = min(max(percent, o.last, 0), progressCompleted)
	if percent == o.last && message == o.lastMsg {
		return
	}
	o.last, o.lastMsg = percent, message
	o.progress.Report(percent, message)
}

func (o *operation) checkCancel() error {
	if o.cancel.Cancelled() {
		return errCancelled
	}
	return nil
}

// band maps done/total onto [lo, hi].
func band(lo, hi int, done, total int64) int {
	if total <= 0 {
		return lo
	}
	done = min(done, total)
	return lo + int(int64(hi-lo)*done/total)
}
