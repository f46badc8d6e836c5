// SPDX-License-Identifier: EPL-2.0

// Command voxmix mixes a voice recording with background music.
//
//	voxmix -voice talk.wav -music bed.mp3 -out episode.wav \
//	    -music-volume 0.3 -offset 2s -buffer 5s -profile podcast
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	pprofile "github.com/pkg/profile"
	"github.com/sirupsen/logrus"

	"github.com/ik5/voxmix/internal/logging"
	"github.com/ik5/voxmix/mixing"
	"github.com/ik5/voxmix/profile"
)

type options struct {
	voice, music, out string
	voiceVolume       float64
	musicVolume       float64
	offset, buffer    time.Duration
	profileName       string
	profilesFile      string
	yes               bool
	cpuProfile        string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("voxmix", flag.ContinueOnError)
	fs.StringVar(&o.voice, "voice", "", "voice recording (wav, mp3, ogg, aiff)")
	fs.StringVar(&o.music, "music", "", "background music (wav, mp3, ogg, aiff)")
	fs.StringVar(&o.out, "out", "", "output WAV file")
	fs.Float64Var(&o.voiceVolume, "voice-volume", 1, "voice volume, 0 to 1")
	fs.Float64Var(&o.musicVolume, "music-volume", 0.3, "music volume, 0 to 1")
	fs.DurationVar(&o.offset, "offset", 0, "skip this much of the music")
	fs.DurationVar(&o.buffer, "buffer", 5*time.Second, "music fade-out after the voice ends")
	fs.StringVar(&o.profileName, "profile", profile.Podcast.Name, "output profile name")
	fs.StringVar(&o.profilesFile, "profiles", "", "YAML file with extra profiles")
	fs.BoolVar(&o.yes, "yes", false, "mix even when the output will be over the profile size limit")
	fs.StringVar(&o.cpuProfile, "cpuprofile", "", "write a CPU profile into this directory")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.voice == "" || o.music == "" || o.out == "" {
		fs.Usage()
		return o, errors.New("-voice, -music and -out are required")
	}
	return o, nil
}

func loadProfile(o options) (profile.Profile, error) {
	set := profile.Defaults()
	if o.profilesFile != "" {
		extra, err := profile.Load(o.profilesFile)
		if err != nil {
			return profile.Profile{}, err
		}
		set = append(extra, set...)
	}
	return set.Lookup(o.profileName)
}

func run(log *logrus.Logger, o options) error {
	p, err := loadProfile(o)
	if err != nil {
		return err
	}

	renderer := mixing.NewRenderer(
		mixing.WithLogger(log),
		mixing.WithConfirmOverLimit(func(estimated, limit int64) bool {
			log.Warnf("output will be about %d bytes, profile %s allows %d", estimated, p.Name, limit)
			return o.yes
		}),
	)
	worker := mixing.NewWorker(renderer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := mixing.ProgressFunc(func(percent int, message string) {
		log.WithField("percent", percent).Info(message)
	})

	done, err := worker.Start(ctx, mixing.Settings{
		VoicePath:   o.voice,
		MusicPath:   o.music,
		OutputPath:  o.out,
		VoiceVolume: float32(o.voiceVolume),
		MusicVolume: float32(o.musicVolume),
		MusicOffset: o.offset,
		Buffer:      o.buffer,
		Profile:     p,
	}, progress)
	if err != nil {
		return err
	}

	res := <-done
	switch res.State {
	case mixing.Cancelled:
		log.Warn("mix cancelled")
		return nil
	case mixing.Failed:
		return res.Err
	}

	fmt.Printf("%s: %s, %d bytes, profile %s\n", o.out, res.Duration.Round(time.Millisecond), res.FileSize, res.Profile)
	if res.OverLimit {
		fmt.Printf("warning: %d bytes is over the %d byte limit of profile %s\n",
			res.FileSize, p.LimitBytes(), p.Name)
	}
	return nil
}

func main() {
	os.Exit(realMain())
}

// realMain returns the exit code, so deferred calls run before os.Exit.
func realMain() int {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if o.cpuProfile != "" {
		defer pprofile.Start(pprofile.CPUProfile, pprofile.ProfilePath(o.cpuProfile), pprofile.NoShutdownHook).Stop()
	}

	log := logging.New()
	if err := run(log, o); err != nil {
		log.WithError(err).Error("voxmix failed")
		return 1
	}
	return 0
}
