package player

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	beepwav "github.com/faiface/beep/wav"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// beepOutput drives the system speaker through beep. The speaker is
// initialized lazily with the first track's sample rate; later tracks are
// resampled to it.
type beepOutput struct {
	fileSys     afero.Fs
	logger      *logrus.Logger
	sampleRate  beep.SampleRate
	initialized bool
	stream      beep.StreamSeekCloser
	ctrl        *beep.Ctrl
	vol         *effects.Volume
}

func newBeepOutput(logger *logrus.Logger) *beepOutput {
	return &beepOutput{
		fileSys: afero.NewOsFs(),
		logger:  logger,
	}
}

func (o *beepOutput) start(path string, volume float64) error {
	f, err := o.fileSys.Open(path)
	if err != nil {
		return err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = beepwav.Decode(f)
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	default:
		f.Close()

		return fmt.Errorf("unsupported audio format: %s", path)
	}

	if err != nil {
		f.Close()

		return fmt.Errorf("decoding %q: %w", path, err)
	}

	if !o.initialized {
		err = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
		if err != nil {
			stream.Close()

			return fmt.Errorf("initializing speaker: %w", err)
		}

		o.sampleRate = format.SampleRate
		o.initialized = true
	}

	speaker.Clear()

	if o.stream != nil {
		if closeErr := o.stream.Close(); closeErr != nil {
			o.logger.WithError(closeErr).Warn("closing previous track")
		}
	}

	o.stream = stream

	var streamer beep.Streamer = stream
	if format.SampleRate != o.sampleRate {
		streamer = beep.Resample(4, format.SampleRate, o.sampleRate, stream)
	}

	o.ctrl = &beep.Ctrl{Streamer: streamer}
	o.vol = &effects.Volume{
		Streamer: o.ctrl,
		Base:     2,
		Volume:   volumeGain(volume),
		Silent:   volume <= 0,
	}

	speaker.Play(o.vol)

	return nil
}

func (o *beepOutput) setPaused(paused bool) {
	if o.ctrl == nil {
		return
	}

	speaker.Lock()
	o.ctrl.Paused = paused
	speaker.Unlock()
}

func (o *beepOutput) setVolume(volume float64) {
	if o.vol == nil {
		return
	}

	speaker.Lock()
	o.vol.Volume = volumeGain(volume)
	o.vol.Silent = volume <= 0
	speaker.Unlock()
}

func (o *beepOutput) clear() {
	if !o.initialized {
		return
	}

	speaker.Clear()
}

// volumeGain maps the 0..1 user volume onto beep's exponential scale, where
// 0 is unchanged loudness and each unit halves or doubles it.
func volumeGain(volume float64) float64 {
	return (volume - 1.0) * 5
}
