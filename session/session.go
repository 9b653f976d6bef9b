package session

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/zenwerk/go-wave"

	"vocal-media-control/audio_capture"
	"vocal-media-control/classifier"
	"vocal-media-control/command"
	"vocal-media-control/feature_extraction"
	"vocal-media-control/player"
)

type sessionImpl struct {
	capture    audio_capture.Interface
	extractor  feature_extraction.Interface
	model      classifier.Interface
	dispatcher *command.Dispatcher
	controller player.Controller
	mapping    command.ActionMapping
	threshold  float64
	duration   float64
	sampleRate int
	fileSys    afero.Fs
	dumpDir    string
	logger     *logrus.Logger
	in         io.Reader
	out        io.Writer
}

type Config struct {
	Capture         audio_capture.Interface
	Extractor       feature_extraction.Interface
	Classifier      classifier.Interface
	Dispatcher      *command.Dispatcher
	Controller      player.Controller
	Mapping         command.ActionMapping
	Threshold       float64
	DurationSeconds float64
	SampleRate      int
	FileSys         afero.Fs

	// CaptureDumpDir, when set, receives every captured window as a 16-bit
	// WAV file before extraction.
	CaptureDumpDir string

	Logger *logrus.Logger
	In     io.Reader
	Out    io.Writer
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Capture == nil {
		return nil, fmt.Errorf("capture is nil")
	}

	if cfg.Extractor == nil {
		return nil, fmt.Errorf("extractor is nil")
	}

	if cfg.Classifier == nil {
		return nil, fmt.Errorf("classifier is nil")
	}

	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is nil")
	}

	if cfg.Controller == nil {
		return nil, fmt.Errorf("controller is nil")
	}

	if cfg.Mapping == nil {
		return nil, fmt.Errorf("mapping is nil")
	}

	if cfg.FileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	if cfg.In == nil || cfg.Out == nil {
		return nil, fmt.Errorf("in/out streams are nil")
	}

	if cfg.DurationSeconds <= 0 || cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid capture parameters")
	}

	return &sessionImpl{
		capture:    cfg.Capture,
		extractor:  cfg.Extractor,
		model:      cfg.Classifier,
		dispatcher: cfg.Dispatcher,
		controller: cfg.Controller,
		mapping:    cfg.Mapping,
		threshold:  cfg.Threshold,
		duration:   cfg.DurationSeconds,
		sampleRate: cfg.SampleRate,
		fileSys:    cfg.FileSys,
		dumpDir:    cfg.CaptureDumpDir,
		logger:     cfg.Logger,
		in:         cfg.In,
		out:        cfg.Out,
	}, nil
}

// Run reads commands until quit or EOF. An empty line triggers one
// recognition cycle; per-cycle failures are reported and the loop returns to
// idle, ready for the next trigger.
func (s *sessionImpl) Run() error {
	s.printBanner()

	scanner := bufio.NewScanner(s.in)

	for {
		fmt.Fprint(s.out, "\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.ToLower(strings.TrimSpace(scanner.Text()))

		switch input {
		case "quit", "exit":
			s.shutdown()

			return nil
		case "status":
			fmt.Fprintln(s.out, s.controller.Status())
		case "mapping":
			s.printMapping()
		case "play":
			s.reportManual(s.controller.Play())
		case "pause":
			s.reportManual(s.controller.Pause())
		case "next":
			s.reportManual(s.controller.NextTrack())
		case "previous":
			s.reportManual(s.controller.PreviousTrack())
		case "volup":
			s.reportManual(s.controller.VolumeUp())
		case "voldown":
			s.reportManual(s.controller.VolumeDown())
		case "":
			err := s.RunCycle()
			if err != nil {
				// Recoverable: report, return to idle, accept the next
				// trigger.
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		default:
			fmt.Fprintln(s.out, "unknown command; press enter to speak, or type: play, pause, next, previous, volup, voldown, status, mapping, quit")
		}
	}

	s.shutdown()

	return scanner.Err()
}

func (s *sessionImpl) shutdown() {
	err := s.controller.Stop()
	if err != nil {
		s.logger.WithError(err).Warn("stopping playback on exit")
	}
}

func (s *sessionImpl) reportManual(err error) {
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)

		return
	}

	fmt.Fprintln(s.out, s.controller.Status())
}

// RunCycle performs one full recognition pass. Stages run strictly in order;
// any failure aborts the cycle with no dispatch.
func (s *sessionImpl) RunCycle() error {
	entry := s.logger.WithField("cycle", uuid.NewString()[:8])

	fmt.Fprintf(s.out, "listening for %.1f seconds...\n", s.duration)

	window, err := s.capture.CaptureWindow(s.duration, s.sampleRate)
	if err != nil {
		entry.WithError(err).Warn("capture failed")

		return err
	}

	if s.dumpDir != "" {
		dumpErr := s.dumpWindow(window)
		if dumpErr != nil {
			entry.WithError(dumpErr).Warn("saving capture window")
		}
	}

	features, err := s.extractor.Extract(window)
	if err != nil {
		entry.WithError(err).Error("extraction failed")

		return err
	}

	result, err := s.model.Classify(features)
	if err != nil {
		entry.WithError(err).Error("classification failed")

		return err
	}

	entry.WithFields(logrus.Fields{
		"label":      result.Label,
		"confidence": result.Confidence,
	}).Info("classified window")

	s.printDistribution(result)

	label, ok := command.Gate(result.Label, result.Confidence, s.threshold)
	if !ok {
		fmt.Fprintf(s.out, "uncertain (confidence %.2f); please try again with a clearer sound\n", result.Confidence)

		return nil
	}

	outcome, err := s.dispatcher.Dispatch(label)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "detected %s (confidence %.2f) -> %s\n", outcome.Label, result.Confidence, outcome.Action)
	fmt.Fprintln(s.out, s.controller.Status())

	return nil
}

func (s *sessionImpl) printBanner() {
	fmt.Fprintln(s.out, "vocal media control")
	s.printMapping()
	fmt.Fprintln(s.out, "press enter to speak a command; type status, mapping or quit")
}

func (s *sessionImpl) printMapping() {
	fmt.Fprintln(s.out, "sound-action mapping:")

	for _, label := range command.Labels() {
		fmt.Fprintf(s.out, "  %-8s -> %s\n", label, s.mapping[label])
	}
}

func (s *sessionImpl) printDistribution(result *classifier.Result) {
	for _, label := range command.Labels() {
		p := result.Probabilities[label]
		fmt.Fprintf(s.out, "  %-8s %.3f %s\n", label, p, strings.Repeat("#", int(p*20)))
	}
}

// dumpWindow writes the captured window as a 16-bit PCM WAV file, for
// listening back to what the recognizer heard.
func (s *sessionImpl) dumpWindow(window *audio_capture.Window) error {
	name := filepath.Join(s.dumpDir, fmt.Sprintf("capture_%d.wav", time.Now().Unix()))

	file, err := s.fileSys.Create(name)
	if err != nil {
		return err
	}

	writer, err := wave.NewWriter(wave.WriterParam{
		Out:           file,
		Channel:       1,
		SampleRate:    s.sampleRate,
		BitsPerSample: 16,
	})
	if err != nil {
		file.Close()

		return err
	}

	defer writer.Close()

	_, err = writer.WriteSample16(toInt16(window.Samples))

	return err
}

func toInt16(samples []float64) []int16 {
	out := make([]int16, len(samples))

	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}

		out[i] = int16(s * 32767)
	}

	return out
}
