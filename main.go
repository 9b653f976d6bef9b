package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"vocal-media-control/audio_capture"
	"vocal-media-control/classifier"
	"vocal-media-control/command"
	"vocal-media-control/config"
	"vocal-media-control/feature_extraction"
	"vocal-media-control/player"
	"vocal-media-control/session"
)

var (
	logger  = logrus.New()
	cfgFile string
)

func main() {
	root := newRootCmd()

	err := root.Execute()
	if err != nil {
		logger.Fatalf("error: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vocal-media-control",
		Short: "Control media playback with short vocal sounds",
		Long: `Recognizes six short vocal sounds (shush, click, whistle, pop, hiss, hum)
from the microphone and maps each to a playback action.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to YAML config file")

	root.AddCommand(newListenCmd())
	root.AddCommand(newClassifyCmd())
	root.AddCommand(newModelCmd())

	return root
}

func loadConfig() (*config.Config, afero.Fs, error) {
	fileSys := afero.NewOsFs()

	cfg, err := config.Load(fileSys, cfgFile)
	if err != nil {
		return nil, nil, err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}

	logger.SetLevel(level)

	return cfg, fileSys, nil
}

func buildPipeline(cfg *config.Config, fileSys afero.Fs) (command.ActionMapping, classifier.Interface, feature_extraction.Interface, error) {
	mapping, err := command.NewMapping(cfg.Mapping)
	if err != nil {
		return nil, nil, nil, err
	}

	model, err := classifier.New(&classifier.Config{
		FileSys:   fileSys,
		ModelPath: cfg.ModelPath,
		Labels:    command.Labels(),
	})
	if err != nil {
		return nil, nil, nil, err
	}

	extractor, err := feature_extraction.New(&feature_extraction.Config{
		SampleRate: cfg.SampleRate,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return mapping, model, extractor, nil
}

func newListenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Run the interactive voice-control loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fileSys, err := loadConfig()
			if err != nil {
				return err
			}

			mapping, model, extractor, err := buildPipeline(cfg, fileSys)
			if err != nil {
				return err
			}

			controller, err := player.New(&player.Config{
				FileSys:  fileSys,
				MusicDir: cfg.MusicDir,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			dispatcher, err := command.NewDispatcher(&command.DispatcherConfig{
				Mapping:    mapping,
				Controller: controller,
				Logger:     logger,
			})
			if err != nil {
				return err
			}

			capture, err := audio_capture.New(&audio_capture.Config{
				Logger: logger,
			})
			if err != nil {
				return err
			}

			err = audio_capture.Initialize()
			if err != nil {
				return err
			}

			defer func() {
				termErr := audio_capture.Terminate()
				if termErr != nil {
					logger.WithError(termErr).Warn("releasing audio device")
				}
			}()

			sess, err := session.New(&session.Config{
				Capture:         capture,
				Extractor:       extractor,
				Classifier:      model,
				Dispatcher:      dispatcher,
				Controller:      controller,
				Mapping:         mapping,
				Threshold:       cfg.Threshold,
				DurationSeconds: cfg.DurationSeconds,
				SampleRate:      cfg.SampleRate,
				FileSys:         fileSys,
				CaptureDumpDir:  cfg.CaptureDumpDir,
				Logger:          logger,
				In:              os.Stdin,
				Out:             os.Stdout,
			})
			if err != nil {
				return err
			}

			return sess.Run()
		},
	}
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <file.wav>",
		Short: "Classify a WAV file offline, without touching playback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fileSys, err := loadConfig()
			if err != nil {
				return err
			}

			_, model, extractor, err := buildPipeline(cfg, fileSys)
			if err != nil {
				return err
			}

			window, err := readWavWindow(fileSys, args[0])
			if err != nil {
				return err
			}

			features, err := extractor.Extract(window)
			if err != nil {
				return err
			}

			result, err := model.Classify(features)
			if err != nil {
				return err
			}

			for _, label := range command.Labels() {
				fmt.Printf("  %-8s %.3f\n", label, result.Probabilities[label])
			}

			label, ok := command.Gate(result.Label, result.Confidence, cfg.Threshold)
			if !ok {
				fmt.Printf("uncertain (confidence %.2f)\n", result.Confidence)

				return nil
			}

			fmt.Printf("detected %s (confidence %.2f)\n", label, result.Confidence)

			return nil
		},
	}
}

// readWavWindow decodes a WAV file into a mono capture window, averaging
// channels when the source is multichannel.
func readWavWindow(fileSys afero.Fs, path string) (*audio_capture.Window, error) {
	file, err := fileSys.Open(path)
	if err != nil {
		return nil, err
	}

	defer file.Close()

	decoder := wav.NewDecoder(file)

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}

	if buf == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("%q contains no audio", path)
	}

	return &audio_capture.Window{
		Samples:    monoSamples(buf),
		SampleRate: buf.Format.SampleRate,
	}, nil
}

// monoSamples folds a PCM buffer down to normalized mono float samples.
func monoSamples(buf *audio.IntBuffer) []float64 {
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	scale := math.Pow(2, float64(buf.SourceBitDepth-1))
	if scale <= 0 {
		scale = 1 << 15
	}

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)

	for i := 0; i < frames; i++ {
		var sum float64

		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c]) / scale
		}

		samples[i] = sum / float64(channels)
	}

	return samples
}

func newModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "model <artifact>",
		Short: "Inspect a model artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := classifier.LoadArtifact(afero.NewOsFs(), args[0])
			if err != nil {
				return err
			}

			counts := make(map[int]int)
			for _, p := range artifact.Prototypes {
				counts[p.Label]++
			}

			fmt.Printf("version:    %d\n", artifact.Version)
			fmt.Printf("neighbors:  %d\n", artifact.K)
			fmt.Printf("prototypes: %d\n", len(artifact.Prototypes))

			for i, label := range artifact.Labels {
				fmt.Printf("  %-8s %d samples\n", label, counts[i])
			}

			return nil
		},
	}
}
