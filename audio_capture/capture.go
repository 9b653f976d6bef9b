package audio_capture

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

// chunkFrames is the per-read buffer size requested from the device.
const chunkFrames = 1024

// DeviceError reports that the input device could not be opened or faulted
// mid-capture. The cycle that hit it aborts; the device is never substituted
// with silence.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("audio device %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Window is one capture's worth of mono samples. It lives for a single
// recognition cycle and is discarded after feature extraction.
type Window struct {
	Samples    []float64
	SampleRate int
}

type captureImpl struct {
	logger *logrus.Logger
}

type Config struct {
	Logger *logrus.Logger
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	return &captureImpl{
		logger: cfg.Logger,
	}, nil
}

// Initialize starts the portaudio host layer. Call once per process, paired
// with Terminate.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return &DeviceError{Op: "initialize", Err: err}
	}

	return nil
}

// Terminate releases the portaudio host layer.
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return &DeviceError{Op: "terminate", Err: err}
	}

	return nil
}

func (c *captureImpl) CaptureWindow(durationSeconds float64, sampleRate int) (*Window, error) {
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("durationSeconds must be positive, got %v", durationSeconds)
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("sampleRate must be positive, got %d", sampleRate)
	}

	in := make([]float32, chunkFrames)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), len(in), in)
	if err != nil {
		return nil, &DeviceError{Op: "open", Err: err}
	}

	defer stream.Close()

	err = stream.Start()
	if err != nil {
		return nil, &DeviceError{Op: "start", Err: err}
	}

	target := int(durationSeconds * float64(sampleRate))

	c.logger.WithFields(logrus.Fields{
		"duration_seconds": durationSeconds,
		"sample_rate":      sampleRate,
		"target_samples":   target,
	}).Debug("capturing window")

	samples := make([]float64, 0, target+chunkFrames)

	for len(samples) < target {
		err = stream.Read()
		if err != nil {
			return nil, &DeviceError{Op: "read", Err: err}
		}

		for _, s := range in {
			samples = append(samples, float64(s))
		}
	}

	err = stream.Stop()
	if err != nil {
		return nil, &DeviceError{Op: "stop", Err: err}
	}

	return &Window{
		Samples:    coerceLength(samples, target),
		SampleRate: sampleRate,
	}, nil
}

// coerceLength truncates or zero-pads samples to exactly target. Device
// buffering delivers whole chunks, so captures typically run a little long.
func coerceLength(samples []float64, target int) []float64 {
	if len(samples) >= target {
		return samples[:target]
	}

	padded := make([]float64, target)
	copy(padded, samples)

	return padded
}
