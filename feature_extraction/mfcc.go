package feature_extraction

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"vocal-media-control/audio_capture"
)

// Extraction parameters. These must stay in lockstep with the parameters the
// model's training features were produced with; changing any of them
// invalidates every existing model artifact.
const (
	CoefficientCount = 13
	frameSize        = 2048
	hopSize          = 512
	melBands         = 128

	// logFloor keeps log-mel energies finite for silent frames.
	logFloor = 1e-10
)

// ExtractionError reports a malformed buffer reaching the extractor: an
// empty window or one captured at the wrong rate. Low signal energy is never
// an extraction error.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("feature extraction: %s", e.Reason)
}

type extractorImpl struct {
	sampleRate int
	hann       []float64
	filterbank [][]float64
}

type Config struct {
	SampleRate int
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sampleRate must be positive, got %d", cfg.SampleRate)
	}

	return &extractorImpl{
		sampleRate: cfg.SampleRate,
		hann:       window.Hann(frameSize),
		filterbank: melFilterbank(cfg.SampleRate, frameSize, melBands),
	}, nil
}

func (e *extractorImpl) Extract(w *audio_capture.Window) (FeatureVector, error) {
	if w == nil || len(w.Samples) == 0 {
		return nil, &ExtractionError{Reason: "window is empty"}
	}

	if w.SampleRate != e.sampleRate {
		return nil, &ExtractionError{
			Reason: fmt.Sprintf("window sample rate %d does not match extractor rate %d", w.SampleRate, e.sampleRate),
		}
	}

	samples := normalizePeak(w.Samples)

	if len(samples) < frameSize {
		padded := make([]float64, frameSize)
		copy(padded, samples)
		samples = padded
	}

	numFrames := 1 + (len(samples)-frameSize)/hopSize
	mean := make(FeatureVector, CoefficientCount)
	frame := make([]float64, frameSize)

	for f := 0; f < numFrames; f++ {
		offset := f * hopSize

		for i := 0; i < frameSize; i++ {
			frame[i] = samples[offset+i] * e.hann[i]
		}

		coeffs := e.cepstral(frame)

		for i, c := range coeffs {
			mean[i] += c
		}
	}

	for i := range mean {
		mean[i] /= float64(numFrames)
	}

	return mean, nil
}

// cepstral computes one frame's cepstral coefficients: power spectrum,
// mel-filterbank energies, log compression, then an orthonormal DCT-II.
func (e *extractorImpl) cepstral(frame []float64) []float64 {
	spectrum := fft.FFTReal(frame)

	bins := frameSize/2 + 1
	power := make([]float64, bins)

	for k := 0; k < bins; k++ {
		re := real(spectrum[k])
		im := imag(spectrum[k])
		power[k] = re*re + im*im
	}

	logMel := make([]float64, melBands)

	for m := 0; m < melBands; m++ {
		var energy float64

		for k, weight := range e.filterbank[m] {
			if weight != 0 {
				energy += weight * power[k]
			}
		}

		logMel[m] = math.Log(math.Max(energy, logFloor))
	}

	return dctII(logMel, CoefficientCount)
}

// dctII is the orthonormal type-II discrete cosine transform, truncated to
// the first count coefficients.
func dctII(in []float64, count int) []float64 {
	n := len(in)
	out := make([]float64, count)
	scale := math.Sqrt(2.0 / float64(n))

	for k := 0; k < count; k++ {
		var sum float64

		for j, v := range in {
			sum += v * math.Cos(math.Pi*float64(k)*(2*float64(j)+1)/(2*float64(n)))
		}

		out[k] = scale * sum
	}

	out[0] /= math.Sqrt2

	return out
}

// normalizePeak scales the window so its peak absolute amplitude is 1.0. An
// all-zero window is returned as-is: a silent capture still extracts, it
// just yields a degenerate vector.
func normalizePeak(samples []float64) []float64 {
	var peak float64

	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}

	out := make([]float64, len(samples))

	if peak == 0 {
		copy(out, samples)

		return out
	}

	for i, s := range samples {
		out[i] = s / peak
	}

	return out
}
