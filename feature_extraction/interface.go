package feature_extraction

import "vocal-media-control/audio_capture"

// FeatureVector is the fixed-length spectral-cepstral summary of one capture
// window: the time-average of each cepstral coefficient. Its length is
// always CoefficientCount and every value is finite.
type FeatureVector []float64

// Interface reduces a capture window to a FeatureVector. Extraction is a
// pure numeric transform: identical samples and parameters always produce
// identical output, and the parameters must match the ones used when the
// model's training features were extracted.
type Interface interface {
	Extract(window *audio_capture.Window) (FeatureVector, error)
}
