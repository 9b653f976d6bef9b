package classifier

import (
	"vocal-media-control/command"
	"vocal-media-control/feature_extraction"
)

// Result is one classification outcome: the predicted label, the probability
// mass the model assigns to it, and the full distribution over the closed
// label set. Confidence is always exactly the predicted label's entry in
// Probabilities and the maximum of the distribution.
type Result struct {
	Label         command.Label
	Confidence    float64
	Probabilities map[command.Label]float64
}

// Interface wraps the pretrained multi-class model. The model is loaded once
// at construction and immutable for the pipeline's lifetime.
type Interface interface {
	Classify(features feature_extraction.FeatureVector) (*Result, error)
}
