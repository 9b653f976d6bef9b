package classifier

import (
	"fmt"
	"math"
	"sort"

	"github.com/spf13/afero"

	"vocal-media-control/command"
	"vocal-media-control/feature_extraction"
)

// distanceEpsilon keeps the inverse-distance weight finite for an exact
// prototype match.
const distanceEpsilon = 1e-6

type knnImpl struct {
	labels     []command.Label
	k          int
	prototypes []Prototype
}

type Config struct {
	FileSys   afero.Fs
	ModelPath string

	// Labels is the expected label space in its fixed order; the artifact
	// must match it exactly or construction fails.
	Labels []command.Label
}

// New loads the model artifact and verifies its label space against the
// configured one.
func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.FileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("modelPath is empty")
	}

	if len(cfg.Labels) == 0 {
		return nil, fmt.Errorf("labels is empty")
	}

	artifact, err := LoadArtifact(cfg.FileSys, cfg.ModelPath)
	if err != nil {
		return nil, err
	}

	if len(artifact.Labels) != len(cfg.Labels) {
		return nil, &ModelLoadError{
			Path: cfg.ModelPath,
			Err:  fmt.Errorf("artifact has %d labels, want %d", len(artifact.Labels), len(cfg.Labels)),
		}
	}

	for i, want := range cfg.Labels {
		if artifact.Labels[i] != string(want) {
			return nil, &ModelLoadError{
				Path: cfg.ModelPath,
				Err:  fmt.Errorf("artifact label %d is %q, want %q", i, artifact.Labels[i], want),
			}
		}
	}

	return &knnImpl{
		labels:     cfg.Labels,
		k:          artifact.K,
		prototypes: artifact.Prototypes,
	}, nil
}

// Classify predicts by distance-weighted vote over the k nearest prototypes.
// Each neighbor contributes weight 1/(distance+eps) to its label; the
// per-label probability is that label's share of the total weight.
func (m *knnImpl) Classify(features feature_extraction.FeatureVector) (*Result, error) {
	if len(features) != feature_extraction.CoefficientCount {
		return nil, fmt.Errorf("feature vector has %d values, want %d", len(features), feature_extraction.CoefficientCount)
	}

	type neighbor struct {
		label    int
		distance float64
	}

	neighbors := make([]neighbor, len(m.prototypes))

	for i, p := range m.prototypes {
		neighbors[i] = neighbor{label: p.Label, distance: euclidean(features, p.Features)}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		return neighbors[i].distance < neighbors[j].distance
	})

	k := m.k
	if k > len(neighbors) {
		k = len(neighbors)
	}

	weights := make([]float64, len(m.labels))
	var total float64

	for _, n := range neighbors[:k] {
		w := 1.0 / (n.distance + distanceEpsilon)
		weights[n.label] += w
		total += w
	}

	probabilities := make(map[command.Label]float64, len(m.labels))
	best := 0

	for i, label := range m.labels {
		probabilities[label] = weights[i] / total

		if weights[i] > weights[best] {
			best = i
		}
	}

	predicted := m.labels[best]

	return &Result{
		Label:         predicted,
		Confidence:    probabilities[predicted],
		Probabilities: probabilities,
	}, nil
}

func euclidean(a, b []float64) float64 {
	var sum float64

	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return math.Sqrt(sum)
}
