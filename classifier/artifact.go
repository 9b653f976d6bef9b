package classifier

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/vmihailenco/msgpack/v5"

	"vocal-media-control/feature_extraction"
)

// ArtifactVersion is the serialization format this build reads and writes.
const ArtifactVersion = 1

// ModelLoadError reports a model artifact that is missing, corrupt, or
// inconsistent with the configured label space. Fatal at startup: the
// pipeline never runs without a usable model.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("loading model %q: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// Prototype is one labeled training example: a feature vector plus the index
// of its label in the artifact's label list.
type Prototype struct {
	Label    int       `msgpack:"label"`
	Features []float64 `msgpack:"features"`
}

// Artifact is the serialized model: the label space in its fixed order, the
// neighbor count, and the stored prototypes.
type Artifact struct {
	Version    int         `msgpack:"version"`
	Labels     []string    `msgpack:"labels"`
	K          int         `msgpack:"k"`
	Prototypes []Prototype `msgpack:"prototypes"`
}

// LoadArtifact reads and structurally validates a model artifact. Label-space
// agreement with the configured mapping is checked by New, not here.
func LoadArtifact(fileSys afero.Fs, path string) (*Artifact, error) {
	raw, err := afero.ReadFile(fileSys, path)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}

	var artifact Artifact

	err = msgpack.Unmarshal(raw, &artifact)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: fmt.Errorf("decoding artifact: %w", err)}
	}

	if artifact.Version != ArtifactVersion {
		return nil, &ModelLoadError{Path: path, Err: fmt.Errorf("unsupported artifact version %d", artifact.Version)}
	}

	if artifact.K < 1 {
		return nil, &ModelLoadError{Path: path, Err: fmt.Errorf("invalid neighbor count %d", artifact.K)}
	}

	if len(artifact.Prototypes) == 0 {
		return nil, &ModelLoadError{Path: path, Err: fmt.Errorf("artifact has no prototypes")}
	}

	for i, p := range artifact.Prototypes {
		if len(p.Features) != feature_extraction.CoefficientCount {
			return nil, &ModelLoadError{
				Path: path,
				Err:  fmt.Errorf("prototype %d has %d features, want %d", i, len(p.Features), feature_extraction.CoefficientCount),
			}
		}

		if p.Label < 0 || p.Label >= len(artifact.Labels) {
			return nil, &ModelLoadError{Path: path, Err: fmt.Errorf("prototype %d has out-of-range label index %d", i, p.Label)}
		}
	}

	return &artifact, nil
}

// SaveArtifact serializes an artifact. Used by tests and external training
// tooling; the pipeline itself only reads models.
func SaveArtifact(fileSys afero.Fs, path string, artifact *Artifact) error {
	raw, err := msgpack.Marshal(artifact)
	if err != nil {
		return err
	}

	return afero.WriteFile(fileSys, path, raw, 0o644)
}
