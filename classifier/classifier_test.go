package classifier

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocal-media-control/command"
	"vocal-media-control/feature_extraction"
)

const testModelPath = "vocal_command_model.bin"

// testVector builds a 13-element vector whose first component carries the
// value and the rest are zero, so prototypes are trivially separable.
func testVector(first float64) []float64 {
	v := make([]float64, feature_extraction.CoefficientCount)
	v[0] = first

	return v
}

func labelNames() []string {
	names := make([]string, 0, len(command.Labels()))
	for _, l := range command.Labels() {
		names = append(names, string(l))
	}

	return names
}

func testArtifact() *Artifact {
	// Two prototypes per label, clustered around 10*labelIndex.
	prototypes := make([]Prototype, 0, 12)
	for i := range command.Labels() {
		base := float64(10 * i)
		prototypes = append(prototypes,
			Prototype{Label: i, Features: testVector(base - 0.5)},
			Prototype{Label: i, Features: testVector(base + 0.5)},
		)
	}

	return &Artifact{
		Version:    ArtifactVersion,
		Labels:     labelNames(),
		K:          3,
		Prototypes: prototypes,
	}
}

func writeArtifact(t *testing.T, fileSys afero.Fs, artifact *Artifact) {
	t.Helper()
	require.NoError(t, SaveArtifact(fileSys, testModelPath, artifact))
}

func newTestClassifier(t *testing.T) Interface {
	t.Helper()

	fileSys := afero.NewMemMapFs()
	writeArtifact(t, fileSys, testArtifact())

	model, err := New(&Config{
		FileSys:   fileSys,
		ModelPath: testModelPath,
		Labels:    command.Labels(),
	})
	require.NoError(t, err)

	return model
}

func TestClassify_PredictsNearestCluster(t *testing.T) {
	model := newTestClassifier(t)

	// Labels()[3] is "pop", whose cluster sits around 30.
	result, err := model.Classify(testVector(30.1))
	require.NoError(t, err)

	assert.Equal(t, command.LabelPop, result.Label)
	assert.Greater(t, result.Confidence, 0.9)
}

func TestClassify_DistributionInvariants(t *testing.T) {
	model := newTestClassifier(t)

	result, err := model.Classify(testVector(12.0))
	require.NoError(t, err)

	assert.Len(t, result.Probabilities, len(command.Labels()))

	var sum float64
	for label, p := range result.Probabilities {
		assert.GreaterOrEqualf(t, p, 0.0, "probability for %s", label)
		assert.LessOrEqualf(t, p, 1.0, "probability for %s", label)
		sum += p

		// Confidence is the distribution maximum.
		assert.LessOrEqual(t, p, result.Confidence)
	}

	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Equal(t, result.Probabilities[result.Label], result.Confidence)
}

func TestClassify_ExactPrototypeMatch(t *testing.T) {
	model := newTestClassifier(t)

	result, err := model.Classify(testVector(-0.5))
	require.NoError(t, err)

	assert.Equal(t, command.LabelShush, result.Label)
}

func TestClassify_WrongVectorWidth(t *testing.T) {
	model := newTestClassifier(t)

	_, err := model.Classify([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestNew_MissingArtifact(t *testing.T) {
	_, err := New(&Config{
		FileSys:   afero.NewMemMapFs(),
		ModelPath: testModelPath,
		Labels:    command.Labels(),
	})

	var loadErr *ModelLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestNew_CorruptArtifact(t *testing.T) {
	fileSys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fileSys, testModelPath, []byte("not msgpack"), 0o644))

	_, err := New(&Config{
		FileSys:   fileSys,
		ModelPath: testModelPath,
		Labels:    command.Labels(),
	})

	var loadErr *ModelLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestNew_LabelSpaceMismatch(t *testing.T) {
	fileSys := afero.NewMemMapFs()

	artifact := testArtifact()
	artifact.Labels[2], artifact.Labels[3] = artifact.Labels[3], artifact.Labels[2]
	writeArtifact(t, fileSys, artifact)

	_, err := New(&Config{
		FileSys:   fileSys,
		ModelPath: testModelPath,
		Labels:    command.Labels(),
	})

	var loadErr *ModelLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadArtifact_Validation(t *testing.T) {
	t.Run("rejects unknown version", func(t *testing.T) {
		fileSys := afero.NewMemMapFs()
		artifact := testArtifact()
		artifact.Version = 99
		writeArtifact(t, fileSys, artifact)

		_, err := LoadArtifact(fileSys, testModelPath)

		var loadErr *ModelLoadError
		require.ErrorAs(t, err, &loadErr)
	})

	t.Run("rejects short prototype vectors", func(t *testing.T) {
		fileSys := afero.NewMemMapFs()
		artifact := testArtifact()
		artifact.Prototypes[0].Features = []float64{1, 2}
		writeArtifact(t, fileSys, artifact)

		_, err := LoadArtifact(fileSys, testModelPath)

		var loadErr *ModelLoadError
		require.ErrorAs(t, err, &loadErr)
	})

	t.Run("round-trips through msgpack", func(t *testing.T) {
		fileSys := afero.NewMemMapFs()
		artifact := testArtifact()
		writeArtifact(t, fileSys, artifact)

		loaded, err := LoadArtifact(fileSys, testModelPath)
		require.NoError(t, err)

		assert.Equal(t, artifact.Labels, loaded.Labels)
		assert.Equal(t, artifact.K, loaded.K)
		assert.Equal(t, artifact.Prototypes, loaded.Prototypes)
	})
}
