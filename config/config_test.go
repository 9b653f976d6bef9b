package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocal-media-control/command"
)

func TestDefault_IsValidAndComplete(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.validate())
	assert.Equal(t, 22050, cfg.SampleRate)
	assert.Equal(t, 2.0, cfg.DurationSeconds)
	assert.Equal(t, 0.4, cfg.Threshold)

	// The stock mapping must cover the whole label set.
	_, err := command.NewMapping(cfg.Mapping)
	assert.NoError(t, err)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	fileSys := afero.NewMemMapFs()

	doc := []byte(`
sample_rate: 16000
confidence_threshold: 0.6
music_dir: /srv/music
mapping:
  shush: pause
  hum: play
  hiss: previous
  click: volume_down
  pop: next
  whistle: volume_up
`)
	require.NoError(t, afero.WriteFile(fileSys, "vocal.yaml", doc, 0o644))

	cfg, err := Load(fileSys, "vocal.yaml")
	require.NoError(t, err)

	assert.Equal(t, 16000, cfg.SampleRate)
	assert.Equal(t, 0.6, cfg.Threshold)
	assert.Equal(t, "/srv/music", cfg.MusicDir)
	assert.Equal(t, 2.0, cfg.DurationSeconds, "unset keys keep their defaults")
	assert.Equal(t, "play", cfg.Mapping["hum"])
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	fileSys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fileSys, "vocal.yaml", []byte("sample_rate: 16000\n"), 0o644))

	t.Setenv("VOCAL_SAMPLE_RATE", "44100")
	t.Setenv("VOCAL_CONFIDENCE_THRESHOLD", "0.55")

	cfg, err := Load(fileSys, "vocal.yaml")
	require.NoError(t, err)

	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, 0.55, cfg.Threshold)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "nope.yaml")

	assert.Error(t, err)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("VOCAL_SAMPLE_RATE", "fast")

	_, err := Load(afero.NewMemMapFs(), "")

	assert.Error(t, err)
}

func TestValidate_Bounds(t *testing.T) {
	cfg := Default()
	cfg.Threshold = 1.5
	assert.Error(t, cfg.validate())

	cfg = Default()
	cfg.DurationSeconds = 0
	assert.Error(t, cfg.validate())

	cfg = Default()
	cfg.SampleRate = -1
	assert.Error(t, cfg.validate())

	cfg = Default()
	cfg.ModelPath = ""
	assert.Error(t, cfg.validate())
}
