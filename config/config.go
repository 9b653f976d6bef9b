package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Config holds everything configured once at startup. The action mapping is
// deliberately part of configuration rather than code: the label→action
// assignment is a user preference, not a pipeline invariant.
type Config struct {
	SampleRate      int               `yaml:"sample_rate"`
	DurationSeconds float64           `yaml:"duration_seconds"`
	Threshold       float64           `yaml:"confidence_threshold"`
	ModelPath       string            `yaml:"model_path"`
	MusicDir        string            `yaml:"music_dir"`
	CaptureDumpDir  string            `yaml:"capture_dump_dir"`
	LogLevel        string            `yaml:"log_level"`
	Mapping         map[string]string `yaml:"mapping"`
}

// Default returns the stock configuration: a 2 second window at 22050 Hz, a
// 0.4 confidence threshold, and the standard sound→action assignment.
func Default() *Config {
	return &Config{
		SampleRate:      22050,
		DurationSeconds: 2.0,
		Threshold:       0.4,
		ModelPath:       "vocal_command_model.bin",
		MusicDir:        "music_library",
		LogLevel:        "info",
		Mapping: map[string]string{
			"shush":   "pause",
			"click":   "play",
			"whistle": "next",
			"pop":     "volume_up",
			"hiss":    "volume_down",
			"hum":     "previous",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file (if
// given), then environment variables. A .env file in the working directory
// is folded into the environment first.
func Load(fileSys afero.Fs, path string) (*Config, error) {
	if fileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		raw, err := afero.ReadFile(fileSys, path)
		if err != nil {
			return nil, fmt.Errorf("reading config %q: %w", path, err)
		}

		err = yaml.Unmarshal(raw, cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing config %q: %w", path, err)
		}
	}

	err := applyEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("VOCAL_SAMPLE_RATE"); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid VOCAL_SAMPLE_RATE: %w", err)
		}

		cfg.SampleRate = rate
	}

	if v := os.Getenv("VOCAL_DURATION_SECONDS"); v != "" {
		seconds, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid VOCAL_DURATION_SECONDS: %w", err)
		}

		cfg.DurationSeconds = seconds
	}

	if v := os.Getenv("VOCAL_CONFIDENCE_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid VOCAL_CONFIDENCE_THRESHOLD: %w", err)
		}

		cfg.Threshold = threshold
	}

	if v := os.Getenv("VOCAL_MODEL_PATH"); v != "" {
		cfg.ModelPath = v
	}

	if v := os.Getenv("VOCAL_MUSIC_DIR"); v != "" {
		cfg.MusicDir = v
	}

	if v := os.Getenv("VOCAL_CAPTURE_DUMP_DIR"); v != "" {
		cfg.CaptureDumpDir = v
	}

	if v := os.Getenv("VOCAL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return nil
}

func (cfg *Config) validate() error {
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", cfg.SampleRate)
	}

	if cfg.DurationSeconds <= 0 {
		return fmt.Errorf("duration_seconds must be positive, got %v", cfg.DurationSeconds)
	}

	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return fmt.Errorf("confidence_threshold must be in [0,1], got %v", cfg.Threshold)
	}

	if cfg.ModelPath == "" {
		return fmt.Errorf("model_path is empty")
	}

	return nil
}
