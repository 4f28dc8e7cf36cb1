package cfg

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	ModelsDir    string
	DataPath     string
	DefaultModel string
	// SamplingRate overrides the rate inferred from the model name
	// for recordings that carry none. Zero keeps model-name inference.
	SamplingRate float64
	Seed         int64
	MetricsPort  int
}

type ConfigFile struct {
	Models struct {
		Dir     string `yaml:"dir"`
		Default string `yaml:"default"`
	} `yaml:"models"`

	Signal struct {
		SamplingRate float64 `yaml:"samplingRate"`
		Seed         int64   `yaml:"seed"`
	} `yaml:"signal"`

	System struct {
		DataPath    string `yaml:"dataPath"`
		MetricsPort int    `yaml:"metricsPort"`
	} `yaml:"system"`
}

func Load() (Settings, error) {
	// Try to load from YAML file first
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromYAML(configPath)
	}

	// Fallback to environment variables
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	settings := Settings{
		ModelsDir:    getEnvOrDefault("MODELS_DIR", config.Models.Dir),
		DataPath:     getEnvOrDefault("DATA_PATH", config.System.DataPath),
		DefaultModel: getEnvOrDefault("DEFAULT_MODEL", config.Models.Default),
		SamplingRate: getFloatFromEnvOrConfig("SAMPLING_RATE", config.Signal.SamplingRate),
		Seed:         getInt64FromEnvOrConfig("NOISE_SEED", config.Signal.Seed),
		MetricsPort:  getIntFromEnvOrConfig("METRICS_PORT", config.System.MetricsPort),
	}
	applyDefaults(&settings)

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		ModelsDir:    getEnvOrDefault("MODELS_DIR", "models"),
		DataPath:     os.Getenv("DATA_PATH"), // optional, empty disables history
		DefaultModel: getEnvOrDefault("DEFAULT_MODEL", "myRF_3axis_25000"),
		SamplingRate: getFloatOrDefault("SAMPLING_RATE", 0),
		Seed:         getInt64OrDefault("NOISE_SEED", 0),
		MetricsPort:  getIntOrDefault("METRICS_PORT", 8080),
	}
	applyDefaults(&settings)

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func applyDefaults(s *Settings) {
	if s.ModelsDir == "" {
		s.ModelsDir = "models"
	}
	if s.DefaultModel == "" {
		s.DefaultModel = "myRF_3axis_25000"
	}
	if s.MetricsPort == 0 {
		s.MetricsPort = 8080
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	return configValue
}

func getInt64FromEnvOrConfig(key string, configValue int64) int64 {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseInt(env, 10, 64); err == nil {
			return val
		}
	}
	return configValue
}

func getFloatFromEnvOrConfig(key string, configValue float64) float64 {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseFloat(env, 64); err == nil {
			return val
		}
	}
	return configValue
}

// validateSettings performs range checks on configuration values.
func validateSettings(settings *Settings) error {
	if settings.ModelsDir == "" {
		return fmt.Errorf("models directory cannot be empty")
	}
	if settings.DefaultModel == "" {
		return fmt.Errorf("default model cannot be empty")
	}
	if settings.SamplingRate < 0 {
		return fmt.Errorf("sampling rate cannot be negative, got %f", settings.SamplingRate)
	}
	if settings.SamplingRate > 1_000_000 {
		return fmt.Errorf("sampling rate must be at most 1MHz, got %f", settings.SamplingRate)
	}
	if settings.MetricsPort < 1024 || settings.MetricsPort > 65535 {
		return fmt.Errorf("metrics port must be between 1024 and 65535, got %d", settings.MetricsPort)
	}
	return nil
}
