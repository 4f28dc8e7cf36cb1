package cfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		wantErr  bool
		validate func(t *testing.T, settings Settings)
	}{
		{
			name:    "defaults",
			envVars: map[string]string{},
			wantErr: false,
			validate: func(t *testing.T, settings Settings) {
				if settings.ModelsDir != "models" {
					t.Errorf("expected default ModelsDir 'models', got %s", settings.ModelsDir)
				}
				if settings.DefaultModel != "myRF_3axis_25000" {
					t.Errorf("expected default model, got %s", settings.DefaultModel)
				}
				// Zero means "infer the rate from the model name".
				if settings.SamplingRate != 0 {
					t.Errorf("expected default SamplingRate 0, got %f", settings.SamplingRate)
				}
				if settings.MetricsPort != 8080 {
					t.Errorf("expected default MetricsPort 8080, got %d", settings.MetricsPort)
				}
				if settings.Seed != 0 {
					t.Errorf("expected default Seed 0, got %d", settings.Seed)
				}
			},
		},
		{
			name: "custom settings",
			envVars: map[string]string{
				"MODELS_DIR":    "/opt/models",
				"DATA_PATH":     "/var/lib/vibrodiag",
				"DEFAULT_MODEL": "myRF_axial_50000",
				"SAMPLING_RATE": "50000",
				"NOISE_SEED":    "42",
				"METRICS_PORT":  "9090",
			},
			wantErr: false,
			validate: func(t *testing.T, settings Settings) {
				if settings.ModelsDir != "/opt/models" {
					t.Errorf("expected ModelsDir '/opt/models', got %s", settings.ModelsDir)
				}
				if settings.DataPath != "/var/lib/vibrodiag" {
					t.Errorf("expected DataPath, got %s", settings.DataPath)
				}
				if settings.DefaultModel != "myRF_axial_50000" {
					t.Errorf("expected custom default model, got %s", settings.DefaultModel)
				}
				if settings.SamplingRate != 50000 {
					t.Errorf("expected SamplingRate 50000, got %f", settings.SamplingRate)
				}
				if settings.Seed != 42 {
					t.Errorf("expected Seed 42, got %d", settings.Seed)
				}
				if settings.MetricsPort != 9090 {
					t.Errorf("expected MetricsPort 9090, got %d", settings.MetricsPort)
				}
			},
		},
		{
			name: "invalid sampling rate",
			envVars: map[string]string{
				"SAMPLING_RATE": "-100",
			},
			wantErr: true,
		},
		{
			name: "sampling rate above limit",
			envVars: map[string]string{
				"SAMPLING_RATE": "2000000",
			},
			wantErr: true,
		},
		{
			name: "metrics port below range",
			envVars: map[string]string{
				"METRICS_PORT": "80",
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tc.envVars {
				t.Setenv(k, v)
			}

			settings, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.validate(t, settings)
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	clearConfigEnv(t)

	configYAML := `
models:
  dir: /data/models
  default: myRF_tangential_25000
signal:
  samplingRate: 48000
  seed: 7
system:
  dataPath: /data/history
  metricsPort: 9100
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	settings, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if settings.ModelsDir != "/data/models" {
		t.Errorf("ModelsDir = %s", settings.ModelsDir)
	}
	if settings.DefaultModel != "myRF_tangential_25000" {
		t.Errorf("DefaultModel = %s", settings.DefaultModel)
	}
	if settings.SamplingRate != 48000 {
		t.Errorf("SamplingRate = %f", settings.SamplingRate)
	}
	if settings.Seed != 7 {
		t.Errorf("Seed = %d", settings.Seed)
	}
	if settings.DataPath != "/data/history" {
		t.Errorf("DataPath = %s", settings.DataPath)
	}
	if settings.MetricsPort != 9100 {
		t.Errorf("MetricsPort = %d", settings.MetricsPort)
	}
}

func TestLoadFromYAML_EnvOverrides(t *testing.T) {
	clearConfigEnv(t)

	configYAML := `
models:
  dir: /data/models
signal:
  samplingRate: 48000
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SAMPLING_RATE", "96000")
	t.Setenv("MODELS_DIR", "/env/models")

	settings, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.SamplingRate != 96000 {
		t.Errorf("env should override YAML, got SamplingRate %f", settings.SamplingRate)
	}
	if settings.ModelsDir != "/env/models" {
		t.Errorf("env should override YAML, got ModelsDir %s", settings.ModelsDir)
	}
}

func TestLoadFromYAML_MissingFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "MODELS_DIR", "DATA_PATH", "DEFAULT_MODEL",
		"SAMPLING_RATE", "NOISE_SEED", "METRICS_PORT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
