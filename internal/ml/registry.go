package ml

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Registry is the read-only set of classifiers available to the
// predictor. It is constructed once at process start and never mutated
// afterwards, so lookups need no locking. Names iterate in sorted
// order, which makes the substitution fallback deterministic.
type Registry struct {
	models map[string]Classifier
	names  []string
}

// NewRegistry builds a registry from already-constructed classifiers.
// The map is copied; later mutation of the argument has no effect.
func NewRegistry(models map[string]Classifier) *Registry {
	r := &Registry{models: make(map[string]Classifier, len(models))}
	for name, model := range models {
		r.models[name] = model
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r
}

// LoadRegistry loads every *.json model artifact in dir. Artifacts
// that fail to load are skipped with an error log; a missing directory
// yields an empty registry with a warning, matching the degraded-mode
// behavior where predictions report "No models available".
func LoadRegistry(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("models_dir", dir).Msg("models directory not found, no classifiers loaded")
			return NewRegistry(nil), nil
		}
		return nil, err
	}

	models := make(map[string]Classifier)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		forest, err := LoadForest(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Error().Err(err).Str("model", name).Msg("failed to load model artifact")
			continue
		}
		models[name] = forest
		log.Info().Str("model", name).Int("features", len(forest.featureNames)).Msg("model loaded")
	}
	return NewRegistry(models), nil
}

// Get returns the classifier registered under name.
func (r *Registry) Get(name string) (Classifier, bool) {
	model, ok := r.models[name]
	return model, ok
}

// Names returns the registered model identifiers in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	return len(r.names)
}

// First returns the first model in sorted name order, used as the
// substitution fallback when a requested model is unknown.
func (r *Registry) First() (string, Classifier, bool) {
	if len(r.names) == 0 {
		return "", nil, false
	}
	name := r.names[0]
	return name, r.models[name], true
}
