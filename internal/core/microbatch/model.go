package microbatch

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Model is one incremental model planned in batches.
// Models are loaded at startup from YAML files and fingerprinted so a plan
// records which definition produced it.
type Model struct {
	Name        string
	Granularity Granularity
	Lookback    int
	EventTime   string // event-time column, informational
	Description string
	Fingerprint string // SHA-256 of the raw YAML file
}

// Config returns the builder configuration for one run of m.
func (m Model) Config(incremental bool) Config {
	return Config{
		Granularity: m.Granularity,
		Lookback:    m.Lookback,
		Incremental: incremental,
	}
}

// rawModel is the on-disk YAML shape.
type rawModel struct {
	Name        string `yaml:"name"`
	BatchSize   string `yaml:"batch_size"`
	Lookback    *int   `yaml:"lookback"` // nil falls back to the repository default
	EventTime   string `yaml:"event_time"`
	Description string `yaml:"description"`
}

// FileSystemModelRepository loads model definitions from *.yaml files in a directory.
// Each file holds exactly one model. Models are loaded once and cached in memory.
type FileSystemModelRepository struct {
	dir             string
	defaultLookback int
	models          map[string]Model
}

// NewFileSystemModelRepository eagerly loads every model in dir.
// Returns an error if any model file is malformed or invalid.
func NewFileSystemModelRepository(dir string, defaultLookback int) (*FileSystemModelRepository, error) {
	if defaultLookback < 0 {
		return nil, fmt.Errorf("default lookback: %w", ErrNegativeLookback)
	}
	repo := &FileSystemModelRepository{
		dir:             dir,
		defaultLookback: defaultLookback,
		models:          make(map[string]Model),
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *FileSystemModelRepository) load() error {
	info, err := os.Stat(r.dir)
	if os.IsNotExist(err) {
		return nil // no models directory: zero models configured
	}
	if err != nil {
		return fmt.Errorf("model dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("model path %q is not a directory", r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading model dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(r.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading model file %s: %w", path, err)
		}

		var raw rawModel
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing model file %s: %w", path, err)
		}
		if raw.Name == "" {
			continue // skip empty / comment-only files
		}

		g, err := ParseGranularity(raw.BatchSize)
		if err != nil {
			return fmt.Errorf("model %q: batch_size: %w", raw.Name, err)
		}

		lookback := r.defaultLookback
		if raw.Lookback != nil {
			lookback = *raw.Lookback
		}
		if lookback < 0 {
			return fmt.Errorf("model %q: %w: got %d", raw.Name, ErrNegativeLookback, lookback)
		}

		if _, exists := r.models[raw.Name]; exists {
			return fmt.Errorf("model %q: duplicate model name (check multiple YAML files)", raw.Name)
		}

		r.models[raw.Name] = Model{
			Name:        raw.Name,
			Granularity: g,
			Lookback:    lookback,
			EventTime:   raw.EventTime,
			Description: raw.Description,
			Fingerprint: fmt.Sprintf("%x", sha256.Sum256(data)),
		}
	}
	return nil
}

// Get returns the model with the given name.
func (r *FileSystemModelRepository) Get(name string) (Model, bool) {
	m, ok := r.models[name]
	return m, ok
}

// List returns all models sorted by name.
func (r *FileSystemModelRepository) List() []Model {
	models := make([]Model, 0, len(r.models))
	for _, m := range r.models {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models
}
