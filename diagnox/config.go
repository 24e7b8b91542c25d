package diagnox

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultConfigFile = "config.json"

// ModelConfig describes the ONNX classifier artifact.
type ModelConfig struct {
	OrtLib      string `json:"ortLib"`
	Path        string `json:"path"`
	InputName   string `json:"inputName"`
	OutputName  string `json:"outputName"`
	ClassesPath string `json:"classesPath"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	TrainingPath       string      `json:"trainingPath"`
	SuggestionsPath    string      `json:"suggestionsPath"`
	LabelColumn        string      `json:"labelColumn"`
	DropColumns        []string    `json:"dropColumns"`
	DiseaseColumn      string      `json:"diseaseColumn"`
	SuggestionColumn   string      `json:"suggestionColumn"`
	CatalogFingerprint string      `json:"catalogFingerprint,omitempty"`
	Mode               Mode        `json:"mode"`
	TopK               int         `json:"topK"`
	Model              ModelConfig `json:"model"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	out := c
	out.DropColumns = cloneStrings(c.DropColumns)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.TrainingPath == "" {
		c.TrainingPath = "Training.csv"
	}
	if c.SuggestionsPath == "" {
		c.SuggestionsPath = "medications.csv"
	}
	if c.LabelColumn == "" {
		c.LabelColumn = "prognosis"
	}
	if c.Mode == "" {
		c.Mode = ModeRanked
	}
	if c.TopK <= 0 {
		c.TopK = 3
	}
	if c.Model.Path == "" {
		c.Model.Path = "disease_predictor.onnx"
	}
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeSimple, ModeRanked:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("topK must be positive, got %d", c.TopK)
	}
	return nil
}

// ApplyEnv overrides file settings with DIAGNOX_* variables from lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("DIAGNOX_TRAINING_PATH", &c.TrainingPath)
	str("DIAGNOX_SUGGESTIONS_PATH", &c.SuggestionsPath)
	str("DIAGNOX_MODEL_PATH", &c.Model.Path)
	str("DIAGNOX_CLASSES_PATH", &c.Model.ClassesPath)
	str("DIAGNOX_ORT_LIB", &c.Model.OrtLib)
	if v, ok := lookup("DIAGNOX_MODE"); ok && strings.TrimSpace(v) != "" {
		c.Mode = Mode(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup("DIAGNOX_TOP_K"); ok && strings.TrimSpace(v) != "" {
		k, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("DIAGNOX_TOP_K: %w", err)
		}
		if k <= 0 {
			return fmt.Errorf("DIAGNOX_TOP_K must be positive, got %d", k)
		}
		c.TopK = k
	}
	return nil
}

// LoadConfig loads configuration from the given path or the default config.json.
// A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// resolvePaths makes artifact paths relative to the config file directory.
func (c *Config) resolvePaths(dir string) {
	if dir == "" || dir == "." {
		return
	}
	for _, p := range []*string{&c.TrainingPath, &c.SuggestionsPath, &c.Model.Path, &c.Model.ClassesPath} {
		if *p == "" || filepath.IsAbs(*p) {
			continue
		}
		*p = filepath.Join(dir, *p)
	}
}
