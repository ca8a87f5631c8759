package corrector

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigFile = "config.json"

// LexiconConfig controls how the word-frequency lexicon is built and queried.
type LexiconConfig struct {
	// BoostThreshold is the minimum corpus occurrence count for a word to
	// receive the domain boost.
	BoostThreshold int `json:"boostThreshold"`
	// BoostFactor multiplies the static frequency of domain-frequent words.
	BoostFactor float64 `json:"boostFactor"`
	// MaxEditDistance bounds candidate lookup for spelling correction.
	MaxEditDistance int `json:"maxEditDistance"`
}

// TaggerConfig wraps the file locations of the ONNX entity tagger.
type TaggerConfig struct {
	OrtDLL        string `json:"ortDll"`
	ModelPath     string `json:"modelPath"`
	TokenizerPath string `json:"tokenizerPath"`
	LabelsPath    string `json:"labelsPath"`
	MaxSeqLen     int    `json:"maxSeqLen"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	Lexicon LexiconConfig `json:"lexicon"`
	// EntityThreshold is the minimum tagger confidence for an entity verdict.
	EntityThreshold float64 `json:"entityThreshold"`
	// Workers caps concurrent row processing; 0 means one worker per CPU.
	Workers int          `json:"workers"`
	Tagger  TaggerConfig `json:"tagger"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Lexicon.BoostThreshold <= 0 {
		c.Lexicon.BoostThreshold = 5
	}
	if c.Lexicon.BoostFactor <= 1 {
		c.Lexicon.BoostFactor = 1000
	}
	if c.Lexicon.MaxEditDistance <= 0 {
		c.Lexicon.MaxEditDistance = 2
	}
	if c.EntityThreshold <= 0 {
		c.EntityThreshold = 0.5
	}
	if c.Tagger.MaxSeqLen <= 0 {
		c.Tagger.MaxSeqLen = 256
	}
}

// LoadConfig loads configuration from the given path or the default config.json.
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
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
