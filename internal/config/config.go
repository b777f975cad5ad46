package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"document-tldr/internal/models"
)

const (
	configFileName = "config.yaml"
	homeEnv        = "TLDR_HOME"
	keyEnv         = "TLDR_API_KEY"
)

var ErrUnknownField = errors.New("unknown config field")

type Config struct {
	Key      string    `yaml:"key"`
	Endpoint string    `yaml:"endpoint"`
	Prompt   string    `yaml:"prompt"`
	Provider string    `yaml:"provider"`
	LLM      LLMConfig `yaml:"llm"`
}

// LLMConfig is used when Provider is "openai".
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`
	Model   string `yaml:"model"`
}

// Store persists a Config between runs.
type Store interface {
	Load() (*Config, error)
	Save(cfg *Config) error
}

func Default() *Config {
	return &Config{
		Key:      models.DefaultKey,
		Endpoint: models.DefaultEndpoint,
		Prompt:   models.DefaultPrompt,
		Provider: models.ProviderGemini,
		LLM: LLMConfig{
			Model: models.DefaultOpenAIModel,
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// DefaultPath is $TLDR_HOME/config.yaml, falling back to the user config dir.
func DefaultPath() (string, error) {
	if home := os.Getenv(homeEnv); home != "" {
		return filepath.Join(home, configFileName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tldr", configFileName), nil
}

// FileStore is a Store backed by a single YAML file.
type FileStore struct {
	Path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}
	return &FileStore{Path: path}, nil
}

// Load applies TLDR_API_KEY over the stored key. The override is never saved.
func (s *FileStore) Load() (*Config, error) {
	cfg, err := LoadConfig(s.Path)
	if err != nil {
		return nil, err
	}
	if key := os.Getenv(keyEnv); key != "" {
		cfg.Key = key
	}
	return cfg, nil
}

func (s *FileStore) Save(cfg *Config) error {
	return SaveConfig(s.Path, cfg)
}

// Fields lists the user-editable settings in form order.
var Fields = []string{"key", "endpoint", "prompt", "provider", "llm.base_url", "llm.key", "llm.model"}

func (c *Config) Get(field string) (string, error) {
	p, err := c.field(field)
	if err != nil {
		return "", err
	}
	return *p, nil
}

func (c *Config) Set(field, value string) error {
	p, err := c.field(field)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

func (c *Config) field(name string) (*string, error) {
	switch strings.ToLower(name) {
	case "key":
		return &c.Key, nil
	case "endpoint":
		return &c.Endpoint, nil
	case "prompt":
		return &c.Prompt, nil
	case "provider":
		return &c.Provider, nil
	case "llm.base_url":
		return &c.LLM.BaseURL, nil
	case "llm.key":
		return &c.LLM.Key, nil
	case "llm.model":
		return &c.LLM.Model, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
}
