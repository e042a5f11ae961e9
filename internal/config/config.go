package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default configuration file location.
const ConfigPath = "config.yaml"

const (
	defaultPort         = "8080"
	defaultDatabasePath = "chat_history.db"
	defaultOpenAIBase   = "https://api.openai.com/v1"
	defaultModel        = "gpt-4.1-mini"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port          string `yaml:"port"`
	LogLevel      string `yaml:"logLevel"`
	DatabasePath  string `yaml:"databasePath"`
	OpenAIBaseURL string `yaml:"openaiBaseURL"`
	OpenAIAPIKey  string `yaml:"openaiAPIKey"`
	Model         string `yaml:"model"`
}

// Load reads config from path (defaults to config.yaml). A missing file is
// not an error: the app boots on defaults so that only environment variables
// are needed. The completion API key is deliberately not validated here —
// its absence surfaces as an auth failure on the first completion call.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	// Override with environment variables.
	if v := os.Getenv("SMSCHAT_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("SMSCHAT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SMSCHAT_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Model = v
	}
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(cfg *FileConfig) {
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaultDatabasePath
	}
	if cfg.OpenAIBaseURL == "" {
		cfg.OpenAIBaseURL = defaultOpenAIBase
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml or SMSCHAT_PORT)")
	}
	if cfg.DatabasePath == "" {
		return errors.New("config: databasePath is required (set in config.yaml or SMSCHAT_DB_PATH)")
	}
	if cfg.OpenAIBaseURL == "" {
		return errors.New("config: openaiBaseURL is required (set in config.yaml or OPENAI_BASE_URL)")
	}
	if cfg.Model == "" {
		return errors.New("config: model is required (set in config.yaml or OPENAI_MODEL)")
	}
	return nil
}
