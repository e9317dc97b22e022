package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	ExperimentsDir string `yaml:"experiments_dir"` // Directory holding experiment_<id>.json records
	VocabPath      string `yaml:"vocab_path"`      // HED vocabulary file, passed to the renderer as-is
	TemplatePath   string `yaml:"template_path,omitempty"`
	OllamaBaseURL  string `yaml:"ollama_base_url"`
	GraderModel    string `yaml:"grader_model"`
	SchemaName     string `yaml:"schema_name"`
	SchemaVersion  string `yaml:"schema_version"`
	ValidatorURL   string `yaml:"validator_url"`
	ScheduleDB     string `yaml:"schedule_db"`
	EnvFile        string `yaml:"env_file"`
	CORSOrigin     string `yaml:"cors_origin,omitempty"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	home := configHome()
	return &Config{
		ExperimentsDir: filepath.Join(home, "prompt_experiments"),
		VocabPath:      filepath.Join(home, "HED_vocab_reformatted.xml"),
		OllamaBaseURL:  "http://localhost:11434",
		GraderModel:    "gemini-1.5-flash",
		SchemaName:     "HED",
		SchemaVersion:  "8.3.0",
		ValidatorURL:   "http://localhost:8099",
		ScheduleDB:     filepath.Join(home, "hedprompt.db"),
		EnvFile:        filepath.Join(home, ".env"),
	}
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	return filepath.Join(configHome(), "config.yaml")
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func configHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hedprompt"
	}
	return filepath.Join(home, ".hedprompt")
}
