// Package config loads the formscribe YAML configuration.
//
//	backend: gemini            # gemini | documentai
//	gemini:
//	  model: gemini-2.0-flash
//	  api_key_env: GEMINI_API_KEY
//	documentai:
//	  project_id: "your-gcp-project-id"
//	  location: "us"
//	  processor_id: "your-processor-id"
//	retry: {max_attempts: 3, initial_delay: 1s, max_delay: 10s}
//	server: {addr: ":8080"}
//	watch: {dir: ./inbox, out_dir: ./outbox}
//	history: {path: ./formscribe.db}
//	log: {level: info, development: false}
//
// Secrets stay out of the file: the Gemini API key is read from the environment variable named
// by api_key_env, and a .env file in the working directory is loaded first.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gardar/formscribe/pkg/vision"
)

// Backends.
const (
	BackendGemini     = "gemini"
	BackendDocumentAI = "documentai"
)

// ErrMissingAPIKey is returned by Validate when the Gemini API key variable is unset.
var ErrMissingAPIKey = errors.New("missing Gemini API key")

// Config is the full configuration.
type Config struct {
	Backend    string             `yaml:"backend"`
	Gemini     GeminiConfig       `yaml:"gemini"`
	DocumentAI DocumentAIConfig   `yaml:"documentai"`
	Retry      vision.RetryPolicy `yaml:"retry"`
	Server     ServerConfig       `yaml:"server"`
	Watch      WatchConfig        `yaml:"watch"`
	History    HistoryConfig      `yaml:"history"`
	Log        LogConfig          `yaml:"log"`
}

type GeminiConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	Vertex    bool   `yaml:"vertex"`
	Project   string `yaml:"project"`
	Location  string `yaml:"location"`
}

type DocumentAIConfig struct {
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	ProcessorID     string `yaml:"processor_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// WatchConfig is the folder intake. An empty OutDir writes results next to the images.
type WatchConfig struct {
	Dir    string `yaml:"dir"`
	OutDir string `yaml:"out_dir"`
}

// HistoryConfig locates the SQLite run log. An empty Path disables it.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used for anything the file leaves out.
func Default() Config {
	return Config{
		Backend: BackendGemini,
		Gemini: GeminiConfig{
			Model:     vision.DefaultGeminiModel,
			APIKeyEnv: "GEMINI_API_KEY",
		},
		DocumentAI: DocumentAIConfig{Location: "us"},
		Retry:      vision.DefaultRetryPolicy(),
		Server:     ServerConfig{Addr: ":8080"},
		Log:        LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over Default. An empty path returns the defaults. A .env
// file in the working directory, if present, is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// APIKey returns the Gemini API key from the environment.
func (c *Config) APIKey() string {
	if c.Gemini.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Gemini.APIKeyEnv)
}

// Validate checks the settings needed to reach the configured backend.
func (c *Config) Validate() error {
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}

	switch c.Backend {
	case BackendGemini:
		if c.Gemini.Vertex {
			if c.Gemini.Project == "" || c.Gemini.Location == "" {
				return errors.New("gemini.project and gemini.location are required with vertex")
			}
			return nil
		}
		if c.APIKey() == "" {
			return fmt.Errorf("%w: set %s", ErrMissingAPIKey, c.Gemini.APIKeyEnv)
		}
	case BackendDocumentAI:
		if c.DocumentAI.ProjectID == "" || c.DocumentAI.Location == "" || c.DocumentAI.ProcessorID == "" {
			return errors.New("documentai.project_id, documentai.location and documentai.processor_id are required")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

// VisionGemini converts the Gemini settings for vision.NewGemini.
func (c *Config) VisionGemini() vision.GeminiConfig {
	return vision.GeminiConfig{
		Model:    c.Gemini.Model,
		APIKey:   c.APIKey(),
		Vertex:   c.Gemini.Vertex,
		Project:  c.Gemini.Project,
		Location: c.Gemini.Location,
	}
}

// VisionDocumentAI converts the Document AI settings for vision.NewDocumentAI.
func (c *Config) VisionDocumentAI() vision.DocumentAIConfig {
	return vision.DocumentAIConfig{
		ProjectID:       c.DocumentAI.ProjectID,
		Location:        c.DocumentAI.Location,
		ProcessorID:     c.DocumentAI.ProcessorID,
		CredentialsFile: c.DocumentAI.CredentialsFile,
	}
}
