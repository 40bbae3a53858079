package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName names the per-user configuration directory.
const AppName = "snapnote"

// OCR engine names.
const (
	EngineVision    = "vision"
	EngineTesseract = "tesseract"
)

// DefaultProvider is the OpenAI-compatible endpoint used when none is named.
const (
	DefaultProvider = "gemini"
	GeminiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

// Config holds the snapnote service configuration.
type Config struct {
	HTTP       HTTPConfig                `yaml:"http"`
	CORS       CORSConfig                `yaml:"cors"`
	Providers  map[string]ProviderConfig `yaml:"providers"`
	OCR        OCRConfig                 `yaml:"ocr"`
	Summarizer SummarizerConfig          `yaml:"summarizer"`
	Notion     NotionConfig              `yaml:"notion"`
	Logging    LoggingConfig             `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
	MaxUploadMB     int    `yaml:"max_upload_mb"`
}

// CORSConfig holds the cross-origin policy.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials *bool    `yaml:"allow_credentials"`
}

// ProviderConfig holds an OpenAI-compatible API endpoint.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// OCRConfig holds text extraction settings.
type OCRConfig struct {
	Engine       string   `yaml:"engine"`   // vision, tesseract (default: vision)
	Provider     string   `yaml:"provider"` // key in providers, vision engine only
	Model        string   `yaml:"model"`
	Prompt       string   `yaml:"prompt"`
	Languages    []string `yaml:"languages"`     // tesseract only
	MaxDimension int      `yaml:"max_dimension"` // 0 = send images untouched
}

// SummarizerConfig holds summarization settings.
type SummarizerConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Prompt      string  `yaml:"prompt"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// NotionConfig holds page store settings. Credentials are not part of the
// file: they are looked up by name on every use.
type NotionConfig struct {
	BaseURL         string `yaml:"base_url"`
	Version         string `yaml:"version"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	EnvFile         string `yaml:"env_file"`
	APIKeyEnv       string `yaml:"api_key_env"`
	DatabaseIDEnv   string `yaml:"database_id_env"`
	TitleProperty   string `yaml:"title_property"`
	SummaryProperty string `yaml:"summary_property"`
	TagsProperty    string `yaml:"tags_property"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Host == "" {
		c.HTTP.Host = "0.0.0.0"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	// the whole pipeline runs inside one request
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxUploadMB <= 0 {
		c.HTTP.MaxUploadMB = 10
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"*"}
	}
	if c.CORS.AllowCredentials == nil {
		allow := true
		c.CORS.AllowCredentials = &allow
	}

	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	if _, ok := c.Providers[DefaultProvider]; !ok {
		c.Providers[DefaultProvider] = ProviderConfig{BaseURL: GeminiBaseURL}
	}

	if c.OCR.Engine == "" {
		c.OCR.Engine = EngineVision
	}
	if c.OCR.Provider == "" {
		c.OCR.Provider = DefaultProvider
	}
	if c.OCR.Model == "" {
		c.OCR.Model = "gemini-2.0-flash"
	}
	if len(c.OCR.Languages) == 0 {
		c.OCR.Languages = []string{"eng"}
	}
	if c.OCR.MaxDimension < 0 {
		c.OCR.MaxDimension = 0
	}

	if c.Summarizer.Provider == "" {
		c.Summarizer.Provider = DefaultProvider
	}
	if c.Summarizer.Model == "" {
		c.Summarizer.Model = "gemini-2.0-flash"
	}
	if c.Summarizer.MaxTokens <= 0 {
		c.Summarizer.MaxTokens = 1024
	}

	if c.Notion.BaseURL == "" {
		c.Notion.BaseURL = "https://api.notion.com/v1"
	}
	if c.Notion.Version == "" {
		c.Notion.Version = "2022-06-28"
	}
	if c.Notion.TimeoutSec <= 0 {
		c.Notion.TimeoutSec = 30
	}
	if c.Notion.EnvFile == "" {
		c.Notion.EnvFile = ".env"
	}
	if c.Notion.APIKeyEnv == "" {
		c.Notion.APIKeyEnv = "NOTION_API_KEY"
	}
	if c.Notion.DatabaseIDEnv == "" {
		c.Notion.DatabaseIDEnv = "NOTION_DB_ID"
	}
	if c.Notion.TitleProperty == "" {
		c.Notion.TitleProperty = "Title"
	}
	if c.Notion.SummaryProperty == "" {
		c.Notion.SummaryProperty = "Summary"
	}
	if c.Notion.TagsProperty == "" {
		c.Notion.TagsProperty = "Tags"
	}
}

// Validate checks the configuration structure. Secrets are not checked here:
// a missing key surfaces when the adapter that needs it is invoked.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.OCR.Engine {
	case EngineVision:
		if _, ok := c.Providers[c.OCR.Provider]; !ok {
			return fmt.Errorf("ocr.provider %q is not defined in providers", c.OCR.Provider)
		}
	case EngineTesseract:
		// local engine, no provider
	default:
		return fmt.Errorf("ocr.engine must be %q or %q, got %q", EngineVision, EngineTesseract, c.OCR.Engine)
	}

	if _, ok := c.Providers[c.Summarizer.Provider]; !ok {
		return fmt.Errorf("summarizer.provider %q is not defined in providers", c.Summarizer.Provider)
	}
	if c.Summarizer.Temperature < 0 || c.Summarizer.Temperature > 2 {
		return fmt.Errorf("summarizer.temperature must be between 0 and 2, got %v", c.Summarizer.Temperature)
	}
	return nil
}

// Addr returns the listen address.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// MaxUploadBytes returns the upload limit in bytes.
func (h HTTPConfig) MaxUploadBytes() int64 {
	return int64(h.MaxUploadMB) * 1024 * 1024
}

// XDGConfigDir returns the per-user configuration directory,
// e.g. ~/.config/snapnote on Linux.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Check the XDG config directory
	if path := filepath.Join(XDGConfigDir(), filename); fileExists(path) {
		return path
	}

	// 4. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
