package internal

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds application settings
type Config struct {
	// User configurable settings
	Provider               string
	Style                  string
	GeminiModel            string
	GeminiBaseURL          string
	GroqModel              string
	GroqBaseURL            string
	Temperature            float64
	MaxTokens              int64
	CaptionLanguages       []string
	ClearHistoryOnNewVideo bool
	GenerationTimeout      time.Duration
	Prompt                 string
	ExportDir              string
	Verbose                bool
	Quiet                  bool
	MCPLogEnabled          bool

	// Credentials from the environment or config file
	GoogleAPIKey string
	GroqAPIKey   string

	// Fixed XDG paths (not configurable)
	ConfigDir string
	CacheDir  string
	TempDir   string
}

//go:embed config.toml prompt.txt
var defaultFS embed.FS

// Credential returns the configured default credential for a provider
func (c *Config) Credential(p Provider) string {
	switch p {
	case ProviderGroq:
		return c.GroqAPIKey
	default:
		return c.GoogleAPIKey
	}
}

// GeneratorConfig returns the call settings for a provider
func (c *Config) GeneratorConfig(p Provider) GeneratorConfig {
	switch p {
	case ProviderGroq:
		return GeneratorConfig{
			Model:       c.GroqModel,
			BaseURL:     c.GroqBaseURL,
			Temperature: c.Temperature,
			MaxTokens:   c.MaxTokens,
			Timeout:     c.GenerationTimeout,
		}
	default:
		return GeneratorConfig{
			Model:   c.GeminiModel,
			BaseURL: c.GeminiBaseURL,
			Timeout: c.GenerationTimeout,
		}
	}
}

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	fmt.Fprintf(os.Stderr, "Created default %s at %s\n", description, filePath)
	return nil
}

// EnsureDefaultConfig checks if a config file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// setDefaults registers the default value of every configurable setting
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderGemini.String())
	v.SetDefault("style", StyleDetailed)
	v.SetDefault("gemini_model", "gemini-2.0-flash-001")
	v.SetDefault("gemini_base_url", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("groq_model", "llama3-70b-8192")
	v.SetDefault("groq_base_url", "https://api.groq.com/openai/v1/")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("max_tokens", 4000)
	v.SetDefault("caption_languages", []string{"en"})
	v.SetDefault("clear_history_on_new_video", false)
	v.SetDefault("generation_timeout", time.Duration(0))
	v.SetDefault("prompt", "")
	v.SetDefault("export_dir", ".")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("mcp_log", false)
}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	configDir := filepath.Join(xdg.ConfigHome, "ytnotes")
	cacheDir := filepath.Join(xdg.CacheHome, "ytnotes")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("YTNOTES")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Provider credentials use the providers' conventional variable names
	_ = v.BindEnv("google_api_key", ProviderGemini.EnvKey())
	_ = v.BindEnv("groq_api_key", ProviderGroq.EnvKey())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := configFromViper(v)
	config.ConfigDir = configDir
	config.CacheDir = cacheDir
	config.TempDir = filepath.Join(cacheDir, "captions")

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}

// configFromViper creates the config struct from viper
func configFromViper(v *viper.Viper) *Config {
	return &Config{
		Provider:               v.GetString("provider"),
		Style:                  v.GetString("style"),
		GeminiModel:            v.GetString("gemini_model"),
		GeminiBaseURL:          v.GetString("gemini_base_url"),
		GroqModel:              v.GetString("groq_model"),
		GroqBaseURL:            v.GetString("groq_base_url"),
		Temperature:            v.GetFloat64("temperature"),
		MaxTokens:              v.GetInt64("max_tokens"),
		CaptionLanguages:       v.GetStringSlice("caption_languages"),
		ClearHistoryOnNewVideo: v.GetBool("clear_history_on_new_video"),
		GenerationTimeout:      v.GetDuration("generation_timeout"),
		Prompt:                 v.GetString("prompt"),
		ExportDir:              v.GetString("export_dir"),
		Verbose:                v.GetBool("verbose"),
		Quiet:                  v.GetBool("quiet"),
		MCPLogEnabled:          v.GetBool("mcp_log"),
		GoogleAPIKey:           v.GetString("google_api_key"),
		GroqAPIKey:             v.GetString("groq_api_key"),
	}
}

// DefaultConfig returns the built-in defaults without reading files or the environment
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	config := configFromViper(v)
	config.TempDir = filepath.Join(os.TempDir(), "ytnotes-captions")
	return config
}
