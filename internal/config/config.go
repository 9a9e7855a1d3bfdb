package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	OCR     OCRConfig
	LLM     LLMConfig
	Batch   BatchConfig
	Archive ArchiveConfig
	Email   EmailConfig
	CORS    CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	DataDir      string        `mapstructure:"data_dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OCRConfig holds LLMWhisperer OCR service settings.
type OCRConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Mode         string        `mapstructure:"mode"`
	OutputMode   string        `mapstructure:"output_mode"`
	WaitTimeout  time.Duration `mapstructure:"wait_timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// RequestTimeout bounds each HTTP call; zero means follow WaitTimeout.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LLMConfig holds chat-completion provider settings.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	PromptFile  string        `mapstructure:"prompt_file"`
}

// BatchConfig holds batch processing settings.
type BatchConfig struct {
	MaxWorkers    int   `mapstructure:"max_workers"`
	ChunkSize     int   `mapstructure:"chunk_size"`
	MaxFiles      int   `mapstructure:"max_files"`
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// ArchiveConfig holds optional S3 workbook archive settings.
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// EmailConfig holds batch notification email settings.
type EmailConfig struct {
	Provider      string `mapstructure:"provider"`
	Region        string `mapstructure:"region"`
	FromAddress   string `mapstructure:"from_address"`
	FromName      string `mapstructure:"from_name"`
	NotifyAddress string `mapstructure:"notify_address"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the INVOX_ prefix,
// optionally merged over a YAML config file named by INVOX_CONFIG_FILE.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.data_dir", "data")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// OCR defaults
	v.SetDefault("ocr.base_url", "https://llmwhisperer-api.us-central.unstract.com/api/v2")
	v.SetDefault("ocr.api_key", "")
	v.SetDefault("ocr.mode", "table")
	v.SetDefault("ocr.output_mode", "layout_preserving")
	v.SetDefault("ocr.wait_timeout", "120s")
	v.SetDefault("ocr.poll_interval", "2s")
	v.SetDefault("ocr.request_timeout", "0s")

	// LLM defaults
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.timeout", "120s")
	v.SetDefault("llm.prompt_file", "")

	// Batch defaults
	v.SetDefault("batch.max_workers", 3)
	v.SetDefault("batch.chunk_size", 5)
	v.SetDefault("batch.max_files", 25)
	v.SetDefault("batch.max_file_size_mb", 25)

	// Archive defaults (disabled unless configured)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.bucket", "invox-workbooks")
	v.SetDefault("archive.endpoint", "")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@invox.local")
	v.SetDefault("email.from_name", "invox")
	v.SetDefault("email.notify_address", "")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":            "INVOX_SERVER_PORT",
		"server.read_timeout":    "INVOX_SERVER_READ_TIMEOUT",
		"server.write_timeout":   "INVOX_SERVER_WRITE_TIMEOUT",
		"server.environment":     "INVOX_SERVER_ENVIRONMENT",
		"server.data_dir":        "INVOX_SERVER_DATA_DIR",
		"log.level":              "INVOX_LOG_LEVEL",
		"log.format":             "INVOX_LOG_FORMAT",
		"ocr.base_url":           "INVOX_OCR_BASE_URL",
		"ocr.api_key":            "INVOX_OCR_API_KEY",
		"ocr.mode":               "INVOX_OCR_MODE",
		"ocr.output_mode":        "INVOX_OCR_OUTPUT_MODE",
		"ocr.wait_timeout":       "INVOX_OCR_WAIT_TIMEOUT",
		"ocr.poll_interval":      "INVOX_OCR_POLL_INTERVAL",
		"ocr.request_timeout":    "INVOX_OCR_REQUEST_TIMEOUT",
		"llm.provider":           "INVOX_LLM_PROVIDER",
		"llm.api_key":            "INVOX_LLM_API_KEY",
		"llm.model":              "INVOX_LLM_MODEL",
		"llm.temperature":        "INVOX_LLM_TEMPERATURE",
		"llm.timeout":            "INVOX_LLM_TIMEOUT",
		"llm.prompt_file":        "INVOX_LLM_PROMPT_FILE",
		"batch.max_workers":      "INVOX_BATCH_MAX_WORKERS",
		"batch.chunk_size":       "INVOX_BATCH_CHUNK_SIZE",
		"batch.max_files":        "INVOX_BATCH_MAX_FILES",
		"batch.max_file_size_mb": "INVOX_BATCH_MAX_FILE_SIZE_MB",
		"archive.enabled":        "INVOX_ARCHIVE_ENABLED",
		"archive.region":         "INVOX_ARCHIVE_REGION",
		"archive.bucket":         "INVOX_ARCHIVE_BUCKET",
		"archive.endpoint":       "INVOX_ARCHIVE_ENDPOINT",
		"archive.access_key":     "INVOX_ARCHIVE_ACCESS_KEY",
		"archive.secret_key":     "INVOX_ARCHIVE_SECRET_KEY",
		"email.provider":         "INVOX_EMAIL_PROVIDER",
		"email.region":           "INVOX_EMAIL_REGION",
		"email.from_address":     "INVOX_EMAIL_FROM_ADDRESS",
		"email.from_name":        "INVOX_EMAIL_FROM_NAME",
		"email.notify_address":   "INVOX_EMAIL_NOTIFY_ADDRESS",
		"cors.allowed_origins":   "INVOX_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	// Optional config file for settings that are awkward as env vars,
	// such as a long extraction prompt path.
	if cfgFile := os.Getenv("INVOX_CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVOX_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOX_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		DataDir:      v.GetString("server.data_dir"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Bare vendor env vars are honored when the prefixed key is unset, so a
	// host already configured for the vendor CLIs needs nothing extra.
	ocrKey := v.GetString("ocr.api_key")
	if ocrKey == "" {
		ocrKey = os.Getenv("LLMWHISPERER_API_KEY")
	}
	cfg.OCR = OCRConfig{
		BaseURL:        strings.TrimRight(v.GetString("ocr.base_url"), "/"),
		APIKey:         ocrKey,
		Mode:           v.GetString("ocr.mode"),
		OutputMode:     v.GetString("ocr.output_mode"),
		WaitTimeout:    v.GetDuration("ocr.wait_timeout"),
		PollInterval:   v.GetDuration("ocr.poll_interval"),
		RequestTimeout: v.GetDuration("ocr.request_timeout"),
	}

	llmKey := v.GetString("llm.api_key")
	if llmKey == "" {
		llmKey = os.Getenv("OPENAI_API_KEY")
	}
	llmModel := v.GetString("llm.model")
	if m := os.Getenv("OPENAI_MODEL"); m != "" && os.Getenv("INVOX_LLM_MODEL") == "" {
		llmModel = m
	}
	cfg.LLM = LLMConfig{
		Provider:    v.GetString("llm.provider"),
		APIKey:      llmKey,
		Model:       llmModel,
		Temperature: v.GetFloat64("llm.temperature"),
		Timeout:     v.GetDuration("llm.timeout"),
		PromptFile:  v.GetString("llm.prompt_file"),
	}

	cfg.Batch = BatchConfig{
		MaxWorkers:    v.GetInt("batch.max_workers"),
		ChunkSize:     v.GetInt("batch.chunk_size"),
		MaxFiles:      v.GetInt("batch.max_files"),
		MaxFileSizeMB: v.GetInt64("batch.max_file_size_mb"),
	}

	cfg.Archive = ArchiveConfig{
		Enabled:   v.GetBool("archive.enabled"),
		Region:    v.GetString("archive.region"),
		Bucket:    v.GetString("archive.bucket"),
		Endpoint:  v.GetString("archive.endpoint"),
		AccessKey: v.GetString("archive.access_key"),
		SecretKey: v.GetString("archive.secret_key"),
	}

	cfg.Email = EmailConfig{
		Provider:      v.GetString("email.provider"),
		Region:        v.GetString("email.region"),
		FromAddress:   v.GetString("email.from_address"),
		FromName:      v.GetString("email.from_name"),
		NotifyAddress: v.GetString("email.notify_address"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}

// Validate checks that credentials required at startup are present.
// A process without them cannot do anything useful, so this is fatal.
func (c *Config) Validate() error {
	var errs []error
	if c.OCR.APIKey == "" {
		errs = append(errs, errors.New("OCR API key not configured: set INVOX_OCR_API_KEY or LLMWHISPERER_API_KEY"))
	}
	if c.LLM.APIKey == "" {
		errs = append(errs, errors.New("LLM API key not configured: set INVOX_LLM_API_KEY or OPENAI_API_KEY"))
	}
	if c.Batch.MaxWorkers <= 0 {
		errs = append(errs, fmt.Errorf("batch.max_workers must be positive, got %d", c.Batch.MaxWorkers))
	}
	if c.Batch.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("batch.chunk_size must be positive, got %d", c.Batch.ChunkSize))
	}
	return errors.Join(errs...)
}
