package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thywilljoshua/studynotes/internal/ai"
	"github.com/thywilljoshua/studynotes/internal/extract"
	"github.com/thywilljoshua/studynotes/internal/study"
)

// EnvPrefix is prepended to every environment override, e.g. STUDYNOTES_LLM_TIMEOUT.
const EnvPrefix = "STUDYNOTES"

type Config struct {
	LLM       LLMConfig       `mapstructure:"llm"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

// LLMConfig selects the models used per artifact kind.
type LLMConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	SummaryModel string        `mapstructure:"summary_model"`
	QuizModel    string        `mapstructure:"quiz_model"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type ExtractorConfig struct {
	Engine       string        `mapstructure:"engine"`
	PreviewChars int           `mapstructure:"preview_chars"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

func (c ExtractorConfig) Validate() error {
	if _, err := extract.New(c.Engine); err != nil {
		return fmt.Errorf("extractor.engine: %w", err)
	}
	if c.PreviewChars <= 0 {
		return fmt.Errorf("extractor.preview_chars must be greater than zero")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("extractor.fetch_timeout must be greater than zero")
	}
	return nil
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	MaxQuestions   int    `mapstructure:"max_questions"`
}

func (c ServerConfig) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("server.address is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be greater than zero")
	}
	if c.MaxQuestions <= 0 {
		return fmt.Errorf("server.max_questions must be greater than zero")
	}
	return nil
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func (c LogConfig) Validate() error {
	switch c.Format {
	case "console", "json":
		return nil
	}
	return fmt.Errorf("log.format must be console or json, got %q", c.Format)
}

// Validate checks every section. A missing API key is not an error here; the
// gateway reports it on first use.
func (c *Config) Validate() error {
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative")
	}
	if err := c.Extractor.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// LLMOptions returns the gateway settings used for artifacts of kind.
func (c *Config) LLMOptions(kind study.Kind) ai.Options {
	model := c.LLM.QuizModel
	if kind == study.KindSummary {
		model = c.LLM.SummaryModel
	}
	return ai.Options{APIKey: c.LLM.APIKey, Model: model, Timeout: c.LLM.Timeout}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.summary_model", ai.DefaultModel)
	v.SetDefault("llm.quiz_model", ai.DefaultModel)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("extractor.engine", extract.EnginePlain)
	v.SetDefault("extractor.preview_chars", extract.DefaultPreviewChars)
	v.SetDefault("extractor.fetch_timeout", extract.DefaultFetchTimeout)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.max_upload_bytes", int64(20<<20))
	v.SetDefault("server.max_questions", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads defaults, then the config file, then STUDYNOTES_* environment
// overrides. With an empty path a studynotes.{yaml,json,toml} in the working
// directory or ./config is used if present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("studynotes")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
