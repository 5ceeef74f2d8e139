// Package config loads Secando's settings from defaults, an optional YAML
// file, a .env file and SECANDO_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/secandoalei/secando/internal/llm"
)

// Config is the complete application configuration.
type Config struct {
	// DBPath is the SQLite file. Empty means the XDG data directory.
	DBPath string `yaml:"db_path"`

	LLM     llm.Config    `yaml:"llm"`
	Study   StudyConfig   `yaml:"study"`
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
}

// StudyConfig holds the sizes and limits of generated study material.
type StudyConfig struct {
	QuizQuestions    int `yaml:"quiz_questions" validate:"gte=1,lte=50"`
	MockQuestions    int `yaml:"mock_questions" validate:"gte=1,lte=50"`
	PlanTextLimit    int `yaml:"plan_text_limit" validate:"gte=1000"`
	MockContextLimit int `yaml:"mock_context_limit" validate:"gte=1000"`
	DefaultDays      int `yaml:"default_days" validate:"gte=1,ltefield=MaxDays"`
	MaxDays          int `yaml:"max_days" validate:"gte=1,lte=365"`
	// PassPercent is the score at which a mock exam counts as excellent.
	PassPercent int `yaml:"pass_percent" validate:"gte=1,lte=100"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	// File receives logs while the terminal UI owns stdout. Empty means
	// $XDG_STATE_HOME/secando/secando.log.
	File string `yaml:"file"`
}

// ExportConfig controls where exported documents are written.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New(validator.WithRequiredStructEnabled())
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM: llm.DefaultConfig(),
		Study: StudyConfig{
			QuizQuestions:    15,
			MockQuestions:    10,
			PlanTextLimit:    10000,
			MockContextLimit: 15000,
			DefaultDays:      15,
			MaxDays:          60,
			PassPercent:      70,
		},
		Logging: LoggingConfig{Level: "info"},
		Export:  ExportConfig{Dir: "."},
	}
}

// Load builds the configuration. path may be empty, in which case the
// default location is tried and silently skipped when absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		}
	}

	// Real environment wins over .env; a missing .env is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&cfg)
	llm.ApplyEnv(&cfg.LLM)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if p := os.Getenv("SECANDO_DB"); p != "" {
		cfg.DBPath = p
	}
	if l := os.Getenv("SECANDO_LOG_LEVEL"); l != "" {
		cfg.Logging.Level = l
	}
	if f := os.Getenv("SECANDO_LOG_FILE"); f != "" {
		cfg.Logging.File = f
	}
	if d := os.Getenv("SECANDO_EXPORT_DIR"); d != "" {
		cfg.Export.Dir = d
	}
	if n, err := strconv.Atoi(os.Getenv("SECANDO_QUIZ_QUESTIONS")); err == nil {
		cfg.Study.QuizQuestions = n
	}
	if n, err := strconv.Atoi(os.Getenv("SECANDO_MOCK_QUESTIONS")); err == nil {
		cfg.Study.MockQuestions = n
	}
}

// Validate checks struct constraints on the whole configuration.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", f.Namespace(), f.Tag(), f.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes cfg as YAML to path, creating parent directories. API keys
// are omitted so they stay in the environment.
func Save(path string, cfg Config) error {
	redacted := cfg
	redacted.LLM.Gemini.APIKey = ""
	redacted.LLM.Anthropic.APIKey = ""
	redacted.LLM.OpenAI.APIKey = ""
	redacted.LLM.OpenRouter.APIKey = ""

	data, err := yaml.Marshal(redacted)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultPath returns $XDG_CONFIG_HOME/secando/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "secando", "config.yaml"), nil
}

// DefaultLogPath returns $XDG_STATE_HOME/secando/secando.log.
func DefaultLogPath() (string, error) {
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		state = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(state, "secando", "secando.log"), nil
}
