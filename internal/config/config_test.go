package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("HOME", dir)
	for _, k := range []string{
		"SECANDO_DB", "SECANDO_LOG_LEVEL", "SECANDO_LOG_FILE", "SECANDO_EXPORT_DIR",
		"SECANDO_QUIZ_QUESTIONS", "SECANDO_MOCK_QUESTIONS", "SECANDO_LLM_PROVIDER",
		"SECANDO_GEMINI_API_KEY",
	} {
		// Setenv registers the restore; the variable itself must be absent
		// so .env files can fill it.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Chdir(dir)
	return dir
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 15, cfg.Study.QuizQuestions)
	assert.Equal(t, 10, cfg.Study.MockQuestions)
	assert.Equal(t, 10000, cfg.Study.PlanTextLimit)
	assert.Equal(t, 15000, cfg.Study.MockContextLimit)
	assert.Equal(t, 15, cfg.Study.DefaultDays)
	assert.Equal(t, 60, cfg.Study.MaxDays)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
}

func TestLoadWithoutFile(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Study, cfg.Study)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "secando.yaml")
	yml := `
db_path: /tmp/plans.db
llm:
  provider: anthropic
  timeout: 45s
  retry:
    max_attempts: 2
    multiplier: 1.5
study:
  quiz_questions: 5
  mock_questions: 10
  plan_text_limit: 10000
  mock_context_limit: 15000
  default_days: 20
  max_days: 60
  pass_percent: 70
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("SECANDO_MOCK_QUESTIONS", "12")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/plans.db", cfg.DBPath)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 5, cfg.Study.QuizQuestions)
	assert.Equal(t, 12, cfg.Study.MockQuestions)
	assert.Equal(t, 20, cfg.Study.DefaultDays)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset nested values keep their defaults.
	assert.Equal(t, "claude-haiku", cfg.LLM.Anthropic.Model)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("SECANDO_LOG_LEVEL=warn\nSECANDO_EXPORT_DIR=/tmp/exports\n"), 0o644))
	t.Setenv("SECANDO_LOG_LEVEL", "error")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "/tmp/exports", cfg.Export.Dir)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"default days above max", func(c *Config) { c.Study.DefaultDays = 61 }},
		{"zero quiz questions", func(c *Config) { c.Study.QuizQuestions = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "watson" }},
		{"zero retry attempts", func(c *Config) { c.LLM.Retry.MaxAttempts = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveOmitsKeys(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.LLM.Gemini.APIKey = "secret"
	path := filepath.Join(dir, "nested", "config.yaml")

	require.NoError(t, Save(path, cfg))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), "quiz_questions: 15")
}
