package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/account"
	"github.com/secandoalei/secando/internal/config"
	"github.com/secandoalei/secando/internal/llm"
	"github.com/secandoalei/secando/internal/logging"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/store"
)

// errNotLoggedIn is returned by commands that act on the user's plans.
var errNotLoggedIn = errors.New("nenhuma sessão ativa: use `secando account login`")

type envOptions struct {
	// ai builds the LLM provider. A missing key only disables AI features.
	ai bool
	// logToFile sends logs to the configured log file, for the TUI.
	logToFile bool
}

// appEnv is what every command runs against.
type appEnv struct {
	cfg config.Config
	log *zap.Logger
	st  *store.Store
	svc *services.Services
}

// openEnv loads configuration, builds the logger, opens the store and
// wires the services.
func openEnv(cmd *cobra.Command, opts envOptions) (*appEnv, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logOpts := logging.Options{Level: cfg.Logging.Level, Verbose: verbose}
	if opts.logToFile {
		logOpts.File = cfg.Logging.File
		if logOpts.File == "" {
			if logOpts.File, err = config.DefaultLogPath(); err != nil {
				return nil, err
			}
		}
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", zap.String("path", dbPath))

	var provider llm.Provider
	if opts.ai {
		provider, err = newProvider(ctx, &cfg, st.EventRepo(), log)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Provedor de IA não configurado:", err)
			fmt.Fprintln(cmd.ErrOrStderr(), "Os recursos de IA ficarão indisponíveis.")
			log.Warn("AI provider unavailable", zap.Error(err))
		}
	}

	return &appEnv{
		cfg: cfg,
		log: log,
		st:  st,
		svc: services.New(st, provider, cfg, log),
	}, nil
}

func newProvider(ctx context.Context, cfg *config.Config, events store.EventRepo, log *zap.Logger) (llm.Provider, error) {
	if !llm.Discover(&cfg.LLM) {
		return nil, errors.New("nenhuma chave de API encontrada (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY ou OPENROUTER_API_KEY)")
	}
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	return llm.NewProvider(ctx, cfg.LLM, events, log.Named("llm"))
}

// Close releases the store and flushes the logger.
func (e *appEnv) Close() {
	if err := e.st.Close(); err != nil {
		e.log.Warn("close store", zap.Error(err))
	}
	_ = e.log.Sync()
}

// requireUser restores the saved session onto the services.
func (e *appEnv) requireUser(ctx context.Context) (*account.User, error) {
	u, err := e.svc.Accounts.Current(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errNotLoggedIn
	}
	e.svc.SetUser(u)
	return u, nil
}

// stderrIsTerminal reports whether prompts can be shown.
func stderrIsTerminal() bool {
	fi, err := os.Stderr.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
