package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xvierd/git-prompt/internal/adapters/git"
	"github.com/xvierd/git-prompt/internal/config"
	"github.com/xvierd/git-prompt/internal/logging"
	"github.com/xvierd/git-prompt/internal/ports"
	"github.com/xvierd/git-prompt/internal/prompt"
	"github.com/xvierd/git-prompt/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config  *config.Config
	query   ports.RepositoryQuery
	prompts *services.PromptService
	state   *services.StateService
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
// A broken config file never stops the prompt from rendering.
func initializeServices() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.FromEnv()
	}
	app.config = cfg

	if _, logErr := logging.Initialize(cfg.Debug || debugFlag, cfg.DebugFile); logErr != nil {
		logging.Logger.Debug("failed to initialize debug log", "error", logErr)
	}
	if err != nil {
		logging.Logger.Debug("using default configuration", "error", err)
	}

	app.query = git.NewDetector()
	app.prompts = services.NewPromptService(app.query, prompt.OSEnvironment())
	app.state = services.NewStateService(app.prompts, app.templates(), cfg.Style())

	return nil
}

// templates returns the configured prompt templates.
func (a *appDeps) templates() services.Templates {
	return services.Templates{
		Git:     a.config.GitPrompt,
		Default: a.config.DefaultPrompt,
	}
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
