package entrypoint

import (
	"context"

	"github.com/tsingmao/stackdist/internal/config"
	"github.com/tsingmao/stackdist/internal/logger"
)

// Entrypoint ties configuration, resolution and launch together.
type Entrypoint struct {
	Config   *config.EntrypointConfig
	Resolver *Resolver
	Launcher *Launcher
}

// New builds an Entrypoint from the process environment.
//
// An unparseable environment value is logged and ignored; the entrypoint
// always proceeds to the handoff.
func New() *Entrypoint {
	cfg, err := config.LoadEntrypoint()
	if err != nil {
		logger.Warn("Ignoring invalid entrypoint environment: %v", err)
	}
	if cfg == nil {
		cfg = &config.NewDefaultConfig().Entrypoint
	}
	if cfg.Debug {
		logger.SetDebug(true)
	}
	return &Entrypoint{
		Config:   cfg,
		Resolver: NewResolver(),
		Launcher: NewLauncher(cfg.Exec),
	}
}

// Run resolves the run configuration and hands off to the launcher.
//
// Parameters:
//   - ctx: lifetime of the supervised child
//   - args: extra arguments, forwarded verbatim after the reference
//
// Returns:
//   - The exit code of the launched server
func (e *Entrypoint) Run(ctx context.Context, args []string) int {
	sel := e.Resolver.ResolveConfig(e.Config)
	if e.Config.RunConfigPath != "" && sel.Source != SourceExplicit {
		logger.Info("RUN_CONFIG_PATH %s does not exist, falling through", e.Config.RunConfigPath)
	}
	logger.Info("Using %s run configuration: %s", sel.Source, sel.Reference)

	argv := Command(e.Config.LauncherArgs(), sel, args)
	logger.Debug("Launching %s", describe(argv))

	return e.Launcher.Launch(ctx, argv)
}
