package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	scripterrors "github.com/felixuxx/bevy-zig-scripting/domain/errors"
	"github.com/felixuxx/bevy-zig-scripting/domain/ports"
	"github.com/felixuxx/bevy-zig-scripting/engine"
	"github.com/felixuxx/bevy-zig-scripting/host"
	"github.com/felixuxx/bevy-zig-scripting/infrastructure/native"
	"github.com/felixuxx/bevy-zig-scripting/infrastructure/wasm"
	"github.com/felixuxx/bevy-zig-scripting/internal/config"
	"github.com/felixuxx/bevy-zig-scripting/internal/ctxlog"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the engine with the script bridge attached",
	RunE:  runHost,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runHost(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	logger := cfg.Logger(os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, logger)

	var loader ports.Loader
	switch cfg.Backend {
	case "wasm":
		l := wasm.NewLoader(ctx)
		defer l.Close(context.Background())
		loader = l
	default:
		loader = native.NewLoader()
	}

	sched := host.NewScheduler(loader, cfg.ScriptPath, host.WithMaxTicks(cfg.MaxTicks))

	app := engine.New(engine.WithTickInterval(cfg.TickInterval()))
	app.AddStartup(func(ctx context.Context) error {
		if err := sched.Activate(ctx); err != nil {
			var notFound *scripterrors.ModuleNotFoundError
			if errors.As(err, &notFound) {
				logger.Error("script module not found, scripting disabled", "path", notFound.Path)
				logger.Error("build the script and place it at the configured path, then restart the host")
			} else {
				logger.Error("script activation failed, scripting disabled", "error", err)
			}
			// The host keeps running without scripting.
			return nil
		}
		logger.Info("script module activated", "path", cfg.ScriptPath, "backend", cfg.Backend)
		return nil
	})
	app.AddSystem(sched.Tick)

	logger.Info("engine starting",
		"tick_rate", cfg.TickRate,
		"max_ticks", cfg.MaxTicks,
		"backend", cfg.Backend)
	return app.Run(ctx)
}
