package cli

import (
	"context"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/molgraph/internal/interfaces/http"
	"github.com/turtacn/molgraph/internal/interfaces/http/handlers"
	"github.com/turtacn/molgraph/internal/interfaces/http/middleware"
	"github.com/turtacn/molgraph/pkg/errors"
)

type serveOptions struct {
	addr string
	warm bool
	// listening receives the bound address once the listener is open.
	listening chan<- string
}

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only inspection API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cliCtx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default: server.addr)")
	cmd.Flags().BoolVar(&opts.warm, "warm", true, "assemble the corpus in the background on start")
	return cmd
}

// runServe serves until ctx is cancelled, then drains the server.
func runServe(ctx context.Context, cliCtx *CLIContext, opts serveOptions) error {
	logger := cliCtx.Logger
	svc, err := cliCtx.NewService(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	if cliCtx.ConfigPath != "" {
		watchLogLevel(cliCtx.ConfigPath, cliCtx.Config.Log.Level, logger)
	}

	health := handlers.NewHealthHandler(Version, handlers.CheckerFunc{
		ComponentName: "corpus",
		Fn: func(context.Context) error {
			if !svc.Ready() {
				return errors.New(errors.ErrCodeCacheMiss, "corpus not assembled yet")
			}
			return nil
		},
	})
	routerCfg := httpserver.RouterConfig{
		SubsetHandler: handlers.NewSubsetHandler(svc),
		HealthHandler: health,
		Logger:        logger,
		Logging:       middleware.DefaultLoggingConfig(),
	}
	if cliCtx.Metrics != nil {
		routerCfg.Observer = cliCtx.Metrics
		routerCfg.MetricsHandler = cliCtx.Collector.Handler()
	}

	serverCfg := cliCtx.Config.Server
	if opts.addr != "" {
		serverCfg.Addr = opts.addr
	}
	srv := httpserver.NewServer(serverCfg, httpserver.NewRouter(routerCfg), logger)

	ln, err := net.Listen("tcp", serverCfg.Addr)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "failed to listen").WithDetail(serverCfg.Addr)
	}
	if opts.listening != nil {
		opts.listening <- ln.Addr().String()
	}

	if opts.warm {
		go func() {
			if _, _, err := svc.Corpus(ctx); err != nil {
				logger.Error("corpus warm-up failed", logging.Err(err))
			}
		}()
	}

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}
	// ctx is already cancelled; Stop applies the shutdown timeout on a fresh context.
	if err := srv.Stop(context.Background()); err != nil {
		return err
	}
	return <-done
}

// watchLogLevel applies log.level changes of the config file at runtime.
// Other settings take effect on restart.
func watchLogLevel(path, current string, logger logging.Logger) {
	err := config.Watch(path, func(cfg *config.Config) {
		if cfg.Log.Level == current {
			logger.Info("config file changed; restart to apply")
			return
		}
		if err := logging.SetLevel(logger, cfg.Log.Level); err != nil {
			logger.Warn("ignoring log level change", logging.Err(err))
			return
		}
		logger.Info("log level changed",
			logging.String("from", current),
			logging.String("to", cfg.Log.Level))
		current = cfg.Log.Level
	}, func(err error) {
		logger.Warn("ignoring invalid config change", logging.Err(err))
	})
	if err != nil {
		logger.Warn("config watch disabled", logging.Err(err))
	}
}

//Personal.AI order the ending
