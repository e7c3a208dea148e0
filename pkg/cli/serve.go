package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daper-app/daper/pkg/flows"
	"github.com/daper-app/daper/pkg/server"
	"github.com/daper-app/daper/pkg/usecase/idea"
	"github.com/daper-app/daper/pkg/usecase/mindmap"
	"github.com/daper-app/daper/pkg/usecase/usage"
	"github.com/daper-app/daper/pkg/usecase/user"
	"github.com/daper-app/daper/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// serveCommand creates the serve command
func serveCommand() *cli.Command {
	var cfg config

	flagList := globalFlags(&cfg)
	flagList = append(flagList, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API server",
		Flags: flagList,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := logging.New(cfg.logLevel, cfg.logFormat, os.Stdout)
			logging.SetDefault(logger)

			limits, err := cfg.loadLimits()
			if err != nil {
				return err
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			genFlows := flows.New(gemini)
			usageUC := usage.New(repo, usage.WithLimits(limits))
			srv := server.New(
				idea.New(repo, genFlows, usageUC),
				mindmap.New(repo, genFlows),
				usageUC,
				user.New(repo),
			)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server",
					"addr", cfg.addr,
					"repository", cfg.repoBackend,
				)
				errCh <- srv.Listen(cfg.addr)
			}()

			sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				if err != nil {
					return goerr.Wrap(err, "server failed")
				}
				return nil

			case <-sigCtx.Done():
				logger.Info("shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shut down server")
				}
				return nil
			}
		},
	}
}
