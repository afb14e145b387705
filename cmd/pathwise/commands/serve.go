package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rushteam/pathwise/config"
	"github.com/rushteam/pathwise/pkg/logger"
	"github.com/rushteam/pathwise/server"
)

var trainMissing bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&trainMissing, "train-missing", true,
		"train bundles that are missing at startup in the background")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadApp(configFile)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("close resources", "error", err)
		}
	}()

	// 模型包未就绪时提交返回“稍后重试”，后台训练完成后自动生效。
	// 退出时先停止训练再释放资源。
	if missing := a.missingPathways(); trainMissing && len(missing) > 0 {
		stopTraining := trainInBackground(ctx, missing, func(ctx context.Context, p string) error {
			_, err := a.admin.Retrain(ctx, p)
			return err
		}, log)
		defer stopTraining()
	}

	if cfg.Log.Mode != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.NewRouter(a.handler, server.RouterConfig{CORSOrigins: cfg.Server.CORSOrigins}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
