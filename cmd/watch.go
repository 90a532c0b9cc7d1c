package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"phantomsync/internal/logger"
	"phantomsync/internal/pipeline"
	"phantomsync/internal/server"
	"phantomsync/internal/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the configuration's directory and upload changed files",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	accts, err := loadAccounts()
	if err != nil {
		return err
	}

	d := newDispatcher(accts)

	w, err := watcher.New(cfg.BufferSize, cfg.IgnoreList)
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Watch(accts.BaseDir); err != nil {
		return err
	}

	var srv *server.Server
	if cfg.StatusAddr != "" {
		srv = server.New(d, cfg.StatusAddr)
		srv.Start()
	}

	logger.Log.Info("phantomsync started",
		zap.String("config", accts.Path),
		zap.Int("accounts", len(accts.Accounts)))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d.Run(ctx, pipeline.Filter(w.Events(), w.Matcher()))

	logger.Log.Info("shutting down")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
