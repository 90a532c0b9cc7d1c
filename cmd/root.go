package cmd

import (
	"errors"
	"os"

	"phantomsync/internal/accounts"
	"phantomsync/internal/config"
	"phantomsync/internal/db"
	"phantomsync/internal/dispatch"
	"phantomsync/internal/logger"
	"phantomsync/internal/repository"
	"phantomsync/internal/uploader"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultConfigFile = "phantombuster.cson"

var (
	cfg        *config.Config
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "phantomsync [paths...]",
	Short: "Push local scripts to Phantombuster",
	Long: "Push local scripts and their store metadata to Phantombuster.\n\n" +
		"With paths, each one is uploaded once. Without, the configuration's\n" +
		"directory is watched and changed files are uploaded as they are saved.",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		logger.Init(debug)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		if cfg.HistoryDB != "" {
			if err := db.Init(cfg.HistoryDB); err != nil {
				return err
			}
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return runPush(cmd, args)
		}
		return runWatch(cmd, args)
	},
}

func Execute() {
	logger.Init(false)

	if err := rootCmd.Execute(); err != nil {
		if valErr, ok := errors.AsType[*accounts.ValidationError](err); ok {
			logger.Log.Error(valErr.Error(),
				zap.Strings("details", valErr.Details()))
		} else {
			logger.Log.Error(err.Error())
		}
		logger.Sync()
		os.Exit(1)
	}
}

func loadAccounts() (*accounts.Configuration, error) {
	return accounts.Load(configPath)
}

func newDispatcher(accts *accounts.Configuration) *dispatch.Dispatcher {
	var rec dispatch.Recorder
	if db.Enabled() {
		rec = repository.NewHistoryRepository()
	}

	return dispatch.New(
		dispatch.NewState(accts),
		uploader.NewClient(cfg.HTTPTimeout),
		rec,
	)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigFile, "Account configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug mode")
}
