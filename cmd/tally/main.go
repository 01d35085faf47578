package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"tally/internal/app"
	"tally/internal/command"
	"tally/internal/config"
	"tally/internal/logging"
	"tally/internal/storage"
	"tally/internal/ui"
)

func main() {
	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tally: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var (
		configPath string
		dataPath   string
		backend    string
		tui        bool
	)

	cmd := &cobra.Command{
		Use:   "tally",
		Short: "A small task tracker for todos, deadlines and events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrCreate(config.ResolveConfigPath(configPath))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if dataPath != "" {
				cfg.DataPath = dataPath
			}
			if backend != "" {
				cfg.Backend = backend
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			logger := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
			b, err := storage.Open(cfg.Backend, cfg.DataPath, cfg.DBPath)
			if errors.Is(err, storage.ErrLocked) {
				return err
			}
			if err != nil {
				logger.Error("open storage", "backend", cfg.Backend, "err", err)
				b = storage.Unavailable(err)
			}
			store := storage.NewTaskStore(b, logger)
			defer func() {
				if err := store.Close(); err != nil {
					logger.Error("close storage", "err", err)
				}
			}()
			logCounts(logger, b)

			a := app.New(store, command.NewParser(), logger)
			if tui {
				return ui.Run(a, cfg)
			}
			return a.Run(stdin, stdout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config.toml (default $TALLY_CONFIG or ./config.toml)")
	cmd.Flags().StringVar(&dataPath, "data", "", "Override the task file path")
	cmd.Flags().StringVar(&backend, "backend", "", "Storage backend: text or sqlite")
	cmd.Flags().BoolVar(&tui, "tui", false, "Start the full-screen interface")
	return cmd
}

func logCounts(logger *log.Logger, b storage.Backend) {
	db, ok := b.(*storage.SQLiteStore)
	if !ok {
		return
	}
	counts, err := db.CountByKind()
	if err != nil {
		logger.Warn("count tasks", "err", err)
		return
	}
	logger.Debug("opened sqlite store", "todo", counts["T"], "deadline", counts["D"], "event", counts["E"])
}
