package main

import (
	"context"
	"fmt"
	"os"

	"github.com/2beens/fitnesstracker/internal"
	"github.com/2beens/fitnesstracker/internal/config"
	"github.com/2beens/fitnesstracker/internal/docstore"
	"github.com/2beens/fitnesstracker/internal/logging"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type app struct {
	env        string
	configPath string
	envFile    string
	logLevel   string

	cfg       *config.Config
	openStore func(ctx context.Context, cfg *config.Config) (docstore.Store, error)
}

func newApp() *app {
	return &app{
		openStore: func(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
			store, _, err := internal.NewStore(ctx, cfg)
			return store, err
		},
	}
}

// withStore opens the configured store for the duration of fn.
func (a *app) withStore(ctx context.Context, fn func(store docstore.Store) error) error {
	store, err := a.openStore(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warnf("close store: %s", err)
		}
	}()
	return fn(store)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fitnessctl",
		Short: "Operator tool for the fitness tracker backend",
		Long: `fitnessctl manages a fitness tracker deployment from the command line.

It reads the same TOML config and environment variables as the service.

EXAMPLES:

  fitnessctl user deactivate alice          # Block alice from the API
  fitnessctl token issue alice --ttl 1h     # Mint a short lived token
  fitnessctl hash-password 's3cr3t!'        # Print a bcrypt hash
  fitnessctl health --addr http://api:8000  # Check a running instance`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(a.envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load env file %s: %w", a.envFile, err)
			}

			cfg, err := config.Load(a.env, a.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg

			// stdout belongs to the command output
			log.SetOutput(os.Stderr)
			log.SetLevel(logging.GetLevel(a.logLevel))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.env, "env", "development", "environment [prod | production | dev | development]")
	flags.StringVar(&a.configPath, "config", "./config.toml", "path for the TOML config file")
	flags.StringVar(&a.envFile, "env-file", ".env", "optional .env file")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(
		newUserCmd(a),
		newTokenCmd(a),
		newHashPasswordCmd(),
		newHealthCmd(),
	)
	return rootCmd
}
