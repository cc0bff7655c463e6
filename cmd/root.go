package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kilianp07/agvfleet/config"
	"github.com/kilianp07/agvfleet/core/monitoring"
	"github.com/kilianp07/agvfleet/infra/logger"
	inframon "github.com/kilianp07/agvfleet/infra/monitoring"
)

var (
	cfgPath string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:           "agvfleet",
	Short:         "AGV fleet sizing",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML or JSON); empty uses defaults")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the configuration")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// setup loads the environment and configuration and initialises logging and
// error monitoring. The returned function flushes and closes both.
func setup() (*config.Config, func(), error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	closeLog, err := logger.Configure(cfg.Logging.Options())
	if err != nil {
		return nil, nil, err
	}
	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		_ = closeLog()
		return nil, nil, fmt.Errorf("sentry: %w", err)
	}
	prev := monitoring.Init(mon)
	return cfg, func() {
		monitoring.Flush(2 * time.Second)
		monitoring.Init(prev)
		_ = closeLog()
	}, nil
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}
