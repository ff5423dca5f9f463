package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randomtoy/dicegame/internal/adapters/rng"
	"github.com/randomtoy/dicegame/internal/config"
	"github.com/randomtoy/dicegame/internal/domain"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dicegame",
		Short:        "Roll dice in the browser or the terminal",
		SilenceUsage: true,
	}
	root.PersistentFlags().Int64("seed", 0, "seed for reproducible rolls (overrides DICE_SEED)")
	root.PersistentFlags().Duration("delay", 0, "rolling animation delay (overrides ROLL_DELAY)")

	root.AddCommand(newServeCmd(), newRollCmd(), newVersionCmd())
	return root
}

// loadConfig reads the environment and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		seed, _ := flags.GetInt64("seed")
		cfg.Seed = &seed
	}
	if flags.Changed("delay") {
		cfg.RollDelay, _ = flags.GetDuration("delay")
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func newRNG(cfg config.Config) domain.RNG {
	if cfg.Seed != nil {
		return rng.NewSeeded(*cfg.Seed)
	}
	return rng.Std{}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
