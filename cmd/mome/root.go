package main

import (
	"mome/internal/config"
	"mome/internal/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	envFile string
	verbose bool
	noColor bool

	cfg *config.Config
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mome",
		Short: "Raffle marketplace client for Movement",
		Long: `mome creates, buys into and settles raffles on Movement and shows account balances.

Settings come from the environment and an optional .env file (MOME_NETWORK,
MOME_RAFFLE_ADDRESS, MOME_PRIVATE_KEY, ...).

Examples:
  # Show the MOVE balance of an account
  mome balance 0x1f2e...

  # Buy three tickets of raffle 12
  mome raffle buy 12 3

  # Send 1.5 MOVE
  mome send 0x9a8b... 1.5`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}

			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}

			loaded, err := config.Load(files...)
			if err != nil {
				return err
			}
			if verbose {
				loaded.Log.Console = true
				loaded.Log.Level = "debug"
			}

			if err := logger.Initialize(loaded.Log); err != nil {
				return err
			}
			logger.Debug("configuration loaded")
			cfg = loaded
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env", "", "env file to read (default .env)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		NewBalanceCmd(),
		NewRaffleCmd(),
		NewSendCmd(),
		NewHistoryCmd(),
	)

	return cmd
}
