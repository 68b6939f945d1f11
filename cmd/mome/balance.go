package main

import (
	"context"
	"fmt"
	"mome/internal/asset"
	"mome/internal/balance"
	"mome/internal/storage"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// withApp builds the app for one command and runs fn with it.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, env *app) error) error {
	env, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	return fn(cmd.Context(), env)
}

func NewBalanceCmd() *cobra.Command {
	var assetFlag string
	var decimals uint8

	cmd := &cobra.Command{
		Use:   "balance [owner]",
		Short: "Show the balance of an account",
		Long: `Show the balance of an account, merging the legacy coin store with the
indexer's fungible asset balance. Defaults to the configured account.

Examples:
  mome balance 0x1f2e...
  mome balance 0x1f2e... --asset 0xcafe::usdc::USDC --decimals 6`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseAsset(assetFlag, decimals)
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, env *app) error {
				owner := env.service.Sender()
				if len(args) == 1 {
					owner = args[0]
				}
				if owner == "" {
					return errNoPrivateKey
				}

				last, err := env.service.LastBalance(owner, a)
				if err != nil {
					return err
				}

				reading, err := env.service.Balance(ctx, owner, a)
				if err != nil {
					return err
				}
				printBalance(reading)
				printLastSeen(last, reading)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&assetFlag, "asset", "", "coin type or fungible asset address (default MOVE)")
	cmd.Flags().Uint8Var(&decimals, "decimals", 0, "decimals of the asset (default 8)")
	return cmd
}

func parseAsset(value string, decimals uint8) (asset.Asset, error) {
	a, err := asset.Parse(value)
	if err != nil {
		return asset.Asset{}, err
	}
	if decimals > 0 {
		a.Decimals = decimals
	}
	return a, nil
}

func printBalance(reading *balance.Balance) {
	fmt.Println(bold("Balance"))
	printField("Owner", reading.Owner)
	printField("Asset", reading.Asset)
	printField("Amount", fmt.Sprintf("%s %s", reading.Display(), reading.Asset))
	if verbose {
		printField("Coin store", balance.FormatUnits(reading.Legacy, reading.Asset.Decimals))
		printField("Indexer", balance.FormatUnits(reading.Indexer, reading.Asset.Decimals))
		printField("Policy", reading.Policy)
	}
	if reading.Policy == balance.PolicySum {
		fmt.Println(warning("coin store and indexer differ, showing their sum"))
	}
}

// printLastSeen shows the previous reading when it differs from the current one.
func printLastSeen(last *storage.BalanceSnapshot, reading *balance.Balance) {
	if last == nil {
		return
	}
	amount, err := strconv.ParseUint(last.Amount, 10, 64)
	if err != nil || amount == reading.Amount {
		return
	}
	printField("Last seen", fmt.Sprintf("%s %s at %s",
		balance.FormatUnits(amount, reading.Asset.Decimals), reading.Asset, last.UpdatedAt.Local().Format(time.DateTime)))
}
