package main

import (
	"context"
	"fmt"
	"mome/internal/asset"
	"mome/internal/balance"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewSendCmd() *cobra.Command {
	var assetFlag string
	var nft string
	var decimals uint8

	cmd := &cobra.Command{
		Use:   "send <to> [amount]",
		Short: "Send coins, fungible assets or an NFT",
		Long: `Send an amount in whole units, or an NFT with --nft.

Examples:
  mome send 0x9a8b... 1.5
  mome send 0x9a8b... 20 --asset 0xbeef... --decimals 6
  mome send 0x9a8b... --nft 0xa11ce...`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, amount, err := sendArguments(args, assetFlag, nft, decimals)
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, env *app) error {
				if err := env.requireSender(); err != nil {
					return err
				}
				result, err := env.service.Send(ctx, a, args[0], amount)
				if err != nil {
					return err
				}
				printResult("Sent "+a.String(), result)

				if a.Kind == asset.KindNFT {
					return nil
				}
				if err := env.service.WaitForRefresh(ctx); err != nil {
					return err
				}
				reading, err := env.service.Balance(ctx, env.service.Sender(), a)
				if err != nil {
					return err
				}
				fmt.Println()
				printBalance(reading)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&assetFlag, "asset", "", "coin type or fungible asset address (default MOVE)")
	cmd.Flags().StringVar(&nft, "nft", "", "NFT object address to send")
	cmd.Flags().Uint8Var(&decimals, "decimals", 0, "decimals of the asset (default 8)")
	cmd.MarkFlagsMutuallyExclusive("asset", "nft")
	return cmd
}

func sendArguments(args []string, assetFlag string, nft string, decimals uint8) (asset.Asset, uint64, error) {
	if nft != "" {
		return asset.Asset{Kind: asset.KindNFT, Object: nft}, 0, nil
	}
	if len(args) < 2 {
		return asset.Asset{}, 0, errors.New("amount is required")
	}

	a, err := parseAsset(assetFlag, decimals)
	if err != nil {
		return asset.Asset{}, 0, err
	}
	amount, err := balance.ParseUnits(args[1], a.Decimals)
	if err != nil {
		return asset.Asset{}, 0, err
	}
	return a, amount, nil
}
