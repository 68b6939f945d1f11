package main

import (
	"context"
	"fmt"
	"mome/internal/asset"
	"mome/internal/balance"
	"mome/internal/contract"
	"mome/internal/marketplace"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewRaffleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raffle",
		Short: "Create, join and settle raffles",
	}

	cmd.AddCommand(
		newRaffleShowCmd(),
		newRaffleCreateCmd(),
		newRaffleBuyCmd(),
		newRaffleActionCmd("claim", "Claim the prize of a raffle you won", "Prize claimed",
			func(ctx context.Context, s *marketplace.Service, id uint64) (*marketplace.Result, error) {
				return s.ClaimPrize(ctx, id)
			}),
		newRaffleActionCmd("cancel", "Cancel a raffle you created", "Raffle cancelled",
			func(ctx context.Context, s *marketplace.Service, id uint64) (*marketplace.Result, error) {
				return s.CancelRaffle(ctx, id)
			}),
		newRaffleActionCmd("settle", "Draw the winner of an ended raffle", "Raffle settled",
			func(ctx context.Context, s *marketplace.Service, id uint64) (*marketplace.Result, error) {
				return s.SettleRaffle(ctx, id)
			}),
	)
	return cmd
}

func parseRaffleID(value string) (uint64, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid raffle id %q", value)
	}
	return id, nil
}

func newRaffleShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a raffle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRaffleID(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, env *app) error {
				return showRaffle(ctx, env, id)
			})
		},
	}
}

func showRaffle(ctx context.Context, env *app, id uint64) error {
	info, err := env.service.Raffle(ctx, id)
	if err != nil {
		return err
	}

	payment, err := asset.Parse(cfg.PaymentCoin)
	if err != nil {
		return err
	}

	status := info.Status.String()
	switch {
	case info.Open(time.Now()):
		status = success("open")
	case info.Status == contract.StatusOpen:
		status = warning("ended")
	case info.Status == contract.StatusCancelled:
		status = failure(status)
	}

	fmt.Println(bold(fmt.Sprintf("Raffle #%d", info.ID)))
	printField("Status", status)
	printField("Creator", info.Creator)
	if info.Prize.Kind == asset.KindNFT {
		printField("Prize", "NFT "+info.Prize.Object)
	} else {
		printField("Prize", fmt.Sprintf("%s %s", balance.FormatUnits(info.PrizeAmount, info.Prize.Decimals), info.Prize))
	}
	printField("Ticket price", fmt.Sprintf("%s %s", balance.FormatUnits(info.TicketPrice, payment.Decimals), payment))
	printField("Tickets", fmt.Sprintf("%d / %d sold", info.TicketsSold, info.TotalTickets))
	printField("Ends", info.EndTime.Local().Format(time.DateTime))
	if info.Winner != "" {
		printField("Winner", info.Winner)
	}

	if sender := env.service.Sender(); sender != "" && cfg.RaffleVersion >= int(contract.V5) {
		tickets, err := env.service.UserTickets(ctx, id, sender)
		if err != nil {
			return err
		}
		printField("Your tickets", tickets)
	}
	return nil
}

func newRaffleCreateCmd() *cobra.Command {
	var (
		prizeFlag   string
		prizeObject string
		decimals    uint8
		amount      string
		ticketPrice string
		tickets     uint64
		duration    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a raffle",
		Long: `Create a raffle. Amounts are in whole units.

Examples:
  # 10 MOVE prize, 100 tickets at 0.5 MOVE, running for a day
  mome raffle create --amount 10 --ticket-price 0.5 --tickets 100 --duration 24h

  # an NFT prize
  mome raffle create --nft 0xa11ce... --ticket-price 1 --tickets 50 --duration 72h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := createParams(prizeFlag, prizeObject, decimals, amount, ticketPrice, tickets, duration)
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, env *app) error {
				if err := env.requireSender(); err != nil {
					return err
				}
				result, err := env.service.CreateRaffle(ctx, params)
				if err != nil {
					return err
				}
				printResult("Raffle created", result)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&prizeFlag, "prize", "", "prize coin type or fungible asset address (default MOVE)")
	cmd.Flags().StringVar(&prizeObject, "nft", "", "NFT object address to raffle off")
	cmd.Flags().Uint8Var(&decimals, "decimals", 0, "decimals of the prize asset (default 8)")
	cmd.Flags().StringVar(&amount, "amount", "", "prize amount")
	cmd.Flags().StringVar(&ticketPrice, "ticket-price", "", "price of one ticket in the payment coin")
	cmd.Flags().Uint64Var(&tickets, "tickets", 0, "number of tickets")
	cmd.Flags().DurationVar(&duration, "duration", 24*time.Hour, "how long the raffle runs")
	cmd.MarkFlagsMutuallyExclusive("prize", "nft")
	_ = cmd.MarkFlagRequired("ticket-price")
	_ = cmd.MarkFlagRequired("tickets")
	return cmd
}

func createParams(prizeFlag, prizeObject string, decimals uint8, amount, ticketPrice string, tickets uint64, duration time.Duration) (contract.CreateRaffleParams, error) {
	payment, err := asset.Parse(cfg.PaymentCoin)
	if err != nil {
		return contract.CreateRaffleParams{}, err
	}
	price, err := balance.ParseUnits(ticketPrice, payment.Decimals)
	if err != nil {
		return contract.CreateRaffleParams{}, err
	}
	if duration <= 0 {
		return contract.CreateRaffleParams{}, errors.New("duration must be positive")
	}

	params := contract.CreateRaffleParams{
		TicketPrice:  price,
		TotalTickets: tickets,
		EndTime:      time.Now().Add(duration),
	}

	if prizeObject != "" {
		params.Prize = asset.Asset{Kind: asset.KindNFT, Object: prizeObject}
		return params, nil
	}

	params.Prize, err = parseAsset(prizeFlag, decimals)
	if err != nil {
		return contract.CreateRaffleParams{}, err
	}
	params.PrizeAmount, err = balance.ParseUnits(amount, params.Prize.Decimals)
	if err != nil {
		return contract.CreateRaffleParams{}, err
	}
	return params, nil
}

func newRaffleBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <id> <quantity>",
		Short: "Buy raffle tickets",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRaffleID(args[0])
			if err != nil {
				return err
			}
			quantity, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				err = errors.Errorf("invalid quantity %q", args[1])
				return err
			}

			return withApp(cmd, func(ctx context.Context, env *app) error {
				if err := env.requireSender(); err != nil {
					return err
				}
				result, err := env.service.BuyTickets(ctx, id, quantity)
				if err != nil {
					return err
				}
				printResult(fmt.Sprintf("Bought %d tickets", quantity), result)

				if err := env.service.WaitForRefresh(ctx); err != nil {
					return err
				}
				fmt.Println()
				return showRaffle(ctx, env, id)
			})
		},
	}
}

type raffleAction func(ctx context.Context, s *marketplace.Service, id uint64) (*marketplace.Result, error)

func newRaffleActionCmd(use string, short string, done string, action raffleAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRaffleID(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, env *app) error {
				if err := env.requireSender(); err != nil {
					return err
				}
				result, err := action(ctx, env.service, id)
				if err != nil {
					return err
				}
				printResult(done, result)
				return nil
			})
		},
	}
}
