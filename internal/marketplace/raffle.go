package marketplace

import (
	"context"
	"mome/internal/asset"
	"mome/internal/contract"
	"mome/internal/logger"
	"mome/internal/storage"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (s *Service) CreateRaffle(ctx context.Context, params contract.CreateRaffleParams) (*Result, error) {
	c, err := s.raffleContract()
	if err != nil {
		return nil, err
	}

	request, err := c.CreateRaffle(s.sender, params)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, storage.CreateRaffleActionType, request)
}

func (s *Service) BuyTickets(ctx context.Context, raffleID uint64, quantity uint64) (*Result, error) {
	c, err := s.raffleContract()
	if err != nil {
		return nil, err
	}

	request, err := c.BuyTickets(s.sender, raffleID, quantity)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, storage.BuyTicketsActionType, request)
}

func (s *Service) ClaimPrize(ctx context.Context, raffleID uint64) (*Result, error) {
	c, err := s.raffleContract()
	if err != nil {
		return nil, err
	}

	prize, err := s.prizeOf(ctx, c, raffleID)
	if err != nil {
		return nil, err
	}

	request, err := c.ClaimPrize(s.sender, raffleID, prize)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, storage.ClaimPrizeActionType, request)
}

func (s *Service) CancelRaffle(ctx context.Context, raffleID uint64) (*Result, error) {
	c, err := s.raffleContract()
	if err != nil {
		return nil, err
	}

	prize, err := s.prizeOf(ctx, c, raffleID)
	if err != nil {
		return nil, err
	}

	request, err := c.CancelRaffle(s.sender, raffleID, prize)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, storage.CancelRaffleActionType, request)
}

func (s *Service) SettleRaffle(ctx context.Context, raffleID uint64) (*Result, error) {
	c, err := s.raffleContract()
	if err != nil {
		return nil, err
	}

	request, err := c.SettleRaffle(s.sender, raffleID)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, storage.SettleRaffleActionType, request)
}

// Send transfers amount of a to another account.
func (s *Service) Send(ctx context.Context, a asset.Asset, to string, amount uint64) (*Result, error) {
	request, err := contract.Transfer(s.sender, a, to, amount)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, storage.SendActionType, request)
}

func (s *Service) Raffle(ctx context.Context, raffleID uint64) (*contract.RaffleInfo, error) {
	c, err := s.raffleContract()
	if err != nil {
		return nil, err
	}

	logger.Debug("marketplace: reading raffle...", zap.Uint64("raffle", raffleID))
	values, err := s.chain.View(ctx, c.GetRaffle(raffleID))
	if err != nil {
		return nil, errors.Wrapf(err, "marketplace: cannot read raffle %d", raffleID)
	}

	info, err := contract.DecodeRaffle(values)
	if err != nil {
		return nil, err
	}

	logger.Debug("marketplace: reading raffle... done", zap.String("status", info.Status.String()), zap.Uint64("sold", info.TicketsSold))
	return info, nil
}

// UserTickets counts the tickets owner holds in a raffle.
func (s *Service) UserTickets(ctx context.Context, raffleID uint64, owner string) (uint64, error) {
	c, err := s.raffleContract()
	if err != nil {
		return 0, err
	}

	payload, err := c.UserTickets(raffleID, owner)
	if err != nil {
		return 0, err
	}

	values, err := s.chain.View(ctx, payload)
	if err != nil {
		return 0, errors.Wrapf(err, "marketplace: cannot read tickets of raffle %d", raffleID)
	}
	return contract.DecodeCount(values)
}

// prizeOf is only needed by v1, whose calls are generic over the prize coin.
func (s *Service) prizeOf(ctx context.Context, c *contract.Contract, raffleID uint64) (asset.Asset, error) {
	if c.Version() != contract.V1 {
		return asset.Asset{}, nil
	}

	info, err := s.Raffle(ctx, raffleID)
	if err != nil {
		return asset.Asset{}, err
	}
	return info.Prize, nil
}
