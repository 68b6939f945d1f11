package marketplace

import (
	"context"
	"mome/internal/asset"
	"mome/internal/balance"
	"mome/internal/blockchain"
	"mome/internal/logger"
	"mome/internal/storage"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Balance reads the reconciled balance of owner and keeps the last reading in the
// journal.
func (s *Service) Balance(ctx context.Context, owner string, a asset.Asset) (*balance.Balance, error) {
	reading, err := s.balances.Balance(ctx, owner, a)
	if err != nil {
		return nil, err
	}

	if s.journal != nil {
		err := s.journal.UpdateBalanceSnapshot(&storage.BalanceSnapshot{
			Owner:   reading.Owner,
			Asset:   a.ID(),
			Legacy:  strconv.FormatUint(reading.Legacy, 10),
			Indexer: strconv.FormatUint(reading.Indexer, 10),
			Amount:  strconv.FormatUint(reading.Amount, 10),
			Policy:  string(reading.Policy),
		})
		if err != nil {
			logger.Warn("marketplace: cannot store balance snapshot", zap.String("owner", reading.Owner), zap.Error(err))
		}
	}

	return reading, nil
}

// LastBalance returns the reading Balance stored for owner and a on its previous
// call, or nil when there is none.
func (s *Service) LastBalance(owner string, a asset.Asset) (*storage.BalanceSnapshot, error) {
	if s.journal == nil {
		return nil, ErrNoJournal
	}

	ownerAddress, err := blockchain.NormalizeAddress(owner)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.journal.BalanceSnapshot(ownerAddress, a.ID())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return snapshot, err
}
