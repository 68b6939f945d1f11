package balance

import (
	"context"
	"mome/internal/asset"
	"mome/internal/blockchain"
	"mome/internal/logger"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type LegacySource interface {
	CoinBalance(ctx context.Context, owner string, coinType string) (uint64, error)
}

type IndexerSource interface {
	FungibleBalances(ctx context.Context, owner string) ([]blockchain.FungibleBalance, error)
}

// Balance is one reconciled reading of an asset held by Owner.
type Balance struct {
	Owner   string
	Asset   asset.Asset
	Legacy  uint64
	Indexer uint64
	Reconciled
}

// Display is the amount in whole units, e.g. "12.5".
func (b Balance) Display() string {
	return FormatUnits(b.Amount, b.Asset.Decimals)
}

type Fetcher struct {
	legacy     LegacySource
	indexer    IndexerSource
	reconciler Reconciler
}

func NewFetcher(legacy LegacySource, indexer IndexerSource, reconciler Reconciler) *Fetcher {
	return &Fetcher{
		legacy:     legacy,
		indexer:    indexer,
		reconciler: reconciler,
	}
}

// Balance reads both sources at the same time and reconciles them.
func (f *Fetcher) Balance(ctx context.Context, owner string, a asset.Asset) (*Balance, error) {
	ownerAddress, err := blockchain.NormalizeAddress(owner)
	if err != nil {
		return nil, err
	}

	logger.Debug("balance: reading sources...", zap.String("owner", ownerAddress), zap.String("asset", a.ID()))

	var legacy, indexed uint64
	group, groupCtx := errgroup.WithContext(ctx)

	if a.CoinType != "" {
		group.Go(func() error {
			amount, err := f.legacy.CoinBalance(groupCtx, ownerAddress, a.CoinType)
			if err != nil {
				return errors.Wrap(err, "balance: legacy coin store")
			}
			legacy = amount
			return nil
		})
	}

	group.Go(func() error {
		rows, err := f.indexer.FungibleBalances(groupCtx, ownerAddress)
		if err != nil {
			return errors.Wrap(err, "balance: indexer")
		}
		indexed = sumMatching(rows, a)
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	reconciled := f.reconciler.Reconcile(legacy, indexed)
	logger.Debug("balance: reading sources... done",
		zap.Uint64("legacy", legacy),
		zap.Uint64("indexer", indexed),
		zap.Uint64("reconciled", reconciled.Amount),
		zap.String("policy", string(reconciled.Policy)),
	)

	return &Balance{
		Owner:      ownerAddress,
		Asset:      a,
		Legacy:     legacy,
		Indexer:    indexed,
		Reconciled: reconciled,
	}, nil
}

// sumMatching adds up the indexer rows of a's indexer type. Coin types are matched by
// exact string, metadata addresses in any address form.
func sumMatching(rows []blockchain.FungibleBalance, a asset.Asset) uint64 {
	id := a.IndexerType()

	var total uint64
	for _, row := range rows {
		if !matches(row.AssetType, id) {
			continue
		}
		if total+row.Amount < total {
			return ^uint64(0)
		}
		total += row.Amount
	}
	return total
}

func matches(assetType string, id string) bool {
	if id == "" {
		return false
	}
	if strings.Contains(id, "::") {
		return assetType == id
	}
	return blockchain.SameAddress(assetType, id)
}
