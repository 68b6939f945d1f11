package blockchain

import (
	"context"
	"mome/internal/logger"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FungibleBalance is one row of the indexer's current_fungible_asset_balances.
type FungibleBalance struct {
	AssetType     string
	Amount        uint64
	TokenStandard string
	Decimals      uint8
	Symbol        string
}

// Amount decodes the indexer's numeric scalar, which arrives either as a JSON number
// or as a string.
type Amount uint64

func (a *Amount) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		*a = 0
		return nil
	}

	parsed, err := strconv.ParseUint(value, 10, 64)
	if err == nil {
		*a = Amount(parsed)
		return nil
	}

	// numeric columns may come back as 1.5e+21 or 100.0
	d, derr := decimal.NewFromString(value)
	if derr != nil {
		return errors.Wrapf(err, "indexer: invalid amount %q", value)
	}
	whole := d.Truncate(0).BigInt()
	if !whole.IsUint64() {
		return errors.Errorf("indexer: amount %q out of range", value)
	}
	*a = Amount(whole.Uint64())
	return nil
}

type fungibleBalancesQuery struct {
	Balances []struct {
		AssetType     string `graphql:"asset_type"`
		Amount        Amount `graphql:"amount"`
		TokenStandard string `graphql:"token_standard"`
		Metadata      struct {
			Decimals int    `graphql:"decimals"`
			Symbol   string `graphql:"symbol"`
		} `graphql:"metadata"`
	} `graphql:"current_fungible_asset_balances(where: {owner_address: {_eq: $owner}})"`
}

// FungibleBalances lists every asset balance the indexer tracks for owner.
func (c *Client) FungibleBalances(ctx context.Context, owner string) ([]FungibleBalance, error) {
	ownerAddress, err := NormalizeAddress(owner)
	if err != nil {
		return nil, err
	}

	logger.Debug("indexer: query fungible asset balances...", zap.String("owner", ownerAddress))

	var query fungibleBalancesQuery
	_, err = rateLimitRetry(ctx, func() (struct{}, error) {
		return struct{}{}, c.indexer.Query(ctx, &query, map[string]any{"owner": ownerAddress})
	})
	if err != nil {
		return nil, errors.Wrap(err, "indexer: fungible asset balances query failed")
	}

	balances := make([]FungibleBalance, 0, len(query.Balances))
	for _, row := range query.Balances {
		balances = append(balances, FungibleBalance{
			AssetType:     row.AssetType,
			Amount:        uint64(row.Amount),
			TokenStandard: row.TokenStandard,
			Decimals:      uint8(row.Metadata.Decimals),
			Symbol:        row.Metadata.Symbol,
		})
	}

	logger.Debug("indexer: query fungible asset balances... done", zap.Int("rows", len(balances)))
	return balances, nil
}
