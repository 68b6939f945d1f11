// Package asset describes the things a raffle can hold as a prize and a wallet can
// hold as a balance: legacy coins, fungible assets and NFT objects.
package asset

import (
	"strings"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindCoin          Kind = "coin"
	KindFungibleAsset Kind = "fungible_asset"
	KindNFT           Kind = "nft"
)

// Asset identifies one asset. CoinType is set for legacy coins, Metadata for fungible
// assets (and for coins that have a paired fungible asset), Object for NFTs.
type Asset struct {
	Kind     Kind
	CoinType string
	Metadata string
	Object   string
	Decimals uint8
	Symbol   string
}

const NativeCoinType = "0x1::aptos_coin::AptosCoin"

// Native is the chain's gas coin. Its fungible-asset twin lives at 0xa.
var Native = Asset{
	Kind:     KindCoin,
	CoinType: NativeCoinType,
	Metadata: "0xa",
	Decimals: 8,
	Symbol:   "MOVE",
}

// Parse accepts a Move struct tag ("0x1::aptos_coin::AptosCoin") for a coin or an
// object address for a fungible asset. Decimals default to 8.
func Parse(s string) (Asset, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || strings.EqualFold(s, Native.Symbol) || s == NativeCoinType:
		return Native, nil
	case strings.Count(s, "::") == 2:
		return Asset{Kind: KindCoin, CoinType: s, Decimals: 8, Symbol: s[strings.LastIndex(s, "::")+2:]}, nil
	case strings.HasPrefix(s, "0x") && !strings.Contains(s, "::"):
		return Asset{Kind: KindFungibleAsset, Metadata: s, Decimals: 8}, nil
	}

	return Asset{}, errors.Errorf("asset: cannot parse %q", s)
}

// ID is the asset's primary identifier.
func (a Asset) ID() string {
	switch a.Kind {
	case KindCoin:
		return a.CoinType
	case KindNFT:
		return a.Object
	}
	return a.Metadata
}

// IndexerType is the asset_type of the indexer row that is independent of the legacy
// coin store. For a coin with a paired fungible asset that is the metadata address:
// the indexer's coin row mirrors the CoinStore the legacy read already covers.
func (a Asset) IndexerType() string {
	if a.Metadata != "" {
		return a.Metadata
	}
	return a.CoinType
}

func (a Asset) String() string {
	if a.Symbol != "" {
		return a.Symbol
	}
	return a.ID()
}
