package contract

import (
	"encoding/json"
	"mome/internal/asset"
	"mome/internal/blockchain"
	"time"

	"github.com/pkg/errors"
)

type Status uint8

const (
	StatusOpen Status = iota
	StatusSettled
	StatusClaimed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusSettled:
		return "settled"
	case StatusClaimed:
		return "claimed"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// RaffleInfo is the state of one raffle as the get_raffle view returns it.
type RaffleInfo struct {
	ID           uint64
	Creator      string
	Prize        asset.Asset
	PrizeAmount  uint64
	TicketPrice  uint64
	TotalTickets uint64
	TicketsSold  uint64
	EndTime      time.Time
	Winner       string
	Status       Status
}

// Open reports whether tickets can still be bought at now.
func (r RaffleInfo) Open(now time.Time) bool {
	return r.Status == StatusOpen && now.Before(r.EndTime) && r.TicketsSold < r.TotalTickets
}

func (r RaffleInfo) TicketsLeft() uint64 {
	if r.TicketsSold >= r.TotalTickets {
		return 0
	}
	return r.TotalTickets - r.TicketsSold
}

// moveOption is how the node renders Option<T>: {"vec": []} or {"vec": [value]}.
type moveOption struct {
	Vec []string `json:"vec"`
}

type raffleView struct {
	ID           blockchain.Amount `json:"id"`
	Creator      string            `json:"creator"`
	PrizeKind    uint8             `json:"prize_kind"`
	PrizeType    string            `json:"prize_type"`
	PrizeAmount  blockchain.Amount `json:"prize_amount"`
	TicketPrice  blockchain.Amount `json:"ticket_price"`
	TotalTickets blockchain.Amount `json:"total_tickets"`
	TicketsSold  blockchain.Amount `json:"tickets_sold"`
	EndTime      blockchain.Amount `json:"end_time"`
	Winner       moveOption        `json:"winner"`
	Status       uint8             `json:"status"`
}

// DecodeRaffle reads the result of the get_raffle view. The node returns the struct as
// the first value, with u64 fields as decimal strings.
func DecodeRaffle(values []any) (*RaffleInfo, error) {
	if len(values) == 0 {
		return nil, errors.New("contract: empty get_raffle result")
	}

	encoded, err := json.Marshal(values[0])
	if err != nil {
		return nil, errors.Wrap(err, "contract: cannot re-encode raffle")
	}

	var view raffleView
	if err := json.Unmarshal(encoded, &view); err != nil {
		return nil, errors.Wrap(err, "contract: unexpected raffle layout")
	}

	prize, err := prizeAsset(view.PrizeKind, view.PrizeType)
	if err != nil {
		return nil, err
	}

	info := &RaffleInfo{
		ID:           uint64(view.ID),
		Creator:      view.Creator,
		Prize:        prize,
		PrizeAmount:  uint64(view.PrizeAmount),
		TicketPrice:  uint64(view.TicketPrice),
		TotalTickets: uint64(view.TotalTickets),
		TicketsSold:  uint64(view.TicketsSold),
		EndTime:      time.Unix(int64(view.EndTime), 0).UTC(),
		Status:       Status(view.Status),
	}
	if len(view.Winner.Vec) > 0 {
		info.Winner = view.Winner.Vec[0]
	}
	if creator, err := blockchain.NormalizeAddress(view.Creator); err == nil {
		info.Creator = creator
	}

	return info, nil
}

// DecodeCount reads a view that returns a single u64.
func DecodeCount(values []any) (uint64, error) {
	if len(values) == 0 {
		return 0, errors.New("contract: empty view result")
	}

	encoded, err := json.Marshal(values[0])
	if err != nil {
		return 0, errors.Wrap(err, "contract: cannot re-encode view result")
	}

	var count blockchain.Amount
	if err := json.Unmarshal(encoded, &count); err != nil {
		return 0, errors.Wrap(err, "contract: view result is not a number")
	}
	return uint64(count), nil
}

// prizeAsset maps the on-chain prize kind (0 coin, 1 fungible asset, 2 NFT) to an asset.
// v1 raffles have no prize_kind field and decode as coins.
func prizeAsset(kind uint8, prizeType string) (asset.Asset, error) {
	switch kind {
	case 0:
		return asset.Parse(prizeType)
	case 1:
		return asset.Asset{Kind: asset.KindFungibleAsset, Metadata: prizeType, Decimals: 8}, nil
	case 2:
		return asset.Asset{Kind: asset.KindNFT, Object: prizeType}, nil
	}
	return asset.Asset{}, errors.Errorf("contract: unknown prize kind %d", kind)
}
