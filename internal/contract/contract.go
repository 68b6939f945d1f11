// Package contract knows the entry functions of the deployed raffle module versions and
// turns marketplace actions into transaction requests and view payloads.
//
// Three versions are live on chain:
//
//	v1 raffle     coin prizes
//	v3 raffle_v3  coin and fungible-asset prizes
//	v5 raffle_v5  coin, fungible-asset and NFT prizes, explicit settlement
package contract

import (
	"mome/internal/asset"
	"mome/internal/blockchain"
	"mome/internal/transaction"
	"time"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/pkg/errors"
)

type Version int

const (
	V1 Version = 1
	V3 Version = 3
	V5 Version = 5
)

var moduleNames = map[Version]string{
	V1: "raffle",
	V3: "raffle_v3",
	V5: "raffle_v5",
}

// ParseVersion accepts 1, 3 or 5.
func ParseVersion(version int) (Version, error) {
	if _, ok := moduleNames[Version(version)]; !ok {
		return 0, errors.Errorf("contract: unknown raffle version %d", version)
	}
	return Version(version), nil
}

func (v Version) Module() string {
	return moduleNames[v]
}

func (v Version) Supports(kind asset.Kind) bool {
	switch kind {
	case asset.KindCoin:
		return true
	case asset.KindFungibleAsset:
		return v >= V3
	case asset.KindNFT:
		return v >= V5
	}
	return false
}

// Contract is one deployed raffle module. Tickets are always paid in PaymentCoin.
type Contract struct {
	version     Version
	address     string
	paymentCoin string
}

func New(version Version, address string, paymentCoin string) (*Contract, error) {
	if _, ok := moduleNames[version]; !ok {
		return nil, errors.Errorf("contract: unknown raffle version %d", version)
	}

	moduleAddress, err := blockchain.NormalizeAddress(address)
	if err != nil {
		return nil, errors.Wrap(err, "contract: invalid module address")
	}

	if paymentCoin == "" {
		paymentCoin = asset.NativeCoinType
	}

	return &Contract{
		version:     version,
		address:     moduleAddress,
		paymentCoin: paymentCoin,
	}, nil
}

func (c *Contract) Version() Version {
	return c.version
}

func (c *Contract) Address() string {
	return c.address
}

// CreateRaffleParams describes a new raffle. PrizeAmount is ignored for NFT prizes.
type CreateRaffleParams struct {
	Prize        asset.Asset
	PrizeAmount  uint64
	TicketPrice  uint64
	TotalTickets uint64
	EndTime      time.Time
}

func (c *Contract) CreateRaffle(sender string, params CreateRaffleParams) (transaction.Request, error) {
	function := "create_raffle"
	if c.version != V1 {
		function = "create_raffle_" + prizeSuffix(params.Prize.Kind)
	}

	if !c.version.Supports(params.Prize.Kind) {
		return transaction.Request{}, c.invalid(function, errors.Errorf("%s prizes are not supported by raffle v%d", params.Prize.Kind, c.version))
	}
	if params.TicketPrice == 0 || params.TotalTickets == 0 {
		return transaction.Request{}, c.invalid(function, errors.New("ticket price and ticket count must be positive"))
	}
	if params.Prize.Kind != asset.KindNFT && params.PrizeAmount == 0 {
		return transaction.Request{}, c.invalid(function, errors.New("prize amount must be positive"))
	}
	if params.EndTime.Unix() <= 0 {
		return transaction.Request{}, c.invalid(function, errors.New("end time is not set"))
	}

	var typeArguments []string
	var arguments [][]byte
	switch params.Prize.Kind {
	case asset.KindCoin:
		typeArguments = []string{params.Prize.CoinType, c.paymentCoin}
		arguments = [][]byte{u64(params.PrizeAmount)}
	case asset.KindFungibleAsset:
		metadata, err := address(params.Prize.Metadata)
		if err != nil {
			return transaction.Request{}, c.invalid(function, err)
		}
		typeArguments = []string{c.paymentCoin}
		arguments = [][]byte{metadata, u64(params.PrizeAmount)}
	case asset.KindNFT:
		object, err := address(params.Prize.Object)
		if err != nil {
			return transaction.Request{}, c.invalid(function, err)
		}
		typeArguments = []string{c.paymentCoin}
		arguments = [][]byte{object}
	}

	arguments = append(arguments,
		u64(params.TicketPrice),
		u64(params.TotalTickets),
		u64(uint64(params.EndTime.Unix())),
	)
	return c.request(sender, function, typeArguments, arguments), nil
}

func (c *Contract) BuyTickets(sender string, raffleID uint64, quantity uint64) (transaction.Request, error) {
	if quantity == 0 {
		return transaction.Request{}, c.invalid("buy_tickets", errors.New("quantity must be positive"))
	}
	return c.request(sender, "buy_tickets", []string{c.paymentCoin}, [][]byte{u64(raffleID), u64(quantity)}), nil
}

// ClaimPrize sends the prize to the winner. v1 is generic over the prize coin, so the
// prize has to be known.
func (c *Contract) ClaimPrize(sender string, raffleID uint64, prize asset.Asset) (transaction.Request, error) {
	return c.raffleAction(sender, "claim_prize", raffleID, prize)
}

// CancelRaffle returns the prize to the creator and refunds ticket holders.
func (c *Contract) CancelRaffle(sender string, raffleID uint64, prize asset.Asset) (transaction.Request, error) {
	return c.raffleAction(sender, "cancel_raffle", raffleID, prize)
}

// SettleRaffle draws the winner of an ended raffle. Earlier versions draw on claim.
func (c *Contract) SettleRaffle(sender string, raffleID uint64) (transaction.Request, error) {
	if c.version < V5 {
		return transaction.Request{}, c.invalid("settle_raffle", errors.Errorf("raffle v%d settles on claim", c.version))
	}
	return c.request(sender, "settle_raffle", []string{c.paymentCoin}, [][]byte{u64(raffleID)}), nil
}

func (c *Contract) raffleAction(sender string, function string, raffleID uint64, prize asset.Asset) (transaction.Request, error) {
	typeArguments := []string{c.paymentCoin}
	if c.version == V1 {
		if prize.Kind != asset.KindCoin || prize.CoinType == "" {
			return transaction.Request{}, c.invalid(function, errors.New("raffle v1 needs the prize coin type"))
		}
		typeArguments = []string{prize.CoinType, c.paymentCoin}
	}
	return c.request(sender, function, typeArguments, [][]byte{u64(raffleID)}), nil
}

// GetRaffle is the view payload returning one raffle; decode the result with DecodeRaffle.
func (c *Contract) GetRaffle(raffleID uint64) *aptos.ViewPayload {
	return c.view("get_raffle", u64(raffleID))
}

// UserTickets counts the tickets owner holds in a raffle. Only v5 has the view.
func (c *Contract) UserTickets(raffleID uint64, owner string) (*aptos.ViewPayload, error) {
	if c.version < V5 {
		return nil, errors.Errorf("contract: raffle v%d has no ticket view", c.version)
	}
	ownerArgument, err := address(owner)
	if err != nil {
		return nil, err
	}
	return c.view("get_user_tickets", u64(raffleID), ownerArgument), nil
}

func (c *Contract) request(sender string, function string, typeArguments []string, arguments [][]byte) transaction.Request {
	return transaction.Request{
		ModuleAddress:     c.address,
		FunctionName:      c.version.Module() + "::" + function,
		TypeArguments:     typeArguments,
		FunctionArguments: arguments,
		SenderAddress:     sender,
	}
}

func (c *Contract) view(function string, arguments ...[]byte) *aptos.ViewPayload {
	var moduleAddress aptos.AccountAddress
	// c.address is normalized in New
	_ = moduleAddress.ParseStringRelaxed(c.address)

	return &aptos.ViewPayload{
		Module: aptos.ModuleId{
			Address: moduleAddress,
			Name:    c.version.Module(),
		},
		Function: function,
		ArgTypes: []aptos.TypeTag{},
		Args:     arguments,
	}
}

func (c *Contract) invalid(function string, err error) error {
	return &transaction.Error{
		Stage:    transaction.StageConstruction,
		Function: c.address + "::" + c.version.Module() + "::" + function,
		Err:      err,
	}
}

func prizeSuffix(kind asset.Kind) string {
	switch kind {
	case asset.KindFungibleAsset:
		return "fa"
	case asset.KindNFT:
		return "nft"
	}
	return "coin"
}
