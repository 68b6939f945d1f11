package contract

import (
	"encoding/binary"
	"mome/internal/asset"
	"mome/internal/transaction"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	raffleAddress = "0xfeed"
	sender        = "0xc0ffee"
)

var endTime = time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

func newContract(t *testing.T, version Version) *Contract {
	t.Helper()
	c, err := New(version, raffleAddress, "")
	require.NoError(t, err)
	return c
}

func decodeU64(t *testing.T, encoded []byte) uint64 {
	t.Helper()
	require.Len(t, encoded, 8)
	return binary.LittleEndian.Uint64(encoded)
}

func TestNew(t *testing.T) {
	c := newContract(t, V3)
	assert.Equal(t, "0x000000000000000000000000000000000000000000000000000000000000feed", c.Address())
	assert.Equal(t, V3, c.Version())

	_, err := New(Version(2), raffleAddress, "")
	assert.Error(t, err)

	_, err = New(V1, "0xnothex", "")
	assert.Error(t, err)

	_, err = ParseVersion(4)
	assert.Error(t, err)
	version, err := ParseVersion(5)
	require.NoError(t, err)
	assert.Equal(t, "raffle_v5", version.Module())
}

func TestCreateRaffle(t *testing.T) {
	fa := asset.Asset{Kind: asset.KindFungibleAsset, Metadata: "0xbeef"}
	nft := asset.Asset{Kind: asset.KindNFT, Object: "0xa11ce"}

	tests := []struct {
		name          string
		version       Version
		prize         asset.Asset
		function      string
		typeArguments []string
		arguments     int
		wantErr       bool
	}{
		{name: "v1 coin", version: V1, prize: asset.Native, function: "raffle::create_raffle", typeArguments: []string{asset.NativeCoinType, asset.NativeCoinType}, arguments: 4},
		{name: "v1 fungible asset", version: V1, prize: fa, wantErr: true},
		{name: "v1 nft", version: V1, prize: nft, wantErr: true},
		{name: "v3 coin", version: V3, prize: asset.Native, function: "raffle_v3::create_raffle_coin", typeArguments: []string{asset.NativeCoinType, asset.NativeCoinType}, arguments: 4},
		{name: "v3 fungible asset", version: V3, prize: fa, function: "raffle_v3::create_raffle_fa", typeArguments: []string{asset.NativeCoinType}, arguments: 5},
		{name: "v3 nft", version: V3, prize: nft, wantErr: true},
		{name: "v5 nft", version: V5, prize: nft, function: "raffle_v5::create_raffle_nft", typeArguments: []string{asset.NativeCoinType}, arguments: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request, err := newContract(t, tt.version).CreateRaffle(sender, CreateRaffleParams{
				Prize:        tt.prize,
				PrizeAmount:  500,
				TicketPrice:  10,
				TotalTickets: 100,
				EndTime:      endTime,
			})
			if tt.wantErr {
				assert.ErrorIs(t, err, transaction.ErrConstruction)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.function, request.FunctionName)
			assert.Equal(t, tt.typeArguments, request.TypeArguments)
			assert.Equal(t, sender, request.SenderAddress)
			require.Len(t, request.FunctionArguments, tt.arguments)

			last := request.FunctionArguments[len(request.FunctionArguments)-1]
			assert.Equal(t, uint64(endTime.Unix()), decodeU64(t, last))
		})
	}
}

func TestCreateRaffleRejectsInvalidParams(t *testing.T) {
	c := newContract(t, V5)
	valid := CreateRaffleParams{Prize: asset.Native, PrizeAmount: 1, TicketPrice: 1, TotalTickets: 1, EndTime: endTime}

	for name, mutate := range map[string]func(*CreateRaffleParams){
		"zero ticket price": func(p *CreateRaffleParams) { p.TicketPrice = 0 },
		"zero tickets":      func(p *CreateRaffleParams) { p.TotalTickets = 0 },
		"zero prize":        func(p *CreateRaffleParams) { p.PrizeAmount = 0 },
		"no end time":       func(p *CreateRaffleParams) { p.EndTime = time.Time{} },
		"bad fa metadata": func(p *CreateRaffleParams) {
			p.Prize = asset.Asset{Kind: asset.KindFungibleAsset, Metadata: "0xzz"}
		},
	} {
		t.Run(name, func(t *testing.T) {
			params := valid
			mutate(&params)
			_, err := c.CreateRaffle(sender, params)
			assert.ErrorIs(t, err, transaction.ErrConstruction)
		})
	}
}

func TestBuyTickets(t *testing.T) {
	request, err := newContract(t, V3).BuyTickets(sender, 7, 3)
	require.NoError(t, err)

	assert.Equal(t, "raffle_v3::buy_tickets", request.FunctionName)
	assert.Equal(t, []string{asset.NativeCoinType}, request.TypeArguments)
	require.Len(t, request.FunctionArguments, 2)
	assert.Equal(t, uint64(7), decodeU64(t, request.FunctionArguments[0]))
	assert.Equal(t, uint64(3), decodeU64(t, request.FunctionArguments[1]))

	_, err = newContract(t, V3).BuyTickets(sender, 7, 0)
	assert.ErrorIs(t, err, transaction.ErrConstruction)
}

func TestClaimAndCancel(t *testing.T) {
	usdc, err := asset.Parse("0xcafe::usdc::USDC")
	require.NoError(t, err)

	request, err := newContract(t, V1).ClaimPrize(sender, 1, usdc)
	require.NoError(t, err)
	assert.Equal(t, "raffle::claim_prize", request.FunctionName)
	assert.Equal(t, []string{"0xcafe::usdc::USDC", asset.NativeCoinType}, request.TypeArguments)

	_, err = newContract(t, V1).CancelRaffle(sender, 1, asset.Asset{Kind: asset.KindFungibleAsset, Metadata: "0xbeef"})
	assert.ErrorIs(t, err, transaction.ErrConstruction)

	request, err = newContract(t, V5).CancelRaffle(sender, 1, asset.Asset{Kind: asset.KindNFT, Object: "0x1"})
	require.NoError(t, err)
	assert.Equal(t, "raffle_v5::cancel_raffle", request.FunctionName)
	assert.Equal(t, []string{asset.NativeCoinType}, request.TypeArguments)
}

func TestSettleRaffleOnlyOnV5(t *testing.T) {
	_, err := newContract(t, V3).SettleRaffle(sender, 1)
	assert.ErrorIs(t, err, transaction.ErrConstruction)

	request, err := newContract(t, V5).SettleRaffle(sender, 9)
	require.NoError(t, err)
	assert.Equal(t, "raffle_v5::settle_raffle", request.FunctionName)
	assert.Equal(t, uint64(9), decodeU64(t, request.FunctionArguments[0]))
}

func TestViews(t *testing.T) {
	payload := newContract(t, V3).GetRaffle(4)
	assert.Equal(t, "raffle_v3", payload.Module.Name)
	assert.Equal(t, "get_raffle", payload.Function)
	require.Len(t, payload.Args, 1)
	assert.Equal(t, uint64(4), decodeU64(t, payload.Args[0]))

	_, err := newContract(t, V3).UserTickets(4, sender)
	assert.Error(t, err)

	payload, err = newContract(t, V5).UserTickets(4, sender)
	require.NoError(t, err)
	assert.Equal(t, "get_user_tickets", payload.Function)
	require.Len(t, payload.Args, 2)
	assert.Len(t, payload.Args[1], 32)
}

func TestTransfer(t *testing.T) {
	request, err := Transfer(sender, asset.Native, "0x2", 100)
	require.NoError(t, err)
	assert.Equal(t, "0x1", request.ModuleAddress)
	assert.Equal(t, "aptos_account::transfer_coins", request.FunctionName)
	assert.Equal(t, []string{asset.NativeCoinType}, request.TypeArguments)
	require.Len(t, request.FunctionArguments, 2)
	assert.Len(t, request.FunctionArguments[0], 32)
	assert.Equal(t, uint64(100), decodeU64(t, request.FunctionArguments[1]))

	request, err = Transfer(sender, asset.Asset{Kind: asset.KindFungibleAsset, Metadata: "0xbeef"}, "0x2", 5)
	require.NoError(t, err)
	assert.Equal(t, "primary_fungible_store::transfer", request.FunctionName)
	assert.Len(t, request.FunctionArguments, 3)

	request, err = Transfer(sender, asset.Asset{Kind: asset.KindNFT, Object: "0xa11ce"}, "0x2", 0)
	require.NoError(t, err)
	assert.Equal(t, "object::transfer", request.FunctionName)
	assert.Equal(t, []string{"0x4::token::Token"}, request.TypeArguments)

	_, err = Transfer(sender, asset.Native, "0x2", 0)
	assert.ErrorIs(t, err, transaction.ErrConstruction)
	_, err = Transfer(sender, asset.Native, "not an address", 1)
	assert.ErrorIs(t, err, transaction.ErrConstruction)
}

func TestDecodeRaffle(t *testing.T) {
	values := []any{map[string]any{
		"id":            "3",
		"creator":       "0xc0ffee",
		"prize_kind":    float64(1),
		"prize_type":    "0xbeef",
		"prize_amount":  "250000000",
		"ticket_price":  "1000000",
		"total_tickets": "50",
		"tickets_sold":  "12",
		"end_time":      "1793491200",
		"winner":        map[string]any{"vec": []any{}},
		"status":        float64(0),
	}}

	info, err := DecodeRaffle(values)
	require.NoError(t, err)

	assert.Equal(t, uint64(3), info.ID)
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000c0ffee", info.Creator)
	assert.Equal(t, asset.KindFungibleAsset, info.Prize.Kind)
	assert.Equal(t, "0xbeef", info.Prize.Metadata)
	assert.Equal(t, uint64(250000000), info.PrizeAmount)
	assert.Equal(t, uint64(38), info.TicketsLeft())
	assert.Equal(t, int64(1793491200), info.EndTime.Unix())
	assert.Empty(t, info.Winner)
	assert.Equal(t, StatusOpen, info.Status)
	assert.True(t, info.Open(info.EndTime.Add(-time.Minute)))
	assert.False(t, info.Open(info.EndTime))
}

func TestDecodeRaffleWinnerAndLegacyLayout(t *testing.T) {
	info, err := DecodeRaffle([]any{map[string]any{
		"id":            "1",
		"prize_type":    asset.NativeCoinType,
		"prize_amount":  "1",
		"total_tickets": "2",
		"tickets_sold":  "2",
		"winner":        map[string]any{"vec": []any{"0xabc"}},
		"status":        float64(1),
	}})
	require.NoError(t, err)

	assert.Equal(t, asset.Native, info.Prize)
	assert.Equal(t, "0xabc", info.Winner)
	assert.Equal(t, "settled", info.Status.String())
	assert.Zero(t, info.TicketsLeft())

	_, err = DecodeRaffle(nil)
	assert.Error(t, err)
	_, err = DecodeRaffle([]any{map[string]any{"prize_kind": float64(9)}})
	assert.Error(t, err)
}

func TestDecodeCount(t *testing.T) {
	count, err := DecodeCount([]any{"17"})
	require.NoError(t, err)
	assert.Equal(t, uint64(17), count)

	_, err = DecodeCount([]any{})
	assert.Error(t, err)
}
