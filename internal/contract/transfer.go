package contract

import (
	"mome/internal/asset"
	"mome/internal/transaction"

	"github.com/pkg/errors"
)

const frameworkAddress = "0x1"

// Transfer sends amount of a to another account. NFTs move whole, amount is ignored.
func Transfer(sender string, a asset.Asset, to string, amount uint64) (transaction.Request, error) {
	recipient, err := address(to)
	if err != nil {
		return transaction.Request{}, transferError(a, err)
	}
	if a.Kind != asset.KindNFT && amount == 0 {
		return transaction.Request{}, transferError(a, errors.New("amount must be positive"))
	}

	request := transaction.Request{
		ModuleAddress: frameworkAddress,
		SenderAddress: sender,
	}

	switch a.Kind {
	case asset.KindCoin:
		request.FunctionName = "aptos_account::transfer_coins"
		request.TypeArguments = []string{a.CoinType}
		request.FunctionArguments = [][]byte{recipient, u64(amount)}
	case asset.KindFungibleAsset:
		metadata, err := address(a.Metadata)
		if err != nil {
			return transaction.Request{}, transferError(a, err)
		}
		request.FunctionName = "primary_fungible_store::transfer"
		request.TypeArguments = []string{"0x1::fungible_asset::Metadata"}
		request.FunctionArguments = [][]byte{metadata, recipient, u64(amount)}
	case asset.KindNFT:
		object, err := address(a.Object)
		if err != nil {
			return transaction.Request{}, transferError(a, err)
		}
		request.FunctionName = "object::transfer"
		request.TypeArguments = []string{"0x4::token::Token"}
		request.FunctionArguments = [][]byte{object, recipient}
	default:
		return transaction.Request{}, transferError(a, errors.Errorf("unknown asset kind %q", a.Kind))
	}

	return request, nil
}

func transferError(a asset.Asset, err error) error {
	return &transaction.Error{
		Stage:    transaction.StageConstruction,
		Function: "transfer " + a.String(),
		Err:      err,
	}
}
