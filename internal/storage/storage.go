package storage

import "github.com/pkg/errors"

var ErrNotFound = errors.New("storage: not found")

type Storage interface {
	// transaction journal
	SaveTransaction(record *TransactionRecord) error
	Transactions(sender string, limit int) ([]*TransactionRecord, error)
	TransactionsByAction(actionType ActionType, sender string) ([]*TransactionRecord, error)

	// balance snapshot
	BalanceSnapshot(owner string, asset string) (*BalanceSnapshot, error)
	UpdateBalanceSnapshot(snapshot *BalanceSnapshot) error
	UpdateBalanceSnapshots(snapshots []*BalanceSnapshot) error

	Close() error
}

type ActionType = string

const (
	CreateRaffleActionType ActionType = "CreateRaffleActionType"
	BuyTicketsActionType   ActionType = "BuyTicketsActionType"
	ClaimPrizeActionType   ActionType = "ClaimPrizeActionType"
	CancelRaffleActionType ActionType = "CancelRaffleActionType"
	SettleRaffleActionType ActionType = "SettleRaffleActionType"
	SendActionType         ActionType = "SendActionType"
)
