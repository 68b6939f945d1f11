// Package marketplace runs the raffle marketplace actions of one account: it builds the
// contract call, hands it to the submitter, journals the outcome and reads state back.
package marketplace

import (
	"context"
	"mome/internal/asset"
	"mome/internal/balance"
	"mome/internal/contract"
	"mome/internal/logger"
	"mome/internal/storage"
	"mome/internal/transaction"
	"time"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrNoJournal = errors.New("marketplace: no transaction journal configured")

type Chain interface {
	View(ctx context.Context, payload *aptos.ViewPayload) ([]any, error)
}

type Submitter interface {
	Submit(ctx context.Context, request transaction.Request, signer transaction.SigningDelegate) (string, error)
	SubmitViaNativeAdapter(ctx context.Context, request transaction.Request, adapter transaction.SignAndSubmit) (string, error)
}

type BalanceReader interface {
	Balance(ctx context.Context, owner string, a asset.Asset) (*balance.Balance, error)
}

// Dependencies of a Service. Exactly one of Signer and Adapter is set. Journal is
// optional.
type Dependencies struct {
	Contract     *contract.Contract
	Chain        Chain
	Submitter    Submitter
	Balances     BalanceReader
	Journal      storage.Storage
	Sender       string
	Signer       transaction.SigningDelegate
	Adapter      transaction.SignAndSubmit
	RefreshDelay time.Duration
}

type Service struct {
	contract     *contract.Contract
	chain        Chain
	submitter    Submitter
	balances     BalanceReader
	journal      storage.Storage
	sender       string
	signer       transaction.SigningDelegate
	adapter      transaction.SignAndSubmit
	refreshDelay time.Duration
	newRequestID func() string
}

// Result of a write that reached finality. RequestID keys the journal record.
type Result struct {
	RequestID string
	Hash      string
}

func NewService(deps Dependencies) (*Service, error) {
	if deps.Chain == nil || deps.Submitter == nil || deps.Balances == nil {
		return nil, errors.New("marketplace: chain, submitter and balance reader are required")
	}
	if (deps.Signer == nil) == (deps.Adapter == nil) {
		return nil, errors.New("marketplace: configure either a signer or a native adapter")
	}

	return &Service{
		contract:     deps.Contract,
		chain:        deps.Chain,
		submitter:    deps.Submitter,
		balances:     deps.Balances,
		journal:      deps.Journal,
		sender:       deps.Sender,
		signer:       deps.Signer,
		adapter:      deps.Adapter,
		refreshDelay: deps.RefreshDelay,
		newRequestID: uuid.NewString,
	}, nil
}

func (s *Service) Sender() string {
	return s.sender
}

func (s *Service) raffleContract() (*contract.Contract, error) {
	if s.contract == nil {
		return nil, errors.New("marketplace: no raffle contract configured")
	}
	return s.contract, nil
}

// WaitForRefresh pauses for the configured delay so the node and indexer catch up with
// a write before state is read again.
func (s *Service) WaitForRefresh(ctx context.Context) error {
	if s.refreshDelay <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.refreshDelay):
		return nil
	}
}

func (s *Service) History(limit int) ([]*storage.TransactionRecord, error) {
	if s.journal == nil {
		return nil, ErrNoJournal
	}
	return s.journal.Transactions(s.sender, limit)
}

// HistoryByAction lists the sender's journaled writes of one action, newest first.
func (s *Service) HistoryByAction(actionType storage.ActionType) ([]*storage.TransactionRecord, error) {
	if s.journal == nil {
		return nil, ErrNoJournal
	}
	return s.journal.TransactionsByAction(actionType, s.sender)
}

// submit runs one write and journals it. The transaction outcome is returned as is;
// journal failures are only logged.
func (s *Service) submit(ctx context.Context, actionType storage.ActionType, request transaction.Request) (*Result, error) {
	record := &storage.TransactionRecord{
		RequestID:  s.newRequestID(),
		ActionType: actionType,
		Sender:     s.sender,
		Function:   request.Function(),
		Status:     storage.StatusPending,
	}
	s.record(record)

	ctx = logger.WithFields(ctx, zap.String("request id", record.RequestID), zap.String("action", actionType))
	logger.DebugContext(ctx, "marketplace: submitting...")

	var hash string
	var err error
	if s.adapter != nil {
		hash, err = s.submitter.SubmitViaNativeAdapter(ctx, request, s.adapter)
	} else {
		hash, err = s.submitter.Submit(ctx, request, s.signer)
	}

	record.Hash = hash
	record.Status = storage.StatusCommitted
	if err != nil {
		record.Status = storage.StatusFailed
		if errors.Is(err, transaction.ErrFinalityUnknown) {
			record.Status = storage.StatusPending
		}
		record.Stage = string(transaction.StageOf(err))
		record.Error = err.Error()

		var txErr *transaction.Error
		if errors.As(err, &txErr) {
			record.Hash = txErr.Hash
			record.VMStatus = txErr.VMStatus
		}
	}
	s.record(record)

	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "marketplace: submitting... done", zap.String("hash", hash))
	return &Result{RequestID: record.RequestID, Hash: hash}, nil
}

func (s *Service) record(record *storage.TransactionRecord) {
	if s.journal == nil {
		return
	}
	if err := s.journal.SaveTransaction(record); err != nil {
		logger.Warn("marketplace: cannot journal transaction", zap.String("request id", record.RequestID), zap.Error(err))
	}
}
