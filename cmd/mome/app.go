package main

import (
	"context"
	"mome/internal/balance"
	"mome/internal/blockchain"
	"mome/internal/config"
	"mome/internal/contract"
	"mome/internal/logger"
	"mome/internal/marketplace"
	"mome/internal/signer"
	"mome/internal/storage"
	"mome/internal/transaction"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var errNoPrivateKey = errors.New("MOME_PRIVATE_KEY is not set")

// app holds what one command invocation needs.
type app struct {
	service *marketplace.Service
	journal *storage.SqliteStorage
}

func newApp(c *config.Config) (*app, error) {
	logger.Debug("app: initializing...")

	client, err := blockchain.NewClient(c.Network)
	if err != nil {
		return nil, err
	}

	deps := marketplace.Dependencies{
		Chain:        client,
		Submitter:    transaction.NewSubmitter(client),
		Balances:     balance.NewFetcher(client, client, balance.Reconciler{Threshold: c.ReconcileThreshold}),
		RefreshDelay: c.RefreshDelay,
	}

	if c.RaffleAddress != "" {
		version, err := contract.ParseVersion(c.RaffleVersion)
		if err != nil {
			return nil, err
		}
		deps.Contract, err = contract.New(version, c.RaffleAddress, c.PaymentCoin)
		if err != nil {
			return nil, err
		}
	}

	if err := configureSigner(c, client, &deps); err != nil {
		return nil, err
	}

	journal, err := storage.NewSqliteStorage(c.Database)
	if err != nil {
		return nil, err
	}
	deps.Journal = journal

	service, err := marketplace.NewService(deps)
	if err != nil {
		_ = journal.Close()
		return nil, err
	}

	logger.Debug("app: initializing... done", zap.String("sender", deps.Sender), zap.String("signer", string(c.SignerMode)))
	return &app{service: service, journal: journal}, nil
}

// configureSigner picks the delegated or the native path. Without a key every write
// fails at the signing step and reads keep working.
func configureSigner(c *config.Config, client *blockchain.Client, deps *marketplace.Dependencies) error {
	if c.PrivateKey == "" {
		deps.Signer = func(context.Context, transaction.SignatureRequest) (*transaction.Signature, error) {
			return nil, errNoPrivateKey
		}
		return nil
	}

	key, err := signer.ParsePrivateKey(c.PrivateKey)
	if err != nil {
		return err
	}
	account, err := signer.Account(key)
	if err != nil {
		return err
	}
	deps.Sender = account.Address.String()

	if c.SignerMode == config.SignerNative {
		deps.Adapter = client.NativeAdapter(account)
		return nil
	}

	delegate, err := signer.Local(key)
	if err != nil {
		return err
	}
	deps.Signer = signer.WithTimeout(delegate, c.SignerTimeout)
	return nil
}

func (a *app) Close() {
	if err := a.journal.Close(); err != nil {
		logger.Warn("app: cannot close journal", zap.Error(err))
	}
}

// requireSender fails early for writes when no key is configured.
func (a *app) requireSender() error {
	if a.service.Sender() == "" {
		return errNoPrivateKey
	}
	return nil
}
