// Package transaction turns an entry function call into a concluded on-chain
// transaction: build, sign through an external delegate, submit, wait for finality.
//
// Nothing here retries. A blockchain transaction is not idempotent, so every failure
// ends the call and the caller decides whether to build a new request.
package transaction

import (
	"context"
	"encoding/hex"
	"mome/internal/blockchain"
	"mome/internal/logger"
	"time"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ExpirationWindow is how long the network accepts a transaction after it is built.
const ExpirationWindow = 600 * time.Second

// FinalityMargin is how long past the expiration the wait for finality goes on, to
// cover clock skew between this host and the chain.
const FinalityMargin = 30 * time.Second

// ChainType is the chain tag handed to the signing delegate.
const ChainType = "aptos"

type SignatureRequest struct {
	Address   string
	Message   string
	ChainType string
}

type Signature struct {
	PublicKey string
	Signature string
}

// SigningDelegate signs a 0x-prefixed hex signing message on behalf of Address. It may
// block for as long as a human takes to approve the request.
type SigningDelegate func(ctx context.Context, request SignatureRequest) (*Signature, error)

// SignAndSubmit signs and submits in one step and returns the provisional hash.
// Return an error wrapping ErrSigning when the user declined.
type SignAndSubmit func(ctx context.Context, raw *aptos.RawTransaction) (string, error)

type Network interface {
	BuildTransaction(ctx context.Context, sender aptos.AccountAddress, payload aptos.TransactionPayload, expiry time.Time) (*aptos.RawTransaction, error)
	SubmitTransaction(ctx context.Context, signed *aptos.SignedTransaction) (string, error)
	WaitForTransaction(ctx context.Context, hash string) (*blockchain.Finality, error)
}

type Submitter struct {
	network Network
	now     func() time.Time
}

type Option func(*Submitter)

func WithClock(now func() time.Time) Option {
	return func(s *Submitter) {
		s.now = now
	}
}

func NewSubmitter(network Network, options ...Option) *Submitter {
	submitter := &Submitter{
		network: network,
		now:     time.Now,
	}
	for _, option := range options {
		option(submitter)
	}
	return submitter
}

// Submit runs the delegated-signing flow and returns the hash of a transaction that
// committed successfully.
func (s *Submitter) Submit(ctx context.Context, request Request, signer SigningDelegate) (string, error) {
	raw, request, err := s.build(ctx, request)
	if err != nil {
		return "", err
	}

	message, err := raw.SigningMessage()
	if err != nil {
		return "", s.fail(ctx, StageConstruction, request, "", errors.Wrap(err, "cannot derive signing message"))
	}

	logger.DebugContext(ctx, "transaction: waiting for signature...", zap.String("function", request.Function()), zap.String("sender", request.SenderAddress))
	signature, err := signer(ctx, SignatureRequest{
		Address:   request.SenderAddress,
		Message:   "0x" + hex.EncodeToString(message),
		ChainType: ChainType,
	})
	if err != nil {
		return "", s.fail(ctx, StageSigning, request, "", err)
	}
	if signature == nil {
		return "", s.fail(ctx, StageSigning, request, "", errors.New("signer returned no signature"))
	}
	logger.DebugContext(ctx, "transaction: waiting for signature... done")

	authenticator, err := newAuthenticator(signature)
	if err != nil {
		return "", s.fail(ctx, StageSigning, request, "", err)
	}

	signed, err := raw.SignedTransactionWithAuthenticator(authenticator)
	if err != nil {
		return "", s.fail(ctx, StageSigning, request, "", errors.Wrap(err, "cannot assemble signed transaction"))
	}

	hash, err := s.network.SubmitTransaction(ctx, signed)
	if err != nil {
		return "", s.fail(ctx, StageSubmission, request, "", err)
	}

	return s.finalize(ctx, request, hash)
}

// SubmitViaNativeAdapter runs the flow for wallets that sign and submit themselves.
func (s *Submitter) SubmitViaNativeAdapter(ctx context.Context, request Request, adapter SignAndSubmit) (string, error) {
	raw, request, err := s.build(ctx, request)
	if err != nil {
		return "", err
	}

	logger.DebugContext(ctx, "transaction: handing over to native adapter...", zap.String("function", request.Function()))
	hash, err := adapter(ctx, raw)
	if errors.Is(err, ErrSigning) {
		return "", s.fail(ctx, StageSigning, request, "", err)
	}
	if err != nil {
		return "", s.fail(ctx, StageSubmission, request, "", err)
	}
	if hash == "" {
		return "", s.fail(ctx, StageSubmission, request, "", errors.New("adapter returned an empty hash"))
	}

	return s.finalize(ctx, request, hash)
}

func (s *Submitter) build(ctx context.Context, request Request) (*aptos.RawTransaction, Request, error) {
	senderAddress, err := blockchain.NormalizeAddress(request.SenderAddress)
	if err != nil {
		return nil, request, s.fail(ctx, StageConstruction, request, "", err)
	}
	request.SenderAddress = senderAddress

	var sender aptos.AccountAddress
	if err := sender.ParseStringRelaxed(senderAddress); err != nil {
		return nil, request, s.fail(ctx, StageConstruction, request, "", err)
	}

	payload, err := request.payload()
	if err != nil {
		return nil, request, s.fail(ctx, StageConstruction, request, "", err)
	}

	// computed per call so a new attempt always gets a fresh window
	request.Expiry = s.now().Add(ExpirationWindow)

	logger.DebugContext(ctx, "transaction: building...", zap.String("function", request.Function()), zap.Time("expiry", request.Expiry))
	raw, err := s.network.BuildTransaction(ctx, sender, payload, request.Expiry)
	if err != nil {
		return nil, request, s.fail(ctx, StageConstruction, request, "", err)
	}
	logger.DebugContext(ctx, "transaction: building... done")

	return raw, request, nil
}

func (s *Submitter) finalize(ctx context.Context, request Request, hash string) (string, error) {
	logger.DebugContext(ctx, "transaction: waiting for finality...", zap.String("hash", hash), zap.Time("expiry", request.Expiry))

	// past the expiry the network drops the transaction, so the outcome is settled
	waitCtx, cancel := context.WithTimeout(ctx, request.Expiry.Sub(s.now())+FinalityMargin)
	defer cancel()

	finality, err := s.network.WaitForTransaction(waitCtx, hash)
	if err != nil {
		logger.WarnContext(ctx, "transaction: outcome unknown", zap.String("function", request.Function()), zap.String("hash", hash), zap.Error(err))
		return "", &Error{Stage: StageExecution, Function: request.Function(), Hash: hash, Pending: true, Err: err}
	}

	if !finality.Success {
		txErr := &Error{
			Stage:    StageExecution,
			Function: request.Function(),
			Hash:     hash,
			VMStatus: finality.VMStatus,
			Err:      errors.New(finality.VMStatus),
		}
		logger.ErrorContext(ctx, "transaction: execution failed", zap.String("function", request.Function()), zap.String("hash", hash), zap.String("vm status", finality.VMStatus))
		return "", txErr
	}

	logger.InfoContext(ctx, "transaction: committed", zap.String("function", request.Function()), zap.String("hash", hash), zap.Uint64("version", finality.Version))
	return hash, nil
}

func (s *Submitter) fail(ctx context.Context, stage Stage, request Request, hash string, err error) error {
	fields := []zap.Field{zap.String("function", request.Function()), zap.Error(err)}
	if hash != "" {
		fields = append(fields, zap.String("hash", hash))
	}

	if stage == StageSigning {
		logger.WarnContext(ctx, "transaction: signing failed", fields...)
	} else {
		logger.ErrorContext(ctx, "transaction: "+string(stage)+" failed", fields...)
	}

	return &Error{Stage: stage, Function: request.Function(), Hash: hash, Err: err}
}

func newAuthenticator(signature *Signature) (*crypto.AccountAuthenticator, error) {
	keyBytes, err := hex.DecodeString(blockchain.NormalizePublicKey(signature.PublicKey))
	if err != nil {
		return nil, errors.Wrap(err, "public key is not hex")
	}
	publicKey := &crypto.Ed25519PublicKey{}
	if err := publicKey.FromBytes(keyBytes); err != nil {
		return nil, errors.Wrap(err, "invalid public key")
	}

	signatureBytes, err := hex.DecodeString(blockchain.NormalizeSignature(signature.Signature))
	if err != nil {
		return nil, errors.Wrap(err, "signature is not hex")
	}
	ed25519Signature := &crypto.Ed25519Signature{}
	if err := ed25519Signature.FromBytes(signatureBytes); err != nil {
		return nil, errors.Wrap(err, "invalid signature")
	}

	return &crypto.AccountAuthenticator{
		Variant: crypto.AccountAuthenticatorEd25519,
		Auth: &crypto.Ed25519Authenticator{
			PubKey: publicKey,
			Sig:    ed25519Signature,
		},
	}, nil
}
