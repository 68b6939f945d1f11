package blockchain

import (
	"context"
	"mome/internal/logger"
	"net/http"
	"strconv"
	"time"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/api"
	"github.com/hasura/go-graphql-client"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type NetworkConfig struct {
	Name       string
	ChainID    uint8
	NodeURL    string
	IndexerURL string
}

// Finality is the concluded outcome of a submitted transaction.
type Finality struct {
	Hash     string
	Success  bool
	VMStatus string
	Version  uint64
}

// Client talks to a Movement/Aptos fullnode and its indexer.
type Client struct {
	network    NetworkConfig
	node       *aptos.Client
	indexer    *graphql.Client
	pollPeriod time.Duration
}

func NewClient(network NetworkConfig) (*Client, error) {
	logger.Debug("blockchain: initializing node client...", zap.String("network", network.Name), zap.String("node", network.NodeURL))

	node, err := aptos.NewClient(aptos.NetworkConfig{
		Name:       network.Name,
		ChainId:    network.ChainID,
		NodeUrl:    network.NodeURL,
		IndexerUrl: network.IndexerURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "blockchain: cannot create node client")
	}

	logger.Debug("blockchain: initializing node client... done")
	return &Client{
		network:    network,
		node:       node,
		indexer:    graphql.NewClient(network.IndexerURL, http.DefaultClient),
		pollPeriod: FinalityPollPeriod,
	}, nil
}

// BuildTransaction fills in sequence number, gas and chain id from the node and
// pins the expiration to the given absolute time.
func (c *Client) BuildTransaction(ctx context.Context, sender aptos.AccountAddress, payload aptos.TransactionPayload, expiry time.Time) (*aptos.RawTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := c.node.BuildTransaction(sender, payload)
	if err != nil {
		return nil, err
	}

	raw.ExpirationTimestampSeconds = uint64(expiry.Unix())
	return raw, nil
}

func (c *Client) SubmitTransaction(ctx context.Context, signed *aptos.SignedTransaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	response, err := c.node.SubmitTransaction(signed)
	if err != nil {
		return "", err
	}

	return response.Hash, nil
}

// FinalityPollPeriod is how often WaitForTransaction asks the node about a transaction
// it does not report as committed yet.
const FinalityPollPeriod = time.Second

// WaitForTransaction blocks until the node reports the transaction as committed,
// successfully or not, or until ctx ends. The node answering 404 or holding the
// transaction as pending keeps the wait going, so does a failed lookup.
func (c *Client) WaitForTransaction(ctx context.Context, hash string) (*Finality, error) {
	ticker := time.NewTicker(c.pollPeriod)
	defer ticker.Stop()

	var lastErr error
	for {
		finality, err := c.finality(hash)
		if finality != nil {
			return finality, nil
		}
		if err != nil {
			logger.Debug("blockchain: transaction lookup failed, polling again", zap.String("hash", hash), zap.Error(err))
			lastErr = err
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, errors.Wrapf(ctx.Err(), "transaction %s not committed (last lookup: %v)", hash, lastErr)
			}
			return nil, errors.Wrapf(ctx.Err(), "transaction %s not committed", hash)
		case <-ticker.C:
		}
	}
}

// finality returns nil without an error while the transaction is unknown or pending.
func (c *Client) finality(hash string) (*Finality, error) {
	transaction, err := c.node.TransactionByHash(hash)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if transaction.Type == api.TransactionVariantPending {
		return nil, nil
	}

	user, err := transaction.UserTransaction()
	if err != nil {
		return nil, errors.Wrapf(err, "transaction %s", hash)
	}
	return &Finality{
		Hash:     user.Hash,
		Success:  user.Success,
		VMStatus: user.VmStatus,
		Version:  user.Version,
	}, nil
}

// NativeAdapter signs with a locally held account and submits in one step.
func (c *Client) NativeAdapter(account *aptos.Account) func(context.Context, *aptos.RawTransaction) (string, error) {
	return func(ctx context.Context, raw *aptos.RawTransaction) (string, error) {
		signed, err := raw.SignedTransaction(account)
		if err != nil {
			return "", errors.Wrap(err, "native adapter: cannot sign transaction")
		}

		return c.SubmitTransaction(ctx, signed)
	}
}

func (c *Client) View(ctx context.Context, payload *aptos.ViewPayload) ([]any, error) {
	return rateLimitRetry(ctx, func() ([]any, error) {
		return c.node.View(payload)
	})
}

// CoinBalance reads the legacy CoinStore resource. An account without the resource
// holds none of the coin.
func (c *Client) CoinBalance(ctx context.Context, owner string, coinType string) (uint64, error) {
	var address aptos.AccountAddress
	if err := address.ParseStringRelaxed(owner); err != nil {
		return 0, errors.Wrapf(err, "coin balance: invalid owner %q", owner)
	}

	resourceType := "0x1::coin::CoinStore<" + coinType + ">"
	resource, err := rateLimitRetry(ctx, func() (map[string]any, error) {
		return c.node.AccountResource(address, resourceType)
	})
	if isNotFound(err) {
		logger.Debug("coin balance: no coin store", zap.String("owner", owner), zap.String("coin", coinType))
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "coin balance: cannot read %s", resourceType)
	}

	return coinStoreValue(resource)
}

func coinStoreValue(resource map[string]any) (uint64, error) {
	data, ok := resource["data"].(map[string]any)
	if !ok {
		data = resource
	}

	coin, ok := data["coin"].(map[string]any)
	if !ok {
		return 0, errors.New("coin balance: coin store without coin field")
	}

	value, ok := coin["value"].(string)
	if !ok {
		return 0, errors.New("coin balance: coin value is not a string")
	}

	amount, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "coin balance: invalid coin value %q", value)
	}
	return amount, nil
}

func (c *Client) Network() NetworkConfig {
	return c.network
}
