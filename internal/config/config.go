// Package config reads the client settings from the environment and an optional
// .env file. Values already in the environment win over the file.
package config

import (
	"io/fs"
	"mome/internal/asset"
	"mome/internal/balance"
	"mome/internal/blockchain"
	"mome/internal/logger"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultEnvFile = ".env"

type SignerMode string

const (
	// SignerDelegated signs the message handed out by the submitter.
	SignerDelegated SignerMode = "delegated"
	// SignerNative signs and submits in one step.
	SignerNative SignerMode = "native"
)

type Config struct {
	Network         blockchain.NetworkConfig
	ExplorerURL     string
	ExplorerNetwork string

	RaffleAddress string
	RaffleVersion int
	PaymentCoin   string

	PrivateKey    string
	SignerMode    SignerMode
	SignerTimeout time.Duration

	Database           string
	ReconcileThreshold float64
	RefreshDelay       time.Duration

	Log logger.Configuration
}

type lookupFunc func(key string) (string, bool)

// Load reads the given .env files (DefaultEnvFile when none are given; missing files
// are skipped) and then the environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{DefaultEnvFile}
	}

	fileValues := map[string]string{}
	for _, file := range files {
		values, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("config: no env file", zap.String("file", file))
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "config: cannot read %s", file)
		}
		for key, value := range values {
			if _, ok := fileValues[key]; !ok {
				fileValues[key] = value
			}
		}
	}

	return parse(func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
		value, ok := fileValues[key]
		return value, ok
	})
}

func parse(lookup lookupFunc) (*Config, error) {
	get := func(key string, fallback string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		return fallback
	}

	networkName := strings.ToLower(get("MOME_NETWORK", Testnet))
	preset, ok := presets[networkName]
	if !ok && networkName != Custom {
		return nil, errors.Errorf("config: unknown network %q", networkName)
	}

	c := &Config{
		Network:         preset.Network,
		ExplorerURL:     get("MOME_EXPLORER_URL", preset.ExplorerURL),
		ExplorerNetwork: preset.ExplorerNetwork,
		RaffleAddress:   get("MOME_RAFFLE_ADDRESS", ""),
		PaymentCoin:     get("MOME_PAYMENT_COIN", asset.NativeCoinType),
		PrivateKey:      get("MOME_PRIVATE_KEY", ""),
		SignerMode:      SignerMode(strings.ToLower(get("MOME_SIGNER_MODE", string(SignerDelegated)))),
		Database:        get("MOME_DATABASE", "mome.db"),
		Log: logger.Configuration{
			LogFile:   get("MOME_LOG_FILE", ""),
			ErrorFile: get("MOME_ERROR_FILE", ""),
			Level:     get("MOME_LOG_LEVEL", "info"),
		},
	}
	c.Network.Name = networkName
	c.Network.NodeURL = get("MOME_NODE_URL", c.Network.NodeURL)
	c.Network.IndexerURL = get("MOME_INDEXER_URL", c.Network.IndexerURL)

	var err error
	if value := get("MOME_CHAIN_ID", ""); value != "" {
		chainID, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "config: invalid MOME_CHAIN_ID %q", value)
		}
		c.Network.ChainID = uint8(chainID)
	}

	if c.RaffleVersion, err = strconv.Atoi(get("MOME_RAFFLE_VERSION", "5")); err != nil {
		return nil, errors.Wrap(err, "config: invalid MOME_RAFFLE_VERSION")
	}
	if c.SignerTimeout, err = time.ParseDuration(get("MOME_SIGNER_TIMEOUT", "0s")); err != nil {
		return nil, errors.Wrap(err, "config: invalid MOME_SIGNER_TIMEOUT")
	}
	if c.RefreshDelay, err = time.ParseDuration(get("MOME_REFRESH_DELAY", "2s")); err != nil {
		return nil, errors.Wrap(err, "config: invalid MOME_REFRESH_DELAY")
	}
	if c.ReconcileThreshold, err = strconv.ParseFloat(get("MOME_RECONCILE_THRESHOLD", strconv.FormatFloat(balance.DefaultLagThreshold, 'f', -1, 64)), 64); err != nil {
		return nil, errors.Wrap(err, "config: invalid MOME_RECONCILE_THRESHOLD")
	}
	if c.Log.Console, err = strconv.ParseBool(get("MOME_LOG_CONSOLE", "false")); err != nil {
		return nil, errors.Wrap(err, "config: invalid MOME_LOG_CONSOLE")
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Network.NodeURL == "" || c.Network.IndexerURL == "" {
		return errors.New("config: MOME_NODE_URL and MOME_INDEXER_URL are required for a custom network")
	}
	if c.Network.ChainID == 0 {
		return errors.New("config: MOME_CHAIN_ID is required for a custom network")
	}
	if c.SignerMode != SignerDelegated && c.SignerMode != SignerNative {
		return errors.Errorf("config: unknown signer mode %q", c.SignerMode)
	}
	if c.ReconcileThreshold <= 0 {
		return errors.New("config: MOME_RECONCILE_THRESHOLD must be positive")
	}
	if c.SignerTimeout < 0 || c.RefreshDelay < 0 {
		return errors.New("config: durations cannot be negative")
	}
	return nil
}

// ExplorerTransactionURL links a transaction hash on the block explorer.
func (c *Config) ExplorerTransactionURL(hash string) string {
	if c.ExplorerURL == "" {
		return ""
	}

	link := strings.TrimRight(c.ExplorerURL, "/") + "/txn/" + hash
	if c.ExplorerNetwork != "" {
		link += "?network=" + c.ExplorerNetwork
	}
	return link
}
