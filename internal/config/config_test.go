package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(values map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestParseDefaults(t *testing.T) {
	c, err := parse(lookupMap(nil))
	require.NoError(t, err)

	assert.Equal(t, Testnet, c.Network.Name)
	assert.Equal(t, uint8(250), c.Network.ChainID)
	assert.Equal(t, "https://testnet.bardock.movementnetwork.xyz/v1", c.Network.NodeURL)
	assert.Equal(t, 5, c.RaffleVersion)
	assert.Equal(t, "0x1::aptos_coin::AptosCoin", c.PaymentCoin)
	assert.Equal(t, SignerDelegated, c.SignerMode)
	assert.Zero(t, c.SignerTimeout)
	assert.Equal(t, 2*time.Second, c.RefreshDelay)
	assert.Equal(t, 1.0, c.ReconcileThreshold)
	assert.Equal(t, "mome.db", c.Database)
	assert.Equal(t, "info", c.Log.Level)
	assert.False(t, c.Log.Console)
}

func TestParseOverrides(t *testing.T) {
	c, err := parse(lookupMap(map[string]string{
		"MOME_NETWORK":             "mainnet",
		"MOME_NODE_URL":            "http://localhost:8080/v1",
		"MOME_RAFFLE_VERSION":      "3",
		"MOME_SIGNER_MODE":         "native",
		"MOME_SIGNER_TIMEOUT":      "90s",
		"MOME_RECONCILE_THRESHOLD": "2.5",
		"MOME_LOG_CONSOLE":         "true",
		"MOME_RAFFLE_ADDRESS":      " 0xfeed ",
	}))
	require.NoError(t, err)

	assert.Equal(t, uint8(126), c.Network.ChainID)
	assert.Equal(t, "http://localhost:8080/v1", c.Network.NodeURL)
	assert.Equal(t, "https://indexer.mainnet.movementnetwork.xyz/v1/graphql", c.Network.IndexerURL)
	assert.Equal(t, 3, c.RaffleVersion)
	assert.Equal(t, SignerNative, c.SignerMode)
	assert.Equal(t, 90*time.Second, c.SignerTimeout)
	assert.Equal(t, 2.5, c.ReconcileThreshold)
	assert.True(t, c.Log.Console)
	assert.Equal(t, "0xfeed", c.RaffleAddress)
}

func TestParseCustomNetwork(t *testing.T) {
	_, err := parse(lookupMap(map[string]string{"MOME_NETWORK": "custom"}))
	assert.Error(t, err)

	c, err := parse(lookupMap(map[string]string{
		"MOME_NETWORK":     "custom",
		"MOME_NODE_URL":    "http://127.0.0.1:8080/v1",
		"MOME_INDEXER_URL": "http://127.0.0.1:8090/v1/graphql",
		"MOME_CHAIN_ID":    "4",
	}))
	require.NoError(t, err)
	assert.Equal(t, uint8(4), c.Network.ChainID)
	assert.Empty(t, c.ExplorerTransactionURL("0xabc"))
}

func TestParseRejectsInvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		"MOME_NETWORK":             "devnet",
		"MOME_CHAIN_ID":            "300",
		"MOME_RAFFLE_VERSION":      "five",
		"MOME_SIGNER_MODE":         "hardware",
		"MOME_SIGNER_TIMEOUT":      "-1s",
		"MOME_RECONCILE_THRESHOLD": "0",
		"MOME_REFRESH_DELAY":       "soon",
		"MOME_LOG_CONSOLE":         "maybe",
	} {
		t.Run(key, func(t *testing.T) {
			_, err := parse(lookupMap(map[string]string{key: value}))
			assert.Error(t, err)
		})
	}
}

func TestExplorerTransactionURL(t *testing.T) {
	c, err := parse(lookupMap(map[string]string{"MOME_NETWORK": "mainnet"}))
	require.NoError(t, err)
	assert.Equal(t, "https://explorer.movementnetwork.xyz/txn/0xabc?network=mainnet", c.ExplorerTransactionURL("0xabc"))

	c, err = parse(lookupMap(nil))
	require.NoError(t, err)
	assert.Equal(t, "https://explorer.movementnetwork.xyz/txn/0xabc?network=bardock+testnet", c.ExplorerTransactionURL("0xabc"))
}

func TestLoadEnvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("MOME_RAFFLE_VERSION=1\nMOME_DATABASE=from-file.db\n"), 0o600))
	t.Setenv("MOME_DATABASE", "from-env.db")

	c, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 1, c.RaffleVersion)
	assert.Equal(t, "from-env.db", c.Database)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
