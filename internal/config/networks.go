package config

import "mome/internal/blockchain"

const (
	Mainnet = "mainnet"
	Testnet = "testnet"
	Custom  = "custom"
)

const explorerURL = "https://explorer.movementnetwork.xyz"

type preset struct {
	Network         blockchain.NetworkConfig
	ExplorerURL     string
	ExplorerNetwork string
}

var presets = map[string]preset{
	Mainnet: {
		Network: blockchain.NetworkConfig{
			Name:       Mainnet,
			ChainID:    126,
			NodeURL:    "https://mainnet.movementnetwork.xyz/v1",
			IndexerURL: "https://indexer.mainnet.movementnetwork.xyz/v1/graphql",
		},
		ExplorerURL:     explorerURL,
		ExplorerNetwork: "mainnet",
	},
	// Bardock
	Testnet: {
		Network: blockchain.NetworkConfig{
			Name:       Testnet,
			ChainID:    250,
			NodeURL:    "https://testnet.bardock.movementnetwork.xyz/v1",
			IndexerURL: "https://indexer.testnet.movementnetwork.xyz/v1/graphql",
		},
		ExplorerURL:     explorerURL,
		ExplorerNetwork: "bardock+testnet",
	},
}
