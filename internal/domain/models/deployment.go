package models

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DeploymentHandle tracks a creation transaction that was submitted but not yet mined
type DeploymentHandle struct {
	ContractName string
	ArtifactPath string
	TxHash       common.Hash
	From         common.Address
	Nonce        uint64

	// PredictedAddress is derived from sender and nonce; it holds no code until mined
	PredictedAddress common.Address
	SubmittedAt      time.Time
}

// Deployment represents a confirmed contract deployment
type Deployment struct {
	ID           string         `json:"id" yaml:"id"` // "<chainId>/<address>"
	ContractName string         `json:"contractName" yaml:"contractName"`
	Address      common.Address `json:"address" yaml:"address"`
	ChainID      uint64         `json:"chainId" yaml:"chainId"`
	Network      string         `json:"network" yaml:"network"`
	Deployer     common.Address `json:"deployer" yaml:"deployer"`
	TxHash       common.Hash    `json:"txHash" yaml:"txHash"`
	BlockNumber  uint64         `json:"blockNumber" yaml:"blockNumber"`
	GasUsed      uint64         `json:"gasUsed" yaml:"gasUsed"`
	ArtifactPath string         `json:"artifactPath,omitempty" yaml:"artifactPath,omitempty"`
	CreatedAt    time.Time      `json:"createdAt" yaml:"createdAt"`
}

// DeploymentID builds the registry key of a deployment
func DeploymentID(chainID uint64, address common.Address) string {
	return fmt.Sprintf("%d/%s", chainID, address.Hex())
}
