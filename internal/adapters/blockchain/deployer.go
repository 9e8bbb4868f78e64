package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/deployer/internal/domain"
	"github.com/trebuchet-org/deployer/internal/domain/config"
	"github.com/trebuchet-org/deployer/internal/domain/models"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// hardhatDevKey is account #0 of the Hardhat/Anvil default mnemonic
const hardhatDevKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// Backend is the part of an Ethereum client needed to deploy a contract
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// DialFunc connects to rpcURL. The returned func releases the connection.
type DialFunc func(ctx context.Context, rpcURL string) (Backend, func(), error)

// DialRPC connects with ethclient
func DialRPC(ctx context.Context, rpcURL string) (Backend, func(), error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// Deployer submits contract creation transactions to a single network
type Deployer struct {
	network *config.Network
	signer  config.SignerConfig
	dial    DialFunc
	log     *slog.Logger

	mu      sync.Mutex
	backend Backend
	closer  func()
	chainID *big.Int
}

// NewDeployer creates a deployer for the configured network. It connects on first use.
func NewDeployer(cfg *config.RuntimeConfig, dial DialFunc, log *slog.Logger) *Deployer {
	return &Deployer{
		network: cfg.Network,
		signer:  cfg.Signer,
		dial:    dial,
		log:     log.With("component", "Deployer"),
	}
}

// ProvideDeployer is the wire provider; the cleanup closes the RPC connection
func ProvideDeployer(cfg *config.RuntimeConfig, log *slog.Logger) (*Deployer, func()) {
	d := NewDeployer(cfg, DialRPC, log)
	return d, d.Close
}

func (d *Deployer) connect(ctx context.Context) (Backend, *big.Int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.backend != nil {
		return d.backend, d.chainID, nil
	}
	if d.network == nil || d.network.RPCURL == "" {
		return nil, nil, fmt.Errorf("no RPC endpoint configured")
	}

	d.log.Debug("connecting", "network", d.network.Name, "rpc", d.network.RPCURL)
	backend, closer, err := d.dial(ctx, d.network.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s (%s): %w", d.network.Name, d.network.RPCURL, err)
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		if closer != nil {
			closer()
		}
		return nil, nil, fmt.Errorf("failed to get chain ID from %s: %w", d.network.Name, err)
	}
	if d.network.ChainID != 0 && d.network.ChainID != chainID.Uint64() {
		if closer != nil {
			closer()
		}
		return nil, nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", d.network.ChainID, chainID.Uint64())
	}

	d.backend, d.closer, d.chainID = backend, closer, chainID
	return backend, chainID, nil
}

// ChainID returns the chain id reported by the node
func (d *Deployer) ChainID(ctx context.Context) (uint64, error) {
	_, chainID, err := d.connect(ctx)
	if err != nil {
		return 0, err
	}
	return chainID.Uint64(), nil
}

// Submit signs and sends the creation transaction. It does not wait for mining.
func (d *Deployer) Submit(ctx context.Context, artifact *models.Artifact, constructorData []byte) (*models.DeploymentHandle, error) {
	backend, chainID, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}

	key, err := d.signerKey(chainID.Uint64())
	if err != nil {
		return nil, err
	}

	opts := bind.NewKeyedTransactor(key, chainID)
	opts.Context = ctx

	address, tx, err := bind.DeployContract(opts, artifact.Bytecode, backend, constructorData)
	if err != nil {
		return nil, fmt.Errorf("failed to send creation transaction from %s: %w", opts.From.Hex(), err)
	}

	return &models.DeploymentHandle{
		ContractName:     artifact.Name,
		ArtifactPath:     artifact.ArtifactPath,
		TxHash:           tx.Hash(),
		From:             opts.From,
		Nonce:            tx.Nonce(),
		PredictedAddress: address,
		SubmittedAt:      time.Now(),
	}, nil
}

// WaitForConfirmation blocks until the transaction is mined or ctx is done
func (d *Deployer) WaitForConfirmation(ctx context.Context, handle *models.DeploymentHandle) (*models.Deployment, error) {
	backend, chainID, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}

	receipt, err := bind.WaitMined(ctx, backend, handle.TxHash)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", handle.TxHash.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s reverted in block %d", handle.TxHash.Hex(), receipt.BlockNumber)
	}

	address := receipt.ContractAddress
	if address == (common.Address{}) {
		address = handle.PredictedAddress
	}

	code, err := backend.CodeAt(ctx, address, receipt.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("no code at %s after transaction %s", address.Hex(), handle.TxHash.Hex())
	}

	networkName := ""
	if d.network != nil {
		networkName = d.network.Name
	}

	return &models.Deployment{
		ID:           models.DeploymentID(chainID.Uint64(), address),
		ContractName: handle.ContractName,
		Address:      address,
		ChainID:      chainID.Uint64(),
		Network:      networkName,
		Deployer:     handle.From,
		TxHash:       handle.TxHash,
		BlockNumber:  receipt.BlockNumber.Uint64(),
		GasUsed:      receipt.GasUsed,
		ArtifactPath: handle.ArtifactPath,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Close releases the RPC connection, if one was opened
func (d *Deployer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closer != nil {
		d.closer()
	}
	d.backend, d.closer, d.chainID = nil, nil, nil
}

func (d *Deployer) signerKey(chainID uint64) (*ecdsa.PrivateKey, error) {
	if d.signer.IsSet() {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(d.signer.PrivateKey, "0x"))
		if err != nil {
			// never echo the key
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		return key, nil
	}

	if chainID == domain.HardhatChainID {
		key, err := crypto.HexToECDSA(hardhatDevKey)
		if err != nil {
			return nil, err
		}
		d.log.Warn("no private key configured, using the local development account",
			"address", crypto.PubkeyToAddress(key.PublicKey).Hex())
		return key, nil
	}

	return nil, fmt.Errorf("%w for chain %d: set DEPLOYER_PRIVATE_KEY or PRIVATE_KEY", domain.ErrMissingSigner, chainID)
}

var _ usecase.ContractNetwork = (*Deployer)(nil)
