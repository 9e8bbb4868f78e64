package blockchain

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const codeCheckTimeout = 5 * time.Second

// HasCode reports whether the node has contract code at address in the latest block
func (d *Deployer) HasCode(ctx context.Context, address common.Address) (bool, error) {
	backend, _, err := d.connect(ctx)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, codeCheckTimeout)
	defer cancel()

	code, err := backend.CodeAt(ctx, address, nil)
	if err != nil {
		return false, err
	}
	return len(code) > 0, nil
}
