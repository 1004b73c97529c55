// Package verifier models the on-chain side of the rollup: the BLS
// verification library, the Merkle tree utilities and the transfer blob
// parser, written the way the contracts compute them (256-bit word
// arithmetic, EVM precompiles, 32-byte memory loads). The off-chain core
// is tested against this model for bit-exact agreement.
package verifier

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethvm "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
)

var (
	// ErrRevert is returned where the contract would revert.
	ErrRevert = errors.New("verifier: execution reverted")
)

var (
	addrECAdd     = common.BytesToAddress([]byte{0x06})
	addrECPairing = common.BytesToAddress([]byte{0x08})
)

// EVM runs contract logic against go-ethereum's precompiled contracts.
type EVM struct {
	precompiles gethvm.PrecompiledContracts
}

// istanbulRules enables every fork that changed the alt_bn128 precompiles.
func istanbulRules() params.Rules {
	zero := big.NewInt(0)
	cfg := &params.ChainConfig{
		ChainID:             big.NewInt(1),
		HomesteadBlock:      zero,
		EIP150Block:         zero,
		EIP155Block:         zero,
		EIP158Block:         zero,
		ByzantiumBlock:      zero,
		ConstantinopleBlock: zero,
		PetersburgBlock:     zero,
		IstanbulBlock:       zero,
	}
	return cfg.Rules(zero, false, 0)
}

// NewEVM returns a model backed by the Istanbul precompile set.
func NewEVM() *EVM {
	return &EVM{precompiles: gethvm.ActivePrecompiledContracts(istanbulRules())}
}

// staticcall runs the precompile at addr. A failed call reports ok=false,
// as the contract's staticcall would.
func (e *EVM) staticcall(addr common.Address, input []byte) (out []byte, ok bool) {
	p, found := e.precompiles[addr]
	if !found {
		return nil, false
	}
	out, err := p.Run(input)
	if err != nil {
		return nil, false
	}
	return out, true
}
