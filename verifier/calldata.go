package verifier

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/snaketh4x0r/RedditHubble/wire"
)

const contractABI = `[
 {"type":"function","name":"verifySingle","stateMutability":"view",
  "inputs":[{"name":"signature","type":"uint256[2]"},{"name":"pubkey","type":"uint256[4]"},{"name":"message","type":"uint256[2]"}],
  "outputs":[{"name":"","type":"bool"},{"name":"","type":"bool"}]},
 {"type":"function","name":"verifyMultiple","stateMutability":"view",
  "inputs":[{"name":"signature","type":"uint256[2]"},{"name":"pubkeys","type":"uint256[4][]"},{"name":"messages","type":"uint256[2][]"}],
  "outputs":[{"name":"","type":"bool"},{"name":"","type":"bool"}]},
 {"type":"function","name":"register","stateMutability":"nonpayable",
  "inputs":[{"name":"pubkey","type":"uint256[4]"}],
  "outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"exists","stateMutability":"view",
  "inputs":[{"name":"accountID","type":"uint256"},{"name":"pubkey","type":"uint256[4]"},{"name":"witness","type":"bytes32[]"}],
  "outputs":[{"name":"","type":"bool"}]}
]`

// Calldata encodes calls to the verifier and registry contracts.
type Calldata struct {
	abi abi.ABI
}

func NewCalldata() (*Calldata, error) {
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("verifier: parse abi: %w", err)
	}
	return &Calldata{abi: parsed}, nil
}

func g1Arg(p wire.G1) [2]*big.Int {
	return [2]*big.Int{p[0].ToBig(), p[1].ToBig()}
}

func g2Arg(p wire.G2) [4]*big.Int {
	return [4]*big.Int{p[0].ToBig(), p[1].ToBig(), p[2].ToBig(), p[3].ToBig()}
}

func (c *Calldata) VerifySingle(sig wire.G1, pub wire.G2, msg wire.G1) ([]byte, error) {
	return c.abi.Pack("verifySingle", g1Arg(sig), g2Arg(pub), g1Arg(msg))
}

func (c *Calldata) VerifyMultiple(sig wire.G1, pubs []wire.G2, msgs []wire.G1) ([]byte, error) {
	pubArgs := make([][4]*big.Int, len(pubs))
	for i := range pubs {
		pubArgs[i] = g2Arg(pubs[i])
	}
	msgArgs := make([][2]*big.Int, len(msgs))
	for i := range msgs {
		msgArgs[i] = g1Arg(msgs[i])
	}
	return c.abi.Pack("verifyMultiple", g1Arg(sig), pubArgs, msgArgs)
}

func (c *Calldata) Register(pub wire.G2) ([]byte, error) {
	return c.abi.Pack("register", g2Arg(pub))
}

func (c *Calldata) Exists(accountID uint64, pub wire.G2, witness []common.Hash) ([]byte, error) {
	w := make([][32]byte, len(witness))
	for i := range witness {
		w[i] = witness[i]
	}
	return c.abi.Pack("exists", new(big.Int).SetUint64(accountID), g2Arg(pub), w)
}

// Selector returns the 4-byte method ID of name.
func (c *Calldata) Selector(name string) ([]byte, error) {
	m, ok := c.abi.Methods[name]
	if !ok {
		return nil, fmt.Errorf("verifier: unknown method %q", name)
	}
	return m.ID, nil
}
