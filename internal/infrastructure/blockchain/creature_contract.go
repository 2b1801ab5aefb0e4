package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// creatureABI covers the read surface the permit issuer needs. The contract
// increments nonces itself on each successful mint; this service only reads.
const creatureABI = `[
	{"name":"getNonce","type":"function","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"totalSupply","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"MAX_SUPPLY","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"usedWalletId","type":"function","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

// CreatureContract reads mint state from the on-chain creature collection
type CreatureContract struct {
	client  *EVMClient
	address string
	parsed  abi.ABI
}

// NewCreatureContract creates a contract reader bound to one deployment
func NewCreatureContract(client *EVMClient, address string) (*CreatureContract, error) {
	parsed, err := abi.JSON(strings.NewReader(creatureABI))
	if err != nil {
		return nil, err
	}
	return &CreatureContract{
		client:  client,
		address: address,
		parsed:  parsed,
	}, nil
}

// WalletID converts a wallet address into the contract's uint256 used-id key:
// keccak256 of the lower-cased address string.
func WalletID(wallet string) *big.Int {
	hash := crypto.Keccak256Hash([]byte(strings.ToLower(wallet)))
	return new(big.Int).SetBytes(hash.Bytes())
}

// GetNonce reads the wallet's current mint nonce
func (c *CreatureContract) GetNonce(ctx context.Context, wallet string) (uint64, error) {
	val, err := c.callUint256(ctx, "getNonce", common.HexToAddress(wallet))
	if err != nil {
		return 0, err
	}
	return val.Uint64(), nil
}

// TotalSupply reads the number of minted tokens
func (c *CreatureContract) TotalSupply(ctx context.Context) (*big.Int, error) {
	return c.callUint256(ctx, "totalSupply")
}

// MaxSupply reads the collection's supply cap
func (c *CreatureContract) MaxSupply(ctx context.Context) (*big.Int, error) {
	return c.callUint256(ctx, "MAX_SUPPLY")
}

// AlreadyMinted reports whether the wallet's used-id is marked on-chain
func (c *CreatureContract) AlreadyMinted(ctx context.Context, wallet string) (bool, error) {
	data, err := c.parsed.Pack("usedWalletId", WalletID(wallet))
	if err != nil {
		return false, err
	}
	out, err := c.client.CallView(ctx, c.address, data)
	if err != nil {
		return false, err
	}
	vals, err := c.parsed.Unpack("usedWalletId", out)
	if err != nil || len(vals) == 0 {
		return false, fmt.Errorf("failed to decode bool result")
	}
	value, ok := vals[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected bool result type")
	}
	return value, nil
}

func (c *CreatureContract) callUint256(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	data, err := c.parsed.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	out, err := c.client.CallView(ctx, c.address, data)
	if err != nil {
		return nil, err
	}
	vals, err := c.parsed.Unpack(method, out)
	if err != nil || len(vals) == 0 {
		return nil, fmt.Errorf("failed to decode uint256 result")
	}
	value, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected uint256 result type")
	}
	return value, nil
}
