package blockchain

import (
	"context"
	"encoding/binary"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContract = "0x1111111111111111111111111111111111111111"

func uint256Word(n uint64) []byte {
	out := make([]byte, 32)
	binary.BigEndian.PutUint64(out[24:], n)
	return out
}

func boolWord(b bool) []byte {
	out := make([]byte, 32)
	if b {
		out[31] = 1
	}
	return out
}

// fakeChain answers CallView per 4-byte selector.
func fakeChain(t *testing.T, contract *CreatureContract, answers map[string][]byte) func(context.Context, string, []byte) ([]byte, error) {
	t.Helper()
	return func(_ context.Context, to string, data []byte) ([]byte, error) {
		require.Equal(t, testContract, to)
		for method, out := range answers {
			selector := contract.parsed.Methods[method].ID
			if len(data) >= 4 && string(data[:4]) == string(selector) {
				return out, nil
			}
		}
		return nil, errors.New("unexpected call")
	}
}

func newTestContract(t *testing.T) (*CreatureContract, *EVMClient) {
	t.Helper()
	client := NewEVMClientWithCallView(big.NewInt(84532), nil)
	contract, err := NewCreatureContract(client, testContract)
	require.NoError(t, err)
	return contract, client
}

func TestWalletIDDeterministicAndCaseInsensitive(t *testing.T) {
	a := WalletID("0xABCDEF0123456789ABCDEF0123456789ABCDEF01")
	b := WalletID("0xabcdef0123456789abcdef0123456789abcdef01")
	assert.Equal(t, 0, a.Cmp(b))
	assert.Equal(t, 0, a.Cmp(WalletID("0xABCDEF0123456789ABCDEF0123456789ABCDEF01")))
	assert.NotEqual(t, 0, a.Cmp(WalletID("0x0000000000000000000000000000000000000001")))
}

func TestGetNonce(t *testing.T) {
	contract, client := newTestContract(t)
	client.testCallView = fakeChain(t, contract, map[string][]byte{
		"getNonce": uint256Word(7),
	})

	nonce, err := contract.GetNonce(context.Background(), "0xABCDEF0123456789ABCDEF0123456789ABCDEF01")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), nonce)
}

func TestSupplyReads(t *testing.T) {
	contract, client := newTestContract(t)
	client.testCallView = fakeChain(t, contract, map[string][]byte{
		"totalSupply": uint256Word(123),
		"MAX_SUPPLY":  uint256Word(10000),
	})

	total, err := contract.TotalSupply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(123), total.Int64())

	max, err := contract.MaxSupply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10000), max.Int64())
}

func TestAlreadyMinted(t *testing.T) {
	contract, client := newTestContract(t)

	wallet := "0xABCDEF0123456789ABCDEF0123456789ABCDEF01"
	expectedArg := WalletID(wallet)

	client.testCallView = func(_ context.Context, to string, data []byte) ([]byte, error) {
		require.Equal(t, testContract, to)
		// The used-id argument must be the keccak of the lowercase address.
		packed, err := contract.parsed.Pack("usedWalletId", expectedArg)
		require.NoError(t, err)
		require.Equal(t, packed, data)
		return boolWord(true), nil
	}

	minted, err := contract.AlreadyMinted(context.Background(), wallet)
	require.NoError(t, err)
	assert.True(t, minted)
}

func TestAlreadyMintedFalse(t *testing.T) {
	contract, client := newTestContract(t)
	client.testCallView = fakeChain(t, contract, map[string][]byte{
		"usedWalletId": boolWord(false),
	})

	minted, err := contract.AlreadyMinted(context.Background(), "0x0000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.False(t, minted)
}

func TestContractReadRPCError(t *testing.T) {
	contract, client := newTestContract(t)
	client.testCallView = func(context.Context, string, []byte) ([]byte, error) {
		return nil, errors.New("rpc unreachable")
	}

	_, err := contract.GetNonce(context.Background(), "0x0000000000000000000000000000000000000001")
	assert.Error(t, err)
	_, err = contract.TotalSupply(context.Background())
	assert.Error(t, err)
	_, err = contract.AlreadyMinted(context.Background(), "0x0000000000000000000000000000000000000001")
	assert.Error(t, err)
}

func TestChainID(t *testing.T) {
	client := NewEVMClientWithCallView(big.NewInt(8453), nil)
	assert.Equal(t, int64(8453), client.ChainID().Int64())

	// Nil chain id falls back to 1.
	client = NewEVMClientWithCallView(nil, nil)
	assert.Equal(t, int64(1), client.ChainID().Int64())
}

func TestGetNonceArgumentEncoding(t *testing.T) {
	contract, client := newTestContract(t)
	wallet := "0xABCDEF0123456789ABCDEF0123456789ABCDEF01"

	client.testCallView = func(_ context.Context, _ string, data []byte) ([]byte, error) {
		packed, err := contract.parsed.Pack("getNonce", common.HexToAddress(wallet))
		require.NoError(t, err)
		require.Equal(t, packed, data)
		return uint256Word(0), nil
	}

	_, err := contract.GetNonce(context.Background(), wallet)
	require.NoError(t, err)
}
