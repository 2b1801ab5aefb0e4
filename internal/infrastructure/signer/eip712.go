package signer

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"aura-creatures.backend/internal/domain/entities"
)

const (
	domainName    = "AuraCreatures"
	domainVersion = "1"
	primaryType   = "MintAuth"
)

// MintSigner signs mint authorizations with the collection authority key.
// The EIP-712 domain and struct layout must match the verifying contract.
type MintSigner struct {
	privateKey        *ecdsa.PrivateKey
	chainID           *big.Int
	verifyingContract string
}

// NewMintSigner creates a signer from a hex-encoded private key.
func NewMintSigner(privateKeyHex string, chainID *big.Int, verifyingContract string) (*MintSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid signer private key: %w", err)
	}
	return &MintSigner{
		privateKey:        key,
		chainID:           chainID,
		verifyingContract: verifyingContract,
	}, nil
}

// Address returns the authority address derived from the signing key.
func (s *MintSigner) Address() string {
	return crypto.PubkeyToAddress(s.privateKey.PublicKey).Hex()
}

// Sign produces the EIP-712 signature over the authorization, hex-encoded
// with the on-chain v convention (27/28).
func (s *MintSigner) Sign(auth entities.MintAuthorization) (string, error) {
	digest, err := s.digest(auth)
	if err != nil {
		return "", err
	}

	sig, err := crypto.Sign(digest, s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign authorization: %w", err)
	}
	sig[64] += 27
	return hexutil.Encode(sig), nil
}

// RecoverSigner returns the address that produced the signature over the
// authorization. Used to check signatures without chain access.
func (s *MintSigner) RecoverSigner(auth entities.MintAuthorization, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("invalid signature encoding: %w", err)
	}
	if len(sig) != 65 {
		return "", fmt.Errorf("invalid signature length %d", len(sig))
	}
	if sig[64] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[64] -= 27
	}

	digest, err := s.digest(auth)
	if err != nil {
		return "", err
	}

	pub, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return "", fmt.Errorf("failed to recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

func (s *MintSigner) digest(auth entities.MintAuthorization) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			primaryType: {
				{Name: "to", Type: "address"},
				{Name: "payer", Type: "address"},
				{Name: "walletAddress", Type: "string"},
				{Name: "tokenURI", Type: "string"},
				{Name: "nonce", Type: "uint256"},
				{Name: "deadline", Type: "uint256"},
			},
		},
		PrimaryType: primaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              domainName,
			Version:           domainVersion,
			ChainId:           (*math.HexOrDecimal256)(s.chainID),
			VerifyingContract: s.verifyingContract,
		},
		Message: apitypes.TypedDataMessage{
			"to":            auth.To,
			"payer":         auth.Payer,
			"walletAddress": auth.WalletAddress,
			"tokenURI":      auth.TokenURI,
			"nonce":         new(big.Int).SetUint64(auth.Nonce),
			"deadline":      big.NewInt(auth.Deadline),
		},
	}

	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, fmt.Errorf("failed to hash authorization: %w", err)
	}
	return digest, nil
}
