package main

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"aura-creatures.backend/pkg/traits"
)

func main() {
	wallets := []string{
		"0xABCDEF0123456789ABCDEF0123456789ABCDEF01",
		"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
	}

	for _, w := range wallets {
		lower := strings.ToLower(w)
		id := crypto.Keccak256([]byte(lower))
		seed, _ := traits.DeriveSeed(w)
		fmt.Printf("%s\n  walletId: 0x%x\n  seed:     %s\n", w, id, seed)
	}
}
