package entities

// MintAuthorization is the structure signed by the mint authority. Field
// order and types mirror the verifying contract's EIP-712 struct exactly;
// changing either breaks signature verification on-chain.
type MintAuthorization struct {
	To            string `json:"to"`
	Payer         string `json:"payer"`
	WalletAddress string `json:"walletAddress"` // lowercase owner key
	TokenURI      string `json:"tokenURI"`
	Nonce         uint64 `json:"nonce"`
	Deadline      int64  `json:"deadline"` // unix seconds
}

// MintPermit is a signed mint authorization, ready for on-chain submission
// by the holder's wallet.
type MintPermit struct {
	Auth      MintAuthorization `json:"auth"`
	Signature string            `json:"signature"`
}

// PaymentProof is the canonical verified payment tuple a facilitator asserts
// for a client-supplied payment header.
type PaymentProof struct {
	Payer     string `json:"payer"`
	Amount    string `json:"amount"`
	Asset     string `json:"asset"`
	Network   string `json:"network"`
	Recipient string `json:"recipient"`
}
