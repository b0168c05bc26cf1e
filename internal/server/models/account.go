package models

import "time"

// Account is a token balance of a single mint. Authority is the only identity
// allowed to move funds out of it; for vaults that is a derived address.
type Account struct {
	ID        string
	Mint      string
	Authority string
	Amount    uint64
	Closed    bool
	// CloseRecipient is the identity credited when the account was closed.
	CloseRecipient string
	CreatedAt      time.Time
}

// Mint describes a fungible token.
type Mint struct {
	ID        string
	Authority string
	Decimals  uint8
	Supply    uint64
	CreatedAt time.Time
}
