// Package models defines the records persisted by the locker ledger.
package models

import "time"

type LockerStatus string

const (
	LockerActive LockerStatus = "active"
	LockerClosed LockerStatus = "closed"
)

// Locker is one custody lock over the balance held in Vault.
//
// DepositedAmount is an accounting figure: it grows on create and increment,
// shrinks on split, and is left untouched by withdrawals. The vault balance
// is what remains withdrawable.
type Locker struct {
	ID                 string
	Owner              string
	Creator            string
	Vault              string
	Mint               string
	DepositedAmount    uint64
	CurrentUnlockDate  int64
	OriginalUnlockDate int64
	// StartEmission enables linear vesting between it and CurrentUnlockDate.
	StartEmission *int64
	VaultBump     uint8
	LockerBump    uint8
	Status        LockerStatus
	CreatedAt     time.Time
	ClosedAt      *time.Time
}

// Fixed record layout: discriminator, three 32-byte identities, three
// 8-byte figures, an optional timestamp (tag + 8) and two bumps.
const (
	DiscriminatorSize = 8
	IdentitySize      = 32
	LockerSize        = DiscriminatorSize + 3*IdentitySize + 3*8 + (1 + 8) + 1 + 1
)

// IsLinear reports whether the locker vests linearly.
func (l *Locker) IsLinear() bool {
	return l.StartEmission != nil
}

// IsActive reports whether the locker still holds its vault.
func (l *Locker) IsActive() bool {
	return l.Status == LockerActive
}

// Close moves the locker to its terminal state.
func (l *Locker) Close(at time.Time) {
	l.Status = LockerClosed
	l.ClosedAt = &at
}

// Clone returns a deep copy.
func (l *Locker) Clone() *Locker {
	c := *l
	if l.StartEmission != nil {
		v := *l.StartEmission
		c.StartEmission = &v
	}
	if l.ClosedAt != nil {
		v := *l.ClosedAt
		c.ClosedAt = &v
	}
	return &c
}
