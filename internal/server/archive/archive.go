// Package archive keeps a copy of every closed locker outside the database.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophlocker/internal/server/models"
)

// Archiver stores a tombstone of a closed locker.
type Archiver interface {
	Archive(ctx context.Context, l *models.Locker) error
}

// Nop is used when archiving is disabled.
type Nop struct{}

func (Nop) Archive(context.Context, *models.Locker) error { return nil }

// Tombstone is the archived form of a closed locker.
type Tombstone struct {
	ID                 string    `json:"id"`
	Owner              string    `json:"owner"`
	Creator            string    `json:"creator"`
	Vault              string    `json:"vault"`
	Mint               string    `json:"mint"`
	DepositedAmount    uint64    `json:"deposited_amount"`
	CurrentUnlockDate  int64     `json:"current_unlock_date"`
	OriginalUnlockDate int64     `json:"original_unlock_date"`
	StartEmission      *int64    `json:"start_emission,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	ClosedAt           time.Time `json:"closed_at"`
}

func NewTombstone(l *models.Locker) Tombstone {
	t := Tombstone{
		ID:                 l.ID,
		Owner:              l.Owner,
		Creator:            l.Creator,
		Vault:              l.Vault,
		Mint:               l.Mint,
		DepositedAmount:    l.DepositedAmount,
		CurrentUnlockDate:  l.CurrentUnlockDate,
		OriginalUnlockDate: l.OriginalUnlockDate,
		StartEmission:      l.StartEmission,
		CreatedAt:          l.CreatedAt,
	}
	if l.ClosedAt != nil {
		t.ClosedAt = *l.ClosedAt
	}
	return t
}

// Key returns the object key a tombstone is stored under.
func Key(l *models.Locker) string {
	d := l.CreatedAt
	if l.ClosedAt != nil {
		d = *l.ClosedAt
	}
	d = d.UTC()
	return fmt.Sprintf("lockers/%04d/%02d/%02d/%s.json", d.Year(), d.Month(), d.Day(), l.ID)
}

func encode(l *models.Locker) ([]byte, error) {
	return json.Marshal(NewTombstone(l))
}
