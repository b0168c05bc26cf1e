package ledger

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/repomanager"
)

type TransferRequest struct {
	From      string
	To        string
	Authority string
	Amount    uint64
}

// Verifier wraps a Transferer and checks that the source balance dropped by
// exactly the requested amount. A mismatch is reported, never retried.
type Verifier struct {
	inner Transferer
}

func NewVerifier(inner Transferer) *Verifier {
	return &Verifier{inner: inner}
}

func (v *Verifier) Transfer(ctx context.Context, r repomanager.Repositories, req TransferRequest) error {
	before, err := r.Accounts().Get(ctx, req.From)
	if err != nil {
		return err
	}

	if err := v.inner.Transfer(ctx, r, req.From, req.To, req.Authority, req.Amount); err != nil {
		return err
	}

	after, err := r.Accounts().Get(ctx, req.From)
	if err != nil {
		return err
	}

	if after.Amount > before.Amount || before.Amount-after.Amount != req.Amount {
		return fmt.Errorf("%w: expected %d, moved %d", common.ErrInvalidAmountTransferred,
			req.Amount, int64(before.Amount)-int64(after.Amount))
	}
	return nil
}
