package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	code codes.Code
	errs []error
}{
	{codes.NotFound, []error{common.ErrorNotFound}},
	{codes.AlreadyExists, []error{common.ErrorAlreadyExists, common.ErrConfigAlreadyInitialized}},
	{codes.PermissionDenied, []error{
		common.ErrorUnauthorized, common.ErrSignerMismatch, common.ErrOwnerMismatch,
		common.ErrAuthorityMismatch, common.ErrVaultMismatch, common.ErrMintMismatch, common.ErrNotAdmin,
	}},
	{codes.Aborted, []error{common.ErrInvalidAmountTransferred}},
	{codes.FailedPrecondition, []error{
		common.ErrTooEarlyToWithdraw, common.ErrLinearEmissionDisabled, common.ErrInsufficientFunds,
		common.ErrAccountClosed, common.ErrNonZeroBalance,
	}},
	{codes.InvalidArgument, []error{
		common.ErrUnlockInThePast, common.ErrInvalidTimestamp, common.ErrCannotUnlockToEarlierDate,
		common.ErrStartEmissionAfterUnlock, common.ErrNothingToLock, common.ErrInvalidAmount,
		common.ErrIntegerOverflow, common.ErrMulDivOverflow, common.ErrInvalidPeriod, common.ErrInvalidOwner,
	}},
	{codes.Canceled, []error{context.Canceled}},
	{codes.DeadlineExceeded, []error{context.DeadlineExceeded}},
}

// toStatus maps a service error to a gRPC status. Unknown errors are logged
// and hidden behind codes.Internal.
func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, c := range errorCodes {
		for _, target := range c.errs {
			if errors.Is(err, target) {
				return status.Error(c.code, err.Error())
			}
		}
	}
	s.logger.Error(ctx, "request failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal error")
}
