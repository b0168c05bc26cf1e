package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophlocker/internal/server/models"
	"github.com/dmitrijs2005/gophlocker/internal/server/services"
)

func (s *GRPCServer) InitConfig(ctx context.Context, req *InitConfigRequest) (*ConfigResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configs.InitConfig(ctx, caller, req.Admin, req.HasLinearEmission)
	if err != nil {
		return nil, s.toStatus(ctx, "InitConfig", err)
	}
	return toConfigResponse(cfg), nil
}

func (s *GRPCServer) UpdateConfig(ctx context.Context, req *UpdateConfigRequest) (*ConfigResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configs.UpdateConfig(ctx, caller, models.ConfigUpdate{HasLinearEmission: req.HasLinearEmission})
	if err != nil {
		return nil, s.toStatus(ctx, "UpdateConfig", err)
	}
	return toConfigResponse(cfg), nil
}

func (s *GRPCServer) GetConfig(ctx context.Context, _ *Empty) (*ConfigResponse, error) {
	cfg, err := s.configs.GetConfig(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "GetConfig", err)
	}
	return toConfigResponse(cfg), nil
}

func (s *GRPCServer) CreateMint(ctx context.Context, req *CreateMintRequest) (*MintResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	m, err := s.wallet.CreateMint(ctx, caller, req.Decimals)
	if err != nil {
		return nil, s.toStatus(ctx, "CreateMint", err)
	}
	return toMintResponse(m), nil
}

func (s *GRPCServer) OpenAccount(ctx context.Context, req *OpenAccountRequest) (*AccountResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	a, err := s.wallet.OpenAccount(ctx, caller, req.Mint)
	if err != nil {
		return nil, s.toStatus(ctx, "OpenAccount", err)
	}
	resp := toAccountResponse(a)
	return &resp, nil
}

func (s *GRPCServer) MintTo(ctx context.Context, req *MintToRequest) (*Empty, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.wallet.MintTo(ctx, caller, req.Mint, req.Account, req.Amount); err != nil {
		return nil, s.toStatus(ctx, "MintTo", err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) GetAccount(ctx context.Context, req *GetAccountRequest) (*AccountResponse, error) {
	info, err := s.wallet.GetAccount(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, "GetAccount", err)
	}
	resp := toAccountResponse(info.Account)
	resp.UIAmount = info.UIAmount
	return &resp, nil
}

func (s *GRPCServer) Transfer(ctx context.Context, req *TransferRequest) (*Empty, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.wallet.Transfer(ctx, caller, req.From, req.To, req.Amount); err != nil {
		return nil, s.toStatus(ctx, "Transfer", err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) ListAccounts(ctx context.Context, _ *Empty) (*ListAccountsResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.wallet.ListAccounts(ctx, caller)
	if err != nil {
		return nil, s.toStatus(ctx, "ListAccounts", err)
	}
	resp := &ListAccountsResponse{Accounts: make([]AccountResponse, 0, len(list))}
	for _, a := range list {
		resp.Accounts = append(resp.Accounts, toAccountResponse(a))
	}
	return resp, nil
}

func (s *GRPCServer) CreateLocker(ctx context.Context, req *CreateLockerRequest) (*LockerResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	creator := req.Creator
	if creator == "" {
		creator = caller
	}

	l, err := s.lockers.CreateLocker(ctx, caller, services.CreateLockerArgs{
		Owner:          req.Owner,
		Creator:        creator,
		FundingAccount: req.FundingAccount,
		Amount:         req.Amount,
		UnlockDate:     req.UnlockDate,
		StartEmission:  req.StartEmission,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "CreateLocker", err)
	}

	resp := toLockerResponse(l)
	resp.VaultBalance = l.DepositedAmount
	return &resp, nil
}

func (s *GRPCServer) Relock(ctx context.Context, req *RelockRequest) (*Empty, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.lockers.Relock(ctx, caller, req.LockerID, req.UnlockDate); err != nil {
		return nil, s.toStatus(ctx, "Relock", err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) TransferOwnership(ctx context.Context, req *TransferOwnershipRequest) (*Empty, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.lockers.TransferOwnership(ctx, caller, req.LockerID, req.NewOwner); err != nil {
		return nil, s.toStatus(ctx, "TransferOwnership", err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) IncrementLock(ctx context.Context, req *IncrementLockRequest) (*Empty, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.lockers.IncrementLock(ctx, caller, req.LockerID, req.FundingAccount, req.Amount); err != nil {
		return nil, s.toStatus(ctx, "IncrementLock", err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) WithdrawFunds(ctx context.Context, req *WithdrawFundsRequest) (*WithdrawFundsResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.lockers.WithdrawFunds(ctx, caller, req.LockerID, req.Amount, req.Target)
	if err != nil {
		return nil, s.toStatus(ctx, "WithdrawFunds", err)
	}
	return &WithdrawFundsResponse{Withdrawn: withdrawn}, nil
}

func (s *GRPCServer) SplitLocker(ctx context.Context, req *SplitLockerRequest) (*LockerResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	l, err := s.lockers.SplitLocker(ctx, caller, req.LockerID, req.Amount, req.NewOwner)
	if err != nil {
		return nil, s.toStatus(ctx, "SplitLocker", err)
	}
	resp := toLockerResponse(l)
	resp.VaultBalance = l.DepositedAmount
	return &resp, nil
}

func (s *GRPCServer) GetLocker(ctx context.Context, req *GetLockerRequest) (*LockerResponse, error) {
	st, err := s.lockers.GetLocker(ctx, req.LockerID)
	if err != nil {
		return nil, s.toStatus(ctx, "GetLocker", err)
	}
	return toLockerStateResponse(st), nil
}

func (s *GRPCServer) ListLockers(ctx context.Context, req *ListLockersRequest) (*ListLockersResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	var list []*models.Locker
	switch {
	case req.Creator != "":
		list, err = s.lockers.ListLockersByCreator(ctx, req.Creator)
	case req.Owner != "":
		list, err = s.lockers.ListLockersByOwner(ctx, req.Owner)
	default:
		list, err = s.lockers.ListLockersByOwner(ctx, caller)
	}
	if err != nil {
		return nil, s.toStatus(ctx, "ListLockers", err)
	}

	resp := &ListLockersResponse{Lockers: make([]LockerResponse, 0, len(list))}
	for _, l := range list {
		resp.Lockers = append(resp.Lockers, toLockerResponse(l))
	}
	return resp, nil
}
