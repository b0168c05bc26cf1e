package grpc

import (
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
	"github.com/dmitrijs2005/gophlocker/internal/server/services"
)

type Empty struct{}

type InitConfigRequest struct {
	Admin             string `json:"admin"`
	HasLinearEmission bool   `json:"has_linear_emission"`
}

type UpdateConfigRequest struct {
	HasLinearEmission *bool `json:"has_linear_emission,omitempty"`
}

type ConfigResponse struct {
	Admin             string `json:"admin"`
	HasLinearEmission bool   `json:"has_linear_emission"`
	StorageSize       int    `json:"storage_size"`
}

type CreateMintRequest struct {
	Decimals uint8 `json:"decimals"`
}

type MintResponse struct {
	ID        string `json:"id"`
	Authority string `json:"authority"`
	Decimals  uint8  `json:"decimals"`
	Supply    uint64 `json:"supply"`
}

type OpenAccountRequest struct {
	Mint string `json:"mint"`
}

type MintToRequest struct {
	Mint    string `json:"mint"`
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

type GetAccountRequest struct {
	ID string `json:"id"`
}

type TransferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type AccountResponse struct {
	ID        string `json:"id"`
	Mint      string `json:"mint"`
	Authority string `json:"authority"`
	Amount    uint64 `json:"amount"`
	UIAmount  string `json:"ui_amount,omitempty"`
	Closed    bool   `json:"closed"`
}

type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

type CreateLockerRequest struct {
	Owner string `json:"owner"`
	// Creator defaults to the caller.
	Creator        string `json:"creator,omitempty"`
	FundingAccount string `json:"funding_account"`
	Amount         uint64 `json:"amount"`
	UnlockDate     int64  `json:"unlock_date"`
	StartEmission  *int64 `json:"start_emission,omitempty"`
}

type RelockRequest struct {
	LockerID   string `json:"locker_id"`
	UnlockDate int64  `json:"unlock_date"`
}

type TransferOwnershipRequest struct {
	LockerID string `json:"locker_id"`
	NewOwner string `json:"new_owner"`
}

type IncrementLockRequest struct {
	LockerID       string `json:"locker_id"`
	FundingAccount string `json:"funding_account"`
	Amount         uint64 `json:"amount"`
}

type WithdrawFundsRequest struct {
	LockerID string `json:"locker_id"`
	Amount   uint64 `json:"amount"`
	Target   string `json:"target"`
}

type WithdrawFundsResponse struct {
	Withdrawn uint64 `json:"withdrawn"`
}

type SplitLockerRequest struct {
	LockerID string `json:"locker_id"`
	Amount   uint64 `json:"amount"`
	NewOwner string `json:"new_owner"`
}

type GetLockerRequest struct {
	LockerID string `json:"locker_id"`
}

// ListLockersRequest filters by owner or creator; with neither set the
// caller's own lockers are listed.
type ListLockersRequest struct {
	Owner   string `json:"owner,omitempty"`
	Creator string `json:"creator,omitempty"`
}

type LockerResponse struct {
	ID                 string `json:"id"`
	Owner              string `json:"owner"`
	Creator            string `json:"creator"`
	Vault              string `json:"vault"`
	Mint               string `json:"mint"`
	DepositedAmount    uint64 `json:"deposited_amount"`
	CurrentUnlockDate  int64  `json:"current_unlock_date"`
	OriginalUnlockDate int64  `json:"original_unlock_date"`
	StartEmission      *int64 `json:"start_emission,omitempty"`
	VaultBalance       uint64 `json:"vault_balance"`
	Releasable         uint64 `json:"releasable"`
	StorageSize        int    `json:"storage_size"`
}

type ListLockersResponse struct {
	Lockers []LockerResponse `json:"lockers"`
}

func toConfigResponse(c *models.Config) *ConfigResponse {
	return &ConfigResponse{Admin: c.Admin, HasLinearEmission: c.HasLinearEmission, StorageSize: models.ConfigSize}
}

func toMintResponse(m *models.Mint) *MintResponse {
	return &MintResponse{ID: m.ID, Authority: m.Authority, Decimals: m.Decimals, Supply: m.Supply}
}

func toAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{ID: a.ID, Mint: a.Mint, Authority: a.Authority, Amount: a.Amount, Closed: a.Closed}
}

func toLockerResponse(l *models.Locker) LockerResponse {
	return LockerResponse{
		ID:                 l.ID,
		Owner:              l.Owner,
		Creator:            l.Creator,
		Vault:              l.Vault,
		Mint:               l.Mint,
		DepositedAmount:    l.DepositedAmount,
		CurrentUnlockDate:  l.CurrentUnlockDate,
		OriginalUnlockDate: l.OriginalUnlockDate,
		StartEmission:      l.StartEmission,
		StorageSize:        models.LockerSize,
	}
}

func toLockerStateResponse(st *services.LockerState) *LockerResponse {
	r := toLockerResponse(st.Locker)
	r.VaultBalance = st.VaultBalance
	r.Releasable = st.Releasable
	return &r
}
