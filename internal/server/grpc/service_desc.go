package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "gophlocker.LockerService"

// LockerServiceServer is the handler set the descriptor dispatches to.
type LockerServiceServer interface {
	InitConfig(context.Context, *InitConfigRequest) (*ConfigResponse, error)
	UpdateConfig(context.Context, *UpdateConfigRequest) (*ConfigResponse, error)
	GetConfig(context.Context, *Empty) (*ConfigResponse, error)
	CreateMint(context.Context, *CreateMintRequest) (*MintResponse, error)
	OpenAccount(context.Context, *OpenAccountRequest) (*AccountResponse, error)
	MintTo(context.Context, *MintToRequest) (*Empty, error)
	GetAccount(context.Context, *GetAccountRequest) (*AccountResponse, error)
	Transfer(context.Context, *TransferRequest) (*Empty, error)
	ListAccounts(context.Context, *Empty) (*ListAccountsResponse, error)
	CreateLocker(context.Context, *CreateLockerRequest) (*LockerResponse, error)
	Relock(context.Context, *RelockRequest) (*Empty, error)
	TransferOwnership(context.Context, *TransferOwnershipRequest) (*Empty, error)
	IncrementLock(context.Context, *IncrementLockRequest) (*Empty, error)
	WithdrawFunds(context.Context, *WithdrawFundsRequest) (*WithdrawFundsResponse, error)
	SplitLocker(context.Context, *SplitLockerRequest) (*LockerResponse, error)
	GetLocker(context.Context, *GetLockerRequest) (*LockerResponse, error)
	ListLockers(context.Context, *ListLockersRequest) (*ListLockersResponse, error)
}

var _ LockerServiceServer = (*GRPCServer)(nil)

// FullMethod returns the wire name of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](method string, call func(LockerServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(LockerServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LockerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("InitConfig", LockerServiceServer.InitConfig),
		unary("UpdateConfig", LockerServiceServer.UpdateConfig),
		unary("GetConfig", LockerServiceServer.GetConfig),
		unary("CreateMint", LockerServiceServer.CreateMint),
		unary("OpenAccount", LockerServiceServer.OpenAccount),
		unary("MintTo", LockerServiceServer.MintTo),
		unary("GetAccount", LockerServiceServer.GetAccount),
		unary("Transfer", LockerServiceServer.Transfer),
		unary("ListAccounts", LockerServiceServer.ListAccounts),
		unary("CreateLocker", LockerServiceServer.CreateLocker),
		unary("Relock", LockerServiceServer.Relock),
		unary("TransferOwnership", LockerServiceServer.TransferOwnership),
		unary("IncrementLock", LockerServiceServer.IncrementLock),
		unary("WithdrawFunds", LockerServiceServer.WithdrawFunds),
		unary("SplitLocker", LockerServiceServer.SplitLocker),
		unary("GetLocker", LockerServiceServer.GetLocker),
		unary("ListLockers", LockerServiceServer.ListLockers),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophlocker/locker.json",
}
