// Package grpc exposes the locker ledger over gRPC. Messages are plain Go
// structs carried by a JSON codec; the service descriptor is declared by hand.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophlocker/internal/logging"
	"github.com/dmitrijs2005/gophlocker/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type GRPCServer struct {
	address   string
	configs   *services.ConfigService
	wallet    *services.WalletService
	lockers   *services.LockerService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(
	a string,
	l logging.Logger,
	cs *services.ConfigService,
	ws *services.WalletService,
	ls *services.LockerService,
	secretKey string,
) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		configs:   cs,
		wallet:    ws,
		lockers:   ls,
		jwtSecret: []byte(secretKey),
	}
}

// NewServer builds a grpc.Server with the locker and health services registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	srv.RegisterService(&ServiceDesc, s)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
