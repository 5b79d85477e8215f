// Package grpc exposes the auth core as the clubevent.auth.AuthService
// gRPC service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/clubevent/internal/logging"
	"github.com/dmitrijs2005/clubevent/internal/server/auth"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/dmitrijs2005/clubevent/internal/server/services"
	"google.golang.org/grpc"
)

// AuthService is the part of services.AuthService the gRPC server needs.
type AuthService interface {
	Login(ctx context.Context, variant models.Variant, email, password string) (*services.Session, error)
	Resolve(ctx context.Context, header string) (*auth.Identity, error)
}

// PromotionService is the part of services.PromotionService the gRPC server needs.
type PromotionService interface {
	Promote(ctx context.Context, studentID, clubName, promotedBy string) (*models.Principal, error)
	Demote(ctx context.Context, adminID string) error
}

type GRPCServer struct {
	address string
	auth    AuthService
	promo   PromotionService
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, as AuthService, ps PromotionService) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    as,
		promo:   ps,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is canceled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.authInterceptor))
	srv.RegisterService(&AuthServiceDesc, s)

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
