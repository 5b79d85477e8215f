package grpc

import (
	"context"

	"github.com/dmitrijs2005/clubevent/internal/common"
	"github.com/dmitrijs2005/clubevent/internal/server/auth"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) login(ctx context.Context, variant models.Variant, req *LoginRequest) (*LoginResponse, error) {
	sess, err := s.auth.Login(ctx, variant, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &LoginResponse{Token: sess.Token, User: sess.Principal.Public(), LoginType: variant}, nil
}

func (s *GRPCServer) StudentLogin(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	return s.login(ctx, models.VariantStudent, req)
}

func (s *GRPCServer) AdminLogin(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	return s.login(ctx, models.VariantAdmin, req)
}

func (s *GRPCServer) FacultyLogin(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	return s.login(ctx, models.VariantFaculty, req)
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *WhoAmIRequest) (*WhoAmIResponse, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, toStatus(common.ErrUnauthorized)
	}
	return &WhoAmIResponse{User: id.Principal.Public(), LoginType: id.LoginType}, nil
}

func (s *GRPCServer) Promote(ctx context.Context, req *PromoteRequest) (*PromoteResponse, error) {
	if req.StudentID == "" {
		return nil, status.Error(codes.InvalidArgument, "student id is required")
	}
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, toStatus(common.ErrUnauthorized)
	}

	admin, err := s.promo.Promote(ctx, req.StudentID, req.ClubName, id.Principal.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &PromoteResponse{Admin: admin.Public()}, nil
}

func (s *GRPCServer) Demote(ctx context.Context, req *DemoteRequest) (*DemoteResponse, error) {
	if req.AdminID == "" {
		return nil, status.Error(codes.InvalidArgument, "admin id is required")
	}
	if err := s.promo.Demote(ctx, req.AdminID); err != nil {
		return nil, toStatus(err)
	}
	return &DemoteResponse{}, nil
}
