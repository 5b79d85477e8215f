package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/clubevent/internal/common"
	"github.com/dmitrijs2005/clubevent/internal/server/auth"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type methodPolicy struct {
	public bool
	roles  []models.Role
}

// Methods absent from the table require an authenticated caller.
var policies = map[string]methodPolicy{
	MethodStudentLogin: {public: true},
	MethodAdminLogin:   {public: true},
	MethodFacultyLogin: {public: true},
	MethodWhoAmI:       {},
	MethodPromote:      {roles: []models.Role{models.RoleFaculty}},
	MethodDemote:       {roles: []models.Role{models.RoleFaculty}},
}

func (s *GRPCServer) authInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	policy := policies[info.FullMethod]
	if policy.public {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
			header = values[0]
		}
	}

	id, err := s.auth.Resolve(ctx, header)
	if err != nil {
		if !errors.Is(err, common.ErrUnauthorized) && !errors.Is(err, common.ErrInvalidToken) {
			s.logger.Error(ctx, "resolve token", "method", info.FullMethod, "error", err)
		}
		return nil, toStatus(err)
	}

	if len(policy.roles) > 0 && !id.HasRole(policy.roles...) {
		return nil, toStatus(common.ErrForbidden)
	}

	return handler(auth.WithIdentity(ctx, id), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "grpc request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}
