package grpc

import (
	"errors"

	"github.com/dmitrijs2005/clubevent/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps the error taxonomy onto gRPC codes. Store faults and
// anything unclassified become a generic Internal.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrAccountDisabled):
		return status.Error(codes.Unauthenticated, "account is deactivated")
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "invalid credentials")
	case errors.Is(err, common.ErrAlreadyAdmin):
		return status.Error(codes.AlreadyExists, "student is already an admin")
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "missing token")
	case errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, "token is not valid")
	case errors.Is(err, common.ErrForbidden):
		return status.Error(codes.PermissionDenied, "access denied")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
