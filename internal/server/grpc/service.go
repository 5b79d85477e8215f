package grpc

import (
	"context"

	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"google.golang.org/grpc"
)

const ServiceName = "clubevent.auth.AuthService"

const (
	MethodStudentLogin = "/" + ServiceName + "/StudentLogin"
	MethodAdminLogin   = "/" + ServiceName + "/AdminLogin"
	MethodFacultyLogin = "/" + ServiceName + "/FacultyLogin"
	MethodWhoAmI       = "/" + ServiceName + "/WhoAmI"
	MethodPromote      = "/" + ServiceName + "/Promote"
	MethodDemote       = "/" + ServiceName + "/Demote"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string                 `json:"token"`
	User      models.PublicPrincipal `json:"user"`
	LoginType models.Variant         `json:"loginType"`
}

type WhoAmIRequest struct{}

type WhoAmIResponse struct {
	User      models.PublicPrincipal `json:"user"`
	LoginType models.Variant         `json:"loginType"`
}

type PromoteRequest struct {
	StudentID string `json:"studentId"`
	ClubName  string `json:"clubName"`
}

type PromoteResponse struct {
	Admin models.PublicPrincipal `json:"admin"`
}

type DemoteRequest struct {
	AdminID string `json:"adminId"`
}

type DemoteResponse struct{}

// AuthServiceServer is the server API of clubevent.auth.AuthService.
type AuthServiceServer interface {
	StudentLogin(context.Context, *LoginRequest) (*LoginResponse, error)
	AdminLogin(context.Context, *LoginRequest) (*LoginResponse, error)
	FacultyLogin(context.Context, *LoginRequest) (*LoginResponse, error)
	WhoAmI(context.Context, *WhoAmIRequest) (*WhoAmIResponse, error)
	Promote(context.Context, *PromoteRequest) (*PromoteResponse, error)
	Demote(context.Context, *DemoteRequest) (*DemoteResponse, error)
}

func unary[Req, Resp any](fullMethod string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}, handler)
	}
}

// AuthServiceDesc describes the service for grpc.Server.RegisterService.
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StudentLogin", Handler: unary(MethodStudentLogin, AuthServiceServer.StudentLogin)},
		{MethodName: "AdminLogin", Handler: unary(MethodAdminLogin, AuthServiceServer.AdminLogin)},
		{MethodName: "FacultyLogin", Handler: unary(MethodFacultyLogin, AuthServiceServer.FacultyLogin)},
		{MethodName: "WhoAmI", Handler: unary(MethodWhoAmI, AuthServiceServer.WhoAmI)},
		{MethodName: "Promote", Handler: unary(MethodPromote, AuthServiceServer.Promote)},
		{MethodName: "Demote", Handler: unary(MethodDemote, AuthServiceServer.Demote)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "clubevent/auth",
}
