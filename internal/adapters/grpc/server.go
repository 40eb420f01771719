package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/campaigngrade-hub/campaigngrade1/internal/application"
	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
)

const serviceName = "campaigngrade.directory.v1.DirectoryInternalService"

// DirectoryInternalService is the internal RPC surface other services use to
// check sessions and read firm ratings without going through the public API.
type DirectoryInternalService interface {
	ValidateToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetFirmStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type directoryReader interface {
	Authenticate(ctx context.Context, rawToken string) (domain.Actor, error)
	GetFirmPage(ctx context.Context, slug, sortBy string) (application.FirmPageResponse, error)
}

type DirectoryInternalServer struct {
	service directoryReader
}

func NewDirectoryInternalServer(service directoryReader) *DirectoryInternalServer {
	return &DirectoryInternalServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc DirectoryInternalService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*DirectoryInternalService)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "ValidateToken", Handler: unaryHandler("ValidateToken", svc.ValidateToken)},
			{MethodName: "GetFirmStats", Handler: unaryHandler("GetFirmStats", svc.GetFirmStats)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "campaigngrade/directory/v1/directory_internal.proto",
	}, svc)
}

func (s *DirectoryInternalServer) ValidateToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token := req.GetFields()["token"].GetStringValue()
	if token == "" {
		return nil, status.Error(codes.InvalidArgument, "missing token")
	}
	actor, err := s.service.Authenticate(ctx, token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}
	resp, err := structpb.NewStruct(map[string]any{
		"valid":       true,
		"profile_id":  actor.ProfileID.String(),
		"email":       actor.Email,
		"role":        string(actor.Role),
		"is_verified": actor.IsVerified,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func (s *DirectoryInternalServer) GetFirmStats(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	slug := req.GetFields()["slug"].GetStringValue()
	if slug == "" {
		return nil, status.Error(codes.InvalidArgument, "missing slug")
	}
	page, err := s.service.GetFirmPage(ctx, slug, "")
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "firm not found")
		}
		return nil, status.Errorf(codes.Internal, "load firm: %v", err)
	}
	fields := map[string]any{
		"firm_id":        page.Firm.ID.String(),
		"slug":           page.Firm.Slug,
		"name":           page.Firm.Name,
		"avg_rating":     0.0,
		"review_count":   0,
		"hire_again_pct": 0,
	}
	if stats := page.Firm.Stats; stats != nil {
		fields["avg_rating"] = stats.AvgRating
		fields["review_count"] = stats.ReviewCount
		fields["hire_again_pct"] = stats.HireAgainPct
	}
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func unaryHandler(method string, call func(context.Context, *structpb.Struct) (*structpb.Struct, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + serviceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}
