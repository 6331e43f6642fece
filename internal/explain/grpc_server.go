package explain

import (
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type explainServer interface {
	explain(req *structpb.Struct, stream grpc.ServerStream) error
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*explainServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    explainStreamDesc.StreamName,
			Handler:       explainHandler,
			ServerStreams: true,
		},
	},
	Metadata: "quadlab/explain/v1/explain.proto",
}

func explainHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(explainServer).explain(in, stream)
}

// Server exposes an Explainer as the explanation sidecar service.
type Server struct {
	backend Explainer
	health  *health.Server
	logger  *slog.Logger
}

// NewServer wraps backend for serving over gRPC.
func NewServer(backend Explainer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{backend: backend, health: health.NewServer(), logger: logger}
}

// Register installs the explain and health services on gs.
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(&serviceDesc, s)
	healthpb.RegisterHealthServer(gs, s.health)
	s.health.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
}

// Shutdown marks the service as not serving.
func (s *Server) Shutdown() {
	s.health.Shutdown()
}

func (s *Server) explain(in *structpb.Struct, stream grpc.ServerStream) error {
	req := requestFromStruct(in)
	s.logger.Info("Explain request", "lang", req.Lang.String(),
		"a", req.Coefficients.A, "b", req.Coefficients.B, "c", req.Coefficients.C)

	for chunk, err := range s.backend.Explain(stream.Context(), req) {
		if err != nil {
			s.logger.Error("Explain backend failed", "error", err)
			return status.Errorf(codes.Unavailable, "explanation backend failed: %v", err)
		}
		if chunk == nil {
			continue
		}
		if err := stream.SendMsg(wrapperspb.String(chunk.Text)); err != nil {
			return err
		}
	}
	return nil
}
