package explain

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/ashureev/quadlab/internal/solver"
	"golang.org/x/text/language"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func startSidecar(t *testing.T, backend Explainer) *GrpcClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	srv := NewServer(backend, nil)
	srv.Register(gs)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	cfg := DefaultGrpcClientConfig("passthrough:///bufnet")
	cfg.DialOptions = []grpc.DialOption{
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	}
	client, err := NewGrpcClient(cfg, nil)
	if err != nil {
		t.Fatalf("NewGrpcClient: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestGrpcRoundTrip(t *testing.T) {
	backend := &fakeExplainer{chunks: []string{"Δ = 9. ", "x = 4 or x = 1."}}
	client := startSidecar(t, backend)

	req := Request{Coefficients: solver.Coefficients{A: 1, B: -5, C: 4}, Lang: language.English}
	var sb strings.Builder
	for chunk, err := range client.Explain(context.Background(), req) {
		if err != nil {
			t.Fatalf("stream error: %v", err)
		}
		sb.WriteString(chunk.Text)
	}

	if sb.String() != "Δ = 9. x = 4 or x = 1." {
		t.Errorf("text = %q", sb.String())
	}
	backend.mu.Lock()
	got := backend.lastReq
	backend.mu.Unlock()
	if got.Coefficients != req.Coefficients || got.Lang != language.English {
		t.Errorf("sidecar saw %+v", got)
	}
}

func TestGrpcBackendErrorSurfaces(t *testing.T) {
	client := startSidecar(t, &fakeExplainer{err: errors.New("quota exceeded")})

	var gotErr error
	for _, err := range client.Explain(context.Background(), Request{Lang: language.English}) {
		if err != nil {
			gotErr = err
		}
	}
	if gotErr == nil || !strings.Contains(gotErr.Error(), "quota exceeded") {
		t.Fatalf("expected backend error, got %v", gotErr)
	}
}

func TestGrpcHealth(t *testing.T) {
	client := startSidecar(t, &fakeExplainer{})
	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if status != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v", status)
	}
}

func TestServiceOverGrpcFallsBack(t *testing.T) {
	client := startSidecar(t, &fakeExplainer{err: errors.New("down")})
	svc := NewService(client, nil, 0, nil)

	got := svc.Explain(context.Background(), Request{Coefficients: solver.Coefficients{A: 1}, Lang: language.English})
	if !got.Fallback {
		t.Errorf("expected fallback, got %+v", got)
	}
}
