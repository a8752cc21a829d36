package grpc

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/usecase"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/telemetry"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/auth"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/tlsutil"
)

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildTestHandler() *ScoringServiceHandler {
	return NewScoringServiceHandler(
		usecase.NewScoreTransaction(service.NewHeuristicScorer(), telemetry.NewNoopRecorder()),
		testLogger(),
	)
}

func startBufconnServer(t *testing.T, cfg ServerConfig, creds credentials.TransportCredentials, opts ...grpclib.DialOption) *Client {
	t.Helper()

	srv, err := NewServer(buildTestHandler(), cfg, testLogger())
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
	client, err := NewClient("passthrough:///bufnet", creds, append([]grpclib.DialOption{dialer}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

// --- Tests ---

func TestScoringServiceHandler_ScoreFraud(t *testing.T) {
	handler := buildTestHandler()

	tests := []struct {
		name      string
		req       *ScoreFraudRequest
		wantRisk  float64
		wantLevel string
	}{
		{
			name:      "foreign high amount clamps to 100",
			req:       &ScoreFraudRequest{Amount: 1000, MerchantID: 5, DeviceScore: 0.2, DistanceFromLastKm: 3, IsForeign: 1, Hour: 14},
			wantRisk:  100.0,
			wantLevel: "CRITICAL",
		},
		{
			name:      "trusted device with no amount",
			req:       &ScoreFraudRequest{DeviceScore: 1.0},
			wantRisk:  0.0,
			wantLevel: "LOW",
		},
		{
			name:      "rounded to one decimal",
			req:       &ScoreFraudRequest{Amount: 123.45, DeviceScore: 0.55},
			wantRisk:  16.8,
			wantLevel: "LOW",
		},
		{
			name:      "is_foreign of two is not normalised",
			req:       &ScoreFraudRequest{Amount: 100, DeviceScore: 1, IsForeign: 2},
			wantRisk:  50.0,
			wantLevel: "MEDIUM",
		},
		{
			name:      "negative is_foreign is not normalised",
			req:       &ScoreFraudRequest{Amount: 500, DeviceScore: 1, IsForeign: -1},
			wantRisk:  30.0,
			wantLevel: "MEDIUM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := handler.ScoreFraud(context.Background(), tt.req)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantRisk, resp.FraudRisk, 1e-9)
			assert.Equal(t, tt.wantLevel, resp.RiskLevel)
		})
	}

	t.Run("same input yields same output", func(t *testing.T) {
		req := &ScoreFraudRequest{Amount: 420, IsForeign: 1, DeviceScore: 0.3, Hour: 2}
		first, err := handler.ScoreFraud(context.Background(), req)
		require.NoError(t, err)
		second, err := handler.ScoreFraud(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("nil request", func(t *testing.T) {
		_, err := handler.ScoreFraud(context.Background(), nil)
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestScoringService_OverTheWire(t *testing.T) {
	client := startBufconnServer(t, ServerConfig{Address: "bufnet"}, nil)
	ctx := context.Background()

	require.NoError(t, client.CheckHealth(ctx))

	resp, err := client.ScoreFraud(ctx, &ScoreFraudRequest{Amount: 1000, MerchantID: 5, DeviceScore: 0.2, DistanceFromLastKm: 3, IsForeign: 1, Hour: 14})
	require.NoError(t, err)
	assert.Equal(t, 100.0, resp.FraudRisk)
	assert.Equal(t, "CRITICAL", resp.RiskLevel)
	require.NotNil(t, resp.ScoredAt)
	assert.WithinDuration(t, time.Now(), resp.ScoredAt.AsTime(), time.Minute)
}

func TestNewServer_BadTLSFiles(t *testing.T) {
	_, err := NewServer(buildTestHandler(), ServerConfig{
		Address:     ":0",
		TLSCertFile: "/nonexistent/cert.pem",
		TLSKeyFile:  "/nonexistent/key.pem",
	}, testLogger())
	assert.ErrorContains(t, err, "TLS")
}

func TestScoringService_TLS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, tlsutil.DevCertificates([]string{"localhost"}, dir))

	creds, err := tlsutil.ClientTLSConfig(filepath.Join(dir, tlsutil.CAFile), "localhost")
	require.NoError(t, err)

	client := startBufconnServer(t, ServerConfig{
		Address:     "bufnet",
		TLSCertFile: filepath.Join(dir, tlsutil.ServerCert),
		TLSKeyFile:  filepath.Join(dir, tlsutil.ServerKeyFile),
	}, creds)

	resp, err := client.ScoreFraud(context.Background(), &ScoreFraudRequest{Amount: 100, DeviceScore: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 15.0, resp.FraudRisk)
}

func TestScoringService_Authentication(t *testing.T) {
	tokens, err := auth.NewTokenService(auth.Config{Secret: "grpc-test-secret"})
	require.NoError(t, err)
	cfg := ServerConfig{Address: "bufnet", Tokens: tokens}
	req := &ScoreFraudRequest{Amount: 100, DeviceScore: 0.5}

	t.Run("scoring client token", func(t *testing.T) {
		token, err := tokens.Issue("terminal-7", []string{auth.RoleScoringClient})
		require.NoError(t, err)
		client := startBufconnServer(t, cfg, nil, WithBearerToken(token, false))

		resp, err := client.ScoreFraud(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 15.0, resp.FraudRisk)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		client := startBufconnServer(t, cfg, nil)

		require.NoError(t, client.CheckHealth(context.Background()))
		_, err := client.ScoreFraud(context.Background(), req)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("token without a scoring role", func(t *testing.T) {
		token, err := tokens.Issue("auditor", []string{"auditor"})
		require.NoError(t, err)
		client := startBufconnServer(t, cfg, nil, WithBearerToken(token, false))

		_, err = client.ScoreFraud(context.Background(), req)
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})
}
