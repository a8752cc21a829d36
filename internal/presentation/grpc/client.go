package grpc

import (
	"context"
	"fmt"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Client calls a remote ScoringService with the JSON codec.
type Client struct {
	conn   *grpclib.ClientConn
	health healthpb.HealthClient
}

// NewClient connects to target. A nil creds dials without TLS; extra options
// are applied after the transport credentials.
func NewClient(target string, creds credentials.TransportCredentials, opts ...grpclib.DialOption) (*Client, error) {
	if creds == nil {
		creds = insecure.NewCredentials()
	}
	dialOpts := append([]grpclib.DialOption{grpclib.WithTransportCredentials(creds)}, opts...)

	conn, err := grpclib.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial scoring service at %s: %w", target, err)
	}
	return &Client{conn: conn, health: healthpb.NewHealthClient(conn)}, nil
}

// bearerToken attaches a fixed token to every call.
type bearerToken struct {
	token  string
	secure bool
}

func (b bearerToken) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + b.token}, nil
}

func (b bearerToken) RequireTransportSecurity() bool {
	return b.secure
}

// WithBearerToken sends token on every call. With requireTLS the client
// refuses to send it over a plaintext connection.
func WithBearerToken(token string, requireTLS bool) grpclib.DialOption {
	return grpclib.WithPerRPCCredentials(bearerToken{token: token, secure: requireTLS})
}

// ScoreFraud scores one transaction remotely.
func (c *Client) ScoreFraud(ctx context.Context, req *ScoreFraudRequest) (*ScoreFraudResponse, error) {
	resp := new(ScoreFraudResponse)
	if err := c.conn.Invoke(ctx, ScoringServiceScoreFraud, req, resp, grpclib.ForceCodecCallOption{Codec: jsonCodec{}}); err != nil {
		return nil, err
	}
	return resp, nil
}

// CheckHealth queries the standard health service for the scoring service.
func (c *Client) CheckHealth(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: ScoringServiceName})
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("scoring service not serving: %s", resp.Status)
	}
	return nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
