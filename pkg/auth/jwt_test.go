package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(Config{
		Secret: "test-secret-key-for-unit-tests",
		Issuer: "risk-test",
		TTL:    15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue("analyst@bank", []string{RoleAnalyst})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "analyst@bank", claims.Subject)
	assert.Equal(t, "risk-test", claims.Issuer)
	assert.Equal(t, []string{RoleAnalyst}, claims.Roles)
	assert.NotEmpty(t, claims.ID)
}

func TestIssueAndValidate_RSA(t *testing.T) {
	priv, pub, err := GenerateKeyPair()
	require.NoError(t, err)

	issuer, err := NewTokenService(Config{PrivateKeyPEM: priv, Issuer: "risk-test"})
	require.NoError(t, err)
	verifier, err := NewTokenService(Config{PublicKeyPEM: pub, Issuer: "risk-test"})
	require.NoError(t, err)

	token, err := issuer.Issue("batch-job", []string{RoleScoringClient})
	require.NoError(t, err)

	claims, err := verifier.Validate(token)
	require.NoError(t, err)
	assert.True(t, claims.HasRole(RoleScoringClient))

	_, err = verifier.Issue("batch-job", nil)
	assert.ErrorIs(t, err, ErrNoSigningKey)
}

func TestValidate_Rejects(t *testing.T) {
	svc := newTestTokenService(t)

	expired, err := NewTokenService(Config{Secret: "test-secret-key-for-unit-tests", Issuer: "risk-test", TTL: -time.Hour})
	require.NoError(t, err)
	otherSecret, err := NewTokenService(Config{Secret: "another-secret", Issuer: "risk-test"})
	require.NoError(t, err)
	otherIssuer, err := NewTokenService(Config{Secret: "test-secret-key-for-unit-tests", Issuer: "elsewhere"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		issuer *TokenService
	}{
		{"expired", expired},
		{"wrong signature", otherSecret},
		{"wrong issuer", otherIssuer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.issuer.Issue("someone", []string{RoleAnalyst})
			require.NoError(t, err)

			_, err = svc.Validate(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidate_RejectsAlgorithmSwitch(t *testing.T) {
	priv, pub, err := GenerateKeyPair()
	require.NoError(t, err)

	rsaIssuer, err := NewTokenService(Config{PrivateKeyPEM: priv})
	require.NoError(t, err)
	token, err := rsaIssuer.Issue("someone", nil)
	require.NoError(t, err)

	hmacVerifier, err := NewTokenService(Config{Secret: string(pub)})
	require.NoError(t, err)
	_, err = hmacVerifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenService_Errors(t *testing.T) {
	_, err := NewTokenService(Config{})
	assert.Error(t, err)

	_, err = NewTokenService(Config{PublicKeyPEM: []byte("not pem")})
	assert.ErrorContains(t, err, "public key")

	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Secret: "s"}.Enabled())
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestClaims_Roles(t *testing.T) {
	claims := Claims{Roles: []string{RoleAnalyst}}

	assert.True(t, claims.HasRole(RoleAnalyst))
	assert.False(t, claims.HasRole(RoleScoringClient))
	assert.True(t, claims.HasAnyRole(nil))
	assert.True(t, claims.HasAnyRole([]string{RoleScoringClient, RoleAnalyst}))
	assert.False(t, claims.HasAnyRole([]string{RoleScoringClient}))
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	want := &Claims{Roles: []string{RoleAnalyst}}
	got, ok := ClaimsFromContext(ContextWithClaims(context.Background(), want))
	require.True(t, ok)
	assert.Same(t, want, got)
}

func TestUnaryServerInterceptor(t *testing.T) {
	svc := newTestTokenService(t)
	interceptor := UnaryServerInterceptor(svc, []string{RoleScoringClient}, "/grpc.health.v1.Health/Check")

	clientToken, err := svc.Issue("pos-terminal", []string{RoleScoringClient})
	require.NoError(t, err)
	analystToken, err := svc.Issue("analyst", []string{RoleAnalyst})
	require.NoError(t, err)

	handler := func(ctx context.Context, _ any) (any, error) {
		claims, ok := ClaimsFromContext(ctx)
		if !ok {
			return "anonymous", nil
		}
		return claims.Subject, nil
	}

	tests := []struct {
		name     string
		method   string
		header   string
		wantCode codes.Code
		wantResp any
	}{
		{"valid token", "/risk.v1.ScoringService/ScoreFraud", "Bearer " + clientToken, codes.OK, "pos-terminal"},
		{"skipped method", "/grpc.health.v1.Health/Check", "", codes.OK, "anonymous"},
		{"missing header", "/risk.v1.ScoringService/ScoreFraud", "", codes.Unauthenticated, nil},
		{"bad format", "/risk.v1.ScoringService/ScoreFraud", "Token " + clientToken, codes.Unauthenticated, nil},
		{"invalid token", "/risk.v1.ScoringService/ScoreFraud", "Bearer nope", codes.Unauthenticated, nil},
		{"wrong role", "/risk.v1.ScoringService/ScoreFraud", "Bearer " + analystToken, codes.PermissionDenied, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := metadata.MD{}
			if tt.header != "" {
				md.Set("authorization", tt.header)
			}
			ctx := metadata.NewIncomingContext(context.Background(), md)

			resp, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: tt.method}, handler)
			assert.Equal(t, tt.wantCode, status.Code(err))
			assert.Equal(t, tt.wantResp, resp)
		})
	}

	t.Run("no metadata", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/risk.v1.ScoringService/ScoreFraud"}, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})
}
