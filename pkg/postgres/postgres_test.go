package postgres

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Redacted(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "password is masked",
			url:  "postgres://risk:s3cret@db:5432/risk?sslmode=disable",
			want: "postgres://risk:***@db:5432/risk?sslmode=disable",
		},
		{
			name: "no password",
			url:  "postgres://risk@db:5432/risk",
			want: "postgres://risk@db:5432/risk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Config{URL: tt.url}.Redacted())
		})
	}
}

func TestSourceURL(t *testing.T) {
	got, err := SourceURL("file:///srv/migrations")
	require.NoError(t, err)
	assert.Equal(t, "file:///srv/migrations", got)

	got, err = SourceURL("migrations")
	require.NoError(t, err)
	abs, _ := filepath.Abs("migrations")
	assert.Equal(t, "file://"+filepath.ToSlash(abs), got)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	assert.NoError(t, HealthCheck(context.Background(), pingFunc(func(context.Context) error { return nil })))

	err := HealthCheck(context.Background(), pingFunc(func(context.Context) error { return errors.New("down") }))
	assert.ErrorContains(t, err, "health check")
}

func TestNewPool_InvalidURL(t *testing.T) {
	_, err := NewPool(context.Background(), Config{URL: "://nope"})
	assert.ErrorContains(t, err, "parse config")
}
