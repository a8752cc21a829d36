package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
)

// fakeQuerier records Exec calls and serves QueryRow from a canned row.
type fakeQuerier struct {
	execSQL  string
	execArgs []any
	execErr  error
	row      pgx.Row
}

func (f *fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return f.row
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = sql
	f.execArgs = args
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = r.values[i].(uuid.UUID)
		case *int:
			*p = r.values[i].(int)
		case *string:
			*p = r.values[i].(string)
		case *[]string:
			*p = r.values[i].([]string)
		case *[]byte:
			*p = r.values[i].([]byte)
		case *time.Time:
			*p = r.values[i].(time.Time)
		default:
			return errors.New("unexpected scan target")
		}
	}
	return nil
}

func TestNewArtifactRepository(t *testing.T) {
	repo := NewArtifactRepository(nil)
	assert.NotNil(t, repo)
	assert.Nil(t, repo.db)
}

func TestArtifactRepository_Save(t *testing.T) {
	db := &fakeQuerier{}
	repo := NewArtifactRepository(db)

	artifact, err := model.NewArtifact(model.ArtifactLoanClassifier, model.LoanSchema, []float64{1}, map[string]float64{"auc": 0.7})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), artifact))

	assert.Contains(t, db.execSQL, "ON CONFLICT (kind)")
	require.Len(t, db.execArgs, 9)
	assert.Equal(t, "loan_logit", db.execArgs[0])
	assert.Equal(t, artifact.ID, db.execArgs[1])
	assert.Equal(t, model.LoanSchema.Features, db.execArgs[5])
	assert.JSONEq(t, `{"auc":0.7}`, string(db.execArgs[6].([]byte)))
}

func TestArtifactRepository_SaveError(t *testing.T) {
	repo := NewArtifactRepository(&fakeQuerier{execErr: errors.New("connection refused")})

	artifact, err := model.NewArtifact(model.ArtifactFraudForest, model.TransactionSchema, 1, nil)
	require.NoError(t, err)
	assert.ErrorContains(t, repo.Save(context.Background(), artifact), "connection refused")
}

func TestArtifactRepository_Load(t *testing.T) {
	id := uuid.New()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	db := &fakeQuerier{row: fakeRow{values: []any{
		id, model.ArtifactFormat, model.LoanSchema.Name, model.LoanSchema.Version,
		model.LoanSchema.Features, []byte(`{"auc":0.66}`), []byte(`{"coef":[1]}`), created,
	}}}

	loaded, err := NewArtifactRepository(db).Load(context.Background(), model.ArtifactLoanClassifier)
	require.NoError(t, err)
	assert.Equal(t, id, loaded.ID)
	assert.Equal(t, 0.66, loaded.Metrics["auc"])
	assert.Equal(t, json.RawMessage(`{"coef":[1]}`), loaded.Payload)
	assert.NoError(t, loaded.Expect(model.ArtifactLoanClassifier, model.LoanSchema))
}

func TestArtifactRepository_LoadNotFound(t *testing.T) {
	db := &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}

	_, err := NewArtifactRepository(db).Load(context.Background(), model.ArtifactFraudForest)
	assert.ErrorIs(t, err, model.ErrArtifactNotFound)
}
