package pgxrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiber-storefront/config"
)

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.value
	return nil
}

type fakeDB struct {
	row      fakeRow
	execErr  error
	lastSQL  string
	lastArgs []any
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL, f.lastArgs = sql, args
	return f.row
}

func TestCartSlotRepository_GetCartID(t *testing.T) {
	tests := []struct {
		name    string
		row     fakeRow
		want    string
		wantErr bool
	}{
		{"stored", fakeRow{value: "gid://shopify/Cart/1"}, "gid://shopify/Cart/1", false},
		{"no row", fakeRow{err: pgx.ErrNoRows}, "", false},
		{"db down", fakeRow{err: errors.New("conn closed")}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{row: tt.row}
			repo := NewCartSlotRepository(db)

			got, err := repo.GetCartID(context.Background(), "session-1")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []any{"session-1"}, db.lastArgs)
		})
	}
}

func TestCartSlotRepository_SaveCartID(t *testing.T) {
	db := &fakeDB{}
	repo := NewCartSlotRepository(db)

	require.NoError(t, repo.SaveCartID(context.Background(), "session-1", "gid://shopify/Cart/2"))
	assert.Equal(t, saveCartIDSQL, db.lastSQL)
	assert.Equal(t, []any{"session-1", "gid://shopify/Cart/2"}, db.lastArgs)

	db.execErr = errors.New("read only")
	assert.Error(t, repo.SaveCartID(context.Background(), "session-1", "x"))
}

func TestCartSlotRepository_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPgxPool(ctx, &config.Config{DBUrl: dsn, DBMaxConns: 2, DBMinConns: 0, DBMaxConnIdleTime: time.Minute})
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, EnsureSchema(ctx, pool))

	repo := NewCartSlotRepository(pool)
	session := uuid.NewString()

	id, err := repo.GetCartID(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, repo.SaveCartID(ctx, session, "gid://shopify/Cart/1"))
	require.NoError(t, repo.SaveCartID(ctx, session, "gid://shopify/Cart/2"))

	id, err = repo.GetCartID(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/2", id)
}
