package store_test

import (
	"log/slog"
	"regexp"
	"testing"

	"github.com/UnknownOlympus/pakketpunt/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectSlotQuery = `
		SELECT payload
		FROM geocode_cache
		WHERE slot = $1;
	`
	upsertSlotQuery = `
		INSERT INTO geocode_cache (slot, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot) DO UPDATE
		SET
			payload = EXCLUDED.payload,
			updated_at = now();
	`
)

func TestPostgresSlot_Read(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("success - payload", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		slot := store.NewPostgresSlot(mock, store.DefaultSlotName, logger)

		mock.ExpectQuery(regexp.QuoteMeta(selectSlotQuery)).
			WithArgs(store.DefaultSlotName).
			WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(`{"1":{"lat":51.9,"lng":4.4}}`))

		payload, err := slot.Read(ctx)

		require.NoError(t, err)
		assert.JSONEq(t, `{"1":{"lat":51.9,"lng":4.4}}`, string(payload))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - no row", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		slot := store.NewPostgresSlot(mock, store.DefaultSlotName, logger)

		mock.ExpectQuery(regexp.QuoteMeta(selectSlotQuery)).
			WithArgs(store.DefaultSlotName).
			WillReturnError(pgx.ErrNoRows)

		payload, err := slot.Read(ctx)

		require.NoError(t, err)
		assert.Nil(t, payload)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - query", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		slot := store.NewPostgresSlot(mock, store.DefaultSlotName, logger)

		mock.ExpectQuery(regexp.QuoteMeta(selectSlotQuery)).
			WithArgs(store.DefaultSlotName).
			WillReturnError(assert.AnError)

		payload, err := slot.Read(ctx)

		require.Nil(t, payload)
		require.ErrorContains(t, err, "failed to read cache slot")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresSlot_Write(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	payload := `{"3":{"lat":52.09,"lng":5.12}}`

	t.Run("success - upsert", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		slot := store.NewPostgresSlot(mock, "points", logger)

		mock.ExpectExec(regexp.QuoteMeta(upsertSlotQuery)).
			WithArgs("points", payload).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, slot.Write(ctx, []byte(payload)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - upsert", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		slot := store.NewPostgresSlot(mock, "points", logger)

		mock.ExpectExec(regexp.QuoteMeta(upsertSlotQuery)).
			WithArgs("points", payload).
			WillReturnError(assert.AnError)

		err = slot.Write(ctx, []byte(payload))

		require.ErrorContains(t, err, "failed to write cache slot")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresSlot_EnsureSchema(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS geocode_cache").
			WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

		require.NoError(t, store.NewPostgresSlot(mock, "points", logger).EnsureSchema(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS geocode_cache").
			WillReturnError(assert.AnError)

		err = store.NewPostgresSlot(mock, "points", logger).EnsureSchema(ctx)
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
