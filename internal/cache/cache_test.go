package cache

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrotrace/cropboard/internal/logger"
	"github.com/agrotrace/cropboard/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Store{db: db, logger: logger.Nop()}, mock
}

func TestSaveNotifications_ReplacesInOneTransaction(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notification_snapshot")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notification_snapshot (id,title,message,author,created_at) VALUES (?,?,?,?,?)")).
		WithArgs(int64(2), "Second", "m2", "alice@x.com", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notification_snapshot (id,title,message,author,created_at) VALUES (?,?,?,?,?)")).
		WithArgs(int64(1), "First", "m1", "alice@x.com", now.Add(-time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.SaveNotifications(context.Background(), []models.Notification{
		{ID: 2, Title: "Second", Message: "m2", Author: "alice@x.com", CreatedAt: now},
		{ID: 1, Title: "First", Message: "m1", Author: "alice@x.com", CreatedAt: now.Add(-time.Hour)},
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveNotifications_RollsBackOnInsertError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notification_snapshot")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notification_snapshot")).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := s.SaveNotifications(context.Background(), []models.Notification{{ID: 1, Title: "x", Message: "y"}})

	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadNotifications(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "title", "message", "author", "created_at"}).
		AddRow(int64(2), "Second", "m2", "alice@x.com", now).
		AddRow(int64(1), "First", "m1", "alice@x.com", now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, message, author, created_at FROM notification_snapshot ORDER BY created_at DESC")).
		WillReturnRows(rows)

	got, err := s.LoadNotifications(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Second", got[0].Title)
	assert.True(t, now.Equal(got[0].CreatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveBatches_ReplacesInOneTransaction(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM batch_snapshot")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO batch_snapshot (id,crop_type,variety,sowing_date,notes,blockchain_hash,is_finalized,created_at) VALUES (?,?,?,?,?,?,?,?)")).
		WithArgs("b-1", "strawberry", "albion", "2026-03-01", "", "0xabc", true, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.SaveBatches(context.Background(), []models.Batch{{
		ID: "b-1", CropType: "strawberry", Variety: "albion", SowingDate: "2026-03-01",
		BlockchainHash: "0xabc", IsFinalized: true, CreatedAt: now,
	}})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadBatches(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "crop_type", "variety", "sowing_date", "notes", "blockchain_hash", "is_finalized", "created_at"}).
		AddRow("b-1", "strawberry", "albion", "2026-03-01", "", "0xabc", true, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, crop_type, variety, sowing_date, notes, blockchain_hash, is_finalized, created_at FROM batch_snapshot ORDER BY created_at DESC")).
		WillReturnRows(rows)

	got, err := s.LoadBatches(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0xabc", got[0].BlockchainHash)
	assert.True(t, got[0].IsFinalized)
	require.NoError(t, mock.ExpectationsWereMet())
}
