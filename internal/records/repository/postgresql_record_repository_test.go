package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
	"github.com/allisson/datavault/internal/database"
	apperrors "github.com/allisson/datavault/internal/errors"
	"github.com/allisson/datavault/internal/testutil"
)

func TestNewPostgreSQLRecordRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLRecordRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLRecordRepository{}, repo)
}

func TestPostgreSQLRecordRepository_Save(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRecordRepository(db)
	ctx := context.Background()

	record := testutil.BuildTestRecord(t, "party-123", 1)

	err := repo.Save(ctx, record)
	require.NoError(t, err)

	// Verify the stored row carries the hex wire form of every binary field
	var stored cryptoDomain.EncodedRecord
	query := `SELECT id, party_id, algorithm, key_version, payload_ciphertext, payload_nonce, payload_tag, wrapped_dek, dek_wrap_nonce, dek_wrap_tag, created_at
			  FROM encrypted_records WHERE id = $1`
	err = db.QueryRowContext(ctx, query, record.ID).Scan(
		&stored.ID,
		&stored.PartyID,
		&stored.Algorithm,
		&stored.KeyVersion,
		&stored.PayloadCiphertext,
		&stored.PayloadNonce,
		&stored.PayloadTag,
		&stored.WrappedDek,
		&stored.DekWrapNonce,
		&stored.DekWrapTag,
		&stored.CreatedAt,
	)
	require.NoError(t, err)

	expected := record.Encode()
	assert.Equal(t, expected.ID, stored.ID)
	assert.Equal(t, expected.PartyID, stored.PartyID)
	assert.Equal(t, expected.Algorithm, stored.Algorithm)
	assert.Equal(t, expected.KeyVersion, stored.KeyVersion)
	assert.Equal(t, expected.PayloadCiphertext, stored.PayloadCiphertext)
	assert.Equal(t, expected.PayloadNonce, stored.PayloadNonce)
	assert.Equal(t, expected.PayloadTag, stored.PayloadTag)
	assert.Equal(t, expected.WrappedDek, stored.WrappedDek)
	assert.Equal(t, expected.DekWrapNonce, stored.DekWrapNonce)
	assert.Equal(t, expected.DekWrapTag, stored.DekWrapTag)
	assert.WithinDuration(t, record.CreatedAt, stored.CreatedAt, time.Second)
}

func TestPostgreSQLRecordRepository_GetByID(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRecordRepository(db)
	ctx := context.Background()

	record := testutil.BuildTestRecord(t, "party-123", 2)
	require.NoError(t, repo.Save(ctx, record))

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)

	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.PartyID, got.PartyID)
	assert.Equal(t, record.Algorithm, got.Algorithm)
	assert.Equal(t, record.KeyVersion, got.KeyVersion)
	assert.Equal(t, record.PayloadCiphertext, got.PayloadCiphertext)
	assert.Equal(t, record.PayloadNonce, got.PayloadNonce)
	assert.Equal(t, record.PayloadTag, got.PayloadTag)
	assert.Equal(t, record.WrappedDek, got.WrappedDek)
	assert.Equal(t, record.DekWrapNonce, got.DekWrapNonce)
	assert.Equal(t, record.DekWrapTag, got.DekWrapTag)
	assert.WithinDuration(t, record.CreatedAt, got.CreatedAt, time.Second)
}

func TestPostgreSQLRecordRepository_GetByID_NotFound(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRecordRepository(db)
	ctx := context.Background()

	got, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, got)
}

func TestPostgreSQLRecordRepository_List(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRecordRepository(db)
	ctx := context.Background()

	first := testutil.BuildTestRecord(t, "party-a", 1)
	require.NoError(t, repo.Save(ctx, first))
	time.Sleep(time.Millisecond) // Ensure different timestamps for UUIDv7 ordering
	second := testutil.BuildTestRecord(t, "party-b", 1)
	require.NoError(t, repo.Save(ctx, second))
	time.Sleep(time.Millisecond)
	third := testutil.BuildTestRecord(t, "party-a", 1)
	require.NoError(t, repo.Save(ctx, third))

	// All parties, creation order
	records, err := repo.List(ctx, "", 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)
	assert.Equal(t, third.ID, records[2].ID)

	// Filtered by party
	records, err = repo.List(ctx, "party-a", 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, third.ID, records[1].ID)

	// Unknown party
	records, err = repo.List(ctx, "party-unknown", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPostgreSQLRecordRepository_List_Pagination(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRecordRepository(db)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		record := testutil.BuildTestRecord(t, "party-123", 1)
		require.NoError(t, repo.Save(ctx, record))
		ids = append(ids, record.ID)
		time.Sleep(time.Millisecond)
	}

	records, err := repo.List(ctx, "", 1, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ids[1], records[0].ID)
	assert.Equal(t, ids[2], records[1].ID)

	// Offset past the end
	records, err = repo.List(ctx, "", 10, 2)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPostgreSQLRecordRepository_Count(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRecordRepository(db)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, testutil.BuildTestRecord(t, "party-123", 1)))
	}

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestPostgreSQLRecordRepository_DeleteByID(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRecordRepository(db)
	ctx := context.Background()

	record := testutil.BuildTestRecord(t, "party-123", 1)
	require.NoError(t, repo.Save(ctx, record))

	err := repo.DeleteByID(ctx, record.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, record.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Deleting a missing record is not an error
	err = repo.DeleteByID(ctx, uuid.Must(uuid.NewV7()))
	assert.NoError(t, err)
}

func TestPostgreSQLRecordRepository_ListByKeyVersionNot(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRecordRepository(db)
	ctx := context.Background()

	oldFirst := testutil.BuildTestRecord(t, "party-a", 1)
	require.NoError(t, repo.Save(ctx, oldFirst))
	time.Sleep(time.Millisecond)
	current := testutil.BuildTestRecord(t, "party-a", 2)
	require.NoError(t, repo.Save(ctx, current))
	time.Sleep(time.Millisecond)
	oldSecond := testutil.BuildTestRecord(t, "party-b", 1)
	require.NoError(t, repo.Save(ctx, oldSecond))

	records, err := repo.ListByKeyVersionNot(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, oldFirst.ID, records[0].ID)
	assert.Equal(t, oldSecond.ID, records[1].ID)

	// Limit caps the batch
	records, err = repo.ListByKeyVersionNot(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, oldFirst.ID, records[0].ID)

	// Everything current
	records, err = repo.ListByKeyVersionNot(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, current.ID, records[0].ID)
}

func TestPostgreSQLRecordRepository_WithTransaction(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRecordRepository(db)
	txManager := database.NewTxManager(db)
	ctx := context.Background()

	record := testutil.BuildTestRecord(t, "party-123", 1)

	// A failing transaction rolls back the save
	err := txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := repo.Save(txCtx, record); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = repo.GetByID(ctx, record.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "record should not exist after rollback")

	// A successful transaction commits the save and the delete together
	replacement := testutil.BuildTestRecord(t, "party-123", 2)
	require.NoError(t, repo.Save(ctx, record))

	err = txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := repo.Save(txCtx, replacement); err != nil {
			return err
		}
		return repo.DeleteByID(txCtx, record.ID)
	})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, record.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "old record should be deleted after commit")

	got, err := repo.GetByID(ctx, replacement.ID)
	require.NoError(t, err)
	assert.Equal(t, replacement.ID, got.ID)
}
