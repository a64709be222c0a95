package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/datavault/internal/errors"
	"github.com/allisson/datavault/internal/testutil"
)

func TestNewMemoryRecordRepository(t *testing.T) {
	repo := NewMemoryRecordRepository()
	assert.NotNil(t, repo)
	assert.IsType(t, &MemoryRecordRepository{}, repo)
}

func TestMemoryRecordRepository_Save(t *testing.T) {
	repo := NewMemoryRecordRepository()
	ctx := context.Background()

	record := testutil.BuildTestRecord(t, "party-123", 1)

	err := repo.Save(ctx, record)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.PartyID, got.PartyID)
	assert.Equal(t, record.Algorithm, got.Algorithm)
	assert.Equal(t, record.KeyVersion, got.KeyVersion)
	assert.Equal(t, record.PayloadCiphertext, got.PayloadCiphertext)
	assert.Equal(t, record.WrappedDek, got.WrappedDek)
}

func TestMemoryRecordRepository_Save_DuplicateID(t *testing.T) {
	repo := NewMemoryRecordRepository()
	ctx := context.Background()

	record := testutil.BuildTestRecord(t, "party-123", 1)
	require.NoError(t, repo.Save(ctx, record))

	err := repo.Save(ctx, record)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMemoryRecordRepository_GetByID_NotFound(t *testing.T) {
	repo := NewMemoryRecordRepository()
	ctx := context.Background()

	got, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, got)
}

func TestMemoryRecordRepository_List(t *testing.T) {
	repo := NewMemoryRecordRepository()
	ctx := context.Background()

	first := testutil.BuildTestRecord(t, "party-a", 1)
	require.NoError(t, repo.Save(ctx, first))
	second := testutil.BuildTestRecord(t, "party-b", 1)
	require.NoError(t, repo.Save(ctx, second))
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

func TestMemoryRecordRepository_List_Pagination(t *testing.T) {
	repo := NewMemoryRecordRepository()
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		record := testutil.BuildTestRecord(t, "party-123", 1)
		require.NoError(t, repo.Save(ctx, record))
		ids = append(ids, record.ID)
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

func TestMemoryRecordRepository_Count(t *testing.T) {
	repo := NewMemoryRecordRepository()
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

func TestMemoryRecordRepository_DeleteByID(t *testing.T) {
	repo := NewMemoryRecordRepository()
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

func TestMemoryRecordRepository_ListByKeyVersionNot(t *testing.T) {
	repo := NewMemoryRecordRepository()
	ctx := context.Background()

	oldFirst := testutil.BuildTestRecord(t, "party-a", 1)
	require.NoError(t, repo.Save(ctx, oldFirst))
	current := testutil.BuildTestRecord(t, "party-a", 2)
	require.NoError(t, repo.Save(ctx, current))
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

func TestMemoryRecordRepository_GetByID_ReturnsCopy(t *testing.T) {
	repo := NewMemoryRecordRepository()
	ctx := context.Background()

	record := testutil.BuildTestRecord(t, "party-123", 1)
	require.NoError(t, repo.Save(ctx, record))

	first, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	first.PartyID = "party-mutated"

	second, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "party-123", second.PartyID)
}
