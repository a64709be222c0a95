package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
	"github.com/allisson/datavault/internal/database"
	apperrors "github.com/allisson/datavault/internal/errors"
)

// SQLiteRecordRepository implements EncryptedRecord persistence for SQLite
// databases. Record identifiers are stored as UUID text, which keeps rows in
// creation order under the primary key index.
type SQLiteRecordRepository struct {
	db *sql.DB
}

// Save inserts a new encrypted record into the SQLite database.
func (s *SQLiteRecordRepository) Save(
	ctx context.Context,
	record *cryptoDomain.EncryptedRecord,
) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO encrypted_records (id, party_id, algorithm, key_version, payload_ciphertext, payload_nonce, payload_tag, wrapped_dek, dek_wrap_nonce, dek_wrap_tag, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	enc := record.Encode()

	_, err := querier.ExecContext(
		ctx,
		query,
		enc.ID,
		enc.PartyID,
		enc.Algorithm,
		enc.KeyVersion,
		enc.PayloadCiphertext,
		enc.PayloadNonce,
		enc.PayloadTag,
		enc.WrappedDek,
		enc.DekWrapNonce,
		enc.DekWrapTag,
		enc.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to save record")
	}
	return nil
}

// GetByID retrieves an encrypted record by its identifier.
func (s *SQLiteRecordRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*cryptoDomain.EncryptedRecord, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT id, party_id, algorithm, key_version, payload_ciphertext, payload_nonce, payload_tag, wrapped_dek, dek_wrap_nonce, dek_wrap_tag, created_at
			  FROM encrypted_records
			  WHERE id = ?
			  LIMIT 1`

	var enc cryptoDomain.EncodedRecord
	err := querier.QueryRowContext(ctx, query, id.String()).Scan(
		&enc.ID,
		&enc.PartyID,
		&enc.Algorithm,
		&enc.KeyVersion,
		&enc.PayloadCiphertext,
		&enc.PayloadNonce,
		&enc.PayloadTag,
		&enc.WrappedDek,
		&enc.DekWrapNonce,
		&enc.DekWrapTag,
		&enc.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get record by id")
	}

	record, err := cryptoDomain.ParseEncodedRecord(enc)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode stored record")
	}

	return &record, nil
}

// List retrieves encrypted records ordered by creation, optionally filtered
// by party. An empty partyID matches every party.
func (s *SQLiteRecordRepository) List(
	ctx context.Context,
	partyID string,
	offset, limit int,
) ([]*cryptoDomain.EncryptedRecord, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT id, party_id, algorithm, key_version, payload_ciphertext, payload_nonce, payload_tag, wrapped_dek, dek_wrap_nonce, dek_wrap_tag, created_at
			  FROM encrypted_records
			  ORDER BY id
			  LIMIT ? OFFSET ?`
	args := []any{limit, offset}

	if partyID != "" {
		query = `SELECT id, party_id, algorithm, key_version, payload_ciphertext, payload_nonce, payload_tag, wrapped_dek, dek_wrap_nonce, dek_wrap_tag, created_at
				 FROM encrypted_records
				 WHERE party_id = ?
				 ORDER BY id
				 LIMIT ? OFFSET ?`
		args = []any{partyID, limit, offset}
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records")
	}
	defer rows.Close() //nolint:errcheck

	records, err := scanSQLiteRecords(rows)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Count returns the total number of encrypted records.
func (s *SQLiteRecordRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT COUNT(*) FROM encrypted_records`

	var count int64
	if err := querier.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count records")
	}

	return count, nil
}

// DeleteByID removes an encrypted record by its identifier.
func (s *SQLiteRecordRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, s.db)

	query := `DELETE FROM encrypted_records
			  WHERE id = ?`

	if _, err := querier.ExecContext(ctx, query, id.String()); err != nil {
		return apperrors.Wrap(err, "failed to delete record")
	}

	return nil
}

// ListByKeyVersionNot retrieves up to limit records whose DEK is wrapped by a
// master key generation other than keyVersion, oldest first.
func (s *SQLiteRecordRepository) ListByKeyVersionNot(
	ctx context.Context,
	keyVersion uint64,
	limit int,
) ([]*cryptoDomain.EncryptedRecord, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT id, party_id, algorithm, key_version, payload_ciphertext, payload_nonce, payload_tag, wrapped_dek, dek_wrap_nonce, dek_wrap_tag, created_at
			  FROM encrypted_records
			  WHERE key_version <> ?
			  ORDER BY id
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, keyVersion, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records by key version")
	}
	defer rows.Close() //nolint:errcheck

	records, err := scanSQLiteRecords(rows)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// scanSQLiteRecords drains a result set whose columns match the full record row.
func scanSQLiteRecords(rows *sql.Rows) ([]*cryptoDomain.EncryptedRecord, error) {
	var records []*cryptoDomain.EncryptedRecord

	for rows.Next() {
		var enc cryptoDomain.EncodedRecord

		err := rows.Scan(
			&enc.ID,
			&enc.PartyID,
			&enc.Algorithm,
			&enc.KeyVersion,
			&enc.PayloadCiphertext,
			&enc.PayloadNonce,
			&enc.PayloadTag,
			&enc.WrappedDek,
			&enc.DekWrapNonce,
			&enc.DekWrapTag,
			&enc.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan record")
		}

		record, err := cryptoDomain.ParseEncodedRecord(enc)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to decode stored record")
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate records")
	}

	return records, nil
}

// NewSQLiteRecordRepository creates a new SQLite EncryptedRecord repository instance.
func NewSQLiteRecordRepository(db *sql.DB) *SQLiteRecordRepository {
	return &SQLiteRecordRepository{db: db}
}
