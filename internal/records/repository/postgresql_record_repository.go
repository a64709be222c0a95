// Package repository implements encrypted record persistence.
// Repositories store the hex wire form of each record and support in-memory,
// SQLite, PostgreSQL, and MySQL backends behind a common interface.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
	"github.com/allisson/datavault/internal/database"
	apperrors "github.com/allisson/datavault/internal/errors"
)

// PostgreSQLRecordRepository implements EncryptedRecord persistence for PostgreSQL databases.
type PostgreSQLRecordRepository struct {
	db *sql.DB
}

// Save inserts a new encrypted record into the PostgreSQL database.
func (p *PostgreSQLRecordRepository) Save(
	ctx context.Context,
	record *cryptoDomain.EncryptedRecord,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO encrypted_records (id, party_id, algorithm, key_version, payload_ciphertext, payload_nonce, payload_tag, wrapped_dek, dek_wrap_nonce, dek_wrap_tag, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

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
func (p *PostgreSQLRecordRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*cryptoDomain.EncryptedRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, party_id, algorithm, key_version, payload_ciphertext, payload_nonce, payload_tag, wrapped_dek, dek_wrap_nonce, dek_wrap_tag, created_at
			  FROM encrypted_records
			  WHERE id = $1
			  LIMIT 1`

	var enc cryptoDomain.EncodedRecord
	err := querier.QueryRowContext(ctx, query, id).Scan(
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
func (p *PostgreSQLRecordRepository) List(
	ctx context.Context,
	partyID string,
	offset, limit int,
) ([]*cryptoDomain.EncryptedRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, party_id, algorithm, key_version, payload_ciphertext, payload_nonce, payload_tag, wrapped_dek, dek_wrap_nonce, dek_wrap_tag, created_at
			  FROM encrypted_records
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	args := []any{limit, offset}

	if partyID != "" {
		query = `SELECT id, party_id, algorithm, key_version, payload_ciphertext, payload_nonce, payload_tag, wrapped_dek, dek_wrap_nonce, dek_wrap_tag, created_at
				 FROM encrypted_records
				 WHERE party_id = $1
				 ORDER BY id
				 LIMIT $2 OFFSET $3`
		args = []any{partyID, limit, offset}
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records")
	}
	defer rows.Close() //nolint:errcheck

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

// Count returns the total number of encrypted records.
func (p *PostgreSQLRecordRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM encrypted_records`

	var count int64
	if err := querier.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count records")
	}

	return count, nil
}

// DeleteByID removes an encrypted record by its identifier.
func (p *PostgreSQLRecordRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM encrypted_records
			  WHERE id = $1`

	if _, err := querier.ExecContext(ctx, query, id); err != nil {
		return apperrors.Wrap(err, "failed to delete record")
	}

	return nil
}

// ListByKeyVersionNot retrieves up to limit records whose DEK is wrapped by a
// master key generation other than keyVersion, oldest first.
func (p *PostgreSQLRecordRepository) ListByKeyVersionNot(
	ctx context.Context,
	keyVersion uint64,
	limit int,
) ([]*cryptoDomain.EncryptedRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, party_id, algorithm, key_version, payload_ciphertext, payload_nonce, payload_tag, wrapped_dek, dek_wrap_nonce, dek_wrap_tag, created_at
			  FROM encrypted_records
			  WHERE key_version <> $1
			  ORDER BY id
			  LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, keyVersion, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records by key version")
	}
	defer rows.Close() //nolint:errcheck

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

// NewPostgreSQLRecordRepository creates a new PostgreSQL EncryptedRecord repository instance.
func NewPostgreSQLRecordRepository(db *sql.DB) *PostgreSQLRecordRepository {
	return &PostgreSQLRecordRepository{db: db}
}
