/*
 * Copyright (c) 2025 AgriTrust
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-28
 * Change License: AGPL-3.0
 */

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/agritrust/api-core/internal/core/domain"
	"github.com/agritrust/api-core/internal/core/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type BatchRepository struct {
	db *pgxpool.Pool
}

// Ensure we implement the interface
var _ ports.BatchRepository = (*BatchRepository)(nil)

func NewBatchRepository(db *pgxpool.Pool) *BatchRepository {
	return &BatchRepository{db: db}
}

func (r *BatchRepository) Save(ctx context.Context, b *domain.Batch) error {
	query := `
		INSERT INTO batches (
			id, product_id, product_name, quantity, unit, status,
			image_url, image_cid, nft_id, hcs_topic_id, hcs_sequence_number,
			metadata_cid, storage_location, farmer_account_id, creation_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`

	var seq *string
	if b.HCSSequenceNumber != nil {
		s := b.HCSSequenceNumber.String()
		seq = &s
	}

	_, err := r.db.Exec(ctx, query,
		b.ID,
		b.ProductID,
		b.ProductName,
		b.Quantity,
		b.Unit,
		b.Status,
		b.ImageURL,
		b.ImageCID,
		b.NFTID,
		b.HCSTopicID,
		seq,
		b.MetadataCID,
		b.StorageLocation,
		b.FarmerAccountID,
		b.CreationDate,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

func (r *BatchRepository) GetByID(ctx context.Context, id string, farmer domain.Identity) (*domain.Batch, error) {
	query := `
		SELECT id, product_id, product_name, quantity, unit, status,
		       image_url, image_cid, nft_id, hcs_topic_id, hcs_sequence_number::text,
		       metadata_cid, storage_location, farmer_account_id, creation_date
		FROM batches
		WHERE id = $1 AND farmer_account_id = $2
	`

	b, err := scanBatch(r.db.QueryRow(ctx, query, id, farmer.AccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return b, nil
}

func (r *BatchRepository) FindByFarmer(ctx context.Context, farmer domain.Identity) ([]*domain.Batch, error) {
	query := `
		SELECT id, product_id, product_name, quantity, unit, status,
		       image_url, image_cid, nft_id, hcs_topic_id, hcs_sequence_number::text,
		       metadata_cid, storage_location, farmer_account_id, creation_date
		FROM batches
		WHERE farmer_account_id = $1
		ORDER BY creation_date DESC
	`

	rows, err := r.db.Query(ctx, query, farmer.AccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var batches []*domain.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	return batches, nil
}

func scanBatch(row pgx.Row) (*domain.Batch, error) {
	var b domain.Batch
	var seq *string

	err := row.Scan(
		&b.ID,
		&b.ProductID,
		&b.ProductName,
		&b.Quantity,
		&b.Unit,
		&b.Status,
		&b.ImageURL,
		&b.ImageCID,
		&b.NFTID,
		&b.HCSTopicID,
		&seq,
		&b.MetadataCID,
		&b.StorageLocation,
		&b.FarmerAccountID,
		&b.CreationDate,
	)
	if err != nil {
		return nil, err
	}

	if seq != nil {
		b.HCSSequenceNumber, err = domain.SequenceFromString(*seq)
		if err != nil {
			return nil, err
		}
	}
	return &b, nil
}
