/*
 * Copyright (c) 2025 AgriTrust
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-28
 * Change License: AGPL-3.0
 */

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BatchStatus represents the lifecycle state of a registered batch.
type BatchStatus string

const (
	StatusRegistered     BatchStatus = "Registered" // Initial state, always
	StatusVerifying      BatchStatus = "Verifying"
	StatusCertified      BatchStatus = "Certified"
	StatusListed         BatchStatus = "Listed"
	StatusInTransit      BatchStatus = "In Transit"
	StatusSold           BatchStatus = "Sold"
	StatusNeedsAttention BatchStatus = "Needs Attention"
)

// EventTypeBatchCreated tags the ledger event published on registration.
const EventTypeBatchCreated = "BATCH_CREATED"

// Placeholder references used when the content store is unavailable or no
// image was supplied. The workflow never blocks on image availability.
const (
	PlaceholderImageCID    = "bafybeigdyrztplaceholderimagecid000000000000000000000000000"
	PlaceholderMetadataCID = "bafkreiplaceholdermetadatacid0000000000000000000000000000"
	PlaceholderImageURL    = "/placeholder-batch.jpg"
)

// MaxOnChainMetadataBytes is the hard ceiling for the on-chain NFT metadata
// payload. Only the off-chain metadata reference goes on-chain, never the
// full JSON document.
const MaxOnChainMetadataBytes = 100

// Identity is the authenticated farmer on whose behalf a registration runs.
// It is always resolved by the transport layer and passed in explicitly;
// the core never reads it from environment or constants.
type Identity struct {
	AccountID string
}

func (id Identity) Valid() bool {
	return id.AccountID != ""
}

// ImageUpload is an optional raw image payload attached to a registration.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// ProductSnapshot is the product state captured at registration time.
// It is embedded verbatim in the ledger event and the off-chain metadata.
type ProductSnapshot struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Unit     string `json:"unit"`
}

// LedgerEvent is the immutable "this batch was created" fact submitted to
// the consensus topic. Once submitted it is never mutated or deleted; the
// topic assigns it a monotonically increasing sequence number.
type LedgerEvent struct {
	EventID         string          `json:"eventId"`
	EventType       string          `json:"eventType"`
	BatchID         string          `json:"batchId"`
	Timestamp       string          `json:"timestamp"`
	FarmerAccountID string          `json:"farmerAccountId"`
	Product         ProductSnapshot `json:"product"`
	ImageCID        string          `json:"ipfsCid,omitempty"`
}

// NewLedgerEvent builds a BATCH_CREATED event with a fresh event id.
func NewLedgerEvent(batchID string, createdAt time.Time, farmer Identity, product ProductSnapshot, imageCID string) LedgerEvent {
	return LedgerEvent{
		EventID:         uuid.NewString(),
		EventType:       EventTypeBatchCreated,
		BatchID:         batchID,
		Timestamp:       createdAt.UTC().Format(time.RFC3339),
		FarmerAccountID: farmer.AccountID,
		Product:         product,
		ImageCID:        imageCID,
	}
}

// Batch is the durable composite record joining the batch identifier,
// ledger coordinates, token identifier and image reference.
// This struct is mapped to the main Postgres table.
type Batch struct {
	ID          string      `json:"id" db:"id"`
	ProductID   string      `json:"productId" db:"product_id"`
	ProductName string      `json:"productName" db:"product_name"`
	Quantity    int64       `json:"quantity" db:"quantity"`
	Unit        string      `json:"unit" db:"unit"`
	Status      BatchStatus `json:"status" db:"status"`

	ImageURL string `json:"imageUrl,omitempty" db:"image_url"`
	ImageCID string `json:"imageCid,omitempty" db:"image_cid"`

	// NFTID is the composite token identifier "<classId>/<serial>",
	// unique across all records.
	NFTID string `json:"nftId,omitempty" db:"nft_id"`

	HCSTopicID        string    `json:"hcsTopicId,omitempty" db:"hcs_topic_id"`
	HCSSequenceNumber *Sequence `json:"hcsSequenceNumber,omitempty" db:"hcs_sequence_number"`
	MetadataCID       string    `json:"metadataCid,omitempty" db:"metadata_cid"`
	StorageLocation   string    `json:"storageLocation,omitempty" db:"storage_location"`

	FarmerAccountID string    `json:"farmerAccountId" db:"farmer_account_id"`
	CreationDate    time.Time `json:"creationDate" db:"creation_date"`
}

// NewBatchID generates a short, human-readable unique batch identifier.
func NewBatchID() string {
	return "B-" + strings.ToUpper(uuid.NewString()[:8])
}

// NFTIDString composes the token identifier from class id and serial.
func NFTIDString(tokenID string, serial int64) string {
	return fmt.Sprintf("%s/%d", tokenID, serial)
}

// Validate ensures the assembled record is internally consistent before
// it reaches the persistence layer.
func (b *Batch) Validate() error {
	if b.ID == "" {
		return errors.New("batch ID is required")
	}
	if b.FarmerAccountID == "" {
		return errors.New("farmer account ID is required")
	}
	if b.ProductName == "" || b.Unit == "" {
		return errors.New("product snapshot is incomplete")
	}
	if b.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	return nil
}
