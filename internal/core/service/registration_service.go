/*
 * Copyright (c) 2025 AgriTrust
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2029-11-20
 * Change License: AGPL-3.0
 */

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "embed"

	"github.com/agritrust/api-core/internal/core/domain"
	"github.com/agritrust/api-core/internal/core/ports"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Embed the schema directly into the Go binary
//
//go:embed schemas/batch_registration.json
var registrationSchemaRaw string

const (
	eventsChannel   = "batches.events"
	listingCacheTTL = 5 * time.Minute
)

type registrationService struct {
	repo     ports.BatchRepository
	ledger   ports.LedgerLog
	minter   ports.TokenMinter
	store    ports.ContentStore     // nil when pinning credentials are absent
	archiver ports.MetadataArchiver // nil when the archive bucket is not configured
	cache    ports.CacheRepository
	bus      ports.EventBus
	schema   *jsonschema.Schema
	log      *slog.Logger
}

// Ensure interface implementation
var _ ports.BatchService = (*registrationService)(nil)

func NewRegistrationService(
	repo ports.BatchRepository,
	ledger ports.LedgerLog,
	minter ports.TokenMinter,
	store ports.ContentStore,
	archiver ports.MetadataArchiver,
	cache ports.CacheRepository,
	bus ports.EventBus,
	log *slog.Logger,
) (ports.BatchService, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("batch_registration.json", strings.NewReader(registrationSchemaRaw)); err != nil {
		return nil, fmt.Errorf("failed to add registration schema: %w", err)
	}
	schema, err := compiler.Compile("batch_registration.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile registration schema: %w", err)
	}

	return &registrationService{
		repo:     repo,
		ledger:   ledger,
		minter:   minter,
		store:    store,
		archiver: archiver,
		cache:    cache,
		bus:      bus,
		schema:   schema,
		log:      log,
	}, nil
}

// registrationRequest is the validated shape of a submission payload.
type registrationRequest struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity"`
	Unit        string `json:"unit"`
}

func (s *registrationService) RegisterBatch(ctx context.Context, farmer domain.Identity, payload []byte, image *domain.ImageUpload) (*domain.Batch, error) {
	// 1. Identity precondition. The transport layer resolves the farmer;
	// an empty identity must never reach the external collaborators.
	if !farmer.Valid() {
		return nil, domain.ErrUnauthenticated
	}

	// 2. Validation, before any side effect.
	req, err := s.validate(payload)
	if err != nil {
		return nil, err
	}

	batchID := domain.NewBatchID()
	createdAt := time.Now().UTC()
	product := domain.ProductSnapshot{
		Name:     req.ProductName,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	}

	// 3. Pin the image first so the ledger event can carry the real CID.
	// Pinning is best-effort: any failure degrades to the placeholder.
	imageCID, imageURL := s.pinImage(ctx, batchID, image)

	// 4. Submit the BATCH_CREATED event. This is the source of truth;
	// failure here aborts the registration before anything is minted.
	event := domain.NewLedgerEvent(batchID, createdAt, farmer, product, imageCID)
	message, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("%w: encode event: %v", domain.ErrLedgerSubmit, err)
	}
	seq, err := s.ledger.Submit(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLedgerSubmit, err)
	}
	s.log.Info("ledger event submitted",
		"batchId", batchID, "topicId", s.ledger.TopicID(), "sequence", seqText(seq))

	// 5. Assemble and pin the off-chain metadata document.
	metadataDoc := buildOffChainMetadata(batchID, s.ledger.TopicID(), seq, farmer, product, imageCID, createdAt)
	metadataCID := s.pinMetadata(ctx, batchID, metadataDoc)
	storageLocation := s.archive(ctx, batchID, metadataDoc)

	// 6. Mint the batch NFT. On-chain metadata holds only the reference;
	// a mint failure leaves the ledger event orphaned, which is accepted
	// and not compensated.
	onChain := []byte("ipfs://" + metadataCID)
	if len(onChain) > domain.MaxOnChainMetadataBytes {
		return nil, fmt.Errorf("%w: on-chain metadata is %d bytes, ceiling is %d",
			domain.ErrMint, len(onChain), domain.MaxOnChainMetadataBytes)
	}
	serial, err := s.minter.Mint(ctx, onChain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMint, err)
	}
	nftID := domain.NFTIDString(s.minter.TokenID(), serial)
	s.log.Info("batch NFT minted", "batchId", batchID, "nftId", nftID)

	// 7. Persist the composite record.
	batch := &domain.Batch{
		ID:                batchID,
		ProductID:         productID(req),
		ProductName:       req.ProductName,
		Quantity:          req.Quantity,
		Unit:              req.Unit,
		Status:            domain.StatusRegistered,
		ImageURL:          imageURL,
		ImageCID:          imageCID,
		NFTID:             nftID,
		HCSTopicID:        s.ledger.TopicID(),
		HCSSequenceNumber: seq,
		MetadataCID:       metadataCID,
		StorageLocation:   storageLocation,
		FarmerAccountID:   farmer.AccountID,
		CreationDate:      createdAt,
	}
	if err := s.repo.Save(ctx, batch); err != nil {
		return nil, err
	}

	// 8. Invalidate the cached listing and announce the registration.
	// Both are best-effort; the record is already durable.
	if err := s.cache.Delete(ctx, listingKey(farmer)); err != nil {
		s.log.Warn("failed to invalidate listing cache", "farmerAccountId", farmer.AccountID, "error", err)
	}
	if err := s.bus.Publish(ctx, eventsChannel, batchRegisteredEvent{
		Type:            "batch.registered",
		BatchID:         batchID,
		FarmerAccountID: farmer.AccountID,
		NFTID:           nftID,
		SequenceNumber:  seqText(seq),
		Timestamp:       createdAt.Format(time.RFC3339),
	}); err != nil {
		s.log.Warn("failed to publish registration event", "batchId", batchID, "error", err)
	}

	return batch, nil
}

func (s *registrationService) ListBatches(ctx context.Context, farmer domain.Identity) ([]*domain.Batch, error) {
	if !farmer.Valid() {
		return nil, domain.ErrUnauthenticated
	}

	key := listingKey(farmer)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var batches []*domain.Batch
		if err := json.Unmarshal([]byte(cached), &batches); err == nil {
			return batches, nil
		}
		// Corrupt cache entry: fall through to the repository.
	}

	batches, err := s.repo.FindByFarmer(ctx, farmer)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(batches); err == nil {
		if err := s.cache.Set(ctx, key, string(encoded), listingCacheTTL); err != nil {
			s.log.Warn("failed to cache listing", "farmerAccountId", farmer.AccountID, "error", err)
		}
	}
	return batches, nil
}

func (s *registrationService) GetBatch(ctx context.Context, farmer domain.Identity, batchID string) (*domain.Batch, error) {
	if !farmer.Valid() {
		return nil, domain.ErrUnauthenticated
	}
	if batchID == "" || batchID == "undefined" {
		return nil, fmt.Errorf("%w: Valid Batch ID is required", domain.ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, batchID, farmer)
}

// --- Validation ---

func (s *registrationService) validate(payload []byte) (*registrationRequest, error) {
	var doc interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON body", domain.ErrInvalidInput)
	}
	if err := s.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, friendlyValidationMessage(err))
	}
	var req registrationRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return &req, nil
}

// friendlyValidationMessage maps a schema violation to the field-level
// message the client displays.
func friendlyValidationMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	switch {
	case strings.HasSuffix(leaf.InstanceLocation, "/quantity"):
		return "Invalid quantity"
	case strings.HasSuffix(leaf.InstanceLocation, "/productName"):
		return "Invalid product name"
	case strings.HasSuffix(leaf.InstanceLocation, "/unit"):
		return "Invalid unit"
	case strings.Contains(leaf.Message, "missing properties"):
		return "Missing required fields"
	}
	return leaf.Message
}

// --- Content pinning (graceful degradation) ---

func (s *registrationService) pinImage(ctx context.Context, batchID string, image *domain.ImageUpload) (cid string, url string) {
	if image == nil || len(image.Content) == 0 {
		return domain.PlaceholderImageCID, domain.PlaceholderImageURL
	}
	if s.store == nil {
		s.log.Info("content store not configured, using placeholder image", "batchId", batchID)
		return domain.PlaceholderImageCID, domain.PlaceholderImageURL
	}
	cid, err := s.store.PinFile(ctx, image.Filename, image.Content)
	if err != nil {
		// Non-fatal: the ledger event is the source of truth, the image
		// is best-effort enrichment.
		s.log.Warn("image upload failed, using placeholder", "batchId", batchID, "error", err)
		return domain.PlaceholderImageCID, domain.PlaceholderImageURL
	}
	return cid, s.store.GatewayURL(cid)
}

func (s *registrationService) pinMetadata(ctx context.Context, batchID string, doc offChainMetadata) string {
	if s.store == nil {
		return domain.PlaceholderMetadataCID
	}
	cid, err := s.store.PinJSON(ctx, fmt.Sprintf("%s-metadata.json", batchID), doc)
	if err != nil {
		s.log.Warn("metadata pin failed, using placeholder", "batchId", batchID, "error", err)
		return domain.PlaceholderMetadataCID
	}
	return cid
}

func (s *registrationService) archive(ctx context.Context, batchID string, doc offChainMetadata) string {
	if s.archiver == nil {
		return ""
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	location, err := s.archiver.ArchiveMetadata(ctx, batchID, encoded)
	if err != nil {
		s.log.Warn("metadata archive failed", "batchId", batchID, "error", err)
		return ""
	}
	return location
}

// --- Off-chain metadata document ---

type offChainMetadata struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Image       string             `json:"image"`
	Creator     string             `json:"creator"`
	Type        string             `json:"type"`
	Properties  offChainProperties `json:"properties"`
}

type offChainProperties struct {
	BatchID            string `json:"batchId"`
	HCSTopicID         string `json:"hcsTopicId"`
	HCSInitialSequence string `json:"hcsInitialSequence,omitempty"`
	FarmerAccountID    string `json:"farmerAccountId"`
	ProductType        string `json:"productType"`
	Quantity           int64  `json:"quantity"`
	Unit               string `json:"unit"`
	CreationTimestamp  string `json:"creationTimestamp"`
}

func buildOffChainMetadata(batchID, topicID string, seq *domain.Sequence, farmer domain.Identity, product domain.ProductSnapshot, imageCID string, createdAt time.Time) offChainMetadata {
	return offChainMetadata{
		Name:        fmt.Sprintf("Batch %s - %s", batchID, product.Name),
		Description: fmt.Sprintf("AgriTrust registered batch of %s", product.Name),
		Image:       "ipfs://" + imageCID,
		Creator:     "AgriTrust Platform",
		Type:        "AgriTrust Batch",
		Properties: offChainProperties{
			BatchID:            batchID,
			HCSTopicID:         topicID,
			HCSInitialSequence: seqText(seq),
			FarmerAccountID:    farmer.AccountID,
			ProductType:        product.Name,
			Quantity:           product.Quantity,
			Unit:               product.Unit,
			CreationTimestamp:  createdAt.Format(time.RFC3339),
		},
	}
}

type batchRegisteredEvent struct {
	Type            string `json:"type"`
	BatchID         string `json:"batchId"`
	FarmerAccountID string `json:"farmerAccountId"`
	NFTID           string `json:"nftId"`
	SequenceNumber  string `json:"hcsSequenceNumber,omitempty"`
	Timestamp       string `json:"timestamp"`
}

func listingKey(farmer domain.Identity) string {
	return "batches:farmer:" + farmer.AccountID
}

func productID(req *registrationRequest) string {
	if req.ProductID != "" {
		return req.ProductID
	}
	return "prod-" + strings.ReplaceAll(strings.ToLower(req.ProductName), " ", "-")
}

func seqText(seq *domain.Sequence) string {
	if seq == nil {
		return ""
	}
	return seq.String()
}
