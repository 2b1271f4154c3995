package ports

import "context"

// ContentStore is an upload-by-bytes, returns-content-id service backed by
// a content-addressed network. Upload failures are non-fatal to the batch
// registration workflow; callers degrade to placeholder references.
type ContentStore interface {
	// PinFile pins raw bytes under the given name and returns the CID.
	PinFile(ctx context.Context, name string, data []byte) (string, error)

	// PinJSON pins a JSON document and returns the CID.
	PinJSON(ctx context.Context, name string, doc any) (string, error)

	// GatewayURL resolves a CID to an access URL.
	GatewayURL(cid string) string
}

// MetadataArchiver durably archives the off-chain metadata document outside
// the content-addressed network. Best-effort: failures are logged only.
type MetadataArchiver interface {
	ArchiveMetadata(ctx context.Context, batchID string, data []byte) (string, error)
}
