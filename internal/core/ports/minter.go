package ports

import "context"

// TokenMinter mints uniquely serialized tokens against a pre-provisioned
// token class using the operator's supply credential.
type TokenMinter interface {
	// Mint submits a single mint request carrying the given on-chain
	// metadata payload and returns the assigned serial number.
	Mint(ctx context.Context, metadata []byte) (int64, error)

	// TokenID identifies the configured token class.
	TokenID() string
}
