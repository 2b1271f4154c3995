package ports

import (
	"context"

	"github.com/agritrust/api-core/internal/core/domain"
)

// LedgerLog is the append-only distributed log the platform anchors batch
// events to. Submissions are signed with the operator credential; a signed
// submission cannot be un-submitted, so adapters run it to completion even
// if the caller disconnects.
type LedgerLog interface {
	// Submit appends message to the configured topic and returns the
	// log-assigned sequence number. The sequence may be nil if the log
	// does not support sequencing; that alone never fails the workflow.
	Submit(ctx context.Context, message []byte) (*domain.Sequence, error)

	// TopicID identifies the configured topic.
	TopicID() string
}
