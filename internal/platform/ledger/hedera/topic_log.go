/*
 * Copyright (c) 2025 AgriTrust
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-21
 * Change License: AGPL-3.0
 */

package hedera

import (
	"context"
	"fmt"

	"github.com/agritrust/api-core/internal/core/domain"
	"github.com/agritrust/api-core/internal/core/ports"
	sdk "github.com/hashgraph/hedera-sdk-go/v2"
)

// TopicLog appends batch events to the configured HCS topic.
type TopicLog struct {
	c *Client
}

var _ ports.LedgerLog = (*TopicLog)(nil)

func NewTopicLog(c *Client) *TopicLog {
	return &TopicLog{c: c}
}

// Submit sends a single-chunk consensus message and waits for the receipt.
// The SDK does not support cancelling an already-signed submission, so the
// call runs to completion regardless of ctx; ctx is only consulted before
// the submission starts.
func (l *TopicLog) Submit(ctx context.Context, message []byte) (*domain.Sequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx, err := sdk.NewTopicMessageSubmitTransaction().
		SetTopicID(l.c.topicID).
		SetMessage(message).
		SetMaxChunks(1).
		FreezeWith(l.c.sdk)
	if err != nil {
		return nil, fmt.Errorf("failed to freeze topic submission: %w", err)
	}

	resp, err := tx.Sign(l.c.operatorKey).Execute(l.c.sdk)
	if err != nil {
		return nil, fmt.Errorf("failed to submit topic message: %w", err)
	}

	receipt, err := resp.GetReceipt(l.c.sdk)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission receipt: %w", err)
	}

	return domain.NewSequence(receipt.TopicSequenceNumber), nil
}

func (l *TopicLog) TopicID() string {
	return l.c.topicID.String()
}
