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

	"github.com/agritrust/api-core/internal/core/ports"
	sdk "github.com/hashgraph/hedera-sdk-go/v2"
)

// NFTMinter mints batch NFTs against the pre-provisioned token class.
// The operator key doubles as the supply key (see cmd/provision-ledger).
type NFTMinter struct {
	c *Client
}

var _ ports.TokenMinter = (*NFTMinter)(nil)

func NewNFTMinter(c *Client) *NFTMinter {
	return &NFTMinter{c: c}
}

func (m *NFTMinter) Mint(ctx context.Context, metadata []byte) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tx, err := sdk.NewTokenMintTransaction().
		SetTokenID(m.c.tokenID).
		SetMetadata(metadata).
		FreezeWith(m.c.sdk)
	if err != nil {
		return 0, fmt.Errorf("failed to freeze mint transaction: %w", err)
	}

	resp, err := tx.Sign(m.c.operatorKey).Execute(m.c.sdk)
	if err != nil {
		return 0, fmt.Errorf("failed to execute mint: %w", err)
	}

	receipt, err := resp.GetReceipt(m.c.sdk)
	if err != nil {
		return 0, fmt.Errorf("failed to get mint receipt: %w", err)
	}
	if len(receipt.SerialNumbers) == 0 {
		return 0, fmt.Errorf("mint receipt carried no serial numbers")
	}

	return receipt.SerialNumbers[0], nil
}

func (m *NFTMinter) TokenID() string {
	return m.c.tokenID.String()
}
