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
	"fmt"

	sdk "github.com/hashgraph/hedera-sdk-go/v2"
)

// Client wraps a Hedera network client configured with the platform
// operator credential. All submissions are signed by the operator, never
// by an end-user key. Safe for concurrent use; the underlying SDK client
// pools its gRPC connections.
type Client struct {
	sdk         *sdk.Client
	operatorID  sdk.AccountID
	operatorKey sdk.PrivateKey
	topicID     sdk.TopicID
	tokenID     sdk.TokenID
}

type Config struct {
	Network     string // "testnet" or "mainnet"
	OperatorID  string // e.g. "0.0.12345"
	OperatorKey string // ECDSA private key
	TopicID     string // HCS topic for batch events
	TokenID     string // pre-provisioned NFT token class
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.OperatorID == "" || cfg.OperatorKey == "" {
		return nil, fmt.Errorf("hedera operator account and private key must be configured")
	}

	var client *sdk.Client
	if cfg.Network == "mainnet" {
		client = sdk.ClientForMainnet()
	} else {
		client = sdk.ClientForTestnet()
	}

	operatorID, err := sdk.AccountIDFromString(cfg.OperatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid operator account id: %w", err)
	}
	operatorKey, err := sdk.PrivateKeyFromStringECDSA(cfg.OperatorKey)
	if err != nil {
		return nil, fmt.Errorf("invalid operator private key: %w", err)
	}
	client.SetOperator(operatorID, operatorKey)

	topicID, err := sdk.TopicIDFromString(cfg.TopicID)
	if err != nil {
		return nil, fmt.Errorf("invalid HCS topic id: %w", err)
	}
	tokenID, err := sdk.TokenIDFromString(cfg.TokenID)
	if err != nil {
		return nil, fmt.Errorf("invalid NFT token id: %w", err)
	}

	return &Client{
		sdk:         client,
		operatorID:  operatorID,
		operatorKey: operatorKey,
		topicID:     topicID,
		tokenID:     tokenID,
	}, nil
}

func (c *Client) Close() error {
	return c.sdk.Close()
}
