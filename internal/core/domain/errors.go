/*
 * Copyright (c) 2025 AgriTrust
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-28
 * Change License: AGPL-3.0
 */

package domain

import "errors"

var (
	// ErrInvalidInput is returned when the submitted batch data is invalid.
	// It is always raised before any external call is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated is returned when no farmer identity could be resolved.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound is returned when a requested batch does not exist or is
	// not owned by the requesting farmer.
	ErrNotFound = errors.New("batch not found")

	// ErrConflict is returned when the unique constraint on the token
	// identifier is violated.
	ErrConflict = errors.New("token identifier already registered")

	// ErrLedgerSubmit is returned when the consensus submission fails.
	// It is fatal: no token may be minted for an event that was never logged.
	ErrLedgerSubmit = errors.New("ledger submission failed")

	// ErrMint is returned when the NFT mint fails. It is fatal, and the
	// already-published ledger event remains in the log unredeemed.
	ErrMint = errors.New("token mint failed")

	// ErrStorage is returned on generic persistence failures.
	ErrStorage = errors.New("storage failure")
)
