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
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math/big"
)

// Sequence is a ledger-assigned sequence number. Sequence numbers are
// arbitrary-precision integers and always cross the transport boundary as
// decimal text; they must never pass through a native float.
type Sequence struct {
	v big.Int
}

// NewSequence wraps a sequence number obtained from a ledger receipt.
func NewSequence(n uint64) *Sequence {
	s := &Sequence{}
	s.v.SetUint64(n)
	return s
}

// SequenceFromString parses a decimal-text sequence number.
func SequenceFromString(text string) (*Sequence, error) {
	s := &Sequence{}
	if _, ok := s.v.SetString(text, 10); !ok {
		return nil, fmt.Errorf("invalid sequence number %q", text)
	}
	return s, nil
}

func (s *Sequence) String() string {
	return s.v.String()
}

// Equal reports whether two sequence numbers are the same value.
func (s *Sequence) Equal(other *Sequence) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.v.Cmp(&other.v) == 0
}

func (s *Sequence) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.v.String())
}

func (s *Sequence) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("sequence number must be a decimal string: %w", err)
	}
	if _, ok := s.v.SetString(text, 10); !ok {
		return fmt.Errorf("invalid sequence number %q", text)
	}
	return nil
}

// Value implements driver.Valuer so the sequence is stored as exact decimal
// text (NUMERIC column), never a float.
func (s *Sequence) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return s.v.String(), nil
}

// Scan implements sql.Scanner.
func (s *Sequence) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return fmt.Errorf("cannot scan NULL into Sequence")
	case string:
		if _, ok := s.v.SetString(v, 10); !ok {
			return fmt.Errorf("invalid sequence number %q", v)
		}
		return nil
	case []byte:
		if _, ok := s.v.SetString(string(v), 10); !ok {
			return fmt.Errorf("invalid sequence number %q", v)
		}
		return nil
	case int64:
		s.v.SetInt64(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Sequence", src)
	}
}
