// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"bytes"
	"fmt"

	"github.com/luxfi/geth/common"
)

// Owners describes a threshold set of addresses allowed to claim a balance
// held by the root authority on behalf of a validator.
type Owners struct {
	Threshold uint32           `serialize:"true"`
	Addresses []common.Address `serialize:"true"`
}

// Verify verifies the owner set. Addresses must be strictly ascending,
// unique and non-zero so every owner set has exactly one canonical encoding.
func (o *Owners) Verify() error {
	if int(o.Threshold) > len(o.Addresses) {
		return fmt.Errorf(
			"%w: owner threshold %d exceeds %d addresses",
			ErrInvalidPayload, o.Threshold, len(o.Addresses),
		)
	}
	if o.Threshold == 0 && len(o.Addresses) != 0 {
		return fmt.Errorf("%w: owner addresses with zero threshold", ErrInvalidPayload)
	}
	var zero common.Address
	for i, addr := range o.Addresses {
		if addr == zero {
			return fmt.Errorf("%w: zero owner address at index %d", ErrInvalidPayload, i)
		}
		if i > 0 && bytes.Compare(o.Addresses[i-1][:], addr[:]) >= 0 {
			return fmt.Errorf("%w: owner addresses not strictly ascending", ErrInvalidPayload)
		}
	}
	return nil
}

// Equal returns true if two owner sets are identical
func (o *Owners) Equal(other *Owners) bool {
	if o.Threshold != other.Threshold || len(o.Addresses) != len(other.Addresses) {
		return false
	}
	for i := range o.Addresses {
		if o.Addresses[i] != other.Addresses[i] {
			return false
		}
	}
	return true
}
