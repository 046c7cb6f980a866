// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"fmt"

	"github.com/luxfi/ids"
)

// ValidatorWeight carries a nonce-ordered weight change for one validation
// period. The same shape is used in both directions: the manager sends it to
// request a change and the root authority echoes it back as the
// acknowledgment. A weight of zero removes the validator.
type ValidatorWeight struct {
	ValidationID ids.ID `serialize:"true"`
	Nonce        uint64 `serialize:"true"`
	Weight       uint64 `serialize:"true"`
}

// NewValidatorWeight creates a new validator weight payload
func NewValidatorWeight(validationID ids.ID, nonce uint64, weight uint64) (*ValidatorWeight, error) {
	w := &ValidatorWeight{
		ValidationID: validationID,
		Nonce:        nonce,
		Weight:       weight,
	}
	if err := w.Verify(); err != nil {
		return nil, err
	}
	return w, nil
}

// ParseValidatorWeight parses a validator weight payload from bytes
func ParseValidatorWeight(b []byte) (*ValidatorWeight, error) {
	w := &ValidatorWeight{}
	if err := unmarshal(b, w); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}
	if err := w.Verify(); err != nil {
		return nil, err
	}
	return w, nil
}

// Verify verifies the validator weight payload
func (w *ValidatorWeight) Verify() error {
	if w.ValidationID == ids.Empty {
		return fmt.Errorf("%w: empty validation ID", ErrInvalidPayload)
	}
	return nil
}

// Bytes returns the canonical byte representation of the payload
func (w *ValidatorWeight) Bytes() []byte {
	b, _ := marshal(w)
	return b
}
