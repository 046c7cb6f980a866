// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"fmt"

	"github.com/luxfi/ids"
)

// ValidatorRegistration is the root authority's acknowledgment of a
// registration outcome. Registered reports whether the validation period is
// live: true acknowledges a successful registration, false acknowledges
// either a removal or a registration that can never become live. The two
// false cases share this one shape and are disambiguated by the validator's
// current status, not by the message.
type ValidatorRegistration struct {
	ValidationID ids.ID `serialize:"true"`
	Registered   bool   `serialize:"true"`
}

// NewValidatorRegistration creates a new validator registration payload
func NewValidatorRegistration(validationID ids.ID, registered bool) (*ValidatorRegistration, error) {
	r := &ValidatorRegistration{
		ValidationID: validationID,
		Registered:   registered,
	}
	if err := r.Verify(); err != nil {
		return nil, err
	}
	return r, nil
}

// ParseValidatorRegistration parses a validator registration payload from bytes
func ParseValidatorRegistration(b []byte) (*ValidatorRegistration, error) {
	r := &ValidatorRegistration{}
	if err := unmarshal(b, r); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}
	if err := r.Verify(); err != nil {
		return nil, err
	}
	return r, nil
}

// Verify verifies the validator registration payload
func (r *ValidatorRegistration) Verify() error {
	if r.ValidationID == ids.Empty {
		return fmt.Errorf("%w: empty validation ID", ErrInvalidPayload)
	}
	return nil
}

// Bytes returns the canonical byte representation of the payload
func (r *ValidatorRegistration) Bytes() []byte {
	b, _ := marshal(r)
	return b
}
