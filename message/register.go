// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"fmt"

	"github.com/luxfi/ids"
)

// Register requests that the root authority admit a validator. The SHA-256
// content hash of its canonical bytes is the validation ID identifying the
// resulting membership period on both sides of the channel.
type Register struct {
	SubnetID               ids.ID     `serialize:"true"`
	NodeID                 ids.NodeID `serialize:"true"`
	BLSPublicKey           []byte     `serialize:"true"`
	Expiry                 uint64     `serialize:"true"`
	RemainingBalanceOwners Owners     `serialize:"true"`
	DisableOwners          Owners     `serialize:"true"`
	Weight                 uint64     `serialize:"true"`
}

// NewRegister creates a new register payload
func NewRegister(
	subnetID ids.ID,
	nodeID ids.NodeID,
	blsPublicKey []byte,
	expiry uint64,
	remainingBalanceOwners Owners,
	disableOwners Owners,
	weight uint64,
) (*Register, error) {
	r := &Register{
		SubnetID:               subnetID,
		NodeID:                 nodeID,
		BLSPublicKey:           blsPublicKey,
		Expiry:                 expiry,
		RemainingBalanceOwners: remainingBalanceOwners,
		DisableOwners:          disableOwners,
		Weight:                 weight,
	}
	if err := r.Verify(); err != nil {
		return nil, err
	}
	return r, nil
}

// ParseRegister parses a register payload from bytes
func ParseRegister(b []byte) (*Register, error) {
	r := &Register{}
	if err := unmarshal(b, r); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}
	if err := r.Verify(); err != nil {
		return nil, err
	}
	return r, nil
}

// Verify verifies the register payload
func (r *Register) Verify() error {
	if r.NodeID == (ids.NodeID{}) {
		return fmt.Errorf("%w: empty node ID", ErrInvalidPayload)
	}
	if len(r.BLSPublicKey) != BLSPublicKeyLen {
		return fmt.Errorf(
			"%w: BLS public key must be %d bytes, got %d",
			ErrInvalidPayload, BLSPublicKeyLen, len(r.BLSPublicKey),
		)
	}
	if r.Weight == 0 {
		return fmt.Errorf("%w: zero weight", ErrInvalidPayload)
	}
	if err := r.RemainingBalanceOwners.Verify(); err != nil {
		return err
	}
	return r.DisableOwners.Verify()
}

// Bytes returns the canonical byte representation of the payload
func (r *Register) Bytes() []byte {
	b, _ := marshal(r)
	return b
}

// ValidationID returns the content hash of the canonical encoding
func (r *Register) ValidationID() ids.ID {
	return ids.ID(ComputeHash256Array(r.Bytes()))
}
