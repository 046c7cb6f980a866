// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
)

// ConversionValidator is one initial member of the converted set.
type ConversionValidator struct {
	NodeID       ids.NodeID `serialize:"true"`
	BLSPublicKey []byte     `serialize:"true"`
	Weight       uint64     `serialize:"true"`
}

// Verify verifies one initial validator entry
func (v *ConversionValidator) Verify() error {
	if v.NodeID == (ids.NodeID{}) {
		return fmt.Errorf("%w: empty node ID", ErrInvalidPayload)
	}
	if len(v.BLSPublicKey) != BLSPublicKeyLen {
		return fmt.Errorf(
			"%w: BLS public key must be %d bytes, got %d",
			ErrInvalidPayload, BLSPublicKeyLen, len(v.BLSPublicKey),
		)
	}
	if v.Weight == 0 {
		return fmt.Errorf("%w: zero weight", ErrInvalidPayload)
	}
	return nil
}

// Conversion is the record the root authority agreed to when the set was
// converted to lifecycle management: the managed subnet, the chain and
// address of the manager instance, and the full initial membership. Its
// content hash is echoed back in the conversion acknowledgment.
type Conversion struct {
	SubnetID       ids.ID                `serialize:"true"`
	ManagerChainID ids.ID                `serialize:"true"`
	ManagerAddress common.Address        `serialize:"true"`
	Validators     []ConversionValidator `serialize:"true"`
}

// NewConversion creates a new conversion payload
func NewConversion(
	subnetID ids.ID,
	managerChainID ids.ID,
	managerAddress common.Address,
	validators []ConversionValidator,
) (*Conversion, error) {
	c := &Conversion{
		SubnetID:       subnetID,
		ManagerChainID: managerChainID,
		ManagerAddress: managerAddress,
		Validators:     validators,
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseConversion parses a conversion payload from bytes
func ParseConversion(b []byte) (*Conversion, error) {
	c := &Conversion{}
	if err := unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// Verify verifies the conversion payload
func (c *Conversion) Verify() error {
	if c.SubnetID == ids.Empty {
		return fmt.Errorf("%w: empty subnet ID", ErrInvalidPayload)
	}
	if c.ManagerChainID == ids.Empty {
		return fmt.Errorf("%w: empty manager chain ID", ErrInvalidPayload)
	}
	if len(c.Validators) == 0 {
		return fmt.Errorf("%w: empty initial validator set", ErrInvalidPayload)
	}
	seen := make(map[ids.NodeID]struct{}, len(c.Validators))
	for i := range c.Validators {
		if err := c.Validators[i].Verify(); err != nil {
			return err
		}
		nodeID := c.Validators[i].NodeID
		if _, ok := seen[nodeID]; ok {
			return fmt.Errorf("%w: duplicate node ID %s", ErrInvalidPayload, nodeID)
		}
		seen[nodeID] = struct{}{}
	}
	return nil
}

// Bytes returns the canonical byte representation of the payload
func (c *Conversion) Bytes() []byte {
	b, _ := marshal(c)
	return b
}

// ConversionID returns the content hash of the canonical encoding
func (c *Conversion) ConversionID() ids.ID {
	return ids.ID(ComputeHash256Array(c.Bytes()))
}

// ConversionValidationID derives the validation ID of the initial validator
// at index within an acknowledged conversion. Initial validators never have
// a register message to hash, so their IDs are derived from the conversion
// ID instead, reproducibly on both sides.
func ConversionValidationID(conversionID ids.ID, index uint32) ids.ID {
	b := make([]byte, len(conversionID)+4)
	copy(b, conversionID[:])
	b[len(conversionID)] = byte(index >> 24)
	b[len(conversionID)+1] = byte(index >> 16)
	b[len(conversionID)+2] = byte(index >> 8)
	b[len(conversionID)+3] = byte(index)
	return ids.ID(ComputeHash256Array(b))
}

// ConversionAck is the root authority's acknowledgment of a conversion. It
// carries only the content hash of the conversion record it agreed to; the
// manager recomputes the hash from locally supplied data and compares.
type ConversionAck struct {
	ConversionID ids.ID `serialize:"true"`
}

// NewConversionAck creates a new conversion acknowledgment payload
func NewConversionAck(conversionID ids.ID) (*ConversionAck, error) {
	a := &ConversionAck{ConversionID: conversionID}
	if err := a.Verify(); err != nil {
		return nil, err
	}
	return a, nil
}

// ParseConversionAck parses a conversion acknowledgment payload from bytes
func ParseConversionAck(b []byte) (*ConversionAck, error) {
	a := &ConversionAck{}
	if err := unmarshal(b, a); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}
	if err := a.Verify(); err != nil {
		return nil, err
	}
	return a, nil
}

// Verify verifies the conversion acknowledgment payload
func (a *ConversionAck) Verify() error {
	if a.ConversionID == ids.Empty {
		return fmt.Errorf("%w: empty conversion ID", ErrInvalidPayload)
	}
	return nil
}

// Bytes returns the canonical byte representation of the payload
func (a *ConversionAck) Bytes() []byte {
	b, _ := marshal(a)
	return b
}
