// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package message implements the canonical encoding of the messages
// exchanged with the root authority: the subnet conversion record and its
// acknowledgment, validator registration, and validator weight updates.
//
// Every payload is encoded deterministically with RLP and identified by the
// SHA-256 content hash of its canonical bytes, so both sides of the channel
// derive the same identifiers without shared state.
package message

import (
	"crypto/sha256"
	"errors"
)

const (
	// NodeIDLen is the length of a node identifier
	NodeIDLen = 20

	// BLSPublicKeyLen is the length of a compressed BLS public key
	BLSPublicKeyLen = 48

	// MaxPayloadSize bounds the encoded size of any single payload
	MaxPayloadSize = 64 * 1024
)

var (
	// ErrInvalidPayload is returned when a payload fails structural checks
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrUnknownPayloadType is returned when bytes decode as no known payload
	ErrUnknownPayloadType = errors.New("unknown payload type")
)

// Payload is implemented by every message payload.
type Payload interface {
	// Bytes returns the canonical byte representation of the payload
	Bytes() []byte

	// Verify verifies the payload's structural well-formedness
	Verify() error
}

// ComputeHash256Array computes the SHA-256 digest of data
func ComputeHash256Array(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// ParsePayload decodes bytes as whichever payload kind they represent.
// Used by tooling that inspects raw channel traffic; the registry itself
// always knows which kind it expects and uses the typed Parse functions.
func ParsePayload(b []byte) (Payload, error) {
	if r, err := ParseRegister(b); err == nil {
		return r, nil
	}
	if w, err := ParseValidatorWeight(b); err == nil {
		return w, nil
	}
	if reg, err := ParseValidatorRegistration(b); err == nil {
		return reg, nil
	}
	if ack, err := ParseConversionAck(b); err == nil {
		return ack, nil
	}
	if c, err := ParseConversion(b); err == nil {
		return c, nil
	}
	return nil, ErrUnknownPayloadType
}

func marshal(v interface{}) ([]byte, error) {
	return Codec.Marshal(CodecVersion, v)
}

func unmarshal(b []byte, v interface{}) error {
	if len(b) > MaxPayloadSize {
		return ErrInvalidPayload
	}
	_, err := Codec.Unmarshal(b, v)
	return err
}
