// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func newTestConversion(t *testing.T, weights ...uint64) *Conversion {
	validators := make([]ConversionValidator, len(weights))
	for i, w := range weights {
		validators[i] = ConversionValidator{
			NodeID:       ids.GenerateTestNodeID(),
			BLSPublicKey: make([]byte, BLSPublicKeyLen),
			Weight:       w,
		}
	}
	c, err := NewConversion(
		ids.GenerateTestID(),
		ids.GenerateTestID(),
		common.HexToAddress("0x0100000000000000000000000000000000000001"),
		validators,
	)
	require.NoError(t, err)
	return c
}

func TestConversionRoundTrip(t *testing.T) {
	c := newTestConversion(t, 600, 400)

	parsed, err := ParseConversion(c.Bytes())
	require.NoError(t, err)
	require.Equal(t, c, parsed)
	require.Equal(t, c.ConversionID(), parsed.ConversionID())
}

func TestConversionVerify(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Conversion)
	}{
		{
			name:   "empty subnet ID",
			mutate: func(c *Conversion) { c.SubnetID = ids.Empty },
		},
		{
			name:   "empty manager chain ID",
			mutate: func(c *Conversion) { c.ManagerChainID = ids.Empty },
		},
		{
			name:   "no validators",
			mutate: func(c *Conversion) { c.Validators = nil },
		},
		{
			name:   "zero validator weight",
			mutate: func(c *Conversion) { c.Validators[0].Weight = 0 },
		},
		{
			name:   "bad BLS key length",
			mutate: func(c *Conversion) { c.Validators[0].BLSPublicKey = make([]byte, 10) },
		},
		{
			name:   "duplicate node IDs",
			mutate: func(c *Conversion) { c.Validators[1].NodeID = c.Validators[0].NodeID },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConversion(t, 600, 400)
			tt.mutate(c)
			require.ErrorIs(t, c.Verify(), ErrInvalidPayload)
		})
	}
}

func TestConversionValidationIDDistinctPerIndex(t *testing.T) {
	conversionID := ids.GenerateTestID()

	a := ConversionValidationID(conversionID, 0)
	b := ConversionValidationID(conversionID, 1)
	require.NotEqual(t, a, b)

	// Deterministic on both sides of the channel.
	require.Equal(t, a, ConversionValidationID(conversionID, 0))

	other := ConversionValidationID(ids.GenerateTestID(), 0)
	require.NotEqual(t, a, other)
}

func TestConversionAckRoundTrip(t *testing.T) {
	ack, err := NewConversionAck(ids.GenerateTestID())
	require.NoError(t, err)

	parsed, err := ParseConversionAck(ack.Bytes())
	require.NoError(t, err)
	require.Equal(t, ack, parsed)

	_, err = NewConversionAck(ids.Empty)
	require.ErrorIs(t, err, ErrInvalidPayload)
}
