// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package poa

import (
	"context"
	"testing"
	"time"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/poa/message"
)

var (
	testOperator = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testCaller   = common.HexToAddress("0x2000000000000000000000000000000000000002")
	testManager  = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

type testEnv struct {
	manager *Manager
	channel *FakeChannel
	cfg     ManagerConfig

	// clock is the manager's current time; tests advance it directly
	clock time.Time
}

func testBLSKey(t *testing.T) []byte {
	sk, err := bls.NewSecretKey()
	require.NoError(t, err)
	return bls.PublicKeyToCompressedBytes(bls.PublicFromSecretKey(sk))
}

func newTestEnv(t *testing.T) *testEnv {
	cfg := ManagerConfig{
		SubnetID:           ids.GenerateTestID(),
		ChainID:            ids.GenerateTestID(),
		Address:            testManager,
		Operator:           testOperator,
		RootChainID:        ids.GenerateTestID(),
		RootSenderAddress:  common.Address{},
		ValidatorWeight:    100,
		RegistrationWindow: 24 * time.Hour,
		MaxChurnPercentage: 20,
		ChurnPeriod:        time.Hour,
	}
	channel := NewFakeChannel()
	m, err := NewManager(log.NewNoOpLogger(), cfg, channel, AlwaysQualified{})
	require.NoError(t, err)

	env := &testEnv{
		manager: m,
		channel: channel,
		cfg:     cfg,
		clock:   time.Unix(1_700_000_000, 0),
	}
	m.now = func() time.Time { return env.clock }
	return env
}

// queueFromRoot makes payload available at index as if delivered and
// authenticated from the root authority
func (e *testEnv) queueFromRoot(index uint32, payload []byte) {
	e.channel.QueueInbound(index, &InboundMessage{
		Payload:       payload,
		SourceChainID: e.cfg.RootChainID,
		SourceAddress: e.cfg.RootSenderAddress,
	})
}

// newConversion builds conversion data for this instance with one initial
// validator per weight
func (e *testEnv) newConversion(t *testing.T, weights ...uint64) *message.Conversion {
	validators := make([]message.ConversionValidator, len(weights))
	for i, w := range weights {
		validators[i] = message.ConversionValidator{
			NodeID:       ids.GenerateTestNodeID(),
			BLSPublicKey: testBLSKey(t),
			Weight:       w,
		}
	}
	conversion, err := message.NewConversion(e.cfg.SubnetID, e.cfg.ChainID, e.cfg.Address, validators)
	require.NoError(t, err)
	return conversion
}

// initialize runs InitializeSet against an acknowledgment of conversion
func (e *testEnv) initialize(t *testing.T, weights ...uint64) *message.Conversion {
	conversion := e.newConversion(t, weights...)
	ack, err := message.NewConversionAck(conversion.ConversionID())
	require.NoError(t, err)
	e.queueFromRoot(0, ack.Bytes())
	require.NoError(t, e.manager.InitializeSet(context.Background(), testOperator, conversion, 0))
	return conversion
}

// register runs RegisterValidator for a fresh node and returns its IDs
func (e *testEnv) register(t *testing.T) (ids.ID, ids.NodeID) {
	nodeID := ids.GenerateTestNodeID()
	validationID, err := e.manager.RegisterValidator(
		context.Background(), testCaller, nodeID, testBLSKey(t),
		message.Owners{}, message.Owners{},
	)
	require.NoError(t, err)
	return validationID, nodeID
}

// activate completes a pending registration via a queued acknowledgment
func (e *testEnv) activate(t *testing.T, validationID ids.ID, index uint32) {
	ack, err := message.NewValidatorRegistration(validationID, true)
	require.NoError(t, err)
	e.queueFromRoot(index, ack.Bytes())
	got, err := e.manager.CompleteRegistration(context.Background(), testOperator, index)
	require.NoError(t, err)
	require.Equal(t, validationID, got)
}

func TestInitializeSet(t *testing.T) {
	env := newTestEnv(t)
	conversion := env.initialize(t, 600, 400)

	require.True(t, env.manager.Initialized())
	require.Equal(t, uint64(1000), env.manager.TotalWeight())

	// Every initial validator is Active without a pending phase.
	for i := range conversion.Validators {
		validationID := message.ConversionValidationID(conversion.ConversionID(), uint32(i))
		v, ok := env.manager.GetValidator(validationID)
		require.True(t, ok)
		require.Equal(t, Active, v.Status)
		require.Equal(t, conversion.Validators[i].Weight, v.Weight)
		require.True(t, env.manager.IsActiveValidator(conversion.Validators[i].NodeID))
	}

	snap := env.manager.ChurnSnapshot()
	require.Equal(t, uint64(1000), snap.InitialWeight)
	require.Equal(t, uint64(0), snap.ChurnAmount)
	require.Equal(t, uint64(200), snap.Limit)
}

func TestInitializeSetRejectsNonOperator(t *testing.T) {
	env := newTestEnv(t)
	conversion := env.newConversion(t, 1000)

	err := env.manager.InitializeSet(context.Background(), testCaller, conversion, 0)
	require.ErrorIs(t, err, ErrUnauthorizedCaller)
}

func TestInitializeSetRejectsReinitialization(t *testing.T) {
	env := newTestEnv(t)
	env.initialize(t, 1000)

	conversion := env.newConversion(t, 1000)
	err := env.manager.InitializeSet(context.Background(), testOperator, conversion, 0)
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestInitializeSetRejectsConversionMismatch(t *testing.T) {
	env := newTestEnv(t)
	conversion := env.newConversion(t, 1000)

	// Acknowledgment hashes different conversion data.
	other := env.newConversion(t, 999)
	ack, err := message.NewConversionAck(other.ConversionID())
	require.NoError(t, err)
	env.queueFromRoot(0, ack.Bytes())

	err = env.manager.InitializeSet(context.Background(), testOperator, conversion, 0)
	require.ErrorIs(t, err, ErrInvalidConversion)
	require.False(t, env.manager.Initialized())
}

func TestInitializeSetRejectsWrongInstance(t *testing.T) {
	env := newTestEnv(t)
	validators := []message.ConversionValidator{{
		NodeID:       ids.GenerateTestNodeID(),
		BLSPublicKey: testBLSKey(t),
		Weight:       1000,
	}}
	conversion, err := message.NewConversion(
		env.cfg.SubnetID, env.cfg.ChainID,
		common.HexToAddress("0x4000000000000000000000000000000000000004"),
		validators,
	)
	require.NoError(t, err)

	err = env.manager.InitializeSet(context.Background(), testOperator, conversion, 0)
	require.ErrorIs(t, err, ErrInvalidConversion)
}

func TestInitializeSetRejectsWrongOrigin(t *testing.T) {
	env := newTestEnv(t)
	conversion := env.newConversion(t, 1000)
	ack, err := message.NewConversionAck(conversion.ConversionID())
	require.NoError(t, err)

	env.channel.QueueInbound(0, &InboundMessage{
		Payload:       ack.Bytes(),
		SourceChainID: ids.GenerateTestID(),
		SourceAddress: env.cfg.RootSenderAddress,
	})
	err = env.manager.InitializeSet(context.Background(), testOperator, conversion, 0)
	require.ErrorIs(t, err, ErrInvalidSourceChain)

	env.channel.QueueInbound(0, &InboundMessage{
		Payload:       ack.Bytes(),
		SourceChainID: env.cfg.RootChainID,
		SourceAddress: testCaller,
	})
	err = env.manager.InitializeSet(context.Background(), testOperator, conversion, 0)
	require.ErrorIs(t, err, ErrInvalidOriginSender)
}

func TestInitializeSetRejectsTinyTotalWeight(t *testing.T) {
	env := newTestEnv(t)
	// 4 * 20 / 100 floors to zero: the window could never admit a change.
	conversion := env.newConversion(t, 4)
	ack, err := message.NewConversionAck(conversion.ConversionID())
	require.NoError(t, err)
	env.queueFromRoot(0, ack.Bytes())

	err = env.manager.InitializeSet(context.Background(), testOperator, conversion, 0)
	require.ErrorIs(t, err, ErrInvalidTotalWeight)
	require.False(t, env.manager.Initialized())
}

func TestManagerConfigVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ManagerConfig)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(*ManagerConfig) {},
		},
		{
			name:    "zero churn percentage",
			mutate:  func(c *ManagerConfig) { c.MaxChurnPercentage = 0 },
			wantErr: true,
		},
		{
			name:    "churn percentage over 100",
			mutate:  func(c *ManagerConfig) { c.MaxChurnPercentage = 101 },
			wantErr: true,
		},
		{
			name:    "zero churn period",
			mutate:  func(c *ManagerConfig) { c.ChurnPeriod = 0 },
			wantErr: true,
		},
		{
			name:    "zero validator weight",
			mutate:  func(c *ManagerConfig) { c.ValidatorWeight = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ManagerConfig{
				ValidatorWeight:    100,
				MaxChurnPercentage: 20,
				ChurnPeriod:        time.Hour,
			}
			tt.mutate(&cfg)
			err := cfg.Verify()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSetQualificationGate(t *testing.T) {
	env := newTestEnv(t)

	err := env.manager.SetQualificationGate(testCaller, AlwaysQualified{})
	require.ErrorIs(t, err, ErrUnauthorizedCaller)

	require.NoError(t, env.manager.SetQualificationGate(testOperator, AlwaysQualified{}))
}
