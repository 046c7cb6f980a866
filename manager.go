// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package poa manages the lifecycle of a proof-of-participation validator
// set. Every mutation to validator weight is proposed locally, dispatched to
// the root authority over an asynchronous message channel, and becomes
// effective only once an acknowledgment is supplied out-of-band. Total
// weight change is bounded per rolling window to protect consensus safety.
package poa

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/poa/message"
)

// ManagerConfig identifies one manager instance and fixes its admission
// policy.
type ManagerConfig struct {
	// SubnetID is the managed consensus group
	SubnetID ids.ID

	// ChainID and Address identify this manager instance; the conversion
	// record the root authority agreed to must name exactly this instance
	ChainID ids.ID
	Address common.Address

	// Operator is the single privileged identity allowed to run
	// administrative operations
	Operator common.Address

	// RootChainID and RootSenderAddress identify the root authority; inbound
	// messages from any other origin are rejected
	RootChainID       ids.ID
	RootSenderAddress common.Address

	// ValidatorWeight is the fixed weight granted to every registered
	// validator
	ValidatorWeight uint64

	// RegistrationWindow is the horizon recorded as the expiry on register
	// messages. The expiry is carried on the wire for the root authority;
	// the manager itself never refuses to complete an expired registration.
	RegistrationWindow time.Duration

	// MaxChurnPercentage bounds total weight change per ChurnPeriod as a
	// percentage of the weight at window start
	MaxChurnPercentage uint8
	ChurnPeriod        time.Duration
}

// Verify verifies the configuration
func (c *ManagerConfig) Verify() error {
	if c.MaxChurnPercentage == 0 || c.MaxChurnPercentage > 100 {
		return fmt.Errorf(
			"max churn percentage must be in (0, 100], got %d",
			c.MaxChurnPercentage,
		)
	}
	if c.ChurnPeriod <= 0 {
		return fmt.Errorf("churn period must be positive, got %s", c.ChurnPeriod)
	}
	if c.ValidatorWeight == 0 {
		return fmt.Errorf("validator weight must be positive")
	}
	return nil
}

// Manager is the validator registry: a single-writer state machine over
// every validation period of the managed set. All operations serialize
// through one lock so a churn check and its state mutation commit as an
// atomic step.
type Manager struct {
	log     log.Logger
	cfg     ManagerConfig
	channel MessageChannel

	mu          sync.Mutex
	gate        QualificationGate
	now         func() time.Time
	initialized bool
	churn       churnTracker

	validators      map[ids.ID]*Validator
	registeredNodes map[ids.NodeID]ids.ID

	// pendingRegisterMessages holds the raw register message for each
	// PendingAdded validator so callers can re-dispatch it unchanged
	pendingRegisterMessages map[ids.ID][]byte
}

// NewManager returns a manager for the given instance identity and policy.
func NewManager(
	logger log.Logger,
	cfg ManagerConfig,
	channel MessageChannel,
	gate QualificationGate,
) (*Manager, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	return &Manager{
		log:     logger,
		cfg:     cfg,
		channel: channel,
		gate:    gate,
		now:     time.Now,
		churn: churnTracker{
			maxChurnPercentage: cfg.MaxChurnPercentage,
			period:             cfg.ChurnPeriod,
		},
		validators:              make(map[ids.ID]*Validator),
		registeredNodes:         make(map[ids.NodeID]ids.ID),
		pendingRegisterMessages: make(map[ids.ID][]byte),
	}, nil
}

// InitializeSet verifies, against the acknowledgment at proofIndex, that the
// root authority agreed to exactly the supplied conversion data, then admits
// every initial validator directly as Active and seeds the churn window with
// their summed weight. One-time, operator-only.
func (m *Manager) InitializeSet(
	ctx context.Context,
	caller common.Address,
	conversion *message.Conversion,
	proofIndex uint32,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireOperator(caller); err != nil {
		return err
	}
	if m.initialized {
		return ErrAlreadyInitialized
	}
	if err := conversion.Verify(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConversion, err)
	}
	if conversion.SubnetID != m.cfg.SubnetID {
		return fmt.Errorf(
			"%w: subnet ID %s does not match %s",
			ErrInvalidConversion, conversion.SubnetID, m.cfg.SubnetID,
		)
	}
	if conversion.ManagerChainID != m.cfg.ChainID {
		return fmt.Errorf(
			"%w: manager chain ID %s does not match %s",
			ErrInvalidConversion, conversion.ManagerChainID, m.cfg.ChainID,
		)
	}
	if conversion.ManagerAddress != m.cfg.Address {
		return fmt.Errorf(
			"%w: manager address %s does not match %s",
			ErrInvalidConversion, conversion.ManagerAddress, m.cfg.Address,
		)
	}

	inbound, err := m.receiveFromRoot(ctx, proofIndex)
	if err != nil {
		return err
	}
	ack, err := message.ParseConversionAck(inbound.Payload)
	if err != nil {
		return err
	}
	conversionID := conversion.ConversionID()
	if ack.ConversionID != conversionID {
		return fmt.Errorf(
			"%w: acknowledged conversion ID %s does not match %s",
			ErrInvalidConversion, ack.ConversionID, conversionID,
		)
	}

	var totalWeight uint64
	for i := range conversion.Validators {
		totalWeight, err = AddUint64(totalWeight, conversion.Validators[i].Weight)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidTotalWeight, err)
		}
	}
	// The window must admit at least one full unit of weight change.
	seeded := churnTracker{
		maxChurnPercentage: m.cfg.MaxChurnPercentage,
		period:             m.cfg.ChurnPeriod,
	}
	now := m.now()
	seeded.seed(now, totalWeight)
	if seeded.limit() == 0 {
		return fmt.Errorf(
			"%w: total weight %d with churn percentage %d admits no change",
			ErrInvalidTotalWeight, totalWeight, m.cfg.MaxChurnPercentage,
		)
	}

	for i := range conversion.Validators {
		v := &conversion.Validators[i]
		validationID := message.ConversionValidationID(conversionID, uint32(i))
		m.validators[validationID] = &Validator{
			Status:         Active,
			NodeID:         v.NodeID,
			StartingWeight: v.Weight,
			Weight:         v.Weight,
			StartTime:      now,
		}
		m.registeredNodes[v.NodeID] = validationID
	}
	m.churn = seeded
	m.initialized = true

	m.log.Info("initialized validator set",
		log.Stringer("conversionID", conversionID),
		log.Int("validators", len(conversion.Validators)),
		log.Uint64("totalWeight", totalWeight),
	)
	return nil
}

// SetQualificationGate replaces the qualification oracle. Operator-only.
func (m *Manager) SetQualificationGate(caller common.Address, gate QualificationGate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireOperator(caller); err != nil {
		return err
	}
	m.gate = gate
	return nil
}

// statusOf returns the status recorded for a validation ID, Unknown if no
// record exists. Callers must hold the lock.
func (m *Manager) statusOf(validationID ids.ID) Status {
	if v := m.validators[validationID]; v != nil {
		return v.Status
	}
	return Unknown
}

func (m *Manager) requireOperator(caller common.Address) error {
	if caller != m.cfg.Operator {
		return fmt.Errorf("%w: %s", ErrUnauthorizedCaller, caller)
	}
	return nil
}

// receiveFromRoot fetches a verified inbound message and checks that it
// originates from the root authority's chain and system sender.
func (m *Manager) receiveFromRoot(ctx context.Context, index uint32) (*InboundMessage, error) {
	inbound, err := m.channel.ReceiveVerified(ctx, index)
	if err != nil {
		return nil, err
	}
	if inbound.SourceChainID != m.cfg.RootChainID {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSourceChain, inbound.SourceChainID)
	}
	if inbound.SourceAddress != m.cfg.RootSenderAddress {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOriginSender, inbound.SourceAddress)
	}
	return inbound, nil
}

// Initialized reports whether the set has been initialized
func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// GetValidator returns a copy of the validator record for a validation ID
func (m *Manager) GetValidator(validationID ids.ID) (Validator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.validators[validationID]
	if !ok {
		return Validator{}, false
	}
	return *v, true
}

// GetValidationID returns the live validation ID registered for a node
func (m *Manager) GetValidationID(nodeID ids.NodeID) (ids.ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	validationID, ok := m.registeredNodes[nodeID]
	return validationID, ok
}

// IsActiveValidator reports whether the node currently has an Active
// validation period
func (m *Manager) IsActiveValidator(nodeID ids.NodeID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	validationID, ok := m.registeredNodes[nodeID]
	if !ok {
		return false
	}
	v, ok := m.validators[validationID]
	return ok && v.Status == Active
}

// TotalWeight returns the churn tracker's view of total active weight
func (m *Manager) TotalWeight() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.churn.totalWeight
}

// ChurnSnapshot returns the current churn window
func (m *Manager) ChurnSnapshot() ChurnSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.churn.snapshot()
}
