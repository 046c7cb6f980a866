// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package poa

import (
	"context"
	"fmt"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/poa/message"
)

// RegisterValidator proposes a new validation period for a node.
// Permissionless, gated by the qualification oracle. The registration
// reserves churn budget immediately and dispatches a register message; the
// validator stays PendingAdded until CompleteRegistration observes the root
// authority's acknowledgment.
func (m *Manager) RegisterValidator(
	ctx context.Context,
	caller common.Address,
	nodeID ids.NodeID,
	blsPublicKey []byte,
	remainingBalanceOwners message.Owners,
	disableOwners message.Owners,
) (ids.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ids.Empty, ErrNotInitialized
	}

	qualified, err := m.gate.IsQualified(ctx, caller)
	if err != nil {
		return ids.Empty, fmt.Errorf("querying qualification gate: %w", err)
	}
	if !qualified {
		return ids.Empty, fmt.Errorf("%w: %s", ErrNotQualified, caller)
	}

	if nodeID == (ids.NodeID{}) {
		return ids.Empty, fmt.Errorf("%w: zero node ID", ErrInvalidNodeID)
	}
	if len(blsPublicKey) != message.BLSPublicKeyLen {
		return ids.Empty, fmt.Errorf(
			"%w: got %d bytes, want %d",
			ErrInvalidBLSKeyLength, len(blsPublicKey), message.BLSPublicKeyLen,
		)
	}
	if _, err := bls.PublicKeyFromCompressedBytes(blsPublicKey); err != nil {
		return ids.Empty, fmt.Errorf("parsing BLS public key: %w", err)
	}
	if _, ok := m.registeredNodes[nodeID]; ok {
		return ids.Empty, fmt.Errorf("%w: %s", ErrNodeAlreadyRegistered, nodeID)
	}

	now := m.now()
	expiry := uint64(now.Add(m.cfg.RegistrationWindow).Unix())
	register, err := message.NewRegister(
		m.cfg.SubnetID,
		nodeID,
		blsPublicKey,
		expiry,
		remainingBalanceOwners,
		disableOwners,
		m.cfg.ValidatorWeight,
	)
	if err != nil {
		return ids.Empty, err
	}

	// A registration identical in every field would hash to the validation
	// ID of an existing period; reject rather than overwrite its record.
	validationID := register.ValidationID()
	if _, ok := m.validators[validationID]; ok {
		return ids.Empty, fmt.Errorf("%w: validation ID %s already exists", ErrNodeAlreadyRegistered, validationID)
	}

	saved := m.churn
	if err := m.churn.checkAndApply(now, m.cfg.ValidatorWeight, 0); err != nil {
		return ids.Empty, err
	}

	raw := register.Bytes()
	messageID, err := m.channel.Send(ctx, raw)
	if err != nil {
		m.churn = saved
		return ids.Empty, fmt.Errorf("dispatching register message: %w", err)
	}

	m.validators[validationID] = &Validator{
		Status:         PendingAdded,
		NodeID:         nodeID,
		StartingWeight: m.cfg.ValidatorWeight,
		Weight:         m.cfg.ValidatorWeight,
	}
	m.registeredNodes[nodeID] = validationID
	m.pendingRegisterMessages[validationID] = raw

	m.log.Info("initiated validator registration",
		log.Stringer("validationID", validationID),
		log.Stringer("nodeID", nodeID),
		log.Stringer("messageID", messageID),
		log.Uint64("weight", m.cfg.ValidatorWeight),
	)
	return validationID, nil
}

// CompleteRegistration consumes a registration acknowledgment and activates
// the validator it names. Operator-only. An acknowledgment reporting failure
// is rejected here; it completes through CompleteRemoval, which invalidates
// the registration.
func (m *Manager) CompleteRegistration(
	ctx context.Context,
	caller common.Address,
	proofIndex uint32,
) (ids.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireOperator(caller); err != nil {
		return ids.Empty, err
	}
	if !m.initialized {
		return ids.Empty, ErrNotInitialized
	}

	inbound, err := m.receiveFromRoot(ctx, proofIndex)
	if err != nil {
		return ids.Empty, err
	}
	ack, err := message.ParseValidatorRegistration(inbound.Payload)
	if err != nil {
		return ids.Empty, err
	}
	if !ack.Registered {
		return ids.Empty, fmt.Errorf(
			"%w: registration reported failed, complete via removal",
			ErrUnexpectedAcknowledgment,
		)
	}

	validationID := ack.ValidationID
	if _, ok := m.pendingRegisterMessages[validationID]; !ok {
		return ids.Empty, fmt.Errorf("%w: %s", ErrInvalidValidationID, validationID)
	}
	v := m.validators[validationID]
	if v == nil || v.Status != PendingAdded {
		return ids.Empty, fmt.Errorf("%w: %s", ErrInvalidValidatorStatus, m.statusOf(validationID))
	}

	delete(m.pendingRegisterMessages, validationID)
	v.Status = Active
	v.StartTime = m.now()

	m.log.Info("completed validator registration",
		log.Stringer("validationID", validationID),
		log.Stringer("nodeID", v.NodeID),
	)
	return validationID, nil
}

// ResendRegistration re-dispatches the stored register message for a
// PendingAdded validator, byte for byte. Permissionless; the original
// registration already reserved churn budget and passed qualification, so
// neither is re-checked.
func (m *Manager) ResendRegistration(ctx context.Context, validationID ids.ID) (ids.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ids.Empty, ErrNotInitialized
	}
	raw, ok := m.pendingRegisterMessages[validationID]
	if !ok {
		return ids.Empty, fmt.Errorf("%w: %s", ErrInvalidValidationID, validationID)
	}
	v := m.validators[validationID]
	if v == nil || v.Status != PendingAdded {
		return ids.Empty, fmt.Errorf("%w: %s", ErrInvalidValidatorStatus, m.statusOf(validationID))
	}

	messageID, err := m.channel.Send(ctx, raw)
	if err != nil {
		return ids.Empty, fmt.Errorf("dispatching register message: %w", err)
	}

	m.log.Debug("resent validator registration",
		log.Stringer("validationID", validationID),
		log.Stringer("messageID", messageID),
	)
	return messageID, nil
}
