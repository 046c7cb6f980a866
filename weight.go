// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package poa

import (
	"context"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/poa/message"
)

// InitiateWeightUpdate proposes a new weight for an Active validator and
// dispatches a nonce-ordered weight message. Operator-only. The recorded
// weight is unchanged until CompleteWeightUpdate observes the
// acknowledgment; the churn window and total weight are charged now, so the
// budget is reserved even if the acknowledgment never arrives.
func (m *Manager) InitiateWeightUpdate(
	ctx context.Context,
	caller common.Address,
	validationID ids.ID,
	newWeight uint64,
) (uint64, ids.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireOperator(caller); err != nil {
		return 0, ids.Empty, err
	}
	if !m.initialized {
		return 0, ids.Empty, ErrNotInitialized
	}
	if newWeight == 0 {
		return 0, ids.Empty, fmt.Errorf("%w: zero weight, initiate removal instead", ErrInvalidWeight)
	}

	v := m.validators[validationID]
	if v == nil || v.Status != Active {
		return 0, ids.Empty, fmt.Errorf("%w: %s", ErrInvalidValidatorStatus, m.statusOf(validationID))
	}

	nonce, messageID, err := m.sendWeightChange(ctx, validationID, v, newWeight)
	if err != nil {
		return 0, ids.Empty, err
	}

	m.log.Info("initiated weight update",
		log.Stringer("validationID", validationID),
		log.Uint64("nonce", nonce),
		log.Uint64("newWeight", newWeight),
		log.Stringer("messageID", messageID),
	)
	return nonce, messageID, nil
}

// CompleteWeightUpdate consumes a weight acknowledgment and applies the
// confirmed weight to the validator's record. Operator-only. Stale,
// out-of-order and already-applied acknowledgments are rejected, not queued.
func (m *Manager) CompleteWeightUpdate(
	ctx context.Context,
	caller common.Address,
	proofIndex uint32,
) (ids.ID, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireOperator(caller); err != nil {
		return ids.Empty, 0, err
	}
	if !m.initialized {
		return ids.Empty, 0, ErrNotInitialized
	}

	inbound, err := m.receiveFromRoot(ctx, proofIndex)
	if err != nil {
		return ids.Empty, 0, err
	}
	ack, err := message.ParseValidatorWeight(inbound.Payload)
	if err != nil {
		return ids.Empty, 0, err
	}

	validationID := ack.ValidationID
	v := m.validators[validationID]
	if v == nil || v.Status != Active {
		return ids.Empty, 0, fmt.Errorf("%w: %s", ErrInvalidValidatorStatus, m.statusOf(validationID))
	}
	if ack.Nonce != v.SentNonce {
		return ids.Empty, 0, fmt.Errorf(
			"%w: got %d, want %d",
			ErrInvalidNonce, ack.Nonce, v.SentNonce,
		)
	}
	if v.ReceivedNonce == v.SentNonce {
		return ids.Empty, 0, fmt.Errorf(
			"%w: nonce %d already applied",
			ErrInvalidNonce, ack.Nonce,
		)
	}

	v.ReceivedNonce = ack.Nonce
	v.Weight = ack.Weight

	m.log.Info("completed weight update",
		log.Stringer("validationID", validationID),
		log.Uint64("nonce", ack.Nonce),
		log.Uint64("weight", ack.Weight),
	)
	return validationID, ack.Weight, nil
}

// InitiateRemoval ends an Active validator's period: stamps its end time,
// moves it to PendingRemoved and dispatches a zero-weight message through
// the same machinery as a weight update. Operator-only.
func (m *Manager) InitiateRemoval(
	ctx context.Context,
	caller common.Address,
	validationID ids.ID,
) (uint64, ids.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireOperator(caller); err != nil {
		return 0, ids.Empty, err
	}
	if !m.initialized {
		return 0, ids.Empty, ErrNotInitialized
	}

	v := m.validators[validationID]
	if v == nil || v.Status != Active {
		return 0, ids.Empty, fmt.Errorf("%w: %s", ErrInvalidValidatorStatus, m.statusOf(validationID))
	}

	nonce, messageID, err := m.sendWeightChange(ctx, validationID, v, 0)
	if err != nil {
		return 0, ids.Empty, err
	}
	v.Status = PendingRemoved
	v.EndTime = m.now()

	m.log.Info("initiated validator removal",
		log.Stringer("validationID", validationID),
		log.Stringer("nodeID", v.NodeID),
		log.Uint64("nonce", nonce),
		log.Stringer("messageID", messageID),
	)
	return nonce, messageID, nil
}

// ResendRemoval re-dispatches the zero-weight message for a PendingRemoved
// validator. Permissionless. Unlike registration resends there is no stored
// blob: the message is fully determined by current state, so it is encoded
// fresh at the current sent nonce.
func (m *Manager) ResendRemoval(ctx context.Context, validationID ids.ID) (ids.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ids.Empty, ErrNotInitialized
	}
	v := m.validators[validationID]
	if v == nil || v.Status != PendingRemoved {
		return ids.Empty, fmt.Errorf("%w: %s", ErrInvalidValidatorStatus, m.statusOf(validationID))
	}

	msg, err := message.NewValidatorWeight(validationID, v.SentNonce, 0)
	if err != nil {
		return ids.Empty, err
	}
	messageID, err := m.channel.Send(ctx, msg.Bytes())
	if err != nil {
		return ids.Empty, fmt.Errorf("dispatching removal message: %w", err)
	}

	m.log.Debug("resent validator removal",
		log.Stringer("validationID", validationID),
		log.Uint64("nonce", v.SentNonce),
		log.Stringer("messageID", messageID),
	)
	return messageID, nil
}

// CompleteRemoval consumes an acknowledgment reporting the validator is not
// registered. Operator-only. A PendingRemoved validator completes normally.
// A PendingAdded validator reached here means the registration itself
// failed: it is invalidated, its reserved weight is released from the total
// without touching the spent churn budget, and its pending message is
// dropped. Either way the node identifier is freed for re-registration.
func (m *Manager) CompleteRemoval(
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
	if ack.Registered {
		return ids.Empty, fmt.Errorf(
			"%w: registration reported live, complete via registration",
			ErrUnexpectedAcknowledgment,
		)
	}

	validationID := ack.ValidationID
	v := m.validators[validationID]
	if v == nil {
		return ids.Empty, fmt.Errorf("%w: %s", ErrInvalidValidationID, validationID)
	}

	switch v.Status {
	case PendingRemoved:
		v.Status = Completed
		v.Weight = 0
	case PendingAdded:
		v.Status = Invalidated
		m.churn.rollback(v.StartingWeight)
		delete(m.pendingRegisterMessages, validationID)
	default:
		return ids.Empty, fmt.Errorf("%w: %s", ErrInvalidValidatorStatus, v.Status)
	}
	delete(m.registeredNodes, v.NodeID)

	m.log.Info("completed validator removal",
		log.Stringer("validationID", validationID),
		log.Stringer("nodeID", v.NodeID),
		log.Stringer("status", v.Status),
	)
	return validationID, nil
}

// sendWeightChange reserves churn budget for a weight change, assigns the
// next nonce and dispatches the message. Nothing is committed if the
// dispatch fails. Callers must hold the lock.
func (m *Manager) sendWeightChange(
	ctx context.Context,
	validationID ids.ID,
	v *Validator,
	newWeight uint64,
) (uint64, ids.ID, error) {
	saved := m.churn
	if err := m.churn.checkAndApply(m.now(), newWeight, v.Weight); err != nil {
		return 0, ids.Empty, err
	}

	nonce := v.SentNonce + 1
	msg, err := message.NewValidatorWeight(validationID, nonce, newWeight)
	if err != nil {
		m.churn = saved
		return 0, ids.Empty, err
	}
	messageID, err := m.channel.Send(ctx, msg.Bytes())
	if err != nil {
		m.churn = saved
		return 0, ids.Empty, fmt.Errorf("dispatching weight message: %w", err)
	}

	v.SentNonce = nonce
	return nonce, messageID, nil
}
