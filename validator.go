// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package poa

import (
	"time"

	"github.com/luxfi/ids"
)

// Status is the lifecycle status of one validation period.
type Status uint8

const (
	// Unknown is the zero status; no record exists
	Unknown Status = iota

	// PendingAdded means a registration was dispatched and awaits acknowledgment
	PendingAdded

	// Active means the root authority acknowledged the registration
	Active

	// PendingRemoved means a removal was dispatched and awaits acknowledgment
	PendingRemoved

	// Completed means the root authority acknowledged the removal. Terminal.
	Completed

	// Invalidated means the root authority reported the registration can
	// never become live. Terminal.
	Invalidated
)

// String implements fmt.Stringer
func (s Status) String() string {
	switch s {
	case PendingAdded:
		return "PendingAdded"
	case Active:
		return "Active"
	case PendingRemoved:
		return "PendingRemoved"
	case Completed:
		return "Completed"
	case Invalidated:
		return "Invalidated"
	default:
		return "Unknown"
	}
}

// Terminal returns true if no further operation may mutate a validator in
// this status.
func (s Status) Terminal() bool {
	return s == Completed || s == Invalidated
}

// Live returns true if the status holds the node identifier's registration
// slot: the node may not register again until it leaves a live status.
func (s Status) Live() bool {
	return s == PendingAdded || s == Active || s == PendingRemoved
}

// Validator is the record of one validation period, keyed by its validation
// ID: the content hash of its registration message. Records are never
// deleted; terminal statuses are permanent markers.
type Validator struct {
	Status         Status
	NodeID         ids.NodeID
	StartingWeight uint64
	Weight         uint64

	// SentNonce counts weight-update messages dispatched for this validator.
	// ReceivedNonce is the highest nonce the root authority acknowledged. An
	// acknowledgment whose nonce is not the current SentNonce is rejected.
	SentNonce     uint64
	ReceivedNonce uint64

	// StartTime is stamped when the registration acknowledgment arrives;
	// EndTime when removal is initiated.
	StartTime time.Time
	EndTime   time.Time
}
