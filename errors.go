// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package poa

import "errors"

var (
	// ErrAlreadyInitialized is returned when the set is initialized twice
	ErrAlreadyInitialized = errors.New("validator set already initialized")

	// ErrNotInitialized is returned when an operation precedes set initialization
	ErrNotInitialized = errors.New("validator set not initialized")

	// ErrUnauthorizedCaller is returned when an operator-only operation is
	// invoked by anyone other than the configured operator
	ErrUnauthorizedCaller = errors.New("unauthorized caller")

	// ErrNotQualified is returned when the qualification gate rejects a candidate
	ErrNotQualified = errors.New("caller not qualified")

	// ErrNodeAlreadyRegistered is returned when a node identifier already maps
	// to a live validation period
	ErrNodeAlreadyRegistered = errors.New("node already registered")

	// ErrInvalidNodeID is returned for a malformed node identifier
	ErrInvalidNodeID = errors.New("invalid node ID")

	// ErrInvalidBLSKeyLength is returned for a BLS public key of the wrong length
	ErrInvalidBLSKeyLength = errors.New("invalid BLS public key length")

	// ErrInvalidValidationID is returned when no pending message exists for a
	// validation ID
	ErrInvalidValidationID = errors.New("invalid validation ID")

	// ErrInvalidValidatorStatus is returned when an operation is attempted on
	// a validator not in the required status
	ErrInvalidValidatorStatus = errors.New("invalid validator status")

	// ErrInvalidNonce is returned when an acknowledgment carries a nonce other
	// than the validator's current sent nonce
	ErrInvalidNonce = errors.New("invalid nonce")

	// ErrInvalidWeight is returned for a weight no operation may request
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrUnexpectedAcknowledgment is returned when an acknowledgment's
	// outcome does not match the completion operation it was supplied to
	ErrUnexpectedAcknowledgment = errors.New("unexpected acknowledgment outcome")

	// ErrExceededChurnLimit is returned when a weight change would exceed the
	// rolling churn budget
	ErrExceededChurnLimit = errors.New("exceeded maximum churn rate")

	// ErrInvalidTotalWeight is returned when the initial weight is too small
	// for the configured churn percentage to admit any change
	ErrInvalidTotalWeight = errors.New("invalid total weight")

	// ErrInvalidConversion is returned when supplied conversion data does not
	// hash to the acknowledged conversion ID or identifies another instance
	ErrInvalidConversion = errors.New("invalid conversion data")

	// ErrInvalidMessage is returned by channels when no authentic message
	// exists at a requested index
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidSourceChain is returned when an inbound message originates
	// from a chain other than the root authority
	ErrInvalidSourceChain = errors.New("invalid source chain")

	// ErrInvalidOriginSender is returned when an inbound message originates
	// from an address other than the expected system sender
	ErrInvalidOriginSender = errors.New("invalid origin sender address")
)
