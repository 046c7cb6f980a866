// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package poa

import (
	"context"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
)

// InboundMessage is a message fetched from the channel together with the
// authenticated identity of its origin. The channel verifies authenticity;
// the manager separately checks the origin against the root authority's
// identity before trusting the payload.
type InboundMessage struct {
	Payload       []byte
	SourceChainID ids.ID
	SourceAddress common.Address
}

// MessageChannel is the asynchronous transport to and from the root
// authority. Send is best effort and guarantees nothing about delivery;
// callers that never observe an acknowledgment re-dispatch through the
// manager's resend operations.
type MessageChannel interface {
	// Send dispatches a payload toward the root authority and returns the
	// message's identifier
	Send(ctx context.Context, payload []byte) (ids.ID, error)

	// ReceiveVerified fetches the inbound message at index and verifies its
	// authenticity, failing closed on any verification mismatch
	ReceiveVerified(ctx context.Context, index uint32) (*InboundMessage, error)
}
