// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package poa

import (
	"context"
	"sync"

	"github.com/luxfi/ids"

	"github.com/luxfi/poa/message"
)

var _ MessageChannel = (*FakeChannel)(nil)

// FakeChannel is an in-memory MessageChannel for tests. It records every
// dispatched payload and serves queued inbound messages by index.
type FakeChannel struct {
	mu      sync.Mutex
	sent    [][]byte
	inbound map[uint32]*InboundMessage

	// SendErr, when set, fails the next Send
	SendErr error
}

// NewFakeChannel returns an empty fake channel
func NewFakeChannel() *FakeChannel {
	return &FakeChannel{
		inbound: make(map[uint32]*InboundMessage),
	}
}

// Send records the payload and returns its content hash as the message ID
func (f *FakeChannel) Send(_ context.Context, payload []byte) (ids.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SendErr != nil {
		err := f.SendErr
		f.SendErr = nil
		return ids.Empty, err
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	f.sent = append(f.sent, cp)
	return ids.ID(message.ComputeHash256Array(cp)), nil
}

// ReceiveVerified serves a previously queued inbound message
func (f *FakeChannel) ReceiveVerified(_ context.Context, index uint32) (*InboundMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	msg, ok := f.inbound[index]
	if !ok {
		return nil, ErrInvalidMessage
	}
	return msg, nil
}

// QueueInbound makes msg available at index
func (f *FakeChannel) QueueInbound(index uint32, msg *InboundMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inbound[index] = msg
}

// Sent returns copies of every dispatched payload in order
func (f *FakeChannel) Sent() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([][]byte, len(f.sent))
	copy(out, f.sent)
	return out
}
