// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package poa

import (
	"context"
	"fmt"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/math/set"
	"github.com/luxfi/p2p"

	"github.com/luxfi/poa/cache"
	"github.com/luxfi/poa/message"
	"github.com/luxfi/poa/utils"
)

// InboundReader serves messages delivered from the root authority, already
// authenticated at the transport layer. A message at a given index is
// immutable once readable.
type InboundReader interface {
	ReadMessage(ctx context.Context, index uint32) (*InboundMessage, error)
}

// P2PChannelConfig configures a P2PChannel.
type P2PChannelConfig struct {
	// Relayers are the nodes outbound payloads are handed to for relay
	// toward the root authority
	Relayers set.Set[ids.NodeID]

	// CacheSize bounds the number of verified inbound messages kept in memory
	CacheSize int

	// FetchTimeout bounds retries of a single inbound fetch
	FetchTimeout time.Duration
}

var _ MessageChannel = (*P2PChannel)(nil)

// P2PChannel is a MessageChannel over a p2p client. Sends hand the payload
// to a relayer set and guarantee nothing beyond that; receives read from an
// InboundReader, retrying transient failures and caching results by index.
type P2PChannel struct {
	log      log.Logger
	client   *p2p.Client
	reader   InboundReader
	relayers set.Set[ids.NodeID]
	timeout  time.Duration
	inbound  *cache.LRUCache[uint32, *InboundMessage]
}

// NewP2PChannel returns a channel sending through client and reading
// inbound messages from reader.
func NewP2PChannel(
	logger log.Logger,
	client *p2p.Client,
	reader InboundReader,
	cfg P2PChannelConfig,
) *P2PChannel {
	return &P2PChannel{
		log:      logger,
		client:   client,
		reader:   reader,
		relayers: cfg.Relayers,
		timeout:  cfg.FetchTimeout,
		inbound:  cache.NewLRUCache[uint32, *InboundMessage](cfg.CacheSize),
	}
}

// Send dispatches the payload to the relayer set. The returned ID is the
// payload's content hash; it identifies the message, not its delivery.
func (c *P2PChannel) Send(ctx context.Context, payload []byte) (ids.ID, error) {
	messageID := ids.ID(message.ComputeHash256Array(payload))
	if err := c.client.Request(ctx, c.relayers, payload, c.handleResponse); err != nil {
		return ids.Empty, fmt.Errorf("requesting relay: %w", err)
	}
	c.log.Debug("dispatched payload to relayers",
		log.Stringer("messageID", messageID),
		log.Int("relayers", c.relayers.Len()),
	)
	return messageID, nil
}

// ReceiveVerified returns the authenticated message at index, served from
// cache when it was fetched before.
func (c *P2PChannel) ReceiveVerified(ctx context.Context, index uint32) (*InboundMessage, error) {
	return c.inbound.Get(index, func(index uint32) (*InboundMessage, error) {
		var msg *InboundMessage
		err := utils.WithRetriesTimeout(c.log, func() error {
			var err error
			msg, err = c.reader.ReadMessage(ctx, index)
			return err
		}, c.timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: reading message at index %d: %s", ErrInvalidMessage, index, err)
		}
		return msg, nil
	}, false)
}

// handleResponse observes relay responses. Delivery is best effort, so
// failures are only logged.
func (c *P2PChannel) handleResponse(_ context.Context, nodeID ids.NodeID, _ []byte, err error) {
	if err != nil {
		c.log.Debug("relayer rejected payload",
			log.Stringer("nodeID", nodeID),
			log.Err(err),
		)
	}
}
