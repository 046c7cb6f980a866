// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package gate implements the qualification oracle over RPC.
package gate

import (
	"context"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/rpc"

	"github.com/luxfi/poa"
)

// DefaultMethod is the RPC method queried for candidate qualification
const DefaultMethod = "poa_isQualified"

var _ poa.QualificationGate = (*RPCGate)(nil)

// RPCGate queries an external oracle endpoint for every candidate. Results
// are never cached; the oracle stays authoritative between calls.
type RPCGate struct {
	client *rpc.Client
	method string
}

// Dial connects to the oracle endpoint
func Dial(ctx context.Context, url string) (*RPCGate, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dialing qualification oracle: %w", err)
	}
	return &RPCGate{
		client: client,
		method: DefaultMethod,
	}, nil
}

// IsQualified implements poa.QualificationGate
func (g *RPCGate) IsQualified(ctx context.Context, candidate common.Address) (bool, error) {
	var qualified bool
	if err := g.client.CallContext(ctx, &qualified, g.method, candidate); err != nil {
		return false, fmt.Errorf("querying qualification oracle: %w", err)
	}
	return qualified, nil
}

// Close releases the underlying RPC connection
func (g *RPCGate) Close() {
	g.client.Close()
}
