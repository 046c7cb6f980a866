// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package poa

import (
	"context"

	"github.com/luxfi/geth/common"
)

// QualificationGate answers whether a candidate may register a validator.
// The gate is authoritative and is queried on every registration; results
// are never cached, so a candidate that loses qualification between two
// registrations is rejected on the second.
type QualificationGate interface {
	IsQualified(ctx context.Context, candidate common.Address) (bool, error)
}

// AlwaysQualified is a gate that admits every candidate.
type AlwaysQualified struct{}

func (AlwaysQualified) IsQualified(context.Context, common.Address) (bool, error) {
	return true, nil
}
