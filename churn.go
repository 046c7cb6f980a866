// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package poa

import (
	"fmt"
	"math"
	"time"

	"github.com/holiman/uint256"
)

// ChurnSnapshot is a read-only view of the current churn window.
type ChurnSnapshot struct {
	StartTime     time.Time
	InitialWeight uint64
	TotalWeight   uint64
	ChurnAmount   uint64
	Limit         uint64
}

// churnTracker bounds how much total consensus weight may change within a
// rolling window. The window rebases lazily: the first check at or after
// startTime+period resets churnAmount and rebases initialWeight to the
// current totalWeight.
//
// The tracker is not safe for concurrent use; the manager serializes every
// operation under one lock so the check and the caller's state mutation
// commit as a single step.
type churnTracker struct {
	maxChurnPercentage uint8
	period             time.Duration

	startTime     time.Time
	initialWeight uint64
	totalWeight   uint64
	churnAmount   uint64
}

// seed starts the first window from the converted set's summed weight
func (c *churnTracker) seed(now time.Time, totalWeight uint64) {
	c.startTime = now
	c.initialWeight = totalWeight
	c.totalWeight = totalWeight
	c.churnAmount = 0
}

// limit returns floor(initialWeight * maxChurnPercentage / 100). The
// intermediate product is computed in 256-bit space so a large initial
// weight cannot overflow.
func (c *churnTracker) limit() uint64 {
	z := new(uint256.Int).SetUint64(c.initialWeight)
	z.Mul(z, uint256.NewInt(uint64(c.maxChurnPercentage)))
	z.Div(z, uint256.NewInt(100))
	if !z.IsUint64() {
		return math.MaxUint64
	}
	return z.Uint64()
}

// checkAndApply charges |newWeight-oldWeight| against the window budget and
// moves totalWeight by the signed difference. On rejection nothing is
// mutated other than a possible window rebase.
func (c *churnTracker) checkAndApply(now time.Time, newWeight, oldWeight uint64) error {
	if !now.Before(c.startTime.Add(c.period)) {
		c.startTime = now
		c.initialWeight = c.totalWeight
		c.churnAmount = 0
	}

	delta := AbsDiff(newWeight, oldWeight)
	attempted, err := AddUint64(c.churnAmount, delta)
	if err != nil {
		return fmt.Errorf("%w: churn amount overflow", ErrExceededChurnLimit)
	}
	limit := c.limit()
	if attempted > limit {
		return fmt.Errorf(
			"%w: attempted churn %d exceeds limit %d",
			ErrExceededChurnLimit, attempted, limit,
		)
	}

	total := c.totalWeight
	if newWeight > oldWeight {
		total, err = AddUint64(total, newWeight-oldWeight)
	} else {
		total, err = SubUint64(total, oldWeight-newWeight)
	}
	if err != nil {
		return fmt.Errorf("%w: total weight overflow", ErrExceededChurnLimit)
	}

	c.churnAmount = attempted
	c.totalWeight = total
	return nil
}

// rollback releases weight that was reserved optimistically for a
// registration the root authority reported as failed. The spent churnAmount
// is deliberately left untouched: a failed registration never used the
// weight, but the budget charge already happened in a window that may have
// since rebased.
func (c *churnTracker) rollback(weight uint64) {
	total, err := SubUint64(c.totalWeight, weight)
	if err != nil {
		total = 0
	}
	c.totalWeight = total
}

// snapshot returns a copy of the window for the query surface
func (c *churnTracker) snapshot() ChurnSnapshot {
	return ChurnSnapshot{
		StartTime:     c.startTime,
		InitialWeight: c.initialWeight,
		TotalWeight:   c.totalWeight,
		ChurnAmount:   c.churnAmount,
		Limit:         c.limit(),
	}
}
