// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package poa

import (
	"errors"
	"math"
)

var errOverflow = errors.New("weight arithmetic overflow")

// AddUint64 adds two uint64 values and returns an error on overflow
func AddUint64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errOverflow
	}
	return a + b, nil
}

// SubUint64 subtracts b from a and returns an error on underflow
func SubUint64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errOverflow
	}
	return a - b, nil
}

// AbsDiff returns |a - b|
func AbsDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
