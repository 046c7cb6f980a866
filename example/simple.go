// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Walks a validator through its full lifecycle using an in-memory
// channel standing in for the root authority.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	log "github.com/luxfi/log"

	"github.com/luxfi/poa"
	"github.com/luxfi/poa/message"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	operator := common.HexToAddress("0x0100000000000000000000000000000000000001")

	cfg := poa.ManagerConfig{
		SubnetID:           ids.GenerateTestID(),
		ChainID:            ids.GenerateTestID(),
		Address:            common.HexToAddress("0x0200000000000000000000000000000000000002"),
		Operator:           operator,
		RootChainID:        ids.GenerateTestID(),
		ValidatorWeight:    100,
		RegistrationWindow: 24 * time.Hour,
		MaxChurnPercentage: 20,
		ChurnPeriod:        time.Hour,
	}

	channel := poa.NewFakeChannel()
	manager, err := poa.NewManager(log.NewNoOpLogger(), cfg, channel, poa.AlwaysQualified{})
	if err != nil {
		return err
	}

	// Convert an initial two-validator set.
	sk, err := bls.NewSecretKey()
	if err != nil {
		return err
	}
	blsKey := bls.PublicKeyToCompressedBytes(bls.PublicFromSecretKey(sk))

	conversion, err := message.NewConversion(
		cfg.SubnetID,
		cfg.ChainID,
		cfg.Address,
		[]message.ConversionValidator{
			{NodeID: ids.GenerateTestNodeID(), BLSPublicKey: blsKey, Weight: 600},
			{NodeID: ids.GenerateTestNodeID(), BLSPublicKey: blsKey, Weight: 400},
		},
	)
	if err != nil {
		return err
	}
	ack, err := message.NewConversionAck(conversion.ConversionID())
	if err != nil {
		return err
	}
	channel.QueueInbound(0, &poa.InboundMessage{
		Payload:       ack.Bytes(),
		SourceChainID: cfg.RootChainID,
	})
	if err := manager.InitializeSet(ctx, operator, conversion, 0); err != nil {
		return err
	}
	fmt.Printf("Initialized, total weight %d\n", manager.TotalWeight())

	// Register a new validator and acknowledge the registration.
	validationID, err := manager.RegisterValidator(
		ctx,
		operator,
		ids.GenerateTestNodeID(),
		blsKey,
		message.Owners{},
		message.Owners{},
	)
	if err != nil {
		return err
	}
	registered, err := message.NewValidatorRegistration(validationID, true)
	if err != nil {
		return err
	}
	channel.QueueInbound(1, &poa.InboundMessage{
		Payload:       registered.Bytes(),
		SourceChainID: cfg.RootChainID,
	})
	if _, err := manager.CompleteRegistration(ctx, operator, 1); err != nil {
		return err
	}
	fmt.Printf("Registered %s, total weight %d\n", validationID, manager.TotalWeight())

	// Remove it again.
	if _, _, err := manager.InitiateRemoval(ctx, operator, validationID); err != nil {
		return err
	}
	removed, err := message.NewValidatorRegistration(validationID, false)
	if err != nil {
		return err
	}
	channel.QueueInbound(2, &poa.InboundMessage{
		Payload:       removed.Bytes(),
		SourceChainID: cfg.RootChainID,
	})
	if _, err := manager.CompleteRemoval(ctx, operator, 2); err != nil {
		return err
	}
	fmt.Printf("Removed %s, total weight %d\n", validationID, manager.TotalWeight())

	snapshot := manager.ChurnSnapshot()
	fmt.Printf("Churn used %d of %d this period\n", snapshot.ChurnAmount, snapshot.Limit)
	return nil
}
