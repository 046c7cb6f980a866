// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads and validates the manager's configuration from a
// JSON file, environment variables and command line flags.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"

	"github.com/luxfi/poa"
	"github.com/luxfi/poa/gate"
)

const (
	defaultLogLevel           = "info"
	defaultRegistrationWindow = 24 * 60 * 60
	defaultInboundCacheSize   = 256
	defaultFetchTimeout       = 30
)

// Config is the raw configuration as read from file/env/flags. Identifier
// fields are strings here; ManagerConfig parses them into their typed forms.
type Config struct {
	LogLevel           string `mapstructure:"log-level" json:"log-level"`
	SubnetID           string `mapstructure:"subnet-id" json:"subnet-id"`
	ChainID            string `mapstructure:"chain-id" json:"chain-id"`
	ManagerAddress     string `mapstructure:"manager-address" json:"manager-address"`
	OperatorAddress    string `mapstructure:"operator-address" json:"operator-address"`
	RootChainID        string `mapstructure:"root-chain-id" json:"root-chain-id"`
	RootSenderAddress  string `mapstructure:"root-sender-address" json:"root-sender-address"`
	ValidatorWeight    uint64 `mapstructure:"validator-weight" json:"validator-weight"`
	RegistrationWindow uint64 `mapstructure:"registration-window-seconds" json:"registration-window-seconds"`
	MaxChurnPercentage uint8  `mapstructure:"max-churn-percentage" json:"max-churn-percentage"`
	ChurnPeriod        uint64 `mapstructure:"churn-period-seconds" json:"churn-period-seconds"`
	OracleURL          string `mapstructure:"oracle-url" json:"oracle-url"`
	InboundCacheSize   int    `mapstructure:"inbound-cache-size" json:"inbound-cache-size"`
	FetchTimeout       uint64 `mapstructure:"fetch-timeout-seconds" json:"fetch-timeout-seconds"`
}

// Validate verifies every field parses and the policy values are sane
func (c *Config) Validate() error {
	if _, err := c.ManagerConfig(); err != nil {
		return err
	}
	if c.InboundCacheSize <= 0 {
		return fmt.Errorf("inbound cache size must be positive, got %d", c.InboundCacheSize)
	}
	return nil
}

// ManagerConfig parses the typed manager configuration
func (c *Config) ManagerConfig() (poa.ManagerConfig, error) {
	subnetID, err := ids.FromString(c.SubnetID)
	if err != nil {
		return poa.ManagerConfig{}, fmt.Errorf("parsing %s: %w", SubnetIDKey, err)
	}
	chainID, err := ids.FromString(c.ChainID)
	if err != nil {
		return poa.ManagerConfig{}, fmt.Errorf("parsing %s: %w", ChainIDKey, err)
	}
	rootChainID, err := ids.FromString(c.RootChainID)
	if err != nil {
		return poa.ManagerConfig{}, fmt.Errorf("parsing %s: %w", RootChainIDKey, err)
	}
	if !common.IsHexAddress(c.ManagerAddress) {
		return poa.ManagerConfig{}, fmt.Errorf("invalid %s: %q", ManagerAddressKey, c.ManagerAddress)
	}
	if !common.IsHexAddress(c.OperatorAddress) {
		return poa.ManagerConfig{}, fmt.Errorf("invalid %s: %q", OperatorAddressKey, c.OperatorAddress)
	}
	// The root sender may be the zero address for system-originated messages.
	var rootSender common.Address
	if c.RootSenderAddress != "" {
		if !common.IsHexAddress(c.RootSenderAddress) {
			return poa.ManagerConfig{}, fmt.Errorf("invalid %s: %q", RootSenderAddressKey, c.RootSenderAddress)
		}
		rootSender = common.HexToAddress(c.RootSenderAddress)
	}

	cfg := poa.ManagerConfig{
		SubnetID:           subnetID,
		ChainID:            chainID,
		Address:            common.HexToAddress(c.ManagerAddress),
		Operator:           common.HexToAddress(c.OperatorAddress),
		RootChainID:        rootChainID,
		RootSenderAddress:  rootSender,
		ValidatorWeight:    c.ValidatorWeight,
		RegistrationWindow: time.Duration(c.RegistrationWindow) * time.Second,
		MaxChurnPercentage: c.MaxChurnPercentage,
		ChurnPeriod:        time.Duration(c.ChurnPeriod) * time.Second,
	}
	if err := cfg.Verify(); err != nil {
		return poa.ManagerConfig{}, err
	}
	return cfg, nil
}

// FetchTimeoutDuration returns the inbound fetch timeout
func (c *Config) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

// QualificationGate builds the qualification gate the configuration names:
// an RPC gate against the oracle endpoint, or a pass-all gate when no
// endpoint is configured.
func (c *Config) QualificationGate(ctx context.Context) (poa.QualificationGate, error) {
	if c.OracleURL == "" {
		return poa.AlwaysQualified{}, nil
	}
	return gate.Dial(ctx, c.OracleURL)
}
