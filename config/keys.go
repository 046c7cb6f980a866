// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	// Command line option keys
	ConfigFileKey = "config-file"
	VersionKey    = "version"
	HelpKey       = "help"

	// Environment variable keys
	ConfigFileEnvKey = "CONFIG_FILE"

	// Top-level configuration keys
	LogLevelKey           = "log-level"
	SubnetIDKey           = "subnet-id"
	ChainIDKey            = "chain-id"
	ManagerAddressKey     = "manager-address"
	OperatorAddressKey    = "operator-address"
	RootChainIDKey        = "root-chain-id"
	RootSenderAddressKey  = "root-sender-address"
	ValidatorWeightKey    = "validator-weight"
	RegistrationWindowKey = "registration-window-seconds"
	MaxChurnPercentageKey = "max-churn-percentage"
	ChurnPeriodKey        = "churn-period-seconds"
	OracleURLKey          = "oracle-url"
	InboundCacheSizeKey   = "inbound-cache-size"
	FetchTimeoutKey       = "fetch-timeout-seconds"
)
