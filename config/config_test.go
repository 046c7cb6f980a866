// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/luxfi/ids"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/poa"
	"github.com/luxfi/poa/gate"
)

func testRawConfig() map[string]interface{} {
	return map[string]interface{}{
		SubnetIDKey:           ids.GenerateTestID().String(),
		ChainIDKey:            ids.GenerateTestID().String(),
		ManagerAddressKey:     "0x0100000000000000000000000000000000000001",
		OperatorAddressKey:    "0x0200000000000000000000000000000000000002",
		RootChainIDKey:        ids.GenerateTestID().String(),
		ValidatorWeightKey:    100,
		MaxChurnPercentageKey: 20,
		ChurnPeriodKey:        3600,
		OracleURLKey:          "http://localhost:9650",
	}
}

func buildTestConfig(t *testing.T, raw map[string]interface{}) (Config, error) {
	b, err := json.Marshal(raw)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(ConfigFileKey, "", "config file path")
	require.NoError(t, fs.Parse([]string{"--" + ConfigFileKey, path}))

	v, err := BuildViper(fs)
	require.NoError(t, err)
	return NewConfig(v)
}

func TestNewConfig(t *testing.T) {
	cfg, err := buildTestConfig(t, testRawConfig())
	require.NoError(t, err)

	// Defaults applied for keys the file omits.
	require.Equal(t, defaultLogLevel, cfg.LogLevel)
	require.Equal(t, defaultInboundCacheSize, cfg.InboundCacheSize)
	require.Equal(t, time.Duration(defaultFetchTimeout)*time.Second, cfg.FetchTimeoutDuration())

	mc, err := cfg.ManagerConfig()
	require.NoError(t, err)
	require.Equal(t, uint64(100), mc.ValidatorWeight)
	require.Equal(t, uint8(20), mc.MaxChurnPercentage)
	require.Equal(t, time.Hour, mc.ChurnPeriod)
	require.Equal(t, 24*time.Hour, mc.RegistrationWindow)
	// Omitted root sender means the zero system address.
	require.Equal(t, [20]byte{}, [20]byte(mc.RootSenderAddress))
}

func TestQualificationGate(t *testing.T) {
	cfg, err := buildTestConfig(t, testRawConfig())
	require.NoError(t, err)

	// A configured oracle endpoint yields the RPC gate.
	g, err := cfg.QualificationGate(context.Background())
	require.NoError(t, err)
	rpcGate, ok := g.(*gate.RPCGate)
	require.True(t, ok)
	rpcGate.Close()

	// No endpoint means every candidate is admitted.
	cfg.OracleURL = ""
	g, err = cfg.QualificationGate(context.Background())
	require.NoError(t, err)
	require.IsType(t, poa.AlwaysQualified{}, g)
}

func TestNewConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{
			name:   "bad subnet ID",
			mutate: func(raw map[string]interface{}) { raw[SubnetIDKey] = "not-an-id" },
		},
		{
			name:   "bad operator address",
			mutate: func(raw map[string]interface{}) { raw[OperatorAddressKey] = "0x123" },
		},
		{
			name:   "zero churn percentage",
			mutate: func(raw map[string]interface{}) { raw[MaxChurnPercentageKey] = 0 },
		},
		{
			name:   "churn percentage over 100",
			mutate: func(raw map[string]interface{}) { raw[MaxChurnPercentageKey] = 150 },
		},
		{
			name:   "zero churn period",
			mutate: func(raw map[string]interface{}) { raw[ChurnPeriodKey] = 0 },
		},
		{
			name:   "zero validator weight",
			mutate: func(raw map[string]interface{}) { raw[ValidatorWeightKey] = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := testRawConfig()
			tt.mutate(raw)
			_, err := buildTestConfig(t, raw)
			require.Error(t, err)
		})
	}
}
