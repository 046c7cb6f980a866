// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/luxfi/poa/config"
	"github.com/luxfi/poa/message"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "poacli",
	Short: "Proof-of-authority validator manager CLI",
	Long: `poacli provides tools for inspecting validator manager messages:
decoding registry payloads, computing validation IDs and checking
manager configuration files.`,
	Version: fmt.Sprintf("%s (built %s)", version, buildDate),
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(validationIDCmd)
	rootCmd.AddCommand(conversionIDCmd)
	rootCmd.AddCommand(checkConfigCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a registry payload",
	Long:  `Decode a hex-encoded registry payload and print its contents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataHex, _ := cmd.Flags().GetString("data")
		data, err := decodeHex(dataHex)
		if err != nil {
			return fmt.Errorf("invalid payload hex: %w", err)
		}

		payload, err := message.ParsePayload(data)
		if err != nil {
			return err
		}

		switch p := payload.(type) {
		case *message.Register:
			fmt.Println("Register:")
			fmt.Printf("  Validation ID: %s\n", p.ValidationID())
			fmt.Printf("  Subnet ID:     %s\n", p.SubnetID)
			fmt.Printf("  Node ID:       %s\n", p.NodeID)
			fmt.Printf("  BLS Key:       %x\n", p.BLSPublicKey)
			fmt.Printf("  Expiry:        %d\n", p.Expiry)
			fmt.Printf("  Weight:        %d\n", p.Weight)
		case *message.ValidatorRegistration:
			fmt.Println("ValidatorRegistration:")
			fmt.Printf("  Validation ID: %s\n", p.ValidationID)
			fmt.Printf("  Registered:    %t\n", p.Registered)
		case *message.ValidatorWeight:
			fmt.Println("ValidatorWeight:")
			fmt.Printf("  Validation ID: %s\n", p.ValidationID)
			fmt.Printf("  Nonce:         %d\n", p.Nonce)
			fmt.Printf("  Weight:        %d\n", p.Weight)
		case *message.Conversion:
			fmt.Println("Conversion:")
			fmt.Printf("  Conversion ID:   %s\n", p.ConversionID())
			fmt.Printf("  Subnet ID:       %s\n", p.SubnetID)
			fmt.Printf("  Manager Chain:   %s\n", p.ManagerChainID)
			fmt.Printf("  Manager Address: %s\n", p.ManagerAddress)
			for i, v := range p.Validators {
				fmt.Printf("  Validator %d: node %s weight %d\n", i, v.NodeID, v.Weight)
			}
		case *message.ConversionAck:
			fmt.Println("ConversionAck:")
			fmt.Printf("  Conversion ID: %s\n", p.ConversionID)
		default:
			return fmt.Errorf("unhandled payload type %T", p)
		}
		return nil
	},
}

var validationIDCmd = &cobra.Command{
	Use:   "validation-id",
	Short: "Compute the validation ID of a registration message",
	Long:  `Compute the validation ID of a hex-encoded registration message.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataHex, _ := cmd.Flags().GetString("data")
		data, err := decodeHex(dataHex)
		if err != nil {
			return fmt.Errorf("invalid payload hex: %w", err)
		}

		register, err := message.ParseRegister(data)
		if err != nil {
			return err
		}
		fmt.Println(register.ValidationID())
		return nil
	},
}

var conversionIDCmd = &cobra.Command{
	Use:   "conversion-id",
	Short: "Compute the conversion ID of a conversion message",
	Long: `Compute the conversion ID of a hex-encoded conversion message. With
--index set, also print the validation ID of the initial validator at
that index.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataHex, _ := cmd.Flags().GetString("data")
		data, err := decodeHex(dataHex)
		if err != nil {
			return fmt.Errorf("invalid payload hex: %w", err)
		}

		conversion, err := message.ParseConversion(data)
		if err != nil {
			return err
		}

		conversionID := conversion.ConversionID()
		fmt.Printf("Conversion ID: %s\n", conversionID)
		if cmd.Flags().Changed("index") {
			index, _ := cmd.Flags().GetUint32("index")
			if int(index) >= len(conversion.Validators) {
				return fmt.Errorf(
					"index %d out of range, conversion has %d validators",
					index,
					len(conversion.Validators),
				)
			}
			fmt.Printf("Validation ID: %s\n", message.ConversionValidationID(conversionID, index))
		}
		return nil
	},
}

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate a manager configuration file",
	Long:  `Load a manager configuration file and verify every field parses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString(config.ConfigFileKey)

		fs := pflag.NewFlagSet("check-config", pflag.ContinueOnError)
		fs.String(config.ConfigFileKey, "", "config file path")
		if err := fs.Set(config.ConfigFileKey, path); err != nil {
			return err
		}

		v, err := config.BuildViper(fs)
		if err != nil {
			return err
		}
		cfg, err := config.NewConfig(v)
		if err != nil {
			return err
		}

		mc, err := cfg.ManagerConfig()
		if err != nil {
			return err
		}
		fmt.Println("Configuration OK:")
		fmt.Printf("  Subnet ID:       %s\n", mc.SubnetID)
		fmt.Printf("  Chain ID:        %s\n", mc.ChainID)
		fmt.Printf("  Manager Address: %s\n", mc.Address)
		fmt.Printf("  Operator:        %s\n", mc.Operator)
		fmt.Printf("  Weight:          %d\n", mc.ValidatorWeight)
		fmt.Printf("  Max Churn:       %d%% per %s\n", mc.MaxChurnPercentage, mc.ChurnPeriod)
		return nil
	},
}

func init() {
	decodeCmd.Flags().StringP("data", "d", "", "Hex-encoded payload")
	decodeCmd.MarkFlagRequired("data")

	validationIDCmd.Flags().StringP("data", "d", "", "Hex-encoded registration message")
	validationIDCmd.MarkFlagRequired("data")

	conversionIDCmd.Flags().StringP("data", "d", "", "Hex-encoded conversion message")
	conversionIDCmd.Flags().Uint32P("index", "i", 0, "Initial validator index")
	conversionIDCmd.MarkFlagRequired("data")

	checkConfigCmd.Flags().StringP(config.ConfigFileKey, "c", "", "Config file path")
	checkConfigCmd.MarkFlagRequired(config.ConfigFileKey)
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
