// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Command mavgen generates typed Go message packages from MAVLink dialect
// XML definitions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/windward-avionics/mavgo/codegen"
)

var (
	formatGeneratedCode bool
	emitBuildMessages   bool
)

var rootCmd = &cobra.Command{
	Use:   "mavgen <definitions_dir> <destination_dir>",
	Short: "Generate Go message packages from MAVLink dialect XML",
	Long: `mavgen reads every dialect XML file in definitions_dir (resolving
<include> elements relative to the file that references them) and writes
one generated Go package per dialect into destination_dir, computing each
message's wire field order, crc_extra byte, and encoded lengths along the
way.`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := codegen.Options{
			FormatGeneratedCode: formatGeneratedCode,
			EmitBuildMessages:   emitBuildMessages,
			Log: func(format string, args ...any) {
				fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
			},
		}
		written, err := codegen.Generate(args[0], args[1], opts)
		if err != nil {
			return err
		}
		if !emitBuildMessages {
			fmt.Fprintf(cmd.OutOrStdout(), "generated %d package(s) into %s\n", len(written), args[1])
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVar(&formatGeneratedCode, "format-generated-code", true, "run generated source through go/format")
	rootCmd.Flags().BoolVar(&emitBuildMessages, "emit-build-messages", false, "print one progress line per generated file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mavgen:", err)
		os.Exit(1)
	}
}
