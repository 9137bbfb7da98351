// Package cmd implements the enginehost command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "enginehost",
	Short: "Simulation host with a runtime script-module bridge",
	Long: `enginehost runs a fixed-cadence simulation loop and bridges into a
script module loaded at runtime. The module is a native shared library
(or a wasm module) exporting script_init and script_update; when it is
missing or broken the host runs on without scripting.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML; defaults and ENGINEHOST_* env apply without one)")
}
