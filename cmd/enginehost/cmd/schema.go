package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixuxx/bevy-zig-scripting/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		schema, err := config.Schema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSchemaCmd)
	rootCmd.AddCommand(configCmd)
}
