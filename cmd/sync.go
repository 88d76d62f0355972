package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [output-file]",
	Short: "Export all the database data to a TOML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile := "voltra_dump.toml"
		if len(args) == 1 {
			outputFile = args[0]
		}

		st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ExportTOML(outputFile); err != nil {
			return fmt.Errorf("error exporting database: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Database exported successfully to %s\n", outputFile)
		return nil
	},
}

var buildDBCmd = &cobra.Command{
	Use:   "build-db [dump-file]",
	Short: "Rebuild the database from a TOML dump file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ImportTOML(args[0]); err != nil {
			return fmt.Errorf("Failed to build database: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Database built successfully from TOML dump.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(buildDBCmd)
}
