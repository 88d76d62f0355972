package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HJewkes/voltra-playground-sub000/internal/config"
)

var initSetupCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		path := cfgPath
		if path == "" {
			p, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			path = p
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("Failed to write config: %w", err)
			}
			fmt.Fprintf(out, "✅ Wrote config to %s\n", path)
		}

		st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		fmt.Fprintf(out, "✅ Database initialized at %s\n", cfg.DB.ConnectionString)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initSetupCmd)
}
