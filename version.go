package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of trialsearch",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "trialsearch %s\n", version)

		remote, _ := cmd.Flags().GetBool("remote")
		if !remote {
			return nil
		}

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		v, err := a.client.Version(cmd.Context())
		if err != nil {
			return fmt.Errorf("querying %s: %w", a.cfg.Endpoint, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "search service %s (%s)\n", v, a.cfg.Endpoint)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("remote", false, "also query the search service version")
	rootCmd.AddCommand(versionCmd)
}
