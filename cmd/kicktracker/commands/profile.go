package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile <name>",
	Short: "Lists the projects linked from a creator profile.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, log, err := newClient()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ids, err := client.ProfileProjects(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		renderProfile(cmd.OutOrStdout(), args[0], ids)
		return nil
	},
}
