package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the profile identity if it does not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := appCtx.Identity.EnsureIdentity(appCtx.Profile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Identity ready.\nWayfair ID: %s\nFingerprint: %s\n",
				sum.WayfairID, sum.Fingerprint)
			return nil
		},
	}
}
