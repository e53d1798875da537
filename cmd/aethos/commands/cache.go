package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Work with the encrypted relay session cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Decrypt and print the session cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, ok, err := appCtx.Identity.LoadSessionCache(appCtx.Profile)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No session cache.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cache.PrimaryStatus)
			fmt.Fprintln(cmd.OutOrStdout(), cache.SecondaryStatus)
			return nil
		},
	})
	return cmd
}
