package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"aethos/internal/domain"
)

var errNeedsYes = errors.New("refusing to destroy identity without --yes")

func identityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Inspect, rotate or delete the profile identity",
	}
	cmd.AddCommand(identityShowCmd(), identityRegenerateCmd(), identityDeleteCmd())
	return cmd
}

func identityShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the identity summary, creating the identity if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := appCtx.Identity.EnsureIdentity(appCtx.Profile)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), sum, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func identityRegenerateCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Replace the identity; the existing session cache becomes unreadable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNeedsYes
			}
			sum, err := appCtx.Identity.RegenerateIdentity(appCtx.Profile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Identity regenerated.")
			return printSummary(cmd.OutOrStdout(), sum, false)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the rotation")
	return cmd
}

func identityDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove the identity and the session cache of the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNeedsYes
			}
			if err := appCtx.Identity.DeleteIdentity(appCtx.Profile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile %q deleted.\n", appCtx.Profile)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func printSummary(w io.Writer, sum domain.IdentitySummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	_, err := fmt.Fprintf(w,
		"Wayfair ID:    %s\nVerifying key: %s\nFingerprint:   %s\nDevice:        %s\nPlatform:      %s\n",
		sum.WayfairID, sum.VerifyingKeyB64, sum.Fingerprint, sum.DeviceName, sum.Platform,
	)
	return err
}
