package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect integration configuration served by the backend",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get [service]",
		Short: "Fetch a service key (masked unless --reveal)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, ok := a.lookup.GetValue(context.Background(), args[0])
			if !ok {
				return fmt.Errorf("no key for %s", args[0])
			}
			reveal, _ := cmd.Flags().GetBool("reveal")
			if !reveal {
				value = mask(value)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], value)
			return nil
		},
	})
	cmd.PersistentFlags().Bool("reveal", false, "Print the full key")
	return cmd
}

func mask(value string) string {
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
