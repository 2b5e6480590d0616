package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSubscribeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe",
		Short: "Get a payment link for a monthly subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireToken(); err != nil {
				return err
			}
			url, err := c.client().Subscribe(cmd.Context())
			if err != nil {
				return fmt.Errorf("starting subscription: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Complete your payment at:\n%s\n", url)
			return nil
		},
	}
}
