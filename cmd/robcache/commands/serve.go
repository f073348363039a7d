package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recorded events to remote fragment caches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			events, _ := cmd.Flags().GetString("events")
			addr, _ := cmd.Flags().GetString("addr")
			return c.app.Serve(cmd.Context(), events, addr)
		},
	}
	cmd.Flags().StringP("events", "e", "", "Path to the recorded event log")
	cmd.Flags().String("addr", ":9040", "Address to listen on")
	_ = cmd.MarkFlagRequired("events")
	return cmd
}
