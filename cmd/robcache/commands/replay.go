package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/robcache/internal/app"
)

func (c *CLI) newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded events through the fragment cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			events, _ := cmd.Flags().GetString("events")
			reportPath, _ := cmd.Flags().GetString("report")
			asJSON, _ := cmd.Flags().GetBool("json")

			report, err := c.app.Replay(cmd.Context(), app.ReplayOptions{
				ConfigPath: configPath,
				EventsPath: events,
				ReportPath: reportPath,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := report.JSON()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}
			_, err = out.Write([]byte(report.Summary()))
			return err
		},
	}
	cmd.Flags().StringP("events", "e", "", "Path to the recorded event log")
	cmd.Flags().StringP("report", "r", "", "Write the JSON report to this file")
	cmd.Flags().Bool("json", false, "Print the report as JSON instead of a summary")
	_ = cmd.MarkFlagRequired("events")
	return cmd
}
