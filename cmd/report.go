package main

import (
	"github.com/spf13/cobra"
)

var (
	reportUser   string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate reports over stored scripts",
}

var reportComparisonCmd = &cobra.Command{
	Use:   "comparison",
	Short: "Compare youtube_native scripts against traditional ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		res, err := newService(st).Comparison(cmd.Context(), reportUser)
		if err != nil {
			return err
		}
		return writeValue(cmd.OutOrStdout(), reportFormat, res)
	},
}

var reportSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize a user's scripts with weekly trends",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		res, err := newService(st).Summary(cmd.Context(), reportUser)
		if err != nil {
			return err
		}
		return writeValue(cmd.OutOrStdout(), reportFormat, res)
	},
}

func init() {
	reportCmd.PersistentFlags().StringVar(&reportUser, "user", "", "user id to report on")
	reportCmd.PersistentFlags().StringVar(&reportFormat, "format", "json", "output format: json or yaml")
	reportCmd.AddCommand(reportComparisonCmd, reportSummaryCmd)
	rootCmd.AddCommand(reportCmd)
}
