package main

import (
	"github.com/spf13/cobra"
)

var trendMonths int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Analytical reports over the record store",
}

var statsBreedsCmd = &cobra.Command{
	Use:   "breeds",
	Short: "Breed outcome performance (dogs)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()
		return printJSON(e.Engine.BreedPerformance(ctx))
	},
}

var statsRescueCmd = &cobra.Command{
	Use:   "rescue",
	Short: "Rescue-training eligibility by class",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()
		return printJSON(e.Engine.RescueTypes(ctx))
	},
}

var statsTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Monthly adoption trends",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		months := trendMonths
		if months <= 0 {
			months = cfg.Analytics.TrendMonths
		}
		return printJSON(e.Engine.MonthlyTrends(ctx, months))
	},
}

var statsDemographicsCmd = &cobra.Command{
	Use:   "demographics",
	Short: "Population by animal type",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()
		return printJSON(e.Engine.Demographics(ctx))
	},
}

func init() {
	statsTrendsCmd.Flags().IntVar(&trendMonths, "months", 0, "trend window in months (default from config)")
	statsCmd.AddCommand(statsBreedsCmd, statsRescueCmd, statsTrendsCmd, statsDemographicsCmd)
	rootCmd.AddCommand(statsCmd)
}
