package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// trendsCmd analyzes the recorded session history for longitudinal trends.
func trendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trends",
		Short: "Analyze trends across the recorded session history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := current.loadSession(cmd.Context()); err != nil {
				return err
			}

			trends := current.insights.AnalyzeTrends(current.store.Records())

			fmt.Println(TitleStyle.Render("Trend Analysis"))
			printList("Observed trends", trends.ObservedTrends)
			printList("Predictive indicators", trends.PredictiveIndicators)
			fmt.Printf("Prognosis: %s\n", trends.Prognosis)

			return nil
		},
	}
}
