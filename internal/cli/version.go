package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// versionCmd prints the tool version.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("stress-assessment %s\n", version)

			return nil
		},
	}
}

// modelCmd describes the fitted classification model.
func modelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "model",
		Short: "Describe the stress classification model",
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier, err := current.stressClassifier()
			if err != nil {
				return err
			}

			info := classifier.ModelInfo()

			fmt.Println(TitleStyle.Render(info.ModelType))
			fmt.Printf("  Trees: %d\n", info.Trees)
			fmt.Printf("  Classes: %s\n", strings.Join(info.Classes, ", "))

			fmt.Println(InfoStyle.Render("Feature importance"))
			printWeights(info.FeatureImportance)

			fmt.Println(InfoStyle.Render("Medical weights"))
			printWeights(info.MedicalWeights)

			return nil
		},
	}
}

// printWeights prints a weight map with keys in sorted order.
func printWeights(weights map[string]float64) {
	keys := make([]string, 0, len(weights))
	for key := range weights {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		fmt.Printf("  %-20s %.4f\n", key, weights[key])
	}
}
