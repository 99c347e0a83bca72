package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// paramsCmd lists the supported parameters and their reference ranges.
func paramsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params [parameter]",
		Short: "List supported parameters and their reference ranges",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := current.analyzer.ParameterInfos()

			if len(args) == 1 {
				for _, info := range infos {
					if info.Parameter != args[0] {
						continue
					}

					fmt.Println(TitleStyle.Render(info.Parameter))
					fmt.Printf("  Unit: %s\n", info.Unit)
					fmt.Printf("  Normal range: %s\n", info.NormalRange)
					fmt.Printf("  Clinical weight: %.2f\n", info.ClinicalWeight)

					return nil
				}

				return fmt.Errorf("unknown parameter: %s", args[0])
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PARAMETER\tUNIT\tNORMAL RANGE\tWEIGHT")

			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n",
					info.Parameter, info.Unit, info.NormalRange, info.ClinicalWeight)
			}

			return w.Flush()
		},
	}
}
