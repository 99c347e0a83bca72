package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// sessionCmd groups the session history subcommands.
func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and manage the assessment session history",
	}

	cmd.AddCommand(sessionListCmd())
	cmd.AddCommand(sessionClearCmd())

	return cmd
}

// sessionListCmd prints the recorded assessments in chronological order.
func sessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded assessments",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := current.loadSession(cmd.Context()); err != nil {
				return err
			}

			records := current.store.Records()
			if len(records) == 0 {
				fmt.Println(SubtleStyle.Render("No assessments recorded."))

				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tTIMESTAMP\tSTRESS LEVEL\tCONFIDENCE\tRISK\tPRIORITY")

			for i, record := range records {
				c := record.Classification
				fmt.Fprintf(w, "%d\t%s\t%s\t%.1f%%\t%.2f\t%s\n",
					i+1,
					record.Timestamp.Format("2006-01-02 15:04:05"),
					levelStyle(c.StressLevel).Render(string(c.StressLevel)),
					c.Confidence*100,
					c.RiskScore,
					c.MedicalPriority)
			}

			return w.Flush()
		},
	}
}

// sessionClearCmd deletes the recorded session history.
func sessionClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded assessments",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := current.loadSession(ctx); err != nil {
				return err
			}

			count := current.store.Len()

			if !force {
				fmt.Printf("This will permanently delete %d recorded assessments.\n", count)
				fmt.Print("Continue? (y/N): ")

				var response string
				_, _ = fmt.Scanln(&response)

				if !strings.HasPrefix(strings.ToLower(response), "y") {
					fmt.Println("Cancelled.")

					return nil
				}
			}

			if err := current.store.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}

			current.auditClear(ctx)
			fmt.Println(SuccessStyle.Render(fmt.Sprintf("✓ Cleared %d assessments", count)))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "clear without confirmation")

	return cmd
}
