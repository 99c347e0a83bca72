package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vcscsvcscs/stress-assessment/pkg/model"
)

// reportCmd generates an assessment report from the session history.
func reportCmd() *cobra.Command {
	var (
		reportType string
		format     string
		output     string
		patientID  string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate an assessment report from the session history",
		Long: `Report renders the recorded session history into a clinical report.
Available types are comprehensive, stress-summary, vital-signs and
risk-profile. Reports are written as markdown or PDF.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			parsedType, err := parseReportType(reportType)
			if err != nil {
				return err
			}

			if format != "markdown" && format != "pdf" {
				return fmt.Errorf("unknown report format %q, expected markdown or pdf", format)
			}

			if err := current.loadSession(ctx); err != nil {
				return err
			}

			if patientID == "" {
				patientID = current.cfg.Report.PatientID
			}

			report, err := current.reports.Generate(patientID, parsedType, current.store.Records())
			if err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}

			content := []byte(report.Content)
			if format == "pdf" {
				content, err = current.pdf.Generate(report)
				if err != nil {
					return fmt.Errorf("failed to render PDF: %w", err)
				}
			}

			current.auditReport(ctx, report.ID, map[string]interface{}{
				"report_type": string(report.Type),
				"format":      format,
			})

			if output == "-" {
				if _, err := os.Stdout.Write(content); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}

				return nil
			}

			path := output
			if path == "" {
				path = defaultReportPath(current.cfg.Report.OutputDir, parsedType, format, report.GeneratedAt)
			}

			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0750); err != nil {
					return fmt.Errorf("failed to create report directory: %w", err)
				}
			}

			if err := os.WriteFile(path, content, 0600); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			fmt.Println(SuccessStyle.Render(fmt.Sprintf("✓ Generated %s report: %s", report.Type, path)))

			return nil
		},
	}

	cmd.Flags().StringVarP(&reportType, "type", "t", "comprehensive", "report type (comprehensive, stress-summary, vital-signs, risk-profile)")
	cmd.Flags().StringVar(&format, "format", "markdown", "output format (markdown, pdf)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path, - for stdout (default under the report output directory)")
	cmd.Flags().StringVar(&patientID, "patient", "", "patient identifier for the report header")

	return cmd
}

// parseReportType maps a command line type name to a report template.
func parseReportType(name string) (model.ReportType, error) {
	switch name {
	case "comprehensive":
		return model.ReportComprehensive, nil
	case "stress-summary":
		return model.ReportStressSummary, nil
	case "vital-signs":
		return model.ReportVitalSigns, nil
	case "risk-profile":
		return model.ReportRiskProfile, nil
	default:
		return "", fmt.Errorf("unknown report type %q, expected comprehensive, stress-summary, vital-signs or risk-profile", name)
	}
}

// defaultReportPath builds a timestamped file name under the output directory.
func defaultReportPath(outputDir string, reportType model.ReportType, format string, at time.Time) string {
	slug := strings.ToLower(string(reportType))
	slug = strings.ReplaceAll(slug, " ", "_")

	ext := "md"
	if format == "pdf" {
		ext = "pdf"
	}

	name := fmt.Sprintf("%s_%s.%s", slug, at.Format("20060102_150405"), ext)

	return filepath.Join(outputDir, name)
}
