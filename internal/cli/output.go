package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/vcscsvcscs/stress-assessment/pkg/model"
)

// printValidation writes the validation verdict and any findings to stdout.
func printValidation(result model.ValidationResult) {
	if result.Valid {
		fmt.Println(SuccessStyle.Render("✓ Measurement accepted"))
	} else {
		fmt.Println(ErrorStyle.Render("✗ Measurement rejected"))
	}

	for _, msg := range result.Errors {
		fmt.Printf("  %s %s\n", ErrorStyle.Render("error:"), msg)
	}

	for _, msg := range result.Warnings {
		fmt.Printf("  %s %s\n", WarningStyle.Render("warning:"), msg)
	}

	status := result.Assessment.OverallStatus
	fmt.Printf("  Critical status: %s\n", statusStyle(status).Render(string(status)))

	for _, finding := range result.Assessment.Findings {
		line := fmt.Sprintf("! %s = %s (%s)", finding.Parameter, formatValue(finding.Value), finding.Status)
		fmt.Printf("  %s\n", statusStyle(finding.Status).Render(line))
	}

	fmt.Println()
}

// printAnalyses writes the per-parameter analysis table and its summary to stdout.
func printAnalyses(analyses map[string]model.ParameterAnalysis, summary model.AnalysisSummary) {
	fmt.Println(TitleStyle.Render("Parameter Analysis"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tVALUE\tSTATUS\tNORMAL RANGE\tINTERPRETATION")

	ordered := append([]string{}, model.NumericParameters...)
	ordered = append(ordered, model.ParamStressSymptoms)

	for _, param := range ordered {
		analysis, ok := analyses[param]
		if !ok {
			continue
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			analysis.Parameter,
			analysis.Value,
			parameterStatusStyle(analysis.Status).Render(string(analysis.Status)),
			analysis.NormalRange,
			analysis.Interpretation)
	}

	w.Flush()
	fmt.Println()

	fmt.Printf("Overall: %s (%d of %d parameters normal, %d high impact)\n",
		summary.OverallStatus, summary.NormalCount, summary.TotalParameters, summary.HighImpactCount)

	if len(summary.CriticalParameters) > 0 {
		fmt.Printf("%s %v\n", ErrorStyle.Render("Critical parameters:"), summary.CriticalParameters)
	}

	printList("Recommendations", summary.Recommendations)
	fmt.Println()
}

// printClassification writes the stress classification verdict to stdout.
func printClassification(result *model.ClassificationResult) {
	fmt.Println(TitleStyle.Render("Stress Classification"))

	fmt.Printf("Stress level: %s (confidence %.1f%%)\n",
		levelStyle(result.StressLevel).Render(string(result.StressLevel)),
		result.Confidence*100)

	fmt.Printf("Probabilities: Low %.1f%%  Medium %.1f%%  High %.1f%%\n",
		result.Probabilities[model.StressLow]*100,
		result.Probabilities[model.StressMedium]*100,
		result.Probabilities[model.StressHigh]*100)

	fmt.Printf("Risk score: %.2f (%s)\n",
		result.RiskScore,
		riskCategoryStyle(result.RiskCategory).Render(string(result.RiskCategory)))

	printList("Risk factors", result.RiskFactors)

	if result.PrimaryFactor != "" {
		fmt.Printf("Primary factor: %s\n", result.PrimaryFactor)
	}

	fmt.Printf("Priority: %s\n", priorityStyle(result.MedicalPriority).Render(string(result.MedicalPriority)))
	fmt.Printf("Action: %s\n", result.ActionRequired)
	fmt.Println()
}

// printInsights writes the full clinical narrative to stdout.
func printInsights(insights model.InsightsResult) {
	fmt.Println(TitleStyle.Render("Clinical Insights"))

	printList("Primary findings", insights.PrimaryFindings)
	printList("Risk factors", insights.RiskFactors)
	printList("Protective factors", insights.ProtectiveFactors)
	printList("Concerns", insights.Concerns)
	printList("Immediate actions", insights.ImmediateActions)
	printList("Short-term plan", insights.ShortTermPlan)
	printList("Long-term strategy", insights.LongTermStrategy)
	printList("Monitoring plan", insights.MonitoringPlan)
	printList("Personalized recommendations", insights.PersonalizedRecommendations)
	printList("Literature references", insights.LiteratureReferences)

	patterns := insights.PhysiologicalPatterns
	fmt.Println(InfoStyle.Render("Physiological patterns"))
	fmt.Printf("  Cardiovascular: %s\n", patterns.Cardiovascular)
	fmt.Printf("  Respiratory: %s\n", patterns.Respiratory)
	fmt.Printf("  Metabolic: %s\n", patterns.Metabolic)
	fmt.Printf("  Autonomic: %s\n", patterns.Autonomic)
	fmt.Println()
}

// printList writes a titled bullet list, skipping empty lists entirely.
func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}

	fmt.Println(InfoStyle.Render(title))

	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

// formatValue renders a measurement value without trailing zeros.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
