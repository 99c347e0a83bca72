package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vcscsvcscs/stress-assessment/pkg/model"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// reportTemplate is the section outline and priority label for one report type
type reportTemplate struct {
	sections []string
	priority string
}

// vitalSignLabels pairs the reported vital parameters with their display
// titles, in render order.
var vitalSignLabels = []struct {
	parameter string
	label     string
}{
	{model.ParamHeartRate, "Heart Rate"},
	{model.ParamBPSystolic, "Bp Systolic"},
	{model.ParamBPDiastolic, "Bp Diastolic"},
	{model.ParamBreathingRate, "Breathing Rate"},
	{model.ParamTemperature, "Temperature"},
	{model.ParamOxygenSaturation, "Oxygen Saturation"},
}

// vitalReferenceRanges holds the normal bands the report grades vitals against
var vitalReferenceRanges = map[string]band{
	model.ParamHeartRate:        {60, 100},
	model.ParamBPSystolic:       {90, 120},
	model.ParamBPDiastolic:      {60, 80},
	model.ParamBreathingRate:    {12, 20},
	model.ParamTemperature:      {36.1, 37.2},
	model.ParamOxygenSaturation: {95, 100},
}

// ReportService renders markdown assessment reports over a session history.
// It only templates over core output fields; the report-level trend direction
// is its single local derivation.
type ReportService struct {
	templates map[model.ReportType]reportTemplate
	logger    *zap.Logger
}

// NewReportService creates a new ReportService with the fixed report templates
func NewReportService(logger *zap.Logger) *ReportService {
	return &ReportService{
		templates: reportTemplates(),
		logger:    logger,
	}
}

func reportTemplates() map[model.ReportType]reportTemplate {
	return map[model.ReportType]reportTemplate{
		model.ReportComprehensive: {
			sections: []string{
				"Patient Information",
				"Assessment Summary",
				"Vital Signs Analysis",
				"Stress Level Classification",
				"Risk Assessment",
				"Clinical Findings",
				"Recommendations",
				"Follow-up Plan",
			},
			priority: "high",
		},
		model.ReportStressSummary: {
			sections: []string{
				"Patient Information",
				"Stress Classification Results",
				"Contributing Factors",
				"Trend Analysis",
				"Immediate Recommendations",
			},
			priority: "medium",
		},
		model.ReportVitalSigns: {
			sections: []string{
				"Patient Information",
				"Vital Signs Summary",
				"Parameter Analysis",
				"Correlation Analysis",
				"Clinical Interpretation",
			},
			priority: "medium",
		},
		model.ReportRiskProfile: {
			sections: []string{
				"Patient Information",
				"Risk Stratification",
				"Contributing Risk Factors",
				"Protective Factors",
				"Risk Mitigation Strategies",
			},
			priority: "high",
		},
	}
}

// Generate renders the requested report type over the session history.
// Unknown report types are an error; an empty history renders placeholder
// sections instead of failing.
func (s *ReportService) Generate(patientID string, reportType model.ReportType, history []model.AssessmentRecord) (*model.AssessmentReport, error) {
	template, ok := s.templates[reportType]
	if !ok {
		return nil, fmt.Errorf("unknown report type: %s", reportType)
	}

	generatedAt := time.Now()
	sessionStart := generatedAt
	if len(history) > 0 {
		sessionStart = history[0].Timestamp
	}

	var content strings.Builder
	content.WriteString(fmt.Sprintf(reportHeaderTemplate,
		reportType, generatedAt.Format(reportTimeLayout), reportType, strings.ToUpper(template.priority)))

	for _, section := range template.sections {
		// Section names without a renderer are outline labels only
		switch section {
		case "Patient Information":
			content.WriteString(s.patientInformation(patientID, generatedAt, sessionStart, history))
		case "Assessment Summary":
			content.WriteString(s.assessmentSummary(history))
		case "Vital Signs Analysis", "Vital Signs Summary":
			content.WriteString(s.vitalSigns(history))
		case "Stress Level Classification", "Stress Classification Results":
			content.WriteString(s.stressClassification(history))
		case "Clinical Findings", "Clinical Interpretation":
			content.WriteString(s.clinicalFindings(history))
		case "Recommendations", "Immediate Recommendations":
			content.WriteString(s.recommendations(history))
		case "Follow-up Plan":
			content.WriteString(s.followUpPlan(history))
		case "Risk Assessment", "Risk Stratification":
			content.WriteString(s.riskAssessment(history))
		case "Trend Analysis":
			content.WriteString(s.trendAnalysis(history))
		}
	}

	content.WriteString(fmt.Sprintf(disclaimerTemplate, time.Now().Format(reportTimeLayout)))

	report := &model.AssessmentReport{
		ID:            uuid.New().String(),
		Type:          reportType,
		Priority:      template.priority,
		PatientID:     patientID,
		GeneratedAt:   generatedAt,
		Content:       content.String(),
		TotalSections: len(template.sections),
	}

	s.logger.Info("assessment report generated",
		zap.String("report_id", report.ID),
		zap.String("report_type", string(reportType)),
		zap.Int("total_sections", report.TotalSections),
		zap.Int("measurement_count", len(history)),
	)

	return report, nil
}

// ReportTypes returns the supported report types in template order
func (s *ReportService) ReportTypes() []model.ReportType {
	return []model.ReportType{
		model.ReportComprehensive,
		model.ReportStressSummary,
		model.ReportVitalSigns,
		model.ReportRiskProfile,
	}
}

const reportTimeLayout = "2006-01-02 15:04:05"

const reportHeaderTemplate = `
# Medical Stress Assessment Report
## %s

**Generated:** %s
**Report Type:** %s
**Priority:** %s

---
`

const patientInformationTemplate = `
## Patient Information

**Patient ID:** %s
**Report Generated:** %s
**Assessment Session:** %s
**Total Measurements:** %d
**Session Duration:** %s

---
`

const assessmentSummaryTemplate = `
## Assessment Summary

**Current Stress Level:** %s (Confidence: %s)
**Risk Category:** %s
**Medical Priority:** %s

### Session Statistics
- **Low Stress:** %d measurements
- **Medium Stress:** %d measurements
- **High Stress:** %d measurements
- **Average Confidence:** %s

### Primary Contributing Factor
%s

### Recommended Action
%s

---
`

const stressClassificationTemplate = `
## Stress Level Classification

### Current Classification
**Stress Level:** %s
**Confidence Score:** %s

### Classification Probabilities
- **Low Stress:** %s
- **Medium Stress:** %s
- **High Stress:** %s

### Risk Assessment
**Risk Category:** %s
**Risk Score:** %.2f

### Identified Risk Factors
%s
---
`

const followUpPlanTemplate = `
## Follow-up Plan

### Timeline
**Next Assessment:** %s
**Monitoring Frequency:** %s

### Monitoring Parameters
- Vital signs (heart rate, blood pressure, respiratory rate)
- Stress level assessment
- Symptom tracking
- Sleep quality evaluation

### Alert Criteria
- Significant change in vital signs
- Worsening of stress symptoms
- Development of new symptoms
- Failure to improve with interventions

### Contact Information
**For non-urgent questions:** Consult healthcare provider
**For urgent concerns:** Contact emergency services

---
`

const riskAssessmentTemplate = `
## Risk Assessment

### Current Risk Level
**Risk Category:** %s
**Risk Score:** %.2f (0.0 = Low Risk, 1.0 = High Risk)

### Risk Stratification
%s

### Contributing Risk Factors
%s
### Risk Mitigation Strategies
%s
---
`

const trendAnalysisTemplate = `
## Trend Analysis

### Stress Level Trend
**Direction:** %s
**Latest Level:** %s
**Initial Level:** %s

### Confidence Trend
**Average Confidence:** %s
**Latest Confidence:** %s

### Clinical Interpretation
%s

---
`

const disclaimerTemplate = `
---

## Medical Disclaimer

This report is generated by an automated medical assessment system and is intended for informational purposes only. The information provided should not be used as a substitute for professional medical advice, diagnosis, or treatment. Always seek the advice of qualified healthcare providers with any questions regarding medical conditions.

**Report Generated:** %s
**System Version:** Medical-Grade Stress Detection System v1.0
**Validation Status:** Automated Analysis

---
`

// emptySection is the placeholder for sections that need measurement data
func emptySection(title string) string {
	return fmt.Sprintf("## %s\n\nNo measurements available for analysis.\n\n---\n", title)
}

// formatPercent renders a [0,1] ratio as a one-decimal percentage
func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func (s *ReportService) patientInformation(patientID string, generatedAt, sessionStart time.Time, history []model.AssessmentRecord) string {
	return fmt.Sprintf(patientInformationTemplate,
		patientID,
		generatedAt.Format(reportTimeLayout),
		sessionStart.Format(reportTimeLayout),
		len(history),
		sessionDuration(generatedAt.Sub(sessionStart)),
	)
}

// sessionDuration renders an elapsed time as "3h 25m" or "25m"
func sessionDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func (s *ReportService) assessmentSummary(history []model.AssessmentRecord) string {
	if len(history) == 0 {
		return emptySection("Assessment Summary")
	}

	latest := history[len(history)-1].Classification

	counts := map[model.StressLevel]int{}
	confidenceSum := 0.0
	for _, record := range history {
		counts[record.Classification.StressLevel]++
		confidenceSum += record.Classification.Confidence
	}

	return fmt.Sprintf(assessmentSummaryTemplate,
		latest.StressLevel, formatPercent(latest.Confidence),
		latest.RiskCategory,
		latest.MedicalPriority,
		counts[model.StressLow],
		counts[model.StressMedium],
		counts[model.StressHigh],
		formatPercent(confidenceSum/float64(len(history))),
		latest.PrimaryFactor,
		latest.ActionRequired,
	)
}

func (s *ReportService) vitalSigns(history []model.AssessmentRecord) string {
	if len(history) == 0 {
		return emptySection("Vital Signs Analysis")
	}

	latest := history[len(history)-1].Measurement

	var section strings.Builder
	section.WriteString("## Vital Signs Analysis\n\n")

	for _, vital := range vitalSignLabels {
		values := make([]float64, 0, len(history))
		for _, record := range history {
			if v, ok := record.Measurement.Numeric(vital.parameter); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		current := "N/A"
		status := "Not available"
		if v, ok := latest.Numeric(vital.parameter); ok {
			current = formatNumber(v)
			status = vitalStatus(vital.parameter, v)
		}

		deviation := 0.0
		if len(values) > 1 {
			deviation = stat.StdDev(values, nil)
		}

		section.WriteString(fmt.Sprintf("**%s:**\n", vital.label))
		section.WriteString(fmt.Sprintf("- Current: %s\n", current))
		section.WriteString(fmt.Sprintf("- Session Average: %.1f ± %.1f\n", stat.Mean(values, nil), deviation))
		section.WriteString(fmt.Sprintf("- Status: %s\n\n", status))
	}

	section.WriteString("---\n")
	return section.String()
}

// vitalStatus grades a vital against its report reference range
func vitalStatus(parameter string, value float64) string {
	normal, ok := vitalReferenceRanges[parameter]
	if !ok {
		return "Not assessed"
	}

	switch {
	case value >= normal.lo && value <= normal.hi:
		return "Normal"
	case value < normal.lo:
		return "Below normal"
	default:
		return "Above normal"
	}
}

func (s *ReportService) stressClassification(history []model.AssessmentRecord) string {
	if len(history) == 0 {
		return emptySection("Stress Level Classification")
	}

	latest := history[len(history)-1].Classification

	return fmt.Sprintf(stressClassificationTemplate,
		latest.StressLevel,
		formatPercent(latest.Confidence),
		formatPercent(latest.Probabilities[model.StressLow]),
		formatPercent(latest.Probabilities[model.StressMedium]),
		formatPercent(latest.Probabilities[model.StressHigh]),
		latest.RiskCategory,
		latest.RiskScore,
		numberedList(latest.RiskFactors, "No significant risk factors identified."),
	)
}

// numberedList renders items as "1. …" lines, or the fallback line when empty
func numberedList(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback + "\n"
	}

	var list strings.Builder
	for i, item := range items {
		list.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
	}
	return list.String()
}

func (s *ReportService) clinicalFindings(history []model.AssessmentRecord) string {
	if len(history) == 0 {
		return emptySection("Clinical Findings")
	}

	latest := history[len(history)-1].Classification

	var findings []string
	for _, factor := range latest.RiskFactors {
		switch {
		case strings.Contains(factor, "Tachycardia"):
			findings = append(findings, "Elevated heart rate detected - may indicate cardiovascular stress")
		case strings.Contains(factor, "Hypertension"):
			findings = append(findings, "Blood pressure elevation noted - requires monitoring")
		case strings.Contains(factor, "Tachypnea"):
			findings = append(findings, "Increased respiratory rate - possible stress response")
		case strings.Contains(factor, "Hypoxemia"):
			findings = append(findings, "Reduced oxygen saturation - requires immediate attention")
		case strings.Contains(factor, "Fever"):
			findings = append(findings, "Elevated body temperature - may indicate physiological stress")
		}
	}

	switch latest.StressLevel {
	case model.StressHigh:
		findings = append(findings, "High stress level classification indicates significant physiological and/or psychological stress")
	case model.StressMedium:
		findings = append(findings, "Moderate stress level suggests need for intervention and monitoring")
	}

	var section strings.Builder
	section.WriteString("## Clinical Findings\n\n")
	if len(findings) == 0 {
		section.WriteString("No significant clinical findings identified.\n")
	} else {
		for i, finding := range findings {
			section.WriteString(fmt.Sprintf("%d. %s\n", i+1, finding))
		}
	}
	section.WriteString("\n---\n")

	return section.String()
}

func (s *ReportService) recommendations(history []model.AssessmentRecord) string {
	if len(history) == 0 {
		return emptySection("Recommendations")
	}

	latest := history[len(history)-1].Classification

	var recommendations []string
	switch latest.MedicalPriority {
	case model.PriorityCritical:
		recommendations = append(recommendations,
			"Immediate medical evaluation required",
			"Continuous monitoring of vital signs",
			"Consider emergency medical services if symptoms worsen")
	case model.PriorityHigh:
		recommendations = append(recommendations,
			"Urgent medical consultation recommended within 24 hours",
			"Frequent monitoring of vital signs",
			"Stress reduction interventions")
	case model.PriorityMedium:
		recommendations = append(recommendations,
			"Medical follow-up within 1-2 weeks",
			"Implement stress management techniques",
			"Monitor symptoms and vital signs regularly")
	default:
		recommendations = append(recommendations,
			"Continue current health practices",
			"Maintain healthy lifestyle habits",
			"Regular health monitoring")
	}

	switch {
	case strings.Contains(latest.PrimaryFactor, "Heart Rate"):
		recommendations = append(recommendations,
			"Consider cardiovascular evaluation",
			"Monitor heart rate regularly")
	case strings.Contains(latest.PrimaryFactor, "Blood Pressure"):
		recommendations = append(recommendations,
			"Blood pressure monitoring and management",
			"Dietary modifications (reduce sodium)")
	case strings.Contains(latest.PrimaryFactor, "Sleep"):
		recommendations = append(recommendations,
			"Sleep hygiene evaluation and improvement",
			"Consider sleep study if problems persist")
	}

	var section strings.Builder
	section.WriteString("## Recommendations\n\n")
	for i, recommendation := range recommendations {
		section.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
	}
	section.WriteString("\n---\n")

	return section.String()
}

func (s *ReportService) followUpPlan(history []model.AssessmentRecord) string {
	if len(history) == 0 {
		return emptySection("Follow-up Plan")
	}

	var timeline, frequency string
	switch history[len(history)-1].Classification.MedicalPriority {
	case model.PriorityCritical:
		timeline, frequency = "Immediate (within hours)", "Continuous monitoring"
	case model.PriorityHigh:
		timeline, frequency = "Urgent (within 24 hours)", "Daily monitoring"
	case model.PriorityMedium:
		timeline, frequency = "Short-term (1-2 weeks)", "Weekly monitoring"
	default:
		timeline, frequency = "Routine (1-3 months)", "Monthly monitoring"
	}

	return fmt.Sprintf(followUpPlanTemplate, timeline, frequency)
}

func (s *ReportService) riskAssessment(history []model.AssessmentRecord) string {
	if len(history) == 0 {
		return emptySection("Risk Assessment")
	}

	latest := history[len(history)-1].Classification

	return fmt.Sprintf(riskAssessmentTemplate,
		latest.RiskCategory,
		latest.RiskScore,
		riskStratification(latest.RiskScore),
		numberedList(latest.RiskFactors, "No significant risk factors identified."),
		numberedList(mitigationStrategies(latest.RiskScore), ""),
	)
}

// riskStratification maps the risk score onto the five-band wording
func riskStratification(riskScore float64) string {
	switch {
	case riskScore >= 0.8:
		return "**Very High Risk** - Immediate intervention required"
	case riskScore >= 0.6:
		return "**High Risk** - Urgent attention needed"
	case riskScore >= 0.4:
		return "**Moderate Risk** - Regular monitoring recommended"
	case riskScore >= 0.2:
		return "**Low-Moderate Risk** - Routine follow-up"
	default:
		return "**Low Risk** - Maintain current practices"
	}
}

func mitigationStrategies(riskScore float64) []string {
	switch {
	case riskScore >= 0.6:
		return []string{
			"Immediate medical evaluation",
			"Stress reduction interventions",
			"Lifestyle modifications",
		}
	case riskScore >= 0.4:
		return []string{
			"Regular monitoring",
			"Stress management techniques",
			"Healthy lifestyle promotion",
		}
	default:
		return []string{
			"Preventive measures",
			"Health maintenance",
			"Regular check-ups",
		}
	}
}

func (s *ReportService) trendAnalysis(history []model.AssessmentRecord) string {
	if len(history) < 2 {
		return "## Trend Analysis\n\nInsufficient data for trend analysis (minimum 2 measurements required).\n\n---\n"
	}

	levels := make([]model.StressLevel, len(history))
	ordinals := make([]int, len(history))
	confidenceSum := 0.0
	for i, record := range history {
		levels[i] = record.Classification.StressLevel
		ordinals[i] = stressOrdinal(record.Classification.StressLevel)
		confidenceSum += record.Classification.Confidence
	}

	direction := "Stable"
	if varies(ordinals) {
		if ordinals[len(ordinals)-1] > ordinals[0] {
			direction = "Increasing"
		} else {
			direction = "Decreasing"
		}
	}

	averageConfidence := confidenceSum / float64(len(history))
	latestConfidence := history[len(history)-1].Classification.Confidence

	return fmt.Sprintf(trendAnalysisTemplate,
		direction,
		levels[len(levels)-1],
		levels[0],
		formatPercent(averageConfidence),
		formatPercent(latestConfidence),
		interpretTrend(direction, averageConfidence),
	)
}

// interpretTrend renders the clinical interpretation sentence for a direction
func interpretTrend(direction string, confidence float64) string {
	switch direction {
	case "Increasing":
		return fmt.Sprintf("Stress levels are increasing over time. This trend requires attention and possible intervention. Assessment confidence: %s", formatPercent(confidence))
	case "Decreasing":
		return fmt.Sprintf("Stress levels are decreasing over time. This positive trend suggests effective management. Assessment confidence: %s", formatPercent(confidence))
	default:
		return fmt.Sprintf("Stress levels remain stable. Continue current monitoring and management strategies. Assessment confidence: %s", formatPercent(confidence))
	}
}
