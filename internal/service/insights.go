package service

import (
	"fmt"
	"strings"

	"github.com/vcscsvcscs/stress-assessment/pkg/model"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// interventionProtocols holds the fixed action lists the plans are assembled from
type interventionProtocols struct {
	immediateCritical     []string
	immediateHigh         []string
	immediateModerate     []string
	cardiovascularFocus   []string
	respiratoryFocus      []string
	sleepFocus            []string
	lifestyleModification []string
	medicalManagement     []string
}

// evidenceBase groups the literature reference excerpts by topic
type evidenceBase struct {
	stressPhysiology     []string
	vitalSignsStress     []string
	interventionEvidence []string
}

// InsightsEngine derives clinical narratives, tiered action plans and
// longitudinal trends from assessment output. Narrative content comes from
// fixed protocol and evidence tables; no text is generated dynamically.
type InsightsEngine struct {
	protocols interventionProtocols
	evidence  evidenceBase
	logger    *zap.Logger
}

// NewInsightsEngine creates a new InsightsEngine with the static protocol tables
func NewInsightsEngine(logger *zap.Logger) *InsightsEngine {
	return &InsightsEngine{
		protocols: protocolTables(),
		evidence:  literatureBase(),
		logger:    logger,
	}
}

func protocolTables() interventionProtocols {
	return interventionProtocols{
		immediateCritical: []string{
			"Immediate medical evaluation",
			"Continuous vital sign monitoring",
			"Consider emergency services if unstable",
			"Assess for medical emergencies",
		},
		immediateHigh: []string{
			"Implement breathing exercises",
			"Reduce environmental stressors",
			"Monitor vital signs every 15 minutes",
			"Consider anxiolytic if appropriate",
		},
		immediateModerate: []string{
			"Guided relaxation techniques",
			"Environmental noise reduction",
			"Hydration and rest",
			"Monitor response to interventions",
		},
		cardiovascularFocus: []string{
			"Daily blood pressure monitoring",
			"Moderate exercise program",
			"Dietary sodium reduction",
			"Stress management counseling",
		},
		respiratoryFocus: []string{
			"Breathing exercise training",
			"Pulmonary function assessment",
			"Environmental allergen evaluation",
			"Respiratory therapy if indicated",
		},
		sleepFocus: []string{
			"Sleep hygiene optimization",
			"Sleep study evaluation",
			"Caffeine reduction program",
			"Cognitive behavioral therapy for insomnia",
		},
		lifestyleModification: []string{
			"Regular exercise program",
			"Stress management training",
			"Nutritional counseling",
			"Social support enhancement",
		},
		medicalManagement: []string{
			"Regular cardiovascular screening",
			"Stress-related disorder evaluation",
			"Medication optimization if needed",
			"Preventive care protocols",
		},
	}
}

func literatureBase() evidenceBase {
	return evidenceBase{
		stressPhysiology: []string{
			"Acute stress response activates the sympathetic nervous system, leading to increased heart rate and blood pressure",
			"Chronic stress is associated with cardiovascular disease, immune suppression, and metabolic dysfunction",
			"Stress-induced tachycardia typically presents as heart rate >100 bpm during non-physical stressors",
			"Elevated cortisol levels from chronic stress can lead to hypertension and insulin resistance",
		},
		vitalSignsStress: []string{
			"Respiratory rate increases during acute stress response as part of fight-or-flight mechanism",
			"Blood pressure elevation during stress is mediated by catecholamine release",
			"Sleep deprivation significantly increases stress hormone levels and sympathetic activity",
			"Environmental noise above 70 dB can trigger stress responses and elevate blood pressure",
		},
		interventionEvidence: []string{
			"Deep breathing exercises can reduce heart rate and blood pressure within minutes",
			"Regular sleep hygiene practices improve stress resilience and vital sign stability",
			"Stress management techniques show significant reduction in cardiovascular stress markers",
			"Environmental modifications can reduce physiological stress responses by 20-30%",
		},
	}
}

// GenerateInsights combines the measurement, the classification verdict and
// the session history into the full clinical narrative.
func (e *InsightsEngine) GenerateInsights(m model.Measurement, classification model.ClassificationResult, history []model.AssessmentRecord) model.InsightsResult {
	patterns := assessPatterns(m)

	findings := []string{
		fmt.Sprintf("Stress level classified as %s with %.1f%% confidence",
			classification.StressLevel, classification.Confidence*100),
		fmt.Sprintf("Primary contributing factor: %s", classification.PrimaryFactor),
		fmt.Sprintf("Medical priority: %s", classification.MedicalPriority),
	}
	for _, pattern := range []struct{ label, narrative string }{
		{"Cardiovascular Pattern", patterns.Cardiovascular},
		{"Respiratory Pattern", patterns.Respiratory},
		{"Metabolic Pattern", patterns.Metabolic},
		{"Autonomic Pattern", patterns.Autonomic},
	} {
		if !strings.Contains(pattern.narrative, "normal limits") {
			findings = append(findings, fmt.Sprintf("%s: %s", pattern.label, pattern.narrative))
		}
	}

	result := model.InsightsResult{
		PrimaryFindings:             findings,
		RiskFactors:                 riskFactors(m, classification),
		ProtectiveFactors:           protectiveFactors(m),
		Concerns:                    concerns(classification),
		ImmediateActions:            e.immediateActions(classification, patterns),
		ShortTermPlan:               e.shortTermPlan(m, patterns),
		LongTermStrategy:            e.longTermStrategy(classification),
		MonitoringPlan:              monitoringPlan(classification, patterns),
		PersonalizedRecommendations: personalizedRecommendations(m, patterns),
		LiteratureReferences:        e.relevantLiterature(m),
		PhysiologicalPatterns:       patterns,
	}

	e.logger.Info("clinical insights generated",
		zap.Int("finding_count", len(result.PrimaryFindings)),
		zap.Int("risk_factor_count", len(result.RiskFactors)),
		zap.Int("recommendation_count", len(result.PersonalizedRecommendations)),
	)

	return result
}

// assessPatterns runs the four system-level pattern narratives
func assessPatterns(m model.Measurement) model.PhysiologicalPatterns {
	return model.PhysiologicalPatterns{
		Cardiovascular: cardiovascularPattern(m),
		Respiratory:    respiratoryPattern(m),
		Metabolic:      metabolicPattern(m),
		Autonomic:      autonomicPattern(m),
	}
}

// cardiovascularPattern reports heart rate, blood pressure and pulse pressure
// findings joined with "; ". Absent fields trigger nothing.
func cardiovascularPattern(m model.Measurement) string {
	var findings []string

	if m.HeartRate != nil {
		if *m.HeartRate > 100 {
			findings = append(findings, "Tachycardia present")
		} else if *m.HeartRate < 60 {
			findings = append(findings, "Bradycardia present")
		}
	}

	if m.BPSystolic != nil && m.BPDiastolic != nil {
		systolic, diastolic := *m.BPSystolic, *m.BPDiastolic

		if systolic > 140 || diastolic > 90 {
			findings = append(findings, "Hypertensive response")
		} else if systolic < 90 || diastolic < 60 {
			findings = append(findings, "Hypotensive response")
		}

		pulsePressure := systolic - diastolic
		if pulsePressure > 60 {
			findings = append(findings, "Wide pulse pressure")
		} else if pulsePressure < 30 {
			findings = append(findings, "Narrow pulse pressure")
		}
	}

	if len(findings) == 0 {
		return "Cardiovascular parameters within normal limits"
	}

	return strings.Join(findings, "; ")
}

func respiratoryPattern(m model.Measurement) string {
	var findings []string

	if m.BreathingRate != nil {
		if *m.BreathingRate > 20 {
			findings = append(findings, "Tachypnea present")
		} else if *m.BreathingRate < 12 {
			findings = append(findings, "Bradypnea present")
		}
	}

	if m.OxygenSaturation != nil {
		if *m.OxygenSaturation < 95 {
			findings = append(findings, "Hypoxemia detected")
		} else if *m.OxygenSaturation < 97 {
			findings = append(findings, "Mild oxygen desaturation")
		}
	}

	if len(findings) == 0 {
		return "Respiratory parameters within normal limits"
	}

	return strings.Join(findings, "; ")
}

func metabolicPattern(m model.Measurement) string {
	var findings []string

	if m.Temperature != nil {
		if *m.Temperature > 37.5 {
			findings = append(findings, "Hyperthermia present")
		} else if *m.Temperature < 36.0 {
			findings = append(findings, "Hypothermia present")
		}
	}

	if m.SleepDuration != nil {
		if *m.SleepDuration < 6 {
			findings = append(findings, "Sleep deprivation indicated")
		} else if *m.SleepDuration > 10 {
			findings = append(findings, "Excessive sleep duration")
		}
	}

	if len(findings) == 0 {
		return "Metabolic parameters within normal limits"
	}

	return strings.Join(findings, "; ")
}

// autonomicPattern is a three-vote comparison of sympathetic against
// parasympathetic indicators from heart rate, systolic pressure and
// respiration.
func autonomicPattern(m model.Measurement) string {
	sympathetic, parasympathetic := 0, 0

	if m.HeartRate != nil {
		if *m.HeartRate > 85 {
			sympathetic++
		} else if *m.HeartRate < 65 {
			parasympathetic++
		}
	}
	if m.BPSystolic != nil {
		if *m.BPSystolic > 125 {
			sympathetic++
		} else if *m.BPSystolic < 100 {
			parasympathetic++
		}
	}
	if m.BreathingRate != nil {
		if *m.BreathingRate > 18 {
			sympathetic++
		} else if *m.BreathingRate < 14 {
			parasympathetic++
		}
	}

	switch {
	case sympathetic > parasympathetic:
		return "Sympathetic dominance pattern"
	case parasympathetic > sympathetic:
		return "Parasympathetic dominance pattern"
	default:
		return "Balanced autonomic pattern"
	}
}

// riskFactors collects threshold-triggered clinical risk statements
func riskFactors(m model.Measurement, classification model.ClassificationResult) []string {
	var factors []string

	if m.HeartRate != nil && *m.HeartRate > 100 {
		factors = append(factors, "Tachycardia increases cardiovascular workload")
	}
	if m.BPSystolic != nil && *m.BPSystolic > 140 {
		factors = append(factors, "Hypertension increases cardiovascular disease risk")
	}
	if m.OxygenSaturation != nil && *m.OxygenSaturation < 95 {
		factors = append(factors, "Hypoxemia compromises tissue oxygenation")
	}
	if m.SleepDuration != nil && *m.SleepDuration < 6 {
		factors = append(factors, "Sleep deprivation impairs immune function and increases stress hormones")
	}
	if classification.StressLevel == model.StressHigh {
		factors = append(factors, "Chronic high stress increases risk of cardiovascular and mental health disorders")
	}
	if m.SoundLevel != nil && *m.SoundLevel > 70 {
		factors = append(factors, "Elevated noise exposure contributes to stress and hearing damage")
	}

	return factors
}

func protectiveFactors(m model.Measurement) []string {
	var factors []string

	if m.HeartRate != nil && *m.HeartRate >= 60 && *m.HeartRate <= 80 {
		factors = append(factors, "Resting heart rate within optimal range")
	}
	if m.BPSystolic != nil && *m.BPSystolic >= 90 && *m.BPSystolic <= 115 {
		factors = append(factors, "Blood pressure within optimal range")
	}
	if m.OxygenSaturation != nil && *m.OxygenSaturation >= 98 {
		factors = append(factors, "Excellent oxygen saturation levels")
	}
	if m.SleepDuration != nil && *m.SleepDuration >= 7 && *m.SleepDuration <= 9 {
		factors = append(factors, "Adequate sleep duration supports stress resilience")
	}
	if m.SoundLevel != nil && *m.SoundLevel < 50 {
		factors = append(factors, "Quiet environment reduces stress burden")
	}

	return factors
}

func concerns(classification model.ClassificationResult) []string {
	var out []string

	if classification.StressLevel == model.StressHigh {
		out = append(out, "High stress level poses risk for cardiovascular and mental health complications")
	}
	if classification.RiskScore > 0.6 {
		out = append(out, "Elevated risk score indicates need for immediate intervention")
	}
	for _, factor := range classification.RiskFactors {
		out = append(out, fmt.Sprintf("Medical concern: %s", factor))
	}

	return out
}

// immediateActions selects the protocol tier for the medical priority and
// appends pattern-specific actions.
func (e *InsightsEngine) immediateActions(classification model.ClassificationResult, patterns model.PhysiologicalPatterns) []string {
	var actions []string

	switch classification.MedicalPriority {
	case model.PriorityCritical:
		actions = append(actions, e.protocols.immediateCritical...)
	case model.PriorityHigh:
		actions = append(actions, e.protocols.immediateHigh...)
	default:
		actions = append(actions, e.protocols.immediateModerate...)
	}

	if strings.Contains(patterns.Cardiovascular, "Tachycardia") {
		actions = append(actions, "Implement immediate heart rate reduction techniques")
	}
	if strings.Contains(patterns.Respiratory, "Hypoxemia") {
		actions = append(actions, "Assess and improve oxygenation immediately")
	}

	return actions
}

// shortTermPlan concatenates the focus protocols for each abnormal system
func (e *InsightsEngine) shortTermPlan(m model.Measurement, patterns model.PhysiologicalPatterns) []string {
	var plan []string

	if strings.Contains(patterns.Cardiovascular, "Tachycardia") || strings.Contains(patterns.Cardiovascular, "Hypertensive") {
		plan = append(plan, e.protocols.cardiovascularFocus...)
	}
	if strings.Contains(patterns.Respiratory, "Tachypnea") || strings.Contains(patterns.Respiratory, "Hypoxemia") {
		plan = append(plan, e.protocols.respiratoryFocus...)
	}
	if m.SleepDuration != nil && *m.SleepDuration < 7 {
		plan = append(plan, e.protocols.sleepFocus...)
	}

	return plan
}

func (e *InsightsEngine) longTermStrategy(classification model.ClassificationResult) []string {
	strategy := append([]string{}, e.protocols.lifestyleModification...)
	if classification.RiskScore > 0.4 {
		strategy = append(strategy, e.protocols.medicalManagement...)
	}
	return strategy
}

func monitoringPlan(classification model.ClassificationResult, patterns model.PhysiologicalPatterns) []string {
	var plan []string

	switch classification.MedicalPriority {
	case model.PriorityCritical:
		plan = append(plan, "Continuous vital sign monitoring", "Hourly stress level assessments")
	case model.PriorityHigh:
		plan = append(plan, "Vital signs every 2-4 hours", "Daily stress level assessments")
	default:
		plan = append(plan, "Daily vital sign checks", "Weekly stress level assessments")
	}

	if !strings.Contains(patterns.Cardiovascular, "normal") {
		plan = append(plan, "Cardiac rhythm monitoring", "Blood pressure monitoring every 6 hours")
	}
	if !strings.Contains(patterns.Respiratory, "normal") {
		plan = append(plan, "Oxygen saturation monitoring", "Respiratory rate assessment every 4 hours")
	}

	return plan
}

func personalizedRecommendations(m model.Measurement, patterns model.PhysiologicalPatterns) []string {
	var recommendations []string

	if strings.Contains(patterns.Cardiovascular, "Tachycardia") {
		recommendations = append(recommendations,
			"Practice deep breathing exercises 3-4 times daily to reduce heart rate",
			"Consider cardiac evaluation if tachycardia persists")
	}
	if strings.Contains(patterns.Cardiovascular, "Hypertensive") {
		recommendations = append(recommendations,
			"Implement DASH diet principles to reduce blood pressure",
			"Regular blood pressure monitoring at home")
	}
	if strings.Contains(patterns.Respiratory, "Tachypnea") {
		recommendations = append(recommendations,
			"Practice diaphragmatic breathing techniques",
			"Evaluate for underlying respiratory conditions")
	}
	if m.SleepDuration != nil && *m.SleepDuration < 7 {
		recommendations = append(recommendations,
			"Establish consistent sleep schedule with 7-9 hours nightly",
			"Create optimal sleep environment (dark, cool, quiet)")
	}
	if strings.Contains(patterns.Autonomic, "Sympathetic dominance") {
		recommendations = append(recommendations,
			"Implement stress reduction techniques (meditation, yoga)",
			"Consider stress management counseling")
	}

	return recommendations
}

// relevantLiterature selects reference excerpts for the narrative appendix
func (e *InsightsEngine) relevantLiterature(m model.Measurement) []string {
	references := append([]string{}, e.evidence.stressPhysiology[:2]...)

	elevatedHeartRate := m.HeartRate != nil && *m.HeartRate > 100
	elevatedPressure := m.BPSystolic != nil && *m.BPSystolic > 130
	if elevatedHeartRate || elevatedPressure {
		references = append(references, e.evidence.vitalSignsStress[:2]...)
	}

	return append(references, e.evidence.interventionEvidence[:2]...)
}

// AnalyzeTrends derives stress, heart rate and blood pressure trends over an
// ordered session history. Fewer than two records yields the fixed
// insufficient-data result instead of an error.
func (e *InsightsEngine) AnalyzeTrends(history []model.AssessmentRecord) model.TrendResult {
	if len(history) < 2 {
		return model.TrendResult{
			ObservedTrends:       []string{"Insufficient data for trend analysis"},
			PredictiveIndicators: []string{"Single measurement available"},
			Prognosis:            "Cannot determine trend with single measurement",
		}
	}

	var trends, indicators []string

	ordinals := make([]int, len(history))
	for i, record := range history {
		ordinals[i] = stressOrdinal(record.Classification.StressLevel)
	}

	// First-vs-last comparison only counts when the series varies at all
	if varies(ordinals) {
		if ordinals[len(ordinals)-1] > ordinals[0] {
			trends = append(trends, "Stress levels increasing over time")
			indicators = append(indicators, "Risk of stress-related complications may increase")
		} else if ordinals[len(ordinals)-1] < ordinals[0] {
			trends = append(trends, "Stress levels decreasing over time")
			indicators = append(indicators, "Positive response to interventions indicated")
		}
	} else {
		trends = append(trends, "Stress levels remain stable")
	}

	heartRateSlope := historySlope(history, model.ParamHeartRate)
	if heartRateSlope > 2 {
		trends = append(trends, "Heart rate showing increasing trend")
		indicators = append(indicators, "May require cardiovascular evaluation")
	} else if heartRateSlope < -2 {
		trends = append(trends, "Heart rate showing decreasing trend")
		indicators = append(indicators, "Possible improvement in cardiovascular stress")
	}

	systolicSlope := historySlope(history, model.ParamBPSystolic)
	if systolicSlope > 3 {
		trends = append(trends, "Blood pressure showing increasing trend")
		indicators = append(indicators, "Hypertension risk may be increasing")
	} else if systolicSlope < -3 {
		trends = append(trends, "Blood pressure showing decreasing trend")
		indicators = append(indicators, "Blood pressure control improving")
	}

	result := model.TrendResult{
		ObservedTrends:       trends,
		PredictiveIndicators: indicators,
		Prognosis:            prognosis(trends, indicators, history[len(history)-1].Classification.StressLevel),
	}

	e.logger.Info("trend analysis completed",
		zap.Int("history_size", len(history)),
		zap.Int("observed_trends", len(result.ObservedTrends)),
		zap.Int("predictive_indicators", len(result.PredictiveIndicators)),
	)

	return result
}

// stressOrdinal maps stress levels onto the ordinal scale used for trend comparison
func stressOrdinal(level model.StressLevel) int {
	switch level {
	case model.StressLow:
		return 1
	case model.StressMedium:
		return 2
	case model.StressHigh:
		return 3
	default:
		return 0
	}
}

func varies(values []int) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return true
		}
	}
	return false
}

// historySlope is the least-squares slope of one parameter over the record
// index sequence. Absent values count as zero.
func historySlope(history []model.AssessmentRecord, parameter string) float64 {
	xs := make([]float64, len(history))
	ys := make([]float64, len(history))
	for i, record := range history {
		xs[i] = float64(i)
		ys[i], _ = record.Measurement.Numeric(parameter)
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope
}

// prognosis votes improving against worsening keywords across the trend and
// indicator strings. The tie case reads as stable with mixed trends.
func prognosis(trends, indicators []string, latest model.StressLevel) string {
	improvingKeywords := []string{"decreasing", "improving", "positive"}
	worseningKeywords := []string{"increasing", "risk", "complications"}

	improving, worsening := 0, 0
	for _, s := range append(append([]string{}, trends...), indicators...) {
		lowered := strings.ToLower(s)
		if containsAny(lowered, improvingKeywords) {
			improving++
		}
		if containsAny(lowered, worseningKeywords) {
			worsening++
		}
	}

	level := strings.ToLower(string(latest))
	switch {
	case improving > worsening:
		return fmt.Sprintf("Favorable prognosis with improving trends. Current %s stress level with positive trajectory suggests good response to interventions.", level)
	case worsening > improving:
		return fmt.Sprintf("Concerning prognosis with worsening trends. Current %s stress level with negative trajectory requires immediate attention and intervention.", level)
	default:
		return fmt.Sprintf("Stable prognosis with mixed trends. Current %s stress level requires continued monitoring and management.", level)
	}
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
