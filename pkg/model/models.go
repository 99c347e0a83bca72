package model

import "time"

// Canonical parameter names used as keys in rule tables, analyses and reports.
const (
	ParamHeartRate        = "heart_rate"
	ParamBreathingRate    = "breathing_rate"
	ParamBPSystolic       = "bp_systolic"
	ParamBPDiastolic      = "bp_diastolic"
	ParamTemperature      = "temperature"
	ParamOxygenSaturation = "oxygen_saturation"
	ParamSleepDuration    = "sleep_duration"
	ParamSoundLevel       = "sound_level"
	ParamCaffeineIntake   = "caffeine_intake"
	ParamStressSymptoms   = "stress_symptoms"
	ParamMovementActivity = "movement_activity"
	ParamMedications      = "medications"
)

// NumericParameters lists the numeric measurement fields in canonical order.
var NumericParameters = []string{
	ParamHeartRate,
	ParamBreathingRate,
	ParamBPSystolic,
	ParamBPDiastolic,
	ParamTemperature,
	ParamOxygenSaturation,
	ParamSleepDuration,
	ParamSoundLevel,
	ParamCaffeineIntake,
}

// Measurement represents one snapshot of physiological and behavioral readings.
// Numeric fields are nil when not captured; requiredness is enforced by the
// validator, not the type.
type Measurement struct {
	HeartRate        *float64 `json:"heart_rate,omitempty"`
	BreathingRate    *float64 `json:"breathing_rate,omitempty"`
	BPSystolic       *float64 `json:"bp_systolic,omitempty"`
	BPDiastolic      *float64 `json:"bp_diastolic,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	OxygenSaturation *float64 `json:"oxygen_saturation,omitempty"`
	SleepDuration    *float64 `json:"sleep_duration,omitempty"`
	SoundLevel       *float64 `json:"sound_level,omitempty"`
	CaffeineIntake   *float64 `json:"caffeine_intake,omitempty"`
	StressSymptoms   []string `json:"stress_symptoms,omitempty"`
	MovementActivity *string  `json:"movement_activity,omitempty"`
	Medications      *string  `json:"medications,omitempty"`
}

// Numeric returns the value of a numeric parameter by canonical name.
// The second return is false when the parameter was not captured or the name
// is not a numeric parameter.
func (m Measurement) Numeric(name string) (float64, bool) {
	var p *float64
	switch name {
	case ParamHeartRate:
		p = m.HeartRate
	case ParamBreathingRate:
		p = m.BreathingRate
	case ParamBPSystolic:
		p = m.BPSystolic
	case ParamBPDiastolic:
		p = m.BPDiastolic
	case ParamTemperature:
		p = m.Temperature
	case ParamOxygenSaturation:
		p = m.OxygenSaturation
	case ParamSleepDuration:
		p = m.SleepDuration
	case ParamSoundLevel:
		p = m.SoundLevel
	case ParamCaffeineIntake:
		p = m.CaffeineIntake
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// SymptomCount returns the number of reported stress symptoms.
func (m Measurement) SymptomCount() int {
	return len(m.StressSymptoms)
}

// HasSymptom reports whether the given symptom was reported.
func (m Measurement) HasSymptom(symptom string) bool {
	for _, s := range m.StressSymptoms {
		if s == symptom {
			return true
		}
	}
	return false
}

// CriticalStatus represents the severity of a threshold finding
type CriticalStatus string

const (
	CriticalStatusNormal    CriticalStatus = "normal"
	CriticalStatusWarning   CriticalStatus = "warning"
	CriticalStatusCritical  CriticalStatus = "critical"
	CriticalStatusEmergency CriticalStatus = "emergency"
)

// CriticalFinding represents one parameter at a critical or emergency threshold
type CriticalFinding struct {
	Parameter string         `json:"parameter"`
	Value     float64        `json:"value"`
	Status    CriticalStatus `json:"status"`
}

// CriticalAssessment summarizes threshold findings across all parameters
type CriticalAssessment struct {
	OverallStatus CriticalStatus    `json:"overall_status"`
	Findings      []CriticalFinding `json:"findings,omitempty"`
}

// ValidationResult represents the outcome of validating one measurement.
// Warnings never block processing; any error, including an escalated critical
// or emergency finding, makes the measurement invalid.
type ValidationResult struct {
	Valid      bool               `json:"valid"`
	Errors     []string           `json:"errors,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
	Assessment CriticalAssessment `json:"critical_assessment"`
}

// ValidationRecord represents one entry of the validator's bounded history log
type ValidationRecord struct {
	Timestamp   time.Time        `json:"timestamp"`
	Measurement Measurement      `json:"measurement"`
	Result      ValidationResult `json:"result"`
}

// ParameterStatus represents the clinical band a parameter value falls into
type ParameterStatus string

const (
	StatusNormal       ParameterStatus = "normal"
	StatusLow          ParameterStatus = "low"
	StatusHigh         ParameterStatus = "high"
	StatusCriticalLow  ParameterStatus = "critical_low"
	StatusCriticalHigh ParameterStatus = "critical_high"
	StatusOutOfRange   ParameterStatus = "out_of_range"
	StatusUnknown      ParameterStatus = "unknown"
)

// ParameterAnalysis represents the clinical reading of one parameter value
type ParameterAnalysis struct {
	Parameter      string          `json:"parameter"`
	Status         ParameterStatus `json:"status"`
	Value          string          `json:"value"`
	NormalRange    string          `json:"normal_range"`
	Interpretation string          `json:"interpretation"`
	StressImpact   string          `json:"stress_impact"`
	Recommendation string          `json:"recommendation"`
	ClinicalWeight float64         `json:"clinical_weight"`
}

// ParameterInfo describes one entry of the static reference-range table
type ParameterInfo struct {
	Parameter      string  `json:"parameter"`
	Unit           string  `json:"unit"`
	NormalRange    string  `json:"normal_range"`
	ClinicalWeight float64 `json:"clinical_weight"`
}

// AnalysisSummary aggregates a full parameter-analysis map
type AnalysisSummary struct {
	TotalParameters    int      `json:"total_parameters"`
	NormalCount        int      `json:"normal_count"`
	AbnormalCount      int      `json:"abnormal_count"`
	CriticalCount      int      `json:"critical_count"`
	CriticalParameters []string `json:"critical_parameters,omitempty"`
	AbnormalParameters []string `json:"abnormal_parameters,omitempty"`
	Recommendations    []string `json:"recommendations,omitempty"`
	OverallStatus      string   `json:"overall_status"`
	HighImpactCount    int      `json:"high_impact_count"`
}

// StressLevel represents the three-tier stress classification
type StressLevel string

const (
	StressLow    StressLevel = "Low"
	StressMedium StressLevel = "Medium"
	StressHigh   StressLevel = "High"
)

// RiskCategory represents the three-band labeling of the risk score
type RiskCategory string

const (
	RiskCategoryLow      RiskCategory = "Low Risk"
	RiskCategoryModerate RiskCategory = "Moderate Risk"
	RiskCategoryHigh     RiskCategory = "High Risk"
)

// MedicalPriority represents the categorical urgency of an assessment
type MedicalPriority string

const (
	PriorityLow      MedicalPriority = "Low"
	PriorityMedium   MedicalPriority = "Medium"
	PriorityHigh     MedicalPriority = "High"
	PriorityCritical MedicalPriority = "Critical"
)

// ClassificationResult represents one stress classification verdict
type ClassificationResult struct {
	StressLevel       StressLevel             `json:"stress_level"`
	Confidence        float64                 `json:"confidence"`
	Probabilities     map[StressLevel]float64 `json:"probabilities"`
	RiskScore         float64                 `json:"risk_score"`
	RiskFactors       []string                `json:"risk_factors,omitempty"`
	RiskCategory      RiskCategory            `json:"risk_category"`
	MedicalPriority   MedicalPriority         `json:"medical_priority"`
	ActionRequired    string                  `json:"action_required"`
	PrimaryFactor     string                  `json:"primary_factor"`
	FeatureImportance map[string]float64      `json:"feature_importance,omitempty"`
}

// ClassifierInfo describes the fitted classification model
type ClassifierInfo struct {
	ModelType         string             `json:"model_type"`
	Trees             int                `json:"trees"`
	Classes           []string           `json:"classes"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	MedicalWeights    map[string]float64 `json:"medical_weights"`
}

// AssessmentRecord represents one completed assessment in the session history
type AssessmentRecord struct {
	ID             string                       `json:"id"`
	Timestamp      time.Time                    `json:"timestamp"`
	Measurement    Measurement                  `json:"measurement"`
	Validation     ValidationResult             `json:"validation"`
	Analyses       map[string]ParameterAnalysis `json:"analyses,omitempty"`
	Classification ClassificationResult         `json:"classification"`
}

// PhysiologicalPatterns holds the four system-level pattern narratives
type PhysiologicalPatterns struct {
	Cardiovascular string `json:"cardiovascular"`
	Respiratory    string `json:"respiratory"`
	Metabolic      string `json:"metabolic"`
	Autonomic      string `json:"autonomic"`
}

// InsightsResult represents the full clinical narrative for one assessment
type InsightsResult struct {
	PrimaryFindings             []string              `json:"primary_findings"`
	RiskFactors                 []string              `json:"risk_factors,omitempty"`
	ProtectiveFactors           []string              `json:"protective_factors,omitempty"`
	Concerns                    []string              `json:"concerns,omitempty"`
	ImmediateActions            []string              `json:"immediate_actions,omitempty"`
	ShortTermPlan               []string              `json:"short_term_plan,omitempty"`
	LongTermStrategy            []string              `json:"long_term_strategy,omitempty"`
	MonitoringPlan              []string              `json:"monitoring_plan,omitempty"`
	PersonalizedRecommendations []string              `json:"personalized_recommendations,omitempty"`
	LiteratureReferences        []string              `json:"literature_references,omitempty"`
	PhysiologicalPatterns       PhysiologicalPatterns `json:"physiological_patterns"`
}

// TrendResult represents longitudinal trend analysis over a session history
type TrendResult struct {
	ObservedTrends       []string `json:"observed_trends"`
	PredictiveIndicators []string `json:"predictive_indicators"`
	Prognosis            string   `json:"prognosis"`
}

// ReportType represents a report template
type ReportType string

const (
	ReportComprehensive ReportType = "Comprehensive Assessment"
	ReportStressSummary ReportType = "Stress Level Summary"
	ReportVitalSigns    ReportType = "Vital Signs Analysis"
	ReportRiskProfile   ReportType = "Risk Assessment"
)

// AssessmentReport represents a rendered report document
type AssessmentReport struct {
	ID            string     `json:"id"`
	Type          ReportType `json:"report_type"`
	Priority      string     `json:"priority"`
	PatientID     string     `json:"patient_id"`
	GeneratedAt   time.Time  `json:"generated_at"`
	Content       string     `json:"content"`
	TotalSections int        `json:"total_sections"`
}
