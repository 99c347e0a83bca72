package service

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/vcscsvcscs/stress-assessment/pkg/model"
	"go.uber.org/zap"
)

// maxValidationHistory caps the validator's in-memory log; the oldest entry
// is evicted first.
const maxValidationHistory = 100

// AllowedStressSymptoms is the closed set of reportable stress symptoms.
var AllowedStressSymptoms = []string{
	"Headache", "Muscle Tension", "Fatigue", "Irritability",
	"Difficulty Concentrating", "Sleep Issues", "Anxiety",
	"Rapid Heartbeat", "Sweating", "Digestive Issues",
}

// AllowedMovementActivities is the closed set of activity levels.
var AllowedMovementActivities = []string{"sedentary", "light", "moderate", "vigorous"}

// suspiciousPatterns flags obvious markup or script injection in text fields.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`<script.*?>.*?</script>`),
	regexp.MustCompile(`javascript:`),
	regexp.MustCompile(`on\w+\s*=`),
	regexp.MustCompile(`<iframe.*?>`),
	regexp.MustCompile(`<object.*?>`),
	regexp.MustCompile(`<embed.*?>`),
	regexp.MustCompile(`data:text/html`),
	regexp.MustCompile(`vbscript:`),
}

// fieldKind is the validation strategy for a parameter
type fieldKind string

const (
	fieldNumeric     fieldKind = "numeric"
	fieldCategorical fieldKind = "categorical"
	fieldList        fieldKind = "list"
	fieldText        fieldKind = "text"
)

// fieldRule declares the validation rules for one parameter
type fieldRule struct {
	kind        fieldKind
	required    bool
	minValue    float64
	maxValue    float64
	clinicalMin float64
	clinicalMax float64
	precision   int
	allowed     []string
	maxItems    int
	maxLength   int
	unit        string
}

// criticalThresholds holds the escalation levels for one parameter
type criticalThresholds struct {
	criticalLow   float64
	criticalHigh  float64
	emergencyLow  float64
	emergencyHigh float64
}

// DataValidator checks raw measurements against per-field bounds, categorical
// enumerations and cross-parameter consistency rules, and escalates critical
// or emergency threshold findings to hard errors.
type DataValidator struct {
	rules       map[string]fieldRule
	normalBands map[string]band
	thresholds  map[string]criticalThresholds
	history     []model.ValidationRecord
	logger      *zap.Logger
}

// NewDataValidator creates a new DataValidator with the static rule tables
func NewDataValidator(logger *zap.Logger) *DataValidator {
	return &DataValidator{
		rules:       validationRules(),
		normalBands: medicalNormalBands(),
		thresholds:  escalationThresholds(),
		logger:      logger,
	}
}

func validationRules() map[string]fieldRule {
	return map[string]fieldRule{
		model.ParamHeartRate: {
			kind: fieldNumeric, required: true,
			minValue: 30, maxValue: 250,
			clinicalMin: 40, clinicalMax: 200,
			precision: 0, unit: "bpm",
		},
		model.ParamBreathingRate: {
			kind: fieldNumeric, required: false,
			minValue: 4, maxValue: 60,
			clinicalMin: 8, clinicalMax: 30,
			precision: 0, unit: "breaths/min",
		},
		model.ParamBPSystolic: {
			kind: fieldNumeric, required: true,
			minValue: 60, maxValue: 300,
			clinicalMin: 80, clinicalMax: 250,
			precision: 0, unit: "mmHg",
		},
		model.ParamBPDiastolic: {
			kind: fieldNumeric, required: true,
			minValue: 30, maxValue: 200,
			clinicalMin: 40, clinicalMax: 150,
			precision: 0, unit: "mmHg",
		},
		model.ParamTemperature: {
			kind: fieldNumeric, required: false,
			minValue: 32, maxValue: 45,
			clinicalMin: 35, clinicalMax: 39.5,
			precision: 1, unit: "°C",
		},
		model.ParamOxygenSaturation: {
			kind: fieldNumeric, required: false,
			minValue: 70, maxValue: 100,
			clinicalMin: 85, clinicalMax: 100,
			precision: 0, unit: "%",
		},
		model.ParamSleepDuration: {
			kind: fieldNumeric, required: true,
			minValue: 0, maxValue: 24,
			clinicalMin: 2, clinicalMax: 15,
			precision: 1, unit: "hours",
		},
		model.ParamSoundLevel: {
			kind: fieldNumeric, required: false,
			minValue: 0, maxValue: 140,
			clinicalMin: 0, clinicalMax: 100,
			precision: 0, unit: "dB",
		},
		model.ParamCaffeineIntake: {
			kind: fieldNumeric, required: false,
			minValue: 0, maxValue: 1000,
			clinicalMin: 0, clinicalMax: 600,
			precision: 0, unit: "mg",
		},
		model.ParamStressSymptoms: {
			kind: fieldList, required: false,
			allowed: AllowedStressSymptoms, maxItems: 10,
		},
		model.ParamMovementActivity: {
			kind: fieldCategorical, required: false,
			allowed: AllowedMovementActivities,
		},
		model.ParamMedications: {
			kind: fieldText, required: false,
			maxLength: 200,
		},
	}
}

// medicalNormalBands holds the normal ranges used for soft warnings
func medicalNormalBands() map[string]band {
	return map[string]band{
		model.ParamHeartRate:     {60, 100},
		model.ParamBPSystolic:    {90, 120},
		model.ParamBPDiastolic:   {60, 80},
		model.ParamSleepDuration: {7, 9},
	}
}

// escalationThresholds holds the critical and emergency levels. Only the
// parameters listed here can escalate the overall status past "warning".
func escalationThresholds() map[string]criticalThresholds {
	return map[string]criticalThresholds{
		model.ParamHeartRate: {
			criticalLow: 40, criticalHigh: 150,
			emergencyLow: 30, emergencyHigh: 180,
		},
		model.ParamBPSystolic: {
			criticalLow: 80, criticalHigh: 180,
			emergencyLow: 70, emergencyHigh: 220,
		},
		model.ParamBPDiastolic: {
			criticalLow: 40, criticalHigh: 120,
			emergencyLow: 30, emergencyHigh: 140,
		},
	}
}

// Validate checks a full measurement. Field errors and escalated critical or
// emergency findings make the result invalid; warnings never do. Every call
// is appended to the bounded validation history.
func (v *DataValidator) Validate(m model.Measurement) model.ValidationResult {
	result := model.ValidationResult{Valid: true}

	// Per-field validation in canonical order
	for _, parameter := range model.NumericParameters {
		value, present := m.Numeric(parameter)
		rule := v.rules[parameter]

		if !present {
			if rule.required {
				result.Errors = append(result.Errors, fmt.Sprintf("%s is required", parameter))
			}
			continue
		}

		errs, warns := v.validateNumeric(parameter, value, rule)
		result.Errors = append(result.Errors, errs...)
		result.Warnings = append(result.Warnings, warns...)
	}

	if m.StressSymptoms != nil {
		result.Errors = append(result.Errors, v.validateList(model.ParamStressSymptoms, m.StressSymptoms)...)
	}
	if m.MovementActivity != nil {
		result.Errors = append(result.Errors, v.validateCategorical(model.ParamMovementActivity, *m.MovementActivity)...)
	}
	if m.Medications != nil {
		result.Errors = append(result.Errors, v.validateText(model.ParamMedications, *m.Medications)...)
	}

	// Cross-parameter consistency checks run only on individually valid input
	if len(result.Errors) == 0 {
		result.Warnings = append(result.Warnings, v.checkRelationships(m)...)
	}

	// Threshold assessment runs regardless; critical and emergency findings
	// escalate to errors so the caller cannot proceed on a medical emergency.
	result.Assessment = v.assessCriticalStatus(m)
	for _, finding := range result.Assessment.Findings {
		switch finding.Status {
		case model.CriticalStatusEmergency:
			result.Errors = append(result.Errors,
				fmt.Sprintf("EMERGENCY: %s at emergency level: %s", finding.Parameter, formatNumber(finding.Value)))
		case model.CriticalStatusCritical:
			result.Errors = append(result.Errors,
				fmt.Sprintf("CRITICAL: %s at critical level: %s", finding.Parameter, formatNumber(finding.Value)))
		}
	}

	result.Valid = len(result.Errors) == 0

	v.appendHistory(m, result)

	v.logger.Info("measurement validated",
		zap.Bool("valid", result.Valid),
		zap.Int("error_count", len(result.Errors)),
		zap.Int("warning_count", len(result.Warnings)),
		zap.String("overall_status", string(result.Assessment.OverallStatus)),
	)

	return result
}

// ValidateParameter validates a single numeric parameter by name. Unknown
// parameter names are a hard error.
func (v *DataValidator) ValidateParameter(parameter string, value float64) (bool, []string) {
	rule, ok := v.rules[parameter]
	if !ok {
		return false, []string{fmt.Sprintf("Unknown parameter: %s", parameter)}
	}
	if rule.kind != fieldNumeric {
		return false, []string{fmt.Sprintf("%s is not a numeric parameter", parameter)}
	}

	errs, _ := v.validateNumeric(parameter, value, rule)
	return len(errs) == 0, errs
}

// validateNumeric checks finiteness, absolute bounds, clinical bounds and
// precision. Absolute bound and precision violations are errors; clinical
// deviations and normal-range deviations are warnings.
func (v *DataValidator) validateNumeric(parameter string, value float64, rule fieldRule) (errs, warns []string) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return []string{fmt.Sprintf("%s contains invalid numeric value", parameter)}, nil
	}

	if value < rule.minValue {
		errs = append(errs, fmt.Sprintf("%s (%s) is below minimum allowed value (%s)",
			parameter, formatNumber(value), formatNumber(rule.minValue)))
	}
	if value > rule.maxValue {
		errs = append(errs, fmt.Sprintf("%s (%s) is above maximum allowed value (%s)",
			parameter, formatNumber(value), formatNumber(rule.maxValue)))
	}

	if value < rule.clinicalMin {
		warns = append(warns, fmt.Sprintf("%s (%s) is below clinical minimum (%s)",
			parameter, formatNumber(value), formatNumber(rule.clinicalMin)))
	}
	if value > rule.clinicalMax {
		warns = append(warns, fmt.Sprintf("%s (%s) is above clinical maximum (%s)",
			parameter, formatNumber(value), formatNumber(rule.clinicalMax)))
	}

	if !hasPrecisionAtMost(value, rule.precision) {
		if rule.precision == 0 {
			errs = append(errs, fmt.Sprintf("%s should be a whole number", parameter))
		} else {
			errs = append(errs, fmt.Sprintf("%s has too many decimal places (max %d)", parameter, rule.precision))
		}
	}

	if len(errs) == 0 {
		if normal, ok := v.normalBands[parameter]; ok {
			if value < normal.lo || value > normal.hi {
				warns = append(warns, fmt.Sprintf("%s is outside normal range (%s-%s)",
					parameter, formatNumber(normal.lo), formatNumber(normal.hi)))
			}
		}
	}

	return errs, warns
}

// hasPrecisionAtMost reports whether the value has at most the given number
// of decimal places, within float tolerance.
func hasPrecisionAtMost(value float64, precision int) bool {
	shifted := value * math.Pow10(precision)
	return math.Abs(shifted-math.Round(shifted)) < 1e-9
}

// validateList checks list size and membership in the allowed set
func (v *DataValidator) validateList(parameter string, items []string) []string {
	rule := v.rules[parameter]
	var errs []string

	if rule.maxItems > 0 && len(items) > rule.maxItems {
		errs = append(errs, fmt.Sprintf("%s cannot have more than %d items", parameter, rule.maxItems))
	}

	for _, item := range items {
		if !contains(rule.allowed, item) {
			errs = append(errs, fmt.Sprintf("%s contains invalid item: %s", parameter, item))
		}
	}

	return errs
}

// validateCategorical checks membership in the allowed set
func (v *DataValidator) validateCategorical(parameter, value string) []string {
	rule := v.rules[parameter]
	if !contains(rule.allowed, value) {
		return []string{fmt.Sprintf("%s must be one of: %s", parameter, strings.Join(rule.allowed, ", "))}
	}
	return nil
}

// validateText checks length and scans for suspicious markup or script content
func (v *DataValidator) validateText(parameter, value string) []string {
	rule := v.rules[parameter]
	var errs []string

	if rule.maxLength > 0 && len(value) > rule.maxLength {
		errs = append(errs, fmt.Sprintf("%s exceeds maximum length of %d characters", parameter, rule.maxLength))
	}

	if containsSuspiciousContent(value) {
		errs = append(errs, fmt.Sprintf("%s contains potentially harmful content", parameter))
	}

	return errs
}

// containsSuspiciousContent reports whether the text matches any injection pattern
func containsSuspiciousContent(text string) bool {
	lowered := strings.ToLower(text)
	for _, pattern := range suspiciousPatterns {
		if pattern.MatchString(lowered) {
			return true
		}
	}
	return false
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// checkRelationships flags medically inconsistent parameter combinations.
// Each finding is a warning, never an error.
func (v *DataValidator) checkRelationships(m model.Measurement) []string {
	var warnings []string

	// Blood pressure consistency
	if m.BPSystolic != nil && m.BPDiastolic != nil {
		systolic, diastolic := *m.BPSystolic, *m.BPDiastolic

		if systolic <= diastolic {
			warnings = append(warnings, "Systolic blood pressure should be higher than diastolic blood pressure")
		}

		pulsePressure := systolic - diastolic
		if pulsePressure < 20 {
			warnings = append(warnings, "Pulse pressure is unusually narrow (may indicate cardiac issues)")
		} else if pulsePressure > 80 {
			warnings = append(warnings, "Pulse pressure is unusually wide (may indicate arterial stiffness)")
		}
	}

	// Heart rate and blood pressure relationship
	if m.HeartRate != nil && m.BPSystolic != nil {
		hr, bp := *m.HeartRate, *m.BPSystolic

		if hr > 100 && bp < 90 {
			warnings = append(warnings, "High heart rate with low blood pressure may indicate shock or dehydration")
		} else if hr < 60 && bp > 140 {
			warnings = append(warnings, "Low heart rate with high blood pressure may indicate medication effects")
		}
	}

	// Temperature and heart rate relationship
	if m.Temperature != nil && m.HeartRate != nil {
		temp, hr := *m.Temperature, *m.HeartRate

		if temp > 37.5 && hr < 60 {
			warnings = append(warnings, "Fever with low heart rate may indicate serious infection")
		} else if temp < 36.0 && hr > 100 {
			warnings = append(warnings, "Hypothermia with high heart rate may indicate metabolic stress")
		}
	}

	// Oxygen saturation and breathing rate
	if m.OxygenSaturation != nil && m.BreathingRate != nil {
		spo2, rr := *m.OxygenSaturation, *m.BreathingRate

		if spo2 < 95 && rr < 12 {
			warnings = append(warnings, "Low oxygen saturation with slow breathing may indicate respiratory depression")
		} else if spo2 > 98 && rr > 25 {
			warnings = append(warnings, "Normal oxygen saturation with rapid breathing may indicate anxiety or metabolic issues")
		}
	}

	// Sleep and symptoms relationship
	if m.SleepDuration != nil && m.StressSymptoms != nil {
		sleep := *m.SleepDuration

		if sleep < 6 && !m.HasSymptom("Sleep Issues") {
			warnings = append(warnings, "Short sleep duration but no sleep issues reported - consider sleep quality assessment")
		} else if sleep > 9 && m.HasSymptom("Fatigue") {
			warnings = append(warnings, "Long sleep duration with fatigue may indicate sleep disorder")
		}
	}

	return warnings
}

// assessCriticalStatus checks every thresholded parameter against its
// emergency, critical and normal bands and derives the most severe overall
// status. Emergency and critical tests are inclusive at the threshold.
func (v *DataValidator) assessCriticalStatus(m model.Measurement) model.CriticalAssessment {
	assessment := model.CriticalAssessment{OverallStatus: model.CriticalStatusNormal}

	for _, parameter := range model.NumericParameters {
		value, present := m.Numeric(parameter)
		if !present {
			continue
		}
		thresholds, ok := v.thresholds[parameter]
		if !ok {
			continue
		}

		switch {
		case value <= thresholds.emergencyLow || value >= thresholds.emergencyHigh:
			assessment.Findings = append(assessment.Findings, model.CriticalFinding{
				Parameter: parameter,
				Value:     value,
				Status:    model.CriticalStatusEmergency,
			})
			assessment.OverallStatus = model.CriticalStatusEmergency
		case value <= thresholds.criticalLow || value >= thresholds.criticalHigh:
			assessment.Findings = append(assessment.Findings, model.CriticalFinding{
				Parameter: parameter,
				Value:     value,
				Status:    model.CriticalStatusCritical,
			})
			if assessment.OverallStatus != model.CriticalStatusEmergency {
				assessment.OverallStatus = model.CriticalStatusCritical
			}
		default:
			normal, ok := v.normalBands[parameter]
			if ok && (value < normal.lo || value > normal.hi) {
				assessment.Findings = append(assessment.Findings, model.CriticalFinding{
					Parameter: parameter,
					Value:     value,
					Status:    model.CriticalStatusWarning,
				})
				if assessment.OverallStatus == model.CriticalStatusNormal {
					assessment.OverallStatus = model.CriticalStatusWarning
				}
			}
		}
	}

	return assessment
}

// appendHistory records a validation call, evicting the oldest entry past the cap
func (v *DataValidator) appendHistory(m model.Measurement, result model.ValidationResult) {
	v.history = append(v.history, model.ValidationRecord{
		Timestamp:   time.Now().UTC(),
		Measurement: m,
		Result:      result,
	})
	if len(v.history) > maxValidationHistory {
		v.history = v.history[len(v.history)-maxValidationHistory:]
	}
}

// History returns a copy of the bounded validation log, oldest first
func (v *DataValidator) History() []model.ValidationRecord {
	out := make([]model.ValidationRecord, len(v.history))
	copy(out, v.history)
	return out
}

// ClearHistory empties the validation log
func (v *DataValidator) ClearHistory() {
	v.history = nil
}

// SupportedParameters returns the names covered by the rule table in canonical order
func (v *DataValidator) SupportedParameters() []string {
	names := append(append([]string{}, model.NumericParameters...),
		model.ParamStressSymptoms, model.ParamMovementActivity, model.ParamMedications)
	return names
}
