package service

import (
	"strconv"
	"strings"

	"github.com/vcscsvcscs/stress-assessment/pkg/model"
	"gonum.org/v1/gonum/stat"
)

// band is a numeric interval; inclusivity of each end depends on the band's
// position in the evaluation order.
type band struct {
	lo, hi float64
}

// clinicalRange holds the five clinical bands and the display unit for one parameter
type clinicalRange struct {
	normal       band
	low          band
	high         band
	criticalLow  band
	criticalHigh band
	unit         string
}

// categorize maps a value to its clinical band. Bands are evaluated in a fixed
// order: critical_low and low are half-open [lo,hi), normal is closed [lo,hi],
// high and critical_high are half-open (lo,hi]. Values outside every band are
// out_of_range.
func (r clinicalRange) categorize(v float64) model.ParameterStatus {
	switch {
	case r.criticalLow.lo <= v && v < r.criticalLow.hi:
		return model.StatusCriticalLow
	case r.low.lo <= v && v < r.low.hi:
		return model.StatusLow
	case r.normal.lo <= v && v <= r.normal.hi:
		return model.StatusNormal
	case r.high.lo < v && v <= r.high.hi:
		return model.StatusHigh
	case r.criticalHigh.lo < v && v <= r.criticalHigh.hi:
		return model.StatusCriticalHigh
	default:
		return model.StatusOutOfRange
	}
}

// narrativeSet maps clinical bands to fixed sentences for one parameter
type narrativeSet map[model.ParameterStatus]string

// ParameterAnalyzer maps named measurements to clinical categories and
// narrative interpretations using static adult reference-range tables.
type ParameterAnalyzer struct {
	ranges          map[string]clinicalRange
	weights         map[string]float64
	interpretations map[string]narrativeSet
	stressImpacts   map[string]narrativeSet
	recommendations map[string]narrativeSet
}

// NewParameterAnalyzer creates a new ParameterAnalyzer with the adult reference tables
func NewParameterAnalyzer() *ParameterAnalyzer {
	return &ParameterAnalyzer{
		ranges:          referenceRanges(),
		weights:         parameterWeights(),
		interpretations: clinicalInterpretations(),
		stressImpacts:   stressImpactNarratives(),
		recommendations: rangeRecommendations(),
	}
}

func referenceRanges() map[string]clinicalRange {
	return map[string]clinicalRange{
		model.ParamHeartRate: {
			normal:       band{60, 100},
			low:          band{40, 60},
			high:         band{100, 180},
			criticalLow:  band{0, 40},
			criticalHigh: band{180, 300},
			unit:         "bpm",
		},
		model.ParamBreathingRate: {
			normal:       band{12, 20},
			low:          band{8, 12},
			high:         band{20, 30},
			criticalLow:  band{0, 8},
			criticalHigh: band{30, 50},
			unit:         "breaths/min",
		},
		model.ParamBPSystolic: {
			normal:       band{90, 120},
			low:          band{80, 90},
			high:         band{120, 140},
			criticalLow:  band{0, 80},
			criticalHigh: band{140, 250},
			unit:         "mmHg",
		},
		model.ParamBPDiastolic: {
			normal:       band{60, 80},
			low:          band{40, 60},
			high:         band{80, 90},
			criticalLow:  band{0, 40},
			criticalHigh: band{90, 150},
			unit:         "mmHg",
		},
		model.ParamTemperature: {
			normal:       band{36.1, 37.2},
			low:          band{35.0, 36.1},
			high:         band{37.2, 38.0},
			criticalLow:  band{30.0, 35.0},
			criticalHigh: band{38.0, 45.0},
			unit:         "°C",
		},
		model.ParamOxygenSaturation: {
			normal:       band{95, 100},
			low:          band{90, 95},
			high:         band{100, 100},
			criticalLow:  band{70, 90},
			criticalHigh: band{100, 100},
			unit:         "%",
		},
		model.ParamSleepDuration: {
			normal:       band{7, 9},
			low:          band{5, 7},
			high:         band{9, 11},
			criticalLow:  band{0, 5},
			criticalHigh: band{11, 24},
			unit:         "hours",
		},
		model.ParamSoundLevel: {
			normal:       band{30, 60},
			low:          band{20, 30},
			high:         band{60, 80},
			criticalLow:  band{0, 20},
			criticalHigh: band{80, 120},
			unit:         "dB",
		},
		model.ParamCaffeineIntake: {
			normal:       band{0, 400},
			low:          band{0, 100},
			high:         band{400, 600},
			criticalLow:  band{0, 0},
			criticalHigh: band{600, 1000},
			unit:         "mg",
		},
	}
}

func parameterWeights() map[string]float64 {
	return map[string]float64{
		model.ParamHeartRate:      0.35,
		model.ParamBPSystolic:     0.25,
		model.ParamBPDiastolic:    0.20,
		model.ParamSleepDuration:  0.15,
		model.ParamStressSymptoms: 0.05,
	}
}

func clinicalInterpretations() map[string]narrativeSet {
	return map[string]narrativeSet{
		model.ParamHeartRate: {
			model.StatusNormal:       "Heart rate within normal limits",
			model.StatusLow:          "Bradycardia - slower than normal heart rate",
			model.StatusHigh:         "Tachycardia - faster than normal heart rate",
			model.StatusCriticalLow:  "Severe bradycardia - immediate medical attention required",
			model.StatusCriticalHigh: "Severe tachycardia - immediate medical attention required",
		},
		model.ParamBreathingRate: {
			model.StatusNormal:       "Respiratory rate within normal limits",
			model.StatusLow:          "Bradypnea - slower than normal breathing rate",
			model.StatusHigh:         "Tachypnea - faster than normal breathing rate",
			model.StatusCriticalLow:  "Severe bradypnea - immediate medical attention required",
			model.StatusCriticalHigh: "Severe tachypnea - immediate medical attention required",
		},
		model.ParamBPSystolic: {
			model.StatusNormal:       "Systolic blood pressure within normal limits",
			model.StatusLow:          "Hypotension - lower than normal blood pressure",
			model.StatusHigh:         "Hypertension - higher than normal blood pressure",
			model.StatusCriticalLow:  "Severe hypotension - immediate medical attention required",
			model.StatusCriticalHigh: "Severe hypertension - immediate medical attention required",
		},
		model.ParamBPDiastolic: {
			model.StatusNormal:       "Diastolic blood pressure within normal limits",
			model.StatusLow:          "Low diastolic pressure",
			model.StatusHigh:         "Elevated diastolic pressure",
			model.StatusCriticalLow:  "Critically low diastolic pressure",
			model.StatusCriticalHigh: "Critically high diastolic pressure",
		},
		model.ParamTemperature: {
			model.StatusNormal:       "Body temperature within normal limits",
			model.StatusLow:          "Hypothermia - below normal body temperature",
			model.StatusHigh:         "Fever - elevated body temperature",
			model.StatusCriticalLow:  "Severe hypothermia - immediate medical attention required",
			model.StatusCriticalHigh: "High fever - immediate medical attention required",
		},
		model.ParamOxygenSaturation: {
			model.StatusNormal:       "Oxygen saturation within normal limits",
			model.StatusLow:          "Mild hypoxemia - slightly low oxygen levels",
			model.StatusHigh:         "Oxygen saturation optimal",
			model.StatusCriticalLow:  "Severe hypoxemia - immediate medical attention required",
			model.StatusCriticalHigh: "Oxygen saturation optimal",
		},
		model.ParamSleepDuration: {
			model.StatusNormal:       "Sleep duration within recommended range",
			model.StatusLow:          "Sleep deprivation - insufficient sleep",
			model.StatusHigh:         "Excessive sleep duration",
			model.StatusCriticalLow:  "Severe sleep deprivation",
			model.StatusCriticalHigh: "Excessive sleep - possible underlying condition",
		},
		model.ParamSoundLevel: {
			model.StatusNormal:       "Environmental noise within acceptable limits",
			model.StatusLow:          "Quiet environment",
			model.StatusHigh:         "Elevated noise levels - potential stressor",
			model.StatusCriticalLow:  "Extremely quiet environment",
			model.StatusCriticalHigh: "Harmful noise levels - hearing protection recommended",
		},
	}
}

func stressImpactNarratives() map[string]narrativeSet {
	return map[string]narrativeSet{
		model.ParamHeartRate: {
			model.StatusLow:          "Low impact - may indicate relaxation or fitness",
			model.StatusHigh:         "High impact - elevated heart rate increases stress",
			model.StatusCriticalLow:  "Critical impact - severe bradycardia affects circulation",
			model.StatusCriticalHigh: "Critical impact - severe tachycardia indicates high stress",
		},
		model.ParamBreathingRate: {
			model.StatusLow:          "Low impact - slow breathing may indicate relaxation",
			model.StatusHigh:         "Moderate impact - rapid breathing indicates stress response",
			model.StatusCriticalLow:  "Critical impact - dangerously slow breathing",
			model.StatusCriticalHigh: "Critical impact - severe respiratory distress",
		},
		model.ParamBPSystolic: {
			model.StatusLow:          "Moderate impact - low blood pressure may cause fatigue",
			model.StatusHigh:         "High impact - elevated blood pressure indicates stress",
			model.StatusCriticalLow:  "Critical impact - severe hypotension",
			model.StatusCriticalHigh: "Critical impact - severe hypertension",
		},
		model.ParamBPDiastolic: {
			model.StatusLow:          "Low impact - slightly low diastolic pressure",
			model.StatusHigh:         "Moderate impact - elevated diastolic pressure",
			model.StatusCriticalLow:  "Critical impact - dangerously low diastolic pressure",
			model.StatusCriticalHigh: "Critical impact - dangerously high diastolic pressure",
		},
		model.ParamTemperature: {
			model.StatusLow:          "Moderate impact - hypothermia affects metabolism",
			model.StatusHigh:         "Moderate impact - fever indicates physiological stress",
			model.StatusCriticalLow:  "Critical impact - severe hypothermia",
			model.StatusCriticalHigh: "Critical impact - dangerous hyperthermia",
		},
		model.ParamOxygenSaturation: {
			model.StatusLow:          "High impact - low oxygen levels increase stress",
			model.StatusHigh:         "Minimal impact - optimal oxygen levels",
			model.StatusCriticalLow:  "Critical impact - severe hypoxemia",
			model.StatusCriticalHigh: "Minimal impact - optimal oxygen levels",
		},
		model.ParamSleepDuration: {
			model.StatusLow:          "High impact - sleep deprivation increases stress",
			model.StatusHigh:         "Moderate impact - excessive sleep may indicate issues",
			model.StatusCriticalLow:  "Critical impact - severe sleep deprivation",
			model.StatusCriticalHigh: "High impact - excessive sleep duration",
		},
		model.ParamSoundLevel: {
			model.StatusLow:          "Minimal impact - quiet environment",
			model.StatusHigh:         "Moderate impact - noise pollution increases stress",
			model.StatusCriticalLow:  "Minimal impact - very quiet environment",
			model.StatusCriticalHigh: "High impact - harmful noise levels",
		},
	}
}

func rangeRecommendations() map[string]narrativeSet {
	return map[string]narrativeSet{
		model.ParamHeartRate: {
			model.StatusLow:          "Monitor for symptoms; consider cardiac evaluation if symptomatic",
			model.StatusHigh:         "Practice relaxation techniques; consider cardiovascular evaluation",
			model.StatusCriticalLow:  "Seek immediate medical attention",
			model.StatusCriticalHigh: "Seek immediate medical attention",
		},
		model.ParamBreathingRate: {
			model.StatusLow:          "Monitor consciousness level; evaluate for respiratory depression",
			model.StatusHigh:         "Practice deep breathing exercises; evaluate for underlying causes",
			model.StatusCriticalLow:  "Seek immediate medical attention",
			model.StatusCriticalHigh: "Seek immediate medical attention",
		},
		model.ParamBPSystolic: {
			model.StatusLow:          "Increase fluid intake; monitor for dizziness",
			model.StatusHigh:         "Reduce sodium intake; increase physical activity; monitor regularly",
			model.StatusCriticalLow:  "Seek immediate medical attention",
			model.StatusCriticalHigh: "Seek immediate medical attention",
		},
		model.ParamBPDiastolic: {
			model.StatusLow:          "Monitor for symptoms; ensure adequate hydration",
			model.StatusHigh:         "Lifestyle modifications; regular monitoring",
			model.StatusCriticalLow:  "Seek immediate medical attention",
			model.StatusCriticalHigh: "Seek immediate medical attention",
		},
		model.ParamTemperature: {
			model.StatusLow:          "Warm environment; monitor for shivering",
			model.StatusHigh:         "Hydration; rest; monitor for fever symptoms",
			model.StatusCriticalLow:  "Seek immediate medical attention",
			model.StatusCriticalHigh: "Seek immediate medical attention",
		},
		model.ParamOxygenSaturation: {
			model.StatusLow:          "Evaluate breathing; consider oxygen therapy",
			model.StatusHigh:         "Continue current practices",
			model.StatusCriticalLow:  "Seek immediate medical attention",
			model.StatusCriticalHigh: "Continue current practices",
		},
		model.ParamSleepDuration: {
			model.StatusLow:          "Improve sleep hygiene; establish regular sleep schedule",
			model.StatusHigh:         "Evaluate for sleep disorders; maintain regular schedule",
			model.StatusCriticalLow:  "Seek medical evaluation for sleep disorders",
			model.StatusCriticalHigh: "Seek medical evaluation for excessive sleepiness",
		},
		model.ParamSoundLevel: {
			model.StatusLow:          "Current environment is optimal",
			model.StatusHigh:         "Reduce noise exposure; use hearing protection",
			model.StatusCriticalLow:  "Current environment is optimal",
			model.StatusCriticalHigh: "Immediate hearing protection required",
		},
	}
}

// formatNumber renders a float without trailing zeros (75 -> "75", 7.5 -> "7.5")
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AnalyzeParameter analyzes a single named parameter value against the
// reference tables. Unrecognized parameters yield an "unknown" analysis
// rather than an error.
func (a *ParameterAnalyzer) AnalyzeParameter(parameter string, value float64) model.ParameterAnalysis {
	ranges, ok := a.ranges[parameter]
	if !ok {
		return model.ParameterAnalysis{
			Parameter:      parameter,
			Status:         model.StatusUnknown,
			Value:          formatNumber(value),
			NormalRange:    "Unknown",
			Interpretation: "Parameter not recognized",
			StressImpact:   "Unknown impact",
			Recommendation: "Consult healthcare provider",
		}
	}

	status := ranges.categorize(value)

	interpretation := "Unknown status"
	if set, ok := a.interpretations[parameter]; ok {
		if text, ok := set[status]; ok {
			interpretation = text
		}
	}

	return model.ParameterAnalysis{
		Parameter:      parameter,
		Status:         status,
		Value:          formatNumber(value) + " " + ranges.unit,
		NormalRange:    formatNumber(ranges.normal.lo) + "-" + formatNumber(ranges.normal.hi) + " " + ranges.unit,
		Interpretation: interpretation,
		StressImpact:   a.stressImpact(parameter, status),
		Recommendation: a.recommendation(parameter, status),
		ClinicalWeight: a.weights[parameter],
	}
}

// stressImpact returns the stress-impact narrative for a parameter in a band
func (a *ParameterAnalyzer) stressImpact(parameter string, status model.ParameterStatus) string {
	if status == model.StatusNormal {
		return "Minimal impact on stress"
	}
	if set, ok := a.stressImpacts[parameter]; ok {
		if text, ok := set[status]; ok {
			return text
		}
	}
	return "Unknown impact"
}

// recommendation returns the recommendation narrative for a parameter in a band
func (a *ParameterAnalyzer) recommendation(parameter string, status model.ParameterStatus) string {
	if status == model.StatusNormal {
		return "Continue current health practices"
	}
	if set, ok := a.recommendations[parameter]; ok {
		if text, ok := set[status]; ok {
			return text
		}
	}
	return "Consult healthcare provider"
}

// AnalyzeAll analyzes every captured parameter of a measurement, including
// the symptom burden when a symptom list was captured.
func (a *ParameterAnalyzer) AnalyzeAll(m model.Measurement) map[string]model.ParameterAnalysis {
	results := make(map[string]model.ParameterAnalysis)

	for _, parameter := range model.NumericParameters {
		if value, ok := m.Numeric(parameter); ok {
			results[parameter] = a.AnalyzeParameter(parameter, value)
		}
	}

	if m.StressSymptoms != nil {
		results[model.ParamStressSymptoms] = a.analyzeSymptoms(m.StressSymptoms)
	}

	return results
}

// analyzeSymptoms grades the reported symptom burden into fixed tiers
func (a *ParameterAnalyzer) analyzeSymptoms(symptoms []string) model.ParameterAnalysis {
	count := len(symptoms)

	var status model.ParameterStatus
	var interpretation, impact, recommendation string
	switch {
	case count == 0:
		status = model.StatusNormal
		interpretation = "No stress symptoms reported"
		impact = "Minimal impact on stress"
		recommendation = "Continue current wellness practices"
	case count <= 2:
		status = model.StatusLow
		interpretation = "Few stress symptoms present"
		impact = "Low impact on stress levels"
		recommendation = "Monitor symptoms and practice stress reduction techniques"
	case count <= 4:
		status = model.StatusHigh
		interpretation = "Multiple stress symptoms present"
		impact = "Moderate to high impact on stress levels"
		recommendation = "Implement stress management strategies and consider professional support"
	default:
		status = model.StatusCriticalHigh
		interpretation = "Significant stress symptom burden"
		impact = "High impact on stress levels and overall wellbeing"
		recommendation = "Seek professional medical or psychological evaluation"
	}

	listed := "None"
	if count > 0 {
		listed = strings.Join(symptoms, ", ")
	}

	return model.ParameterAnalysis{
		Parameter:      model.ParamStressSymptoms,
		Status:         status,
		Value:          strconv.Itoa(count) + " symptoms: " + listed,
		NormalRange:    "0-2 symptoms",
		Interpretation: interpretation,
		StressImpact:   impact,
		Recommendation: recommendation,
		ClinicalWeight: a.weights[model.ParamStressSymptoms],
	}
}

// ParameterCorrelations computes the Pearson correlation for every unordered
// pair of numeric parameters across a series of measurements. A pair is only
// reported when at least two measurements captured both of its parameters.
func (a *ParameterAnalyzer) ParameterCorrelations(measurements []model.Measurement) map[string]float64 {
	correlations := make(map[string]float64)
	if len(measurements) < 2 {
		return correlations
	}

	for i, first := range model.NumericParameters {
		for _, second := range model.NumericParameters[i+1:] {
			var xs, ys []float64
			for _, m := range measurements {
				x, okX := m.Numeric(first)
				y, okY := m.Numeric(second)
				if okX && okY {
					xs = append(xs, x)
					ys = append(ys, y)
				}
			}
			if len(xs) > 1 {
				correlations[first+"_vs_"+second] = stat.Correlation(xs, ys, nil)
			}
		}
	}

	return correlations
}

// Summary partitions a parameter-analysis map into normal, abnormal and
// critical groups and derives a single overall status label.
func (a *ParameterAnalyzer) Summary(analyses map[string]model.ParameterAnalysis) model.AnalysisSummary {
	summary := model.AnalysisSummary{TotalParameters: len(analyses)}

	order := append(append([]string{}, model.NumericParameters...), model.ParamStressSymptoms)
	for _, parameter := range order {
		result, ok := analyses[parameter]
		if !ok {
			continue
		}

		switch result.Status {
		case model.StatusNormal:
			summary.NormalCount++
		case model.StatusCriticalLow, model.StatusCriticalHigh:
			summary.CriticalCount++
			summary.CriticalParameters = append(summary.CriticalParameters, parameter)
		default:
			summary.AbnormalCount++
			summary.AbnormalParameters = append(summary.AbnormalParameters, parameter)
		}

		if strings.Contains(result.StressImpact, "High impact") || strings.Contains(result.StressImpact, "Critical impact") {
			summary.HighImpactCount++
		}

		if result.Recommendation != "Continue current health practices" {
			summary.Recommendations = append(summary.Recommendations, parameter+": "+result.Recommendation)
		}
	}

	summary.OverallStatus = overallStatus(summary.AbnormalCount, summary.CriticalCount, summary.TotalParameters)
	return summary
}

// overallStatus derives one status label from the partition counts
func overallStatus(abnormal, critical, total int) string {
	switch {
	case critical > 0:
		return "Critical - Immediate medical attention required"
	case float64(abnormal) > float64(total)*0.5:
		return "Concerning - Multiple parameters outside normal range"
	case abnormal > 0:
		return "Caution - Some parameters need attention"
	default:
		return "Normal - All parameters within acceptable range"
	}
}

// ParameterInfos returns the reference-range table in canonical order
func (a *ParameterAnalyzer) ParameterInfos() []model.ParameterInfo {
	infos := make([]model.ParameterInfo, 0, len(model.NumericParameters)+1)
	for _, parameter := range model.NumericParameters {
		ranges := a.ranges[parameter]
		infos = append(infos, model.ParameterInfo{
			Parameter:      parameter,
			Unit:           ranges.unit,
			NormalRange:    formatNumber(ranges.normal.lo) + "-" + formatNumber(ranges.normal.hi) + " " + ranges.unit,
			ClinicalWeight: a.weights[parameter],
		})
	}
	infos = append(infos, model.ParameterInfo{
		Parameter:      model.ParamStressSymptoms,
		Unit:           "symptoms",
		NormalRange:    "0-2 symptoms",
		ClinicalWeight: a.weights[model.ParamStressSymptoms],
	})
	return infos
}
