package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vcscsvcscs/stress-assessment/pkg/model"
	"go.uber.org/zap"
)

// stressRecord builds a history entry carrying only a stress verdict.
func stressRecord(level model.StressLevel) model.AssessmentRecord {
	return model.AssessmentRecord{
		Classification: model.ClassificationResult{StressLevel: level},
	}
}

// vitalsRecord builds a history entry with heart rate and systolic pressure.
func vitalsRecord(level model.StressLevel, heartRate, systolic float64) model.AssessmentRecord {
	return model.AssessmentRecord{
		Measurement: model.Measurement{
			HeartRate:  floatPtr(heartRate),
			BPSystolic: floatPtr(systolic),
		},
		Classification: model.ClassificationResult{StressLevel: level},
	}
}

func lowStressClassification() model.ClassificationResult {
	return model.ClassificationResult{
		StressLevel: model.StressLow,
		Confidence:  0.92,
		Probabilities: map[model.StressLevel]float64{
			model.StressLow:    0.92,
			model.StressMedium: 0.06,
			model.StressHigh:   0.02,
		},
		RiskScore:       0.05,
		RiskCategory:    model.RiskCategoryLow,
		MedicalPriority: model.PriorityLow,
		ActionRequired:  "Continue monitoring",
		PrimaryFactor:   "Heart Rate",
	}
}

func highStressClassification() model.ClassificationResult {
	return model.ClassificationResult{
		StressLevel: model.StressHigh,
		Confidence:  0.88,
		Probabilities: map[model.StressLevel]float64{
			model.StressLow:    0.02,
			model.StressMedium: 0.1,
			model.StressHigh:   0.88,
		},
		RiskScore:       0.9,
		RiskFactors:     []string{"Tachycardia detected", "Hypertension indicated"},
		RiskCategory:    model.RiskCategoryHigh,
		MedicalPriority: model.PriorityCritical,
		ActionRequired:  "Immediate medical attention required",
		PrimaryFactor:   "Heart Rate",
	}
}

// stressedMeasurement returns a measurement with every system abnormal.
func stressedMeasurement() model.Measurement {
	return model.Measurement{
		HeartRate:        floatPtr(110),
		BreathingRate:    floatPtr(22),
		BPSystolic:       floatPtr(150),
		BPDiastolic:      floatPtr(95),
		Temperature:      floatPtr(38),
		OxygenSaturation: floatPtr(93),
		SleepDuration:    floatPtr(5),
		SoundLevel:       floatPtr(75),
	}
}

func TestGenerateInsights_NormalMeasurement(t *testing.T) {
	engine := NewInsightsEngine(zap.NewNop())

	result := engine.GenerateInsights(normalMeasurement(), lowStressClassification(), nil)

	assert.Equal(t, []string{
		"Stress level classified as Low with 92.0% confidence",
		"Primary contributing factor: Heart Rate",
		"Medical priority: Low",
		"Autonomic Pattern: Balanced autonomic pattern",
	}, result.PrimaryFindings)

	assert.Empty(t, result.RiskFactors)
	assert.Equal(t, []string{
		"Resting heart rate within optimal range",
		"Blood pressure within optimal range",
		"Excellent oxygen saturation levels",
		"Adequate sleep duration supports stress resilience",
		"Quiet environment reduces stress burden",
	}, result.ProtectiveFactors)
	assert.Empty(t, result.Concerns)

	assert.Equal(t, []string{
		"Guided relaxation techniques",
		"Environmental noise reduction",
		"Hydration and rest",
		"Monitor response to interventions",
	}, result.ImmediateActions)
	assert.Empty(t, result.ShortTermPlan)
	assert.Len(t, result.LongTermStrategy, 4)
	assert.Equal(t, []string{
		"Daily vital sign checks",
		"Weekly stress level assessments",
	}, result.MonitoringPlan)
	assert.Empty(t, result.PersonalizedRecommendations)

	assert.Equal(t, "Cardiovascular parameters within normal limits", result.PhysiologicalPatterns.Cardiovascular)
	assert.Equal(t, "Respiratory parameters within normal limits", result.PhysiologicalPatterns.Respiratory)
	assert.Equal(t, "Metabolic parameters within normal limits", result.PhysiologicalPatterns.Metabolic)
	assert.Equal(t, "Balanced autonomic pattern", result.PhysiologicalPatterns.Autonomic)
}

func TestGenerateInsights_StressedMeasurement(t *testing.T) {
	engine := NewInsightsEngine(zap.NewNop())

	result := engine.GenerateInsights(stressedMeasurement(), highStressClassification(), nil)

	assert.Len(t, result.PrimaryFindings, 7)
	assert.Contains(t, result.PrimaryFindings, "Stress level classified as High with 88.0% confidence")
	assert.Contains(t, result.PrimaryFindings, "Cardiovascular Pattern: Tachycardia present; Hypertensive response")
	assert.Contains(t, result.PrimaryFindings, "Respiratory Pattern: Tachypnea present; Hypoxemia detected")
	assert.Contains(t, result.PrimaryFindings, "Metabolic Pattern: Hyperthermia present; Sleep deprivation indicated")
	assert.Contains(t, result.PrimaryFindings, "Autonomic Pattern: Sympathetic dominance pattern")

	assert.Equal(t, []string{
		"Tachycardia increases cardiovascular workload",
		"Hypertension increases cardiovascular disease risk",
		"Hypoxemia compromises tissue oxygenation",
		"Sleep deprivation impairs immune function and increases stress hormones",
		"Chronic high stress increases risk of cardiovascular and mental health disorders",
		"Elevated noise exposure contributes to stress and hearing damage",
	}, result.RiskFactors)
	assert.Empty(t, result.ProtectiveFactors)

	assert.Equal(t, []string{
		"High stress level poses risk for cardiovascular and mental health complications",
		"Elevated risk score indicates need for immediate intervention",
		"Medical concern: Tachycardia detected",
		"Medical concern: Hypertension indicated",
	}, result.Concerns)

	// Critical tier plus the tachycardia and hypoxemia additions.
	assert.Len(t, result.ImmediateActions, 6)
	assert.Equal(t, "Immediate medical evaluation", result.ImmediateActions[0])
	assert.Contains(t, result.ImmediateActions, "Implement immediate heart rate reduction techniques")
	assert.Contains(t, result.ImmediateActions, "Assess and improve oxygenation immediately")

	// Cardiovascular, respiratory and sleep focus protocols all apply.
	assert.Len(t, result.ShortTermPlan, 12)
	assert.Contains(t, result.ShortTermPlan, "Daily blood pressure monitoring")
	assert.Contains(t, result.ShortTermPlan, "Breathing exercise training")
	assert.Contains(t, result.ShortTermPlan, "Sleep hygiene optimization")

	assert.Len(t, result.LongTermStrategy, 8)
	assert.Contains(t, result.LongTermStrategy, "Regular cardiovascular screening")

	assert.Len(t, result.MonitoringPlan, 6)
	assert.Equal(t, "Continuous vital sign monitoring", result.MonitoringPlan[0])
	assert.Contains(t, result.MonitoringPlan, "Cardiac rhythm monitoring")
	assert.Contains(t, result.MonitoringPlan, "Oxygen saturation monitoring")

	assert.Len(t, result.PersonalizedRecommendations, 10)
	assert.Contains(t, result.PersonalizedRecommendations, "Implement DASH diet principles to reduce blood pressure")
	assert.Contains(t, result.PersonalizedRecommendations, "Implement stress reduction techniques (meditation, yoga)")
}

func TestAssessPatterns(t *testing.T) {
	tests := []struct {
		name           string
		measurement    model.Measurement
		cardiovascular string
		respiratory    string
		metabolic      string
		autonomic      string
	}{
		{
			name:           "empty measurement",
			measurement:    model.Measurement{},
			cardiovascular: "Cardiovascular parameters within normal limits",
			respiratory:    "Respiratory parameters within normal limits",
			metabolic:      "Metabolic parameters within normal limits",
			autonomic:      "Balanced autonomic pattern",
		},
		{
			name:           "sympathetic activation",
			measurement:    stressedMeasurement(),
			cardiovascular: "Tachycardia present; Hypertensive response",
			respiratory:    "Tachypnea present; Hypoxemia detected",
			metabolic:      "Hyperthermia present; Sleep deprivation indicated",
			autonomic:      "Sympathetic dominance pattern",
		},
		{
			name: "parasympathetic depression",
			measurement: model.Measurement{
				HeartRate:        floatPtr(52),
				BreathingRate:    floatPtr(10),
				BPSystolic:       floatPtr(85),
				BPDiastolic:      floatPtr(58),
				Temperature:      floatPtr(35.5),
				OxygenSaturation: floatPtr(96),
				SleepDuration:    floatPtr(11),
			},
			cardiovascular: "Bradycardia present; Hypotensive response; Narrow pulse pressure",
			respiratory:    "Bradypnea present; Mild oxygen desaturation",
			metabolic:      "Hypothermia present; Excessive sleep duration",
			autonomic:      "Parasympathetic dominance pattern",
		},
		{
			name: "wide pulse pressure",
			measurement: model.Measurement{
				BPSystolic:  floatPtr(150),
				BPDiastolic: floatPtr(80),
			},
			cardiovascular: "Hypertensive response; Wide pulse pressure",
			respiratory:    "Respiratory parameters within normal limits",
			metabolic:      "Metabolic parameters within normal limits",
			autonomic:      "Sympathetic dominance pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patterns := assessPatterns(tt.measurement)

			assert.Equal(t, tt.cardiovascular, patterns.Cardiovascular)
			assert.Equal(t, tt.respiratory, patterns.Respiratory)
			assert.Equal(t, tt.metabolic, patterns.Metabolic)
			assert.Equal(t, tt.autonomic, patterns.Autonomic)
		})
	}
}

func TestRelevantLiterature(t *testing.T) {
	engine := NewInsightsEngine(zap.NewNop())

	tests := []struct {
		name          string
		measurement   model.Measurement
		expectedCount int
	}{
		{
			name:          "normal vitals skip the vital sign references",
			measurement:   normalMeasurement(),
			expectedCount: 4,
		},
		{
			name:          "elevated heart rate adds vital sign references",
			measurement:   model.Measurement{HeartRate: floatPtr(110)},
			expectedCount: 6,
		},
		{
			name:          "elevated systolic pressure adds vital sign references",
			measurement:   model.Measurement{BPSystolic: floatPtr(135)},
			expectedCount: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			references := engine.relevantLiterature(tt.measurement)

			assert.Len(t, references, tt.expectedCount)
			assert.Contains(t, references,
				"Acute stress response activates the sympathetic nervous system, leading to increased heart rate and blood pressure")
			assert.Contains(t, references,
				"Deep breathing exercises can reduce heart rate and blood pressure within minutes")
			if tt.expectedCount == 6 {
				assert.Contains(t, references,
					"Respiratory rate increases during acute stress response as part of fight-or-flight mechanism")
			}
		})
	}
}

func TestAnalyzeTrends_InsufficientHistory(t *testing.T) {
	engine := NewInsightsEngine(zap.NewNop())

	tests := []struct {
		name    string
		history []model.AssessmentRecord
	}{
		{name: "empty history", history: nil},
		{name: "single record", history: []model.AssessmentRecord{stressRecord(model.StressLow)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.AnalyzeTrends(tt.history)

			assert.Equal(t, []string{"Insufficient data for trend analysis"}, result.ObservedTrends)
			assert.Equal(t, []string{"Single measurement available"}, result.PredictiveIndicators)
			assert.Equal(t, "Cannot determine trend with single measurement", result.Prognosis)
		})
	}
}

func TestAnalyzeTrends_StressDirection(t *testing.T) {
	engine := NewInsightsEngine(zap.NewNop())

	t.Run("increasing stress", func(t *testing.T) {
		history := []model.AssessmentRecord{
			stressRecord(model.StressLow),
			stressRecord(model.StressMedium),
			stressRecord(model.StressHigh),
		}

		result := engine.AnalyzeTrends(history)

		assert.Equal(t, []string{"Stress levels increasing over time"}, result.ObservedTrends)
		assert.Equal(t, []string{"Risk of stress-related complications may increase"}, result.PredictiveIndicators)
		assert.Equal(t,
			"Concerning prognosis with worsening trends. Current high stress level with negative trajectory requires immediate attention and intervention.",
			result.Prognosis)
	})

	t.Run("decreasing stress", func(t *testing.T) {
		history := []model.AssessmentRecord{
			stressRecord(model.StressHigh),
			stressRecord(model.StressMedium),
			stressRecord(model.StressLow),
		}

		result := engine.AnalyzeTrends(history)

		assert.Equal(t, []string{"Stress levels decreasing over time"}, result.ObservedTrends)
		assert.Equal(t, []string{"Positive response to interventions indicated"}, result.PredictiveIndicators)
		assert.Equal(t,
			"Favorable prognosis with improving trends. Current low stress level with positive trajectory suggests good response to interventions.",
			result.Prognosis)
	})

	t.Run("stable stress", func(t *testing.T) {
		history := []model.AssessmentRecord{
			stressRecord(model.StressMedium),
			stressRecord(model.StressMedium),
			stressRecord(model.StressMedium),
		}

		result := engine.AnalyzeTrends(history)

		assert.Equal(t, []string{"Stress levels remain stable"}, result.ObservedTrends)
		assert.Empty(t, result.PredictiveIndicators)
		assert.Equal(t,
			"Stable prognosis with mixed trends. Current medium stress level requires continued monitoring and management.",
			result.Prognosis)
	})

	t.Run("varying but ending at the start level", func(t *testing.T) {
		// Neither directional branch fires and the stable branch is
		// skipped because the series varies.
		history := []model.AssessmentRecord{
			stressRecord(model.StressLow),
			stressRecord(model.StressHigh),
			stressRecord(model.StressLow),
		}

		result := engine.AnalyzeTrends(history)

		assert.Empty(t, result.ObservedTrends)
		assert.Empty(t, result.PredictiveIndicators)
		assert.Equal(t,
			"Stable prognosis with mixed trends. Current low stress level requires continued monitoring and management.",
			result.Prognosis)
	})
}

func TestAnalyzeTrends_VitalSlopes(t *testing.T) {
	engine := NewInsightsEngine(zap.NewNop())

	t.Run("rising heart rate", func(t *testing.T) {
		history := []model.AssessmentRecord{
			vitalsRecord(model.StressLow, 70, 115),
			vitalsRecord(model.StressLow, 75, 115),
			vitalsRecord(model.StressLow, 80, 115),
			vitalsRecord(model.StressLow, 85, 115),
		}

		result := engine.AnalyzeTrends(history)

		assert.Contains(t, result.ObservedTrends, "Stress levels remain stable")
		assert.Contains(t, result.ObservedTrends, "Heart rate showing increasing trend")
		assert.Contains(t, result.PredictiveIndicators, "May require cardiovascular evaluation")
		assert.Contains(t, result.Prognosis, "Concerning prognosis")
	})

	t.Run("falling blood pressure", func(t *testing.T) {
		history := []model.AssessmentRecord{
			vitalsRecord(model.StressMedium, 75, 150),
			vitalsRecord(model.StressMedium, 75, 144),
			vitalsRecord(model.StressMedium, 75, 138),
			vitalsRecord(model.StressMedium, 75, 132),
		}

		result := engine.AnalyzeTrends(history)

		assert.Contains(t, result.ObservedTrends, "Blood pressure showing decreasing trend")
		assert.Contains(t, result.PredictiveIndicators, "Blood pressure control improving")
		assert.Contains(t, result.Prognosis, "Favorable prognosis")
	})

	t.Run("flat vitals add no slope trends", func(t *testing.T) {
		history := []model.AssessmentRecord{
			vitalsRecord(model.StressLow, 75, 115),
			vitalsRecord(model.StressLow, 76, 116),
			vitalsRecord(model.StressLow, 75, 115),
		}

		result := engine.AnalyzeTrends(history)

		assert.Equal(t, []string{"Stress levels remain stable"}, result.ObservedTrends)
		assert.Empty(t, result.PredictiveIndicators)
	})
}
