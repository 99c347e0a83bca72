package service

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/vcscsvcscs/stress-assessment/pkg/model"
	"go.uber.org/zap"
)

func levelFromOrdinal(ordinal int) model.StressLevel {
	switch ordinal {
	case 1:
		return model.StressLow
	case 2:
		return model.StressMedium
	default:
		return model.StressHigh
	}
}

func TestProperty_InsightsAlwaysProvideActionPlan(t *testing.T) {
	engine := NewInsightsEngine(zap.NewNop())

	properties := gopter.NewProperties(nil)

	properties.Property("every measurement yields findings, actions and references", prop.ForAll(
		func(heartRate, systolic, diastolic, sleep int) bool {
			m := model.Measurement{
				HeartRate:     floatPtr(float64(heartRate)),
				BPSystolic:    floatPtr(float64(systolic)),
				BPDiastolic:   floatPtr(float64(diastolic)),
				SleepDuration: floatPtr(float64(sleep)),
			}

			result := engine.GenerateInsights(m, lowStressClassification(), nil)

			if len(result.PrimaryFindings) < 3 {
				t.Logf("only %d findings for hr=%d sys=%d", len(result.PrimaryFindings), heartRate, systolic)
				return false
			}
			if len(result.ImmediateActions) < 4 || len(result.LongTermStrategy) < 4 {
				t.Logf("incomplete plans: %d immediate, %d long term",
					len(result.ImmediateActions), len(result.LongTermStrategy))
				return false
			}
			if len(result.MonitoringPlan) < 2 || len(result.LiteratureReferences) < 4 {
				t.Logf("incomplete support: %d monitoring, %d references",
					len(result.MonitoringPlan), len(result.LiteratureReferences))
				return false
			}

			patterns := result.PhysiologicalPatterns
			if patterns.Cardiovascular == "" || patterns.Respiratory == "" ||
				patterns.Metabolic == "" || patterns.Autonomic == "" {
				t.Logf("empty pattern narrative: %+v", patterns)
				return false
			}

			return true
		},
		gen.IntRange(30, 250),
		gen.IntRange(60, 300),
		gen.IntRange(30, 200),
		gen.IntRange(0, 24),
	))

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties.TestingRun(t, params)
}

func TestProperty_PrognosisIsAlwaysClassified(t *testing.T) {
	engine := NewInsightsEngine(zap.NewNop())

	properties := gopter.NewProperties(nil)

	properties.Property("every three-record history yields one of the prognosis forms", prop.ForAll(
		func(first, second, third int) bool {
			history := []model.AssessmentRecord{
				stressRecord(levelFromOrdinal(first)),
				stressRecord(levelFromOrdinal(second)),
				stressRecord(levelFromOrdinal(third)),
			}

			result := engine.AnalyzeTrends(history)

			if !strings.HasPrefix(result.Prognosis, "Favorable prognosis") &&
				!strings.HasPrefix(result.Prognosis, "Concerning prognosis") &&
				!strings.HasPrefix(result.Prognosis, "Stable prognosis") {
				t.Logf("unexpected prognosis for %d,%d,%d: %q", first, second, third, result.Prognosis)
				return false
			}

			return true
		},
		gen.IntRange(1, 3),
		gen.IntRange(1, 3),
		gen.IntRange(1, 3),
	))

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties.TestingRun(t, params)
}

func TestProperty_UniformHistoryReadsStable(t *testing.T) {
	engine := NewInsightsEngine(zap.NewNop())

	properties := gopter.NewProperties(nil)

	properties.Property("a history at one stress level with no vitals reports stability", prop.ForAll(
		func(ordinal, records int) bool {
			history := make([]model.AssessmentRecord, records)
			for i := range history {
				history[i] = stressRecord(levelFromOrdinal(ordinal))
			}

			result := engine.AnalyzeTrends(history)

			if len(result.ObservedTrends) != 1 || result.ObservedTrends[0] != "Stress levels remain stable" {
				t.Logf("unexpected trends for %d records at ordinal %d: %v", records, ordinal, result.ObservedTrends)
				return false
			}

			return len(result.PredictiveIndicators) == 0
		},
		gen.IntRange(1, 3),
		gen.IntRange(2, 10),
	))

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties.TestingRun(t, params)
}
