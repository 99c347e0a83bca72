package service

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/vcscsvcscs/stress-assessment/pkg/model"
)

func TestProperty_EveryValueFallsInABand(t *testing.T) {
	analyzer := NewParameterAnalyzer()

	properties := gopter.NewProperties(nil)

	properties.Property("every finite value of a known parameter maps to a clinical band", prop.ForAll(
		func(parameterIndex int, value float64) bool {
			parameter := model.NumericParameters[parameterIndex]

			analysis := analyzer.AnalyzeParameter(parameter, value)

			if analysis.Status == model.StatusUnknown || analysis.Status == "" {
				t.Logf("%s = %f mapped to %q", parameter, value, analysis.Status)
				return false
			}

			return true
		},
		gen.IntRange(0, len(model.NumericParameters)-1),
		gen.Float64Range(-500, 1500),
	))

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties.TestingRun(t, params)
}

func TestProperty_AnalysisIsDeterministic(t *testing.T) {
	analyzer := NewParameterAnalyzer()

	properties := gopter.NewProperties(nil)

	properties.Property("analyzing the same value twice yields the same analysis", prop.ForAll(
		func(parameterIndex int, value float64) bool {
			parameter := model.NumericParameters[parameterIndex]

			first := analyzer.AnalyzeParameter(parameter, value)
			second := analyzer.AnalyzeParameter(parameter, value)

			if first != second {
				t.Logf("analyses differ for %s = %f", parameter, value)
				return false
			}

			return true
		},
		gen.IntRange(0, len(model.NumericParameters)-1),
		gen.Float64Range(-500, 1500),
	))

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties.TestingRun(t, params)
}

func TestProperty_SummaryPartitionsParameters(t *testing.T) {
	analyzer := NewParameterAnalyzer()

	properties := gopter.NewProperties(nil)

	properties.Property("normal, abnormal and critical counts partition the analyzed parameters", prop.ForAll(
		func(heartRate, systolic, diastolic, sleep, symptomCount int) bool {
			m := model.Measurement{
				HeartRate:      floatPtr(float64(heartRate)),
				BPSystolic:     floatPtr(float64(systolic)),
				BPDiastolic:    floatPtr(float64(diastolic)),
				SleepDuration:  floatPtr(float64(sleep)),
				StressSymptoms: make([]string, symptomCount),
			}
			for i := range m.StressSymptoms {
				m.StressSymptoms[i] = "Headache"
			}

			summary := analyzer.Summary(analyzer.AnalyzeAll(m))

			if summary.NormalCount+summary.AbnormalCount+summary.CriticalCount != summary.TotalParameters {
				t.Logf("counts %d+%d+%d do not partition %d parameters",
					summary.NormalCount, summary.AbnormalCount, summary.CriticalCount, summary.TotalParameters)
				return false
			}

			return len(summary.CriticalParameters) == summary.CriticalCount &&
				len(summary.AbnormalParameters) == summary.AbnormalCount
		},
		gen.IntRange(0, 300),
		gen.IntRange(0, 250),
		gen.IntRange(0, 150),
		gen.IntRange(0, 24),
		gen.IntRange(0, 8),
	))

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties.TestingRun(t, params)
}
