// Command modelcheck trains the stress classification model and verifies that
// it reproduces the class profiles it was fit on. Run it after changing the
// ensemble, the scaler or the synthetic cohort.
package main

import (
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"

	"github.com/vcscsvcscs/stress-assessment/internal/service"
	"github.com/vcscsvcscs/stress-assessment/pkg/model"
)

// profileCheck is one class-center measurement and its expected verdict
type profileCheck struct {
	name      string
	heartRate float64
	systolic  float64
	diastolic float64
	sleep     float64
	symptoms  []string
	expected  model.StressLevel
}

func main() {
	// Initialize logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Training stress classification model ===")

	classifier, err := service.NewStressClassifier(logger)
	if err != nil {
		logger.Fatal("Failed to train model", zap.Error(err))
	}

	info := classifier.ModelInfo()
	logger.Info("Model trained",
		zap.String("model_type", info.ModelType),
		zap.Int("trees", info.Trees),
		zap.Strings("classes", info.Classes),
	)
	logger.Info("Feature importances", zap.Any("feature_importance", info.FeatureImportance))

	// Class-center measurements drawn from the training profiles
	checks := []profileCheck{
		{
			name:      "relaxed profile",
			heartRate: 72, systolic: 115, diastolic: 75, sleep: 8,
			symptoms: nil,
			expected: model.StressLow,
		},
		{
			name:      "moderate profile",
			heartRate: 85, systolic: 130, diastolic: 85, sleep: 6,
			symptoms: []string{"Fatigue", "Irritability"},
			expected: model.StressMedium,
		},
		{
			name:      "stressed profile",
			heartRate: 105, systolic: 145, diastolic: 95, sleep: 4,
			symptoms: []string{"Anxiety", "Rapid Heartbeat", "Sleep Issues", "Muscle Tension"},
			expected: model.StressHigh,
		},
	}

	failed := false

	for _, check := range checks {
		logger.Info(fmt.Sprintf("=== Verifying %s ===", check.name))

		if err := verifyProfile(classifier, check, logger); err != nil {
			logger.Error("Profile verification failed", zap.Error(err))
			failed = true
		} else {
			logger.Info(fmt.Sprintf("✅ %s verified", check.name))
		}
	}

	logger.Info("=== All checks completed ===")

	if failed {
		os.Exit(1)
	}
}

func verifyProfile(classifier *service.StressClassifier, check profileCheck, logger *zap.Logger) error {
	m := model.Measurement{
		HeartRate:      &check.heartRate,
		BPSystolic:     &check.systolic,
		BPDiastolic:    &check.diastolic,
		SleepDuration:  &check.sleep,
		StressSymptoms: check.symptoms,
	}

	result, err := classifier.Classify(m)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	logger.Info("Classification completed",
		zap.String("stress_level", string(result.StressLevel)),
		zap.Float64("confidence", result.Confidence),
		zap.Float64("risk_score", result.RiskScore),
		zap.Float64("p_low", result.Probabilities[model.StressLow]),
		zap.Float64("p_medium", result.Probabilities[model.StressMedium]),
		zap.Float64("p_high", result.Probabilities[model.StressHigh]),
	)

	if result.StressLevel != check.expected {
		return fmt.Errorf("expected %s, classified as %s", check.expected, result.StressLevel)
	}

	// The probability vector must be a simplex with confidence at its max
	total := 0.0
	maxProb := 0.0
	for _, p := range result.Probabilities {
		total += p
		maxProb = math.Max(maxProb, p)
	}

	if math.Abs(total-1) > 1e-9 {
		return fmt.Errorf("probabilities sum to %f, expected 1", total)
	}

	if math.Abs(result.Confidence-maxProb) > 1e-9 {
		return fmt.Errorf("confidence %f does not match max probability %f", result.Confidence, maxProb)
	}

	return nil
}
