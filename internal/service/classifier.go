package service

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/vcscsvcscs/stress-assessment/internal/forest"
	"github.com/vcscsvcscs/stress-assessment/pkg/model"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrModelNotFitted reports a classification attempt before the ensemble was
// trained. Construction trains the model, so reaching it signals a programming
// error in the caller rather than bad input.
var ErrModelNotFitted = errors.New("stress classification model is not fitted")

const (
	// trainingSamples is the size of the synthetic cohort the model is fit on.
	trainingSamples = 5000

	// modelSeed fixes the synthetic generator and the ensemble's bootstrap
	// sampling so construction is reproducible.
	modelSeed = 42

	// featureSymptomsCount names the derived fifth feature
	featureSymptomsCount = "symptoms_count"
)

// featureNames is the classifier's feature vector layout, in order. The first
// four are measurement parameters; the fifth is derived from the symptom list.
var featureNames = []string{
	model.ParamHeartRate,
	model.ParamBPSystolic,
	model.ParamBPDiastolic,
	model.ParamSleepDuration,
	featureSymptomsCount,
}

// stressLevels maps ensemble class indices to stress levels
var stressLevels = []model.StressLevel{model.StressLow, model.StressMedium, model.StressHigh}

// featureClips bounds each synthetic feature to physiologic limits before
// standardization, indexed like featureNames.
var featureClips = []band{
	{50, 180},
	{90, 200},
	{60, 120},
	{2, 12},
	{0, 7},
}

// gaussian holds the mean and standard deviation of one synthetic feature
type gaussian struct {
	mu, sigma float64
}

// stressProfile is one synthetic generator profile: Gaussian vitals and a
// Poisson symptom rate for a single stress class.
type stressProfile struct {
	label     int
	heartRate gaussian
	systolic  gaussian
	diastolic gaussian
	sleep     gaussian
	symptoms  float64
}

// trainingProfiles returns the three class profiles the cohort is drawn from
func trainingProfiles() []stressProfile {
	return []stressProfile{
		{
			label:     0,
			heartRate: gaussian{72, 8},
			systolic:  gaussian{115, 10},
			diastolic: gaussian{75, 8},
			sleep:     gaussian{8, 1},
			symptoms:  0.5,
		},
		{
			label:     1,
			heartRate: gaussian{85, 10},
			systolic:  gaussian{130, 12},
			diastolic: gaussian{85, 10},
			sleep:     gaussian{6, 1.5},
			symptoms:  2,
		},
		{
			label:     2,
			heartRate: gaussian{105, 15},
			systolic:  gaussian{145, 15},
			diastolic: gaussian{95, 12},
			sleep:     gaussian{4, 1.5},
			symptoms:  4,
		},
	}
}

// StressClassifier classifies a measurement into one of three stress levels
// with a bagged decision-tree ensemble trained once, at construction, on a
// seeded synthetic cohort, and layers a rule-based risk assessment on top.
// The fitted model and scaler are immutable after construction.
type StressClassifier struct {
	ensemble *forest.Forest
	scaler   *standardScaler
	weights  map[string]float64
	logger   *zap.Logger
}

// NewStressClassifier generates the synthetic cohort, fits the feature scaler
// and trains the ensemble.
func NewStressClassifier(logger *zap.Logger) (*StressClassifier, error) {
	samples, labels := syntheticCohort(modelSeed)

	scaler := fitScaler(samples)
	scaled := make([][]float64, len(samples))
	for i, row := range samples {
		scaled[i] = scaler.transform(row)
	}

	ensemble, err := forest.Train(forest.Config{
		Trees:           200,
		MaxDepth:        10,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
		MaxFeatures:     2,
		Classes:         len(stressLevels),
		Seed:            modelSeed,
	}, scaled, labels)
	if err != nil {
		return nil, fmt.Errorf("train stress model: %w", err)
	}

	logger.Info("stress classification model trained",
		zap.Int("training_samples", len(samples)),
		zap.Int("trees", ensemble.Trees()),
		zap.Int("features", len(featureNames)),
	)

	return &StressClassifier{
		ensemble: ensemble,
		scaler:   scaler,
		weights:  parameterWeights(),
		logger:   logger,
	}, nil
}

// syntheticCohort draws the training set: one third of the samples per class
// profile, each clipped to physiologic bounds.
func syntheticCohort(seed uint64) ([][]float64, []int) {
	src := rand.NewPCG(seed, seed+1)
	profiles := trainingProfiles()
	perClass := trainingSamples / len(profiles)

	samples := make([][]float64, 0, perClass*len(profiles))
	labels := make([]int, 0, perClass*len(profiles))

	for _, profile := range profiles {
		heartRate := distuv.Normal{Mu: profile.heartRate.mu, Sigma: profile.heartRate.sigma, Src: src}
		systolic := distuv.Normal{Mu: profile.systolic.mu, Sigma: profile.systolic.sigma, Src: src}
		diastolic := distuv.Normal{Mu: profile.diastolic.mu, Sigma: profile.diastolic.sigma, Src: src}
		sleep := distuv.Normal{Mu: profile.sleep.mu, Sigma: profile.sleep.sigma, Src: src}
		symptoms := distuv.Poisson{Lambda: profile.symptoms, Src: src}

		for i := 0; i < perClass; i++ {
			row := []float64{heartRate.Rand(), systolic.Rand(), diastolic.Rand(), sleep.Rand(), symptoms.Rand()}
			for j, clip := range featureClips {
				row[j] = math.Min(math.Max(row[j], clip.lo), clip.hi)
			}
			samples = append(samples, row)
			labels = append(labels, profile.label)
		}
	}

	return samples, labels
}

// standardScaler centers each feature to zero mean and unit variance, fit
// once on the synthetic cohort. Constant features keep a unit divisor.
type standardScaler struct {
	mean []float64
	std  []float64
}

func fitScaler(samples [][]float64) *standardScaler {
	features := len(samples[0])
	scaler := &standardScaler{
		mean: make([]float64, features),
		std:  make([]float64, features),
	}

	column := make([]float64, len(samples))
	for j := 0; j < features; j++ {
		for i, row := range samples {
			column[i] = row[j]
		}
		scaler.mean[j] = stat.Mean(column, nil)
		scaler.std[j] = stat.PopStdDev(column, nil)
		if scaler.std[j] == 0 {
			scaler.std[j] = 1
		}
	}

	return scaler
}

func (s *standardScaler) transform(features []float64) []float64 {
	out := make([]float64, len(features))
	for i, v := range features {
		out[i] = (v - s.mean[i]) / s.std[i]
	}
	return out
}

// Classify derives the five-feature vector from a measurement, scores it
// against the ensemble and layers the rule-based risk assessment on top.
func (c *StressClassifier) Classify(m model.Measurement) (*model.ClassificationResult, error) {
	if c.ensemble == nil || c.scaler == nil {
		return nil, ErrModelNotFitted
	}

	features, err := featureVector(m)
	if err != nil {
		return nil, err
	}

	probabilities, err := c.ensemble.Probabilities(c.scaler.transform(features))
	if err != nil {
		return nil, fmt.Errorf("score features: %w", err)
	}

	class := 0
	for i := 1; i < len(probabilities); i++ {
		if probabilities[i] > probabilities[class] {
			class = i
		}
	}

	riskScore, riskFactors := riskAssessment(features)
	priority := medicalPriority(stressLevels[class], riskScore)
	importance := c.FeatureImportance()

	result := &model.ClassificationResult{
		StressLevel: stressLevels[class],
		Confidence:  probabilities[class],
		Probabilities: map[model.StressLevel]float64{
			model.StressLow:    probabilities[0],
			model.StressMedium: probabilities[1],
			model.StressHigh:   probabilities[2],
		},
		RiskScore:         riskScore,
		RiskFactors:       riskFactors,
		RiskCategory:      riskCategory(riskScore),
		MedicalPriority:   priority,
		ActionRequired:    requiredAction(priority),
		PrimaryFactor:     primaryFactor(features, importance),
		FeatureImportance: importance,
	}

	c.logger.Info("stress level classified",
		zap.String("stress_level", string(result.StressLevel)),
		zap.Float64("confidence", result.Confidence),
		zap.Float64("risk_score", result.RiskScore),
		zap.String("medical_priority", string(result.MedicalPriority)),
	)

	return result, nil
}

// featureVector extracts the feature values in featureNames order. The four
// vital parameters are required; the symptom count defaults to zero.
func featureVector(m model.Measurement) ([]float64, error) {
	features := make([]float64, 0, len(featureNames))
	for _, name := range featureNames[:len(featureNames)-1] {
		value, ok := m.Numeric(name)
		if !ok {
			return nil, fmt.Errorf("classification requires %s", name)
		}
		features = append(features, value)
	}
	return append(features, float64(m.SymptomCount())), nil
}

// riskAssessment accumulates the rule-based risk score over the feature
// vector. Rule order is fixed so the factor list and the floating point
// accumulation are reproducible. The score is capped at 1.
func riskAssessment(features []float64) (float64, []string) {
	heartRate, systolic, diastolic := features[0], features[1], features[2]
	sleep, symptoms := features[3], int(features[4])

	risk := 0.0
	var factors []string

	if heartRate > 100 {
		risk += 0.3
		factors = append(factors, "Tachycardia detected")
	} else if heartRate < 60 {
		risk += 0.2
		factors = append(factors, "Bradycardia detected")
	}

	if systolic > 140 || diastolic > 90 {
		risk += 0.4
		factors = append(factors, "Hypertension indicated")
	} else if systolic < 90 || diastolic < 60 {
		risk += 0.3
		factors = append(factors, "Hypotension indicated")
	}

	if sleep < 6 {
		risk += 0.15
		factors = append(factors, "Sleep deprivation indicated")
	} else if sleep > 10 {
		risk += 0.1
		factors = append(factors, "Excessive sleep duration")
	}

	if symptoms > 0 {
		risk += float64(symptoms) * 0.1
		factors = append(factors, fmt.Sprintf("%d stress symptoms reported", symptoms))
	}

	return math.Min(risk, 1.0), factors
}

// medicalPriority combines the classified level with the rule-based risk score
func medicalPriority(level model.StressLevel, riskScore float64) model.MedicalPriority {
	switch {
	case level == model.StressHigh && riskScore > 0.7:
		return model.PriorityCritical
	case level == model.StressHigh || riskScore > 0.5:
		return model.PriorityHigh
	case level == model.StressMedium || riskScore > 0.3:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// requiredAction maps a medical priority to its fixed action narrative
func requiredAction(priority model.MedicalPriority) string {
	switch priority {
	case model.PriorityCritical:
		return "Immediate medical attention required"
	case model.PriorityHigh:
		return "Urgent medical consultation recommended"
	case model.PriorityMedium:
		return "Medical follow-up advised"
	default:
		return "Continue monitoring"
	}
}

// riskCategory bands the risk score independently of medical priority
func riskCategory(riskScore float64) model.RiskCategory {
	switch {
	case riskScore > 0.7:
		return model.RiskCategoryHigh
	case riskScore > 0.4:
		return model.RiskCategoryModerate
	default:
		return model.RiskCategoryLow
	}
}

// primaryFactor ranks the candidate factors by relative deviation from their
// reference values weighted by trained feature importance. A tie keeps the
// earlier candidate.
func primaryFactor(features []float64, importance map[string]float64) string {
	heartRate, systolic, sleep, symptoms := features[0], features[1], features[3], features[4]

	candidates := []struct {
		name         string
		contribution float64
	}{
		{"Heart Rate", math.Abs(heartRate-72) / 72 * importance[model.ParamHeartRate]},
		{"Blood Pressure", math.Abs(systolic-115) / 115 * importance[model.ParamBPSystolic]},
		{"Sleep Duration", math.Abs(sleep-8) / 8 * importance[model.ParamSleepDuration]},
		{"Stress Symptoms", symptoms * importance[featureSymptomsCount]},
	}

	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.contribution > best.contribution {
			best = candidate
		}
	}

	return best.name
}

// FeatureImportance returns the trained importance of each feature by name
func (c *StressClassifier) FeatureImportance() map[string]float64 {
	importances := c.ensemble.Importances()
	out := make(map[string]float64, len(featureNames))
	for i, name := range featureNames {
		out[name] = importances[i]
	}
	return out
}

// ModelInfo describes the fitted classification model
func (c *StressClassifier) ModelInfo() model.ClassifierInfo {
	classes := make([]string, len(stressLevels))
	for i, level := range stressLevels {
		classes[i] = string(level) + " Stress"
	}

	return model.ClassifierInfo{
		ModelType:         "Random Forest Classifier",
		Trees:             c.ensemble.Trees(),
		Classes:           classes,
		FeatureImportance: c.FeatureImportance(),
		MedicalWeights:    c.weights,
	}
}
