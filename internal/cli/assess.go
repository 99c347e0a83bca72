package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vcscsvcscs/stress-assessment/pkg/model"
)

// assessCmd runs the full assessment pipeline on one measurement.
func assessCmd() *cobra.Command {
	var (
		file string
		save bool
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Validate, analyze and classify one measurement",
		Long: `Assess reads a measurement from a JSON file, validates it against
clinical acceptance ranges, analyzes each parameter, classifies the
stress level and prints clinical insights. With --save the assessment
is appended to the session history.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := readMeasurement(file)
			if err != nil {
				return err
			}

			result := current.validator.Validate(m)
			printValidation(result)

			if !result.Valid {
				return fmt.Errorf("measurement failed validation")
			}

			analyses := current.analyzer.AnalyzeAll(m)
			printAnalyses(analyses, current.analyzer.Summary(analyses))

			classifier, err := current.stressClassifier()
			if err != nil {
				return err
			}

			classification, err := classifier.Classify(m)
			if err != nil {
				return fmt.Errorf("classification failed: %w", err)
			}

			printClassification(classification)

			if err := current.loadSession(ctx); err != nil {
				return err
			}

			insights := current.insights.GenerateInsights(m, *classification, current.store.Records())
			printInsights(insights)

			record := model.AssessmentRecord{
				ID:             uuid.New().String(),
				Timestamp:      time.Now(),
				Measurement:    m,
				Validation:     result,
				Analyses:       analyses,
				Classification: *classification,
			}

			current.auditAssess(ctx, record.ID)

			if save {
				if err := current.store.Append(ctx, record); err != nil {
					return fmt.Errorf("failed to save assessment: %w", err)
				}

				current.auditAppend(ctx, record.ID)
				fmt.Println(SuccessStyle.Render(fmt.Sprintf("✓ Assessment saved (%d in session)", current.store.Len())))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "measurement JSON file, - for stdin (required)")
	cmd.Flags().BoolVar(&save, "save", false, "append the assessment to the session history")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// readMeasurement parses a measurement from a JSON file or stdin.
func readMeasurement(path string) (model.Measurement, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return model.Measurement{}, fmt.Errorf("failed to read measurement from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return model.Measurement{}, fmt.Errorf("failed to read measurement file: %w", err)
		}
	}

	var m model.Measurement
	if err := json.Unmarshal(data, &m); err != nil {
		return model.Measurement{}, fmt.Errorf("failed to parse measurement: %w", err)
	}

	return m, nil
}
