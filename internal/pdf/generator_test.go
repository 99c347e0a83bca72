package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vcscsvcscs/stress-assessment/pkg/model"
	"go.uber.org/zap"
)

func TestPDFGenerator_Generate_Success(t *testing.T) {
	// Arrange
	logger := zap.NewNop()
	generator := NewPDFGenerator(logger)

	report := &model.AssessmentReport{
		ID:          "report-1",
		Type:        model.ReportComprehensive,
		Priority:    "high",
		PatientID:   "patient-1",
		GeneratedAt: time.Now(),
		Content: `
# Medical Stress Assessment Report
## Comprehensive Assessment

**Generated:** 2026-01-15 10:30:00
**Priority:** HIGH

---

## Assessment Summary

**Current Stress Level:** High (Confidence: 82.0%)

### Session Statistics
- **Low Stress:** 1 measurements
- **High Stress:** 2 measurements

### Identified Risk Factors
1. Tachycardia detected
2. Hypertension indicated

**Heart Rate:**
- Current: 105
- Session Average: 102.3 ± 4.1

---
`,
		TotalSections: 8,
	}

	// Act
	pdfBytes, err := generator.Generate(report)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, pdfBytes)
	assert.Greater(t, len(pdfBytes), 0, "PDF should have content")

	// PDF files start with %PDF
	assert.Equal(t, "%PDF", string(pdfBytes[:4]), "Should be a valid PDF file")
}

func TestPDFGenerator_Generate_EmptyContent(t *testing.T) {
	// Arrange
	logger := zap.NewNop()
	generator := NewPDFGenerator(logger)

	report := &model.AssessmentReport{
		ID:          "report-2",
		Type:        model.ReportStressSummary,
		Priority:    "medium",
		PatientID:   "patient-1",
		GeneratedAt: time.Now(),
		Content:     "",
	}

	// Act
	pdfBytes, err := generator.Generate(report)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, pdfBytes)
	assert.Greater(t, len(pdfBytes), 0, "PDF should have content even without report text")
	assert.Equal(t, "%PDF", string(pdfBytes[:4]), "Should be a valid PDF file")
}

func TestPDFGenerator_Generate_LongParagraphsWrap(t *testing.T) {
	// Arrange
	logger := zap.NewNop()
	generator := NewPDFGenerator(logger)

	report := &model.AssessmentReport{
		ID:          "report-3",
		Type:        model.ReportRiskProfile,
		Priority:    "high",
		PatientID:   "patient-2",
		GeneratedAt: time.Now(),
		Content: "## Medical Disclaimer\n\n" +
			"This report is generated by an automated medical assessment system and is intended " +
			"for informational purposes only. The information provided should not be used as a " +
			"substitute for professional medical advice, diagnosis, or treatment.\n",
	}

	// Act
	pdfBytes, err := generator.Generate(report)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]), "Should be a valid PDF file")
}

func TestIsNumberedItem(t *testing.T) {
	assert.True(t, isNumberedItem("1. First finding"))
	assert.True(t, isNumberedItem("12. Later finding"))
	assert.False(t, isNumberedItem("1.No space"))
	assert.False(t, isNumberedItem("Plain text"))
	assert.False(t, isNumberedItem(""))
}
