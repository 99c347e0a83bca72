package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/vcscsvcscs/stress-assessment/pkg/model"
)

var (
	// SuccessColor indicates normal findings and completed operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates findings that need monitoring.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates critical findings and failures.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// InfoColor indicates informational output.
	InfoColor = lipgloss.Color("#95E1D3")
	// SubtleColor indicates less prominent output.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)
)

// levelStyle picks the display style for a stress level
func levelStyle(level model.StressLevel) lipgloss.Style {
	switch level {
	case model.StressHigh:
		return ErrorStyle
	case model.StressMedium:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// statusStyle picks the display style for a critical status
func statusStyle(status model.CriticalStatus) lipgloss.Style {
	switch status {
	case model.CriticalStatusEmergency, model.CriticalStatusCritical:
		return ErrorStyle
	case model.CriticalStatusWarning:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// priorityStyle picks the display style for a medical priority
func priorityStyle(priority model.MedicalPriority) lipgloss.Style {
	switch priority {
	case model.PriorityCritical, model.PriorityHigh:
		return ErrorStyle
	case model.PriorityMedium:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// riskCategoryStyle picks the display style for a risk category
func riskCategoryStyle(category model.RiskCategory) lipgloss.Style {
	switch category {
	case model.RiskCategoryHigh:
		return ErrorStyle
	case model.RiskCategoryModerate:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// parameterStatusStyle picks the display style for a parameter band
func parameterStatusStyle(status model.ParameterStatus) lipgloss.Style {
	switch status {
	case model.StatusCriticalLow, model.StatusCriticalHigh, model.StatusOutOfRange:
		return ErrorStyle
	case model.StatusLow, model.StatusHigh:
		return WarningStyle
	default:
		return SuccessStyle
	}
}
