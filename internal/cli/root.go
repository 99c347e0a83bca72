// Package cli implements the stress assessment command line tool.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vcscsvcscs/stress-assessment/internal/audit"
	"github.com/vcscsvcscs/stress-assessment/internal/config"
	"github.com/vcscsvcscs/stress-assessment/internal/pdf"
	"github.com/vcscsvcscs/stress-assessment/internal/security"
	"github.com/vcscsvcscs/stress-assessment/internal/service"
	"github.com/vcscsvcscs/stress-assessment/internal/session"
)

// app holds the configured services shared by all commands.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	validator *service.DataValidator
	analyzer  *service.ParameterAnalyzer
	insights  *service.InsightsEngine
	reports   *service.ReportService
	pdf       *pdf.PDFGenerator
	store     *session.Store
	trail     *audit.Logger

	classifier *service.StressClassifier

	runID   string
	started time.Time
}

var (
	cfgFile string
	version = "dev"
	current *app

	rootCmd = &cobra.Command{
		Use:   "stress-assessment",
		Short: "Medical-grade stress detection from physiological measurements",
		Long: `stress-assessment evaluates physiological measurements such as heart
rate, blood pressure and sleep duration, classifies the current stress
level with a medically weighted random forest, and generates clinical
insights and assessment reports.

All results are decision support only and do not replace professional
medical evaluation.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			finishRun(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is none, environment variables apply)")

	rootCmd.AddCommand(assessCmd())
	rootCmd.AddCommand(trendsCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(paramsCmd())
	rootCmd.AddCommand(sessionCmd())
	rootCmd.AddCommand(modelCmd())
	rootCmd.AddCommand(versionCmd())
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// initApp loads configuration and wires up the services for a run.
func initApp(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	var encryptor *security.Encryptor
	if cfg.Session.EncryptionKey != "" {
		encryptor, err = security.NewEncryptorFromHex(cfg.Session.EncryptionKey)
		if err != nil {
			return fmt.Errorf("invalid session encryption key: %w", err)
		}
	}

	var trail *audit.Logger
	if cfg.Session.AuditPath != "" {
		trail = audit.NewLogger(cfg.Session.AuditPath, logger)
	}

	current = &app{
		cfg:       cfg,
		logger:    logger,
		validator: service.NewDataValidator(logger),
		analyzer:  service.NewParameterAnalyzer(),
		insights:  service.NewInsightsEngine(logger),
		reports:   service.NewReportService(logger),
		pdf:       pdf.NewPDFGenerator(logger),
		store:     session.NewStore(cfg.Session.Path, cfg.Session.MaxRecords, encryptor, logger),
		trail:     trail,
		runID:     uuid.New().String(),
		started:   time.Now(),
	}

	logger.Info("run started",
		zap.String("run_id", current.runID),
		zap.String("command", cmd.Name()))

	return nil
}

// finishRun logs run completion and flushes buffered log entries.
func finishRun(cmd *cobra.Command) {
	if current == nil {
		return
	}

	current.logger.Info("run completed",
		zap.String("run_id", current.runID),
		zap.String("command", cmd.Name()),
		zap.Duration("duration", time.Since(current.started)))

	_ = current.logger.Sync()
}

// buildLogger creates a zap logger from the logging configuration.
func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// Command output goes to stdout, logs stay on stderr.
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	return zapCfg.Build()
}

// stressClassifier returns the classifier, training the forest on first use.
// Listing and version commands never pay the training cost.
func (a *app) stressClassifier() (*service.StressClassifier, error) {
	if a.classifier != nil {
		return a.classifier, nil
	}

	classifier, err := service.NewStressClassifier(a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize classifier: %w", err)
	}

	a.classifier = classifier

	return classifier, nil
}

// loadSession reads the persisted assessment history.
func (a *app) loadSession(ctx context.Context) error {
	if err := a.store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	return nil
}

// auditAssess records an assessment in the audit trail, if one is configured.
func (a *app) auditAssess(ctx context.Context, resourceID string) {
	if a.trail == nil {
		return
	}

	if err := a.trail.LogAssess(ctx, a.runID, resourceID); err != nil {
		a.logger.Warn("failed to write audit trail", zap.Error(err))
	}
}

// auditAppend records a session append in the audit trail, if one is configured.
func (a *app) auditAppend(ctx context.Context, resourceID string) {
	if a.trail == nil {
		return
	}

	if err := a.trail.LogAppend(ctx, a.runID, resourceID); err != nil {
		a.logger.Warn("failed to write audit trail", zap.Error(err))
	}
}

// auditClear records a session clear in the audit trail, if one is configured.
func (a *app) auditClear(ctx context.Context) {
	if a.trail == nil {
		return
	}

	if err := a.trail.LogClear(ctx, a.runID); err != nil {
		a.logger.Warn("failed to write audit trail", zap.Error(err))
	}
}

// auditReport records a report generation in the audit trail, if one is configured.
func (a *app) auditReport(ctx context.Context, resourceID string, details map[string]interface{}) {
	if a.trail == nil {
		return
	}

	if err := a.trail.LogReport(ctx, a.runID, resourceID, details); err != nil {
		a.logger.Warn("failed to write audit trail", zap.Error(err))
	}
}
