package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OperationType represents the type of operation performed
type OperationType string

const (
	OperationAssess OperationType = "ASSESS"
	OperationAppend OperationType = "APPEND"
	OperationClear  OperationType = "CLEAR"
	OperationReport OperationType = "REPORT"
)

// ResourceType represents the type of resource being accessed
type ResourceType string

const (
	ResourceMeasurement ResourceType = "measurement"
	ResourceSession     ResourceType = "session"
	ResourceReport      ResourceType = "report"
)

// Entry represents an audit trail entry
type Entry struct {
	ID             string                 `json:"id"`
	RunID          string                 `json:"run_id"`
	OperationType  OperationType          `json:"operation_type"`
	ResourceType   ResourceType           `json:"resource_type"`
	ResourceID     string                 `json:"resource_id"`
	Timestamp      time.Time              `json:"timestamp"`
	AdditionalData map[string]interface{} `json:"additional_data,omitempty"`
}

// Logger appends audit entries to a JSON lines trail file
type Logger struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewLogger creates a new audit logger writing to the given trail file
func NewLogger(path string, logger *zap.Logger) *Logger {
	return &Logger{
		path:   path,
		logger: logger,
	}
}

// Log creates an audit trail entry
func (l *Logger) Log(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Set identity fields if not provided
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	// Log to structured logger first
	l.logger.Info("Audit log entry",
		zap.String("run_id", entry.RunID),
		zap.String("operation", string(entry.OperationType)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
		zap.Time("timestamp", entry.Timestamp),
	)

	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Error("Failed to encode audit entry", zap.Error(err))
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			l.logger.Error("Failed to create audit directory", zap.Error(err), zap.String("path", l.path))
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		l.logger.Error("Failed to open audit trail",
			zap.Error(err),
			zap.String("path", l.path),
			zap.String("operation", string(entry.OperationType)),
		)
		return fmt.Errorf("failed to open audit trail: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		l.logger.Error("Failed to write audit trail",
			zap.Error(err),
			zap.String("path", l.path),
			zap.String("operation", string(entry.OperationType)),
		)
		return fmt.Errorf("failed to write audit trail: %w", err)
	}

	return nil
}

// LogAssess logs a measurement classification
func (l *Logger) LogAssess(ctx context.Context, runID, resourceID string) error {
	return l.Log(ctx, Entry{
		RunID:         runID,
		OperationType: OperationAssess,
		ResourceType:  ResourceMeasurement,
		ResourceID:    resourceID,
	})
}

// LogAppend logs an assessment record being added to the session
func (l *Logger) LogAppend(ctx context.Context, runID, resourceID string) error {
	return l.Log(ctx, Entry{
		RunID:         runID,
		OperationType: OperationAppend,
		ResourceType:  ResourceSession,
		ResourceID:    resourceID,
	})
}

// LogClear logs the session history being dropped
func (l *Logger) LogClear(ctx context.Context, runID string) error {
	return l.Log(ctx, Entry{
		RunID:         runID,
		OperationType: OperationClear,
		ResourceType:  ResourceSession,
	})
}

// LogReport logs a report generation
func (l *Logger) LogReport(ctx context.Context, runID, resourceID string, details map[string]interface{}) error {
	return l.Log(ctx, Entry{
		RunID:          runID,
		OperationType:  OperationReport,
		ResourceType:   ResourceReport,
		ResourceID:     resourceID,
		AdditionalData: details,
	})
}

// Entries reads the audit trail back, oldest first
func (l *Logger) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit trail: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			l.logger.Error("Failed to parse audit entry", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading audit trail: %w", err)
	}

	return entries, nil
}
