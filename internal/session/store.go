package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vcscsvcscs/stress-assessment/internal/security"
	"github.com/vcscsvcscs/stress-assessment/pkg/model"
	"go.uber.org/zap"
)

// Store persists assessment history as a bounded JSON session file. With a
// nil encryptor the file is plain JSON; otherwise it is sealed with
// AES-256-GCM. Once the record bound is reached the oldest records are
// evicted first.
type Store struct {
	path       string
	maxRecords int
	encryptor  *security.Encryptor
	logger     *zap.Logger

	mu      sync.Mutex
	records []model.AssessmentRecord
}

// NewStore creates a new Store. A maxRecords of zero or less disables the
// history bound.
func NewStore(path string, maxRecords int, encryptor *security.Encryptor, logger *zap.Logger) *Store {
	return &Store{
		path:       path,
		maxRecords: maxRecords,
		encryptor:  encryptor,
		logger:     logger,
	}
}

// Load reads the session file into memory. A missing file is an empty
// session, not an error.
func (s *Store) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.records = nil
			return nil
		}
		s.logger.Error("failed to read session file", zap.Error(err), zap.String("path", s.path))
		return fmt.Errorf("failed to read session file: %w", err)
	}

	if s.encryptor != nil {
		data, err = s.encryptor.Decrypt(data)
		if err != nil {
			s.logger.Error("failed to decrypt session file", zap.Error(err), zap.String("path", s.path))
			return fmt.Errorf("failed to decrypt session file: %w", err)
		}
	}

	var records []model.AssessmentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Error("failed to parse session file", zap.Error(err), zap.String("path", s.path))
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	// The bound may have been lowered since the file was written
	s.records = s.bounded(records)

	s.logger.Info("session loaded",
		zap.String("path", s.path),
		zap.Int("record_count", len(s.records)),
	)

	return nil
}

// Append adds one assessment record and flushes the session file. Missing
// record IDs and timestamps are filled in.
func (s *Store) Append(ctx context.Context, record model.AssessmentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	s.records = s.bounded(append(s.records, record))

	if err := s.flush(); err != nil {
		return err
	}

	s.logger.Info("assessment record appended",
		zap.String("record_id", record.ID),
		zap.Int("record_count", len(s.records)),
	)

	return nil
}

// Records returns a copy of the in-memory history, oldest first
func (s *Store) Records() []model.AssessmentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]model.AssessmentRecord, len(s.records))
	copy(records, s.records)
	return records
}

// Len returns the number of records currently held
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// Clear drops the whole history and flushes the empty session
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	if err := s.flush(); err != nil {
		return err
	}

	s.logger.Info("session cleared", zap.String("path", s.path))

	return nil
}

// bounded drops the oldest records once the bound is exceeded
func (s *Store) bounded(records []model.AssessmentRecord) []model.AssessmentRecord {
	if s.maxRecords <= 0 || len(records) <= s.maxRecords {
		return records
	}
	return records[len(records)-s.maxRecords:]
}

func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		s.logger.Error("failed to encode session", zap.Error(err))
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if s.encryptor != nil {
		data, err = s.encryptor.Encrypt(data)
		if err != nil {
			s.logger.Error("failed to encrypt session", zap.Error(err))
			return fmt.Errorf("failed to encrypt session: %w", err)
		}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			s.logger.Error("failed to create session directory", zap.Error(err), zap.String("path", s.path))
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		s.logger.Error("failed to write session file", zap.Error(err), zap.String("path", s.path))
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}
