package session

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/stress-assessment/internal/security"
	"github.com/vcscsvcscs/stress-assessment/pkg/model"
	"go.uber.org/zap"
)

func testRecord(level model.StressLevel) model.AssessmentRecord {
	heartRate := 75.0
	return model.AssessmentRecord{
		Timestamp: time.Now(),
		Measurement: model.Measurement{
			HeartRate: &heartRate,
		},
		Classification: model.ClassificationResult{
			StressLevel: level,
			Confidence:  0.8,
		},
	}
}

func TestStore_AppendAndReload(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path, 100, nil, zap.NewNop())
	ctx := context.Background()

	// Act
	require.NoError(t, store.Append(ctx, testRecord(model.StressLow)))
	require.NoError(t, store.Append(ctx, testRecord(model.StressHigh)))

	reloaded := NewStore(path, 100, nil, zap.NewNop())
	require.NoError(t, reloaded.Load(ctx))

	// Assert
	records := reloaded.Records()
	require.Len(t, records, 2)
	assert.Equal(t, model.StressLow, records[0].Classification.StressLevel)
	assert.Equal(t, model.StressHigh, records[1].Classification.StressLevel)
	assert.Equal(t, store.Records()[0].ID, records[0].ID)
}

func TestStore_LoadMissingFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "absent.json")
	store := NewStore(path, 100, nil, zap.NewNop())

	// Act
	err := store.Load(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestStore_EvictsOldestFirst(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path, 3, nil, zap.NewNop())
	ctx := context.Background()

	// Act
	for i := 0; i < 5; i++ {
		record := testRecord(model.StressLow)
		record.ID = fmt.Sprintf("record-%d", i)
		require.NoError(t, store.Append(ctx, record))
	}

	// Assert
	records := store.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "record-2", records[0].ID)
	assert.Equal(t, "record-4", records[2].ID)
}

func TestStore_EncryptedSessionFile(t *testing.T) {
	// Arrange
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	encryptor, err := security.NewEncryptor(key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path, 100, encryptor, zap.NewNop())
	ctx := context.Background()

	// Act
	require.NoError(t, store.Append(ctx, testRecord(model.StressMedium)))

	// Assert
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "stress_level"), "session file should not expose plaintext")

	reloaded := NewStore(path, 100, encryptor, zap.NewNop())
	require.NoError(t, reloaded.Load(ctx))
	require.Equal(t, 1, reloaded.Len())
	assert.Equal(t, model.StressMedium, reloaded.Records()[0].Classification.StressLevel)

	wrongKey := make([]byte, 32)
	_, err = rand.Read(wrongKey)
	require.NoError(t, err)
	wrongEncryptor, err := security.NewEncryptor(wrongKey)
	require.NoError(t, err)

	locked := NewStore(path, 100, wrongEncryptor, zap.NewNop())
	assert.Error(t, locked.Load(ctx))
}

func TestStore_Clear(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path, 100, nil, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, testRecord(model.StressLow)))

	// Act
	require.NoError(t, store.Clear(ctx))

	// Assert
	assert.Equal(t, 0, store.Len())

	reloaded := NewStore(path, 100, nil, zap.NewNop())
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, 0, reloaded.Len())
}

func TestStore_FillsIDAndTimestamp(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path, 100, nil, zap.NewNop())

	record := testRecord(model.StressLow)
	record.ID = ""
	record.Timestamp = time.Time{}

	// Act
	require.NoError(t, store.Append(context.Background(), record))

	// Assert
	stored := store.Records()[0]
	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.Timestamp.IsZero())
}

func TestStore_CancelledContext(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path, 100, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act & Assert
	assert.Error(t, store.Append(ctx, testRecord(model.StressLow)))
	assert.Error(t, store.Load(ctx))
	assert.Error(t, store.Clear(ctx))
}
