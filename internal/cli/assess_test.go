package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMeasurement(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "measurement.json")
	payload := `{
		"heart_rate": 75,
		"bp_systolic": 115,
		"bp_diastolic": 75,
		"sleep_duration": 8,
		"stress_symptoms": ["Headache"],
		"movement_activity": "light"
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0600))

	m, err := readMeasurement(path)
	require.NoError(t, err)

	require.NotNil(t, m.HeartRate)
	assert.Equal(t, 75.0, *m.HeartRate)
	require.NotNil(t, m.SleepDuration)
	assert.Equal(t, 8.0, *m.SleepDuration)
	assert.Equal(t, []string{"Headache"}, m.StressSymptoms)
	require.NotNil(t, m.MovementActivity)
	assert.Equal(t, "light", *m.MovementActivity)
	assert.Nil(t, m.Temperature)
}

func TestReadMeasurement_MissingFile(t *testing.T) {
	_, err := readMeasurement(filepath.Join(t.TempDir(), "absent.json"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read measurement file")
}

func TestReadMeasurement_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := readMeasurement(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse measurement")
}
