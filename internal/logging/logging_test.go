package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HBPMedical/mip-dmp/internal/config"
)

func capture(t *testing.T, fn func()) []Event {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	fn()

	var events []Event
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var e Event
		require.NoError(t, dec.Decode(&e))
		events = append(events, e)
	}
	return events
}

func TestInfoEvent(t *testing.T) {
	config.ResetEnv()
	defer config.ResetEnv()

	events := capture(t, func() {
		New("matcher").Info("match_columns", map[string]interface{}{"columns": 4})
	})

	require.Len(t, events, 1)
	assert.Equal(t, LevelInfo, events[0].Level)
	assert.Equal(t, "matcher", events[0].Component)
	assert.Equal(t, "match_columns", events[0].Event)
	assert.EqualValues(t, 4, events[0].Extra["columns"])
}

func TestErrorCarriesMessage(t *testing.T) {
	config.ResetEnv()
	defer config.ResetEnv()

	events := capture(t, func() {
		New("mapper").Error("apply", nil, errors.New("boom"))
	})

	require.Len(t, events, 1)
	assert.Equal(t, "boom", events[0].Error)
}

func TestLevelGate(t *testing.T) {
	os.Setenv("DMP_LOG_LEVEL", "error")
	config.ResetEnv()
	defer func() {
		os.Unsetenv("DMP_LOG_LEVEL")
		config.ResetEnv()
	}()

	events := capture(t, func() {
		l := New("matcher")
		l.Debug("skipped", nil)
		l.Info("skipped", nil)
		l.Warn("skipped", nil, nil)
		l.Error("kept", nil, nil)
	})

	require.Len(t, events, 1)
	assert.Equal(t, "kept", events[0].Event)
}

func TestWithDataset(t *testing.T) {
	config.ResetEnv()
	defer config.ResetEnv()

	events := capture(t, func() {
		New("mapper").WithDataset("cohort.csv").Info("load", nil)
	})

	require.Len(t, events, 1)
	assert.Equal(t, "cohort.csv", events[0].Dataset)
}

func TestTimedEvent(t *testing.T) {
	config.ResetEnv()
	defer config.ResetEnv()

	events := capture(t, func() {
		New("mapper").TimedEvent("apply", time.Now().Add(-50*time.Millisecond), nil)
	})

	require.Len(t, events, 1)
	assert.GreaterOrEqual(t, events[0].Duration, int64(50))
}
