package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		events = append(events, e)
	}
	return events
}

func TestLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "runs.jsonl")
	l := NewLogger(path)

	e := l.Start("apply")
	e.Dataset = "cohort.csv"
	e.Succeeded = 3
	e.Status = StatusPartial
	e.CellFailures = 1
	require.NoError(t, l.Log(e))

	e2 := l.Start("validate")
	require.NoError(t, l.Log(e2))

	events := readEvents(t, path)
	require.Len(t, events, 2)
	assert.Equal(t, "apply", events[0].Operation)
	assert.Equal(t, StatusPartial, events[0].Status)
	assert.Equal(t, 1, events[0].CellFailures)
	assert.Equal(t, events[0].SessionID, events[1].SessionID)
	assert.NotEqual(t, events[0].EventID, events[1].EventID)
}

func TestLogError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	l := NewLogger(path)

	e := l.Start("match")
	require.NoError(t, l.LogError(e, os.ErrNotExist))

	events := readEvents(t, path)
	require.Len(t, events, 1)
	assert.Equal(t, StatusError, events[0].Status)
	assert.NotEmpty(t, events[0].Error)
}
