// Package audit records one JSONL event per CLI operation under the
// DMP home directory, for later inspection of mapping runs.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HBPMedical/mip-dmp/internal/config"
)

// Status of a completed operation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

// Event is one audited CLI operation.
type Event struct {
	EventID    string    `json:"event_id"`
	SessionID  string    `json:"session_id"`
	Operation  string    `json:"operation"` // apply, match, validate, ...
	Dataset    string    `json:"dataset,omitempty"`
	Mapping    string    `json:"mapping,omitempty"`
	RunID      string    `json:"run_id,omitempty"`
	Status     Status    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`

	// apply outcome counts
	Succeeded    int `json:"succeeded,omitempty"`
	Partial      int `json:"partial,omitempty"`
	Skipped      int `json:"skipped,omitempty"`
	CellFailures int `json:"cell_failures,omitempty"`
}

// Logger appends events to a JSONL file. Safe for concurrent use.
type Logger struct {
	mu        sync.Mutex
	sessionID string
	path      string
}

// NewLogger creates a logger writing to path. An empty path selects
// ~/.mip-dmp/logs/runs.jsonl.
func NewLogger(path string) *Logger {
	if path == "" {
		path = filepath.Join(config.GetPaths().Logs, "runs.jsonl")
	}
	sessionID := config.Env().SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	return &Logger{sessionID: sessionID, path: path}
}

// Start begins tracking an operation.
func (l *Logger) Start(operation string) *Event {
	return &Event{
		EventID:   uuid.New().String(),
		SessionID: l.sessionID,
		Operation: operation,
		Status:    StatusSuccess,
		StartedAt: time.Now(),
	}
}

// Log finalizes and appends the event. Failures to write the audit
// trail never break the operation itself.
func (l *Logger) Log(e *Event) error {
	e.DurationMs = time.Since(e.StartedAt).Milliseconds()

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := config.EnsureDir(filepath.Dir(l.path)); err != nil {
		return fmt.Errorf("audit dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	_, err = fmt.Fprintf(f, "%s\n", data)
	return err
}

// LogError marks the event failed and appends it.
func (l *Logger) LogError(e *Event, opErr error) error {
	e.Status = StatusError
	if opErr != nil {
		e.Error = opErr.Error()
	}
	return l.Log(e)
}
