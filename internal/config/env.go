// Package config provides centralized configuration management.
// All DMP_* environment variables are read here, once.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// DMPEnv holds all DMP environment variables.
type DMPEnv struct {
	// Backend is the default similarity backend (DMP_BACKEND)
	Backend string

	// VectorsFile is the path to the character vector table used by
	// the glove backend (DMP_VECTORS)
	VectorsFile string

	// Workers is the number of concurrent column transformations
	// (DMP_WORKERS, 0 = sequential)
	Workers int

	// Keep is the number of match candidates kept per column (DMP_KEEP)
	Keep int

	// LogLevel gates structured log output (DMP_LOG_LEVEL)
	LogLevel string

	// NoColor disables colored CLI output (DMP_NO_COLOR or NO_COLOR)
	NoColor bool

	// SessionID identifies an interactive editing session
	// (DMP_SESSION_ID, generated when empty)
	SessionID string
}

var (
	env     *DMPEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *DMPEnv {
	envOnce.Do(func() {
		env = &DMPEnv{
			Backend:     getEnvDefault("DMP_BACKEND", "lexical"),
			VectorsFile: os.Getenv("DMP_VECTORS"),
			Workers:     getEnvInt("DMP_WORKERS", 0),
			Keep:        getEnvInt("DMP_KEEP", 10),
			LogLevel:    getEnvDefault("DMP_LOG_LEVEL", "info"),
			NoColor:     os.Getenv("DMP_NO_COLOR") == "1" || os.Getenv("NO_COLOR") != "",
			SessionID:   os.Getenv("DMP_SESSION_ID"),
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// Paths holds standard DMP directory paths.
type Paths struct {
	// Home is the DMP home directory (~/.mip-dmp)
	Home string

	// Logs is the run log directory (~/.mip-dmp/logs)
	Logs string

	// Vectors is the default vector table directory (~/.mip-dmp/vectors)
	Vectors string
}

var (
	paths     *Paths
	pathsOnce sync.Once
)

// GetPaths returns the singleton paths configuration.
func GetPaths() *Paths {
	pathsOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dmpHome := filepath.Join(home, ".mip-dmp")

		paths = &Paths{
			Home:    dmpHome,
			Logs:    filepath.Join(dmpHome, "logs"),
			Vectors: filepath.Join(dmpHome, "vectors"),
		}
	})
	return paths
}

// Path joins path elements under the DMP home directory.
func Path(elem ...string) string {
	parts := append([]string{GetPaths().Home}, elem...)
	return filepath.Join(parts...)
}

// EnsureDir creates a directory if it does not exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
