// Package storage persists the task list through a durable backend.
package storage

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"tally/internal/codec"
	"tally/internal/task"
)

var (
	ErrNotFound           = errors.New("no saved tasks")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrLocked             = errors.New("data file is in use by another session")
)

const (
	BackendText   = "text"
	BackendSQLite = "sqlite"
)

// Backend reads and replaces the whole stored list as bytes.
type Backend interface {
	// ReadAll returns ErrNotFound when nothing was ever saved.
	ReadAll() ([]byte, error)
	WriteAll(data []byte) error
	Close() error
}

// Open returns the backend named by kind.
func Open(kind, dataPath, dbPath string) (Backend, error) {
	switch kind {
	case "", BackendText:
		return OpenFile(dataPath)
	case BackendSQLite:
		return OpenSQLite(dbPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

// Unavailable returns a backend that fails every read and write with err.
// It stands in for a backend that could not be opened so a session can
// still run on an in-memory list.
func Unavailable(err error) Backend {
	return unavailable{err: err}
}

type unavailable struct{ err error }

func (u unavailable) ReadAll() ([]byte, error) { return nil, u.err }
func (u unavailable) WriteAll([]byte) error    { return u.err }
func (u unavailable) Close() error             { return nil }

// TaskStore joins a backend with the line codec.
type TaskStore struct {
	backend Backend
	logger  *log.Logger
}

func NewTaskStore(b Backend, logger *log.Logger) *TaskStore {
	if logger == nil {
		logger = log.Default()
	}
	return &TaskStore{backend: b, logger: logger}
}

// Load decodes the stored list. Corrupt lines are logged and skipped. A
// missing store yields ErrNotFound; any other failure is
// ErrStorageUnavailable.
func (s *TaskStore) Load() ([]task.Task, error) {
	data, err := s.backend.ReadAll()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	tasks := codec.DecodeAll(data, func(n int, line string, err error) {
		s.logger.Warn("skipping invalid task line", "line", n, "text", line, "err", err)
	})
	s.logger.Debug("loaded tasks", "count", len(tasks))
	return tasks, nil
}

func (s *TaskStore) Save(tasks []task.Task) error {
	if err := s.backend.WriteAll(codec.EncodeAll(tasks)); err != nil {
		s.logger.Error("save failed", "err", err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	s.logger.Debug("saved tasks", "count", len(tasks))
	return nil
}

func (s *TaskStore) Close() error {
	return s.backend.Close()
}
