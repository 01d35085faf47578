package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/codec"
	"tally/internal/command"
	"tally/internal/storage"
	"tally/internal/task"
)

type memStore struct {
	loadErr error
	saveErr error
	saved   []string
	initial []task.Task
}

func (m *memStore) Load() ([]task.Task, error) { return m.initial, m.loadErr }

func (m *memStore) Save(tasks []task.Task) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = m.saved[:0]
	for _, t := range tasks {
		m.saved = append(m.saved, codec.Encode(t))
	}
	return nil
}

func parser() *command.Parser {
	return &command.Parser{Now: func() time.Time {
		return time.Date(2024, time.June, 2, 9, 30, 0, 0, time.Local)
	}}
}

func discard() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func TestHandleScenarios(t *testing.T) {
	store := &memStore{loadErr: storage.ErrNotFound}
	a := New(store, parser(), discard())
	assert.Contains(t, a.Notice(), "No saved tasks")

	out, exit := a.Handle("todo read book")
	assert.False(t, exit)
	assert.Contains(t, out, "[T] [ ] read book")

	out, _ = a.Handle("event sync /from 2019-12-22 1600 /to 1300")
	assert.True(t, strings.HasPrefix(out, "Error: "), out)
	assert.Equal(t, []string{"T | 0 | read book"}, store.saved)

	out, _ = a.Handle("delete 5")
	assert.True(t, strings.HasPrefix(out, "Error: "), out)
	assert.Len(t, a.Tasks(), 1)

	out, _ = a.Handle("frobnicate")
	assert.Equal(t, "Error: sorry, I do not understand that", out)

	out, exit = a.Handle("bye")
	assert.True(t, exit)
	assert.Equal(t, "Bye. Hope to see you again soon!", out)
}

func TestLoadFailureDegrades(t *testing.T) {
	store := &memStore{loadErr: errors.New("permission denied")}
	a := New(store, parser(), discard())
	assert.Contains(t, a.Notice(), "Could not load saved tasks")
	assert.Empty(t, a.Tasks())
}

func TestSaveFailureReported(t *testing.T) {
	store := &memStore{loadErr: storage.ErrNotFound, saveErr: storage.ErrStorageUnavailable}
	a := New(store, parser(), discard())

	out, _ := a.Handle("todo read book")
	assert.Contains(t, out, "Got it.")
	assert.Contains(t, out, "Error: change kept in memory but not saved: storage unavailable")
	assert.Len(t, a.Tasks(), 1)
}

func TestRunUntilBye(t *testing.T) {
	store := &memStore{loadErr: storage.ErrNotFound}
	a := New(store, parser(), discard())

	in := strings.NewReader("todo read book\nlist\nbye\ntodo never\n")
	var out bytes.Buffer
	require.NoError(t, a.Run(in, &out))

	text := out.String()
	assert.Contains(t, text, "Hello! I'm Tally")
	assert.Contains(t, text, "1. [T] [ ] read book")
	assert.Contains(t, text, "Bye.")
	assert.NotContains(t, text, "never")
}

func TestRunEndOfInputExits(t *testing.T) {
	a := New(&memStore{}, parser(), discard())
	var out bytes.Buffer
	require.NoError(t, a.Run(strings.NewReader("list"), &out))
	assert.Contains(t, out.String(), "Your list is empty.")
	assert.Contains(t, out.String(), "Bye.")
}

func TestRunSurvivesOverlongLine(t *testing.T) {
	a := New(&memStore{loadErr: storage.ErrNotFound}, parser(), discard())
	in := strings.NewReader("todo " + strings.Repeat("z", 200<<10) + "\r\nfind zzz\nbye\n")
	var out bytes.Buffer
	require.NoError(t, a.Run(in, &out))

	assert.Contains(t, out.String(), "Now you have 1 tasks in the list.")
	assert.Contains(t, out.String(), "Here are the matching tasks in your list:")
	assert.Contains(t, out.String(), "Bye.")
}

func TestHandleRejectsFieldSeparator(t *testing.T) {
	store := &memStore{loadErr: storage.ErrNotFound}
	a := New(store, parser(), discard())

	out, _ := a.Handle("todo a | b")
	assert.Equal(t, "Error: invalid task format: description cannot contain '|'", out)
	out, _ = a.Handle("deadline x | y /by 2024-06-06")
	assert.True(t, strings.HasPrefix(out, "Error: "), out)
	assert.Empty(t, a.Tasks())
	assert.Empty(t, store.saved)
}

func TestSessionPersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "tally.txt")

	fs, err := storage.OpenFile(path)
	require.NoError(t, err)
	a := New(storage.NewTaskStore(fs, discard()), parser(), discard())
	for _, line := range []string{
		"todo read book",
		"deadline return book /by 6/6/2024 1800",
		"event project sync /from 2024-6-6 1400 /to 1600",
		"mark 1",
	} {
		out, _ := a.Handle(line)
		require.NotContains(t, out, "Error", line)
	}
	require.NoError(t, fs.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "T | 1 | read book\n"+
		"D | 0 | return book | Jun 06 2024 1800\n"+
		"E | 0 | project sync | Jun 06 2024 1400 - 1600\n", string(raw))

	fs, err = storage.OpenFile(path)
	require.NoError(t, err)
	defer fs.Close()
	b := New(storage.NewTaskStore(fs, discard()), parser(), discard())
	assert.Empty(t, b.Notice())
	out, _ := b.Handle("schedule 06-06-2024")
	assert.Contains(t, out, "1. [D] [ ] return book (by: Jun 06 2024, 6:00 pm)")
	assert.Contains(t, out, "2. [E] [ ] project sync (from: Jun 06 2024, 2:00 pm - 4:00 pm)")
}
