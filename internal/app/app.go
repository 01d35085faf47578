// Package app runs the read, execute, print loop over a line-oriented
// input and output.
package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"tally/internal/command"
	"tally/internal/storage"
	"tally/internal/task"
	"tally/internal/tasklist"
)

const (
	Welcome = "Hello! I'm Tally\nWhat can I do for you?"
	divider = "____________________________________________________________"
)

// Persister loads and saves the whole list.
type Persister interface {
	Load() ([]task.Task, error)
	Save(tasks []task.Task) error
}

type App struct {
	tasks  *tasklist.List
	store  Persister
	parser *command.Parser
	logger *log.Logger
	notice string
}

// New loads the saved list. A missing or unreadable store leaves an empty
// list and a notice for the user instead of failing.
func New(store Persister, parser *command.Parser, logger *log.Logger) *App {
	if parser == nil {
		parser = command.NewParser()
	}
	if logger == nil {
		logger = log.Default()
	}
	a := &App{store: store, parser: parser, logger: logger}

	saved, err := store.Load()
	switch {
	case err == nil:
		a.tasks = tasklist.New(saved...)
	case errors.Is(err, storage.ErrNotFound):
		a.tasks = tasklist.New()
		a.notice = "No saved tasks found. Starting a new list."
	default:
		logger.Error("load failed", "err", err)
		a.tasks = tasklist.New()
		a.notice = fmt.Sprintf("Could not load saved tasks (%v). Starting with an empty list.", err)
	}
	return a
}

// Notice is the one-time startup message, if any.
func (a *App) Notice() string { return a.notice }

func (a *App) Tasks() []task.Task { return a.tasks.All() }

// Handle runs one input line. It never fails: errors become output text.
func (a *App) Handle(line string) (out string, exit bool) {
	cmd, err := a.parser.Parse(line)
	if err != nil {
		a.logger.Debug("rejected input", "line", line, "err", err)
		return errorLine(err), false
	}
	out, err = cmd.Execute(command.Env{Tasks: a.tasks, Store: a.store})
	if err != nil {
		if out == "" {
			return errorLine(err), false
		}
		return out + "\n" + errorLine(err), cmd.IsExit()
	}
	return out, cmd.IsExit()
}

// Run reads lines from in until bye or end of input.
func (a *App) Run(in io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	defer w.Flush()

	block(w, Welcome)
	if a.notice != "" {
		block(w, a.notice)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	r := bufio.NewReader(in)
	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if errors.Is(err, io.EOF) && line == "" {
			line = "bye"
		}
		reply, exit := a.Handle(strings.TrimRight(line, "\r\n"))
		block(w, reply)
		if err := w.Flush(); err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
}

func errorLine(err error) string {
	return "Error: " + err.Error()
}

func block(w io.Writer, text string) {
	fmt.Fprintln(w, divider)
	for _, l := range strings.Split(text, "\n") {
		fmt.Fprintln(w, " "+l)
	}
	fmt.Fprintln(w, divider)
}
