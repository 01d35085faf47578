// Package tasklist holds the ordered, mutable list of tasks.
package tasklist

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tally/internal/chrono"
	"tally/internal/task"
)

var ErrTaskNotFound = errors.New("invalid task number, no such task exists")

// List owns its tasks. Indexes are 0-based.
type List struct {
	tasks []task.Task
}

func New(tasks ...task.Task) *List {
	return &List{tasks: append([]task.Task(nil), tasks...)}
}

func (l *List) Len() int { return len(l.tasks) }

// All returns a copy of the tasks in list order.
func (l *List) All() []task.Task {
	return append([]task.Task(nil), l.tasks...)
}

func (l *List) Add(t task.Task) {
	l.tasks = append(l.tasks, t)
}

func (l *List) Get(i int) (task.Task, error) {
	if err := l.check(i); err != nil {
		return nil, err
	}
	return l.tasks[i], nil
}

// Delete removes and returns the task at i.
func (l *List) Delete(i int) (task.Task, error) {
	if err := l.check(i); err != nil {
		return nil, err
	}
	t := l.tasks[i]
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	return t, nil
}

// MarkDone reports whether the status changed.
func (l *List) MarkDone(i int) (task.Task, bool, error) {
	if err := l.check(i); err != nil {
		return nil, false, err
	}
	return l.tasks[i], l.tasks[i].MarkDone(), nil
}

// MarkUndone reports whether the status changed.
func (l *List) MarkUndone(i int) (task.Task, bool, error) {
	if err := l.check(i); err != nil {
		return nil, false, err
	}
	return l.tasks[i], l.tasks[i].MarkUndone(), nil
}

// Find matches keyword case-insensitively against descriptions.
func (l *List) Find(keyword string) []task.Task {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	var out []task.Task
	for _, t := range l.tasks {
		if strings.Contains(strings.ToLower(t.Description()), keyword) {
			out = append(out, t)
		}
	}
	return out
}

// ScheduleOn returns deadlines due on date and events starting on date.
func (l *List) ScheduleOn(date time.Time) []task.Task {
	var out []task.Task
	for _, t := range l.tasks {
		if fallsOn(t, date) {
			out = append(out, t)
		}
	}
	return out
}

func fallsOn(t task.Task, date time.Time) bool {
	switch v := t.(type) {
	case *task.Todo:
		return false
	case *task.Deadline:
		return chrono.SameDay(v.Due().Time(), date)
	case *task.Event:
		return chrono.SameDay(v.Start(), date)
	default:
		panic(fmt.Sprintf("tasklist: unhandled task type %T", t))
	}
}

func (l *List) check(i int) error {
	if i < 0 || i >= len(l.tasks) {
		return fmt.Errorf("%w (task %d of %d)", ErrTaskNotFound, i+1, len(l.tasks))
	}
	return nil
}
