// Package task defines the three kinds of tracked tasks and their
// human-facing rendering.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tally/internal/chrono"
)

var (
	ErrInvalidTaskFormat = errors.New("invalid task format")
	ErrInvalidEventRange = errors.New("invalid event time: the start time ('from') cannot be after the end time ('to')")
)

// Kind tags the variant of a Task.
type Kind int

const (
	KindTodo Kind = iota
	KindDeadline
	KindEvent
)

// Letter is the single-letter tag used in display and storage.
func (k Kind) Letter() string {
	switch k {
	case KindTodo:
		return "T"
	case KindDeadline:
		return "D"
	case KindEvent:
		return "E"
	default:
		panic(fmt.Sprintf("task: unknown kind %d", int(k)))
	}
}

// Task is implemented only by *Todo, *Deadline and *Event.
type Task interface {
	Kind() Kind
	Description() string
	Done() bool
	// MarkDone reports whether the status changed.
	MarkDone() bool
	// MarkUndone reports whether the status changed.
	MarkUndone() bool
	// Display renders the task for people.
	Display() string
	sealed()
}

type base struct {
	description string
	done        bool
}

func (b *base) Description() string { return b.description }
func (b *base) Done() bool          { return b.done }

func (b *base) MarkDone() bool {
	if b.done {
		return false
	}
	b.done = true
	return true
}

func (b *base) MarkUndone() bool {
	if !b.done {
		return false
	}
	b.done = false
	return true
}

func (b *base) status() string {
	if b.done {
		return "X"
	}
	return " "
}

func (b *base) sealed() {}

func (b *base) prefix(k Kind) string {
	return fmt.Sprintf("[%s] [%s] %s", k.Letter(), b.status(), b.description)
}

func newBase(description string) (base, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return base{}, fmt.Errorf("%w: description cannot be empty", ErrInvalidTaskFormat)
	}
	if strings.Contains(description, "|") {
		return base{}, fmt.Errorf("%w: description cannot contain '|'", ErrInvalidTaskFormat)
	}
	return base{description: description}, nil
}

type Todo struct {
	base
}

func NewTodo(description string) (*Todo, error) {
	b, err := newBase(description)
	if err != nil {
		return nil, err
	}
	return &Todo{base: b}, nil
}

func (t *Todo) Kind() Kind      { return KindTodo }
func (t *Todo) Display() string { return t.prefix(KindTodo) }

// Deadline is due on a date, or on a date at a time of day.
type Deadline struct {
	base
	due chrono.When
}

// NewDeadline parses by with the deadline grammar relative to now.
func NewDeadline(description, by string, now time.Time) (*Deadline, error) {
	if strings.TrimSpace(by) == "" {
		return nil, fmt.Errorf("%w: deadline due date cannot be empty", ErrInvalidTaskFormat)
	}
	due, err := chrono.ParseDue(by, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTaskFormat, err)
	}
	return DeadlineAt(description, due)
}

// DeadlineAt builds a Deadline from an already normalized due value.
func DeadlineAt(description string, due chrono.When) (*Deadline, error) {
	b, err := newBase(description)
	if err != nil {
		return nil, err
	}
	return &Deadline{base: b, due: due}, nil
}

func (d *Deadline) Kind() Kind       { return KindDeadline }
func (d *Deadline) Due() chrono.When { return d.due }

func (d *Deadline) Display() string {
	return fmt.Sprintf("%s (by: %s)", d.prefix(KindDeadline), d.due.Display())
}

// Event spans a start and an end date-time with end >= start.
type Event struct {
	base
	start time.Time
	end   time.Time
}

// NewEvent parses from with the event grammar and to against the start.
func NewEvent(description, from, to string, now time.Time) (*Event, error) {
	start, err := chrono.ParseEventStart(from, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTaskFormat, err)
	}
	end, err := chrono.ParseEventEnd(to, start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTaskFormat, err)
	}
	return EventBetween(description, start, end)
}

// EventBetween builds an Event from normalized bounds. Both bounds must
// fall on the same calendar date.
func EventBetween(description string, start, end time.Time) (*Event, error) {
	b, err := newBase(description)
	if err != nil {
		return nil, err
	}
	if !chrono.SameDay(start, end) {
		return nil, fmt.Errorf("%w: an event must end on the day it starts", ErrInvalidTaskFormat)
	}
	if end.Before(start) {
		return nil, ErrInvalidEventRange
	}
	return &Event{base: b, start: start.Truncate(time.Minute), end: end.Truncate(time.Minute)}, nil
}

func (e *Event) Kind() Kind       { return KindEvent }
func (e *Event) Start() time.Time { return e.start }
func (e *Event) End() time.Time   { return e.end }

func (e *Event) Display() string {
	return fmt.Sprintf("%s (from: %s - %s)", e.prefix(KindEvent),
		e.start.Format(chrono.DisplayDateTime), e.end.Format(chrono.DisplayClock))
}

// SetDone applies a stored status flag.
func SetDone(t Task, done bool) {
	if done {
		t.MarkDone()
		return
	}
	t.MarkUndone()
}
