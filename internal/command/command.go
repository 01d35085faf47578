// Package command parses input lines into commands and runs them against
// the task list.
package command

import (
	"fmt"
	"strings"
	"time"

	"tally/internal/chrono"
	"tally/internal/task"
	"tally/internal/tasklist"
)

// Saver persists the whole list. Implementations replace the stored list
// atomically.
type Saver interface {
	Save(tasks []task.Task) error
}

// Env is what a command runs against.
type Env struct {
	Tasks *tasklist.List
	Store Saver
}

// Command is one parsed input line. Execute returns the text to show; a
// non-nil error alongside text means the change was applied in memory but
// could not be saved.
type Command interface {
	Execute(env Env) (string, error)
	IsExit() bool
}

type (
	Exit         struct{}
	List         struct{}
	AddTodo      struct{ Todo *task.Todo }
	AddDeadline  struct{ Deadline *task.Deadline }
	AddEvent     struct{ Event *task.Event }
	Delete       struct{ Index int }
	Mark         struct{ Index int }
	Unmark       struct{ Index int }
	Find         struct{ Keyword string }
	ViewSchedule struct{ Date time.Time }
)

func (Exit) IsExit() bool         { return true }
func (List) IsExit() bool         { return false }
func (AddTodo) IsExit() bool      { return false }
func (AddDeadline) IsExit() bool  { return false }
func (AddEvent) IsExit() bool     { return false }
func (Delete) IsExit() bool       { return false }
func (Mark) IsExit() bool         { return false }
func (Unmark) IsExit() bool       { return false }
func (Find) IsExit() bool         { return false }
func (ViewSchedule) IsExit() bool { return false }

func (Exit) Execute(Env) (string, error) {
	return "Bye. Hope to see you again soon!", nil
}

func (List) Execute(env Env) (string, error) {
	if env.Tasks.Len() == 0 {
		return "Your list is empty.", nil
	}
	return numbered("Here are the tasks in your list:", env.Tasks.All()), nil
}

func (c AddTodo) Execute(env Env) (string, error)     { return add(env, c.Todo) }
func (c AddDeadline) Execute(env Env) (string, error) { return add(env, c.Deadline) }
func (c AddEvent) Execute(env Env) (string, error)    { return add(env, c.Event) }

func add(env Env, t task.Task) (string, error) {
	env.Tasks.Add(t)
	msg := fmt.Sprintf("Got it. I've added this task:\n  %s\nNow you have %d tasks in the list.",
		t.Display(), env.Tasks.Len())
	return msg, persist(env)
}

func (c Delete) Execute(env Env) (string, error) {
	t, err := env.Tasks.Delete(c.Index)
	if err != nil {
		return "", err
	}
	msg := fmt.Sprintf("Noted. I've removed this task:\n  %s\nNow you have %d tasks in the list.",
		t.Display(), env.Tasks.Len())
	return msg, persist(env)
}

func (c Mark) Execute(env Env) (string, error) {
	t, changed, err := env.Tasks.MarkDone(c.Index)
	if err != nil {
		return "", err
	}
	if !changed {
		return "This task is already marked as done.", nil
	}
	return "Nice! I've marked this task as done:\n  " + t.Display(), persist(env)
}

func (c Unmark) Execute(env Env) (string, error) {
	t, changed, err := env.Tasks.MarkUndone(c.Index)
	if err != nil {
		return "", err
	}
	if !changed {
		return "This task is already marked as not done.", nil
	}
	return "OK, I've marked this task as not done yet:\n  " + t.Display(), persist(env)
}

func (c Find) Execute(env Env) (string, error) {
	found := env.Tasks.Find(c.Keyword)
	if len(found) == 0 {
		return "No matching tasks found.", nil
	}
	return numbered("Here are the matching tasks in your list:", found), nil
}

func (c ViewSchedule) Execute(env Env) (string, error) {
	day := c.Date.Format(chrono.ScheduleDate)
	found := env.Tasks.ScheduleOn(c.Date)
	if len(found) == 0 {
		return "No tasks scheduled for " + day, nil
	}
	return numbered("Schedule for "+day+":", found), nil
}

func persist(env Env) error {
	if env.Store == nil {
		return nil
	}
	if err := env.Store.Save(env.Tasks.All()); err != nil {
		return fmt.Errorf("change kept in memory but not saved: %w", err)
	}
	return nil
}

func numbered(header string, tasks []task.Task) string {
	var b strings.Builder
	b.WriteString(header)
	for i, t := range tasks {
		fmt.Fprintf(&b, "\n%d. %s", i+1, t.Display())
	}
	return b.String()
}
