// Package codec maps tasks to and from pipe-delimited storage lines.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tally/internal/chrono"
	"tally/internal/task"
)

var ErrCorruptStorageLine = errors.New("corrupt storage line")

var fieldSep = regexp.MustCompile(`\s*\|\s*`)

// Encode renders t as one canonical storage line without a trailing newline.
func Encode(t task.Task) string {
	status := "0"
	if t.Done() {
		status = "1"
	}
	head := fmt.Sprintf("%s | %s | %s", t.Kind().Letter(), status, t.Description())
	switch v := t.(type) {
	case *task.Todo:
		return head
	case *task.Deadline:
		return head + " | " + v.Due().Stored()
	case *task.Event:
		return head + " | " + v.Start().Format(chrono.StoredDateTime) + " - " + v.End().Format(chrono.StoredClock)
	default:
		panic(fmt.Sprintf("codec: unhandled task type %T", t))
	}
}

// Decode parses one storage line. It accepts legacy deadline shapes that
// Encode never produces.
func Decode(line string) (task.Task, error) {
	line = strings.TrimSpace(line)
	parts := fieldSep.Split(line, -1)
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: want at least 3 fields, got %d", ErrCorruptStorageLine, len(parts))
	}
	done := parts[1] == "1"
	desc := parts[2]

	var (
		t   task.Task
		err error
	)
	switch parts[0] {
	case "T":
		t, err = task.NewTodo(desc)
	case "D":
		t, err = decodeDeadline(desc, parts[3:])
	case "E":
		t, err = decodeEvent(desc, parts[3:])
	default:
		return nil, fmt.Errorf("%w: unknown task type %q", ErrCorruptStorageLine, parts[0])
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptStorageLine, err)
	}
	task.SetDone(t, done)
	return t, nil
}

func decodeDeadline(desc string, rest []string) (task.Task, error) {
	if len(rest) < 1 {
		return nil, errors.New("deadline is missing its due field")
	}
	due, err := chrono.ParseStoredDue(rest[0])
	if err != nil {
		return nil, err
	}
	return task.DeadlineAt(desc, due)
}

func decodeEvent(desc string, rest []string) (task.Task, error) {
	if len(rest) < 1 {
		return nil, errors.New("event is missing its time range field")
	}
	field := rest[0]
	cut := strings.LastIndex(field, "-")
	if cut < 0 {
		return nil, fmt.Errorf("event range %q is missing '-'", field)
	}
	start, err := chrono.ParseStoredStart(field[:cut])
	if err != nil {
		return nil, err
	}
	hour, minute, err := chrono.SplitClock(strings.Join(strings.Fields(field[cut+1:]), ""))
	if err != nil {
		return nil, err
	}
	y, m, d := start.Date()
	end := time.Date(y, m, d, hour, minute, 0, 0, start.Location())
	return task.EventBetween(desc, start, end)
}

// EncodeAll renders every task followed by a newline, in list order.
func EncodeAll(tasks []task.Task) []byte {
	var b bytes.Buffer
	for _, t := range tasks {
		b.WriteString(Encode(t))
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// DecodeAll decodes every non-blank line. Lines that fail are passed to
// skip, with their 1-based line number, and left out of the result.
func DecodeAll(data []byte, skip func(lineNo int, line string, err error)) []task.Task {
	var tasks []task.Task
	for i, raw := range bytes.Split(data, []byte("\n")) {
		line := string(bytes.TrimRight(raw, "\r"))
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := Decode(line)
		if err != nil {
			if skip != nil {
				skip(i+1, line, err)
			}
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks
}
