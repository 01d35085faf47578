package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tally/internal/chrono"
	"tally/internal/task"
)

var (
	ErrUnrecognizedCommand  = errors.New("sorry, I do not understand that")
	ErrInvalidArgumentShape = errors.New("invalid command format")
	ErrNotAnInteger         = errors.New("invalid task number")
)

// Parser turns one input line into a Command. It keeps no state between
// lines; Now supplies "today" for relative dates.
type Parser struct {
	Now func() time.Time
}

func NewParser() *Parser {
	return &Parser{Now: time.Now}
}

func (p *Parser) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Parse splits line once into keyword and arguments and dispatches on the
// keyword, which is matched exactly.
func (p *Parser) Parse(line string) (Command, error) {
	keyword, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch keyword {
	case "bye":
		return Exit{}, nil
	case "list":
		return List{}, nil
	case "todo":
		return p.parseTodo(rest)
	case "deadline":
		return p.parseDeadline(rest)
	case "event":
		return p.parseEvent(rest)
	case "delete", "mark", "unmark":
		i, err := parseIndex(keyword, rest)
		if err != nil {
			return nil, err
		}
		switch keyword {
		case "delete":
			return Delete{Index: i}, nil
		case "mark":
			return Mark{Index: i}, nil
		default:
			return Unmark{Index: i}, nil
		}
	case "find":
		if rest == "" {
			return nil, fmt.Errorf("%w: the keyword cannot be empty, use: find <keyword>", ErrInvalidArgumentShape)
		}
		return Find{Keyword: rest}, nil
	case "schedule":
		date, err := chrono.ParseScheduleDate(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgumentShape, err)
		}
		return ViewSchedule{Date: date}, nil
	default:
		return nil, ErrUnrecognizedCommand
	}
}

func (p *Parser) parseTodo(rest string) (Command, error) {
	if rest == "" {
		return nil, fmt.Errorf("%w: the description of a todo cannot be empty, use: todo <description>", ErrInvalidArgumentShape)
	}
	t, err := task.NewTodo(rest)
	if err != nil {
		return nil, err
	}
	return AddTodo{Todo: t}, nil
}

func (p *Parser) parseDeadline(rest string) (Command, error) {
	desc, by, found := strings.Cut(rest, "/by")
	desc, by = strings.TrimSpace(desc), strings.TrimSpace(by)
	if !found || desc == "" || by == "" || strings.EqualFold(desc, "deadline") {
		return nil, fmt.Errorf("%w: use: deadline <description> /by <deadline>", ErrInvalidArgumentShape)
	}
	t, err := task.NewDeadline(desc, by, p.now())
	if err != nil {
		return nil, err
	}
	return AddDeadline{Deadline: t}, nil
}

func (p *Parser) parseEvent(rest string) (Command, error) {
	desc, span, found := strings.Cut(rest, "/from")
	desc = strings.TrimSpace(desc)
	if desc == "" || strings.EqualFold(desc, "event") {
		return nil, fmt.Errorf("%w: description cannot be empty, use: event <description> /from <start> /to <end>", ErrInvalidArgumentShape)
	}
	from, to, hasTo := strings.Cut(span, "/to")
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if !found || !hasTo || from == "" || to == "" {
		return nil, fmt.Errorf("%w: use: event <description> /from <start> /to <end>", ErrInvalidArgumentShape)
	}
	t, err := task.NewEvent(desc, from, to, p.now())
	if err != nil {
		return nil, err
	}
	return AddEvent{Event: t}, nil
}

// parseIndex converts a 1-based argument to a 0-based index. Bounds are
// checked against the list when the command runs.
func parseIndex(keyword, rest string) (int, error) {
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w %q, use: %s <task_number>", ErrNotAnInteger, rest, keyword)
	}
	return n - 1, nil
}
