package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.June, 2, 9, 30, 0, 0, time.Local)

func TestTodoDisplay(t *testing.T) {
	todo, err := NewTodo("  read book ")
	require.NoError(t, err)
	assert.Equal(t, "[T] [ ] read book", todo.Display())
	assert.Equal(t, KindTodo, todo.Kind())

	todo.MarkDone()
	assert.Equal(t, "[T] [X] read book", todo.Display())
}

func TestEmptyDescription(t *testing.T) {
	_, err := NewTodo("   ")
	assert.ErrorIs(t, err, ErrInvalidTaskFormat)
	_, err = NewDeadline("", "2019-10-15", now)
	assert.ErrorIs(t, err, ErrInvalidTaskFormat)
	_, err = NewEvent(" ", "2019-12-22 1400", "1600", now)
	assert.ErrorIs(t, err, ErrInvalidTaskFormat)
}

func TestDescriptionRejectsFieldSeparator(t *testing.T) {
	_, err := NewTodo("a | b")
	assert.ErrorIs(t, err, ErrInvalidTaskFormat)
	_, err = NewDeadline("x | y", "2024-06-06", now)
	assert.ErrorIs(t, err, ErrInvalidTaskFormat)
	_, err = NewEvent("p|q", "2019-12-22 1400", "1600", now)
	assert.ErrorIs(t, err, ErrInvalidTaskFormat)
}

func TestDeadlineDisplay(t *testing.T) {
	tests := []struct {
		by   string
		want string
	}{
		{"2019-10-15", "[D] [ ] return book (by: Oct 15 2019)"},
		{"2/12/2019 1800", "[D] [ ] return book (by: Dec 02 2019, 6:00 pm)"},
		{"Sunday", "[D] [ ] return book (by: Jun 09 2024)"},
	}
	for _, tt := range tests {
		d, err := NewDeadline("return book", tt.by, now)
		require.NoError(t, err, tt.by)
		assert.Equal(t, tt.want, d.Display())
	}
}

func TestDeadlineBadDate(t *testing.T) {
	_, err := NewDeadline("return book", "32/4/2019 1800", now)
	assert.ErrorIs(t, err, ErrInvalidTaskFormat)
	_, err = NewDeadline("return book", "  ", now)
	assert.ErrorIs(t, err, ErrInvalidTaskFormat)
}

func TestEventDisplay(t *testing.T) {
	tests := []struct {
		from, to string
		want     string
	}{
		{"2019-12-22 1400", "1600", "[E] [ ] sync (from: Dec 22 2019, 2:00 pm - 4:00 pm)"},
		{"2019-1-2 500", "700", "[E] [ ] sync (from: Jan 02 2019, 5:00 am - 7:00 am)"},
		{"2019/12/22 500", "700", "[E] [ ] sync (from: Dec 22 2019, 5:00 am - 7:00 am)"},
		{"Mon 2pm", "4pm", "[E] [ ] sync (from: Jun 03 2024, 2:00 pm - 4:00 pm)"},
	}
	for _, tt := range tests {
		e, err := NewEvent("sync", tt.from, tt.to, now)
		require.NoError(t, err, tt.from)
		assert.Equal(t, tt.want, e.Display())
	}
}

func TestEventRange(t *testing.T) {
	_, err := NewEvent("sync", "2019-12-22 1600", "1300", now)
	assert.ErrorIs(t, err, ErrInvalidEventRange)
	assert.NotErrorIs(t, err, ErrInvalidTaskFormat)

	e, err := NewEvent("sync", "2019-12-22 1600", "1600", now)
	require.NoError(t, err)
	assert.True(t, e.Start().Equal(e.End()))
}

func TestEventBadFormat(t *testing.T) {
	_, err := NewEvent("sync", "2019-12-22", "1600", now)
	assert.ErrorIs(t, err, ErrInvalidTaskFormat)
	_, err = NewEvent("sync", "2019-12-22 1400", "whenever", now)
	assert.ErrorIs(t, err, ErrInvalidTaskFormat)
}

func TestEventStaysOnOneDay(t *testing.T) {
	_, err := NewEvent("trip", "2019-12-22 2300", "2019-12-23 0100", now)
	assert.ErrorIs(t, err, ErrInvalidTaskFormat)

	_, err = NewEvent("trip", "2019-12-22 2300", "0100", now)
	assert.ErrorIs(t, err, ErrInvalidEventRange)

	start := time.Date(2019, 12, 22, 23, 0, 0, 0, time.Local)
	_, err = EventBetween("trip", start, start.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTaskFormat)
}

func TestMarkIdempotent(t *testing.T) {
	todo, err := NewTodo("read book")
	require.NoError(t, err)

	assert.True(t, todo.MarkDone())
	assert.False(t, todo.MarkDone())
	assert.True(t, todo.Done())

	assert.True(t, todo.MarkUndone())
	assert.False(t, todo.MarkUndone())
	assert.False(t, todo.Done())
}

func TestSetDone(t *testing.T) {
	tk, err := NewTodo("x")
	require.NoError(t, err)
	SetDone(tk, true)
	assert.True(t, tk.Done())
	SetDone(tk, false)
	assert.False(t, tk.Done())
}

func TestKindLetter(t *testing.T) {
	assert.Equal(t, "T", KindTodo.Letter())
	assert.Equal(t, "D", KindDeadline.Letter())
	assert.Equal(t, "E", KindEvent.Letter())
	assert.Panics(t, func() { _ = Kind(9).Letter() })
}
