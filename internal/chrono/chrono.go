// Package chrono normalizes the date and time strings people type into
// calendar values with one canonical rendering.
package chrono

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Canonical layouts. Display uses the lower-case meridiem.
const (
	DisplayDate     = "Jan 02 2006"
	DisplayDateTime = "Jan 02 2006, 3:04 pm"
	DisplayClock    = "3:04 pm"
	StoredDate      = "Jan 02 2006"
	StoredDateTime  = "Jan 02 2006 1504"
	StoredClock     = "1504"
	ScheduleDate    = "02-01-2006"
)

var ErrUnrecognized = errors.New("unrecognized date/time")

const (
	dueFormats   = "'d/M/yyyy HHmm', 'd-M-yyyy HHmm', 'yyyy-M-d', 'd/M/yyyy', or a weekday name like 'Sunday'"
	eventFormats = "'yyyy-M-d Hmm', 'yyyy/M/d Hmm', 'd/M/yyyy HHmm', 'MMM dd yyyy HHmm', '2pm', or 'Mon 2pm'"
	endFormats   = "'HHmm', 'Hmm', or '4pm'"
)

var (
	slashDateTime = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4}) (\d{3,4})$`)
	dashDateTime  = regexp.MustCompile(`^(\d{1,2}-\d{1,2}-\d{4}) (\d{3,4})$`)
	isoDate       = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
	slashDate     = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	isoDateTime   = regexp.MustCompile(`^(\d{4}-\d{1,2}-\d{1,2}) (\d{3,4})$`)
	ymdSlashTime  = regexp.MustCompile(`^(\d{4}/\d{1,2}/\d{1,2}) (\d{3,4})$`)
	namedDateTime = regexp.MustCompile(`^([A-Za-z]{3}) (\d{1,2}) (\d{4}) (\d{4})$`)
	namedDate     = regexp.MustCompile(`^([A-Za-z]{3}) (\d{1,2}) (\d{4})$`)
	clock12       = regexp.MustCompile(`^(?i)(\d{1,2})(am|pm)$`)
	weekdayClock  = regexp.MustCompile(`^([A-Za-z]+) (\d{1,2}[AaPp][Mm])$`)
	clock24       = regexp.MustCompile(`^\d{3,4}$`)
	scheduleDash  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	scheduleSlash = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// When is either a date-only value or a date with a time of day.
type When struct {
	at      time.Time
	hasTime bool
}

// OnDate returns a date-only value at local midnight.
func OnDate(y int, m time.Month, d int) When {
	return When{at: time.Date(y, m, d, 0, 0, 0, 0, time.Local)}
}

// At returns a date+time value.
func At(t time.Time) When {
	return When{at: t.Truncate(time.Minute), hasTime: true}
}

func (w When) HasTime() bool   { return w.hasTime }
func (w When) Time() time.Time { return w.at }

// Date returns the calendar date at local midnight.
func (w When) Date() time.Time { return Midnight(w.at) }

// Display renders the value for people.
func (w When) Display() string {
	if w.hasTime {
		return w.at.Format(DisplayDateTime)
	}
	return w.at.Format(DisplayDate)
}

// Stored renders the value for the storage file.
func (w When) Stored() string {
	if w.hasTime {
		return w.at.Format(StoredDateTime)
	}
	return w.at.Format(StoredDate)
}

// Midnight drops the time of day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDue classifies s against the deadline grammar and parses it with the
// layout of the first matching shape.
func ParseDue(s string, now time.Time) (When, error) {
	s = strings.TrimSpace(s)
	switch {
	case slashDateTime.MatchString(s):
		m := slashDateTime.FindStringSubmatch(s)
		t, err := parseLocal("2/1/2006 1504", m[1]+" "+padClock(m[2]))
		return dueResult(At(t), err)
	case dashDateTime.MatchString(s):
		m := dashDateTime.FindStringSubmatch(s)
		t, err := parseLocal("2-1-2006 1504", m[1]+" "+padClock(m[2]))
		return dueResult(At(t), err)
	case isoDate.MatchString(s):
		t, err := parseLocal("2006-1-2", s)
		return dueResult(When{at: t}, err)
	case slashDate.MatchString(s):
		t, err := parseLocal("2/1/2006", s)
		return dueResult(When{at: t}, err)
	}
	if day, ok := fullWeekday(s); ok {
		return When{at: NextWeekday(now, day)}, nil
	}
	return When{}, fmt.Errorf("%w %q: use %s", ErrUnrecognized, s, dueFormats)
}

func dueResult(w When, err error) (When, error) {
	if err != nil {
		return When{}, fmt.Errorf("%w: %v: use %s", ErrUnrecognized, err, dueFormats)
	}
	return w, nil
}

// ParseStoredDue accepts the canonical storage shapes plus the legacy
// 'd/M/yyyy HHmm' and 'yyyy-M-d' shapes found in older files.
func ParseStoredDue(s string) (When, error) {
	s = strings.TrimSpace(s)
	switch {
	case namedDateTime.MatchString(s):
		t, err := parseLocal("Jan 2 2006 1504", s)
		return storedResult(At(t), err, s)
	case slashDateTime.MatchString(s):
		m := slashDateTime.FindStringSubmatch(s)
		t, err := parseLocal("2/1/2006 1504", m[1]+" "+padClock(m[2]))
		return storedResult(At(t), err, s)
	case namedDate.MatchString(s):
		t, err := parseLocal("Jan 2 2006", s)
		return storedResult(When{at: t}, err, s)
	case isoDate.MatchString(s):
		t, err := parseLocal("2006-1-2", s)
		return storedResult(When{at: t}, err, s)
	}
	return When{}, fmt.Errorf("%w %q", ErrUnrecognized, s)
}

func storedResult(w When, err error, s string) (When, error) {
	if err != nil {
		return When{}, fmt.Errorf("%w %q: %v", ErrUnrecognized, s, err)
	}
	return w, nil
}

// ParseStoredStart parses the canonical 'MMM dd yyyy HHmm' event start.
func ParseStoredStart(s string) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")
	if !namedDateTime.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w %q", ErrUnrecognized, s)
	}
	t, err := parseLocal("Jan 2 2006 1504", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrUnrecognized, s, err)
	}
	return t, nil
}

// ParseEventStart classifies s against the event grammar. A bare 12-hour
// clock is taken on today's date.
func ParseEventStart(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	var (
		t   time.Time
		err error
	)
	switch {
	case isoDateTime.MatchString(s):
		m := isoDateTime.FindStringSubmatch(s)
		t, err = parseLocal("2006-1-2 1504", m[1]+" "+padClock(m[2]))
	case namedDateTime.MatchString(s):
		t, err = parseLocal("Jan 2 2006 1504", s)
	case ymdSlashTime.MatchString(s):
		m := ymdSlashTime.FindStringSubmatch(s)
		t, err = parseLocal("2006/1/2 1504", m[1]+" "+padClock(m[2]))
	case slashDateTime.MatchString(s):
		m := slashDateTime.FindStringSubmatch(s)
		t, err = parseLocal("2/1/2006 1504", m[1]+" "+padClock(m[2]))
	case dashDateTime.MatchString(s):
		m := dashDateTime.FindStringSubmatch(s)
		t, err = parseLocal("2-1-2006 1504", m[1]+" "+padClock(m[2]))
	case clock12.MatchString(s):
		var h int
		h, err = hour12(s)
		t = withClock(now, h, 0)
	case weekdayClock.MatchString(s):
		m := weekdayClock.FindStringSubmatch(s)
		day, ok := anyWeekday(m[1])
		if !ok {
			return time.Time{}, fmt.Errorf("%w: invalid weekday name %q: use 'Mon', 'Tue', etc.", ErrUnrecognized, m[1])
		}
		var h int
		h, err = hour12(m[2])
		t = withClock(NextWeekday(now, day), h, 0)
	default:
		return time.Time{}, fmt.Errorf("%w %q: use %s", ErrUnrecognized, s, eventFormats)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v: use %s", ErrUnrecognized, err, eventFormats)
	}
	return t, nil
}

// ParseEventEnd resolves a clock against start. The end always lands on the
// start's calendar date.
func ParseEventEnd(s string, start time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch {
	case clock24.MatchString(s):
		h, m, err := SplitClock(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v: use %s", ErrUnrecognized, err, endFormats)
		}
		return withClock(start, h, m), nil
	case clock12.MatchString(s):
		h, err := hour12(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v: use %s", ErrUnrecognized, err, endFormats)
		}
		return withClock(start, h, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w %q: use %s", ErrUnrecognized, s, endFormats)
}

// SplitClock parses a 3 or 4 digit 24-hour clock such as "500" or "1730".
func SplitClock(s string) (hour, minute int, err error) {
	s = padClock(strings.TrimSpace(s))
	if len(s) != 4 {
		return 0, 0, fmt.Errorf("clock %q is not HHmm", s)
	}
	hour, err = strconv.Atoi(s[:2])
	if err != nil {
		return 0, 0, fmt.Errorf("clock %q is not HHmm", s)
	}
	minute, err = strconv.Atoi(s[2:])
	if err != nil {
		return 0, 0, fmt.Errorf("clock %q is not HHmm", s)
	}
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("clock %q out of range", s)
	}
	return hour, minute, nil
}

// ParseScheduleDate accepts dd-MM-yyyy or dd/MM/yyyy.
func ParseScheduleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var layout string
	switch {
	case scheduleDash.MatchString(s):
		layout = "02-01-2006"
	case scheduleSlash.MatchString(s):
		layout = "02/01/2006"
	default:
		return time.Time{}, fmt.Errorf("%w %q: use dd-MM-yyyy or dd/MM/yyyy (e.g., 20-02-2025 or 20/02/2025)", ErrUnrecognized, s)
	}
	t, err := parseLocal(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v: use dd-MM-yyyy or dd/MM/yyyy", ErrUnrecognized, err)
	}
	return t, nil
}

// NextWeekday returns the next date after now that falls on day. When now
// already is that weekday the result is a week later, never today.
func NextWeekday(now time.Time, day time.Weekday) time.Time {
	ahead := (int(day) - int(now.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return Midnight(now).AddDate(0, 0, ahead)
}

func parseLocal(layout, s string) (time.Time, error) {
	return time.ParseInLocation(layout, s, time.Local)
}

func padClock(s string) string {
	if len(s) == 3 {
		return "0" + s
	}
	return s
}

func withClock(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location())
}

func hour12(s string) (int, error) {
	m := clock12.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("time %q: use '2pm', '11AM', etc.", s)
	}
	h, _ := strconv.Atoi(m[1])
	if h < 1 || h > 12 {
		return 0, fmt.Errorf("hour %d out of range", h)
	}
	h %= 12
	if strings.EqualFold(m[2], "pm") {
		h += 12
	}
	return h, nil
}

var weekdays = [...]time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

func fullWeekday(s string) (time.Weekday, bool) {
	for _, d := range weekdays {
		if strings.EqualFold(s, d.String()) {
			return d, true
		}
	}
	return 0, false
}

func anyWeekday(s string) (time.Weekday, bool) {
	if d, ok := fullWeekday(s); ok {
		return d, true
	}
	for _, d := range weekdays {
		if strings.EqualFold(s, d.String()[:3]) {
			return d, true
		}
	}
	return 0, false
}
