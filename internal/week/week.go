package week

import (
	"fmt"
	"strings"
	"time"
)

// Week start conventions of the two plan domains.
const (
	MealPlanStart = time.Saturday
	ExerciseStart = time.Monday
)

// Length is the number of days a plan week spans.
const Length = 7

// midnight truncates t to the start of its calendar day in its own location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartDate returns the first day of the week containing today, shifted by
// offset weeks. Weeks begin on weekStartsOn.
func StartDate(today time.Time, offset int, weekStartsOn time.Weekday) time.Time {
	day := midnight(today)
	back := (int(day.Weekday()) - int(weekStartsOn) + Length) % Length
	return day.AddDate(0, 0, -back+offset*Length)
}

// DayDate returns the date of day index 0..6 of the week. Out of range
// indexes are clamped.
func DayDate(weekStart time.Time, dayIndex int) time.Time {
	if dayIndex < 0 {
		dayIndex = 0
	}
	if dayIndex > Length-1 {
		dayIndex = Length - 1
	}
	return midnight(weekStart).AddDate(0, 0, dayIndex)
}

// EndDate is the last day of the week.
func EndDate(weekStart time.Time) time.Time {
	return DayDate(weekStart, Length-1)
}

// FormatRange renders the week as "Jan 6 - Jan 12, 2024". The year is
// repeated on both ends when the week crosses a year boundary.
func FormatRange(weekStart time.Time) string {
	start := midnight(weekStart)
	end := EndDate(start)
	if start.Year() != end.Year() {
		return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
}

// Day is the label data of one day of a week.
type Day struct {
	Index     int
	DayNumber int
	Date      time.Time
	ShortName string
}

// Days lists the 7 days of the week starting at weekStart.
func Days(weekStart time.Time) []Day {
	days := make([]Day, 0, Length)
	for i := 0; i < Length; i++ {
		date := DayDate(weekStart, i)
		days = append(days, Day{
			Index:     i,
			DayNumber: i + 1,
			Date:      date,
			ShortName: date.Format("Mon"),
		})
	}
	return days
}

// DayNumber returns the 1-based day number of date within the week, or 0 when
// the date falls outside it.
func DayNumber(weekStart, date time.Time) int {
	start := midnight(weekStart)
	d := midnight(date.In(start.Location()))
	for i := 0; i < Length; i++ {
		if start.AddDate(0, 0, i).Equal(d) {
			return i + 1
		}
	}
	return 0
}

// ParseWeekday accepts English weekday names or their three letter forms.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

// Navigator binds a week start convention to a clock.
type Navigator struct {
	WeekStartsOn time.Weekday
	Now          func() time.Time
}

// NewNavigator returns a Navigator on the wall clock.
func NewNavigator(weekStartsOn time.Weekday) Navigator {
	return Navigator{WeekStartsOn: weekStartsOn, Now: time.Now}
}

func (n Navigator) today() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

// Start returns the start of the week offset weeks from the current one.
func (n Navigator) Start(offset int) time.Time {
	return StartDate(n.today(), offset, n.WeekStartsOn)
}

// Range returns the formatted label of the week at offset.
func (n Navigator) Range(offset int) string {
	return FormatRange(n.Start(offset))
}

// Days lists the days of the week at offset.
func (n Navigator) Days(offset int) []Day {
	return Days(n.Start(offset))
}

// Today returns the day number of today within the current week.
func (n Navigator) Today() int {
	return DayNumber(n.Start(0), n.today())
}
