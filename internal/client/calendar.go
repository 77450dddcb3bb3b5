package client

import (
	"fmt"
	"time"

	"kanban_api/internal/domain"
)

type CalendarView string

const (
	ViewMonth CalendarView = "month"
	ViewWeek  CalendarView = "week"
	ViewDay   CalendarView = "day"
)

func ParseCalendarView(s string) (CalendarView, error) {
	switch v := CalendarView(s); v {
	case ViewMonth, ViewWeek, ViewDay:
		return v, nil
	}
	return "", fmt.Errorf("unknown calendar view %q", s)
}

// CalendarDays returns the days shown for anchor. Month grids run from the
// Sunday on or before the 1st to the Saturday on or after the last day.
func CalendarDays(view CalendarView, anchor time.Time) []domain.Date {
	day := domain.DateOf(anchor)

	var start, end domain.Date
	switch view {
	case ViewMonth:
		first := domain.NewDate(day.Year(), day.Month(), 1)
		last := domain.Date{Time: first.AddDate(0, 1, -1)}
		start, end = weekStart(first), weekEnd(last)
	case ViewWeek:
		start, end = weekStart(day), weekEnd(day)
	default:
		return []domain.Date{day}
	}

	var days []domain.Date
	for d := start; !d.After(end.Time); d = (domain.Date{Time: d.AddDate(0, 0, 1)}) {
		days = append(days, d)
	}
	return days
}

// Step moves anchor by one unit of view, backwards when delta is negative.
func Step(view CalendarView, anchor time.Time, delta int) time.Time {
	switch view {
	case ViewMonth:
		return anchor.AddDate(0, delta, 0)
	case ViewWeek:
		return anchor.AddDate(0, 0, 7*delta)
	default:
		return anchor.AddDate(0, 0, delta)
	}
}

func weekStart(d domain.Date) domain.Date {
	return domain.Date{Time: d.AddDate(0, 0, -int(d.Weekday()))}
}

func weekEnd(d domain.Date) domain.Date {
	return domain.Date{Time: d.AddDate(0, 0, int(time.Saturday-d.Weekday()))}
}

// TasksOn returns the tasks due on day.
func TasksOn(tasks []domain.Task, day domain.Date) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.DueDate != nil && t.DueDate.Equal(day) {
			out = append(out, t)
		}
	}
	return out
}

// TasksOn buckets the cached tasks by due date.
func (s *Store) TasksOn(day domain.Date) []domain.Task {
	return TasksOn(s.AllTasks(), day)
}
