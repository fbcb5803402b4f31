// Package views derives read-only projections of a task list: date
// windows, overdue detection, sorting, search and summary counts.
// Every function is pure and leaves its input slice untouched.
package views

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"time"

	"taskmaster/app/models"
)

// UpcomingWindowDays is the default length of the upcoming window.
const UpcomingWindowDays = 7

// SortKey names an ordering understood by SortBy.
type SortKey string

const (
	SortByDueDate      SortKey = "dueDate"
	SortByPriority     SortKey = "priority"
	SortByAlphabetical SortKey = "alphabetical"
)

// ErrUnknownSortKey is returned by SortBy for keys it does not know.
var ErrUnknownSortKey = errors.New("unknown sort key")

// Summary holds counts shown above a task list.
type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Active    int `json:"active"`
	Overdue   int `json:"overdue"`
}

// Day truncates t to midnight of its calendar day in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// FilterByToday returns the tasks due on ref's calendar day.
func FilterByToday(tasks []models.Task, ref time.Time) []models.Task {
	today := Day(ref, ref.Location())
	return filter(tasks, func(t models.Task) bool {
		return Day(t.DueDate, ref.Location()).Equal(today)
	})
}

// FilterByUpcoming returns tasks due in the seven days after ref's day,
// ordered by due date.
func FilterByUpcoming(tasks []models.Task, ref time.Time) []models.Task {
	return FilterByUpcomingWithin(tasks, ref, UpcomingWindowDays)
}

// FilterByUpcomingWithin is FilterByUpcoming with a custom window. Tasks due
// on ref's own day are excluded.
func FilterByUpcomingWithin(tasks []models.Task, ref time.Time, days int) []models.Task {
	today := Day(ref, ref.Location())
	last := today.AddDate(0, 0, days)
	out := filter(tasks, func(t models.Task) bool {
		due := Day(t.DueDate, ref.Location())
		return due.After(today) && !due.After(last)
	})
	slices.SortStableFunc(out, byDueDate)
	return out
}

// IsOverdue reports whether task is incomplete and due before ref's day.
func IsOverdue(task models.Task, ref time.Time) bool {
	if task.Completed {
		return false
	}
	return Day(task.DueDate, ref.Location()).Before(Day(ref, ref.Location()))
}

// FilterOverdue returns the overdue tasks, oldest due date first.
func FilterOverdue(tasks []models.Task, ref time.Time) []models.Task {
	out := filter(tasks, func(t models.Task) bool { return IsOverdue(t, ref) })
	slices.SortStableFunc(out, byDueDate)
	return out
}

// FilterByCompleted keeps the tasks whose completion state equals completed.
func FilterByCompleted(tasks []models.Task, completed bool) []models.Task {
	return filter(tasks, func(t models.Task) bool { return t.Completed == completed })
}

// SortBy returns a stably sorted copy of tasks.
func SortBy(tasks []models.Task, key SortKey) ([]models.Task, error) {
	var compare func(a, b models.Task) int
	switch key {
	case SortByDueDate:
		compare = byDueDate
	case SortByPriority:
		compare = func(a, b models.Task) int {
			return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
		}
	case SortByAlphabetical:
		compare = func(a, b models.Task) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	default:
		return nil, ErrUnknownSortKey
	}

	out := slices.Clone(tasks)
	slices.SortStableFunc(out, compare)
	return out, nil
}

// Search matches query case-insensitively against title and description.
// A blank query matches everything.
func Search(tasks []models.Task, query string) []models.Task {
	query = strings.ToLower(strings.TrimSpace(query))
	return filter(tasks, func(t models.Task) bool {
		return query == "" ||
			strings.Contains(strings.ToLower(t.Title), query) ||
			strings.Contains(strings.ToLower(t.Description), query)
	})
}

// Summarize counts tasks by state relative to ref.
func Summarize(tasks []models.Task, ref time.Time) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
		if IsOverdue(t, ref) {
			s.Overdue++
		}
	}
	return s
}

func byDueDate(a, b models.Task) int {
	return a.DueDate.Compare(b.DueDate)
}

func filter(tasks []models.Task, keep func(models.Task) bool) []models.Task {
	out := []models.Task{}
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
