package todo

import (
	"sort"
	"time"
)

// View returns the tasks matching filter, sorted by due date. Equal due
// dates keep manual order; due dates that do not parse sort last. The
// result is a copy and View never writes the slot.
func (s *TaskStore) View(filter Filter, order SortOrder) []Task {
	status := filter.Status()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	SortByDueDate(out, order.ascending(filter))
	return out
}

type dueKey struct {
	task  Task
	date  time.Time
	valid bool
}

// SortByDueDate stably sorts tasks by due date in place.
func SortByDueDate(tasks []Task, ascending bool) {
	keyed := make([]dueKey, len(tasks))
	for i, t := range tasks {
		d, err := ParseDueDate(t.DueDate)
		keyed[i] = dueKey{task: t, date: d, valid: err == nil}
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		left, right := keyed[i], keyed[j]
		if left.valid != right.valid {
			return left.valid
		}
		if !left.valid {
			return false
		}
		if ascending {
			return left.date.Before(right.date)
		}
		return left.date.After(right.date)
	})
	for i := range keyed {
		tasks[i] = keyed[i].task
	}
}
