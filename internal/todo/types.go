package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the due date format.
const DateLayout = "2006-01-02"

// DefaultKey is the slot key tasks are stored under.
const DefaultKey = "todos"

// Status represents a task status as stored in the slot.
type Status string

const (
	StatusPending   Status = "p"
	StatusCompleted Status = "c"
)

// Filter selects which tasks a view shows.
type Filter string

const (
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Status returns the task status the filter matches.
func (f Filter) Status() Status {
	if f == FilterCompleted {
		return StatusCompleted
	}
	return StatusPending
}

// ParseFilter parses a filter name. "p" and "c" are accepted as shorthands.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "p", "todo":
		return FilterPending, nil
	case "completed", "c", "done":
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("invalid filter %q, must be one of: pending, completed", s)
	}
}

// Direction is the direction Reorder moves a task in manual order.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection parses "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return "", fmt.Errorf("invalid direction %q, must be up or down", s)
	}
}

// SortOrder controls the due date ordering of a view.
type SortOrder string

const (
	// SortAuto sorts ascending for pending tasks and descending for completed ones.
	SortAuto       SortOrder = ""
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ParseSortOrder parses "auto", "asc" or "desc".
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return SortAuto, nil
	case "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	default:
		return "", fmt.Errorf("invalid sort order %q, must be one of: auto, asc, desc", s)
	}
}

// ascending resolves the effective direction for filter.
func (o SortOrder) ascending(filter Filter) bool {
	switch o {
	case SortAscending:
		return true
	case SortDescending:
		return false
	default:
		return filter != FilterCompleted
	}
}

// Task represents a single task in the list.
type Task struct {
	Text     string `json:"text"`
	DueDate  string `json:"dueDate"`
	Critical bool   `json:"critical"`
	Status   Status `json:"status"`
	ID       int    `json:"index"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// Completed reports whether the task is completed.
func (t *Task) Completed() bool {
	return t.Status == StatusCompleted
}

// UpdateRequest carries the fields Update may replace. Nil fields are left
// unchanged.
type UpdateRequest struct {
	Text    *string
	DueDate *string
}

// Sentinel causes wrapped by ValidationError.
var (
	ErrEmptyText   = errors.New("text is empty")
	ErrInvalidDate = errors.New("due date must be a valid YYYY-MM-DD date")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // field or JSON path of the offending value
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// PersistError reports a failed write of the slot. The mutation that
// triggered it has already been applied in memory.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %s", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistError) Unwrap() error {
	return e.Err
}

// ParseDueDate parses a YYYY-MM-DD due date.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}
