package todo

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/kv"
)

// TaskStore owns the ordered task collection and mirrors it to a kv slot.
// It is not safe for concurrent use; callers drive it from a single
// goroutine.
type TaskStore struct {
	store  kv.Store
	key    string
	logger *log.Logger
	now    func() time.Time

	tasks  []Task
	filter Filter
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithKey sets the slot key. Blank keys are ignored.
func WithKey(key string) Option {
	return func(s *TaskStore) {
		if strings.TrimSpace(key) != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for load warnings and write failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *TaskStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used by Today.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFilter sets the initial filter mode.
func WithFilter(filter Filter) Option {
	return func(s *TaskStore) {
		if filter == FilterPending || filter == FilterCompleted {
			s.filter = filter
		}
	}
}

// Open reads the slot once and returns a store over its contents.
// Only a failure of the backend itself is returned as an error; unusable
// slot contents load as an empty collection.
func Open(store kv.Store, opts ...Option) (*TaskStore, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store is nil")
	}
	s := &TaskStore{
		store:  store,
		key:    DefaultKey,
		logger: log.New(io.Discard),
		now:    time.Now,
		tasks:  []Task{},
		filter: FilterPending,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := store.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("read slot: %w", err)
	}
	if ok {
		s.tasks = s.loadSlot([]byte(raw))
	}
	s.logger.Debug("loaded tasks", "slot", s.key, "count", len(s.tasks))
	return s, nil
}

// loadSlot decodes raw. Contents that do not parse load as an empty
// collection; parseable records are kept and repaired.
func (s *TaskStore) loadSlot(raw []byte) []Task {
	tasks, err := Decode(raw)
	if err != nil {
		s.logger.Warn("ignoring invalid slot contents", "slot", s.key, "err", err)
		return []Task{}
	}
	tasks, fixes := Repair(tasks)
	for _, fix := range fixes {
		s.logger.Warn("repaired stored task", "slot", s.key, "fix", fix)
	}
	return tasks
}

// Key returns the slot key.
func (s *TaskStore) Key() string {
	return s.key
}

// Today returns the current date in DateLayout.
func (s *TaskStore) Today() string {
	return s.now().Format(DateLayout)
}

// Add validates and appends a new pending task. On a persistence failure the
// task is still added and returned together with a *PersistError.
func (s *TaskStore) Add(text, dueDate string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, &ValidationError{Path: "text", Err: ErrEmptyText}
	}
	if _, err := ParseDueDate(dueDate); err != nil {
		return Task{}, &ValidationError{Path: "dueDate", Err: err}
	}

	task := Task{
		Text:     text,
		DueDate:  strings.TrimSpace(dueDate),
		Critical: false,
		Status:   StatusPending,
		ID:       maxID(s.tasks) + 1,
	}
	next := make([]Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	s.tasks = append(next, task)

	return task, s.persist("add", task.ID)
}

// Complete marks a pending task as completed. Unknown ids and tasks that are
// already completed are left alone.
func (s *TaskStore) Complete(id int) error {
	i := s.indexOf(id)
	if i < 0 || s.tasks[i].Status == StatusCompleted {
		return nil
	}
	next := s.cloneTasks()
	next[i].Status = StatusCompleted
	s.tasks = next
	return s.persist("complete", id)
}

// Delete removes the task with id, if present.
func (s *TaskStore) Delete(id int) error {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	s.tasks = next
	return s.persist("delete", id)
}

// Update applies req to the task with id. ok is false when no such task
// exists. Blank text and blank or unparseable due dates are ignored.
func (s *TaskStore) Update(id int, req UpdateRequest) (task Task, ok bool, err error) {
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false, nil
	}

	updated := s.tasks[i]
	if req.Text != nil {
		if text := strings.TrimSpace(*req.Text); text != "" {
			updated.Text = text
		}
	}
	if req.DueDate != nil {
		if _, perr := ParseDueDate(*req.DueDate); perr == nil {
			updated.DueDate = strings.TrimSpace(*req.DueDate)
		} else if strings.TrimSpace(*req.DueDate) != "" {
			s.logger.Debug("ignoring invalid due date", "id", id, "dueDate", *req.DueDate)
		}
	}
	if updated == s.tasks[i] {
		return updated, true, nil
	}

	next := s.cloneTasks()
	next[i] = updated
	s.tasks = next
	return updated, true, s.persist("update", id)
}

// ToggleCritical flips the critical flag of the task with id.
func (s *TaskStore) ToggleCritical(id int) error {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	next := s.cloneTasks()
	next[i].Critical = !next[i].Critical
	s.tasks = next
	return s.persist("toggle-critical", id)
}

// Reorder swaps the task with its neighbor in manual order. Moving the first
// task up, the last task down, or an unknown id does nothing.
func (s *TaskStore) Reorder(id int, dir Direction) error {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	var j int
	switch dir {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	default:
		return fmt.Errorf("invalid direction %q", dir)
	}
	if j < 0 || j >= len(s.tasks) {
		return nil
	}
	next := s.cloneTasks()
	next[i], next[j] = next[j], next[i]
	s.tasks = next
	return s.persist("reorder", id)
}

// Get returns the task with id.
func (s *TaskStore) Get(id int) (Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// Tasks returns a copy of the collection in manual order.
func (s *TaskStore) Tasks() []Task {
	return s.cloneTasks()
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// Counts returns the number of pending and completed tasks.
func (s *TaskStore) Counts() (pending, completed int) {
	for _, t := range s.tasks {
		if t.Status == StatusCompleted {
			completed++
		} else {
			pending++
		}
	}
	return pending, completed
}

// Filter returns the current filter mode.
func (s *TaskStore) Filter() Filter {
	return s.filter
}

// SetFilter changes the filter mode. It is not persisted.
func (s *TaskStore) SetFilter(filter Filter) {
	if filter == FilterPending || filter == FilterCompleted {
		s.filter = filter
	}
}

// Visible returns the view for the current filter mode.
func (s *TaskStore) Visible() []Task {
	return s.View(s.filter, SortAuto)
}

func (s *TaskStore) indexOf(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) cloneTasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// persist writes the whole collection to the slot.
func (s *TaskStore) persist(op string, id int) error {
	data, err := Encode(s.tasks)
	if err != nil {
		s.logger.Error("encode tasks", "op", op, "id", id, "err", err)
		return &PersistError{Key: s.key, Err: err}
	}
	if err := s.store.Set(s.key, string(data)); err != nil {
		s.logger.Error("write slot", "op", op, "id", id, "slot", s.key, "err", err)
		return &PersistError{Key: s.key, Err: err}
	}
	s.logger.Debug("saved tasks", "op", op, "id", id, "count", len(s.tasks))
	return nil
}
