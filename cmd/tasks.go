package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// addCommand adds a pending task.
func (a *app) addCommand(args []string) error {
	fs := flag.NewFlagSet("tasklist add", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	due := fs.String("due", "", "Due date (YYYY-MM-DD, default today)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	text := strings.Join(positional, " ")

	store, backend, err := a.openStore()
	if err != nil {
		return err
	}
	defer backend.Close()

	dueDate := *due
	if strings.TrimSpace(dueDate) == "" {
		dueDate = store.Today()
	}

	task, err := store.Add(text, dueDate)
	a.record(store, activityEvent("add", []string{text, dueDate}, task.ID, err))
	var verr *todo.ValidationError
	if errors.As(err, &verr) {
		return err
	}
	if err != nil {
		return fmt.Errorf("task %d added but not saved: %w", task.ID, err)
	}
	fmt.Fprintf(a.out, "Added task %d: %s (due %s)\n", task.ID, task.Text, task.DueDate)
	return nil
}

// idCommand runs a single-id mutation: done, rm, crit, up or down.
func (a *app) idCommand(name string, args []string) error {
	fs := flag.NewFlagSet("tasklist "+name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := parseID(positional)
	if err != nil {
		return err
	}

	store, backend, err := a.openStore()
	if err != nil {
		return err
	}
	defer backend.Close()

	before, found := store.Get(id)
	if !found {
		a.record(store, logging.Event{Command: name, ID: id, Status: logging.StatusNoop})
		fmt.Fprintf(a.out, "No task %d\n", id)
		return nil
	}
	beforeOrder := store.Tasks()

	var message string
	switch name {
	case "done":
		err = store.Complete(id)
		message = fmt.Sprintf("Completed task %d: %s", id, before.Text)
		if before.Completed() {
			message = fmt.Sprintf("Task %d is already completed", id)
		}
	case "rm":
		err = store.Delete(id)
		message = fmt.Sprintf("Deleted task %d: %s", id, before.Text)
	case "crit":
		err = store.ToggleCritical(id)
		state := "critical"
		if before.Critical {
			state = "not critical"
		}
		message = fmt.Sprintf("Task %d is now %s", id, state)
	case "up", "down":
		dir, _ := todo.ParseDirection(name)
		err = store.Reorder(id, dir)
		message = fmt.Sprintf("Moved task %d %s", id, name)
		if sameOrder(beforeOrder, store.Tasks()) {
			edge := "top"
			if dir == todo.Down {
				edge = "bottom"
			}
			message = fmt.Sprintf("Task %d is already at the %s", id, edge)
		}
	default:
		return fmt.Errorf("unknown command: %s", name)
	}

	event := activityEvent(name, nil, id, err)
	if err == nil && sameTasks(beforeOrder, store.Tasks()) {
		event.Status = logging.StatusNoop
	}
	a.record(store, event)
	if err != nil {
		return fmt.Errorf("task %d changed but not saved: %w", id, err)
	}
	fmt.Fprintln(a.out, message)
	return nil
}

// editCommand changes the text and/or due date of a task.
func (a *app) editCommand(args []string) error {
	fs := flag.NewFlagSet("tasklist edit", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	text := fs.String("text", "", "New text (blank keeps the current text)")
	due := fs.String("due", "", "New due date (YYYY-MM-DD)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := parseID(positional)
	if err != nil {
		return err
	}

	var req todo.UpdateRequest
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "text":
			req.Text = text
		case "due":
			req.DueDate = due
		}
	})
	if req.Text == nil && req.DueDate == nil {
		return fmt.Errorf("edit: nothing to change (use -text and/or -due)")
	}
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		if _, perr := todo.ParseDueDate(*req.DueDate); perr != nil {
			a.logger.Warn("keeping current due date", "id", id, "due", *req.DueDate, "err", perr)
		}
	}

	store, backend, err := a.openStore()
	if err != nil {
		return err
	}
	defer backend.Close()

	before, _ := store.Get(id)
	task, ok, err := store.Update(id, req)
	if !ok {
		a.record(store, logging.Event{Command: "edit", ID: id, Status: logging.StatusNoop})
		fmt.Fprintf(a.out, "No task %d\n", id)
		return nil
	}
	event := activityEvent("edit", nil, id, err)
	if err == nil && task == before {
		event.Status = logging.StatusNoop
	}
	a.record(store, event)
	if err != nil {
		return fmt.Errorf("task %d changed but not saved: %w", id, err)
	}
	fmt.Fprintf(a.out, "Task %d: %s (due %s)\n", task.ID, task.Text, task.DueDate)
	return nil
}

// lsCommand lists one view of the tasks.
func (a *app) lsCommand(args []string) error {
	fs := flag.NewFlagSet("tasklist ls", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	sortFlag := fs.String("sort", "auto", "Due date order (auto|asc|desc)")
	asJSON := fs.Bool("json", false, "Print the view as JSON")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("unexpected arguments: %v", positional[1:])
	}
	order, err := todo.ParseSortOrder(*sortFlag)
	if err != nil {
		return err
	}

	store, backend, err := a.openStore()
	if err != nil {
		return err
	}
	defer backend.Close()

	filter := store.Filter()
	if len(positional) == 1 {
		if filter, err = todo.ParseFilter(positional[0]); err != nil {
			return err
		}
	}

	tasks := store.View(filter, order)
	if *asJSON {
		data, err := todo.Encode(tasks)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, string(data))
		return nil
	}

	pending, completed := store.Counts()
	fmt.Fprintf(a.out, "%s (%d)   [pending %d, completed %d]\n", filter, len(tasks), pending, completed)
	printTaskList(a.out, tasks, filter)
	return nil
}

// printTaskList prints a list of tasks.
func printTaskList(w io.Writer, tasks []todo.Task, filter todo.Filter) {
	if len(tasks) == 0 {
		if filter == todo.FilterCompleted {
			fmt.Fprintln(w, "  No completed tasks.")
		} else {
			fmt.Fprintln(w, "  Nothing pending.")
		}
		return
	}
	width := len(strconv.Itoa(maxID(tasks)))
	for _, t := range tasks {
		printTask(w, t, width)
	}
}

// printTask prints a single task.
func printTask(w io.Writer, t todo.Task, width int) {
	mark := " "
	if t.Critical {
		mark = "!"
	}
	check := "[ ]"
	if t.Completed() {
		check = "[x]"
	}
	fmt.Fprintf(w, "  %*d %s %s %-10s  %s\n", width, t.ID, check, mark, t.DueDate, t.Text)
}

func maxID(tasks []todo.Task) int {
	m := 0
	for _, t := range tasks {
		if t.ID > m {
			m = t.ID
		}
	}
	return m
}

func parseID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing task id")
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	id, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

func activityEvent(command string, args []string, id int, err error) logging.Event {
	event := logging.Event{Command: command, Args: args, ID: id, Status: logging.StatusOK}
	if err != nil {
		event.Status = logging.StatusError
		event.Error = err.Error()
	}
	return event
}

// sameOrder reports whether both slices list the same ids in the same order.
func sameOrder(a, b []todo.Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func sameTasks(a, b []todo.Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
