// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/todo"
	"github.com/nibzard/tasklist-go/internal/utils"
)

// ActivityFunc is called after every mutation made from the TUI.
type ActivityFunc func(command string, id int, err error)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	theme    string
	activity ActivityFunc
}

// WithTheme sets the initial theme (light or dark).
func WithTheme(theme string) TUIOption {
	return func(c *tuiConfig) {
		c.theme = theme
	}
}

// WithActivity registers a callback for mutations.
func WithActivity(fn ActivityFunc) TUIOption {
	return func(c *tuiConfig) {
		c.activity = fn
	}
}

// RunTUI starts the TUI over store. It requires stdout to be a terminal.
func RunTUI(ctx context.Context, store *todo.TaskStore, opts ...TUIOption) error {
	if store == nil {
		return fmt.Errorf("tui requires a task store")
	}
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(store, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

const (
	fieldText = iota
	fieldDue
)

type tuiModel struct {
	store    *todo.TaskStore
	activity ActivityFunc
	styles   Styles

	tasks  []todo.Task
	cursor int
	mode   mode

	inputs  [2]textinput.Model
	focus   int
	editID  int
	pending *todo.Task

	status    string
	statusErr bool
	width     int
}

func newTUIModel(store *todo.TaskStore, opts ...TUIOption) *tuiModel {
	c := &tuiConfig{theme: config.DefaultTheme}
	for _, opt := range opts {
		opt(c)
	}

	text := textinput.New()
	text.Placeholder = "What needs doing?"
	text.CharLimit = 256
	text.Width = 48

	due := textinput.New()
	due.Placeholder = todo.DateLayout
	due.CharLimit = len(todo.DateLayout)
	due.Width = 12

	m := &tuiModel{
		store:    store,
		activity: c.activity,
		styles:   NewStyles(PaletteFor(c.theme)),
		inputs:   [2]textinput.Model{text, due},
		status:   "Press a to add a task, ? for keys.",
	}
	m.reload()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 16; w > 10 {
			m.inputs[fieldText].Width = w
		}
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg.String())
		default:
			return m.updateList(msg.String())
		}
	}
	return m, nil
}

func (m *tuiModel) updateList(key string) (tea.Model, tea.Cmd) {
	pendingTab := m.store.Filter() == todo.FilterPending

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1":
		m.setFilter(todo.FilterPending)
	case "2":
		m.setFilter(todo.FilterCompleted)
	case "tab":
		if pendingTab {
			m.setFilter(todo.FilterCompleted)
		} else {
			m.setFilter(todo.FilterPending)
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "t":
		if m.styles.Palette.Name == config.ThemeDark {
			m.styles = NewStyles(LightPalette())
		} else {
			m.styles = NewStyles(DarkPalette())
		}
		m.setStatus("Theme: "+m.styles.Palette.Name, false)
	case "?":
		m.setStatus(helpText, false)
	case "a":
		return m, m.openForm(modeAdd, "", m.store.Today())
	case "e":
		task, ok := m.selected()
		if !ok {
			m.setStatus("No task selected", true)
			return m, nil
		}
		m.editID = task.ID
		return m, m.openForm(modeEdit, task.Text, task.DueDate)
	case "c", "enter":
		if task, ok := m.selected(); ok && pendingTab {
			m.apply("done", task.ID, m.store.Complete(task.ID), "Completed: "+task.Text)
		}
	case "x":
		if task, ok := m.selected(); ok && pendingTab {
			m.apply("crit", task.ID, m.store.ToggleCritical(task.ID), "Toggled critical: "+task.Text)
		}
	case "K", "shift+up":
		if task, ok := m.selected(); ok && pendingTab {
			m.apply("up", task.ID, m.store.Reorder(task.ID, todo.Up), "Moved up: "+task.Text)
		}
	case "J", "shift+down":
		if task, ok := m.selected(); ok && pendingTab {
			m.apply("down", task.ID, m.store.Reorder(task.ID, todo.Down), "Moved down: "+task.Text)
		}
	case "d", "delete":
		if task, ok := m.selected(); ok {
			m.pending = &task
			m.mode = modeConfirmDelete
			m.setStatus(fmt.Sprintf("Delete %q? y/n", task.Text), false)
		}
	}
	return m, nil
}

func (m *tuiModel) updateConfirmDelete(key string) (tea.Model, tea.Cmd) {
	task := m.pending
	m.pending = nil
	m.mode = modeList
	if task == nil {
		return m, nil
	}
	switch key {
	case "y", "Y":
		m.apply("rm", task.ID, m.store.Delete(task.ID), "Deleted: "+task.Text)
	case "ctrl+c":
		return m, tea.Quit
	default:
		m.setStatus("Delete cancelled", false)
	}
	return m, nil
}

func (m *tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.closeForm()
		m.setStatus("Cancelled", false)
		return m, nil
	case "tab", "shift+tab", "up", "down":
		return m, m.focusField(1 - m.focus)
	case "enter":
		m.submitForm()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *tuiModel) submitForm() {
	text := m.inputs[fieldText].Value()
	due := m.inputs[fieldDue].Value()

	if m.mode == modeAdd {
		task, err := m.store.Add(text, due)
		var verr *todo.ValidationError
		if errors.As(err, &verr) {
			m.setStatus(verr.Error(), true)
			return
		}
		m.closeForm()
		m.apply("add", task.ID, err, "Added: "+task.Text)
		m.selectID(task.ID)
		return
	}

	id := m.editID
	task, ok, err := m.store.Update(id, todo.UpdateRequest{Text: &text, DueDate: &due})
	m.closeForm()
	if !ok {
		m.setStatus(fmt.Sprintf("Task %d no longer exists", id), true)
		m.reload()
		return
	}
	m.apply("edit", id, err, "Updated: "+task.Text)
	m.selectID(id)
}

func (m *tuiModel) openForm(md mode, text, due string) tea.Cmd {
	m.mode = md
	m.inputs[fieldText].SetValue(text)
	m.inputs[fieldDue].SetValue(due)
	m.inputs[fieldText].CursorEnd()
	m.inputs[fieldDue].CursorEnd()
	if md == modeAdd {
		m.setStatus("New task: enter to save, tab to switch field, esc to cancel", false)
	} else {
		m.setStatus("Edit task: blank text keeps the current text", false)
	}
	return m.focusField(fieldText)
}

func (m *tuiModel) closeForm() {
	m.mode = modeList
	m.editID = 0
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].SetValue("")
	}
}

func (m *tuiModel) focusField(field int) tea.Cmd {
	m.focus = field
	m.inputs[1-field].Blur()
	return m.inputs[field].Focus()
}

// apply reports the outcome of a store mutation and refreshes the list.
func (m *tuiModel) apply(command string, id int, err error, ok string) {
	if m.activity != nil {
		m.activity(command, id, err)
	}
	var perr *todo.PersistError
	switch {
	case errors.As(err, &perr):
		m.setStatus(ok+" (not saved: "+perr.Err.Error()+")", true)
	case err != nil:
		m.setStatus(err.Error(), true)
	default:
		m.setStatus(ok, false)
	}
	m.reload()
}

func (m *tuiModel) setFilter(filter todo.Filter) {
	if m.store.Filter() == filter {
		return
	}
	m.store.SetFilter(filter)
	m.cursor = 0
	m.reload()
}

func (m *tuiModel) setStatus(status string, isErr bool) {
	m.status = status
	m.statusErr = isErr
}

func (m *tuiModel) reload() {
	m.tasks = m.store.Visible()
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) selected() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return todo.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *tuiModel) selectID(id int) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	s := m.styles

	b.WriteString(s.Title.Render("Tasks"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		if m.store.Filter() == todo.FilterPending {
			b.WriteString(s.Muted.Render("  Nothing pending. Press a to add a task."))
		} else {
			b.WriteString(s.Muted.Render("  No completed tasks yet."))
		}
		b.WriteString("\n")
	}
	for i, task := range m.tasks {
		b.WriteString(m.renderRow(i, task))
		b.WriteString("\n")
	}

	if m.mode == modeAdd || m.mode == modeEdit {
		b.WriteString("\n")
		b.WriteString(m.renderForm())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(s.Error.Render(m.status))
	} else {
		b.WriteString(s.Status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(s.Muted.Render(footerText))
	b.WriteString("\n")
	return b.String()
}

func (m *tuiModel) renderTabs() string {
	pending, completed := m.store.Counts()
	tabs := []struct {
		filter todo.Filter
		label  string
	}{
		{todo.FilterPending, fmt.Sprintf("1 Pending (%d)", pending)},
		{todo.FilterCompleted, fmt.Sprintf("2 Completed (%d)", completed)},
	}
	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		if tab.filter == m.store.Filter() {
			parts = append(parts, m.styles.TabActive.Render(tab.label))
		} else {
			parts = append(parts, m.styles.TabInactive.Render(tab.label))
		}
	}
	return strings.Join(parts, " ")
}

func (m *tuiModel) renderRow(i int, task todo.Task) string {
	s := m.styles
	cursor := "  "
	current := i == m.cursor && m.mode != modeAdd && m.mode != modeEdit
	if current {
		cursor = "> "
	}

	flag := "   "
	textStyle := s.Row
	if task.Critical {
		flag = "[!]"
		textStyle = s.Critical
	}
	if current {
		if task.Critical {
			textStyle = s.Critical.Underline(true)
		} else {
			textStyle = s.Selected
		}
	}

	maxText := 60
	if m.width > 30 {
		maxText = m.width - 30
	}

	return fmt.Sprintf("%s%s %s %s  %s",
		cursor,
		s.Heat(i, len(m.tasks)).Render("▌"),
		s.Critical.Render(flag),
		s.Due.Render(task.DueDate),
		textStyle.Render(utils.Truncate(task.Text, maxText)),
	)
}

func (m *tuiModel) renderForm() string {
	title := "Add task"
	if m.mode == modeEdit {
		title = fmt.Sprintf("Edit task %d", m.editID)
	}
	s := m.styles
	body := strings.Join([]string{
		s.Selected.Render(title),
		s.Label.Render("Text") + m.inputs[fieldText].View(),
		s.Label.Render("Due") + m.inputs[fieldDue].View(),
	}, "\n")
	return s.Form.Render(body)
}

const footerText = "a add • e edit • c done • x critical • K/J move • d delete • 1/2 tabs • t theme • q quit"

const helpText = "j/k move • enter or c complete • shift+up/down reorder • tab switches tabs and form fields"
