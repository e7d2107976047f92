package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrackr/internal/logging"
	"github.com/sadopc/studytrackr/internal/store"
	"github.com/sadopc/studytrackr/internal/task"
)

type upcomingModel struct {
	store  *store.Store
	width  int
	height int

	tasks         []store.Task
	cursor        int
	hideCompleted bool

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName     *string
	formTopic    *string
	formDuration *string
	formDate     *string

	// editing is nil while adding a new task.
	editing *store.Task
}

func newUpcomingModel(s *store.Store) upcomingModel {
	name, topic, dur, date := "", "", "", ""
	return upcomingModel{
		store:        s,
		formName:     &name,
		formTopic:    &topic,
		formDuration: &dur,
		formDate:     &date,
	}
}

func (u *upcomingModel) setSize(w, h int) {
	u.width = w
	u.height = h
}

type upcomingDataMsg struct {
	tasks         []store.Task
	hideCompleted bool
	err           error
}

func (u upcomingModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := u.store.ListTasksDueOnOrAfter(task.Today(time.Now()))
		hide := u.store.BoolSetting(store.SettingHideCompletedUpcoming, false)
		return upcomingDataMsg{tasks: tasks, hideCompleted: hide, err: err}
	}
}

// visible is the list the cursor moves over.
func (u upcomingModel) visible() []store.Task {
	if !u.hideCompleted {
		return u.tasks
	}
	var out []store.Task
	for _, t := range u.tasks {
		if !t.Completed() {
			out = append(out, t)
		}
	}
	return out
}

func (u upcomingModel) selected() (store.Task, bool) {
	list := u.visible()
	if u.cursor < 0 || u.cursor >= len(list) {
		return store.Task{}, false
	}
	return list[u.cursor], true
}

func (u upcomingModel) update(msg tea.Msg) (upcomingModel, tea.Cmd) {
	if u.formActive && u.form != nil {
		return u.updateForm(msg)
	}

	switch msg := msg.(type) {
	case upcomingDataMsg:
		if msg.err != nil {
			return u, errorCmd("list upcoming tasks", msg.err)
		}
		u.tasks = msg.tasks
		u.hideCompleted = msg.hideCompleted
		if n := len(u.visible()); u.cursor >= n {
			u.cursor = max(0, n-1)
		}
		return u, nil

	case tea.KeyMsg:
		return u.updateList(msg)
	}
	return u, nil
}

func (u upcomingModel) updateList(msg tea.KeyMsg) (upcomingModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if u.cursor > 0 {
			u.cursor--
		}
	case key.Matches(msg, keys.Down):
		if u.cursor < len(u.visible())-1 {
			u.cursor++
		}
	case key.Matches(msg, keys.New):
		return u.showNewForm()
	case key.Matches(msg, keys.Enter):
		if t, ok := u.selected(); ok {
			return u.showEditForm(t)
		}
	case key.Matches(msg, keys.Toggle):
		if t, ok := u.selected(); ok {
			return u, u.toggle(t)
		}
	case key.Matches(msg, keys.Delete):
		if t, ok := u.selected(); ok {
			return u, u.delete(t)
		}
	}
	return u, nil
}

func (u upcomingModel) toggle(t store.Task) tea.Cmd {
	return func() tea.Msg {
		status, err := task.ToggleCompletion(u.store, t, !t.Completed())
		if err != nil {
			return errorStatus("toggle task", err)
		}
		slog.Debug("task toggled", logging.KeyTaskID, t.ID, logging.KeyStatus, status)
		return tasksChangedMsg{text: "Task marked as " + string(status)}
	}
}

func (u upcomingModel) delete(t store.Task) tea.Cmd {
	return func() tea.Msg {
		ok, err := u.store.DeleteTask(t.ID)
		if err != nil {
			return errorStatus("delete task", err)
		}
		if !ok {
			return errorStatus("delete task", store.ErrNotFound)
		}
		slog.Debug("task deleted", logging.KeyTaskID, t.ID)
		return tasksChangedMsg{text: "Task deleted"}
	}
}

func (u upcomingModel) showNewForm() (upcomingModel, tea.Cmd) {
	*u.formName = ""
	*u.formTopic = ""
	*u.formDuration = ""
	*u.formDate = task.Today(time.Now())
	u.editing = nil
	return u.openForm()
}

func (u upcomingModel) showEditForm(t store.Task) (upcomingModel, tea.Cmd) {
	*u.formName = t.Name
	*u.formTopic = t.Topic
	*u.formDuration = strconv.Itoa(t.Duration)
	*u.formDate = t.Date
	u.editing = &t
	return u.openForm()
}

func (u upcomingModel) openForm() (upcomingModel, tea.Cmd) {
	u.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task Name").Value(u.formName),
			huh.NewInput().Title("Topic").Value(u.formTopic),
			huh.NewInput().Title("Duration (minutes)").Placeholder("0").Value(u.formDuration),
			huh.NewInput().Title("Due Date").
				Description("YYYY-MM-DD, or something like \"tomorrow\" or \"next friday\"").
				Value(u.formDate),
		),
	).WithShowHelp(true).WithShowErrors(true)

	u.formActive = true
	return u, u.form.Init()
}

func (u upcomingModel) updateForm(msg tea.Msg) (upcomingModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			u.formActive = false
			u.form = nil
			return u, nil
		}
	}

	form, cmd := u.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		u.form = f
	}

	if u.form.State == huh.StateCompleted {
		u.formActive = false
		return u.submit()
	}

	return u, cmd
}

// submit validates the completed form. Invalid input reopens the form with
// the values the user typed.
func (u upcomingModel) submit() (upcomingModel, tea.Cmd) {
	draft, err := u.draft(time.Now())
	if err != nil {
		var cmd tea.Cmd
		u, cmd = u.openForm()
		return u, tea.Batch(cmd, errorCmd("validate task", err))
	}
	u.form = nil

	if u.editing == nil {
		return u, func() tea.Msg {
			id, err := u.store.CreateTask(draft.Name, draft.Topic, draft.Duration, draft.Date)
			if err != nil {
				return errorStatus("create task", err)
			}
			slog.Debug("task created", logging.KeyTaskID, id)
			return tasksChangedMsg{text: "Task added"}
		}
	}

	t := *u.editing
	return u, func() tea.Msg {
		ok, err := u.store.UpdateTask(t.ID, draft.Name, draft.Topic, t.Status, draft.Duration, draft.Date)
		if err != nil {
			return errorStatus("update task", err)
		}
		if !ok {
			return errorStatus("update task", store.ErrNotFound)
		}
		slog.Debug("task updated", logging.KeyTaskID, t.ID)
		return tasksChangedMsg{text: "Task updated"}
	}
}

func (u upcomingModel) draft(now time.Time) (task.Draft, error) {
	date := strings.TrimSpace(*u.formDate)
	if date != "" {
		iso, err := task.ParseDueDate(date, now)
		if err != nil {
			return task.Draft{}, err
		}
		date = iso
	}
	return task.ValidateNewTask(*u.formName, *u.formTopic, *u.formDuration, date)
}

func (u upcomingModel) view() string {
	w := u.width - 4

	if u.formActive && u.form != nil {
		title := titleStyle.Render("New Task")
		if u.editing != nil {
			title = titleStyle.Render("Edit Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", u.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Upcoming Tasks")
	list := u.visible()

	if len(list) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No upcoming tasks. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	now := time.Now()
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("      %-28s %-16s %8s  %s", "Task", "Topic", "Duration", "Due")))

	for i, t := range list {
		style := normalItemStyle
		if t.Completed() {
			style = doneItemStyle
		}
		if i == u.cursor {
			style = selectedItemStyle
		}
		line := fmt.Sprintf("%-28s %-16s %8s  %-13s",
			truncate(t.Name, 28),
			truncate(t.Topic, 16),
			formatMinutes(t.Duration),
			task.FormatDisplayDate(t.Date),
		)
		rows = append(rows, cursorPrefix(i == u.cursor)+checkbox(t)+" "+style.Render(line)+" "+highlightStyle.Render(task.DueIn(t.Date, now)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  space: done/undo  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
