package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrackr/internal/store"
	"github.com/sadopc/studytrackr/internal/task"
	"github.com/sadopc/studytrackr/internal/timer"
)

const (
	msgTaskFinished  = "Task completed!"
	msgBreakFinished = "Break over! Resume studying."
)

// timerModel drives the study and break countdowns for the selected task.
// The session is shared between value copies of the model; only update
// mutates it.
type timerModel struct {
	store  *store.Store
	width  int
	height int

	session *timer.Session
	pending []store.Task

	// Task picker state
	picking      bool
	pickerCursor int

	formActive bool
	form       *huh.Form
	breakText  *string
}

func newTimerModel(s *store.Store) timerModel {
	text := ""
	return timerModel{
		store:     s,
		session:   timer.NewSession(),
		breakText: &text,
	}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type pendingDataMsg struct {
	tasks []store.Task
	err   error
}

func (t timerModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := t.store.ListTasksByStatus(store.StatusPending)
		return pendingDataMsg{tasks: tasks, err: err}
	}
}

func (t timerModel) taskCountdown() *timer.Countdown  { return t.session.Task() }
func (t timerModel) breakCountdown() *timer.Countdown { return t.session.Break() }

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	// Countdowns keep running behind the break form.
	if tick, ok := msg.(tickMsg); ok {
		return t.tick(time.Time(tick))
	}
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case pendingDataMsg:
		if msg.err != nil {
			return t, errorCmd("list pending tasks", msg.err)
		}
		t.pending = msg.tasks
		if t.pickerCursor >= len(t.pending) {
			t.pickerCursor = max(0, len(t.pending)-1)
		}
		return t, nil

	case tea.KeyMsg:
		if t.picking {
			return t.updatePicker(msg)
		}
		return t.updateKeys(msg, time.Now())
	}
	return t, nil
}

func (t timerModel) tick(now time.Time) (timerModel, tea.Cmd) {
	ev := t.session.Tick(now)
	var cmds []tea.Cmd
	if ev.TaskFinished {
		cmds = append(cmds, statusCmd(msgTaskFinished+" \a"))
	}
	if ev.BreakFinished {
		cmds = append(cmds, statusCmd(msgBreakFinished+" \a"))
	}
	return t, tea.Batch(cmds...)
}

func (t timerModel) updateKeys(msg tea.KeyMsg, now time.Time) (timerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		if len(t.pending) == 0 {
			return t, func() tea.Msg {
				return statusMsg{text: "No pending tasks. Press 1 and n to add one.", isError: true}
			}
		}
		t.picking = true
		t.pickerCursor = 0
		return t, nil

	case key.Matches(msg, keys.Start):
		return t.startTask(now)

	case key.Matches(msg, keys.Toggle):
		return t.togglePause(now)

	case key.Matches(msg, keys.Break):
		return t.showBreakForm()

	case key.Matches(msg, keys.ResetBreak):
		t.session.ResetBreak()
		return t, statusCmd("Break reset")
	}
	return t, nil
}

func (t timerModel) updatePicker(msg tea.KeyMsg) (timerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if t.pickerCursor > 0 {
			t.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if t.pickerCursor < len(t.pending)-1 {
			t.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		t.picking = false
		if t.pickerCursor < len(t.pending) {
			selected := t.pending[t.pickerCursor]
			t.session.Select(&selected)
			return t, statusCmd("Selected " + selected.Name)
		}
	case key.Matches(msg, keys.Back):
		t.picking = false
	}
	return t, nil
}

func (t timerModel) startTask(now time.Time) (timerModel, tea.Cmd) {
	if err := t.session.StartTask(now); err != nil {
		return t, errorCmd("start task timer", err)
	}
	if t.taskCountdown().State() == timer.Finished {
		return t, statusCmd(msgTaskFinished)
	}
	return t, statusCmd("Timer started")
}

func (t timerModel) togglePause(now time.Time) (timerModel, tea.Cmd) {
	switch t.taskCountdown().State() {
	case timer.Running:
		if err := t.session.PauseTask(now); err != nil {
			return t, errorCmd("pause task timer", err)
		}
		return t, statusCmd("Timer paused")
	case timer.Paused:
		if err := t.session.ResumeTask(now); err != nil {
			return t, errorCmd("resume task timer", err)
		}
		return t, statusCmd("Timer resumed")
	}
	return t, errorCmd("pause task timer", timer.ErrInvalidTransition)
}

func (t timerModel) showBreakForm() (timerModel, tea.Cmd) {
	*t.breakText = strconv.Itoa(t.store.IntSetting(store.SettingBreakMinutes, 5))

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Break duration (minutes)").Value(t.breakText),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t timerModel) updateForm(msg tea.Msg) (timerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		t.form = nil
		return t.startBreak(*t.breakText, time.Now())
	}

	return t, cmd
}

func (t timerModel) startBreak(text string, now time.Time) (timerModel, tea.Cmd) {
	mins, err := task.ParseMinutes(text)
	if err != nil {
		if task.IsKind(err, task.EmptyField) {
			return t, func() tea.Msg {
				return statusMsg{text: "Please enter a break duration", isError: true}
			}
		}
		return t, errorCmd("start break", err)
	}
	d, err := timer.Minutes(mins)
	if err != nil {
		return t, errorCmd("start break", err)
	}
	var finished tea.Cmd
	t, finished = t.tick(now)
	if err := t.session.StartBreak(d, now); err != nil {
		return t, tea.Batch(finished, errorCmd("start break", err))
	}
	if t.breakCountdown().State() == timer.Finished {
		return t, tea.Batch(finished, statusCmd(msgBreakFinished))
	}
	return t, tea.Batch(finished, statusCmd(fmt.Sprintf("Break started (%s)", formatMinutes(mins))))
}

func (t timerModel) view() string {
	if t.width < 20 {
		return "Terminal too small"
	}
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := titleStyle.Render("Take a Break")
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View()),
		)
	}

	var bottom string
	if t.picking {
		bottom = t.renderPicker(w)
	} else {
		bottom = t.renderBreakPanel(w)
	}

	return lipgloss.JoinVertical(lipgloss.Left, t.renderTaskPanel(w), bottom)
}

func (t timerModel) renderTaskPanel(w int) string {
	c := t.taskCountdown()
	selected := t.session.Selected()

	taskLine := mutedStyle.Render("No task selected. Press enter to pick one.")
	if selected != nil {
		taskLine = highlightStyle.Render(selected.Name) +
			mutedStyle.Render(fmt.Sprintf(" / %s  (%s)", selected.Topic, formatMinutes(selected.Duration)))
	}

	remaining := c.Remaining()
	if c.State() == timer.Idle && selected != nil {
		if d, err := timer.Minutes(selected.Duration); err == nil {
			remaining = d
		}
	}
	timeStr := timer.Format(remaining)

	var timeDisplay, indicator string
	panel := panelStyle
	switch c.State() {
	case timer.Running:
		timeDisplay = timerRunningStyle.Width(w - 6).Render(timeStr)
		indicator = successStyle.Render("●  STUDYING")
		panel = activePanelStyle
	case timer.Paused:
		timeDisplay = timerPausedStyle.Width(w - 6).Render(timeStr)
		indicator = warningStyle.Render("⏸  PAUSED")
		panel = activePanelStyle
	case timer.Finished:
		timeDisplay = timerRunningStyle.Width(w - 6).Render("Done!")
		indicator = successStyle.Render(strings.ToUpper(msgTaskFinished))
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(timeStr)
		indicator = mutedStyle.Render("■  READY")
	}

	controls := mutedStyle.Render("enter: pick task  s: start  space: pause/resume")

	return panel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Study Timer"),
		"",
		timeDisplay,
		indicator,
		taskLine,
		"",
		controls,
	))
}

func (t timerModel) renderBreakPanel(w int) string {
	c := t.breakCountdown()

	var timeDisplay, indicator string
	switch c.State() {
	case timer.Running:
		timeDisplay = breakStyle.Width(w - 6).Render(timer.Format(c.Remaining()))
		indicator = mutedStyle.Render("on a break")
	case timer.Finished:
		timeDisplay = breakStyle.Width(w - 6).Render("00:00:00")
		indicator = warningStyle.Render(msgBreakFinished)
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(timer.Format(0))
		indicator = mutedStyle.Render("no break running")
	}

	controls := mutedStyle.Render("b: start break  r: reset break")

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Break"),
		timeDisplay,
		indicator,
		"",
		controls,
	))
}

func (t timerModel) renderPicker(w int) string {
	title := titleStyle.Render("Select Task")

	var rows []string
	rows = append(rows, title)
	for i, p := range t.pending {
		style := normalItemStyle
		if i == t.pickerCursor {
			style = selectedItemStyle
		}
		line := fmt.Sprintf("%s%-28s %-16s %s", cursorPrefix(i == t.pickerCursor), truncate(p.Name, 28), truncate(p.Topic, 16), formatMinutes(p.Duration))
		rows = append(rows, style.Render(line))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
