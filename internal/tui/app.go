package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrackr/internal/export"
	"github.com/sadopc/studytrackr/internal/logging"
	"github.com/sadopc/studytrackr/internal/store"
	"github.com/sadopc/studytrackr/internal/timer"
)

// App is the root Bubble Tea model.
type App struct {
	store     *store.Store
	exportDir string
	width     int
	height    int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	upcoming upcomingModel
	history  historyModel
	timer    timerModel
	settings settingsModel

	help        help.Model
	status      string
	statusError bool
}

// NewApp builds the root model. Exports are written to exportDir.
func NewApp(s *store.Store, exportDir string) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		exportDir:  exportDir,
		activeView: viewUpcoming,
		upcoming:   newUpcomingModel(s),
		history:    newHistoryModel(s),
		timer:      newTimerModel(s),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.upcoming.refresh(),
		a.timer.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.upcoming.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.timer.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, a.history.refresh()

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewUpcoming)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewHistory)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewTimer)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// Countdowns keep running whichever view is visible.
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case tasksChangedMsg:
		a.status = msg.text
		a.statusError = false
		slog.Debug("tasks changed", logging.KeyStatus, msg.text)
		return a, a.refreshAll()

	case settingsSavedMsg:
		return a, a.upcoming.refresh()

	case exportDoneMsg:
		a.status = fmt.Sprintf("Exported %d tasks to %s", msg.count, msg.path)
		a.statusError = false
		a.exportPicking = false
		return a, nil

	// Data messages go to their owner even when another view is active.
	case upcomingDataMsg:
		var cmd tea.Cmd
		a.upcoming, cmd = a.upcoming.update(msg)
		return a, cmd
	case historyDataMsg:
		var cmd tea.Cmd
		a.history, cmd = a.history.update(msg)
		return a, cmd
	case pendingDataMsg:
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		return a, cmd
	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewUpcoming:
		a.upcoming, cmd = a.upcoming.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewUpcoming:
		return a.upcoming.formActive
	case viewTimer:
		return a.timer.formActive || a.timer.picking
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewUpcoming:
		return a.upcoming.refresh()
	case viewHistory:
		return a.history.refresh()
	case viewTimer:
		return a.timer.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) refreshAll() tea.Cmd {
	return tea.Batch(
		a.upcoming.refresh(),
		a.history.refresh(),
		a.timer.refresh(),
	)
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewUpcoming:
		content = a.upcoming.view()
	case viewHistory:
		content = a.history.view()
	case viewTimer:
		content = a.timer.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render(store.AppName)
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + strings.TrimSuffix(a.status, " \a"))
	}

	left := footerStyle.Render(helpView)
	right := a.countdownIndicator() + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

// countdownIndicator shows the live countdowns while another view is open.
func (a App) countdownIndicator() string {
	var parts []string
	tc := a.timer.taskCountdown()
	switch tc.State() {
	case timer.Running:
		parts = append(parts, successStyle.Render("● "+timer.Format(tc.Remaining())))
	case timer.Paused:
		parts = append(parts, warningStyle.Render("⏸ "+timer.Format(tc.Remaining())))
	}
	if bc := a.timer.breakCountdown(); bc.State() == timer.Running {
		parts = append(parts, breakStyle.Render("☕ "+timer.Format(bc.Remaining())))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Tasks")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range export.Formats {
		style := normalItemStyle
		if i == a.exportCursor {
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursorPrefix(i == a.exportCursor)+strings.ToUpper(string(f))))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  to "+a.exportDir))
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(f export.Format) tea.Cmd {
	return func() tea.Msg {
		tasks, err := a.store.ListTasks()
		if err != nil {
			return errorStatus("export tasks", err)
		}

		path := export.DefaultPath(a.exportDir, f, time.Now())
		if err := export.Tasks(tasks, f, path); err != nil {
			slog.Error("export failed", logging.KeyOp, "export "+string(f), logging.KeyError, err)
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		slog.Info("exported tasks", "path", path, "count", len(tasks))
		return exportDoneMsg{path: path, count: len(tasks)}
	}
}
