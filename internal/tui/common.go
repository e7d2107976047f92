package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/studytrackr/internal/logging"
	"github.com/sadopc/studytrackr/internal/store"
	"github.com/sadopc/studytrackr/internal/task"
	"github.com/sadopc/studytrackr/internal/timer"
)

// viewState represents the currently active view.
type viewState int

const (
	viewUpcoming viewState = iota
	viewHistory
	viewTimer
	viewSettings
)

var viewNames = []string{"Upcoming", "History", "Timer", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path  string
	count int
}

// tasksChangedMsg is sent after a successful write to the tasks table so that
// every view holding a copy of the rows reloads.
type tasksChangedMsg struct {
	text string
}

// --- Helpers ---

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(op string, err error) tea.Cmd {
	msg := errorStatus(op, err)
	return func() tea.Msg { return msg }
}

// errorStatus turns an operation error into the message shown in the footer.
// Storage failures are logged; everything else is a user mistake and is only
// displayed.
func errorStatus(op string, err error) statusMsg {
	var ve *task.ValidationError
	switch {
	case errors.As(err, &ve):
		return statusMsg{text: ve.Message(), isError: true}
	case errors.Is(err, store.ErrNotFound):
		return statusMsg{text: "That task no longer exists", isError: true}
	case errors.Is(err, timer.ErrNoTaskSelected):
		return statusMsg{text: "Select a task first (enter)", isError: true}
	case errors.Is(err, timer.ErrInvalidTransition):
		return statusMsg{text: "Nothing to pause or resume", isError: true}
	case errors.Is(err, timer.ErrNegativeDuration), errors.Is(err, timer.ErrDurationTooLong):
		return statusMsg{text: "Invalid duration value", isError: true}
	case store.IsStorageError(err):
		slog.Error("storage failure", logging.KeyOp, op, logging.KeyError, err)
		return statusMsg{text: "Could not save changes, see log for details", isError: true}
	}
	slog.Error("unexpected error", logging.KeyOp, op, logging.KeyError, err)
	return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
}

func formatMinutes(mins int) string {
	if mins == 1 {
		return "1 min"
	}
	return fmt.Sprintf("%d min", mins)
}

func cursorPrefix(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}

func checkbox(t store.Task) string {
	if t.Completed() {
		return checkedStyle.Render("[x]")
	}
	return mutedStyle.Render("[ ]")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
