package timer

import (
	"time"

	"github.com/sadopc/studytrackr/internal/store"
)

// Events reports what finished during a Session.Tick.
type Events struct {
	TaskFinished  bool
	BreakFinished bool
}

// Session pairs the countdown for the selected study task with an
// independent break countdown. Starting a break pauses a running task
// countdown; the break itself cannot be paused, only reset.
type Session struct {
	selected *store.Task
	task     Countdown
	brk      Countdown
}

// NewSession returns an idle session with no task selected.
func NewSession() *Session {
	return &Session{}
}

// Select chooses the task the next StartTask will count down. Passing nil
// clears the selection. The running countdown, if any, is left alone.
func (s *Session) Select(t *store.Task) {
	if t == nil {
		s.selected = nil
		return
	}
	cp := *t
	s.selected = &cp
}

func (s *Session) Selected() *store.Task { return s.selected }

func (s *Session) Task() *Countdown  { return &s.task }
func (s *Session) Break() *Countdown { return &s.brk }

// StartTask starts the task countdown from the selected task's duration.
func (s *Session) StartTask(now time.Time) error {
	if s.selected == nil {
		return ErrNoTaskSelected
	}
	d, err := Minutes(s.selected.Duration)
	if err != nil {
		return err
	}
	return s.task.Start(d, now)
}

func (s *Session) PauseTask(now time.Time) error {
	return s.task.Pause(now)
}

func (s *Session) ResumeTask(now time.Time) error {
	return s.task.Resume(now)
}

// StartBreak starts a break of length d, pausing the task countdown first if
// it is still running at now. An active break is replaced.
func (s *Session) StartBreak(d time.Duration, now time.Time) error {
	if d < 0 {
		return ErrNegativeDuration
	}
	s.task.Tick(now)
	if s.task.State() == Running {
		if err := s.task.Pause(now); err != nil {
			return err
		}
	}
	return s.brk.Start(d, now)
}

// ResetBreak cancels the break countdown whatever its state.
func (s *Session) ResetBreak() {
	s.brk.Cancel()
}

// Tick advances both countdowns to now.
func (s *Session) Tick(now time.Time) Events {
	return Events{
		TaskFinished:  s.task.Tick(now),
		BreakFinished: s.brk.Tick(now),
	}
}
