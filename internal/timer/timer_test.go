package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/studytrackr/internal/store"
)

var t0 = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

func TestCountdownTick(t *testing.T) {
	var c Countdown
	require.NoError(t, c.Start(5*time.Second, t0))
	assert.Equal(t, Running, c.State())

	finished := c.Tick(t0.Add(time.Second))
	assert.False(t, finished)
	assert.Equal(t, 4*time.Second, c.Remaining())

	finished = c.Tick(t0.Add(5 * time.Second))
	assert.True(t, finished)
	assert.Equal(t, Finished, c.State())
	assert.Equal(t, time.Duration(0), c.Remaining())

	// Further ticks are ignored.
	assert.False(t, c.Tick(t0.Add(10*time.Second)))
}

func TestCountdownLateTickDoesNotDrift(t *testing.T) {
	var c Countdown
	require.NoError(t, c.Start(10*time.Second, t0))
	c.Tick(t0.Add(1500 * time.Millisecond))
	assert.Equal(t, 8500*time.Millisecond, c.Remaining())
	c.Tick(t0.Add(3 * time.Second))
	assert.Equal(t, 7*time.Second, c.Remaining())
}

func TestCountdownStartZeroFinishes(t *testing.T) {
	var c Countdown
	require.NoError(t, c.Start(0, t0))
	assert.Equal(t, Finished, c.State())
}

func TestCountdownStartNegative(t *testing.T) {
	var c Countdown
	assert.ErrorIs(t, c.Start(-time.Second, t0), ErrNegativeDuration)
	assert.Equal(t, Idle, c.State())
}

func TestCountdownPauseResumePreservesRemaining(t *testing.T) {
	var c Countdown
	require.NoError(t, c.Start(time.Minute, t0))
	c.Tick(t0.Add(10 * time.Second))

	require.NoError(t, c.Pause(t0.Add(12*time.Second)))
	assert.Equal(t, Paused, c.State())
	assert.Equal(t, 48*time.Second, c.Remaining())

	// Ticks while paused change nothing.
	c.Tick(t0.Add(40 * time.Second))
	assert.Equal(t, 48*time.Second, c.Remaining())

	resumeAt := t0.Add(5 * time.Minute)
	require.NoError(t, c.Resume(resumeAt))
	assert.Equal(t, Running, c.State())
	assert.Equal(t, 48*time.Second, c.Remaining())
	assert.Equal(t, time.Minute, c.Total())

	c.Tick(resumeAt.Add(time.Second))
	assert.Equal(t, 47*time.Second, c.Remaining())
}

func TestCountdownInvalidTransitions(t *testing.T) {
	var c Countdown
	assert.ErrorIs(t, c.Pause(t0), ErrInvalidTransition)
	assert.ErrorIs(t, c.Resume(t0), ErrInvalidTransition)

	require.NoError(t, c.Start(time.Minute, t0))
	assert.ErrorIs(t, c.Resume(t0), ErrInvalidTransition)

	require.NoError(t, c.Pause(t0))
	assert.ErrorIs(t, c.Pause(t0), ErrInvalidTransition)
}

func TestCountdownCancel(t *testing.T) {
	var c Countdown
	require.NoError(t, c.Start(time.Minute, t0))
	c.Cancel()
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, time.Duration(0), c.Remaining())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "paused", Paused.String())
	assert.Equal(t, "finished", Finished.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{999 * time.Millisecond, "00:00:00"},
		{time.Second, "00:00:01"},
		{61 * time.Second, "00:01:01"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{25 * time.Hour, "25:00:00"},
		{-time.Second, "00:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.d), "Format(%v)", tt.d)
	}
}

// ============================================================
// Session
// ============================================================

func TestSessionStartTaskRequiresSelection(t *testing.T) {
	s := NewSession()
	assert.ErrorIs(t, s.StartTask(t0), ErrNoTaskSelected)
}

func TestSessionStartTaskUsesMinutes(t *testing.T) {
	s := NewSession()
	s.Select(&store.Task{ID: 1, Name: "Read", Duration: 25})
	require.NoError(t, s.StartTask(t0))
	assert.Equal(t, 25*time.Minute, s.Task().Remaining())
	assert.Equal(t, Running, s.Task().State())
}

func TestSessionSelectCopiesTask(t *testing.T) {
	s := NewSession()
	tk := &store.Task{ID: 1, Name: "Read", Duration: 25}
	s.Select(tk)
	tk.Duration = 99
	assert.Equal(t, 25, s.Selected().Duration)

	s.Select(nil)
	assert.Nil(t, s.Selected())
}

func TestSessionZeroDurationTaskFinishes(t *testing.T) {
	s := NewSession()
	s.Select(&store.Task{ID: 1, Duration: 0})
	require.NoError(t, s.StartTask(t0))
	assert.Equal(t, Finished, s.Task().State())
}

func TestSessionBreakPausesRunningTask(t *testing.T) {
	s := NewSession()
	s.Select(&store.Task{ID: 1, Duration: 1})
	require.NoError(t, s.StartTask(t0))
	s.Tick(t0.Add(20 * time.Second))

	require.NoError(t, s.StartBreak(5*time.Minute, t0.Add(20*time.Second)))
	assert.Equal(t, Paused, s.Task().State())
	assert.Equal(t, 40*time.Second, s.Task().Remaining())
	assert.Equal(t, Running, s.Break().State())

	ev := s.Tick(t0.Add(20*time.Second + 5*time.Minute))
	assert.True(t, ev.BreakFinished)
	assert.False(t, ev.TaskFinished)
	assert.Equal(t, 40*time.Second, s.Task().Remaining())
}

func TestSessionBreakLeavesPausedTaskAlone(t *testing.T) {
	s := NewSession()
	s.Select(&store.Task{ID: 1, Duration: 1})
	require.NoError(t, s.StartTask(t0))
	require.NoError(t, s.PauseTask(t0.Add(time.Second)))
	require.NoError(t, s.StartBreak(time.Minute, t0.Add(2*time.Second)))
	assert.Equal(t, Paused, s.Task().State())
}

func TestSessionBreakAfterTaskDeadline(t *testing.T) {
	s := NewSession()
	s.Select(&store.Task{ID: 1, Duration: 1})
	require.NoError(t, s.StartTask(t0))

	require.NoError(t, s.StartBreak(5*time.Minute, t0.Add(2*time.Minute)))
	assert.Equal(t, Finished, s.Task().State())
	assert.Equal(t, time.Duration(0), s.Task().Remaining())
	assert.Equal(t, Running, s.Break().State())
}

func TestMinutes(t *testing.T) {
	d, err := Minutes(90)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	d, err = Minutes(MaxMinutes)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(MaxMinutes)*time.Minute, d)

	_, err = Minutes(-1)
	assert.ErrorIs(t, err, ErrNegativeDuration)

	_, err = Minutes(MaxMinutes + 1)
	assert.ErrorIs(t, err, ErrDurationTooLong)
}

func TestSessionStartTaskTooLong(t *testing.T) {
	s := NewSession()
	s.Select(&store.Task{ID: 1, Duration: 400000000})
	assert.ErrorIs(t, s.StartTask(t0), ErrDurationTooLong)
	assert.Equal(t, Idle, s.Task().State())
}

func TestSessionBreakNegative(t *testing.T) {
	s := NewSession()
	assert.ErrorIs(t, s.StartBreak(-time.Minute, t0), ErrNegativeDuration)
}

func TestSessionResetBreak(t *testing.T) {
	s := NewSession()
	s.ResetBreak()
	assert.Equal(t, Idle, s.Break().State())

	require.NoError(t, s.StartBreak(time.Minute, t0))
	s.ResetBreak()
	assert.Equal(t, Idle, s.Break().State())

	require.NoError(t, s.StartBreak(0, t0))
	assert.Equal(t, Finished, s.Break().State())
	s.ResetBreak()
	assert.Equal(t, Idle, s.Break().State())
}

func TestSessionTaskFinishes(t *testing.T) {
	s := NewSession()
	s.Select(&store.Task{ID: 1, Duration: 1})
	require.NoError(t, s.StartTask(t0))
	require.NoError(t, s.PauseTask(t0.Add(30*time.Second)))
	require.NoError(t, s.ResumeTask(t0.Add(time.Hour)))

	ev := s.Tick(t0.Add(time.Hour + 30*time.Second))
	assert.True(t, ev.TaskFinished)
	assert.Equal(t, Finished, s.Task().State())
}
