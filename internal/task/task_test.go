package task

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/studytrackr/internal/store"
	"github.com/sadopc/studytrackr/internal/timer"
)

func TestValidateNewTask(t *testing.T) {
	t.Run("valid input is trimmed", func(t *testing.T) {
		d, err := ValidateNewTask("  Read ch. 3 ", " Biology", "45", "2026-03-01")
		require.NoError(t, err)
		assert.Equal(t, Draft{Name: "Read ch. 3", Topic: "Biology", Duration: 45, Date: "2026-03-01"}, d)
	})

	t.Run("empty duration defaults to zero", func(t *testing.T) {
		d, err := ValidateNewTask("Read", "Biology", "", "2026-03-01")
		require.NoError(t, err)
		assert.Equal(t, 0, d.Duration)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := ValidateNewTask("   ", "Biology", "10", "2026-03-01")
		assert.True(t, IsKind(err, EmptyField))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "name", ve.Field)
	})

	t.Run("empty topic", func(t *testing.T) {
		_, err := ValidateNewTask("Read", "", "10", "2026-03-01")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, EmptyField, ve.Kind)
		assert.Equal(t, "topic", ve.Field)
	})

	t.Run("non-numeric duration", func(t *testing.T) {
		_, err := ValidateNewTask("Read", "Biology", "half an hour", "2026-03-01")
		assert.True(t, IsKind(err, InvalidDuration))
	})

	t.Run("negative duration", func(t *testing.T) {
		_, err := ValidateNewTask("Read", "Biology", "-5", "2026-03-01")
		assert.True(t, IsKind(err, InvalidDuration))
	})

	t.Run("duration too long", func(t *testing.T) {
		for _, v := range []string{"200000000", "400000000", strconv.Itoa(timer.MaxMinutes + 1)} {
			_, err := ValidateNewTask("Read", "Biology", v, "2026-03-01")
			assert.True(t, IsKind(err, InvalidDuration), v)
		}
		d, err := ValidateNewTask("Read", "Biology", strconv.Itoa(timer.MaxMinutes), "2026-03-01")
		require.NoError(t, err)
		assert.Equal(t, timer.MaxMinutes, d.Duration)
	})

	t.Run("missing date", func(t *testing.T) {
		_, err := ValidateNewTask("Read", "Biology", "5", "")
		assert.True(t, IsKind(err, MissingDate))
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := ValidateNewTask("Read", "Biology", "5", "03/01/2026")
		assert.True(t, IsKind(err, InvalidDate))
	})
}

func TestValidationErrorMessages(t *testing.T) {
	assert.Equal(t, "Please fill in the name", (&ValidationError{Kind: EmptyField, Field: "name"}).Message())
	assert.Equal(t, "Invalid duration value", (&ValidationError{Kind: InvalidDuration, Field: "duration"}).Message())
	assert.Equal(t, "Please set a due date", (&ValidationError{Kind: MissingDate, Field: "date"}).Message())
	assert.Equal(t, `duration invalid duration: "x"`, (&ValidationError{Kind: InvalidDuration, Field: "duration", Value: "x"}).Error())
	assert.Equal(t, "date: missing date", (&ValidationError{Kind: MissingDate, Field: "date"}).Error())
}

func TestParseMinutes(t *testing.T) {
	n, err := ParseMinutes(" 15 ")
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	_, err = ParseMinutes("")
	assert.True(t, IsKind(err, EmptyField))

	_, err = ParseMinutes("ten")
	assert.True(t, IsKind(err, InvalidDuration))

	_, err = ParseMinutes("400000000")
	assert.True(t, IsKind(err, InvalidDuration))
}

// fakeUpdater records status updates.
type fakeUpdater struct {
	calls  []store.Status
	exists bool
	err    error
}

func (f *fakeUpdater) UpdateTaskStatus(id int64, status store.Status) (bool, error) {
	f.calls = append(f.calls, status)
	return f.exists, f.err
}

func TestToggleCompletion(t *testing.T) {
	tk := store.Task{ID: 3, Status: store.StatusPending}

	u := &fakeUpdater{exists: true}
	status, err := ToggleCompletion(u, tk, true)
	require.NoError(t, err)
	assert.Equal(t, store.StatusCompleted, status)

	status, err = ToggleCompletion(u, tk, false)
	require.NoError(t, err)
	assert.Equal(t, store.StatusPending, status)
	assert.Equal(t, []store.Status{store.StatusCompleted, store.StatusPending}, u.calls)
}

func TestToggleCompletionMissingTask(t *testing.T) {
	u := &fakeUpdater{exists: false}
	status, err := ToggleCompletion(u, store.Task{ID: 9, Status: store.StatusPending}, true)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, store.StatusPending, status)
}

func TestToggleCompletionStorageError(t *testing.T) {
	boom := &store.StorageError{Op: "update task 1 status", Err: errors.New("disk I/O error")}
	u := &fakeUpdater{err: boom}
	_, err := ToggleCompletion(u, store.Task{ID: 1}, true)
	assert.True(t, store.IsStorageError(err))
}

func TestToggleCompletionAgainstStore(t *testing.T) {
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	id, err := s.CreateTask("Essay", "History", 60, "2026-02-02")
	require.NoError(t, err)
	tk, err := s.GetTask(id)
	require.NoError(t, err)

	_, err = ToggleCompletion(s, *tk, true)
	require.NoError(t, err)

	got, err := s.GetTask(id)
	require.NoError(t, err)
	assert.True(t, got.Completed())
}

func TestParseDueDate(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	got, err := ParseDueDate("2026-11-01", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-11-01", got)

	got, err = ParseDueDate("tomorrow", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18", got)

	_, err = ParseDueDate("", now)
	assert.True(t, IsKind(err, MissingDate))

	_, err = ParseDueDate("zzqx not a date", now)
	assert.True(t, IsKind(err, InvalidDate))
}

func TestFormatDisplayDate(t *testing.T) {
	assert.Equal(t, "Dec 01, 2024", FormatDisplayDate("2024-12-01"))
	assert.Equal(t, "garbage", FormatDisplayDate("garbage"))
}

func TestDueIn(t *testing.T) {
	now := time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "today", DueIn("2026-01-01", now))
	assert.Equal(t, "tomorrow", DueIn("2026-01-02", now))
	assert.Equal(t, "yesterday", DueIn("2025-12-31", now))
	assert.Equal(t, "3 days from now", DueIn("2026-01-04", now))
	assert.Equal(t, "3 days ago", DueIn("2025-12-29", now))
	assert.Equal(t, "", DueIn("nope", now))
}

func TestToday(t *testing.T) {
	assert.Equal(t, "2026-10-17", Today(time.Date(2026, 10, 17, 23, 59, 0, 0, time.UTC)))
}

func TestGroupByDate(t *testing.T) {
	tasks := []store.Task{
		{ID: 1, Date: "2026-01-03", Duration: 10},
		{ID: 2, Date: "2026-01-01", Duration: 20},
		{ID: 3, Date: "2026-01-03", Duration: 5},
		{ID: 4, Date: "2026-01-02", Duration: 0},
	}
	groups := GroupByDate(tasks)
	require.Len(t, groups, 3)

	assert.Equal(t, "2026-01-01", groups[0].Date)
	assert.Equal(t, "2026-01-02", groups[1].Date)
	assert.Equal(t, "2026-01-03", groups[2].Date)
	assert.Equal(t, 15, groups[2].Minutes)
	require.Len(t, groups[2].Tasks, 2)
	assert.Equal(t, int64(1), groups[2].Tasks[0].ID)
	assert.Equal(t, int64(3), groups[2].Tasks[1].ID)

	// Input slice is left untouched.
	assert.Equal(t, int64(1), tasks[0].ID)
}

func TestGroupByDateEmpty(t *testing.T) {
	assert.Nil(t, GroupByDate(nil))
}
