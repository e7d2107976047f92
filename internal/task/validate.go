// Package task holds the rules for turning user input into study tasks and
// for moving tasks between pending and completed.
package task

import (
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/studytrackr/internal/store"
	"github.com/sadopc/studytrackr/internal/timer"
)

// ISODate is the layout tasks are stored with.
const ISODate = "2006-01-02"

// Draft is a validated task that has not been stored yet.
type Draft struct {
	Name     string
	Topic    string
	Duration int // minutes
	Date     string
}

// ValidateNewTask checks raw form input. Name and topic are trimmed and must
// be non-empty, an empty duration means zero minutes, and the due date must
// already be set in ISO form.
func ValidateNewTask(name, topic, durationText, date string) (Draft, error) {
	d := Draft{
		Name:  strings.TrimSpace(name),
		Topic: strings.TrimSpace(topic),
		Date:  strings.TrimSpace(date),
	}

	if d.Name == "" {
		return Draft{}, &ValidationError{Kind: EmptyField, Field: "name"}
	}
	if d.Topic == "" {
		return Draft{}, &ValidationError{Kind: EmptyField, Field: "topic"}
	}

	durationText = strings.TrimSpace(durationText)
	if durationText != "" {
		n, err := parseNonNegative(durationText)
		if err != nil {
			return Draft{}, &ValidationError{Kind: InvalidDuration, Field: "duration", Value: durationText}
		}
		d.Duration = n
	}

	if d.Date == "" {
		return Draft{}, &ValidationError{Kind: MissingDate, Field: "date"}
	}
	if _, err := time.Parse(ISODate, d.Date); err != nil {
		return Draft{}, &ValidationError{Kind: InvalidDate, Field: "date", Value: d.Date}
	}
	return d, nil
}

// ParseMinutes validates a break length typed by the user.
func ParseMinutes(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, &ValidationError{Kind: EmptyField, Field: "break duration"}
	}
	n, err := parseNonNegative(text)
	if err != nil {
		return 0, &ValidationError{Kind: InvalidDuration, Field: "break duration", Value: text}
	}
	return n, nil
}

func parseNonNegative(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > timer.MaxMinutes {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// StatusUpdater is the part of the store ToggleCompletion needs.
type StatusUpdater interface {
	UpdateTaskStatus(id int64, status store.Status) (bool, error)
}

// StatusFor maps a checkbox state to a task status.
func StatusFor(checked bool) store.Status {
	if checked {
		return store.StatusCompleted
	}
	return store.StatusPending
}

// ToggleCompletion persists the status matching checked and returns it.
// A task that no longer exists yields store.ErrNotFound.
func ToggleCompletion(u StatusUpdater, t store.Task, checked bool) (store.Status, error) {
	status := StatusFor(checked)
	ok, err := u.UpdateTaskStatus(t.ID, status)
	if err != nil {
		return t.Status, err
	}
	if !ok {
		return t.Status, store.ErrNotFound
	}
	return status, nil
}
