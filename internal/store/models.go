package store

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

type Task struct {
	ID       int64
	Name     string
	Topic    string
	Status   Status
	Duration int    // minutes
	Date     string // due date, yyyy-MM-dd
}

// Completed reports whether the task is marked done.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

type Setting struct {
	Key   string
	Value string
}

// Setting keys and their defaults, seeded by the v2 migration.
const (
	SettingBreakMinutes          = "break_minutes"
	SettingHideCompletedUpcoming = "hide_completed_upcoming"
)
