package task

import (
	"sort"

	"github.com/sadopc/studytrackr/internal/store"
)

// DateGroup is one day of completed-task history.
type DateGroup struct {
	Date    string
	Tasks   []store.Task
	Minutes int
}

// GroupByDate buckets tasks by due date. Groups come back in ascending date
// order and tasks keep their relative order within a group.
func GroupByDate(tasks []store.Task) []DateGroup {
	sorted := make([]store.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	var groups []DateGroup
	for _, t := range sorted {
		if n := len(groups); n == 0 || groups[n-1].Date != t.Date {
			groups = append(groups, DateGroup{Date: t.Date})
		}
		g := &groups[len(groups)-1]
		g.Tasks = append(g.Tasks, t)
		g.Minutes += t.Duration
	}
	return groups
}
