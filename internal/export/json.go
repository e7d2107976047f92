package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/studytrackr/internal/store"
	"github.com/sadopc/studytrackr/internal/task"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Completed  int        `json:"completed"`
	Tasks      []jsonTask `json:"tasks"`
}

type jsonTask struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Topic       string `json:"topic"`
	Status      string `json:"status"`
	DurationMin int    `json:"duration_minutes"`
	Duration    string `json:"duration"`
	Date        string `json:"date"`
	DisplayDate string `json:"display_date"`
}

func ToJSON(tasks []store.Task, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(tasks),
	}

	for _, t := range tasks {
		if t.Completed() {
			export.Completed++
		}
		export.Tasks = append(export.Tasks, jsonTask{
			ID:          t.ID,
			Name:        t.Name,
			Topic:       t.Topic,
			Status:      string(t.Status),
			DurationMin: t.Duration,
			Duration:    formatMinutes(t.Duration),
			Date:        t.Date,
			DisplayDate: task.FormatDisplayDate(t.Date),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
