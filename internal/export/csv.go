package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/studytrackr/internal/store"
)

var csvHeader = []string{"ID", "Name", "Topic", "Status", "Duration (min)", "Duration", "Due Date"}

func ToCSV(tasks []store.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range tasks {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Name,
			t.Topic,
			string(t.Status),
			strconv.Itoa(t.Duration),
			formatMinutes(t.Duration),
			t.Date,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// formatMinutes renders a minute count as HH:MM.
func formatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
