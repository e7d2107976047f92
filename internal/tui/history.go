package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrackr/internal/store"
	"github.com/sadopc/studytrackr/internal/task"
)

// chartDays caps how many of the most recent completion dates get a bar.
const chartDays = 7

type historyModel struct {
	store  *store.Store
	width  int
	height int

	groups []task.DateGroup
	offset int // first group shown in the list

	chart barchart.Model
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store: s,
		chart: barchart.New(60, 10),
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

type historyDataMsg struct {
	groups []task.DateGroup
	err    error
}

func (h historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := h.store.ListTasksByStatus(store.StatusCompleted)
		if err != nil {
			return historyDataMsg{err: err}
		}
		return historyDataMsg{groups: task.GroupByDate(tasks)}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		if msg.err != nil {
			return h, errorCmd("list completed tasks", msg.err)
		}
		h.groups = msg.groups
		if h.offset >= len(h.groups) {
			h.offset = max(0, len(h.groups)-1)
		}
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.offset > 0 {
				h.offset--
			}
		case key.Matches(msg, keys.Down):
			if h.offset < len(h.groups)-1 {
				h.offset++
			}
		}
	}
	return h, nil
}

func (h *historyModel) buildChart() {
	chartWidth := h.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8
	if h.height > 30 {
		chartHeight = 12
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	groups := h.groups
	if len(groups) > chartDays {
		groups = groups[len(groups)-chartDays:]
	}

	var bars []barchart.BarData
	for _, g := range groups {
		label := g.Date
		if t, err := time.Parse(task.ISODate, g.Date); err == nil {
			label = t.Format("Jan 02")
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  "minutes",
				Value: float64(g.Minutes),
				Style: lipgloss.NewStyle().Foreground(colorPrimary),
			}},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) totals() (count, minutes int) {
	for _, g := range h.groups {
		count += len(g.Tasks)
		minutes += g.Minutes
	}
	return count, minutes
}

func (h historyModel) view() string {
	w := h.width - 4
	title := titleStyle.Render("History")

	if len(h.groups) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No completed tasks yet."),
		)
		return panelStyle.Width(w).Render(content)
	}

	count, minutes := h.totals()
	summary := mutedStyle.Render(fmt.Sprintf("%d tasks, %s studied", count, formatMinutes(minutes)))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", summary)

	nav := mutedStyle.Render("  ↑/↓: scroll dates")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), "", h.renderGroups(w), "", nav,
		),
	)
}

func (h historyModel) renderGroups(w int) string {
	var rows []string
	for i, g := range h.groups[h.offset:] {
		if i > 0 {
			rows = append(rows, "")
		}
		rows = append(rows, sectionStyle.Render("Completed Tasks: "+task.FormatDisplayDate(g.Date)))
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-28s %-18s %14s", "Task Name", "Topic", "Duration (min)")))
		rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 62)))))
		for _, t := range g.Tasks {
			rows = append(rows, fmt.Sprintf("  %-28s %-18s %14d", truncate(t.Name, 28), truncate(t.Topic, 18), t.Duration))
		}
	}
	return strings.Join(rows, "\n")
}
