package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrackr/internal/store"
	"github.com/sadopc/studytrackr/internal/task"
)

var settingLabels = map[string]string{
	store.SettingBreakMinutes:          "Default break",
	store.SettingHideCompletedUpcoming: "Hide completed upcoming",
}

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	breakMinutes  *string
	hideCompleted *bool
}

func newSettingsModel(s *store.Store) settingsModel {
	bm, hide := "", false
	return settingsModel{
		store:         s,
		breakMinutes:  &bm,
		hideCompleted: &hide,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
	err      error
}

// settingsSavedMsg tells other views that a preference they read changed.
type settingsSavedMsg struct{}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings, err: err}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			return s, errorCmd("load settings", msg.err)
		}
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.breakMinutes = strconv.Itoa(s.store.IntSetting(store.SettingBreakMinutes, 5))
	*s.hideCompleted = s.store.BoolSetting(store.SettingHideCompletedUpcoming, false)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Default break (min)").
				Validate(func(v string) error {
					if _, err := task.ParseMinutes(v); err != nil {
						return errors.New("enter a whole number of minutes")
					}
					return nil
				}).
				Value(s.breakMinutes),
			huh.NewConfirm().Title("Hide completed tasks in Upcoming?").
				Affirmative("Yes").
				Negative("No").
				Value(s.hideCompleted),
		).Title("Preferences"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.save(); err != nil {
			return s, errorCmd("save settings", err)
		}
		return s, tea.Batch(
			s.refresh(),
			func() tea.Msg { return settingsSavedMsg{} },
			statusCmd("Settings saved"),
		)
	}

	return s, cmd
}

func (s settingsModel) save() error {
	mins, err := task.ParseMinutes(*s.breakMinutes)
	if err != nil {
		return err
	}
	if err := s.store.SetSetting(store.SettingBreakMinutes, strconv.Itoa(mins)); err != nil {
		return err
	}
	return s.store.SetSetting(store.SettingHideCompletedUpcoming, strconv.FormatBool(*s.hideCompleted))
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(26).Render(settingLabel(setting.Key))
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingLabel(k string) string {
	if l, ok := settingLabels[k]; ok {
		return l
	}
	return k
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingBreakMinutes:
		if mins, err := strconv.Atoi(v); err == nil {
			return formatMinutes(mins)
		}
	case store.SettingHideCompletedUpcoming:
		if b, err := strconv.ParseBool(v); err == nil {
			if b {
				return "yes"
			}
			return "no"
		}
	}
	return v
}
