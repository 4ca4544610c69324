package tui

import (
	"fmt"

	"runlab/internal/service"
	"runlab/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WorkoutsModel is the workout list screen model
type WorkoutsModel struct {
	svc      *service.ReportService
	workouts []store.Workout
	cursor   int
	offset   int
	total    int
	pageSize int
	loading  bool
	err      error
}

// NewWorkoutsModel creates a new workout list model
func NewWorkoutsModel(svc *service.ReportService) WorkoutsModel {
	return WorkoutsModel{
		svc:      svc,
		pageSize: 15,
		loading:  true,
	}
}

// Init initializes the workout list screen
func (m WorkoutsModel) Init() tea.Cmd {
	return m.loadPage
}

type workoutsLoadedMsg struct {
	workouts []store.Workout
	total    int
	err      error
}

func (m WorkoutsModel) loadPage() tea.Msg {
	workouts, err := m.svc.ListWorkouts(m.pageSize, m.offset)
	if err != nil {
		return workoutsLoadedMsg{err: err}
	}

	total, err := m.svc.CountWorkouts()
	if err != nil {
		return workoutsLoadedMsg{err: err}
	}

	return workoutsLoadedMsg{workouts: workouts, total: total}
}

// Update handles messages
func (m WorkoutsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workoutsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.workouts = msg.workouts
		m.total = msg.total
		if m.cursor >= len(m.workouts) && len(m.workouts) > 0 {
			m.cursor = len(m.workouts) - 1
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.offset > 0 {
				m.offset -= m.pageSize
				m.cursor = m.pageSize - 1
				m.loading = true
				return m, m.loadPage
			}
		case "down", "j":
			if m.cursor < len(m.workouts)-1 {
				m.cursor++
			} else if m.offset+len(m.workouts) < m.total {
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgup":
			if m.offset > 0 {
				m.offset -= m.pageSize
				if m.offset < 0 {
					m.offset = 0
				}
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgdown":
			if m.offset+m.pageSize < m.total {
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "r":
			m.loading = true
			return m, m.loadPage
		case "enter":
			if len(m.workouts) > 0 && m.cursor < len(m.workouts) {
				id := m.workouts[m.cursor].ID
				return m, func() tea.Msg {
					return OpenWorkoutReportMsg{WorkoutID: id}
				}
			}
		}
	}
	return m, nil
}

// View renders the workout list
func (m WorkoutsModel) View() string {
	if m.loading {
		return "\n  Loading workouts..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.workouts) == 0 {
		return "\n  No workouts found. Import one with: runlab import <file.json>"
	}

	unit := m.svc.UnitMeters()

	var sections []string

	startNum := m.offset + 1
	endNum := m.offset + len(m.workouts)
	title := cardTitleStyle.Render(fmt.Sprintf("Workouts (%d-%d of %d)", startNum, endNum, m.total))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("   %-10s  %-25s  %-9s  %8s  %8s  %6s  %4s",
		"Date", "Name", "Type", "Distance", "Duration", "Pace", "HR"))
	sections = append(sections, header)

	for i, w := range m.workouts {
		pace := "-"
		if w.Duration > 0 && w.Distance > 0 {
			pace = formatPace(float64(w.Duration) / w.Distance * unit)
		}

		hr := "  "
		if w.HasHeartrate {
			hr = "♥ "
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-10s  %-25s  %-9s  %8s  %8s  %6s  %4s",
			cursor,
			w.StartDate.Format("Jan 02"),
			truncateName(w.Name, 25),
			w.Type,
			formatDistance(w.Distance, unit),
			formatDuration(float64(w.Duration)),
			pace,
			hr,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	help := statusStyle.Render("\n  enter: open report  j/k: navigate  pgup/pgdn: page  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func truncateName(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max-1]) + "…"
}
