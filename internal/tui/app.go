package tui

import (
	"runlab/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenWorkouts Screen = iota
	ScreenReport
	ScreenThreshold
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	workouts  WorkoutsModel
	report    ReportModel
	threshold ThresholdModel
	help      HelpModel

	svc *service.ReportService

	// Window dimensions
	width  int
	height int
}

// NewApp creates a new App with all dependencies
func NewApp(svc *service.ReportService) *App {
	return &App{
		screen:    ScreenWorkouts,
		svc:       svc,
		workouts:  NewWorkoutsModel(svc),
		threshold: NewThresholdModel(svc),
		help:      NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.workouts.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "1":
			a.screen = ScreenWorkouts
			return a, a.workouts.Init()
		case "2":
			a.screen = ScreenThreshold
			return a, a.threshold.Init()
		case "?":
			if a.screen != ScreenHelp {
				a.prevScreen = a.screen
				a.screen = ScreenHelp
			}
			return a, nil
		case "esc":
			switch a.screen {
			case ScreenHelp:
				a.screen = a.prevScreen
				return a, nil
			case ScreenReport:
				a.screen = ScreenWorkouts
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case OpenWorkoutReportMsg:
		a.report = NewReportModel(a.svc, msg.WorkoutID, a.width, a.height)
		a.screen = ScreenReport
		return a, a.report.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenWorkouts:
		var m tea.Model
		m, cmd = a.workouts.Update(msg)
		a.workouts = m.(WorkoutsModel)
	case ScreenReport:
		var m tea.Model
		m, cmd = a.report.Update(msg)
		a.report = m.(ReportModel)
	case ScreenThreshold:
		var m tea.Model
		m, cmd = a.threshold.Update(msg)
		a.threshold = m.(ThresholdModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := headerStyle.Render("runlab")
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenWorkouts:
		content = a.workouts.View()
	case ScreenReport:
		content = a.report.View()
	case ScreenThreshold:
		content = a.threshold.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content)
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Workouts", ScreenWorkouts},
		{"2", "Threshold", ScreenThreshold},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		active := a.screen == item.screen ||
			(item.screen == ScreenWorkouts && a.screen == ScreenReport)
		if active {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

// OpenWorkoutReportMsg asks the app to open one workout's report.
type OpenWorkoutReportMsg struct {
	WorkoutID int64
}
