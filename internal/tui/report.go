package tui

import (
	"fmt"
	"strings"

	"runlab/internal/analysis"
	"runlab/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// ReportModel is the per-workout report screen model
type ReportModel struct {
	svc       *service.ReportService
	workoutID int64
	report    *service.WorkoutReport
	viewport  viewport.Model
	loading   bool
	err       error
	width     int
	height    int
	ready     bool
}

// NewReportModel creates a new report model
func NewReportModel(svc *service.ReportService, workoutID int64, width, height int) ReportModel {
	m := ReportModel{
		svc:       svc,
		workoutID: workoutID,
		loading:   true,
		width:     width,
		height:    height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.ready = true
	}

	return m
}

// Init initializes the report screen
func (m ReportModel) Init() tea.Cmd {
	return m.loadReport
}

type reportLoadedMsg struct {
	report *service.WorkoutReport
	err    error
}

func (m ReportModel) loadReport() tea.Msg {
	report, err := m.svc.WorkoutReport(m.workoutID)
	if err != nil {
		return reportLoadedMsg{err: err}
	}
	return reportLoadedMsg{report: report}
}

// Update handles messages
func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.report = msg.report
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.report != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadReport
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the report screen
func (m ReportModel) View() string {
	if m.loading {
		return "\n  Loading report..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  esc: back to list  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m ReportModel) renderContent() string {
	if m.report == nil {
		return "No data"
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderConditions())

	if len(m.report.Splits) > 0 {
		sections = append(sections, m.renderSplits())
	}
	if len(m.report.Splits) > 2 {
		sections = append(sections, m.renderSplitChart())
	}

	if m.report.PaceZones != nil {
		sections = append(sections, m.renderPaceLadder())
	}
	if m.report.PaceDist != nil {
		sections = append(sections, m.renderDistribution(
			fmt.Sprintf("Time in Pace Zones (%s)", distSourceLabel(m.report.PaceDistSource)),
			m.report.PaceDist, zoneColors))
	}
	if m.report.HRDist != nil {
		sections = append(sections, m.renderDistribution(
			fmt.Sprintf("Time in HR Bands (max HR %.0f, %s)", m.report.MaxHR, distSourceLabel(m.report.HRDistSource)),
			m.report.HRDist, hrBandColors))
	}

	if m.report.BestSegment != nil {
		sections = append(sections, m.renderBestSegment())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func distSourceLabel(source string) string {
	if source == service.SourceLaps {
		return "from laps"
	}
	return "from stream"
}

func (m ReportModel) renderHeader() string {
	w := m.report.Workout
	unit := m.report.UnitMeters

	title := cardTitleStyle.Render(w.Name)
	date := w.StartDate.Format("Monday, January 2, 2006 at 3:04 PM")
	subtitle := mutedStyle.Render(date + "  ·  " + w.Type)

	pace := "-"
	if w.Duration > 0 && w.Distance > 0 {
		pace = formatPace(float64(w.Duration)/w.Distance*unit) + paceLabel(unit)
	}
	stats := fmt.Sprintf("%s  •  %s  •  %s",
		formatDistance(w.Distance, unit), formatDuration(float64(w.Duration)), pace)
	statsLine := lipgloss.NewStyle().Foreground(textColor).Bold(true).Render(stats)

	var extra []string
	if m.report.VDOT != nil {
		extra = append(extra, fmt.Sprintf("VDOT %.1f", *m.report.VDOT))
	}
	if w.AvgHeartrate != nil {
		extra = append(extra, fmt.Sprintf("avg HR %.0f", *w.AvgHeartrate))
	}
	if w.ElevationGain != nil && *w.ElevationGain > 0 {
		extra = append(extra, fmt.Sprintf("+%.0f m", *w.ElevationGain))
	}

	lines := []string{"", title, subtitle, statsLine}
	if len(extra) > 0 {
		lines = append(lines, mutedStyle.Render(strings.Join(extra, "  ·  ")))
	}
	lines = append(lines, "")
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m ReportModel) renderConditions() string {
	adj := m.report.Adjustment
	w := m.report.Workout
	unit := m.report.UnitMeters

	var lines []string
	lines = append(lines, sectionTitleStyle.Render("Conditions"))

	if w.TemperatureF != nil {
		weather := fmt.Sprintf("  Recorded at %.0f°F", *w.TemperatureF)
		if w.HumidityPct != nil {
			weather += fmt.Sprintf(", %.0f%% humidity", *w.HumidityPct)
		}
		lines = append(lines, weather)
	} else {
		lines = append(lines, mutedStyle.Render("  No weather recorded"))
	}

	if adj.TotalSeconds > 0 {
		lines = append(lines, fmt.Sprintf("  Weather penalty:      +%.0f s%s", adj.WeatherSeconds, paceLabel(unit)))
		if adj.ElevationSeconds > 0 {
			lines = append(lines, fmt.Sprintf("  Elevation penalty:    +%.0f s%s", adj.ElevationSeconds, paceLabel(unit)))
		}
		if m.report.EffectivePace != nil {
			effective := fmt.Sprintf("  Effective flat pace:  %s%s",
				formatPace(*m.report.EffectivePace), paceLabel(unit))
			lines = append(lines, highlightStyle.Render(effective))
		}
	} else {
		lines = append(lines, mutedStyle.Render("  No pace penalty for these conditions"))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ReportModel) renderSplits() string {
	unit := m.report.UnitMeters

	var lines []string
	lines = append(lines, sectionTitleStyle.Render(fmt.Sprintf("Splits (per %s)", unitLabel(unit))))

	header := fmt.Sprintf("  %-5s  %8s  %6s  %7s", unitLabel(unit), "Pace", "HR", "Elev")
	lines = append(lines, lipgloss.NewStyle().Foreground(primaryColor).Render(header))

	fastest := -1.0
	for _, s := range m.report.Splits {
		if fastest < 0 || s.PaceSeconds < fastest {
			fastest = s.PaceSeconds
		}
	}

	for _, s := range m.report.Splits {
		hr := "-"
		if s.AvgHeartrate != nil {
			hr = fmt.Sprintf("%.0f", *s.AvgHeartrate)
		}
		elev := "-"
		if s.ElevationDelta != nil {
			elev = fmt.Sprintf("%+.0f m", *s.ElevationDelta)
		}

		row := fmt.Sprintf("  %-5d  %8s  %6s  %7s", s.UnitIndex, formatPace(s.PaceSeconds), hr, elev)
		if s.PaceSeconds == fastest {
			lines = append(lines, highlightStyle.Render(row))
		} else {
			lines = append(lines, row)
		}
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ReportModel) renderSplitChart() string {
	unit := m.report.UnitMeters

	var lines []string
	lines = append(lines, sectionTitleStyle.Render(fmt.Sprintf("Split Paces (min%s)", paceLabel(unit))))

	data := make([]float64, len(m.report.Splits))
	for i, s := range m.report.Splits {
		data[i] = s.PaceSeconds / 60
	}
	if len(data) > 60 {
		data = downsample(data, 60)
	}

	chart := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(50),
	)
	lines = append(lines, chart)

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ReportModel) renderPaceLadder() string {
	zones := m.report.PaceZones
	unit := m.report.UnitMeters

	var lines []string
	lines = append(lines, sectionTitleStyle.Render("Pace Zones"))

	for z := analysis.ZoneInterval; z <= analysis.ZoneRecovery; z++ {
		label := fmt.Sprintf("  %-10s", z.String())
		bound := fmt.Sprintf("≤ %s%s", formatPace(zones.Bounds[z]), paceLabel(unit))
		line := lipgloss.NewStyle().Foreground(zoneColors[z]).Render(label) + bound
		lines = append(lines, line)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ReportModel) renderDistribution(title string, dist *analysis.ZoneDistribution, colors []lipgloss.Color) string {
	var lines []string
	lines = append(lines, sectionTitleStyle.Render(title))

	maxBarWidth := 30
	for i, z := range dist.Zones {
		barWidth := int(z.Percent / 100 * float64(maxBarWidth))
		if barWidth < 1 && z.Seconds > 0 {
			barWidth = 1
		}

		bar := strings.Repeat("█", barWidth)
		color := colors[i%len(colors)]

		label := fmt.Sprintf("  %-14s", z.Label)
		pct := fmt.Sprintf("%5.1f%%", z.Percent)

		line := label + lipgloss.NewStyle().Foreground(color).Render(bar) + " " + pct + " (" + formatDuration(z.Seconds) + ")"
		lines = append(lines, line)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ReportModel) renderBestSegment() string {
	seg := m.report.BestSegment
	unit := m.report.UnitMeters

	var lines []string
	lines = append(lines, sectionTitleStyle.Render("Best Segment"))

	pace := seg.ElapsedSeconds / seg.DistanceMeters * unit
	lines = append(lines, fmt.Sprintf("  %s in %s (%s%s)",
		formatDistance(seg.DistanceMeters, unit),
		formatDuration(seg.ElapsedSeconds),
		formatPace(pace), paceLabel(unit)))
	lines = append(lines, fmt.Sprintf("  From %.1f to %.1f %s into the run",
		seg.StartMeters/unit, seg.EndMeters/unit, unitLabel(unit)))

	vdot := fmt.Sprintf("  As a time trial: VDOT %.1f", seg.AdjustedVDOT)
	if seg.AdjustedVDOT > seg.RawVDOT {
		vdot += fmt.Sprintf(" (%.1f before condition credit)", seg.RawVDOT)
	}
	lines = append(lines, highlightStyle.Render(vdot))

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func downsample(data []float64, targetLen int) []float64 {
	if len(data) <= targetLen {
		return data
	}

	result := make([]float64, targetLen)
	ratio := float64(len(data)) / float64(targetLen)

	for i := 0; i < targetLen; i++ {
		start := int(float64(i) * ratio)
		end := int(float64(i+1) * ratio)
		if end > len(data) {
			end = len(data)
		}

		sum := 0.0
		count := 0
		for j := start; j < end; j++ {
			if data[j] > 0 {
				sum += data[j]
				count++
			}
		}
		if count > 0 {
			result[i] = sum / float64(count)
		}
	}

	return result
}
