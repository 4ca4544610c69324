package tui

import (
	"errors"
	"fmt"
	"strings"

	"runlab/internal/analysis"
	"runlab/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ThresholdModel is the threshold estimate screen model
type ThresholdModel struct {
	svc     *service.ReportService
	report  *service.ThresholdReport
	loading bool
	err     error
}

// NewThresholdModel creates a new threshold model
func NewThresholdModel(svc *service.ReportService) ThresholdModel {
	return ThresholdModel{
		svc:     svc,
		loading: true,
	}
}

// Init initializes the threshold screen
func (m ThresholdModel) Init() tea.Cmd {
	return m.loadEstimate
}

type thresholdLoadedMsg struct {
	report *service.ThresholdReport
	err    error
}

func (m ThresholdModel) loadEstimate() tea.Msg {
	// The report carries diagnostics even when history is insufficient.
	report, err := m.svc.ThresholdEstimate()
	return thresholdLoadedMsg{report: report, err: err}
}

// Update handles messages
func (m ThresholdModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case thresholdLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.report = msg.report

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadEstimate
		}
	}
	return m, nil
}

// View renders the threshold screen
func (m ThresholdModel) View() string {
	if m.loading {
		return "\n  Estimating threshold pace..."
	}

	if m.err != nil && !errors.Is(m.err, analysis.ErrInsufficientData) {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.report == nil {
		return "\n  No data"
	}

	var sections []string
	sections = append(sections, cardTitleStyle.Render("Threshold Pace Estimate"))

	if errors.Is(m.err, analysis.ErrInsufficientData) {
		sections = append(sections, m.renderInsufficient())
	} else {
		sections = append(sections, m.renderEstimate())
		sections = append(sections, m.renderEvidence())
		if m.report.Estimate.VDOT != nil {
			sections = append(sections, m.renderValidation())
		}
		if m.report.Zones != nil {
			sections = append(sections, m.renderZones())
		}
	}

	help := statusStyle.Render("\n  r: re-estimate")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ThresholdModel) renderInsufficient() string {
	ev := m.report.Estimate.Evidence

	var lines []string
	lines = append(lines, warningStyle.Render("  Not enough history for an estimate."))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("  Workouts analyzed:  %d", ev.WorkoutsAnalyzed))
	lines = append(lines, fmt.Sprintf("  Workouts with HR:   %d", ev.WorkoutsWithHR))
	lines = append(lines, "")
	lines = append(lines, mutedStyle.Render("  Sustained 20-40 minute efforts faster than easy pace feed"))
	lines = append(lines, mutedStyle.Render("  the estimate. Import more tempo runs or races and retry."))
	return strings.Join(lines, "\n")
}

func (m ThresholdModel) renderEstimate() string {
	est := m.report.Estimate
	unit := m.report.UnitMeters

	var lines []string

	pace := fmt.Sprintf("  %s%s", formatPace(est.PaceSeconds), paceLabel(unit))
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(textColor).Render(pace))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("  Confidence  %s %.0f%%",
		RenderProgressBar(est.Confidence, 20), est.Confidence*100))
	lines = append(lines, fmt.Sprintf("  Method      %s", methodLabel(est.Method)))

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func methodLabel(method string) string {
	switch method {
	case analysis.MethodPaceOnly:
		return "pace only (no usable heart-rate signal)"
	case analysis.MethodHRAssisted:
		return "pace + heart-rate drift"
	case analysis.MethodHRValidated:
		return "pace + heart-rate drift, race validated"
	default:
		return method
	}
}

func (m ThresholdModel) renderEvidence() string {
	ev := m.report.Estimate.Evidence
	unit := m.report.UnitMeters

	var lines []string
	lines = append(lines, sectionTitleStyle.Render("Evidence"))

	lines = append(lines, fmt.Sprintf("  Workouts analyzed:  %d (%d with HR)", ev.WorkoutsAnalyzed, ev.WorkoutsWithHR))

	if len(ev.Efforts) > 0 {
		lines = append(lines, "")
		header := fmt.Sprintf("  %-10s  %8s  %9s", "Date", "Pace", "Duration")
		lines = append(lines, lipgloss.NewStyle().Foreground(primaryColor).Render(header))
		for _, e := range ev.Efforts {
			lines = append(lines, fmt.Sprintf("  %-10s  %8s  %9s",
				e.Date.Format("Jan 02"), formatPace(e.PaceSeconds), formatDuration(e.DurationSeconds)))
		}
	}

	lines = append(lines, "")
	if ev.DeflectionPace != nil {
		lines = append(lines, fmt.Sprintf("  HR deflection pace:     %s%s",
			formatPace(*ev.DeflectionPace), paceLabel(unit)))
	}
	if ev.SustainabilityPace != nil {
		lines = append(lines, fmt.Sprintf("  Sustainability boundary: %s%s",
			formatPace(*ev.SustainabilityPace), paceLabel(unit)))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ThresholdModel) renderValidation() string {
	v := m.report.Estimate.VDOT
	unit := m.report.UnitMeters

	var lines []string
	lines = append(lines, sectionTitleStyle.Render("Race Cross-Check"))

	lines = append(lines, fmt.Sprintf("  Race VDOT:             %.1f", v.VDOT))
	lines = append(lines, fmt.Sprintf("  Implied threshold:     %s%s", formatPace(v.ThresholdPace), paceLabel(unit)))
	lines = append(lines, fmt.Sprintf("  Difference:            %.0f s", v.DifferenceSeconds))

	var agreement string
	switch v.Agreement {
	case analysis.AgreementStrong:
		agreement = successStyle.Render("strong agreement")
	case analysis.AgreementModerate:
		agreement = warningStyle.Render("moderate agreement")
	default:
		agreement = errorStyle.Render("weak agreement; one signal is stale or wrong")
	}
	lines = append(lines, "  Agreement:             "+agreement)

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ThresholdModel) renderZones() string {
	zones := m.report.Zones
	unit := m.report.UnitMeters

	var lines []string
	lines = append(lines, sectionTitleStyle.Render("Training Paces (from race VDOT)"))

	for z := analysis.ZoneInterval; z <= analysis.ZoneRecovery; z++ {
		label := fmt.Sprintf("  %-10s", z.String())
		bound := fmt.Sprintf("≤ %s%s", formatPace(zones.Bounds[z]), paceLabel(unit))
		lines = append(lines, lipgloss.NewStyle().Foreground(zoneColors[z]).Render(label)+bound)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}
