package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"garmin-dashboard/internal/analysis"
	"garmin-dashboard/internal/service"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	period       analysis.Period
	data         *service.DashboardData
	loading      bool
	err          error
	width        int
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService, period analysis.Period, width int) DashboardModel {
	return DashboardModel{
		queryService: qs,
		period:       period,
		loading:      true,
		width:        width,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.GetDashboardData(m.period)
	return dashboardDataMsg{period: m.period, data: data, err: err}
}

type dashboardDataMsg struct {
	period analysis.Period
	data   *service.DashboardData
	err    error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		if msg.period != m.period {
			return m, nil // stale
		}
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			m.period = m.period.Next()
			m.loading = true
			return m, m.loadData
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil || m.data.TotalActivities == 0 {
		return "\n  No activities yet. Press 's' to sync with the backend."
	}

	var sections []string

	sections = append(sections, m.renderPeriodSelector())
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSummaryCard(), "  ", m.renderLastActivityCard()))

	if charts := m.renderCharts(); charts != "" {
		sections = append(sections, charts)
	}

	help := statusStyle.Render("p: change period  r: refresh  s: sync  2: activities")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderPeriodSelector() string {
	var items []string
	for _, p := range analysis.Periods {
		label := p.Label()
		if p == m.period {
			items = append(items, navActiveStyle.Render("["+label+"]"))
		} else {
			items = append(items, navInactiveStyle.Render(" "+label+" "))
		}
	}
	return strings.Join(items, "  ")
}

func (m DashboardModel) renderSummaryCard() string {
	s := m.data.Summary
	title := cardTitleStyle.Render(s.Period.Label())

	lines := []string{
		RenderMetric("Activities", fmt.Sprintf("%d", len(s.Activities))),
		RenderMetric("Total Distance", formatKm(s.TotalDistance)),
		RenderMetric("Total Time", formatSeconds(s.TotalSeconds)),
		RenderMetric("Total Calories", analysis.MetricCalories.Format(analysis.Number(s.TotalCalories))+" kcal"),
		RenderMetric("Avg Heart Rate", analysis.MetricHR.Format(analysis.Number(s.AvgHeartRate))),
		"",
		mutedStyle.Render("Last sync: " + formatDate(m.data.LastSync, time.Now())),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderLastActivityCard() string {
	last := m.data.Summary.LastActivity
	if last == nil {
		title := cardTitleStyle.Render("Last Activity")
		return cardStyle.Width(46).Render(lipgloss.JoinVertical(lipgloss.Left, title,
			mutedStyle.Render("Nothing in this period")))
	}

	title := cardTitleStyle.Render(analysis.FormatActivityTitle(last.LocationName, last.Sport))
	lines := []string{mutedStyle.Render(formatDate(last.StartTime, time.Now())), ""}
	for _, stat := range m.data.QuickStats {
		lines = append(lines, fmt.Sprintf("%-18s %s %s",
			stat.Name, RenderProgressBar(stat.Score/100, 12), stat.Actual))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(46).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderCharts() string {
	if len(m.data.DistanceSeries) < 2 {
		return ""
	}

	width := 60
	if m.width > 0 && m.width/2-8 < width {
		width = max(20, m.width/2-8)
	}

	distance := asciigraph.Plot(m.data.DistanceSeries,
		asciigraph.Height(8),
		asciigraph.Width(width),
		asciigraph.Precision(1),
		asciigraph.Caption("Distance (km)"),
	)
	hr := asciigraph.Plot(m.data.MaxHRSeries,
		asciigraph.Height(8),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption("Max HR (bpm)"),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render(distance), "  ", cardStyle.Render(hr))
}
