package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"garmin-dashboard/internal/analysis"
	"garmin-dashboard/internal/service"
	"garmin-dashboard/internal/store"
)

// ActivityDetailModel is the activity detail screen model
type ActivityDetailModel struct {
	queryService *service.QueryService
	activityID   store.ActivityID
	detail       *service.ActivityDetail
	viewport     viewport.Model
	loading      bool
	err          error
	ready        bool
}

// NewActivityDetailModel creates a new activity detail model
func NewActivityDetailModel(qs *service.QueryService, activityID store.ActivityID, width, height int) ActivityDetailModel {
	m := ActivityDetailModel{
		queryService: qs,
		activityID:   activityID,
		loading:      true,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // header and footer
		m.ready = true
	}

	return m
}

// Init initializes the activity detail screen
func (m ActivityDetailModel) Init() tea.Cmd {
	return m.loadDetail
}

type activityDetailLoadedMsg struct {
	detail *service.ActivityDetail
	err    error
}

func (m ActivityDetailModel) loadDetail() tea.Msg {
	detail, err := m.queryService.GetActivityDetail(context.Background(), m.activityID)
	return activityDetailLoadedMsg{detail: detail, err: err}
}

// Update handles messages
func (m ActivityDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activityDetailLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.detail = msg.detail
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.detail != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadDetail
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the activity detail screen
func (m ActivityDetailModel) View() string {
	if m.loading {
		return "\n  Loading activity details..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("esc: back  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m ActivityDetailModel) renderContent() string {
	if m.detail == nil {
		return "No data"
	}

	sections := []string{
		m.renderHeader(),
		m.renderOverview(),
		m.renderPerformance(),
		m.renderPhysiological(),
		m.renderGPS(),
	}
	if len(m.detail.Achievements) > 0 {
		sections = append(sections, m.renderAchievements())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ActivityDetailModel) renderHeader() string {
	a := m.detail.Activity
	title := cardTitleStyle.Render(m.detail.Title)

	date := mutedStyle.Render(a.StartTime.Format("Monday, January 2, 2006 at 15:04"))
	stats := fmt.Sprintf("%s  •  %s  •  %s",
		analysis.MetricDistance.Format(analysis.OptionalNumber(a.Distance)),
		analysis.FormatElapsedTime(a.ElapsedTime),
		m.detail.Pace,
	)
	statsLine := lipgloss.NewStyle().Foreground(textColor).Bold(true).Render(stats)

	return lipgloss.JoinVertical(lipgloss.Left, "", title, date, statsLine, "")
}

// renderOverview compares the activity against the personal bests
func (m ActivityDetailModel) renderOverview() string {
	lines := []string{sectionStyle.Render("Overview (% of personal best)")}

	for _, p := range m.detail.Percentages {
		lines = append(lines, fmt.Sprintf("  %-10s %s %3d%%  %s / %s",
			p.Subject,
			RenderProgressBar(float64(p.Percent)/100, 20),
			p.Percent,
			p.Display(),
			p.DisplayBest(),
		))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderPerformance() string {
	a := m.detail.Activity
	lines := []string{
		sectionStyle.Render("Performance"),
		"  " + RenderMetric("Avg Speed", analysis.MetricAvgSpeed.Format(analysis.OptionalNumber(a.AvgSpeed))),
		"  " + RenderMetric("Max Speed", analysis.MetricMaxSpeed.Format(analysis.OptionalNumber(a.MaxSpeed))),
		"  " + RenderMetric("Elapsed Time", analysis.FormatElapsedTime(a.ElapsedTime)),
		"  " + RenderMetric("Pace", m.detail.Pace),
		"  " + RenderMetric("Steps", formatCount(a.Steps)),
		"",
	}
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderPhysiological() string {
	a := m.detail.Activity
	lines := []string{
		sectionStyle.Render("Physiological"),
		"  " + RenderMetric("Avg Heart Rate", analysis.MetricAvgHR.Format(analysis.OptionalNumber(a.AvgHR))),
		"  " + RenderMetric("Max Heart Rate", analysis.MetricMaxHR.Format(analysis.OptionalNumber(a.MaxHR))),
		"  " + RenderMetric("Calories", analysis.MetricCalories.Format(analysis.OptionalNumber(a.Calories))),
		"  " + RenderMetric("Training Load", analysis.MetricTrainingLoad.Format(analysis.OptionalNumber(a.TrainingLoad))),
		"  " + RenderMetric("Training Effect", analysis.MetricTrainingEffect.Format(analysis.OptionalNumber(a.TrainingEffect))),
		"  " + RenderMetric("VO2 Max", analysis.MetricVO2Max.Format(analysis.OptionalNumber(a.VO2Max))),
		"",
	}
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderGPS() string {
	g := m.detail.GPS
	lines := []string{sectionStyle.Render("GPS Track")}

	if !g.HasTrack() {
		lines = append(lines, mutedStyle.Render("  No track recorded"), "")
		return strings.Join(lines, "\n")
	}

	lines = append(lines,
		"  "+RenderMetric("Points", fmt.Sprintf("%d", g.Points)),
		"  "+RenderMetric("Track Length", fmt.Sprintf("%.2f km", g.DistanceKm)),
		"  "+RenderMetric("Start", fmt.Sprintf("%.5f, %.5f", g.Start.Lat, g.Start.Lng)),
		"  "+RenderMetric("End", fmt.Sprintf("%.5f, %.5f", g.End.Lat, g.End.Lng)),
		"  "+RenderMetric("Bounds", fmt.Sprintf("%.4f..%.4f, %.4f..%.4f", g.MinLat, g.MaxLat, g.MinLng, g.MaxLng)),
		"",
	)
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderAchievements() string {
	lines := []string{sectionStyle.Render("Records Held")}
	for _, a := range m.detail.Achievements {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(a.Category.HexColor()))
		lines = append(lines, fmt.Sprintf("  %s  %s  %s",
			style.Render(a.Title), a.DisplayValue(), mutedStyle.Render(a.Detail())))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}
