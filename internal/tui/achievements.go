package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"garmin-dashboard/internal/analysis"
	"garmin-dashboard/internal/service"
)

const achievementsPerRow = 3

// AchievementsModel shows the current record holder of every category
type AchievementsModel struct {
	queryService *service.QueryService
	achievements []analysis.Achievement
	records      []service.RecordDisplay
	cursor       int
	viewport     viewport.Model
	ready        bool
	loading      bool
	err          error
}

// NewAchievementsModel creates a new achievements model
func NewAchievementsModel(qs *service.QueryService, width, height int) AchievementsModel {
	m := AchievementsModel{
		queryService: qs,
		loading:      true,
	}
	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}
	return m
}

// Init initializes the achievements screen
func (m AchievementsModel) Init() tea.Cmd {
	return m.load
}

type achievementsLoadedMsg struct {
	achievements []analysis.Achievement
	records      []service.RecordDisplay
	err          error
}

func (m AchievementsModel) load() tea.Msg {
	achievements, err := m.queryService.GetAchievements()
	if err != nil {
		return achievementsLoadedMsg{err: err}
	}

	// the record book is supplementary
	records, _ := m.queryService.GetRecordHolders()
	return achievementsLoadedMsg{achievements: achievements, records: records}
}

// Update handles messages
func (m AchievementsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case achievementsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.achievements = msg.achievements
		m.records = msg.records
		if m.cursor >= len(m.achievements) {
			m.cursor = 0
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < len(m.achievements)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, m.load
		case "enter":
			if m.cursor < len(m.achievements) {
				id := m.achievements[m.cursor].Activity.ID
				return m, func() tea.Msg { return OpenActivityDetailMsg{ActivityID: id} }
			}
		}
	}

	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the achievements screen
func (m AchievementsModel) View() string {
	if m.loading {
		return "\n  Loading achievements..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return m.renderContent()
	}

	footer := statusStyle.Render("←/→: select  enter: open activity  j/k: scroll  r: refresh")
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m AchievementsModel) renderContent() string {
	if len(m.achievements) == 0 {
		return "\n  No achievements yet. Sync some activities first."
	}

	var sections []string
	sections = append(sections, titleStyle.Render("Achievements"))

	var row []string
	for i, a := range m.achievements {
		row = append(row, m.renderCard(a, i == m.cursor))
		if len(row) == achievementsPerRow || i == len(m.achievements)-1 {
			sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}

	if len(m.records) > 0 {
		sections = append(sections, "", m.renderRecordBook())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m AchievementsModel) renderCard(a analysis.Achievement, selected bool) string {
	color := lipgloss.Color(a.Category.HexColor())
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(a.Title),
		metricValueStyle.Render(a.DisplayValue()),
		mutedStyle.Render(a.Detail()),
		"",
		truncateName(analysis.FormatActivityTitle(a.Activity.LocationName, a.Activity.Sport), 28),
		mutedStyle.Render(a.Activity.StartTime.Format("Jan 02, 2006")),
	}
	return achievementCardStyle(a.Category.HexColor(), selected).Render(strings.Join(lines, "\n"))
}

func (m AchievementsModel) renderRecordBook() string {
	lines := []string{sectionStyle.Render("Record Book")}
	for _, r := range m.records {
		lines = append(lines, fmt.Sprintf("  %s %-10s %-28s %s",
			lipgloss.NewStyle().Foreground(lipgloss.Color(r.HexColor)).Render(fmt.Sprintf("%-22s", r.Title)),
			r.Value,
			truncateName(r.ActivityName, 28),
			mutedStyle.Render("since "+r.Date),
		))
	}
	return strings.Join(lines, "\n")
}
