package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"garmin-dashboard/internal/analysis"
	"garmin-dashboard/internal/service"
	"garmin-dashboard/internal/store"
)

// ActivitiesModel is the activities list screen model
type ActivitiesModel struct {
	queryService *service.QueryService
	sort         analysis.SortOption
	page         int
	data         *service.ActivityPage
	cursor       int
	loading      bool
	err          error
}

// NewActivitiesModel creates a new activities model
func NewActivitiesModel(qs *service.QueryService, sort analysis.SortOption) ActivitiesModel {
	return ActivitiesModel{
		queryService: qs,
		sort:         sort,
		page:         1,
		loading:      true,
	}
}

// Init initializes the activities screen
func (m ActivitiesModel) Init() tea.Cmd {
	return m.loadPage
}

type activitiesLoadedMsg struct {
	data *service.ActivityPage
	err  error
}

func (m ActivitiesModel) loadPage() tea.Msg {
	data, err := m.queryService.GetActivityPage(m.sort, m.page)
	return activitiesLoadedMsg{data: data, err: err}
}

// Update handles messages
func (m ActivitiesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activitiesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
		if m.data != nil {
			m.page = m.data.Page
			if m.cursor >= len(m.data.Activities) {
				m.cursor = max(0, len(m.data.Activities)-1)
			}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.data != nil && m.cursor < len(m.data.Activities)-1 {
				m.cursor++
			}
		case "left", "h", "pgup":
			if m.page > 1 {
				m.page--
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "right", "l", "pgdown":
			if m.data != nil && m.page < m.data.TotalPages {
				m.page++
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "o":
			// a new order starts from the first page
			m.sort = m.sort.Next()
			m.page = 1
			m.cursor = 0
			m.loading = true
			return m, m.loadPage
		case "r":
			m.loading = true
			return m, m.loadPage
		case "enter":
			if m.data != nil && m.cursor < len(m.data.Activities) {
				id := m.data.Activities[m.cursor].ID
				return m, func() tea.Msg {
					return OpenActivityDetailMsg{ActivityID: id}
				}
			}
		}
	}
	return m, nil
}

// View renders the activities list
func (m ActivitiesModel) View() string {
	if m.loading {
		return "\n  Loading activities..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil || m.data.Total == 0 {
		return "\n  No activities found. Press 's' to sync with the backend."
	}

	var sections []string

	title := cardTitleStyle.Render(fmt.Sprintf("Activities (page %d of %d, %d total)  sorted by %s",
		m.data.Page, m.data.TotalPages, m.data.Total, m.sort.Label()))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("  %-14s  %-28s  %10s  %9s  %9s  %8s  %8s",
		"Date", "Activity", "Distance", "Time", "Pace", "Calories", "Avg HR"))
	sections = append(sections, header)

	now := time.Now()
	for i, a := range m.data.Activities {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-14s  %-28s  %10s  %9s  %9s  %8s  %8s",
			cursor,
			formatDate(a.StartTime, now),
			truncateName(analysis.FormatActivityTitle(a.LocationName, a.Sport), 28),
			analysis.MetricDistance.Format(analysis.OptionalNumber(a.Distance)),
			analysis.FormatElapsedTime(a.ElapsedTime),
			analysis.FormatPace(a.ElapsedTime, a.Distance),
			analysis.MetricCalories.Format(analysis.OptionalNumber(a.Calories)),
			analysis.MetricAvgHR.Format(analysis.OptionalNumber(a.AvgHR)),
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	help := statusStyle.Render("enter: details  j/k: move  ←/→: page  o: sort order  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// OpenActivityDetailMsg asks the app to show an activity
type OpenActivityDetailMsg struct {
	ActivityID store.ActivityID
}
