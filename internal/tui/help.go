package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"garmin-dashboard/internal/analysis"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	sections := []string{
		cardTitleStyle.Render("Keyboard Shortcuts"),
		m.renderSection("Navigation", []keyHelp{
			{"1", "Dashboard"},
			{"2", "Activities list"},
			{"3", "Achievements"},
			{"4 or s", "Sync screen"},
			{"?", "Help (this screen)"},
			{"esc", "Back / close help"},
			{"q", "Quit"},
		}),
		m.renderSection("Dashboard", []keyHelp{
			{"p", "Cycle period (7 / 30 / 90 days)"},
			{"r", "Refresh data"},
		}),
		m.renderSection("Activities List", []keyHelp{
			{"j / down", "Move cursor down"},
			{"k / up", "Move cursor up"},
			{"← / →", "Previous / next page"},
			{"o", "Cycle sort order"},
			{"enter", "Open activity"},
		}),
		m.renderSection("Achievements", []keyHelp{
			{"← / →", "Select card"},
			{"enter", "Open the record's activity"},
		}),
		m.renderSection("Sync Screen", []keyHelp{
			{"s / enter", "Start sync"},
			{"esc", "Cancel a running sync"},
		}),
		m.renderAchievementsHelp(),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	lines := []string{"", sectionStyle.Render(title)}
	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}
	return strings.Join(lines, "\n")
}

func (m HelpModel) renderAchievementsHelp() string {
	lines := []string{"", sectionStyle.Render("Records Explained"), ""}

	descriptions := map[analysis.Category]string{
		analysis.CategoryPace:           "Lowest elapsed minutes per km over a whole activity.",
		analysis.CategoryTrainingEffect: "Largest training effect reported.",
		analysis.CategoryCalories:       "Most calories in a single activity.",
		analysis.CategoryHeartRate:      "Highest max heart rate reached.",
		analysis.CategoryVO2Max:         "Highest VO2 max estimate.",
	}

	type record struct {
		name string
		desc string
	}
	var records []record
	for _, c := range analysis.Categories {
		records = append(records, record{c.Title(), descriptions[c]})
	}
	records = append(records, record{"% of personal best", "Activity value over the all-time best, capped at 100%."})

	for _, r := range records {
		lines = append(lines, "  "+helpKeyStyle.Render(r.name))
		lines = append(lines, "  "+mutedStyle.Render(r.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
