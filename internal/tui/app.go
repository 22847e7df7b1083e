package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"garmin-dashboard/internal/analysis"
	"garmin-dashboard/internal/service"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenActivities
	ScreenAchievements
	ScreenDetail
	ScreenSync
	ScreenHelp
)

// Options carries the display preferences the screens start with
type Options struct {
	Period  analysis.Period
	Sort    analysis.SortOption
	BaseURL string
}

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen // where esc leaves help for
	detailFrom Screen // where esc leaves the detail for

	dashboard    DashboardModel
	activities   ActivitiesModel
	achievements AchievementsModel
	detail       ActivityDetailModel
	syncScreen   SyncModel
	help         HelpModel

	queryService *service.QueryService
	syncService  *service.SyncService
	opts         Options

	width  int
	height int

	status string
}

// NewApp creates a new App with all dependencies
func NewApp(queryService *service.QueryService, syncService *service.SyncService, opts Options) *App {
	return &App{
		screen:       ScreenDashboard,
		queryService: queryService,
		syncService:  syncService,
		opts:         opts,
		dashboard:    NewDashboardModel(queryService, opts.Period, 0),
		activities:   NewActivitiesModel(queryService, opts.Sort),
		achievements: NewAchievementsModel(queryService, 0, 0),
		syncScreen:   NewSyncModel(syncService, opts.BaseURL),
		help:         NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// global keys are off while a sync runs so esc reaches the sync screen
		if a.screen != ScreenSync || !a.syncScreen.syncing {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				return a, a.dashboard.Init()
			case "2":
				a.screen = ScreenActivities
				return a, a.activities.Init()
			case "3":
				a.screen = ScreenAchievements
				a.achievements = NewAchievementsModel(a.queryService, a.width, a.height)
				return a, a.achievements.Init()
			case "4", "s":
				if a.screen != ScreenSync {
					a.screen = ScreenSync
					return a, a.syncScreen.Init()
				}
				// already there, 's' starts the sync
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
				case ScreenDetail:
					a.screen = a.detailFrom
					return a, nil
				}
			}
		} else if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.forwardResize(msg)
		return a, nil

	case OpenActivityDetailMsg:
		a.detailFrom = a.screen
		a.screen = ScreenDetail
		a.detail = NewActivityDetailModel(a.queryService, msg.ActivityID, a.width, a.height)
		return a, a.detail.Init()

	case SyncCompleteMsg:
		a.status = "Last sync finished"
		if r := a.syncScreen.result; r != nil && len(r.NewRecords) > 0 {
			a.status += ", new records set"
		}
		return a, nil
	}

	// Delegate to current screen
	var cmd tea.Cmd
	var m tea.Model
	switch a.screen {
	case ScreenDashboard:
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenActivities:
		m, cmd = a.activities.Update(msg)
		a.activities = m.(ActivitiesModel)
	case ScreenAchievements:
		m, cmd = a.achievements.Update(msg)
		a.achievements = m.(AchievementsModel)
	case ScreenDetail:
		m, cmd = a.detail.Update(msg)
		a.detail = m.(ActivityDetailModel)
	case ScreenSync:
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
	case ScreenHelp:
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	// sync messages must reach the sync screen even after navigating away
	if a.screen != ScreenSync {
		switch msg.(type) {
		case syncProgressMsg, SyncDoneMsg, spinner.TickMsg:
			m, cmd = a.syncScreen.Update(msg)
			a.syncScreen = m.(SyncModel)
		}
	}

	return a, cmd
}

// forwardResize keeps the sizes of the scrolling screens current
func (a *App) forwardResize(msg tea.WindowSizeMsg) {
	var m tea.Model
	m, _ = a.dashboard.Update(msg)
	a.dashboard = m.(DashboardModel)
	m, _ = a.achievements.Update(msg)
	a.achievements = m.(AchievementsModel)
	if a.screen == ScreenDetail {
		m, _ = a.detail.Update(msg)
		a.detail = m.(ActivityDetailModel)
	}
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenActivities:
		content = a.activities.View()
	case ScreenAchievements:
		content = a.achievements.View()
	case ScreenDetail:
		content = a.detail.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Garmin Activity Dashboard")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Activities", ScreenActivities},
		{"3", "Achievements", ScreenAchievements},
		{"4", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}

// SyncCompleteMsg is sent when sync finishes
type SyncCompleteMsg struct{}
