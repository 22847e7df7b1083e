package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/multierr"

	"garmin-dashboard/internal/service"
)

var phaseLabels = map[string]string{
	service.PhaseTrigger:    "Asking the backend to sync",
	service.PhaseActivities: "Fetching activities",
	service.PhaseGPS:        "Downloading GPS tracks",
	service.PhaseRecords:    "Checking records",
	service.PhaseBests:      "Updating personal bests",
}

// SyncModel is the sync screen model
type SyncModel struct {
	syncService *service.SyncService
	baseURL     string
	spinner     spinner.Model
	syncing     bool
	progress    service.SyncProgress
	updates     <-chan service.SyncProgress
	done        <-chan SyncDoneMsg
	cancel      context.CancelFunc
	result      *service.SyncResult
	err         error
	finished    bool
}

// NewSyncModel creates a new sync model
func NewSyncModel(ss *service.SyncService, baseURL string) SyncModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return SyncModel{
		syncService: ss,
		baseURL:     baseURL,
		spinner:     s,
	}
}

// Init initializes the sync screen
func (m SyncModel) Init() tea.Cmd {
	return nil
}

// SyncDoneMsg is sent when sync finishes
type SyncDoneMsg struct {
	Result *service.SyncResult
	Err    error
}

type syncProgressMsg service.SyncProgress

// Update handles messages
func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncProgressMsg:
		m.progress = service.SyncProgress(msg)
		return m, waitForSync(m.updates, m.done)

	case SyncDoneMsg:
		m.syncing = false
		m.finished = true
		m.result = msg.Result
		m.err = msg.Err
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		return m, func() tea.Msg { return SyncCompleteMsg{} }

	case spinner.TickMsg:
		if !m.syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "s":
			if !m.syncing {
				return m.startSync()
			}
		case "esc":
			if m.syncing && m.cancel != nil {
				m.cancel()
			}
		}
	}
	return m, nil
}

// startSync runs SyncAll in the background and listens for its progress
func (m SyncModel) startSync() (SyncModel, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan service.SyncProgress)
	done := make(chan SyncDoneMsg, 1)

	go func() {
		result, err := m.syncService.SyncAll(ctx, updates)
		done <- SyncDoneMsg{Result: result, Err: err}
	}()

	m.syncing = true
	m.finished = false
	m.err = nil
	m.result = nil
	m.progress = service.SyncProgress{}
	m.updates = updates
	m.done = done
	m.cancel = cancel

	return m, tea.Batch(waitForSync(updates, done), m.spinner.Tick)
}

// waitForSync delivers the next progress update, or the result once the
// progress channel is closed
func waitForSync(updates <-chan service.SyncProgress, done <-chan SyncDoneMsg) tea.Cmd {
	return func() tea.Msg {
		if p, ok := <-updates; ok {
			return syncProgressMsg(p)
		}
		return <-done
	}
}

// View renders the sync screen
func (m SyncModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Sync"))

	switch {
	case m.syncing:
		sections = append(sections, m.renderProgress())
	case m.finished && m.err != nil:
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, statusStyle.Render("  Press 's' or Enter to retry"))
	case m.finished:
		sections = append(sections, successStyle.Render("\n  Sync complete!"))
		sections = append(sections, m.renderSummary())
		sections = append(sections, statusStyle.Render("  Press '1' to go to the dashboard"))
	default:
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SyncModel) renderStartPrompt() string {
	lines := []string{
		"",
		"  This will sync activities from " + m.baseURL + ":",
		"",
		"  1. Ask the backend to pull new activities",
		"  2. Fetch the activity list",
		"  3. Download GPS tracks",
		"  4. Update records and personal bests",
		"",
	}

	if remaining := m.syncService.RateLimitStatus(); remaining >= 0 {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("  API requests left in window: %d", remaining)))
	}
	lines = append(lines, statusStyle.Render("  Press 's' or Enter to start sync"))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderProgress() string {
	label := phaseLabels[m.progress.Phase]
	if label == "" {
		label = "Starting"
	}

	lines := []string{"", "  " + m.spinner.View() + " " + label}

	if m.progress.Total > 0 {
		pct := float64(m.progress.Completed) / float64(m.progress.Total)
		lines = append(lines, fmt.Sprintf("  %s %d/%d",
			RenderProgressBar(pct, 30), m.progress.Completed, m.progress.Total))
	}
	if m.progress.CurrentActivity != "" {
		lines = append(lines, mutedStyle.Render("  "+m.progress.CurrentActivity))
	}

	lines = append(lines, "", statusStyle.Render("  esc: cancel"))
	return strings.Join(lines, "\n")
}

func (m SyncModel) renderSummary() string {
	if m.result == nil {
		return ""
	}

	r := m.result
	lines := []string{""}

	if r.BackendMessage != "" {
		lines = append(lines, mutedStyle.Render("  Backend: "+r.BackendMessage))
	}
	lines = append(lines, successStyle.Render(fmt.Sprintf("  %d activities synced", r.ActivitiesStored)))

	if r.TracksFetched > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d GPS tracks downloaded", r.TracksFetched)))
	}

	if len(r.NewRecords) > 0 {
		lines = append(lines, successStyle.Render("  New records: "+strings.Join(r.NewRecords, ", ")))
	}

	if r.BestsMismatches > 0 {
		lines = append(lines, warningStyle.Render(fmt.Sprintf(
			"  %d personal bests differ from the backend's max values (see log)", r.BestsMismatches)))
	}

	if errs := multierr.Errors(r.Err); len(errs) > 0 {
		lines = append(lines, "", warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(errs))))
		for i, err := range errs {
			if i == 3 {
				lines = append(lines, mutedStyle.Render(fmt.Sprintf("    ... and %d more", len(errs)-3)))
				break
			}
			lines = append(lines, mutedStyle.Render("    "+err.Error()))
		}
	}

	lines = append(lines, mutedStyle.Render(fmt.Sprintf("  took %s", r.Duration.Round(100*time.Millisecond))))
	return strings.Join(lines, "\n")
}
