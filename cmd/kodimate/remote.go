package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/KodiMate/internal/config"
	"github.com/vadimtrunov/KodiMate/internal/core"
)

// statusPollInterval is how often the remote refreshes playback state.
const statusPollInterval = 2 * time.Second

// newRemoteCmd returns the "remote" subcommand: an interactive TUI remote.
func newRemoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remote",
		Short: "Interactive remote control",
		Long: "Control Kodi from the terminal.\n" +
			"Arrows navigate, Enter selects, Backspace goes back, H goes home,\n" +
			"Space toggles play/pause, S stops playback, Q or Ctrl+C exits.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRemote()
		},
	}
}

// runRemote initializes the Kodi client and starts the Bubble Tea remote TUI.
func runRemote() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := config.SetupLogger(cfg.App.LogLevel)
	client, err := initKodi(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := tea.NewProgram(newRemoteModel(ctx, client), tea.WithAltScreen())

	// Bridge OS signal cancellation into the Bubble Tea event loop.
	go func() {
		<-ctx.Done()
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run remote: %w", err)
	}
	return nil
}

// statusMsg carries the polled playback state back to the TUI.
type statusMsg struct {
	now *core.NowPlaying
	err error
}

// actionMsg carries the result of a remote action back to the TUI.
type actionMsg struct {
	label string
	err   error
}

// pollTickMsg triggers the next playback state refresh.
type pollTickMsg time.Time

// remoteModel is the Bubble Tea model for the interactive remote.
type remoteModel struct {
	ctx      context.Context
	player   core.Player
	remote   core.Remote
	spinner  spinner.Model
	progress progress.Model
	now      *core.NowPlaying
	lastMsg  string
	errMsg   string
	loaded   bool
	width    int
}

// newRemoteModel creates a remoteModel polling the given client.
func newRemoteModel(ctx context.Context, client interface {
	core.Player
	core.Remote
}) remoteModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo

	return remoteModel{
		ctx:      ctx,
		player:   client,
		remote:   client,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

// Init starts the spinner and the first status poll.
func (m remoteModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.pollStatus(), m.scheduleTick())
}

// Update handles key presses, poll results, and action results.
func (m remoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 4
		if w > 60 {
			w = 60
		}
		if w > 0 {
			m.progress.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case statusMsg:
		m.loaded = true
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
			m.now = msg.now
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
			m.lastMsg = msg.label
		}
		// Refresh immediately so the display reflects the action.
		return m, m.pollStatus()

	case pollTickMsg:
		return m, tea.Batch(m.pollStatus(), m.scheduleTick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey maps key presses to remote actions.
func (m remoteModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up":
		return m, m.navigate(core.InputUp, "Up")
	case "down":
		return m, m.navigate(core.InputDown, "Down")
	case "left":
		return m, m.navigate(core.InputLeft, "Left")
	case "right":
		return m, m.navigate(core.InputRight, "Right")
	case "enter":
		return m, m.navigate(core.InputSelect, "Select")
	case "backspace":
		return m, m.navigate(core.InputBack, "Back")
	case "h":
		return m, m.navigate(core.InputHome, "Home")
	case " ":
		return m, m.playPause()
	case "s":
		return m, m.stop()
	}
	return m, nil
}

// View renders the remote UI: now-playing panel, key legend, status line.
func (m remoteModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("5")).
		Render("KodiMate Remote")

	var body string
	switch {
	case !m.loaded:
		body = m.spinner.View() + styleDim.Render(" Connecting to Kodi...")
	case m.now == nil:
		body = styleDim.Render("Nothing is playing.")
	default:
		body = m.renderNowPlaying()
	}

	legend := styleDim.Render(
		"arrows: navigate   enter: select   backspace: back   h: home\n" +
			"space: play/pause   s: stop   q: quit")

	status := ""
	if m.errMsg != "" {
		status = styleError.Render(m.errMsg)
	} else if m.lastMsg != "" {
		status = styleDim.Render(m.lastMsg)
	}

	return title + "\n\n" + body + "\n\n" + legend + "\n" + status
}

// renderNowPlaying formats the current playback item with a progress bar.
func (m remoteModel) renderNowPlaying() string {
	now := m.now

	label := now.Title
	if now.ShowTitle != "" {
		label = now.ShowTitle + " " + episodeCode(now.Season, now.Episode) + ": " + now.Title
	}

	state := styleSuccess.Render("Playing")
	if now.Paused() {
		state = styleInfo.Render("Paused")
	}

	bar := m.progress.ViewAs(now.Percentage / 100)
	times := styleDim.Render(now.Time + " / " + now.TotalTime)

	return styleTitle.Render(label) + "  " + state + "\n" + bar + "  " + times
}

// pollStatus returns a command that fetches the current playback state.
func (m remoteModel) pollStatus() tea.Cmd {
	return func() tea.Msg {
		players, err := m.player.ActivePlayers(m.ctx)
		if err != nil {
			return statusMsg{err: err}
		}
		if len(players) == 0 {
			return statusMsg{}
		}
		now, err := m.player.NowPlaying(m.ctx, players[0].PlayerID)
		return statusMsg{now: now, err: err}
	}
}

// scheduleTick arranges the next periodic status refresh.
func (m remoteModel) scheduleTick() tea.Cmd {
	return tea.Tick(statusPollInterval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

// navigate returns a command that sends a navigation action to Kodi.
func (m remoteModel) navigate(action core.InputAction, label string) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{label: label, err: m.remote.Navigate(m.ctx, action)}
	}
}

// playPause returns a command that toggles playback on the active player.
func (m remoteModel) playPause() tea.Cmd {
	return func() tea.Msg {
		players, err := m.player.ActivePlayers(m.ctx)
		if err != nil {
			return actionMsg{err: err}
		}
		if len(players) == 0 {
			return actionMsg{err: fmt.Errorf("no active player")}
		}
		return actionMsg{label: "Play/Pause", err: m.player.PlayPause(m.ctx, players[0].PlayerID)}
	}
}

// stop returns a command that stops playback on the active player.
func (m remoteModel) stop() tea.Cmd {
	return func() tea.Msg {
		players, err := m.player.ActivePlayers(m.ctx)
		if err != nil {
			return actionMsg{err: err}
		}
		if len(players) == 0 {
			return actionMsg{err: fmt.Errorf("no active player")}
		}
		return actionMsg{label: "Stopped", err: m.player.Stop(m.ctx, players[0].PlayerID)}
	}
}
