// Package chat is the main Bubble Tea model. It renders session
// snapshots and forwards user intent to the session controller; all
// state derivation happens upstream, the model never mutates chats or
// turn state itself.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/config"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/log"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/pubsub"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/screenshots"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/session"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/ui/markdown"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/ui/styles"
)

// sidebarWidth is the fixed width of the chat list pane.
const sidebarWidth = 28

// statusBarHeight is the single status line at the bottom.
const statusBarHeight = 1

// inputHeight is the single-line prompt above the status bar.
const inputHeight = 1

// focusArea identifies which pane receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// Config wires the chat model's collaborators.
type Config struct {
	// Controller is the session façade. Required.
	Controller *session.Controller

	// Fetcher resolves URL-referenced screenshots. May be nil, in which
	// case step cards render without payload sizes.
	Fetcher *screenshots.Fetcher

	// UI carries the user's display options.
	UI config.UIConfig
}

// imageFetchedMsg reports a resolved screenshot payload.
type imageFetchedMsg struct {
	url  string
	size int
}

// imageFetchFailedMsg reports a screenshot that could not be resolved.
type imageFetchFailedMsg struct {
	url string
	err error
}

// ConfigReloadedMsg is sent by the config watcher hookup when the
// config file changes on disk.
type ConfigReloadedMsg struct {
	UI config.UIConfig
}

// Model is the top-level TUI state.
type Model struct {
	controller *session.Controller
	fetcher    *screenshots.Fetcher
	uiCfg      config.UIConfig

	ctx      context.Context
	cancel   context.CancelFunc
	listener *pubsub.ContinuousListener[session.Snapshot]

	snapshot session.Snapshot

	input textinput.Model
	vp    viewport.Model
	spin  spinner.Model
	md    *markdown.Renderer

	width  int
	height int
	ready  bool

	focus         focusArea
	sidebarCursor int
	pendingDelete string

	contentDirty bool

	// imageSizes caches resolved payload sizes by URL; imagePending
	// dedups in-flight fetches across snapshot updates.
	imageSizes   map[string]int
	imagePending map[string]bool
}

// New builds the chat model around an already-constructed controller.
func New(cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "Send a message..."
	input.Prompt = "> "
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextPlaceholderColor)
	input.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.SpinnerColor)),
	)

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		controller:   cfg.Controller,
		fetcher:      cfg.Fetcher,
		uiCfg:        cfg.UI,
		ctx:          ctx,
		cancel:       cancel,
		listener:     pubsub.NewContinuousListener(ctx, cfg.Controller.Broker()),
		snapshot:     cfg.Controller.Snapshot(),
		input:        input,
		vp:           viewport.New(0, 0),
		spin:         spin,
		contentDirty: true,
		imageSizes:   make(map[string]int),
		imagePending: make(map[string]bool),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listener.Listen(), textinput.Blink)
}

// Cleanup releases the snapshot subscription.
func (m Model) Cleanup() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.setSize(msg.Width, msg.Height)

	case pubsub.Event[session.Snapshot]:
		wasActive := m.snapshot.TurnActive()
		m.snapshot = msg.Payload
		m.contentDirty = true
		m = m.clampSidebarCursor()
		cmds = append(cmds, m.listener.Listen())
		if !wasActive && m.snapshot.TurnActive() {
			cmds = append(cmds, m.spin.Tick)
		}
		if fetch := m.fetchImages(); fetch != nil {
			cmds = append(cmds, fetch)
		}

	case spinner.TickMsg:
		if m.snapshot.TurnActive() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}

	case imageFetchedMsg:
		delete(m.imagePending, msg.url)
		m.imageSizes[msg.url] = msg.size
		m.contentDirty = true

	case imageFetchFailedMsg:
		delete(m.imagePending, msg.url)
		log.Warn(log.CatUI, "screenshot fetch failed", "url", msg.url, "error", msg.err)

	case ConfigReloadedMsg:
		m.uiCfg = msg.UI
		m.md = nil // rebuilt on next render with the new style
		m.contentDirty = true

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.contentDirty {
		m = m.refreshTranscript()
	}

	return m, tea.Batch(cmds...)
}

func (m Model) setSize(width, height int) Model {
	m.width = width
	m.height = height
	m.ready = width > 0 && height > 0

	transcriptWidth := max(width-sidebarWidth-1, 10)
	m.vp.Width = transcriptWidth
	m.vp.Height = max(height-inputHeight-statusBarHeight, 1)
	m.input.Width = max(transcriptWidth-4, 10)
	m.md = nil
	m.contentDirty = true
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.Cleanup()
		return m, tea.Quit
	case tea.KeyTab:
		if m.focus == focusInput {
			m = m.blurInput()
		} else {
			m = m.focusInputArea()
		}
		return m, nil
	case tea.KeyCtrlN:
		m.controller.CreateNewChat()
		m.sidebarCursor = 0
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := m.input.Value()
		m.input.Reset()
		m.controller.SendMessage(m.ctx, text)
		return m, nil
	case tea.KeyEsc:
		return m.blurInput(), nil
	case tea.KeyPgUp:
		m.vp.ScrollUp(m.vp.Height / 2)
		return m, nil
	case tea.KeyPgDown:
		m.vp.ScrollDown(m.vp.Height / 2)
		return m, nil
	case tea.KeyCtrlU, tea.KeyCtrlD:
		// Vim-style half-page scrolling; without vim mode these keys
		// keep their readline meaning inside the input.
		if m.uiCfg.VimMode {
			delta := m.vp.Height / 2
			if msg.Type == tea.KeyCtrlU {
				m.vp.ScrollUp(delta)
			} else {
				m.vp.ScrollDown(delta)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	chats := m.snapshot.Chats

	switch msg.String() {
	case "j", "down":
		m.pendingDelete = ""
		if m.sidebarCursor < len(chats)-1 {
			m.sidebarCursor++
		}
		return m, nil
	case "k", "up":
		m.pendingDelete = ""
		if m.sidebarCursor > 0 {
			m.sidebarCursor--
		}
		return m, nil
	case "enter":
		m.pendingDelete = ""
		if m.sidebarCursor < len(chats) {
			m.controller.SelectChat(chats[m.sidebarCursor].ID)
			m = m.focusInputArea()
		}
		return m, nil
	case "s":
		if m.sidebarCursor < len(chats) {
			m.controller.ToggleStar(chats[m.sidebarCursor].ID)
		}
		return m, nil
	case "n":
		m.controller.CreateNewChat()
		m.sidebarCursor = 0
		return m.focusInputArea(), nil
	case "d":
		// Two-step confirmation: first press marks, second deletes.
		if m.sidebarCursor >= len(chats) {
			return m, nil
		}
		id := chats[m.sidebarCursor].ID
		if m.pendingDelete == id {
			m.controller.RemoveChat(id)
			m.pendingDelete = ""
			m = m.clampSidebarCursor()
		} else {
			m.pendingDelete = id
		}
		return m, nil
	case "esc":
		m.pendingDelete = ""
		return m, nil
	}

	m.pendingDelete = ""
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.vp.ScrollUp(1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.vp.ScrollDown(1)
		return m, nil
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		for i, chat := range m.snapshot.Chats {
			if z := zone.Get(chatZoneID(chat.ID)); z != nil && z.InBounds(msg) {
				m.controller.SelectChat(chat.ID)
				m.sidebarCursor = i
				return m.focusInputArea(), nil
			}
		}
	}
	return m, nil
}

func (m Model) blurInput() Model {
	m.focus = focusSidebar
	m.input.Blur()
	return m
}

func (m Model) focusInputArea() Model {
	m.focus = focusInput
	m.pendingDelete = ""
	m.input.Focus()
	return m
}

func (m Model) clampSidebarCursor() Model {
	if n := len(m.snapshot.Chats); m.sidebarCursor >= n {
		m.sidebarCursor = max(n-1, 0)
	}
	return m
}

// fetchImages returns a command resolving any URL-referenced screenshot
// of the active turn that has not been fetched yet.
func (m Model) fetchImages() tea.Cmd {
	if m.fetcher == nil {
		return nil
	}

	var cmds []tea.Cmd
	for _, shot := range m.snapshot.CurrentScreenshots {
		if shot.URL == "" {
			continue
		}
		if _, done := m.imageSizes[shot.URL]; done {
			continue
		}
		if m.imagePending[shot.URL] {
			continue
		}
		m.imagePending[shot.URL] = true

		shot := shot
		cmds = append(cmds, func() tea.Msg {
			data, err := m.fetcher.Image(m.ctx, shot)
			if err != nil {
				return imageFetchFailedMsg{url: shot.URL, err: err}
			}
			return imageFetchedMsg{url: shot.URL, size: len(data)}
		})
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// chatZoneID returns the bubblezone ID for a sidebar chat row.
func chatZoneID(id string) string {
	return "chat:" + id
}
