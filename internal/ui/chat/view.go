package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/session"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	transcriptWidth := max(m.width-sidebarWidth-1, 10)
	bodyHeight := max(m.height-inputHeight-statusBarHeight, 1)

	sidebar := m.renderSidebar(bodyHeight)
	transcript := lipgloss.NewStyle().
		Width(transcriptWidth).
		Height(bodyHeight).
		Render(m.vp.View())

	divider := lipgloss.NewStyle().
		Foreground(styles.BorderDefaultColor).
		Render(strings.TrimSuffix(strings.Repeat("│\n", bodyHeight), "\n"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, divider, transcript)

	sections := []string{body, m.renderInput(transcriptWidth)}
	if m.uiCfg.ShowStatusBar {
		sections = append(sections, m.renderStatusBar())
	}

	// Scan registers click zones at final screen coordinates.
	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderSidebar(height int) string {
	innerWidth := sidebarWidth - 2

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimaryColor).
		Bold(true).
		Padding(0, 1)

	lines := []string{titleStyle.Render("Chats"), ""}

	if len(m.snapshot.Chats) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Padding(0, 1).
			Render("ctrl+n starts a chat")
		lines = append(lines, empty)
	}

	for i, chat := range m.snapshot.Chats {
		lines = append(lines, m.renderSidebarRow(i, chat, innerWidth))
	}

	content := strings.Join(lines, "\n")
	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(height).
		Render(content)
}

func (m Model) renderSidebarRow(i int, chat session.ChatView, innerWidth int) string {
	isCurrent := chat.ID == m.snapshot.CurrentChatID
	underCursor := m.focus == focusSidebar && i == m.sidebarCursor

	indicator := " "
	if underCursor {
		indicator = styles.SelectionIndicatorStyle.Render(">")
	}

	star := " "
	if chat.Starred {
		star = lipgloss.NewStyle().Foreground(styles.StarColor).Render("★")
	}

	title := chat.Title
	if chat.ID == m.pendingDelete {
		title = "d: confirm delete"
	}
	title = styles.TruncateString(title, innerWidth-4)

	rowStyle := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	if isCurrent {
		rowStyle = rowStyle.Foreground(styles.TextPrimaryColor).Bold(true)
	}
	if chat.ID == m.pendingDelete {
		rowStyle = lipgloss.NewStyle().Foreground(styles.StatusWarningColor)
	}

	row := fmt.Sprintf("%s%s %s", indicator, star, rowStyle.Render(title))
	row = styles.PadRight(row, sidebarWidth)

	return zone.Mark(chatZoneID(chat.ID), row)
}

func (m Model) renderInput(width int) string {
	style := lipgloss.NewStyle().Width(width + sidebarWidth + 1)
	if m.focus != focusInput {
		return style.Render(
			lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("  tab: focus input"),
		)
	}
	return style.Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	link := m.renderLinkState()

	status := string(m.snapshot.AgentStatus)
	if m.snapshot.TurnActive() {
		status = m.spin.View() + " " + status
	}

	var gap string
	if m.snapshot.StepGap {
		gap = lipgloss.NewStyle().
			Foreground(styles.StatusWarningColor).
			Render("  steps missing")
	}

	left := styles.StatusBarStyle.Render(link + "  agent: " + status + gap)

	hint := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor).
		Render("tab: panes · ctrl+n: new chat · ctrl+c: quit")

	padding := max(m.width-lipgloss.Width(left)-lipgloss.Width(hint)-1, 1)
	return left + strings.Repeat(" ", padding) + hint
}

func (m Model) renderLinkState() string {
	switch m.snapshot.Link {
	case session.LinkConnected:
		return lipgloss.NewStyle().Foreground(styles.StatusSuccessColor).Render("● connected")
	case session.LinkReconnecting:
		return lipgloss.NewStyle().Foreground(styles.StatusWarningColor).Render("◌ reconnecting")
	default:
		return lipgloss.NewStyle().Foreground(styles.StatusErrorColor).Render("○ offline")
	}
}
