package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/log"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/ui/markdown"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/ui/styles"
)

// refreshTranscript rebuilds the viewport content from the snapshot.
// Called from Update, never from View, so scroll state persists.
func (m Model) refreshTranscript() Model {
	if !m.ready {
		return m
	}

	wrapWidth := max(m.vp.Width-2, 10)

	if m.md == nil || m.md.Width() != wrapWidth {
		md, err := markdown.New(wrapWidth, m.uiCfg.MarkdownStyle)
		if err != nil {
			log.Warn(log.CatUI, "markdown renderer init failed", "error", err)
		} else {
			m.md = md
		}
	}

	atBottom := m.vp.AtBottom()
	m.vp.SetContent(m.renderTranscript(wrapWidth))
	if atBottom {
		m.vp.GotoBottom()
	}
	m.contentDirty = false
	return m
}

func (m Model) renderTranscript(width int) string {
	chat, ok := m.snapshot.CurrentChat()
	if !ok {
		return lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Padding(1, 2).
			Render("No chat selected.\n\nSend a message to start one.")
	}

	var sections []string
	for _, msg := range chat.Messages {
		sections = append(sections, m.renderMessage(msg, width))
	}

	if turn := m.renderActiveTurn(width); turn != "" {
		sections = append(sections, turn)
	}

	return strings.Join(sections, "\n\n")
}

func (m Model) renderMessage(msg domain.Message, width int) string {
	var b strings.Builder

	if msg.Role() == domain.RoleUser {
		b.WriteString(styles.UserLabelStyle.Render("You"))
		b.WriteString("\n")
		b.WriteString(wordwrap.String(msg.Content(), width-4))
		return b.String()
	}

	b.WriteString(styles.RoleStyle.Foreground(styles.AgentColor).Render("Agent"))
	b.WriteString("\n")
	b.WriteString(m.renderBody(msg.Content(), width))

	if actions := msg.Actions(); len(actions) > 0 {
		b.WriteString("\n")
		b.WriteString(renderActions(actions, width))
	}
	if shots := msg.Screenshots(); len(shots) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderSteps(shots, width))
	}

	return b.String()
}

// renderActiveTurn shows the live progress of the current turn before
// it commits into the log.
func (m Model) renderActiveTurn(width int) string {
	if !m.snapshot.TurnActive() {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.RoleStyle.Foreground(styles.AgentColor).Render("Agent"))
	b.WriteString("\n")
	b.WriteString(m.spin.View())
	b.WriteString(" ")
	switch m.snapshot.AgentStatus {
	case domain.StatusThinking:
		b.WriteString("Thinking...")
	default:
		b.WriteString("Executing...")
	}

	if actions := m.snapshot.CurrentActions; len(actions) > 0 {
		b.WriteString("\n")
		b.WriteString(renderActions(actions, width))
	}
	if shots := m.snapshot.CurrentScreenshots; len(shots) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderSteps(shots, width))
	}
	if m.snapshot.StepGap {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(styles.StatusWarningColor).
			Render("some steps were not received"))
	}

	return b.String()
}

// renderBody renders agent text as markdown, falling back to plain
// word-wrap when the renderer is unavailable.
func (m Model) renderBody(content string, width int) string {
	if m.md != nil {
		out, err := m.md.Render(content)
		if err == nil {
			return strings.TrimRight(out, "\n")
		}
		log.Warn(log.CatUI, "markdown render failed", "error", err)
	}
	return wordwrap.String(content, width-4)
}

// renderActions renders the action list as a tree hanging off the
// agent message, one line per sub-goal.
func renderActions(actions []domain.AgentAction, width int) string {
	var lines []string
	for i, action := range actions {
		prefix := "├╴ "
		if i == len(actions)-1 {
			prefix = "╰╴ "
		}
		text := action.Title
		if action.Description != "" {
			text += ": " + action.Description
		}
		lines = append(lines, styles.ActionStyle.Render(styles.TruncateString(prefix+text, width)))
	}
	return strings.Join(lines, "\n")
}

// renderSteps renders screenshot step cards. The step index is shown
// as received: missing indices stay visibly missing.
func (m Model) renderSteps(shots []domain.Screenshot, width int) string {
	indexStyle := lipgloss.NewStyle().Foreground(styles.StepIndexColor)
	cardStyle := lipgloss.NewStyle().Foreground(styles.TextDescriptionColor)

	var lines []string
	for _, shot := range shots {
		desc := shot.Description
		if desc == "" {
			desc = "(no description)"
		}
		line := indexStyle.Render(fmt.Sprintf("[%d]", shot.Step)) + " " + cardStyle.Render(desc)
		if label := m.payloadLabel(shot); label != "" {
			line += " " + lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(label)
		}
		lines = append(lines, styles.TruncateString(line, width))
	}
	return strings.Join(lines, "\n")
}

// payloadLabel describes the image payload of a step, using the cached
// fetch result for URL-referenced screenshots.
func (m Model) payloadLabel(shot domain.Screenshot) string {
	switch {
	case shot.Base64 != "":
		return "(inline image)"
	case shot.URL != "":
		if size, ok := m.imageSizes[shot.URL]; ok {
			return fmt.Sprintf("(image, %s)", sizeLabel(size))
		}
		return "(image)"
	default:
		return ""
	}
}

func sizeLabel(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
