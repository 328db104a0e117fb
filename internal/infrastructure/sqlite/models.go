package sqlite

import (
	"encoding/json"
	"time"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
)

// ChatModel represents the database row for the chats table.
// Time values are stored as Unix timestamps.
type ChatModel struct {
	ID        string
	Title     string
	Starred   bool
	CreatedAt int64
	UpdatedAt int64
}

// MessageModel represents the database row for the messages table.
// Actions and Screenshots are JSON-encoded; NULL means none.
type MessageModel struct {
	ID          string
	ChatID      string
	Seq         int
	Role        string
	Content     string
	Actions     *string
	Screenshots *string
	CreatedAt   int64
}

// actionRecord is the JSON layout for one agent action.
type actionRecord struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

// screenshotRecord is the JSON layout for one screenshot step.
type screenshotRecord struct {
	Step        int    `json:"step"`
	Description string `json:"description,omitempty"`
	Base64      string `json:"base64,omitempty"`
	URL         string `json:"url,omitempty"`
}

func toChatModel(c *domain.Chat) *ChatModel {
	return &ChatModel{
		ID:        c.ID(),
		Title:     c.Title(),
		Starred:   c.Starred(),
		CreatedAt: c.CreatedAt().Unix(),
		UpdatedAt: c.UpdatedAt().Unix(),
	}
}

func toMessageModel(chatID string, seq int, m domain.Message) (*MessageModel, error) {
	model := &MessageModel{
		ID:        m.ID(),
		ChatID:    chatID,
		Seq:       seq,
		Role:      string(m.Role()),
		Content:   m.Content(),
		CreatedAt: m.Timestamp().Unix(),
	}

	if actions := m.Actions(); len(actions) > 0 {
		records := make([]actionRecord, len(actions))
		for i, a := range actions {
			records[i] = actionRecord{
				Title:       a.Title,
				Description: a.Description,
				Status:      string(a.Status),
			}
		}
		encoded, err := json.Marshal(records)
		if err != nil {
			return nil, err
		}
		s := string(encoded)
		model.Actions = &s
	}

	if screenshots := m.Screenshots(); len(screenshots) > 0 {
		records := make([]screenshotRecord, len(screenshots))
		for i, s := range screenshots {
			records[i] = screenshotRecord{
				Step:        s.Step,
				Description: s.Description,
				Base64:      s.Base64,
				URL:         s.URL,
			}
		}
		encoded, err := json.Marshal(records)
		if err != nil {
			return nil, err
		}
		s := string(encoded)
		model.Screenshots = &s
	}

	return model, nil
}

func (m *MessageModel) toDomain() (domain.Message, error) {
	var actions []domain.AgentAction
	if m.Actions != nil {
		var records []actionRecord
		if err := json.Unmarshal([]byte(*m.Actions), &records); err != nil {
			return domain.Message{}, err
		}
		actions = make([]domain.AgentAction, len(records))
		for i, r := range records {
			actions[i] = domain.AgentAction{
				Title:       r.Title,
				Description: r.Description,
				Status:      domain.AgentStatus(r.Status),
			}
		}
	}

	var screenshots []domain.Screenshot
	if m.Screenshots != nil {
		var records []screenshotRecord
		if err := json.Unmarshal([]byte(*m.Screenshots), &records); err != nil {
			return domain.Message{}, err
		}
		screenshots = make([]domain.Screenshot, len(records))
		for i, r := range records {
			screenshots[i] = domain.Screenshot{
				Step:        r.Step,
				Description: r.Description,
				Base64:      r.Base64,
				URL:         r.URL,
			}
		}
	}

	return domain.ReconstituteMessage(
		m.ID,
		domain.Role(m.Role),
		m.Content,
		actions,
		screenshots,
		time.Unix(m.CreatedAt, 0),
	), nil
}

func (m *ChatModel) toDomain(messages []domain.Message) *domain.Chat {
	return domain.ReconstituteChat(
		m.ID,
		m.Title,
		m.Starred,
		messages,
		time.Unix(m.CreatedAt, 0),
		time.Unix(m.UpdatedAt, 0),
	)
}
