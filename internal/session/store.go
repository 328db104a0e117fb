package session

import (
	"sort"

	"github.com/google/uuid"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/log"
)

// Store owns every Chat and Message for the lifetime of the session.
// Mutations go through the controller; reads go through the snapshot.
// When a repository is provided, committed mutations are written
// through so the chat list survives restarts. Persistence failures are
// logged and never fatal: the in-memory state stays authoritative.
type Store struct {
	chats     map[string]*domain.Chat
	currentID string
	repo      domain.ChatRepository
}

// NewStore creates a store. repo may be nil for memory-only operation.
func NewStore(repo domain.ChatRepository) *Store {
	return &Store{
		chats: make(map[string]*domain.Chat),
		repo:  repo,
	}
}

// Load hydrates the chat list from the repository. The most recently
// updated chat becomes current.
func (s *Store) Load() error {
	if s.repo == nil {
		return nil
	}
	chats, err := s.repo.List()
	if err != nil {
		return err
	}
	for _, chat := range chats {
		s.chats[chat.ID()] = chat
	}
	if len(chats) > 0 {
		s.currentID = chats[0].ID()
	}
	log.Info(log.CatStore, "loaded chats", "count", len(chats))
	return nil
}

// CreateChat allocates a new chat with a placeholder title, makes it
// current, and returns it.
func (s *Store) CreateChat() *domain.Chat {
	chat := domain.NewChat(uuid.NewString())
	s.chats[chat.ID()] = chat
	s.currentID = chat.ID()
	s.persist(chat)
	log.Debug(log.CatStore, "created chat", "id", chat.ID())
	return chat
}

// SelectChat makes the chat with the given id current.
// Returns false (and changes nothing) when the id is unknown.
func (s *Store) SelectChat(id string) bool {
	if _, ok := s.chats[id]; !ok {
		log.Debug(log.CatStore, "select of unknown chat", "id", id)
		return false
	}
	s.currentID = id
	return true
}

// Current returns the selected chat, or nil when none is selected.
func (s *Store) Current() *domain.Chat {
	if s.currentID == "" {
		return nil
	}
	return s.chats[s.currentID]
}

// CurrentID returns the selected chat id, or "" when none is selected.
func (s *Store) CurrentID() string {
	return s.currentID
}

// Get returns the chat with the given id, or nil.
func (s *Store) Get(id string) *domain.Chat {
	return s.chats[id]
}

// Chats returns all chats ordered by most recently updated. The order
// is recomputed on every call rather than stored redundantly.
func (s *Store) Chats() []*domain.Chat {
	out := make([]*domain.Chat, 0, len(s.chats))
	for _, chat := range s.chats {
		out = append(out, chat)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt().Equal(out[j].UpdatedAt()) {
			return out[i].UpdatedAt().After(out[j].UpdatedAt())
		}
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out
}

// AppendUserMessage commits a user message to the current chat,
// creating a chat first if none is selected. Validation (non-empty
// text, no active turn) is the controller's job, not the store's.
func (s *Store) AppendUserMessage(text string) domain.Message {
	chat := s.Current()
	if chat == nil {
		chat = s.CreateChat()
	}
	msg := domain.NewUserMessage(uuid.NewString(), text)
	chat.Append(msg)
	s.persist(chat)
	return msg
}

// CommitAgentTurn builds one immutable agent message from the turn's
// accumulated actions and screenshots and appends it to the owning
// chat, which may no longer be the current one.
func (s *Store) CommitAgentTurn(chatID, content string, actions []domain.AgentAction, screenshots []domain.Screenshot) (domain.Message, bool) {
	chat := s.chats[chatID]
	if chat == nil {
		log.Warn(log.CatStore, "commit for unknown chat", "id", chatID)
		return domain.Message{}, false
	}
	msg := domain.NewAgentMessage(uuid.NewString(), content, actions, screenshots)
	chat.Append(msg)
	s.persist(chat)
	log.Debug(log.CatStore, "committed turn",
		"chat", chatID, "actions", len(actions), "screenshots", len(screenshots))
	return msg, true
}

// ToggleStar flips the star flag on a chat.
// Returns false when the id is unknown.
func (s *Store) ToggleStar(id string) bool {
	chat := s.chats[id]
	if chat == nil {
		return false
	}
	chat.ToggleStar()
	s.persist(chat)
	return true
}

// RemoveChat deletes a chat. Removing the current chat clears the
// selection. Returns false when the id is unknown.
func (s *Store) RemoveChat(id string) bool {
	if _, ok := s.chats[id]; !ok {
		return false
	}
	delete(s.chats, id)
	if s.currentID == id {
		s.currentID = ""
	}
	if s.repo != nil {
		if err := s.repo.Delete(id); err != nil {
			log.ErrorErr(log.CatDB, "delete failed", err, "chat", id)
		}
	}
	return true
}

func (s *Store) persist(chat *domain.Chat) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(chat); err != nil {
		log.ErrorErr(log.CatDB, "save failed", err, "chat", chat.ID())
	}
}
