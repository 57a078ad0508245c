package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soulease/guidance/internal/adapter/ai"
	"github.com/soulease/guidance/internal/domain"
	"github.com/soulease/guidance/internal/service/quota"
)

// ChatService runs persona conversations. History is persisted per
// (session, persona) as a bounded window; only the window is ever sent to
// the completion service.
type ChatService struct {
	Client  domain.CompletionClient
	Store   domain.SessionStore
	Prompts *ai.PromptBuilder
	Quota   *quota.Window
	Window  int
	now     func() time.Time
}

// NewChatService constructs a ChatService keeping window messages of history.
func NewChatService(client domain.CompletionClient, store domain.SessionStore, q *quota.Window, window int) ChatService {
	return ChatService{
		Client:  client,
		Store:   store,
		Prompts: ai.NewPromptBuilder(),
		Quota:   q,
		Window:  window,
		now:     time.Now,
	}
}

// Send appends the user's message, asks the persona for a reply, persists
// both, and returns the assistant message. The completion call receives the
// history as it was before this message.
func (s ChatService) Send(ctx context.Context, session, personaID, content string) (domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: message required", domain.ErrInvalidArgument)
	}
	persona, ok := ai.PersonaByID(personaID)
	if !ok {
		return domain.ChatMessage{}, fmt.Errorf("%w: unknown persona %q", domain.ErrNotFound, personaID)
	}
	if !s.Client.IsConfigured() {
		return domain.ChatMessage{}, fmt.Errorf("%w: configure an API key to chat", domain.ErrNotConfigured)
	}

	history, err := s.History(ctx, session, personaID)
	if err != nil {
		return domain.ChatMessage{}, err
	}

	s.Quota.Record()
	raw, err := s.Client.Complete(ctx, s.Prompts.Chat(persona, history, content))
	if err != nil {
		return domain.ChatMessage{}, err
	}
	reply := strings.TrimSpace(raw)
	if reply == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: empty chat reply", domain.ErrMalformedResponse)
	}

	now := s.now().UTC()
	userMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.ChatRoleUser,
		Content:   content,
		Timestamp: now,
	}
	assistantMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.ChatRoleAssistant,
		Content:   reply,
		Timestamp: now,
	}

	history = append(history, userMsg, assistantMsg)
	if len(history) > s.Window {
		history = history[len(history)-s.Window:]
	}
	if err := s.Store.PutJSON(ctx, chatKey(session, personaID), history); err != nil {
		slog.Warn("chat history write failed",
			slog.String("persona", personaID),
			slog.Any("error", err))
	}
	return assistantMsg, nil
}

// History returns the persisted conversation window, oldest first. An
// unknown persona id is an error; an empty conversation is not.
func (s ChatService) History(ctx context.Context, session, personaID string) ([]domain.ChatMessage, error) {
	if _, ok := ai.PersonaByID(personaID); !ok {
		return nil, fmt.Errorf("%w: unknown persona %q", domain.ErrNotFound, personaID)
	}
	history := []domain.ChatMessage{}
	if _, err := s.Store.GetJSON(ctx, chatKey(session, personaID), 0, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Clear deletes the conversation for one persona.
func (s ChatService) Clear(ctx context.Context, session, personaID string) error {
	if _, ok := ai.PersonaByID(personaID); !ok {
		return fmt.Errorf("%w: unknown persona %q", domain.ErrNotFound, personaID)
	}
	return s.Store.Del(ctx, chatKey(session, personaID))
}
