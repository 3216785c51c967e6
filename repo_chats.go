package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ChatHistoryLimit caps how many interactions a history read returns.
const ChatHistoryLimit = 50

// ChatStore is what the chat controller needs from persistence.
type ChatStore interface {
	ListByUser(ctx context.Context, userID string) ([]*Chat, error)
	Create(ctx context.Context, userID, message, response string) (*Chat, error)
}

// Chats is the bun-backed chat history store.
type Chats struct {
	db *bun.DB
}

func NewChatsRepository(db *bun.DB) *Chats {
	return &Chats{db: db}
}

var _ ChatStore = (*Chats)(nil)

// ListByUser returns the user's most recent interactions, newest first.
func (r *Chats) ListByUser(ctx context.Context, userID string) ([]*Chat, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid user id")
	}

	chats := make([]*Chat, 0)
	err = r.db.NewSelect().
		Model(&chats).
		Where("user_id = ?", id).
		Order("created_at DESC").
		Limit(ChatHistoryLimit).
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list chat history")
	}

	return chats, nil
}

// Create persists one interaction for the user.
func (r *Chats) Create(ctx context.Context, userID, message, response string) (*Chat, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid user id")
	}

	now := time.Now()
	chat := &Chat{
		ID:        uuid.New(),
		UserID:    id,
		Message:   message,
		Response:  response,
		CreatedAt: &now,
	}

	if _, err := r.db.NewInsert().Model(chat).Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to save chat")
	}

	return chat, nil
}
