package chat

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/beautyai/beautyai-api/internal/audit"
	"github.com/beautyai/beautyai-api/internal/authz"
	domain "github.com/beautyai/beautyai-api/internal/domain/chat"
	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/models"
)

var (
	ErrClientNotFound  = httperr.ErrNotFound("client_not_found", "Client not found")
	ErrMessageNotFound = httperr.ErrNotFound("message_not_found", "Message not found")

	ErrNoClientPermission  = httperr.ErrForbidden("no_permission_for_client", "No permission for this client")
	ErrNoMessagePermission = httperr.ErrForbidden("no_permission_for_message", "No permission for this message")

	ErrClientMustSendAsClient = httperr.ErrBadRequest("client_flag_mismatch", "Clients can only send messages from themselves")
	ErrWrongReadDirection     = httperr.ErrBadRequest("wrong_read_direction", "Can only mark messages from the other party as read")
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Auditor interface {
	Dispatch(ev audit.Event)
}

func notFoundAs(err error, nf error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nf
	}
	return err
}

// ======================================================
// SEND
// ======================================================

type SendInput struct {
	ClientID uint
	Message  string
	// nil means true
	IsFromClient *bool
}

type SendMessage struct {
	repo  domain.Repository
	audit Auditor
	now   func() time.Time
}

func NewSendMessage(repo domain.Repository, audit Auditor) *SendMessage {
	return &SendMessage{repo: repo, audit: audit, now: time.Now}
}

func (uc *SendMessage) Execute(
	ctx context.Context,
	caller *models.User,
	in SendInput,
) (*models.ChatMessage, error) {

	fromClient := true
	if in.IsFromClient != nil {
		fromClient = *in.IsFromClient
	}

	client, err := uc.repo.GetClient(ctx, in.ClientID)
	if err != nil {
		return nil, notFoundAs(err, ErrClientNotFound)
	}

	if err := authz.Authorize(caller, client, authz.Read); err != nil {
		return nil, ErrNoClientPermission
	}

	// cosmetologists may set either flag
	if caller.Role == models.RoleClient && !fromClient {
		return nil, ErrClientMustSendAsClient
	}

	msg := &models.ChatMessage{
		ClientID:     client.ID,
		SenderID:     caller.ID,
		IsFromClient: fromClient,
		Message:      in.Message,
		SentAt:       uc.now().UTC(),
	}

	if err := uc.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.ID,
		ClientID: &client.ID,
		Action:   audit.ActionMessageSent,
		Entity:   "chat_message",
		EntityID: &msg.ID,
	})

	return msg, nil
}

// ======================================================
// LIST
// ======================================================

type ListMessages struct {
	repo domain.Repository
}

func NewListMessages(repo domain.Repository) *ListMessages {
	return &ListMessages{repo: repo}
}

// Execute returns the most recent page of the thread, oldest first within the page.
func (uc *ListMessages) Execute(
	ctx context.Context,
	caller *models.User,
	clientID uint,
	skip, limit int,
) ([]models.ChatMessage, error) {

	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	client, err := uc.repo.GetClient(ctx, clientID)
	if err != nil {
		return nil, notFoundAs(err, ErrClientNotFound)
	}

	if err := authz.Authorize(caller, client, authz.Read); err != nil {
		return nil, ErrNoClientPermission
	}

	msgs, err := uc.repo.ListRecentMessages(ctx, client.ID, skip, limit)
	if err != nil {
		return nil, err
	}
	return domain.Chronological(msgs), nil
}

// ======================================================
// MARK READ
// ======================================================

type MarkRead struct {
	repo domain.Repository
	now  func() time.Time
}

func NewMarkRead(repo domain.Repository) *MarkRead {
	return &MarkRead{repo: repo, now: time.Now}
}

// Execute stamps read_at. Re-marking overwrites the previous timestamp.
func (uc *MarkRead) Execute(
	ctx context.Context,
	caller *models.User,
	messageID uint,
) (*models.ChatMessage, error) {

	msg, err := uc.repo.GetMessage(ctx, messageID)
	if err != nil {
		return nil, notFoundAs(err, ErrMessageNotFound)
	}

	client, err := uc.repo.GetClient(ctx, msg.ClientID)
	if err != nil {
		return nil, notFoundAs(err, ErrClientNotFound)
	}

	if err := authz.Authorize(caller, client, authz.Read); err != nil {
		return nil, ErrNoMessagePermission
	}

	// authors never acknowledge their own messages, whatever the flag says
	if msg.SenderID == caller.ID {
		return nil, ErrWrongReadDirection
	}
	if caller.Role != models.RoleSuperadmin &&
		!domain.CanMarkRead(authz.IsCounterpartClient(caller, client), msg) {
		return nil, ErrWrongReadDirection
	}

	now := uc.now().UTC()
	msg.ReadAt = &now

	if err := uc.repo.MarkRead(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
