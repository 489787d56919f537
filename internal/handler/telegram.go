package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/support-router/internal/routing"
	"github.com/psds-microservice/support-router/internal/service"
	"github.com/psds-microservice/support-router/internal/telegram"
)

const (
	secretHeader      = "X-Telegram-Bot-Api-Secret-Token"
	internalErrorText = "Something went wrong. Please try again later."
)

type RoleResolver interface {
	Resolve(ctx context.Context, actorID string, tenantID int64) (service.Role, error)
}

type EventRouter interface {
	Route(ctx context.Context, ev routing.Event) ([]routing.Action, error)
}

type ActionDispatcher interface {
	Dispatch(ctx context.Context, actions []routing.Action)
}

type CallbackAnswerer interface {
	AnswerCallback(ctx context.Context, callbackID string)
}

type TelegramDeps struct {
	TenantID   int64
	Secret     string
	Roles      RoleResolver
	Router     EventRouter
	Dispatcher ActionDispatcher
	Callbacks  CallbackAnswerer
	Logger     *slog.Logger
}

// TelegramHandler принимает webhook Bot API. Telegram повторяет доставку при
// любом ответе кроме 200, поэтому ошибки обработки только логируются.
type TelegramHandler struct {
	TelegramDeps
}

func NewTelegramHandler(deps TelegramDeps) *TelegramHandler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &TelegramHandler{TelegramDeps: deps}
}

// Webhook: POST /telegram/webhook
func (h *TelegramHandler) Webhook(c *gin.Context) {
	if h.Secret != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader(secretHeader)), []byte(h.Secret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret token"})
		return
	}
	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.Logger.Warn("telegram: malformed update", "err", err)
		c.Status(http.StatusOK)
		return
	}
	// обработка не должна обрываться, если Telegram закрыл соединение
	ctx := context.WithoutCancel(c.Request.Context())
	h.handle(ctx, &update)
	c.Status(http.StatusOK)
}

func (h *TelegramHandler) handle(ctx context.Context, update *telegram.Update) {
	in, ok := telegram.ParseUpdate(update)
	if in.CallbackID != "" {
		defer h.Callbacks.AnswerCallback(ctx, in.CallbackID)
	}
	if !ok {
		return
	}
	ev := in.Event
	ev.TenantID = h.TenantID
	role, err := h.Roles.Resolve(ctx, ev.ActorID, ev.TenantID)
	if err != nil {
		h.Logger.Error("resolve role", "update_id", update.UpdateID, "actor_id", ev.ActorID, "err", err)
		return
	}
	ev.Role = role

	actions, err := h.Router.Route(ctx, ev)
	if err != nil {
		h.Logger.Error("route event", "update_id", update.UpdateID, "actor_id", ev.ActorID, "role", role, "err", err)
		h.Dispatcher.Dispatch(ctx, []routing.Action{routing.Reply(ev.ActorID, internalErrorText)})
		return
	}
	h.Dispatcher.Dispatch(ctx, actions)
}
