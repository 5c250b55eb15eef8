// Package admin is the Telegram conversation that edits the catalog:
// button navigation, free-text prompts tied to a per-chat session, and one
// repository write per completed step.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carta/core/logger"
	tg "github.com/m3rciful/carta/core/telegram"
	"github.com/m3rciful/carta/core/telegram/commands"
	tghelpers "github.com/m3rciful/carta/core/telegram/helpers"
	"github.com/m3rciful/carta/core/telegram/keyboard"
	"github.com/m3rciful/carta/core/telegram/middleware"
	"github.com/m3rciful/carta/core/telegram/router"
	"github.com/m3rciful/carta/internal/catalog"
	"github.com/m3rciful/carta/internal/metrics"
	"github.com/m3rciful/carta/internal/session"
)

// Storage backend names, as configured.
const (
	BackendGitHub   = "github"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Options wires the engine to its collaborators.
type Options struct {
	Repository catalog.Repository
	Sessions   session.Store
	// Backend selects backend-specific hints in failure messages.
	Backend string
	// AdminID of 0 leaves the bot open to everyone.
	AdminID int64
}

// Engine handles every admin update. It holds no per-chat state of its own.
type Engine struct {
	repo     catalog.Repository
	sessions session.Store
	backend  string
	adminID  int64

	replies map[session.Kind]tele.HandlerFunc
}

var _ router.Conversation = (*Engine)(nil)

// New validates opts and builds the engine.
func New(opts Options) (*Engine, error) {
	if opts.Repository == nil {
		return nil, fmt.Errorf("admin: nil repository")
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("admin: nil session store")
	}
	if opts.AdminID < 0 {
		return nil, fmt.Errorf("admin: negative admin id")
	}
	e := &Engine{
		repo:     opts.Repository,
		sessions: opts.Sessions,
		backend:  opts.Backend,
		adminID:  opts.AdminID,
	}
	e.replies = map[session.Kind]tele.HandlerFunc{
		session.KindPrice:    e.replyPrice,
		session.KindName:     e.replyName,
		session.KindDesc:     e.replyDescription,
		session.KindAdd:      e.replyAddNames,
		session.KindAddPrice: e.replyAddPrice,
	}
	return e, nil
}

// Register adds the admin commands and button handlers to reg.
func (e *Engine) Register(reg *tg.Registry) error {
	cmds := map[string]commands.Command{
		"/start":  {Handler: e.showMenu, Description: "Gestión de la carta"},
		"/menu":   {Handler: e.showMenu, Description: "Menú principal"},
		"/cancel": {Handler: e.cancel, Description: "Cancelar la edición en curso"},
	}
	for name, cmd := range cmds {
		if err := reg.RegisterCommand(name, cmd); err != nil {
			return err
		}
	}
	cbs := map[string]tele.HandlerFunc{
		tagMenu:     e.onMenu,
		tagAction:   e.onAction,
		tagCategory: e.onCategory,
		tagItem:     e.onItem,
		tagExecute:  e.onExecute,
	}
	for tag, h := range cbs {
		if err := reg.RegisterCallback(tag, h); err != nil {
			return err
		}
	}
	reg.SetCallbackNotFound(e.stale)
	reg.SetTextFallback(e.showMenu)
	return nil
}

// Routes registers the engine in reg and returns the bot routes, each
// behind the admin gate. onHandled may be nil.
func (e *Engine) Routes(reg *tg.Registry, onHandled router.HandledFunc) ([]tg.Route, error) {
	if err := e.Register(reg); err != nil {
		return nil, err
	}
	msgGate := middleware.AccessOptions{AdminID: e.adminID, OnReject: e.denyMessage}
	cbGate := middleware.AccessOptions{AdminID: e.adminID, OnReject: e.denyButton}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{Access: msgGate, OnHandled: onHandled})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{Access: cbGate, OnHandled: onHandled}))
	routes = append(routes, router.TextRoutes(e, reg, router.TextOptions{
		Access:    msgGate,
		OnHandled: onHandled,
	})...)
	return routes, nil
}

// InProgress reports whether chatID has a live pending prompt.
func (e *Engine) InProgress(ctx context.Context, chatID int64) bool {
	_, ok, err := e.sessions.Get(ctx, chatID)
	if err != nil {
		logger.LogEvent(ctx, logger.Session, slog.LevelWarn, "session.get",
			slog.String("status", "fail"), logger.ErrAttr(err))
		return false
	}
	return ok
}

// HandleReply answers the chat's pending prompt with the message text.
func (e *Engine) HandleReply(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	p, ok, err := e.sessions.Get(ctx, tghelpers.ChatID(c))
	if err != nil || !ok {
		return e.showMenu(c)
	}
	h, ok := e.replies[p.Kind]
	if !ok {
		return e.showMenu(c)
	}
	c.Set(pendingKey, p)
	return h(c)
}

const pendingKey = "admin_pending"

func pendingFrom(c tele.Context) session.Pending {
	p, _ := c.Get(pendingKey).(session.Pending)
	return p
}

// showMenu abandons any pending prompt, so a later reply is not applied to it.
func (e *Engine) showMenu(c tele.Context) error {
	e.clearSession(c)
	return tghelpers.SendHTML(c, msgMenu, MainMenu())
}

func (e *Engine) cancel(c tele.Context) error {
	if err := e.sessions.Clear(tghelpers.BuildContext(c), tghelpers.ChatID(c)); err != nil {
		return err
	}
	return tghelpers.SendHTML(c, msgCancelled, MainMenu())
}

func (e *Engine) denyMessage(c tele.Context) error {
	return tghelpers.SendHTML(c, msgDenied)
}

func (e *Engine) denyButton(c tele.Context) error {
	return tghelpers.SendHTML(c, msgDeniedButton)
}

// prompt stores p for the chat and sends text with the reply field open.
func (e *Engine) prompt(c tele.Context, p session.Pending, text string) error {
	ctx := tghelpers.BuildContext(c)
	if err := e.sessions.Put(ctx, tghelpers.ChatID(c), p); err != nil {
		logger.LogEvent(ctx, logger.Session, slog.LevelError, "session.put",
			slog.String("status", "fail"),
			slog.String("kind", string(p.Kind)),
			logger.ErrAttr(err),
		)
		tghelpers.SetOutcome(c, "fail")
		return tghelpers.SendHTML(c, msgSessionFailed)
	}
	return tghelpers.SendHTML(c, text, keyboard.ForceReply())
}

func (e *Engine) clearSession(c tele.Context) {
	ctx := tghelpers.BuildContext(c)
	if err := e.sessions.Clear(ctx, tghelpers.ChatID(c)); err != nil {
		logger.LogEvent(ctx, logger.Session, slog.LevelWarn, "session.clear",
			slog.String("status", "fail"), logger.ErrAttr(err))
	}
}

// invalid reports a validation failure. The session stays so the admin can
// answer the same prompt again.
func (e *Engine) invalid(c tele.Context, action, text string) error {
	tghelpers.SetOutcome(c, "invalid")
	metrics.IncMutation(action, "invalid")
	return tghelpers.SendHTML(c, text)
}

// storageError maps a repository error to the admin's message. Both
// outcomes end the conversation.
func (e *Engine) storageError(c tele.Context, op operation, action string, err error) error {
	ctx := tghelpers.BuildContext(c)
	outcome := "fail"
	text := storageFailure(op, e.backend)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		outcome, text = "not_found", msgNotFound
	case errors.Is(err, catalog.ErrConflict):
		outcome = "conflict"
	}
	level := slog.LevelError
	if outcome == "not_found" {
		level = slog.LevelInfo
	}
	logger.LogEvent(ctx, logger.Admin, level, "admin."+string(op),
		slog.String("status", "fail"),
		slog.String("outcome", outcome),
		slog.String("backend", e.backend),
		logger.ErrAttr(err),
	)
	tghelpers.SetOutcome(c, outcome)
	if action != "" {
		metrics.IncMutation(action, outcome)
	}
	e.clearSession(c)
	return tghelpers.SendHTML(c, text)
}

// logCommitted records a successful write and ends the conversation.
func (e *Engine) logCommitted(c tele.Context, op operation, action string, p catalog.Product) {
	ctx := tghelpers.BuildContext(c)
	logger.LogEvent(ctx, logger.Admin, slog.LevelInfo, "admin."+string(op),
		slog.String("status", "ok"),
		slog.String("category", string(p.Category)),
		slog.String("locator", p.Locator),
	)
	metrics.IncMutation(action, "ok")
	e.clearSession(c)
}

// committed confirms a successful write with a fresh message.
func (e *Engine) committed(c tele.Context, op operation, action string, p catalog.Product, text string) error {
	e.logCommitted(c, op, action, p)
	return tghelpers.SendHTML(c, text, BackToMenu())
}
