package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carta/core/logger"
	"github.com/m3rciful/carta/core/telegram/commands"
)

// Registry holds bot commands and callback handlers. Callbacks are keyed by
// the tag, the first colon-separated segment of the button data.
type Registry struct {
	commands         map[string]commands.Command
	callbacks        map[string]tele.HandlerFunc
	callbacksMu      sync.RWMutex
	callbackNotFound tele.HandlerFunc
	textFallback     tele.HandlerFunc
}

// NewRegistry creates an empty Registry. Unknown callbacks are ignored by default.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]commands.Command),
		callbacks: make(map[string]tele.HandlerFunc),
	}
}

// RegisterCommand adds a new command. Names must start with a slash.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	if name == "" || cmd.Handler == nil || cmd.Description == "" {
		return fmt.Errorf("invalid command registration: %q", name)
	}
	if name[0] != '/' {
		return fmt.Errorf("command %q must start with /", name)
	}
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command already registered: %s", name)
	}
	r.commands[name] = cmd
	return nil
}

// ListCommands returns the menu entries, skipping hidden commands when visibleOnly is set.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for name, meta := range r.commands {
		if visibleOnly && meta.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(name, "/"), Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand finds a command by name or alias and returns its canonical name.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", commands.Command{}, false
	}
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		for _, alias := range cmd.Aliases {
			if alias == name || "/"+alias == name {
				return key, cmd, true
			}
		}
	}
	return "", commands.Command{}, false
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]commands.Command {
	return r.commands
}

// RegisterCallback maps tag to handler.
func (r *Registry) RegisterCallback(tag string, handler tele.HandlerFunc) error {
	if tag == "" || handler == nil || strings.Contains(tag, ":") {
		return fmt.Errorf("invalid callback registration: %q", tag)
	}
	r.callbacksMu.Lock()
	defer r.callbacksMu.Unlock()
	if _, exists := r.callbacks[tag]; exists {
		return fmt.Errorf("callback already registered: %s", tag)
	}
	r.callbacks[tag] = handler
	return nil
}

// GetCallback returns the handler for tag.
func (r *Registry) GetCallback(tag string) (tele.HandlerFunc, bool) {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	h, ok := r.callbacks[tag]
	return h, ok
}

// ListCallbacks returns sorted tags (for diagnostics).
func (r *Registry) ListCallbacks() []string {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	names := make([]string, 0, len(r.callbacks))
	for k := range r.callbacks {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SetCallbackNotFound replaces the fallback handler for unknown callbacks.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	r.callbackNotFound = h
}

// CallbackNotFound returns the current fallback callback handler.
func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	return r.callbackNotFound
}

// SetTextFallback sets the handler for text that nothing else claims.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.textFallback = h
}

// TextFallback returns the current text fallback handler.
func (r *Registry) TextFallback() tele.HandlerFunc {
	return r.textFallback
}

// InitBotCommands publishes the visible commands in the Telegram command menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	list := reg.ListCommands(true)
	if len(list) == 0 {
		return
	}
	if err := bot.SetCommands(list); err != nil {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelError, "register.commands",
			slog.String("status", "fail"),
			logger.ErrAttr(err),
		)
	}
}
