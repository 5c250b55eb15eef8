package middleware

import tele "gopkg.in/telebot.v4"

// countingContext wraps tele.Context to count sent messages and detect keyboard usage.
type countingContext struct{ tele.Context }

func (m countingContext) inc(opts []interface{}) {
	n, _ := m.Get("messages").(int)
	m.Set("messages", n+1)
	if hasKeyboard(opts) {
		m.Set("kb", true)
	}
}

func hasKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// Send proxies tele.Context.Send while updating message counters.
func (m countingContext) Send(what interface{}, opts ...interface{}) error {
	err := m.Context.Send(what, opts...)
	if err == nil {
		m.inc(opts)
	}
	return err
}

// Reply proxies tele.Context.Reply while updating message counters.
func (m countingContext) Reply(what interface{}, opts ...interface{}) error {
	err := m.Context.Reply(what, opts...)
	if err == nil {
		m.inc(opts)
	}
	return err
}

// Edit proxies tele.Context.Edit while updating message counters.
func (m countingContext) Edit(what interface{}, opts ...interface{}) error {
	err := m.Context.Edit(what, opts...)
	if err == nil {
		m.inc(opts)
	}
	return err
}

// EditOrSend proxies tele.Context.EditOrSend while updating message counters.
func (m countingContext) EditOrSend(what interface{}, opts ...interface{}) error {
	err := m.Context.EditOrSend(what, opts...)
	if err == nil {
		m.inc(opts)
	}
	return err
}

// CountersMiddleware instruments the context to count outgoing messages and keyboards.
func CountersMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set("messages", 0)
		c.Set("kb", false)
		return next(countingContext{Context: c})
	}
}

// GetCounters reads message count and keyboard presence flags from context.
func GetCounters(c tele.Context) (int, bool) {
	msgs, _ := c.Get("messages").(int)
	kb, _ := c.Get("kb").(bool)
	return msgs, kb
}
