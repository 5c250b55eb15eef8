package helpers

import tele "gopkg.in/telebot.v4"

func htmlOptions(markup []*tele.ReplyMarkup) *tele.SendOptions {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML}
	if len(markup) > 0 {
		opts.ReplyMarkup = markup[0]
	}
	return opts
}

// SendHTML sends an HTML message to the current chat.
func SendHTML(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return c.Send(text, htmlOptions(markup))
}

// EditOrSendHTML edits when the update is a button press and sends otherwise.
func EditOrSendHTML(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return c.EditOrSend(text, htmlOptions(markup))
}
