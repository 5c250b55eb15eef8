// Package keyboard builds inline keyboards whose buttons carry raw
// callback data, routed by tag through the registry.
package keyboard

import tele "gopkg.in/telebot.v4"

// Button is one inline button.
type Button struct {
	Text string
	Data string
}

// ForceReply returns a markup that opens the reply field on the client.
func ForceReply() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{ForceReply: true}
}

// Inline builds an inline keyboard from rows of buttons.
func Inline(rows ...[]Button) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			r = append(r, tele.InlineButton{Text: b.Text, Data: b.Data})
		}
		inline = append(inline, r)
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}

// Column places each button on its own row.
func Column(buttons ...Button) [][]Button {
	return Grid(buttons, 1)
}

// Grid splits buttons into rows of up to n.
func Grid(buttons []Button, n int) [][]Button {
	if n < 1 {
		n = 1
	}
	rows := make([][]Button, 0, (len(buttons)+n-1)/n)
	for i := 0; i < len(buttons); i += n {
		end := i + n
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	return rows
}
