package admin

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carta/core/telegram/callbacks"
	"github.com/m3rciful/carta/core/telegram/format"
	"github.com/m3rciful/carta/core/telegram/keyboard"
	"github.com/m3rciful/carta/internal/catalog"
)

// Action is what the admin picked in the main menu.
type Action string

const (
	ActPrice    Action = "p"
	ActRename   Action = "n"
	ActDescribe Action = "ds"
	ActAdd      Action = "a"
	ActDelete   Action = "d"
)

// Callback tags.
const (
	tagMenu     = "m"
	tagAction   = "a"
	tagCategory = "c"
	tagItem     = "i"
	tagExecute  = "x"
)

const maxButtonLabel = 45

var actionLabels = []struct {
	action Action
	label  string
}{
	{ActPrice, "💰 Modificar precio"},
	{ActRename, "✏️ Renombrar producto"},
	{ActDescribe, "📝 Modificar descripción"},
	{ActAdd, "➕ Añadir producto"},
	{ActDelete, "🗑 Eliminar producto"},
}

// Label is the main menu caption of a.
func (a Action) Label() string {
	for _, l := range actionLabels {
		if l.action == a {
			return l.label
		}
	}
	return ""
}

func parseAction(s string) (Action, bool) {
	a := Action(s)
	return a, a.Label() != ""
}

// MainMenu has one button per action.
func MainMenu() *tele.ReplyMarkup {
	buttons := make([]keyboard.Button, 0, len(actionLabels))
	for _, l := range actionLabels {
		buttons = append(buttons, keyboard.Button{Text: l.label, Data: callbacks.MustEncode(tagAction, string(l.action))})
	}
	return keyboard.Inline(keyboard.Column(buttons...)...)
}

// CategoryGrid lists every category two per row, then a back button.
func CategoryGrid(a Action) *tele.ReplyMarkup {
	var buttons []keyboard.Button
	for _, cat := range catalog.Categories() {
		buttons = append(buttons, keyboard.Button{
			Text: cat.Title(),
			Data: callbacks.MustEncode(tagCategory, string(a), cat.Code()),
		})
	}
	rows := keyboard.Grid(buttons, 2)
	rows = append(rows, []keyboard.Button{{Text: "← Volver", Data: tagMenu}})
	return keyboard.Inline(rows...)
}

// ProductList has one button per product. Reprice labels carry the current price.
func ProductList(a Action, cat catalog.Category, products []catalog.Product) (*tele.ReplyMarkup, error) {
	rows := make([][]keyboard.Button, 0, len(products)+1)
	for _, p := range products {
		data, err := callbacks.Encode(tagItem, string(a), cat.Code(), p.Locator)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []keyboard.Button{{Text: productLabel(a, p), Data: data}})
	}
	rows = append(rows, []keyboard.Button{backTo(a)})
	return keyboard.Inline(rows...), nil
}

func productLabel(a Action, p catalog.Product) string {
	label := p.ES.Name
	if a == ActPrice {
		label += " — " + p.ES.Price + "€"
	}
	return format.Truncate(label, maxButtonLabel)
}

// DeleteConfirm pairs the confirm and cancel buttons on one row.
func DeleteConfirm(cat catalog.Category, locator string) (*tele.ReplyMarkup, error) {
	yes, err := callbacks.Encode(tagExecute, cat.Code(), locator)
	if err != nil {
		return nil, err
	}
	return keyboard.Inline([]keyboard.Button{
		{Text: "✅ Sí, eliminar", Data: yes},
		{Text: "❌ Cancelar", Data: callbacks.MustEncode(tagCategory, string(ActDelete), cat.Code())},
	}), nil
}

// BackToMenu is the single button under every confirmation.
func BackToMenu() *tele.ReplyMarkup {
	return keyboard.Inline([]keyboard.Button{backToMenu()})
}

// BackToCategories returns to the category grid of a.
func BackToCategories(a Action) *tele.ReplyMarkup {
	return keyboard.Inline([]keyboard.Button{backTo(a)})
}

func backToMenu() keyboard.Button {
	return keyboard.Button{Text: "← Volver al menú", Data: tagMenu}
}

func backTo(a Action) keyboard.Button {
	return keyboard.Button{Text: "← Volver", Data: callbacks.MustEncode(tagAction, string(a))}
}
