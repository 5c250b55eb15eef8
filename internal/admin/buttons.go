package admin

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carta/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/carta/core/telegram/helpers"
	"github.com/m3rciful/carta/internal/catalog"
	"github.com/m3rciful/carta/internal/session"
)

// m
func (e *Engine) onMenu(c tele.Context) error {
	e.clearSession(c)
	return tghelpers.EditOrSendHTML(c, msgMenu, MainMenu())
}

// a:<action>
func (e *Engine) onAction(c tele.Context) error {
	a, ok := parseAction(callbacks.FromContext(c).Arg(0))
	if !ok {
		return e.stale(c)
	}
	return tghelpers.EditOrSendHTML(c, chooseCategory(a), CategoryGrid(a))
}

// c:<action>:<cat>
func (e *Engine) onCategory(c tele.Context) error {
	p := callbacks.FromContext(c)
	a, ok := parseAction(p.Arg(0))
	cat, catOK := catalog.CategoryByCode(p.Arg(1))
	if !ok || !catOK {
		return e.stale(c)
	}

	if a == ActAdd {
		return e.prompt(c, session.Pending{Kind: session.KindAdd, Category: cat}, addPrompt(cat))
	}

	products, err := e.repo.List(tghelpers.BuildContext(c), cat)
	if err != nil {
		return e.storageError(c, opRead, "", err)
	}
	if len(products) == 0 {
		return tghelpers.EditOrSendHTML(c, emptyCategory(cat), BackToCategories(a))
	}
	markup, err := ProductList(a, cat, products)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendHTML(c, chooseProduct(cat), markup)
}

// i:<action>:<cat>:<locator>
func (e *Engine) onItem(c tele.Context) error {
	p := callbacks.FromContext(c)
	a, ok := parseAction(p.Arg(0))
	cat, catOK := catalog.CategoryByCode(p.Arg(1))
	if !ok || !catOK || p.Arg(2) == "" {
		return e.stale(c)
	}
	ref := catalog.Ref{Category: cat, Locator: p.Arg(2)}

	product, err := e.repo.Get(tghelpers.BuildContext(c), ref)
	if err != nil {
		return e.storageError(c, opRead, "", err)
	}

	pending := session.Pending{Category: cat, Locator: ref.Locator}
	switch a {
	case ActPrice:
		pending.Kind = session.KindPrice
		return e.prompt(c, pending, pricePrompt(product))
	case ActRename:
		pending.Kind = session.KindName
		return e.prompt(c, pending, renamePrompt(product))
	case ActDescribe:
		pending.Kind = session.KindDesc
		return e.prompt(c, pending, describePrompt(product))
	case ActDelete:
		markup, err := DeleteConfirm(cat, ref.Locator)
		if err != nil {
			return err
		}
		return tghelpers.EditOrSendHTML(c, deleteConfirm(product), markup)
	}
	return e.stale(c)
}

// x:<cat>:<locator>
func (e *Engine) onExecute(c tele.Context) error {
	p := callbacks.FromContext(c)
	cat, ok := catalog.CategoryByCode(p.Arg(0))
	if !ok || p.Arg(1) == "" {
		return e.stale(c)
	}
	ref := catalog.Ref{Category: cat, Locator: p.Arg(1)}

	removed, err := e.repo.Delete(tghelpers.BuildContext(c), ref, func(p catalog.Product) string {
		return changeDelete(p.ES.Name)
	})
	if err != nil {
		return e.storageError(c, opDelete, "delete", err)
	}
	e.logCommitted(c, opDelete, "delete", removed)
	return tghelpers.EditOrSendHTML(c, deleted(removed, cat), BackToMenu())
}

// stale answers buttons whose data no longer parses, typically from an
// old keyboard after an upgrade.
func (e *Engine) stale(c tele.Context) error {
	tghelpers.SetOutcome(c, "invalid")
	return tghelpers.EditOrSendHTML(c, msgMenu, MainMenu())
}
