package admin

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/carta/core/telegram/helpers"
	"github.com/m3rciful/carta/internal/catalog"
	"github.com/m3rciful/carta/internal/session"
)

func (e *Engine) replyPrice(c tele.Context) error {
	pending := pendingFrom(c)
	price, err := catalog.ParsePrice(c.Text())
	if err != nil {
		return e.invalid(c, "price", msgInvalidPrice)
	}
	var oldPrice string
	p, err := e.repo.Update(tghelpers.BuildContext(c), pending.Ref(), func(p *catalog.Product) (string, error) {
		oldPrice = p.ES.Price
		p.SetPrice(price)
		return changePrice(p.ES.Name, oldPrice, price), nil
	})
	if err != nil {
		return e.storageError(c, opPrice, "price", err)
	}
	return e.committed(c, opPrice, "price", p, priceUpdated(p.ES.Name, oldPrice, price))
}

func (e *Engine) replyName(c tele.Context) error {
	pending := pendingFrom(c)
	names, err := catalog.ParseNames(c.Text())
	if err != nil {
		return e.invalid(c, "rename", invalidNames("Cortadito / Short Cut / Tallat"))
	}
	p, err := e.repo.Update(tghelpers.BuildContext(c), pending.Ref(), func(p *catalog.Product) (string, error) {
		old := p.ES.Name
		p.Rename(names)
		return changeRename(old, names.ES), nil
	})
	if err != nil {
		return e.storageError(c, opRename, "rename", err)
	}
	return e.committed(c, opRename, "rename", p, renamed(names))
}

func (e *Engine) replyDescription(c tele.Context) error {
	pending := pendingFrom(c)
	desc, wipe, err := catalog.ParseDescriptions(c.Text())
	if err != nil {
		return e.invalid(c, "describe", msgInvalidDescs)
	}
	p, err := e.repo.Update(tghelpers.BuildContext(c), pending.Ref(), func(p *catalog.Product) (string, error) {
		if wipe {
			p.ClearDescription()
			return changeClearDescription(p.ES.Name), nil
		}
		p.Describe(desc)
		return changeDescription(p.ES.Name), nil
	})
	if err != nil {
		return e.storageError(c, opDescribe, "describe", err)
	}
	if wipe {
		return e.committed(c, opDescribe, "describe", p, descriptionCleared(p.ES.Name))
	}
	return e.committed(c, opDescribe, "describe", p, descriptionUpdated(p.ES.Name, desc))
}

// replyAddNames is the first add step: it only moves the session forward.
func (e *Engine) replyAddNames(c tele.Context) error {
	pending := pendingFrom(c)
	names, err := catalog.ParseNames(c.Text())
	if err != nil {
		return e.invalid(c, "add", invalidNames("Bombón / Bombón / Bombó"))
	}
	next := session.Pending{Kind: session.KindAddPrice, Category: pending.Category, Names: names}
	return e.prompt(c, next, addPricePrompt(names))
}

func (e *Engine) replyAddPrice(c tele.Context) error {
	pending := pendingFrom(c)
	price, err := catalog.ParsePrice(c.Text())
	if err != nil {
		return e.invalid(c, "add", msgInvalidPrice)
	}
	product := catalog.NewProduct(pending.Category, pending.Names, price)
	p, err := e.repo.Create(tghelpers.BuildContext(c), pending.Category, product, changeAdd(pending.Names.ES, price))
	if err != nil {
		return e.storageError(c, opAdd, "add", err)
	}
	return e.committed(c, opAdd, "add", p, added(p, pending.Category))
}
