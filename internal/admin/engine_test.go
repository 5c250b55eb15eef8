package admin

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/m3rciful/carta/internal/catalog"
	"github.com/m3rciful/carta/internal/session"
)

func TestUnauthorizedSenderNeverMutates(t *testing.T) {
	h := newHarness(t, harnessOptions{adminID: adminID})
	before := h.fileBytes()
	beer := h.find(catalog.Beers, "Voll-Damm")

	calls := h.say(strangerID, "/start")
	if msg := only(t, calls); msg.text() != msgDenied || msg.chatID() != "7" {
		t.Fatalf("unexpected deny message %+v", msg)
	}

	calls = h.press(strangerID, "x:be:"+beer.Locator)
	if len(calls) != 2 || calls[0].Method != "answerCallbackQuery" {
		t.Fatalf("callback must be answered first: %+v", calls)
	}
	if calls[1].text() != msgDeniedButton {
		t.Fatalf("unexpected button deny %q", calls[1].text())
	}

	// even a pending edit cannot be completed by a stranger
	if err := h.sessions.Put(context.Background(), strangerID, session.Pending{
		Kind: session.KindPrice, Category: catalog.Beers, Locator: beer.Locator,
	}); err != nil {
		t.Fatal(err)
	}
	only(t, h.say(strangerID, "9"))

	if !bytes.Equal(before, h.fileBytes()) {
		t.Fatal("catalog changed by an unauthorized sender")
	}

	// the admin is unaffected
	msg := only(t, h.say(adminID, "/start"))
	if msg.text() != msgMenu {
		t.Fatalf("admin should see the menu, got %q", msg.text())
	}
}

func TestOpenModeAllowsEveryone(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	msg := only(t, h.say(strangerID, "hola"))
	if msg.text() != msgMenu || len(msg.buttons(t)) != 5 {
		t.Fatalf("expected main menu, got %+v", msg)
	}
}

func TestNavigation(t *testing.T) {
	h := newHarness(t, harnessOptions{adminID: adminID})

	msg := only(t, h.press(adminID, "a:p"))
	if msg.Method != "editMessageText" {
		t.Fatalf("navigation should edit, got %s", msg.Method)
	}
	expectText(t, msg, "💰 Modificar precio", "Elige categoría:")
	if got := len(msg.markup(t).InlineKeyboard); got != 5 {
		t.Fatalf("category grid rows = %d", got)
	}

	msg = only(t, h.press(adminID, buttonData(t, msg, "☕")))
	expectText(t, msg, "☕ <b>Bebidas Calientes</b>", "Elige producto:")
	if len(msg.buttons(t)) != 9 {
		t.Fatalf("expected 8 products and a back button, got %d", len(msg.buttons(t)))
	}
	if data := buttonData(t, msg, "← Volver"); data != "a:p" {
		t.Fatalf("back button data %q", data)
	}

	msg = only(t, h.press(adminID, "c:n:sa"))
	expectText(t, msg, "No hay productos en esta categoría.")

	msg = only(t, h.press(adminID, "m"))
	if msg.text() != msgMenu {
		t.Fatalf("m should show the menu, got %q", msg.text())
	}
}

func TestPriceFlow(t *testing.T) {
	h := newHarness(t, harnessOptions{adminID: adminID})
	list := only(t, h.press(adminID, "c:p:hd"))

	prompt := only(t, h.press(adminID, buttonData(t, list, "Cortado — 1.60€")))
	if prompt.Method != "sendMessage" || !prompt.markup(t).ForceReply {
		t.Fatalf("price prompt should force a reply: %+v", prompt)
	}
	expectText(t, prompt, "💰 <b>Cortado</b>", "Precio actual: <b>1.60€</b>")

	msg := only(t, h.say(adminID, "dos euros"))
	if msg.text() != msgInvalidPrice {
		t.Fatalf("unexpected validation reply %q", msg.text())
	}
	if p, ok := h.pending(adminID); !ok || p.Kind != session.KindPrice {
		t.Fatal("session must survive a validation failure")
	}

	msg = only(t, h.say(adminID, "2,50 €"))
	expectText(t, msg, "✅ <b>Cortado</b>", "1.60€ → <b>2.50€</b>", msgRefresh)
	if data := buttonData(t, msg, "← Volver al menú"); data != "m" {
		t.Fatalf("back data %q", data)
	}
	if got := h.find(catalog.HotDrinks, "Cortado"); got.ES.Price != "2.50" || got.CA.Price != "2.50" || got.EN.Price != "2.50" {
		t.Fatalf("price not stored in every locale: %+v", got)
	}
	if _, ok := h.pending(adminID); ok {
		t.Fatal("session should be cleared after a commit")
	}
}

func TestRenameFlow(t *testing.T) {
	h := newHarness(t, harnessOptions{adminID: adminID})
	porter := h.find(catalog.CraftBeers, "Porter")

	prompt := only(t, h.press(adminID, "i:n:cb:"+porter.Locator))
	expectText(t, prompt, "✏️ <b>Porter</b>", "Escribe los nuevos nombres")

	msg := only(t, h.say(adminID, "Stout / Stout"))
	expectText(t, msg, "Cortadito / Short Cut / Tallat")

	msg = only(t, h.say(adminID, " Stout <b> /  Stout /Stout "))
	expectText(t, msg, "✅ Producto renombrado:", "🇪🇸 Stout &lt;b&gt;", "🇦🇩 Stout")
	got := h.list(catalog.CraftBeers)
	if got[1].ES.Name != "Stout <b>" || got[1].EN.Name != "Stout" || got[1].CA.Name != "Stout" {
		t.Fatalf("unexpected names %+v", got[1])
	}
}

func TestDescribeClearTwice(t *testing.T) {
	h := newHarness(t, harnessOptions{adminID: adminID})

	for i := 0; i < 2; i++ {
		matcha := h.find(catalog.HotDrinks, "Matcha latte")
		prompt := only(t, h.press(adminID, "i:ds:hd:"+matcha.Locator))
		expectText(t, prompt, "📝 <b>Matcha latte</b>", `Escribe "borrar"`)

		msg := only(t, h.say(adminID, "  BoRRar "))
		expectText(t, msg, "✅ Descripción eliminada de <b>Matcha latte</b>")

		got := h.find(catalog.HotDrinks, "Matcha latte")
		if got.HasDescription() || got.EN.Description != "" || got.CA.Description != "" {
			t.Fatalf("round %d: description survived %+v", i, got)
		}
	}
}

func TestDescribeFlow(t *testing.T) {
	h := newHarness(t, harnessOptions{adminID: adminID})
	olives := h.find(catalog.Snacks, "Olivas")

	prompt := only(t, h.press(adminID, "i:ds:sn:"+olives.Locator))
	expectText(t, prompt, "🇪🇸 (sin descripción)", "🇬🇧 (no description)", "🇦🇩 (sense descripció)")

	msg := only(t, h.say(adminID, "solo una"))
	if msg.text() != msgInvalidDescs {
		t.Fatalf("unexpected reply %q", msg.text())
	}
	msg = only(t, h.say(adminID, "Aliñadas / Dressed / Amanides"))
	expectText(t, msg, "✅ Descripción de <b>Olivas</b> actualizada:", "🇬🇧 Dressed")
	if got := h.find(catalog.Snacks, "Olivas"); got.ES.Description != "Aliñadas" || got.CA.Description != "Amanides" {
		t.Fatalf("description not stored: %+v", got)
	}
}

func TestAddFlow(t *testing.T) {
	h := newHarness(t, harnessOptions{adminID: adminID})
	before := len(h.list(catalog.ColdDrinks))

	prompt := only(t, h.press(adminID, "c:a:cd"))
	expectText(t, prompt, "➕ <b>Añadir a 🧊 Bebidas Frías</b>", "Bombón / Bombón / Bombó")
	if !prompt.markup(t).ForceReply {
		t.Fatal("add prompt should force a reply")
	}

	msg := only(t, h.say(adminID, "Bombón"))
	expectText(t, msg, "Ejemplo: <i>Bombón / Bombón / Bombó</i>")

	msg = only(t, h.say(adminID, "Bombón / Bombón / Bombó"))
	expectText(t, msg, "💰 <b>Bombón</b>", "Escribe el precio:")
	p, ok := h.pending(adminID)
	if !ok || p.Kind != session.KindAddPrice || p.Names != (catalog.Triple{ES: "Bombón", EN: "Bombón", CA: "Bombó"}) {
		t.Fatalf("unexpected pending %+v", p)
	}

	msg = only(t, h.say(adminID, "-1"))
	if msg.text() != msgInvalidPrice {
		t.Fatalf("negative price accepted: %q", msg.text())
	}

	msg = only(t, h.say(adminID, "2,50"))
	expectText(t, msg, "✅ <b>Bombón</b> añadido a 🧊 Bebidas Frías", "Precio: <b>2.50€</b>")

	list := h.list(catalog.ColdDrinks)
	if len(list) != before+1 {
		t.Fatalf("len = %d, want %d", len(list), before+1)
	}
	last := list[len(list)-1]
	if last.ES.Name != "Bombón" || last.EN.Name != "Bombón" || last.CA.Name != "Bombó" || last.ES.Price != "2.50" {
		t.Fatalf("unexpected product %+v", last)
	}
}

func TestDeleteFlow(t *testing.T) {
	h := newHarness(t, harnessOptions{adminID: adminID})
	estrella := h.find(catalog.Beers, "Estrella Galicia 33 cl")

	confirm := only(t, h.press(adminID, "i:d:be:"+estrella.Locator))
	if confirm.Method != "editMessageText" {
		t.Fatalf("confirmation should edit, got %s", confirm.Method)
	}
	expectText(t, confirm, `¿Seguro que quieres eliminar <b>"Estrella Galicia 33 cl"</b>`)
	rows := confirm.markup(t).InlineKeyboard
	if len(rows) != 1 || len(rows[0]) != 2 || rows[0][1].Data != "c:d:be" {
		t.Fatalf("unexpected confirm keyboard %+v", rows)
	}

	// cancelling goes back to the list and leaves the catalog alone
	only(t, h.press(adminID, rows[0][1].Data))
	if len(h.list(catalog.Beers)) != 2 {
		t.Fatal("cancel deleted something")
	}

	msg := only(t, h.press(adminID, rows[0][0].Data))
	expectText(t, msg, `🗑 <b>"Estrella Galicia 33 cl"</b> eliminado de 🍺 Cervezas.`)
	list := h.list(catalog.Beers)
	if len(list) != 1 || list[0].ES.Name != "Voll-Damm" {
		t.Fatalf("unexpected list after delete %+v", list)
	}

	// a second press of the same button must not remove the neighbour
	msg = only(t, h.press(adminID, rows[0][0].Data))
	if msg.text() != msgNotFound {
		t.Fatalf("expected not found, got %q", msg.text())
	}
	if len(h.list(catalog.Beers)) != 1 {
		t.Fatal("stale delete removed another product")
	}
}

func TestStaleLocatorIsNotFound(t *testing.T) {
	h := newHarness(t, harnessOptions{adminID: adminID})
	msg := only(t, h.press(adminID, "i:p:hd:99-deadbeef"))
	if msg.text() != msgNotFound {
		t.Fatalf("expected not found, got %q", msg.text())
	}
	if _, ok := h.pending(adminID); ok {
		t.Fatal("not found should leave no session")
	}
}

type conflictingRepo struct {
	catalog.Repository
}

func (conflictingRepo) Update(context.Context, catalog.Ref, catalog.Mutation) (catalog.Product, error) {
	return catalog.Product{}, catalog.ErrConflict
}

func TestStorageFailureEndsConversation(t *testing.T) {
	h := newHarness(t, harnessOptions{
		adminID: adminID,
		backend: BackendGitHub,
		wrap:    func(r catalog.Repository) catalog.Repository { return conflictingRepo{r} },
	})
	solo := h.find(catalog.HotDrinks, "Solo")
	only(t, h.press(adminID, "i:p:hd:"+solo.Locator))

	msg := only(t, h.say(adminID, "3"))
	if msg.text() != "❌ Error al actualizar precio. Verifica GITHUB_TOKEN." {
		t.Fatalf("unexpected failure text %q", msg.text())
	}
	if _, ok := h.pending(adminID); ok {
		t.Fatal("session should be cleared after a storage failure")
	}
	// the next text is unrelated again
	if msg := only(t, h.say(adminID, "3")); msg.text() != msgMenu {
		t.Fatalf("expected menu, got %q", msg.text())
	}
}

func TestCancelCommand(t *testing.T) {
	h := newHarness(t, harnessOptions{adminID: adminID})
	only(t, h.press(adminID, "c:a:to"))
	if _, ok := h.pending(adminID); !ok {
		t.Fatal("add prompt should open a session")
	}
	msg := only(t, h.say(adminID, "/cancel"))
	if !strings.HasPrefix(msg.text(), msgCancelled) {
		t.Fatalf("unexpected cancel reply %q", msg.text())
	}
	if _, ok := h.pending(adminID); ok {
		t.Fatal("cancel should clear the session")
	}
}

func TestMenuCommandAbandonsPrompt(t *testing.T) {
	for _, cmd := range []string{"/menu", "/start"} {
		h := newHarness(t, harnessOptions{adminID: adminID})
		voll := h.find(catalog.Beers, "Voll-Damm")
		before := h.fileBytes()

		only(t, h.press(adminID, "i:p:be:"+voll.Locator))
		if msg := only(t, h.say(adminID, cmd)); msg.text() != msgMenu {
			t.Fatalf("%s: expected menu, got %q", cmd, msg.text())
		}
		if _, ok := h.pending(adminID); ok {
			t.Fatalf("%s: menu should clear the session", cmd)
		}
		if msg := only(t, h.say(adminID, "9")); msg.text() != msgMenu {
			t.Fatalf("%s: expected menu for unrelated text, got %q", cmd, msg.text())
		}
		if got := h.find(catalog.Beers, "Voll-Damm"); got.ES.Price != "2.40" {
			t.Fatalf("%s: price changed to %q", cmd, got.ES.Price)
		}
		if !bytes.Equal(h.fileBytes(), before) {
			t.Fatalf("%s: menu file was rewritten", cmd)
		}
	}
}

func TestBareCommandWordIsAReply(t *testing.T) {
	h := newHarness(t, harnessOptions{adminID: adminID})
	voll := h.find(catalog.Beers, "Voll-Damm")
	only(t, h.press(adminID, "i:p:be:"+voll.Locator))

	for _, word := range []string{"cancel", "menu", "start"} {
		msg := only(t, h.say(adminID, word))
		if msg.text() != msgInvalidPrice {
			t.Fatalf("%q: expected price validation, got %q", word, msg.text())
		}
		if p, ok := h.pending(adminID); !ok || p.Kind != session.KindPrice {
			t.Fatalf("%q: price prompt should stay open", word)
		}
	}
}

func TestStorageFailureText(t *testing.T) {
	if got := storageFailure(opDelete, BackendPostgres); got != "❌ Error al eliminar." {
		t.Fatalf("postgres: %q", got)
	}
	if got := storageFailure(opRead, BackendGitHub); got != "❌ Error al leer el menú desde GitHub. Verifica GITHUB_TOKEN." {
		t.Fatalf("github read: %q", got)
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := New(Options{Repository: conflictingRepo{}, Sessions: session.NewMemoryStore(0), AdminID: -1}); err == nil {
		t.Fatal("expected error for negative admin id")
	}
}
