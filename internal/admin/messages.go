package admin

import (
	"fmt"

	"github.com/m3rciful/carta/core/telegram/format"
	"github.com/m3rciful/carta/internal/catalog"
)

const (
	msgMenu          = "🍽 <b>Gestión de Carta - L'Alternativa</b>\n\n¿Qué quieres hacer?"
	msgDenied        = "⛔ No tienes permisos para usar este bot."
	msgDeniedButton  = "⛔ No tienes permisos."
	msgNotFound      = "❌ Producto no encontrado. Puede que haya sido eliminado."
	msgInvalidPrice  = "❌ Precio no válido. Escribe un número, por ejemplo: <b>2.50</b>"
	msgInvalidDescs  = "❌ Formato incorrecto. Escribe 3 descripciones separadas por /\nO escribe <b>\"borrar\"</b> para quitar la descripción."
	msgSessionFailed = "❌ No se pudo guardar la conversación. Inténtalo de nuevo."
	msgCancelled     = "Operación cancelada."
	msgRefresh       = "♻️ La web se actualizará en ~1 minuto."
)

func esc(s string) string { return format.EscapeHTML(s) }

func invalidNames(example string) string {
	return "❌ Formato incorrecto. Escribe 3 nombres separados por /\nEjemplo: <i>" + example + "</i>"
}

func chooseCategory(a Action) string {
	return a.Label() + "\n\nElige categoría:"
}

func chooseProduct(cat catalog.Category) string {
	return fmt.Sprintf("%s <b>%s</b>\n\nElige producto:", cat.Emoji(), cat.Label())
}

func emptyCategory(cat catalog.Category) string {
	return fmt.Sprintf("%s <b>%s</b>\n\nNo hay productos en esta categoría.", cat.Emoji(), cat.Label())
}

func addPrompt(cat catalog.Category) string {
	return fmt.Sprintf("➕ <b>Añadir a %s</b>\n\nEscribe el nombre del producto en los 3 idiomas separados por /\nEjemplo: <i>Bombón / Bombón / Bombó</i>", cat.Title())
}

func pricePrompt(p catalog.Product) string {
	return fmt.Sprintf("💰 <b>%s</b>\nPrecio actual: <b>%s€</b>\n\nEscribe el nuevo precio:", esc(p.ES.Name), esc(p.ES.Price))
}

func renamePrompt(p catalog.Product) string {
	return fmt.Sprintf("✏️ <b>%s</b>\n\n%s\n\nEscribe los nuevos nombres (es / en / ca):", esc(p.ES.Name), flags(p.Names()))
}

func describePrompt(p catalog.Product) string {
	current := catalog.Triple{
		ES: orDefault(p.ES.Description, "(sin descripción)"),
		EN: orDefault(p.EN.Description, "(no description)"),
		CA: orDefault(p.CA.Description, "(sense descripció)"),
	}
	return fmt.Sprintf("📝 <b>%s</b>\n\n%s\n\nEscribe las nuevas descripciones (es / en / ca):\nEscribe \"%s\" para quitar la descripción.",
		esc(p.ES.Name), flags(current), catalog.ClearKeyword)
}

func addPricePrompt(names catalog.Triple) string {
	return fmt.Sprintf("💰 <b>%s</b>\n\nEscribe el precio:", esc(names.ES))
}

func deleteConfirm(p catalog.Product) string {
	return fmt.Sprintf("⚠️ ¿Seguro que quieres eliminar <b>\"%s\"</b> (%s€)?", esc(p.ES.Name), esc(p.ES.Price))
}

func deleted(p catalog.Product, cat catalog.Category) string {
	return fmt.Sprintf("🗑 <b>\"%s\"</b> eliminado de %s.\n\n%s", esc(p.ES.Name), cat.Title(), msgRefresh)
}

func priceUpdated(name, oldPrice, newPrice string) string {
	return fmt.Sprintf("✅ <b>%s</b>\nPrecio actualizado: %s€ → <b>%s€</b>\n\n%s", esc(name), esc(oldPrice), esc(newPrice), msgRefresh)
}

func renamed(names catalog.Triple) string {
	return "✅ Producto renombrado:\n" + flags(names) + "\n\n" + msgRefresh
}

func descriptionCleared(name string) string {
	return fmt.Sprintf("✅ Descripción eliminada de <b>%s</b>\n\n%s", esc(name), msgRefresh)
}

func descriptionUpdated(name string, desc catalog.Triple) string {
	return fmt.Sprintf("✅ Descripción de <b>%s</b> actualizada:\n%s\n\n%s", esc(name), flags(desc), msgRefresh)
}

func added(p catalog.Product, cat catalog.Category) string {
	return fmt.Sprintf("✅ <b>%s</b> añadido a %s\nPrecio: <b>%s€</b>\n\n%s", esc(p.ES.Name), cat.Title(), esc(p.ES.Price), msgRefresh)
}

func flags(t catalog.Triple) string {
	return "🇪🇸 " + esc(t.ES) + "\n🇬🇧 " + esc(t.EN) + "\n🇦🇩 " + esc(t.CA)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Audit messages recorded by the storage backend for each write.

func changePrice(name, oldPrice, newPrice string) string {
	return fmt.Sprintf("%s: %s -> %s", name, oldPrice, newPrice)
}

func changeRename(oldName, newName string) string {
	return fmt.Sprintf("Renombrado: %s -> %s", oldName, newName)
}

func changeClearDescription(name string) string { return "Descripcion eliminada: " + name }

func changeDescription(name string) string { return "Descripcion actualizada: " + name }

func changeAdd(name, price string) string { return fmt.Sprintf("Anadido: %s (%s)", name, price) }

func changeDelete(name string) string { return "Eliminado: " + name }

// operation names a storage call for the failure message shown to the admin.
type operation string

const (
	opRead     operation = "read"
	opPrice    operation = "price"
	opRename   operation = "rename"
	opDescribe operation = "describe"
	opAdd      operation = "add"
	opDelete   operation = "delete"
)

var failureText = map[operation]string{
	opRead:     "❌ Error al leer el menú.",
	opPrice:    "❌ Error al actualizar precio.",
	opRename:   "❌ Error al renombrar.",
	opDescribe: "❌ Error al actualizar descripción.",
	opAdd:      "❌ Error al añadir producto.",
	opDelete:   "❌ Error al eliminar.",
}

// storageFailure is the generic message for op. The GitHub backend adds a
// hint about the token, the usual cause there.
func storageFailure(op operation, backend string) string {
	msg := failureText[op]
	if backend == BackendGitHub {
		if op == opRead {
			msg = "❌ Error al leer el menú desde GitHub."
		}
		msg += " Verifica GITHUB_TOKEN."
	}
	return msg
}
