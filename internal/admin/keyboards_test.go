package admin

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/m3rciful/carta/core/telegram/callbacks"
	"github.com/m3rciful/carta/internal/catalog"
)

func TestMainMenuPayloads(t *testing.T) {
	var got []string
	for _, row := range MainMenu().InlineKeyboard {
		if len(row) != 1 {
			t.Fatalf("main menu rows hold one button, got %d", len(row))
		}
		got = append(got, row[0].Data)
	}
	want := []string{"a:p", "a:n", "a:ds", "a:a", "a:d"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("payloads = %v, want %v", got, want)
	}
}

func TestCategoryGridLayout(t *testing.T) {
	rows := CategoryGrid(ActDescribe).InlineKeyboard
	if len(rows) != 5 {
		t.Fatalf("rows = %d", len(rows))
	}
	for i, row := range rows[:4] {
		if len(row) != 2 {
			t.Fatalf("row %d has %d buttons", i, len(row))
		}
	}
	if rows[0][0].Text != "☕ Bebidas Calientes" || rows[0][0].Data != "c:ds:hd" {
		t.Fatalf("first button %+v", rows[0][0])
	}
	if rows[3][1].Data != "c:ds:sa" {
		t.Fatalf("last category %+v", rows[3][1])
	}
	if back := rows[4][0]; back.Text != "← Volver" || back.Data != "m" {
		t.Fatalf("back button %+v", back)
	}
}

func TestProductListLabels(t *testing.T) {
	long := catalog.NewProduct(catalog.Toasts, catalog.Triple{
		ES: "Tostada de pan de payés con tomate, aceite y jamón ibérico de bellota",
		EN: "x", CA: "x",
	}, "12.50")
	long.Locator = "12-0badc0de"
	short := catalog.NewProduct(catalog.Toasts, catalog.Triple{ES: "Atún", EN: "Tuna", CA: "Tonyina"}, "6")
	short.Locator = "3-00000001"

	markup, err := ProductList(ActPrice, catalog.Toasts, []catalog.Product{long, short})
	if err != nil {
		t.Fatal(err)
	}
	rows := markup.InlineKeyboard
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	first := rows[0][0]
	if utf8.RuneCountInString(first.Text) != maxButtonLabel || !strings.HasSuffix(first.Text, "...") {
		t.Fatalf("label not truncated: %q", first.Text)
	}
	if rows[1][0].Text != "Atún — 6€" {
		t.Fatalf("reprice label %q", rows[1][0].Text)
	}
	if rows[0][0].Data != "i:p:to:12-0badc0de" {
		t.Fatalf("payload %q", rows[0][0].Data)
	}
	if rows[2][0].Data != "a:p" {
		t.Fatalf("back payload %q", rows[2][0].Data)
	}

	markup, _ = ProductList(ActRename, catalog.Toasts, []catalog.Product{short})
	if markup.InlineKeyboard[0][0].Text != "Atún" {
		t.Fatalf("rename label %q", markup.InlineKeyboard[0][0].Text)
	}
}

func TestPayloadsFitTelegramLimit(t *testing.T) {
	p := catalog.Product{Locator: "123456789-ffffffff"}
	for _, a := range []Action{ActPrice, ActRename, ActDescribe, ActDelete} {
		for _, cat := range catalog.Categories() {
			markup, err := ProductList(a, cat, []catalog.Product{p})
			if err != nil {
				t.Fatal(err)
			}
			for _, row := range markup.InlineKeyboard {
				for _, b := range row {
					if len(b.Data) > callbacks.MaxDataLen {
						t.Fatalf("%q exceeds %d bytes", b.Data, callbacks.MaxDataLen)
					}
				}
			}
		}
	}

	tooLong := catalog.Product{Locator: strings.Repeat("9", 64)}
	if _, err := ProductList(ActPrice, catalog.Toasts, []catalog.Product{tooLong}); err == nil {
		t.Fatal("expected an error for an oversized payload")
	}
}
