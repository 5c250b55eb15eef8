package format

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	short := "Café con leche — 1.80€"
	if Truncate(short, 45) != short {
		t.Fatal("short label changed")
	}
	long := strings.Repeat("ñ", 50)
	got := Truncate(long, 45)
	if utf8.RuneCountInString(got) != 45 || !strings.HasSuffix(got, "...") {
		t.Fatalf("Truncate = %q", got)
	}
	if Truncate(strings.Repeat("a", 46), 45) != strings.Repeat("a", 42)+"..." {
		t.Fatal("expected 42 runes plus ellipsis")
	}
}

func TestEscapeAndLines(t *testing.T) {
	if got := EscapeHTML(`<b>"Cabro"</b> & co`); strings.ContainsAny(got, "<>") {
		t.Fatalf("EscapeHTML = %q", got)
	}
	if got := Lines("a", "", "b"); got != "a\n\nb" {
		t.Fatalf("Lines = %q", got)
	}
}
