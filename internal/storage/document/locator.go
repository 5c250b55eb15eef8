package document

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/m3rciful/carta/internal/catalog"
)

// Locators are "<index>-<fingerprint>". The fingerprint hashes every stored
// field of the product so a locator handed out before a reorder or delete
// stops resolving instead of pointing at a neighbour, even one sharing its
// name. Products identical in every field are interchangeable.
func locatorFor(index int, p catalog.Product) string {
	return strconv.Itoa(index) + "-" + fingerprint(p)
}

func fingerprint(p catalog.Product) string {
	h := fnv.New32a()
	for _, l := range []catalog.Localized{p.ES, p.EN, p.CA} {
		for _, field := range []string{l.Name, l.Description, l.Price} {
			_, _ = h.Write([]byte(field))
			_, _ = h.Write([]byte{0})
		}
	}
	for _, a := range p.Allergens {
		_, _ = h.Write([]byte(a))
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%08x", h.Sum32())
}

// resolve returns the index addressed by locator within list.
func resolve(list []catalog.Product, locator string) (int, error) {
	idxText, fp, ok := strings.Cut(locator, "-")
	if !ok {
		return 0, catalog.ErrNotFound
	}
	idx, err := strconv.Atoi(idxText)
	if err != nil || idx < 0 || idx >= len(list) {
		return 0, catalog.ErrNotFound
	}
	if fingerprint(list[idx]) != fp {
		return 0, catalog.ErrNotFound
	}
	return idx, nil
}
