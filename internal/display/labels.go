package display

import (
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/m3rciful/carta/internal/catalog"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// Labels is the fixed page copy for one language.
type Labels struct {
	LangName       string                      `yaml:"lang_name"`
	Title          string                      `yaml:"title"`
	Subtitle       string                      `yaml:"subtitle"`
	Drinks         string                      `yaml:"drinks"`
	Food           string                      `yaml:"food"`
	TaxIncluded    string                      `yaml:"tax_included"`
	MilkSupplement string                      `yaml:"milk_supplement"`
	AllergenInfo   string                      `yaml:"allergen_info"`
	Sections       map[catalog.Category]string `yaml:"sections"`
	Allergens      map[catalog.Allergen]string `yaml:"allergens"`
}

// LoadLabels reads the label files for every locale from fsys.
func LoadLabels(fsys fs.FS) (map[catalog.Locale]Labels, error) {
	out := make(map[catalog.Locale]Labels, len(catalog.Locales()))
	for _, loc := range catalog.Locales() {
		name := fmt.Sprintf("locales/%s.yaml", loc)
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("display: read %s: %w", name, err)
		}
		var l Labels
		if err := yaml.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("display: parse %s: %w", name, err)
		}
		if err := l.validate(); err != nil {
			return nil, fmt.Errorf("display: %s: %w", name, err)
		}
		out[loc] = l
	}
	return out, nil
}

func (l Labels) validate() error {
	for _, cat := range catalog.Categories() {
		if l.Sections[cat] == "" {
			return fmt.Errorf("missing section label %s", cat)
		}
	}
	for _, a := range catalog.Allergens() {
		if l.Allergens[a] == "" {
			return fmt.Errorf("missing allergen label %s", a)
		}
	}
	return nil
}
