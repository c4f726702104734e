package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// ErrUnknownItem reports a food name that does not resolve to any menu
// item. Callers surface it to the customer as a clarification.
var ErrUnknownItem = errors.New("menu: unknown item")

// Price is a fixed-point amount in cents. It marshals as a two-decimal
// number so API payloads read as regular currency values.
type Price int64

func (p Price) Dollars() string {
	return fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Dollars()), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = FromFloat(f)
	return nil
}

// FromFloat converts a decimal amount to cents, rounding half up.
func FromFloat(f float64) Price {
	return Price(math.Floor(f*100 + 0.5))
}

type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NameEn      string `json:"name_en"`
	Description string `json:"description"`
	Price       Price  `json:"price"`
	Available   bool   `json:"available"`
}

type Category struct {
	Name   string `json:"name"`
	NameEn string `json:"name_en"`
	Items  []Item `json:"items"`
}

type menuFile struct {
	Categories []Category `json:"categories"`
	Currency   string     `json:"currency"`
}

// Catalog is the read-only item lookup shared by every session. It is
// loaded once at startup and safe for concurrent reads.
type Catalog struct {
	categories []Category
	currency   string
	byNorm     map[string]Item
	normNames  []string
}

// Load reads the menu from a JSON file on disk.
func Load(menuFilePath string) (*Catalog, error) {
	file, err := os.Open(menuFilePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	var mf menuFile
	if err := json.Unmarshal(fileBytes, &mf); err != nil {
		return nil, err
	}
	if len(mf.Categories) == 0 {
		return nil, fmt.Errorf("menu file %s has no categories", menuFilePath)
	}

	return NewCatalog(mf.Categories, mf.Currency), nil
}

func NewCatalog(categories []Category, currency string) *Catalog {
	if currency == "" {
		currency = "USD"
	}

	c := &Catalog{
		categories: categories,
		currency:   currency,
		byNorm:     make(map[string]Item),
	}

	for _, cat := range categories {
		for _, item := range cat.Items {
			if !item.Available {
				continue
			}
			for _, name := range []string{item.Name, item.NameEn} {
				norm := Normalize(name)
				if norm == "" {
					continue
				}
				if _, exists := c.byNorm[norm]; !exists {
					c.byNorm[norm] = item
					c.normNames = append(c.normNames, norm)
				}
			}
		}
	}

	return c
}

func (c *Catalog) Categories() []Category {
	return c.categories
}

func (c *Catalog) Currency() string {
	return c.currency
}

func (c *Catalog) Items() []Item {
	var items []Item
	for _, cat := range c.categories {
		items = append(items, cat.Items...)
	}
	return items
}

// Resolve matches a raw extracted food name against the catalog:
// normalized exact match first, then definite-article tolerance, then
// substring containment in either direction.
func (c *Catalog) Resolve(raw string) (Item, error) {
	norm := Normalize(raw)
	if norm == "" {
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownItem, raw)
	}

	if item, ok := c.byNorm[norm]; ok {
		return item, nil
	}

	stripped := strings.TrimPrefix(norm, "ال")
	if item, ok := c.byNorm[stripped]; ok {
		return item, nil
	}
	if item, ok := c.byNorm["ال"+norm]; ok {
		return item, nil
	}

	// Substring matching guards against extractions like "صحن حمص" or
	// partial names. Longer known names are preferred so "شاورما دجاج"
	// wins over a hypothetical "شاورما".
	var best string
	for _, known := range c.normNames {
		if strings.Contains(norm, known) || (len([]rune(norm)) >= 3 && strings.Contains(known, norm)) {
			if len(known) > len(best) {
				best = known
			}
		}
	}
	if best != "" {
		return c.byNorm[best], nil
	}

	return Item{}, fmt.Errorf("%w: %q", ErrUnknownItem, raw)
}

// Normalize folds case and whitespace and strips the Arabic marks that
// vary between transcriptions: tashkeel, tatweel, alef and yaa variants.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 0x064B && r <= 0x0652: // tashkeel
			continue
		case r == 0x0640: // tatweel
			continue
		case r == 'أ' || r == 'إ' || r == 'آ':
			b.WriteRune('ا')
		case r == 'ى':
			b.WriteRune('ي')
		case r == 'ة':
			b.WriteRune('ه')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
