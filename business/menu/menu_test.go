package menu

import (
	"encoding/json"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowerAndTrim", in: "  Menu  ", want: "menu"},
		{name: "stripTashkeel", in: "شَاوَرْمَا", want: "شاورما"},
		{name: "foldAlefVariants", in: "أهلاً إكرام آخر", want: "اهلا اكرام اخر"},
		{name: "foldYaAndTa", in: "شاورمى دجاجة", want: "شاورمي دجاجه"},
		{name: "collapseWhitespace", in: "شاورما   دجاج", want: "شاورما دجاج"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCatalogResolve(t *testing.T) {
	catalog := Default()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "exactMatch", in: "شاورما دجاج", want: "شاورما دجاج"},
		{name: "withDiacritics", in: "شَاوَرما دجاج", want: "شاورما دجاج"},
		{name: "withArticle", in: "الكباب", want: "كباب"},
		{name: "substringMention", in: "بدي شاورما دجاج لو سمحت", want: "شاورما دجاج"},
		{name: "shortKnownInsideUtterance", in: "وكمان حمص", want: "حمص"},
		{name: "unknownItem", in: "بيتزا", wantErr: true},
		{name: "emptyInput", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := catalog.Resolve(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Resolve(%q) = %q, want error", tt.in, item.Name)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.in, err)
			}
			if item.Name != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.in, item.Name, tt.want)
			}
		})
	}
}

func TestResolvePrefersLongestName(t *testing.T) {
	catalog := Default()

	// The utterance mentions both a full item name and a shorter one
	// embedded in it; the longest known name wins.
	item, err := catalog.Resolve("فروج مشوي")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if item.Name != "فروج مشوي" {
		t.Errorf("Resolve = %q, want %q", item.Name, "فروج مشوي")
	}
}

func TestPriceDollars(t *testing.T) {
	tests := []struct {
		name  string
		price Price
		want  string
	}{
		{name: "wholeDollars", price: 1500, want: "15.00"},
		{name: "withCents", price: 1234, want: "12.34"},
		{name: "underOneDollar", price: 5, want: "0.05"},
		{name: "zero", price: 0, want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.price.Dollars(); got != tt.want {
				t.Errorf("Dollars() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPriceFromFloat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want Price
	}{
		{name: "exact", in: 15.00, want: 1500},
		{name: "roundsHalfUp", in: 0.005, want: 1},
		{name: "floatNoise", in: 19.999999999, want: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromFloat(tt.in); got != tt.want {
				t.Errorf("FromFloat(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestPriceJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Price(1500))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "15.00" {
		t.Errorf("marshal = %s, want 15.00", data)
	}

	var p Price
	if err := json.Unmarshal([]byte("12.34"), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p != 1234 {
		t.Errorf("unmarshal = %d, want 1234", p)
	}
}

func TestDefaultCatalog(t *testing.T) {
	catalog := Default()

	if got := len(catalog.Items()); got != 9 {
		t.Fatalf("Items() = %d items, want 9", got)
	}
	if catalog.Currency() != "USD" {
		t.Errorf("Currency() = %q, want USD", catalog.Currency())
	}

	item, err := catalog.Resolve("عيران")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if item.Price != 300 {
		t.Errorf("price = %d, want 300", item.Price)
	}
}
