package catalog

import "testing"

func TestSlug(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Tradicional", "tradicional"},
		{"Café", "cafe"},
		{"Banana com canela", "banana-com-canela"},
		{"Pé de Moleque", "pe-de-moleque"},
		{"Cenoura c/ brigadeiro", "cenoura-c/-brigadeiro"},
		{"Maracujá cobert. mousse", "maracuja-cobert.-mousse"},
		{"Limão\tcom  calda", "limao-com--calda"},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Fatalf("Slug(%q): want=%q got=%q", tc.in, tc.want, got)
		}
	}
}
