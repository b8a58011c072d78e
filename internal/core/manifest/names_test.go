package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanItemName(t *testing.T) {
	cases := map[string]string{
		"Blue Dream 3.5g (SUP-001)":              "Blue Dream 3.5g",
		"Gelato Cart 1g | Supplier: Acme Labs":   "Gelato Cart 1g",
		"OG Kush -- Pre-Roll - Vendor: XYZ":      "OG Kush - Pre-Roll",
		"Sour Diesel Mfr: Acme":                  "Sour Diesel",
		"  Blue   Dream  ":                       "Blue Dream",
		"| Blue Dream |":                         "Blue Dream",
		"Blue Dream,, Flower":                    "Blue Dream, Flower",
		"Brand New Kush":                         "Brand New Kush",
		"Kush (Indica)":                          "Kush (Indica)",
		"Mints [10pk]":                           "Mints [10pk]",
		"Blue Dream 3.5g (SUP-001) | Brand: Acme": "Blue Dream 3.5g",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, CleanItemName(in))
		})
	}
}

func TestCleanItemName_NeverEmptiesText(t *testing.T) {
	assert.Equal(t, "Supplier: Acme", CleanItemName("  Supplier:   Acme "))
	assert.Equal(t, "---", CleanItemName("---"))
	assert.Equal(t, "", CleanItemName("   "))
}

func TestCleanItemName_Idempotent(t *testing.T) {
	inputs := []string{
		"Blue Dream 3.5g (SUP-001)",
		"OG Kush -- Pre-Roll - Vendor: XYZ",
		"| a || b |",
		"Supplier: Acme",
		"x - - - y (AB12) (CD34)",
		"Gummies 10pk; ; Sour",
	}
	for _, in := range inputs {
		once := CleanItemName(in)
		assert.Equal(t, once, CleanItemName(once), in)
	}
}
