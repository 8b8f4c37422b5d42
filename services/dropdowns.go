package services

// UnitOptions returns the list of unit options for products and request items.
var UnitOptions = []string{
	"Adet",
	"Kg",
	"Gr",
	"Lt",
	"Mt",
	"M2",
	"M3",
	"Paket",
	"Kutu",
	"Koli",
	"Takım",
	"Çift",
	"Saat",
	"Gün",
	"Ay",
}

// TaxRateOptions returns the list of VAT percentage options.
var TaxRateOptions = []float64{0, 1, 10, 20}

// CurrencyOptions returns the supported proposal currency codes.
var CurrencyOptions = []string{"TL", "EUR", "USD", "GBP"}

// PriorityOptions returns the price request priority levels.
var PriorityOptions = []string{"low", "normal", "high", "urgent"}
